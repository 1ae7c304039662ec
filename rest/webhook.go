package rest

import (
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/rs/zerolog"
	"go.pushkit.dev/channels-sdk/internal/jsonerr"
	"go.pushkit.dev/channels-sdk/pkg/auth"
	"go.pushkit.dev/channels-sdk/rest/types"
)

const maxWebhookBody = 1 << 20

// VerifyWebhook checks the signature of a webhook request and decodes its body.
//
// With a webhook max age configured, a webhook whose time_ms is further
// than that from the SDK's clock is rejected with auth.ErrAuthenticationExpired.
func (c *Client) VerifyWebhook(req *http.Request) (*types.Webhook, error) {
	body, err := io.ReadAll(io.LimitReader(req.Body, maxWebhookBody))
	if err != nil {
		return nil, fmt.Errorf("unable to read request body: %w", err)
	}

	err = auth.VerifyWebhook(req.Context(), c.client.Signer(), c.client.Key(), auth.WebhookHeadersFrom(req.Header), body)
	if err != nil {
		return nil, fmt.Errorf("unable to verify webhook: %w", err)
	}

	webhook := &types.Webhook{}
	if err := json.Unmarshal(body, webhook); err != nil {
		return nil, fmt.Errorf("%w: unable to unmarshal webhook: %v", auth.ErrInvalidArgument, err)
	}

	if maxAge := c.client.WebhookMaxAge(); maxAge > 0 {
		if age := c.client.Clock().Since(webhook.Time()); age > maxAge || age < -maxAge {
			return nil, fmt.Errorf("unable to verify webhook: %w: sent %s ago", auth.ErrAuthenticationExpired, age)
		}
	}
	return webhook, nil
}

// CreateWebhookHandler returns a [http.HandlerFunc] that receives webhooks.
//
// Every request is verified against the application secret before the body
// is decoded and passed to callback. Unverified requests are answered with
// 401 and never reach callback. If callback returns an error (or panics) the
// handler answers with 500 so that the delivery is retried by the service;
// otherwise it answers 200 OK.
func (c *Client) CreateWebhookHandler(logger *zerolog.Logger, callback types.WebhookCallback) http.HandlerFunc {
	return func(w http.ResponseWriter, req *http.Request) {
		if req.Method != http.MethodPost {
			w.Header().Set("Allow", http.MethodPost)
			jsonerr.Error(w, errors.New("method not allowed"), http.StatusMethodNotAllowed)
			return
		}

		// Decode the request
		webhook, err := c.VerifyWebhook(req)
		if err != nil {
			logger.Err(err).Msg("error while verifying webhook")
			jsonerr.Error(w, err, 0)
			return
		}

		// Run the callback, turning a panic into an error
		err = func() (err error) {
			defer func() {
				if r := recover(); r != nil {
					err = fmt.Errorf("panic while processing webhook: %v", r)
				}
			}()
			return callback(req.Context(), webhook)
		}()
		if err != nil {
			logger.Err(err).Int("events", len(webhook.Events)).Msg("error while handling webhook")
			jsonerr.Error(w, err, http.StatusInternalServerError)
			return
		}

		jsonerr.Error(w, nil, 0)
	}
}
