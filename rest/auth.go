package rest

import (
	"context"
	"errors"
	"fmt"
	"io"
	"mime"
	"net/http"
	"net/url"
	"strings"

	"github.com/rs/zerolog"
	"go.pushkit.dev/channels-sdk/internal/jsonerr"
	"go.pushkit.dev/channels-sdk/pkg/auth"
)

const maxAuthBody = 64 << 10

// MemberResolver decides who a connection is on a presence channel.
// It returns ErrForbidden to refuse the subscription.
type MemberResolver func(r *http.Request, socketID, channel string) (*auth.MemberData, error)

// AuthorizeChannel authorizes socketID to subscribe to channel, choosing
// the token kind from the channel's prefix. member is required for presence
// channels and ignored otherwise.
func (c *Client) AuthorizeChannel(ctx context.Context, socketID, channel string, member *auth.MemberData) (*auth.Token, error) {
	if err := validateSocketID(socketID); err != nil {
		return nil, err
	}
	if err := validateChannel(channel); err != nil {
		return nil, err
	}

	signer, key := c.client.Signer(), c.client.Key()
	switch {
	case strings.HasPrefix(channel, presencePrefix):
		return auth.AuthorizePresence(ctx, signer, key, socketID, channel, member)
	case isEncrypted(channel):
		masterKey := c.client.EncryptionMasterKey()
		if masterKey == nil {
			return nil, fmt.Errorf("%w: channel %q is encrypted but no encryption master key is configured", auth.ErrInvalidArgument, channel)
		}
		return auth.AuthorizeEncrypted(ctx, signer, key, socketID, channel, masterKey)
	case strings.HasPrefix(channel, privatePrefix):
		return auth.AuthorizePrivate(ctx, signer, key, socketID, channel)
	default:
		return nil, fmt.Errorf("%w: channel %q is public and needs no authorization", auth.ErrInvalidArgument, channel)
	}
}

// AuthenticateUser signs in the user behind socketID.
func (c *Client) AuthenticateUser(ctx context.Context, socketID string, user *auth.UserData) (*auth.Token, error) {
	if err := validateSocketID(socketID); err != nil {
		return nil, err
	}
	return auth.AuthenticateUser(ctx, c.client.Signer(), c.client.Key(), socketID, user)
}

// CreateAuthHandler returns a [http.HandlerFunc] that answers subscription
// authorization requests from client libraries.
//
// The request carries socket_id and channel_name either form encoded or as
// a JSON object. For presence channels resolve is called to identify the
// member; without a resolver presence channels are refused. The response is
// the JSON encoded [auth.Token].
func (c *Client) CreateAuthHandler(logger *zerolog.Logger, resolve MemberResolver) http.HandlerFunc {
	return func(w http.ResponseWriter, req *http.Request) {
		if req.Method != http.MethodPost {
			w.Header().Set("Allow", http.MethodPost)
			jsonerr.Error(w, errors.New("method not allowed"), http.StatusMethodNotAllowed)
			return
		}

		socketID, channel, err := readAuthRequest(req)
		if err != nil {
			logger.Err(err).Msg("error while reading channel authorization request")
			jsonerr.Error(w, err, http.StatusBadRequest)
			return
		}

		var member *auth.MemberData
		if strings.HasPrefix(channel, presencePrefix) {
			if resolve == nil {
				jsonerr.Error(w, ErrForbidden, http.StatusForbidden)
				return
			}
			member, err = resolve(req, socketID, channel)
			if errors.Is(err, ErrForbidden) {
				jsonerr.Error(w, err, http.StatusForbidden)
				return
			} else if err != nil {
				logger.Err(err).Str("channel", channel).Msg("error while resolving presence member")
				jsonerr.Error(w, err, http.StatusInternalServerError)
				return
			}
		}

		token, err := c.AuthorizeChannel(req.Context(), socketID, channel, member)
		if err != nil {
			logger.Err(err).Str("channel", channel).Msg("error while authorizing channel subscription")
			jsonerr.Error(w, err, 0)
			return
		}

		w.Header().Set("Content-Type", "application/json")
		w.Header().Set("Cache-Control", "no-store")
		if err := json.NewEncoder(w).Encode(token); err != nil {
			logger.Err(err).Msg("error while writing channel authorization")
		}
	}
}

func readAuthRequest(req *http.Request) (socketID, channel string, err error) {
	mediaType, _, _ := mime.ParseMediaType(req.Header.Get("Content-Type"))
	if mediaType == "application/json" {
		var body struct {
			SocketID    string `json:"socket_id"`
			ChannelName string `json:"channel_name"`
		}
		data, err := io.ReadAll(io.LimitReader(req.Body, maxAuthBody))
		if err != nil {
			return "", "", fmt.Errorf("unable to read request body: %w", err)
		}
		if err := json.Unmarshal(data, &body); err != nil {
			return "", "", fmt.Errorf("%w: unable to decode request body: %v", auth.ErrInvalidArgument, err)
		}
		return body.SocketID, body.ChannelName, nil
	}

	data, err := io.ReadAll(io.LimitReader(req.Body, maxAuthBody))
	if err != nil {
		return "", "", fmt.Errorf("unable to read request body: %w", err)
	}
	form, err := url.ParseQuery(string(data))
	if err != nil {
		return "", "", fmt.Errorf("%w: unable to decode request body: %v", auth.ErrInvalidArgument, err)
	}
	return form.Get("socket_id"), form.Get("channel_name"), nil
}
