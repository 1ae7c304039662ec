package auth

import (
	"context"
	"crypto/hmac"
	"fmt"
	"net/http"
)

const (
	WebhookKeyHeader       = "X-Pusher-Key"
	WebhookSignatureHeader = "X-Pusher-Signature"
)

// WebhookHeaders are the headers that authenticate a webhook delivery.
type WebhookHeaders struct {
	Key       string `header:"X-Pusher-Key"`
	Signature string `header:"X-Pusher-Signature"`
}

func WebhookHeadersFrom(h http.Header) *WebhookHeaders {
	return &WebhookHeaders{
		Key:       h.Get(WebhookKeyHeader),
		Signature: h.Get(WebhookSignatureHeader),
	}
}

// SignWebhook returns the headers the service attaches to a webhook body.
func SignWebhook(ctx context.Context, signer *Signer, key string, body []byte) (*WebhookHeaders, error) {
	sig, err := signer.Sign(ctx, string(body))
	if err != nil {
		return nil, err
	}
	return &WebhookHeaders{Key: key, Signature: sig}, nil
}

// VerifyWebhook checks that body was signed with the signer's secret
// for key.
func VerifyWebhook(ctx context.Context, signer *Signer, key string, headers *WebhookHeaders, body []byte) error {
	switch {
	case headers.Signature == "":
		return ErrNoSignature
	case headers.Key != key:
		return fmt.Errorf("%w: unknown key", ErrInvalidSignature)
	}

	expected, err := signer.Sign(ctx, string(body))
	if err != nil {
		return err
	}
	if !hmac.Equal([]byte(expected), []byte(headers.Signature)) {
		return ErrInvalidSignature
	}
	return nil
}
