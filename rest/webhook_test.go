package rest

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	qt "github.com/frankban/quicktest"
	"github.com/rs/zerolog"
	"go.pushkit.dev/channels-sdk/internal/client"
	"go.pushkit.dev/channels-sdk/pkg/auth"
	"go.pushkit.dev/channels-sdk/rest/types"
)

const testWebhookBody = `{"time_ms":1327078148132,"events":[{"name":"member_added","channel":"presence-room","user_id":"42"}]}`

func newWebhookRequest(c *qt.C, body, secret string) *http.Request {
	headers, err := auth.SignWebhook(context.Background(), auth.NewSigner(nil, secret), testKey, []byte(body))
	c.Assert(err, qt.IsNil)

	req := httptest.NewRequest(http.MethodPost, "/channels/webhook", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set(auth.WebhookKeyHeader, headers.Key)
	req.Header.Set(auth.WebhookSignatureHeader, headers.Signature)
	return req
}

func TestCreateWebhookHandler(t *testing.T) {
	c := qt.New(t)

	rest, _ := newTestClient(c, nil, nil)
	logger := zerolog.Nop()

	var got *types.Webhook
	handler := rest.CreateWebhookHandler(&logger, func(ctx context.Context, webhook *types.Webhook) error {
		got = webhook
		return nil
	})

	rec := httptest.NewRecorder()
	handler(rec, newWebhookRequest(c, testWebhookBody, testSecret))

	c.Assert(rec.Code, qt.Equals, http.StatusOK)
	c.Assert(rec.Body.String(), qt.Contains, `"code": "ok"`)
	c.Assert(got, qt.IsNotNil)
	c.Assert(got.Time().UnixMilli(), qt.Equals, int64(1327078148132))
	c.Assert(got.Events, qt.DeepEquals, []types.WebhookEvent{{Name: "member_added", Channel: "presence-room", UserID: "42"}})
}

func TestCreateWebhookHandler_Rejects(t *testing.T) {
	c := qt.New(t)

	rest, _ := newTestClient(c, nil, nil)
	logger := zerolog.Nop()

	var calls int
	handler := rest.CreateWebhookHandler(&logger, func(ctx context.Context, webhook *types.Webhook) error {
		calls++
		return nil
	})

	// Wrong secret
	rec := httptest.NewRecorder()
	handler(rec, newWebhookRequest(c, testWebhookBody, "not-the-secret"))
	c.Assert(rec.Code, qt.Equals, http.StatusUnauthorized)

	// Unsigned
	rec = httptest.NewRecorder()
	handler(rec, httptest.NewRequest(http.MethodPost, "/channels/webhook", strings.NewReader(testWebhookBody)))
	c.Assert(rec.Code, qt.Equals, http.StatusUnauthorized)

	// Signed but not JSON
	rec = httptest.NewRecorder()
	handler(rec, newWebhookRequest(c, "not json", testSecret))
	c.Assert(rec.Code, qt.Equals, http.StatusBadRequest)

	c.Assert(calls, qt.Equals, 0)
}

func TestCreateWebhookHandler_CallbackFailure(t *testing.T) {
	c := qt.New(t)

	rest, _ := newTestClient(c, nil, nil)
	logger := zerolog.Nop()

	for name, callback := range map[string]types.WebhookCallback{
		"error": func(ctx context.Context, webhook *types.Webhook) error { return errors.New("database down") },
		"panic": func(ctx context.Context, webhook *types.Webhook) error { panic("boom") },
	} {
		rec := httptest.NewRecorder()
		rest.CreateWebhookHandler(&logger, callback)(rec, newWebhookRequest(c, testWebhookBody, testSecret))
		c.Assert(rec.Code, qt.Equals, http.StatusInternalServerError, qt.Commentf(name))
	}
}

func TestVerifyWebhook_MaxAge(t *testing.T) {
	c := qt.New(t)

	rest, _ := newTestClient(c, nil, func(cfg *client.Config) { cfg.WebhookMaxAge = 5 * time.Minute })
	now := time.Unix(1353088179, 0)

	tests := []struct {
		name    string
		sent    time.Time
		expired bool
	}{
		{"recent", now.Add(-time.Minute), false},
		{"slightly ahead", now.Add(time.Minute), false},
		{"too old", now.Add(-10 * time.Minute), true},
		{"too far ahead", now.Add(10 * time.Minute), true},
	}
	for _, tt := range tests {
		body := fmt.Sprintf(`{"time_ms":%d,"events":[]}`, tt.sent.UnixMilli())
		webhook, err := rest.VerifyWebhook(newWebhookRequest(c, body, testSecret))
		if tt.expired {
			c.Assert(errors.Is(err, auth.ErrAuthenticationExpired), qt.IsTrue, qt.Commentf("%s: got %v", tt.name, err))
			c.Assert(webhook, qt.IsNil)
			continue
		}
		c.Assert(err, qt.IsNil, qt.Commentf(tt.name))
		c.Assert(webhook.Time().Equal(tt.sent), qt.IsTrue)
	}

	logger := zerolog.Nop()
	rec := httptest.NewRecorder()
	body := fmt.Sprintf(`{"time_ms":%d,"events":[]}`, now.Add(-time.Hour).UnixMilli())
	rest.CreateWebhookHandler(&logger, func(context.Context, *types.Webhook) error { return nil })(rec, newWebhookRequest(c, body, testSecret))
	c.Assert(rec.Code, qt.Equals, http.StatusUnauthorized)
}
