package main

import (
	"bytes"
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	qt "github.com/frankban/quicktest"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"
	channels "go.pushkit.dev/channels-sdk"
	"go.pushkit.dev/channels-sdk/internal/config"
)

func newTestSDK(c *qt.C, apiURL string, reg prometheus.Registerer) *channels.SDK {
	u, err := url.Parse(apiURL)
	c.Assert(err, qt.IsNil)

	sdk, err := newSDK(config.Config{
		URL: u.Scheme + "://278d425bdf160c739803:7ad3773142a6692b25b8@" + u.Host + "/apps/3",
	}, zerolog.Nop(), reg)
	c.Assert(err, qt.IsNil)
	return sdk
}

func TestRouter_Auth(t *testing.T) {
	t.Parallel()
	c := qt.New(t)

	reg := prometheus.NewRegistry()
	logger := zerolog.Nop()
	router := newRouter(newTestSDK(c, "https://api.pusherapp.com", reg), &logger, reg)

	form := url.Values{"socket_id": {"1234.1234"}, "channel_name": {"private-foobar"}}
	req := httptest.NewRequest(http.MethodPost, "/channels/auth", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	c.Assert(rec.Code, qt.Equals, http.StatusOK)
	c.Assert(rec.Body.String(), qt.Contains, `"auth":"278d425bdf160c739803:58df8b0c36d6982b82c3ecf6b4662e34fe8c25bba48f5369f135bf843651c3a4"`)
}

func TestRouter_PresenceNeedsUser(t *testing.T) {
	t.Parallel()
	c := qt.New(t)

	reg := prometheus.NewRegistry()
	logger := zerolog.Nop()
	router := newRouter(newTestSDK(c, "https://api.pusherapp.com", reg), &logger, reg)

	send := func(userID string) *httptest.ResponseRecorder {
		form := url.Values{"socket_id": {"1234.1234"}, "channel_name": {"presence-room"}}
		req := httptest.NewRequest(http.MethodPost, "/channels/auth", strings.NewReader(form.Encode()))
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
		if userID != "" {
			req.Header.Set(userIDHeader, userID)
		}
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)
		return rec
	}

	c.Assert(send("").Code, qt.Equals, http.StatusForbidden)

	rec := send("10")
	c.Assert(rec.Code, qt.Equals, http.StatusOK)
	c.Assert(rec.Body.String(), qt.Contains, `"channel_data":"{\"user_id\":\"10\"}"`)
}

func TestRouter_HealthAndMetrics(t *testing.T) {
	t.Parallel()
	c := qt.New(t)

	reg := prometheus.NewRegistry()
	logger := zerolog.Nop()
	router := newRouter(newTestSDK(c, "https://api.pusherapp.com", reg), &logger, reg)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	c.Assert(rec.Code, qt.Equals, http.StatusOK)
	c.Assert(rec.Body.String(), qt.Equals, `{"status":"ok"}`)

	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	c.Assert(rec.Code, qt.Equals, http.StatusOK)
}

func TestRouter_WebhookRejectsUnsigned(t *testing.T) {
	t.Parallel()
	c := qt.New(t)

	reg := prometheus.NewRegistry()
	logger := zerolog.Nop()
	router := newRouter(newTestSDK(c, "https://api.pusherapp.com", reg), &logger, reg)

	req := httptest.NewRequest(http.MethodPost, "/channels/webhook", strings.NewReader(`{"time_ms":1,"events":[]}`))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	c.Assert(rec.Code, qt.Equals, http.StatusUnauthorized)
}

func TestRun_Channels(t *testing.T) {
	t.Parallel()
	c := qt.New(t)

	var gotQuery url.Values
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotQuery = r.URL.Query()
		_, _ = w.Write([]byte(`{"channels":{"presence-room":{"user_count":3}}}`))
	}))
	defer srv.Close()

	reg := prometheus.NewRegistry()
	var out bytes.Buffer
	err := run(context.Background(), newTestSDK(c, srv.URL, reg), config.Config{}, zerolog.Nop(), reg,
		"channels", []string{"-prefix", "presence-", "-info", "user_count"}, &out)
	c.Assert(err, qt.IsNil)
	c.Assert(gotQuery.Get("filter_by_prefix"), qt.Equals, "presence-")
	c.Assert(gotQuery.Get("info"), qt.Equals, "user_count")
	c.Assert(out.String(), qt.Contains, `"user_count": 3`)
}

func TestRun_Usage(t *testing.T) {
	t.Parallel()
	c := qt.New(t)

	reg := prometheus.NewRegistry()
	err := run(context.Background(), newTestSDK(c, "https://api.pusherapp.com", reg), config.Config{}, zerolog.Nop(), reg, "unknown", nil, &bytes.Buffer{})
	c.Assert(errors.Is(err, errUsage), qt.IsTrue)
}

func TestSplitList(t *testing.T) {
	c := qt.New(t)
	c.Assert(splitList(""), qt.IsNil)
	c.Assert(splitList("user_count, subscription_count,"), qt.DeepEquals, []string{"user_count", "subscription_count"})
}
