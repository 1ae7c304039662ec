package rest

import (
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"time"

	"github.com/benbjohnson/clock"
	qt "github.com/frankban/quicktest"
	"go.pushkit.dev/channels-sdk/internal/client"
	"go.pushkit.dev/channels-sdk/pkg/auth"
)

const (
	testAppID  = "3"
	testKey    = "278d425bdf160c739803"
	testSecret = "7ad3773142a6692b25b8"
)

var testMasterKey = []byte("This is a string that is 32 char")

// received is a request that passed signature verification.
type received struct {
	Method string
	Path   string
	Query  url.Values
	Body   []byte
}

// newTestClient returns a client talking to a server that verifies every
// request signature, records it and answers with respond.
func newTestClient(c *qt.C, respond func(w http.ResponseWriter, r *received), mutate func(*client.Config)) (*Client, *[]received) {
	mockClock := clock.NewMock()
	mockClock.Set(time.Unix(1353088179, 0))
	signer := auth.NewSigner(nil, testSecret)

	var requests []received
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var body []byte
		if r.Method == http.MethodPost {
			body, _ = io.ReadAll(r.Body)
		}
		err := auth.VerifyQuery(r.Context(), signer, testKey, auth.Method(r.Method), r.URL.Path, r.URL.Query(), body, mockClock.Now(), time.Minute)
		if err != nil {
			http.Error(w, err.Error(), http.StatusUnauthorized)
			return
		}
		rec := received{Method: r.Method, Path: r.URL.Path, Query: r.URL.Query(), Body: body}
		requests = append(requests, rec)
		if respond != nil {
			respond(w, &rec)
			return
		}
		_, _ = w.Write([]byte(`{}`))
	}))
	c.Cleanup(srv.Close)

	u, err := url.Parse(srv.URL)
	c.Assert(err, qt.IsNil)
	cfg := &client.Config{
		Scheme:              u.Scheme,
		Host:                u.Host,
		Clock:               mockClock,
		Credentials:         auth.Credentials{AppID: testAppID, Key: testKey, Secret: testSecret},
		HTTPClient:          srv.Client(),
		EncryptionMasterKey: testMasterKey,
	}
	if mutate != nil {
		mutate(cfg)
	}
	c.Assert(cfg.Validate(), qt.IsNil)
	return NewClient(client.New(cfg)), &requests
}
