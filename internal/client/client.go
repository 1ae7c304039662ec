package client

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/benbjohnson/clock"
	jsoniter "github.com/json-iterator/go"
	"go.pushkit.dev/channels-sdk/pkg/auth"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

const maxErrorBody = 4 << 10

// StatusError is returned when the API answers with a non-2xx status.
// It is distinct from the signing errors in pkg/auth, which are returned
// before any request is made.
type StatusError struct {
	StatusCode int
	Status     string
	Body       string
}

func (e *StatusError) Error() string {
	if e.Body == "" {
		return fmt.Sprintf("unexpected response status %s", e.Status)
	}
	return fmt.Sprintf("unexpected response status %s: %s", e.Status, e.Body)
}

// Client is the underlying raw client for communicating with the Channels API.
//
// It is injected into each service struct by the root package.
type Client struct {
	cfg    *Config
	signer *auth.Signer
}

func New(cfg *Config) *Client {
	return &Client{
		cfg:    cfg,
		signer: auth.NewSigner(cfg.Primitive, cfg.Credentials.Secret),
	}
}

// AppID returns the ID of the application the client acts for.
func (c *Client) AppID() string { return c.cfg.Credentials.AppID }

// Key returns the public application key.
func (c *Client) Key() string { return c.cfg.Credentials.Key }

// Signer returns the signer bound to the application secret.
func (c *Client) Signer() *auth.Signer { return c.signer }

// EncryptionMasterKey returns a copy of the configured master key, or nil.
func (c *Client) EncryptionMasterKey() []byte {
	if c.cfg.EncryptionMasterKey == nil {
		return nil
	}
	return append([]byte(nil), c.cfg.EncryptionMasterKey...)
}

// WebhookMaxAge returns the accepted webhook age, zero when unchecked.
func (c *Client) WebhookMaxAge() time.Duration { return c.cfg.WebhookMaxAge }

// Clock returns the clock used for timestamps.
func (c *Client) Clock() clock.Clock { return c.cfg.Clock }

// SignedGet performs a signed GET request to the specified path and decodes the
// JSON response into response. Endpoint names the call in metrics.
func (c *Client) SignedGet(ctx context.Context, endpoint, path string, params url.Values, response any) error {
	_, err := c.do(ctx, auth.GET, endpoint, path, params, nil, response)
	return err
}

// SignedPost performs a signed POST request with body serialized as JSON.
//
// The returned query reports whether the body digest had to be omitted.
func (c *Client) SignedPost(ctx context.Context, endpoint, path string, body, response any) (*auth.SignedQuery, error) {
	bodyBytes, err := json.Marshal(body)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request body: %w", err)
	}
	return c.do(ctx, auth.POST, endpoint, path, nil, bodyBytes, response)
}

func (c *Client) do(ctx context.Context, method auth.Method, endpoint, path string, params url.Values, body []byte, response any) (*auth.SignedQuery, error) {
	// Sign the request
	timestamp := c.cfg.Clock.Now().Unix()
	signed, err := auth.BuildEventSignature(ctx, c.signer, c.cfg.Credentials.Key, method, path, timestamp, body, params)
	if err != nil {
		return nil, fmt.Errorf("unable to sign request: %w", err)
	}
	if signed.DigestOmitted {
		c.cfg.Metrics.DigestOmitted.Inc()
		c.cfg.Logger.Warn().
			Str("method", string(method)).
			Str("path", path).
			Msg("cryptographic primitive does not support MD5, sending request without body_md5")
	}

	// Create the request
	u := url.URL{
		Scheme:   c.cfg.Scheme,
		Host:     c.cfg.Host,
		Path:     path,
		RawQuery: signed.Values().Encode(),
	}
	var bodyReader io.Reader
	if body != nil {
		bodyReader = bytes.NewReader(body)
	}
	req, err := http.NewRequestWithContext(ctx, string(method), u.String(), bodyReader)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	// Set the headers
	req.Header.Set("User-Agent", "Channels-Go-SDK")
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	// Send the request
	start := c.cfg.Clock.Now()
	resp, err := c.cfg.HTTPClient.Do(req)
	c.cfg.Metrics.Duration.WithLabelValues(string(method), endpoint).Observe(c.cfg.Clock.Since(start).Seconds())
	if err != nil {
		c.cfg.Metrics.Requests.WithLabelValues(string(method), endpoint, "error").Inc()
		return nil, fmt.Errorf("failed to make request: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()
	c.cfg.Metrics.Requests.WithLabelValues(string(method), endpoint, strconv.Itoa(resp.StatusCode)).Inc()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		errBody, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		return nil, &StatusError{
			StatusCode: resp.StatusCode,
			Status:     resp.Status,
			Body:       string(bytes.TrimSpace(errBody)),
		}
	}

	// Decode the response
	if response != nil {
		if err := json.NewDecoder(resp.Body).Decode(response); err != nil && !errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("failed to decode response: %w", err)
		}
	}

	return signed, nil
}
