package client

import (
	"net/http"
	"time"

	"github.com/benbjohnson/clock"
	"github.com/rs/zerolog"
	"go.pushkit.dev/channels-sdk/pkg/auth"
)

const (
	DefaultHost   = "api.pusherapp.com"
	DefaultScheme = "https"
)

// Config is the configuration for the client.
type Config struct {
	Scheme              string           // http or https
	Host                string           // The API host, optionally with a port
	Clock               clock.Clock      // The clock used for auth timestamps
	Credentials         auth.Credentials // The application to act on behalf of
	Primitive           auth.Primitive   // The cryptographic primitive used for signing
	HTTPClient          *http.Client     // The HTTP client used to send requests
	Timeout             time.Duration    // Bound on each API call, applied to a copy of HTTPClient (optional)
	WebhookMaxAge       time.Duration    // Maximum webhook age relative to Clock, zero disables the check
	Logger              *zerolog.Logger  // The logger to report degraded signing on
	Metrics             *Metrics         // Request metrics
	EncryptionMasterKey []byte           // Key for end-to-end encrypted channels (optional)
}

// Validate fills in defaults and reports an auth.ErrConfiguration if the
// configuration cannot be used.
func (c *Config) Validate() error {
	if err := c.Credentials.Validate(); err != nil {
		return err
	}
	if c.Scheme == "" {
		c.Scheme = DefaultScheme
	}
	if c.Host == "" {
		c.Host = DefaultHost
	}
	if c.Clock == nil {
		c.Clock = clock.New()
	}
	if c.Primitive == nil {
		c.Primitive = auth.StdPrimitive{}
	}
	if c.HTTPClient == nil {
		c.HTTPClient = http.DefaultClient
	}
	if c.Timeout > 0 && c.HTTPClient.Timeout != c.Timeout {
		httpClient := *c.HTTPClient
		httpClient.Timeout = c.Timeout
		c.HTTPClient = &httpClient
	}
	if c.Logger == nil {
		nop := zerolog.Nop()
		c.Logger = &nop
	}
	if c.Metrics == nil {
		c.Metrics = NewMetrics(nil)
	}
	return nil
}
