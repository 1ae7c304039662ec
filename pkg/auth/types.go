package auth

import (
	"fmt"

	"github.com/rs/zerolog"
)

// Credentials identify an application and hold the secret used to sign
// requests on its behalf. It is designed to be JSON marshalable, but the
// secret is never included in marshalled or logged output.
type Credentials struct {
	AppID  string `json:"app_id"`
	Key    string `json:"key"`
	Secret string `json:"-"` // account secret
}

// Validate reports an ErrConfiguration if any field is missing.
func (c Credentials) Validate() error {
	switch {
	case c.AppID == "":
		return fmt.Errorf("%w: app id must be provided", ErrConfiguration)
	case c.Key == "":
		return fmt.Errorf("%w: key must be provided", ErrConfiguration)
	case c.Secret == "":
		return fmt.Errorf("%w: secret must be provided", ErrConfiguration)
	}
	return nil
}

func (c Credentials) String() string {
	return fmt.Sprintf("Credentials{AppID: %q, Key: %q, Secret: %s}", c.AppID, c.Key, redact(c.Secret))
}

func (c Credentials) MarshalZerologObject(e *zerolog.Event) {
	e.Str("app_id", c.AppID).Str("key", c.Key).Str("secret", redact(c.Secret))
}

func redact(s string) string {
	if s == "" {
		return `""`
	}
	return "***"
}

// Method is the HTTP method of a signed API call.
type Method string

const (
	GET  Method = "GET"
	POST Method = "POST"
)

func (m Method) Validate() error {
	switch m {
	case GET, POST:
		return nil
	default:
		return fmt.Errorf("%w: unsupported method %q", ErrInvalidArgument, string(m))
	}
}

// Token is the result of authorizing a socket, to be returned
// verbatim to the subscribing client.
type Token struct {
	Auth         string `json:"auth"`
	ChannelData  string `json:"channel_data,omitempty"`
	SharedSecret string `json:"shared_secret,omitempty"`
	UserData     string `json:"user_data,omitempty"`
}

// MemberData describes a member of a presence channel.
type MemberData struct {
	UserID   string         `json:"user_id"`
	UserInfo map[string]any `json:"user_info,omitempty"`
}

// UserData describes an authenticated user connection.
type UserData struct {
	ID        string         `json:"id"`
	UserInfo  map[string]any `json:"user_info,omitempty"`
	Watchlist []string       `json:"watchlist,omitempty"`
}
