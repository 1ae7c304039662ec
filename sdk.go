package channels

import (
	"fmt"

	"go.pushkit.dev/channels-sdk/internal/client"
	"go.pushkit.dev/channels-sdk/rest"
)

// NewSDK creates a new SDK with the specified options.
//
// It fails with an error wrapping auth.ErrConfiguration when the app ID, key
// or secret is missing or an option could not be applied.
func NewSDK(options ...Option) (*SDK, error) {
	// Create the raw client
	cfg := &client.Config{}
	for _, option := range options {
		if err := option(cfg); err != nil {
			return nil, err
		}
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("unable to configure channels SDK: %w", err)
	}
	rawClient := client.New(cfg)

	// Now create the SDK struct
	return &SDK{
		REST: rest.NewClient(rawClient),
	}, nil
}

// SDK is the main SDK for communicating with the Channels service.
type SDK struct {
	// REST is the client for the HTTP API and for the endpoints
	// an application exposes to client libraries.
	REST *rest.Client
}
