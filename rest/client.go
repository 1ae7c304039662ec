package rest

import (
	"fmt"

	"go.pushkit.dev/channels-sdk/internal/client"
)

// Client is the SDK for the Channels REST API: publishing events, querying
// channels and authorizing subscriptions.
type Client struct {
	client *client.Client
}

func NewClient(client *client.Client) *Client {
	return &Client{client}
}

func (c *Client) appPath(format string, args ...any) string {
	return "/apps/" + c.client.AppID() + fmt.Sprintf(format, args...)
}
