package rest

import (
	"context"
	"fmt"

	"go.pushkit.dev/channels-sdk/rest/types"
)

// GetChannels lists the occupied channels of the application.
func (c *Client) GetChannels(ctx context.Context, params types.ChannelsParams) (*types.ChannelsList, error) {
	resp := &types.ChannelsList{}
	if err := c.client.SignedGet(ctx, "channels", c.appPath("/channels"), params.Values(), resp); err != nil {
		return nil, fmt.Errorf("unable to list channels: %w", err)
	}
	if resp.Channels == nil {
		resp.Channels = map[string]types.ChannelAttributes{}
	}
	return resp, nil
}

// GetChannel returns the state of a single channel.
func (c *Client) GetChannel(ctx context.Context, name string, params types.ChannelParams) (*types.Channel, error) {
	if err := validateChannel(name); err != nil {
		return nil, err
	}

	resp := &types.Channel{}
	if err := c.client.SignedGet(ctx, "channel", c.appPath("/channels/%s", name), params.Values(), resp); err != nil {
		return nil, fmt.Errorf("unable to get channel %q: %w", name, err)
	}
	resp.Name = name
	return resp, nil
}

// GetPresenceUsers lists the members of a presence channel.
func (c *Client) GetPresenceUsers(ctx context.Context, channel string) (*types.Users, error) {
	if err := validateChannel(channel); err != nil {
		return nil, err
	}

	resp := &types.Users{}
	if err := c.client.SignedGet(ctx, "users", c.appPath("/channels/%s/users", channel), nil, resp); err != nil {
		return nil, fmt.Errorf("unable to get users of channel %q: %w", channel, err)
	}
	return resp, nil
}
