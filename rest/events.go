package rest

import (
	"context"
	"fmt"
	"strings"

	"go.pushkit.dev/channels-sdk/pkg/auth"
	"go.pushkit.dev/channels-sdk/rest/types"
)

// Trigger publishes an event to the channels in params.
//
// Event data for an encrypted channel is sealed with the channel's shared
// secret before it is sent, which requires an encryption master key and
// only one channel per call.
func (c *Client) Trigger(ctx context.Context, params types.TriggerParams) (*types.TriggerResponse, error) {
	switch {
	case len(params.Channels) == 0:
		return nil, fmt.Errorf("%w: at least one channel must be provided", auth.ErrInvalidArgument)
	case len(params.Channels) > maxTriggerChannels:
		return nil, fmt.Errorf("%w: an event can be triggered on at most %d channels", auth.ErrInvalidArgument, maxTriggerChannels)
	}
	for _, ch := range params.Channels {
		if err := validateChannel(ch); err != nil {
			return nil, err
		}
	}
	if err := validateEvent(params.Event); err != nil {
		return nil, err
	}
	if params.SocketID != "" {
		if err := validateSocketID(params.SocketID); err != nil {
			return nil, err
		}
	}

	data, err := params.Data.Serialize()
	if err != nil {
		return nil, fmt.Errorf("%w: %w", auth.ErrInvalidArgument, err)
	}
	if hasEncrypted(params.Channels) {
		if len(params.Channels) > 1 {
			return nil, fmt.Errorf("%w: an event on an encrypted channel must not be sent to other channels", auth.ErrInvalidArgument)
		}
		if data, err = c.encrypt(params.Channels[0], data); err != nil {
			return nil, err
		}
	}
	if err := validateData(data); err != nil {
		return nil, err
	}

	body := &types.TriggerBody{
		Name:     params.Event,
		Channels: params.Channels,
		Data:     data,
		SocketID: params.SocketID,
		Info:     strings.Join(params.Info, ","),
	}
	resp := &types.TriggerResponse{}

	signed, err := c.client.SignedPost(ctx, "events", c.appPath("/events"), body, resp)
	if err != nil {
		return nil, fmt.Errorf("unable to trigger event: %w", err)
	}
	resp.BodyDigestOmitted = signed.DigestOmitted
	return resp, nil
}

// TriggerSimple publishes event with data to a single channel. Data that is
// not a string is serialized to JSON.
func (c *Client) TriggerSimple(ctx context.Context, channel, event string, data any) error {
	_, err := c.Trigger(ctx, types.TriggerParams{
		Channels: []string{channel},
		Event:    event,
		Data:     types.ValueData(data),
	})
	return err
}

// TriggerBatch publishes up to 10 events in a single request.
func (c *Client) TriggerBatch(ctx context.Context, events []types.BatchEvent) (*types.BatchResponse, error) {
	switch {
	case len(events) == 0:
		return nil, fmt.Errorf("%w: at least one event must be provided", auth.ErrInvalidArgument)
	case len(events) > maxBatchSize:
		return nil, fmt.Errorf("%w: a batch can hold at most %d events", auth.ErrInvalidArgument, maxBatchSize)
	}

	body := &types.BatchBody{Batch: make([]types.BatchEventBody, 0, len(events))}
	for i, e := range events {
		if err := validateChannel(e.Channel); err != nil {
			return nil, fmt.Errorf("batch event %d: %w", i, err)
		}
		if err := validateEvent(e.Event); err != nil {
			return nil, fmt.Errorf("batch event %d: %w", i, err)
		}
		if e.SocketID != "" {
			if err := validateSocketID(e.SocketID); err != nil {
				return nil, fmt.Errorf("batch event %d: %w", i, err)
			}
		}

		data, err := e.Data.Serialize()
		if err != nil {
			return nil, fmt.Errorf("batch event %d: %w: %w", i, auth.ErrInvalidArgument, err)
		}
		if isEncrypted(e.Channel) {
			if data, err = c.encrypt(e.Channel, data); err != nil {
				return nil, fmt.Errorf("batch event %d: %w", i, err)
			}
		}
		if err := validateData(data); err != nil {
			return nil, fmt.Errorf("batch event %d: %w", i, err)
		}

		body.Batch = append(body.Batch, types.BatchEventBody{
			Channel:  e.Channel,
			Name:     e.Event,
			Data:     data,
			SocketID: e.SocketID,
			Info:     strings.Join(e.Info, ","),
		})
	}
	resp := &types.BatchResponse{}

	signed, err := c.client.SignedPost(ctx, "batch_events", c.appPath("/batch_events"), body, resp)
	if err != nil {
		return nil, fmt.Errorf("unable to trigger batch: %w", err)
	}
	resp.BodyDigestOmitted = signed.DigestOmitted
	return resp, nil
}

// SendToUser publishes an event to every connection of an authenticated user.
func (c *Client) SendToUser(ctx context.Context, userID, event string, data types.EventData) error {
	if err := validateUserID(userID); err != nil {
		return err
	}
	_, err := c.Trigger(ctx, types.TriggerParams{
		Channels: []string{userPrefix + userID},
		Event:    event,
		Data:     data,
	})
	return err
}

// TerminateUserConnections closes every connection of an authenticated user.
func (c *Client) TerminateUserConnections(ctx context.Context, userID string) error {
	if err := validateUserID(userID); err != nil {
		return err
	}
	_, err := c.client.SignedPost(ctx, "terminate_connections", c.appPath("/users/%s/terminate_connections", userID), struct{}{}, nil)
	if err != nil {
		return fmt.Errorf("unable to terminate connections of user %q: %w", userID, err)
	}
	return nil
}

func (c *Client) encrypt(channel, data string) (string, error) {
	masterKey := c.client.EncryptionMasterKey()
	if masterKey == nil {
		return "", fmt.Errorf("%w: channel %q is encrypted but no encryption master key is configured", auth.ErrInvalidArgument, channel)
	}
	return auth.Encrypt(channel, []byte(data), masterKey)
}

func hasEncrypted(channels []string) bool {
	for _, ch := range channels {
		if isEncrypted(ch) {
			return true
		}
	}
	return false
}
