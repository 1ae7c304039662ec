package types

import (
	"context"
	"time"
)

// Webhook is the payload delivered to a webhook endpoint.
type Webhook struct {
	TimeMs int64          `json:"time_ms"`
	Events []WebhookEvent `json:"events"`
}

// Time returns the time the webhook was generated.
func (w *Webhook) Time() time.Time {
	return time.UnixMilli(w.TimeMs)
}

// WebhookEvent is a single event of a webhook. Which fields are set depends
// on Name (channel_occupied, channel_vacated, member_added, member_removed,
// client_event, cache_miss).
type WebhookEvent struct {
	Name     string `json:"name"`
	Channel  string `json:"channel"`
	Event    string `json:"event,omitempty"`
	Data     string `json:"data,omitempty"`
	SocketID string `json:"socket_id,omitempty"`
	UserID   string `json:"user_id,omitempty"`
}

// WebhookCallback is invoked with every verified webhook.
type WebhookCallback = func(ctx context.Context, webhook *Webhook) error
