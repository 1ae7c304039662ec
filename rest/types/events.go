package types

import (
	"errors"
	"fmt"
)

// ErrNoData is returned when an event is published without data.
var ErrNoData = errors.New("event data must be set, use ValueData(nil) to send null")

// EventData is the payload of an event. It is either a string that is sent
// as is, or a value that is serialized to JSON exactly once before signing.
// The zero value is unset and is rejected when published.
type EventData struct {
	str   string
	value any
	isStr bool
	set   bool
}

// StringData returns event data that is sent verbatim.
func StringData(s string) EventData {
	return EventData{str: s, isStr: true, set: true}
}

// ValueData returns event data that is serialized to JSON.
func ValueData(v any) EventData {
	if s, ok := v.(string); ok {
		return StringData(s)
	}
	return EventData{value: v, set: true}
}

// Serialize returns the string sent as the event's data.
func (d EventData) Serialize() (string, error) {
	if !d.set {
		return "", ErrNoData
	}
	if d.isStr {
		return d.str, nil
	}
	b, err := json.Marshal(d.value)
	if err != nil {
		return "", fmt.Errorf("unable to serialize event data: %w", err)
	}
	return string(b), nil
}

// TriggerParams describe an event published to one or more channels.
type TriggerParams struct {
	Channels []string  // Channels to publish to.
	Event    string    // The event name.
	Data     EventData // The event payload.
	SocketID string    // Optional connection excluded from receiving the event.
	Info     []string  // Optional channel attributes to return, e.g. user_count.
}

// TriggerBody is the JSON body of an events request.
type TriggerBody struct {
	Name     string   `json:"name"`
	Channels []string `json:"channels"`
	Data     string   `json:"data"`
	SocketID string   `json:"socket_id,omitempty"`
	Info     string   `json:"info,omitempty"`
}

// ChannelAttributes are the optional attributes reported for a channel.
type ChannelAttributes struct {
	UserCount         *int `json:"user_count,omitempty"`
	SubscriptionCount *int `json:"subscription_count,omitempty"`
}

// TriggerResponse is the response from publishing an event.
type TriggerResponse struct {
	Channels map[string]ChannelAttributes `json:"channels,omitempty"`

	// BodyDigestOmitted is set when the request was signed without body_md5.
	BodyDigestOmitted bool `json:"-"`
}

// BatchEvent is a single event of a batch publish.
type BatchEvent struct {
	Channel  string
	Event    string
	Data     EventData
	SocketID string
	Info     []string
}

// BatchEventBody is the JSON form of a BatchEvent.
type BatchEventBody struct {
	Channel  string `json:"channel"`
	Name     string `json:"name"`
	Data     string `json:"data"`
	SocketID string `json:"socket_id,omitempty"`
	Info     string `json:"info,omitempty"`
}

// BatchBody is the JSON body of a batch events request.
type BatchBody struct {
	Batch []BatchEventBody `json:"batch"`
}

// BatchResponse is the response from publishing a batch of events. When
// attributes were requested, Batch holds one entry per event in order.
type BatchResponse struct {
	Batch []ChannelAttributes `json:"batch,omitempty"`

	// BodyDigestOmitted is set when the request was signed without body_md5.
	BodyDigestOmitted bool `json:"-"`
}
