package types

import (
	"net/url"
	"strings"
)

// ChannelsParams filter the occupied channels listed by GetChannels.
type ChannelsParams struct {
	FilterByPrefix string   // Only list channels whose name starts with this prefix.
	Info           []string // Attributes to return per channel; user_count needs a presence- prefix.
}

func (p ChannelsParams) Values() url.Values {
	v := url.Values{}
	if p.FilterByPrefix != "" {
		v.Set("filter_by_prefix", p.FilterByPrefix)
	}
	if len(p.Info) > 0 {
		v.Set("info", strings.Join(p.Info, ","))
	}
	return v
}

// ChannelParams select the attributes returned by GetChannel.
type ChannelParams struct {
	Info []string
}

func (p ChannelParams) Values() url.Values {
	v := url.Values{}
	if len(p.Info) > 0 {
		v.Set("info", strings.Join(p.Info, ","))
	}
	return v
}

// ChannelsList is the list of occupied channels.
type ChannelsList struct {
	Channels map[string]ChannelAttributes `json:"channels"`
}

// Channel is the state of a single channel.
type Channel struct {
	Name              string `json:"-"`
	Occupied          bool   `json:"occupied"`
	UserCount         *int   `json:"user_count,omitempty"`
	SubscriptionCount *int   `json:"subscription_count,omitempty"`
}

// User is a member of a presence channel.
type User struct {
	ID string `json:"id"`
}

// Users is the list of members of a presence channel.
type Users struct {
	Users []User `json:"users"`
}
