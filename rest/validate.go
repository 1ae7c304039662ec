package rest

import (
	"fmt"
	"regexp"
	"strings"

	"go.pushkit.dev/channels-sdk/pkg/auth"
)

const (
	maxChannelNameLength = 164
	maxEventNameLength   = 200
	maxTriggerChannels   = 100
	maxBatchSize         = 10
	maxDataSize          = 10 << 10

	privatePrefix   = "private-"
	encryptedPrefix = "private-encrypted-"
	presencePrefix  = "presence-"
	userPrefix      = "#server-to-user-"
)

var (
	channelNamePattern = regexp.MustCompile(`^[-a-zA-Z0-9_=@,.;]+$`)
	socketIDPattern    = regexp.MustCompile(`^\d+\.\d+$`)
)

func validateChannel(name string) error {
	switch {
	case name == "":
		return fmt.Errorf("%w: channel must be provided", auth.ErrInvalidArgument)
	case len(name) > maxChannelNameLength:
		return fmt.Errorf("%w: channel %q is longer than %d characters", auth.ErrInvalidArgument, name, maxChannelNameLength)
	}
	if id, ok := strings.CutPrefix(name, userPrefix); ok {
		return validateUserID(id)
	}
	if !channelNamePattern.MatchString(name) {
		return fmt.Errorf("%w: channel %q contains invalid characters", auth.ErrInvalidArgument, name)
	}
	return nil
}

func validateSocketID(socketID string) error {
	if !socketIDPattern.MatchString(socketID) {
		return fmt.Errorf("%w: invalid socket id %q", auth.ErrInvalidArgument, socketID)
	}
	return nil
}

func validateUserID(id string) error {
	switch {
	case id == "":
		return fmt.Errorf("%w: user id must be provided", auth.ErrInvalidArgument)
	case len(id) > maxChannelNameLength-len(userPrefix):
		return fmt.Errorf("%w: user id %q is too long", auth.ErrInvalidArgument, id)
	case !channelNamePattern.MatchString(id):
		return fmt.Errorf("%w: user id %q contains invalid characters", auth.ErrInvalidArgument, id)
	}
	return nil
}

func validateEvent(name string) error {
	switch {
	case name == "":
		return fmt.Errorf("%w: event name must be provided", auth.ErrInvalidArgument)
	case len(name) > maxEventNameLength:
		return fmt.Errorf("%w: event name is longer than %d characters", auth.ErrInvalidArgument, maxEventNameLength)
	}
	return nil
}

func validateData(data string) error {
	if len(data) > maxDataSize {
		return fmt.Errorf("%w: event data is %d bytes, the limit is %d", auth.ErrInvalidArgument, len(data), maxDataSize)
	}
	return nil
}

func isEncrypted(channel string) bool {
	return strings.HasPrefix(channel, encryptedPrefix)
}
