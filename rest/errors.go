package rest

import (
	"errors"

	"go.pushkit.dev/channels-sdk/internal/client"
)

// StatusError is returned when the API answers with a non-2xx status.
// Use errors.As to tell it apart from signing and validation errors.
type StatusError = client.StatusError

// ErrForbidden may be returned by a MemberResolver to deny a subscription.
var ErrForbidden = errors.New("subscription forbidden")
