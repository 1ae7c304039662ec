package auth

import (
	"errors"
)

var (
	ErrConfiguration        = errors.New("invalid configuration")
	ErrInvalidArgument      = errors.New("invalid argument")
	ErrUnsupportedPrimitive = errors.New("unsupported cryptographic primitive")
	ErrCryptoFailure        = errors.New("cryptographic operation failed")

	ErrNoSignature           = errors.New("no signature provided")
	ErrAuthenticationExpired = errors.New("authentication expired")
	ErrInvalidSignature      = errors.New("invalid signature")
)
