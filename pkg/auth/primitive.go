package auth

import (
	"context"
	"crypto/hmac"
	"crypto/md5"
	"crypto/sha256"
	"fmt"
)

// DigestAlgorithm names a content hash used for request bodies.
type DigestAlgorithm string

const (
	// MD5 is the legacy body checksum expected in the body_md5 parameter.
	MD5    DigestAlgorithm = "MD5"
	SHA256 DigestAlgorithm = "SHA-256"
)

// KeyHandle is an imported HMAC-SHA256 key. Its contents are opaque to
// everything except the Primitive that created it.
type KeyHandle interface{}

// Primitive is the cryptographic capability the signing core depends on.
//
// Implementations may suspend, so every call takes a context and callers
// must wait for the result. A Digest implementation that does not support
// the requested algorithm must return an error wrapping ErrUnsupportedPrimitive.
type Primitive interface {
	ImportSigningKey(ctx context.Context, secret []byte) (KeyHandle, error)
	Sign(ctx context.Context, key KeyHandle, msg []byte) ([]byte, error)
	Digest(ctx context.Context, alg DigestAlgorithm, body []byte) ([]byte, error)
}

// StdPrimitive implements Primitive with the Go standard library.
type StdPrimitive struct{}

var _ Primitive = StdPrimitive{}

type stdKey []byte

func (StdPrimitive) ImportSigningKey(ctx context.Context, secret []byte) (KeyHandle, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if len(secret) == 0 {
		return nil, fmt.Errorf("%w: empty signing key", ErrCryptoFailure)
	}
	key := make(stdKey, len(secret))
	copy(key, secret)
	return key, nil
}

func (StdPrimitive) Sign(ctx context.Context, key KeyHandle, msg []byte) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	k, ok := key.(stdKey)
	if !ok {
		return nil, fmt.Errorf("%w: key handle of type %T was not imported by this primitive", ErrCryptoFailure, key)
	}
	mac := hmac.New(sha256.New, k)
	mac.Write(msg)
	return mac.Sum(nil), nil
}

func (StdPrimitive) Digest(ctx context.Context, alg DigestAlgorithm, body []byte) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	switch alg {
	case MD5:
		sum := md5.Sum(body)
		return sum[:], nil
	case SHA256:
		sum := sha256.Sum256(body)
		return sum[:], nil
	default:
		return nil, fmt.Errorf("%w: digest algorithm %q", ErrUnsupportedPrimitive, string(alg))
	}
}

// RestrictedPrimitive wraps a Primitive and refuses the listed digest
// algorithms, reproducing runtimes that ship without them (for instance
// FIPS-constrained builds lacking MD5).
type RestrictedPrimitive struct {
	Primitive
	Unsupported []DigestAlgorithm
}

func (r RestrictedPrimitive) Digest(ctx context.Context, alg DigestAlgorithm, body []byte) ([]byte, error) {
	for _, u := range r.Unsupported {
		if u == alg {
			return nil, fmt.Errorf("%w: digest algorithm %q", ErrUnsupportedPrimitive, string(alg))
		}
	}
	return r.Primitive.Digest(ctx, alg, body)
}
