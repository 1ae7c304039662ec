package auth

import (
	"context"
	"encoding/hex"
	"errors"
	"fmt"
)

// Signer computes lowercase hex HMAC-SHA256 signatures with an account
// secret. It holds no state besides the secret and the primitive and is
// safe for concurrent use.
type Signer struct {
	primitive Primitive
	secret    []byte
}

// NewSigner returns a Signer for secret. A nil primitive selects StdPrimitive.
func NewSigner(primitive Primitive, secret string) *Signer {
	if primitive == nil {
		primitive = StdPrimitive{}
	}
	return &Signer{primitive: primitive, secret: []byte(secret)}
}

// Sign returns the signature of stringToSign.
func (s *Signer) Sign(ctx context.Context, stringToSign string) (string, error) {
	key, err := s.primitive.ImportSigningKey(ctx, s.secret)
	if err != nil {
		return "", cryptoFailure("import signing key", err)
	}
	sig, err := s.primitive.Sign(ctx, key, []byte(stringToSign))
	if err != nil {
		return "", cryptoFailure("sign", err)
	}
	return hex.EncodeToString(sig), nil
}

// Digest returns the lowercase hex digest of body.
//
// An algorithm the primitive lacks is reported as ErrUnsupportedPrimitive,
// every other failure as ErrCryptoFailure.
func (s *Signer) Digest(ctx context.Context, alg DigestAlgorithm, body []byte) (string, error) {
	sum, err := s.primitive.Digest(ctx, alg, body)
	switch {
	case errors.Is(err, ErrUnsupportedPrimitive):
		return "", err
	case err != nil:
		return "", cryptoFailure("digest", err)
	}
	return hex.EncodeToString(sum), nil
}

func cryptoFailure(op string, err error) error {
	if errors.Is(err, ErrCryptoFailure) {
		return fmt.Errorf("%s: %w", op, err)
	}
	return fmt.Errorf("%s: %w: %w", op, ErrCryptoFailure, err)
}
