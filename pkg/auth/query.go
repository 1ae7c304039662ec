package auth

import (
	"context"
	"crypto/hmac"
	"fmt"
	"net/url"
	"strconv"
	"time"
)

// Equal returns true if both queries carry the same signature.
//
// The signatures are compared using hmac.Equal to prevent timing attacks.
func (q *SignedQuery) Equal(other *SignedQuery) bool {
	return hmac.Equal([]byte(q.Signature), []byte(other.Signature))
}

// SigningComponents extracts the key, timestamp and signature of a received
// signed query.
func SigningComponents(values url.Values) (key string, timestamp time.Time, signature string, err error) {
	switch {
	case values.Get(paramSignature) == "":
		err = ErrNoSignature
		return
	case values.Get(paramKey) == "":
		err = fmt.Errorf("%w: missing %s", ErrInvalidSignature, paramKey)
		return
	case values.Get(paramVersion) != authVersion:
		err = fmt.Errorf("%w: unknown %s %q", ErrInvalidSignature, paramVersion, values.Get(paramVersion))
		return
	}

	secs, perr := strconv.ParseInt(values.Get(paramTimestamp), 10, 64)
	if perr != nil {
		err = fmt.Errorf("%w: invalid %s", ErrInvalidSignature, paramTimestamp)
		return
	}

	return values.Get(paramKey), time.Unix(secs, 0), values.Get(paramSignature), nil
}

// VerifyQuery checks that values were signed by the holder of the signer's
// secret for the given key, method, path and body.
//
// Signatures older or newer than maxAge relative to now are rejected with
// ErrAuthenticationExpired; a zero maxAge disables that check. A request
// without body_md5 is accepted, matching clients signing in degraded mode.
func VerifyQuery(ctx context.Context, signer *Signer, key string, method Method, path string, values url.Values, body []byte, now time.Time, maxAge time.Duration) error {
	gotKey, timestamp, signature, err := SigningComponents(values)
	if err != nil {
		return err
	}
	if gotKey != key {
		return fmt.Errorf("%w: unknown key", ErrInvalidSignature)
	}
	if maxAge > 0 {
		if age := now.Sub(timestamp); age > maxAge || age < -maxAge {
			return ErrAuthenticationExpired
		}
	}

	if sent := values.Get(paramBodyMD5); sent != "" {
		digest, err := signer.Digest(ctx, MD5, body)
		if err != nil {
			return fmt.Errorf("unable to digest request body: %w", err)
		}
		if !hmac.Equal([]byte(digest), []byte(sent)) {
			return fmt.Errorf("%w: body digest mismatch", ErrInvalidSignature)
		}
	}

	params := make(url.Values, len(values))
	for name, v := range values {
		if name != paramSignature {
			params[name] = v
		}
	}
	expected, err := signer.Sign(ctx, stringToSign(method, path, params))
	if err != nil {
		return err
	}
	if !hmac.Equal([]byte(expected), []byte(signature)) {
		return ErrInvalidSignature
	}
	return nil
}
