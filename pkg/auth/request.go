package auth

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"sort"
	"strconv"
	"strings"
)

const (
	authVersion = "1.0"

	paramKey       = "auth_key"
	paramTimestamp = "auth_timestamp"
	paramVersion   = "auth_version"
	paramBodyMD5   = "body_md5"
	paramSignature = "auth_signature"
)

// CanonicalRequest is the part of an API call covered by its signature.
type CanonicalRequest struct {
	Method     Method
	Path       string     // absolute API path, e.g. /apps/3/events
	Params     url.Values // additional query parameters, e.g. info or filter_by_prefix
	BodyDigest string     // hex MD5 of the request body, empty when there is none
}

func (r *CanonicalRequest) Validate() error {
	if err := r.Method.Validate(); err != nil {
		return err
	}
	if !strings.HasPrefix(r.Path, "/") {
		return fmt.Errorf("%w: path %q must be absolute", ErrInvalidArgument, r.Path)
	}
	seen := make(map[string]string, len(r.Params))
	for name := range r.Params {
		lower := strings.ToLower(name)
		if strings.HasPrefix(lower, "auth_") || lower == paramBodyMD5 {
			return fmt.Errorf("%w: query parameter %q is reserved", ErrInvalidArgument, lower)
		}
		// Names are signed lowercased, so two spellings of one name are ambiguous.
		if other, ok := seen[lower]; ok {
			return fmt.Errorf("%w: query parameters %q and %q differ only in case", ErrInvalidArgument, other, name)
		}
		seen[lower] = name
	}
	return nil
}

// SignedQuery holds the query parameters of a signed API call.
type SignedQuery struct {
	Params       url.Values // every signed parameter, without auth_signature
	Signature    string
	StringToSign string

	// DigestOmitted is set when the body digest could not be computed by the
	// primitive and body_md5 was left out of the request.
	DigestOmitted bool
}

// Values returns the outgoing query parameters including auth_signature.
func (q *SignedQuery) Values() url.Values {
	out := make(url.Values, len(q.Params)+1)
	for name, values := range q.Params {
		out[name] = append([]string(nil), values...)
	}
	out.Set(paramSignature, q.Signature)
	return out
}

// CanonicalQuery returns the query string that was signed.
func (q *SignedQuery) CanonicalQuery() string {
	return canonicalQuery(q.Params)
}

// SignRequest signs req at the given Unix timestamp.
func (s *Signer) SignRequest(ctx context.Context, key string, req CanonicalRequest, timestamp int64) (*SignedQuery, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	params := make(url.Values, len(req.Params)+4)
	for name, values := range req.Params {
		params[strings.ToLower(name)] = append([]string(nil), values...)
	}
	params.Set(paramKey, key)
	params.Set(paramTimestamp, strconv.FormatInt(timestamp, 10))
	params.Set(paramVersion, authVersion)
	if req.BodyDigest != "" {
		params.Set(paramBodyMD5, req.BodyDigest)
	}

	toSign := stringToSign(req.Method, req.Path, params)
	sig, err := s.Sign(ctx, toSign)
	if err != nil {
		return nil, err
	}

	return &SignedQuery{
		Params:       params,
		Signature:    sig,
		StringToSign: toSign,
	}, nil
}

// BuildEventSignature signs an API call, digesting body first when it is non-nil.
//
// If the primitive does not support MD5 the call is signed without body_md5
// and the returned query has DigestOmitted set.
func BuildEventSignature(ctx context.Context, signer *Signer, key string, method Method, path string, timestamp int64, body []byte, params url.Values) (*SignedQuery, error) {
	req := CanonicalRequest{
		Method: method,
		Path:   path,
		Params: params,
	}

	var omitted bool
	if body != nil {
		digest, err := signer.Digest(ctx, MD5, body)
		switch {
		case errors.Is(err, ErrUnsupportedPrimitive):
			omitted = true
		case err != nil:
			return nil, fmt.Errorf("unable to digest request body: %w", err)
		default:
			req.BodyDigest = digest
		}
	}

	q, err := signer.SignRequest(ctx, key, req, timestamp)
	if err != nil {
		return nil, err
	}
	q.DigestOmitted = omitted
	return q, nil
}

func stringToSign(method Method, path string, params url.Values) string {
	return string(method) + "\n" + path + "\n" + canonicalQuery(params)
}

// canonicalQuery joins params as name=value pairs sorted by name. Values
// are not escaped.
func canonicalQuery(params url.Values) string {
	names := make([]string, 0, len(params))
	for name := range params {
		names = append(names, name)
	}
	sort.Strings(names)

	var b strings.Builder
	for _, name := range names {
		for _, value := range params[name] {
			if b.Len() > 0 {
				b.WriteByte('&')
			}
			b.WriteString(name)
			b.WriteByte('=')
			b.WriteString(value)
		}
	}
	return b.String()
}
