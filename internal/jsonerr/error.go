// Package jsonerr writes the JSON error bodies returned by the auth and
// webhook handlers.
package jsonerr

import (
	"errors"
	"net/http"

	jsoniter "github.com/json-iterator/go"
	"go.pushkit.dev/channels-sdk/pkg/auth"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// Body is the JSON object written by Error.
type Body struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// Error writes err as a JSON error to w.
//
// A non-zero status is used as given, otherwise it is derived from err
// with StatusFor. A nil err writes 200 OK with:
//
//	{"code": "ok", "message": ""}
func Error(w http.ResponseWriter, err error, status int) {
	if status == 0 {
		status = StatusFor(err)
	}

	body := Body{Code: "ok"}
	if err != nil {
		body = Body{Code: codeFor(status), Message: err.Error()}
	}

	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("X-Content-Type-Options", "nosniff")
	w.WriteHeader(status)

	data, _ := json.MarshalIndent(&body, "", "  ")
	_, _ = w.Write(append(data, '\n'))
}

// StatusFor maps the signing errors to the HTTP status reported to callers.
func StatusFor(err error) int {
	switch {
	case err == nil:
		return http.StatusOK
	case errors.Is(err, auth.ErrInvalidArgument):
		return http.StatusBadRequest
	case errors.Is(err, auth.ErrNoSignature),
		errors.Is(err, auth.ErrInvalidSignature),
		errors.Is(err, auth.ErrAuthenticationExpired):
		return http.StatusUnauthorized
	default:
		return http.StatusInternalServerError
	}
}

func codeFor(status int) string {
	switch status {
	case http.StatusBadRequest:
		return "invalid_argument"
	case http.StatusUnauthorized:
		return "unauthenticated"
	case http.StatusForbidden:
		return "permission_denied"
	case http.StatusMethodNotAllowed:
		return "method_not_allowed"
	default:
		if status >= 500 {
			return "internal"
		}
		return "unknown"
	}
}
