package api

import (
	"errors"
	"fmt"
)

// ErrUnauthorized indicates the backend rejected the bearer credential on
// an authenticated call. It is the only error with a cross-cutting effect:
// every caller handles it by emitting the shared logout flow instead of
// showing an inline message.
var ErrUnauthorized = errors.New("authorization rejected")

// StatusError carries a non-2xx backend response. Detail is the
// server-provided message when the body had one, otherwise a serialized
// fallback of the body.
type StatusError struct {
	StatusCode int
	Detail     string
}

func (e *StatusError) Error() string {
	if e.Detail != "" {
		return fmt.Sprintf("HTTP %d: %s", e.StatusCode, e.Detail)
	}
	return fmt.Sprintf("HTTP %d", e.StatusCode)
}

// ErrInvalidPayload indicates the generate endpoint returned a quiz payload
// that does not conform to the expected question shape.
type ErrInvalidPayload struct {
	Err error
}

func (e *ErrInvalidPayload) Error() string {
	return fmt.Sprintf("invalid quiz payload: %v", e.Err)
}

func (e *ErrInvalidPayload) Unwrap() error { return e.Err }

// UserMessage converts an API error into a line fit for inline display.
// Backend responses show their detail; anything else (connectivity loss,
// DNS failure) collapses into one generic connection message rather than
// leaking transport internals.
func UserMessage(err error) string {
	var se *StatusError
	if errors.As(err, &se) && se.Detail != "" {
		return se.Detail
	}
	var ip *ErrInvalidPayload
	if errors.As(err, &ip) {
		return "The server returned an unexpected response."
	}
	if se != nil {
		return se.Error()
	}
	return "Cannot reach the server."
}
