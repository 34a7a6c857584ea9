// internal/app/system/apiclient/errors.go
package apiclient

import (
	"errors"
	"fmt"
	"net/http"
)

// Kind classifies a failed API call.
type Kind int

const (
	KindUnauthorized Kind = iota + 1
	KindForbidden
	KindNotFound
	KindServer
	KindHTTP
	KindNetwork
	KindMalformed
)

func (k Kind) String() string {
	switch k {
	case KindUnauthorized:
		return "unauthorized"
	case KindForbidden:
		return "forbidden"
	case KindNotFound:
		return "not_found"
	case KindServer:
		return "server_error"
	case KindHTTP:
		return "http_error"
	case KindNetwork:
		return "network_error"
	case KindMalformed:
		return "malformed_response"
	default:
		return "unknown"
	}
}

// Sentinels for errors.Is. Every *Error matches the sentinel of its Kind.
var (
	ErrUnauthorized = errors.New("apiclient: unauthorized")
	ErrForbidden    = errors.New("apiclient: forbidden")
	ErrNotFound     = errors.New("apiclient: not found")
	ErrServer       = errors.New("apiclient: server error")
	ErrHTTP         = errors.New("apiclient: http error")
	ErrNetwork      = errors.New("apiclient: network error")
	ErrMalformed    = errors.New("apiclient: malformed response")
)

var sentinels = map[Kind]error{
	KindUnauthorized: ErrUnauthorized,
	KindForbidden:    ErrForbidden,
	KindNotFound:     ErrNotFound,
	KindServer:       ErrServer,
	KindHTTP:         ErrHTTP,
	KindNetwork:      ErrNetwork,
	KindMalformed:    ErrMalformed,
}

const (
	msgNetwork   = "Unable to reach the API. Please check your connection."
	msgMalformed = "Unexpected response from the API."
)

// Error is the typed failure returned by every Client call.
type Error struct {
	Kind    Kind
	Status  int    // HTTP status; 0 for network and decode failures
	Op      string // endpoint name, e.g. "users"
	Message string // human-readable, safe to show in the UI
	Err     error  // underlying cause, if any
}

func (e *Error) Error() string {
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Is matches the Kind sentinel so callers can write errors.Is(err, ErrUnauthorized).
func (e *Error) Is(target error) bool {
	s, ok := sentinels[e.Kind]
	return ok && s == target
}

// Classify maps a non-success status code to its kind and message.
// The mapping is total: anything outside the table is KindHTTP with the
// status embedded in the message.
func Classify(status int) (Kind, string) {
	switch status {
	case http.StatusUnauthorized:
		return KindUnauthorized, "Invalid or expired Bearer token. Please check your token."
	case http.StatusForbidden:
		return KindForbidden, "Access forbidden. You may not have permission."
	case http.StatusNotFound:
		return KindNotFound, "API endpoint not found."
	case http.StatusInternalServerError, http.StatusBadGateway, http.StatusServiceUnavailable:
		return KindServer, "Server error. Please try again later."
	default:
		return KindHTTP, fmt.Sprintf("HTTP %d: Request failed.", status)
	}
}

// StatusError builds the typed error for a non-success response.
func StatusError(op string, status int) *Error {
	kind, msg := Classify(status)
	return &Error{Kind: kind, Status: status, Op: op, Message: msg}
}

func networkError(op string, err error) *Error {
	return &Error{Kind: KindNetwork, Op: op, Message: msgNetwork, Err: err}
}

func malformedError(op string, err error) *Error {
	return &Error{Kind: KindMalformed, Op: op, Message: msgMalformed, Err: err}
}

// Message returns the user-facing text for err. Errors that did not come
// from this package yield fallback.
func Message(err error, fallback string) string {
	var apiErr *Error
	if errors.As(err, &apiErr) && apiErr.Message != "" {
		return apiErr.Message
	}
	return fallback
}
