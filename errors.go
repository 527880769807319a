package selcdn

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/sagarc03/selcdn/auth"
	"github.com/sagarc03/selcdn/transport"
)

var (
	// ErrConfiguration is returned when a request cannot be built, before any I/O.
	ErrConfiguration = transport.ErrConfiguration
	// ErrTransport is returned when an HTTP round trip fails.
	ErrTransport = transport.ErrTransport
	// ErrAuthentication is returned when the service rejects the credentials.
	ErrAuthentication = auth.ErrAuthentication
	// ErrInvalidInput is returned when an operation argument is empty or malformed.
	ErrInvalidInput = errors.New("invalid input")
)

// UnexpectedStatusError is returned when a round trip succeeds but the status
// code does not match what the operation expects.
type UnexpectedStatusError struct {
	Op         string
	StatusCode int
	Body       string
}

func (e *UnexpectedStatusError) Error() string {
	msg := "unexpected status " + strconv.Itoa(e.StatusCode)
	if e.Op != "" {
		msg = e.Op + ": " + msg
	}
	if e.Body != "" {
		msg += " - " + e.Body
	}
	return msg
}

// Is reports whether target matches this error.
// It matches if target is an *UnexpectedStatusError with the same StatusCode.
func (e *UnexpectedStatusError) Is(target error) bool {
	var t *UnexpectedStatusError
	if !errors.As(target, &t) {
		return false
	}
	return t.StatusCode == e.StatusCode
}

// IsNotFound returns true if the error is a 404.
func (e *UnexpectedStatusError) IsNotFound() bool {
	return e.StatusCode == http.StatusNotFound
}

// Sentinel errors for common status codes.
// Use errors.Is() to check for these conditions.
var (
	// ErrNotFound matches a 404 response.
	ErrNotFound = &UnexpectedStatusError{StatusCode: http.StatusNotFound}

	// ErrUnauthorized matches a 401 response, usually an expired token.
	ErrUnauthorized = &UnexpectedStatusError{StatusCode: http.StatusUnauthorized}

	// ErrForbidden matches a 403 response.
	ErrForbidden = &UnexpectedStatusError{StatusCode: http.StatusForbidden}
)
