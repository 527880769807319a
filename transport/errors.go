package transport

import "errors"

var (
	// ErrConfiguration is returned when a request is configured with values the
	// transport cannot send, such as an unsupported HTTP method. It is always
	// detected before any network activity.
	ErrConfiguration = errors.New("invalid request configuration")

	// ErrTransport is returned when the HTTP round trip itself fails.
	// No partial response accompanies it.
	ErrTransport = errors.New("transport failure")
)
