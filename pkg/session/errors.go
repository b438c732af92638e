package session

import (
	"errors"
	"fmt"
)

// Session errors.
var (
	// ErrConnection indicates the transport could not be opened or the
	// device failed the initial liveness probe. Not auto-retried.
	ErrConnection = errors.New("connection failed")

	// ErrNotConnected indicates an operation on a closed session.
	ErrNotConnected = errors.New("not connected")

	// ErrSessionActive indicates a stream is already in progress on
	// this session.
	ErrSessionActive = errors.New("session busy")

	// ErrCancelled indicates the caller cancelled an operation.
	// Not a device fault.
	ErrCancelled = errors.New("cancelled")
)

// StreamError reports a device-rejected command during streaming.
// The stream halts at the offending line; the session stays connected.
type StreamError struct {
	// LineIndex is the zero-based index of the failed command line,
	// counted over sent command lines (comments and blanks excluded).
	LineIndex int

	// DeviceMessage is the raw reply line from the device, or a
	// synthetic message when the device never replied.
	DeviceMessage string
}

// Error returns the stream error description.
func (e *StreamError) Error() string {
	return fmt.Sprintf("device error at line %d: %s", e.LineIndex, e.DeviceMessage)
}
