package log

import "time"

// Event represents a control stack log event captured at any layer.
// CBOR encoding uses integer keys for compactness.
type Event struct {
	// Timestamp when the event occurred (nanosecond precision).
	Timestamp time.Time `cbor:"1,keyasint"`

	// SessionID uniquely identifies the device session (UUID).
	SessionID string `cbor:"2,keyasint"`

	// Direction indicates line flow relative to the host.
	Direction Direction `cbor:"3,keyasint"`

	// Layer where the event was captured.
	Layer Layer `cbor:"4,keyasint"`

	// Category classifies the event type.
	Category Category `cbor:"5,keyasint"`

	// Address is the device address (serial port or host:port).
	Address string `cbor:"6,keyasint,omitempty"`

	// Dialect is the classified controller dialect name.
	Dialect string `cbor:"7,keyasint,omitempty"`

	// Type-specific payload (one of these will be set).
	Line        *LineEvent        `cbor:"10,keyasint,omitempty"` // Wire line in/out
	StateChange *StateChangeEvent `cbor:"11,keyasint,omitempty"` // Machine status transition
	Progress    *ProgressEvent    `cbor:"12,keyasint,omitempty"` // Stream progress
	Error       *ErrorEventData   `cbor:"13,keyasint,omitempty"` // Errors at any layer
}

// Direction indicates the direction of line flow.
type Direction uint8

const (
	// DirectionIn indicates a line received from the device.
	DirectionIn Direction = 0
	// DirectionOut indicates a line sent to the device.
	DirectionOut Direction = 1
)

// String returns the direction name.
func (d Direction) String() string {
	switch d {
	case DirectionIn:
		return "IN"
	case DirectionOut:
		return "OUT"
	default:
		return "UNKNOWN"
	}
}

// Layer indicates which layer captured the event.
type Layer uint8

const (
	// LayerTransport is the physical line channel (serial or TCP).
	LayerTransport Layer = 0
	// LayerSession is the session/state-machine layer.
	LayerSession Layer = 1
	// LayerStream is the command streaming layer.
	LayerStream Layer = 2
)

// String returns the layer name.
func (l Layer) String() string {
	switch l {
	case LayerTransport:
		return "TRANSPORT"
	case LayerSession:
		return "SESSION"
	case LayerStream:
		return "STREAM"
	default:
		return "UNKNOWN"
	}
}

// Category classifies the event type.
type Category uint8

const (
	// CategoryLine indicates a wire line sent or received.
	CategoryLine Category = 0
	// CategoryState indicates a machine status transition.
	CategoryState Category = 1
	// CategoryProgress indicates stream progress.
	CategoryProgress Category = 2
	// CategoryError indicates an error event.
	CategoryError Category = 3
)

// String returns the category name.
func (c Category) String() string {
	switch c {
	case CategoryLine:
		return "LINE"
	case CategoryState:
		return "STATE"
	case CategoryProgress:
		return "PROGRESS"
	case CategoryError:
		return "ERROR"
	default:
		return "UNKNOWN"
	}
}

// LineEvent captures one wire line at the transport layer.
type LineEvent struct {
	// Text is the line content without the trailing newline.
	Text string `cbor:"1,keyasint"`

	// LineIndex is the zero-based program line index during streaming,
	// or -1 outside a stream.
	LineIndex int `cbor:"2,keyasint,omitempty"`
}

// StateChangeEvent captures a machine status transition.
type StateChangeEvent struct {
	// OldState is the previous status name (may be empty).
	OldState string `cbor:"1,keyasint,omitempty"`

	// NewState is the new status name.
	NewState string `cbor:"2,keyasint"`

	// Reason for the change: "command", "telemetry", "connect",
	// "disconnect", or the dialect token that triggered it.
	Reason string `cbor:"3,keyasint,omitempty"`
}

// ProgressEvent captures streaming progress.
type ProgressEvent struct {
	// LinesSent is the number of command lines sent so far.
	LinesSent int `cbor:"1,keyasint"`

	// TotalLines is the total number of command lines in the program.
	TotalLines int `cbor:"2,keyasint"`

	// Percent is round(LinesSent/TotalLines*100).
	Percent int `cbor:"3,keyasint"`
}

// ErrorEventData captures errors at any layer.
type ErrorEventData struct {
	// Layer where the error occurred.
	Layer Layer `cbor:"1,keyasint"`

	// Message is the error text.
	Message string `cbor:"2,keyasint"`

	// Context describes what was being attempted.
	Context string `cbor:"3,keyasint,omitempty"`
}
