package transport

import (
	"context"
	"errors"
)

// Transport errors.
var (
	// ErrClosed indicates the transport has been closed.
	ErrClosed = errors.New("transport closed")

	// ErrTimeout indicates no complete line arrived within the deadline.
	ErrTimeout = errors.New("read timeout")
)

// Transport is one open line-oriented byte channel to a machine.
//
// The application protocol is strictly half-duplex: one command line out,
// one reply line in. Callers serialize access themselves (the session
// layer holds a single send/receive mutex); implementations only need to
// be safe for one concurrent reader and one concurrent writer.
//
// Both directions operate on lines without the trailing newline. SendLine
// appends the newline; ReadLine strips CR/LF. Deadlines come from the
// context; a ReadLine that exceeds the context deadline returns ErrTimeout.
type Transport interface {
	// SendLine writes one command line, appending a newline.
	SendLine(ctx context.Context, line string) error

	// ReadLine blocks for the next reply line, honoring the context
	// deadline. Empty lines are delivered as "".
	ReadLine(ctx context.Context) (string, error)

	// Close releases the underlying channel. Close is idempotent;
	// blocked readers unblock with ErrClosed.
	Close() error

	// Address returns the endpoint this transport is attached to
	// (serial port path or host:port).
	Address() string
}
