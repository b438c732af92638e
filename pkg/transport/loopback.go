package transport

import (
	"context"
	"sync"
)

// Loopback is one end of an in-memory connected transport pair.
// It backs tests and scripted fake devices without any hardware.
type Loopback struct {
	address string
	out     chan<- string
	in      <-chan string

	closeOnce sync.Once
	closed    chan struct{}
	peer      *Loopback
}

// Pipe returns two connected loopback transports. Lines sent on one end
// arrive at the other. Closing either end unblocks both.
func Pipe() (*Loopback, *Loopback) {
	aToB := make(chan string, 64)
	bToA := make(chan string, 64)

	a := &Loopback{address: "loopback-a", out: aToB, in: bToA, closed: make(chan struct{})}
	b := &Loopback{address: "loopback-b", out: bToA, in: aToB, closed: make(chan struct{})}
	a.peer = b
	b.peer = a
	return a, b
}

// SendLine delivers one line to the peer.
func (t *Loopback) SendLine(ctx context.Context, line string) error {
	select {
	case <-t.closed:
		return ErrClosed
	case <-t.peer.closed:
		return ErrClosed
	case <-ctx.Done():
		if ctx.Err() == context.DeadlineExceeded {
			return ErrTimeout
		}
		return ctx.Err()
	case t.out <- line:
		return nil
	}
}

// ReadLine blocks for the next line from the peer.
func (t *Loopback) ReadLine(ctx context.Context) (string, error) {
	select {
	case <-t.closed:
		return "", ErrClosed
	case <-ctx.Done():
		if ctx.Err() == context.DeadlineExceeded {
			return "", ErrTimeout
		}
		return "", ctx.Err()
	case line, ok := <-t.in:
		if !ok {
			return "", ErrClosed
		}
		return line, nil
	}
}

// Close closes this end. Close is idempotent.
func (t *Loopback) Close() error {
	t.closeOnce.Do(func() { close(t.closed) })
	return nil
}

// Address returns the loopback end name.
func (t *Loopback) Address() string {
	return t.address
}

// Compile-time interface satisfaction check.
var _ Transport = (*Loopback)(nil)
