package transport

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"net"
	"os"
	"strings"
	"sync"
	"sync/atomic"
	"time"
)

// DefaultDialTimeout bounds TCP connection establishment.
const DefaultDialTimeout = 5 * time.Second

// TCPTransport is a line channel over a TCP socket, as exposed by
// wireless serial bridges and network-attached controllers.
type TCPTransport struct {
	address string
	conn    net.Conn
	reader  *bufio.Reader

	readMu  sync.Mutex
	writeMu sync.Mutex
	closed  atomic.Bool
}

// OpenTCP dials a network-attached machine. The context bounds the dial;
// without a deadline, DefaultDialTimeout applies.
func OpenTCP(ctx context.Context, address string) (*TCPTransport, error) {
	dialer := &net.Dialer{Timeout: DefaultDialTimeout}
	conn, err := dialer.DialContext(ctx, "tcp", address)
	if err != nil {
		return nil, fmt.Errorf("dial %s: %w", address, err)
	}

	return &TCPTransport{
		address: address,
		conn:    conn,
		reader:  bufio.NewReader(conn),
	}, nil
}

// SendLine writes one command line, appending a newline.
func (t *TCPTransport) SendLine(ctx context.Context, line string) error {
	if t.closed.Load() {
		return ErrClosed
	}

	t.writeMu.Lock()
	defer t.writeMu.Unlock()

	if deadline, ok := ctx.Deadline(); ok {
		_ = t.conn.SetWriteDeadline(deadline)
		defer t.conn.SetWriteDeadline(time.Time{})
	}

	if _, err := t.conn.Write([]byte(line + "\n")); err != nil {
		return t.mapErr(err, "tcp write")
	}
	return nil
}

// ReadLine blocks for the next reply line, honoring the context deadline.
func (t *TCPTransport) ReadLine(ctx context.Context) (string, error) {
	if t.closed.Load() {
		return "", ErrClosed
	}

	t.readMu.Lock()
	defer t.readMu.Unlock()

	if deadline, ok := ctx.Deadline(); ok {
		_ = t.conn.SetReadDeadline(deadline)
		defer t.conn.SetReadDeadline(time.Time{})
	}

	line, err := t.reader.ReadString('\n')
	if err != nil {
		return "", t.mapErr(err, "tcp read")
	}
	return strings.TrimRight(line, "\r\n"), nil
}

// mapErr converts socket errors into transport errors.
func (t *TCPTransport) mapErr(err error, op string) error {
	if t.closed.Load() {
		return ErrClosed
	}
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return ErrTimeout
	}
	if errors.Is(err, os.ErrDeadlineExceeded) {
		return ErrTimeout
	}
	return fmt.Errorf("%s: %w", op, err)
}

// Close closes the socket. Close is idempotent; blocked readers unblock
// with ErrClosed.
func (t *TCPTransport) Close() error {
	if t.closed.Swap(true) {
		return nil
	}
	return t.conn.Close()
}

// Address returns the remote host:port.
func (t *TCPTransport) Address() string {
	return t.address
}

// Compile-time interface satisfaction check.
var _ Transport = (*TCPTransport)(nil)
