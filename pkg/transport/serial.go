package transport

import (
	"bytes"
	"context"
	"fmt"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"go.bug.st/serial"
)

// Serial defaults.
const (
	// DefaultBaudRate is the common GRBL controller speed.
	DefaultBaudRate = 115200

	// readPollInterval bounds each blocking port read so context
	// cancellation is observed promptly.
	readPollInterval = 50 * time.Millisecond
)

// SerialConfig configures a serial transport.
type SerialConfig struct {
	// BaudRate is the line speed. Zero selects DefaultBaudRate.
	BaudRate int
}

// DefaultSerialConfig returns the default serial configuration (115200 8N1).
func DefaultSerialConfig() SerialConfig {
	return SerialConfig{BaudRate: DefaultBaudRate}
}

// SerialTransport is a line channel over a local serial port.
type SerialTransport struct {
	address string
	port    serial.Port

	// pending holds bytes read past the last returned line.
	pending bytes.Buffer

	readMu  sync.Mutex
	writeMu sync.Mutex
	closed  atomic.Bool
}

// OpenSerial opens a serial port in 8N1 mode at the configured baud rate.
func OpenSerial(address string, config SerialConfig) (*SerialTransport, error) {
	baud := config.BaudRate
	if baud == 0 {
		baud = DefaultBaudRate
	}

	mode := &serial.Mode{
		BaudRate: baud,
		DataBits: 8,
		Parity:   serial.NoParity,
		StopBits: serial.OneStopBit,
	}

	port, err := serial.Open(address, mode)
	if err != nil {
		return nil, fmt.Errorf("open serial port %s: %w", address, err)
	}

	// Drop boot banners and stale bytes from before we attached.
	_ = port.ResetInputBuffer()

	return &SerialTransport{
		address: address,
		port:    port,
	}, nil
}

// SendLine writes one command line, appending a newline.
func (t *SerialTransport) SendLine(ctx context.Context, line string) error {
	if t.closed.Load() {
		return ErrClosed
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	t.writeMu.Lock()
	defer t.writeMu.Unlock()

	if _, err := t.port.Write([]byte(line + "\n")); err != nil {
		if t.closed.Load() {
			return ErrClosed
		}
		return fmt.Errorf("serial write: %w", err)
	}
	return nil
}

// ReadLine blocks for the next reply line, honoring the context deadline.
// The port is polled in short bounded reads so cancellation is observed
// between reads.
func (t *SerialTransport) ReadLine(ctx context.Context) (string, error) {
	t.readMu.Lock()
	defer t.readMu.Unlock()

	buf := make([]byte, 128)
	for {
		if t.closed.Load() {
			return "", ErrClosed
		}
		if line, ok := t.takeLine(); ok {
			return line, nil
		}
		select {
		case <-ctx.Done():
			if ctx.Err() == context.DeadlineExceeded {
				return "", ErrTimeout
			}
			return "", ctx.Err()
		default:
		}

		_ = t.port.SetReadTimeout(readPollInterval)
		n, err := t.port.Read(buf)
		if err != nil {
			if t.closed.Load() {
				return "", ErrClosed
			}
			return "", fmt.Errorf("serial read: %w", err)
		}
		t.pending.Write(buf[:n])
	}
}

// takeLine extracts one complete line from the pending buffer.
func (t *SerialTransport) takeLine() (string, bool) {
	data := t.pending.Bytes()
	idx := bytes.IndexByte(data, '\n')
	if idx < 0 {
		return "", false
	}
	line := string(data[:idx])
	t.pending.Next(idx + 1)
	return strings.TrimRight(line, "\r"), true
}

// Close closes the serial port. Close is idempotent.
func (t *SerialTransport) Close() error {
	if t.closed.Swap(true) {
		return nil
	}
	return t.port.Close()
}

// Address returns the serial port path.
func (t *SerialTransport) Address() string {
	return t.address
}

// Compile-time interface satisfaction check.
var _ Transport = (*SerialTransport)(nil)
