package session

import (
	"context"
	"errors"
	"fmt"
	"math"

	"github.com/burin-project/burin-go/pkg/dialect"
	"github.com/burin-project/burin-go/pkg/gcode"
	"github.com/burin-project/burin-go/pkg/log"
	"github.com/burin-project/burin-go/pkg/transport"
)

// ProgressFunc receives streaming progress as a percentage in [0, 100].
// Reported values are monotonically increasing.
type ProgressFunc func(percent int)

// Stream sends a program to the device one line at a time, waiting for
// exactly one reply per sent command (request/response lock-step).
// Blank and comment-only lines are never sent.
//
// A reply carrying an error token halts the stream and returns a
// StreamError with the zero-based index of the failed command line and
// the device's message; the session stays connected. A reply timeout is
// reported the same way with a synthetic message, since a silent device
// is indistinguishable from one that rejected the command. Cancelling
// the context between lines stops the stream and returns ErrCancelled;
// no further lines are sent.
func (s *Session) Stream(ctx context.Context, program *gcode.Program, onProgress ProgressFunc) error {
	return s.StreamLines(ctx, program.Lines(), onProgress)
}

// StreamLines streams raw G-code lines with the same semantics as
// Stream. Lines that are not commands are dropped before sending.
func (s *Session) StreamLines(ctx context.Context, lines []string, onProgress ProgressFunc) error {
	if s.closed.Load() {
		return ErrNotConnected
	}
	if !s.streaming.CompareAndSwap(false, true) {
		return fmt.Errorf("%w: stream in progress", ErrSessionActive)
	}
	defer s.streaming.Store(false)

	commands := make([]string, 0, len(lines))
	for _, line := range lines {
		if gcode.IsCommand(line) {
			commands = append(commands, line)
		}
	}
	total := len(commands)
	if total == 0 {
		return nil
	}

	s.setOptimistic(StatusRunning, "stream", false)

	lastPercent := -1
	for i, line := range commands {
		// Cancellation is checked between lines, never mid-exchange.
		if err := ctx.Err(); err != nil {
			s.logError(log.LayerStream, ErrCancelled, fmt.Sprintf("after line %d", i))
			return fmt.Errorf("%w: %v", ErrCancelled, err)
		}

		reply, err := s.streamExchange(ctx, line, i)
		if err != nil {
			if errors.Is(err, context.Canceled) {
				return fmt.Errorf("%w: %v", ErrCancelled, err)
			}
			if errors.Is(err, transport.ErrTimeout) {
				streamErr := &StreamError{
					LineIndex:     i,
					DeviceMessage: "no reply within timeout",
				}
				s.setError(streamErr)
				s.logError(log.LayerStream, streamErr, "reply timeout")
				return streamErr
			}
			s.setError(err)
			return fmt.Errorf("%w: line %d: %v", ErrConnection, i, err)
		}

		if dialect.IsErrorReply(reply) {
			streamErr := &StreamError{LineIndex: i, DeviceMessage: reply}
			s.setError(streamErr)
			s.setOptimistic(StatusError, "device error", false)
			s.logError(log.LayerStream, streamErr, "device rejected command")
			return streamErr
		}

		percent := int(math.Round(float64(i+1) / float64(total) * 100))
		if percent > lastPercent {
			lastPercent = percent
			s.logProgress(i+1, total, percent)
			if onProgress != nil {
				onProgress(percent)
			}
		}
	}

	s.setOptimistic(StatusIdle, "stream complete", false)
	return nil
}

// streamExchange performs one lock-step round trip for a program line,
// bounded by the configured per-line reply timeout.
func (s *Session) streamExchange(ctx context.Context, line string, lineIndex int) (string, error) {
	lineCtx, cancel := context.WithTimeout(ctx, s.config.ReplyTimeout)
	defer cancel()

	s.ioMu.Lock()
	defer s.ioMu.Unlock()

	if err := s.tr.SendLine(lineCtx, line); err != nil {
		return "", err
	}
	s.logLine(log.DirectionOut, log.LayerStream, line, lineIndex)

	reply, err := s.tr.ReadLine(lineCtx)
	if err != nil {
		return "", err
	}
	s.logLine(log.DirectionIn, log.LayerStream, reply, lineIndex)

	return reply, nil
}
