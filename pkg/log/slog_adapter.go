package log

import (
	"context"
	"log/slog"
)

// SlogAdapter writes control events to an slog.Logger.
// Useful for development when you want to see session activity in console.
type SlogAdapter struct {
	logger *slog.Logger
}

// NewSlogAdapter creates a new SlogAdapter that writes to the given slog.Logger.
func NewSlogAdapter(logger *slog.Logger) *SlogAdapter {
	return &SlogAdapter{logger: logger}
}

// Log writes the event to the slog logger at Debug level.
func (a *SlogAdapter) Log(event Event) {
	attrs := []slog.Attr{
		slog.String("session_id", event.SessionID),
		slog.String("direction", event.Direction.String()),
		slog.String("layer", event.Layer.String()),
		slog.String("category", event.Category.String()),
	}

	// Add optional identifiers
	if event.Address != "" {
		attrs = append(attrs, slog.String("address", event.Address))
	}
	if event.Dialect != "" {
		attrs = append(attrs, slog.String("dialect", event.Dialect))
	}

	// Add type-specific attributes
	switch {
	case event.Line != nil:
		attrs = append(attrs, slog.String("line", event.Line.Text))
		if event.Line.LineIndex >= 0 {
			attrs = append(attrs, slog.Int("line_index", event.Line.LineIndex))
		}
	case event.StateChange != nil:
		attrs = append(attrs,
			slog.String("old_state", event.StateChange.OldState),
			slog.String("new_state", event.StateChange.NewState),
		)
		if event.StateChange.Reason != "" {
			attrs = append(attrs, slog.String("reason", event.StateChange.Reason))
		}
	case event.Progress != nil:
		attrs = append(attrs,
			slog.Int("lines_sent", event.Progress.LinesSent),
			slog.Int("total_lines", event.Progress.TotalLines),
			slog.Int("percent", event.Progress.Percent),
		)
	case event.Error != nil:
		attrs = append(attrs,
			slog.String("error_layer", event.Error.Layer.String()),
			slog.String("error_msg", event.Error.Message),
			slog.String("error_context", event.Error.Context),
		)
	}

	a.logger.LogAttrs(context.Background(), slog.LevelDebug, "session", attrs...)
}

// Compile-time interface satisfaction check.
var _ Logger = (*SlogAdapter)(nil)
