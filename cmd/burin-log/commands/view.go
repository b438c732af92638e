// Package commands implements the burin-log CLI commands.
package commands

import (
	"fmt"
	"io"
	"strings"

	"github.com/burin-project/burin-go/pkg/log"
)

// EventFilter selects events for the view, export, and filter commands.
type EventFilter struct {
	// Filter holds the exact-match criteria applied while reading.
	Filter log.Filter

	// SessionPrefix matches events whose session ID starts with it.
	SessionPrefix string
}

// matches applies the criteria the underlying reader cannot.
func (f EventFilter) matches(event log.Event) bool {
	return f.SessionPrefix == "" || strings.HasPrefix(event.SessionID, f.SessionPrefix)
}

// BuildFilter parses the common filter flags into an EventFilter.
func BuildFilter(layer, direction, category, sessionPrefix string) (EventFilter, error) {
	var ef EventFilter
	ef.SessionPrefix = sessionPrefix

	if layer != "" {
		l, err := ParseLayerFlag(layer)
		if err != nil {
			return ef, err
		}
		ef.Filter.Layer = &l
	}
	if direction != "" {
		d, err := ParseDirectionFlag(direction)
		if err != nil {
			return ef, err
		}
		ef.Filter.Direction = &d
	}
	if category != "" {
		c, err := ParseCategoryFlag(category)
		if err != nil {
			return ef, err
		}
		ef.Filter.Category = &c
	}
	return ef, nil
}

// ParseLayerFlag parses a layer name from the command line.
func ParseLayerFlag(s string) (log.Layer, error) {
	switch strings.ToLower(s) {
	case "transport":
		return log.LayerTransport, nil
	case "session":
		return log.LayerSession, nil
	case "stream":
		return log.LayerStream, nil
	default:
		return 0, fmt.Errorf("unknown layer %q (want transport, session, or stream)", s)
	}
}

// ParseDirectionFlag parses a direction name from the command line.
func ParseDirectionFlag(s string) (log.Direction, error) {
	switch strings.ToLower(s) {
	case "in":
		return log.DirectionIn, nil
	case "out":
		return log.DirectionOut, nil
	default:
		return 0, fmt.Errorf("unknown direction %q (want in or out)", s)
	}
}

// ParseCategoryFlag parses a category name from the command line.
func ParseCategoryFlag(s string) (log.Category, error) {
	switch strings.ToLower(s) {
	case "line":
		return log.CategoryLine, nil
	case "state":
		return log.CategoryState, nil
	case "progress":
		return log.CategoryProgress, nil
	case "error":
		return log.CategoryError, nil
	default:
		return 0, fmt.Errorf("unknown category %q (want line, state, progress, or error)", s)
	}
}

// RunView prints matching events from the log file in readable form.
func RunView(path string, filter EventFilter, w io.Writer) error {
	reader, err := log.NewFilteredReader(path, filter.Filter)
	if err != nil {
		return err
	}
	defer reader.Close()

	for {
		event, err := reader.Next()
		if err == io.EOF {
			return nil
		}
		if err != nil {
			return err
		}
		if !filter.matches(event) {
			continue
		}
		formatEvent(w, event)
	}
}

// formatEvent writes a human-readable representation of the event to w.
func formatEvent(w io.Writer, event log.Event) {
	ts := event.Timestamp.UTC().Format("2006-01-02T15:04:05.000000Z")
	session := shortenSessionID(event.SessionID)

	var typeLabel string
	switch {
	case event.Line != nil:
		typeLabel = "Line"
	case event.StateChange != nil:
		typeLabel = "State"
	case event.Progress != nil:
		typeLabel = "Progress"
	case event.Error != nil:
		typeLabel = "Error"
	default:
		typeLabel = "Unknown"
	}

	fmt.Fprintf(w, "%s [session:%s] %-3s %s %s\n",
		ts, session, event.Direction, event.Layer, typeLabel)

	switch {
	case event.Line != nil:
		fmt.Fprintf(w, "  Text: %s\n", event.Line.Text)
		if event.Line.LineIndex >= 0 {
			fmt.Fprintf(w, "  Index: %d\n", event.Line.LineIndex)
		}
	case event.StateChange != nil:
		fmt.Fprintf(w, "  %s -> %s", event.StateChange.OldState, event.StateChange.NewState)
		if event.StateChange.Reason != "" {
			fmt.Fprintf(w, " (%s)", event.StateChange.Reason)
		}
		fmt.Fprintln(w)
	case event.Progress != nil:
		fmt.Fprintf(w, "  %d/%d lines (%d%%)\n",
			event.Progress.LinesSent, event.Progress.TotalLines, event.Progress.Percent)
	case event.Error != nil:
		fmt.Fprintf(w, "  Message: %s\n", event.Error.Message)
		if event.Error.Context != "" {
			fmt.Fprintf(w, "  Context: %s\n", event.Error.Context)
		}
	}

	fmt.Fprintln(w)
}

// shortenSessionID returns the first 8 characters of the session ID.
func shortenSessionID(id string) string {
	if len(id) >= 8 {
		return id[:8]
	}
	return id
}
