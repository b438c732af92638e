package commands

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strconv"
	"time"

	"github.com/burin-project/burin-go/pkg/log"
)

// RunExport writes the log file to JSONL or CSV.
func RunExport(path, format, output string) error {
	var w io.Writer = os.Stdout
	if output != "" {
		f, err := os.Create(output)
		if err != nil {
			return err
		}
		defer f.Close()
		w = f
	}

	reader, err := log.NewReader(path)
	if err != nil {
		return err
	}
	defer reader.Close()

	switch format {
	case "jsonl":
		return exportJSONL(reader, w)
	case "csv":
		return exportCSV(reader, w)
	default:
		return fmt.Errorf("unknown format %q (want jsonl or csv)", format)
	}
}

// jsonEvent is the flattened export representation of an event.
type jsonEvent struct {
	Timestamp   string               `json:"timestamp"`
	SessionID   string               `json:"session_id"`
	Direction   string               `json:"direction"`
	Layer       string               `json:"layer"`
	Category    string               `json:"category"`
	Address     string               `json:"address,omitempty"`
	Dialect     string               `json:"dialect,omitempty"`
	Line        *log.LineEvent       `json:"line,omitempty"`
	StateChange *log.StateChangeEvent `json:"state_change,omitempty"`
	Progress    *log.ProgressEvent   `json:"progress,omitempty"`
	Error       *log.ErrorEventData  `json:"error,omitempty"`
}

func exportJSONL(reader *log.Reader, w io.Writer) error {
	enc := json.NewEncoder(w)
	for {
		event, err := reader.Next()
		if err == io.EOF {
			return nil
		}
		if err != nil {
			return err
		}

		je := jsonEvent{
			Timestamp:   event.Timestamp.UTC().Format(time.RFC3339Nano),
			SessionID:   event.SessionID,
			Direction:   event.Direction.String(),
			Layer:       event.Layer.String(),
			Category:    event.Category.String(),
			Address:     event.Address,
			Dialect:     event.Dialect,
			Line:        event.Line,
			StateChange: event.StateChange,
			Progress:    event.Progress,
			Error:       event.Error,
		}
		if err := enc.Encode(je); err != nil {
			return err
		}
	}
}

func exportCSV(reader *log.Reader, w io.Writer) error {
	cw := csv.NewWriter(w)
	defer cw.Flush()

	header := []string{"timestamp", "session_id", "direction", "layer", "category", "address", "detail"}
	if err := cw.Write(header); err != nil {
		return err
	}

	for {
		event, err := reader.Next()
		if err == io.EOF {
			return nil
		}
		if err != nil {
			return err
		}

		row := []string{
			event.Timestamp.UTC().Format(time.RFC3339Nano),
			event.SessionID,
			event.Direction.String(),
			event.Layer.String(),
			event.Category.String(),
			event.Address,
			eventDetail(event),
		}
		if err := cw.Write(row); err != nil {
			return err
		}
	}
}

// eventDetail summarizes the payload in one CSV cell.
func eventDetail(event log.Event) string {
	switch {
	case event.Line != nil:
		return event.Line.Text
	case event.StateChange != nil:
		return event.StateChange.OldState + "->" + event.StateChange.NewState
	case event.Progress != nil:
		return strconv.Itoa(event.Progress.Percent) + "%"
	case event.Error != nil:
		return event.Error.Message
	default:
		return ""
	}
}
