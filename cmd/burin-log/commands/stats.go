package commands

import (
	"fmt"
	"io"
	"sort"
	"time"

	"github.com/burin-project/burin-go/pkg/log"
)

// Stats summarizes a log file.
type Stats struct {
	TotalEvents int
	Sessions    map[string]int
	ByCategory  map[string]int
	ByDirection map[string]int
	First       time.Time
	Last        time.Time
	Errors      int
}

// CollectStats reads the whole log file and tallies it.
func CollectStats(path string) (*Stats, error) {
	reader, err := log.NewReader(path)
	if err != nil {
		return nil, err
	}
	defer reader.Close()

	stats := &Stats{
		Sessions:    make(map[string]int),
		ByCategory:  make(map[string]int),
		ByDirection: make(map[string]int),
	}

	for {
		event, err := reader.Next()
		if err == io.EOF {
			return stats, nil
		}
		if err != nil {
			return nil, err
		}

		stats.TotalEvents++
		stats.Sessions[event.SessionID]++
		stats.ByCategory[event.Category.String()]++
		if event.Category == log.CategoryLine {
			stats.ByDirection[event.Direction.String()]++
		}
		if event.Error != nil {
			stats.Errors++
		}

		if stats.First.IsZero() || event.Timestamp.Before(stats.First) {
			stats.First = event.Timestamp
		}
		if event.Timestamp.After(stats.Last) {
			stats.Last = event.Timestamp
		}
	}
}

// RunStats prints log file statistics.
func RunStats(path string, w io.Writer) error {
	stats, err := CollectStats(path)
	if err != nil {
		return err
	}

	fmt.Fprintf(w, "Events:    %d\n", stats.TotalEvents)
	fmt.Fprintf(w, "Sessions:  %d\n", len(stats.Sessions))
	fmt.Fprintf(w, "Errors:    %d\n", stats.Errors)
	if !stats.First.IsZero() {
		fmt.Fprintf(w, "Span:      %s to %s (%s)\n",
			stats.First.UTC().Format(time.RFC3339),
			stats.Last.UTC().Format(time.RFC3339),
			stats.Last.Sub(stats.First).Round(time.Millisecond))
	}

	fmt.Fprintln(w, "\nBy category:")
	for _, name := range sortedKeys(stats.ByCategory) {
		fmt.Fprintf(w, "  %-10s %d\n", name, stats.ByCategory[name])
	}

	if len(stats.ByDirection) > 0 {
		fmt.Fprintln(w, "\nWire lines:")
		for _, name := range sortedKeys(stats.ByDirection) {
			fmt.Fprintf(w, "  %-10s %d\n", name, stats.ByDirection[name])
		}
	}

	return nil
}

// sortedKeys returns map keys in sorted order for stable output.
func sortedKeys(m map[string]int) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
