package commands

import (
	"io"
	"os"

	"github.com/burin-project/burin-go/pkg/log"
)

// RunFilter copies matching events from path to output, preserving the
// CBOR log format so the result remains readable by burin-log.
// Returns the number of events written.
func RunFilter(path, output string, filter EventFilter) (int, error) {
	reader, err := log.NewFilteredReader(path, filter.Filter)
	if err != nil {
		return 0, err
	}
	defer reader.Close()

	out, err := os.Create(output)
	if err != nil {
		return 0, err
	}
	defer out.Close()

	enc := log.NewEncoder(out)

	n := 0
	for {
		event, err := reader.Next()
		if err == io.EOF {
			return n, nil
		}
		if err != nil {
			return n, err
		}
		if !filter.matches(event) {
			continue
		}
		if err := enc.Encode(event); err != nil {
			return n, err
		}
		n++
	}
}
