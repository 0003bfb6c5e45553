package filter

import (
	"bufio"
	"fmt"
	"io"
	"os"

	"github.com/goccy/go-json"
)

// ReadEvents reads NDJSON events from files or stdin and sends them on a
// channel.
//
// Behavior:
// - If no files specified, reads from stdin
// - Multiple files are processed sequentially
// - Malformed JSON lines are sent as errors but don't stop processing
// - Empty lines are skipped
// - Uses a buffered channel (100 events) so reader and consumer overlap
//
// The channel is closed when all inputs are exhausted.
func ReadEvents(files []string) <-chan EventResult {
	ch := make(chan EventResult, 100)

	go func() {
		defer close(ch)

		if len(files) == 0 {
			readFromReader(os.Stdin, "stdin", ch)
			return
		}
		for _, file := range files {
			f, err := os.Open(file)
			if err != nil {
				// Report and continue with the remaining files.
				ch <- EventResult{Err: fmt.Errorf("failed to open file %s: %w", file, err)}
				continue
			}
			readFromReader(f, file, ch)
			f.Close()
		}
	}()

	return ch
}

// readFromReader parses NDJSON lines from one reader. Parse errors and
// scanner errors go on the channel; processing continues past them.
func readFromReader(r io.Reader, source string, ch chan<- EventResult) {
	scanner := bufio.NewScanner(r)
	// Annotated events with large audit payloads can exceed the default
	// 64KB token limit.
	scanner.Buffer(make([]byte, 0, 64*1024), 4*1024*1024)
	lineNumber := 0

	for scanner.Scan() {
		lineNumber++
		line := scanner.Text()
		if line == "" {
			continue
		}
		var event Event
		if err := json.Unmarshal([]byte(line), &event); err != nil {
			ch <- EventResult{Err: fmt.Errorf("JSON parse error in %s line %d: %w", source, lineNumber, err)}
			continue
		}
		ch <- EventResult{Event: event}
	}
	if err := scanner.Err(); err != nil {
		ch <- EventResult{Err: fmt.Errorf("scanner error in %s: %w", source, err)}
	}
}
