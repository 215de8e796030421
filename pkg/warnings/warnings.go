// Package warnings routes non-fatal diagnostics to a swappable writer.
//
// Persistence failures (log files, history files) and other recoverable
// problems are reported here so commands can collect them for the end-of-run
// summary instead of losing them in interleaved output.
package warnings

import (
	"fmt"
	"io"
	"os"
	"sync"
)

var (
	mu     sync.RWMutex
	target io.Writer = os.Stderr
)

// Warnf writes a formatted warning message to the configured writer.
//
// Parameters:
//   - format: Printf-style format string for the warning message
//   - args: Variadic arguments to format into the string
//
// Returns:
//   - None
func Warnf(format string, args ...any) {
	mu.RLock()
	w := target
	mu.RUnlock()
	_, _ = fmt.Fprintf(w, format, args...)
}

// Writer returns the currently configured warning writer.
//
// Returns:
//   - io.Writer: The writer warnings are currently routed to
func Writer() io.Writer {
	mu.RLock()
	defer mu.RUnlock()
	return target
}

// SetWriter swaps the warning writer and returns a restore function.
//
// Passing nil resets the writer to os.Stderr.
//
// Parameters:
//   - w: The new io.Writer to route warnings to
//
// Returns:
//   - func(): A restore function that reinstates the previous writer
func SetWriter(w io.Writer) func() {
	mu.Lock()
	defer mu.Unlock()

	previous := target
	if w == nil {
		target = os.Stderr
	} else {
		target = w
	}

	return func() {
		mu.Lock()
		defer mu.Unlock()
		target = previous
	}
}

// Collector is an io.Writer that buffers warning lines for later display.
//
// Fields:
//   - mu: Guards the messages slice
//   - messages: Accumulated warning messages in arrival order
type Collector struct {
	mu       sync.Mutex
	messages []string
}

// Write implements io.Writer by recording the payload as one message.
//
// Parameters:
//   - p: Raw warning bytes
//
// Returns:
//   - int: Number of bytes consumed (always len(p))
//   - error: Always nil
func (c *Collector) Write(p []byte) (int, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.messages = append(c.messages, string(p))
	return len(p), nil
}

// Messages returns a copy of the collected warning messages.
//
// Returns:
//   - []string: Warnings in the order they were written
func (c *Collector) Messages() []string {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]string, len(c.messages))
	copy(out, c.messages)
	return out
}
