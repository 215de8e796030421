// Package verbose provides opt-in debug logging for the CLI.
package verbose

import (
	"fmt"
	"io"
	"os"
	"strings"
	"sync"
)

var (
	mu      sync.RWMutex
	enabled bool
	writer  io.Writer = os.Stderr
)

// Enable turns on verbose logging for the rest of the process.
//
// Returns:
//   - None
func Enable() {
	mu.Lock()
	defer mu.Unlock()
	enabled = true
}

// Disable turns off verbose logging.
//
// Returns:
//   - None
func Disable() {
	mu.Lock()
	defer mu.Unlock()
	enabled = false
}

// IsEnabled reports whether verbose logging is currently enabled.
//
// Returns:
//   - bool: true if verbose logging is enabled, false otherwise
func IsEnabled() bool {
	mu.RLock()
	defer mu.RUnlock()
	return enabled
}

// SetWriter redirects verbose output and returns a restore function.
//
// Parameters:
//   - w: The io.Writer to use for output; if nil, defaults to os.Stderr
//
// Returns:
//   - func(): A restore function that sets the writer back to the previous value
func SetWriter(w io.Writer) func() {
	mu.Lock()
	defer mu.Unlock()

	previous := writer
	if w == nil {
		writer = os.Stderr
	} else {
		writer = w
	}

	return func() {
		mu.Lock()
		defer mu.Unlock()
		writer = previous
	}
}

// Infof prints a formatted debug message when verbose logging is enabled.
//
// Each line of the message is prefixed with [DEBUG] so multi-line output
// stays attributable in interleaved stderr streams.
//
// Parameters:
//   - format: Printf-style format string
//   - args: Variadic arguments to format into the string
//
// Returns:
//   - None
func Infof(format string, args ...any) {
	mu.RLock()
	on := enabled
	w := writer
	mu.RUnlock()

	if !on {
		return
	}

	msg := fmt.Sprintf(format, args...)
	for _, line := range strings.Split(strings.TrimRight(msg, "\n"), "\n") {
		_, _ = fmt.Fprintf(w, "[DEBUG] %s\n", line)
	}
}
