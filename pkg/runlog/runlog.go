// Package runlog writes a timestamped per-run log file under the configured
// logs directory so every convergence run leaves an audit trail.
package runlog

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

// stampFormat matches the log file naming scheme: 2006-01-02_15-04-05.
const stampFormat = "2006-01-02_15-04-05"

// nowFunc supplies the current time and can be overridden in tests.
var nowFunc = time.Now

// Logger couples a zerolog logger with the file it writes to.
//
// Fields:
//   - Log: Structured logger writing to the run log file
//   - Path: Path of the log file, empty when file logging is disabled
type Logger struct {
	Log  zerolog.Logger
	Path string

	file *os.File
}

// Open creates the logs directory if needed and opens a new timestamped log
// file inside it.
//
// A run must never fail just because the log destination is unwritable, so
// any setup error is returned alongside a usable no-op logger.
//
// Parameters:
//   - logsDir: Directory to hold per-run log files
//
// Returns:
//   - *Logger: File-backed logger, or a discarding logger on failure
//   - error: Setup failure the caller should surface as a warning
func Open(logsDir string) (*Logger, error) {
	if err := os.MkdirAll(logsDir, 0o755); err != nil {
		return discard(), fmt.Errorf("create logs directory %s: %w", logsDir, err)
	}

	path := filepath.Join(logsDir, nowFunc().Format(stampFormat)+"_log.txt")
	file, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_EXCL, 0o644)
	if err != nil {
		return discard(), fmt.Errorf("create log file %s: %w", path, err)
	}

	writer := zerolog.ConsoleWriter{
		Out:        file,
		TimeFormat: time.RFC3339,
		NoColor:    true,
	}

	return &Logger{
		Log:  zerolog.New(writer).With().Timestamp().Logger(),
		Path: path,
		file: file,
	}, nil
}

// discard builds a logger that drops everything, used when the log file
// cannot be created.
func discard() *Logger {
	return &Logger{Log: zerolog.New(io.Discard)}
}

// Event records a plain run event.
//
// Parameters:
//   - format: Printf-style message format
//   - args: Format arguments
func (l *Logger) Event(format string, args ...any) {
	l.Log.Info().Msgf(format, args...)
}

// Failure records a failed operation with its error.
//
// Parameters:
//   - err: Error to attach
//   - format: Printf-style message format
//   - args: Format arguments
func (l *Logger) Failure(err error, format string, args ...any) {
	l.Log.Error().Err(err).Msgf(format, args...)
}

// Round returns a logger scoped to one convergence round.
//
// Parameters:
//   - round: 1-based round number
//
// Returns:
//   - zerolog.Logger: Logger tagging every event with the round
func (l *Logger) Round(round int) zerolog.Logger {
	return l.Log.With().Int("round", round).Logger()
}

// Sibling returns a path next to the log file sharing its timestamp, for
// per-run artifacts like the conflict-history file.
//
// Parameters:
//   - suffix: Replacement for the "_log.txt" suffix, e.g. "_conflicts.json"
//
// Returns:
//   - string: Sibling path; empty when file logging is disabled
func (l *Logger) Sibling(suffix string) string {
	if l.Path == "" {
		return ""
	}
	return strings.TrimSuffix(l.Path, "_log.txt") + suffix
}

// Close flushes and closes the underlying log file.
//
// Returns:
//   - error: Close error; nil when file logging was disabled
func (l *Logger) Close() error {
	if l.file == nil {
		return nil
	}
	return l.file.Close()
}
