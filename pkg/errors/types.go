// Package errors defines the typed errors and exit codes used across
// pipconverge. No error in the conflict engine is fatal to a whole run except
// explicit operator cancellation; these types let callers classify failures
// and pick the right exit code at the command boundary.
package errors

import (
	"errors"
	"fmt"
)

// Exit codes for scripting integration.
const (
	// ExitSuccess indicates the run converged or completed cleanly.
	ExitSuccess = 0

	// ExitPartialFailure indicates some package operations failed while
	// others succeeded, or conflicts remained when the operator stopped.
	ExitPartialFailure = 1

	// ExitFailure indicates the run as a whole failed.
	ExitFailure = 2

	// ExitConfigError indicates the command could not proceed due to
	// invalid configuration or flags.
	ExitConfigError = 3
)

// ExitError carries an exit code alongside a human-readable message.
//
// Fields:
//   - Code: Exit code (one of the Exit* constants)
//   - Message: Human-readable description, may be empty
//   - Err: Underlying error, may be nil
type ExitError struct {
	Code    int
	Message string
	Err     error
}

// Error implements the error interface.
//
// Returns:
//   - string: Message if set, otherwise the underlying error text,
//     otherwise a default containing the exit code
func (e *ExitError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	if e.Err != nil {
		return e.Err.Error()
	}
	return fmt.Sprintf("exit code %d", e.Code)
}

// Unwrap returns the underlying error for errors.Is/As support.
//
// Returns:
//   - error: The wrapped error, or nil
func (e *ExitError) Unwrap() error {
	return e.Err
}

// NewExitError creates an ExitError wrapping err with the given code.
//
// Parameters:
//   - code: Exit code (use the Exit* constants)
//   - err: Underlying error, may be nil
//
// Returns:
//   - *ExitError: New exit error
func NewExitError(code int, err error) *ExitError {
	return &ExitError{Code: code, Err: err}
}

// NewExitErrorf creates an ExitError with a formatted message.
//
// Parameters:
//   - code: Exit code
//   - format: Printf-style format string
//   - args: Format arguments
//
// Returns:
//   - *ExitError: New exit error with formatted message
func NewExitErrorf(code int, format string, args ...any) *ExitError {
	return &ExitError{Code: code, Message: fmt.Sprintf(format, args...)}
}

// GetExitCode extracts the exit code from an error.
//
// Parameters:
//   - err: The error to inspect; nil yields ExitSuccess
//
// Returns:
//   - int: The embedded code for ExitError values, ExitFailure otherwise
func GetExitCode(err error) int {
	if err == nil {
		return ExitSuccess
	}

	var exitErr *ExitError
	if errors.As(err, &exitErr) {
		return exitErr.Code
	}

	return ExitFailure
}

// PartialSuccessError reports that some package operations succeeded while
// others failed within one run.
//
// Fields:
//   - Succeeded: Count of successful operations
//   - Failed: Count of failed operations
//   - Errors: The individual failures
type PartialSuccessError struct {
	Succeeded int
	Failed    int
	Errors    []error
}

// Error implements the error interface.
//
// Returns:
//   - string: Summary in the form "X succeeded, Y failed"
func (e *PartialSuccessError) Error() string {
	return fmt.Sprintf("%d succeeded, %d failed", e.Succeeded, e.Failed)
}

// NewPartialSuccessError creates a PartialSuccessError.
//
// Parameters:
//   - succeeded: Number of successful operations
//   - failed: Number of failed operations
//   - errs: Errors from the failed operations
//
// Returns:
//   - *PartialSuccessError: New partial success error
func NewPartialSuccessError(succeeded, failed int, errs []error) *PartialSuccessError {
	return &PartialSuccessError{Succeeded: succeeded, Failed: failed, Errors: errs}
}

// IsPartialSuccess checks whether err is a PartialSuccessError.
//
// Parameters:
//   - err: The error to check
//
// Returns:
//   - *PartialSuccessError: The value if err is one, nil otherwise
//   - bool: true if err is a PartialSuccessError
func IsPartialSuccess(err error) (*PartialSuccessError, bool) {
	var pse *PartialSuccessError
	if errors.As(err, &pse) {
		return pse, true
	}
	return nil, false
}

// CommandError indicates a pip invocation exited non-zero or could not run.
// The affected operation is marked failed and the run continues with the
// remaining packages.
//
// Fields:
//   - Operation: What was attempted ("update", "check", "list-outdated", ...)
//   - Package: Package the operation targeted, empty for global operations
//   - Output: Trailing tool output, usually the first stderr line
//   - Err: Underlying execution error
type CommandError struct {
	Operation string
	Package   string
	Output    string
	Err       error
}

// Error implements the error interface.
//
// Returns:
//   - string: Formatted message including operation, package, and output
func (e *CommandError) Error() string {
	msg := e.Operation + " failed"
	if e.Package != "" {
		msg = fmt.Sprintf("%s failed for %s", e.Operation, e.Package)
	}
	if e.Output != "" {
		msg += ": " + e.Output
	}
	return msg
}

// Unwrap returns the underlying execution error.
//
// Returns:
//   - error: The wrapped error, or nil
func (e *CommandError) Unwrap() error {
	return e.Err
}

// IsCommandError checks whether err is a CommandError.
//
// Parameters:
//   - err: The error to check
//
// Returns:
//   - *CommandError: The value if err is one, nil otherwise
//   - bool: true if err is a CommandError
func IsCommandError(err error) (*CommandError, bool) {
	var ce *CommandError
	if errors.As(err, &ce) {
		return ce, true
	}
	return nil, false
}

// ParseError indicates a piece of tool output could not be interpreted.
// Parse failures carry no information and are never fatal; callers log them
// and move on.
//
// Fields:
//   - Input: The text that failed to parse, possibly truncated
//   - Reason: Short description of what was expected
type ParseError struct {
	Input  string
	Reason string
}

// Error implements the error interface.
//
// Returns:
//   - string: Formatted message including the reason and offending input
func (e *ParseError) Error() string {
	return fmt.Sprintf("unparseable output (%s): %q", e.Reason, e.Input)
}

// ConfigError indicates a configuration file was malformed or unusable.
// Commands fall back to defaults where possible; exit code 3 is reserved for
// cases where the command cannot proceed at all.
//
// Fields:
//   - Path: Config file path
//   - Err: Underlying decode or IO error
type ConfigError struct {
	Path string
	Err  error
}

// Error implements the error interface.
//
// Returns:
//   - string: Formatted message including the config path
func (e *ConfigError) Error() string {
	return fmt.Sprintf("config %s: %v", e.Path, e.Err)
}

// Unwrap returns the underlying error.
//
// Returns:
//   - error: The wrapped error, or nil
func (e *ConfigError) Unwrap() error {
	return e.Err
}

// PersistError indicates a log, history, or requirements file could not be
// written. The message is still shown on the interactive surface; the write
// is skipped and the run continues.
//
// Fields:
//   - Path: Destination file path
//   - Err: Underlying write error
type PersistError struct {
	Path string
	Err  error
}

// Error implements the error interface.
//
// Returns:
//   - string: Formatted message including the destination path
func (e *PersistError) Error() string {
	return fmt.Sprintf("write %s: %v", e.Path, e.Err)
}

// Unwrap returns the underlying error.
//
// Returns:
//   - error: The wrapped error, or nil
func (e *PersistError) Unwrap() error {
	return e.Err
}
