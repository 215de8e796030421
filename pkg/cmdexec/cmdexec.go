// Package cmdexec runs external commands for pipconverge.
//
// All pip invocations go through the Run variable so tests can substitute a
// scripted runner instead of spawning processes. Commands are executed
// directly (argv, no shell) because every invocation is tool-generated and
// must never pass through shell expansion.
package cmdexec

import (
	"bytes"
	"context"
	"fmt"
	"os/exec"
	"strings"
	"time"
)

// Result holds the outcome of one external command invocation.
//
// Fields:
//   - Stdout: Captured standard output
//   - Stderr: Captured standard error
//   - ExitCode: Process exit code; 0 on success, -1 if the process never ran
type Result struct {
	Stdout   string
	Stderr   string
	ExitCode int
}

// RunFunc is the function signature for command execution.
//
// Parameters:
//   - ctx: Context for cancellation
//   - name: Executable to run
//   - args: Arguments passed verbatim (no shell interpretation)
//   - timeout: Maximum execution time; zero disables the timeout
//
// Returns:
//   - Result: Captured output and exit code; populated even on non-zero exit
//   - error: nil when the process ran and exited zero; otherwise the
//     exec/timeout error (a non-zero exit is reported as an error with the
//     Result still filled in)
type RunFunc func(ctx context.Context, name string, args []string, timeout time.Duration) (Result, error)

// Run is the command execution function used throughout the application.
// Replace it in tests to avoid spawning real processes.
var Run RunFunc = runCommand

// runCommand executes a single command and captures its output.
//
// It performs the following operations:
//   - Applies the timeout as a child context when non-zero
//   - Runs the command directly without involving a shell
//   - Captures stdout and stderr separately
//   - Extracts the exit code from exec.ExitError on failure
//
// Parameters:
//   - ctx: Context for cancellation
//   - name: Executable to run
//   - args: Arguments passed verbatim
//   - timeout: Maximum execution time; zero disables the timeout
//
// Returns:
//   - Result: Captured output and exit code
//   - error: Execution error; wraps a timeout message when the deadline hit
func runCommand(ctx context.Context, name string, args []string, timeout time.Duration) (Result, error) {
	if strings.TrimSpace(name) == "" {
		return Result{ExitCode: -1}, fmt.Errorf("no command provided")
	}

	if timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}

	cmd := exec.CommandContext(ctx, name, args...)

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	err := cmd.Run()
	res := Result{
		Stdout:   stdout.String(),
		Stderr:   stderr.String(),
		ExitCode: 0,
	}

	if err != nil {
		res.ExitCode = -1
		if exitErr, ok := err.(*exec.ExitError); ok {
			res.ExitCode = exitErr.ExitCode()
		}
		if ctx.Err() == context.DeadlineExceeded && timeout > 0 {
			return res, fmt.Errorf("command timed out after %s: %w", timeout, err)
		}
		return res, err
	}

	return res, nil
}

// FirstLine returns the first non-blank line of a command output.
//
// Useful for compressing multi-line pip error output into a one-line summary.
//
// Parameters:
//   - output: Raw command output
//
// Returns:
//   - string: First non-blank line, trimmed; empty when there is none
func FirstLine(output string) string {
	for _, line := range strings.Split(output, "\n") {
		if trimmed := strings.TrimSpace(line); trimmed != "" {
			return trimmed
		}
	}
	return ""
}
