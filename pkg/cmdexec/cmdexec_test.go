package cmdexec

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestRunCommandRejectsEmptyName tests the behavior of runCommand validation.
//
// It verifies:
//   - A blank executable name is rejected before any process is spawned
//   - The returned exit code is -1
func TestRunCommandRejectsEmptyName(t *testing.T) {
	res, err := runCommand(context.Background(), "   ", nil, 0)
	require.Error(t, err)
	assert.Equal(t, -1, res.ExitCode)
}

// TestRunIsReplaceable tests the behavior of the Run seam.
//
// It verifies:
//   - Run can be swapped for a scripted function in tests
//   - The scripted function receives the original arguments
func TestRunIsReplaceable(t *testing.T) {
	original := Run
	defer func() { Run = original }()

	var gotName string
	var gotArgs []string
	Run = func(ctx context.Context, name string, args []string, timeout time.Duration) (Result, error) {
		gotName = name
		gotArgs = args
		return Result{Stdout: "ok"}, nil
	}

	res, err := Run(context.Background(), "python", []string{"-m", "pip", "check"}, time.Second)
	require.NoError(t, err)
	assert.Equal(t, "ok", res.Stdout)
	assert.Equal(t, "python", gotName)
	assert.Equal(t, []string{"-m", "pip", "check"}, gotArgs)
}

// TestFirstLine tests the behavior of FirstLine.
//
// It verifies:
//   - Leading blank lines are skipped
//   - The first non-blank line is returned trimmed
//   - Empty input yields an empty string
func TestFirstLine(t *testing.T) {
	tests := []struct {
		name   string
		output string
		want   string
	}{
		{name: "plain", output: "error: boom\ndetails", want: "error: boom"},
		{name: "leading blanks", output: "\n\n  second  \nthird", want: "second"},
		{name: "empty", output: "", want: ""},
		{name: "only whitespace", output: "  \n\t\n", want: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, FirstLine(tt.output))
		})
	}
}
