package cmd

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ajxudir/pipconverge/pkg/cmdexec"
	"github.com/ajxudir/pipconverge/pkg/errors"
)

// scriptPip replaces cmdexec.Run with a responder keyed on the pip
// subcommand, recording every invocation.
func scriptPip(t *testing.T, respond func(args string) (cmdexec.Result, error)) *[]string {
	t.Helper()

	calls := &[]string{}
	original := cmdexec.Run
	cmdexec.Run = func(ctx context.Context, name string, args []string, timeout time.Duration) (cmdexec.Result, error) {
		joined := strings.Join(args, " ")
		*calls = append(*calls, joined)
		return respond(joined)
	}
	t.Cleanup(func() { cmdexec.Run = original })

	return calls
}

// TestUpdateCommandConverges tests the behavior of the update command on an
// environment that comes back clean after one round.
//
// It verifies:
//   - The command exits without error
//   - pip is upgraded, the outdated package updated, the check run
//   - The default package config is created in the working directory
//   - A timestamped run log is written under the logs directory
func TestUpdateCommandConverges(t *testing.T) {
	resetFlags(t)
	dir := t.TempDir()

	outdated := strings.Join([]string{
		"Package  Version Latest Type",
		"-------- ------- ------ -----",
		"requests 2.28.0  2.31.0 wheel",
		"",
	}, "\n")

	calls := scriptPip(t, func(args string) (cmdexec.Result, error) {
		switch {
		case strings.HasSuffix(args, "install --upgrade pip"):
			return cmdexec.Result{Stdout: "Successfully installed pip"}, nil
		case strings.Contains(args, "list --outdated"):
			return cmdexec.Result{Stdout: outdated}, nil
		case strings.Contains(args, "check"):
			return cmdexec.Result{Stdout: "No broken requirements found.\n"}, nil
		default:
			return cmdexec.Result{}, nil
		}
	})

	rootCmd.SetArgs([]string{"update", "--yes", "--directory", dir})
	require.NoError(t, ExecuteTest())

	assert.Contains(t, *calls, "-m pip install --upgrade pip")
	assert.Contains(t, *calls, "-m pip install --upgrade requests")

	_, err := os.Stat(filepath.Join(dir, "package_config.json"))
	assert.NoError(t, err)

	logs, err := filepath.Glob(filepath.Join(dir, "logs", "*_log.txt"))
	require.NoError(t, err)
	assert.Len(t, logs, 1)
}

// TestUpdateCommandStaysConflicting tests the behavior of the update command
// when a conflict never resolves.
//
// It verifies:
//   - The repeat offender is blacklisted and persisted (auto-yes run)
//   - The conflict history file is written next to the run log
//   - The command fails with the still-conflicting exit code
func TestUpdateCommandStaysConflicting(t *testing.T) {
	resetFlags(t)
	dir := t.TempDir()

	conflict := "ghostpkg 1.0 has requirement olddep==1.2, but you have olddep 1.0.\n"
	outdated := strings.Join([]string{
		"Package  Version Latest Type",
		"-------- ------- ------ -----",
		"ghostpkg 1.0     1.1    wheel",
		"",
	}, "\n")

	scriptPip(t, func(args string) (cmdexec.Result, error) {
		switch {
		case strings.Contains(args, "list --outdated"):
			return cmdexec.Result{Stdout: outdated}, nil
		case strings.Contains(args, "check"):
			return cmdexec.Result{Stdout: conflict, ExitCode: 1}, fmt.Errorf("exit status 1")
		default:
			return cmdexec.Result{}, nil
		}
	})

	rootCmd.SetArgs([]string{"update", "--yes", "--skip-pip-upgrade", "--directory", dir})
	err := ExecuteTest()
	require.Error(t, err)
	assert.Equal(t, errors.ExitFailure, errors.GetExitCode(err))

	data, readErr := os.ReadFile(filepath.Join(dir, "package_config.json"))
	require.NoError(t, readErr)
	assert.Contains(t, string(data), `"ghostpkg"`)

	histories, globErr := filepath.Glob(filepath.Join(dir, "logs", "*_conflicts.json"))
	require.NoError(t, globErr)
	require.Len(t, histories, 1)

	history, readErr := os.ReadFile(histories[0])
	require.NoError(t, readErr)
	assert.Contains(t, string(history), `"dependency": "olddep"`)
	assert.Contains(t, string(history), `"version": "1.2"`)
}

// TestUpdateCommandMalformedSettings tests the behavior of the update
// command with a broken settings file.
//
// It verifies:
//   - The run proceeds on the built-in defaults instead of aborting
func TestUpdateCommandMalformedSettings(t *testing.T) {
	resetFlags(t)
	dir := t.TempDir()
	path := filepath.Join(dir, "pipconverge.yml")
	require.NoError(t, os.WriteFile(path, []byte("python: [unclosed"), 0o644))

	scriptPip(t, func(args string) (cmdexec.Result, error) {
		return cmdexec.Result{Stdout: ""}, nil
	})

	rootCmd.SetArgs([]string{"update", "--yes", "--skip-pip-upgrade", "--directory", dir})
	assert.NoError(t, ExecuteTest())
}
