package pipclient

import (
	"context"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ajxudir/pipconverge/pkg/cmdexec"
	"github.com/ajxudir/pipconverge/pkg/errors"
)

// call records one invocation passed to the scripted runner.
type call struct {
	name string
	args []string
}

// script swaps cmdexec.Run for a canned responder and returns the recorded
// calls plus a restore function.
func script(t *testing.T, res cmdexec.Result, err error) *[]call {
	t.Helper()

	calls := &[]call{}
	original := cmdexec.Run
	cmdexec.Run = func(ctx context.Context, name string, args []string, timeout time.Duration) (cmdexec.Result, error) {
		*calls = append(*calls, call{name: name, args: args})
		return res, err
	}
	t.Cleanup(func() { cmdexec.Run = original })

	return calls
}

// TestListOutdatedParsesColumns tests the behavior of ListOutdated.
//
// It verifies:
//   - The two header lines are skipped
//   - Rows with fewer than three columns are ignored
//   - The pip module invocation uses the configured interpreter
func TestListOutdatedParsesColumns(t *testing.T) {
	stdout := strings.Join([]string{
		"Package  Version Latest  Type",
		"-------- ------- ------- -----",
		"botocore 1.29.0  1.34.51 wheel",
		"numpy    1.24.0  1.26.4  wheel",
		"short",
		"",
	}, "\n")
	calls := script(t, cmdexec.Result{Stdout: stdout}, nil)

	client := New("python3.12", time.Minute)
	rows, err := client.ListOutdated(context.Background())
	require.NoError(t, err)

	assert.Equal(t, []Outdated{
		{Name: "botocore", Current: "1.29.0", Latest: "1.34.51"},
		{Name: "numpy", Current: "1.24.0", Latest: "1.26.4"},
	}, rows)

	require.Len(t, *calls, 1)
	assert.Equal(t, "python3.12", (*calls)[0].name)
	assert.Equal(t, []string{"-m", "pip", "list", "--outdated"}, (*calls)[0].args)
}

// TestListOutdatedFailure tests the behavior of ListOutdated when pip fails.
//
// It verifies:
//   - The failure is wrapped as a CommandError carrying the first stderr line
func TestListOutdatedFailure(t *testing.T) {
	script(t, cmdexec.Result{Stderr: "boom\ndetails", ExitCode: 2}, fmt.Errorf("exit status 2"))

	_, err := New("python3", 0).ListOutdated(context.Background())
	require.Error(t, err)

	var ce *errors.CommandError
	require.ErrorAs(t, err, &ce)
	assert.Equal(t, "boom", ce.Output)
}

// TestCheck tests the behavior of Check.
//
// It verifies:
//   - A zero exit means no conflicts
//   - A non-zero exit with diagnostics is a finding, not an error
//   - A non-zero exit with no diagnostics is a CommandError
func TestCheck(t *testing.T) {
	script(t, cmdexec.Result{Stdout: "No broken requirements found.\n"}, nil)
	ok, _, err := New("python3", 0).Check(context.Background())
	require.NoError(t, err)
	assert.True(t, ok)

	report := "botocore 1.29.0 has requirement urllib3<1.27, but you have urllib3 2.0.\n"
	script(t, cmdexec.Result{Stdout: report, ExitCode: 1}, fmt.Errorf("exit status 1"))
	ok, raw, err := New("python3", 0).Check(context.Background())
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Equal(t, report, raw)

	script(t, cmdexec.Result{Stderr: "pip is broken", ExitCode: 2}, fmt.Errorf("exit status 2"))
	_, _, err = New("python3", 0).Check(context.Background())
	var ce *errors.CommandError
	require.ErrorAs(t, err, &ce)
}

// TestUpdate tests the behavior of Update.
//
// It verifies:
//   - Unpinned updates use install --upgrade
//   - Pinned updates install name==version without --upgrade
//   - Failures carry the package name
func TestUpdate(t *testing.T) {
	calls := script(t, cmdexec.Result{}, nil)

	client := New("python3", 0)
	require.NoError(t, client.Update(context.Background(), "botocore", ""))
	require.NoError(t, client.Update(context.Background(), "numpy", "1.26.4"))

	require.Len(t, *calls, 2)
	assert.Equal(t, []string{"-m", "pip", "install", "--upgrade", "botocore"}, (*calls)[0].args)
	assert.Equal(t, []string{"-m", "pip", "install", "numpy==1.26.4"}, (*calls)[1].args)

	script(t, cmdexec.Result{Stderr: "ERROR: no matching distribution", ExitCode: 1}, fmt.Errorf("exit status 1"))
	err := client.Update(context.Background(), "ghost", "")
	var ce *errors.CommandError
	require.ErrorAs(t, err, &ce)
	assert.Equal(t, "ghost", ce.Package)
}

// TestShowVersion tests the behavior of ShowVersion.
//
// It verifies:
//   - The Version: line is extracted and trimmed
//   - An exit code of 1 means not installed, not an error
func TestShowVersion(t *testing.T) {
	script(t, cmdexec.Result{Stdout: "Name: numpy\nVersion: 1.26.4\nLocation: /x\n"}, nil)
	version, err := New("python3", 0).ShowVersion(context.Background(), "numpy")
	require.NoError(t, err)
	assert.Equal(t, "1.26.4", version)

	script(t, cmdexec.Result{ExitCode: 1, Stderr: "WARNING: Package(s) not found: ghost"}, fmt.Errorf("exit status 1"))
	version, err = New("python3", 0).ShowVersion(context.Background(), "ghost")
	require.NoError(t, err)
	assert.Empty(t, version)
}

// TestSelfUpgrade tests the behavior of SelfUpgrade.
//
// It verifies:
//   - A clean run succeeds
//   - "Requirement already satisfied" counts as success despite the error
//   - Other failures are CommandErrors
func TestSelfUpgrade(t *testing.T) {
	script(t, cmdexec.Result{}, nil)
	require.NoError(t, New("python3", 0).SelfUpgrade(context.Background()))

	script(t, cmdexec.Result{Stdout: "Requirement already satisfied: pip\n", ExitCode: 1}, fmt.Errorf("exit status 1"))
	require.NoError(t, New("python3", 0).SelfUpgrade(context.Background()))

	script(t, cmdexec.Result{Stderr: "network unreachable", ExitCode: 1}, fmt.Errorf("exit status 1"))
	err := New("python3", 0).SelfUpgrade(context.Background())
	var ce *errors.CommandError
	require.ErrorAs(t, err, &ce)
	assert.Equal(t, "pip", ce.Package)
}
