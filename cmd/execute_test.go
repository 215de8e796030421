package cmd

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

// resetFlags restores the package-level flag variables between tests, since
// cobra binds them once and test runs share the process.
func resetFlags(t *testing.T) {
	t.Helper()
	t.Cleanup(func() {
		verboseFlag = false
		configFlag = ""
		directoryFlag = ""
		packageConfigFlag = ""
		yesFlag = false
		maxRoundsFlag = 0
		skipPipUpgradeFlag = false
		noTimeoutFlag = false
		requirementsOutFlag = ""
		rootCmd.SetArgs(nil)
	})
}

// TestExecuteExitCodes tests the behavior of Execute.
//
// It verifies:
//   - Help output does not call exitFunc
//   - An unknown subcommand exits with the failure code
func TestExecuteExitCodes(t *testing.T) {
	resetFlags(t)
	oldExit := exitFunc
	defer func() { exitFunc = oldExit }()

	t.Run("help succeeds without exit", func(t *testing.T) {
		exitCode := -1
		exitFunc = func(code int) { exitCode = code }

		rootCmd.SetArgs([]string{"--help"})
		Execute()

		assert.Equal(t, -1, exitCode)
		rootCmd.SetArgs(nil)
	})

	t.Run("unknown command exits with failure", func(t *testing.T) {
		exitCode := -1
		exitFunc = func(code int) { exitCode = code }
		rootCmd.SilenceErrors = true
		rootCmd.SilenceUsage = true
		defer func() {
			rootCmd.SilenceErrors = false
			rootCmd.SilenceUsage = false
		}()

		rootCmd.SetArgs([]string{"nonexistent-subcommand-xyz"})
		Execute()

		assert.Equal(t, 2, exitCode)
		rootCmd.SetArgs(nil)
	})
}

// TestVersionCommand tests the behavior of the version command.
//
// It verifies:
//   - The command runs without error
func TestVersionCommand(t *testing.T) {
	resetFlags(t)
	rootCmd.SetArgs([]string{"version"})
	assert.NoError(t, ExecuteTest())
}
