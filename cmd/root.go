// Package cmd implements the command-line interface for pipconverge.
// It provides commands for running the convergence loop, one-shot conflict
// checks, and configuration management.
package cmd

import (
	stderrors "errors"
	"os"

	"github.com/spf13/cobra"

	"github.com/ajxudir/pipconverge/pkg/errors"
	"github.com/ajxudir/pipconverge/pkg/verbose"
)

var exitFunc = os.Exit
var verboseFlag bool
var configFlag string
var directoryFlag string

var rootCmd = &cobra.Command{
	Use:   "pipconverge",
	Short: "Drive pip toward a conflict-free installed set",
	Long: `Update outdated pip packages, parse the dependency conflicts pip reports,
and iterate (update, check, classify, retry) until the environment is
consistent, the operator stops, or the round limit is reached. Packages that
keep causing conflicts can be blacklisted and the decisions persisted.`,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		if verboseFlag {
			verbose.Enable()
		}
	},
	Run: func(cmd *cobra.Command, args []string) {
		_ = cmd.Help()
	},
}

// Execute runs the root command and exits with the appropriate code:
//   - 0: Success / converged / run declined
//   - 1: Partial failure (some package updates failed)
//   - 2: Failure or still conflicting
//   - 3: Configuration or validation error
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		code := errors.GetExitCode(err)

		var partialErr *errors.PartialSuccessError
		if stderrors.As(err, &partialErr) {
			code = errors.ExitPartialFailure
			verbose.Infof("Exit code %d: partial success - %d succeeded, %d failed", code, partialErr.Succeeded, partialErr.Failed)
		} else {
			verbose.Infof("Exit code %d: %v", code, err)
		}

		exitFunc(code)
	}
}

// ExecuteTest runs the root command for testing (returns error instead of
// exiting).
//
// Returns:
//   - error: Command execution error, or nil on success
func ExecuteTest() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().BoolVar(&verboseFlag, "verbose", false, "Enable verbose debug output")
	rootCmd.PersistentFlags().StringVar(&configFlag, "config", "", "Path to the tool configuration file (default: pipconverge.yml when present)")
	rootCmd.PersistentFlags().StringVar(&directoryFlag, "directory", "", "Working directory for config discovery and output files")

	// Commands ordered logically: info → config → workflow (check → update)
	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(configCmd)
	rootCmd.AddCommand(checkCmd)
	rootCmd.AddCommand(updateCmd)
}
