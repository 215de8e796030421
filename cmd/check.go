package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/ajxudir/pipconverge/pkg/blacklist"
	"github.com/ajxudir/pipconverge/pkg/conflicts"
	"github.com/ajxudir/pipconverge/pkg/errors"
	"github.com/ajxudir/pipconverge/pkg/history"
	"github.com/ajxudir/pipconverge/pkg/output"
	"github.com/ajxudir/pipconverge/pkg/pipclient"
	"github.com/ajxudir/pipconverge/pkg/runlog"
	"github.com/ajxudir/pipconverge/pkg/warnings"
)

var checkCmd = &cobra.Command{
	Use:   "check",
	Short: "Run a one-shot dependency conflict check",
	Long: `Run the pip dependency check once, filter the report through the
blacklist, print the extracted version constraints, and record the conflict
history file. No packages are modified.`,
	RunE: runCheck,
}

// runCheck executes the check command.
//
// It performs the following operations:
//   - Loads settings and the package config (for the blacklist)
//   - Runs the dependency check and parses the report
//   - Prints the conflict table and writes the conflict-history file
//
// Parameters:
//   - cmd: The cobra command being executed
//   - args: Positional arguments (unused)
//
// Returns:
//   - error: nil when no conflicts remain; *errors.ExitError with
//     ExitFailure when active conflicts were found
func runCheck(cmd *cobra.Command, args []string) error {
	settings, err := loadSettings()
	if err != nil {
		return err
	}

	store := loadStore(resolvePath(settings.PackageConfig))
	bl := blacklist.New(store.Blacklist...)

	client := pipclient.New(settings.Python, settings.Timeout())
	ok, raw, err := client.Check(cmd.Context())
	if err != nil {
		return errors.NewExitError(errors.ExitFailure, err)
	}
	if ok {
		fmt.Fprintln(os.Stdout, "No dependency conflicts detected.")
		return nil
	}

	report := conflicts.Parse(raw, bl)
	output.WriteConflicts(os.Stdout, report)

	if len(report.Records) > 0 {
		if err := writeCheckHistory(settings.LogsDir, report); err != nil {
			warnings.Warnf("could not write conflict history: %v\n", err)
		}
	}

	if !report.HasConflicts() {
		// Everything pip flagged matched the blacklist.
		return nil
	}
	return errors.NewExitErrorf(errors.ExitFailure, "%d dependency conflict(s) found", len(report.Lines))
}

// writeCheckHistory records the parsed report as a timestamped
// conflict-history file in the logs directory.
//
// Parameters:
//   - logsDir: Configured logs directory
//   - report: Parsed conflict report
//
// Returns:
//   - error: Setup or write failure
func writeCheckHistory(logsDir string, report conflicts.Report) error {
	log, err := runlog.Open(resolvePath(logsDir))
	if err != nil {
		return err
	}
	defer log.Close()

	store := history.NewStore()
	store.Record(report.Records)
	log.Event("one-shot check recorded %d conflict record(s)", store.Len())

	path := log.Sibling("_conflicts.json")
	if path == "" {
		return nil
	}
	if err := store.WriteFile(path); err != nil {
		return err
	}

	fmt.Fprintf(os.Stdout, "\nConflict history written to %s\n", path)
	return nil
}
