package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ajxudir/pipconverge/pkg/converge"
	"github.com/ajxudir/pipconverge/pkg/decision"
	"github.com/ajxudir/pipconverge/pkg/errors"
	"github.com/ajxudir/pipconverge/pkg/pipclient"
	"github.com/ajxudir/pipconverge/pkg/runlog"
	"github.com/ajxudir/pipconverge/pkg/warnings"
)

var packageConfigFlag string
var yesFlag bool
var maxRoundsFlag int
var skipPipUpgradeFlag bool
var noTimeoutFlag bool
var requirementsOutFlag string

var updateCmd = &cobra.Command{
	Use:   "update",
	Short: "Run the full convergence loop",
	Long: `Upgrade pip, update outdated packages, check dependency conflicts, and
retry the conflicting packages round by round. Repeat offenders are offered
for blacklisting; accepted additions can be persisted to the package config.`,
	RunE: runUpdate,
}

// runUpdate executes the update command.
//
// It performs the following operations:
//   - Loads tool settings and the package config store
//   - Opens the timestamped run log (failures are warnings, never fatal)
//   - Builds the pip client and the decision provider
//   - Runs the orchestrator and maps its result to an exit code
//
// Parameters:
//   - cmd: The cobra command being executed
//   - args: Positional arguments (unused)
//
// Returns:
//   - error: nil on success/declined; *errors.PartialSuccessError when some
//     updates failed; *errors.ExitError otherwise
func runUpdate(cmd *cobra.Command, args []string) error {
	settings, err := loadSettings()
	if err != nil {
		return err
	}
	if maxRoundsFlag > 0 {
		settings.MaxRounds = maxRoundsFlag
	}
	if noTimeoutFlag {
		settings.TimeoutSeconds = 0
	}

	storePath := resolvePath(packageConfigFlag)
	if storePath == "" {
		storePath = resolvePath(settings.PackageConfig)
	}
	store := loadStore(storePath)

	log, err := runlog.Open(resolvePath(settings.LogsDir))
	if err != nil {
		warnings.Warnf("run logging disabled: %v\n", err)
	}
	defer log.Close()

	client := pipclient.New(settings.Python, settings.Timeout())

	var decide decision.Provider = decision.NewStdinProvider()
	if yesFlag {
		decide = decision.AlwaysYes()
	}

	o := converge.New(client, decide, store, converge.Options{
		MaxRounds:        settings.MaxRounds,
		SkipPipUpgrade:   skipPipUpgradeFlag,
		HistoryPath:      log.Sibling("_conflicts.json"),
		RequirementsPath: resolvePath(requirementsOutFlag),
		StorePath:        storePath,
	})
	o.Log = log

	res, err := o.Run(cmd.Context())
	if err != nil {
		return errors.NewExitError(errors.ExitFailure, fmt.Errorf("convergence run failed: %w", err))
	}

	if len(res.Failed) > 0 {
		return errors.NewPartialSuccessError(res.Updated, len(res.Failed), res.Errors)
	}

	if !res.Converged && !res.Declined {
		return errors.NewExitErrorf(errors.ExitFailure, "dependency conflicts remain after %d round(s)", res.Rounds)
	}

	return nil
}

func init() {
	updateCmd.Flags().StringVar(&packageConfigFlag, "package-config", "", "Path to the package config store (default: from settings)")
	updateCmd.Flags().BoolVar(&yesFlag, "yes", false, "Answer yes to every prompt (non-interactive run)")
	updateCmd.Flags().IntVar(&maxRoundsFlag, "max-rounds", 0, "Override the round limit from settings")
	updateCmd.Flags().BoolVar(&skipPipUpgradeFlag, "skip-pip-upgrade", false, "Do not upgrade pip itself before updating")
	updateCmd.Flags().BoolVar(&noTimeoutFlag, "no-timeout", false, "Disable the per-invocation pip timeout")
	updateCmd.Flags().StringVar(&requirementsOutFlag, "requirements-out", "", "Offer to write pinned requirements from the conflict history to this file")
}
