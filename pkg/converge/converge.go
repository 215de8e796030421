// Package converge drives the update / check / classify / retry loop that
// moves an installed pip environment toward a conflict-free state.
//
// The Orchestrator owns all mutable run state: the blacklist, the cross-round
// conflict memory, the history store, and the update plan. Execution is
// strictly sequential; every external call goes through the injected Client
// and takes a context.
package converge

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/rs/zerolog"

	"github.com/ajxudir/pipconverge/pkg/blacklist"
	"github.com/ajxudir/pipconverge/pkg/config"
	"github.com/ajxudir/pipconverge/pkg/conflicts"
	"github.com/ajxudir/pipconverge/pkg/decision"
	"github.com/ajxudir/pipconverge/pkg/history"
	"github.com/ajxudir/pipconverge/pkg/output"
	"github.com/ajxudir/pipconverge/pkg/pipclient"
	"github.com/ajxudir/pipconverge/pkg/runlog"
	"github.com/ajxudir/pipconverge/pkg/verbose"
	"github.com/ajxudir/pipconverge/pkg/versions"
	"github.com/ajxudir/pipconverge/pkg/warnings"
)

// State is the orchestrator's position in the convergence loop.
type State int

const (
	// StateIdle means no run has started.
	StateIdle State = iota

	// StateUpdating means package updates are being applied.
	StateUpdating

	// StateCheckingConflicts means the dependency check is running.
	StateCheckingConflicts

	// StateClassifying means conflict output is being classified.
	StateClassifying

	// StateRetrying means another update round was scheduled.
	StateRetrying

	// StateBlacklisting means packages were added to the blacklist.
	StateBlacklisting

	// StateConverged means the dependency check came back clean.
	StateConverged
)

// String returns the display label for the state.
//
// Returns:
//   - string: Lowercase state name
func (s State) String() string {
	switch s {
	case StateUpdating:
		return "updating"
	case StateCheckingConflicts:
		return "checking-conflicts"
	case StateClassifying:
		return "classifying"
	case StateRetrying:
		return "retrying"
	case StateBlacklisting:
		return "blacklisting"
	case StateConverged:
		return "converged"
	default:
		return "idle"
	}
}

// Options configures one convergence run.
//
// Fields:
//   - MaxRounds: Hard bound on update rounds; the loop stops here even with
//     a consenting operator
//   - SkipPipUpgrade: Skip the initial pip self-upgrade
//   - HistoryPath: Where to write the conflict-history JSON; empty disables
//   - RequirementsPath: Where to write pinned requirements on request;
//     empty disables the offer
//   - StorePath: Package config path for persisting blacklist additions
type Options struct {
	MaxRounds        int
	SkipPipUpgrade   bool
	HistoryPath      string
	RequirementsPath string
	StorePath        string
}

// Result summarizes a finished run.
//
// Fields:
//   - Rounds: Update rounds executed
//   - Converged: Whether the final dependency check was clean
//   - Declined: Whether the operator declined the run before any work
//   - Updated: Successful package updates, pinned skips included
//   - Failed: Packages whose update failed, sorted by failure order
//   - Errors: One error per failed package, same order as Failed
//   - BlacklistAdded: Packages blacklisted during the run
//   - HistoryPath: Path of the written history file; empty when none
type Result struct {
	Rounds         int
	Converged      bool
	Declined       bool
	Updated        int
	Failed         []string
	Errors         []error
	BlacklistAdded []string
	HistoryPath    string
}

// Orchestrator coordinates one convergence run.
//
// Fields:
//   - Client: pip operations
//   - Decide: Operator prompts
//   - Out: Terminal output destination; defaults to os.Stdout
//   - Log: Per-run log; nil disables run logging
//   - Options: Run configuration
type Orchestrator struct {
	Client  pipclient.Client
	Decide  decision.Provider
	Out     io.Writer
	Log     *runlog.Logger
	Options Options

	state   State
	bl      *blacklist.Blacklist
	memory  *blacklist.Memory
	history *history.Store
	store   *config.PackageConfig
}

// New creates an Orchestrator over a loaded package config.
//
// The blacklist is seeded from the store; additions made during the run are
// only written back when the operator accepts the persistence offer.
//
// Parameters:
//   - client: pip operations
//   - decide: Operator prompts
//   - store: Loaded package config (blacklist seed + pinned versions)
//   - opts: Run configuration
//
// Returns:
//   - *Orchestrator: Orchestrator in StateIdle
func New(client pipclient.Client, decide decision.Provider, store *config.PackageConfig, opts Options) *Orchestrator {
	if store == nil {
		store = config.DefaultPackageConfig()
	}
	return &Orchestrator{
		Client:  client,
		Decide:  decide,
		Options: opts,
		state:   StateIdle,
		bl:      blacklist.New(store.Blacklist...),
		memory:  blacklist.NewMemory(),
		history: history.NewStore(),
		store:   store,
	}
}

// State returns the orchestrator's current state.
//
// Returns:
//   - State: Current loop state
func (o *Orchestrator) State() State {
	return o.state
}

// History returns the conflict history accumulated so far.
//
// Returns:
//   - *history.Store: Run history store
func (o *Orchestrator) History() *history.Store {
	return o.history
}

// Run executes the full convergence loop.
//
// It performs the following operations:
//   - Confirms the run with the operator (declined runs succeed idle)
//   - Upgrades pip itself unless disabled
//   - Lists outdated packages and removes blacklisted ones
//   - Pre-checks conflicts and lets the operator fold conflicting packages
//     into the plan or drop them
//   - Loops: update round, dependency check, classify, candidate offers,
//     retry confirmation, bounded by Options.MaxRounds
//   - Offers to persist blacklist additions and to write the
//     pinned-requirements file; writes the conflict-history file when
//     anything was recorded
//
// Per-package update failures are collected in the Result, never fatal. An
// error is returned only when pip itself cannot be driven.
//
// Parameters:
//   - ctx: Context for cancellation, passed to every pip call
//
// Returns:
//   - *Result: Run summary, populated even alongside an error
//   - error: Infrastructure failure (pip unrunnable, check broken)
func (o *Orchestrator) Run(ctx context.Context) (*Result, error) {
	res := &Result{}

	if !o.Decide.Confirm("Proceed with the full upgrade?") {
		res.Declined = true
		o.logEvent("run declined by operator")
		return res, nil
	}

	o.logEvent("run started (max rounds: %d)", o.Options.MaxRounds)

	if !o.Options.SkipPipUpgrade {
		if err := o.Client.SelfUpgrade(ctx); err != nil {
			// A stale pip can still run the loop.
			warnings.Warnf("pip self-upgrade failed: %v\n", err)
			o.logFailure(err, "pip self-upgrade failed")
		} else {
			o.logEvent("pip self-upgrade ok")
		}
	}

	plan, err := o.buildPlan(ctx)
	if err != nil {
		return res, err
	}

	if err := o.preCheck(ctx, plan); err != nil {
		return res, err
	}

	if plan.Len() == 0 && o.history.Len() == 0 {
		fmt.Fprintln(o.out(), "Nothing to update.")
		res.Converged = true
		o.state = StateConverged
		return res, o.finish(res)
	}

	loopErr := o.loop(ctx, plan, res)
	if err := o.finish(res); err != nil {
		return res, err
	}

	return res, loopErr
}

// buildPlan lists outdated packages, filters the blacklist, and shows the
// update plan.
func (o *Orchestrator) buildPlan(ctx context.Context) (*Plan, error) {
	rows, err := o.Client.ListOutdated(ctx)
	if err != nil {
		return nil, err
	}

	var names []string
	var planRows []output.PlanRow
	skipped := 0

	for _, row := range rows {
		if entry, ok := o.bl.Match(row.Name); ok {
			skipped++
			fmt.Fprintf(o.out(), "Skipping blacklisted package %s (matches %s)\n", row.Name, entry)
			continue
		}

		target := "latest"
		change := versions.Classify(row.Current, row.Latest).String()
		if pinned, ok := o.pinnedVersion(row.Name); ok {
			target = pinned
			change = "pinned"
		}
		names = append(names, row.Name)
		planRows = append(planRows, output.PlanRow{
			Package: row.Name,
			Current: row.Current,
			Target:  target,
			Change:  change,
		})
	}

	output.WritePlan(o.out(), planRows)
	o.logEvent("plan built: %d pending, %d blacklist-skipped", len(names), skipped)

	return NewPlan(names, o.store.SpecificVersions), nil
}

// preCheck runs the dependency check before any update so pre-existing
// conflicts can be folded into the plan or dropped from it.
func (o *Orchestrator) preCheck(ctx context.Context, plan *Plan) error {
	ok, raw, err := o.Client.Check(ctx)
	if err != nil {
		return err
	}
	if ok {
		return nil
	}

	report := conflicts.Parse(raw, o.bl)
	if !report.HasConflicts() {
		return nil
	}

	fmt.Fprintln(o.out(), "\nPre-existing dependency conflicts:")
	output.WriteConflicts(o.out(), report)
	// Recorded but not observed: candidacy counts conflicting rounds, and
	// the pre-check is not a round.
	o.history.Record(report.Records)
	o.logEvent("pre-check found %d conflict line(s)", len(report.Lines))

	prompt := fmt.Sprintf("Reinstall the %d conflicting package(s) as part of this run?", len(report.Packages))
	if o.Decide.Confirm(prompt) {
		plan.Merge(report.Packages)
	} else {
		plan.Remove(report.Packages)
	}

	return nil
}

// loop runs update rounds until convergence, operator stop, an empty retry
// plan, or the round bound. A broken dependency check aborts the loop with
// its error; everything already updated stays updated.
func (o *Orchestrator) loop(ctx context.Context, plan *Plan, res *Result) error {
	for round := 1; round <= o.Options.MaxRounds; round++ {
		res.Rounds = round
		o.state = StateUpdating

		summary := o.updateRound(ctx, round, plan, res)

		o.state = StateCheckingConflicts
		ok, raw, err := o.Client.Check(ctx)
		if err != nil {
			o.logFailure(err, "dependency check failed in round %d", round)
			return err
		}
		if ok {
			o.state = StateConverged
			res.Converged = true
			output.WriteRoundSummary(o.out(), summary)
			o.logEvent("round %d: converged", round)
			return nil
		}

		report := conflicts.Parse(raw, o.bl)
		o.history.Record(report.Records)
		summary.Conflicts = len(report.Lines)

		if !report.HasConflicts() {
			// Every remaining conflict line matched the blacklist; the
			// loop cannot improve on that.
			o.state = StateConverged
			res.Converged = true
			output.WriteRoundSummary(o.out(), summary)
			o.logEvent("round %d: only blacklisted conflicts remain", round)
			return nil
		}

		fmt.Fprintln(o.out())
		output.WriteConflicts(o.out(), report)

		o.state = StateClassifying
		added := o.offerCandidates(report.Packages, res)
		summary.Blacklisted = added
		output.WriteRoundSummary(o.out(), summary)

		retry := o.retryPackages(report.Packages)
		if len(retry) == 0 {
			o.logEvent("round %d: no retryable packages remain", round)
			return nil
		}
		if round == o.Options.MaxRounds {
			fmt.Fprintf(o.out(), "Reached the round limit (%d); stopping.\n", o.Options.MaxRounds)
			o.logEvent("round limit reached")
			return nil
		}
		prompt := fmt.Sprintf("Retry updating the %d still-conflicting package(s)?", len(retry))
		if !o.Decide.Confirm(prompt) {
			o.logEvent("round %d: retry declined", round)
			return nil
		}

		o.state = StateRetrying
		plan.Replace(retry)
	}

	return nil
}

// updateRound applies one round of updates and returns its counters.
func (o *Orchestrator) updateRound(ctx context.Context, round int, plan *Plan, res *Result) output.RoundSummary {
	summary := output.RoundSummary{Round: round}
	log := o.roundLog(round)

	for _, name := range plan.Packages {
		pinned, isPinned := plan.PinnedVersion(name)

		if isPinned {
			installed, err := o.Client.ShowVersion(ctx, name)
			if err == nil && installed == pinned {
				// Already at the pinned version counts as success.
				verbose.Infof("%s already at pinned version %s", name, pinned)
				log.Info().Str("package", name).Str("version", pinned).Msg("pinned, already satisfied")
				res.Updated++
				summary.Updated++
				summary.SkippedPinned++
				continue
			}
		}

		target := ""
		if isPinned {
			target = pinned
		}
		if err := o.Client.Update(ctx, name, target); err != nil {
			res.Failed = append(res.Failed, name)
			res.Errors = append(res.Errors, err)
			summary.Failed++
			fmt.Fprintf(o.out(), "Failed to update %s: %v\n", name, err)
			log.Error().Err(err).Str("package", name).Msg("update failed")
			continue
		}

		res.Updated++
		summary.Updated++
		log.Info().Str("package", name).Str("target", targetLabel(target)).Msg("updated")
	}

	return summary
}

// offerCandidates promotes repeat conflict offenders, announces each one on
// the run output, and asks the operator about it. Accepted candidates join
// the in-memory blacklist.
func (o *Orchestrator) offerCandidates(packages []string, res *Result) int {
	added := 0
	for _, candidate := range o.memory.Observe(packages) {
		fmt.Fprintf(o.out(), "%s keeps causing conflicts.\n", candidate)
		prompt := fmt.Sprintf("Add %s to the blacklist?", candidate)
		if !o.Decide.Confirm(prompt) {
			o.logEvent("blacklist candidate %s declined", candidate)
			continue
		}
		if o.bl.Add(candidate) {
			res.BlacklistAdded = append(res.BlacklistAdded, candidate)
			added++
			o.logEvent("blacklisted %s", candidate)
		}
	}
	o.state = StateBlacklisting
	if added == 0 {
		o.state = StateClassifying
	}
	return added
}

// retryPackages returns the conflicting packages that are not blacklisted.
func (o *Orchestrator) retryPackages(packages []string) []string {
	var retry []string
	for _, name := range packages {
		if _, ok := o.bl.Match(name); ok {
			continue
		}
		retry = append(retry, name)
	}
	return retry
}

// finish handles the end-of-run persistence offers: blacklist additions to
// the package config, the conflict-history file, and the pinned-requirements
// file. Persistence failures surface as warnings.
func (o *Orchestrator) finish(res *Result) error {
	if len(res.BlacklistAdded) > 0 && o.Options.StorePath != "" {
		prompt := fmt.Sprintf("Persist the %d blacklist addition(s) to %s?", len(res.BlacklistAdded), o.Options.StorePath)
		if o.Decide.Confirm(prompt) {
			o.store.MergeBlacklist(res.BlacklistAdded)
			if err := o.store.Save(o.Options.StorePath); err != nil {
				warnings.Warnf("could not persist blacklist: %v\n", err)
				o.logFailure(err, "blacklist persistence failed")
			} else {
				o.logEvent("persisted %d blacklist addition(s)", len(res.BlacklistAdded))
			}
		}
	}

	if o.history.Len() > 0 && o.Options.HistoryPath != "" {
		if err := o.history.WriteFile(o.Options.HistoryPath); err != nil {
			warnings.Warnf("could not write conflict history: %v\n", err)
			o.logFailure(err, "history write failed")
		} else {
			res.HistoryPath = o.Options.HistoryPath
			o.logEvent("conflict history written to %s", o.Options.HistoryPath)
		}

		if o.Options.RequirementsPath != "" {
			prompt := fmt.Sprintf("Generate the pinned requirements file at %s?", o.Options.RequirementsPath)
			if o.Decide.Confirm(prompt) {
				if err := o.history.WriteRequirements(o.Options.RequirementsPath); err != nil {
					warnings.Warnf("could not write requirements file: %v\n", err)
					o.logFailure(err, "requirements write failed")
				} else {
					o.logEvent("requirements written to %s", o.Options.RequirementsPath)
				}
			}
		}
	}

	output.WriteFinalSummary(o.out(), output.FinalSummary{
		Rounds:      res.Rounds,
		Converged:   res.Converged,
		Updated:     res.Updated,
		Failed:      res.Failed,
		HistoryPath: res.HistoryPath,
	})

	return nil
}

// pinnedVersion looks up a pin by normalized name.
func (o *Orchestrator) pinnedVersion(name string) (string, bool) {
	for pinned, version := range o.store.SpecificVersions {
		if blacklist.Normalize(pinned) == blacklist.Normalize(name) {
			return version, true
		}
	}
	return "", false
}

// out returns the configured output writer or os.Stdout.
func (o *Orchestrator) out() io.Writer {
	if o.Out != nil {
		return o.Out
	}
	return os.Stdout
}

// logEvent records a run event when run logging is enabled.
func (o *Orchestrator) logEvent(format string, args ...any) {
	if o.Log != nil {
		o.Log.Event(format, args...)
	}
}

// logFailure records a failed operation when run logging is enabled.
func (o *Orchestrator) logFailure(err error, format string, args ...any) {
	if o.Log != nil {
		o.Log.Failure(err, format, args...)
	}
}

// roundLog returns a round-scoped logger, discarding when logging is off.
func (o *Orchestrator) roundLog(round int) zerolog.Logger {
	if o.Log != nil {
		return o.Log.Round(round)
	}
	return zerolog.New(io.Discard)
}

// targetLabel names an update target for the run log.
func targetLabel(target string) string {
	if target == "" {
		return "latest"
	}
	return target
}
