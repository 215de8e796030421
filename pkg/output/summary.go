package output

import (
	"fmt"
	"io"

	"github.com/ajxudir/pipconverge/pkg/conflicts"
)

// PlanRow is one line of the update plan shown before packages are updated.
//
// Fields:
//   - Package: Package name as pip reports it
//   - Current: Installed version
//   - Target: Version that will be installed; "latest" when unpinned
//   - Change: Classification of the jump, e.g. "upgrade"
type PlanRow struct {
	Package string
	Current string
	Target  string
	Change  string
}

// WritePlan renders the update plan table.
//
// Parameters:
//   - w: Destination writer
//   - rows: Plan rows in display order
func WritePlan(w io.Writer, rows []PlanRow) {
	if len(rows) == 0 {
		fmt.Fprintln(w, "All packages are up to date.")
		return
	}

	table := NewTable("PACKAGE", "CURRENT", "TARGET", "CHANGE")
	for _, row := range rows {
		table.UpdateWidths(row.Package, row.Current, row.Target, row.Change)
	}

	fmt.Fprintln(w, table.HeaderRow())
	fmt.Fprintln(w, table.SeparatorRow())
	for _, row := range rows {
		fmt.Fprintln(w, table.FormatRow(row.Package, row.Current, row.Target, row.Change))
	}
}

// WriteConflicts renders the parsed conflict report as a table, followed by
// any lines that were ignored because of the blacklist.
//
// Parameters:
//   - w: Destination writer
//   - report: Parsed conflict report
func WriteConflicts(w io.Writer, report conflicts.Report) {
	if !report.HasConflicts() {
		fmt.Fprintln(w, "No dependency conflicts detected.")
		return
	}

	if len(report.Records) > 0 {
		table := NewTable("PACKAGE", "DEPENDENCY", "REQUIRED")
		for _, rec := range report.Records {
			table.UpdateWidths(rec.Package, rec.Dependency, rec.Version)
		}

		fmt.Fprintln(w, table.HeaderRow())
		fmt.Fprintln(w, table.SeparatorRow())
		for _, rec := range report.Records {
			fmt.Fprintln(w, table.FormatRow(rec.Package, rec.Dependency, rec.Version))
		}
	}

	for _, line := range report.Lines {
		if req, ok := conflicts.Extract(line); !ok || req.Version == "" {
			fmt.Fprintf(w, "No version could be extracted: %s\n", line)
		}
	}

	if len(report.Ignored) > 0 {
		fmt.Fprintf(w, "\nIgnored %d line(s) matching blacklisted packages:\n", len(report.Ignored))
		for _, ign := range report.Ignored {
			fmt.Fprintf(w, "  [%s] %s\n", ign.Entry, ign.Line)
		}
	}
}

// RoundSummary holds the counters displayed after each convergence round.
//
// Fields:
//   - Round: 1-based round number
//   - Updated: Packages updated successfully this round, pinned skips
//     included
//   - SkippedPinned: Packages already at their pinned version (subset of
//     Updated)
//   - Failed: Packages whose update failed this round
//   - Conflicts: Conflict lines remaining after the round
//   - Blacklisted: Packages newly added to the blacklist this round
type RoundSummary struct {
	Round         int
	Updated       int
	SkippedPinned int
	Failed        int
	Conflicts     int
	Blacklisted   int
}

// WriteRoundSummary renders one round's counters on a single line.
//
// Parameters:
//   - w: Destination writer
//   - s: Round counters
func WriteRoundSummary(w io.Writer, s RoundSummary) {
	fmt.Fprintf(w, "Round %d: %d updated (%d already pinned), %d failed, %d conflict(s) remaining, %d blacklisted\n",
		s.Round, s.Updated, s.SkippedPinned, s.Failed, s.Conflicts, s.Blacklisted)
}

// FinalSummary holds the end-of-run totals.
//
// Fields:
//   - Rounds: Rounds executed
//   - Converged: Whether the run ended with a clean pip check
//   - Updated: Total successful package updates
//   - Failed: Packages that could not be updated
//   - HistoryPath: Where the conflict history was written; empty when none
type FinalSummary struct {
	Rounds      int
	Converged   bool
	Updated     int
	Failed      []string
	HistoryPath string
}

// WriteFinalSummary renders the end-of-run report.
//
// Parameters:
//   - w: Destination writer
//   - s: Run totals
func WriteFinalSummary(w io.Writer, s FinalSummary) {
	fmt.Fprintln(w)
	if s.Converged {
		fmt.Fprintf(w, "Converged after %d round(s): no dependency conflicts remain.\n", s.Rounds)
	} else {
		fmt.Fprintf(w, "Stopped after %d round(s) without converging.\n", s.Rounds)
	}

	fmt.Fprintf(w, "Packages updated: %d\n", s.Updated)
	if len(s.Failed) > 0 {
		fmt.Fprintf(w, "Packages failed: %d\n", len(s.Failed))
		for _, name := range s.Failed {
			fmt.Fprintf(w, "  - %s\n", name)
		}
	}
	if s.HistoryPath != "" {
		fmt.Fprintf(w, "Conflict history written to %s\n", s.HistoryPath)
	}
}
