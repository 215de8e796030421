package conflicts

import (
	"sort"
	"strings"

	"github.com/ajxudir/pipconverge/pkg/blacklist"
	"github.com/ajxudir/pipconverge/pkg/errors"
	"github.com/ajxudir/pipconverge/pkg/verbose"
)

// Record is one structured conflict: a package whose installed version fails
// a dependency requirement, with the resolved target version.
//
// Fields:
//   - Package: Package named at the start of the conflict line
//   - Dependency: Dependency whose requirement is unmet
//   - Version: Resolved required version for the dependency
type Record struct {
	Package    string
	Dependency string
	Version    string
}

// IgnoredLine is a conflict line suppressed by the blacklist. Suppressed
// lines are kept for reporting so filtering is never silent.
//
// Fields:
//   - Line: The raw conflict line
//   - Entry: Display name of the blacklist entry that matched
type IgnoredLine struct {
	Line  string
	Entry string
}

// Report is the parsed form of one dependency-check invocation.
//
// Fields:
//   - Lines: Surviving conflict lines after blacklist filtering
//   - Packages: Sorted distinct package names appearing in Lines
//   - Ignored: Lines suppressed because their package matched the blacklist
//   - Records: Structured records extracted from the surviving lines;
//     lines with no extractable version produce no record
type Report struct {
	Lines    []string
	Packages []string
	Ignored  []IgnoredLine
	Records  []Record
}

// HasConflicts reports whether any active conflict lines remain.
//
// Returns:
//   - bool: true when the filtered report still names conflicts
func (r Report) HasConflicts() bool {
	return len(r.Lines) > 0
}

// Parse splits a raw multi-line conflict report into records.
//
// It performs the following operations:
//   - Splits the raw text into non-blank lines, one conflict candidate each
//   - Derives the offending package from the first whitespace token
//   - Removes lines whose normalized package token contains a blacklisted
//     name (substring match), keeping them in Ignored
//   - Feeds surviving lines through Extract to build structured records;
//     lines with no actionable constraint are reported on the verbose stream
//
// Filtering is idempotent: parsing the surviving lines again with the same
// blacklist yields the same set.
//
// Parameters:
//   - raw: Raw dependency-check output, possibly empty
//   - bl: Current blacklist; nil is treated as empty
//
// Returns:
//   - Report: Filtered lines, sorted package set, ignored lines, and records
func Parse(raw string, bl *blacklist.Blacklist) Report {
	if bl == nil {
		bl = blacklist.New()
	}

	var report Report
	packages := make(map[string]struct{})

	for _, rawLine := range strings.Split(raw, "\n") {
		line := strings.TrimSpace(rawLine)
		if line == "" {
			continue
		}

		pkg := strings.Fields(line)[0]
		if entry, ok := bl.Match(pkg); ok {
			report.Ignored = append(report.Ignored, IgnoredLine{Line: line, Entry: entry})
			continue
		}

		report.Lines = append(report.Lines, line)
		packages[pkg] = struct{}{}

		req, ok := Extract(line)
		if !ok || req.Version == "" {
			verbose.Infof("%v", &errors.ParseError{Input: line, Reason: "no actionable version constraint"})
			continue
		}
		report.Records = append(report.Records, Record{
			Package:    pkg,
			Dependency: req.Dependency,
			Version:    req.Version,
		})
	}

	for pkg := range packages {
		report.Packages = append(report.Packages, pkg)
	}
	sort.Strings(report.Packages)

	return report
}
