// Package versions provides semantic version comparison helpers.
//
// These are used to annotate run summaries (did an update move a package up
// or down) and to order generated requirements deterministically. The
// constraint extractor in pkg/conflicts deliberately does not use this
// package: it preserves the string-maximum bound resolution of the original
// tool, a documented approximation.
package versions

import (
	"sort"
	"strings"

	"golang.org/x/mod/semver"
)

// Change classifies the relation between two installed versions.
type Change int

const (
	// ChangeUnknown means one of the versions could not be interpreted.
	ChangeUnknown Change = iota

	// ChangeNone means the versions are semantically equal.
	ChangeNone

	// ChangeUpgrade means the second version is newer.
	ChangeUpgrade

	// ChangeDowngrade means the second version is older.
	ChangeDowngrade
)

// String returns the display label for the change.
//
// Returns:
//   - string: One of "unknown", "none", "upgrade", "downgrade"
func (c Change) String() string {
	switch c {
	case ChangeNone:
		return "none"
	case ChangeUpgrade:
		return "upgrade"
	case ChangeDowngrade:
		return "downgrade"
	default:
		return "unknown"
	}
}

// Canonical converts a pip-style version string to canonical semver form.
//
// It performs the following operations:
//   - Trims whitespace and adds a "v" prefix when missing
//   - Pads missing minor/patch segments with zeros until valid
//
// Parameters:
//   - version: The version string to canonicalize (e.g., "2.31", "1.0.0")
//
// Returns:
//   - string: Canonical semver string (e.g., "v2.31.0"); empty when the
//     input cannot be interpreted as semver
func Canonical(version string) string {
	cleaned := strings.TrimSpace(version)
	if cleaned == "" {
		return ""
	}

	if !strings.HasPrefix(cleaned, "v") {
		cleaned = "v" + cleaned
	}

	trimmed := strings.TrimPrefix(cleaned, "v")
	parts := strings.Split(trimmed, ".")
	for len(parts) > 0 && len(parts) < 3 {
		candidate := "v" + strings.Join(parts, ".")
		if semver.IsValid(candidate) {
			return semver.Canonical(candidate)
		}
		parts = append(parts, "0")
	}

	if semver.IsValid(cleaned) {
		return semver.Canonical(cleaned)
	}

	return ""
}

// Compare compares two version strings semantically when possible.
//
// Parameters:
//   - a: First version string
//   - b: Second version string
//
// Returns:
//   - int: Negative if a < b, zero if equal, positive if a > b
//   - bool: true when both versions were interpretable as semver; false
//     means the int result is meaningless and callers should fall back
func Compare(a, b string) (int, bool) {
	ca := Canonical(a)
	cb := Canonical(b)
	if ca == "" || cb == "" {
		return 0, false
	}
	return semver.Compare(ca, cb), true
}

// Classify reports how an installed version moved between two snapshots.
//
// Parameters:
//   - from: Version before the operation; empty means "not installed"
//   - to: Version after the operation
//
// Returns:
//   - Change: ChangeUpgrade, ChangeDowngrade, ChangeNone, or ChangeUnknown
//     when either side is missing or not semver-interpretable
func Classify(from, to string) Change {
	if from == "" || to == "" {
		return ChangeUnknown
	}

	cmp, ok := Compare(from, to)
	if !ok {
		if from == to {
			return ChangeNone
		}
		return ChangeUnknown
	}

	switch {
	case cmp < 0:
		return ChangeUpgrade
	case cmp > 0:
		return ChangeDowngrade
	default:
		return ChangeNone
	}
}

// Sort returns a copy of names ordered case-insensitively ascending.
// Versions carried in "name==version" lines stay attached to their name.
//
// Parameters:
//   - lines: Requirement lines or bare names
//
// Returns:
//   - []string: Sorted copy of the input
func Sort(lines []string) []string {
	sorted := make([]string, len(lines))
	copy(sorted, lines)

	sort.SliceStable(sorted, func(i, j int) bool {
		return strings.ToLower(sorted[i]) < strings.ToLower(sorted[j])
	})

	return sorted
}
