// Package blacklist tracks packages excluded from updates and the
// cross-round memory that promotes repeat conflict offenders to blacklist
// candidates.
//
// All membership checks use a normalized name form (lowercased, with "-" and
// "_" stripped) because pip, PyPI metadata, and conflict diagnostics disagree
// on separator and case conventions for the same package.
package blacklist

import (
	"sort"
	"strings"
)

// Normalize converts a package name to its canonical comparison form.
//
// Parameters:
//   - name: Raw package name as reported by pip
//
// Returns:
//   - string: Lowercased name with all "-" and "_" characters removed
func Normalize(name string) string {
	lowered := strings.ToLower(strings.TrimSpace(name))
	lowered = strings.ReplaceAll(lowered, "-", "")
	return strings.ReplaceAll(lowered, "_", "")
}

// Blacklist is a set of package names excluded from update attempts.
// Display names are preserved; membership is decided on normalized forms.
//
// Fields:
//   - entries: Normalized name -> original display name
type Blacklist struct {
	entries map[string]string
}

// New creates a Blacklist seeded with the given names.
//
// Parameters:
//   - names: Initial package names, deduplicated by normalized form
//
// Returns:
//   - *Blacklist: New blacklist instance
func New(names ...string) *Blacklist {
	b := &Blacklist{entries: make(map[string]string)}
	for _, name := range names {
		b.Add(name)
	}
	return b
}

// Add inserts a package into the blacklist.
//
// Parameters:
//   - name: Package name to add
//
// Returns:
//   - bool: true if the package was new, false if already present (or blank)
func (b *Blacklist) Add(name string) bool {
	key := Normalize(name)
	if key == "" {
		return false
	}
	if _, exists := b.entries[key]; exists {
		return false
	}
	b.entries[key] = strings.TrimSpace(name)
	return true
}

// Contains reports exact membership after normalization.
//
// Parameters:
//   - name: Package name to look up
//
// Returns:
//   - bool: true if the normalized name is blacklisted
func (b *Blacklist) Contains(name string) bool {
	_, ok := b.entries[Normalize(name)]
	return ok
}

// Match reports whether any blacklisted name occurs as a substring of the
// given name after normalization. The substring semantics intentionally
// suppress related sub-packages (e.g. "awscli" also matches
// "awscli-plugin-endpoint") and mirror the conservative filtering of the
// conflict report.
//
// Parameters:
//   - name: Package name from a conflict line
//
// Returns:
//   - string: Display name of the first matching blacklist entry
//   - bool: true if a match was found
func (b *Blacklist) Match(name string) (string, bool) {
	normalized := Normalize(name)
	if normalized == "" {
		return "", false
	}

	keys := make([]string, 0, len(b.entries))
	for key := range b.entries {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	for _, key := range keys {
		if strings.Contains(normalized, key) {
			return b.entries[key], true
		}
	}
	return "", false
}

// Names returns the display names of all entries, sorted.
//
// Returns:
//   - []string: Sorted display names
func (b *Blacklist) Names() []string {
	names := make([]string, 0, len(b.entries))
	for _, name := range b.entries {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Len returns the number of blacklisted packages.
//
// Returns:
//   - int: Entry count
func (b *Blacklist) Len() int {
	return len(b.entries)
}
