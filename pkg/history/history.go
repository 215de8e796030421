// Package history accumulates the conflict records observed during one run
// and persists them as the conflict-history file and, on request, a pinned
// requirements file.
package history

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"

	"github.com/iancoleman/orderedmap"

	"github.com/ajxudir/pipconverge/pkg/conflicts"
	"github.com/ajxudir/pipconverge/pkg/errors"
	"github.com/ajxudir/pipconverge/pkg/versions"
)

// Entry is one dependency requirement recorded against a package.
//
// Fields:
//   - Dependency: Dependency whose requirement was unmet
//   - Version: Required version extracted from the conflict line
type Entry struct {
	Dependency string `json:"dependency"`
	Version    string `json:"version"`
}

// Store accumulates deduplicated conflict history for a whole run.
// Records are append-only; the same (package, dependency, version) triple is
// stored once no matter how many rounds report it.
//
// Fields:
//   - order: Package names in first-seen order, for stable file output
//   - entries: Package name -> recorded entries in arrival order
//   - seen: Exact triples already recorded
type Store struct {
	order   []string
	entries map[string][]Entry
	seen    map[string]struct{}
}

// NewStore creates an empty conflict history store.
//
// Returns:
//   - *Store: New store instance
func NewStore() *Store {
	return &Store{
		entries: make(map[string][]Entry),
		seen:    make(map[string]struct{}),
	}
}

// Record adds conflict records to the history, skipping exact duplicates.
//
// Parameters:
//   - records: Structured conflict records from a parsed report
//
// Returns:
//   - int: Number of records that were new
func (s *Store) Record(records []conflicts.Record) int {
	added := 0

	for _, rec := range records {
		if rec.Package == "" || rec.Dependency == "" || rec.Version == "" {
			continue
		}

		key := rec.Package + "\x00" + rec.Dependency + "\x00" + rec.Version
		if _, dup := s.seen[key]; dup {
			continue
		}
		s.seen[key] = struct{}{}

		if _, known := s.entries[rec.Package]; !known {
			s.order = append(s.order, rec.Package)
		}
		s.entries[rec.Package] = append(s.entries[rec.Package], Entry{
			Dependency: rec.Dependency,
			Version:    rec.Version,
		})
		added++
	}

	return added
}

// Len returns the total number of recorded entries.
//
// Returns:
//   - int: Count of deduplicated (package, dependency, version) triples
func (s *Store) Len() int {
	return len(s.seen)
}

// Packages returns the recorded package names in first-seen order.
//
// Returns:
//   - []string: Package names, earliest conflict first
func (s *Store) Packages() []string {
	out := make([]string, len(s.order))
	copy(out, s.order)
	return out
}

// Entries returns the recorded entries for one package.
//
// Parameters:
//   - pkg: Package name as it appeared in the conflict report
//
// Returns:
//   - []Entry: Entries in arrival order; nil when the package has none
func (s *Store) Entries(pkg string) []Entry {
	entries := s.entries[pkg]
	if entries == nil {
		return nil
	}
	out := make([]Entry, len(entries))
	copy(out, entries)
	return out
}

// JSON renders the history as an ordered JSON object keyed by package
// name in first-seen order.
//
// Returns:
//   - []byte: JSON bytes with 4-space indentation
//   - error: Encoding error; nil on success
func (s *Store) JSON() ([]byte, error) {
	data := orderedmap.New()
	data.SetEscapeHTML(false)
	for _, pkg := range s.order {
		data.Set(pkg, s.entries[pkg])
	}

	var buf bytes.Buffer
	encoder := json.NewEncoder(&buf)
	encoder.SetEscapeHTML(false)
	encoder.SetIndent("", "    ")
	if err := encoder.Encode(data); err != nil {
		return nil, err
	}

	return bytes.TrimRight(buf.Bytes(), "\n"), nil
}

// WriteFile persists the history to path as JSON.
//
// Write failures are wrapped as PersistError so callers can surface them
// without aborting the run.
//
// Parameters:
//   - path: Destination file path
//
// Returns:
//   - error: *errors.PersistError on failure; nil on success
func (s *Store) WriteFile(path string) error {
	data, err := s.JSON()
	if err != nil {
		return &errors.PersistError{Path: path, Err: err}
	}

	if err := os.WriteFile(path, append(data, '\n'), 0o644); err != nil {
		return &errors.PersistError{Path: path, Err: err}
	}

	return nil
}

// RequirementLines renders the history as pinned "name==version" lines,
// sorted case-insensitively. A package with several recorded dependencies
// contributes one line per distinct dependency requirement.
//
// Returns:
//   - []string: Pinned requirement lines, deterministic order
func (s *Store) RequirementLines() []string {
	var lines []string
	emitted := make(map[string]struct{})

	for _, pkg := range s.order {
		for _, entry := range s.entries[pkg] {
			line := fmt.Sprintf("%s==%s", entry.Dependency, entry.Version)
			if _, dup := emitted[line]; dup {
				continue
			}
			emitted[line] = struct{}{}
			lines = append(lines, line)
		}
	}

	return versions.Sort(lines)
}

// WriteRequirements writes the pinned requirements file to path.
//
// Parameters:
//   - path: Destination file path
//
// Returns:
//   - error: *errors.PersistError on failure; nil on success
func (s *Store) WriteRequirements(path string) error {
	lines := s.RequirementLines()

	var buf bytes.Buffer
	for _, line := range lines {
		buf.WriteString(line)
		buf.WriteByte('\n')
	}

	if err := os.WriteFile(path, buf.Bytes(), 0o644); err != nil {
		return &errors.PersistError{Path: path, Err: err}
	}

	return nil
}
