package blacklist

import "sort"

// Memory remembers which packages have appeared in conflict output across
// checking rounds of a single run. A package becomes a blacklist candidate
// on its second sighting; once flagged it is never flagged again, so a
// declined candidate is not re-offered every round.
//
// Fields:
//   - seen: Normalized names observed at least once
//   - flagged: Normalized names already promoted to candidates
type Memory struct {
	seen    map[string]struct{}
	flagged map[string]struct{}
}

// NewMemory creates an empty conflict memory.
//
// Returns:
//   - *Memory: New memory instance
func NewMemory() *Memory {
	return &Memory{
		seen:    make(map[string]struct{}),
		flagged: make(map[string]struct{}),
	}
}

// Observe records one checking round's conflict packages and returns the
// repeat offenders that became blacklist candidates in this round.
//
// It performs the following operations:
//   - First sighting of a package is remembered, not flagged
//   - Second sighting promotes the package to candidate exactly once
//   - Already-flagged packages are skipped
//
// Parameters:
//   - packages: Display names of packages conflicting in this round
//
// Returns:
//   - []string: Sorted display names of new blacklist candidates
func (m *Memory) Observe(packages []string) []string {
	var candidates []string

	for _, pkg := range packages {
		key := Normalize(pkg)
		if key == "" {
			continue
		}
		if _, done := m.flagged[key]; done {
			continue
		}
		if _, ok := m.seen[key]; ok {
			m.flagged[key] = struct{}{}
			candidates = append(candidates, pkg)
			continue
		}
		m.seen[key] = struct{}{}
	}

	sort.Strings(candidates)
	return candidates
}

// SeenCount returns how many distinct packages have been observed so far.
//
// Returns:
//   - int: Count of distinct normalized names seen at least once
func (m *Memory) SeenCount() int {
	return len(m.seen)
}
