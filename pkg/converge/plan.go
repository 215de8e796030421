package converge

import (
	"sort"

	"github.com/ajxudir/pipconverge/pkg/blacklist"
)

// Plan is the set of packages pending an update attempt, plus the versions
// the operator pinned in the package config.
//
// Fields:
//   - Packages: Pending display names, kept sorted
//   - pinned: Normalized name -> pinned version
type Plan struct {
	Packages []string

	pinned map[string]string
}

// NewPlan creates a plan over the given package names.
//
// Parameters:
//   - names: Pending package names, deduplicated by normalized form
//   - pinnedVersions: Pinned versions keyed by package name, any spelling
//
// Returns:
//   - *Plan: Plan with sorted packages and normalized pin lookup
func NewPlan(names []string, pinnedVersions map[string]string) *Plan {
	p := &Plan{pinned: make(map[string]string, len(pinnedVersions))}
	for name, version := range pinnedVersions {
		p.pinned[blacklist.Normalize(name)] = version
	}
	p.Replace(names)
	return p
}

// Replace swaps the pending package set, keeping the pin table.
//
// Parameters:
//   - names: New pending package names
func (p *Plan) Replace(names []string) {
	seen := make(map[string]struct{}, len(names))
	p.Packages = p.Packages[:0]
	for _, name := range names {
		key := blacklist.Normalize(name)
		if key == "" {
			continue
		}
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}
		p.Packages = append(p.Packages, name)
	}
	sort.Strings(p.Packages)
}

// Merge adds package names to the plan, skipping ones already pending.
//
// Parameters:
//   - names: Package names to add
//
// Returns:
//   - int: Number of names that were new
func (p *Plan) Merge(names []string) int {
	added := 0
	pending := make(map[string]struct{}, len(p.Packages))
	for _, name := range p.Packages {
		pending[blacklist.Normalize(name)] = struct{}{}
	}

	for _, name := range names {
		key := blacklist.Normalize(name)
		if key == "" {
			continue
		}
		if _, dup := pending[key]; dup {
			continue
		}
		pending[key] = struct{}{}
		p.Packages = append(p.Packages, name)
		added++
	}

	sort.Strings(p.Packages)
	return added
}

// Remove drops package names from the plan.
//
// Parameters:
//   - names: Package names to drop, any spelling
func (p *Plan) Remove(names []string) {
	drop := make(map[string]struct{}, len(names))
	for _, name := range names {
		drop[blacklist.Normalize(name)] = struct{}{}
	}

	kept := p.Packages[:0]
	for _, name := range p.Packages {
		if _, gone := drop[blacklist.Normalize(name)]; !gone {
			kept = append(kept, name)
		}
	}
	p.Packages = kept
}

// PinnedVersion returns the pinned version for a package, if any.
//
// Parameters:
//   - name: Package name, any spelling
//
// Returns:
//   - string: Pinned version
//   - bool: true when the package is pinned
func (p *Plan) PinnedVersion(name string) (string, bool) {
	version, ok := p.pinned[blacklist.Normalize(name)]
	return version, ok
}

// Len returns the number of pending packages.
//
// Returns:
//   - int: Pending package count
func (p *Plan) Len() int {
	return len(p.Packages)
}
