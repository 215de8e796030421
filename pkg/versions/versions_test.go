package versions

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

// TestCanonical tests the behavior of Canonical.
//
// It verifies:
//   - Short versions are padded to full semver
//   - Already canonical versions pass through
//   - Non-semver input yields an empty string
func TestCanonical(t *testing.T) {
	tests := []struct {
		name    string
		version string
		want    string
	}{
		{name: "two segments", version: "2.31", want: "v2.31.0"},
		{name: "three segments", version: "1.26.4", want: "v1.26.4"},
		{name: "single segment", version: "3", want: "v3.0.0"},
		{name: "with v prefix", version: "v1.2.3", want: "v1.2.3"},
		{name: "garbage", version: "not-a-version", want: ""},
		{name: "empty", version: "", want: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Canonical(tt.version))
		})
	}
}

// TestCompareHandlesMultiDigitSegments tests the behavior of Compare.
//
// It verifies:
//   - "10.0" ranks above "9.0" (semantic, not lexicographic, ordering)
//   - Unparseable input is reported as not comparable
func TestCompareHandlesMultiDigitSegments(t *testing.T) {
	cmp, ok := Compare("10.0", "9.0")
	assert.True(t, ok)
	assert.Positive(t, cmp)

	cmp, ok = Compare("1.2.3", "1.2.3")
	assert.True(t, ok)
	assert.Zero(t, cmp)

	_, ok = Compare("1.0", "latest")
	assert.False(t, ok)
}

// TestClassify tests the behavior of Classify.
//
// It verifies:
//   - Upgrades, downgrades, and no-ops are labelled correctly
//   - Missing or unparseable sides yield ChangeUnknown
func TestClassify(t *testing.T) {
	tests := []struct {
		name string
		from string
		to   string
		want Change
	}{
		{name: "upgrade", from: "1.0.0", to: "1.1.0", want: ChangeUpgrade},
		{name: "downgrade", from: "2.0.0", to: "1.9.0", want: ChangeDowngrade},
		{name: "same", from: "1.0", to: "1.0.0", want: ChangeNone},
		{name: "missing from", from: "", to: "1.0.0", want: ChangeUnknown},
		{name: "equal non-semver", from: "abc", to: "abc", want: ChangeNone},
		{name: "different non-semver", from: "abc", to: "def", want: ChangeUnknown},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Classify(tt.from, tt.to))
		})
	}
}

// TestSortIsCaseInsensitiveAndNonDestructive tests the behavior of Sort.
//
// It verifies:
//   - Lines are ordered case-insensitively
//   - The input slice is not modified
func TestSortIsCaseInsensitiveAndNonDestructive(t *testing.T) {
	input := []string{"Zope==5.0", "django==4.2", "Numpy==1.26.4"}
	got := Sort(input)

	assert.Equal(t, []string{"django==4.2", "Numpy==1.26.4", "Zope==5.0"}, got)
	assert.Equal(t, []string{"Zope==5.0", "django==4.2", "Numpy==1.26.4"}, input)
}
