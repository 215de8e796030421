package conflicts

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ajxudir/pipconverge/pkg/blacklist"
	"github.com/ajxudir/pipconverge/pkg/verbose"
)

const sampleReport = `
botocore 1.29.0 has requirement urllib3>=1.25.4, but you have urllib3 2.0.
awscli 1.27.0 has requirement colorama==0.4.4, but you have colorama 0.4.6.

awscli-plugin-endpoint 0.4 has requirement awscli>=1.11, but you have awscli 1.10.
`

// TestParseCollectsPackagesAndRecords tests the behavior of Parse without a
// blacklist.
//
// It verifies:
//   - Blank lines are skipped
//   - The package set is distinct and sorted
//   - Each parseable line yields one structured record
func TestParseCollectsPackagesAndRecords(t *testing.T) {
	report := Parse(sampleReport, nil)

	require.Len(t, report.Lines, 3)
	assert.Equal(t, []string{"awscli", "awscli-plugin-endpoint", "botocore"}, report.Packages)
	assert.Empty(t, report.Ignored)

	require.Len(t, report.Records, 3)
	assert.Equal(t, Record{Package: "botocore", Dependency: "urllib3", Version: "1.25.4"}, report.Records[0])
	assert.Equal(t, Record{Package: "awscli", Dependency: "colorama", Version: "0.4.4"}, report.Records[1])
	assert.True(t, report.HasConflicts())
}

// TestParseFiltersBlacklistedBySubstring tests the behavior of Parse with a
// blacklist in place.
//
// It verifies:
//   - Lines whose package contains a blacklisted name are suppressed
//   - Suppressed lines are reported as ignored, not dropped silently
//   - Related sub-packages are suppressed by the substring match
func TestParseFiltersBlacklistedBySubstring(t *testing.T) {
	bl := blacklist.New("awscli")
	report := Parse(sampleReport, bl)

	require.Len(t, report.Lines, 1)
	assert.Equal(t, []string{"botocore"}, report.Packages)

	require.Len(t, report.Ignored, 2)
	assert.Equal(t, "awscli", report.Ignored[0].Entry)
	assert.Contains(t, report.Ignored[0].Line, "awscli 1.27.0")
	assert.Contains(t, report.Ignored[1].Line, "awscli-plugin-endpoint")
}

// TestParseFilteringIsIdempotent tests the behavior of repeated filtering.
//
// It verifies:
//   - Running the filter twice with the same blacklist yields the same
//     surviving set as running it once
func TestParseFilteringIsIdempotent(t *testing.T) {
	bl := blacklist.New("awscli")

	once := Parse(sampleReport, bl)
	twice := Parse(strings.Join(once.Lines, "\n"), bl)

	assert.Equal(t, once.Lines, twice.Lines)
	assert.Equal(t, once.Packages, twice.Packages)
}

// TestParseSkipsLinesWithoutConstraints tests the behavior of Parse on
// informational lines.
//
// It verifies:
//   - Lines with no extractable version still count as conflicts
//   - They produce no history record
//   - The parse failure is surfaced on the verbose stream
func TestParseSkipsLinesWithoutConstraints(t *testing.T) {
	var buf bytes.Buffer
	restore := verbose.SetWriter(&buf)
	defer restore()
	verbose.Enable()
	defer verbose.Disable()

	raw := "somepkg 1.0 requires a dependency which is not installed."
	report := Parse(raw, nil)

	require.Len(t, report.Lines, 1)
	assert.Equal(t, []string{"somepkg"}, report.Packages)
	assert.Empty(t, report.Records)

	assert.Contains(t, buf.String(), "unparseable output")
	assert.Contains(t, buf.String(), "somepkg")
}

// TestParseEmptyReport tests the behavior of Parse on a clean check.
//
// It verifies:
//   - An empty report yields no lines, packages, or records
func TestParseEmptyReport(t *testing.T) {
	report := Parse("", blacklist.New("anything"))

	assert.False(t, report.HasConflicts())
	assert.Empty(t, report.Packages)
	assert.Empty(t, report.Records)
}
