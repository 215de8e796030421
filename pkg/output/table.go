// Package output formats run results for the terminal: dynamic-width tables
// for conflict and update summaries, and the end-of-run report.
package output

import (
	"strings"

	"github.com/mattn/go-runewidth"
)

// Column is one table column with its header and current width.
//
// Fields:
//   - Header: Display text for the column header
//   - Width: Current display width in character cells
type Column struct {
	Header string
	Width  int
}

// Table is a width-aware table formatter. Column widths grow to fit the
// widest value, measured with Unicode-aware width calculation so CJK
// characters and emojis line up.
type Table struct {
	columns   []Column
	separator string
}

// NewTable creates a table with the given column headers and a two-space
// separator.
//
// Parameters:
//   - headers: Column header texts, one per column
//
// Returns:
//   - *Table: Table ready for width updates and row formatting
func NewTable(headers ...string) *Table {
	t := &Table{separator: "  "}
	for _, header := range headers {
		t.columns = append(t.columns, Column{
			Header: header,
			Width:  displayWidth(header),
		})
	}
	return t
}

// UpdateWidths grows column widths to fit a data row.
//
// Parameters:
//   - values: One value per column; extra values are ignored
//
// Returns:
//   - *Table: The table, for chaining
func (t *Table) UpdateWidths(values ...string) *Table {
	for i, val := range values {
		if i >= len(t.columns) {
			break
		}
		if width := displayWidth(val); width > t.columns[i].Width {
			t.columns[i].Width = width
		}
	}
	return t
}

// HeaderRow returns the formatted header row.
//
// Returns:
//   - string: Padded headers joined by the separator
func (t *Table) HeaderRow() string {
	parts := make([]string, 0, len(t.columns))
	for _, col := range t.columns {
		parts = append(parts, toWidth(col.Header, col.Width))
	}
	return strings.Join(parts, t.separator)
}

// SeparatorRow returns a dash row matching the current column widths.
//
// Returns:
//   - string: Dash sequences joined by the separator
func (t *Table) SeparatorRow() string {
	parts := make([]string, 0, len(t.columns))
	for _, col := range t.columns {
		parts = append(parts, strings.Repeat("-", col.Width))
	}
	return strings.Join(parts, t.separator)
}

// FormatRow formats one data row padded to the column widths.
//
// Parameters:
//   - values: One value per column; missing values become empty cells
//
// Returns:
//   - string: Padded values joined by the separator
func (t *Table) FormatRow(values ...string) string {
	parts := make([]string, 0, len(t.columns))
	for i, col := range t.columns {
		val := ""
		if i < len(values) {
			val = values[i]
		}
		parts = append(parts, toWidth(val, col.Width))
	}
	return strings.TrimRight(strings.Join(parts, t.separator), " ")
}

// displayWidth measures a string in terminal cells, wide runes counting
// as two.
func displayWidth(val string) int {
	return runewidth.StringWidth(val)
}

// toWidth pads a string with spaces to the target display width.
func toWidth(val string, width int) string {
	current := displayWidth(val)
	if current >= width {
		return val
	}
	return val + strings.Repeat(" ", width-current)
}
