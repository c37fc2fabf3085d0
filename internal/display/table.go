package display

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// Table lays out multi-day schedules, the day's reconciled events and the
// tracker log as aligned columns. Widths are measured in terminal cells, so
// accented month names and pre-colored status cells line up.
type Table struct {
	headers []string
	rows    [][]string
	right   map[int]bool
	dimmed  map[int]bool
	current int
}

// NewTable starts a table with the given column headers and no current row.
func NewTable(headers []string) *Table {
	return &Table{
		headers: headers,
		right:   map[int]bool{},
		dimmed:  map[int]bool{},
		current: -1,
	}
}

// AddRow appends a row. Missing trailing cells render blank.
func (t *Table) AddRow(values []string) {
	t.rows = append(t.rows, values)
}

// SetHighlightRow marks row idx as the current one (today, or the period
// in progress). It wins over DimRow.
func (t *Table) SetHighlightRow(idx int) {
	t.current = idx
}

// DimRow renders row idx muted, for rows built from fallback data.
func (t *Table) DimRow(idx int) {
	t.dimmed[idx] = true
}

// AlignRight right-aligns the given columns.
func (t *Table) AlignRight(cols ...int) {
	for _, c := range cols {
		t.right[c] = true
	}
}

// Render returns the table indented by two spaces, one line per row.
func (t *Table) Render() string {
	if len(t.headers) == 0 {
		return ""
	}

	widths := make([]int, len(t.headers))
	for _, row := range append([][]string{t.headers}, t.rows...) {
		for i, cell := range row {
			if i < len(widths) {
				widths[i] = max(widths[i], lipgloss.Width(cell))
			}
		}
	}

	var sb strings.Builder
	sb.WriteString("  " + Bold(t.formatRow(t.headers, widths)) + "\n")

	rules := make([]string, len(widths))
	for i, w := range widths {
		rules[i] = strings.Repeat("─", w)
	}
	sb.WriteString(Dim("  "+strings.Join(rules, "  ")) + "\n")

	for i, row := range t.rows {
		line := t.formatRow(row, widths)
		switch {
		case i == t.current:
			line = Accent(line)
		case t.dimmed[i]:
			line = Dim(line)
		}
		sb.WriteString("  " + line + "\n")
	}
	return sb.String()
}

func (t *Table) formatRow(cells []string, widths []int) string {
	parts := make([]string, len(widths))
	for i, w := range widths {
		var cell string
		if i < len(cells) {
			cell = cells[i]
		}
		pos := lipgloss.Left
		if t.right[i] {
			pos = lipgloss.Right
		}
		parts[i] = lipgloss.PlaceHorizontal(w, pos, cell)
	}
	return strings.Join(parts, "  ")
}
