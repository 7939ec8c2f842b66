package listview

import (
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"
)

// Align is the horizontal alignment of a column's header and cells.
type Align int

const (
	// AlignLeft aligns content to the left edge of the column.
	AlignLeft Align = iota
	// AlignCenter centers content within the column.
	AlignCenter
	// AlignRight aligns content to the right edge of the column.
	AlignRight
)

// defaultColumnWidth is used for columns that do not declare a width.
const defaultColumnWidth = 12

// columnGap separates adjacent cells.
const columnGap = "  "

// ellipsis marks truncated cell content.
const ellipsis = "…"

// Column describes one displayed field. Columns are static configuration: their order
// is the display order and must not change between renders.
type Column struct {
	Key   string
	Label string
	Align Align

	// Width is the display width in terminal cells. Zero selects defaultColumnWidth.
	Width int

	// Style is applied to every cell of the column, including the header.
	Style *lipgloss.Style
}

// String returns the lowercase alignment name.
func (a Align) String() string {
	switch a {
	case AlignCenter:
		return "center"
	case AlignRight:
		return "right"
	case AlignLeft:
		return "left"
	default:
		return "align(" + strconv.Itoa(int(a)) + ")"
	}
}

func (a Align) position() lipgloss.Position {
	switch a {
	case AlignCenter:
		return lipgloss.Center
	case AlignRight:
		return lipgloss.Right
	case AlignLeft:
		return lipgloss.Left
	default:
		return lipgloss.Left
	}
}

func (c Column) width() int {
	if c.Width > 0 {
		return c.Width
	}
	return defaultColumnWidth
}

// format truncates content to the column width and pads it according to the alignment.
func (c Column) format(content string) string {
	w := c.width()
	if ansi.StringWidth(content) > w {
		content = ansi.Truncate(content, w, ellipsis)
	}

	style := lipgloss.NewStyle()
	if c.Style != nil {
		style = *c.Style
	}
	return style.Width(w).MaxWidth(w).Align(c.Align.position()).Render(content)
}

// tableWidth is the total width of a row of columns, gaps included.
func tableWidth(columns []Column) int {
	if len(columns) == 0 {
		return 0
	}
	total := 0
	for _, c := range columns {
		total += c.width()
	}
	return total + len(columnGap)*(len(columns)-1)
}

// joinCells formats cells against columns. Missing cells render blank and surplus
// cells are dropped.
func joinCells(columns []Column, cells []string) string {
	parts := make([]string, len(columns))
	for i, col := range columns {
		content := ""
		if i < len(cells) {
			content = cells[i]
		}
		parts[i] = col.format(content)
	}
	return strings.Join(parts, columnGap)
}
