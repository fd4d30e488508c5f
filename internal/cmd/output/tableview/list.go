package tableview

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/x/ansi"
	"github.com/mattn/go-runewidth"

	"github.com/kong/gridctl/internal/datagrid"
	"github.com/kong/gridctl/internal/theme"
)

const (
	cellPadding  = 2
	ellipsis     = "…"
	focusMarker  = "›"
	sortAscMark  = "▲"
	sortDescMark = "▼"
)

// listLayout is one measured page of list mode.
type listLayout struct {
	cols    []datagrid.Column
	headers []string
	widths  []int
	// cells holds the full single-line rendering of every visible cell.
	cells [][]string
	// stringy marks cells whose raw value is a string; only those get a tooltip.
	stringy [][]bool
}

// RenderList draws the table's current page in list mode.
func RenderList(tbl *datagrid.Table, width int, palette theme.Palette) string {
	st := newStyles(palette)
	rows := tbl.Visible()
	if len(rows) == 0 {
		return st.muted.Render(emptyMessage)
	}
	layout := buildListLayout(tbl, rows, width-frameWidth(st.tableBox), -1)
	lt := newListTable(layout, st, false, len(rows)+1)
	return st.tableBox.Render(lt.View())
}

func buildListLayout(tbl *datagrid.Table, rows []datagrid.Row, widthLimit, focus int) listLayout {
	cols := tbl.Columns()
	sorting := tbl.Sorting()

	layout := listLayout{
		cols:    cols,
		headers: make([]string, len(cols)),
		cells:   make([][]string, len(rows)),
		stringy: make([][]bool, len(rows)),
	}
	for i, c := range cols {
		layout.headers[i] = decorateHeader(c, sorting.Direction(c.ID), i == focus)
	}
	for r, row := range rows {
		layout.cells[r] = make([]string, len(cols))
		layout.stringy[r] = make([]bool, len(cols))
		for i, c := range cols {
			layout.cells[r][i] = singleLine(c.Render(row))
			_, isString := c.Value(row).(string)
			layout.stringy[r][i] = isString
		}
	}

	fixed := make([]bool, len(cols))
	for i, c := range cols {
		fixed[i] = c.Synthetic()
	}
	if widthLimit > 0 {
		widthLimit -= cellPadding * len(cols)
	}
	layout.widths, _ = calculateColumnWidths(layout.headers, layout.cells, fixed, widthLimit)
	return layout
}

func decorateHeader(c datagrid.Column, dir datagrid.SortDirection, focused bool) string {
	label := c.Label()
	switch dir {
	case datagrid.SortAsc:
		label += " " + sortAscMark
	case datagrid.SortDesc:
		label += " " + sortDescMark
	}
	if focused {
		label = focusMarker + label
	}
	return label
}

func singleLine(s string) string {
	if !strings.ContainsAny(s, "\r\n\t") {
		return s
	}
	return strings.Join(strings.Fields(s), " ")
}

// calculateColumnWidths fits columns into widthLimit by shrinking the widest
// column first. Fixed columns keep their natural width.
func calculateColumnWidths(headers []string, rows [][]string, fixed []bool, widthLimit int) ([]int, []int) {
	const minColumnWidth = 6
	const maxColumnWidth = 60

	widths := make([]int, len(headers))
	minWidths := make([]int, len(headers))
	for i, header := range headers {
		headerWidth := runewidth.StringWidth(header)

		maxWidth := headerWidth
		for _, row := range rows {
			if i < len(row) {
				if w := ansi.StringWidth(row[i]); w > maxWidth {
					maxWidth = w
				}
			}
		}

		if i < len(fixed) && fixed[i] {
			widths[i] = maxWidth
			minWidths[i] = maxWidth
			continue
		}

		minWidth := clamp(headerWidth, minColumnWidth, maxColumnWidth)
		minWidths[i] = minWidth
		maxWidth = clamp(maxWidth, minColumnWidth, maxColumnWidth)
		if maxWidth < minWidth {
			maxWidth = minWidth
		}
		widths[i] = maxWidth
	}

	if widthLimit <= 0 {
		return widths, minWidths
	}

	total := sum(widths)
	for total > widthLimit {
		idx := widestColumnAboveMin(widths, minWidths)
		if idx == -1 {
			break
		}
		widths[idx]--
		total--
	}

	return widths, minWidths
}

func newListTable(layout listLayout, st styles, focused bool, height int) table.Model {
	columns := make([]table.Column, len(layout.headers))
	for i, h := range layout.headers {
		columns[i] = table.Column{
			Title: ansi.Truncate(h, layout.widths[i], ellipsis),
			Width: layout.widths[i],
		}
	}

	rows := make([]table.Row, len(layout.cells))
	for r, cells := range layout.cells {
		row := make(table.Row, len(cells))
		for i, cell := range cells {
			row[i] = truncateWithEllipsis(cell, layout.widths[i])
		}
		rows[r] = row
	}

	t := table.New(
		table.WithColumns(columns),
		table.WithRows(rows),
		table.WithFocused(focused),
		table.WithStyles(st.table),
	)
	t.SetHeight(height)
	return t
}

// truncated reports whether a cell was cut to fit its column.
func (l listLayout) truncated(row, col int) bool {
	if row < 0 || row >= len(l.cells) || col < 0 || col >= len(l.widths) {
		return false
	}
	return ansi.StringWidth(l.cells[row][col]) > l.widths[col]
}

// tooltip returns the full text of a truncated string cell, or "".
func (l listLayout) tooltip(row, col int) string {
	if !l.truncated(row, col) || !l.stringy[row][col] {
		return ""
	}
	return fmt.Sprintf("%s: %s", l.cols[col].Label(), l.cells[row][col])
}

func truncateWithEllipsis(s string, maxLen int) string {
	if maxLen <= 0 {
		return ""
	}
	if ansi.StringWidth(s) <= maxLen {
		return s
	}
	return ansi.Truncate(s, maxLen, ellipsis)
}

func setTableHeight(tbl *table.Model, rowCount, termHeight int, interactive bool, reservedHeight int) {
	if tbl == nil {
		return
	}

	if !interactive {
		tbl.SetHeight(rowCount + 1) // include header
		return
	}

	const minHeight = 3
	const margin = 4

	target := rowCount + 1
	if termHeight > 0 {
		available := termHeight - margin - reservedHeight
		if available < minHeight {
			available = minHeight
		}
		target = clamp(target, minHeight, available)
	}
	tbl.SetHeight(target)
}
