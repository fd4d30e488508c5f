package tableview

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/reflow/truncate"
	"github.com/muesli/reflow/wordwrap"

	"github.com/kong/gridctl/internal/datagrid"
	"github.com/kong/gridctl/internal/theme"
)

const (
	minCardWidth = 32
	cardGap      = 1
)

type gridOptions struct {
	width int
	// height limits the rendered lines; 0 renders every card.
	height int
	// cursor is the highlighted card, or -1.
	cursor int
}

// RenderGrid draws the table's current page as cards.
func RenderGrid(tbl *datagrid.Table, width int, palette theme.Palette) string {
	st := newStyles(palette)
	cards := tbl.Cards()
	if len(cards) == 0 {
		return st.muted.Render(emptyMessage)
	}
	return renderGrid(cards, tbl, st, gridOptions{width: width, cursor: -1})
}

// cardsPerRow returns how many cards fit side by side and their outer width.
func cardsPerRow(width int) (int, int) {
	if width <= 0 {
		width = defaultWidth
	}
	perRow := width / (minCardWidth + cardGap)
	if perRow < 1 {
		perRow = 1
	}
	cardWidth := width/perRow - cardGap
	if cardWidth < 1 {
		cardWidth = 1
	}
	return perRow, cardWidth
}

func renderGrid(cards []datagrid.Card, tbl *datagrid.Table, st styles, opts gridOptions) string {
	perRow, outer := cardsPerRow(opts.width)
	inner := outer - frameWidth(st.card)
	if inner < 1 {
		inner = 1
	}

	var lines []string
	for start := 0; start < len(cards); start += perRow {
		end := start + perRow
		if end > len(cards) {
			end = len(cards)
		}
		boxes := make([]string, 0, end-start)
		for i := start; i < end; i++ {
			style := st.card
			if i == opts.cursor {
				style = st.cardSelected
			}
			body := renderCardBody(cards[i], tbl, st, inner)
			boxes = append(boxes, style.Width(inner).Render(body))
			if i < end-1 {
				boxes = append(boxes, strings.Repeat(" ", cardGap))
			}
		}
		lines = append(lines, lipgloss.JoinHorizontal(lipgloss.Top, boxes...))
	}

	if opts.height > 0 {
		cursorRow := 0
		if opts.cursor > 0 {
			cursorRow = opts.cursor / perRow
		}
		lines = windowRows(lines, cursorRow, opts.height)
	}
	return lipgloss.JoinVertical(lipgloss.Left, lines...)
}

func renderCardBody(card datagrid.Card, tbl *datagrid.Table, st styles, width int) string {
	var parts []string
	if card.Custom != "" {
		parts = append(parts, wordwrap.String(card.Custom, width))
	} else {
		title := card.Title
		if tbl.Selectable() {
			mark := "[ ] "
			if tbl.Selection().Has(card.Row.RowID()) {
				mark = "[x] "
			}
			title = mark + title
		}
		parts = append(parts, st.cardTitle.Render(truncate.StringWithTail(title, uint(width), ellipsis)))
		if card.Subtitle != "" {
			parts = append(parts, st.cardSubtitle.Render(truncate.StringWithTail(card.Subtitle, uint(width), ellipsis)))
		}
		for _, d := range card.Details {
			label := st.label.Render(d.Label + ":")
			value := wordwrap.String(d.Value, width)
			if lipgloss.Width(d.Label)+2+lipgloss.Width(value) <= width && !strings.Contains(value, "\n") {
				parts = append(parts, label+" "+st.value.Render(value))
				continue
			}
			parts = append(parts, label, st.value.Render(value))
		}
	}
	if len(card.Actions) > 0 {
		parts = append(parts, st.muted.Render(datagrid.ActionLabels(card.Actions)))
	}
	return strings.Join(parts, "\n")
}

// windowRows keeps the card rows around cursor that fit within height lines.
func windowRows(rows []string, cursor, height int) []string {
	if len(rows) == 0 {
		return rows
	}
	cursor = clamp(cursor, 0, len(rows)-1)
	first, last := cursor, cursor
	used := lipgloss.Height(rows[cursor])
	for last+1 < len(rows) && used+lipgloss.Height(rows[last+1]) <= height {
		last++
		used += lipgloss.Height(rows[last])
	}
	for first > 0 && used+lipgloss.Height(rows[first-1]) <= height {
		first--
		used += lipgloss.Height(rows[first])
	}
	return rows[first : last+1]
}
