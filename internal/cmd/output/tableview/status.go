package tableview

import (
	"fmt"
	"strings"

	"github.com/atotto/clipboard"
	"github.com/charmbracelet/lipgloss"

	"github.com/kong/gridctl/internal/datagrid"
	"github.com/kong/gridctl/internal/theme"
)

var helpLines = []string{
	"Up/Down j/k       : move between rows",
	"Left/Right        : focus column (list) or card (grid)",
	"s                 : cycle sort on focused column",
	"/<text>           : search all columns (esc clears)",
	"f                 : open column filters",
	"g                 : toggle list / grid",
	"n / p, < / >      : next / previous, first / last page",
	"[ / ]             : smaller / larger page size",
	":                 : jump to page",
	"Enter / v         : view row",
	"e                 : quick edit row",
	"x                 : delete row",
	"space / a         : select row / select page",
	"D                 : delete selected rows",
	"c / y             : copy cell / copy share link",
	"r                 : refresh",
	"t                 : cycle color theme",
	"?                 : toggle this help",
	"q                 : quit",
}

func (m *bubbleModel) renderStatusArea(widthHint int) string {
	width := widthHint
	if width <= 0 {
		width = m.windowWidth
	}
	if m.windowWidth > 0 && width > m.windowWidth {
		width = m.windowWidth
	}
	if width <= 0 {
		width = 80
	}

	innerWidth := width - frameWidth(m.st.statusBox)
	if innerWidth < 1 {
		innerWidth = 1
	}

	var content string
	if m.showHelp {
		content = m.renderHelpContent(innerWidth)
	} else {
		rows := m.buildStatusRows(innerWidth)
		if len(rows) == 0 {
			rows = append(rows, strings.Repeat(" ", innerWidth))
		}
		content = strings.Join(rows, "\n")
	}

	return m.st.statusBox.Render(content)
}

func (m *bubbleModel) buildStatusRows(innerWidth int) []string {
	var rows []string

	rows = append(rows, renderStatusRow(m.renderSummary(), m.renderStatusHint(), innerWidth))

	profile := m.renderProfileLabel()

	if m.tbl.Loading() {
		loading := m.spinner.View() + " Loading…"
		appendStatusRow(&rows, loading, &profile, innerWidth)
	}

	if msg := strings.TrimSpace(m.statusMessage); msg != "" {
		appendStatusRow(&rows, lipgloss.NewStyle().Faint(true).Render(msg), &profile, innerWidth)
		return rows
	}

	if footer := strings.TrimSpace(m.cfg.footer); footer != "" {
		appendStatusRow(&rows, lipgloss.NewStyle().Faint(true).Render(footer), &profile, innerWidth)
		return rows
	}

	if profile != "" {
		rows = append(rows, renderStatusRow("", profile, innerWidth))
	}

	return rows
}

func (m *bubbleModel) renderSummary() string {
	parts := []string{m.tbl.ViewMode().String()}
	if sel := m.tbl.Selection().Len(); sel > 0 {
		parts = append(parts, fmt.Sprintf("%d selected", sel))
	}
	if n := len(m.tbl.ColumnFilters()); n > 0 {
		parts = append(parts, fmt.Sprintf("%d filters", n))
	}
	if order := m.tbl.Sorting().OrderBy(); order != "" {
		parts = append(parts, "sort: "+order)
	}
	return m.st.label.Render(strings.Join(parts, " · "))
}

func appendStatusRow(rows *[]string, left string, profile *string, width int) {
	*rows = append(*rows, renderStatusRow(left, *profile, width))
	*profile = ""
}

func (m *bubbleModel) renderStatusHint() string {
	if m.showHelp {
		return ""
	}
	return lipgloss.NewStyle().Faint(true).Render("Press ? for help")
}

func (m *bubbleModel) renderProfileLabel() string {
	profile := strings.TrimSpace(m.cfg.profileName)
	if profile == "" {
		return ""
	}

	label := fmt.Sprintf("Profile: %s", profile)
	return m.palette.ForegroundStyle(theme.ColorTextSecondary).Render(label)
}

func (m *bubbleModel) renderHelpContent(innerWidth int) string {
	helpStyle := lipgloss.NewStyle().Faint(true)
	rendered := make([]string, len(helpLines))
	for i, line := range helpLines {
		rendered[i] = padStatusLine(helpStyle.Render(line), innerWidth)
	}
	return strings.Join(rendered, "\n")
}

func renderStatusRow(left, right string, width int) string {
	leftWidth := lipgloss.Width(left)
	rightWidth := lipgloss.Width(right)

	if width < 1 {
		width = leftWidth + rightWidth
		if width < 1 {
			width = 1
		}
	}

	switch {
	case rightWidth == 0 && leftWidth == 0:
		return strings.Repeat(" ", width)
	case rightWidth == 0:
		if leftWidth >= width {
			return left
		}
		return left + strings.Repeat(" ", width-leftWidth)
	case leftWidth == 0:
		if rightWidth >= width {
			return right
		}
		return strings.Repeat(" ", width-rightWidth) + right
	default:
		gap := width - leftWidth - rightWidth
		if gap < 1 {
			gap = 1
		}
		return left + strings.Repeat(" ", gap) + right
	}
}

func padStatusLine(value string, width int) string {
	if width < 1 {
		return value
	}
	lineWidth := lipgloss.Width(value)
	if lineWidth >= width {
		return value
	}
	return value + strings.Repeat(" ", width-lineWidth)
}

func (m *bubbleModel) setStatus(msg string) {
	m.statusMessage = strings.TrimSpace(msg)
}

func (m *bubbleModel) clearStatus() {
	m.statusMessage = ""
}

// notify turns an engine notice into the status line.
func (m *bubbleModel) notify(n datagrid.Notice) {
	msg := n.Message
	switch n.Level {
	case datagrid.NoticeError:
		if n.Err != nil {
			msg = fmt.Sprintf("%s: %v", msg, n.Err)
		}
		m.setStatus(m.st.errText.Render(msg))
	case datagrid.NoticeSuccess:
		m.setStatus(m.st.success.Render(msg))
	default:
		m.setStatus(msg)
	}
}

func formatStatusValue(value string) string {
	clean := strings.TrimSpace(value)
	if clean == "" {
		return "(empty)"
	}
	clean = strings.Join(strings.Fields(clean), " ")
	return truncateWithEllipsis(clean, 60)
}

var writeClipboardText = func(value string) error {
	return clipboard.WriteAll(value)
}
