package tableview

import (
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/lipgloss"

	"github.com/kong/gridctl/internal/theme"
)

type styles struct {
	palette theme.Palette

	tableBox  lipgloss.Style
	drawerBox lipgloss.Style
	statusBox lipgloss.Style
	dialog    lipgloss.Style
	danger    lipgloss.Style

	card         lipgloss.Style
	cardSelected lipgloss.Style
	cardTitle    lipgloss.Style
	cardSubtitle lipgloss.Style
	label        lipgloss.Style
	value        lipgloss.Style
	accent       lipgloss.Style
	muted        lipgloss.Style
	link         lipgloss.Style
	button       lipgloss.Style
	buttonActive lipgloss.Style
	errText      lipgloss.Style
	success      lipgloss.Style

	table table.Styles
}

func newStyles(p theme.Palette) styles {
	border := p.Adaptive(theme.ColorBorder)
	box := lipgloss.NewStyle().BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(border).
		Padding(0, 1)

	ts := table.DefaultStyles()
	ts.Header = ts.Header.
		Foreground(p.Adaptive(theme.ColorTextPrimary)).
		Background(p.Adaptive(theme.ColorSurface))
	ts.Cell = ts.Cell.
		Foreground(p.Adaptive(theme.ColorTextPrimary))
	ts.Selected = ts.Selected.
		Foreground(p.Adaptive(theme.ColorAccentText)).
		Background(p.Adaptive(theme.ColorAccent))

	card := lipgloss.NewStyle().BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(border).
		Padding(0, 1)

	return styles{
		palette:   p,
		tableBox:  box,
		drawerBox: box.BorderForeground(p.Adaptive(theme.ColorPrimary)),
		statusBox: box,
		dialog: lipgloss.NewStyle().BorderStyle(lipgloss.ThickBorder()).
			BorderForeground(p.Adaptive(theme.ColorPrimary)).
			Padding(1, 2),
		danger: lipgloss.NewStyle().BorderStyle(lipgloss.ThickBorder()).
			BorderForeground(p.Adaptive(theme.ColorDanger)).
			Padding(1, 2),
		card:         card,
		cardSelected: card.BorderForeground(p.Adaptive(theme.ColorAccent)),
		cardTitle:    p.ForegroundStyle(theme.ColorTextPrimary).Bold(true),
		cardSubtitle: p.ForegroundStyle(theme.ColorTextSecondary).Italic(true),
		label:        p.ForegroundStyle(theme.ColorTextSecondary),
		value:        p.ForegroundStyle(theme.ColorTextPrimary),
		accent:       p.ForegroundStyle(theme.ColorInfo).Bold(true),
		muted:        p.ForegroundStyle(theme.ColorTextMuted),
		link:         p.ForegroundStyle(theme.ColorPrimary).Underline(true),
		button:       p.ForegroundStyle(theme.ColorTextSecondary),
		buttonActive: lipgloss.NewStyle().
			Foreground(p.Adaptive(theme.ColorAccentText)).
			Background(p.Adaptive(theme.ColorAccent)),
		errText: p.ForegroundStyle(theme.ColorDanger),
		success: p.ForegroundStyle(theme.ColorSuccess),
		table:   ts,
	}
}

func newSpinnerModel(p theme.Palette) spinner.Model {
	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = p.ForegroundStyle(theme.ColorAccent)
	return s
}
