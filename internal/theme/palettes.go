package theme

import (
	"strings"

	"github.com/lucasb-eyer/go-colorful"
)

var (
	white = colorful.Color{R: 1, G: 1, B: 1}
	black = colorful.Color{R: 0, G: 0, B: 0}
)

const (
	darkText  = "#121418"
	lightText = "#F8F8F8"
)

// seed is the handful of terminal colors a derived palette starts from.
type seed struct {
	id, name, about string

	fg, bg, muted   string
	primary, accent string
	success, info   string
	warning, danger string
	highlight       string
}

var seeds = []seed{
	{
		id: "dracula", name: "Dracula", about: "Dark theme with purple accents.",
		fg: "#F8F8F2", bg: "#282A36", muted: "#6272A4",
		primary: "#8BE9FD", accent: "#BD93F9",
		success: "#50FA7B", info: "#6272A4", warning: "#F1FA8C", danger: "#FF5555", highlight: "#44475A",
	},
	{
		id: "nord", name: "Nord", about: "Arctic, north-bluish palette.",
		fg: "#D8DEE9", bg: "#2E3440", muted: "#4C566A",
		primary: "#88C0D0", accent: "#81A1C1",
		success: "#A3BE8C", info: "#5E81AC", warning: "#EBCB8B", danger: "#BF616A", highlight: "#3B4252",
	},
	{
		id: "solarized-light", name: "Solarized Light", about: "Low-contrast light palette.",
		fg: "#586E75", bg: "#FDF6E3", muted: "#93A1A1",
		primary: "#2AA198", accent: "#268BD2",
		success: "#859900", info: "#268BD2", warning: "#B58900", danger: "#DC322F", highlight: "#EEE8D5",
	},
	{
		id: "gruvbox", name: "Gruvbox Dark", about: "Retro groove colors.",
		fg: "#EBDBB2", bg: "#282828", muted: "#928374",
		primary: "#8EC07C", accent: "#83A598",
		success: "#B8BB26", info: "#458588", warning: "#FABD2F", danger: "#FB4934", highlight: "#3C3836",
	},
}

func builtinPalettes() []Palette {
	out := []Palette{gridLight(), gridDark()}
	for _, sd := range seeds {
		out = append(out, sd.palette())
	}
	return out
}

// palette fills every token from the seed. Text on filled slots is whichever
// of darkText or lightText reads better.
func (sd seed) palette() Palette {
	filled := func(hex string) (Color, Color) {
		c := solid(hex)
		return c, solid(readableOn(hex))
	}
	colors := map[Token]Color{
		ColorTextPrimary:   solid(sd.fg),
		ColorTextSecondary: Color{Light: mix(sd.fg, black, 0.25), Dark: mix(sd.fg, white, 0.2)},
		ColorTextMuted:     Color{Light: mix(sd.muted, black, 0.35), Dark: mix(sd.muted, white, 0.35)},
		ColorBorder:        Color{Light: mix(sd.muted, black, 0.15), Dark: mix(sd.muted, white, 0.25)},
		ColorSurface:       solid(sd.bg),
		ColorSurfaceText:   solid(sd.fg),
		ColorHighlight:     solid(sd.highlight),
	}
	for token, hex := range map[Token]string{
		ColorPrimary: sd.primary,
		ColorAccent:  sd.accent,
		ColorSuccess: sd.success,
		ColorInfo:    sd.info,
		ColorWarning: sd.warning,
		ColorDanger:  sd.danger,
	} {
		colors[token], colors[token+".text"] = filled(hex)
	}
	return Palette{Name: sd.id, DisplayName: sd.name, About: sd.about, Colors: colors}
}

func solid(hex string) Color {
	h := normalizeHex(hex)
	return Color{Light: h, Dark: h}
}

// mix blends hex toward target in Lab space by t in [0,1].
func mix(hex string, target colorful.Color, t float64) string {
	c, ok := parseHex(hex)
	if !ok {
		return normalizeHex(hex)
	}
	t = min(max(t, 0), 1)
	return strings.ToUpper(c.BlendLab(target, t).Clamped().Hex())
}

func readableOn(hex string) string {
	c, ok := parseHex(hex)
	if !ok {
		return darkText
	}
	r, g, b := c.LinearRgb()
	if 0.2126*r+0.7152*g+0.0722*b > 0.55 {
		return darkText
	}
	return lightText
}

func parseHex(hex string) (colorful.Color, bool) {
	h := normalizeHex(hex)
	if len(h) != 7 {
		return colorful.Color{}, false
	}
	c, err := colorful.Hex(h)
	return c, err == nil
}

// normalizeHex returns "#RRGGBB" for "rgb", "#rgb", "rrggbb" and longer
// forms, dropping any alpha. Anything else comes back trimmed and uppercased.
func normalizeHex(hex string) string {
	h := strings.ToUpper(strings.TrimPrefix(strings.TrimSpace(hex), "#"))
	switch {
	case h == "":
		return ""
	case len(h) == 3:
		return "#" + string([]byte{h[0], h[0], h[1], h[1], h[2], h[2]})
	case len(h) >= 6:
		return "#" + h[:6]
	default:
		return "#" + h
	}
}

func gridLight() Palette {
	return Palette{
		Name:        DefaultName,
		DisplayName: "Grid Light",
		About:       "Default light theme.",
		Colors: map[Token]Color{
			ColorTextPrimary:   solid("#111827"),
			ColorTextSecondary: solid("#374151"),
			ColorTextMuted:     solid("#6B7280"),
			ColorBorder:        solid("#D1D5DB"),
			ColorSurface:       solid("#FFFFFF"),
			ColorSurfaceText:   solid("#111827"),
			ColorPrimary:       solid("#1D4ED8"),
			ColorPrimaryText:   solid("#FFFFFF"),
			ColorAccent:        solid("#2563EB"),
			ColorAccentText:    solid("#FFFFFF"),
			ColorSuccess:       solid("#15803D"),
			ColorSuccessText:   solid("#FFFFFF"),
			ColorInfo:          solid("#0369A1"),
			ColorInfoText:      solid("#FFFFFF"),
			ColorWarning:       solid("#B45309"),
			ColorWarningText:   solid("#FFFFFF"),
			ColorDanger:        solid("#B91C1C"),
			ColorDangerText:    solid("#FFFFFF"),
			ColorHighlight:     solid("#EFF6FF"),
		},
	}
}

func gridDark() Palette {
	return Palette{
		Name:        "grid-dark",
		DisplayName: "Grid Dark",
		About:       "Default dark theme.",
		Colors: map[Token]Color{
			ColorTextPrimary:   solid("#F9FAFB"),
			ColorTextSecondary: solid("#D1D5DB"),
			ColorTextMuted:     solid("#9CA3AF"),
			ColorBorder:        solid("#374151"),
			ColorSurface:       solid("#111827"),
			ColorSurfaceText:   solid("#F9FAFB"),
			ColorPrimary:       solid("#60A5FA"),
			ColorPrimaryText:   solid("#111827"),
			ColorAccent:        solid("#3B82F6"),
			ColorAccentText:    solid("#F9FAFB"),
			ColorSuccess:       solid("#4ADE80"),
			ColorSuccessText:   solid("#111827"),
			ColorInfo:          solid("#38BDF8"),
			ColorInfoText:      solid("#111827"),
			ColorWarning:       solid("#FBBF24"),
			ColorWarningText:   solid("#111827"),
			ColorDanger:        solid("#F87171"),
			ColorDangerText:    solid("#111827"),
			ColorHighlight:     solid("#1F2937"),
		},
	}
}
