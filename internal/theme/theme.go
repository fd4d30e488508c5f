// Package theme holds the color palettes of the interactive views.
package theme

import (
	"context"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// DefaultName is the palette used when none is configured.
const DefaultName = "grid-light"

// LegacyName is an alias resolved to DefaultName.
const LegacyName = "default"

// Token names a semantic color slot.
type Token string

const (
	ColorTextPrimary   Token = "text.primary"
	ColorTextSecondary Token = "text.secondary"
	ColorTextMuted     Token = "text.muted"
	ColorBorder        Token = "border"
	ColorSurface       Token = "surface"
	ColorSurfaceText   Token = "surface.text"
	ColorPrimary       Token = "primary"
	ColorPrimaryText   Token = "primary.text"
	ColorAccent        Token = "accent"
	ColorAccentText    Token = "accent.text"
	ColorSuccess       Token = "success"
	ColorSuccessText   Token = "success.text"
	ColorInfo          Token = "info"
	ColorInfoText      Token = "info.text"
	ColorWarning       Token = "warning"
	ColorWarningText   Token = "warning.text"
	ColorDanger        Token = "danger"
	ColorDangerText    Token = "danger.text"
	ColorHighlight     Token = "highlight"
)

// Color is a hex pair for light and dark terminal backgrounds.
type Color struct {
	Light string
	Dark  string
}

func (c Color) empty() bool {
	return strings.TrimSpace(c.Light) == "" && strings.TrimSpace(c.Dark) == ""
}

// filled copies one variant into the other when only one is set.
func (c Color) filled() Color {
	c.Light, c.Dark = strings.TrimSpace(c.Light), strings.TrimSpace(c.Dark)
	if c.Light == "" {
		c.Light = c.Dark
	}
	if c.Dark == "" {
		c.Dark = c.Light
	}
	return c
}

// Adaptive converts the pair for lipgloss.
func (c Color) Adaptive() lipgloss.AdaptiveColor {
	if c.empty() {
		return lipgloss.AdaptiveColor{Light: "#FFFFFF", Dark: "#000000"}
	}
	c = c.filled()
	return lipgloss.AdaptiveColor{Light: c.Light, Dark: c.Dark}
}

// Palette is one named theme.
type Palette struct {
	Name        string
	DisplayName string
	About       string
	Colors      map[Token]Color
}

// Color looks token up, falling back to the default palette.
func (p Palette) Color(token Token) Color {
	if c, ok := p.Colors[token]; ok && !c.empty() {
		return c.filled()
	}
	return fallback(token)
}

// Adaptive returns the lipgloss color for token.
func (p Palette) Adaptive(token Token) lipgloss.AdaptiveColor {
	return p.Color(token).Adaptive()
}

// ForegroundStyle returns a style drawing text in token.
func (p Palette) ForegroundStyle(token Token) lipgloss.Style {
	return lipgloss.NewStyle().Foreground(p.Adaptive(token))
}

// BackgroundStyle returns a style filled with token.
func (p Palette) BackgroundStyle(token Token) lipgloss.Style {
	return lipgloss.NewStyle().Background(p.Adaptive(token))
}

type contextKey struct{}

// ContextWithPalette stores p on ctx.
func ContextWithPalette(ctx context.Context, p Palette) context.Context {
	return context.WithValue(ctx, contextKey{}, p)
}

// FromContext returns the palette on ctx, or the current one.
func FromContext(ctx context.Context) Palette {
	if ctx != nil {
		if p, ok := ctx.Value(contextKey{}).(Palette); ok {
			return p
		}
	}
	return Current()
}
