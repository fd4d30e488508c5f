// Package render turns row values into terminal-ready text: markdown bodies,
// structured values as YAML, and syntax highlighting.
package render

import (
	"strings"
	"sync"

	"github.com/charmbracelet/glamour"
	"github.com/muesli/termenv"
)

var (
	renderers   = map[rendererKey]*glamour.TermRenderer{}
	renderersMu sync.Mutex
)

type rendererKey struct {
	width   int
	noColor bool
}

// Options controls markdown rendering behaviour.
type Options struct {
	NoColor bool
	Width   int
}

// Markdown renders a markdown string for the terminal. Rendering failures
// return the input unchanged.
func Markdown(markdown string, opts Options) string {
	r, err := renderer(opts)
	if err != nil {
		return markdown
	}
	str, err := r.Render(markdown)
	if err != nil {
		return markdown
	}
	return normalizeSpacing(str)
}

func normalizeSpacing(s string) string {
	trimmed := strings.TrimSpace(s)
	if trimmed == "" {
		return trimmed
	}
	lines := strings.Split(trimmed, "\n")
	for i := range lines {
		lines[i] = strings.TrimRight(lines[i], " ")
		if i == 0 {
			lines[i] = strings.TrimLeft(lines[i], " ")
		}
	}
	return strings.Join(lines, "\n")
}

// renderers are cached per width since the dialog width only changes on
// resize.
func renderer(opts Options) (*glamour.TermRenderer, error) {
	key := rendererKey{width: opts.Width, noColor: opts.NoColor}

	renderersMu.Lock()
	defer renderersMu.Unlock()
	if r, ok := renderers[key]; ok {
		return r, nil
	}

	options := []glamour.TermRendererOption{}
	if opts.NoColor {
		options = append(options,
			glamour.WithStandardStyle("notty"),
			glamour.WithColorProfile(termenv.Ascii),
		)
	} else {
		options = append(options,
			glamour.WithAutoStyle(),
			glamour.WithColorProfile(termenv.TrueColor),
		)
	}
	if opts.Width > 0 {
		options = append(options, glamour.WithWordWrap(opts.Width))
	}
	r, err := glamour.NewTermRenderer(options...)
	if err != nil {
		return nil, err
	}
	renderers[key] = r
	return r, nil
}
