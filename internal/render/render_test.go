package render

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestMarkdownNoColor(t *testing.T) {
	out := Markdown("# Title\n\nsome *text*", Options{NoColor: true, Width: 40})
	require.Contains(t, out, "Title")
	require.Contains(t, out, "text")
	require.NotContains(t, out, "\x1b[")
}

func TestYAML(t *testing.T) {
	out := YAML(map[string]any{"b": 1, "a": []any{"x"}})
	require.Equal(t, "a:\n- x\nb: 1", out)
}

func TestStructuredWithoutColor(t *testing.T) {
	require.Equal(t, "k: v", Structured(map[string]any{"k": "v"}, false, ""))
}

func TestHighlightUnknownLexer(t *testing.T) {
	require.Equal(t, "plain", Highlight("plain", "no-such-language", DefaultTheme))
}
