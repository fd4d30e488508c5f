package render

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/alecthomas/chroma/v2/formatters"
	"github.com/alecthomas/chroma/v2/lexers"
	"github.com/alecthomas/chroma/v2/styles"
	"sigs.k8s.io/yaml"
)

// DefaultTheme is the chroma style used when none is configured.
const DefaultTheme = "friendly"

// Highlight colorizes src with the named chroma lexer. Unknown lexers and
// formatting errors return src unchanged.
func Highlight(src, language, theme string) string {
	lexer := lexers.Get(language)
	if lexer == nil {
		return src
	}
	iterator, err := lexer.Tokenise(nil, src)
	if err != nil {
		return src
	}

	formatter := formatters.Get("terminal256")
	if formatter == nil {
		formatter = formatters.Get("terminal")
	}
	if formatter == nil {
		return src
	}

	style := styles.Get(theme)
	if style == nil {
		style = styles.Get(DefaultTheme)
	}
	if style == nil {
		style = styles.Fallback
	}

	var buf bytes.Buffer
	if err := formatter.Format(&buf, style, iterator); err != nil {
		return src
	}
	return buf.String()
}

// YAML pretty-prints a structured value. Values that cannot be encoded fall
// back to their Go formatting.
func YAML(v any) string {
	out, err := yaml.Marshal(v)
	if err != nil {
		return fmt.Sprintf("%v", v)
	}
	return strings.TrimRight(string(out), "\n")
}

// Structured renders v as YAML, highlighted unless color is disabled.
func Structured(v any, color bool, theme string) string {
	text := YAML(v)
	if !color {
		return text
	}
	return strings.TrimRight(Highlight(text, "yaml", theme), "\n")
}
