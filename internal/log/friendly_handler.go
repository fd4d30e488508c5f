package log

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"sort"
	"strings"
)

// NewFriendlyErrorHandler renders error records as a short "Error: ..." block
// for the console. Records below error level are ignored.
func NewFriendlyErrorHandler(w io.Writer) slog.Handler {
	return &friendlyHandler{w: w}
}

type friendlyHandler struct {
	w      io.Writer
	attrs  []slog.Attr
	groups []string
}

type attrEntry struct {
	key   string
	value string
}

func (h *friendlyHandler) Enabled(_ context.Context, level slog.Level) bool {
	return level >= slog.LevelError
}

func (h *friendlyHandler) Handle(_ context.Context, record slog.Record) error {
	entries := h.collectEntries(record)

	summary := strings.TrimSpace(record.Message)
	if summary == "" {
		summary = lookup(entries, "error")
	}
	if summary == "" {
		summary = "an unknown error occurred"
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "Error: %s\n", summary)
	if hint := lookup(entries, "suggestion"); hint != "" {
		fmt.Fprintf(&sb, "  suggestion: %s\n", hint)
	}

	rest := make([]attrEntry, 0, len(entries))
	for _, e := range entries {
		if e.key == "suggestion" || e.key == "error" || e.value == "" {
			continue
		}
		rest = append(rest, e)
	}
	sort.SliceStable(rest, func(i, j int) bool { return rest[i].key < rest[j].key })
	for _, e := range rest {
		writeEntry(&sb, e)
	}

	_, err := io.WriteString(h.w, sb.String())
	return err
}

func (h *friendlyHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	out := h.clone()
	out.attrs = append(out.attrs, attrs...)
	return out
}

func (h *friendlyHandler) WithGroup(name string) slog.Handler {
	out := h.clone()
	out.groups = append(out.groups, name)
	return out
}

func (h *friendlyHandler) clone() *friendlyHandler {
	return &friendlyHandler{
		w:      h.w,
		attrs:  append([]slog.Attr(nil), h.attrs...),
		groups: append([]string(nil), h.groups...),
	}
}

func (h *friendlyHandler) collectEntries(record slog.Record) []attrEntry {
	entries := make([]attrEntry, 0, len(h.attrs)+record.NumAttrs())
	add := func(a slog.Attr) bool {
		entries = append(entries, attrEntry{key: h.fullKey(a.Key), value: attrString(a.Value)})
		return true
	}
	for _, a := range h.attrs {
		add(a)
	}
	record.Attrs(add)
	return entries
}

func (h *friendlyHandler) fullKey(key string) string {
	if len(h.groups) == 0 {
		return key
	}
	return strings.Join(h.groups, ".") + "." + key
}

func lookup(entries []attrEntry, key string) string {
	for _, e := range entries {
		if e.key == key && e.value != "" {
			return e.value
		}
	}
	return ""
}

func attrString(val slog.Value) string {
	val = val.Resolve()
	switch val.Kind() {
	case slog.KindGroup:
		parts := make([]string, 0, len(val.Group()))
		for _, a := range val.Group() {
			parts = append(parts, a.Key+"="+attrString(a.Value))
		}
		return strings.Join(parts, ", ")
	case slog.KindAny:
		if err, ok := val.Any().(error); ok {
			return err.Error()
		}
		return fmt.Sprint(val.Any())
	default:
		return val.String()
	}
}

func writeEntry(sb *strings.Builder, entry attrEntry) {
	lines := strings.Split(strings.TrimSpace(entry.value), "\n")
	fmt.Fprintf(sb, "  %s: %s\n", entry.key, strings.TrimSpace(lines[0]))
	for _, line := range lines[1:] {
		if trimmed := strings.TrimSpace(line); trimmed != "" {
			fmt.Fprintf(sb, "    %s\n", trimmed)
		}
	}
}
