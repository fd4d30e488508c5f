package datagrid

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/ajg/form"
)

// DetailLink is the deep link to a row's full detail page. It returns "" when
// no base path is configured. A row without an id yields the bare base path
// with a trailing slash.
func DetailLink(basePath string, row Row) string {
	if basePath == "" {
		return ""
	}
	id := ""
	if row != nil {
		id = row.RowID()
	}
	return strings.TrimRight(basePath, "/") + "/" + url.PathEscape(id)
}

// ListState is the shareable form of a list's view state, encoded as a query
// string such as "q=bob&sort=name+desc&page=2&size=20".
type ListState struct {
	Query  string            `form:"q,omitempty"`
	Sort   string            `form:"sort,omitempty"`
	Filter map[string]string `form:"filter,omitempty"`
	// Page is 1-based.
	Page int    `form:"page,omitempty"`
	Size int    `form:"size,omitempty"`
	View string `form:"view,omitempty"`
}

// Encode renders the state as a query string.
func (s ListState) Encode() (string, error) {
	out, err := form.EncodeToString(s)
	if err != nil {
		return "", fmt.Errorf("encode list state: %w", err)
	}
	return out, nil
}

// DecodeListState parses a query string produced by Encode. A leading "?" is
// ignored.
func DecodeListState(raw string) (ListState, error) {
	var s ListState
	raw = strings.TrimPrefix(strings.TrimSpace(raw), "?")
	if raw == "" {
		return s, nil
	}
	if err := form.DecodeString(&s, raw); err != nil {
		return s, fmt.Errorf("decode list state: %w", err)
	}
	if s.Sort != "" {
		if _, err := ParseOrderBy(s.Sort); err != nil {
			return s, fmt.Errorf("decode list state: %w", err)
		}
	}
	return s, nil
}
