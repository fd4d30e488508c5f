package pages

import (
	"strconv"
	"strings"
	"time"

	"github.com/kong/gridctl/internal/datagrid"
	"github.com/kong/gridctl/internal/util"
)

var dateLayouts = []string{time.RFC3339Nano, time.RFC3339, "2006-01-02 15:04:05", "2006-01-02"}

// dateCell renders timestamps as dates. Values that do not parse are shown
// as stored.
func dateCell(_ datagrid.Row, v any) string {
	s := strings.TrimSpace(datagrid.Stringify(v))
	if s == "" {
		return datagrid.Placeholder
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t.Format("2006-01-02")
		}
	}
	return s
}

// idCell shortens UUIDs so identifiers fit the list column.
func idCell(row datagrid.Row, _ any) string {
	id := datagrid.DisplayID(row)
	if util.IsValidUUID(id) {
		return util.AbbreviateUUID(id)
	}
	return id
}

func boolCell(yes, no string) func(datagrid.Row, any) string {
	return func(_ datagrid.Row, v any) string {
		switch t := v.(type) {
		case bool:
			if t {
				return yes
			}
		case string:
			if b, err := strconv.ParseBool(strings.TrimSpace(t)); err == nil && b {
				return yes
			}
		}
		return no
	}
}

func countCell(_ datagrid.Row, v any) string {
	switch t := v.(type) {
	case []any:
		return datagrid.Stringify(len(t))
	case nil:
		return "0"
	default:
		return datagrid.Stringify(t)
	}
}
