package tableview

import (
	"sort"
	"strings"

	"github.com/kong/gridctl/internal/datagrid"
)

// FieldRenderer formats one field of a record inside the view dialog. value is
// nil for fields the record does not carry.
type FieldRenderer func(row datagrid.Row, value any, width int) string

type fieldKey struct {
	page  string
	field string
}

type fieldRegistration struct {
	field    string
	label    string
	renderer FieldRenderer
}

var fieldRenderers = map[fieldKey]fieldRegistration{}

// RegisterFieldRenderer associates a renderer with a page and field key.
// Fields registered this way are shown even when the page schema omits them.
// Typically invoked from page packages during init.
func RegisterFieldRenderer(page, field, label string, renderer FieldRenderer) {
	key := fieldKey{
		page:  strings.ToLower(strings.TrimSpace(page)),
		field: normalizeFieldKey(field),
	}
	fieldRenderers[key] = fieldRegistration{
		field:    strings.TrimSpace(field),
		label:    strings.TrimSpace(label),
		renderer: renderer,
	}
}

func getFieldRenderer(page, field string) FieldRenderer {
	reg, ok := fieldRenderers[fieldKey{
		page:  strings.ToLower(strings.TrimSpace(page)),
		field: normalizeFieldKey(field),
	}]
	if !ok {
		return nil
	}
	return reg.renderer
}

func registeredFields(page string) []fieldRegistration {
	page = strings.ToLower(strings.TrimSpace(page))
	if page == "" {
		return nil
	}
	fields := make([]fieldRegistration, 0)
	for key, reg := range fieldRenderers {
		if key.page != page {
			continue
		}
		fields = append(fields, reg)
	}
	sort.Slice(fields, func(i, j int) bool {
		return fields[i].field < fields[j].field
	})
	return fields
}

// withRegisteredFields appends registered fields missing from values.
func withRegisteredFields(values []datagrid.FieldValue, page string, row datagrid.Row) []datagrid.FieldValue {
	present := make(map[string]struct{}, len(values))
	for _, v := range values {
		present[normalizeFieldKey(v.Key)] = struct{}{}
	}
	for _, reg := range registeredFields(page) {
		if _, ok := present[normalizeFieldKey(reg.field)]; ok {
			continue
		}
		label := reg.label
		if label == "" {
			label = datagrid.HumanizeKey(reg.field)
		}
		var value any
		if rec, ok := row.(datagrid.Record); ok {
			value, _ = rec.Get(reg.field)
		}
		values = append(values, datagrid.FieldValue{Key: reg.field, Label: label, Value: value})
	}
	return values
}

func normalizeFieldKey(key string) string {
	key = strings.ToLower(strings.TrimSpace(key))
	return strings.NewReplacer(" ", "", "_", "", "-", "").Replace(key)
}
