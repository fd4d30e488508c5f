package datagrid

import (
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// FieldKind is the value type a form field edits.
type FieldKind int

const (
	// FieldAuto infers the kind from the row's current value.
	FieldAuto FieldKind = iota
	FieldString
	FieldNumber
	FieldBool
	FieldObject
)

func (k FieldKind) String() string {
	switch k {
	case FieldString:
		return "string"
	case FieldNumber:
		return "number"
	case FieldBool:
		return "bool"
	case FieldObject:
		return "object"
	default:
		return "auto"
	}
}

// multilineThreshold is the value length past which quick edit uses a
// multi-line input.
const multilineThreshold = 50

// FieldSpec declares one field shown by the view and quick-edit dialogs.
type FieldSpec struct {
	Key   string
	Label string
	Kind  FieldKind
	// Get overrides the default key lookup.
	Get       Accessor
	ReadOnly  bool
	Multiline bool
}

func (f FieldSpec) label() string {
	if f.Label != "" {
		return f.Label
	}
	return HumanizeKey(f.Key)
}

func (f FieldSpec) value(row Row) any {
	if f.Get != nil {
		return f.Get(row)
	}
	return Field(f.Key)(row)
}

// Schema is the ordered field list for a page's records.
type Schema []FieldSpec

// Field returns the field definition for key.
func (s Schema) Field(key string) (FieldSpec, bool) {
	for _, f := range s {
		if f.Key == key {
			return f, true
		}
	}
	return FieldSpec{}, false
}

// FieldValue is one resolved field of a specific row.
type FieldValue struct {
	Key   string
	Label string
	Kind  FieldKind
	Value any
	// Accent marks identifier-like fields (keys containing "id" or "email").
	Accent    bool
	ReadOnly  bool
	Multiline bool
}

// Text renders the value the way an input shows it.
func (v FieldValue) Text() string {
	if v.Value == nil {
		return ""
	}
	return Stringify(v.Value)
}

// ViewFields resolves every schema field for row, objects included.
func (s Schema) ViewFields(row Row) []FieldValue {
	out := make([]FieldValue, 0, len(s))
	for _, f := range s {
		out = append(out, s.resolve(f, row))
	}
	return out
}

// EditFields resolves the fields quick edit offers for row. Object values
// are not editable there and are omitted.
func (s Schema) EditFields(row Row) []FieldValue {
	out := make([]FieldValue, 0, len(s))
	for _, f := range s {
		fv := s.resolve(f, row)
		if fv.Kind == FieldObject {
			continue
		}
		out = append(out, fv)
	}
	return out
}

func (s Schema) resolve(f FieldSpec, row Row) FieldValue {
	v := f.value(row)
	kind := f.Kind
	if kind == FieldAuto {
		kind = inferKind(v)
	}
	lower := strings.ToLower(f.Key)
	fv := FieldValue{
		Key:       f.Key,
		Label:     f.label(),
		Kind:      kind,
		Value:     v,
		Accent:    strings.Contains(lower, "id") || strings.Contains(lower, "email"),
		ReadOnly:  f.ReadOnly || f.Key == IDKey,
		Multiline: f.Multiline || strings.Contains(lower, "body"),
	}
	if !fv.Multiline && kind == FieldString {
		if str, ok := v.(string); ok && len([]rune(str)) > multilineThreshold {
			fv.Multiline = true
		}
	}
	return fv
}

func inferKind(v any) FieldKind {
	switch {
	case v == nil:
		return FieldString
	case IsNumber(v):
		return FieldNumber
	case IsObject(v):
		return FieldObject
	}
	if _, ok := v.(bool); ok {
		return FieldBool
	}
	return FieldString
}

// AutoFields enumerates the keys of the given records into a schema, id
// first. It is opt-in: pages that know their shape should declare a Schema.
// Non-Record rows contribute nothing.
func AutoFields(rows ...Row) Schema {
	seen := map[string]bool{}
	var keys []string
	for _, r := range rows {
		rec, ok := r.(Record)
		if !ok {
			continue
		}
		for _, k := range rec.Keys() {
			if !seen[k] {
				seen[k] = true
				keys = append(keys, k)
			}
		}
	}
	out := make(Schema, 0, len(keys))
	for _, k := range keys {
		out = append(out, FieldSpec{Key: k, Label: HumanizeKey(k)})
	}
	return out
}

// SchemaFromColumns derives a schema from the non-synthetic columns.
func SchemaFromColumns(cols []Column) Schema {
	out := make(Schema, 0, len(cols))
	for _, c := range cols {
		if c.synthetic {
			continue
		}
		col := c
		out = append(out, FieldSpec{Key: col.ID, Label: col.Label(), Get: col.Value})
	}
	return out
}

var titleCaser = cases.Title(language.English)

// HumanizeKey turns "created_at" into "Created At".
func HumanizeKey(key string) string {
	r := strings.NewReplacer("_", " ", "-", " ", ".", " ")
	return titleCaser.String(strings.TrimSpace(r.Replace(key)))
}
