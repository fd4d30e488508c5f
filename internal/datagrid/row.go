package datagrid

import (
	"sort"
)

// IDKey is the field a Record reads its identifier from.
const IDKey = "id"

// Placeholder is rendered in place of missing values and identifiers.
const Placeholder = "—"

// Row is one record supplied by a calling page. The identifier is the only
// field the engine relies on; everything else is read through column
// accessors or a Schema.
type Row interface {
	RowID() string
}

// Record is the stock Row: a decoded JSON/YAML object keyed by field name.
type Record map[string]any

// RowID returns the stringified "id" field, or "" when it is missing.
func (r Record) RowID() string {
	if r == nil {
		return ""
	}
	v, ok := r[IDKey]
	if !ok || v == nil {
		return ""
	}
	return Stringify(v)
}

// Get returns the raw value stored under key.
func (r Record) Get(key string) (any, bool) {
	if r == nil {
		return nil, false
	}
	v, ok := r[key]
	return v, ok
}

// Clone returns a shallow copy. Nested maps and slices are shared.
func (r Record) Clone() Record {
	if r == nil {
		return Record{}
	}
	out := make(Record, len(r))
	for k, v := range r {
		out[k] = v
	}
	return out
}

// Keys returns the record's field names with the identifier first and the
// rest sorted.
func (r Record) Keys() []string {
	keys := make([]string, 0, len(r))
	for k := range r {
		if k == IDKey {
			continue
		}
		keys = append(keys, k)
	}
	sort.Strings(keys)
	if _, ok := r[IDKey]; ok {
		keys = append([]string{IDKey}, keys...)
	}
	return keys
}

// Records wraps decoded objects as rows.
func Records(items []map[string]any) []Row {
	rows := make([]Row, 0, len(items))
	for _, item := range items {
		rows = append(rows, Record(item))
	}
	return rows
}

// DisplayID is the identifier as shown to users; malformed rows get the
// placeholder instead of an empty string.
func DisplayID(row Row) string {
	if row == nil {
		return Placeholder
	}
	if id := row.RowID(); id != "" {
		return id
	}
	return Placeholder
}
