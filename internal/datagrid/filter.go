package datagrid

import "strings"

// ColumnFilter is one committed or staged column predicate value.
type ColumnFilter struct {
	ColumnID string
	Value    string
}

// FilterState is the set of active column filters, unique by column id. Empty
// values are never stored.
type FilterState []ColumnFilter

// Get returns the filter value for a column.
func (f FilterState) Get(columnID string) (string, bool) {
	for _, cf := range f {
		if cf.ColumnID == columnID {
			return cf.Value, true
		}
	}
	return "", false
}

// With returns a copy with the column's value replaced. An empty (or
// whitespace-only) value removes the entry.
func (f FilterState) With(columnID, value string) FilterState {
	if strings.TrimSpace(value) == "" {
		return f.Without(columnID)
	}
	out := f.Clone()
	for i := range out {
		if out[i].ColumnID == columnID {
			out[i].Value = value
			return out
		}
	}
	return append(out, ColumnFilter{ColumnID: columnID, Value: value})
}

// Without returns a copy with the column's entry removed.
func (f FilterState) Without(columnID string) FilterState {
	out := make(FilterState, 0, len(f))
	for _, cf := range f {
		if cf.ColumnID != columnID {
			out = append(out, cf)
		}
	}
	return out
}

// Clone returns an independent copy.
func (f FilterState) Clone() FilterState {
	if f == nil {
		return nil
	}
	out := make(FilterState, len(f))
	copy(out, f)
	return out
}

// Equal compares two states as sets.
func (f FilterState) Equal(other FilterState) bool {
	if len(f) != len(other) {
		return false
	}
	for _, cf := range f {
		v, ok := other.Get(cf.ColumnID)
		if !ok || v != cf.Value {
			return false
		}
	}
	return true
}

// Map returns the filters keyed by column id.
func (f FilterState) Map() map[string]string {
	if len(f) == 0 {
		return nil
	}
	out := make(map[string]string, len(f))
	for _, cf := range f {
		out[cf.ColumnID] = cf.Value
	}
	return out
}

// FilterStateFromMap builds a state from a map, dropping empty values.
// Entries are ordered by the supplied column order first, then by key.
func FilterStateFromMap(values map[string]string, order []string) FilterState {
	var out FilterState
	seen := make(map[string]bool, len(values))
	for _, id := range order {
		if v, ok := values[id]; ok {
			out = out.With(id, v)
			seen[id] = true
		}
	}
	rest := make([]string, 0, len(values))
	for id := range values {
		if !seen[id] {
			rest = append(rest, id)
		}
	}
	sortStrings(rest)
	for _, id := range rest {
		out = out.With(id, values[id])
	}
	return out
}

func matchFilter(kind FilterKind, cell, want string) bool {
	cell = strings.ToLower(cell)
	want = strings.ToLower(strings.TrimSpace(want))
	if want == "" {
		return true
	}
	switch kind {
	case FilterEquals:
		return cell == want
	default:
		return strings.Contains(cell, want)
	}
}
