package datagrid

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"go.einride.tech/aip/ordering"
)

// SortEntry orders rows by one column.
type SortEntry struct {
	ColumnID string
	Desc     bool
}

// SortState lists the active sort entries, highest priority first.
type SortState []SortEntry

// SortDirection is a column's position in the header click cycle.
type SortDirection int

const (
	SortNone SortDirection = iota
	SortAsc
	SortDesc
)

func (d SortDirection) String() string {
	switch d {
	case SortAsc:
		return "asc"
	case SortDesc:
		return "desc"
	default:
		return ""
	}
}

// Direction reports how a column is currently sorted.
func (s SortState) Direction(columnID string) SortDirection {
	for _, e := range s {
		if e.ColumnID == columnID {
			if e.Desc {
				return SortDesc
			}
			return SortAsc
		}
	}
	return SortNone
}

// Cycle advances a column through unsorted, ascending, descending and back
// to unsorted. Only one column is sorted at a time, so cycling a new column
// replaces any other sort.
func (s SortState) Cycle(columnID string) SortState {
	switch s.Direction(columnID) {
	case SortNone:
		return SortState{{ColumnID: columnID}}
	case SortAsc:
		return SortState{{ColumnID: columnID, Desc: true}}
	default:
		return SortState{}
	}
}

// Clone returns an independent copy.
func (s SortState) Clone() SortState {
	if s == nil {
		return nil
	}
	out := make(SortState, len(s))
	copy(out, s)
	return out
}

// OrderBy renders the state as an AIP-132 order_by string, e.g.
// "name desc,email".
func (s SortState) OrderBy() string {
	parts := make([]string, 0, len(s))
	for _, e := range s {
		if e.Desc {
			parts = append(parts, e.ColumnID+" desc")
			continue
		}
		parts = append(parts, e.ColumnID)
	}
	return strings.Join(parts, ",")
}

// ParseOrderBy parses an AIP-132 order_by string.
func ParseOrderBy(s string) (SortState, error) {
	var ob ordering.OrderBy
	if err := ob.UnmarshalString(strings.TrimSpace(s)); err != nil {
		return nil, fmt.Errorf("parse sort: %w", err)
	}
	out := make(SortState, 0, len(ob.Fields))
	for _, f := range ob.Fields {
		out = append(out, SortEntry{ColumnID: f.Path, Desc: f.Desc})
	}
	return out, nil
}

// sortRows returns a stably sorted copy of rows.
func sortRows(rows []Row, cols []Column, state SortState) []Row {
	out := make([]Row, len(rows))
	copy(out, rows)
	if len(state) == 0 {
		return out
	}

	type key struct {
		col  Column
		desc bool
	}
	keys := make([]key, 0, len(state))
	for _, e := range state {
		col, ok := findColumn(cols, e.ColumnID)
		if !ok || !col.Sortable() {
			continue
		}
		keys = append(keys, key{col: col, desc: e.Desc})
	}
	if len(keys) == 0 {
		return out
	}

	sort.SliceStable(out, func(i, j int) bool {
		for _, k := range keys {
			a, b := k.col.Value(out[i]), k.col.Value(out[j])
			c := compareValues(a, b)
			if c == 0 {
				continue
			}
			if a == nil || b == nil {
				return c < 0
			}
			if k.desc {
				return c > 0
			}
			return c < 0
		}
		return false
	})
	return out
}

// compareValues orders numbers numerically, times chronologically and
// everything else as case-insensitive strings. Missing values compare
// greater; sortRows keeps them last in both directions.
func compareValues(a, b any) int {
	switch {
	case a == nil && b == nil:
		return 0
	case a == nil:
		return 1
	case b == nil:
		return -1
	}
	if fa, ok := toFloat(a); ok {
		if fb, ok := toFloat(b); ok {
			switch {
			case fa < fb:
				return -1
			case fa > fb:
				return 1
			default:
				return 0
			}
		}
	}
	if ta, ok := a.(time.Time); ok {
		if tb, ok := b.(time.Time); ok {
			return ta.Compare(tb)
		}
	}
	return strings.Compare(strings.ToLower(Stringify(a)), strings.ToLower(Stringify(b)))
}

func sortStrings(s []string) {
	sort.Strings(s)
}
