package datagrid

// Selection is the set of checked row ids.
type Selection map[string]bool

// Has reports whether id is selected.
func (s Selection) Has(id string) bool {
	return s[id]
}

// Len counts selected ids.
func (s Selection) Len() int {
	n := 0
	for _, v := range s {
		if v {
			n++
		}
	}
	return n
}

// Toggle returns a copy with id flipped. Rows without an id cannot be
// selected.
func (s Selection) Toggle(id string) Selection {
	if id == "" {
		return s.Clone()
	}
	out := s.Clone()
	if out[id] {
		delete(out, id)
	} else {
		out[id] = true
	}
	return out
}

// WithAll returns a copy with every row in rows selected, or deselected when
// all of them already are.
func (s Selection) WithAll(rows []Row) Selection {
	out := s.Clone()
	all := len(rows) > 0
	for _, r := range rows {
		if id := r.RowID(); id != "" && !out[id] {
			all = false
			break
		}
	}
	for _, r := range rows {
		id := r.RowID()
		if id == "" {
			continue
		}
		if all {
			delete(out, id)
		} else {
			out[id] = true
		}
	}
	return out
}

// Without returns a copy with the ids of rows removed.
func (s Selection) Without(rows []Row) Selection {
	out := s.Clone()
	for _, r := range rows {
		if r != nil {
			delete(out, r.RowID())
		}
	}
	return out
}

// Clone returns an independent copy that is never nil.
func (s Selection) Clone() Selection {
	out := make(Selection, len(s))
	for k, v := range s {
		if v {
			out[k] = true
		}
	}
	return out
}

// SelectedRows returns the rows whose ids are selected, preserving order.
func SelectedRows(rows []Row, sel Selection) []Row {
	var out []Row
	for _, r := range rows {
		if r != nil && sel.Has(r.RowID()) {
			out = append(out, r)
		}
	}
	return out
}
