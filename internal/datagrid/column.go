package datagrid

import "strings"

const (
	// ActionsColumnID is the id of the synthetic trailing column hosting the
	// row action buttons.
	ActionsColumnID = "actions"
	// SelectColumnID is the id of the optional leading checkbox column.
	SelectColumnID = "select"
)

// FilterKind selects the predicate used for a column filter.
type FilterKind string

const (
	// FilterIncludes matches a case-insensitive substring. It is the default.
	FilterIncludes FilterKind = "includes"
	// FilterEquals matches the whole value, ignoring case.
	FilterEquals FilterKind = "equals"
)

// Column describes how one field (or computed value) is labeled, read and
// rendered.
type Column struct {
	ID     string
	Header string
	// HeaderRenderer overrides Header when set.
	HeaderRenderer func() string
	// Accessor reads the raw value. Without one, the column id is looked up
	// as a field name.
	Accessor Accessor
	// Cell renders the value for display. Without one, the value is
	// stringified.
	Cell          func(row Row, value any) string
	Filter        FilterKind
	DisableSort   bool
	DisableFilter bool
	// FilterHint tells the user what a filter compares against when it
	// differs from the rendered cell.
	FilterHint string

	synthetic bool
}

// Label returns the header text.
func (c Column) Label() string {
	if c.HeaderRenderer != nil {
		return c.HeaderRenderer()
	}
	if c.Header != "" {
		return c.Header
	}
	return c.ID
}

// Value reads the column's raw value from a row.
func (c Column) Value(row Row) any {
	if c.synthetic || row == nil {
		return nil
	}
	if c.Accessor != nil {
		return c.Accessor(row)
	}
	return Field(c.ID)(row)
}

// Render returns the display string for a row.
func (c Column) Render(row Row) string {
	if c.synthetic {
		if c.Cell != nil {
			return c.Cell(row, nil)
		}
		return ""
	}
	v := c.Value(row)
	if c.Cell != nil {
		return c.Cell(row, v)
	}
	if v == nil {
		return Placeholder
	}
	return Stringify(v)
}

// Synthetic reports whether the engine injected this column.
func (c Column) Synthetic() bool {
	return c.synthetic
}

// IsActions reports whether this is the synthetic actions column.
func (c Column) IsActions() bool {
	return c.synthetic && c.ID == ActionsColumnID
}

// IsSelect reports whether this is the synthetic selection column.
func (c Column) IsSelect() bool {
	return c.synthetic && c.ID == SelectColumnID
}

// Sortable reports whether header clicks cycle this column's sort.
func (c Column) Sortable() bool {
	return !c.synthetic && !c.DisableSort
}

// Filterable reports whether the filter drawer offers this column.
func (c Column) Filterable() bool {
	return !c.synthetic && !c.DisableFilter
}

// FilterPlaceholder is the empty-input text of the column's filter.
func (c Column) FilterPlaceholder() string {
	if c.FilterHint != "" {
		return c.FilterHint
	}
	return "any"
}

func (c Column) filterKind() FilterKind {
	if c.Filter == "" {
		return FilterIncludes
	}
	return c.Filter
}

// ActionKind identifies one row action.
type ActionKind int

const (
	ActionView ActionKind = iota
	ActionEdit
	ActionDelete
)

func (a ActionKind) String() string {
	switch a {
	case ActionView:
		return "view"
	case ActionEdit:
		return "edit"
	case ActionDelete:
		return "delete"
	default:
		return "unknown"
	}
}

// Actions holds the per-row callbacks a page supports. Nil callbacks hide the
// matching button.
type Actions struct {
	View   func(Row)
	Edit   func(Row)
	Delete func(Row)
}

// Available lists the actions whose callbacks exist, in button order.
func (a Actions) Available() []ActionKind {
	var kinds []ActionKind
	if a.View != nil {
		kinds = append(kinds, ActionView)
	}
	if a.Edit != nil {
		kinds = append(kinds, ActionEdit)
	}
	if a.Delete != nil {
		kinds = append(kinds, ActionDelete)
	}
	return kinds
}

// Has reports whether a callback exists for kind.
func (a Actions) Has(kind ActionKind) bool {
	switch kind {
	case ActionView:
		return a.View != nil
	case ActionEdit:
		return a.Edit != nil
	case ActionDelete:
		return a.Delete != nil
	default:
		return false
	}
}

// ActionLabels renders the button strip shown in the actions cell and the card
// footer.
func ActionLabels(kinds []ActionKind) string {
	parts := make([]string, 0, len(kinds))
	for _, k := range kinds {
		parts = append(parts, "["+k.String()+"]")
	}
	return strings.Join(parts, " ")
}

// AugmentColumns returns the caller's columns with the synthetic actions
// column appended when at least one action exists. The input is not modified.
func AugmentColumns(cols []Column, actions Actions) []Column {
	out := make([]Column, 0, len(cols)+1)
	for _, c := range cols {
		if c.synthetic {
			continue
		}
		out = append(out, c)
	}
	kinds := actions.Available()
	if len(kinds) == 0 {
		return out
	}
	labels := ActionLabels(kinds)
	return append(out, Column{
		ID:            ActionsColumnID,
		Header:        "Actions",
		Cell:          func(Row, any) string { return labels },
		DisableSort:   true,
		DisableFilter: true,
		synthetic:     true,
	})
}

func selectionColumn() Column {
	return Column{
		ID:            SelectColumnID,
		Header:        "✓",
		DisableSort:   true,
		DisableFilter: true,
		synthetic:     true,
	}
}

func findColumn(cols []Column, id string) (Column, bool) {
	for _, c := range cols {
		if c.ID == id {
			return c, true
		}
	}
	return Column{}, false
}
