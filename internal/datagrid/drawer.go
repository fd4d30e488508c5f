package datagrid

// FilterDrawer stages column filter edits until they are applied. The staged
// copy is resynced from the committed state every time the drawer opens.
type FilterDrawer struct {
	open      bool
	staged    FilterState
	committed *State[FilterState]
	onCommit  func()
}

func newFilterDrawer(committed *State[FilterState], onCommit func()) *FilterDrawer {
	return &FilterDrawer{committed: committed, onCommit: onCommit}
}

// Open shows the drawer, discarding any stale staged edits.
func (d *FilterDrawer) Open() {
	d.staged = d.committed.Get().Clone()
	d.open = true
}

// Close hides the drawer without touching the committed filters.
func (d *FilterDrawer) Close() {
	d.open = false
	d.staged = nil
}

// IsOpen reports whether the drawer is shown.
func (d *FilterDrawer) IsOpen() bool {
	return d.open
}

// Staged returns the staged filters.
func (d *FilterDrawer) Staged() FilterState {
	return d.staged.Clone()
}

// StagedValue returns the staged value for a column.
func (d *FilterDrawer) StagedValue(columnID string) string {
	v, _ := d.staged.Get(columnID)
	return v
}

// Stage sets one column's staged value. An empty value drops the entry.
func (d *FilterDrawer) Stage(columnID, value string) {
	d.staged = d.staged.With(columnID, value)
}

// Apply commits the staged filters in one write and closes the drawer. It
// reports whether the committed state changed; an unchanged set is not
// written.
func (d *FilterDrawer) Apply() bool {
	next := d.staged.Clone()
	changed := !next.Equal(d.committed.Get())
	if changed {
		d.committed.Set(next)
		if d.onCommit != nil {
			d.onCommit()
		}
	}
	d.Close()
	return changed
}

// Clear empties both the staged and committed filters. The drawer stays
// open.
func (d *FilterDrawer) Clear() {
	d.staged = nil
	d.committed.Set(FilterState{})
	if d.onCommit != nil {
		d.onCommit()
	}
}
