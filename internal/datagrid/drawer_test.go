package datagrid

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestDrawerApplyWithoutEditsIsNoop(t *testing.T) {
	var writes int
	committed := FilterState{{ColumnID: "email", Value: "x.com"}}
	tbl := New(nameEmailColumns(), annBob(), WithColumnFiltersState(
		func() FilterState { return committed },
		func(f FilterState) { committed = f; writes++ },
	))

	d := tbl.Drawer()
	d.Open()
	require.False(t, d.Apply())
	require.Zero(t, writes)
	require.Equal(t, FilterState{{ColumnID: "email", Value: "x.com"}}, committed)
	require.False(t, d.IsOpen())
}

func TestDrawerCloseDiscardsStagedEdits(t *testing.T) {
	tbl := New(nameEmailColumns(), annBob())
	d := tbl.Drawer()

	d.Open()
	d.Stage("name", "bob")
	d.Close()
	require.Empty(t, tbl.ColumnFilters())

	d.Open()
	require.Empty(t, d.StagedValue("name"), "staged copy resyncs on open")
}

func TestDrawerApplyCommitsAtomically(t *testing.T) {
	var writes []FilterState
	var committed FilterState
	tbl := New(nameEmailColumns(), annBob(), WithColumnFiltersState(
		func() FilterState { return committed },
		func(f FilterState) { committed = f; writes = append(writes, f) },
	))

	d := tbl.Drawer()
	d.Open()
	d.Stage("name", "b")
	d.Stage("email", "x.com")
	require.Empty(t, writes, "staging never writes")
	require.True(t, d.Apply())
	require.Len(t, writes, 1)
	require.Equal(t, []string{"2"}, ids(tbl.Visible()))
}

func TestDrawerEmptyValueDropsEntry(t *testing.T) {
	tbl := New(nameEmailColumns(), annBob())
	d := tbl.Drawer()
	d.Open()
	d.Stage("name", "b")
	d.Stage("name", "")
	require.Empty(t, d.Staged())
}

func TestDrawerClear(t *testing.T) {
	tbl := New(nameEmailColumns(), annBob())
	tbl.SetColumnFilter("name", "ann")
	d := tbl.Drawer()
	d.Open()
	d.Stage("email", "b")
	d.Clear()
	require.Empty(t, d.Staged())
	require.Empty(t, tbl.ColumnFilters())
	require.True(t, d.IsOpen())
	require.Len(t, tbl.Visible(), 2)
}

func TestFilterStateEqualIgnoresOrder(t *testing.T) {
	a := FilterState{{ColumnID: "a", Value: "1"}, {ColumnID: "b", Value: "2"}}
	b := FilterState{{ColumnID: "b", Value: "2"}, {ColumnID: "a", Value: "1"}}
	require.True(t, a.Equal(b))
	require.False(t, a.Equal(a.With("a", "3")))
	require.Len(t, a.With("a", "9"), 2, "unique by column")
}
