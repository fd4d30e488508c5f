package datagrid

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/require"
)

type callRecorder struct {
	viewed  []Row
	edited  []Row
	deleted []Row
}

func (c *callRecorder) actions() Actions {
	return Actions{
		View:   func(r Row) { c.viewed = append(c.viewed, r) },
		Edit:   func(r Row) { c.edited = append(c.edited, r) },
		Delete: func(r Row) { c.deleted = append(c.deleted, r) },
	}
}

type noticeSink []Notice

func (s *noticeSink) Notify(n Notice) { *s = append(*s, n) }

func TestTablePagingScenario(t *testing.T) {
	tbl := New(nameEmailColumns(), annBob(), WithInitialPageSize(1))

	require.Equal(t, []string{"1"}, ids(tbl.Visible()))
	require.Equal(t, 2, tbl.PageCount())
	require.True(t, tbl.NextPage())
	require.Equal(t, []string{"2"}, ids(tbl.Visible()))
	require.False(t, tbl.NextPage())
}

func TestTableGlobalFilterScenario(t *testing.T) {
	tbl := New(nameEmailColumns(), annBob())
	for _, r := range "bob" {
		tbl.SetGlobalFilter(tbl.GlobalFilter() + string(r))
	}
	require.Equal(t, []string{"2"}, ids(tbl.Visible()))
}

func TestTableQuickEditScenario(t *testing.T) {
	rec := &callRecorder{}
	var notices noticeSink
	tbl := New(nameEmailColumns(), annBob(), WithActions(rec.actions()), WithNotifier(&notices))

	row := tbl.Visible()[0]
	require.True(t, tbl.Click(ActionEdit, row))
	require.Equal(t, ModalEditing, tbl.Modal().Kind())
	require.Empty(t, rec.edited, "edit callback fires on commit")

	require.NoError(t, tbl.StageField("name", "Annie"))
	require.NoError(t, tbl.CommitEdit())

	require.Len(t, rec.edited, 1)
	require.Equal(t, Record{"id": "1", "name": "Annie", "email": "a@x.com"}, rec.edited[0])
	require.Equal(t, ModalClosed, tbl.Modal().Kind())
	require.Equal(t, "Ann", row.(Record)["name"], "original row untouched")
	require.Len(t, notices, 1)
	require.Equal(t, NoticeSuccess, notices[0].Level)
	require.NotEmpty(t, notices[0].ID)
}

func TestTableDeleteConfirmCallsOnce(t *testing.T) {
	rec := &callRecorder{}
	tbl := New(nameEmailColumns(), annBob(), WithActions(rec.actions()))
	row := tbl.Visible()[1]

	tbl.Click(ActionDelete, row)
	require.NoError(t, tbl.ConfirmDelete())
	require.Len(t, rec.deleted, 1)
	require.Equal(t, "2", rec.deleted[0].RowID())
	require.ErrorIs(t, tbl.ConfirmDelete(), ErrNotDeleting)
	require.Len(t, rec.deleted, 1)
}

func TestTableDeleteCancelCallsNothing(t *testing.T) {
	rec := &callRecorder{}
	tbl := New(nameEmailColumns(), annBob(), WithActions(rec.actions()))

	tbl.Click(ActionDelete, tbl.Visible()[0])
	tbl.CloseModal()
	require.Empty(t, rec.deleted)
	require.Equal(t, ModalClosed, tbl.Modal().Kind())
}

func TestTableViewClickInvokesCallbackAndOpens(t *testing.T) {
	rec := &callRecorder{}
	tbl := New(nameEmailColumns(), annBob(), WithActions(rec.actions()))
	row := tbl.Visible()[0]

	tbl.Click(ActionView, row)
	require.Len(t, rec.viewed, 1)
	require.Equal(t, ModalViewing, tbl.Modal().Kind())

	tbl.Click(ActionDelete, tbl.Visible()[1])
	require.Equal(t, ModalDeleting, tbl.Modal().Kind(), "opening replaces the open dialog")
	require.Equal(t, "2", tbl.Modal().Row().RowID())
}

func TestTableClickWithoutCallbackIsIgnored(t *testing.T) {
	tbl := New(nameEmailColumns(), annBob(), WithActions(Actions{View: func(Row) {}}))
	require.False(t, tbl.Click(ActionDelete, tbl.Visible()[0]))
	require.Equal(t, ModalClosed, tbl.Modal().Kind())
}

func TestTableCommitBlockedByInvalidNumber(t *testing.T) {
	rec := &callRecorder{}
	rows := Records([]map[string]any{{"id": "1", "name": "Ann", "age": 30}})
	cols := []Column{{ID: "name"}, {ID: "age"}}
	tbl := New(cols, rows, WithActions(rec.actions()))

	tbl.Click(ActionEdit, rows[0])
	require.Error(t, tbl.StageField("age", "thirty"))
	require.Error(t, tbl.CommitEdit())
	require.Equal(t, ModalEditing, tbl.Modal().Kind())

	require.NoError(t, tbl.StageField("age", "31"))
	require.NoError(t, tbl.CommitEdit())
	require.Equal(t, 31, rec.edited[0].(Record)["age"])
}

func TestTableColumnsAugmentation(t *testing.T) {
	tbl := New(nameEmailColumns(), annBob())
	require.Len(t, tbl.Columns(), 2)

	tbl = New(nameEmailColumns(), annBob(), WithActions(Actions{Edit: func(Row) {}}))
	cols := tbl.Columns()
	require.Len(t, cols, 3)
	require.Equal(t, "name", cols[0].ID)
	require.True(t, cols[2].IsActions())
	require.Equal(t, "[edit]", cols[2].Render(annBob()[0]))

	tbl = New(nameEmailColumns(), annBob(), WithActions((&callRecorder{}).actions()), WithSelectionColumn())
	cols = tbl.Columns()
	require.True(t, cols[0].IsSelect())
	require.True(t, cols[len(cols)-1].IsActions())
	require.Equal(t, "[view] [edit] [delete]", cols[len(cols)-1].Render(nil))
}

func TestTableDelegatedState(t *testing.T) {
	var sorting SortState
	var sets int
	tbl := New(nameEmailColumns(), annBob(),
		WithSortingState(func() SortState { return sorting }, func(s SortState) { sorting = s; sets++ }))

	tbl.ToggleSort("name")
	tbl.ToggleSort("name")
	require.Equal(t, 2, sets)
	require.Equal(t, SortState{{ColumnID: "name", Desc: true}}, sorting)
	require.Equal(t, []string{"2", "1"}, ids(tbl.Visible()))

	sorting = nil
	require.Equal(t, []string{"1", "2"}, ids(tbl.Visible()), "reads go to the caller")
}

func TestTableHalfControlledStateFallsBack(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, nil))
	tbl := New(nameEmailColumns(), annBob(),
		WithLogger(logger),
		WithGlobalFilterState(func() string { return "ann" }, nil))

	require.Len(t, tbl.Visible(), 2, "getter without setter is ignored")
	tbl.SetGlobalFilter("bob")
	require.Equal(t, []string{"2"}, ids(tbl.Visible()))
	require.Contains(t, buf.String(), "incomplete controlled state")
}

func TestTableSortThreeClicks(t *testing.T) {
	tbl := New(nameEmailColumns(), annBob())
	require.Equal(t, SortAsc, tbl.ToggleSort("name"))
	require.Equal(t, SortDesc, tbl.ToggleSort("name"))
	require.Equal(t, SortNone, tbl.ToggleSort("name"))
	require.Empty(t, tbl.Sorting())

	tbl = New(nameEmailColumns(), annBob(), WithActions(Actions{View: func(Row) {}}))
	require.Equal(t, SortNone, tbl.ToggleSort(ActionsColumnID))
}

func TestTablePageSizeDoesNotClamp(t *testing.T) {
	rows := make([]Row, 0, 25)
	for i := 0; i < 25; i++ {
		rows = append(rows, Record{"id": string(rune('a' + i))})
	}
	tbl := New([]Column{{ID: "id"}}, rows)
	tbl.LastPage()
	require.Equal(t, 2, tbl.Pagination().PageIndex)

	tbl.SetPageSize(50)
	require.Equal(t, 2, tbl.Pagination().PageIndex)
	require.Empty(t, tbl.Visible())
	require.Equal(t, 1, tbl.PageCount())
}

func TestTableFilterChangeReturnsToFirstPage(t *testing.T) {
	tbl := New(nameEmailColumns(), annBob(), WithInitialPageSize(1))
	tbl.NextPage()
	tbl.SetGlobalFilter("a")
	require.Equal(t, 0, tbl.Pagination().PageIndex)
}

func TestTableRevisionTracksQueryChanges(t *testing.T) {
	tbl := New(nameEmailColumns(), annBob())
	r0 := tbl.Revision()
	tbl.SetRows(annBob())
	require.Equal(t, r0, tbl.Revision())
	tbl.SetGlobalFilter("x")
	require.Greater(t, tbl.Revision(), r0)
}

func TestTableViewModeKeepsRows(t *testing.T) {
	tbl := New(nameEmailColumns(), annBob(), WithInitialPageSize(1))
	list := tbl.Visible()
	require.Equal(t, ViewGrid, tbl.ToggleViewMode())
	cards := tbl.Cards()
	require.Len(t, cards, len(list))
	for i := range cards {
		require.Equal(t, list[i].RowID(), cards[i].Row.RowID())
	}
}

func TestTableBulkDelete(t *testing.T) {
	var notices noticeSink
	var got []Row
	tbl := New(nameEmailColumns(), annBob(),
		WithSelectionColumn(),
		WithNotifier(&notices),
		WithBulkDelete(func(_ context.Context, rows []Row) error {
			got = rows
			return nil
		}))

	tbl.ToggleAllVisible()
	require.Equal(t, 2, tbl.Selection().Len())
	require.Equal(t, "[x]", tbl.Columns()[0].Render(annBob()[0]))

	require.NoError(t, tbl.BulkDelete(context.Background()))
	require.Equal(t, []string{"1", "2"}, ids(got))
	require.Zero(t, tbl.Selection().Len())
	require.Len(t, notices, 1)
	require.Equal(t, "Deleted 2 rows", notices[0].Message)
}

func TestTableBulkDeleteFailureKeepsSelection(t *testing.T) {
	var notices noticeSink
	boom := errors.New("boom")
	tbl := New(nameEmailColumns(), annBob(),
		WithNotifier(&notices),
		WithBulkDelete(func(context.Context, []Row) error { return boom }))

	tbl.ToggleSelected(annBob()[0])
	require.ErrorIs(t, tbl.BulkDelete(context.Background()), boom)
	require.Equal(t, 1, tbl.Selection().Len())
	require.Equal(t, NoticeError, notices[0].Level)
	require.ErrorIs(t, notices[0].Err, boom)

	require.ErrorIs(t, New(nil, nil).BulkDelete(context.Background()), ErrNoBulkDelete)
}

func TestTableBulkDeleteWithManualPagination(t *testing.T) {
	var notices noticeSink
	var got []Row
	page1 := annBob()
	page2 := Records([]map[string]any{{"id": "3", "name": "Cy", "email": "c@x.com"}})
	tbl := New(nameEmailColumns(), page1,
		WithManual(Manual{Pagination: true}),
		WithInitialPageSize(2),
		WithTotalRows(3),
		WithSelectionColumn(),
		WithNotifier(&notices),
		WithBulkDelete(func(_ context.Context, rows []Row) error {
			got = rows
			return nil
		}))

	tbl.ToggleAllVisible()
	require.True(t, tbl.NextPage())
	tbl.SetRows(page2)
	tbl.ToggleSelected(page2[0])

	require.Equal(t, 3, tbl.Selection().Len())
	require.Equal(t, []string{"3"}, ids(tbl.SelectedRows()), "only rows on the current page can be deleted")

	require.NoError(t, tbl.BulkDelete(context.Background()))
	require.Equal(t, []string{"3"}, ids(got))
	require.Equal(t, "Deleted 1 row", notices[0].Message)

	sel := tbl.Selection()
	require.Equal(t, 2, sel.Len(), "rows selected on other pages stay selected")
	require.True(t, sel.Has("1"))
	require.True(t, sel.Has("2"))
	require.False(t, sel.Has("3"))
}

func TestTableDelegatedPagination(t *testing.T) {
	p := Pagination{PageSize: 1}
	var writes []Pagination
	tbl := New(nameEmailColumns(), annBob(),
		WithPaginationState(func() Pagination { return p }, func(next Pagination) {
			p = next
			writes = append(writes, next)
		}))

	require.True(t, tbl.NextPage())
	require.Equal(t, Pagination{PageIndex: 1, PageSize: 1}, p)
	require.Equal(t, []string{"2"}, ids(tbl.Visible()))

	tbl.SetPageSize(20)
	require.Equal(t, Pagination{PageIndex: 1, PageSize: 20}, p, "page size change keeps the index")

	tbl.SetColumnFilter("name", "a")
	require.Equal(t, 0, p.PageIndex, "filter change returns to the first page through the setter")
	require.Len(t, writes, 3)

	p = Pagination{PageIndex: 0, PageSize: 1}
	require.Equal(t, []string{"1"}, ids(tbl.Visible()), "reads go to the caller")
}

func TestTableDelegatedSelection(t *testing.T) {
	sel := Selection{}
	var sets int
	tbl := New(nameEmailColumns(), annBob(),
		WithSelectionColumn(),
		WithSelectionState(func() Selection { return sel }, func(s Selection) { sel = s; sets++ }))

	tbl.ToggleSelected(annBob()[1])
	require.Equal(t, 1, sets)
	require.True(t, sel.Has("2"))
	require.Equal(t, "[x]", tbl.Columns()[0].Render(annBob()[1]))

	sel = Selection{"1": true}
	require.Equal(t, []string{"1"}, ids(tbl.SelectedRows()), "reads go to the caller")

	tbl.ClearSelection()
	require.Zero(t, sel.Len())
	require.Equal(t, 2, sets)
}

func TestTableServerPageCount(t *testing.T) {
	tbl := New(nameEmailColumns(), annBob(),
		WithManual(Manual{Pagination: true}),
		WithInitialPageSize(2),
		WithTotalRows(9),
		WithPageCount(7),
		WithLoading(true))

	require.True(t, tbl.Loading())
	require.Equal(t, 7, tbl.PageCount(), "page count wins over total rows")
	require.Equal(t, 9, tbl.Result().FilteredCount)
	require.Len(t, tbl.Visible(), 2)

	tbl.SetPageCount(0)
	require.Equal(t, 5, tbl.PageCount(), "falls back to total rows over page size")
}

func TestTableCardLayout(t *testing.T) {
	layout := func(cols []Column) CardSlots {
		var slots CardSlots
		for i := range cols {
			if cols[i].ID == "email" {
				slots.Title = &cols[i]
			}
		}
		return slots
	}
	tbl := New(nameEmailColumns(), annBob(), WithCardLayout(layout))

	cards := tbl.Cards()
	require.Len(t, cards, 2)
	require.Equal(t, "a@x.com", cards[0].Title)
	require.Empty(t, cards[0].Subtitle)
	require.Empty(t, cards[0].Details)
}

func TestTableListStateRoundTrip(t *testing.T) {
	tbl := New(nameEmailColumns(), annBob(), WithInitialPageSize(20))
	tbl.SetColumnFilter("email", "x.com")
	tbl.SetGlobalFilter("b")
	tbl.ToggleSort("name")
	tbl.ToggleSort("name")
	tbl.SetViewMode(ViewGrid)

	encoded, err := tbl.ListState().Encode()
	require.NoError(t, err)

	decoded, err := DecodeListState(encoded)
	require.NoError(t, err)

	other := New(nameEmailColumns(), annBob())
	require.NoError(t, other.ApplyListState(decoded))
	require.Equal(t, "b", other.GlobalFilter())
	require.Equal(t, SortState{{ColumnID: "name", Desc: true}}, other.Sorting())
	require.True(t, other.ColumnFilters().Equal(FilterState{{ColumnID: "email", Value: "x.com"}}))
	require.Equal(t, 20, other.Pagination().PageSize)
	require.Equal(t, ViewGrid, other.ViewMode())
}

func TestTableMalformedRowDegrades(t *testing.T) {
	rows := []Row{Record{"name": "nobody"}}
	tbl := New(nameEmailColumns(), rows, WithBasePath("/users"))
	require.Equal(t, Placeholder, nameEmailColumns()[1].Render(rows[0]))
	require.Equal(t, "/users/", tbl.DetailLink(rows[0]))
	require.Equal(t, Placeholder, DisplayID(rows[0]))
}
