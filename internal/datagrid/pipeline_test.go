package datagrid

import (
	"fmt"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"
)

func annBob() []Row {
	return Records([]map[string]any{
		{"id": "1", "name": "Ann", "email": "a@x.com"},
		{"id": "2", "name": "Bob", "email": "b@x.com"},
	})
}

func nameEmailColumns() []Column {
	return []Column{
		{ID: "name", Header: "Name"},
		{ID: "email", Header: "Email"},
	}
}

func ids(rows []Row) []string {
	out := make([]string, 0, len(rows))
	for _, r := range rows {
		out = append(out, r.RowID())
	}
	return out
}

func TestRunPaginatesLocally(t *testing.T) {
	res := Run(annBob(), nameEmailColumns(), Query{Pagination: Pagination{PageSize: 1}})
	require.Equal(t, []string{"1"}, ids(res.Rows))
	require.Equal(t, 2, res.PageCount)

	res = Run(annBob(), nameEmailColumns(), Query{Pagination: Pagination{PageIndex: 1, PageSize: 1}})
	require.Equal(t, []string{"2"}, ids(res.Rows))
}

func TestRunGlobalFilterIsCaseInsensitive(t *testing.T) {
	res := Run(annBob(), nameEmailColumns(), Query{GlobalFilter: "bob"})
	require.Equal(t, []string{"2"}, ids(res.Rows))

	res = Run(annBob(), nameEmailColumns(), Query{GlobalFilter: "X.COM"})
	require.Len(t, res.Rows, 2)
}

func TestRunPageCountLaw(t *testing.T) {
	cols := []Column{{ID: "n"}}
	for total := 0; total <= 23; total++ {
		for _, size := range PageSizes {
			rows := make([]Row, 0, total)
			for i := 0; i < total; i++ {
				rows = append(rows, Record{"id": fmt.Sprint(i), "n": i})
			}
			res := Run(rows, cols, Query{Pagination: Pagination{PageSize: size}})
			want := (total + size - 1) / size
			require.Equal(t, want, res.PageCount, "total=%d size=%d", total, size)
		}
	}
}

func TestRunManualPaginationTrustsCaller(t *testing.T) {
	q := Query{
		Pagination: Pagination{PageIndex: 3, PageSize: 1},
		Manual:     Manual{Pagination: true},
		TotalRows:  40,
	}
	res := Run(annBob(), nameEmailColumns(), q)
	require.Equal(t, []string{"1", "2"}, ids(res.Rows), "server page must not be re-sliced")
	require.Equal(t, 40, res.PageCount)

	q.PageCount = 7
	res = Run(annBob(), nameEmailColumns(), q)
	require.Equal(t, 7, res.PageCount)
}

func TestRunManualFlagsAreIndependent(t *testing.T) {
	q := Query{
		GlobalFilter: "ann",
		Sorting:      SortState{{ColumnID: "name", Desc: true}},
		Manual:       Manual{Filtering: true},
	}
	res := Run(annBob(), nameEmailColumns(), q)
	require.Equal(t, []string{"2", "1"}, ids(res.Rows), "filter skipped, sort applied")

	q.Manual = Manual{Sorting: true}
	res = Run(annBob(), nameEmailColumns(), q)
	require.Equal(t, []string{"1"}, ids(res.Rows), "filter applied")
}

func TestRunColumnFilters(t *testing.T) {
	cols := []Column{
		{ID: "name"},
		{ID: "role", Filter: FilterEquals},
	}
	rows := Records([]map[string]any{
		{"id": "1", "name": "Ann", "role": "admin"},
		{"id": "2", "name": "Annette", "role": "administrator"},
		{"id": "3", "name": "Bob", "role": "Admin"},
	})

	res := Run(rows, cols, Query{ColumnFilters: FilterState{{ColumnID: "role", Value: "admin"}}})
	require.Equal(t, []string{"1", "3"}, ids(res.Rows))

	res = Run(rows, cols, Query{ColumnFilters: FilterState{
		{ColumnID: "role", Value: "admin"},
		{ColumnID: "name", Value: "ann"},
	}})
	require.Equal(t, []string{"1"}, ids(res.Rows))
}

func TestClearingGlobalFilterRestoresColumnFiltering(t *testing.T) {
	rows := Records([]map[string]any{
		{"id": "1", "name": "Ann", "email": "a@x.com"},
		{"id": "2", "name": "Bob", "email": "b@x.com"},
		{"id": "3", "name": "Cyd", "email": "c@y.com"},
	})
	filters := FilterState{{ColumnID: "email", Value: "x.com"}}
	only := Run(rows, nameEmailColumns(), Query{ColumnFilters: filters})

	withSearch := Run(rows, nameEmailColumns(), Query{ColumnFilters: filters, GlobalFilter: "bob"})
	require.Equal(t, []string{"2"}, ids(withSearch.Rows))

	cleared := Run(rows, nameEmailColumns(), Query{ColumnFilters: filters, GlobalFilter: ""})
	require.Equal(t, ids(only.Rows), ids(cleared.Rows))
}

func TestRunSortIsStableAndTyped(t *testing.T) {
	day := time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC)
	rows := Records([]map[string]any{
		{"id": "a", "n": 10, "group": "x", "at": day},
		{"id": "b", "n": 9, "group": "y", "at": day.Add(-time.Hour)},
		{"id": "c", "n": 100, "group": "x", "at": day.Add(time.Hour)},
		{"id": "d", "group": "y"},
	})
	cols := []Column{{ID: "n"}, {ID: "group"}, {ID: "at"}}

	res := Run(rows, cols, Query{Sorting: SortState{{ColumnID: "n"}}})
	require.Equal(t, []string{"b", "a", "c", "d"}, ids(res.Rows), "numeric, missing last")

	res = Run(rows, cols, Query{Sorting: SortState{{ColumnID: "group"}}})
	require.Equal(t, []string{"a", "c", "b", "d"}, ids(res.Rows), "ties keep input order")

	res = Run(rows, cols, Query{Sorting: SortState{{ColumnID: "at", Desc: true}}})
	require.Equal(t, []string{"c", "a", "b", "d"}, ids(res.Rows))
}

func TestRunDoesNotMutateInput(t *testing.T) {
	rows := annBob()
	before := ids(rows)
	Run(rows, nameEmailColumns(), Query{Sorting: SortState{{ColumnID: "name", Desc: true}}})
	if diff := cmp.Diff(before, ids(rows)); diff != "" {
		t.Fatalf("input reordered (-want +got):\n%s", diff)
	}
}

func TestRunPastLastPageIsEmpty(t *testing.T) {
	res := Run(annBob(), nameEmailColumns(), Query{Pagination: Pagination{PageIndex: 5, PageSize: 10}})
	require.Empty(t, res.Rows)
	require.Equal(t, 1, res.PageCount)
}

func TestSortCycle(t *testing.T) {
	var s SortState
	s = s.Cycle("name")
	require.Equal(t, SortAsc, s.Direction("name"))
	s = s.Cycle("name")
	require.Equal(t, SortDesc, s.Direction("name"))
	s = s.Cycle("name")
	require.Equal(t, SortNone, s.Direction("name"))

	s = SortState{}.Cycle("name").Cycle("email")
	require.Equal(t, SortNone, s.Direction("name"), "one active sort at a time")
	require.Equal(t, SortAsc, s.Direction("email"))
}

func TestOrderByRoundTrip(t *testing.T) {
	s := SortState{{ColumnID: "name", Desc: true}, {ColumnID: "email"}}
	require.Equal(t, "name desc,email", s.OrderBy())

	parsed, err := ParseOrderBy("name desc, email")
	require.NoError(t, err)
	require.Equal(t, s, parsed)

	_, err = ParseOrderBy("name;drop")
	require.Error(t, err)
}

func TestPageSizeMenu(t *testing.T) {
	require.Equal(t, 20, NextPageSize(10))
	require.Equal(t, 10, NextPageSize(100))
	require.Equal(t, 100, PrevPageSize(10))
	require.Equal(t, 10, NextPageSize(7))
	require.Equal(t, 0, PageCount(0, 10))
}
