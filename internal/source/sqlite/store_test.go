package sqlite

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kong/gridctl/internal/datagrid"
	gridErr "github.com/kong/gridctl/internal/err"
)

func openTempStore(t *testing.T) *Store {
	t.Helper()
	store, err := Open(filepath.Join(t.TempDir(), "gridctl.db"), nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })
	return store
}

func seedUsers(t *testing.T, store *Store) {
	t.Helper()
	users := []datagrid.Record{
		{"id": "1", "name": "Ann", "email": "ann@example.com", "role": "admin", "age": 34},
		{"id": "2", "name": "bob", "email": "bob@example.com", "role": "viewer", "age": 27},
		{"id": "3", "name": "Carla", "email": "carla@example.com", "role": "editor"},
		{"id": "4", "name": "Dan", "email": "dan_ops@example.com", "role": "admin", "age": 41},
	}
	n, err := store.Seed(context.Background(), "users", users, false)
	require.NoError(t, err)
	require.Equal(t, 4, n)
}

func userColumns() []datagrid.Column {
	return []datagrid.Column{
		{ID: "name", Header: "Name"},
		{ID: "email", Header: "Email"},
		{ID: "role", Header: "Role", Filter: datagrid.FilterEquals},
		{ID: "age", Header: "Age", DisableFilter: true},
	}
}

func mustAll(t *testing.T, store *Store) []datagrid.Row {
	t.Helper()
	rows, err := store.All(context.Background(), "users")
	require.NoError(t, err)
	return rows
}

func ids(rows []datagrid.Row) []string {
	out := make([]string, 0, len(rows))
	for _, r := range rows {
		out = append(out, r.RowID())
	}
	return out
}

func TestOpenRequiresPath(t *testing.T) {
	_, err := Open("  ", nil)
	require.Error(t, err)
}

func TestNilStoreIsNotConfigured(t *testing.T) {
	var store *Store
	_, err := store.All(context.Background(), "users")
	require.ErrorContains(t, err, "storage is not configured")
	require.NoError(t, store.Close())
}

func TestCanceledContext(t *testing.T) {
	store := openTempStore(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := store.Get(ctx, "users", "1")
	require.ErrorIs(t, err, context.Canceled)
}

func TestSeedKeepsInsertionOrderAndUpserts(t *testing.T) {
	store := openTempStore(t)
	seedUsers(t, store)

	_, err := store.Seed(context.Background(), "users", []datagrid.Record{
		{"id": "2", "name": "Bob"},
		{"id": "5", "name": "Eve"},
	}, false)
	require.NoError(t, err)

	rows, err := store.All(context.Background(), "users")
	require.NoError(t, err)
	assert.Equal(t, []string{"1", "2", "3", "4", "5"}, ids(rows))
	assert.Equal(t, "Bob", rows[1].(datagrid.Record)["name"])

	_, err = store.Seed(context.Background(), "users", []datagrid.Record{{"id": "9"}}, true)
	require.NoError(t, err)
	n, err := store.Count(context.Background(), "users")
	require.NoError(t, err)
	assert.Equal(t, 1, n)
}

func TestInsertGeneratesIDAndRejectsDuplicates(t *testing.T) {
	store := openTempStore(t)
	ctx := context.Background()

	rec := datagrid.Record{"name": "Fay"}
	require.NoError(t, store.Insert(ctx, "users", rec))
	require.Len(t, rec.RowID(), 36)

	err := store.Insert(ctx, "users", datagrid.Record{"id": rec.RowID()})
	require.ErrorIs(t, err, ErrExists)

	got, err := store.Get(ctx, "users", rec.RowID())
	require.NoError(t, err)
	assert.Equal(t, "Fay", got["name"])
}

func TestUpdateMergesFields(t *testing.T) {
	store := openTempStore(t)
	seedUsers(t, store)
	ctx := context.Background()

	require.NoError(t, store.Update(ctx, "users", datagrid.Record{"id": "1", "name": "Annie", "age": 35}))

	got, err := store.Get(ctx, "users", "1")
	require.NoError(t, err)
	assert.Equal(t, "Annie", got["name"])
	assert.Equal(t, float64(35), got["age"])
	assert.Equal(t, "ann@example.com", got["email"])

	err = store.Update(ctx, "users", datagrid.Record{"id": "404", "name": "x"})
	require.ErrorIs(t, err, ErrNotFound)
}

func TestDeleteManyReportsEveryFailure(t *testing.T) {
	store := openTempStore(t)
	seedUsers(t, store)
	ctx := context.Background()

	err := store.DeleteMany(ctx, "users", []string{"1", "404", "3", "405"})
	require.Error(t, err)

	var bucket *gridErr.ErrorsBucket
	require.True(t, errors.As(err, &bucket))
	assert.Equal(t, 2, bucket.Len())
	assert.ErrorIs(t, err, ErrNotFound)

	rows, err := store.All(ctx, "users")
	require.NoError(t, err)
	assert.Equal(t, []string{"2", "4"}, ids(rows))
}

func TestListGlobalFilterMatchesAnyColumn(t *testing.T) {
	store := openTempStore(t)
	seedUsers(t, store)

	page, err := store.List(context.Background(), "users", datagrid.Query{
		GlobalFilter: "BOB",
	}, userColumns(), nil)
	require.NoError(t, err)
	assert.Equal(t, 1, page.Total)
	assert.Equal(t, []string{"2"}, ids(page.Rows))
}

func TestListGlobalFilterCoversEveryDataColumn(t *testing.T) {
	store := openTempStore(t)
	seedUsers(t, store)

	page, err := store.List(context.Background(), "users", datagrid.Query{
		GlobalFilter: "41",
	}, userColumns(), nil)
	require.NoError(t, err)
	assert.Equal(t, []string{"4"}, ids(page.Rows), "age is searched although it has no column filter")

	local := datagrid.Run(mustAll(t, store), userColumns(), datagrid.Query{GlobalFilter: "41"})
	assert.Equal(t, ids(local.Rows), ids(page.Rows))
}

func TestListBooleansMatchAsText(t *testing.T) {
	store := openTempStore(t)
	_, err := store.Seed(context.Background(), "roles", []datagrid.Record{
		{"id": "1", "name": "admin", "builtin": true},
		{"id": "2", "name": "auditor", "builtin": false},
		{"id": "3", "name": "custom"},
	}, false)
	require.NoError(t, err)
	cols := []datagrid.Column{
		{ID: "name"},
		{ID: "builtin", Filter: datagrid.FilterEquals},
	}

	page, err := store.List(context.Background(), "roles", datagrid.Query{
		ColumnFilters: datagrid.FilterState{{ColumnID: "builtin", Value: "TRUE"}},
	}, cols, nil)
	require.NoError(t, err)
	assert.Equal(t, []string{"1"}, ids(page.Rows))

	page, err = store.List(context.Background(), "roles", datagrid.Query{GlobalFilter: "fals"}, cols, nil)
	require.NoError(t, err)
	assert.Equal(t, []string{"2"}, ids(page.Rows))
}

func TestListGlobalFilterEscapesWildcards(t *testing.T) {
	store := openTempStore(t)
	seedUsers(t, store)

	page, err := store.List(context.Background(), "users", datagrid.Query{
		GlobalFilter: "n_o",
	}, userColumns(), nil)
	require.NoError(t, err)
	assert.Zero(t, page.Total)

	page, err = store.List(context.Background(), "users", datagrid.Query{
		GlobalFilter: "dan_",
	}, userColumns(), nil)
	require.NoError(t, err)
	assert.Equal(t, []string{"4"}, ids(page.Rows))
}

func TestListColumnFilters(t *testing.T) {
	store := openTempStore(t)
	seedUsers(t, store)

	page, err := store.List(context.Background(), "users", datagrid.Query{
		ColumnFilters: datagrid.FilterState{{ColumnID: "role", Value: "Admin"}},
	}, userColumns(), nil)
	require.NoError(t, err)
	assert.Equal(t, []string{"1", "4"}, ids(page.Rows))

	page, err = store.List(context.Background(), "users", datagrid.Query{
		ColumnFilters: datagrid.FilterState{{ColumnID: "role", Value: "adm"}},
	}, userColumns(), nil)
	require.NoError(t, err)
	assert.Zero(t, page.Total, "equals filters match whole values")

	page, err = store.List(context.Background(), "users", datagrid.Query{
		ColumnFilters: datagrid.FilterState{{ColumnID: "age", Value: "34"}},
	}, userColumns(), nil)
	require.NoError(t, err)
	assert.Equal(t, 4, page.Total, "filters on unfilterable columns are ignored")
}

func TestListSortsWithMissingValuesLast(t *testing.T) {
	store := openTempStore(t)
	seedUsers(t, store)

	page, err := store.List(context.Background(), "users", datagrid.Query{
		Sorting: datagrid.SortState{{ColumnID: "age"}},
	}, userColumns(), nil)
	require.NoError(t, err)
	assert.Equal(t, []string{"2", "1", "4", "3"}, ids(page.Rows))

	page, err = store.List(context.Background(), "users", datagrid.Query{
		Sorting: datagrid.SortState{{ColumnID: "age", Desc: true}},
	}, userColumns(), nil)
	require.NoError(t, err)
	assert.Equal(t, []string{"4", "1", "2", "3"}, ids(page.Rows))

	page, err = store.List(context.Background(), "users", datagrid.Query{
		Sorting: datagrid.SortState{{ColumnID: "name"}},
	}, userColumns(), nil)
	require.NoError(t, err)
	assert.Equal(t, []string{"1", "2", "3", "4"}, ids(page.Rows), "text sorts ignore case")
}

func TestListRejectsUnknownSortColumn(t *testing.T) {
	store := openTempStore(t)
	seedUsers(t, store)

	_, err := store.List(context.Background(), "users", datagrid.Query{
		Sorting: datagrid.SortState{{ColumnID: "password"}},
	}, userColumns(), nil)
	require.ErrorContains(t, err, "invalid sort")
}

func TestListPaginates(t *testing.T) {
	store := openTempStore(t)
	seedUsers(t, store)

	page, err := store.List(context.Background(), "users", datagrid.Query{
		Pagination: datagrid.Pagination{PageIndex: 1, PageSize: 3},
	}, userColumns(), nil)
	require.NoError(t, err)
	assert.Equal(t, 4, page.Total)
	assert.Equal(t, []string{"4"}, ids(page.Rows))
}

func TestListNestedPaths(t *testing.T) {
	store := openTempStore(t)
	_, err := store.Seed(context.Background(), "auditlogs", []datagrid.Record{
		{"id": "a", "actor": map[string]any{"email": "ann@example.com"}},
		{"id": "b", "actor": map[string]any{"email": "bob@example.com"}},
	}, false)
	require.NoError(t, err)

	cols := []datagrid.Column{{ID: "actor", Accessor: datagrid.MustPath("actor.email")}}
	page, err := store.List(context.Background(), "auditlogs", datagrid.Query{
		ColumnFilters: datagrid.FilterState{{ColumnID: "actor", Value: "bob"}},
		Sorting:       datagrid.SortState{{ColumnID: "actor", Desc: true}},
	}, cols, Paths{"actor": "actor.email"})
	require.NoError(t, err)
	assert.Equal(t, []string{"b"}, ids(page.Rows))
}
