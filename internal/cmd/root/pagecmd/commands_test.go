package pagecmd

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"path/filepath"
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	cmdpkg "github.com/kong/gridctl/internal/cmd"
	cmdcommon "github.com/kong/gridctl/internal/cmd/common"
	"github.com/kong/gridctl/internal/config"
	"github.com/kong/gridctl/internal/datagrid"
	"github.com/kong/gridctl/internal/iostreams"
	"github.com/kong/gridctl/internal/pages"
	"github.com/kong/gridctl/internal/source/sqlite"
	testCmd "github.com/kong/gridctl/test/cmd"
	testConfig "github.com/kong/gridctl/test/config"
)

type harness struct {
	streams iostreams.IOStreams
	in      *bytes.Buffer
	out     *bytes.Buffer
	cfg     *testConfig.MockConfigHook
	values  map[string]string
	remote  bool
	format  cmdcommon.OutputFormat
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	streams, in, out, _ := iostreams.NewTestIOStreams()
	h := &harness{
		streams: streams,
		in:      in,
		out:     out,
		values: map[string]string{
			cmdcommon.StorePathConfigPath: filepath.Join(t.TempDir(), "grid.db"),
		},
		format: cmdcommon.TEXT,
	}
	h.cfg = &testConfig.MockConfigHook{
		GetStringMock: func(key string) string { return h.values[key] },
		GetBoolMock:   func(key string) bool { return key == cmdcommon.TableRemoteConfigPath && h.remote },
	}
	return h
}

func (h *harness) helper(c *cobra.Command, args ...string) cmdpkg.Helper {
	if c.Context() == nil {
		c.SetContext(context.Background())
	}
	return &testCmd.MockHelper{
		GetCmdMock:          func() *cobra.Command { return c },
		GetArgsMock:         func() []string { return args },
		GetStreamsMock:      func() *iostreams.IOStreams { return &h.streams },
		GetConfigMock:       func() (config.Hook, error) { return h.cfg, nil },
		GetOutputFormatMock: func() (cmdcommon.OutputFormat, error) { return h.format, nil },
		GetLoggerMock:       func() (*slog.Logger, error) { return slog.New(slog.DiscardHandler), nil },
	}
}

func (h *harness) storeCount(t *testing.T, page string) int {
	t.Helper()
	store, err := sqlite.Open(h.values[cmdcommon.StorePathConfigPath], slog.New(slog.DiscardHandler))
	require.NoError(t, err)
	defer store.Close()
	n, err := store.Count(context.Background(), page)
	require.NoError(t, err)
	return n
}

func TestUniqueIDs(t *testing.T) {
	assert.Equal(t, []string{"1", "2", "3"}, uniqueIDs([]string{"1,2", "2", " 3 ", ",,"}))
	assert.Empty(t, uniqueIDs([]string{" ", ","}))
}

func TestFieldRecords(t *testing.T) {
	schema := datagrid.Schema{
		{Key: "id", Label: "ID"},
		{Key: "name"},
		{Key: "bio"},
	}
	rec := datagrid.Record{
		"id":        "1",
		"name":      "Ann",
		"bio":       "line one\n  line two",
		"last_seen": nil,
	}

	assert.Equal(t, []fieldRecord{
		{Field: "ID", Value: "1"},
		{Field: "Name", Value: "Ann"},
		{Field: "Bio", Value: "line one line two"},
		{Field: "Last Seen", Value: datagrid.Placeholder},
	}, fieldRecords(schema, rec))
}

func TestResolveTableSettings(t *testing.T) {
	page := pages.Page{Name: "users", BasePath: "/users"}

	t.Run("defaults", func(t *testing.T) {
		c := NewListPageCmd(page)
		s, err := resolveTableSettings(c, &testConfig.MockConfigHook{}, page)
		require.NoError(t, err)
		assert.Equal(t, datagrid.DefaultPageSize, s.pageSize)
		assert.Equal(t, datagrid.ViewList, s.view)
		assert.Equal(t, "/users", s.basePath)
		assert.False(t, s.remote)
	})

	t.Run("page overrides", func(t *testing.T) {
		cfg := configWith(map[string]string{
			cmdcommon.TableViewConfigPath:                      "grid",
			cmdcommon.PageConfigPath("users", "base-path"):     "/people",
			cmdcommon.PageConfigPath("users", "card-template"): "{{ .name }}",
		})
		s, err := resolveTableSettings(NewListPageCmd(page), cfg, page)
		require.NoError(t, err)
		assert.Equal(t, datagrid.ViewGrid, s.view)
		assert.Equal(t, "/people", s.basePath)
		assert.Equal(t, "{{ .name }}", s.card)
	})

	t.Run("invalid page size", func(t *testing.T) {
		cfg := &testConfig.MockConfigHook{
			GetIntOrElseMock: func(string, int) int { return 0 },
		}
		_, err := resolveTableSettings(NewListPageCmd(page), cfg, page)
		var cfgErr *cmdpkg.ConfigurationError
		require.ErrorAs(t, err, &cfgErr)
	})

	t.Run("invalid view", func(t *testing.T) {
		cfg := configWith(map[string]string{cmdcommon.TableViewConfigPath: "table"})
		_, err := resolveTableSettings(NewListPageCmd(page), cfg, page)
		require.Error(t, err)
	})

	t.Run("watch with remote", func(t *testing.T) {
		c := NewListPageCmd(page)
		require.NoError(t, c.Flags().Set(WatchFlagName, "true"))
		cfg := &testConfig.MockConfigHook{
			GetBoolMock: func(key string) bool { return key == cmdcommon.TableRemoteConfigPath },
		}
		_, err := resolveTableSettings(c, cfg, page)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "--watch cannot be combined with --remote")
	})
}

func TestRunListJSON(t *testing.T) {
	page := usersPage(t)
	h := newHarness(t)
	h.format = cmdcommon.JSON

	c := NewListPageCmd(page)
	require.NoError(t, runList(h.helper(c), page))

	var records []map[string]any
	require.NoError(t, json.Unmarshal([]byte(h.out.String()), &records))
	require.Len(t, records, datagrid.DefaultPageSize)
	assert.Equal(t, "Ann", records[0]["name"])
	assert.NotContains(t, records[0], datagrid.ActionsColumnID)
}

func TestRunListRestoresState(t *testing.T) {
	page := usersPage(t)
	for _, remote := range []bool{false, true} {
		h := newHarness(t)
		h.format = cmdcommon.JSON
		h.remote = remote

		c := NewListPageCmd(page)
		require.NoError(t, c.Flags().Set(StateFlagName, "q=bob"))
		require.NoError(t, runList(h.helper(c), page))

		var records []map[string]any
		require.NoError(t, json.Unmarshal([]byte(h.out.String()), &records))
		require.Len(t, records, 1, "remote=%v", remote)
		assert.Equal(t, "Bob", records[0]["name"])
	}
}

func TestRunListRemoteSeedsStore(t *testing.T) {
	page := usersPage(t)
	h := newHarness(t)
	h.format = cmdcommon.JSON
	h.remote = true

	require.NoError(t, runList(h.helper(NewListPageCmd(page)), page))

	var records []map[string]any
	require.NoError(t, json.Unmarshal([]byte(h.out.String()), &records))
	assert.Len(t, records, datagrid.DefaultPageSize)
	assert.Equal(t, 25, h.storeCount(t, page.Name))
}

func TestRunListText(t *testing.T) {
	page := usersPage(t)
	h := newHarness(t)

	require.NoError(t, runList(h.helper(NewListPageCmd(page)), page))

	assert.Contains(t, h.out.String(), "Users")
	assert.Contains(t, h.out.String(), "Ann")
	assert.Contains(t, h.out.String(), "Page 1 of 3 (25 rows)")
}

func TestRunGet(t *testing.T) {
	page := usersPage(t)
	h := newHarness(t)
	h.format = cmdcommon.JSON

	require.NoError(t, runGet(h.helper(NewGetPageCmd(page)), page, "2"))

	var rec map[string]any
	require.NoError(t, json.Unmarshal([]byte(h.out.String()), &rec))
	assert.Equal(t, "Bob", rec["name"])
	assert.Equal(t, "bob@example.com", rec["email"])
}

func TestRunGetNotFound(t *testing.T) {
	page := usersPage(t)
	for _, remote := range []bool{false, true} {
		h := newHarness(t)
		h.remote = remote

		err := runGet(h.helper(NewGetPageCmd(page)), page, "999")
		require.ErrorIs(t, err, ErrRecordNotFound, "remote=%v", remote)
	}
}

func TestRunSeedAndDelete(t *testing.T) {
	page := usersPage(t)
	h := newHarness(t)

	require.NoError(t, runSeed(h.helper(NewSeedPageCmd(page)), page, nil))
	assert.Equal(t, "Seeded 25 users from bundled sample (25 stored)\n", h.out.String())

	del := NewDeletePageCmd(page)
	del.SetContext(context.Background())
	cmdpkg.SetDeleteAutoApprove(del, true)

	h.out.Reset()
	require.NoError(t, runDelete(h.helper(del, "1", "2,1"), page, []string{"1", "2,1"}))
	assert.Equal(t, "Deleted users: 1, 2\n", h.out.String())
	assert.Equal(t, 23, h.storeCount(t, page.Name))
}

func TestRunDeleteReportsMissing(t *testing.T) {
	page := usersPage(t)
	h := newHarness(t)
	h.format = cmdcommon.JSON

	del := NewDeletePageCmd(page)
	del.SetContext(context.Background())
	cmdpkg.SetDeleteAutoApprove(del, true)

	err := runDelete(h.helper(del), page, []string{"3", "404"})
	require.Error(t, err)
	assert.ErrorIs(t, err, sqlite.ErrNotFound)

	var res deleteResult
	require.NoError(t, json.Unmarshal([]byte(h.out.String()), &res))
	assert.Equal(t, deleteResult{Page: "users", Deleted: []string{"3"}}, res)
	assert.Equal(t, 24, h.storeCount(t, page.Name))
}

func TestRunDeleteCancelled(t *testing.T) {
	page := usersPage(t)
	h := newHarness(t)
	_, err := h.in.WriteString("no\n")
	require.NoError(t, err)

	del := NewDeletePageCmd(page)
	del.SetContext(context.Background())

	err = runDelete(h.helper(del), page, []string{"1"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "delete cancelled")
	assert.Contains(t, h.out.String(), "You are about to delete user 1")
}
