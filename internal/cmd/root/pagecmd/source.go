package pagecmd

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/spf13/cobra"

	cmdcommon "github.com/kong/gridctl/internal/cmd/common"
	"github.com/kong/gridctl/internal/config"
	"github.com/kong/gridctl/internal/datagrid"
	"github.com/kong/gridctl/internal/pages"
	"github.com/kong/gridctl/internal/source/file"
	"github.com/kong/gridctl/internal/source/sqlite"
	"github.com/kong/gridctl/internal/util"
)

var dataFileExtensions = []string{".yaml", ".yml", ".json"}

// dataSource says where a page's records are read from. An empty path means
// the bundled sample.
type dataSource struct {
	page     pages.Page
	path     string
	selector string
}

func (d dataSource) load() ([]datagrid.Record, error) {
	if d.path == "" {
		return d.page.SampleRecords()
	}
	return file.Load(d.path, file.Options{Select: d.selector})
}

func (d dataSource) String() string {
	if d.path == "" {
		return "bundled sample"
	}
	return d.path
}

// resolveSource picks the data file: --file first, then the data directory,
// then the bundled sample.
func resolveSource(c *cobra.Command, cfg config.Hook, page pages.Page) (dataSource, error) {
	src := dataSource{page: page}
	if f := c.Flags().Lookup(SelectFlagName); f != nil {
		src.selector = strings.TrimSpace(f.Value.String())
	}

	if f := c.Flags().Lookup(FileFlagName); f != nil && strings.TrimSpace(f.Value.String()) != "" {
		src.path = util.ExpandPath(strings.TrimSpace(f.Value.String()))
		return src, nil
	}

	dir := strings.TrimSpace(cfg.GetString(cmdcommon.DataDirConfigPath))
	if dir == "" {
		return src, nil
	}
	dir = util.ExpandPath(dir)
	for _, ext := range dataFileExtensions {
		candidate := filepath.Join(dir, page.Name+ext)
		info, err := os.Stat(candidate)
		if err == nil && !info.IsDir() {
			src.path = candidate
			return src, nil
		}
		if err != nil && !errors.Is(err, os.ErrNotExist) {
			return src, fmt.Errorf("inspect %s: %w", candidate, err)
		}
	}
	return src, nil
}

// openStore opens the SQLite store configured for the profile.
func openStore(cfg config.Hook, logger *slog.Logger) (*sqlite.Store, error) {
	path := util.ExpandPath(strings.TrimSpace(cfg.GetString(cmdcommon.StorePathConfigPath)))
	if path == "" {
		return nil, fmt.Errorf("%s is not configured", cmdcommon.StorePathConfigPath)
	}
	if err := util.InitDir(path, 0o755); err != nil {
		return nil, fmt.Errorf("create store directory: %w", err)
	}
	return sqlite.Open(path, logger)
}

// ensureSeeded copies the source records into the store when it holds none
// of the page yet.
func ensureSeeded(ctx context.Context, store *sqlite.Store, src dataSource, logger *slog.Logger) error {
	n, err := store.Count(ctx, src.page.Name)
	if err != nil || n > 0 {
		return err
	}
	records, err := src.load()
	if err != nil {
		return err
	}
	if _, err := store.Seed(ctx, src.page.Name, records, false); err != nil {
		return err
	}
	logger.Info("seeded empty store", "source", src.String(), "records", len(records))
	return nil
}

// memorySource holds the rows of a file-backed page for one session. Edits
// and deletes change the session only; the data file is never written.
type memorySource struct {
	mu   sync.Mutex
	load func() ([]datagrid.Record, error)
	rows []datagrid.Row
}

func newMemorySource(load func() ([]datagrid.Record, error)) (*memorySource, error) {
	s := &memorySource{load: load}
	if err := s.Reload(); err != nil {
		return nil, err
	}
	return s, nil
}

// Reload replaces the session rows with a fresh read of the source.
func (s *memorySource) Reload() error {
	records, err := s.load()
	if err != nil {
		return err
	}
	s.mu.Lock()
	s.rows = file.Rows(records)
	s.mu.Unlock()
	return nil
}

// Rows returns a snapshot of the session rows.
func (s *memorySource) Rows() []datagrid.Row {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]datagrid.Row, len(s.rows))
	copy(out, s.rows)
	return out
}

// Update replaces the row with rec's id. It reports whether one was found.
func (s *memorySource) Update(rec datagrid.Record) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	id := rec.RowID()
	for i, r := range s.rows {
		if r.RowID() == id {
			s.rows[i] = rec
			return true
		}
	}
	return false
}

// Delete removes the rows with the given ids and returns how many were
// removed.
func (s *memorySource) Delete(ids ...string) int {
	drop := make(map[string]struct{}, len(ids))
	for _, id := range ids {
		drop[id] = struct{}{}
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	kept := s.rows[:0:0]
	for _, r := range s.rows {
		if _, ok := drop[r.RowID()]; ok {
			continue
		}
		kept = append(kept, r)
	}
	removed := len(s.rows) - len(kept)
	s.rows = kept
	return removed
}

func rowIDs(rows []datagrid.Row) []string {
	out := make([]string, 0, len(rows))
	for _, r := range rows {
		out = append(out, r.RowID())
	}
	return out
}
