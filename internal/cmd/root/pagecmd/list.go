package pagecmd

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/segmentio/cli"
	"github.com/spf13/cobra"

	cmdpkg "github.com/kong/gridctl/internal/cmd"
	cmdcommon "github.com/kong/gridctl/internal/cmd/common"
	jqoutput "github.com/kong/gridctl/internal/cmd/output/jq"
	"github.com/kong/gridctl/internal/cmd/output/tableview"
	"github.com/kong/gridctl/internal/config"
	"github.com/kong/gridctl/internal/datagrid"
	"github.com/kong/gridctl/internal/meta"
	"github.com/kong/gridctl/internal/pages"
	"github.com/kong/gridctl/internal/source/file"
	"github.com/kong/gridctl/internal/source/sqlite"
	"github.com/kong/gridctl/internal/util/i18n"
	"github.com/kong/gridctl/internal/util/normalizers"
)

// NewListPageCmd returns the list command of one page.
func NewListPageCmd(page pages.Page) *cobra.Command {
	c := &cobra.Command{
		Use:     page.Name,
		Aliases: page.Aliases,
		Short: i18n.T("root.verbs.list."+page.Name+"Short",
			fmt.Sprintf("List %s", strings.ToLower(page.Title))),
		Long: normalizers.LongDesc(i18n.T("root.verbs.list."+page.Name+"Long",
			fmt.Sprintf(`List %[1]s as a paginated table.

Rows come from a JSON or YAML file, the configured data directory or the
bundled sample. With --remote the rows are served from the SQLite store,
which is seeded from the same source when it holds no %[1]s yet.`, strings.ToLower(page.Title)))),
		Example: normalizers.Examples(i18n.T("root.verbs.list."+page.Name+"Examples",
			fmt.Sprintf(`
			# Browse %[2]s interactively
			%[1]s list %[2]s -i
			# Print the second page of 20 rows as JSON
			%[1]s list %[2]s --state 'page=2&size=20' -o json
			# Serve %[2]s from the SQLite store
			%[1]s list %[2]s --remote -i
			# Follow a data file while editing it
			%[1]s list %[2]s -f ./%[2]s.yaml --watch -i
			`, meta.CLIName, page.Name))),
		Args: cobra.NoArgs,
		PreRunE: func(c *cobra.Command, args []string) error {
			if err := bindFlags(c, args); err != nil {
				return err
			}
			cfg, err := cmdpkg.BuildHelper(c, args).GetConfig()
			if err != nil {
				return err
			}
			return jqoutput.BindFlags(cfg, c.Flags())
		},
		RunE: func(c *cobra.Command, args []string) error {
			return runList(cmdpkg.BuildHelper(c, args), page)
		},
	}

	addListFlags(c.Flags())
	jqoutput.AddFlags(c.Flags())
	return c
}

// tableSettings is the resolved table configuration of one list run.
type tableSettings struct {
	pageSize int
	view     datagrid.ViewMode
	remote   bool
	debounce time.Duration
	watch    bool
	state    string
	basePath string
	card     string
}

func resolveTableSettings(c *cobra.Command, cfg config.Hook, page pages.Page) (tableSettings, error) {
	s := tableSettings{
		pageSize: cfg.GetIntOrElse(cmdcommon.TablePageSizeConfigPath, datagrid.DefaultPageSize),
		remote:   cfg.GetBool(cmdcommon.TableRemoteConfigPath),
		debounce: cfg.GetDuration(cmdcommon.TableDebounceConfigPath),
		basePath: page.BasePath,
		card:     page.CardTemplate,
	}
	if s.pageSize < 1 {
		return s, &cmdpkg.ConfigurationError{
			Err: fmt.Errorf("%s must be greater than 0", cmdcommon.PageSizeFlagName),
		}
	}
	if s.debounce < 0 {
		return s, &cmdpkg.ConfigurationError{
			Err: fmt.Errorf("%s must not be negative", cmdcommon.DebounceFlagName),
		}
	}

	view, err := datagrid.ParseViewMode(cfg.GetString(cmdcommon.TableViewConfigPath))
	if err != nil {
		return s, &cmdpkg.ConfigurationError{Err: err}
	}
	s.view = view

	if v := strings.TrimSpace(cfg.GetString(cmdcommon.PageConfigPath(page.Name, "base-path"))); v != "" {
		s.basePath = v
	}
	if v := cfg.GetString(cmdcommon.PageConfigPath(page.Name, "card-template")); strings.TrimSpace(v) != "" {
		s.card = v
	}

	flags := c.Flags()
	if s.watch, err = flags.GetBool(WatchFlagName); err != nil {
		return s, err
	}
	if s.state, err = flags.GetString(StateFlagName); err != nil {
		return s, err
	}
	if s.watch && s.remote {
		return s, &cmdpkg.ConfigurationError{
			Err: fmt.Errorf("--%s cannot be combined with --%s", WatchFlagName, cmdcommon.RemoteFlagName),
		}
	}
	return s, nil
}

func runList(helper cmdpkg.Helper, page pages.Page) error {
	cfg, err := helper.GetConfig()
	if err != nil {
		return err
	}
	logger, err := helper.GetLogger()
	if err != nil {
		return err
	}
	outType, err := helper.GetOutputFormat()
	if err != nil {
		return err
	}
	interactive, err := helper.IsInteractive()
	if err != nil {
		return err
	}
	settings, err := resolveTableSettings(helper.GetCmd(), cfg, page)
	if err != nil {
		return err
	}
	src, err := resolveSource(helper.GetCmd(), cfg, page)
	if err != nil {
		return cmdpkg.PrepareExecutionErrorWithHelper(helper, "unable to locate page data", err)
	}

	ctx, cancel := context.WithCancel(helper.GetContext())
	defer cancel()

	logger = logger.With("page", page.Name)
	logger.Debug("listing page", "source", src.String(), "remote", settings.remote,
		"interactive", interactive, "output", outType.String())

	var lp *listPage
	if settings.remote {
		store, err := openStore(cfg, logger)
		if err != nil {
			return cmdpkg.PrepareExecutionErrorWithHelper(helper, "unable to open store", err)
		}
		defer store.Close()
		lp, err = newRemoteListPage(ctx, page, settings, src, store, logger)
		if err != nil {
			return cmdpkg.PrepareExecutionErrorWithHelper(helper, "unable to load "+page.Name, err)
		}
	} else {
		lp, err = newLocalListPage(ctx, page, settings, src, logger, interactive)
		if err != nil {
			return cmdpkg.PrepareExecutionErrorWithHelper(helper, "unable to load "+page.Name, err)
		}
	}

	if strings.TrimSpace(settings.state) != "" {
		state, err := datagrid.DecodeListState(settings.state)
		if err != nil {
			return &cmdpkg.ConfigurationError{Err: err}
		}
		if err := lp.tbl.ApplyListState(state); err != nil {
			return &cmdpkg.ConfigurationError{Err: err}
		}
	}
	if err := lp.prefetch(ctx); err != nil {
		return cmdpkg.PrepareExecutionErrorWithHelper(helper, "unable to load "+page.Name, err)
	}

	var printer cli.PrintFlusher
	if !interactive && outType != cmdcommon.TEXT {
		printer, err = cli.Format(outType.String(), helper.GetStreams().Out)
		if err != nil {
			return err
		}
		defer printer.Flush()
	}

	opts := append([]tableview.Option{
		tableview.WithTitle(page.Title),
		tableview.WithPageName(page.Name),
		tableview.WithProfileName(cfg.GetProfile()),
		tableview.WithContext(ctx),
	}, lp.viewOpts...)
	return tableview.RenderForFormat(helper, interactive, outType, printer, lp.tbl, opts...)
}

// listPage is a table wired to its data source.
type listPage struct {
	tbl      *datagrid.Table
	viewOpts []tableview.Option
	// fetch loads the current page in remote mode.
	fetch tableview.Fetcher
}

// prefetch loads the first page of a remote table so static output and the
// first interactive frame both have rows.
func (lp *listPage) prefetch(ctx context.Context) error {
	if lp.fetch == nil {
		return nil
	}
	res, err := lp.fetch(ctx, lp.tbl.Query())
	if err != nil {
		return err
	}
	lp.tbl.SetRows(res.Rows)
	lp.tbl.SetTotalRows(res.Total)
	return nil
}

func baseOptions(page pages.Page, settings tableSettings, logger *slog.Logger) ([]datagrid.Option, error) {
	opts := []datagrid.Option{
		datagrid.WithSchema(page.FieldSchema()),
		datagrid.WithBasePath(settings.basePath),
		datagrid.WithInitialPageSize(settings.pageSize),
		datagrid.WithInitialView(settings.view),
		datagrid.WithLogger(logger),
	}
	if len(page.Sorting) > 0 {
		opts = append(opts, datagrid.WithInitialSorting(page.Sorting))
	}
	if strings.TrimSpace(settings.card) != "" {
		render, err := pages.TemplateCard(page.Name, settings.card)
		if err != nil {
			return nil, &cmdpkg.ConfigurationError{Err: err}
		}
		opts = append(opts, datagrid.WithCardRenderer(render))
	}
	if page.Selectable {
		opts = append(opts, datagrid.WithSelectionColumn())
	}
	return opts, nil
}

func newLocalListPage(
	ctx context.Context,
	page pages.Page,
	settings tableSettings,
	src dataSource,
	logger *slog.Logger,
	interactive bool,
) (*listPage, error) {
	mem, err := newMemorySource(src.load)
	if err != nil {
		return nil, err
	}

	opts, err := baseOptions(page, settings, logger)
	if err != nil {
		return nil, err
	}

	lp := &listPage{}
	actions := datagrid.Actions{
		View: func(row datagrid.Row) {
			logger.Debug("viewing record", "id", row.RowID())
		},
		Edit: func(row datagrid.Row) {
			rec, ok := row.(datagrid.Record)
			if !ok || !mem.Update(rec) {
				logger.Warn("edited record is no longer listed", "id", row.RowID())
				return
			}
			lp.tbl.SetRows(mem.Rows())
		},
		Delete: func(row datagrid.Row) {
			mem.Delete(row.RowID())
			lp.tbl.SetRows(mem.Rows())
		},
	}
	opts = append(opts,
		datagrid.WithActions(actions),
		datagrid.WithBulkDelete(func(_ context.Context, rows []datagrid.Row) error {
			if n := mem.Delete(rowIDs(rows)...); n != len(rows) {
				return fmt.Errorf("deleted %d of %d rows", n, len(rows))
			}
			return nil
		}),
	)
	lp.tbl = datagrid.New(page.Columns(), mem.Rows(), opts...)
	lp.viewOpts = append(lp.viewOpts, tableview.WithReloader(func(context.Context) ([]datagrid.Row, error) {
		return mem.Rows(), nil
	}))

	if settings.watch {
		if src.path == "" {
			return nil, &cmdpkg.ConfigurationError{
				Err: fmt.Errorf("--%s needs a data file; pass --%s", WatchFlagName, FileFlagName),
			}
		}
		if !interactive {
			logger.Debug("ignoring --watch for static output")
			return lp, nil
		}
		changes, err := file.Watch(ctx, src.path, file.DefaultSettle, logger)
		if err != nil {
			return nil, err
		}
		lp.viewOpts = append(lp.viewOpts, tableview.WithRefresh(reloadOnChange(changes, mem, logger)))
	}
	return lp, nil
}

// reloadOnChange re-reads the session source for every file change and
// forwards a refresh signal once the new rows are in place.
func reloadOnChange(changes <-chan struct{}, mem *memorySource, logger *slog.Logger) <-chan struct{} {
	refresh := make(chan struct{}, 1)
	go func() {
		defer close(refresh)
		for range changes {
			if err := mem.Reload(); err != nil {
				logger.Error("reload failed", "error", err)
				continue
			}
			select {
			case refresh <- struct{}{}:
			default:
			}
		}
	}()
	return refresh
}

func newRemoteListPage(
	ctx context.Context,
	page pages.Page,
	settings tableSettings,
	src dataSource,
	store *sqlite.Store,
	logger *slog.Logger,
) (*listPage, error) {
	if err := ensureSeeded(ctx, store, src, logger); err != nil {
		return nil, err
	}

	opts, err := baseOptions(page, settings, logger)
	if err != nil {
		return nil, err
	}

	cols := page.Columns()
	paths := sqlite.Paths(page.Paths)
	lp := &listPage{}
	lp.fetch = func(ctx context.Context, q datagrid.Query) (tableview.Page, error) {
		res, err := store.List(ctx, page.Name, q, cols, paths)
		if err != nil {
			return tableview.Page{}, err
		}
		return tableview.Page{Rows: res.Rows, Total: res.Total}, nil
	}

	actions := datagrid.Actions{
		View: func(row datagrid.Row) {
			logger.Debug("viewing record", "id", row.RowID())
		},
		Edit: func(row datagrid.Row) {
			rec, ok := row.(datagrid.Record)
			if !ok {
				return
			}
			if err := store.Update(ctx, page.Name, rec); err != nil {
				logger.Error("update failed", "id", rec.RowID(), "error", err)
				return
			}
			lp.tbl.SetRows(replaceRow(lp.tbl.Rows(), rec))
		},
		Delete: func(row datagrid.Row) {
			if err := store.Delete(ctx, page.Name, row.RowID()); err != nil {
				logger.Error("delete failed", "id", row.RowID(), "error", err)
				return
			}
			lp.tbl.SetRows(removeRow(lp.tbl.Rows(), row.RowID()))
			lp.tbl.SetTotalRows(max(0, lp.tbl.Query().TotalRows-1))
		},
	}
	opts = append(opts,
		datagrid.WithActions(actions),
		datagrid.WithBulkDelete(func(ctx context.Context, rows []datagrid.Row) error {
			return store.DeleteMany(ctx, page.Name, rowIDs(rows))
		}),
		datagrid.WithManual(datagrid.Manual{Filtering: true, Sorting: true, Pagination: true}),
	)
	lp.tbl = datagrid.New(cols, nil, opts...)
	lp.viewOpts = append(lp.viewOpts, tableview.WithFetcher(lp.fetch, settings.debounce))
	return lp, nil
}

func replaceRow(rows []datagrid.Row, rec datagrid.Record) []datagrid.Row {
	out := make([]datagrid.Row, len(rows))
	for i, r := range rows {
		if r.RowID() == rec.RowID() {
			out[i] = rec
			continue
		}
		out[i] = r
	}
	return out
}

func removeRow(rows []datagrid.Row, id string) []datagrid.Row {
	out := make([]datagrid.Row, 0, len(rows))
	for _, r := range rows {
		if r.RowID() != id {
			out = append(out, r)
		}
	}
	return out
}
