package datagrid

import (
	"context"
	"log/slog"
)

// Option configures a Table.
type Option func(*config)

type config struct {
	actions    Actions
	bulkDelete func(context.Context, []Row) error

	globalFilter  *Controlled[string]
	sorting       *Controlled[SortState]
	columnFilters *Controlled[FilterState]
	pagination    *Controlled[Pagination]
	selection     *Controlled[Selection]

	initialPageSize int
	initialSorting  SortState
	initialView     ViewMode

	manual    Manual
	totalRows int
	pageCount int

	cardRenderer CardRenderer
	cardLayout   CardLayout
	basePath     string
	schema       Schema
	selectable   bool
	notifiers    []Notifier
	logger       *slog.Logger
	loading      bool
}

// WithActions sets the per-row callbacks. Any non-nil callback adds the
// actions column.
func WithActions(a Actions) Option {
	return func(c *config) {
		c.actions = a
	}
}

// WithBulkDelete enables deleting the selected rows in one awaited call.
func WithBulkDelete(fn func(ctx context.Context, rows []Row) error) Option {
	return func(c *config) {
		c.bulkDelete = fn
	}
}

// WithGlobalFilterState hands the search text to the caller.
func WithGlobalFilterState(get func() string, set func(string)) Option {
	return func(c *config) {
		c.globalFilter = &Controlled[string]{Get: get, Set: set}
	}
}

// WithSortingState hands the sort state to the caller.
func WithSortingState(get func() SortState, set func(SortState)) Option {
	return func(c *config) {
		c.sorting = &Controlled[SortState]{Get: get, Set: set}
	}
}

// WithColumnFiltersState hands the committed column filters to the caller.
func WithColumnFiltersState(get func() FilterState, set func(FilterState)) Option {
	return func(c *config) {
		c.columnFilters = &Controlled[FilterState]{Get: get, Set: set}
	}
}

// WithPaginationState hands the page index and size to the caller.
func WithPaginationState(get func() Pagination, set func(Pagination)) Option {
	return func(c *config) {
		c.pagination = &Controlled[Pagination]{Get: get, Set: set}
	}
}

// WithSelectionState hands the selected ids to the caller.
func WithSelectionState(get func() Selection, set func(Selection)) Option {
	return func(c *config) {
		c.selection = &Controlled[Selection]{Get: get, Set: set}
	}
}

// WithInitialPageSize seeds table-owned pagination.
func WithInitialPageSize(size int) Option {
	return func(c *config) {
		c.initialPageSize = size
	}
}

// WithInitialSorting seeds table-owned sorting.
func WithInitialSorting(s SortState) Option {
	return func(c *config) {
		c.initialSorting = s.Clone()
	}
}

// WithInitialView picks list or grid mode.
func WithInitialView(v ViewMode) Option {
	return func(c *config) {
		c.initialView = v
	}
}

// WithManual marks the stages the caller performs itself.
func WithManual(m Manual) Option {
	return func(c *config) {
		c.manual = m
	}
}

// WithTotalRows sets the server-side row count for manual pagination.
func WithTotalRows(n int) Option {
	return func(c *config) {
		c.totalRows = n
	}
}

// WithPageCount sets the server-side page count for manual pagination.
func WithPageCount(n int) Option {
	return func(c *config) {
		c.pageCount = n
	}
}

// WithCardRenderer replaces the default grid card.
func WithCardRenderer(fn CardRenderer) Option {
	return func(c *config) {
		c.cardRenderer = fn
	}
}

// WithCardLayout overrides how columns map onto card slots.
func WithCardLayout(fn CardLayout) Option {
	return func(c *config) {
		c.cardLayout = fn
	}
}

// WithBasePath enables detail deep links under basePath.
func WithBasePath(basePath string) Option {
	return func(c *config) {
		c.basePath = basePath
	}
}

// WithSchema declares the fields the view and edit dialogs show.
func WithSchema(s Schema) Option {
	return func(c *config) {
		c.schema = s
	}
}

// WithSelectionColumn adds the leading checkbox column.
func WithSelectionColumn() Option {
	return func(c *config) {
		c.selectable = true
	}
}

// WithNotifier receives success and failure notices. It may be given more
// than once.
func WithNotifier(n Notifier) Option {
	return func(c *config) {
		if n != nil {
			c.notifiers = append(c.notifiers, n)
		}
	}
}

// WithLogger sets the table's logger.
func WithLogger(l *slog.Logger) Option {
	return func(c *config) {
		c.logger = l
	}
}

// WithLoading starts the table with the loading overlay shown.
func WithLoading(loading bool) Option {
	return func(c *config) {
		c.loading = loading
	}
}
