package datagrid

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
)

// ViewMode selects list or card layout.
type ViewMode int

const (
	ViewList ViewMode = iota
	ViewGrid
)

func (v ViewMode) String() string {
	if v == ViewGrid {
		return "grid"
	}
	return "list"
}

// ParseViewMode accepts "list" or "grid". An empty string means list.
func ParseViewMode(s string) (ViewMode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "list", "table":
		return ViewList, nil
	case "grid", "cards", "card":
		return ViewGrid, nil
	default:
		return ViewList, fmt.Errorf("invalid view mode %q, expected list or grid", s)
	}
}

var (
	// ErrNotEditing is returned by edit operations when quick edit is closed.
	ErrNotEditing = errors.New("quick edit is not open")
	// ErrNotDeleting is returned by ConfirmDelete when no delete is pending.
	ErrNotDeleting = errors.New("no delete pending")
	// ErrNoBulkDelete is returned when bulk delete was not configured.
	ErrNoBulkDelete = errors.New("bulk delete is not available")
)

// Table is the presentation engine for one list page. It holds no data of
// its own beyond what the caller hands it and never performs I/O. All methods
// must be called from a single goroutine.
type Table struct {
	base []Column
	cols []Column
	rows []Row

	actions    Actions
	bulkDelete func(context.Context, []Row) error

	globalFilter  *State[string]
	sorting       *State[SortState]
	columnFilters *State[FilterState]
	pagination    *State[Pagination]
	selection     *State[Selection]

	view   ViewMode
	modal  Modal
	drawer *FilterDrawer

	manual    Manual
	totalRows int
	pageCount int

	cardRenderer CardRenderer
	cardLayout   CardLayout
	basePath     string
	schema       Schema
	notifiers    []Notifier
	logger       *slog.Logger
	loading      bool

	revision uint64
}

// New builds a table over the caller's columns and rows. State ownership for
// each concern is resolved here, once.
func New(cols []Column, rows []Row, opts ...Option) *Table {
	cfg := &config{initialPageSize: DefaultPageSize}
	for _, opt := range opts {
		opt(cfg)
	}
	if cfg.logger == nil {
		cfg.logger = slog.New(slog.DiscardHandler)
	}
	if cfg.initialPageSize <= 0 {
		cfg.initialPageSize = DefaultPageSize
	}

	t := &Table{
		rows:         rows,
		actions:      cfg.actions,
		bulkDelete:   cfg.bulkDelete,
		view:         cfg.initialView,
		modal:        Closed{},
		manual:       cfg.manual,
		totalRows:    cfg.totalRows,
		pageCount:    cfg.pageCount,
		cardRenderer: cfg.cardRenderer,
		cardLayout:   cfg.cardLayout,
		basePath:     cfg.basePath,
		schema:       cfg.schema,
		notifiers:    cfg.notifiers,
		logger:       cfg.logger,
		loading:      cfg.loading,
	}

	t.globalFilter = resolveState(t.logger, "global_filter", cfg.globalFilter, "")
	t.sorting = resolveState(t.logger, "sorting", cfg.sorting, cfg.initialSorting)
	t.columnFilters = resolveState(t.logger, "column_filters", cfg.columnFilters, FilterState{})
	t.pagination = resolveState(t.logger, "pagination", cfg.pagination,
		Pagination{PageSize: cfg.initialPageSize})
	t.selection = resolveState(t.logger, "selection", cfg.selection, Selection{})
	t.drawer = newFilterDrawer(t.columnFilters, t.filtersChanged)

	t.base = make([]Column, 0, len(cols))
	for _, c := range cols {
		if !c.synthetic {
			t.base = append(t.base, c)
		}
	}
	augmented := AugmentColumns(t.base, t.actions)
	if cfg.selectable {
		sel := selectionColumn()
		sel.Cell = func(row Row, _ any) string {
			if row != nil && t.selection.Get().Has(row.RowID()) {
				return "[x]"
			}
			return "[ ]"
		}
		t.cols = append([]Column{sel}, augmented...)
	} else {
		t.cols = augmented
	}
	return t
}

// Columns returns every rendered column, synthetic ones included.
func (t *Table) Columns() []Column {
	return t.cols
}

// DataColumns returns the caller's columns.
func (t *Table) DataColumns() []Column {
	return t.base
}

// Actions returns the configured row callbacks.
func (t *Table) Actions() Actions {
	return t.actions
}

// Rows returns the rows as last supplied.
func (t *Table) Rows() []Row {
	return t.rows
}

// SetRows replaces the row set. The latest call always wins.
func (t *Table) SetRows(rows []Row) {
	t.rows = rows
}

// SetTotalRows records the server-side row count for manual pagination.
func (t *Table) SetTotalRows(n int) {
	t.totalRows = n
}

// SetPageCount records the server-side page count for manual pagination.
func (t *Table) SetPageCount(n int) {
	t.pageCount = n
}

// Manual reports which stages the caller performs.
func (t *Table) Manual() Manual {
	return t.manual
}

// Loading reports whether the loading overlay is shown.
func (t *Table) Loading() bool {
	return t.loading
}

// SetLoading toggles the loading overlay. Interaction stays enabled.
func (t *Table) SetLoading(loading bool) {
	t.loading = loading
}

// Revision increases whenever query state changes. Callers fetching remote
// pages compare it to discard superseded responses.
func (t *Table) Revision() uint64 {
	return t.revision
}

func (t *Table) bump() {
	t.revision++
}

// Query snapshots the current pipeline inputs.
func (t *Table) Query() Query {
	return Query{
		GlobalFilter:  t.globalFilter.Get(),
		ColumnFilters: t.columnFilters.Get(),
		Sorting:       t.sorting.Get(),
		Pagination:    t.pagination.Get(),
		Manual:        t.manual,
		TotalRows:     t.totalRows,
		PageCount:     t.pageCount,
	}
}

// Result runs the pipeline over the current rows.
func (t *Table) Result() Result {
	return Run(t.rows, t.cols, t.Query())
}

// Visible returns the rows of the current page.
func (t *Table) Visible() []Row {
	return t.Result().Rows
}

// PageCount returns the number of pages.
func (t *Table) PageCount() int {
	return t.Result().PageCount
}

// GlobalFilter returns the search text.
func (t *Table) GlobalFilter() string {
	return t.globalFilter.Get()
}

// SetGlobalFilter replaces the search text.
func (t *Table) SetGlobalFilter(q string) {
	if q == t.globalFilter.Get() {
		return
	}
	t.globalFilter.Set(q)
	t.filtersChanged()
}

// Sorting returns the sort state.
func (t *Table) Sorting() SortState {
	return t.sorting.Get()
}

// SetSorting replaces the sort state.
func (t *Table) SetSorting(s SortState) {
	t.sorting.Set(s.Clone())
	t.bump()
}

// ToggleSort advances a column's sort cycle. Unknown and unsortable columns
// are ignored.
func (t *Table) ToggleSort(columnID string) SortDirection {
	col, ok := findColumn(t.cols, columnID)
	if !ok || !col.Sortable() {
		return SortNone
	}
	next := t.sorting.Get().Cycle(columnID)
	t.sorting.Set(next)
	t.bump()
	return next.Direction(columnID)
}

// ColumnFilters returns the committed column filters.
func (t *Table) ColumnFilters() FilterState {
	return t.columnFilters.Get()
}

// SetColumnFilter commits one column filter directly, bypassing the drawer.
func (t *Table) SetColumnFilter(columnID, value string) {
	t.columnFilters.Set(t.columnFilters.Get().With(columnID, value))
	t.filtersChanged()
}

// Drawer returns the filter drawer.
func (t *Table) Drawer() *FilterDrawer {
	return t.drawer
}

// filtersChanged returns to the first page, since the old index may no longer
// exist.
func (t *Table) filtersChanged() {
	p := t.pagination.Get()
	if p.PageIndex != 0 {
		p.PageIndex = 0
		t.pagination.Set(p)
	}
	t.bump()
}

// Pagination returns the page index and size.
func (t *Table) Pagination() Pagination {
	return t.pagination.Get().normalized()
}

// SetPageIndex moves to a zero-based page. The index is stored as given.
func (t *Table) SetPageIndex(i int) {
	p := t.pagination.Get()
	p.PageIndex = i
	t.pagination.Set(p)
	t.bump()
}

// SetPageSize changes the page size. The page index is left alone even when
// it now points past the last page.
func (t *Table) SetPageSize(size int) {
	if size <= 0 {
		return
	}
	p := t.pagination.Get()
	p.PageSize = size
	t.pagination.Set(p)
	t.bump()
}

// CanPrev reports whether a previous page exists.
func (t *Table) CanPrev() bool {
	return t.Pagination().PageIndex > 0
}

// CanNext reports whether a later page exists.
func (t *Table) CanNext() bool {
	return t.Pagination().PageIndex < t.PageCount()-1
}

// NextPage advances one page when possible.
func (t *Table) NextPage() bool {
	if !t.CanNext() {
		return false
	}
	t.SetPageIndex(t.Pagination().PageIndex + 1)
	return true
}

// PrevPage goes back one page when possible.
func (t *Table) PrevPage() bool {
	if !t.CanPrev() {
		return false
	}
	t.SetPageIndex(t.Pagination().PageIndex - 1)
	return true
}

// FirstPage jumps to page one.
func (t *Table) FirstPage() {
	if t.Pagination().PageIndex != 0 {
		t.SetPageIndex(0)
	}
}

// LastPage jumps to the final page.
func (t *Table) LastPage() {
	last := t.PageCount() - 1
	if last < 0 {
		last = 0
	}
	if t.Pagination().PageIndex != last {
		t.SetPageIndex(last)
	}
}

// Selection returns the selected ids.
func (t *Table) Selection() Selection {
	return t.selection.Get()
}

// Selectable reports whether the checkbox column is shown.
func (t *Table) Selectable() bool {
	_, ok := findColumn(t.cols, SelectColumnID)
	return ok
}

// ToggleSelected flips one row's checkbox.
func (t *Table) ToggleSelected(row Row) {
	if row == nil {
		return
	}
	t.selection.Set(t.selection.Get().Toggle(row.RowID()))
}

// ToggleAllVisible selects every row on the page, or clears them when all
// are already selected.
func (t *Table) ToggleAllVisible() {
	t.selection.Set(t.selection.Get().WithAll(t.Visible()))
}

// ClearSelection deselects everything.
func (t *Table) ClearSelection() {
	t.selection.Set(Selection{})
}

// SelectedRows returns the selected rows among the current row set. With
// manual pagination, ids selected on other server pages are not included.
func (t *Table) SelectedRows() []Row {
	return SelectedRows(t.rows, t.selection.Get())
}

// CanBulkDelete reports whether bulk delete is configured.
func (t *Table) CanBulkDelete() bool {
	return t.bulkDelete != nil
}

// BulkDeleteFunc exposes the configured bulk delete so a caller can run it
// off the event loop and report back through CompleteBulkDelete.
func (t *Table) BulkDeleteFunc() func(context.Context, []Row) error {
	return t.bulkDelete
}

// BulkDelete deletes the selected rows and waits for the outcome.
func (t *Table) BulkDelete(ctx context.Context) error {
	if t.bulkDelete == nil {
		return ErrNoBulkDelete
	}
	rows := t.SelectedRows()
	if len(rows) == 0 {
		return nil
	}
	return t.CompleteBulkDelete(rows, t.bulkDelete(ctx, rows))
}

// CompleteBulkDelete reports the outcome of a bulk delete as one notice and
// deselects the deleted rows on success. It returns err unchanged.
func (t *Table) CompleteBulkDelete(rows []Row, err error) error {
	if err != nil {
		t.logger.Error("bulk delete failed", "rows", len(rows), "error", err)
		t.notify(newNotice(NoticeError, fmt.Sprintf("Failed to delete %s", plural(len(rows), "row")), err))
		return err
	}
	t.logger.Info("bulk delete succeeded", "rows", len(rows))
	t.selection.Set(t.selection.Get().Without(rows))
	t.notify(newNotice(NoticeSuccess, fmt.Sprintf("Deleted %s", plural(len(rows), "row")), nil))
	return nil
}

// Modal returns the dialog state.
func (t *Table) Modal() Modal {
	return t.modal
}

// Schema returns the fields the dialogs show.
func (t *Table) Schema() Schema {
	if len(t.schema) > 0 {
		return t.schema
	}
	return SchemaFromColumns(t.base)
}

// Click handles an action button. It opens the matching dialog, replacing
// any open one; the view callback runs immediately, edit and delete
// callbacks run on commit. Actions without a callback are ignored.
func (t *Table) Click(kind ActionKind, row Row) bool {
	if row == nil || !t.actions.Has(kind) {
		return false
	}
	t.logger.Debug("row action", "action", kind.String(), "id", row.RowID())
	switch kind {
	case ActionView:
		t.modal = Viewing{row: row}
		t.actions.View(row)
	case ActionEdit:
		t.modal = Editing{row: row, Form: NewStagedForm(row, t.Schema())}
	case ActionDelete:
		t.modal = Deleting{row: row}
	}
	return true
}

// StageField records quick-edit input for one field.
func (t *Table) StageField(key, raw string) error {
	m, ok := t.modal.(Editing)
	if !ok {
		return ErrNotEditing
	}
	return m.Form.Set(key, raw)
}

// CommitEdit closes quick edit and passes the whole staged object to the edit
// callback. Invalid numeric input keeps the dialog open.
func (t *Table) CommitEdit() error {
	m, ok := t.modal.(Editing)
	if !ok {
		return ErrNotEditing
	}
	if err := m.Form.Err(); err != nil {
		return err
	}
	values := m.Form.Values()
	t.modal = Closed{}
	t.actions.Edit(values)
	t.notify(newNotice(NoticeSuccess, "Saved "+DisplayID(values), nil))
	return nil
}

// ConfirmDelete closes the delete dialog and calls the delete callback once.
func (t *Table) ConfirmDelete() error {
	m, ok := t.modal.(Deleting)
	if !ok {
		return ErrNotDeleting
	}
	t.modal = Closed{}
	t.actions.Delete(m.row)
	t.notify(newNotice(NoticeSuccess, "Deleted "+DisplayID(m.row), nil))
	return nil
}

// CloseModal dismisses any dialog without calling a callback.
func (t *Table) CloseModal() {
	t.modal = Closed{}
}

// BasePath returns the detail link prefix.
func (t *Table) BasePath() string {
	return t.basePath
}

// DetailLink returns the row's deep link, or "" without a base path.
func (t *Table) DetailLink(row Row) string {
	return DetailLink(t.basePath, row)
}

// ViewMode returns the current layout.
func (t *Table) ViewMode() ViewMode {
	return t.view
}

// SetViewMode switches layout. Rows and page are unaffected.
func (t *Table) SetViewMode(v ViewMode) {
	t.view = v
}

// ToggleViewMode flips between list and grid.
func (t *Table) ToggleViewMode() ViewMode {
	if t.view == ViewGrid {
		t.view = ViewList
	} else {
		t.view = ViewGrid
	}
	return t.view
}

// Cards lays out the visible rows as grid cards.
func (t *Table) Cards() []Card {
	return BuildCards(t.Visible(), t.cols, t.cardLayout, t.cardRenderer, t.actions)
}

// ListState captures the shareable view state.
func (t *Table) ListState() ListState {
	p := t.Pagination()
	return ListState{
		Query:  t.GlobalFilter(),
		Sort:   t.Sorting().OrderBy(),
		Filter: t.ColumnFilters().Map(),
		Page:   p.PageIndex + 1,
		Size:   p.PageSize,
		View:   t.view.String(),
	}
}

// ApplyListState restores a captured state. Filters are applied before the
// page so the filter reset does not discard it.
func (t *Table) ApplyListState(s ListState) error {
	sorting, err := ParseOrderBy(s.Sort)
	if err != nil {
		return err
	}
	view, err := ParseViewMode(s.View)
	if err != nil {
		return err
	}
	order := make([]string, 0, len(t.base))
	for _, c := range t.base {
		order = append(order, c.ID)
	}
	t.globalFilter.Set(s.Query)
	t.columnFilters.Set(FilterStateFromMap(s.Filter, order))
	t.sorting.Set(sorting)
	p := t.pagination.Get()
	if s.Size > 0 {
		p.PageSize = s.Size
	}
	p.PageIndex = 0
	if s.Page > 1 {
		p.PageIndex = s.Page - 1
	}
	t.pagination.Set(p)
	t.view = view
	t.bump()
	return nil
}

// Logger returns the table's logger.
func (t *Table) Logger() *slog.Logger {
	return t.logger
}

// Subscribe adds a notice receiver.
func (t *Table) Subscribe(n Notifier) {
	if n != nil {
		t.notifiers = append(t.notifiers, n)
	}
}

func (t *Table) notify(n Notice) {
	for _, r := range t.notifiers {
		r.Notify(n)
	}
}

func plural(n int, noun string) string {
	if n == 1 {
		return fmt.Sprintf("1 %s", noun)
	}
	return fmt.Sprintf("%d %ss", n, noun)
}
