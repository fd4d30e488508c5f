package tableview

import (
	"context"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/kong/gridctl/internal/datagrid"
)

const defaultDebounce = 500 * time.Millisecond

// Page is one server response: the rows of the requested page and the total
// number of matching rows.
type Page struct {
	Rows  []datagrid.Row
	Total int
}

// Fetcher loads the page described by q. It runs off the event loop.
type Fetcher func(ctx context.Context, q datagrid.Query) (Page, error)

// fetchMsg fires when a debounce window closes.
type fetchMsg struct {
	revision uint64
}

type fetchedMsg struct {
	revision uint64
	page     Page
	err      error
	elapsed  time.Duration
}

type reloadedMsg struct {
	rows    []datagrid.Row
	err     error
	elapsed time.Duration
}

type refreshMsg struct{}

type bulkDeletedMsg struct {
	rows []datagrid.Row
	err  error
}

func (m *bubbleModel) remote() bool {
	return m.cfg.fetcher != nil
}

// queryChanged schedules a fetch when the table's query moved past the last
// requested revision. Search typing is debounced; everything else fetches now.
func (m *bubbleModel) queryChanged(debounce bool) tea.Cmd {
	if !m.remote() {
		return nil
	}
	rev := m.tbl.Revision()
	if rev == m.requested {
		return nil
	}
	m.requested = rev
	m.tbl.SetLoading(true)
	if debounce && m.cfg.debounce > 0 {
		return tea.Batch(m.spinner.Tick, tea.Tick(m.cfg.debounce, func(time.Time) tea.Msg {
			return fetchMsg{revision: rev}
		}))
	}
	return tea.Batch(m.spinner.Tick, m.fetch(rev))
}

func (m *bubbleModel) fetch(rev uint64) tea.Cmd {
	fetcher := m.cfg.fetcher
	ctx := m.cfg.ctx
	q := m.tbl.Query()
	return func() tea.Msg {
		start := time.Now()
		page, err := fetcher(ctx, q)
		return fetchedMsg{revision: rev, page: page, err: err, elapsed: time.Since(start)}
	}
}

// handleFetched applies a response unless a newer one was already applied.
func (m *bubbleModel) handleFetched(msg fetchedMsg) {
	if msg.revision < m.applied {
		m.tbl.Logger().Debug("dropping stale page", "revision", msg.revision, "applied", m.applied)
		return
	}
	m.applied = msg.revision
	if msg.revision >= m.tbl.Revision() {
		m.tbl.SetLoading(false)
	}
	if msg.err != nil {
		m.tbl.Logger().Error("fetch failed", "error", msg.err)
		m.setStatus(m.st.errText.Render("Unable to load rows: " + msg.err.Error()))
		return
	}
	m.tbl.SetRows(msg.page.Rows)
	m.tbl.SetTotalRows(msg.page.Total)
	m.tbl.Logger().Debug("page loaded", "revision", msg.revision, "rows", len(msg.page.Rows),
		"total", msg.page.Total, "elapsed", msg.elapsed)
}

// refresh reloads the current data: a forced fetch in remote mode, the
// reloader in local mode.
func (m *bubbleModel) refresh() tea.Cmd {
	if m.remote() {
		rev := m.tbl.Revision()
		m.requested = rev
		m.tbl.SetLoading(true)
		return tea.Batch(m.spinner.Tick, m.fetch(rev))
	}
	if m.cfg.reloader == nil {
		return nil
	}
	reload := m.cfg.reloader
	ctx := m.cfg.ctx
	m.tbl.SetLoading(true)
	return tea.Batch(m.spinner.Tick, func() tea.Msg {
		start := time.Now()
		rows, err := reload(ctx)
		return reloadedMsg{rows: rows, err: err, elapsed: time.Since(start)}
	})
}

func (m *bubbleModel) handleReloaded(msg reloadedMsg) {
	m.tbl.SetLoading(false)
	if msg.err != nil {
		m.tbl.Logger().Error("reload failed", "error", msg.err)
		m.setStatus(m.st.errText.Render("Unable to reload: " + msg.err.Error()))
		return
	}
	m.tbl.SetRows(msg.rows)
	m.setStatus("Reloaded in " + formatElapsed(msg.elapsed))
}

func waitForRefresh(ch <-chan struct{}) tea.Cmd {
	if ch == nil {
		return nil
	}
	return func() tea.Msg {
		if _, ok := <-ch; !ok {
			return nil
		}
		return refreshMsg{}
	}
}

func (m *bubbleModel) startBulkDelete() tea.Cmd {
	fn := m.tbl.BulkDeleteFunc()
	rows := m.tbl.SelectedRows()
	if fn == nil || len(rows) == 0 {
		return nil
	}
	ctx := m.cfg.ctx
	m.tbl.SetLoading(true)
	return tea.Batch(m.spinner.Tick, func() tea.Msg {
		return bulkDeletedMsg{rows: rows, err: fn(ctx, rows)}
	})
}
