package tableview

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/kong/gridctl/internal/datagrid"
	"github.com/kong/gridctl/internal/theme"
)

type bubbleModel struct {
	tbl     *datagrid.Table
	cfg     config
	st      styles
	palette theme.Palette

	list     table.Model
	layout   listLayout
	res      datagrid.Result
	focusCol int
	cursor   int

	drawer drawerPanel
	footer pageFooter
	search textinput.Model

	searching   bool
	confirmBulk bool
	viewDlg     *viewDialog
	editDlg     *editDialog

	spinner       spinner.Model
	showHelp      bool
	statusMessage string
	useAltScreen  bool

	windowWidth  int
	windowHeight int

	requested uint64
	applied   uint64

	availableThemes []string
	themeIndex      int
}

func newBubbleModel(tbl *datagrid.Table, cfg config, palette theme.Palette, width, height int) *bubbleModel {
	st := newStyles(palette)

	search := textinput.New()
	search.Prompt = "/"
	search.PromptStyle = st.accent
	search.Placeholder = "search"

	m := &bubbleModel{
		tbl:             tbl,
		cfg:             cfg,
		st:              st,
		palette:         palette,
		drawer:          newDrawerPanel(tbl, st),
		footer:          newPageFooter(st),
		search:          search,
		spinner:         newSpinnerModel(palette),
		useAltScreen:    true,
		windowWidth:     width,
		windowHeight:    height,
		availableThemes: theme.Available(),
		themeIndex:      themeIndexOf(theme.Available(), palette.Name),
	}
	m.focusCol = m.firstDataColumn()
	tbl.Subscribe(datagrid.NotifierFunc(m.notify))
	m.rebuild()
	return m
}

func themeIndexOf(names []string, name string) int {
	for i, n := range names {
		if n == name {
			return i
		}
	}
	return 0
}

func (m *bubbleModel) firstDataColumn() int {
	for i, c := range m.tbl.Columns() {
		if !c.Synthetic() {
			return i
		}
	}
	return 0
}

// applyPalette restyles every component with the new theme.
func (m *bubbleModel) applyPalette(p theme.Palette) {
	m.palette = p
	m.st = newStyles(p)
	m.spinner = newSpinnerModel(p)
	m.search.PromptStyle = m.st.accent
	m.rebuild()
}

func (m *bubbleModel) Init() tea.Cmd {
	var cmds []tea.Cmd
	if m.remote() {
		rev := m.tbl.Revision()
		m.requested = rev
		m.tbl.SetLoading(true)
		cmds = append(cmds, m.spinner.Tick, m.fetch(rev))
	} else if m.tbl.Loading() {
		cmds = append(cmds, m.spinner.Tick)
	}
	if cmd := waitForRefresh(m.cfg.refresh); cmd != nil {
		cmds = append(cmds, cmd)
	}
	if len(cmds) == 0 {
		return func() tea.Msg { return nil }
	}
	return tea.Batch(cmds...)
}

// rebuild reruns the pipeline and re-measures the list for the current size.
func (m *bubbleModel) rebuild() {
	m.res = m.tbl.Result()

	cols := m.tbl.Columns()
	if len(cols) > 0 {
		m.focusCol = clamp(m.focusCol, 0, len(cols)-1)
	}

	cursor := m.list.Cursor()
	width := m.windowWidth - frameWidth(m.st.tableBox)
	m.layout = buildListLayout(m.tbl, m.res.Rows, width, m.focusCol)
	m.list = newListTable(m.layout, m.st, true, len(m.res.Rows)+1)
	setTableHeight(&m.list, len(m.res.Rows), m.windowHeight, true, m.reservedHeight())
	if n := len(m.res.Rows); n > 0 {
		m.list.SetCursor(clamp(cursor, 0, n-1))
		m.cursor = clamp(m.cursor, 0, n-1)
	} else {
		m.cursor = 0
	}
}

func (m *bubbleModel) reservedHeight() int {
	reserved := 3 + 2 // footer and two status rows with borders
	if m.cfg.title != "" {
		reserved++
	}
	if m.searching || m.tbl.GlobalFilter() != "" {
		reserved++
	}
	if m.tbl.Drawer().IsOpen() {
		reserved += len(m.drawer.inputs) + 5
	}
	if m.showHelp {
		reserved += len(helpLines)
	}
	return reserved + frameHeight(m.st.tableBox) + 1
}

func (m *bubbleModel) currentIndex() int {
	if m.tbl.ViewMode() == datagrid.ViewGrid {
		return m.cursor
	}
	return m.list.Cursor()
}

func (m *bubbleModel) currentRow() datagrid.Row {
	idx := m.currentIndex()
	if idx < 0 || idx >= len(m.res.Rows) {
		return nil
	}
	return m.res.Rows[idx]
}

func (m *bubbleModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) { //nolint:ireturn
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.windowWidth = msg.Width
		m.windowHeight = msg.Height
	case spinner.TickMsg:
		if !m.tbl.Loading() {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	case fetchMsg:
		if msg.revision != m.tbl.Revision() {
			return m, nil
		}
		cmds = append(cmds, m.fetch(msg.revision))
	case fetchedMsg:
		m.handleFetched(msg)
	case reloadedMsg:
		m.handleReloaded(msg)
	case refreshMsg:
		cmds = append(cmds, m.refresh(), waitForRefresh(m.cfg.refresh))
	case bulkDeletedMsg:
		m.tbl.SetLoading(false)
		if err := m.tbl.CompleteBulkDelete(msg.rows, msg.err); err == nil {
			cmds = append(cmds, m.refresh())
		}
	case tea.KeyMsg:
		cmds = append(cmds, m.handleKey(msg))
	}

	m.rebuild()
	return m, tea.Batch(cmds...)
}

func (m *bubbleModel) quit() tea.Cmd {
	if m.useAltScreen {
		m.useAltScreen = false
		return tea.Sequence(tea.ExitAltScreen, tea.Quit)
	}
	return tea.Quit
}

func (m *bubbleModel) isQuitKey(k string) bool {
	for _, q := range m.cfg.quitKeys {
		if k == q {
			return true
		}
	}
	return false
}

func (m *bubbleModel) handleKey(msg tea.KeyMsg) tea.Cmd {
	k := msg.String()
	if k == "ctrl+c" {
		return m.quit()
	}

	switch modal := m.tbl.Modal().(type) {
	case datagrid.Editing:
		return m.handleEditKey(msg)
	case datagrid.Deleting:
		switch k {
		case "y", "Y", "enter":
			if err := m.tbl.ConfirmDelete(); err != nil {
				m.setStatus(m.st.errText.Render(err.Error()))
			}
			return m.refresh()
		case "n", "N", "esc":
			m.tbl.CloseModal()
		}
		return nil
	case datagrid.Viewing:
		return m.handleViewKey(msg, modal.Row())
	}

	if m.confirmBulk {
		switch k {
		case "y", "Y", "enter":
			m.confirmBulk = false
			return m.startBulkDelete()
		case "n", "N", "esc":
			m.confirmBulk = false
		}
		return nil
	}

	if m.tbl.Drawer().IsOpen() {
		result, changed, cmd := m.drawer.update(m.tbl.Drawer(), msg)
		if (result == drawerApplied || result == drawerCleared) && changed {
			return tea.Batch(cmd, m.queryChanged(false))
		}
		return cmd
	}

	if m.footer.jumping {
		return m.handleJumpKey(msg)
	}

	if m.searching {
		return m.handleSearchKey(msg)
	}

	return m.handleBrowseKey(msg)
}

func (m *bubbleModel) handleEditKey(msg tea.KeyMsg) tea.Cmd {
	if m.editDlg == nil {
		m.tbl.CloseModal()
		return nil
	}
	result, cmd := m.editDlg.update(m.tbl, msg)
	switch result {
	case editSaved:
		m.editDlg = nil
		return tea.Batch(cmd, m.refresh())
	case editCancelled:
		m.editDlg = nil
	}
	return cmd
}

func (m *bubbleModel) handleViewKey(msg tea.KeyMsg, row datagrid.Row) tea.Cmd {
	switch msg.String() {
	case "esc", "enter", "q", "v":
		m.tbl.CloseModal()
		m.viewDlg = nil
		return nil
	case "c":
		m.copyValue(m.tbl.DetailLink(row), "link")
		return nil
	}
	if m.viewDlg == nil {
		return nil
	}
	var cmd tea.Cmd
	m.viewDlg.viewport, cmd = m.viewDlg.viewport.Update(msg)
	return cmd
}

func (m *bubbleModel) handleJumpKey(msg tea.KeyMsg) tea.Cmd {
	switch msg.String() {
	case "esc":
		m.footer.stopJump()
		return nil
	case "enter":
		input := m.footer.jump.Value()
		m.footer.stopJump()
		page, err := jumpPage(input)
		if err != nil {
			m.setStatus(m.st.errText.Render(err.Error()))
			return nil
		}
		m.tbl.SetPageIndex(clamp(page, 1, max(m.res.PageCount, 1)) - 1)
		return m.queryChanged(false)
	}
	var cmd tea.Cmd
	m.footer.jump, cmd = m.footer.jump.Update(msg)
	return cmd
}

func (m *bubbleModel) startSearch() tea.Cmd {
	m.clearStatus()
	m.searching = true
	m.search.SetValue(m.tbl.GlobalFilter())
	m.search.CursorEnd()
	return m.search.Focus()
}

func (m *bubbleModel) exitSearch() {
	m.searching = false
	m.search.Blur()
}

func (m *bubbleModel) handleSearchKey(msg tea.KeyMsg) tea.Cmd {
	switch msg.String() {
	case "esc":
		m.exitSearch()
		m.search.SetValue("")
		m.tbl.SetGlobalFilter("")
		return m.queryChanged(false)
	case "enter", "up", "down", "tab":
		m.exitSearch()
		return nil
	}
	var cmd tea.Cmd
	m.search, cmd = m.search.Update(msg)
	m.tbl.SetGlobalFilter(m.search.Value())
	return tea.Batch(cmd, m.queryChanged(true))
}

func (m *bubbleModel) handleBrowseKey(msg tea.KeyMsg) tea.Cmd {
	k := msg.String()
	if m.isQuitKey(k) {
		return m.quit()
	}
	grid := m.tbl.ViewMode() == datagrid.ViewGrid
	perRow, _ := cardsPerRow(m.windowWidth)

	switch k {
	case "esc":
		if m.tbl.GlobalFilter() != "" {
			m.search.SetValue("")
			m.tbl.SetGlobalFilter("")
			return m.queryChanged(false)
		}
		return m.quit()
	case m.cfg.toggleHelpKey:
		m.showHelp = !m.showHelp
	case "/":
		return m.startSearch()
	case "f":
		m.drawer.open(m.tbl.Drawer())
	case "g":
		mode := m.tbl.ToggleViewMode()
		m.setStatus("View: " + mode.String())
	case "t":
		m.cycleTheme()
	case "r":
		return m.refresh()

	case "left", "h":
		if grid {
			m.cursor = max(m.cursor-1, 0)
		} else {
			m.focusCol = max(m.focusCol-1, 0)
		}
	case "right", "l":
		if grid {
			m.cursor = min(m.cursor+1, max(len(m.res.Rows)-1, 0))
		} else {
			m.focusCol = min(m.focusCol+1, max(len(m.tbl.Columns())-1, 0))
		}
	case "up", "k":
		if grid {
			m.cursor = max(m.cursor-perRow, 0)
			return nil
		}
		return m.updateList(msg)
	case "down", "j":
		if grid {
			m.cursor = min(m.cursor+perRow, max(len(m.res.Rows)-1, 0))
			return nil
		}
		return m.updateList(msg)
	case "s":
		cols := m.tbl.Columns()
		if m.focusCol < len(cols) {
			col := cols[m.focusCol]
			if !col.Sortable() {
				m.setStatus(col.Label() + " is not sortable")
				return nil
			}
			dir := m.tbl.ToggleSort(col.ID)
			if dir == datagrid.SortNone {
				m.setStatus("Sort cleared")
			} else {
				m.setStatus(fmt.Sprintf("Sorted by %s %s", col.Label(), dir))
			}
			return m.queryChanged(false)
		}

	case "n":
		if m.tbl.NextPage() {
			return m.queryChanged(false)
		}
	case "p":
		if m.tbl.PrevPage() {
			return m.queryChanged(false)
		}
	case "<", "home":
		m.tbl.FirstPage()
		return m.queryChanged(false)
	case ">", "end":
		m.tbl.LastPage()
		return m.queryChanged(false)
	case "]":
		m.tbl.SetPageSize(datagrid.NextPageSize(m.tbl.Pagination().PageSize))
		return m.queryChanged(false)
	case "[":
		m.tbl.SetPageSize(datagrid.PrevPageSize(m.tbl.Pagination().PageSize))
		return m.queryChanged(false)
	case ":":
		m.footer.startJump()

	case "enter", "v":
		return m.openAction(datagrid.ActionView)
	case "e":
		return m.openAction(datagrid.ActionEdit)
	case "x", "delete":
		return m.openAction(datagrid.ActionDelete)

	case " ", "space":
		if m.tbl.Selectable() {
			m.tbl.ToggleSelected(m.currentRow())
		}
	case "a":
		if m.tbl.Selectable() {
			m.tbl.ToggleAllVisible()
		}
	case "D":
		switch {
		case !m.tbl.CanBulkDelete():
			m.setStatus("Bulk delete is not available")
		case len(m.tbl.SelectedRows()) == 0:
			m.setStatus("Nothing selected")
		default:
			m.confirmBulk = true
		}

	case "c":
		m.copyCurrent()
	case "y":
		m.copyShareLink()
	default:
		if !grid {
			return m.updateList(msg)
		}
	}
	return nil
}

func (m *bubbleModel) updateList(msg tea.Msg) tea.Cmd {
	var cmd tea.Cmd
	m.list, cmd = m.list.Update(msg)
	return cmd
}

func (m *bubbleModel) openAction(kind datagrid.ActionKind) tea.Cmd {
	row := m.currentRow()
	if row == nil {
		return nil
	}
	if !m.tbl.Click(kind, row) {
		m.setStatus(fmt.Sprintf("%s is not available here", kind))
		return nil
	}
	switch modal := m.tbl.Modal().(type) {
	case datagrid.Viewing:
		dlg := newViewDialog(m.tbl, row, m.cfg.pageName, m.st, m.windowWidth, m.windowHeight, m.cfg.noColor)
		m.viewDlg = &dlg
	case datagrid.Editing:
		dlg := newEditDialog(modal.Form, row, m.st, m.windowWidth)
		m.editDlg = &dlg
	}
	return nil
}

func (m *bubbleModel) cycleTheme() {
	if len(m.availableThemes) == 0 {
		return
	}
	m.themeIndex = (m.themeIndex + 1) % len(m.availableThemes)
	nextName := m.availableThemes[m.themeIndex]
	if p, ok := theme.Get(nextName); ok {
		m.applyPalette(p)
		m.setStatus(fmt.Sprintf("Theme: %s (set color-theme: %s in config to persist)", p.DisplayName, nextName))
	}
}

func (m *bubbleModel) copyCurrent() {
	row := m.currentRow()
	if row == nil {
		return
	}
	if m.tbl.ViewMode() == datagrid.ViewGrid {
		if link := m.tbl.DetailLink(row); link != "" {
			m.copyValue(link, "link")
			return
		}
		m.copyValue(row.RowID(), "id")
		return
	}
	cols := m.tbl.Columns()
	if m.focusCol >= len(cols) {
		return
	}
	col := cols[m.focusCol]
	m.copyValue(singleLine(col.Render(row)), col.Label())
}

func (m *bubbleModel) copyShareLink() {
	state, err := m.tbl.ListState().Encode()
	if err != nil {
		m.setStatus(m.st.errText.Render("Unable to encode view: " + err.Error()))
		return
	}
	m.copyValue(strings.TrimRight(m.tbl.BasePath(), "/")+"?"+state, "share link")
}

func (m *bubbleModel) copyValue(value, label string) {
	if value == "" {
		m.setStatus("Nothing to copy")
		return
	}
	if err := writeClipboardText(value); err != nil {
		m.setStatus(m.st.errText.Render("Unable to copy: " + err.Error()))
		return
	}
	m.setStatus(fmt.Sprintf("Copied %s: %s", label, formatStatusValue(value)))
}

func (m *bubbleModel) View() string {
	var sections []string
	if m.cfg.title != "" {
		sections = append(sections, m.st.cardTitle.Render(m.cfg.title))
	}
	if m.searching {
		sections = append(sections, m.search.View())
	} else if q := m.tbl.GlobalFilter(); q != "" {
		sections = append(sections, m.st.muted.Render("search: ")+m.st.accent.Render(q))
	}
	if m.tbl.Drawer().IsOpen() {
		sections = append(sections, m.drawer.view(m.st, m.windowWidth))
	}

	sections = append(sections, m.renderBody())
	sections = append(sections, m.footer.view(m.tbl, m.res, m.st))

	widthHint := 0
	for _, section := range sections {
		if w := lipgloss.Width(section); w > widthHint {
			widthHint = w
		}
	}
	sections = append(sections, m.renderStatusArea(widthHint))

	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

func (m *bubbleModel) renderBody() string {
	if dialog := m.renderDialog(); dialog != "" {
		return lipgloss.PlaceHorizontal(max(m.windowWidth, lipgloss.Width(dialog)), lipgloss.Center, dialog)
	}

	if len(m.res.Rows) == 0 {
		msg := emptyMessage
		if m.tbl.Loading() {
			msg = m.spinner.View() + " Loading…"
		}
		return m.st.tableBox.Render(m.st.muted.Render(msg))
	}

	if m.tbl.ViewMode() == datagrid.ViewGrid {
		height := m.windowHeight - m.reservedHeight()
		return renderGrid(m.tbl.Cards(), m.tbl, m.st, gridOptions{
			width:  m.windowWidth,
			height: max(height, 1),
			cursor: m.cursor,
		})
	}

	body := m.st.tableBox.Render(NormalizeSelectedRow(m.list.View(), m.st.table.Selected))
	if tip := m.layout.tooltip(m.list.Cursor(), m.focusCol); tip != "" {
		width := max(m.windowWidth-2, 10)
		body = lipgloss.JoinVertical(lipgloss.Left, body, m.st.muted.Render(truncateWithEllipsis(tip, width)))
	}
	return body
}

func (m *bubbleModel) renderDialog() string {
	switch modal := m.tbl.Modal().(type) {
	case datagrid.Viewing:
		if m.viewDlg != nil {
			return m.viewDlg.view(m.st, m.windowWidth)
		}
	case datagrid.Editing:
		if m.editDlg != nil {
			return m.editDlg.view(m.st, m.windowWidth)
		}
	case datagrid.Deleting:
		return deleteDialogView(modal.Row(), m.st, m.windowWidth)
	}
	if m.confirmBulk {
		return bulkDeleteDialogView(len(m.tbl.SelectedRows()), m.st, m.windowWidth)
	}
	return ""
}
