package tableview

import (
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/kong/gridctl/internal/datagrid"
)

// drawerPanel edits the filter drawer's staged values, one input per
// filterable column.
type drawerPanel struct {
	cols   []datagrid.Column
	inputs []textinput.Model
	focus  int
}

func newDrawerPanel(tbl *datagrid.Table, st styles) drawerPanel {
	var panel drawerPanel
	width := 0
	for _, c := range tbl.DataColumns() {
		if c.Filterable() && len(c.Label()) > width {
			width = len(c.Label())
		}
	}
	for _, c := range tbl.DataColumns() {
		if !c.Filterable() {
			continue
		}
		in := textinput.New()
		in.Prompt = c.Label() + strings.Repeat(" ", width-len(c.Label())) + " : "
		in.PromptStyle = st.label
		in.TextStyle = st.value
		in.Placeholder = c.FilterPlaceholder()
		panel.cols = append(panel.cols, c)
		panel.inputs = append(panel.inputs, in)
	}
	return panel
}

// open resyncs the drawer and the inputs from committed state.
func (d *drawerPanel) open(drawer *datagrid.FilterDrawer) {
	drawer.Open()
	d.sync(drawer)
	d.focus = 0
	d.focusInput()
}

func (d *drawerPanel) sync(drawer *datagrid.FilterDrawer) {
	for i, c := range d.cols {
		d.inputs[i].SetValue(drawer.StagedValue(c.ID))
		d.inputs[i].CursorEnd()
	}
}

func (d *drawerPanel) focusInput() {
	for i := range d.inputs {
		if i == d.focus {
			d.inputs[i].Focus()
			continue
		}
		d.inputs[i].Blur()
	}
}

func (d *drawerPanel) move(delta int) {
	if len(d.inputs) == 0 {
		return
	}
	d.focus = (d.focus + delta + len(d.inputs)) % len(d.inputs)
	d.focusInput()
}

// drawerResult tells the model what a key did to the drawer.
type drawerResult int

const (
	drawerEditing drawerResult = iota
	drawerApplied
	drawerClosed
	drawerCleared
)

func (d *drawerPanel) update(drawer *datagrid.FilterDrawer, msg tea.KeyMsg) (drawerResult, bool, tea.Cmd) {
	switch msg.String() {
	case "esc":
		drawer.Close()
		return drawerClosed, false, nil
	case "enter":
		changed := drawer.Apply()
		return drawerApplied, changed, nil
	case "ctrl+d":
		drawer.Clear()
		d.sync(drawer)
		return drawerCleared, true, nil
	case "tab", "down":
		d.move(1)
		return drawerEditing, false, nil
	case "shift+tab", "up":
		d.move(-1)
		return drawerEditing, false, nil
	}
	if len(d.inputs) == 0 {
		return drawerEditing, false, nil
	}
	var cmd tea.Cmd
	d.inputs[d.focus], cmd = d.inputs[d.focus].Update(msg)
	drawer.Stage(d.cols[d.focus].ID, d.inputs[d.focus].Value())
	return drawerEditing, false, cmd
}

func (d drawerPanel) view(st styles, width int) string {
	lines := []string{st.accent.Render("Filters")}
	if len(d.inputs) == 0 {
		lines = append(lines, st.muted.Render("No filterable columns."))
	}
	for _, in := range d.inputs {
		lines = append(lines, in.View())
	}
	lines = append(lines, "", st.muted.Render("enter apply · ctrl+d clear all · esc close"))
	style := st.drawerBox
	if width > 0 {
		style = style.Width(width - frameWidth(style))
	}
	return style.Render(strings.Join(lines, "\n"))
}
