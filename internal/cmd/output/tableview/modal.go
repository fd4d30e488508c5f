package tableview

import (
	"errors"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/kong/gridctl/internal/datagrid"
	"github.com/kong/gridctl/internal/render"
)

const (
	minDialogWidth = 40
	maxDialogWidth = 100
	textareaHeight = 5
)

func dialogWidth(windowWidth int) int {
	if windowWidth <= 0 {
		windowWidth = defaultWidth
	}
	return clamp(windowWidth-8, minDialogWidth, maxDialogWidth)
}

type viewDialog struct {
	row      datagrid.Row
	title    string
	viewport viewport.Model
}

func newViewDialog(tbl *datagrid.Table, row datagrid.Row, page string, st styles, width, height int, noColor bool) viewDialog {
	inner := dialogWidth(width) - frameWidth(st.dialog)
	content := viewDialogContent(tbl, row, page, st, inner, noColor)

	vpHeight := height - frameHeight(st.dialog) - 6
	if vpHeight < 3 {
		vpHeight = 3
	}
	if h := lipgloss.Height(content); h < vpHeight {
		vpHeight = h
	}
	vp := viewport.New(inner, vpHeight)
	vp.SetContent(content)
	return viewDialog{
		row:      row,
		title:    "Viewing " + datagrid.DisplayID(row),
		viewport: vp,
	}
}

func viewDialogContent(tbl *datagrid.Table, row datagrid.Row, page string, st styles, width int, noColor bool) string {
	fields := withRegisteredFields(tbl.Schema().ViewFields(row), page, row)

	labelWidth := 0
	for _, f := range fields {
		if w := lipgloss.Width(f.Label); w > labelWidth {
			labelWidth = w
		}
	}

	var blocks []string
	for _, f := range fields {
		label := st.label.Render(padStatusLine(f.Label, labelWidth))
		value := formatFieldValue(f, row, page, st, width, noColor)
		if strings.Contains(value, "\n") {
			blocks = append(blocks, label, indent(value, 2))
			continue
		}
		blocks = append(blocks, label+"  "+value)
	}
	if link := tbl.DetailLink(row); link != "" {
		blocks = append(blocks, "", st.label.Render("Link")+"  "+st.link.Render(link))
	}
	return strings.Join(blocks, "\n")
}

func formatFieldValue(f datagrid.FieldValue, row datagrid.Row, page string, st styles, width int, noColor bool) string {
	if fn := getFieldRenderer(page, f.Key); fn != nil {
		return fn(row, f.Value, width)
	}
	switch {
	case f.Value == nil:
		return st.muted.Render(datagrid.Placeholder)
	case datagrid.IsObject(f.Value):
		return render.Structured(f.Value, !noColor, render.DefaultTheme)
	case isBodyKey(f.Key):
		if s, ok := f.Value.(string); ok {
			return render.Markdown(s, render.Options{NoColor: noColor, Width: width - 2})
		}
	}
	if f.Accent {
		return st.accent.Render(f.Text())
	}
	return st.value.Render(f.Text())
}

func isBodyKey(key string) bool {
	return strings.Contains(strings.ToLower(key), "body")
}

func indent(s string, n int) string {
	pad := strings.Repeat(" ", n)
	lines := strings.Split(s, "\n")
	for i, line := range lines {
		lines[i] = pad + line
	}
	return strings.Join(lines, "\n")
}

func (d viewDialog) view(st styles, width int) string {
	body := []string{
		st.cardTitle.Render(d.title),
		"",
		d.viewport.View(),
		"",
		st.muted.Render("↑/↓ scroll · c copy link · esc close"),
	}
	return st.dialog.Width(dialogWidth(width) - frameWidth(st.dialog)).Render(strings.Join(body, "\n"))
}

type editField struct {
	value datagrid.FieldValue
	input textinput.Model
	area  textarea.Model
	err   string
}

func (f editField) multiline() bool {
	return f.value.Multiline
}

func (f editField) text() string {
	if f.multiline() {
		return f.area.Value()
	}
	return f.input.Value()
}

type editDialog struct {
	title  string
	fields []editField
	focus  int
	err    string
}

func newEditDialog(form *datagrid.StagedForm, row datagrid.Row, st styles, width int) editDialog {
	inner := dialogWidth(width) - frameWidth(st.dialog)
	d := editDialog{title: "Edit " + datagrid.DisplayID(row), focus: -1}
	for _, fv := range form.Fields() {
		f := editField{value: fv}
		switch {
		case fv.ReadOnly:
		case fv.Multiline:
			area := textarea.New()
			area.ShowLineNumbers = false
			area.CharLimit = 0
			area.Prompt = ""
			area.SetWidth(inner)
			area.SetHeight(textareaHeight)
			area.SetValue(form.Raw(fv.Key))
			area.Blur()
			f.area = area
		default:
			in := textinput.New()
			in.Prompt = ""
			in.Width = inner
			in.TextStyle = st.value
			in.SetValue(form.Raw(fv.Key))
			in.Blur()
			f.input = in
		}
		d.fields = append(d.fields, f)
	}
	d.move(1)
	return d
}

func (d *editDialog) move(delta int) {
	n := len(d.fields)
	if n == 0 {
		return
	}
	idx := d.focus
	for range n {
		idx = (idx + delta + n) % n
		if !d.fields[idx].value.ReadOnly {
			d.setFocus(idx)
			return
		}
	}
}

func (d *editDialog) setFocus(idx int) {
	for i := range d.fields {
		f := &d.fields[i]
		if f.value.ReadOnly {
			continue
		}
		if f.multiline() {
			if i == idx {
				f.area.Focus()
			} else {
				f.area.Blur()
			}
			continue
		}
		if i == idx {
			f.input.Focus()
		} else {
			f.input.Blur()
		}
	}
	d.focus = idx
}

func (d *editDialog) focused() *editField {
	if d.focus < 0 || d.focus >= len(d.fields) {
		return nil
	}
	return &d.fields[d.focus]
}

type editResult int

const (
	editOpen editResult = iota
	editSaved
	editCancelled
)

func (d *editDialog) update(tbl *datagrid.Table, msg tea.KeyMsg) (editResult, tea.Cmd) {
	f := d.focused()
	switch msg.String() {
	case "esc":
		tbl.CloseModal()
		return editCancelled, nil
	case "ctrl+s":
		return d.commit(tbl), nil
	case "enter":
		if f == nil || !f.multiline() {
			return d.commit(tbl), nil
		}
	case "tab":
		d.move(1)
		return editOpen, nil
	case "shift+tab":
		d.move(-1)
		return editOpen, nil
	}
	if f == nil {
		return editOpen, nil
	}

	var cmd tea.Cmd
	if f.multiline() {
		f.area, cmd = f.area.Update(msg)
	} else {
		f.input, cmd = f.input.Update(msg)
	}
	f.err = ""
	if err := tbl.StageField(f.value.Key, f.text()); err != nil {
		f.err = fieldErrorText(err)
	}
	d.err = ""
	return editOpen, cmd
}

func (d *editDialog) commit(tbl *datagrid.Table) editResult {
	if err := tbl.CommitEdit(); err != nil {
		var fe *datagrid.FieldError
		if errors.As(err, &fe) {
			for i := range d.fields {
				if d.fields[i].value.Key == fe.Key {
					d.fields[i].err = fieldErrorText(fe.Err)
					d.setFocus(i)
				}
			}
		}
		d.err = err.Error()
		return editOpen
	}
	return editSaved
}

func fieldErrorText(err error) string {
	var fe *datagrid.FieldError
	if errors.As(err, &fe) {
		return fe.Err.Error()
	}
	return err.Error()
}

func (d editDialog) view(st styles, width int) string {
	body := []string{st.cardTitle.Render(d.title), ""}
	for i, f := range d.fields {
		label := f.value.Label
		if i == d.focus {
			label = focusMarker + " " + label
		} else {
			label = "  " + label
		}
		body = append(body, st.label.Render(label))
		switch {
		case f.value.ReadOnly:
			body = append(body, "  "+st.muted.Render(f.value.Text()+" (read-only)"))
		case f.multiline():
			body = append(body, indent(f.area.View(), 2))
		default:
			body = append(body, "  "+f.input.View())
		}
		if f.err != "" {
			body = append(body, "  "+st.errText.Render(f.err))
		}
	}
	if d.err != "" {
		body = append(body, "", st.errText.Render(d.err))
	}
	body = append(body, "", st.muted.Render("tab next field · ctrl+s save · esc cancel"))
	return st.dialog.Width(dialogWidth(width) - frameWidth(st.dialog)).Render(strings.Join(body, "\n"))
}

func deleteDialogView(row datagrid.Row, st styles, width int) string {
	body := []string{
		st.errText.Bold(true).Render("Delete record"),
		"",
		fmt.Sprintf("Delete %s? This cannot be undone.", st.accent.Render(datagrid.DisplayID(row))),
		"",
		st.buttonActive.Render(" y delete ") + "  " + st.button.Render(" n cancel "),
	}
	return st.danger.Width(dialogWidth(width) - frameWidth(st.danger)).Render(strings.Join(body, "\n"))
}

func bulkDeleteDialogView(count int, st styles, width int) string {
	body := []string{
		st.errText.Bold(true).Render("Delete selected"),
		"",
		fmt.Sprintf("Delete %s? This cannot be undone.", countLabel(count)),
		"",
		st.buttonActive.Render(" y delete ") + "  " + st.button.Render(" n cancel "),
	}
	return st.danger.Width(dialogWidth(width) - frameWidth(st.danger)).Render(strings.Join(body, "\n"))
}
