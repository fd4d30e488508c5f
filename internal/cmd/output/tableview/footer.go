package tableview

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"

	"github.com/kong/gridctl/internal/datagrid"
)

// pageFooter is the pagination bar: page-size menu, position and jump input.
type pageFooter struct {
	jump    textinput.Model
	jumping bool
}

func newPageFooter(st styles) pageFooter {
	in := textinput.New()
	in.Prompt = "Go to page: "
	in.CharLimit = 6
	in.Placeholder = "1"
	in.PromptStyle = st.accent
	return pageFooter{jump: in}
}

func (f *pageFooter) startJump() {
	f.jumping = true
	f.jump.SetValue("")
	f.jump.Focus()
}

func (f *pageFooter) stopJump() {
	f.jumping = false
	f.jump.Blur()
}

// jumpPage parses the 1-based page typed into the jump input. The value is
// passed on as typed.
func jumpPage(input string) (int, error) {
	n, err := strconv.Atoi(strings.TrimSpace(input))
	if err != nil {
		return 0, fmt.Errorf("invalid page %q", input)
	}
	return n, nil
}

func (f pageFooter) view(tbl *datagrid.Table, res datagrid.Result, st styles) string {
	p := tbl.Pagination()

	sizes := make([]string, 0, len(datagrid.PageSizes))
	for _, s := range datagrid.PageSizes {
		label := strconv.Itoa(s)
		if s == p.PageSize {
			sizes = append(sizes, st.buttonActive.Render(label))
			continue
		}
		sizes = append(sizes, st.button.Render(label))
	}

	nav := func(label string, enabled bool) string {
		if enabled {
			return st.value.Render(label)
		}
		return st.muted.Render(label)
	}

	parts := []string{
		st.label.Render("Rows per page:") + " " + strings.Join(sizes, " "),
		pagePosition(p, res),
		nav("« first", tbl.CanPrev()) + " " + nav("‹ prev", tbl.CanPrev()) + " " +
			nav("next ›", tbl.CanNext()) + " " + nav("last »", tbl.CanNext()),
	}
	line := strings.Join(parts, "   ")
	if f.jumping {
		line += "   " + f.jump.View()
	}
	return line
}

func pagePosition(p datagrid.Pagination, res datagrid.Result) string {
	pages := res.PageCount
	if pages < 1 {
		pages = 1
	}
	return fmt.Sprintf("Page %d of %d (%s)", p.PageIndex+1, pages, countLabel(res.FilteredCount))
}

func countLabel(n int) string {
	if n == 1 {
		return "1 row"
	}
	return fmt.Sprintf("%d rows", n)
}

// plainFooter is the footer line written by non-interactive rendering.
func plainFooter(tbl *datagrid.Table, res datagrid.Result) string {
	p := tbl.Pagination()
	return fmt.Sprintf("%s · %d per page", pagePosition(p, res), p.PageSize)
}
