package tableview

import (
	"context"
	"errors"
	"fmt"
	"io"
	"math"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-isatty"
	"golang.org/x/term"

	"github.com/kong/gridctl/internal/datagrid"
	"github.com/kong/gridctl/internal/iostreams"
	"github.com/kong/gridctl/internal/log"
	"github.com/kong/gridctl/internal/theme"
)

type fdProvider interface {
	Fd() uintptr
}

// Reloader reloads the full row set of a locally paginated table.
type Reloader func(ctx context.Context) ([]datagrid.Row, error)

type config struct {
	title         string
	footer        string
	quitKeys      []string
	toggleHelpKey string
	profileName   string
	pageName      string

	fetcher  Fetcher
	debounce time.Duration
	reloader Reloader
	refresh  <-chan struct{}
	ctx      context.Context

	noColor bool
}

// Option allows configuring optional behaviour for the table renderer.
type Option func(*config)

// WithTitle adds a title above the rendered table.
func WithTitle(title string) Option {
	return func(cfg *config) {
		cfg.title = title
	}
}

// WithFooter overrides the default status hint when running interactively.
func WithFooter(msg string) Option {
	return func(cfg *config) {
		cfg.footer = msg
	}
}

// WithProfileName records the active configuration profile for display in the status area.
func WithProfileName(name string) Option {
	return func(cfg *config) {
		cfg.profileName = strings.TrimSpace(name)
	}
}

// WithPageName names the page so registered field renderers can be found.
func WithPageName(name string) Option {
	return func(cfg *config) {
		cfg.pageName = strings.ToLower(strings.TrimSpace(name))
	}
}

// WithFetcher switches the view to remote mode: every query change fetches a
// fresh page through fetch. Typing in the search box is debounced by delay.
func WithFetcher(fetch Fetcher, delay time.Duration) Option {
	return func(cfg *config) {
		cfg.fetcher = fetch
		cfg.debounce = delay
	}
}

// WithReloader is called to reload local rows on refresh.
func WithReloader(reload Reloader) Option {
	return func(cfg *config) {
		cfg.reloader = reload
	}
}

// WithRefresh triggers a reload or refetch whenever ch receives.
func WithRefresh(ch <-chan struct{}) Option {
	return func(cfg *config) {
		cfg.refresh = ch
	}
}

// WithContext sets the context handed to fetches and bulk deletes.
func WithContext(ctx context.Context) Option {
	return func(cfg *config) {
		cfg.ctx = ctx
	}
}

// WithNoColor disables highlighting in dialogs.
func WithNoColor() Option {
	return func(cfg *config) {
		cfg.noColor = true
	}
}

func newConfig(opts []Option) config {
	cfg := config{
		quitKeys:      []string{"q", "Q", "ctrl+c"},
		toggleHelpKey: "?",
		debounce:      defaultDebounce,
		ctx:           context.Background(),
	}
	for _, opt := range opts {
		opt(&cfg)
	}
	if cfg.ctx == nil {
		cfg.ctx = context.Background()
	}
	return cfg
}

// Render displays the table interactively with Bubble Tea when the output
// stream is a TTY. For non-interactive streams it writes the current page once,
// in the table's view mode.
func Render(streams *iostreams.IOStreams, tbl *datagrid.Table, opts ...Option) error {
	if streams == nil || streams.Out == nil {
		return errors.New("tableview: output stream is not available")
	}
	if tbl == nil {
		return errors.New("tableview: no table provided")
	}

	cfg := newConfig(opts)
	palette := theme.FromContext(cfg.ctx)
	width, height, isTTY := resolveTerminal(streams.Out)

	if !isTTY {
		return RenderStatic(streams.Out, tbl, width, opts...)
	}

	// The alternate screen owns the terminal; errors still reach the log file.
	log.DisableErrorMirroring()
	defer log.EnableErrorMirroring()

	model := newBubbleModel(tbl, cfg, palette, width, height)
	program := tea.NewProgram(model,
		tea.WithInput(streams.In),
		tea.WithOutput(streams.Out),
		tea.WithAltScreen(),
		tea.WithContext(cfg.ctx),
	)

	_, err := program.Run()
	return err
}

// RenderStatic writes the current page without interaction.
func RenderStatic(out io.Writer, tbl *datagrid.Table, width int, opts ...Option) error {
	cfg := newConfig(opts)
	if width <= 0 {
		width = defaultWidth
	}

	res := tbl.Result()
	if len(res.Rows) == 0 {
		return writeStaticMessage(out, cfg.title, emptyMessage)
	}

	var body string
	if tbl.ViewMode() == datagrid.ViewGrid {
		body = RenderGrid(tbl, width, theme.FromContext(cfg.ctx))
	} else {
		body = RenderList(tbl, width, theme.FromContext(cfg.ctx))
	}

	sections := []string{}
	if cfg.title != "" {
		sections = append(sections, cfg.title)
	}
	sections = append(sections, body, plainFooter(tbl, res))
	_, err := fmt.Fprintln(out, lipgloss.JoinVertical(lipgloss.Left, sections...))
	return err
}

func writeStaticMessage(out io.Writer, title, message string) error {
	if out == nil {
		return errors.New("tableview: output stream is not available")
	}
	content := message
	if title != "" {
		content = lipgloss.JoinVertical(lipgloss.Left, title, message)
	}
	_, err := fmt.Fprintln(out, content)
	return err
}

const (
	defaultWidth  = 120
	defaultHeight = 24
	emptyMessage  = "No results."
)

func resolveTerminal(out io.Writer) (width int, height int, isTTY bool) {
	width, height = defaultWidth, defaultHeight

	fd, ok := getFD(out)
	if !ok {
		return width, height, false
	}

	isTTY = isTerminal(fd)

	if w, h, err := term.GetSize(int(fd)); err == nil {
		width, height = w, h
	}

	return width, height, isTTY
}

func getFD(w io.Writer) (uintptr, bool) {
	if fp, ok := w.(fdProvider); ok {
		fd := fp.Fd()
		if fd == ^uintptr(0) {
			return 0, false
		}
		return fd, true
	}
	return 0, false
}

func isTerminal(fd uintptr) bool {
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}

// NormalizeSelectedRow ensures that selected rows emitted by the table component
// keep the highlight active across all columns when wrapped by another style.
func NormalizeSelectedRow(content string, selected lipgloss.Style) string {
	const reset = "\x1b[0m"

	prefix := selectionPrefix(selected, reset)
	if prefix == "" || !strings.Contains(content, prefix) {
		return content
	}

	lines := strings.Split(content, "\n")
	for i, line := range lines {
		if !strings.Contains(line, prefix) {
			continue
		}

		count := strings.Count(line, reset)
		if count <= 1 {
			continue
		}

		line = strings.ReplaceAll(line, reset+prefix, reset)
		lines[i] = strings.Replace(line, reset, reset+prefix, count-1)
	}

	return strings.Join(lines, "\n")
}

func selectionPrefix(style lipgloss.Style, reset string) string {
	rendered := style.Render("")
	if rendered == "" {
		return ""
	}

	idx := strings.LastIndex(rendered, reset)
	if idx == -1 {
		return ""
	}

	return rendered[:idx]
}

func frameWidth(style lipgloss.Style) int {
	w, _ := style.GetFrameSize()
	return w
}

func frameHeight(style lipgloss.Style) int {
	_, h := style.GetFrameSize()
	return h
}

func formatElapsed(d time.Duration) string {
	if d < 0 {
		d = 0
	}
	seconds := int(d.Round(time.Second).Seconds())
	if seconds < 1 {
		fraction := d.Round(100 * time.Millisecond)
		return fmt.Sprintf("%.1fs", float64(fraction)/float64(time.Second))
	}
	if seconds < 60 {
		return fmt.Sprintf("%ds", seconds)
	}
	minutes := seconds / 60
	remainder := seconds % 60
	if remainder == 0 {
		return fmt.Sprintf("%dmin", minutes)
	}
	return fmt.Sprintf("%dmin %ds", minutes, remainder)
}

func sum(values []int) int {
	total := 0
	for _, v := range values {
		total += v
	}
	return total
}

func widestColumnAboveMin(widths, minWidths []int) int {
	idx := -1
	maxWidth := math.MinInt
	for i, width := range widths {
		if width > maxWidth && width > minWidths[i] {
			maxWidth = width
			idx = i
		}
	}
	return idx
}

func clamp(val, minVal, maxVal int) int {
	if val < minVal {
		return minVal
	}
	if val > maxVal {
		return maxVal
	}
	return val
}
