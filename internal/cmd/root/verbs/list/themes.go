package list

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-isatty"
	"github.com/segmentio/cli"
	"github.com/spf13/cobra"

	"github.com/kong/gridctl/internal/cmd"
	cmdcommon "github.com/kong/gridctl/internal/cmd/common"
	"github.com/kong/gridctl/internal/cmd/output/tableview"
	"github.com/kong/gridctl/internal/config"
	"github.com/kong/gridctl/internal/datagrid"
	"github.com/kong/gridctl/internal/theme"
	"github.com/kong/gridctl/internal/util/normalizers"
)

func newThemesCmd() *cobra.Command {
	c := &cobra.Command{
		Use:   "themes",
		Short: "List available color themes",
		Long: normalizers.LongDesc(`Display all registered color themes and a small sample
of their palette.`),
		Args: cobra.NoArgs,
		RunE: func(c *cobra.Command, args []string) error {
			return runListThemes(cmd.BuildHelper(c, args))
		},
	}
	c.Flags().BoolP(cmdcommon.InteractiveFlagName, cmdcommon.InteractiveFlagShort, false,
		"Browse the themes in the interactive table view")
	return c
}

func runListThemes(helper cmd.Helper) error {
	streams := helper.GetStreams()
	if streams == nil {
		return fmt.Errorf("output streams unavailable")
	}

	cfg, err := helper.GetConfig()
	if err != nil {
		return err
	}
	outFormat, err := helper.GetOutputFormat()
	if err != nil {
		return err
	}
	interactive, err := helper.IsInteractive()
	if err != nil {
		return err
	}

	var printer cli.PrintFlusher
	if !interactive && outFormat != cmdcommon.TEXT {
		printer, err = cli.Format(outFormat.String(), streams.Out)
		if err != nil {
			return err
		}
		defer printer.Flush()
	}

	useColor := shouldRenderColor(cfg, interactive, streams.Out)
	rows := themeRows(theme.CurrentName())
	cols := themeColumns(useColor)
	tbl := datagrid.New(cols, rows,
		datagrid.WithSchema(datagrid.SchemaFromColumns(cols)),
		datagrid.WithInitialPageSize(max(len(rows), datagrid.DefaultPageSize)),
		datagrid.WithCardRenderer(themeCard),
	)

	return tableview.RenderForFormat(helper, interactive, outFormat, printer, tbl,
		tableview.WithTitle(themesTitle(theme.CurrentName(), theme.IsConfiguredExplicitly())),
		tableview.WithPageName("themes"),
	)
}

func shouldRenderColor(cfg config.Hook, interactive bool, outWriter io.Writer) bool {
	if !interactive {
		return false
	}

	modeStr := strings.ToLower(strings.TrimSpace(cfg.GetString(cmdcommon.ColorConfigPath)))
	mode, err := cmdcommon.ColorModeStringToIota(modeStr)
	if err != nil {
		mode = cmdcommon.ColorModeAuto
	}

	return shouldUseColor(mode, outWriter)
}

func shouldUseColor(mode cmdcommon.ColorMode, out io.Writer) bool {
	switch mode {
	case cmdcommon.ColorModeAlways:
		return true
	case cmdcommon.ColorModeNever:
		return false
	case cmdcommon.ColorModeAuto:
		fp, ok := out.(fdProvider)
		if !ok {
			return false
		}
		fd := fp.Fd()
		if fd == ^uintptr(0) {
			return false
		}
		return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
	default:
		return false
	}
}

type fdProvider interface {
	Fd() uintptr
}

func themesTitle(active string, configured bool) string {
	source := "default"
	if configured {
		source = "configured"
	}
	return fmt.Sprintf("Available Themes (active: %s, %s)", active, source)
}

// themeRows builds one record per registered theme. The palette itself is
// kept under an unlisted key for the card renderer.
func themeRows(activeName string) []datagrid.Row {
	ids := theme.Available()
	rows := make([]datagrid.Row, 0, len(ids))
	for _, id := range ids {
		pal, ok := theme.Get(id)
		if !ok {
			continue
		}
		rows = append(rows, datagrid.Record{
			"id":        pal.Name,
			"name":      displayName(pal),
			"active":    strings.ToLower(pal.Name) == activeName,
			"primary":   pal.Color(theme.ColorPrimary).Light,
			"secondary": pal.Color(theme.ColorAccent).Light,
			"about":     strings.TrimSpace(pal.About),
			paletteKey:  pal,
		})
	}
	return rows
}

const paletteKey = "_palette"

func displayName(p theme.Palette) string {
	if name := strings.TrimSpace(p.DisplayName); name != "" {
		return name
	}
	if name := strings.TrimSpace(p.Name); name != "" {
		return name
	}
	return "Unnamed Theme"
}

func themeColumns(useColor bool) []datagrid.Column {
	swatch := func(token theme.Token) func(datagrid.Row, any) string {
		return func(row datagrid.Row, v any) string {
			hex := datagrid.Stringify(v)
			if !useColor {
				return hex
			}
			pal, ok := paletteOf(row)
			if !ok {
				return hex
			}
			const blockWidth = len("Secondary")
			return pal.BackgroundStyle(token).Render(strings.Repeat(" ", blockWidth))
		}
	}
	return []datagrid.Column{
		{
			ID:     "id",
			Header: "ID",
			Cell: func(row datagrid.Row, v any) string {
				if r, ok := row.(datagrid.Record); ok && r["active"] == true {
					return "*" + datagrid.Stringify(v)
				}
				return datagrid.Stringify(v)
			},
		},
		{ID: "name", Header: "Name"},
		{ID: "primary", Header: "Primary", Cell: swatch(theme.ColorPrimary), DisableSort: true},
		{ID: "secondary", Header: "Secondary", Cell: swatch(theme.ColorAccent), DisableSort: true},
		{ID: "about", Header: "About", DisableSort: true},
	}
}

func paletteOf(row datagrid.Row) (theme.Palette, bool) {
	r, ok := row.(datagrid.Record)
	if !ok {
		return theme.Palette{}, false
	}
	pal, ok := r[paletteKey].(theme.Palette)
	return pal, ok
}

// themeCard previews a palette as a small titled panel in the grid view.
func themeCard(row datagrid.Row) string {
	pal, ok := paletteOf(row)
	if !ok {
		return datagrid.DisplayID(row)
	}
	title := pal.ForegroundStyle(theme.ColorTextPrimary).Bold(true).Render(displayName(pal))
	label := pal.ForegroundStyle(theme.ColorTextSecondary)
	accent := pal.ForegroundStyle(theme.ColorAccent)

	lines := []string{
		title,
		fmt.Sprintf("%s %s", label.Render("Primary:"), pal.Color(theme.ColorPrimary).Light),
		fmt.Sprintf("%s %s", label.Render("Accent:"), accent.Render(pal.Color(theme.ColorAccent).Light)),
		lipgloss.JoinHorizontal(lipgloss.Top,
			pal.BackgroundStyle(theme.ColorPrimary).Render("    "),
			pal.BackgroundStyle(theme.ColorAccent).Render("    "),
			pal.BackgroundStyle(theme.ColorSurface).Render("    "),
		),
	}
	return strings.Join(lines, "\n")
}
