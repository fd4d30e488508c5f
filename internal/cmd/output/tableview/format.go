package tableview

import (
	"fmt"

	"github.com/segmentio/cli"

	cmdpkg "github.com/kong/gridctl/internal/cmd"
	cmdcommon "github.com/kong/gridctl/internal/cmd/common"
	jqoutput "github.com/kong/gridctl/internal/cmd/output/jq"
	"github.com/kong/gridctl/internal/datagrid"
)

// RenderForFormat shows tbl the way the command was asked to: the interactive
// view, a static text page, or the visible rows as json or yaml records
// through printer. A --jq filter applies to the records only.
func RenderForFormat(
	helper cmdpkg.Helper,
	interactive bool,
	outType cmdcommon.OutputFormat,
	printer cli.PrintFlusher,
	tbl *datagrid.Table,
	opts ...Option,
) error {
	streams := helper.GetStreams()
	// The command context carries the active palette. Later options win.
	opts = append([]Option{WithContext(helper.GetContext())}, opts...)

	cfg, err := helper.GetConfig()
	if err != nil {
		return err
	}
	settings, err := jqoutput.ResolveSettings(helper.GetCmd(), cfg)
	if err != nil {
		return err
	}
	if jqoutput.HasFilter(settings) && interactive {
		return &cmdpkg.ConfigurationError{
			Err: fmt.Errorf("--%s is not supported for interactive output; use --output json or --output yaml",
				jqoutput.FlagName),
		}
	}
	if err := jqoutput.ValidateOutputFormat(outType, settings); err != nil {
		return err
	}

	if interactive {
		return Render(streams, tbl, opts...)
	}

	switch outType {
	case cmdcommon.TEXT:
		width, _, _ := resolveTerminal(streams.Out)
		return RenderStatic(streams.Out, tbl, width, opts...)
	case cmdcommon.JSON, cmdcommon.YAML:
		var raw any = Records(tbl)
		if jqoutput.HasFilter(settings) {
			filtered, handled, err := jqoutput.ApplyToRaw(raw, outType, settings, streams.Out)
			if err != nil {
				return cmdpkg.PrepareExecutionErrorWithHelper(helper, "jq filter failed", err)
			}
			if handled {
				return nil
			}
			raw = filtered
		}
		if printer != nil {
			printer.Print(raw)
		}
		return nil
	default:
		return fmt.Errorf("tableview: unsupported output format %s", outType.String())
	}
}

// Records returns the visible rows as plain maps keyed by data column id,
// holding raw values. Synthetic columns are left out.
func Records(tbl *datagrid.Table) []map[string]any {
	cols := tbl.DataColumns()
	rows := tbl.Visible()
	out := make([]map[string]any, 0, len(rows))
	for _, row := range rows {
		rec := make(map[string]any, len(cols))
		for _, c := range cols {
			rec[c.ID] = c.Value(row)
		}
		out = append(out, rec)
	}
	return out
}
