package pagecmd

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/segmentio/cli"
	"github.com/spf13/cobra"

	cmdpkg "github.com/kong/gridctl/internal/cmd"
	cmdcommon "github.com/kong/gridctl/internal/cmd/common"
	"github.com/kong/gridctl/internal/config"
	"github.com/kong/gridctl/internal/datagrid"
	"github.com/kong/gridctl/internal/meta"
	"github.com/kong/gridctl/internal/pages"
	"github.com/kong/gridctl/internal/source/sqlite"
	"github.com/kong/gridctl/internal/util/i18n"
	"github.com/kong/gridctl/internal/util/normalizers"
)

// ErrRecordNotFound is returned when no record of a page has the requested id.
var ErrRecordNotFound = errors.New("record not found")

// fieldRecord is one line of the text output of get.
type fieldRecord struct {
	Field string
	Value string
}

// NewGetPageCmd returns the get command of one page.
func NewGetPageCmd(page pages.Page) *cobra.Command {
	singular := strings.TrimSuffix(strings.ToLower(page.Title), "s")
	c := &cobra.Command{
		Use:     page.Name + " <id>",
		Aliases: page.Aliases,
		Short: i18n.T("root.verbs.get."+page.Name+"Short",
			fmt.Sprintf("Show one %s", singular)),
		Long: normalizers.LongDesc(i18n.T("root.verbs.get."+page.Name+"Long",
			fmt.Sprintf(`Show every field of one %s, looked up by id.`, singular))),
		Example: normalizers.Examples(i18n.T("root.verbs.get."+page.Name+"Examples",
			fmt.Sprintf(`
			# Show the %[2]s with id 1
			%[1]s get %[2]s 1
			# Read it from the SQLite store as YAML
			%[1]s get %[2]s 1 --remote -o yaml
			`, meta.CLIName, page.Name))),
		Args:    cobra.ExactArgs(1),
		PreRunE: bindFlags,
		RunE: func(c *cobra.Command, args []string) error {
			return runGet(cmdpkg.BuildHelper(c, args), page, args[0])
		},
	}
	addSourceFlags(c.Flags())
	addRemoteFlag(c.Flags())
	return c
}

func runGet(helper cmdpkg.Helper, page pages.Page, id string) error {
	cfg, err := helper.GetConfig()
	if err != nil {
		return err
	}
	logger, err := helper.GetLogger()
	if err != nil {
		return err
	}
	outType, err := helper.GetOutputFormat()
	if err != nil {
		return err
	}

	rec, err := lookupRecord(helper.GetContext(), helper.GetCmd(), cfg, page, strings.TrimSpace(id), logger)
	if err != nil {
		return cmdpkg.PrepareExecutionErrorWithHelper(helper, "unable to get "+page.Name, err, "id", id)
	}

	printer, err := cli.Format(outType.String(), helper.GetStreams().Out)
	if err != nil {
		return err
	}
	defer printer.Flush()

	if outType != cmdcommon.TEXT {
		printer.Print(map[string]any(rec))
		return nil
	}
	printer.Print(fieldRecords(page.FieldSchema(), rec))
	return nil
}

// lookupRecord finds the record with id in the store when --remote is set,
// otherwise in the page's data source.
func lookupRecord(
	ctx context.Context,
	c *cobra.Command,
	cfg config.Hook,
	page pages.Page,
	id string,
	logger *slog.Logger,
) (datagrid.Record, error) {
	if cfg.GetBool(cmdcommon.TableRemoteConfigPath) {
		store, err := openStore(cfg, logger)
		if err != nil {
			return nil, err
		}
		defer store.Close()
		rec, err := store.Get(ctx, page.Name, id)
		if errors.Is(err, sqlite.ErrNotFound) {
			return nil, fmt.Errorf("%s %q: %w", page.Name, id, ErrRecordNotFound)
		}
		return rec, err
	}

	src, err := resolveSource(c, cfg, page)
	if err != nil {
		return nil, err
	}
	records, err := src.load()
	if err != nil {
		return nil, err
	}
	for _, rec := range records {
		if rec.RowID() == id {
			return rec, nil
		}
	}
	return nil, fmt.Errorf("%s %q in %s: %w", page.Name, id, src, ErrRecordNotFound)
}

// fieldRecords lists the schema fields of rec followed by any top level key
// the schema does not name.
func fieldRecords(schema datagrid.Schema, rec datagrid.Record) []fieldRecord {
	out := make([]fieldRecord, 0, len(rec))
	seen := make(map[string]struct{}, len(schema))
	for _, fv := range schema.ViewFields(rec) {
		seen[fv.Key] = struct{}{}
		out = append(out, fieldRecord{Field: fv.Label, Value: displayValue(fv.Value)})
	}
	for _, key := range rec.Keys() {
		if _, ok := seen[key]; ok {
			continue
		}
		out = append(out, fieldRecord{Field: datagrid.HumanizeKey(key), Value: displayValue(rec[key])})
	}
	return out
}

func displayValue(v any) string {
	if v == nil {
		return datagrid.Placeholder
	}
	s := strings.Join(strings.Fields(datagrid.Stringify(v)), " ")
	if s == "" {
		return datagrid.Placeholder
	}
	return s
}
