package pagecmd

import (
	"fmt"
	"strings"

	"github.com/segmentio/cli"
	"github.com/spf13/cobra"

	cmdpkg "github.com/kong/gridctl/internal/cmd"
	cmdcommon "github.com/kong/gridctl/internal/cmd/common"
	gridErr "github.com/kong/gridctl/internal/err"
	"github.com/kong/gridctl/internal/meta"
	"github.com/kong/gridctl/internal/pages"
	"github.com/kong/gridctl/internal/util/i18n"
	"github.com/kong/gridctl/internal/util/normalizers"
)

// deleteResult is what delete prints.
type deleteResult struct {
	Page    string   `json:"page" yaml:"page"`
	Deleted []string `json:"deleted" yaml:"deleted"`
}

// NewDeletePageCmd returns the delete command of one page. Records are always
// deleted from the SQLite store; data files are never rewritten.
func NewDeletePageCmd(page pages.Page) *cobra.Command {
	c := &cobra.Command{
		Use:     page.Name + " <id> [id...]",
		Aliases: page.Aliases,
		Short: i18n.T("root.verbs.delete."+page.Name+"Short",
			fmt.Sprintf("Delete %s from the store", strings.ToLower(page.Title))),
		Long: normalizers.LongDesc(i18n.T("root.verbs.delete."+page.Name+"Long",
			fmt.Sprintf(`Delete %[1]s by id from the SQLite store.

The store is seeded from the page data first when it holds no %[1]s yet.
Every id is attempted; the command fails when any of them could not be
deleted.`, strings.ToLower(page.Title)))),
		Example: normalizers.Examples(i18n.T("root.verbs.delete."+page.Name+"Examples",
			fmt.Sprintf(`
			# Delete two %[2]s after confirming
			%[1]s delete %[2]s 1 2
			# Delete without a prompt
			%[1]s delete %[2]s 1 --approve
			`, meta.CLIName, page.Name))),
		Args:    cobra.MinimumNArgs(1),
		PreRunE: bindFlags,
		RunE: func(c *cobra.Command, args []string) error {
			return runDelete(cmdpkg.BuildHelper(c, args), page, args)
		},
	}
	addSourceFlags(c.Flags())
	return c
}

func runDelete(helper cmdpkg.Helper, page pages.Page, args []string) error {
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
	logger = logger.With("page", page.Name)

	ids := uniqueIDs(args)
	if len(ids) == 0 {
		return &cmdpkg.ConfigurationError{Err: fmt.Errorf("at least one %s id is required", page.Name)}
	}

	description := fmt.Sprintf("%d %s: %s", len(ids), strings.ToLower(page.Title), strings.Join(ids, ", "))
	if len(ids) == 1 {
		description = fmt.Sprintf("%s %s", strings.TrimSuffix(strings.ToLower(page.Title), "s"), ids[0])
	}
	if err := cmdpkg.ConfirmDelete(helper, description); err != nil {
		return err
	}

	store, err := openStore(cfg, logger)
	if err != nil {
		return cmdpkg.PrepareExecutionErrorWithHelper(helper, "unable to open store", err)
	}
	defer store.Close()

	ctx := helper.GetContext()
	src, err := resolveSource(helper.GetCmd(), cfg, page)
	if err != nil {
		return cmdpkg.PrepareExecutionErrorWithHelper(helper, "unable to locate page data", err)
	}
	if err := ensureSeeded(ctx, store, src, logger); err != nil {
		return cmdpkg.PrepareExecutionErrorWithHelper(helper, "unable to seed store", err)
	}

	bucket := &gridErr.ErrorsBucket{Msg: fmt.Sprintf("failed to delete %s records:", page.Name)}
	deleted := make([]string, 0, len(ids))
	for _, id := range ids {
		if err := store.Delete(ctx, page.Name, id); err != nil {
			bucket.Add(err)
			continue
		}
		deleted = append(deleted, id)
	}

	switch {
	case len(deleted) == 0:
	case outType == cmdcommon.TEXT:
		fmt.Fprintf(helper.GetStreams().Out, "Deleted %s: %s\n",
			strings.ToLower(page.Title), strings.Join(deleted, ", "))
	default:
		printer, err := cli.Format(outType.String(), helper.GetStreams().Out)
		if err != nil {
			return err
		}
		printer.Print(deleteResult{Page: page.Name, Deleted: deleted})
		printer.Flush()
	}

	if err := bucket.ErrorOrNil(); err != nil {
		return cmdpkg.PrepareExecutionErrorWithHelper(helper, "unable to delete "+page.Name, err)
	}
	return nil
}

func uniqueIDs(args []string) []string {
	seen := make(map[string]struct{}, len(args))
	out := make([]string, 0, len(args))
	for _, a := range args {
		for _, id := range strings.Split(a, ",") {
			id = strings.TrimSpace(id)
			if id == "" {
				continue
			}
			if _, ok := seen[id]; ok {
				continue
			}
			seen[id] = struct{}{}
			out = append(out, id)
		}
	}
	return out
}
