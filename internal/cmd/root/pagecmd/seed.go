package pagecmd

import (
	"fmt"
	"strings"

	"github.com/segmentio/cli"
	"github.com/spf13/cobra"

	cmdpkg "github.com/kong/gridctl/internal/cmd"
	cmdcommon "github.com/kong/gridctl/internal/cmd/common"
	"github.com/kong/gridctl/internal/meta"
	"github.com/kong/gridctl/internal/pages"
	"github.com/kong/gridctl/internal/util"
	"github.com/kong/gridctl/internal/util/i18n"
	"github.com/kong/gridctl/internal/util/normalizers"
)

const ReplaceFlagName = "replace"

type seedResult struct {
	Page    string `json:"page" yaml:"page"`
	Source  string `json:"source" yaml:"source"`
	Records int    `json:"records" yaml:"records"`
	Total   int    `json:"total" yaml:"total"`
}

// NewSeedPageCmd returns the seed command of one page.
func NewSeedPageCmd(page pages.Page) *cobra.Command {
	c := &cobra.Command{
		Use:     page.Name + " [file]",
		Aliases: page.Aliases,
		Short: i18n.T("root.verbs.seed."+page.Name+"Short",
			fmt.Sprintf("Load %s into the store", strings.ToLower(page.Title))),
		Long: normalizers.LongDesc(i18n.T("root.verbs.seed."+page.Name+"Long",
			fmt.Sprintf(`Load %[1]s into the SQLite store used by --remote.

Records are read from the file argument, --file, the data directory or the
bundled sample, in that order. Existing records with the same id are
updated in place; --replace removes every other %[1]s record first.`, strings.ToLower(page.Title)))),
		Example: normalizers.Examples(i18n.T("root.verbs.seed."+page.Name+"Examples",
			fmt.Sprintf(`
			# Load the bundled %[2]s sample
			%[1]s seed %[2]s
			# Replace the stored %[2]s with the records of an API response
			%[1]s seed %[2]s ./response.json --select '.data' --replace
			`, meta.CLIName, page.Name))),
		Args:    cobra.MaximumNArgs(1),
		PreRunE: bindFlags,
		RunE: func(c *cobra.Command, args []string) error {
			return runSeed(cmdpkg.BuildHelper(c, args), page, args)
		},
	}
	addSourceFlags(c.Flags())
	c.Flags().Bool(ReplaceFlagName, false,
		"Delete the page's stored records that are not in the source")
	return c
}

func runSeed(helper cmdpkg.Helper, page pages.Page, args []string) error {
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
	replace, err := helper.GetCmd().Flags().GetBool(ReplaceFlagName)
	if err != nil {
		return err
	}
	logger = logger.With("page", page.Name)

	src, err := resolveSource(helper.GetCmd(), cfg, page)
	if err != nil {
		return cmdpkg.PrepareExecutionErrorWithHelper(helper, "unable to locate page data", err)
	}
	if len(args) == 1 && strings.TrimSpace(args[0]) != "" {
		src.path = util.ExpandPath(strings.TrimSpace(args[0]))
	}
	records, err := src.load()
	if err != nil {
		return cmdpkg.PrepareExecutionErrorWithHelper(helper, "unable to read "+src.String(), err)
	}

	store, err := openStore(cfg, logger)
	if err != nil {
		return cmdpkg.PrepareExecutionErrorWithHelper(helper, "unable to open store", err)
	}
	defer store.Close()

	ctx := helper.GetContext()
	n, err := store.Seed(ctx, page.Name, records, replace)
	if err != nil {
		return cmdpkg.PrepareExecutionErrorWithHelper(helper, "unable to seed "+page.Name, err)
	}
	total, err := store.Count(ctx, page.Name)
	if err != nil {
		return cmdpkg.PrepareExecutionErrorWithHelper(helper, "unable to count "+page.Name, err)
	}
	logger.Info("seeded store", "source", src.String(), "records", n, "replace", replace)

	res := seedResult{Page: page.Name, Source: src.String(), Records: n, Total: total}
	if outType == cmdcommon.TEXT {
		fmt.Fprintf(helper.GetStreams().Out, "Seeded %d %s from %s (%d stored)\n",
			res.Records, strings.ToLower(page.Title), res.Source, res.Total)
		return nil
	}
	printer, err := cli.Format(outType.String(), helper.GetStreams().Out)
	if err != nil {
		return err
	}
	defer printer.Flush()
	printer.Print(res)
	return nil
}
