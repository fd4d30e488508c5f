package seed

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/kong/gridctl/internal/cmd/root/pagecmd"
	"github.com/kong/gridctl/internal/cmd/root/verbs"
	"github.com/kong/gridctl/internal/meta"
	"github.com/kong/gridctl/internal/pages"
	"github.com/kong/gridctl/internal/util/i18n"
	"github.com/kong/gridctl/internal/util/normalizers"
)

const (
	Verb = verbs.Seed
)

var (
	seedUse = Verb.String()

	seedShort = i18n.T("root.verbs.seed.seedShort", "Load records into the store")

	seedLong = normalizers.LongDesc(i18n.T("root.verbs.seed.seedLong",
		`Use seed to copy page records from a data file or the bundled sample
into the SQLite store read by list --remote.`))

	seedExamples = normalizers.Examples(i18n.T("root.verbs.seed.seedExamples",
		fmt.Sprintf(`
		# Load the bundled users sample
		%[1]s seed users
		# Replace the stored roles with a local file
		%[1]s seed roles ./roles.yaml --replace
		`, meta.CLIName)))
)

func NewSeedCmd() (*cobra.Command, error) {
	cmd := &cobra.Command{
		Use:     seedUse,
		Short:   seedShort,
		Long:    seedLong,
		Example: seedExamples,
		PersistentPreRun: func(cmd *cobra.Command, _ []string) {
			cmd.SetContext(context.WithValue(cmd.Context(), verbs.Verb, Verb))
		},
	}

	for _, name := range pages.Names() {
		page, _ := pages.Lookup(name)
		cmd.AddCommand(pagecmd.NewSeedPageCmd(page))
	}

	return cmd, nil
}
