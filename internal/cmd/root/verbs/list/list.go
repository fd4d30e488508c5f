package list

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/kong/gridctl/internal/cmd/root/pagecmd"
	profileCmd "github.com/kong/gridctl/internal/cmd/root/profile"
	"github.com/kong/gridctl/internal/cmd/root/verbs"
	"github.com/kong/gridctl/internal/meta"
	"github.com/kong/gridctl/internal/pages"
	"github.com/kong/gridctl/internal/util/i18n"
	"github.com/kong/gridctl/internal/util/normalizers"
)

const (
	Verb = verbs.List
)

var (
	listUse = Verb.String()

	listShort = i18n.T("root.verbs.list.listShort", "Browse a page of records")

	listLong = normalizers.LongDesc(i18n.T("root.verbs.list.listLong",
		`Use list to show the records of a page as a table.

Each page reads its records from a data file, the configured data directory,
the bundled sample or the SQLite store (--remote). With --interactive the
page opens in a terminal view with search, column filters, sorting,
pagination and the view, edit and delete dialogs.
Output can be formatted in multiple ways to aid in further processing.`))

	listExamples = normalizers.Examples(i18n.T("root.verbs.list.listExamples",
		fmt.Sprintf(`
		# Browse users interactively
		%[1]s list users -i
		# Show the users as cards
		%[1]s list users -i --view grid
		# Print the audit logs as JSON
		%[1]s list auditlogs -o json
		# List the available color themes
		%[1]s list themes
		`, meta.CLIName)))
)

func NewListCmd() (*cobra.Command, error) {
	cmd := &cobra.Command{
		Use:     listUse,
		Short:   listShort,
		Long:    listLong,
		Example: listExamples,
		Aliases: []string{"ls", "l"},
		PersistentPreRun: func(cmd *cobra.Command, _ []string) {
			cmd.SetContext(context.WithValue(cmd.Context(), verbs.Verb, Verb))
		},
	}

	for _, name := range pages.Names() {
		page, _ := pages.Lookup(name)
		cmd.AddCommand(pagecmd.NewListPageCmd(page))
	}
	cmd.AddCommand(newThemesCmd())
	cmd.AddCommand(profileCmd.NewProfileCmd())

	return cmd, nil
}
