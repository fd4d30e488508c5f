package get

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
	Verb = verbs.Get
)

var (
	getUse = Verb.String()

	getShort = i18n.T("root.verbs.get.getShort", "Show one record")

	getLong = normalizers.LongDesc(i18n.T("root.verbs.get.getLong",
		`Use get to show every field of one record, looked up by id.

A page sub-command is required. The record is read from the page data or,
with --remote, from the SQLite store.
Output can be formatted in multiple ways to aid in further processing.`))

	getExamples = normalizers.Examples(i18n.T("root.verbs.get.getExamples",
		fmt.Sprintf(`
		# Show the user with id 1
		%[1]s get users 1
		# Show one audit log entry as JSON
		%[1]s get auditlogs 3f1c2a9e-8b7d-4c1a-9e2f-0a1b2c3d4e5f -o json
		`, meta.CLIName)))
)

func NewGetCmd() (*cobra.Command, error) {
	cmd := &cobra.Command{
		Use:     getUse,
		Short:   getShort,
		Long:    getLong,
		Example: getExamples,
		Aliases: []string{"g", "G"},
		PersistentPreRun: func(cmd *cobra.Command, _ []string) {
			cmd.SetContext(context.WithValue(cmd.Context(), verbs.Verb, Verb))
		},
	}

	for _, name := range pages.Names() {
		page, _ := pages.Lookup(name)
		cmd.AddCommand(pagecmd.NewGetPageCmd(page))
	}
	cmd.AddCommand(profileCmd.NewProfileCmd())

	return cmd, nil
}
