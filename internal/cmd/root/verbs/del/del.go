package del

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	cmdpkg "github.com/kong/gridctl/internal/cmd"
	"github.com/kong/gridctl/internal/cmd/root/pagecmd"
	"github.com/kong/gridctl/internal/cmd/root/verbs"
	"github.com/kong/gridctl/internal/meta"
	"github.com/kong/gridctl/internal/pages"
	"github.com/kong/gridctl/internal/util/i18n"
	"github.com/kong/gridctl/internal/util/normalizers"
)

const (
	Verb = verbs.Delete

	ApproveFlagName = "approve"
)

var (
	deleteuse = Verb.String()

	deleteShort = i18n.T("root.verbs.delete.deleteShort", "Delete records from the store")

	deleteLong = normalizers.LongDesc(i18n.T("root.verbs.delete.deleteLong",
		`Use delete to remove records from the SQLite store by id.

A page sub-command is required. You are asked to confirm unless --approve
is given. Data files are never rewritten.`))

	deleteExamples = normalizers.Examples(i18n.T("root.verbs.delete.deleteExamples",
		fmt.Sprintf(`
		# Delete the user with id 2
		%[1]s delete users 2
		# Delete several feedback entries without a prompt
		%[1]s delete feedback f-1,f-2 --approve
		`, meta.CLIName)))
)

func NewDeleteCmd() (*cobra.Command, error) {
	var autoApprove bool

	cmd := &cobra.Command{
		Use:     deleteuse,
		Short:   deleteShort,
		Long:    deleteLong,
		Example: deleteExamples,
		Aliases: []string{"d", "D", "del", "rm", "DEL", "RM"},
		PersistentPreRunE: func(c *cobra.Command, _ []string) error {
			ctx := c.Context()
			if ctx == nil {
				ctx = context.Background()
			}
			c.SetContext(context.WithValue(ctx, verbs.Verb, Verb))
			cmdpkg.SetDeleteAutoApprove(c, autoApprove)
			return nil
		},
	}

	cmd.PersistentFlags().BoolVar(&autoApprove, ApproveFlagName, false,
		"Skip confirmation prompts for delete operations (not configurable)")

	for _, name := range pages.Names() {
		page, _ := pages.Lookup(name)
		cmd.AddCommand(pagecmd.NewDeletePageCmd(page))
	}

	return cmd, nil
}
