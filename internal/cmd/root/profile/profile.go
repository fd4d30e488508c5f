package profile

import (
	"fmt"
	"sort"

	"github.com/segmentio/cli"
	"github.com/spf13/cobra"

	"github.com/kong/gridctl/internal/cmd"
	"github.com/kong/gridctl/internal/cmd/root/verbs"
	"github.com/kong/gridctl/internal/profile"
	"github.com/kong/gridctl/internal/util/i18n"
	"github.com/kong/gridctl/internal/util/normalizers"
)

var (
	profileUse   = "profiles"
	profileShort = i18n.T("root.profile.profileShort", "Show the configured profiles")
	profileLong  = normalizers.LongDesc(i18n.T("root.profile.profileLong",
		`The profiles command lists the profiles of the configuration file and
marks the one in use.`))
)

// profileRecord is one line of output.
type profileRecord struct {
	Name   string `json:"name"   yaml:"name"`
	Active bool   `json:"active" yaml:"active"`
}

func NewProfileCmd() *cobra.Command {
	rv := &cobra.Command{
		Use:     profileUse,
		Short:   profileShort,
		Long:    profileLong,
		Aliases: []string{"profile"},
		Args:    cobra.NoArgs,
		RunE: func(c *cobra.Command, args []string) error {
			helper := cmd.BuildHelper(c, args)
			mgr, ok := c.Context().Value(profile.ProfileManagerKey).(profile.Manager)
			if !ok || mgr == nil {
				return &cmd.ConfigurationError{Err: fmt.Errorf("no profile manager configured")}
			}
			return run(helper, mgr)
		},
	}
	return rv
}

func run(helper cmd.Helper, mgr profile.Manager) error {
	v, err := helper.GetVerb()
	if err != nil {
		return err
	}
	if v != verbs.Get && v != verbs.List {
		return fmt.Errorf("command %s does not support %s", profileUse, v)
	}

	cfg, err := helper.GetConfig()
	if err != nil {
		return err
	}
	outType, err := helper.GetOutputFormat()
	if err != nil {
		return &cmd.ExecutionError{
			Err: err,
		}
	}

	p, err := cli.Format(outType.String(), helper.GetStreams().Out)
	if err != nil {
		return err
	}
	defer p.Flush()

	p.Print(profileRecords(mgr.GetProfiles(), cfg.GetProfile()))
	return nil
}

// profileRecords sorts the profile names and marks active. The active
// profile is listed even when the file does not define it yet.
func profileRecords(names []string, active string) []profileRecord {
	found := false
	for _, n := range names {
		if n == active {
			found = true
			break
		}
	}
	if !found && active != "" {
		names = append(names, active)
	}
	sort.Strings(names)

	out := make([]profileRecord, 0, len(names))
	for _, n := range names {
		out = append(out, profileRecord{Name: n, Active: n == active})
	}
	return out
}
