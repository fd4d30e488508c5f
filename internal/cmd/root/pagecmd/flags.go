// Package pagecmd builds the per-page commands (list, get, delete, seed)
// shared by the verb packages.
package pagecmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	cmdpkg "github.com/kong/gridctl/internal/cmd"
	cmdcommon "github.com/kong/gridctl/internal/cmd/common"
	"github.com/kong/gridctl/internal/config"
	"github.com/kong/gridctl/internal/datagrid"
)

const (
	FileFlagName   = "file"
	FileFlagShort  = "f"
	SelectFlagName = "select"
	WatchFlagName  = "watch"
	StateFlagName  = "state"
)

// addSourceFlags registers the flags choosing where page records come from.
func addSourceFlags(flags *pflag.FlagSet) {
	flags.StringP(FileFlagName, FileFlagShort, "",
		fmt.Sprintf(`JSON or YAML file holding the page records.
Without it, <%s>/<page>.yaml is used when present, then the bundled sample.`,
			cmdcommon.DataDirConfigPath))
	flags.String(SelectFlagName, "",
		"jq expression selecting the records inside the file (e.g. '.payload.users')")
	flags.String(cmdcommon.DataDirFlagName, "",
		fmt.Sprintf(`Directory searched for <page>.yaml, <page>.yml or <page>.json.
- Config path: [ %s ]`, cmdcommon.DataDirConfigPath))
	flags.String(cmdcommon.StorePathFlagName, "",
		fmt.Sprintf(`Path of the SQLite store used for remote pages.
- Config path: [ %s ]`, cmdcommon.StorePathConfigPath))
}

// addListFlags registers the table flags of the list command.
func addListFlags(flags *pflag.FlagSet) {
	addSourceFlags(flags)

	flags.Int(cmdcommon.PageSizeFlagName, datagrid.DefaultPageSize,
		fmt.Sprintf(`Rows per page.
- Config path: [ %s ]
- Menu       : [ %s ]`, cmdcommon.TablePageSizeConfigPath, pageSizeMenu()))

	view := cmdpkg.NewEnum([]string{"list", "grid"}, cmdcommon.DefaultTableView)
	flags.Var(view, cmdcommon.ViewFlagName,
		fmt.Sprintf(`Initial layout of the rows.
- Config path: [ %s ]
- Allowed    : [ list|grid ]`, cmdcommon.TableViewConfigPath))

	addRemoteFlag(flags)

	flags.String(cmdcommon.DebounceFlagName, cmdcommon.DefaultDebounce,
		fmt.Sprintf(`Delay between the last search keystroke and a remote fetch.
- Config path: [ %s ]`, cmdcommon.TableDebounceConfigPath))

	flags.Bool(WatchFlagName, false, "Reload the rows whenever the data file changes")
	flags.String(StateFlagName, "",
		"Restore a shared list state, e.g. 'q=bob&sort=name+desc&page=2&size=20'")
	flags.BoolP(cmdcommon.InteractiveFlagName, cmdcommon.InteractiveFlagShort, false,
		"Browse the page in the interactive table view")
}

// addRemoteFlag registers --remote, which reads the page from the SQLite
// store instead of the data file.
func addRemoteFlag(flags *pflag.FlagSet) {
	flags.Bool(cmdcommon.RemoteFlagName, false,
		fmt.Sprintf(`Serve the page from the SQLite store: filtering, sorting and paging run
in the store and the view only shows the requested page.
- Config path: [ %s ]`, cmdcommon.TableRemoteConfigPath))
}

func pageSizeMenu() string {
	parts := make([]string, 0, len(datagrid.PageSizes))
	for _, s := range datagrid.PageSizes {
		parts = append(parts, fmt.Sprint(s))
	}
	return strings.Join(parts, "|")
}

// bindFlags binds every flag of c that has a config path.
func bindFlags(c *cobra.Command, args []string) error {
	helper := cmdpkg.BuildHelper(c, args)
	cfg, err := helper.GetConfig()
	if err != nil {
		return err
	}
	return bindFlagSet(cfg, c.Flags())
}

func bindFlagSet(cfg config.Hook, flags *pflag.FlagSet) error {
	bindings := []struct{ flag, cfgPath string }{
		{cmdcommon.DataDirFlagName, cmdcommon.DataDirConfigPath},
		{cmdcommon.StorePathFlagName, cmdcommon.StorePathConfigPath},
		{cmdcommon.PageSizeFlagName, cmdcommon.TablePageSizeConfigPath},
		{cmdcommon.ViewFlagName, cmdcommon.TableViewConfigPath},
		{cmdcommon.RemoteFlagName, cmdcommon.TableRemoteConfigPath},
		{cmdcommon.DebounceFlagName, cmdcommon.TableDebounceConfigPath},
	}
	for _, b := range bindings {
		f := flags.Lookup(b.flag)
		if f == nil {
			continue
		}
		if err := cfg.BindFlag(b.cfgPath, f); err != nil {
			return err
		}
	}
	return nil
}
