package list

import (
	"context"
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/require"

	cmdcommon "github.com/kong/gridctl/internal/cmd/common"
	"github.com/kong/gridctl/internal/config"
	"github.com/kong/gridctl/internal/datagrid"
	"github.com/kong/gridctl/internal/iostreams"
	"github.com/kong/gridctl/internal/theme"
	testCmd "github.com/kong/gridctl/test/cmd"
	testConfig "github.com/kong/gridctl/test/config"
)

func useTheme(t *testing.T, name string, explicit bool) {
	t.Helper()
	prev, prevExplicit := theme.CurrentName(), theme.IsConfiguredExplicitly()
	t.Cleanup(func() {
		require.NoError(t, theme.SetCurrent(prev))
		theme.SetConfiguredExplicitly(prevExplicit)
	})
	require.NoError(t, theme.SetCurrent(name))
	theme.SetConfiguredExplicitly(explicit)
}

func TestThemeRowsMarkActive(t *testing.T) {
	rows := themeRows("nord")
	require.Len(t, rows, len(theme.Available()))

	idCol := themeColumns(false)[0]
	for _, row := range rows {
		rec := row.(datagrid.Record)
		if rec["id"] == "nord" {
			require.Equal(t, true, rec["active"])
			require.Equal(t, "*nord", idCol.Render(row))
		} else {
			require.Equal(t, false, rec["active"])
		}
	}
}

func TestThemesTitle(t *testing.T) {
	require.Equal(t, "Available Themes (active: grid-light, default)", themesTitle("grid-light", false))
	require.Equal(t, "Available Themes (active: nord, configured)", themesTitle("nord", true))
}

func TestRunListThemesText(t *testing.T) {
	useTheme(t, "nord", true)

	streams, _, out, _ := iostreams.NewTestIOStreams()
	c := newThemesCmd()
	c.SetContext(context.Background())
	helper := &testCmd.MockHelper{
		GetCmdMock:          func() *cobra.Command { return c },
		GetArgsMock:         func() []string { return nil },
		GetStreamsMock:      func() *iostreams.IOStreams { return &streams },
		GetConfigMock:       func() (config.Hook, error) { return &testConfig.MockConfigHook{}, nil },
		GetOutputFormatMock: func() (cmdcommon.OutputFormat, error) { return cmdcommon.TEXT, nil },
		IsInteractiveMock:   func() (bool, error) { return false, nil },
	}

	require.NoError(t, runListThemes(helper))
	require.Contains(t, out.String(), "Available Themes (active: nord, configured)")
	require.Contains(t, out.String(), "*nord")
	require.Contains(t, out.String(), "grid-dark")
}
