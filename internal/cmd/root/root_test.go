package root

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kong/gridctl/internal/cmd"
	"github.com/kong/gridctl/internal/cmd/common"
	"github.com/kong/gridctl/internal/theme"
	testConfig "github.com/kong/gridctl/test/config"
)

func configWith(values map[string]string) *testConfig.MockConfigHook {
	return &testConfig.MockConfigHook{
		GetStringMock: func(key string) string { return values[key] },
		IsSetMock: func(key string) bool {
			_, ok := values[key]
			return ok
		},
	}
}

func TestResolveLogLevel(t *testing.T) {
	tests := []struct {
		raw  string
		want common.LogLevel
	}{
		{"", common.INFO},
		{"trace", common.TRACE},
		{" DEBUG ", common.DEBUG},
		{"error", common.ERROR},
	}
	for _, tt := range tests {
		level, err := resolveLogLevel(configWith(map[string]string{common.LogLevelConfigPath: tt.raw}))
		require.NoError(t, err, tt.raw)
		assert.Equal(t, tt.want, level, tt.raw)
	}

	_, err := resolveLogLevel(configWith(map[string]string{common.LogLevelConfigPath: "verbose"}))
	var cfgErr *cmd.ConfigurationError
	require.ErrorAs(t, err, &cfgErr)
	assert.Contains(t, err.Error(), `invalid log level "verbose"`)
}

func TestApplyTheme(t *testing.T) {
	prev := theme.CurrentName()
	t.Cleanup(func() {
		require.NoError(t, theme.SetCurrent(prev))
		theme.SetConfiguredExplicitly(false)
	})

	require.NoError(t, applyTheme(configWith(map[string]string{common.ColorThemeConfigPath: "nord"})))
	assert.Equal(t, "nord", theme.CurrentName())
	assert.True(t, theme.IsConfiguredExplicitly())

	require.NoError(t, applyTheme(configWith(nil)))
	assert.Equal(t, theme.DefaultName, theme.CurrentName())
	assert.False(t, theme.IsConfiguredExplicitly())

	var cfgErr *cmd.ConfigurationError
	require.ErrorAs(t, applyTheme(configWith(map[string]string{common.ColorThemeConfigPath: "neon"})), &cfgErr)
}
