package cmd

import (
	"context"
	"log/slog"
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kong/gridctl/internal/build"
	"github.com/kong/gridctl/internal/cmd/root/verbs"
	"github.com/kong/gridctl/internal/config"
	"github.com/kong/gridctl/internal/iostreams"
	"github.com/kong/gridctl/internal/log"
	testConfig "github.com/kong/gridctl/test/config"
)

func helperWith(ctx context.Context) *CommandHelper {
	c := &cobra.Command{Use: "test"}
	c.SetContext(ctx)
	return &CommandHelper{Cmd: c}
}

func TestHelperReadsContext(t *testing.T) {
	streams, _, _, _ := iostreams.NewTestIOStreams()
	cfg := &testConfig.MockConfigHook{
		GetStringMock: func(string) string { return "yaml" },
	}
	logger := slog.New(slog.DiscardHandler)
	info := &build.Info{Version: "1.2.3"}

	ctx := context.WithValue(context.Background(), config.ConfigKey, config.Hook(cfg))
	ctx = context.WithValue(ctx, iostreams.StreamsKey, &streams)
	ctx = context.WithValue(ctx, log.LoggerKey, logger)
	ctx = context.WithValue(ctx, build.InfoKey, info)
	ctx = context.WithValue(ctx, verbs.Verb, verbs.Delete)
	h := helperWith(ctx)

	gotCfg, err := h.GetConfig()
	require.NoError(t, err)
	assert.Same(t, cfg, gotCfg)

	format, err := h.GetOutputFormat()
	require.NoError(t, err)
	assert.Equal(t, "yaml", format.String())

	gotLogger, err := h.GetLogger()
	require.NoError(t, err)
	assert.Same(t, logger, gotLogger)

	gotInfo, err := h.GetBuildInfo()
	require.NoError(t, err)
	assert.Equal(t, "1.2.3", gotInfo.Version)

	verb, err := h.GetVerb()
	require.NoError(t, err)
	assert.Equal(t, verbs.Delete, verb)

	assert.Same(t, &streams, h.GetStreams())
}

func TestHelperMissingContextValues(t *testing.T) {
	h := helperWith(context.Background())

	var cfgErr *ConfigurationError
	_, err := h.GetConfig()
	require.ErrorAs(t, err, &cfgErr)
	assert.EqualError(t, err, "no config configured")

	_, err = h.GetLogger()
	require.ErrorAs(t, err, &cfgErr)

	_, err = h.GetVerb()
	require.ErrorAs(t, err, &cfgErr)

	assert.Nil(t, h.GetStreams())
}

func TestHelperRejectsWrongType(t *testing.T) {
	ctx := context.WithValue(context.Background(), log.LoggerKey, "not a logger")
	_, err := helperWith(ctx).GetLogger()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid logger configured: string")

	ctx = context.WithValue(context.Background(), build.InfoKey, (*build.Info)(nil))
	_, err = helperWith(ctx).GetBuildInfo()
	require.EqualError(t, err, "invalid build info configured")
}
