package version

import (
	"encoding/json"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kong/gridctl/internal/build"
	"github.com/kong/gridctl/internal/cmd/common"
	"github.com/kong/gridctl/internal/config"
	"github.com/kong/gridctl/internal/iostreams"
	"github.com/kong/gridctl/test/cmd"
	testConfig "github.com/kong/gridctl/test/config"
)

func newHelper(outType common.OutputFormat, showCommit bool, streams *iostreams.IOStreams) *cmd.MockHelper {
	return &cmd.MockHelper{
		GetOutputFormatMock: func() (common.OutputFormat, error) {
			return outType, nil
		},
		GetConfigMock: func() (config.Hook, error) {
			return &testConfig.MockConfigHook{
				GetBoolMock: func(key string) bool {
					return key == ShowCommitConfigPath && showCommit
				},
			}, nil
		},
		GetStreamsMock: func() *iostreams.IOStreams {
			return streams
		},
		GetLoggerMock: func() (*slog.Logger, error) {
			return slog.New(slog.NewTextHandler(io.Discard, nil)), nil
		},
		GetBuildInfoMock: func() (*build.Info, error) {
			return &build.Info{
				Version: "dev",
				Commit:  "abc123",
				Date:    "unknown",
			}, nil
		},
	}
}

func TestVersionText(t *testing.T) {
	streams, _, out, _ := iostreams.NewTestIOStreams()

	require.NoError(t, run(newHelper(common.TEXT, false, &streams)))
	assert.Equal(t, "dev\n", out.String())
}

func TestVersionTextWithCommit(t *testing.T) {
	streams, _, out, _ := iostreams.NewTestIOStreams()

	require.NoError(t, run(newHelper(common.TEXT, true, &streams)))
	assert.Equal(t, "dev (abc123)\n", out.String())
}

func TestVersionJSON(t *testing.T) {
	streams, _, out, _ := iostreams.NewTestIOStreams()

	require.NoError(t, run(newHelper(common.JSON, true, &streams)))

	var got map[string]string
	require.NoError(t, json.Unmarshal(out.Bytes(), &got))
	assert.Equal(t, map[string]string{"version": "dev", "commit": "abc123"}, got)
}
