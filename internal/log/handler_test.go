package log

import (
	"bytes"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDualHandlerMirrorsErrorsToSecondary(t *testing.T) {
	t.Cleanup(EnableErrorMirroring)
	EnableErrorMirroring()

	var primaryBuf, secondaryBuf bytes.Buffer
	primary := slog.NewTextHandler(&primaryBuf, &slog.HandlerOptions{Level: slog.LevelInfo})
	secondary := slog.NewTextHandler(&secondaryBuf, &slog.HandlerOptions{Level: slog.LevelError})
	logger := slog.New(NewDualHandler(primary, secondary))

	logger.Error("boom", slog.String("foo", "bar"))
	logger.Info("still going")

	assert.Contains(t, primaryBuf.String(), "boom")
	assert.Contains(t, primaryBuf.String(), "still going")
	assert.Contains(t, secondaryBuf.String(), "boom")
	assert.NotContains(t, secondaryBuf.String(), "still going")
}

func TestDualHandlerCanDisableMirroring(t *testing.T) {
	t.Cleanup(EnableErrorMirroring)
	DisableErrorMirroring()

	var primaryBuf, secondaryBuf bytes.Buffer
	primary := slog.NewTextHandler(&primaryBuf, &slog.HandlerOptions{Level: slog.LevelInfo})
	secondary := slog.NewTextHandler(&secondaryBuf, &slog.HandlerOptions{Level: slog.LevelError})
	logger := slog.New(NewDualHandler(primary, secondary))

	logger.Error("boom")

	assert.Contains(t, primaryBuf.String(), "boom")
	assert.Empty(t, secondaryBuf.String())
}

func TestDualHandlerWithoutPrimary(t *testing.T) {
	t.Cleanup(EnableErrorMirroring)
	EnableErrorMirroring()

	var console bytes.Buffer
	logger := slog.New(NewDualHandler(nil, NewFriendlyErrorHandler(&console))).With("page", "users")

	logger.Info("ignored")
	logger.Error("bulk delete failed", "error", "2 rows failed", "suggestion", "retry with --store")

	assert.Equal(t,
		"Error: bulk delete failed\n  suggestion: retry with --store\n  page: users\n",
		console.String())
}

func TestFriendlyHandlerFallsBackToErrorAttr(t *testing.T) {
	var console bytes.Buffer
	logger := slog.New(NewFriendlyErrorHandler(&console)).WithGroup("store")

	logger.Error("", "detail", "line one\nline two")

	assert.Equal(t, "Error: an unknown error occurred\n  store.detail: line one\n    line two\n", console.String())
}

func TestNewWritesLogFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logs", "gridctl.log")

	logger, closer, err := New(Options{Level: "trace", File: path})
	require.NoError(t, err)

	logger.Log(t.Context(), LevelTrace, "keystroke", "key", "j")
	logger.Debug("page loaded")
	require.NoError(t, closer.Close())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "level=TRACE")
	assert.Contains(t, string(data), "page loaded")
}

func TestConfigLevelStringToSlogLevel(t *testing.T) {
	assert.Equal(t, LevelTrace, ConfigLevelStringToSlogLevel("TRACE"))
	assert.Equal(t, slog.LevelWarn, ConfigLevelStringToSlogLevel(" warn "))
	assert.Equal(t, slog.LevelError, ConfigLevelStringToSlogLevel("bogus"))
}
