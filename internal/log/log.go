package log

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/kong/gridctl/internal/util"
)

type Key struct{}

// LoggerKey stores the *slog.Logger on a command context.
var LoggerKey = Key{}

// LevelTrace sits below debug and is used for per-keystroke engine events.
const LevelTrace = slog.LevelDebug - 4

func ConfigLevelStringToSlogLevel(level string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "trace":
		return LevelTrace
	case "debug":
		return slog.LevelDebug
	case "info":
		return slog.LevelInfo
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelError
	}
}

// Options configures New.
type Options struct {
	// Level is one of trace, debug, info, warn or error.
	Level string
	// File receives every record at or above Level. Empty disables the file.
	File string
	// Console receives error records in a short readable form.
	Console io.Writer
}

// New builds the CLI logger. The returned closer releases the log file.
func New(opts Options) (*slog.Logger, io.Closer, error) {
	level := ConfigLevelStringToSlogLevel(opts.Level)
	handlerOpts := &slog.HandlerOptions{
		Level: level,
		ReplaceAttr: func(_ []string, a slog.Attr) slog.Attr {
			if a.Key == slog.LevelKey && a.Value.Any() == LevelTrace {
				a.Value = slog.StringValue("TRACE")
			}
			return a
		},
	}

	var (
		primary slog.Handler
		closer  io.Closer = nopCloser{}
	)
	if opts.File != "" {
		path := os.ExpandEnv(opts.File)
		if err := util.InitDir(path, 0o755); err != nil {
			return nil, nil, fmt.Errorf("create log directory: %w", err)
		}
		f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o600)
		if err != nil {
			return nil, nil, fmt.Errorf("open log file: %w", err)
		}
		primary = slog.NewTextHandler(f, handlerOpts)
		closer = f
	}

	var console slog.Handler
	if opts.Console != nil {
		console = NewFriendlyErrorHandler(opts.Console)
	}
	if primary == nil && console == nil {
		return slog.New(slog.DiscardHandler), closer, nil
	}
	return slog.New(NewDualHandler(primary, console)), closer, nil
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }
