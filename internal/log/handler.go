package log

import (
	"context"
	"log/slog"
	"sync/atomic"
)

// mirrorErrors gates copying error records to the console handler. The
// interactive table turns it off while it owns the terminal.
var mirrorErrors atomic.Bool

func init() {
	mirrorErrors.Store(true)
}

// EnableErrorMirroring resumes copying error records to the console.
func EnableErrorMirroring() {
	mirrorErrors.Store(true)
}

// DisableErrorMirroring stops copying error records to the console.
func DisableErrorMirroring() {
	mirrorErrors.Store(false)
}

// NewDualHandler sends every record to primary and, while mirroring is on,
// error records to secondary as well. Either handler may be nil.
func NewDualHandler(primary slog.Handler, secondary slog.Handler) slog.Handler {
	return &dualHandler{primary: primary, secondary: secondary}
}

type dualHandler struct {
	primary   slog.Handler
	secondary slog.Handler
}

func (h *dualHandler) Enabled(ctx context.Context, level slog.Level) bool {
	return h.primaryEnabled(ctx, level) || h.mirrorEnabled(ctx, level)
}

func (h *dualHandler) Handle(ctx context.Context, record slog.Record) error {
	if h.primaryEnabled(ctx, record.Level) {
		if err := h.primary.Handle(ctx, record); err != nil {
			return err
		}
	}
	if h.mirrorEnabled(ctx, record.Level) {
		return h.secondary.Handle(ctx, record.Clone())
	}
	return nil
}

func (h *dualHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return h.derive(func(inner slog.Handler) slog.Handler { return inner.WithAttrs(attrs) })
}

func (h *dualHandler) WithGroup(name string) slog.Handler {
	return h.derive(func(inner slog.Handler) slog.Handler { return inner.WithGroup(name) })
}

func (h *dualHandler) derive(fn func(slog.Handler) slog.Handler) slog.Handler {
	out := &dualHandler{}
	if h.primary != nil {
		out.primary = fn(h.primary)
	}
	if h.secondary != nil {
		out.secondary = fn(h.secondary)
	}
	return out
}

func (h *dualHandler) primaryEnabled(ctx context.Context, level slog.Level) bool {
	return h.primary != nil && h.primary.Enabled(ctx, level)
}

func (h *dualHandler) mirrorEnabled(ctx context.Context, level slog.Level) bool {
	return h.secondary != nil &&
		level >= slog.LevelError &&
		mirrorErrors.Load() &&
		h.secondary.Enabled(ctx, level)
}
