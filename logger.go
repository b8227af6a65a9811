package iconmine

import (
	"context"
	"log/slog"
	"sync/atomic"

	"github.com/gogpu/iconmine/blit"
)

// nopHandler is a slog.Handler that silently discards all log records.
// Enabled returns false so callers skip formatting entirely.
type nopHandler struct{}

func (nopHandler) Enabled(context.Context, slog.Level) bool  { return false }
func (nopHandler) Handle(context.Context, slog.Record) error { return nil }
func (nopHandler) WithAttrs([]slog.Attr) slog.Handler        { return nopHandler{} }
func (nopHandler) WithGroup(string) slog.Handler             { return nopHandler{} }

func newNopLogger() *slog.Logger { return slog.New(nopHandler{}) }

// loggerPtr stores the active logger.
var loggerPtr atomic.Pointer[slog.Logger]

func init() {
	loggerPtr.Store(newNopLogger())
}

// SetLogger configures the logger for iconmine and the blitters it drives.
// By default iconmine produces no log output.
//
// SetLogger is safe for concurrent use. Pass nil to restore silence.
//
// Log levels used by iconmine:
//   - [slog.LevelDebug]: per-icon diagnostics (extraction path, luminance)
//   - [slog.LevelInfo]: run lifecycle, skipped missing assets
//   - [slog.LevelWarn]: per-icon failures, GPU fallback, release errors
//
// Example:
//
//	iconmine.SetLogger(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
//	    Level: slog.LevelDebug,
//	})))
func SetLogger(l *slog.Logger) {
	if l == nil {
		l = newNopLogger()
	}
	loggerPtr.Store(l)
	blit.SetLogger(l)
}

// Logger returns the current logger used by iconmine.
func Logger() *slog.Logger {
	return loggerPtr.Load()
}
