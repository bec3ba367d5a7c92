package postfx

import (
	"context"
	"log/slog"
	"sync/atomic"
)

// silentHandler drops every record. Enabled reports false, so callers
// never pay for attribute formatting while logging is off.
type silentHandler struct{}

func (silentHandler) Enabled(context.Context, slog.Level) bool  { return false }
func (silentHandler) Handle(context.Context, slog.Record) error { return nil }
func (silentHandler) WithAttrs([]slog.Attr) slog.Handler        { return silentHandler{} }
func (silentHandler) WithGroup(string) slog.Handler             { return silentHandler{} }

func silentLogger() *slog.Logger { return slog.New(silentHandler{}) }

// active holds the current logger. Swapped atomically, so SetLogger may
// race freely with logging from render goroutines.
var active atomic.Pointer[slog.Logger]

func init() {
	active.Store(silentLogger())
}

// SetLogger installs the logger used by postfx and the render package.
// The package is silent until a logger is installed; passing nil makes
// it silent again. Safe for concurrent use.
//
// Levels:
//   - [slog.LevelDebug]: per-frame traffic (pass states, staged uniform
//     sizes, texture cache hits and evictions)
//   - [slog.LevelInfo]: one-time events such as pipeline compilation
//   - [slog.LevelWarn]: recoverable oddities, e.g. a view scheduled with
//     draws but no target
//
// A typical debug setup:
//
//	postfx.SetLogger(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
//	    Level: slog.LevelDebug,
//	})))
func SetLogger(l *slog.Logger) {
	if l == nil {
		l = silentLogger()
	}
	active.Store(l)
}

// Logger returns the logger installed by SetLogger. The render package
// reads it through this accessor rather than importing a logger of its
// own, which keeps one configuration point and avoids import cycles.
func Logger() *slog.Logger {
	return active.Load()
}
