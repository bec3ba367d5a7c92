package render

import (
	"log/slog"

	"github.com/gogpu/postfx"
)

// slogger returns the current package logger.
// All logging in render goes through this function; it shares the
// logger configured via postfx.SetLogger.
func slogger() *slog.Logger { return postfx.Logger() }
