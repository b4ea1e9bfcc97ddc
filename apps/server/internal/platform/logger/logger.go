package logger

import (
	"io"
	"log/slog"

	"github.com/tilsley/insights/pkg/logging"
)

// New returns a logger configured from LOG_FORMAT and LOG_LEVEL env vars,
// tagged with the app name. See pkg/logging for details.
func New(app string) *slog.Logger {
	return logging.New().With("app", app)
}

// NewTo is New writing to w instead of stdout.
func NewTo(w io.Writer, app string) *slog.Logger {
	return logging.NewWithWriter(w).With("app", app)
}
