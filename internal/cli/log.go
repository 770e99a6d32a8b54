package cli

import (
	"context"
	"io"
	"time"

	"github.com/charmbracelet/log"
)

// =============================================================================
// Logger Construction
// =============================================================================

// newLogger creates a logger with consistent formatting for CLI output.
func newLogger(w io.Writer, level log.Level) *log.Logger {
	return log.NewWithOptions(w, log.Options{
		ReportTimestamp: true,
		TimeFormat:      "15:04:05.00",
		Level:           level,
	})
}

// =============================================================================
// Progress Timing
// =============================================================================

// progress tracks the duration of a named stage for debug logging.
type progress struct {
	logger *log.Logger
	name   string
	start  time.Time
}

// newProgress starts timing a stage and logs its beginning at debug level.
func newProgress(logger *log.Logger, name string) *progress {
	logger.Debug("starting", "stage", name)
	return &progress{
		logger: logger,
		name:   name,
		start:  time.Now(),
	}
}

// done logs the stage completion with its elapsed time.
func (p *progress) done() {
	p.logger.Debug("finished", "stage", p.name, "duration", time.Since(p.start).Round(time.Millisecond))
}

// =============================================================================
// Context Logger
// =============================================================================

type ctxKey int

const loggerKey ctxKey = iota

// withLogger returns a context carrying the given logger.
func withLogger(ctx context.Context, logger *log.Logger) context.Context {
	return context.WithValue(ctx, loggerKey, logger)
}

// loggerFromContext extracts the logger from the context, falling back to the
// package default when none is set.
func loggerFromContext(ctx context.Context) *log.Logger {
	if logger, ok := ctx.Value(loggerKey).(*log.Logger); ok {
		return logger
	}
	return log.Default()
}
