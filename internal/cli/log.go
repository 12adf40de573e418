package cli

import (
	"context"
	"io"
	"time"

	"github.com/charmbracelet/log"
)

// newLogger returns the stderr logger shared by every command. Timestamps
// carry hundredths of a second ("14:32:01.45") so short searches still
// show progress. The level is reset by loadConfig and --verbose once flags
// are parsed.
func newLogger(w io.Writer, level log.Level) *log.Logger {
	return log.NewWithOptions(w, log.Options{
		ReportTimestamp: true,
		TimeFormat:      "15:04:05.00",
		Level:           level,
	})
}

// stopwatch logs how long a command step took. It captures the start time
// when created and is meant for one goroutine:
//
//	sw := startStopwatch(logger)
//	// ... search ...
//	sw.done("Search finished", "edges", n)
//
// which logs "Search finished edges=4 elapsed=12ms".
type stopwatch struct {
	logger *log.Logger
	start  time.Time
}

func startStopwatch(l *log.Logger) *stopwatch {
	return &stopwatch{logger: l, start: time.Now()}
}

// elapsed is the time since the stopwatch started, in milliseconds.
func (s *stopwatch) elapsed() time.Duration {
	return time.Since(s.start).Round(time.Millisecond)
}

// done logs msg at info level with keyvals followed by an elapsed field
// rounded to the millisecond. It can be called more than once; each call
// reports the time since the start.
func (s *stopwatch) done(msg string, keyvals ...any) {
	s.logger.Info(msg, append(keyvals, "elapsed", s.elapsed())...)
}

type loggerKey struct{}

func withLogger(ctx context.Context, l *log.Logger) context.Context {
	return context.WithValue(ctx, loggerKey{}, l)
}

// loggerFromContext falls back to log.Default when no command attached one.
func loggerFromContext(ctx context.Context) *log.Logger {
	if l, ok := ctx.Value(loggerKey{}).(*log.Logger); ok {
		return l
	}
	return log.Default()
}
