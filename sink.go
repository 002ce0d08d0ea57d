package task

import (
	"context"
	"log/slog"
)

// Severity is the level at which a Sink message is emitted.
type Severity int

const (
	// SeverityInfo marks routine diagnostic messages.
	SeverityInfo Severity = iota
	// SeverityWarning marks recoverable anomalies, e.g. a positional overrun.
	SeverityWarning
	// SeverityError marks fatal conditions, e.g. a deadlock dump.
	SeverityError
)

func (s Severity) slogLevel() slog.Level {
	switch s {
	case SeverityWarning:
		return slog.LevelWarn
	case SeverityError:
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// Sink is the pluggable diagnostic sink required by the runtime's external
// interface: implementations must emit labeled messages at info, warning,
// and error severity. The default sink wraps [log/slog], Go's structured
// logger.
type Sink interface {
	Log(sev Severity, msg string, args ...any)
}

// slogSink adapts a *slog.Logger to Sink.
type slogSink struct {
	logger *slog.Logger
}

func (s slogSink) Log(sev Severity, msg string, args ...any) {
	s.logger.Log(context.Background(), sev.slogLevel(), msg, args...)
}

// NewSlogSink wraps logger as a Sink. If logger is nil, slog.Default() is used.
func NewSlogSink(logger *slog.Logger) Sink {
	if logger == nil {
		logger = slog.Default()
	}
	return slogSink{logger: logger}
}

// defaultSink receives every diagnostic this package emits: scheduler,
// stream, mmap and error reports alike. No component takes a sink of its
// own.
var defaultSink Sink = NewSlogSink(nil)

// SetDefaultSink replaces the process-wide default diagnostic sink. It is
// most useful in tests that want to capture and assert on diagnostics.
func SetDefaultSink(s Sink) {
	if s == nil {
		panic("task: SetDefaultSink requires a non-nil Sink")
	}
	defaultSink = s
}
