/*
	Structured logging for the codec.  Generalizes the teacher's
	DebugLogger (leveled ADVISE/BASIC/FINE, multiple writers, always a
	fmt.Sprintf-style message) into a small interface wrapping
	log/slog -- the same generalization the rest of the retrieval pack
	(vecgo, mantle) independently converged on for this job.

	Warnings (spec.md §7 category 1) are delivered through a Logger
	rather than collected or returned: the stream keeps going after a
	warning, so there is nothing for a caller to "get back" except a
	log line, same as the teacher's debug.Warn.
*/
package gdsii

import (
	"context"
	"log/slog"
	"os"
)

// Logger is the interface warnings and trace output are delivered
// through while reading or writing a stream.
type Logger interface {
	Warn(msg string, args ...any)
	Info(msg string, args ...any)
	Debug(msg string, args ...any)
}

// slogLogger adapts a *slog.Logger to the Logger interface.
type slogLogger struct {
	logger *slog.Logger
}

// NewLogger wraps an slog.Logger as a Logger.
func NewLogger(logger *slog.Logger) Logger {
	return &slogLogger{logger: logger}
}

func (l *slogLogger) Warn(msg string, args ...any)  { l.logger.Warn(msg, args...) }
func (l *slogLogger) Info(msg string, args ...any)  { l.logger.Info(msg, args...) }
func (l *slogLogger) Debug(msg string, args ...any) { l.logger.Debug(msg, args...) }

// DefaultLogger returns a Logger writing leveled text to stderr, the
// same destination the teacher's ScreenLogger used.
func DefaultLogger() Logger {
	return NewLogger(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	})))
}

// NilLogger discards everything, the counterpart of the teacher's
// NilLogger used by tests that don't care about warnings.
func NilLogger() Logger {
	return NewLogger(slog.New(slog.NewTextHandler(discardWriter{}, &slog.HandlerOptions{
		Level: slog.LevelError + 1,
	})))
}

type discardWriter struct{}

func (discardWriter) Write(p []byte) (int, error) { return len(p), nil }

type loggerKey struct{}

// WithLogger attaches a Logger to a context, for callers that thread
// one logger through an entire read or write call.
func WithLogger(ctx context.Context, l Logger) context.Context {
	return context.WithValue(ctx, loggerKey{}, l)
}

// LoggerFromContext retrieves a Logger from a context, falling back
// to DefaultLogger if none was attached.
func LoggerFromContext(ctx context.Context) Logger {
	if l, ok := ctx.Value(loggerKey{}).(Logger); ok {
		return l
	}
	return DefaultLogger()
}
