package logger

import (
	"context"
	"io"
	"log/slog"
	"os"

	"github.com/google/uuid"
)

type ctxKey string

const (
	cycleIDKey    ctxKey = "cycleID"
	killmailIDKey ctxKey = "killmailID"
)

// InitLogger installs the default slog logger writing to stdout
func InitLogger(cfg Config) {
	InitLoggerWithWriter(cfg, os.Stdout)
}

// InitLoggerWithWriter installs the default slog logger writing to w
func InitLoggerWithWriter(cfg Config, w io.Writer) {
	opts := &slog.HandlerOptions{
		Level:     cfg.LogLevel(),
		AddSource: cfg.AddSource,
	}

	var handler slog.Handler
	if cfg.IsJSON() {
		handler = slog.NewJSONHandler(w, opts)
	} else {
		handler = slog.NewTextHandler(w, opts)
	}
	handler = handler.WithAttrs(cfg.BaseAttributes())

	slog.SetDefault(slog.New(handler))
}

// GenerateCycleID creates a new UUID used to correlate the log lines of one
// poll/admit cycle.
func GenerateCycleID() string {
	return uuid.NewString()
}

// WithCycleID returns a new context containing the cycle ID.
func WithCycleID(ctx context.Context, cycleID string) context.Context {
	return context.WithValue(ctx, cycleIDKey, cycleID)
}

// WithKillmailID returns a new context tagged with the killmail being processed.
func WithKillmailID(ctx context.Context, killmailID int64) context.Context {
	return context.WithValue(ctx, killmailIDKey, killmailID)
}

// GetCycleID returns the cycle ID stored in ctx, or "" when absent.
func GetCycleID(ctx context.Context) string {
	if id, ok := ctx.Value(cycleIDKey).(string); ok {
		return id
	}
	return ""
}

// FromContext returns a logger that includes the cycle and killmail attributes when present.
func FromContext(ctx context.Context) *slog.Logger {
	log := slog.Default()
	if id := GetCycleID(ctx); id != "" {
		log = log.With(AttrKeyCycleID, id)
	}
	if id, ok := ctx.Value(killmailIDKey).(int64); ok {
		log = log.With(AttrKeyKillmailID, id)
	}
	return log
}

// Debug logs at debug level on the default logger
func Debug(msg string, args ...any) {
	slog.Default().Debug(msg, args...)
}

// Info logs at info level on the default logger
func Info(msg string, args ...any) {
	slog.Default().Info(msg, args...)
}

// Warn logs at warn level on the default logger
func Warn(msg string, args ...any) {
	slog.Default().Warn(msg, args...)
}

// Error logs at error level on the default logger
func Error(msg string, args ...any) {
	slog.Default().Error(msg, args...)
}
