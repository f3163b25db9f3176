// Package logger provides structured logging infrastructure for the application.
// This is part of the platform layer and contains no business logic.
package logger

import (
	"log/slog"
	"os"
	"strings"
)

// Logger wraps slog.Logger for structured logging
type Logger struct {
	*slog.Logger
}

// New creates a new logger based on environment
func New(env string) *Logger {
	var handler slog.Handler

	opts := &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}

	if strings.EqualFold(env, "development") {
		opts.Level = slog.LevelDebug
		handler = slog.NewTextHandler(os.Stdout, opts)
	} else {
		handler = slog.NewJSONHandler(os.Stdout, opts)
	}

	return &Logger{
		Logger: slog.New(handler),
	}
}

// HTTPRequest logs an HTTP request
func (l *Logger) HTTPRequest(method, path string, status int, latencyMs float64, clientIP string) {
	l.Info("http_request",
		slog.String("method", method),
		slog.String("path", path),
		slog.Int("status", status),
		slog.Float64("latency_ms", latencyMs),
		slog.String("client_ip", clientIP),
	)
}

// ChatTurn logs one completed conversational turn.
func (l *Logger) ChatTurn(threadID, channel, intent, stage string, latencyMs float64) {
	l.Info("chat_turn",
		slog.String("thread_id", threadID),
		slog.String("channel", channel),
		slog.String("intent", intent),
		slog.String("stage", stage),
		slog.Float64("latency_ms", latencyMs),
	)
}

// OracleError logs a failed LLM oracle call. Oracle failures are always
// recovered with a fallback reply, so they log at Warn rather than Error.
func (l *Logger) OracleError(operation string, err error) {
	l.Warn("oracle_error",
		slog.String("operation", operation),
		slog.String("error", err.Error()),
	)
}

// CatalogError logs a catalog source failure.
func (l *Logger) CatalogError(operation string, err error) {
	l.Warn("catalog_error",
		slog.String("operation", operation),
		slog.String("error", err.Error()),
	)
}

// RateLimitExceeded logs rate limit events
func (l *Logger) RateLimitExceeded(clientIP, path string) {
	l.Warn("rate_limit_exceeded",
		slog.String("client_ip", clientIP),
		slog.String("path", path),
	)
}
