// Package logger provides a structured, levelled logger built on log/slog.
//
// WithCtx returns the request-scoped logger injected by middleware.Logger, so
// every line written while serving a request carries its request_id:
//
//	log := logger.WithCtx(r.Context())
//	log.Info("product deleted", "product_id", id)
//	// → time=... level=INFO msg="product deleted" request_id=5f0c... product_id=abc
package logger

import (
	"context"
	"io"
	"log/slog"
	"os"

	"github.com/shashiranjanraj/velocart/config"
)

var L *slog.Logger

func init() {
	Reload()
}

// Reload rebuilds L from the current configuration. Call it after
// config.Load so file and .env values apply.
func Reload() {
	L = New(os.Stdout, config.AppEnv(), config.LogLevel())
	slog.SetDefault(L)
}

// New builds a logger for env: JSON in production, text everywhere else.
// level ("debug", "info", "warn", "error") overrides the environment default.
func New(w io.Writer, env, level string) *slog.Logger {
	production := env == "production" || env == "prod"

	opts := &slog.HandlerOptions{Level: slog.LevelDebug}
	if production {
		opts.Level = slog.LevelInfo
	}
	if level != "" {
		var lvl slog.Level
		if err := lvl.UnmarshalText([]byte(level)); err == nil {
			opts.Level = lvl
		}
	}

	if production {
		return slog.New(slog.NewJSONHandler(w, opts)) // structured JSON for log aggregators
	}
	return slog.New(slog.NewTextHandler(w, opts))
}

// ctxKey is the unexported key used to store a per-request *slog.Logger.
type ctxKey struct{}

// WithCtx returns the logger stored by InjectLogger, or the base logger.
func WithCtx(ctx context.Context) *slog.Logger {
	if ctx == nil {
		return L
	}
	if log, ok := ctx.Value(ctxKey{}).(*slog.Logger); ok && log != nil {
		return log
	}
	return L
}

// InjectLogger stores a *slog.Logger (pre-tagged with request_id) into ctx.
// Called by the Logger middleware.
func InjectLogger(ctx context.Context, log *slog.Logger) context.Context {
	return context.WithValue(ctx, ctxKey{}, log)
}

func Debug(msg string, args ...any) { L.Debug(msg, args...) }
func Info(msg string, args ...any)  { L.Info(msg, args...) }
func Warn(msg string, args ...any)  { L.Warn(msg, args...) }
func Error(msg string, args ...any) { L.Error(msg, args...) }
