// Package logger provides the structured, levelled logger for Saman,
// built on log/slog.
//
// WithCtx returns a logger pre-tagged with the request ID injected by the
// Logger middleware, so every line written from a handler is correlated:
//
//	log := logger.WithCtx(r.Context())
//	log.Info("product created", "product_id", p.ID)
package logger

import (
	"context"
	"log/slog"
	"os"

	"github.com/nikhilrana/saman/config"
)

var L *slog.Logger

func init() {
	Setup()
}

// Setup (re)builds the package logger from config. Called once from init;
// call again after Boot attaches the Mongo sink.
func Setup(extra ...slog.Handler) {
	var handler slog.Handler
	switch config.AppEnv() {
	case "production", "prod":
		handler = slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo})
	default:
		handler = slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelDebug})
	}

	if len(extra) > 0 {
		handler = newTeeHandler(append([]slog.Handler{handler}, extra...)...)
	}

	L = slog.New(handler)
	slog.SetDefault(L)
}

type ctxKey struct{}

// WithCtx returns the per-request logger stored in ctx by the Logger
// middleware, or the base logger when none is present.
func WithCtx(ctx context.Context) *slog.Logger {
	if log, ok := ctx.Value(ctxKey{}).(*slog.Logger); ok && log != nil {
		return log
	}
	return L
}

// Inject stores a per-request logger into ctx. Called by the Logger
// middleware; application code should not need it.
func Inject(ctx context.Context, log *slog.Logger) context.Context {
	return context.WithValue(ctx, ctxKey{}, log)
}

func Debug(msg string, args ...any) { L.Debug(msg, args...) }
func Info(msg string, args ...any)  { L.Info(msg, args...) }
func Warn(msg string, args ...any)  { L.Warn(msg, args...) }
func Error(msg string, args ...any) { L.Error(msg, args...) }

// ── Tee handler ──────────────────────────────────────────────────────────────

// teeHandler fans a record out to every wrapped handler. Used to write both
// to stdout and to the Mongo sink.
type teeHandler struct {
	handlers []slog.Handler
}

func newTeeHandler(handlers ...slog.Handler) *teeHandler {
	return &teeHandler{handlers: handlers}
}

func (t *teeHandler) Enabled(ctx context.Context, level slog.Level) bool {
	for _, h := range t.handlers {
		if h.Enabled(ctx, level) {
			return true
		}
	}
	return false
}

func (t *teeHandler) Handle(ctx context.Context, rec slog.Record) error {
	var firstErr error
	for _, h := range t.handlers {
		if !h.Enabled(ctx, rec.Level) {
			continue
		}
		if err := h.Handle(ctx, rec.Clone()); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}

func (t *teeHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	out := make([]slog.Handler, len(t.handlers))
	for i, h := range t.handlers {
		out[i] = h.WithAttrs(attrs)
	}
	return &teeHandler{handlers: out}
}

func (t *teeHandler) WithGroup(name string) slog.Handler {
	out := make([]slog.Handler, len(t.handlers))
	for i, h := range t.handlers {
		out[i] = h.WithGroup(name)
	}
	return &teeHandler{handlers: out}
}
