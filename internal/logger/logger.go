package logger

import (
	"context"
	"io"
	"log/slog"
	"strings"

	"github.com/google/uuid"
)

type ctxKey struct{}

// InitLoggerWithWriter installs the default slog logger writing to w.
func InitLoggerWithWriter(cfg Config, w io.Writer) {
	var handler slog.Handler
	if strings.EqualFold(cfg.Format, FormatJSON) {
		handler = slog.NewJSONHandler(w, cfg.handlerOptions())
	} else {
		handler = slog.NewTextHandler(w, cfg.handlerOptions())
	}
	slog.SetDefault(slog.New(handler.WithAttrs(cfg.baseAttrs())))
}

// WithRequestID returns a context carrying id as its correlation id.
func WithRequestID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, ctxKey{}, id)
}

// WithNewRequestID attaches a fresh uuid. Every inbound message, HTTP request
// and scheduled push starts with one.
func WithNewRequestID(ctx context.Context) context.Context {
	return WithRequestID(ctx, uuid.NewString())
}

// GetRequestID returns the correlation id in ctx, or "".
func GetRequestID(ctx context.Context) string {
	id, _ := ctx.Value(ctxKey{}).(string)
	return id
}

// FromContext returns the default logger, tagged with the request id when ctx has one.
func FromContext(ctx context.Context) *slog.Logger {
	if id := GetRequestID(ctx); id != "" {
		return slog.Default().With(AttrKeyRequestID, id)
	}
	return slog.Default()
}

// ForGroup is FromContext with the group id attached.
func ForGroup(ctx context.Context, groupID string) *slog.Logger {
	return FromContext(ctx).With(AttrKeyGroupID, groupID)
}
