package logging

import (
	"context"
	"log/slog"
)

// ContextProvider returns attributes describing the current board state,
// evaluated when a record is handled.
type ContextProvider func() []slog.Attr

// ContextHandler appends the attributes of a ContextProvider to every
// record before passing it on.
type ContextHandler struct {
	inner    slog.Handler
	provider ContextProvider
}

func NewContextHandler(inner slog.Handler, provider ContextProvider) *ContextHandler {
	return &ContextHandler{inner: inner, provider: provider}
}

// WithBoardContext returns a logger that decorates every record of base
// with the attributes from provider.
func WithBoardContext(base *slog.Logger, provider ContextProvider) *slog.Logger {
	if base == nil {
		base = slog.Default()
	}
	return slog.New(NewContextHandler(base.Handler(), provider))
}

func (h *ContextHandler) Enabled(ctx context.Context, level slog.Level) bool {
	return h.inner.Enabled(ctx, level)
}

func (h *ContextHandler) Handle(ctx context.Context, r slog.Record) error {
	if h.provider != nil {
		r.AddAttrs(h.provider()...)
	}
	return h.inner.Handle(ctx, r)
}

func (h *ContextHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return &ContextHandler{inner: h.inner.WithAttrs(attrs), provider: h.provider}
}

func (h *ContextHandler) WithGroup(name string) slog.Handler {
	if name == "" {
		return h
	}
	return &ContextHandler{inner: h.inner.WithGroup(name), provider: h.provider}
}
