package logger

import (
	"context"
	"log/slog"
)

// ContextExtractor pulls an attribute out of a context. Returning false (or
// an empty Attr) skips the record unchanged.
type ContextExtractor func(ctx context.Context) (slog.Attr, bool)

// ValueExtractor builds an extractor that reads ctx.Value(ctxKey) and emits
// it under attrKey when present.
func ValueExtractor(attrKey string, ctxKey any) ContextExtractor {
	return func(ctx context.Context) (slog.Attr, bool) {
		v := ctx.Value(ctxKey)
		if v == nil {
			return slog.Attr{}, false
		}
		return slog.Any(attrKey, v), true
	}
}

// contextHandler decorates a handler with per-record context extraction.
type contextHandler struct {
	handler    slog.Handler
	extractors []ContextExtractor
}

func newContextHandler(h slog.Handler, extractors []ContextExtractor) slog.Handler {
	return &contextHandler{handler: h, extractors: extractors}
}

func (h *contextHandler) Enabled(ctx context.Context, level slog.Level) bool {
	return h.handler.Enabled(ctx, level)
}

func (h *contextHandler) Handle(ctx context.Context, r slog.Record) error {
	rec := r.Clone()
	for _, extract := range h.extractors {
		if attr, ok := extract(ctx); ok && attr.Key != "" {
			rec.AddAttrs(attr)
		}
	}
	return h.handler.Handle(ctx, rec)
}

func (h *contextHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return &contextHandler{handler: h.handler.WithAttrs(attrs), extractors: h.extractors}
}

func (h *contextHandler) WithGroup(name string) slog.Handler {
	return &contextHandler{handler: h.handler.WithGroup(name), extractors: h.extractors}
}
