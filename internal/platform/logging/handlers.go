package logging

import (
	"context"
	"log/slog"
)

// MultiHandler is an slog.Handler that writes to multiple handlers, e.g. the
// terminal and a rolling log file.
type MultiHandler struct {
	handlers []slog.Handler
}

// NewMultiHandler creates a handler that writes to multiple destinations.
func NewMultiHandler(handlers ...slog.Handler) *MultiHandler {
	return &MultiHandler{handlers: handlers}
}

// Enabled reports whether any handler accepts the level.
func (h *MultiHandler) Enabled(ctx context.Context, level slog.Level) bool {
	for _, handler := range h.handlers {
		if handler.Enabled(ctx, level) {
			return true
		}
	}
	return false
}

// Handle passes the record to every enabled handler and returns the first error.
func (h *MultiHandler) Handle(ctx context.Context, r slog.Record) error { //nolint:gocritic // slog.Handler interface requires value
	var firstErr error
	for _, handler := range h.handlers {
		if handler.Enabled(ctx, r.Level) {
			if err := handler.Handle(ctx, r.Clone()); err != nil && firstErr == nil {
				firstErr = err
			}
		}
	}
	return firstErr
}

// WithAttrs returns a new MultiHandler with the given attributes added.
func (h *MultiHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return NewMultiHandler(h.each(func(handler slog.Handler) slog.Handler {
		return handler.WithAttrs(attrs)
	})...)
}

// WithGroup returns a new MultiHandler with the given group name.
func (h *MultiHandler) WithGroup(name string) slog.Handler {
	return NewMultiHandler(h.each(func(handler slog.Handler) slog.Handler {
		return handler.WithGroup(name)
	})...)
}

func (h *MultiHandler) each(fn func(slog.Handler) slog.Handler) []slog.Handler {
	handlers := make([]slog.Handler, len(h.handlers))
	for i, handler := range h.handlers {
		handlers[i] = fn(handler)
	}
	return handlers
}

// RedactHandler applies a ReplaceAttr function in front of a handler that
// has no HandlerOptions of its own, such as the charm pretty printer.
type RedactHandler struct {
	next    slog.Handler
	replace func(groups []string, a slog.Attr) slog.Attr
	groups  []string
}

// NewRedactHandler wraps next so every attribute passes through replace.
func NewRedactHandler(next slog.Handler, replace func(groups []string, a slog.Attr) slog.Attr) *RedactHandler {
	return &RedactHandler{next: next, replace: replace}
}

// Enabled defers to the wrapped handler.
func (h *RedactHandler) Enabled(ctx context.Context, level slog.Level) bool {
	return h.next.Enabled(ctx, level)
}

// Handle rewrites the record's attributes, then hands it on.
func (h *RedactHandler) Handle(ctx context.Context, r slog.Record) error { //nolint:gocritic // slog.Handler interface requires value
	out := slog.NewRecord(r.Time, r.Level, r.Message, r.PC)
	r.Attrs(func(a slog.Attr) bool {
		out.AddAttrs(h.replace(h.groups, a))
		return true
	})
	return h.next.Handle(ctx, out)
}

// WithAttrs redacts attrs before attaching them to the wrapped handler.
func (h *RedactHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	redacted := make([]slog.Attr, len(attrs))
	for i, a := range attrs {
		redacted[i] = h.replace(h.groups, a)
	}
	return &RedactHandler{next: h.next.WithAttrs(redacted), replace: h.replace, groups: h.groups}
}

// WithGroup tracks the group so replace sees the full attribute path.
func (h *RedactHandler) WithGroup(name string) slog.Handler {
	groups := append(append([]string{}, h.groups...), name)
	return &RedactHandler{next: h.next.WithGroup(name), replace: h.replace, groups: groups}
}
