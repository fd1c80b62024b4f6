package log

import (
	"context"
	"io"
	"log/slog"
	"net/url"
	"strings"
)

// redactedUser replaces the userinfo component of logged URLs.
const redactedUser = "xxxxx"

// RedactHandler wraps an slog.Handler and strips userinfo from URL-shaped
// attribute values. It intercepts log records, rewrites attribute values
// that parse as URLs carrying credentials, and passes the sanitized record
// to the underlying handler.
//
// Design decision: We use a handler wrapper rather than redacting at each
// call site because:
//  1. It integrates seamlessly with standard slog APIs
//  2. It works with any underlying handler (text, JSON, etc.)
//  3. Call sites cannot forget to redact
type RedactHandler struct {
	// handler is the underlying slog handler that receives sanitized records.
	handler slog.Handler
}

// NewRedactHandler creates a new RedactHandler wrapping the given handler.
// If handler is nil, the returned RedactHandler uses slog.Default().Handler().
func NewRedactHandler(handler slog.Handler) *RedactHandler {
	if handler == nil {
		handler = slog.Default().Handler()
	}
	return &RedactHandler{handler: handler}
}

// Enabled reports whether the handler handles records at the given level.
// It delegates to the underlying handler.
func (h *RedactHandler) Enabled(ctx context.Context, level slog.Level) bool {
	return h.handler.Enabled(ctx, level)
}

// Handle sanitizes the record's attributes and passes it to the underlying handler.
func (h *RedactHandler) Handle(ctx context.Context, r slog.Record) error {
	sanitized := slog.NewRecord(r.Time, r.Level, r.Message, r.PC)

	r.Attrs(func(a slog.Attr) bool {
		sanitized.AddAttrs(h.redactAttr(a))
		return true
	})

	return h.handler.Handle(ctx, sanitized)
}

// WithAttrs returns a new handler with the given attributes added.
// Attributes are sanitized before being added.
func (h *RedactHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	redacted := make([]slog.Attr, len(attrs))
	for i, a := range attrs {
		redacted[i] = h.redactAttr(a)
	}
	return &RedactHandler{handler: h.handler.WithAttrs(redacted)}
}

// WithGroup returns a new handler with the given group name.
func (h *RedactHandler) WithGroup(name string) slog.Handler {
	return &RedactHandler{handler: h.handler.WithGroup(name)}
}

// redactAttr sanitizes a single attribute, recursively handling groups.
func (h *RedactHandler) redactAttr(a slog.Attr) slog.Attr {
	if a.Value.Kind() == slog.KindGroup {
		attrs := a.Value.Group()
		redacted := make([]slog.Attr, len(attrs))
		for i, groupAttr := range attrs {
			redacted[i] = h.redactAttr(groupAttr)
		}
		return slog.Attr{Key: a.Key, Value: slog.GroupValue(redacted...)}
	}

	if a.Value.Kind() == slog.KindString {
		if v, changed := RedactURL(a.Value.String()); changed {
			return slog.String(a.Key, v)
		}
	}

	return a
}

// RedactURL strips the userinfo component from a URL-shaped string.
// The second return value reports whether anything was redacted.
// Non-URL strings and URLs without userinfo pass through unchanged.
func RedactURL(s string) (string, bool) {
	// Cheap pre-check before paying for url.Parse on every attribute.
	if !strings.Contains(s, "@") || !strings.Contains(s, "://") {
		return s, false
	}

	u, err := url.Parse(s)
	if err != nil || u.User == nil {
		return s, false
	}

	u.User = url.User(redactedUser)
	return u.String(), true
}

// NewLogger creates a *slog.Logger writing text records to w with URL
// redaction enabled. If verbose is true, the level is Debug; otherwise Warn.
func NewLogger(w io.Writer, verbose bool) *slog.Logger {
	level := slog.LevelWarn
	if verbose {
		level = slog.LevelDebug
	}

	opts := &slog.HandlerOptions{Level: level}
	return slog.New(NewRedactHandler(slog.NewTextHandler(w, opts)))
}

// NewJSONLogger creates a *slog.Logger writing JSON records to w with URL
// redaction enabled. Useful for structured log aggregation.
func NewJSONLogger(w io.Writer, verbose bool) *slog.Logger {
	level := slog.LevelWarn
	if verbose {
		level = slog.LevelDebug
	}

	opts := &slog.HandlerOptions{Level: level}
	return slog.New(NewRedactHandler(slog.NewJSONHandler(w, opts)))
}
