package log

import (
	"context"
	"io"
	"log/slog"
	"strings"
	"unicode"
)

// MaxValueLen is the maximum length in runes of a logged string attribute.
// Longer values are cut and suffixed with TruncationMark.
const MaxValueLen = 512

// TruncationMark is appended to values that were cut at MaxValueLen.
const TruncationMark = "...(truncated)"

// TruncateHandler wraps an slog.Handler and bounds string attribute values.
// Page-derived strings (URLs, titles, hrefs) are cut at MaxValueLen runes
// and stripped of control characters before being passed to the underlying
// handler.
type TruncateHandler struct {
	// handler is the underlying slog handler that receives bounded records.
	handler slog.Handler

	// maxLen is the per-value rune limit.
	maxLen int
}

// NewTruncateHandler creates a TruncateHandler wrapping the given handler.
// If handler is nil, the returned TruncateHandler uses slog.Default().Handler().
func NewTruncateHandler(handler slog.Handler) *TruncateHandler {
	if handler == nil {
		handler = slog.Default().Handler()
	}
	return &TruncateHandler{handler: handler, maxLen: MaxValueLen}
}

// Enabled reports whether the handler handles records at the given level.
// It delegates to the underlying handler.
func (h *TruncateHandler) Enabled(ctx context.Context, level slog.Level) bool {
	return h.handler.Enabled(ctx, level)
}

// Handle bounds the record's attributes and passes it to the underlying handler.
func (h *TruncateHandler) Handle(ctx context.Context, r slog.Record) error {
	bounded := slog.NewRecord(r.Time, r.Level, r.Message, r.PC)

	r.Attrs(func(a slog.Attr) bool {
		bounded.AddAttrs(h.boundAttr(a))
		return true
	})

	return h.handler.Handle(ctx, bounded)
}

// WithAttrs returns a new handler with the given attributes added.
// Attributes are bounded before being added.
func (h *TruncateHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	boundedAttrs := make([]slog.Attr, len(attrs))
	for i, a := range attrs {
		boundedAttrs[i] = h.boundAttr(a)
	}
	return &TruncateHandler{handler: h.handler.WithAttrs(boundedAttrs), maxLen: h.maxLen}
}

// WithGroup returns a new handler with the given group name.
func (h *TruncateHandler) WithGroup(name string) slog.Handler {
	return &TruncateHandler{handler: h.handler.WithGroup(name), maxLen: h.maxLen}
}

// boundAttr bounds a single attribute, recursively handling groups.
func (h *TruncateHandler) boundAttr(a slog.Attr) slog.Attr {
	if a.Value.Kind() == slog.KindGroup {
		attrs := a.Value.Group()
		boundedAttrs := make([]slog.Attr, len(attrs))
		for i, groupAttr := range attrs {
			boundedAttrs[i] = h.boundAttr(groupAttr)
		}
		return slog.Attr{Key: a.Key, Value: slog.GroupValue(boundedAttrs...)}
	}

	if a.Value.Kind() == slog.KindString {
		return slog.String(a.Key, h.boundString(a.Value.String()))
	}

	return a
}

// boundString strips control characters and cuts the value at maxLen runes.
func (h *TruncateHandler) boundString(s string) string {
	cleaned := strings.Map(func(r rune) rune {
		if unicode.IsControl(r) {
			return -1
		}
		return r
	}, s)

	runes := []rune(cleaned)
	if len(runes) <= h.maxLen {
		return cleaned
	}
	return string(runes[:h.maxLen]) + TruncationMark
}

// NewLogger creates a slog.Logger that writes text records to w with
// bounded attribute values.
//
// Parameters:
//   - w: The io.Writer to write log output to (typically os.Stderr)
//   - verbose: If true, sets log level to Debug; otherwise Info
func NewLogger(w io.Writer, verbose bool) *slog.Logger {
	level := slog.LevelInfo
	if verbose {
		level = slog.LevelDebug
	}

	opts := &slog.HandlerOptions{
		Level: level,
	}

	textHandler := slog.NewTextHandler(w, opts)
	return slog.New(NewTruncateHandler(textHandler))
}
