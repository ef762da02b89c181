package logging

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"sync"
)

// ReadableTextHandler is a slog handler that writes compact, pipe-separated
// log lines meant for humans watching the server output.
type ReadableTextHandler struct {
	options ReadableTextHandlerOptions
	mu      *sync.Mutex
	out     io.Writer
	attrs   []slog.Attr
}

type ReadableTextHandlerOptions struct {
	Level slog.Leveler
}

func NewReadableTextHandler(out io.Writer, options *ReadableTextHandlerOptions) *ReadableTextHandler {
	handler := &ReadableTextHandler{out: out, mu: &sync.Mutex{}}
	if options == nil {
		options = &ReadableTextHandlerOptions{}
	}
	handler.options = *options
	if handler.options.Level == nil {
		handler.options.Level = slog.LevelInfo
	}
	return handler
}

func (h *ReadableTextHandler) Enabled(ctx context.Context, level slog.Level) bool {
	return level >= h.options.Level.Level()
}

func (h *ReadableTextHandler) Handle(ctx context.Context, record slog.Record) error {
	var sb strings.Builder
	sb.WriteString(record.Time.Format("2006-01-02 15:04:05.000"))
	sb.WriteString("|")
	sb.WriteString(record.Level.String())
	sb.WriteString("|")
	sb.WriteString(record.Message)

	attrStrings := []string{}
	for _, attr := range h.attrs {
		attrStrings = appendAttribute(attrStrings, attr)
	}
	record.Attrs(func(attr slog.Attr) bool {
		attrStrings = appendAttribute(attrStrings, attr)
		return true
	})
	if len(attrStrings) > 0 {
		sb.WriteString("|")
		sb.WriteString(strings.Join(attrStrings, ", "))
	}
	sb.WriteString("\n")

	h.mu.Lock()
	defer h.mu.Unlock()
	_, err := h.out.Write([]byte(sb.String()))
	return err
}

func (h *ReadableTextHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	if len(attrs) == 0 {
		return h
	}
	h2 := *h
	h2.attrs = make([]slog.Attr, 0, len(h.attrs)+len(attrs))
	h2.attrs = append(h2.attrs, h.attrs...)
	h2.attrs = append(h2.attrs, attrs...)
	return &h2
}

// Groups are flattened, the server only logs flat attributes anyway.
func (h *ReadableTextHandler) WithGroup(name string) slog.Handler {
	return h
}

func appendAttribute(attrStrings []string, attr slog.Attr) []string {
	attr.Value = attr.Value.Resolve()
	if attr.Equal(slog.Attr{}) {
		return attrStrings
	}
	if attr.Value.Kind() == slog.KindGroup {
		for _, inner := range attr.Value.Group() {
			attrStrings = appendAttribute(attrStrings, inner)
		}
		return attrStrings
	}
	return append(attrStrings, fmt.Sprintf("%s=%s", attr.Key, attr.Value.String()))
}
