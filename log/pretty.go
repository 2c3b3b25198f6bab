package log

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"strconv"
	"sync"
	"time"
)

// ANSI color codes for pretty printing.
const (
	colorReset   = "\033[0m"
	colorGray    = "\033[90m"
	colorRed     = "\033[31m"
	colorGreen   = "\033[32m"
	colorYellow  = "\033[33m"
	colorBlue    = "\033[34m"
	colorMagenta = "\033[35m"
	colorCyan    = "\033[36m"
)

// prettyBase holds the state shared by both pretty handlers.
// Attributes added with WithAttrs are kept in order and prefixed with the
// active group names.
type prettyBase struct {
	opts       slog.HandlerOptions
	formatTime FormatTime
	mu         *sync.Mutex
	w          io.Writer
	attrs      []slog.Attr
	groups     []string
}

func makePrettyBase(
	w io.Writer,
	opts *slog.HandlerOptions,
	formatTime FormatTime,
) prettyBase {
	if formatTime == nil {
		formatTime = makeFormatTimeFunc(DefaultTimeLayout)
	}

	return prettyBase{
		opts:       *opts,
		formatTime: formatTime,
		mu:         &sync.Mutex{},
		w:          w,
	}
}

func (b prettyBase) enabled(level slog.Level) bool {
	minLevel := slog.LevelInfo
	if b.opts.Level != nil {
		minLevel = b.opts.Level.Level()
	}

	return level >= minLevel
}

func (b prettyBase) withAttrs(attrs []slog.Attr) prettyBase {
	prefix := b.prefix()
	next := make([]slog.Attr, 0, len(b.attrs)+len(attrs))
	next = append(next, b.attrs...)

	for _, a := range attrs {
		next = append(next, slog.Attr{Key: prefix + a.Key, Value: a.Value})
	}

	b.attrs = next

	return b
}

func (b prettyBase) withGroup(name string) prettyBase {
	if name == "" {
		return b
	}

	b.groups = append(b.groups[:len(b.groups):len(b.groups)], name)

	return b
}

func (b prettyBase) prefix() string {
	var prefix string
	for _, g := range b.groups {
		prefix += g + "."
	}

	return prefix
}

// header returns the leading time, level, source, and message fields of r.
func (b prettyBase) header(r slog.Record) []slog.Attr {
	fields := make([]slog.Attr, 0, 4)

	if !r.Time.IsZero() {
		if ts := b.formatTime(r.Time); ts != "" {
			fields = append(fields, slog.String(slog.TimeKey, ts))
		}
	}

	fields = append(fields, slog.Any(slog.LevelKey, r.Level))

	if b.opts.AddSource {
		if src := r.Source(); src != nil {
			fields = append(fields, slog.String(
				slog.SourceKey, fmt.Sprintf("%s:%d", src.File, src.Line),
			))
		}
	}

	return append(fields, slog.String(slog.MessageKey, r.Message))
}

// body returns the handler attributes followed by the attributes of r.
func (b prettyBase) body(r slog.Record) []slog.Attr {
	prefix := b.prefix()
	fields := make([]slog.Attr, 0, len(b.attrs)+r.NumAttrs())
	fields = append(fields, b.attrs...)

	r.Attrs(func(a slog.Attr) bool {
		fields = append(fields, slog.Attr{Key: prefix + a.Key, Value: a.Value})

		return true
	})

	return fields
}

func (b prettyBase) write(buf *bytes.Buffer) error {
	buf.WriteByte('\n')

	b.mu.Lock()
	defer b.mu.Unlock()

	_, err := b.w.Write(buf.Bytes())

	return err
}

// prettyTextHandler implements a colorized text handler for log messages.
type prettyTextHandler struct {
	prettyBase
}

func newPrettyTextHandler(
	w io.Writer,
	opts *slog.HandlerOptions,
	formatTime FormatTime,
) *prettyTextHandler {
	return &prettyTextHandler{makePrettyBase(w, opts, formatTime)}
}

func (h *prettyTextHandler) Enabled(_ context.Context, level slog.Level) bool {
	return h.enabled(level)
}

func (h *prettyTextHandler) Handle(_ context.Context, r slog.Record) error {
	buf := new(bytes.Buffer)

	for _, a := range h.header(r) {
		writeTextAttr(buf, a)
	}

	for _, a := range h.body(r) {
		writeTextAttr(buf, a)
	}

	return h.write(buf)
}

func (h *prettyTextHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return &prettyTextHandler{h.withAttrs(attrs)}
}

func (h *prettyTextHandler) WithGroup(name string) slog.Handler {
	return &prettyTextHandler{h.withGroup(name)}
}

func writeTextAttr(buf *bytes.Buffer, a slog.Attr) {
	if buf.Len() > 0 {
		buf.WriteByte(' ')
	}

	buf.WriteString(colorGray)
	buf.WriteString(a.Key)
	buf.WriteString(colorReset)
	buf.WriteByte('=')

	writeValue(buf, a.Value.Resolve())
}

// prettyJSONHandler implements an indented, colorized JSON-like handler.
type prettyJSONHandler struct {
	prettyBase
}

func newPrettyJSONHandler(
	w io.Writer,
	opts *slog.HandlerOptions,
	formatTime FormatTime,
) *prettyJSONHandler {
	return &prettyJSONHandler{makePrettyBase(w, opts, formatTime)}
}

func (h *prettyJSONHandler) Enabled(_ context.Context, level slog.Level) bool {
	return h.enabled(level)
}

func (h *prettyJSONHandler) Handle(_ context.Context, r slog.Record) error {
	buf := new(bytes.Buffer)
	buf.WriteString("{")

	first := true

	for _, a := range append(h.header(r), h.body(r)...) {
		if !first {
			buf.WriteByte(',')
		}

		first = false

		buf.WriteString("\n  ")
		buf.WriteString(colorGray)
		buf.WriteString(strconv.Quote(a.Key))
		buf.WriteString(colorReset)
		buf.WriteString(": ")

		writeValue(buf, a.Value.Resolve())
	}

	buf.WriteString("\n}")

	return h.write(buf)
}

func (h *prettyJSONHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return &prettyJSONHandler{h.withAttrs(attrs)}
}

func (h *prettyJSONHandler) WithGroup(name string) slog.Handler {
	return &prettyJSONHandler{h.withGroup(name)}
}

func writeValue(buf *bytes.Buffer, v slog.Value) {
	color, text := colorize(v)

	buf.WriteString(color)
	buf.WriteString(text)
	buf.WriteString(colorReset)
}

// colorize returns the color and text used to print v.
func colorize(v slog.Value) (string, string) {
	switch v.Kind() {
	case slog.KindInt64:
		return colorYellow, strconv.FormatInt(v.Int64(), 10)

	case slog.KindUint64:
		return colorYellow, strconv.FormatUint(v.Uint64(), 10)

	case slog.KindFloat64:
		return colorYellow, strconv.FormatFloat(v.Float64(), 'g', -1, 64)

	case slog.KindBool:
		if v.Bool() {
			return colorGreen, "true"
		}

		return colorRed, "false"

	case slog.KindDuration:
		return colorMagenta, v.Duration().String()

	case slog.KindTime:
		return colorBlue, v.Time().Format(time.RFC3339)

	case slog.KindAny:
		switch a := v.Any().(type) {
		case slog.Level:
			return levelColor(a), levelName(a)
		case nil:
			return colorGray, "null"
		}
	}

	return colorCyan, v.String()
}

func levelColor(level slog.Level) string {
	switch {
	case level >= slog.LevelError:
		return colorRed
	case level >= slog.LevelWarn:
		return colorYellow
	case level >= slog.LevelInfo:
		return colorGreen
	case level >= slog.LevelDebug:
		return colorBlue
	default:
		return colorMagenta
	}
}
