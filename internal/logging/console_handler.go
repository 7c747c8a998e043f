package logging

import (
	"context"
	"io"
	"log/slog"
	"path/filepath"
	"strconv"
	"strings"
	"sync"
	"time"
)

const ansiReset = "\x1b[0m"

// levelStyles maps a level floor to its padded label and ANSI color,
// highest first.
var levelStyles = []struct {
	floor slog.Level
	label string
	color string
}{
	{slog.LevelError, "ERROR", "\x1b[31m"},
	{slog.LevelWarn, "WARN ", "\x1b[33m"},
	{slog.LevelInfo, "INFO ", "\x1b[34m"},
	{slog.LevelDebug - 100, "DEBUG", "\x1b[90m"},
}

// consoleSink is shared by a handler and every handler derived from it.
type consoleSink struct {
	mu        sync.Mutex
	w         io.Writer
	level     *slog.LevelVar
	addSource bool
	color     bool
}

// field is a flattened attribute; group names are joined with dots.
type field struct {
	key   string
	value slog.Value
}

// consoleHandler renders
//
//	15:04:05 INFO  [component] file.pdf: message key=value ...
//
// The component and file attributes move into the prefix; later attributes
// with the same key replace earlier ones.
type consoleHandler struct {
	sink   *consoleSink
	group  string
	fields []field
}

func newConsoleHandler(w io.Writer, lvl *slog.LevelVar, addSource, color bool) slog.Handler {
	return &consoleHandler{sink: &consoleSink{w: w, level: lvl, addSource: addSource, color: color}}
}

func (h *consoleHandler) Enabled(_ context.Context, level slog.Level) bool {
	return level >= h.sink.level.Level()
}

func (h *consoleHandler) Handle(_ context.Context, record slog.Record) error {
	if !h.Enabled(context.Background(), record.Level) {
		return nil
	}
	fields := append([]field(nil), h.fields...)
	record.Attrs(func(attr slog.Attr) bool {
		fields = appendField(fields, h.group, attr)
		return true
	})

	var component, file string
	rest := fields[:0:0]
	for _, f := range fields {
		switch f.key {
		case FieldComponent:
			component = renderValue(f.value, true)
		case FieldFile:
			file = renderValue(f.value, true)
		default:
			rest = setField(rest, f)
		}
	}

	ts := record.Time
	if ts.IsZero() {
		ts = time.Now()
	}
	var b strings.Builder
	b.WriteString(ts.Local().Format(consoleClock))
	b.WriteByte(' ')
	b.WriteString(h.label(record.Level))
	if component != "" {
		b.WriteString(" [" + component + "]")
	}
	if file != "" {
		b.WriteString(" " + filepath.Base(file) + ":")
	}
	msg := strings.TrimSpace(record.Message)
	if msg == "" {
		msg = "(no message)"
	}
	b.WriteString(" " + msg)
	if h.sink.addSource {
		if src := record.Source(); src != nil && src.File != "" {
			b.WriteString(" [" + filepath.Base(src.File) + ":" + strconv.Itoa(src.Line) + "]")
		}
	}
	for _, f := range rest {
		b.WriteString(" " + f.key + "=" + renderValue(f.value, false))
	}
	b.WriteByte('\n')

	h.sink.mu.Lock()
	defer h.sink.mu.Unlock()
	_, err := io.WriteString(h.sink.w, b.String())
	return err
}

func (h *consoleHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	next := &consoleHandler{sink: h.sink, group: h.group, fields: append([]field(nil), h.fields...)}
	for _, attr := range attrs {
		next.fields = appendField(next.fields, h.group, attr)
	}
	return next
}

func (h *consoleHandler) WithGroup(name string) slog.Handler {
	if name == "" {
		return h
	}
	return &consoleHandler{sink: h.sink, group: joinKey(h.group, name), fields: h.fields}
}

func (h *consoleHandler) label(level slog.Level) string {
	for _, s := range levelStyles {
		if level >= s.floor {
			if h.sink.color {
				return s.color + s.label + ansiReset
			}
			return s.label
		}
	}
	return levelStyles[len(levelStyles)-1].label
}

func appendField(dst []field, group string, attr slog.Attr) []field {
	if attr.Equal(slog.Attr{}) {
		return dst
	}
	v := attr.Value.Resolve()
	if v.Kind() == slog.KindGroup {
		inner := joinKey(group, attr.Key)
		for _, a := range v.Group() {
			dst = appendField(dst, inner, a)
		}
		return dst
	}
	key := joinKey(group, attr.Key)
	if key == "" {
		return dst
	}
	return append(dst, field{key: key, value: v})
}

func setField(fields []field, f field) []field {
	for i := range fields {
		if fields[i].key == f.key {
			fields[i].value = f.value
			return fields
		}
	}
	return append(fields, f)
}

func joinKey(prefix, key string) string {
	switch {
	case prefix == "":
		return key
	case key == "":
		return prefix
	}
	return prefix + "." + key
}
