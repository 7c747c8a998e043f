package logging

import (
	"fmt"
	"log/slog"
	"strconv"
	"strings"
	"time"
)

const (
	consoleClock     = "15:04:05"
	consoleTimeValue = "2006-01-02T15:04:05Z07:00"
)

// renderValue prints v for the console. Unless raw is set, strings that
// contain spaces, '=' or quotes are quoted.
func renderValue(v slog.Value, raw bool) string {
	v = v.Resolve()
	var s string
	switch v.Kind() {
	case slog.KindString:
		s = v.String()
	case slog.KindBool:
		return strconv.FormatBool(v.Bool())
	case slog.KindInt64:
		return strconv.FormatInt(v.Int64(), 10)
	case slog.KindUint64:
		return strconv.FormatUint(v.Uint64(), 10)
	case slog.KindFloat64:
		return strconv.FormatFloat(v.Float64(), 'f', -1, 64)
	case slog.KindDuration:
		return v.Duration().String()
	case slog.KindTime:
		return v.Time().Format(consoleTimeValue)
	case slog.KindAny:
		s = anyString(v.Any())
	default:
		s = v.String()
	}
	if raw || !needsQuotes(s) {
		return s
	}
	return strconv.Quote(s)
}

func anyString(value any) string {
	switch val := value.(type) {
	case error:
		return val.Error()
	case []string:
		return "[" + strings.Join(val, ",") + "]"
	case time.Time:
		return val.Format(consoleTimeValue)
	case fmt.Stringer:
		return val.String()
	default:
		return fmt.Sprint(val)
	}
}

func needsQuotes(s string) bool {
	return s == "" || strings.ContainsFunc(s, func(r rune) bool {
		return r <= ' ' || r == '=' || r == '"'
	})
}
