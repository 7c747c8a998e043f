package coercers

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
	"unicode/utf8"

	"autonameow/internal/mimemap"
)

// ErrCoerce marks values a coercer cannot convert.
var ErrCoerce = errors.New("coercion failed")

// Coercer is a semantic type tag. Coerce converts a raw value into the
// canonical Go representation; Format renders a canonical value as text.
type Coercer interface {
	Name() string
	Coerce(value any) (any, error)
	Format(value any) (string, error)
}

// Accepts reports whether c can coerce value.
func Accepts(c Coercer, value any) bool {
	if c == nil {
		return false
	}
	_, err := c.Coerce(value)
	return err == nil
}

// AcceptsAll reports whether c accepts every element of values.
func AcceptsAll(c Coercer, values []any) bool {
	for _, v := range values {
		if !Accepts(c, v) {
			return false
		}
	}
	return true
}

// CoerceList coerces every element, failing on the first rejected one.
func CoerceList(c Coercer, values []any) ([]any, error) {
	out := make([]any, 0, len(values))
	for _, v := range values {
		coerced, err := c.Coerce(v)
		if err != nil {
			return nil, err
		}
		out = append(out, coerced)
	}
	return out, nil
}

func fail(c Coercer, value any, reason string) error {
	if reason == "" {
		return fmt.Errorf("%w: %s cannot coerce %T %v", ErrCoerce, c.Name(), value, value)
	}
	return fmt.Errorf("%w: %s cannot coerce %T %v: %s", ErrCoerce, c.Name(), value, value, reason)
}

// Shared instances. Coercers are stateless.
var (
	Path          Coercer = pathCoercer{}
	PathComponent Coercer = pathComponentCoercer{}
	Boolean       Coercer = booleanCoercer{}
	Integer       Coercer = integerCoercer{}
	Float         Coercer = floatCoercer{}
	String        Coercer = stringCoercer{}
	MimeType      Coercer = mimeTypeCoercer{}
	Date          Coercer = dateCoercer{}
	TimeDate      Coercer = timeDateCoercer{}
	ExifTimeDate  Coercer = exifToolTimeDateCoercer{}
)

var byName = map[string]Coercer{}

func init() {
	for _, c := range []Coercer{Path, PathComponent, Boolean, Integer, Float, String, MimeType, Date, TimeDate, ExifTimeDate} {
		byName[c.Name()] = c
	}
}

// ByName looks up a coercer by its name.
func ByName(name string) (Coercer, bool) {
	c, ok := byName[strings.ToLower(strings.TrimSpace(name))]
	return c, ok
}

func asText(value any) (string, bool) {
	switch v := value.(type) {
	case string:
		return v, true
	case []byte:
		if !utf8.Valid(v) {
			return strings.ToValidUTF8(string(v), "�"), true
		}
		return string(v), true
	case fmt.Stringer:
		return v.String(), true
	default:
		return "", false
	}
}

type pathCoercer struct{}

func (pathCoercer) Name() string { return "path" }

func (c pathCoercer) Coerce(value any) (any, error) {
	s, ok := asText(value)
	if !ok {
		return nil, fail(c, value, "")
	}
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, fail(c, value, "empty path")
	}
	return s, nil
}

func (c pathCoercer) Format(value any) (string, error) {
	v, err := c.Coerce(value)
	if err != nil {
		return "", err
	}
	return v.(string), nil
}

type pathComponentCoercer struct{}

func (pathComponentCoercer) Name() string { return "pathcomponent" }

func (c pathComponentCoercer) Coerce(value any) (any, error) {
	s, ok := asText(value)
	if !ok {
		return nil, fail(c, value, "")
	}
	return s, nil
}

func (c pathComponentCoercer) Format(value any) (string, error) {
	v, err := c.Coerce(value)
	if err != nil {
		return "", err
	}
	return v.(string), nil
}

type booleanCoercer struct{}

func (booleanCoercer) Name() string { return "boolean" }

func (c booleanCoercer) Coerce(value any) (any, error) {
	switch v := value.(type) {
	case bool:
		return v, nil
	case int:
		return v > 0, nil
	case int64:
		return v > 0, nil
	case float64:
		return v > 0, nil
	}
	if s, ok := asText(value); ok {
		if b, ok := ParseBool(s); ok {
			return b, nil
		}
	}
	return nil, fail(c, value, "")
}

func (c booleanCoercer) Format(value any) (string, error) {
	v, err := c.Coerce(value)
	if err != nil {
		return "", err
	}
	return strconv.FormatBool(v.(bool)), nil
}

var (
	truthy = map[string]struct{}{"true": {}, "positive": {}, "yes": {}, "on": {}, "enable": {}, "enabled": {}, "active": {}}
	falsy  = map[string]struct{}{"false": {}, "negative": {}, "no": {}, "off": {}, "disable": {}, "disabled": {}, "inactive": {}, "passive": {}}
)

// ParseBool recognizes the boolean literals accepted in configuration.
func ParseBool(s string) (value bool, ok bool) {
	s = strings.ToLower(strings.TrimSpace(s))
	if _, found := truthy[s]; found {
		return true, true
	}
	if _, found := falsy[s]; found {
		return false, true
	}
	return false, false
}

type integerCoercer struct{}

func (integerCoercer) Name() string { return "integer" }

func (c integerCoercer) Coerce(value any) (any, error) {
	switch v := value.(type) {
	case bool:
		return nil, fail(c, value, "")
	case int:
		return v, nil
	case int64:
		return int(v), nil
	case int32:
		return int(v), nil
	case uint64:
		return int(v), nil
	case float64:
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return nil, fail(c, value, "not finite")
		}
		return int(v), nil
	}
	s, ok := asText(value)
	if !ok {
		return nil, fail(c, value, "")
	}
	s = strings.TrimSpace(s)
	if n, err := strconv.Atoi(s); err == nil {
		return n, nil
	}
	if f, err := strconv.ParseFloat(s, 64); err == nil && !math.IsNaN(f) && !math.IsInf(f, 0) {
		return int(f), nil
	}
	return nil, fail(c, value, "")
}

func (c integerCoercer) Format(value any) (string, error) {
	v, err := c.Coerce(value)
	if err != nil {
		return "", err
	}
	return strconv.Itoa(v.(int)), nil
}

type floatCoercer struct{}

func (floatCoercer) Name() string { return "float" }

func (c floatCoercer) Coerce(value any) (any, error) {
	switch v := value.(type) {
	case bool:
		return nil, fail(c, value, "")
	case float64:
		return v, nil
	case float32:
		return float64(v), nil
	case int:
		return float64(v), nil
	case int64:
		return float64(v), nil
	}
	s, ok := asText(value)
	if !ok {
		return nil, fail(c, value, "")
	}
	f, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		return nil, fail(c, value, "")
	}
	return f, nil
}

func (c floatCoercer) Format(value any) (string, error) {
	v, err := c.Coerce(value)
	if err != nil {
		return "", err
	}
	return strconv.FormatFloat(v.(float64), 'f', 1, 64), nil
}

type stringCoercer struct{}

func (stringCoercer) Name() string { return "string" }

func (c stringCoercer) Coerce(value any) (any, error) {
	switch v := value.(type) {
	case nil:
		return nil, fail(c, value, "")
	case int, int64, float64, bool:
		return fmt.Sprint(v), nil
	}
	s, ok := asText(value)
	if !ok {
		return nil, fail(c, value, "")
	}
	return s, nil
}

func (c stringCoercer) Format(value any) (string, error) {
	v, err := c.Coerce(value)
	if err != nil {
		return "", err
	}
	return v.(string), nil
}

type mimeTypeCoercer struct{}

func (mimeTypeCoercer) Name() string { return "mimetype" }

// Coerce accepts "type/subtype" strings and file extensions, which are
// translated through the builtin MIME mapper.
func (c mimeTypeCoercer) Coerce(value any) (any, error) {
	s, ok := asText(value)
	if !ok {
		return nil, fail(c, value, "")
	}
	s = strings.ToLower(strings.TrimSpace(s))
	if s == mimemap.Unknown {
		return s, nil
	}
	if base, _, found := strings.Cut(s, ";"); found {
		s = strings.TrimSpace(base)
	}
	if mimemap.IsValid(s) {
		return s, nil
	}
	if guessed := mimemap.Builtin().MIMEType(strings.TrimPrefix(s, ".")); guessed != mimemap.Unknown {
		return guessed, nil
	}
	return nil, fail(c, value, "unknown mime type")
}

func (c mimeTypeCoercer) Format(value any) (string, error) {
	v, err := c.Coerce(value)
	if err != nil {
		return "", err
	}
	mime := v.(string)
	if mime == mimemap.Unknown {
		return "", nil
	}
	ext := mimemap.Builtin().Extension(mime)
	return ext, nil
}
