package fields

import (
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/ncruces/go-strftime"

	"autonameow/internal/coercers"
	"autonameow/internal/textutil"
)

// ErrUnknownField is returned for placeholder names outside the vocabulary.
var ErrUnknownField = errors.New("unknown name template field")

// Field is a name template placeholder.
type Field string

// Vocabulary.
const (
	Author      Field = "author"
	Date        Field = "date"
	DateTime    Field = "datetime"
	Description Field = "description"
	Edition     Field = "edition"
	Extension   Field = "extension"
	Publisher   Field = "publisher"
	Tags        Field = "tags"
	Time        Field = "time"
	Title       Field = "title"
)

var vocabulary = []Field{Author, Date, DateTime, Description, Edition, Extension, Publisher, Tags, Time, Title}

// All returns every field in alphabetical order.
func All() []Field {
	out := make([]Field, len(vocabulary))
	copy(out, vocabulary)
	return out
}

// Parse looks up a field by name, ignoring case and surrounding space.
func Parse(name string) (Field, error) {
	want := Field(strings.ToLower(strings.TrimSpace(name)))
	for _, f := range vocabulary {
		if f == want {
			return f, nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownField, name)
}

// IsValid reports whether name is part of the vocabulary.
func IsValid(name string) bool {
	_, err := Parse(name)
	return err == nil
}

func (f Field) String() string { return string(f) }

// Coercer returns the canonical coercer values for f must pass.
func (f Field) Coercer() coercers.Coercer {
	switch f {
	case Date:
		return coercers.Date
	case DateTime, Time:
		return coercers.TimeDate
	case Edition:
		return coercers.Integer
	case Extension:
		return coercers.PathComponent
	default:
		return coercers.String
	}
}

// Multivalued reports whether f accepts a list of values.
func (f Field) Multivalued() bool {
	return f == Tags || f == Author
}

// Formats holds the strftime formats used for date and time fields.
type Formats struct {
	Date     string
	DateTime string
	Time     string
}

// DefaultFormats mirrors the default configuration.
func DefaultFormats() Formats {
	return Formats{
		Date:     "%Y-%m-%d",
		DateTime: "%Y-%m-%dT%H%M%S",
		Time:     "%H-%M-%S",
	}
}

func (fm Formats) withDefaults() Formats {
	def := DefaultFormats()
	if strings.TrimSpace(fm.Date) == "" {
		fm.Date = def.Date
	}
	if strings.TrimSpace(fm.DateTime) == "" {
		fm.DateTime = def.DateTime
	}
	if strings.TrimSpace(fm.Time) == "" {
		fm.Time = def.Time
	}
	return fm
}

var titleTrimChars = ",.:;-_ "

// Format renders an already coerced value for substitution into a name
// template. Lists are accepted for multivalued fields.
func (f Field) Format(value any, formats Formats) (string, error) {
	formats = formats.withDefaults()
	if list, ok := value.([]any); ok {
		return f.formatList(list, formats)
	}
	if list, ok := value.([]string); ok {
		items := make([]any, len(list))
		for i, s := range list {
			items[i] = s
		}
		return f.formatList(items, formats)
	}

	switch f {
	case Date, DateTime, Time:
		t, ok := value.(time.Time)
		if !ok {
			coerced, err := f.Coercer().Coerce(value)
			if err != nil {
				return "", err
			}
			t = coerced.(time.Time)
		}
		layout := formats.DateTime
		if f == Date {
			layout = formats.Date
		} else if f == Time {
			layout = formats.Time
		}
		return strftime.Format(layout, t), nil
	case Edition:
		s, err := coercers.String.Format(value)
		if err != nil {
			return "", err
		}
		return strings.TrimSpace(s) + "E", nil
	case Title:
		s, err := coercers.String.Format(value)
		if err != nil {
			return "", err
		}
		return NormalizeTitle(s), nil
	case Author:
		s, err := coercers.String.Format(value)
		if err != nil {
			return "", err
		}
		return textutil.FormatNameLastnameInitials(s), nil
	default:
		return f.Coercer().Format(value)
	}
}

func (f Field) formatList(values []any, formats Formats) (string, error) {
	if !f.Multivalued() {
		if len(values) == 1 {
			return f.Format(values[0], formats)
		}
		return "", fmt.Errorf("%s does not accept %d values", f, len(values))
	}
	parts := make([]string, 0, len(values))
	for _, v := range values {
		s, err := f.Format(v, formats)
		if err != nil {
			return "", err
		}
		if s = strings.TrimSpace(s); s != "" {
			parts = append(parts, s)
		}
	}
	if f == Tags {
		sort.Strings(parts)
	}
	return strings.Join(parts, " "), nil
}

// NormalizeTitle strips separator punctuation from both ends and spells
// out ampersands.
func NormalizeTitle(s string) string {
	s = strings.Trim(s, titleTrimChars)
	s = strings.ReplaceAll(s, "&#8211;", "-")
	s = strings.ReplaceAll(s, "&", "and")
	return s
}

// Dummy returns a placeholder value of the right shape used to validate
// templates without real data.
func (f Field) Dummy() string {
	switch f {
	case Author:
		return "Gibson Sjöberg"
	case Date:
		return "1998-04-01"
	case DateTime:
		return "1998-04-01T122334"
	case Description:
		return "Example Description"
	case Edition:
		return "12E"
	case Extension:
		return "pdf"
	case Publisher:
		return "Catmandu Books"
	case Tags:
		return "tagA tagB"
	case Time:
		return "12-23-34"
	case Title:
		return "Example Title"
	default:
		return string(f)
	}
}

// WeightedMapping declares how strongly a producer leaf relates to a field.
// Weights are in [0, 1].
type WeightedMapping struct {
	Field  Field
	Weight float64
}

// Mapping builds a WeightedMapping, clamping the weight into range.
func Mapping(f Field, weight float64) WeightedMapping {
	switch {
	case weight < 0:
		weight = 0
	case weight > 1:
		weight = 1
	}
	return WeightedMapping{Field: f, Weight: weight}
}
