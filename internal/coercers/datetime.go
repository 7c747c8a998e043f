package coercers

import (
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/ncruces/go-strftime"
)

// Default output formats.
const (
	DefaultDateFormat     = "%Y-%m-%d"
	DefaultTimeDateFormat = "%Y-%m-%dT%H:%M:%S"
)

var (
	looseDateRE     = regexp.MustCompile(`(\d{4})[:_ \-]?(\d{2})[:_ \-]?(\d{2})`)
	looseTimeDateRE = regexp.MustCompile(
		`(\d{4})[:_ \-]?(\d{2})[:_ \-]?(\d{2})[:_ \-T]?(\d{2})[:_ \-]?(\d{2})[:_ \-]?(\d{2})` +
			`(?:[.,](\d{1,9}))?` +
			`\s*(Z|[+\-]\d{2}:?\d{2})?`)
	zeroDateRE = regexp.MustCompile(`^[0:\- ]+$`)
)

type dateCoercer struct{}

func (dateCoercer) Name() string { return "date" }

func (c dateCoercer) Coerce(value any) (any, error) {
	if t, ok := value.(time.Time); ok {
		if t.IsZero() {
			return nil, fail(c, value, "zero time")
		}
		return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location()), nil
	}
	s, ok := asText(value)
	if !ok {
		return nil, fail(c, value, "")
	}
	m := looseDateRE.FindStringSubmatch(s)
	if m == nil {
		return nil, fail(c, value, "no date found")
	}
	t, ok := buildTime(m[1], m[2], m[3], "00", "00", "00", "", "")
	if !ok {
		return nil, fail(c, value, "date out of range")
	}
	return t, nil
}

func (c dateCoercer) Format(value any) (string, error) {
	v, err := c.Coerce(value)
	if err != nil {
		return "", err
	}
	return strftime.Format(DefaultDateFormat, v.(time.Time)), nil
}

type timeDateCoercer struct{}

func (timeDateCoercer) Name() string { return "timedate" }

func (c timeDateCoercer) Coerce(value any) (any, error) {
	if t, ok := value.(time.Time); ok {
		if t.IsZero() {
			return nil, fail(c, value, "zero time")
		}
		return t, nil
	}
	s, ok := asText(value)
	if !ok {
		return nil, fail(c, value, "")
	}
	t, ok := parseLooseTimeDate(s)
	if !ok {
		return nil, fail(c, value, "no date and time found")
	}
	return t, nil
}

func (c timeDateCoercer) Format(value any) (string, error) {
	v, err := c.Coerce(value)
	if err != nil {
		return "", err
	}
	return strftime.Format(DefaultTimeDateFormat, v.(time.Time)), nil
}

type exifToolTimeDateCoercer struct{}

func (exifToolTimeDateCoercer) Name() string { return "exiftooltimedate" }

// Coerce handles exiftool output such as "2016:01:11 12:41:32+00:00" and
// raw PDF dates like "D:20160111124132+00'00'". Placeholder dates made of
// zeroes are rejected.
func (c exifToolTimeDateCoercer) Coerce(value any) (any, error) {
	if t, ok := value.(time.Time); ok {
		return TimeDate.Coerce(t)
	}
	s, ok := asText(value)
	if !ok {
		return nil, fail(c, value, "")
	}
	s = strings.TrimSpace(s)
	if s == "" || zeroDateRE.MatchString(s) {
		return nil, fail(c, value, "placeholder date")
	}
	s = strings.TrimPrefix(s, "D:")
	s = strings.ReplaceAll(s, "'", "")
	t, ok := parseLooseTimeDate(s)
	if !ok {
		return nil, fail(c, value, "no date and time found")
	}
	return t, nil
}

func (c exifToolTimeDateCoercer) Format(value any) (string, error) {
	v, err := c.Coerce(value)
	if err != nil {
		return "", err
	}
	return strftime.Format(DefaultTimeDateFormat, v.(time.Time)), nil
}

func parseLooseTimeDate(s string) (time.Time, bool) {
	m := looseTimeDateRE.FindStringSubmatch(s)
	if m == nil {
		return time.Time{}, false
	}
	return buildTime(m[1], m[2], m[3], m[4], m[5], m[6], m[7], m[8])
}

func buildTime(year, month, day, hour, minute, second, fraction, zone string) (time.Time, bool) {
	nums := make([]int, 6)
	for i, raw := range []string{year, month, day, hour, minute, second} {
		n, err := strconv.Atoi(raw)
		if err != nil {
			return time.Time{}, false
		}
		nums[i] = n
	}
	if nums[0] == 0 || nums[1] < 1 || nums[1] > 12 || nums[2] < 1 || nums[2] > 31 ||
		nums[3] > 23 || nums[4] > 59 || nums[5] > 59 {
		return time.Time{}, false
	}
	nanos := 0
	if fraction != "" {
		padded := (fraction + "000000000")[:9]
		n, err := strconv.Atoi(padded)
		if err != nil {
			return time.Time{}, false
		}
		nanos = n
	}
	loc := time.UTC
	if zone != "" && zone != "Z" {
		sign := 1
		if zone[0] == '-' {
			sign = -1
		}
		digits := strings.ReplaceAll(zone[1:], ":", "")
		hh, err1 := strconv.Atoi(digits[:2])
		mm, err2 := strconv.Atoi(digits[2:])
		if err1 != nil || err2 != nil {
			return time.Time{}, false
		}
		loc = time.FixedZone(zone, sign*(hh*3600+mm*60))
	}
	t := time.Date(nums[0], time.Month(nums[1]), nums[2], nums[3], nums[4], nums[5], nanos, loc)
	if t.Day() != nums[2] {
		return time.Time{}, false
	}
	return t, true
}
