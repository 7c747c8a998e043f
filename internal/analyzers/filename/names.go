package filename

import (
	"regexp"
	"strconv"
	"strings"
	"time"
)

var specialCaseLayouts = []struct {
	layout string
	width  int
}{
	{"2006-01-02_150405", 17},
	{"2006-01-02T150405", 17},
	{"20060102_150405", 15},
	{"20060102T150405", 15},
}

var (
	unixTimestampRE = regexp.MustCompile(`(?:^|\D)(\d{10}|\d{13})(?:\D|$)`)
	looseDateTimeRE = regexp.MustCompile(
		`(\d{4})[:_ .\-]?(\d{2})[:_ .\-]?(\d{2})[T_ .\-]?(\d{2})[:_ .\-]?(\d{2})[:_ .\-]?(\d{2})`)
	looseDateRE = regexp.MustCompile(`(?:^|\D)(\d{4})[_ .\-]?(\d{2})[_ .\-]?(\d{2})(?:\D|$)`)
)

// datetimeFromName finds a date and time in a basename prefix, trying the
// common "1992-12-24_121314" layouts at the start first.
func (a *Analyzer) datetimeFromName(text string) (time.Time, bool) {
	text = strings.TrimSpace(text)
	for _, sc := range specialCaseLayouts {
		if len(text) < sc.width {
			continue
		}
		if t, err := time.ParseInLocation(sc.layout, text[:sc.width], time.Local); err == nil && a.probable(t) {
			return t, true
		}
	}
	if m := looseDateTimeRE.FindStringSubmatch(text); m != nil {
		if t, ok := buildDateTime(m[1:]); ok && a.probable(t) {
			return t, true
		}
	}
	if m := unixTimestampRE.FindStringSubmatch(text); m != nil {
		digits := m[1]
		if len(digits) == 13 {
			digits = digits[:10]
		}
		if secs, err := strconv.ParseInt(digits, 10, 64); err == nil {
			t := time.Unix(secs, 0)
			if a.probable(t) {
				return t, true
			}
		}
	}
	return time.Time{}, false
}

// dateFromName finds a date without time of day.
func (a *Analyzer) dateFromName(text string) (time.Time, bool) {
	m := looseDateRE.FindStringSubmatch(text)
	if m == nil {
		return time.Time{}, false
	}
	t, ok := buildDateTime([]string{m[1], m[2], m[3], "00", "00", "00"})
	if !ok || !a.probable(t) {
		return time.Time{}, false
	}
	return t, true
}

func buildDateTime(parts []string) (time.Time, bool) {
	nums := make([]int, 6)
	for i, p := range parts[:6] {
		n, err := strconv.Atoi(p)
		if err != nil {
			return time.Time{}, false
		}
		nums[i] = n
	}
	if nums[1] < 1 || nums[1] > 12 || nums[2] < 1 || nums[2] > 31 || nums[3] > 23 || nums[4] > 59 || nums[5] > 59 {
		return time.Time{}, false
	}
	t := time.Date(nums[0], time.Month(nums[1]), nums[2], nums[3], nums[4], nums[5], 0, time.Local)
	if t.Day() != nums[2] {
		return time.Time{}, false
	}
	return t, true
}

func (a *Analyzer) probable(t time.Time) bool {
	return t.Year() >= 1900 && t.Year() <= a.now().Year()+1
}

var ordinals = []string{
	"first", "second", "third", "fourth", "fifth", "sixth", "seventh",
	"eighth", "ninth", "tenth", "eleventh", "twelfth", "thirteenth",
	"fourteenth", "fifteenth", "sixteenth", "seventeenth", "eighteenth",
	"nineteenth", "twentieth",
}

var (
	ordinalREs = func() []*regexp.Regexp {
		out := make([]*regexp.Regexp, len(ordinals))
		for i, word := range ordinals {
			out[i] = regexp.MustCompile(`(?i)\b(` + strconv.Itoa(i+1) + `(st|nd|rd|th)|` + word + `)[\s_.\-]*(ed\b|edition\b|e\b)`)
		}
		return out
	}()
	numericEditionRE = regexp.MustCompile(`(?i)\b(\d{1,2})(?:st|nd|rd|th)?[\s_.\-]?(?:e|ed|edition)\b`)
)

// FindEdition returns the edition number named in text, such as "2nd
// edition", "third ed" or "5E".
func FindEdition(text string) (int, bool) {
	for i, re := range ordinalREs {
		if re.MatchString(text) {
			return i + 1, true
		}
	}
	if m := numericEditionRE.FindStringSubmatch(text); m != nil {
		if n, err := strconv.Atoi(m[1]); err == nil && n > 0 {
			return n, true
		}
	}
	return 0, false
}
