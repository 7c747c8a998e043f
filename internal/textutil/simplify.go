package textutil

import (
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

var whitespaceRun = regexp.MustCompile(`\s+`)

// CollapseWhitespace replaces runs of whitespace with a single space and
// trims both ends.
func CollapseWhitespace(s string) string {
	return strings.TrimSpace(whitespaceRun.ReplaceAllString(s, " "))
}

// SimplifyUnicode strips combining marks so "Sjöberg" becomes "Sjoberg".
func SimplifyUnicode(s string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	out, _, err := transform.String(t, s)
	if err != nil {
		return s
	}
	return out
}

// Lower lowercases s using Unicode case rules.
func Lower(s string) string {
	return cases.Lower(language.Und).String(s)
}

// Upper uppercases s using Unicode case rules.
func Upper(s string) string {
	return cases.Upper(language.Und).String(s)
}

// FormatNameLastnameInitials formats a personal name as the last name
// followed by initials, "Gibson Catherine Sjöberg" becoming "Sjöberg G.C.".
// Names written as "Last, First" are recognized. Single names pass through.
func FormatNameLastnameInitials(name string) string {
	name = CollapseWhitespace(name)
	if name == "" {
		return ""
	}
	var last string
	var given []string
	if before, after, found := strings.Cut(name, ","); found {
		last = strings.TrimSpace(before)
		given = strings.Fields(after)
	} else {
		parts := strings.Fields(name)
		last = parts[len(parts)-1]
		given = parts[:len(parts)-1]
	}
	if len(given) == 0 {
		return last
	}
	var initials strings.Builder
	for _, g := range given {
		g = strings.Trim(g, ".")
		for _, r := range g {
			initials.WriteRune(unicode.ToUpper(r))
			initials.WriteByte('.')
			break
		}
	}
	if initials.Len() == 0 {
		return last
	}
	return last + " " + initials.String()
}
