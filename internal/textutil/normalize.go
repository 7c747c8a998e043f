package textutil

import (
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

var (
	horizontalRun = regexp.MustCompile(`[\t\f\v\p{Zs}]+`)
	blankLines    = regexp.MustCompile(`\n{3,}`)
)

// invisible matches zero-width characters and control characters other
// than newline and tab.
var invisible = runes.Predicate(func(r rune) bool {
	switch r {
	case '\n', '\t':
		return false
	case '\u200b', '\u200c', '\u200d', '\u2060', '\ufeff':
		return true
	}
	return unicode.IsControl(r)
})

// NormalizeText cleans up extracted document text. It composes the string
// to NFC, drops zero-width and control characters, turns non-breaking and
// other horizontal spaces into plain spaces, and keeps at most one empty
// line between paragraphs. Lines are trimmed of surrounding spaces.
func NormalizeText(s string) string {
	s = strings.ReplaceAll(s, "\r\n", "\n")
	s = strings.ReplaceAll(s, "\r", "\n")
	t := transform.Chain(norm.NFC, runes.Remove(invisible))
	if out, _, err := transform.String(t, s); err == nil {
		s = out
	}
	lines := strings.Split(s, "\n")
	for i, line := range lines {
		lines[i] = strings.TrimSpace(horizontalRun.ReplaceAllString(line, " "))
	}
	s = blankLines.ReplaceAllString(strings.Join(lines, "\n"), "\n\n")
	return strings.Trim(s, "\n")
}
