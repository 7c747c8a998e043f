package fields

import (
	"regexp"
	"strings"
)

var placeholderRE = regexp.MustCompile(`\{(\w+)\}`)

// Placeholders returns the distinct placeholder names in template, in
// order of first appearance. Names are not validated.
func Placeholders(template string) []string {
	if strings.TrimSpace(template) == "" {
		return nil
	}
	seen := make(map[string]struct{})
	var out []string
	for _, m := range placeholderRE.FindAllStringSubmatch(template, -1) {
		if _, dup := seen[m[1]]; dup {
			continue
		}
		seen[m[1]] = struct{}{}
		out = append(out, m[1])
	}
	return out
}

// TemplateFields parses the placeholders of template into fields. Unknown
// names fail with ErrUnknownField.
func TemplateFields(template string) ([]Field, error) {
	names := Placeholders(template)
	out := make([]Field, 0, len(names))
	for _, name := range names {
		f, err := Parse(name)
		if err != nil {
			return nil, err
		}
		out = append(out, f)
	}
	return out, nil
}
