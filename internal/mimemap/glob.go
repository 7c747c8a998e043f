package mimemap

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
)

// Unknown stands in for MIME types that could not be determined. It is
// never of the form "type/subtype".
const Unknown = "<unknown>"

// ErrInvalidGlob is returned for MIME globs not of the form "type/subtype".
var ErrInvalidGlob = errors.New("invalid mime glob")

var (
	validMIME = regexp.MustCompile(`^[a-z0-9][a-z0-9!#$&^_.+\-]*/[a-z0-9][a-z0-9!#$&^_.+\-]*$`)
	validGlob = regexp.MustCompile(`^(\*|[a-z0-9][a-z0-9!#$&^_.+\-]*)/(\*|[a-z0-9][a-z0-9!#$&^_.+\-]*)$`)
)

// IsValid reports whether s is a concrete "type/subtype" MIME type.
func IsValid(s string) bool {
	return validMIME.MatchString(strings.ToLower(strings.TrimSpace(s)))
}

// ValidateGlob reports whether glob is usable with EvalGlob.
func ValidateGlob(glob string) error {
	g := strings.ToLower(strings.TrimSpace(glob))
	if !validGlob.MatchString(g) {
		return fmt.Errorf("%w: %q", ErrInvalidGlob, glob)
	}
	return nil
}

// EvalGlob reports whether mime matches any of globs. Either half of a
// glob may be "*". Unknown only matches "*/*".
func EvalGlob(mime string, globs []string) (bool, error) {
	mime = strings.ToLower(strings.TrimSpace(mime))
	if base, _, found := strings.Cut(mime, ";"); found {
		mime = strings.TrimSpace(base)
	}
	unknown := mime == Unknown || !IsValid(mime)
	mimeType, mimeSub, _ := strings.Cut(mime, "/")

	for _, glob := range globs {
		if err := ValidateGlob(glob); err != nil {
			return false, err
		}
		g := strings.ToLower(strings.TrimSpace(glob))
		globType, globSub, _ := strings.Cut(g, "/")
		if globType == "*" && globSub == "*" {
			return true, nil
		}
		if unknown {
			continue
		}
		if (globType == "*" || globType == mimeType) && (globSub == "*" || globSub == mimeSub) {
			return true, nil
		}
	}
	return false, nil
}
