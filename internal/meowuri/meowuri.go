package meowuri

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
)

// Known roots.
const (
	RootExtractor = "extractor"
	RootAnalyzer  = "analyzer"
	RootGeneric   = "generic"
)

const separator = "."

// ErrInvalidMeowURI is returned for strings that cannot form a MeowURI.
var ErrInvalidMeowURI = errors.New("invalid meowuri")

var (
	validComponent = regexp.MustCompile(`^[A-Za-z0-9:_+\-]+$`)
	knownRoots     = map[string]struct{}{
		RootExtractor: {},
		RootAnalyzer:  {},
		RootGeneric:   {},
	}
)

// URI addresses a single piece of data as root.children.leaf.
//
// The zero value is the empty URI; it is never valid and never matches.
// URI values are comparable and usable as map keys.
type URI struct {
	s string
}

// New joins the given parts into a URI. Parts may be strings, with or
// without embedded separators, or other URIs.
func New(parts ...any) (URI, error) {
	raw := make([]string, 0, len(parts)+2)
	for _, part := range parts {
		switch v := part.(type) {
		case string:
			raw = append(raw, splitComponents(v)...)
		case URI:
			raw = append(raw, v.Parts()...)
		case fmt.Stringer:
			raw = append(raw, splitComponents(v.String())...)
		default:
			return URI{}, fmt.Errorf("%w: unsupported part type %T", ErrInvalidMeowURI, part)
		}
	}
	return fromComponents(raw)
}

// MustNew is like New but panics on invalid input. Intended for package
// level tables of known URIs.
func MustNew(parts ...any) URI {
	uri, err := New(parts...)
	if err != nil {
		panic(err)
	}
	return uri
}

// Parse is New for a single string.
func Parse(value string) (URI, error) {
	return New(value)
}

func splitComponents(value string) []string {
	value = strings.TrimSpace(value)
	value = strings.Trim(value, separator)
	if value == "" {
		return nil
	}
	fields := strings.Split(value, separator)
	out := fields[:0]
	for _, field := range fields {
		field = strings.TrimSpace(field)
		if field == "" {
			continue
		}
		out = append(out, field)
	}
	return out
}

func fromComponents(parts []string) (URI, error) {
	if len(parts) < 2 {
		return URI{}, fmt.Errorf("%w: %q needs at least a root and a leaf", ErrInvalidMeowURI, strings.Join(parts, separator))
	}
	normalized := make([]string, len(parts))
	for i, part := range parts {
		if !validComponent.MatchString(part) {
			return URI{}, fmt.Errorf("%w: illegal component %q", ErrInvalidMeowURI, part)
		}
		if i < len(parts)-1 {
			part = strings.ToLower(part)
		}
		normalized[i] = part
	}
	if _, ok := knownRoots[normalized[0]]; !ok {
		return URI{}, fmt.Errorf("%w: unknown root %q", ErrInvalidMeowURI, normalized[0])
	}
	return URI{s: strings.Join(normalized, separator)}, nil
}

// String returns the serialized form.
func (u URI) String() string { return u.s }

// IsZero reports whether u is the empty URI.
func (u URI) IsZero() bool { return u.s == "" }

// Parts returns every component, root first.
func (u URI) Parts() []string {
	if u.s == "" {
		return nil
	}
	return strings.Split(u.s, separator)
}

// Root returns the first component.
func (u URI) Root() string {
	root, _, _ := strings.Cut(u.s, separator)
	return root
}

// Children returns the components between root and leaf.
func (u URI) Children() []string {
	parts := u.Parts()
	if len(parts) <= 2 {
		return nil
	}
	return parts[1 : len(parts)-1]
}

// Leaf returns the last component.
func (u URI) Leaf() string {
	if i := strings.LastIndex(u.s, separator); i >= 0 {
		return u.s[i+1:]
	}
	return u.s
}

// IsGeneric reports whether u is rooted at "generic".
func (u URI) IsGeneric() bool { return u.Root() == RootGeneric }

// IsExplicit reports whether u is a valid non-generic URI.
func (u URI) IsExplicit() bool { return u.s != "" && !u.IsGeneric() }

// StripLeaf returns u without its last component. Stripping a URI with a
// single remaining component yields the empty URI.
func (u URI) StripLeaf() URI {
	i := strings.LastIndex(u.s, separator)
	if i < 0 {
		return URI{}
	}
	return URI{s: u.s[:i]}
}

// WithLeaf returns u with its leaf replaced.
func (u URI) WithLeaf(leaf string) (URI, error) {
	return New(u.StripLeaf(), leaf)
}

// MatchesStart reports whether the leading components of u equal item's.
func (u URI) MatchesStart(item any) bool {
	want := itemParts(item)
	have := u.Parts()
	if len(want) == 0 || len(want) > len(have) {
		return false
	}
	return equalParts(have[:len(want)], want)
}

// MatchesEnd reports whether the trailing components of u equal item's.
func (u URI) MatchesEnd(item any) bool {
	want := itemParts(item)
	have := u.Parts()
	if len(want) == 0 || len(want) > len(have) {
		return false
	}
	return equalParts(have[len(have)-len(want):], want)
}

// Contains reports whether item's components appear contiguously in u.
func (u URI) Contains(item any) bool {
	want := itemParts(item)
	have := u.Parts()
	if len(want) == 0 || len(want) > len(have) {
		return false
	}
	for start := 0; start+len(want) <= len(have); start++ {
		if equalParts(have[start:start+len(want)], want) {
			return true
		}
	}
	return false
}

func itemParts(item any) []string {
	switch v := item.(type) {
	case URI:
		return v.Parts()
	case string:
		return splitComponents(v)
	default:
		return nil
	}
}

func equalParts(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

// Compare orders URIs by component count, then root, children and leaf.
func Compare(a, b URI) int {
	ap, bp := a.Parts(), b.Parts()
	if len(ap) != len(bp) {
		if len(ap) < len(bp) {
			return -1
		}
		return 1
	}
	for i := range ap {
		if c := strings.Compare(ap[i], bp[i]); c != 0 {
			return c
		}
	}
	return 0
}

// Less reports whether a sorts before b.
func Less(a, b URI) bool { return Compare(a, b) < 0 }
