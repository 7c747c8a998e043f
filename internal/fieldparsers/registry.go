package fieldparsers

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"autonameow/internal/meowuri"
)

var (
	// ErrNoParser is returned when no parser applies to a MeowURI.
	ErrNoParser = errors.New("no field parser applies")
	// ErrAmbiguousParser is returned when several parsers apply to a MeowURI.
	ErrAmbiguousParser = errors.New("several field parsers apply")
)

// Registry dispatches MeowURIs to parsers.
type Registry struct {
	parsers []Parser
}

// NewRegistry returns a registry of the given parsers.
func NewRegistry(parsers ...Parser) *Registry {
	return &Registry{parsers: append([]Parser(nil), parsers...)}
}

// Default returns a registry holding every built-in parser.
func Default() *Registry {
	return NewRegistry(NewBoolean(), NewRegex(), NewMimeType(), NewDateTime(), NewNameTemplate())
}

// Parsers returns the registered parsers in registration order.
func (r *Registry) Parsers() []Parser {
	return append([]Parser(nil), r.parsers...)
}

// ByName returns the parser registered under name.
func (r *Registry) ByName(name string) (Parser, bool) {
	for _, p := range r.parsers {
		if p.Name() == name {
			return p, true
		}
	}
	return nil, false
}

// ForURI returns the single parser whose globs match uri.
func (r *Registry) ForURI(uri meowuri.URI) (Parser, error) {
	var matched []Parser
	for _, p := range r.parsers {
		if globs := p.AppliesTo(); len(globs) > 0 && uri.MatchGlobs(globs) {
			matched = append(matched, p)
		}
	}
	switch len(matched) {
	case 0:
		return nil, fmt.Errorf("%w: %s", ErrNoParser, uri)
	case 1:
		return matched[0], nil
	default:
		names := make([]string, len(matched))
		for i, p := range matched {
			names[i] = p.Name()
		}
		sort.Strings(names)
		return nil, fmt.Errorf("%w: %s (%s)", ErrAmbiguousParser, uri, strings.Join(names, ", "))
	}
}
