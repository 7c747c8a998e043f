package fieldparsers

import (
	"regexp"
	"strings"
	"sync"
	"time"

	"github.com/ncruces/go-strftime"

	"autonameow/internal/coercers"
	"autonameow/internal/fields"
	"autonameow/internal/mimemap"
	"autonameow/internal/namebuilder"
)

// Parser validates condition expressions and evaluates them against data.
// Evaluate returns a truthy result and true on success; the result is the
// match for regexes and the data otherwise.
type Parser interface {
	Name() string
	AppliesTo() []string
	AllowMultivaluedExpression() bool
	Validate(expression any) bool
	Evaluate(expression, data any) (any, bool)
}

type single interface {
	validateOne(expression any) bool
	evaluateOne(expression, data any) (any, bool)
}

// base implements the list handling shared by every parser: a list
// expression validates when every element does and evaluates true when any
// element does.
type base struct {
	name      string
	globs     []string
	multi     bool
	evaluator single
}

func (b *base) Name() string { return b.name }
func (b *base) AppliesTo() []string { return append([]string(nil), b.globs...) }
func (b *base) AllowMultivaluedExpression() bool { return b.multi }

func (b *base) Validate(expression any) bool {
	if list, ok := asList(expression); ok {
		if !b.multi || len(list) == 0 {
			return false
		}
		for _, e := range list {
			if !b.evaluator.validateOne(e) {
				return false
			}
		}
		return true
	}
	return b.evaluator.validateOne(expression)
}

func (b *base) Evaluate(expression, data any) (any, bool) {
	if data == nil {
		return nil, false
	}
	if list, ok := asList(expression); ok {
		if !b.multi {
			return nil, false
		}
		for _, e := range list {
			if res, ok := b.evaluator.evaluateOne(e, data); ok {
				return res, true
			}
		}
		return nil, false
	}
	return b.evaluator.evaluateOne(expression, data)
}

func asList(v any) ([]any, bool) {
	switch l := v.(type) {
	case []any:
		return l, true
	case []string:
		out := make([]any, len(l))
		for i, s := range l {
			out[i] = s
		}
		return out, true
	}
	return nil, false
}

func asString(v any) (string, bool) {
	switch s := v.(type) {
	case string:
		return s, true
	case []byte:
		return string(s), true
	}
	return "", false
}

// NewBoolean returns the parser for boolean flags such as
// follows_filetags_convention.
func NewBoolean() Parser {
	return &base{
		name:      "boolean",
		globs:     []string{"*.follows_filetags_convention"},
		evaluator: booleanParser{},
	}
}

type booleanParser struct{}

func (booleanParser) validateOne(expression any) bool {
	return coercers.Accepts(coercers.Boolean, expression)
}

func (booleanParser) evaluateOne(expression, data any) (any, bool) {
	want, err := coercers.Boolean.Coerce(expression)
	if err != nil {
		return nil, false
	}
	have, err := coercers.Boolean.Coerce(data)
	if err != nil {
		return nil, false
	}
	if want.(bool) != have.(bool) {
		return nil, false
	}
	return true, true
}

// NewRegex returns the parser for textual data. Expressions are regular
// expressions that must match at the start of the data.
func NewRegex() Parser {
	return &base{
		name: "regex",
		globs: []string{
			"*.abspath_full",
			"*.basename_full",
			"*.basename_prefix",
			"*.basename_suffix",
			"*.extension",
			"*.pathname_full",
			"*.pathname_parent",
			"*.author",
			"*.creator",
			"*.description",
			"*.producer",
			"*.publisher",
			"*.subject",
			"*.tags",
			"*.text",
			"*.title",
			"extractor.metadata.exiftool.*",
			"extractor.text.*",
		},
		multi:     true,
		evaluator: &regexParser{cache: make(map[string]*regexp.Regexp)},
	}
}

type regexParser struct {
	mu    sync.Mutex
	cache map[string]*regexp.Regexp
}

func (p *regexParser) compile(expression any) (*regexp.Regexp, bool) {
	pattern, ok := asString(expression)
	if !ok || pattern == "" {
		return nil, false
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	if re, ok := p.cache[pattern]; ok {
		return re, re != nil
	}
	re, err := regexp.Compile(`^(?:` + pattern + `)`)
	if err != nil {
		p.cache[pattern] = nil
		return nil, false
	}
	p.cache[pattern] = re
	return re, true
}

func (p *regexParser) validateOne(expression any) bool {
	_, ok := p.compile(expression)
	return ok
}

func (p *regexParser) evaluateOne(expression, data any) (any, bool) {
	re, ok := p.compile(expression)
	if !ok {
		return nil, false
	}
	if list, ok := asList(data); ok {
		for _, item := range list {
			if m, ok := p.matchText(re, item); ok {
				return m, true
			}
		}
		return nil, false
	}
	return p.matchText(re, data)
}

func (p *regexParser) matchText(re *regexp.Regexp, data any) ([]string, bool) {
	text, ok := asString(data)
	if !ok {
		s, err := coercers.String.Format(data)
		if err != nil {
			return nil, false
		}
		text = s
	}
	m := re.FindStringSubmatch(text)
	if m == nil {
		return nil, false
	}
	return m, true
}

// NewMimeType returns the parser for MIME types. Expressions are
// "type/subtype" or globs with "*" in either half.
func NewMimeType() Parser {
	return &base{
		name:      "mime_type",
		globs:     []string{"*.mime_type"},
		multi:     true,
		evaluator: mimeTypeParser{},
	}
}

type mimeTypeParser struct{}

func (mimeTypeParser) validateOne(expression any) bool {
	s, ok := asString(expression)
	return ok && mimemap.ValidateGlob(s) == nil
}

func (mimeTypeParser) evaluateOne(expression, data any) (any, bool) {
	glob, ok := asString(expression)
	if !ok {
		return nil, false
	}
	mime, ok := asString(data)
	if !ok {
		return nil, false
	}
	matched, err := mimemap.EvalGlob(mime, []string{glob})
	if err != nil || !matched {
		return nil, false
	}
	return mime, true
}

// NewDateTime returns the parser for dates and times. Expressions are
// strftime formats or literal times; only literal times can match.
func NewDateTime() Parser {
	return &base{
		name: "datetime",
		globs: []string{
			"*.date",
			"*.datetime",
			"*.date_accessed",
			"*.date_created",
			"*.date_modified",
		},
		evaluator: dateTimeParser{},
	}
}

type dateTimeParser struct{}

// openEndedPrefixes introduce comparisons that have no defined semantics.
var openEndedPrefixes = []string{"<", ">", "=", "!", "defined", "undefined"}

func (dateTimeParser) validateOne(expression any) bool {
	if _, ok := expression.(time.Time); ok {
		return true
	}
	s, ok := asString(expression)
	if !ok {
		return false
	}
	s = strings.TrimSpace(s)
	if s == "" {
		return false
	}
	lower := strings.ToLower(s)
	for _, p := range openEndedPrefixes {
		if strings.HasPrefix(lower, p) {
			return false
		}
	}
	return strftime.Format(s, time.Now()) != ""
}

func (dateTimeParser) evaluateOne(expression, data any) (any, bool) {
	want, ok := expression.(time.Time)
	if !ok {
		return nil, false
	}
	have, ok := data.(time.Time)
	if !ok || !have.Equal(want) {
		return nil, false
	}
	return have, true
}

// NewNameTemplate returns the parser for name templates. It applies to no
// MeowURI; rules use it to validate their templates.
func NewNameTemplate() Parser {
	return &base{
		name:      "name_template",
		evaluator: nameTemplateParser{},
	}
}

type nameTemplateParser struct{}

func (nameTemplateParser) validateOne(expression any) bool {
	s, ok := asString(expression)
	if !ok || strings.TrimSpace(s) == "" {
		return false
	}
	if _, err := fields.TemplateFields(s); err != nil {
		return false
	}
	_, err := namebuilder.Populate(namebuilder.StripQuotes(s), namebuilder.DummyData())
	return err == nil
}

func (nameTemplateParser) evaluateOne(any, any) (any, bool) {
	return nil, false
}
