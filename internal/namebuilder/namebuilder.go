package namebuilder

import (
	"errors"
	"fmt"
	"regexp"
	"sort"
	"strings"

	"autonameow/internal/config"
	"autonameow/internal/fields"
	"autonameow/internal/textutil"
)

var (
	// ErrNameTemplateSyntax is returned when a template references a field
	// without data or a value cannot be formatted for its field.
	ErrNameTemplateSyntax = errors.New("name template syntax error")
	// ErrEmptyName is returned when post-processing leaves nothing behind.
	ErrEmptyName = errors.New("assembled name is empty")
)

var placeholderRE = regexp.MustCompile(`\{(\w*)\}`)

// Replacement rewrites every match of Pattern with Replace.
type Replacement struct {
	Pattern *regexp.Regexp
	Replace string
}

// Options controls formatting and post-processing.
type Options struct {
	Formats         fields.Formats
	Sanitize        bool
	Strict          bool
	Replacements    []Replacement
	Lowercase       bool
	Uppercase       bool
	SimplifyUnicode bool
}

// OptionsFromConfig compiles the post-processing section of cfg.
func OptionsFromConfig(cfg *config.Config) (Options, error) {
	opts := Options{
		Formats: fields.Formats{
			Date:     cfg.DateTimeFormat.Date,
			DateTime: cfg.DateTimeFormat.DateTime,
			Time:     cfg.DateTimeFormat.Time,
		},
		Sanitize:        cfg.PostProcessing.SanitizeFilename,
		Strict:          cfg.PostProcessing.SanitizeStrict,
		Lowercase:       cfg.PostProcessing.Lowercase,
		Uppercase:       cfg.PostProcessing.Uppercase,
		SimplifyUnicode: cfg.PostProcessing.SimplifyUnicode,
	}
	for _, r := range cfg.PostProcessing.Replacements {
		re, err := regexp.Compile(r.Regex)
		if err != nil {
			return Options{}, fmt.Errorf("compile replacement %q: %w", r.Regex, err)
		}
		opts.Replacements = append(opts.Replacements, Replacement{Pattern: re, Replace: r.Replace})
	}
	return opts, nil
}

// Populate substitutes every {field} in template with its value. A
// placeholder outside the vocabulary, or one without a value, fails with
// ErrNameTemplateSyntax.
func Populate(template string, values map[fields.Field]string) (string, error) {
	var missing []string
	out := placeholderRE.ReplaceAllStringFunc(template, func(m string) string {
		name := m[1 : len(m)-1]
		f, err := fields.Parse(name)
		if err != nil {
			missing = append(missing, name)
			return m
		}
		v, ok := values[f]
		if !ok {
			missing = append(missing, name)
			return m
		}
		return v
	})
	if len(missing) > 0 {
		sort.Strings(missing)
		return "", fmt.Errorf("%w: no data for {%s}", ErrNameTemplateSyntax, strings.Join(missing, "}, {"))
	}
	return out, nil
}

// StripQuotes removes single and double quotes, which never belong in a
// basename.
func StripQuotes(template string) string {
	return strings.NewReplacer("'", "", `"`, "").Replace(template)
}

// Build renders template with data and post-processes the result into a
// basename.
func Build(template string, data map[fields.Field]any, opts Options) (string, error) {
	template = StripQuotes(template)
	if strings.TrimSpace(template) == "" {
		return "", fmt.Errorf("%w: empty template", ErrNameTemplateSyntax)
	}

	formatted := make(map[fields.Field]string, len(data))
	for f, v := range data {
		s, err := f.Format(v, opts.Formats)
		if err != nil {
			return "", fmt.Errorf("%w: format {%s}: %v", ErrNameTemplateSyntax, f, err)
		}
		formatted[f] = s
	}

	name, err := Populate(template, formatted)
	if err != nil {
		return "", err
	}
	return PostProcess(name, opts)
}

// PostProcess applies the post-processing steps to an assembled name.
func PostProcess(name string, opts Options) (string, error) {
	name = strings.TrimRight(strings.TrimSpace(name), ".")
	if opts.Sanitize || opts.Strict {
		if opts.Strict {
			name = textutil.SanitizeFileNameStrict(name)
		} else {
			name = textutil.SanitizeFileName(name)
		}
	}
	for _, r := range opts.Replacements {
		if r.Pattern == nil {
			continue
		}
		name = r.Pattern.ReplaceAllString(name, r.Replace)
	}
	switch {
	case opts.Lowercase:
		name = textutil.Lower(name)
	case opts.Uppercase:
		name = textutil.Upper(name)
	}
	if opts.SimplifyUnicode {
		name = textutil.SimplifyUnicode(name)
	}
	name = textutil.CollapseWhitespace(name)
	if name == "" {
		return "", ErrEmptyName
	}
	return name, nil
}

// DummyData returns placeholder values for every vocabulary field, used to
// validate templates without real data.
func DummyData() map[fields.Field]string {
	out := make(map[fields.Field]string)
	for _, f := range fields.All() {
		out[f] = f.Dummy()
	}
	return out
}
