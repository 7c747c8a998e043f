package rules

import (
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"strconv"
	"strings"

	"autonameow/internal/coercers"
	"autonameow/internal/config"
	"autonameow/internal/fieldparsers"
	"autonameow/internal/fields"
	"autonameow/internal/logging"
	"autonameow/internal/meowuri"
	"autonameow/internal/services"
)

const (
	// DefaultRankingBias is used when a rule sets no valid bias.
	DefaultRankingBias = 1.0
	// DefaultDescription names rules without a description.
	DefaultDescription = "UNDESCRIBED"
)

// ErrInvalidRule is returned for rules that cannot be used.
var ErrInvalidRule = errors.New("invalid rule")

// Condition is a predicate on the data found at URI.
type Condition struct {
	URI        meowuri.URI
	Expression any
	Parser     fieldparsers.Parser
}

// Evaluate applies the condition to data. Missing data never passes.
func (c Condition) Evaluate(data any) (any, bool) {
	if data == nil || c.Parser == nil {
		return nil, false
	}
	return c.Parser.Evaluate(c.Expression, data)
}

func (c Condition) String() string {
	return fmt.Sprintf("%s: %v", c.URI, c.Expression)
}

// Rule binds conditions to a name template and the sources of its fields.
// Rules are built by GetValidRule and must not be modified afterwards.
type Rule struct {
	Description  string
	ExactMatch   bool
	RankingBias  float64
	NameTemplate string
	Conditions   []Condition
	DataSources  map[fields.Field][]meowuri.URI
	Placeholders []fields.Field

	hash string
}

// Hash identifies the rule by its normalized contents.
func (r *Rule) Hash() string { return r.hash }

func (r *Rule) String() string {
	return fmt.Sprintf("%s (%s)", r.Description, r.NameTemplate)
}

// SourceFields lists the fields with at least one source, sorted by name.
func (r *Rule) SourceFields() []fields.Field {
	out := make([]fields.Field, 0, len(r.DataSources))
	for f := range r.DataSources {
		out = append(out, f)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// ReferencedURIs returns every URI used by a condition or a data source,
// sorted and without duplicates.
func (r *Rule) ReferencedURIs() []meowuri.URI {
	seen := make(map[meowuri.URI]struct{})
	var out []meowuri.URI
	add := func(u meowuri.URI) {
		if _, ok := seen[u]; ok {
			return
		}
		seen[u] = struct{}{}
		out = append(out, u)
	}
	for _, c := range r.Conditions {
		add(c.URI)
	}
	for _, f := range r.SourceFields() {
		for _, u := range r.DataSources[f] {
			add(u)
		}
	}
	sort.Slice(out, func(i, j int) bool { return meowuri.Less(out[i], out[j]) })
	return out
}

// Less orders rules by condition count, source count, ranking bias, exact
// match, template and description.
func Less(a, b *Rule) bool {
	if len(a.Conditions) != len(b.Conditions) {
		return len(a.Conditions) < len(b.Conditions)
	}
	if len(a.DataSources) != len(b.DataSources) {
		return len(a.DataSources) < len(b.DataSources)
	}
	if a.RankingBias != b.RankingBias {
		return a.RankingBias < b.RankingBias
	}
	if a.ExactMatch != b.ExactMatch {
		return !a.ExactMatch
	}
	if a.NameTemplate != b.NameTemplate {
		return a.NameTemplate < b.NameTemplate
	}
	return a.Description < b.Description
}

// KnownSourceFunc reports whether some producer can supply data at a URI.
type KnownSourceFunc func(meowuri.URI) bool

// GetValidRule validates raw and builds a Rule. Invalid conditions, an
// invalid exact_match or template, or a template with placeholders but no
// usable sources fail with ErrInvalidRule.
func GetValidRule(raw config.RawRule, parsers *fieldparsers.Registry, knownSource KnownSourceFunc, logger *slog.Logger) (*Rule, error) {
	if logger == nil {
		logger = logging.NewNop()
	}
	if parsers == nil {
		parsers = fieldparsers.Default()
	}
	description := strings.TrimSpace(raw.Description)
	if description == "" {
		description = DefaultDescription
	}
	logger = logger.With(logging.String(logging.FieldRule, description))

	r := &Rule{Description: description, RankingBias: DefaultRankingBias}

	if raw.ExactMatch != nil {
		v, err := coercers.Boolean.Coerce(raw.ExactMatch)
		if err != nil {
			return nil, fmt.Errorf("%w %q: exact_match: %v", ErrInvalidRule, description, err)
		}
		r.ExactMatch = v.(bool)
	}

	if bias, ok, err := parseRankingBias(raw.RankingBias); err != nil {
		logging.WarnWithContext(logger, "invalid ranking_bias; using default", "rule_ranking_bias_invalid",
			logging.Error(err),
			logging.Float64("default", DefaultRankingBias),
			logging.String(logging.FieldErrorHint, "set ranking_bias to a number between 0 and 1"),
		)
	} else if ok {
		r.RankingBias = bias
	}

	template := strings.TrimSpace(raw.NameTemplate)
	templateParser, ok := parsers.ByName("name_template")
	if !ok {
		templateParser = fieldparsers.NewNameTemplate()
	}
	if !templateParser.Validate(template) {
		return nil, fmt.Errorf("%w %q: invalid name template %q", ErrInvalidRule, description, template)
	}
	placeholders, err := fields.TemplateFields(template)
	if err != nil {
		return nil, fmt.Errorf("%w %q: %v", ErrInvalidRule, description, err)
	}
	r.NameTemplate = template
	r.Placeholders = placeholders

	for i, rc := range raw.Conditions {
		cond, err := parseCondition(rc, parsers)
		if err != nil {
			return nil, fmt.Errorf("%w %q: conditions[%d]: %v", ErrInvalidRule, description, i, err)
		}
		r.Conditions = append(r.Conditions, cond)
	}

	r.DataSources = parseDataSources(raw.DataSources, knownSource, logger)
	if len(r.DataSources) == 0 && len(r.Placeholders) > 0 {
		return nil, fmt.Errorf("%w %q: template has placeholders but no valid data sources", ErrInvalidRule, description)
	}

	r.hash = r.computeHash()
	return r, nil
}

func parseRankingBias(raw any) (float64, bool, error) {
	if raw == nil {
		return 0, false, nil
	}
	v, err := coercers.Float.Coerce(raw)
	if err != nil {
		return 0, false, err
	}
	bias := v.(float64)
	if bias < 0 || bias > 1 {
		return 0, false, fmt.Errorf("ranking_bias %v outside 0.0-1.0", bias)
	}
	return bias, true, nil
}

func parseCondition(rc config.RawCondition, parsers *fieldparsers.Registry) (Condition, error) {
	uri, err := meowuri.Parse(rc.MeowURI)
	if err != nil {
		return Condition{}, err
	}
	parser, err := parsers.ForURI(uri)
	if err != nil {
		return Condition{}, err
	}
	if rc.Expression == nil || !parser.Validate(rc.Expression) {
		return Condition{}, fmt.Errorf("invalid %s expression for %s: %v", parser.Name(), uri, rc.Expression)
	}
	return Condition{URI: uri, Expression: rc.Expression, Parser: parser}, nil
}

func parseDataSources(raw map[string]any, knownSource KnownSourceFunc, logger *slog.Logger) map[fields.Field][]meowuri.URI {
	out := make(map[fields.Field][]meowuri.URI)
	names := make([]string, 0, len(raw))
	for name := range raw {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		field, err := fields.Parse(strings.TrimSpace(name))
		if err != nil {
			logging.WarnWithContext(logger, "skipped data source with invalid template field", "rule_source_invalid",
				logging.String("field", name),
				logging.String(logging.FieldImpact, "field cannot be resolved from this rule"),
			)
			continue
		}
		for _, value := range sourceStrings(raw[name]) {
			uri, err := meowuri.Parse(value)
			if err != nil {
				logging.WarnWithContext(logger, "skipped data source with invalid meowuri", "rule_source_invalid",
					logging.String("field", name),
					logging.Error(err),
					logging.String(logging.FieldImpact, "field cannot be resolved from this source"),
				)
				continue
			}
			if knownSource != nil && !knownSource(uri) {
				logging.WarnWithContext(logger, "skipped data source no producer can supply", "rule_source_unknown",
					logging.String("field", name),
					logging.String(logging.FieldMeowURI, uri.String()),
					logging.String(logging.FieldImpact, "field cannot be resolved from this source"),
					logging.String(logging.FieldErrorHint, "check the meowuri or install the missing extractor"),
				)
				continue
			}
			out[field] = append(out[field], uri)
		}
	}
	return out
}

func sourceStrings(v any) []string {
	switch s := v.(type) {
	case string:
		if strings.TrimSpace(s) == "" {
			return nil
		}
		return []string{s}
	case []string:
		return s
	case []any:
		out := make([]string, 0, len(s))
		for _, item := range s {
			if str, ok := item.(string); ok && strings.TrimSpace(str) != "" {
				out = append(out, str)
			}
		}
		return out
	}
	return nil
}

func (r *Rule) computeHash() string {
	var b strings.Builder
	b.WriteString(r.Description)
	b.WriteByte(0)
	b.WriteString(strconv.FormatBool(r.ExactMatch))
	b.WriteByte(0)
	b.WriteString(strconv.FormatFloat(r.RankingBias, 'g', -1, 64))
	b.WriteByte(0)
	b.WriteString(r.NameTemplate)
	for _, c := range r.Conditions {
		fmt.Fprintf(&b, "\x00c:%s=%v", c.URI, c.Expression)
	}
	for _, f := range r.SourceFields() {
		for _, u := range r.DataSources[f] {
			fmt.Fprintf(&b, "\x00s:%s=%s", f, u)
		}
	}
	sum := sha256.Sum256([]byte(b.String()))
	return hex.EncodeToString(sum[:])
}

// FromConfig builds every rule of cfg. The first invalid rule aborts with an
// error marked as a configuration error.
func FromConfig(cfg *config.Config, parsers *fieldparsers.Registry, knownSource KnownSourceFunc, logger *slog.Logger) ([]*Rule, error) {
	logger = logging.NewComponentLogger(logger, "rules")
	out := make([]*Rule, 0, len(cfg.Rules))
	for _, raw := range cfg.Rules {
		r, err := GetValidRule(raw, parsers, knownSource, logger)
		if err != nil {
			return nil, services.Wrap(services.ErrConfiguration, "rules", "parse rule", "invalid rule in configuration", err)
		}
		out = append(out, r)
	}
	logger.Debug("rules loaded", logging.Int("count", len(out)))
	return out, nil
}
