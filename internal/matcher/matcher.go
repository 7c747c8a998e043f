package matcher

import (
	"log/slog"
	"sort"

	"autonameow/internal/fileobject"
	"autonameow/internal/logging"
	"autonameow/internal/meowuri"
	"autonameow/internal/rules"
)

// RequestFunc returns the data at a URI for the file being matched.
type RequestFunc func(uri meowuri.URI) (any, bool)

// ConditionResult records how a single condition fared.
type ConditionResult struct {
	Condition rules.Condition
	Passed    bool
	Missing   bool
	Match     any
}

// RuleResult records the evaluation of one rule.
type RuleResult struct {
	Rule       *rules.Rule
	Conditions []ConditionResult
	Met        int
	Discarded  bool
}

// Failed reports whether any condition failed.
func (r RuleResult) Failed() bool { return r.Met < len(r.Conditions) }

// Candidate is a ranked rule.
type Candidate struct {
	Rule          *rules.Rule
	Score         float64
	RelativeScore float64
}

// Weighted is Score scaled by RelativeScore.
func (c Candidate) Weighted() float64 { return c.Score * c.RelativeScore }

// Results holds the ranked candidates and the per-rule evaluations in input
// order.
type Results struct {
	Candidates []Candidate
	Rules      []RuleResult
}

// Best returns the top candidate.
func (r Results) Best() (Candidate, bool) {
	if len(r.Candidates) == 0 {
		return Candidate{}, false
	}
	return r.Candidates[0], true
}

// Matcher ranks rules for files.
type Matcher struct {
	logger *slog.Logger
}

// New returns a matcher logging through logger.
func New(logger *slog.Logger) *Matcher {
	return &Matcher{logger: logging.NewComponentLogger(logger, "matcher")}
}

// Match is a convenience wrapper returning only the ranked candidates.
func Match(ruleset []*rules.Rule, file *fileobject.FileObject, request RequestFunc) []Candidate {
	return New(nil).Match(ruleset, file, request).Candidates
}

// Match evaluates every rule against the data request returns and ranks the
// survivors.
func (m *Matcher) Match(ruleset []*rules.Rule, file *fileobject.FileObject, request RequestFunc) Results {
	logger := m.logger
	if file != nil {
		logger = logger.With(logging.String(logging.FieldFile, file.AbsPath))
	}

	var res Results
	cache := make(map[meowuri.URI]requested)
	fetch := func(uri meowuri.URI) (any, bool) {
		if r, ok := cache[uri]; ok {
			return r.value, r.ok
		}
		var v any
		var ok bool
		if request != nil {
			v, ok = request(uri)
		}
		cache[uri] = requested{value: v, ok: ok}
		return v, ok
	}

	for _, rule := range ruleset {
		if rule == nil {
			continue
		}
		rr := evaluate(rule, fetch)
		if rule.ExactMatch && rr.Failed() {
			rr.Discarded = true
			logger.Debug("rule discarded",
				logging.String(logging.FieldRule, rule.Description),
				logging.Int("met", rr.Met),
				logging.Int("total", len(rr.Conditions)),
			)
		}
		res.Rules = append(res.Rules, rr)
	}

	res.Candidates = rank(res.Rules)
	for i, c := range res.Candidates {
		logger.Debug("rule ranked",
			logging.Int("rank", i+1),
			logging.String(logging.FieldRule, c.Rule.Description),
			logging.Float64("score", c.Score),
			logging.Float64("relative_score", c.RelativeScore),
			logging.Float64("ranking_bias", c.Rule.RankingBias),
		)
	}
	return res
}

type requested struct {
	value any
	ok    bool
}

func evaluate(rule *rules.Rule, fetch RequestFunc) RuleResult {
	rr := RuleResult{Rule: rule, Conditions: make([]ConditionResult, 0, len(rule.Conditions))}
	for _, cond := range rule.Conditions {
		cr := ConditionResult{Condition: cond}
		data, ok := fetch(cond.URI)
		if !ok || data == nil {
			cr.Missing = true
		} else if match, passed := cond.Evaluate(data); passed {
			cr.Passed = true
			cr.Match = match
			rr.Met++
		}
		rr.Conditions = append(rr.Conditions, cr)
	}
	return rr
}

func rank(results []RuleResult) []Candidate {
	maxConditions := 0
	for _, rr := range results {
		if !rr.Discarded && len(rr.Conditions) > maxConditions {
			maxConditions = len(rr.Conditions)
		}
	}

	var out []Candidate
	for _, rr := range results {
		if rr.Discarded {
			continue
		}
		total := len(rr.Conditions)
		out = append(out, Candidate{
			Rule:          rr.Rule,
			Score:         float64(rr.Met) / float64(max(1, total)),
			RelativeScore: float64(total) / float64(max(1, maxConditions)),
		})
	}

	sort.SliceStable(out, func(i, j int) bool { return before(out[i], out[j]) })
	return out
}

// before orders candidates descending by exact match, weighted score, score,
// relative score, ranking bias and source count, then ascending by
// description and template.
func before(a, b Candidate) bool {
	if a.Rule.ExactMatch != b.Rule.ExactMatch {
		return a.Rule.ExactMatch
	}
	if wa, wb := a.Weighted(), b.Weighted(); wa != wb {
		return wa > wb
	}
	if a.Score != b.Score {
		return a.Score > b.Score
	}
	if a.RelativeScore != b.RelativeScore {
		return a.RelativeScore > b.RelativeScore
	}
	if a.Rule.RankingBias != b.Rule.RankingBias {
		return a.Rule.RankingBias > b.Rule.RankingBias
	}
	if la, lb := len(a.Rule.DataSources), len(b.Rule.DataSources); la != lb {
		return la > lb
	}
	if a.Rule.Description != b.Rule.Description {
		return a.Rule.Description < b.Rule.Description
	}
	return a.Rule.NameTemplate < b.Rule.NameTemplate
}
