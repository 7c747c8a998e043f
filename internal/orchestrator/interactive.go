package orchestrator

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"autonameow/internal/logging"
	"autonameow/internal/matcher"
	"autonameow/internal/prompt"
	"autonameow/internal/resolver"
)

func (o *Orchestrator) chooseRule(ctx context.Context, candidates []matcher.Candidate) (matcher.Candidate, error) {
	choices := make([]prompt.Choice, len(candidates))
	for i, c := range candidates {
		choices[i] = prompt.Choice{
			Label:  c.Rule.Description,
			Detail: fmt.Sprintf("score %.2f  weight %.2f  bias %.2f", c.Score, c.Weighted(), c.Rule.RankingBias),
		}
	}
	idx, err := o.prompter.Select(ctx, "Select the rule to apply", choices)
	if err != nil {
		return matcher.Candidate{}, err
	}
	if idx < 0 || idx >= len(candidates) {
		return matcher.Candidate{}, fmt.Errorf("selection %d out of range", idx)
	}
	return candidates[idx], nil
}

// promptFields asks the user to pick a value for every unresolved field
// that has candidates. Fields without candidates stay unresolved.
func (o *Orchestrator) promptFields(ctx context.Context, res *resolver.Resolver) error {
	for _, field := range res.Unresolved() {
		candidates := res.LookupCandidates(ctx, field)
		if len(candidates) == 0 {
			continue
		}
		choices := make([]prompt.Choice, len(candidates))
		for i, c := range candidates {
			choices[i] = prompt.Choice{
				Label:  c.Display,
				Detail: fmt.Sprintf("%s (%.2f)", c.URI, c.Weight),
			}
		}
		idx, err := o.prompter.Select(ctx, fmt.Sprintf("Select a value for {%s}", field), choices)
		if errors.Is(err, prompt.ErrAborted) {
			continue
		}
		if err != nil {
			return err
		}
		if idx < 0 || idx >= len(candidates) {
			continue
		}
		if err := res.Set(field, candidates[idx].Value); err != nil {
			return err
		}
		o.logger.Info("field value chosen", logging.Args(logging.DecisionAttrsWithOptions(
			"field_value", candidates[idx].Display, fmt.Sprintf("{%s} chosen interactively", field), strconv.Itoa(len(candidates)),
		)...)...)
	}
	return nil
}
