package main

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"autonameow/internal/logging"
	"autonameow/internal/rules"
)

func newRulesCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "rules",
		Short: "List the configured rules",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			p, err := buildPipeline(cfg, logging.NewNop(), nil)
			if err != nil {
				return err
			}
			defer p.provider.Close()

			out := cmd.OutOrStdout()
			if len(p.rules) == 0 {
				fmt.Fprintln(out, "No rules configured")
				return nil
			}
			fmt.Fprintln(out, rulesTable(p.rules))
			return nil
		},
	}
}

func rulesTable(ruleset []*rules.Rule) string {
	spec := tableSpec{
		title:        "Rules",
		headers:      []string{"#", "Description", "Template", "Conditions", "Exact", "Bias"},
		rightAligned: []int{1, 6},
	}
	rows := make([][]string, 0, len(ruleset))
	for i, r := range ruleset {
		conditions := make([]string, 0, len(r.Conditions))
		for _, c := range r.Conditions {
			conditions = append(conditions, fmt.Sprintf("%s = %v", c.URI, c.Expression))
		}
		rows = append(rows, []string{
			strconv.Itoa(i + 1),
			r.Description,
			r.NameTemplate,
			strings.Join(conditions, "\n"),
			yesNo(r.ExactMatch),
			strconv.FormatFloat(r.RankingBias, 'f', 2, 64),
		})
	}
	return spec.render(rows)
}
