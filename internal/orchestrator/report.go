package orchestrator

import (
	"fmt"
	"io"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"

	"autonameow/internal/fileobject"
	"autonameow/internal/matcher"
	"autonameow/internal/renamer"
)

func newTable(title string, header table.Row) table.Writer {
	tw := table.NewWriter()
	tw.SetStyle(table.StyleRounded)
	tw.SetTitle(title)
	tw.AppendHeader(header)
	return tw
}

func (o *Orchestrator) writeRuleMatch(file *fileobject.FileObject, results matcher.Results) {
	tw := newTable("Rule matches for "+file.Filename, table.Row{"#", "Rule", "Score", "Relative", "Bias", "Exact"})
	for i, c := range results.Candidates {
		tw.AppendRow(table.Row{
			i + 1,
			c.Rule.Description,
			strconv.FormatFloat(c.Score, 'f', 2, 64),
			strconv.FormatFloat(c.RelativeScore, 'f', 2, 64),
			strconv.FormatFloat(c.Rule.RankingBias, 'f', 2, 64),
			c.Rule.ExactMatch,
		})
	}
	for _, r := range results.Rules {
		if !r.Discarded {
			continue
		}
		tw.AppendRow(table.Row{"-", r.Rule.Description, "discarded", "", "", r.Rule.ExactMatch})
	}
	tw.SetColumnConfigs([]table.ColumnConfig{
		{Number: 3, Align: text.AlignRight},
		{Number: 4, Align: text.AlignRight},
		{Number: 5, Align: text.AlignRight},
	})
	fmt.Fprintln(o.out, tw.Render())
}

func (o *Orchestrator) writeDataDump(file *fileobject.FileObject) {
	tw := newTable("Data for "+file.Filename, table.Row{"MeowURI", "Value", "Source"})
	for _, entry := range o.provider.Repository().Dump(file) {
		tw.AppendRow(table.Row{entry.URI.String(), displayValue(entry.Bundle.Value), entry.Bundle.Source})
	}
	fmt.Fprintln(o.out, tw.Render())
}

type renameStyles struct {
	from lipgloss.Style
	to   lipgloss.Style
	skip lipgloss.Style
}

func newRenameStyles(w io.Writer) renameStyles {
	r := lipgloss.NewRenderer(w)
	return renameStyles{
		from: r.NewStyle().Faint(true),
		to:   r.NewStyle().Bold(true).Foreground(lipgloss.Color("42")),
		skip: r.NewStyle().Foreground(lipgloss.Color("214")),
	}
}

// writeRenameEvent prints one line per rename decision.
func (o *Orchestrator) writeRenameEvent(ev renamer.Event) {
	from := filepath.Base(ev.From)
	to := filepath.Base(ev.To)
	switch ev.Kind {
	case renamer.EventRenamed:
		verb := "Renamed"
		if o.opts.DryRun {
			verb = "Would rename"
		}
		fmt.Fprintf(o.out, "%s %s -> %s\n", verb, o.styles.from.Render(strconv.Quote(from)), o.styles.to.Render(strconv.Quote(to)))
	case renamer.EventSkipped:
		fmt.Fprintf(o.out, "Skipped %s: %s\n", strconv.Quote(from), o.styles.skip.Render(ev.Reason))
	}
}

const maxDisplayLen = 80

func displayValue(v any) string {
	var s string
	switch val := v.(type) {
	case []byte:
		s = fmt.Sprintf("<%d bytes>", len(val))
	case []any:
		parts := make([]string, len(val))
		for i, item := range val {
			parts[i] = displayValue(item)
		}
		s = "[" + strings.Join(parts, ", ") + "]"
	default:
		s = fmt.Sprint(val)
	}
	if r := []rune(s); len(r) > maxDisplayLen {
		s = string(r[:maxDisplayLen-3]) + "..."
	}
	return s
}
