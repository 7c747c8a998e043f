package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"autonameow/internal/persistence"
)

func newHistoryCommand(ctx *commandContext) *cobra.Command {
	var limit int
	var session string

	cmd := &cobra.Command{
		Use:   "history",
		Short: "Show recorded renames",
		RunE: func(cmd *cobra.Command, args []string) error {
			if limit <= 0 {
				return fmt.Errorf("--limit must be positive")
			}
			return ctx.withStore(func(store *persistence.Store) error {
				journal := store.Journal()
				var entries []persistence.JournalEntry
				var err error
				if s := strings.TrimSpace(session); s != "" {
					entries, err = journal.Session(cmd.Context(), s)
				} else {
					entries, err = journal.Recent(cmd.Context(), limit)
				}
				if err != nil {
					return err
				}

				out := cmd.OutOrStdout()
				if len(entries) == 0 {
					fmt.Fprintln(out, "No renames recorded")
					return nil
				}
				fmt.Fprintln(out, historyTable(entries))
				return nil
			})
		},
	}

	cmd.Flags().IntVarP(&limit, "limit", "n", 20, "Number of recent entries to show")
	cmd.Flags().StringVar(&session, "session", "", "Show every entry of one session")
	return cmd
}

func historyTable(entries []persistence.JournalEntry) string {
	spec := tableSpec{
		title:   "Rename history",
		headers: []string{"When", "Status", "Source", "Destination", "Rule", "Session"},
	}
	rows := make([][]string, 0, len(entries))
	for _, e := range entries {
		status := e.Status
		if e.Error != "" {
			status += ": " + e.Error
		}
		rows = append(rows, []string{
			e.CreatedAt.Local().Format("2006-01-02 15:04:05"),
			status,
			e.Source,
			e.Destination,
			e.Rule,
			shortSession(e.SessionID),
		})
	}
	return spec.render(rows)
}

func shortSession(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}
