package main

import (
	"fmt"
	"strconv"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"autonameow/internal/persistence"
	"autonameow/internal/preflight"
)

func newDoctorCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "doctor [paths...]",
		Short: "Check directories, external tools and the result cache",
		Long: "doctor checks the persistence and log directories, the exiftool and pdftotext\n" +
			"binaries and the result cache. Paths given as arguments are checked for rename access.",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()

			results := preflight.RunAll(cmd.Context(), cfg)
			for _, path := range args {
				results = append(results, preflight.CheckRenameAccess(path))
			}
			rows := make([][]string, 0, len(results))
			for _, r := range results {
				status := "ok"
				if !r.Passed {
					status = "FAIL"
				}
				rows = append(rows, []string{r.Name, status, r.Detail})
			}
			fmt.Fprintln(out, tableSpec{
				title:   "Environment",
				headers: []string{"Check", "Status", "Detail"},
			}.render(rows))

			err = ctx.withStore(func(store *persistence.Store) error {
				stats, err := store.Stats(cmd.Context())
				if err != nil {
					return err
				}
				if len(stats) == 0 {
					fmt.Fprintln(out, "Result cache is empty")
					return nil
				}
				rows := make([][]string, 0, len(stats))
				for _, s := range stats {
					rows = append(rows, []string{s.Owner, strconv.Itoa(s.Entries), humanize.Bytes(uint64(s.Bytes))})
				}
				fmt.Fprintln(out, tableSpec{
					title:        "Result cache",
					headers:      []string{"Producer", "Entries", "Size"},
					rightAligned: []int{2, 3},
				}.render(rows))
				return nil
			})
			if err != nil {
				return err
			}

			if failed := preflight.Failed(results); len(failed) > 0 {
				return fmt.Errorf("%d check(s) failed", len(failed))
			}
			return nil
		},
	}
}
