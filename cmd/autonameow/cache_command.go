package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"autonameow/internal/persistence"
)

func newCacheCommand(ctx *commandContext) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "cache",
		Short: "Inspect and clear cached producer results",
	}
	cmd.AddCommand(newCacheListCommand(ctx))
	cmd.AddCommand(newCacheClearCommand(ctx))
	return cmd
}

func newCacheListCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "list <producer>",
		Short: "List the cache keys of a producer",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withStore(func(store *persistence.Store) error {
				cache, err := store.Cache(args[0])
				if err != nil {
					return err
				}
				keys, err := cache.Keys(cmd.Context())
				if err != nil {
					return err
				}
				out := cmd.OutOrStdout()
				if len(keys) == 0 {
					fmt.Fprintf(out, "No cached results for %s\n", cache.Owner())
					return nil
				}
				for _, key := range keys {
					fmt.Fprintln(out, key)
				}
				return nil
			})
		},
	}
}

func newCacheClearCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "clear [producer...]",
		Short: "Remove cached results of the given producers, or of all",
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withLock(func() error {
				return ctx.withStore(func(store *persistence.Store) error {
					owners := args
					if len(owners) == 0 {
						stats, err := store.Stats(cmd.Context())
						if err != nil {
							return err
						}
						for _, s := range stats {
							owners = append(owners, s.Owner)
						}
					}
					out := cmd.OutOrStdout()
					if len(owners) == 0 {
						fmt.Fprintln(out, "Result cache is empty")
						return nil
					}
					for _, owner := range owners {
						cache, err := store.Cache(owner)
						if err != nil {
							return err
						}
						keys, err := cache.Keys(cmd.Context())
						if err != nil {
							return err
						}
						if err := cache.Clear(cmd.Context()); err != nil {
							return err
						}
						fmt.Fprintf(out, "Cleared %d cached result(s) for %s\n", len(keys), cache.Owner())
					}
					return nil
				})
			})
		},
	}
}
