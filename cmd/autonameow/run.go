package main

import (
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/spf13/cobra"

	"autonameow/internal/config"
	"autonameow/internal/fieldparsers"
	"autonameow/internal/logging"
	"autonameow/internal/namebuilder"
	"autonameow/internal/orchestrator"
	"autonameow/internal/persistence"
	"autonameow/internal/prompt"
	"autonameow/internal/provider"
	"autonameow/internal/repository"
	"autonameow/internal/rules"
)

// pipeline holds the components of one run.
type pipeline struct {
	provider *provider.Provider
	rules    []*rules.Rule
	nameOpts namebuilder.Options
}

func buildPipeline(cfg *config.Config, logger *slog.Logger, cache provider.ResultCache) (*pipeline, error) {
	mapper := orchestrator.Mapper(cfg)
	producers, err := orchestrator.Producers(cfg, mapper)
	if err != nil {
		return nil, err
	}
	opts := []provider.Option{provider.WithLogger(logger)}
	if cache != nil {
		opts = append(opts, provider.WithCache(cache))
	}
	prov := provider.New(repository.New(), producers, opts...)

	ruleset, err := rules.FromConfig(cfg, fieldparsers.Default(), prov.KnownSource, logger)
	if err != nil {
		_ = prov.Close()
		return nil, err
	}
	nameOpts, err := namebuilder.OptionsFromConfig(cfg)
	if err != nil {
		_ = prov.Close()
		return nil, err
	}
	return &pipeline{provider: prov, rules: ruleset, nameOpts: nameOpts}, nil
}

func (f runFlags) apply(cmd *cobra.Command, opts *orchestrator.Options) {
	changed := cmd.Flags().Changed
	set := func(name string, dst *bool, value bool) {
		if changed(name) {
			*dst = value
		}
	}
	set("automagic", &opts.Automagic, f.automagic)
	set("batch", &opts.Batch, f.batch)
	set("interactive", &opts.Interactive, f.interactive)
	set("timid", &opts.Timid, f.timid)
	set("dry-run", &opts.DryRun, f.dryRun)
	set("recurse", &opts.Recurse, f.recurse)
	opts.ListRulematch = f.listRulematch
	opts.DumpData = f.dumpData
}

func validateModes(opts orchestrator.Options, promptAvailable bool) error {
	if opts.Batch && opts.Interactive {
		return errors.New("--batch and --interactive cannot be combined")
	}
	if (opts.Interactive || opts.Timid) && !promptAvailable {
		return errors.New("interactive and timid modes need a terminal")
	}
	return nil
}

var promptAvailable = prompt.Available

func runRename(cmd *cobra.Command, ctx *commandContext, flags runFlags, paths []string) error {
	cfg, err := ctx.ensureConfig()
	if err != nil {
		return err
	}
	logger, err := ctx.ensureLogger()
	if err != nil {
		return err
	}

	opts := orchestrator.OptionsFromConfig(cfg)
	flags.apply(cmd, &opts)
	if err := validateModes(opts, promptAvailable()); err != nil {
		return err
	}

	return ctx.withLock(func() error {
		return ctx.withStore(func(store *persistence.Store) error {
			p, err := buildPipeline(cfg, logger, persistence.NewResultCache(store))
			if err != nil {
				return err
			}
			defer func() {
				if cerr := p.provider.Close(); cerr != nil {
					logging.WarnWithContext(logger, "producer shutdown failed", "producer_close_failed", logging.Error(cerr))
				}
			}()

			options := []orchestrator.Option{
				orchestrator.WithLogger(logger),
				orchestrator.WithJournal(store.Journal()),
				orchestrator.WithOutput(cmd.OutOrStdout()),
			}
			if opts.Interactive || opts.Timid {
				options = append(options, orchestrator.WithPrompter(prompt.NewTerminal(cmd.InOrStdin(), cmd.OutOrStdout())))
			}
			orch, err := orchestrator.New(p.rules, p.provider, p.nameOpts, opts, options...)
			if err != nil {
				return err
			}

			ctx.exitCode = orch.Run(cmd.Context(), paths)
			printSummary(cmd.OutOrStdout(), orch, opts.DryRun)
			return cmd.Context().Err()
		})
	})
}

func printSummary(w io.Writer, orch *orchestrator.Orchestrator, dryRun bool) {
	stats := orch.Stats()
	verb := "Renamed"
	if dryRun {
		verb = "Would rename"
	}
	fmt.Fprintf(w, "%s %d, skipped %d, failed %d (session %s)\n",
		verb, stats.Renamed, stats.Skipped, stats.Failed, orch.SessionID())
}
