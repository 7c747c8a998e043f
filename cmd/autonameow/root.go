package main

import (
	"github.com/spf13/cobra"
)

type runFlags struct {
	automagic     bool
	batch         bool
	interactive   bool
	timid         bool
	dryRun        bool
	recurse       bool
	listRulematch bool
	dumpData      bool
}

func newRootCommand() (*cobra.Command, *commandContext) {
	var configFlag string
	var logLevelFlag string
	var flags runFlags

	ctx := newCommandContext(&configFlag, &logLevelFlag)

	rootCmd := &cobra.Command{
		Use:   "autonameow [paths...]",
		Short: "Rename files from their metadata using configurable rules",
		Long: "autonameow picks the configured rule that best matches each file, gathers\n" +
			"the data its name template needs and renames the file accordingly.",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if shouldSkipConfig(cmd) {
				return nil
			}
			_, err := ctx.ensureConfig()
			return err
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 0 {
				return cmd.Help()
			}
			return runRename(cmd, ctx, flags, args)
		},
	}

	rootCmd.PersistentFlags().StringVarP(&configFlag, "config", "c", "", "Configuration file path")
	rootCmd.PersistentFlags().StringVar(&logLevelFlag, "log-level", "", "Override the configured log level (debug, info, warn, error)")

	f := rootCmd.Flags()
	f.BoolVarP(&flags.automagic, "automagic", "a", false, "Try the next best rule when a rule cannot supply every field")
	f.BoolVarP(&flags.batch, "batch", "b", false, "Never prompt; skip files whose rule is incomplete")
	f.BoolVarP(&flags.interactive, "interactive", "i", false, "Prompt for weak rule matches and missing fields")
	f.BoolVarP(&flags.timid, "timid", "t", false, "Ask before every rename")
	f.BoolVarP(&flags.dryRun, "dry-run", "d", false, "Show what would be renamed without renaming anything")
	f.BoolVarP(&flags.recurse, "recurse", "r", false, "Descend into subdirectories")
	f.BoolVar(&flags.listRulematch, "list-rulematch", false, "Print the ranked rules for every file")
	f.BoolVar(&flags.dumpData, "dump-data", false, "Print every value gathered for every file")

	rootCmd.AddCommand(newConfigCommand(ctx))
	rootCmd.AddCommand(newRulesCommand(ctx))
	rootCmd.AddCommand(newHistoryCommand(ctx))
	rootCmd.AddCommand(newDoctorCommand(ctx))
	rootCmd.AddCommand(newCacheCommand(ctx))

	return rootCmd, ctx
}
