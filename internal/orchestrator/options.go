package orchestrator

import (
	"autonameow/internal/config"
)

// Options selects how candidates and missing fields are handled.
type Options struct {
	// Automagic tries the next ranked rule when the best one cannot supply
	// every template field.
	Automagic bool
	// Batch never prompts and abandons files whose rule is incomplete.
	Batch bool
	// Interactive prompts for weak rule matches and missing fields.
	Interactive bool
	// Timid asks before every rename.
	Timid  bool
	DryRun bool
	// ConfirmThreshold is the score below which an interactive run asks the
	// user to pick the rule.
	ConfirmThreshold float64

	Recurse          bool
	Ignore           []string
	CompoundSuffixes []string

	// ListRulematch prints the ranked rules of every file.
	ListRulematch bool
	// DumpData prints everything gathered for every file.
	DumpData bool
}

// OptionsFromConfig maps the mode and filesystem sections of cfg.
func OptionsFromConfig(cfg *config.Config) Options {
	if cfg == nil {
		def := config.Default()
		cfg = &def
	}
	return Options{
		Automagic:        cfg.Mode.Automagic,
		Batch:            cfg.Mode.Batch,
		Interactive:      cfg.Mode.Interactive,
		Timid:            cfg.Mode.Timid,
		DryRun:           cfg.Mode.DryRun,
		ConfirmThreshold: cfg.Mode.ConfirmThreshold,
		Recurse:          cfg.Filesystem.Recurse,
		Ignore:           append([]string(nil), cfg.Filesystem.Ignore...),
		CompoundSuffixes: append([]string(nil), cfg.Filesystem.CompoundSuffixes...),
	}
}
