package orchestrator

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/google/uuid"

	"autonameow/internal/fileobject"
	"autonameow/internal/logging"
	"autonameow/internal/matcher"
	"autonameow/internal/meowuri"
	"autonameow/internal/namebuilder"
	"autonameow/internal/persistence"
	"autonameow/internal/prompt"
	"autonameow/internal/provider"
	"autonameow/internal/renamer"
	"autonameow/internal/resolver"
	"autonameow/internal/rules"
	"autonameow/internal/services"
)

// Journal records rename decisions.
type Journal interface {
	Record(ctx context.Context, entry persistence.JournalEntry) error
}

// Option configures an Orchestrator.
type Option func(*Orchestrator)

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) Option {
	return func(o *Orchestrator) {
		if logger != nil {
			o.logger = logger
		}
	}
}

// WithPrompter sets the prompter used in interactive and timid modes.
func WithPrompter(p prompt.Prompter) Option {
	return func(o *Orchestrator) { o.prompter = p }
}

// WithJournal records every rename event.
func WithJournal(j Journal) Option {
	return func(o *Orchestrator) { o.journal = j }
}

// WithOutput sets where rule match listings and data dumps are written.
func WithOutput(w io.Writer) Option {
	return func(o *Orchestrator) {
		if w != nil {
			o.out = w
		}
	}
}

// WithSessionID overrides the generated session id.
func WithSessionID(id string) Option {
	return func(o *Orchestrator) {
		if id != "" {
			o.sessionID = id
		}
	}
}

// Orchestrator runs the pipeline over files.
type Orchestrator struct {
	opts      Options
	rules     []*rules.Rule
	provider  *provider.Provider
	matcher   *matcher.Matcher
	renamer   *renamer.Renamer
	nameOpts  namebuilder.Options
	prompter  prompt.Prompter
	journal   Journal
	out       io.Writer
	logger    *slog.Logger
	sessionID string
	ignore    *IgnoreMatcher
	styles    renameStyles
}

// New returns an orchestrator. The ignore globs of opts are compiled here.
func New(ruleset []*rules.Rule, prov *provider.Provider, nameOpts namebuilder.Options, opts Options, options ...Option) (*Orchestrator, error) {
	if prov == nil {
		return nil, errors.New("orchestrator requires a provider")
	}
	ignore, err := NewIgnoreMatcher(opts.Ignore)
	if err != nil {
		return nil, services.Wrap(services.ErrConfiguration, "orchestrator", "ignore globs", "invalid glob", err)
	}
	o := &Orchestrator{
		opts:      opts,
		rules:     ruleset,
		provider:  prov,
		nameOpts:  nameOpts,
		out:       os.Stdout,
		logger:    logging.NewNop(),
		sessionID: uuid.NewString(),
		ignore:    ignore,
	}
	for _, opt := range options {
		opt(o)
	}
	o.logger = logging.NewComponentLogger(o.logger, "orchestrator")
	o.styles = newRenameStyles(o.out)
	o.matcher = matcher.New(o.logger)
	o.renamer = renamer.New(renamer.Options{
		DryRun: opts.DryRun,
		Timid:  opts.Timid,
		Logger: o.logger,
	})
	return o, nil
}

// SessionID identifies this run in logs and the journal.
func (o *Orchestrator) SessionID() string { return o.sessionID }

// Stats returns the renamer counters.
func (o *Orchestrator) Stats() renamer.Stats { return o.renamer.Stats() }

// Run processes every file found under paths and returns the run's exit
// code. Cancellation stops before the next file.
func (o *Orchestrator) Run(ctx context.Context, paths []string) services.ExitCode {
	ctx = services.WithSessionID(ctx, o.sessionID)
	logger := logging.WithContext(ctx, o.logger)
	exit := services.ExitSuccess

	files, errs := Discover(paths, o.opts.Recurse, o.ignore)
	for _, err := range errs {
		logging.WarnWithContext(logger, "path skipped", "path_unreadable",
			logging.Error(err),
			logging.String(logging.FieldImpact, "path is not processed"),
			logging.String(logging.FieldErrorHint, "check that the path exists and is readable"),
		)
		exit = exit.Climb(services.ExitWarning)
	}
	if len(files) == 0 {
		logger.Info("no files to process", logging.Int("paths", len(paths)))
		return exit
	}
	if len(o.rules) == 0 {
		logging.WarnWithContext(logger, "no rules configured", "no_rules",
			logging.String(logging.FieldImpact, "no file can be renamed"),
			logging.String(logging.FieldErrorHint, "add [[rules]] to the configuration"),
		)
	}

	logger.Info("run started", logging.Int("files", len(files)), logging.Bool("dry_run", o.opts.DryRun))
	for _, path := range files {
		if err := ctx.Err(); err != nil {
			logging.WarnWithContext(logger, "run cancelled", "run_cancelled",
				logging.Error(err),
				logging.String(logging.FieldImpact, "remaining files are not processed"),
			)
			return exit.Climb(services.ExitError)
		}
		err := o.processFile(ctx, path)
		exit = exit.Climb(services.ExitCodeFor(err))
	}
	stats := o.renamer.Stats()
	logger.Info("run finished",
		logging.Int("renamed", stats.Renamed),
		logging.Int("skipped", stats.Skipped),
		logging.Int("failed", stats.Failed),
		logging.String("exit_code", exit.String()),
	)
	return exit
}

// processFile runs the pipeline for one file. The returned error decides
// how the exit code climbs; nil means the file was handled.
func (o *Orchestrator) processFile(ctx context.Context, path string) error {
	ctx = services.WithFile(ctx, path)
	logger := logging.WithContext(ctx, o.logger)

	file, err := fileobject.New(path, fileobject.Options{CompoundSuffixes: o.opts.CompoundSuffixes})
	if err != nil {
		err = services.Wrap(services.ErrNotFound, "orchestrator", "open file", path, err)
		o.warnSkipped(logger, err, "file could not be read")
		return err
	}
	defer o.provider.Release(file)

	results := o.matcher.Match(o.rules, file, func(uri meowuri.URI) (any, bool) {
		return o.provider.RequestValue(ctx, file, uri)
	})

	if o.opts.ListRulematch {
		o.writeRuleMatch(file, results)
	}
	if o.opts.DumpData {
		o.provider.DelegateAll(ctx, file)
		o.writeDataDump(file)
	}

	name, rule, err := o.resolveName(ctx, logger, file, results.Candidates)
	if err != nil {
		return err
	}
	if name == "" {
		return nil
	}
	return o.rename(ctx, logger, file, rule, name)
}

func (o *Orchestrator) warnSkipped(logger *slog.Logger, err error, impact string) {
	logging.WarnWithContext(logger, "file skipped", "file_skipped",
		logging.Error(err),
		logging.String(logging.FieldImpact, impact),
	)
}

// resolveName walks the ranked candidates until one yields a name. An
// empty name with a nil error means the user declined.
func (o *Orchestrator) resolveName(ctx context.Context, logger *slog.Logger, file *fileobject.FileObject, candidates []matcher.Candidate) (string, *rules.Rule, error) {
	if len(candidates) == 0 {
		err := services.Wrap(services.ErrNotFound, "orchestrator", "match rules", "no rule matched", nil)
		o.warnSkipped(logger, err, "file keeps its current name")
		return "", nil, err
	}

	queue := candidates
	reason := "highest ranked"
	if o.opts.Interactive && !o.opts.Batch && o.prompter != nil && queue[0].Score < o.opts.ConfirmThreshold {
		chosen, err := o.chooseRule(ctx, queue)
		if err != nil {
			if errors.Is(err, prompt.ErrAborted) {
				logger.Info("rule selection cancelled")
				return "", nil, nil
			}
			return "", nil, services.Wrap(services.ErrValidation, "orchestrator", "choose rule", "", err)
		}
		queue = []matcher.Candidate{chosen}
		reason = "chosen interactively"
	}

	var lastErr error
	for attempt := 0; len(queue) > 0; attempt++ {
		if err := ctx.Err(); err != nil {
			return "", nil, err
		}
		candidate := queue[0]
		queue = queue[1:]
		rule := candidate.Rule
		ruleLogger := logger.With(logging.String(logging.FieldRule, rule.Description))
		ruleLogger.Debug("trying rule",
			logging.Float64("score", candidate.Score),
			logging.Float64("relative_score", candidate.RelativeScore),
		)

		name, err := o.applyRule(ctx, ruleLogger, file, rule)
		if err == nil {
			if attempt > 0 {
				reason = fmt.Sprintf("fallback after %d incomplete rule(s)", attempt)
			}
			ruleLogger.Info("rule selected", logging.Args(logging.DecisionAttrs("rule_selection", "applied", reason)...)...)
			return name, rule, nil
		}
		lastErr = err
		if !o.opts.Automagic || errors.Is(err, errAbandoned) || ctx.Err() != nil {
			break
		}
		ruleLogger.Debug("rule incomplete, trying next candidate", logging.Error(err))
	}
	o.warnSkipped(logger, lastErr, "file keeps its current name")
	return "", nil, lastErr
}

var (
	errIncomplete = errors.New("template fields unresolved")
	errAbandoned  = errors.New("file abandoned in batch mode")
)

// applyRule resolves the template fields of rule and builds the name.
func (o *Orchestrator) applyRule(ctx context.Context, logger *slog.Logger, file *fileobject.FileObject, rule *rules.Rule) (string, error) {
	res := resolver.New(file, rule.Placeholders, o.provider,
		resolver.WithLogger(logger),
		resolver.WithFormats(o.nameOpts.Formats),
	)
	res.AddKnownSources(rule.DataSources)

	if !res.MappedAllTemplateFields() {
		detail := fmt.Sprintf("no sources for %v", res.Unresolved())
		switch {
		case o.opts.Batch:
			return "", services.Wrap(services.ErrValidation, "orchestrator", "map template fields", detail, errAbandoned)
		case o.opts.Automagic:
			return "", services.Wrap(services.ErrValidation, "orchestrator", "map template fields", detail, errIncomplete)
		}
	}

	res.Collect(ctx)
	if !res.CollectedAll() && o.opts.Interactive && !o.opts.Batch && o.prompter != nil {
		if err := o.promptFields(ctx, res); err != nil {
			return "", err
		}
	}
	if !res.CollectedAll() {
		return "", services.Wrap(services.ErrNotFound, "orchestrator", "collect template fields",
			fmt.Sprintf("no data for %v", res.Unresolved()), errIncomplete)
	}

	name, err := namebuilder.Build(rule.NameTemplate, res.FieldsData(), o.nameOpts)
	if err != nil {
		return "", services.Wrap(services.ErrValidation, "orchestrator", "build name", "", err)
	}
	logger.Debug("name assembled", logging.String("name", name))
	return name, nil
}

func (o *Orchestrator) rename(ctx context.Context, logger *slog.Logger, file *fileobject.FileObject, rule *rules.Rule, name string) error {
	id, err := o.renamer.AddPending(file.AbsPath, name)
	if err != nil {
		err = services.Wrap(services.ErrValidation, "orchestrator", "queue rename", name, err)
		o.warnSkipped(logger, err, "file keeps its current name")
		return err
	}
	if o.opts.Timid && o.prompter != nil && len(o.renamer.NeedsConfirmation()) > 0 {
		ok, perr := o.prompter.Confirm(ctx, fmt.Sprintf("Rename %q to %q?", file.Filename, name))
		if perr != nil && !errors.Is(perr, prompt.ErrAborted) {
			logging.WarnWithContext(logger, "confirmation failed", "prompt_failed", logging.Error(perr))
		}
		settle := o.renamer.Reject
		if ok && perr == nil {
			settle = o.renamer.Confirm
		}
		if err := settle(id); err != nil {
			logging.WarnWithContext(logger, "rename request lost", "rename_request_unknown",
				logging.Error(err),
				logging.Int("request_id", id),
				logging.String(logging.FieldImpact, "file keeps its current name"),
			)
		}
	}

	events, renameErr := o.renamer.DoRenames(ctx)
	for _, ev := range events {
		o.writeRenameEvent(ev)
		o.record(ctx, logger, rule, ev)
	}
	if renameErr != nil {
		logging.ErrorWithContext(logger, "rename failed", "rename_failed",
			logging.Error(renameErr),
			logging.String(logging.FieldImpact, "file keeps its current name"),
			logging.String(logging.FieldErrorHint, "check permissions of the target directory"),
		)
	}
	return renameErr
}

func (o *Orchestrator) record(ctx context.Context, logger *slog.Logger, rule *rules.Rule, ev renamer.Event) {
	if o.journal == nil {
		return
	}
	entry := persistence.JournalEntry{
		SessionID:   o.sessionID,
		Source:      ev.From,
		Destination: ev.To,
		DryRun:      o.opts.DryRun,
	}
	if rule != nil {
		entry.Rule = rule.Description
	}
	switch {
	case ev.Kind == renamer.EventFailed:
		entry.Status = persistence.StatusFailed
		if ev.Err != nil {
			entry.Error = ev.Err.Error()
		}
	case ev.Kind == renamer.EventSkipped:
		entry.Status = persistence.StatusSkipped
		entry.Error = ev.Reason
	case o.opts.DryRun:
		entry.Status = persistence.StatusDryRun
	default:
		entry.Status = persistence.StatusRenamed
	}
	if err := o.journal.Record(ctx, entry); err != nil {
		logging.WarnWithContext(logger, "journal write failed", "journal_failed",
			logging.Error(err),
			logging.String(logging.FieldImpact, "rename history is incomplete"),
		)
	}
}
