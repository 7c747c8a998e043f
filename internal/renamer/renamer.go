package renamer

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"
	"strings"

	"autonameow/internal/fileutil"
	"autonameow/internal/logging"
	"autonameow/internal/services"
)

var (
	// ErrInvalidBasename is returned for names that cannot be a basename.
	ErrInvalidBasename = errors.New("invalid basename")
	// ErrCollision is returned when the destination is taken.
	ErrCollision = errors.New("destination already exists")
	// ErrUnknownID is returned by Confirm and Reject for unknown requests.
	ErrUnknownID = errors.New("unknown rename request")
)

// State is the lifecycle state of a rename request.
type State string

const (
	StateAwaitingConfirmation State = "awaiting_confirmation"
	StateConfirmed            State = "confirmed"
	StateRejected             State = "rejected"
	StateSkipped              State = "skipped"
	StateDone                 State = "done"
)

// Request is a queued rename.
type Request struct {
	ID          int
	From        string
	To          string
	NewBasename string
	State       State
	Reason      string
}

// EventKind classifies rename outcomes.
type EventKind string

const (
	EventRenamed EventKind = "renamed"
	EventSkipped EventKind = "skipped"
	EventFailed  EventKind = "failed"
)

// Event reports the outcome of one request.
type Event struct {
	Kind   EventKind
	From   string
	To     string
	Reason string
	Err    error
}

// Stats counts outcomes over the renamer's lifetime.
type Stats struct {
	Renamed int
	Skipped int
	Failed  int
}

// Options configures a Renamer.
type Options struct {
	DryRun bool
	// Timid requires every rename to be confirmed.
	Timid  bool
	Logger *slog.Logger
	// Move performs the rename; defaults to fileutil.MoveFile.
	Move func(src, dst string) error
}

// Renamer performs queued renames.
type Renamer struct {
	dryRun bool
	timid  bool
	logger *slog.Logger
	move   func(src, dst string) error

	nextID   int
	requests []*Request
	stats    Stats

	// Paths settled earlier in this renamer's lifetime. Dry runs never touch
	// the disk, so collision checks read through these instead.
	claimed map[string]string
	vacated map[string]bool
}

// New returns a renamer.
func New(opts Options) *Renamer {
	move := opts.Move
	if move == nil {
		move = fileutil.MoveFile
	}
	return &Renamer{
		dryRun: opts.DryRun,
		timid:  opts.Timid,
		logger:  logging.NewComponentLogger(opts.Logger, "renamer"),
		move:    move,
		claimed: make(map[string]string),
		vacated: make(map[string]bool),
	}
}

// DryRun reports whether renames are simulated.
func (r *Renamer) DryRun() bool { return r.dryRun }

// Stats returns the outcome counters.
func (r *Renamer) Stats() Stats { return r.stats }

// AddPending queues renaming from to newBasename in the same directory and
// returns the request id. Requests whose name does not change are recorded
// as skipped.
func (r *Renamer) AddPending(from, newBasename string) (int, error) {
	if err := ValidateBasename(newBasename); err != nil {
		return 0, err
	}
	from = filepath.Clean(from)
	r.nextID++
	req := &Request{
		ID:          r.nextID,
		From:        from,
		To:          filepath.Join(filepath.Dir(from), newBasename),
		NewBasename: newBasename,
		State:       StateConfirmed,
	}
	switch {
	case filepath.Base(from) == newBasename:
		req.State = StateSkipped
		req.Reason = "current name is the same as the new name"
	case r.timid:
		req.State = StateAwaitingConfirmation
	}
	r.requests = append(r.requests, req)
	return req.ID, nil
}

// ValidateBasename rejects empty names, path separators and dot entries.
func ValidateBasename(name string) error {
	switch {
	case strings.TrimSpace(name) == "":
		return fmt.Errorf("%w: empty", ErrInvalidBasename)
	case name == "." || name == "..":
		return fmt.Errorf("%w: %q", ErrInvalidBasename, name)
	case strings.ContainsRune(name, '/') || strings.ContainsRune(name, 0):
		return fmt.Errorf("%w: %q contains a path separator", ErrInvalidBasename, name)
	}
	return nil
}

func (r *Renamer) filter(states ...State) []Request {
	var out []Request
	for _, req := range r.requests {
		for _, s := range states {
			if req.State == s {
				out = append(out, *req)
				break
			}
		}
	}
	return out
}

// Pending returns the requests not yet performed, confirmed or not.
func (r *Renamer) Pending() []Request {
	return r.filter(StateConfirmed, StateAwaitingConfirmation)
}

// NeedsConfirmation returns the requests awaiting confirmation.
func (r *Renamer) NeedsConfirmation() []Request {
	return r.filter(StateAwaitingConfirmation)
}

// Skipped returns the requests that will not be performed.
func (r *Renamer) Skipped() []Request {
	return r.filter(StateSkipped, StateRejected)
}

func (r *Renamer) find(id int) (*Request, error) {
	for _, req := range r.requests {
		if req.ID == id {
			return req, nil
		}
	}
	return nil, fmt.Errorf("%w: %d", ErrUnknownID, id)
}

// Confirm approves a request awaiting confirmation.
func (r *Renamer) Confirm(id int) error {
	req, err := r.find(id)
	if err != nil {
		return err
	}
	if req.State == StateAwaitingConfirmation {
		req.State = StateConfirmed
	}
	return nil
}

// Reject drops a pending request.
func (r *Renamer) Reject(id int) error {
	req, err := r.find(id)
	if err != nil {
		return err
	}
	if req.State == StateAwaitingConfirmation || req.State == StateConfirmed {
		req.State = StateRejected
		req.Reason = "rejected by user"
	}
	return nil
}

// DoRenames settles every queued request in order and returns one event per
// request. Requests still awaiting confirmation are skipped. Failures are
// joined into the returned error, marked as file system errors.
//
// Destinations claimed and sources vacated by earlier calls are remembered,
// so a dry run reports the same outcomes a real run would.
func (r *Renamer) DoRenames(ctx context.Context) ([]Event, error) {
	var (
		events   []Event
		failures []error
	)
	for _, req := range r.requests {
		if req.State == StateDone {
			continue
		}
		if err := ctx.Err(); err != nil {
			return events, err
		}

		ev := Event{From: req.From, To: req.To}
		switch req.State {
		case StateAwaitingConfirmation:
			req.Reason = "not confirmed"
			fallthrough
		case StateSkipped, StateRejected:
			ev.Kind = EventSkipped
			ev.Reason = req.Reason
			r.stats.Skipped++
		case StateConfirmed:
			if err := r.perform(req); err != nil {
				ev.Kind = EventFailed
				ev.Err = err
				r.stats.Failed++
				failures = append(failures, err)
			} else {
				ev.Kind = EventRenamed
				r.stats.Renamed++
			}
		}
		req.State = StateDone
		r.log(ev)
		events = append(events, ev)
	}
	r.requests = r.requests[:0]

	if len(failures) > 0 {
		return events, services.Wrap(services.ErrFilesystem, "renamer", "rename", "rename failed", errors.Join(failures...))
	}
	return events, nil
}

func (r *Renamer) perform(req *Request) error {
	if other, taken := r.claimed[req.To]; taken && other != req.From {
		return fmt.Errorf("%w: %s is the target of %s", ErrCollision, req.To, other)
	}
	if r.occupied(req.To) && !sameFile(req.From, req.To) {
		return fmt.Errorf("%w: %s", ErrCollision, req.To)
	}
	if !r.dryRun {
		var err error
		if sameFile(req.From, req.To) {
			err = caseOnlyRename(req.From, req.To, r.move)
		} else {
			err = r.move(req.From, req.To)
		}
		if err != nil {
			return err
		}
	}
	delete(r.claimed, req.From)
	r.vacated[req.From] = true
	delete(r.vacated, req.To)
	r.claimed[req.To] = req.From
	return nil
}

// occupied reports whether path holds a file after the renames settled so
// far.
func (r *Renamer) occupied(path string) bool {
	if _, ok := r.claimed[path]; ok {
		return true
	}
	return !r.vacated[path] && fileutil.Exists(path)
}

func (r *Renamer) log(ev Event) {
	attrs := []logging.Attr{
		logging.String("from", ev.From),
		logging.String("to", ev.To),
		logging.Bool("dry_run", r.dryRun),
	}
	switch ev.Kind {
	case EventRenamed:
		r.logger.Info("renamed", logging.Args(attrs...)...)
	case EventSkipped:
		r.logger.Info("rename skipped", logging.Args(append(attrs, logging.String("reason", ev.Reason))...)...)
	case EventFailed:
		logging.WarnWithContext(r.logger, "rename failed", "rename_failed", append(attrs,
			logging.Error(ev.Err),
			logging.String(logging.FieldImpact, "file keeps its current name"),
			logging.String(logging.FieldErrorHint, "check permissions and whether the destination exists"),
		)...)
	}
}
