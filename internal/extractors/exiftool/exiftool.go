package exiftool

import (
	"context"
	"errors"
	"os/exec"
	"strings"
	"sync"
	"time"

	"autonameow/internal/coercers"
	"autonameow/internal/fields"
	"autonameow/internal/fileobject"
	"autonameow/internal/meowuri"
	"autonameow/internal/mimemap"
	"autonameow/internal/producer"
)

// Prefix is the MeowURI prefix of the exiftool extractor.
var Prefix = meowuri.MustNew("extractor.metadata.exiftool")

// DefaultTimeout bounds a single exiftool query.
const DefaultTimeout = 30 * time.Second

var handledMIMETypes = []string{
	"application/pdf",
	"application/epub+zip",
	"application/msword",
	"application/vnd.openxmlformats-officedocument.wordprocessingml.document",
	"image/*",
	"video/*",
	"audio/*",
}

// Options configures the extractor.
type Options struct {
	Binary  string
	Timeout time.Duration
}

// Option customizes an Extractor.
type Option func(*Extractor)

// WithRunner injects the exiftool runner (primarily for tests).
func WithRunner(r Runner) Option {
	return func(e *Extractor) {
		if r != nil {
			e.runner = r
		}
	}
}

// WithLookPath replaces exec.LookPath in CheckDependencies.
func WithLookPath(fn func(string) (string, error)) Option {
	return func(e *Extractor) {
		if fn != nil {
			e.lookPath = fn
		}
	}
}

// Extractor reports embedded metadata read by exiftool.
type Extractor struct {
	binary   string
	timeout  time.Duration
	lookPath func(string) (string, error)

	once   sync.Once
	runner Runner
}

// New returns an extractor. The exiftool process is started on first use.
func New(opts Options, options ...Option) *Extractor {
	binary := strings.TrimSpace(opts.Binary)
	if binary == "" {
		binary = "exiftool"
	}
	timeout := opts.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	e := &Extractor{binary: binary, timeout: timeout, lookPath: exec.LookPath}
	for _, opt := range options {
		opt(e)
	}
	return e
}

func (*Extractor) Name() string { return "metadata.exiftool" }

func (*Extractor) URIPrefix() meowuri.URI { return Prefix }

func (*Extractor) MetaInfo() map[string]producer.FieldSpec { return tagMeta }

// Cacheable opts exiftool output into the persistence cache.
func (*Extractor) Cacheable() bool { return true }

// DefaultSpec treats tags without declared metainfo as plain strings.
func (*Extractor) DefaultSpec(string) (producer.FieldSpec, bool) {
	return producer.Spec(coercers.String, fields.Generic{}), true
}

func (e *Extractor) CanHandle(file *fileobject.FileObject) bool {
	if file == nil {
		return false
	}
	ok, err := mimemap.EvalGlob(file.MIMEType, handledMIMETypes)
	return err == nil && ok
}

func (e *Extractor) CheckDependencies() bool {
	if e.runner != nil {
		return true
	}
	_, err := e.lookPath(e.binary)
	return err == nil
}

func (e *Extractor) Produce(ctx context.Context, file *fileobject.FileObject, _ producer.Requester) (map[string]any, error) {
	e.once.Do(func() {
		if e.runner == nil {
			e.runner = NewProcess(e.binary)
		}
	})
	queryCtx, cancel := context.WithTimeout(ctx, e.timeout)
	defer cancel()
	raw, err := e.runner.Query(queryCtx, file.AbsPath)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			return nil, producer.ErrTimeout
		}
		return nil, err
	}
	out := make(map[string]any, len(raw))
	for tag, value := range raw {
		if _, skip := ignoredTags[tag]; skip {
			continue
		}
		if s, ok := value.(string); ok && strings.TrimSpace(s) == "" {
			continue
		}
		out[tag] = value
	}
	return out, nil
}

// Close stops the exiftool process if one was started.
func (e *Extractor) Close() error {
	if e.runner == nil {
		return nil
	}
	return e.runner.Close()
}
