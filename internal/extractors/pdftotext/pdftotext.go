package pdftotext

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strings"
	"time"

	"autonameow/internal/coercers"
	"autonameow/internal/fields"
	"autonameow/internal/fileobject"
	"autonameow/internal/meowuri"
	"autonameow/internal/producer"
	"autonameow/internal/textutil"
)

// Prefix is the MeowURI prefix of the pdftotext extractor.
var Prefix = meowuri.MustNew("extractor.text.pdftotext")

// DefaultTimeout bounds a single pdftotext run.
const DefaultTimeout = 30 * time.Second

var meta = map[string]producer.FieldSpec{
	"full": producer.Spec(coercers.String, fields.GenericText),
}

// Runner returns the raw text of a PDF document.
type Runner interface {
	Text(ctx context.Context, path string) (string, error)
}

// Command runs the pdftotext binary once per document.
type Command struct {
	Binary string
}

// Text runs "pdftotext -nopgbrk -enc UTF-8 <path> -" and returns stdout.
func (c Command) Text(ctx context.Context, path string) (string, error) {
	cmd := exec.CommandContext(ctx, c.Binary, "-nopgbrk", "-enc", "UTF-8", path, "-")
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return "", ctxErr
		}
		if msg := strings.TrimSpace(stderr.String()); msg != "" {
			return "", fmt.Errorf("pdftotext %s: %w: %s", path, err, msg)
		}
		return "", fmt.Errorf("pdftotext %s: %w", path, err)
	}
	return stdout.String(), nil
}

// Options configures the extractor.
type Options struct {
	Binary  string
	Timeout time.Duration
}

// Option customizes an Extractor.
type Option func(*Extractor)

// WithRunner injects the text runner (primarily for tests).
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

// Extractor reports the text layer of PDF files.
type Extractor struct {
	binary   string
	timeout  time.Duration
	lookPath func(string) (string, error)
	runner   Runner
	injected bool
}

// New returns a pdftotext extractor.
func New(opts Options, options ...Option) *Extractor {
	binary := strings.TrimSpace(opts.Binary)
	if binary == "" {
		binary = "pdftotext"
	}
	timeout := opts.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	e := &Extractor{binary: binary, timeout: timeout, lookPath: exec.LookPath}
	for _, opt := range options {
		opt(e)
	}
	if e.runner != nil {
		e.injected = true
	} else {
		e.runner = Command{Binary: binary}
	}
	return e
}

func (*Extractor) Name() string { return "text.pdftotext" }

func (*Extractor) URIPrefix() meowuri.URI { return Prefix }

func (*Extractor) MetaInfo() map[string]producer.FieldSpec { return meta }

// Cacheable opts pdftotext output into the persistence cache.
func (*Extractor) Cacheable() bool { return true }

func (*Extractor) CanHandle(file *fileobject.FileObject) bool {
	return file != nil && file.MIMEType == "application/pdf"
}

func (e *Extractor) CheckDependencies() bool {
	if e.injected {
		return true
	}
	_, err := e.lookPath(e.binary)
	return err == nil
}

func (e *Extractor) Produce(ctx context.Context, file *fileobject.FileObject, _ producer.Requester) (map[string]any, error) {
	runCtx, cancel := context.WithTimeout(ctx, e.timeout)
	defer cancel()
	raw, err := e.runner.Text(runCtx, file.AbsPath)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			return nil, producer.ErrTimeout
		}
		return nil, err
	}
	text := textutil.NormalizeText(raw)
	if text == "" {
		return nil, nil
	}
	return map[string]any{"full": text}, nil
}
