package pdftotext_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"
	"time"

	"autonameow/internal/extractors/pdftotext"
	"autonameow/internal/fileobject"
	"autonameow/internal/producer"
)

type fakeRunner struct {
	text  string
	err   error
	calls int
}

func (f *fakeRunner) Text(ctx context.Context, path string) (string, error) {
	f.calls++
	if f.err != nil {
		return "", f.err
	}
	return f.text, nil
}

type slowRunner struct{}

func (slowRunner) Text(ctx context.Context, path string) (string, error) {
	<-ctx.Done()
	return "", ctx.Err()
}

func TestProduce(t *testing.T) {
	pdf := &fileobject.FileObject{AbsPath: "/tmp/report.pdf", MIMEType: "application/pdf"}
	boom := errors.New("boom")

	tests := []struct {
		name    string
		runner  pdftotext.Runner
		timeout time.Duration
		want    string
		none    bool
		wantErr error
	}{
		{name: "normalized", runner: &fakeRunner{text: "Annual Report\f\n\n\n\n2016\n"}, want: "Annual Report\n\n2016"},
		{name: "no text layer", runner: &fakeRunner{text: "\f\f\n"}, none: true},
		{name: "runner failure", runner: &fakeRunner{err: boom}, wantErr: boom},
		{name: "timeout", runner: slowRunner{}, timeout: 10 * time.Millisecond, wantErr: producer.ErrTimeout},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			x := pdftotext.New(pdftotext.Options{Timeout: tt.timeout}, pdftotext.WithRunner(tt.runner))
			out, err := x.Produce(context.Background(), pdf, nil)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("err = %v, want %v", err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("Produce: %v", err)
			}
			if tt.none {
				if len(out) != 0 {
					t.Fatalf("expected no leaves, got %v", out)
				}
				return
			}
			if out["full"] != tt.want {
				t.Fatalf("full = %q, want %q", out["full"], tt.want)
			}
			spec, ok := producer.SpecFor(x, "full")
			if !ok {
				t.Fatal("no spec for full")
			}
			if _, err := spec.Bundle(x.Name(), out["full"]); err != nil {
				t.Fatalf("bundle: %v", err)
			}
		})
	}
}

func TestCanHandleAndDependencies(t *testing.T) {
	x := pdftotext.New(pdftotext.Options{}, pdftotext.WithLookPath(func(string) (string, error) {
		return "", errors.New("not found")
	}))
	if x.CheckDependencies() {
		t.Fatal("missing binary should fail the dependency check")
	}
	if !x.CanHandle(&fileobject.FileObject{MIMEType: "application/pdf"}) {
		t.Fatal("pdf files are handled")
	}
	if x.CanHandle(&fileobject.FileObject{MIMEType: "text/plain"}) || x.CanHandle(nil) {
		t.Fatal("only pdf files are handled")
	}
	if !producer.IsCacheable(x) {
		t.Fatal("pdftotext output is cached")
	}

	injected := pdftotext.New(pdftotext.Options{}, pdftotext.WithRunner(&fakeRunner{}))
	if !injected.CheckDependencies() {
		t.Fatal("an injected runner satisfies the dependency check")
	}
}

func TestCommand(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("shell stubs require a POSIX shell")
	}
	dir := t.TempDir()
	stub := filepath.Join(dir, "pdftotext")
	script := "#!/bin/sh\n" +
		"[ \"$1 $2 $3\" = \"-nopgbrk -enc UTF-8\" ] || exit 9\n" +
		"[ \"$5\" = \"-\" ] || exit 9\n" +
		"case \"$4\" in *broken*) echo 'Syntax Error: damaged' >&2; exit 1;; esac\n" +
		"echo \"text of $(basename \"$4\")\"\n"
	if err := os.WriteFile(stub, []byte(script), 0o755); err != nil {
		t.Fatal(err)
	}
	cmd := pdftotext.Command{Binary: stub}

	got, err := cmd.Text(context.Background(), filepath.Join(dir, "report.pdf"))
	if err != nil {
		t.Fatalf("Text: %v", err)
	}
	if got != "text of report.pdf\n" {
		t.Fatalf("Text = %q", got)
	}

	_, err = cmd.Text(context.Background(), filepath.Join(dir, "broken.pdf"))
	if err == nil || !strings.Contains(err.Error(), "damaged") {
		t.Fatalf("expected stderr in error, got %v", err)
	}
}
