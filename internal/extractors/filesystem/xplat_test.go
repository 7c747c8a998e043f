package filesystem_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"autonameow/internal/extractors/filesystem"
	"autonameow/internal/fileobject"
	"autonameow/internal/producer"
)

func TestXPlatProduce(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "gmail.pdf")
	if err := os.WriteFile(path, []byte("%PDF-1.4\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	mtime := time.Date(2016, 1, 11, 12, 41, 32, 0, time.Local)
	if err := os.Chtimes(path, mtime, mtime); err != nil {
		t.Fatal(err)
	}
	file, err := fileobject.New(path, fileobject.Options{})
	if err != nil {
		t.Fatal(err)
	}

	x := filesystem.New()
	if !x.CanHandle(file) || !x.CheckDependencies() {
		t.Fatal("xplat handles every file")
	}
	out, err := x.Produce(context.Background(), file, nil)
	if err != nil {
		t.Fatalf("Produce: %v", err)
	}
	want := map[string]any{
		"basename_full":   "gmail.pdf",
		"basename_prefix": "gmail",
		"extension":       "pdf",
		"basename_suffix": "pdf",
		"pathname_parent": filepath.Base(dir),
		"mime_type":       "application/pdf",
	}
	for leaf, v := range want {
		if out[leaf] != v {
			t.Errorf("%s = %v, want %v", leaf, out[leaf], v)
		}
	}
	if got := out["date_modified"].(time.Time); !got.Equal(mtime) {
		t.Errorf("date_modified = %v, want %v", got, mtime)
	}

	for leaf, raw := range out {
		spec, ok := producer.SpecFor(x, leaf)
		if !ok {
			t.Fatalf("no spec for %s", leaf)
		}
		if _, err := spec.Bundle(x.Name(), raw); err != nil {
			t.Errorf("leaf %s does not coerce: %v", leaf, err)
		}
	}
}
