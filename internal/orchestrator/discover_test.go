package orchestrator

import (
	"os"
	"path/filepath"
	"reflect"
	"testing"
)

func touch(t *testing.T, path string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}
}

func TestIgnoreMatcher(t *testing.T) {
	m, err := NewIgnoreMatcher([]string{"*/.git/*", "*.swp", "", "*/Thumbs.db", "*/file?.log", "*/scan[0-9].pdf", "*.{tmp,part}"})
	if err != nil {
		t.Fatalf("NewIgnoreMatcher: %v", err)
	}
	tests := []struct {
		path string
		want bool
	}{
		{"/home/u/repo/.git/config", true},
		{"/home/u/repo/.git/objects/ab/cd", true},
		{"/home/u/notes.txt.swp", true},
		{"/home/u/pics/Thumbs.db", true},
		{"/home/u/file1.log", true},
		{"/home/u/file10.log", false},
		{"/home/u/notes.txt", false},
		{"/home/u/.gitignore", false},
		{"/home/u/scan7.pdf", true},
		{"/home/u/scanX.pdf", false},
		{"/home/u/dl/movie.part", true},
		{"/home/u/a.tmp", true},
	}
	for _, tt := range tests {
		if got := m.Match(tt.path); got != tt.want {
			t.Errorf("Match(%q) = %v, want %v", tt.path, got, tt.want)
		}
	}
	var nilMatcher *IgnoreMatcher
	if nilMatcher.Match("/anything") {
		t.Fatal("nil matcher should match nothing")
	}
}

func TestDiscover(t *testing.T) {
	root := t.TempDir()
	touch(t, filepath.Join(root, "b.txt"))
	touch(t, filepath.Join(root, "a.txt"))
	touch(t, filepath.Join(root, "a.txt.swp"))
	touch(t, filepath.Join(root, "sub", "c.txt"))
	touch(t, filepath.Join(root, ".git", "config"))

	ignore, err := NewIgnoreMatcher([]string{"*/.git/*", "*.swp"})
	if err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		name    string
		recurse bool
		want    []string
	}{
		{name: "flat", want: []string{"a.txt", "b.txt"}},
		{name: "recursive", recurse: true, want: []string{"a.txt", "b.txt", "sub/c.txt"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			files, errs := Discover([]string{root, filepath.Join(root, "a.txt")}, tt.recurse, ignore)
			if len(errs) != 0 {
				t.Fatalf("errors: %v", errs)
			}
			got := make([]string, len(files))
			for i, f := range files {
				rel, _ := filepath.Rel(root, f)
				got[i] = filepath.ToSlash(rel)
			}
			if !reflect.DeepEqual(got, tt.want) {
				t.Fatalf("got %v, want %v", got, tt.want)
			}
		})
	}
}

func TestDiscoverReportsMissingPaths(t *testing.T) {
	files, errs := Discover([]string{filepath.Join(t.TempDir(), "missing")}, false, nil)
	if len(files) != 0 || len(errs) != 1 {
		t.Fatalf("files=%v errs=%v", files, errs)
	}
}
