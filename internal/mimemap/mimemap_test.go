package mimemap

import (
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"testing"
)

func TestBuiltinLookups(t *testing.T) {
	m := Builtin()
	cases := []struct {
		ext  string
		want string
	}{
		{"pdf", "application/pdf"},
		{".JPG", "image/jpeg"},
		{"md", "text/markdown"},
		{"txt", "text/plain"},
		{"tar.gz", "application/gzip"},
		{"", Unknown},
		{"nosuchext", Unknown},
	}
	for _, tc := range cases {
		if got := m.MIMEType(tc.ext); got != tc.want {
			t.Errorf("MIMEType(%q) = %q, want %q", tc.ext, got, tc.want)
		}
	}

	if got := m.Extension("text/plain"); got != "txt" {
		t.Fatalf("Extension(text/plain) = %q", got)
	}
	if got := m.Extension("image/jpeg"); got != "jpg" {
		t.Fatalf("Extension(image/jpeg) = %q", got)
	}
	if got := m.Extension(EmptyFile); got != "" {
		t.Fatalf("Extension(%s) = %q, want empty", EmptyFile, got)
	}
	if got := m.Extension("application/x-unheard-of"); got != "" {
		t.Fatalf("unknown mime should have no extension, got %q", got)
	}
}

func TestMarkdownSuffixIsNotPlainText(t *testing.T) {
	candidates := Builtin().CandidateMIMETypes("md")
	for _, c := range candidates {
		if c == "text/plain" {
			t.Fatalf("md should not map to text/plain: %v", candidates)
		}
	}
	if Builtin().HasMapping("text/plain", "md") {
		t.Fatal("HasMapping(text/plain, md) = true")
	}
}

func TestCandidateOrdering(t *testing.T) {
	m := NewMapper()
	m.AddMapping("application/x-gzip", "gz")
	m.AddMapping("application/gzip", "gz")
	m.AddMapping("application/gzip", "tar.gz")
	m.AddMapping("application/gzip", "tgz")

	if got := m.CandidateMIMETypes("gz"); !reflect.DeepEqual(got, []string{"application/gzip", "application/x-gzip"}) {
		t.Fatalf("CandidateMIMETypes(gz) = %v", got)
	}
	if got := m.CandidateExtensions("application/gzip"); !reflect.DeepEqual(got, []string{"gz", "tgz", "tar.gz"}) {
		t.Fatalf("CandidateExtensions = %v", got)
	}
}

func TestPreferredOverridesAndClone(t *testing.T) {
	m := Builtin().Clone()
	m.AddPreferredExtension("image/jpeg", "jpeg")
	if got := m.Extension("image/jpeg"); got != "jpeg" {
		t.Fatalf("override not applied: %q", got)
	}
	if got := Builtin().Extension("image/jpeg"); got != "jpg" {
		t.Fatalf("builtin mapper was modified: %q", got)
	}
	m.AddMapping("application/x-autonameow-test", "anwtest")
	if got := m.MIMEType("anwtest"); got != "application/x-autonameow-test" {
		t.Fatalf("MIMEType(anwtest) = %q", got)
	}
	if got := Builtin().MIMEType("anwtest"); got != Unknown {
		t.Fatalf("builtin mapper gained a mapping: %q", got)
	}
}

func TestEvalGlob(t *testing.T) {
	cases := []struct {
		mime  string
		globs []string
		want  bool
	}{
		{"application/pdf", []string{"application/pdf"}, true},
		{"application/pdf", []string{"application/*"}, true},
		{"application/pdf", []string{"*/pdf"}, true},
		{"application/pdf", []string{"*/*"}, true},
		{"application/pdf", []string{"image/*", "text/plain"}, false},
		{"image/jpeg", []string{"image/*", "text/plain"}, true},
		{"Text/Plain; charset=utf-8", []string{"text/plain"}, true},
		{Unknown, []string{"*/*"}, true},
		{Unknown, []string{"application/*"}, false},
		{"", []string{"*/pdf"}, false},
		{"application/pdf", nil, false},
	}
	for _, tc := range cases {
		got, err := EvalGlob(tc.mime, tc.globs)
		if err != nil {
			t.Fatalf("EvalGlob(%q, %v) error: %v", tc.mime, tc.globs, err)
		}
		if got != tc.want {
			t.Errorf("EvalGlob(%q, %v) = %v, want %v", tc.mime, tc.globs, got, tc.want)
		}
	}
}

func TestEvalGlobRejectsMalformed(t *testing.T) {
	for _, glob := range []string{"pdf", "application/", "/pdf", "a/b/c", "*", ""} {
		if _, err := EvalGlob("application/pdf", []string{glob}); !errors.Is(err, ErrInvalidGlob) {
			t.Errorf("EvalGlob with %q: expected ErrInvalidGlob, got %v", glob, err)
		}
	}
}

func TestIsValid(t *testing.T) {
	for _, s := range []string{"application/pdf", "image/svg+xml", "application/vnd.ms-excel"} {
		if !IsValid(s) {
			t.Errorf("IsValid(%q) = false", s)
		}
	}
	for _, s := range []string{Unknown, "pdf", "*/*", "", "a/b/c"} {
		if IsValid(s) {
			t.Errorf("IsValid(%q) = true", s)
		}
	}
}

func TestDetect(t *testing.T) {
	dir := t.TempDir()

	empty := filepath.Join(dir, "empty")
	if err := os.WriteFile(empty, nil, 0o644); err != nil {
		t.Fatal(err)
	}
	if got, err := Detect(empty); err != nil || got != EmptyFile {
		t.Fatalf("Detect(empty) = %q, %v", got, err)
	}

	pdf := filepath.Join(dir, "doc")
	if err := os.WriteFile(pdf, []byte("%PDF-1.4\n%\xe2\xe3\xcf\xd3\n1 0 obj\n<<>>\nendobj\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	if got, err := Detect(pdf); err != nil || got != "application/pdf" {
		t.Fatalf("Detect(pdf) = %q, %v", got, err)
	}

	text := filepath.Join(dir, "notes.md")
	if err := os.WriteFile(text, []byte("# Notes\n\nplain words\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	if got, err := Detect(text); err != nil || got != "text/plain" {
		t.Fatalf("Detect(text) = %q, %v", got, err)
	}

	if _, err := Detect(filepath.Join(dir, "missing")); err == nil {
		t.Fatal("expected error for missing file")
	}
}
