package plaintext_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"autonameow/internal/extractors/plaintext"
	"autonameow/internal/fileobject"
	"autonameow/internal/producer"
)

func TestDecode(t *testing.T) {
	tests := []struct {
		name string
		in   []byte
		want string
	}{
		{name: "utf8", in: []byte("Sjöberg"), want: "Sjöberg"},
		{name: "bom", in: []byte("\xef\xbb\xbfhello"), want: "hello"},
		{name: "cut rune", in: []byte("caf\xc3"), want: "caf"},
		{name: "windows-1252", in: []byte("caf\xe9 \x93quoted\x94"), want: "café “quoted”"},
		{name: "empty", in: nil, want: ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := plaintext.Decode(tt.in); got != tt.want {
				t.Fatalf("Decode(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestProduce(t *testing.T) {
	dir := t.TempDir()
	write := func(name, content string) *fileobject.FileObject {
		path := filepath.Join(dir, name)
		if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
			t.Fatal(err)
		}
		return &fileobject.FileObject{AbsPath: path, MIMEType: "text/plain"}
	}

	tests := []struct {
		name     string
		content  string
		maxBytes int64
		want     string
		none     bool
	}{
		{name: "normalized", content: "Meeting notes\r\n\r\n\r\n\r\nAgenda \tfirst  \n", want: "Meeting notes\n\nAgenda first"},
		{name: "truncated", content: "abcdefghij", maxBytes: 4, want: "abcd"},
		{name: "blank", content: " \n\t\n", none: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			x := plaintext.New(plaintext.Options{MaxBytes: tt.maxBytes})
			file := write(tt.name+".txt", tt.content)
			if !x.CanHandle(file) {
				t.Fatal("text/plain files are handled")
			}
			out, err := x.Produce(context.Background(), file, nil)
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
			b, err := spec.Bundle(x.Name(), out["full"])
			if err != nil || b.Value != tt.want {
				t.Fatalf("bundle = %#v, %v", b, err)
			}
		})
	}
}

func TestCanHandle(t *testing.T) {
	x := plaintext.New(plaintext.Options{})
	for mime, want := range map[string]bool{
		"text/plain":      true,
		"application/pdf": false,
		"text/html":       false,
	} {
		if got := x.CanHandle(&fileobject.FileObject{MIMEType: mime}); got != want {
			t.Errorf("CanHandle(%s) = %v, want %v", mime, got, want)
		}
	}
	if x.CanHandle(nil) {
		t.Error("nil file is not handled")
	}
}

func TestProduceMissingFile(t *testing.T) {
	x := plaintext.New(plaintext.Options{})
	file := &fileobject.FileObject{AbsPath: filepath.Join(t.TempDir(), "gone.txt"), MIMEType: "text/plain"}
	if _, err := x.Produce(context.Background(), file, nil); err == nil {
		t.Fatal("expected error for a missing file")
	}
}
