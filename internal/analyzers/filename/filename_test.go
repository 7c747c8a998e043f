package filename

import (
	"context"
	"testing"
	"time"

	"autonameow/internal/fileobject"
	"autonameow/internal/meowuri"
	"autonameow/internal/mimemap"
)

func TestLikelyExtension(t *testing.T) {
	tests := []struct {
		name, suffix, mime, want string
	}{
		{"markdown detected as plain text", "md", "text/plain", "txt"},
		{"matching suffix kept", "pdf", "application/pdf", "pdf"},
		{"jpeg alias kept", "jpeg", "image/jpeg", "jpeg"},
		{"wrong suffix replaced", "txt", "application/pdf", "pdf"},
		{"missing suffix added", "", "image/png", "png"},
		{"source code kept", "py", "text/plain", "py"},
		{"shell alias", "bash", "text/x-shellscript", "sh"},
		{"unknown mime keeps suffix", "xyz", mimemap.Unknown, "xyz"},
		{"compound suffix kept", "tar.gz", "application/gzip", "tar.gz"},
		{"empty file keeps suffix", "log", mimemap.EmptyFile, "log"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := LikelyExtension(nil, tt.suffix, tt.mime); got != tt.want {
				t.Fatalf("LikelyExtension(%q, %q) = %q, want %q", tt.suffix, tt.mime, got, tt.want)
			}
		})
	}
}

func TestLikelyExtensionHonorsMapperOverrides(t *testing.T) {
	m := mimemap.Builtin().Clone()
	m.AddPreferredExtension("image/jpeg", "jpeg")
	if got := LikelyExtension(m, "", "image/jpeg"); got != "jpeg" {
		t.Fatalf("got %q", got)
	}
}

func TestFindEdition(t *testing.T) {
	tests := []struct {
		text string
		want int
		ok   bool
	}{
		{"Practical Go 2nd Edition", 2, true},
		{"practical-go third-ed", 3, true},
		{"Go Programming 5E", 5, true},
		{"Networking 11th ed", 11, true},
		{"gmail", 0, false},
		{"report 2016", 0, false},
		{"first draft", 0, false},
	}
	for _, tt := range tests {
		got, ok := FindEdition(tt.text)
		if got != tt.want || ok != tt.ok {
			t.Errorf("FindEdition(%q) = %d, %v; want %d, %v", tt.text, got, ok, tt.want, tt.ok)
		}
	}
}

func TestProduce(t *testing.T) {
	a, err := New(Options{
		PublisherCandidates: map[string][]string{"ProjectGutenberg": {`(?i)gutenberg`}},
		Now:                 func() time.Time { return time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC) },
	})
	if err != nil {
		t.Fatal(err)
	}
	file := &fileobject.FileObject{
		Filename:       "2017-09-12T224820 gutenberg notes 2nd edition.md",
		BasenamePrefix: "2017-09-12T224820 gutenberg notes 2nd edition",
		BasenameSuffix: "md",
		MIMEType:       "text/plain",
	}
	requested := map[string]bool{}
	request := func(_ context.Context, uri meowuri.URI) (any, bool) {
		requested[uri.Leaf()] = true
		return nil, false
	}
	out, err := a.Produce(context.Background(), file, request)
	if err != nil {
		t.Fatal(err)
	}
	ts, ok := out["datetime"].(time.Time)
	if !ok || ts.Year() != 2017 || ts.Hour() != 22 || ts.Minute() != 48 || ts.Second() != 20 {
		t.Fatalf("datetime = %v", out["datetime"])
	}
	if out["edition"] != 2 {
		t.Fatalf("edition = %v", out["edition"])
	}
	if out["extension"] != "txt" {
		t.Fatalf("extension = %v", out["extension"])
	}
	if out["publisher"] != "ProjectGutenberg" {
		t.Fatalf("publisher = %v", out["publisher"])
	}
	if !requested["basename_prefix"] || !requested["mime_type"] {
		t.Fatalf("analyzer should request filesystem data, got %v", requested)
	}
	for leaf, raw := range out {
		if _, err := a.MetaInfo()[leaf].Bundle(a.Name(), raw); err != nil {
			t.Errorf("%s: %v", leaf, err)
		}
	}
}

func TestDatesFromNames(t *testing.T) {
	a, _ := New(Options{Now: func() time.Time { return time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC) }})
	if _, ok := a.datetimeFromName("IMG_20160722_141516"); !ok {
		t.Fatal("expected datetime in camera name")
	}
	if ts, ok := a.datetimeFromName("screenshot 1461786010455"); !ok || ts.Year() != 2016 {
		t.Fatalf("unix millis timestamp = %v, %v", ts, ok)
	}
	if _, ok := a.datetimeFromName("scan 3000-01-01_101010"); ok {
		t.Fatal("implausible years are rejected")
	}
	if ts, ok := a.dateFromName("invoice 2016-01-11"); !ok || ts.Day() != 11 {
		t.Fatalf("date = %v, %v", ts, ok)
	}
}

func TestNewRejectsBadPublisherPattern(t *testing.T) {
	if _, err := New(Options{PublisherCandidates: map[string][]string{"x": {"("}}}); err == nil {
		t.Fatal("expected compile error")
	}
}
