package fieldparsers_test

import (
	"errors"
	"testing"
	"time"

	"autonameow/internal/fieldparsers"
	"autonameow/internal/meowuri"
)

func TestForURI(t *testing.T) {
	reg := fieldparsers.Default()
	tests := []struct {
		uri  string
		want string
	}{
		{"extractor.filesystem.xplat.basename_full", "regex"},
		{"extractor.filesystem.xplat.mime_type", "mime_type"},
		{"generic.contents.mime_type", "mime_type"},
		{"extractor.filesystem.filetags.follows_filetags_convention", "boolean"},
		{"extractor.filesystem.xplat.date_modified", "datetime"},
		{"analyzer.filename.datetime", "datetime"},
		{"extractor.metadata.exiftool.PDF:Producer", "regex"},
		{"generic.metadata.title", "regex"},
		{"extractor.text.plain.full", "regex"},
		{"extractor.text.pdftotext.full", "regex"},
		{"generic.contents.text", "regex"},
	}
	for _, tt := range tests {
		t.Run(tt.uri, func(t *testing.T) {
			p, err := reg.ForURI(meowuri.MustNew(tt.uri))
			if err != nil {
				t.Fatalf("ForURI: %v", err)
			}
			if p.Name() != tt.want {
				t.Fatalf("got parser %q, want %q", p.Name(), tt.want)
			}
		})
	}
}

func TestForURIErrors(t *testing.T) {
	reg := fieldparsers.Default()
	if _, err := reg.ForURI(meowuri.MustNew("analyzer.filename.edition")); !errors.Is(err, fieldparsers.ErrNoParser) {
		t.Fatalf("expected ErrNoParser, got %v", err)
	}

	dup := fieldparsers.NewRegistry(fieldparsers.NewRegex(), fieldparsers.NewRegex())
	if _, err := dup.ForURI(meowuri.MustNew("extractor.filesystem.xplat.basename_full")); !errors.Is(err, fieldparsers.ErrAmbiguousParser) {
		t.Fatalf("expected ErrAmbiguousParser, got %v", err)
	}
}

func TestBooleanParser(t *testing.T) {
	p := fieldparsers.NewBoolean()
	for _, expr := range []any{true, "yes", "Off", "enabled", "passive"} {
		if !p.Validate(expr) {
			t.Errorf("Validate(%v) = false", expr)
		}
	}
	for _, expr := range []any{"maybe", "", []any{true}} {
		if p.Validate(expr) {
			t.Errorf("Validate(%v) = true", expr)
		}
	}
	if _, ok := p.Evaluate("true", true); !ok {
		t.Fatal("true should match true")
	}
	if _, ok := p.Evaluate("no", true); ok {
		t.Fatal("no should not match true")
	}
	if _, ok := p.Evaluate(false, "off"); !ok {
		t.Fatal("false should match off")
	}
}

func TestRegexParser(t *testing.T) {
	p := fieldparsers.NewRegex()
	if !p.AllowMultivaluedExpression() {
		t.Fatal("regex should allow lists")
	}
	if !p.Validate(`gmail\.pdf`) || p.Validate(`(`) || p.Validate("") {
		t.Fatal("unexpected validation result")
	}
	if !p.Validate([]any{"a", "b.*"}) || p.Validate([]any{"a", "("}) {
		t.Fatal("unexpected list validation result")
	}

	res, ok := p.Evaluate(`(IMG|DSC)_(\d+)`, "IMG_1234.jpg")
	if !ok {
		t.Fatal("expected match")
	}
	m, isMatch := res.([]string)
	if !isMatch || len(m) != 3 || m[2] != "1234" {
		t.Fatalf("unexpected match %#v", res)
	}
	if _, ok := p.Evaluate(`gmail`, "my gmail.pdf"); ok {
		t.Fatal("match must be anchored at the start")
	}
	if _, ok := p.Evaluate([]any{"foo", "my"}, "my gmail.pdf"); !ok {
		t.Fatal("list expression should match on any element")
	}
	if _, ok := p.Evaluate("tag1", []any{"a", "tag1"}); !ok {
		t.Fatal("list data should match on any element")
	}
	if _, ok := p.Evaluate("x", nil); ok {
		t.Fatal("nil data never matches")
	}
}

func TestMimeTypeParser(t *testing.T) {
	p := fieldparsers.NewMimeType()
	for _, expr := range []any{"application/pdf", "image/*", "*/*", []any{"text/plain", "*/epub+zip"}} {
		if !p.Validate(expr) {
			t.Errorf("Validate(%v) = false", expr)
		}
	}
	for _, expr := range []any{"pdf", "image/", 1, []any{"text/plain", "bad"}} {
		if p.Validate(expr) {
			t.Errorf("Validate(%v) = true", expr)
		}
	}
	if _, ok := p.Evaluate("application/pdf", "application/pdf"); !ok {
		t.Fatal("exact mime should match")
	}
	if _, ok := p.Evaluate([]any{"image/*", "text/*"}, "text/plain"); !ok {
		t.Fatal("glob list should match")
	}
	if _, ok := p.Evaluate("application/*", "text/plain"); ok {
		t.Fatal("unexpected match")
	}
	if _, ok := p.Evaluate("application/*", "<unknown>"); ok {
		t.Fatal("unknown mime only matches */*")
	}
	if _, ok := p.Evaluate("*/*", "<unknown>"); !ok {
		t.Fatal("*/* matches unknown mime")
	}
}

func TestDateTimeParser(t *testing.T) {
	p := fieldparsers.NewDateTime()
	for _, expr := range []any{"%Y-%m-%d", "%Y", time.Now()} {
		if !p.Validate(expr) {
			t.Errorf("Validate(%v) = false", expr)
		}
	}
	for _, expr := range []any{"", "Defined", "> 2017", "<2010", 42} {
		if p.Validate(expr) {
			t.Errorf("Validate(%v) = true", expr)
		}
	}
	when := time.Date(2017, 9, 12, 22, 48, 20, 0, time.UTC)
	if _, ok := p.Evaluate("%Y", when); ok {
		t.Fatal("format expressions never match")
	}
	if _, ok := p.Evaluate(when, when.In(time.FixedZone("X", 3600))); !ok {
		t.Fatal("equal instants should match")
	}
	if _, ok := p.Evaluate(when, when.Add(time.Second)); ok {
		t.Fatal("different instants should not match")
	}
}

func TestNameTemplateParser(t *testing.T) {
	p := fieldparsers.NewNameTemplate()
	if len(p.AppliesTo()) != 0 {
		t.Fatal("name template parser applies to no MeowURI")
	}
	for _, expr := range []string{"{datetime} {title}.{extension}", "static-name", `"{title}"`} {
		if !p.Validate(expr) {
			t.Errorf("Validate(%q) = false", expr)
		}
	}
	for _, expr := range []any{"", "{bogus}", "{title} {}", 12} {
		if p.Validate(expr) {
			t.Errorf("Validate(%v) = true", expr)
		}
	}
}
