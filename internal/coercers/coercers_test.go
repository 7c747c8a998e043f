package coercers

import (
	"errors"
	"testing"
	"time"
)

func TestBooleanLiterals(t *testing.T) {
	for _, lit := range []string{"true", "YES", " on ", "enable", "Enabled", "positive", "active"} {
		got, err := Boolean.Coerce(lit)
		if err != nil || got != true {
			t.Fatalf("Coerce(%q) = %v, %v; want true", lit, got, err)
		}
	}
	for _, lit := range []string{"false", "no", "OFF", "disable", "disabled", "negative", "inactive", "passive"} {
		got, err := Boolean.Coerce(lit)
		if err != nil || got != false {
			t.Fatalf("Coerce(%q) = %v, %v; want false", lit, got, err)
		}
	}
	if _, err := Boolean.Coerce("maybe"); !errors.Is(err, ErrCoerce) {
		t.Fatalf("expected ErrCoerce, got %v", err)
	}
	if got, _ := Boolean.Coerce(1); got != true {
		t.Fatal("positive numbers coerce to true")
	}
}

func TestIntegerAndFloat(t *testing.T) {
	if got, err := Integer.Coerce("42"); err != nil || got != 42 {
		t.Fatalf("Integer.Coerce(\"42\") = %v, %v", got, err)
	}
	if got, err := Integer.Coerce("3.9"); err != nil || got != 3 {
		t.Fatalf("Integer.Coerce(\"3.9\") = %v, %v", got, err)
	}
	if _, err := Integer.Coerce(true); err == nil {
		t.Fatal("booleans are not integers")
	}
	if _, err := Integer.Coerce("abc"); err == nil {
		t.Fatal("expected failure for non-numeric text")
	}
	formatted, err := Float.Format("1.46")
	if err != nil || formatted != "1.5" {
		t.Fatalf("Float.Format = %q, %v", formatted, err)
	}
}

func TestStringAndPath(t *testing.T) {
	if got, err := String.Coerce([]byte("gmail")); err != nil || got != "gmail" {
		t.Fatalf("String.Coerce(bytes) = %v, %v", got, err)
	}
	if got, _ := String.Coerce(7); got != "7" {
		t.Fatalf("String.Coerce(7) = %v", got)
	}
	if _, err := String.Coerce(nil); err == nil {
		t.Fatal("nil is not a string")
	}
	if _, err := Path.Coerce("   "); err == nil {
		t.Fatal("blank paths are rejected")
	}
	if got, err := PathComponent.Coerce("tar.gz"); err != nil || got != "tar.gz" {
		t.Fatalf("PathComponent.Coerce = %v, %v", got, err)
	}
}

func TestMimeType(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"application/pdf", "application/pdf"},
		{"Text/Plain; charset=utf-8", "text/plain"},
		{"pdf", "application/pdf"},
		{".jpg", "image/jpeg"},
	}
	for _, tt := range tests {
		got, err := MimeType.Coerce(tt.in)
		if err != nil || got != tt.want {
			t.Fatalf("MimeType.Coerce(%q) = %v, %v; want %q", tt.in, got, err, tt.want)
		}
	}
	if _, err := MimeType.Coerce("definitely not a mime"); err == nil {
		t.Fatal("expected failure")
	}
	ext, err := MimeType.Format("image/jpeg")
	if err != nil || ext != "jpg" {
		t.Fatalf("MimeType.Format = %q, %v", ext, err)
	}
}

func TestTimeDateLooseParsing(t *testing.T) {
	tests := []struct {
		in   string
		want time.Time
	}{
		{"2017-09-12T224820 filetags-style name", time.Date(2017, 9, 12, 22, 48, 20, 0, time.UTC)},
		{"IMG_20160725_101548.jpg", time.Date(2016, 7, 25, 10, 15, 48, 0, time.UTC)},
		{"2016:01:11 12:41:32", time.Date(2016, 1, 11, 12, 41, 32, 0, time.UTC)},
	}
	for _, tt := range tests {
		got, err := TimeDate.Coerce(tt.in)
		if err != nil {
			t.Fatalf("TimeDate.Coerce(%q): %v", tt.in, err)
		}
		if !got.(time.Time).Equal(tt.want) {
			t.Fatalf("TimeDate.Coerce(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
	if _, err := TimeDate.Coerce("2016-13-40 25:00:00"); err == nil {
		t.Fatal("out of range components must fail")
	}
	if _, err := TimeDate.Coerce("no digits"); err == nil {
		t.Fatal("expected failure")
	}
}

func TestExifToolTimeDate(t *testing.T) {
	got, err := ExifTimeDate.Coerce("D:20160111124132+00'00'")
	if err != nil {
		t.Fatalf("pdf date: %v", err)
	}
	ts := got.(time.Time)
	if ts.Year() != 2016 || ts.Month() != 1 || ts.Day() != 11 || ts.Hour() != 12 || ts.Minute() != 41 || ts.Second() != 32 {
		t.Fatalf("unexpected time %v", ts)
	}
	got, err = ExifTimeDate.Coerce("2016:01:11 12:41:32-05:00")
	if err != nil {
		t.Fatalf("exiftool date: %v", err)
	}
	if _, offset := got.(time.Time).Zone(); offset != -5*3600 {
		t.Fatalf("offset = %d", offset)
	}
	if got.(time.Time).Hour() != 12 {
		t.Fatal("clock time must be kept in the source zone")
	}
	for _, placeholder := range []string{"0000:00:00 00:00:00", "0000:00:00", ""} {
		if _, err := ExifTimeDate.Coerce(placeholder); err == nil {
			t.Fatalf("placeholder %q must be rejected", placeholder)
		}
	}
}

func TestDateTruncatesTime(t *testing.T) {
	got, err := Date.Coerce(time.Date(2020, 2, 29, 13, 14, 15, 0, time.UTC))
	if err != nil {
		t.Fatalf("Date.Coerce: %v", err)
	}
	if got.(time.Time).Hour() != 0 {
		t.Fatal("expected midnight")
	}
	out, err := Date.Format("20200229")
	if err != nil || out != "2020-02-29" {
		t.Fatalf("Date.Format = %q, %v", out, err)
	}
	if _, err := Date.Coerce("2021-02-30"); err == nil {
		t.Fatal("invalid calendar date must fail")
	}
}

func TestByName(t *testing.T) {
	for _, name := range []string{"path", "pathcomponent", "boolean", "integer", "float", "string", "mimetype", "date", "timedate", "exiftooltimedate"} {
		c, ok := ByName(name)
		if !ok || c.Name() != name {
			t.Fatalf("ByName(%q) = %v, %v", name, c, ok)
		}
	}
	if _, ok := ByName("nope"); ok {
		t.Fatal("unexpected coercer")
	}
}

func TestAcceptsAll(t *testing.T) {
	if !AcceptsAll(String, []any{"a", "b"}) {
		t.Fatal("expected acceptance")
	}
	if AcceptsAll(Integer, []any{"1", "x"}) {
		t.Fatal("expected rejection")
	}
	if Accepts(nil, "x") {
		t.Fatal("nil coercer accepts nothing")
	}
}
