package textutil

import "testing"

func TestSanitizeFileName(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"  a/b\\c:d*e  ", "a-b-c-d-e"},
		{"what?\"<>|", "what"},
		{"it's here", "its here"},
		{"", ""},
	}
	for _, tt := range tests {
		if got := SanitizeFileName(tt.in); got != tt.want {
			t.Errorf("SanitizeFileName(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestSanitizeFileNameStrict(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"2016-01-11T124132 gmail.pdf", "2016-01-11t124132-gmail.pdf"},
		{"Café Crème.TXT", "cafe-creme.txt"},
		{"README", "readme"},
		{"???", ""},
	}
	for _, tt := range tests {
		if got := SanitizeFileNameStrict(tt.in); got != tt.want {
			t.Errorf("SanitizeFileNameStrict(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestSimplifyAndCase(t *testing.T) {
	if got := SimplifyUnicode("Sjöberg Åkesson naïve"); got != "Sjoberg Akesson naive" {
		t.Fatalf("SimplifyUnicode = %q", got)
	}
	if got := Lower("ÅÄÖ Title"); got != "åäö title" {
		t.Fatalf("Lower = %q", got)
	}
	if got := Upper("gmail"); got != "GMAIL" {
		t.Fatalf("Upper = %q", got)
	}
	if got := CollapseWhitespace("  a \t b\n\nc  "); got != "a b c" {
		t.Fatalf("CollapseWhitespace = %q", got)
	}
}

func TestFormatNameLastnameInitials(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"Gibson Catherine Sjöberg", "Sjöberg G.C."},
		{"Sjöberg, Gibson", "Sjöberg G."},
		{"Plato", "Plato"},
		{"  ", ""},
	}
	for _, tt := range tests {
		if got := FormatNameLastnameInitials(tt.in); got != tt.want {
			t.Errorf("FormatNameLastnameInitials(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestNormalizeText(t *testing.T) {
	tests := []struct {
		name, in, want string
	}{
		{"nbsp and tabs", "Meow\u00a0cat\t\tsays  hi", "Meow cat says hi"},
		{"zero width", "in\u200bvisible\ufeff", "invisible"},
		{"crlf", "one\r\ntwo\rthree", "one\ntwo\nthree"},
		{"blank lines", "\n\npara one\n \n\n\n\npara two\n\n", "para one\n\npara two"},
		{"control", "bell\x07 and\x00 nul", "bell and nul"},
		{"compose", "Sjo\u0308berg", "Sj\u00f6berg"},
		{"empty", "  \n\t\n", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := NormalizeText(tt.in); got != tt.want {
				t.Fatalf("NormalizeText(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}
