package textutil

import (
	"path/filepath"
	"strings"

	"github.com/gosimple/slug"
)

// fileNameReplacer replaces characters that are unsafe in basenames.
var fileNameReplacer = strings.NewReplacer(
	"/", "-",
	"\\", "-",
	":", "-",
	"*", "-",
	"\x00", "",
	"?", "",
	"\"", "",
	"'", "",
	"<", "",
	">", "",
	"|", "",
)

// SanitizeFileName replaces filesystem-unsafe characters in a basename.
// Slashes, backslashes, colons, and asterisks become dashes; other unsafe
// characters are removed. The result is trimmed of leading/trailing whitespace.
func SanitizeFileName(name string) string {
	name = strings.TrimSpace(name)
	if name == "" {
		return ""
	}
	return strings.TrimSpace(fileNameReplacer.Replace(name))
}

// SanitizeFileNameStrict reduces the stem of name to a lowercase ASCII slug
// and keeps a lowercased extension. Returns "" when nothing survives.
func SanitizeFileNameStrict(name string) string {
	name = SanitizeFileName(name)
	if name == "" {
		return ""
	}
	ext := strings.TrimPrefix(filepath.Ext(name), ".")
	stem := strings.TrimSuffix(name, filepath.Ext(name))
	if stem == "" {
		stem, ext = ext, ""
	}
	stem = slug.Make(stem)
	if stem == "" {
		return ""
	}
	if ext = slug.Make(ext); ext != "" {
		return stem + "." + ext
	}
	return stem
}
