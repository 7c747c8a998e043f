package mimemap

import (
	"fmt"
	"os"
	"strings"

	"github.com/gabriel-vasile/mimetype"
)

// EmptyFile is reported for zero-length files.
const EmptyFile = "inode/x-empty"

// Detect sniffs the MIME type of the file at path from its leading bytes.
// Parameters such as charset are dropped. Content that cannot be classified
// yields Unknown with a nil error.
func Detect(path string) (string, error) {
	info, err := os.Stat(path)
	if err != nil {
		return Unknown, fmt.Errorf("stat %s: %w", path, err)
	}
	if info.IsDir() {
		return "inode/directory", nil
	}
	if info.Size() == 0 {
		return EmptyFile, nil
	}
	detected, err := mimetype.DetectFile(path)
	if err != nil {
		return Unknown, fmt.Errorf("detect mime type of %s: %w", path, err)
	}
	mime := strings.ToLower(detected.String())
	if base, _, found := strings.Cut(mime, ";"); found {
		mime = strings.TrimSpace(base)
	}
	if !IsValid(mime) {
		return Unknown, nil
	}
	return mime, nil
}
