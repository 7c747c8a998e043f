package fileobject

import (
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"autonameow/internal/mimemap"
)

// PartialHashSize is how many leading bytes feed HashPartial.
const PartialHashSize = 8 << 20

// ErrNotRegular is returned for paths that are not regular files.
var ErrNotRegular = errors.New("not a regular file")

// DefaultCompoundSuffixes lists suffixes kept whole when splitting basenames.
var DefaultCompoundSuffixes = []string{
	"tar.gz", "tar.bz2", "tar.xz", "tar.lz", "tar.lzma", "tar.lzo", "tar.z", "tar.zst",
}

// Options controls how paths become FileObjects.
type Options struct {
	CompoundSuffixes []string
}

// FileObject is an immutable description of a file on disk. Two values
// describe the same file when their HashPartial matches.
type FileObject struct {
	AbsPath        string
	Pathname       string
	PathParent     string
	Filename       string
	BasenamePrefix string
	BasenameSuffix string
	MIMEType       string
	Bytesize       int64
	ModTime        time.Time
	Mode           os.FileMode
	HashPartial    string
}

// New stats, sniffs and hashes the file at path.
func New(path string, opts Options) (*FileObject, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("resolve %s: %w", path, err)
	}
	info, err := os.Stat(abs)
	if err != nil {
		return nil, err
	}
	if !info.Mode().IsRegular() {
		return nil, fmt.Errorf("%w: %s", ErrNotRegular, abs)
	}

	mime, err := mimemap.Detect(abs)
	if err != nil {
		mime = mimemap.Unknown
	}
	hash, err := hashPartial(abs)
	if err != nil {
		return nil, fmt.Errorf("hash %s: %w", abs, err)
	}

	suffixes := opts.CompoundSuffixes
	if suffixes == nil {
		suffixes = DefaultCompoundSuffixes
	}
	filename := filepath.Base(abs)
	prefix, suffix := SplitBasename(filename, suffixes)
	dir := filepath.Dir(abs)

	return &FileObject{
		AbsPath:        abs,
		Pathname:       dir,
		PathParent:     filepath.Base(dir),
		Filename:       filename,
		BasenamePrefix: prefix,
		BasenameSuffix: suffix,
		MIMEType:       mime,
		Bytesize:       info.Size(),
		ModTime:        info.ModTime(),
		Mode:           info.Mode(),
		HashPartial:    hash,
	}, nil
}

// Equal reports whether f and other describe the same content.
func (f *FileObject) Equal(other *FileObject) bool {
	if f == nil || other == nil {
		return f == other
	}
	return f.HashPartial == other.HashPartial
}

func (f *FileObject) String() string {
	if f == nil {
		return "<nil>"
	}
	return f.AbsPath
}

// SplitBasename splits filename into prefix and lowercased suffix. A
// basename ending in one of compound (for example "tar.gz") keeps the whole
// compound as suffix. Leading dots do not start a suffix.
func SplitBasename(filename string, compound []string) (prefix, suffix string) {
	lower := strings.ToLower(filename)
	for _, c := range compound {
		c = strings.ToLower(strings.Trim(strings.TrimSpace(c), "."))
		if c == "" {
			continue
		}
		if strings.HasSuffix(lower, "."+c) && len(filename) > len(c)+1 {
			return filename[:len(filename)-len(c)-1], c
		}
	}
	trimmed := strings.TrimLeft(filename, ".")
	leading := len(filename) - len(trimmed)
	i := strings.LastIndex(trimmed, ".")
	if i <= 0 || i == len(trimmed)-1 {
		return filename, ""
	}
	return filename[:leading+i], strings.ToLower(trimmed[i+1:])
}

func hashPartial(path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", err
	}
	defer f.Close()
	h := sha256.New()
	if _, err := io.Copy(h, io.LimitReader(f, PartialHashSize)); err != nil {
		return "", err
	}
	return hex.EncodeToString(h.Sum(nil)), nil
}
