package orchestrator

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/gobwas/glob"
)

// IgnoreMatcher tests paths against shell-style globs where "*" also
// matches path separators. Character classes ("[0-9]", "[!a]") and
// alternatives ("{a,b}") are supported.
type IgnoreMatcher struct {
	patterns []glob.Glob
}

// NewIgnoreMatcher compiles globs. Blank globs are skipped.
func NewIgnoreMatcher(globs []string) (*IgnoreMatcher, error) {
	m := &IgnoreMatcher{}
	for _, pattern := range globs {
		pattern = strings.TrimSpace(pattern)
		if pattern == "" {
			continue
		}
		g, err := glob.Compile(pattern)
		if err != nil {
			return nil, fmt.Errorf("ignore glob %q: %w", pattern, err)
		}
		m.patterns = append(m.patterns, g)
	}
	return m, nil
}

// Match reports whether path matches any glob.
func (m *IgnoreMatcher) Match(path string) bool {
	if m == nil {
		return false
	}
	for _, g := range m.patterns {
		if g.Match(path) {
			return true
		}
	}
	return false
}

func (m *IgnoreMatcher) matchDir(path string) bool {
	return m.Match(path) || m.Match(path+string(filepath.Separator))
}

// Discover expands paths into regular files. Directories contribute their
// direct entries, or their whole tree when recurse is set. Ignored paths
// are left out. Paths that cannot be read are returned as errors alongside
// whatever else was found.
func Discover(paths []string, recurse bool, ignore *IgnoreMatcher) ([]string, []error) {
	seen := make(map[string]struct{})
	var (
		files []string
		errs  []error
	)
	add := func(path string) {
		if ignore.Match(path) {
			return
		}
		if _, dup := seen[path]; dup {
			return
		}
		seen[path] = struct{}{}
		files = append(files, path)
	}

	for _, p := range paths {
		abs, err := filepath.Abs(p)
		if err != nil {
			errs = append(errs, fmt.Errorf("resolve %s: %w", p, err))
			continue
		}
		info, err := os.Stat(abs)
		if err != nil {
			errs = append(errs, err)
			continue
		}
		if info.Mode().IsRegular() {
			add(abs)
			continue
		}
		if !info.IsDir() {
			continue
		}
		if ignore.matchDir(abs) {
			continue
		}
		var found []string
		walkErr := filepath.WalkDir(abs, func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				errs = append(errs, err)
				if d != nil && d.IsDir() {
					return fs.SkipDir
				}
				return nil
			}
			if d.IsDir() {
				if path == abs {
					return nil
				}
				if !recurse || ignore.matchDir(path) {
					return fs.SkipDir
				}
				return nil
			}
			if d.Type().IsRegular() {
				found = append(found, path)
			}
			return nil
		})
		if walkErr != nil {
			errs = append(errs, walkErr)
		}
		sort.Strings(found)
		for _, f := range found {
			add(f)
		}
	}
	return files, errs
}
