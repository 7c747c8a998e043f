package mimemap

import (
	"bufio"
	_ "embed"
	"sort"
	"strings"
	"sync"
)

//go:embed mime.types
var builtinTypes string

//go:embed preferred.types
var builtinPreferred string

// Mapper is a bidirectional MIME type to extension multimap with optional
// preferred extensions per MIME type.
type Mapper struct {
	mu        sync.RWMutex
	extToMIME map[string]map[string]struct{}
	mimeToExt map[string]map[string]struct{}
	preferred map[string]string
}

// NewMapper returns an empty mapper.
func NewMapper() *Mapper {
	return &Mapper{
		extToMIME: make(map[string]map[string]struct{}),
		mimeToExt: make(map[string]map[string]struct{}),
		preferred: make(map[string]string),
	}
}

var builtin = sync.OnceValue(func() *Mapper {
	m := NewMapper()
	m.load(builtinTypes, m.AddMapping)
	m.load(builtinPreferred, m.AddPreferredExtension)
	return m
})

// Builtin returns the shared mapper loaded from the embedded tables. It must
// not be modified; use Clone for a mutable copy.
func Builtin() *Mapper {
	return builtin()
}

// Clone returns an independent copy of m.
func (m *Mapper) Clone() *Mapper {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := NewMapper()
	for ext, mimes := range m.extToMIME {
		for mime := range mimes {
			out.addLocked(mime, ext)
		}
	}
	for mime, ext := range m.preferred {
		out.preferred[mime] = ext
	}
	return out
}

func (m *Mapper) load(table string, add func(mime, ext string)) {
	scanner := bufio.NewScanner(strings.NewReader(table))
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		fields := strings.Fields(line)
		mime := fields[0]
		if len(fields) == 1 {
			add(mime, "")
			continue
		}
		for _, ext := range fields[1:] {
			add(mime, ext)
		}
	}
}

// AddMapping records that ext is a known extension for mime.
func (m *Mapper) AddMapping(mime, ext string) {
	mime = strings.ToLower(strings.TrimSpace(mime))
	ext = normalizeExt(ext)
	if mime == "" || ext == "" {
		return
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.addLocked(mime, ext)
}

func (m *Mapper) addLocked(mime, ext string) {
	if m.extToMIME[ext] == nil {
		m.extToMIME[ext] = make(map[string]struct{})
	}
	m.extToMIME[ext][mime] = struct{}{}
	if m.mimeToExt[mime] == nil {
		m.mimeToExt[mime] = make(map[string]struct{})
	}
	m.mimeToExt[mime][ext] = struct{}{}
}

// AddPreferredExtension overrides the extension returned for mime.
func (m *Mapper) AddPreferredExtension(mime, ext string) {
	mime = strings.ToLower(strings.TrimSpace(mime))
	ext = normalizeExt(ext)
	if mime == "" {
		return
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.preferred[mime] = ext
	if ext != "" {
		m.addLocked(mime, ext)
	}
}

// CandidateMIMETypes lists every MIME type mapped to ext. Types without an
// "x-" subtype prefix come first, then shorter strings.
func (m *Mapper) CandidateMIMETypes(ext string) []string {
	ext = normalizeExt(ext)
	m.mu.RLock()
	defer m.mu.RUnlock()
	set := m.extToMIME[ext]
	if len(set) == 0 {
		return nil
	}
	out := make([]string, 0, len(set))
	for mime := range set {
		out = append(out, mime)
	}
	sort.Slice(out, func(i, j int) bool {
		xi, xj := strings.Contains(out[i], "/x-"), strings.Contains(out[j], "/x-")
		if xi != xj {
			return !xi
		}
		if len(out[i]) != len(out[j]) {
			return len(out[i]) < len(out[j])
		}
		return out[i] < out[j]
	})
	return out
}

// MIMEType returns the best MIME type for ext, or Unknown.
func (m *Mapper) MIMEType(ext string) string {
	if strings.TrimSpace(ext) == "" {
		return Unknown
	}
	candidates := m.CandidateMIMETypes(ext)
	if len(candidates) == 0 {
		return Unknown
	}
	return candidates[0]
}

// CandidateExtensions lists every extension mapped to mime. Simple
// extensions come before compound ones like "tar.gz", then shorter strings.
func (m *Mapper) CandidateExtensions(mime string) []string {
	mime = strings.ToLower(strings.TrimSpace(mime))
	m.mu.RLock()
	defer m.mu.RUnlock()
	set := m.mimeToExt[mime]
	if len(set) == 0 {
		return nil
	}
	out := make([]string, 0, len(set))
	for ext := range set {
		out = append(out, ext)
	}
	sort.Slice(out, func(i, j int) bool {
		ci, cj := strings.Contains(out[i], "."), strings.Contains(out[j], ".")
		if ci != cj {
			return !ci
		}
		if len(out[i]) != len(out[j]) {
			return len(out[i]) < len(out[j])
		}
		return out[i] < out[j]
	})
	return out
}

// Extension returns the preferred or best candidate extension for mime.
// The empty string means no extension is known.
func (m *Mapper) Extension(mime string) string {
	mime = strings.ToLower(strings.TrimSpace(mime))
	m.mu.RLock()
	preferred, ok := m.preferred[mime]
	m.mu.RUnlock()
	if ok {
		return preferred
	}
	candidates := m.CandidateExtensions(mime)
	if len(candidates) == 0 {
		return ""
	}
	return candidates[0]
}

// HasMapping reports whether ext is a known extension for mime.
func (m *Mapper) HasMapping(mime, ext string) bool {
	mime = strings.ToLower(strings.TrimSpace(mime))
	ext = normalizeExt(ext)
	m.mu.RLock()
	defer m.mu.RUnlock()
	_, ok := m.extToMIME[ext][mime]
	return ok
}

func normalizeExt(ext string) string {
	return strings.ToLower(strings.TrimPrefix(strings.TrimSpace(ext), "."))
}
