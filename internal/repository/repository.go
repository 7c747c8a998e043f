package repository

import (
	"errors"
	"fmt"
	"sort"
	"sync"

	"autonameow/internal/coercers"
	"autonameow/internal/fields"
	"autonameow/internal/fileobject"
	"autonameow/internal/meowuri"
)

// Store errors.
var (
	ErrEmptyBundle = errors.New("empty data bundle")
	ErrGenericURI  = errors.New("generic meowuri cannot be stored")
	ErrDuplicate   = errors.New("data bundle already stored")
	ErrRejected    = errors.New("value rejected by coercer")
)

type fileData struct {
	bundles map[meowuri.URI]DataBundle
	generic map[meowuri.URI]map[meowuri.URI]struct{}
	aliases map[meowuri.URI]map[meowuri.URI]struct{}
}

func newFileData() *fileData {
	return &fileData{
		bundles: make(map[meowuri.URI]DataBundle),
		generic: make(map[meowuri.URI]map[meowuri.URI]struct{}),
		aliases: make(map[meowuri.URI]map[meowuri.URI]struct{}),
	}
}

// Repository holds every data bundle gathered for the files of a run.
type Repository struct {
	mu    sync.RWMutex
	files map[string]*fileData
}

// New returns an empty repository.
func New() *Repository {
	return &Repository{files: make(map[string]*fileData)}
}

func fileKey(file *fileobject.FileObject) string {
	if file == nil {
		return ""
	}
	return file.HashPartial
}

// Store records bundle at uri for file.
func (r *Repository) Store(file *fileobject.FileObject, uri meowuri.URI, bundle DataBundle) error {
	key := fileKey(file)
	if key == "" {
		return fmt.Errorf("store %s: no file", uri)
	}
	if uri.IsZero() {
		return fmt.Errorf("store: %w", meowuri.ErrInvalidMeowURI)
	}
	if uri.IsGeneric() {
		return fmt.Errorf("store %s: %w", uri, ErrGenericURI)
	}
	if bundle.IsEmpty() {
		return fmt.Errorf("store %s: %w", uri, ErrEmptyBundle)
	}
	if err := checkCoercer(bundle); err != nil {
		return fmt.Errorf("store %s: %w", uri, err)
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	data := r.files[key]
	if data == nil {
		data = newFileData()
		r.files[key] = data
	}
	if _, exists := data.bundles[uri]; exists {
		return fmt.Errorf("store %s: %w", uri, ErrDuplicate)
	}
	data.bundles[uri] = bundle

	if !bundle.Generic.IsZero() {
		addIndex(data.generic, bundle.Generic.URI(), uri)
		if alias, err := meowuri.New(uri.StripLeaf(), bundle.Generic.Leaf()); err == nil {
			addIndex(data.aliases, alias, uri)
		}
	}
	return nil
}

func checkCoercer(bundle DataBundle) error {
	if bundle.Coercer == nil {
		return fmt.Errorf("%w: no coercer", ErrRejected)
	}
	if bundle.Multivalued {
		if !coercers.AcceptsAll(bundle.Coercer, bundle.Values()) {
			return fmt.Errorf("%w: %s", ErrRejected, bundle.Coercer.Name())
		}
		return nil
	}
	if !coercers.Accepts(bundle.Coercer, bundle.Value) {
		return fmt.Errorf("%w: %s", ErrRejected, bundle.Coercer.Name())
	}
	return nil
}

func addIndex(index map[meowuri.URI]map[meowuri.URI]struct{}, key, uri meowuri.URI) {
	if index[key] == nil {
		index[key] = make(map[meowuri.URI]struct{})
	}
	index[key][uri] = struct{}{}
}

// Query looks up uri for file. Generic URIs and leaf aliases answer with a
// list, empty for a known file without matching data; other explicit URIs
// with a single bundle. A file with no data at all, or missing explicit
// data, is a failed Response, never an error.
func (r *Repository) Query(file *fileobject.FileObject, uri meowuri.URI) Response {
	key := fileKey(file)
	if key == "" || uri.IsZero() {
		return Failure()
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	data := r.files[key]
	if data == nil {
		return Failure()
	}

	if uri.IsGeneric() {
		return listResponse(data, data.generic[uri])
	}
	if members, ok := data.aliases[uri]; ok {
		return listResponse(data, members)
	}
	bundle, ok := data.bundles[uri]
	if !ok {
		return Failure()
	}
	return Single(bundle)
}

func listResponse(data *fileData, members map[meowuri.URI]struct{}) Response {
	uris := sortedURIs(members)
	bundles := make([]DataBundle, 0, len(uris))
	for _, u := range uris {
		bundles = append(bundles, data.bundles[u])
	}
	return List(bundles)
}

func sortedURIs(set map[meowuri.URI]struct{}) []meowuri.URI {
	out := make([]meowuri.URI, 0, len(set))
	for u := range set {
		out = append(out, u)
	}
	sort.Slice(out, func(i, j int) bool { return meowuri.Less(out[i], out[j]) })
	return out
}

// Mapped is a bundle that declares a weighted mapping to a field.
type Mapped struct {
	Weight float64
	URI    meowuri.URI
	Bundle DataBundle
}

// QueryMapped returns every bundle of file mapped to field, highest weight
// first and ties in URI order.
func (r *Repository) QueryMapped(file *fileobject.FileObject, field fields.Field) []Mapped {
	r.mu.RLock()
	defer r.mu.RUnlock()
	data := r.files[fileKey(file)]
	if data == nil {
		return nil
	}
	var out []Mapped
	for uri, bundle := range data.bundles {
		if w, ok := bundle.Weight(field); ok {
			out = append(out, Mapped{Weight: w, URI: uri, Bundle: bundle})
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Weight != out[j].Weight {
			return out[i].Weight > out[j].Weight
		}
		return meowuri.Less(out[i].URI, out[j].URI)
	})
	return out
}

// Entry is one stored bundle as listed by Dump.
type Entry struct {
	URI    meowuri.URI
	Bundle DataBundle
}

// Dump lists everything stored for file in URI order.
func (r *Repository) Dump(file *fileobject.FileObject) []Entry {
	r.mu.RLock()
	defer r.mu.RUnlock()
	data := r.files[fileKey(file)]
	if data == nil {
		return nil
	}
	set := make(map[meowuri.URI]struct{}, len(data.bundles))
	for u := range data.bundles {
		set[u] = struct{}{}
	}
	uris := sortedURIs(set)
	out := make([]Entry, 0, len(uris))
	for _, u := range uris {
		out = append(out, Entry{URI: u, Bundle: data.bundles[u]})
	}
	return out
}

// Has reports whether anything is stored for file.
func (r *Repository) Has(file *fileobject.FileObject) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, ok := r.files[fileKey(file)]
	return ok
}

// Remove drops all data of file. Removing an unknown file is a no-op.
func (r *Repository) Remove(file *fileobject.FileObject) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.files, fileKey(file))
}
