package provider_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"autonameow/internal/coercers"
	"autonameow/internal/extractors/exiftool"
	"autonameow/internal/fields"
	"autonameow/internal/fileobject"
	"autonameow/internal/meowuri"
	"autonameow/internal/persistence"
	"autonameow/internal/producer"
	"autonameow/internal/provider"
	"autonameow/internal/repository"
)

type fakeProducer struct {
	name    string
	prefix  meowuri.URI
	meta    map[string]producer.FieldSpec
	output  map[string]any
	err     error
	deps    bool
	handles bool
	calls   int
	closed  bool
	produce func(ctx context.Context, file *fileobject.FileObject, request producer.Requester) (map[string]any, error)
	cache   bool
}

func newFake(name, prefix string, meta map[string]producer.FieldSpec, output map[string]any) *fakeProducer {
	return &fakeProducer{
		name:    name,
		prefix:  meowuri.MustNew(prefix),
		meta:    meta,
		output:  output,
		deps:    true,
		handles: true,
	}
}

func (f *fakeProducer) Name() string { return f.name }
func (f *fakeProducer) URIPrefix() meowuri.URI { return f.prefix }
func (f *fakeProducer) CanHandle(*fileobject.FileObject) bool { return f.handles }
func (f *fakeProducer) MetaInfo() map[string]producer.FieldSpec { return f.meta }
func (f *fakeProducer) CheckDependencies() bool { return f.deps }
func (f *fakeProducer) Cacheable() bool { return f.cache }
func (f *fakeProducer) Close() error {
	f.closed = true
	return nil
}
func (f *fakeProducer) Produce(ctx context.Context, file *fileobject.FileObject, request producer.Requester) (map[string]any, error) {
	f.calls++
	if f.produce != nil {
		return f.produce(ctx, file, request)
	}
	return f.output, f.err
}

func testFile() *fileobject.FileObject {
	return &fileobject.FileObject{AbsPath: "/tmp/x.pdf", Filename: "x.pdf", HashPartial: "abc123", MIMEType: "application/pdf"}
}

func titleMeta(weight float64) map[string]producer.FieldSpec {
	return map[string]producer.FieldSpec{
		"title": producer.Spec(coercers.String, fields.GenericTitle, fields.Mapping(fields.Title, weight)),
		"pages": producer.Spec(coercers.Integer, fields.Generic{}),
	}
}

func TestRequestOneRunsProducerOnce(t *testing.T) {
	prod := newFake("meta", "extractor.metadata.fake", titleMeta(1), map[string]any{"title": "Alpha", "pages": "12"})
	p := provider.New(repository.New(), []producer.Producer{prod})
	file := testFile()
	ctx := context.Background()

	b, ok := p.RequestOne(ctx, file, meowuri.MustNew("extractor.metadata.fake.title"))
	if !ok || b.Value != "Alpha" || b.Source != "meta" {
		t.Fatalf("RequestOne = %+v, %v", b, ok)
	}
	pages, ok := p.RequestValue(ctx, file, meowuri.MustNew("extractor.metadata.fake.pages"))
	if !ok || pages != 12 {
		t.Fatalf("pages = %#v, %v", pages, ok)
	}
	if _, ok := p.RequestOne(ctx, file, meowuri.MustNew("extractor.metadata.fake.missing")); ok {
		t.Fatal("expected failure for missing leaf")
	}
	if prod.calls != 1 {
		t.Fatalf("producer ran %d times, want 1", prod.calls)
	}
}

func TestRequestGenericDispatchesDeclaringProducers(t *testing.T) {
	a := newFake("a", "extractor.metadata.a", titleMeta(1), map[string]any{"title": "Alpha"})
	b := newFake("b", "extractor.metadata.b", titleMeta(0.5), map[string]any{"title": "Beta"})
	other := newFake("other", "extractor.other.c", map[string]producer.FieldSpec{
		"size": producer.Spec(coercers.Integer, fields.Generic{}),
	}, map[string]any{"size": 3})
	p := provider.New(repository.New(), []producer.Producer{a, b, other})
	file := testFile()

	bundles := p.RequestAll(context.Background(), file, fields.GenericTitle.URI())
	if len(bundles) != 2 {
		t.Fatalf("expected 2 bundles, got %d", len(bundles))
	}
	if other.calls != 0 {
		t.Fatal("producer without the generic field must not run")
	}
	mapped := p.Repository().QueryMapped(file, fields.Title)
	if len(mapped) != 2 || mapped[0].Bundle.Value != "Alpha" {
		t.Fatalf("unexpected mapped order: %+v", mapped)
	}
}

func TestRequestLeafAlias(t *testing.T) {
	prod := newFake("meta", "extractor.metadata.fake", map[string]producer.FieldSpec{
		"XMP:Title": producer.Spec(coercers.String, fields.GenericTitle),
	}, map[string]any{"XMP:Title": "Gamma"})
	p := provider.New(repository.New(), []producer.Producer{prod})

	b, ok := p.RequestOne(context.Background(), testFile(), meowuri.MustNew("extractor.metadata.fake.title"))
	if !ok || b.Value != "Gamma" {
		t.Fatalf("alias lookup = %+v, %v", b, ok)
	}
	if !p.KnownSource(meowuri.MustNew("extractor.metadata.fake.title")) {
		t.Fatal("alias should be a known source")
	}
}

func TestProducerFailureMarksUnhealthy(t *testing.T) {
	prod := newFake("broken", "extractor.metadata.broken", titleMeta(1), map[string]any{"pages": 3})
	prod.err = errors.New("pipe closed")
	p := provider.New(repository.New(), []producer.Producer{prod})
	file := testFile()
	ctx := context.Background()

	if _, ok := p.RequestOne(ctx, file, meowuri.MustNew("extractor.metadata.broken.title")); ok {
		t.Fatal("expected failure")
	}
	if _, ok := p.RequestOne(ctx, file, meowuri.MustNew("extractor.metadata.broken.title")); ok {
		t.Fatal("expected failure on retry")
	}
	if prod.calls != 1 {
		t.Fatalf("failing producer ran %d times, want 1", prod.calls)
	}
	if _, ok := p.Unhealthy(file)["broken"]; !ok {
		t.Fatalf("expected producer marked unhealthy, got %v", p.Unhealthy(file))
	}
	if v, ok := p.RequestValue(ctx, file, meowuri.MustNew("extractor.metadata.broken.pages")); !ok || v != 3 {
		t.Fatalf("partial output lost: %v %v", v, ok)
	}
}

func TestProducersWithoutDependenciesAreSkipped(t *testing.T) {
	prod := newFake("missing", "extractor.metadata.missing", titleMeta(1), map[string]any{"title": "x"})
	prod.deps = false
	p := provider.New(repository.New(), []producer.Producer{prod})
	if _, ok := p.RequestOne(context.Background(), testFile(), meowuri.MustNew("extractor.metadata.missing.title")); ok {
		t.Fatal("expected failure")
	}
	if prod.calls != 0 || len(p.Producers()) != 0 {
		t.Fatal("producer with missing dependencies must be disabled")
	}
	if !p.KnownSource(meowuri.MustNew("extractor.metadata.missing.title")) {
		t.Fatal("sources of disabled producers stay known")
	}
}

func TestCanHandleFalseSkipsProducer(t *testing.T) {
	prod := newFake("pdf", "extractor.metadata.pdf", titleMeta(1), map[string]any{"title": "x"})
	prod.handles = false
	p := provider.New(repository.New(), []producer.Producer{prod})
	if _, ok := p.RequestOne(context.Background(), testFile(), meowuri.MustNew("extractor.metadata.pdf.title")); ok {
		t.Fatal("expected failure")
	}
	if prod.calls != 0 {
		t.Fatal("producer must not run when it cannot handle the file")
	}
}

func TestAnalyzerRequestsExtractorData(t *testing.T) {
	ext := newFake("ext", "extractor.metadata.ext", titleMeta(1), map[string]any{"title": "report"})
	ana := newFake("ana", "analyzer.upper", map[string]producer.FieldSpec{
		"title": producer.Spec(coercers.String, fields.Generic{}),
	}, nil)
	ana.produce = func(ctx context.Context, _ *fileobject.FileObject, request producer.Requester) (map[string]any, error) {
		v, ok := request(ctx, meowuri.MustNew("extractor.metadata.ext.title"))
		if !ok {
			return nil, nil
		}
		return map[string]any{"title": v.(string) + "!"}, nil
	}
	p := provider.New(repository.New(), []producer.Producer{ext, ana})
	v, ok := p.RequestValue(context.Background(), testFile(), meowuri.MustNew("analyzer.upper.title"))
	if !ok || v != "report!" {
		t.Fatalf("analyzer value = %v, %v", v, ok)
	}
}

func TestReleaseForgetsFile(t *testing.T) {
	prod := newFake("meta", "extractor.metadata.fake", titleMeta(1), map[string]any{"title": "Alpha"})
	p := provider.New(repository.New(), []producer.Producer{prod})
	file := testFile()
	uri := meowuri.MustNew("extractor.metadata.fake.title")

	p.RequestOne(context.Background(), file, uri)
	p.Release(file)
	if p.Repository().Has(file) {
		t.Fatal("repository still holds file data")
	}
	p.RequestOne(context.Background(), file, uri)
	if prod.calls != 2 {
		t.Fatalf("expected producer to run again after release, ran %d times", prod.calls)
	}
}

type memoryCache struct {
	entries map[string]map[string]any
	stores  int
}

func (m *memoryCache) LoadResults(_ context.Context, producer string, file *fileobject.FileObject) (map[string]any, bool, error) {
	v, ok := m.entries[producer+"_"+file.HashPartial]
	return v, ok, nil
}

func (m *memoryCache) StoreResults(_ context.Context, producer string, file *fileobject.FileObject, results map[string]any) error {
	m.entries[producer+"_"+file.HashPartial] = results
	m.stores++
	return nil
}

func TestCacheableResultsPersist(t *testing.T) {
	cache := &memoryCache{entries: map[string]map[string]any{}}
	prod := newFake("exif", "extractor.metadata.exif", titleMeta(1), map[string]any{"title": "Cached"})
	prod.cache = true
	uri := meowuri.MustNew("extractor.metadata.exif.title")
	file := testFile()

	first := provider.New(repository.New(), []producer.Producer{prod}, provider.WithCache(cache))
	if _, ok := first.RequestOne(context.Background(), file, uri); !ok {
		t.Fatal("expected first request to succeed")
	}
	if cache.stores != 1 {
		t.Fatalf("expected results cached once, got %d", cache.stores)
	}

	second := provider.New(repository.New(), []producer.Producer{prod}, provider.WithCache(cache))
	b, ok := second.RequestOne(context.Background(), file, uri)
	if !ok || b.Value != "Cached" {
		t.Fatalf("cached value = %+v, %v", b, ok)
	}
	if prod.calls != 1 {
		t.Fatalf("producer ran %d times, want 1", prod.calls)
	}
}

type echoRunner struct {
	queries int
}

func (r *echoRunner) Query(_ context.Context, path string) (map[string]any, error) {
	r.queries++
	return map[string]any{
		"SourceFile":    path,
		"File:FileName": filepath.Base(path),
		"PDF:Title":     "Shared",
	}, nil
}

func (r *echoRunner) Close() error { return nil }

func TestCachedResultsFollowFileLocation(t *testing.T) {
	dir := t.TempDir()
	content := []byte("%PDF-1.4\n1 0 obj\n<< /Type /Catalog >>\nendobj\ntrailer\n<< /Root 1 0 R >>\n%%EOF\n")
	var files []*fileobject.FileObject
	for _, name := range []string{"first.pdf", "second.pdf"} {
		path := filepath.Join(dir, name)
		if err := os.WriteFile(path, content, 0o644); err != nil {
			t.Fatalf("write %s: %v", name, err)
		}
		f, err := fileobject.New(path, fileobject.Options{})
		if err != nil {
			t.Fatalf("fileobject.New: %v", err)
		}
		files = append(files, f)
	}
	if files[0].HashPartial != files[1].HashPartial {
		t.Fatal("expected identical content hashes")
	}

	store, err := persistence.Open(t.TempDir())
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	t.Cleanup(func() { _ = store.Close() })
	cache := persistence.NewResultCache(store)
	runner := &echoRunner{}
	uri := meowuri.MustNew("extractor.metadata.exiftool.File:FileName")

	for _, f := range files {
		p := provider.New(repository.New(),
			[]producer.Producer{exiftool.New(exiftool.Options{}, exiftool.WithRunner(runner))},
			provider.WithCache(cache))
		b, ok := p.RequestOne(context.Background(), f, uri)
		if !ok || b.Value != f.Filename {
			t.Fatalf("%s: File:FileName = %+v, %v", f.Filename, b, ok)
		}
	}
	if runner.queries != 2 {
		t.Fatalf("exiftool queried %d times, want 2", runner.queries)
	}

	again := provider.New(repository.New(),
		[]producer.Producer{exiftool.New(exiftool.Options{}, exiftool.WithRunner(runner))},
		provider.WithCache(cache))
	if b, ok := again.RequestOne(context.Background(), files[1], uri); !ok || b.Value != "second.pdf" {
		t.Fatalf("cached File:FileName = %+v, %v", b, ok)
	}
	if runner.queries != 2 {
		t.Fatalf("unchanged file was not served from cache, queries = %d", runner.queries)
	}
}

func TestCloseClosesProducers(t *testing.T) {
	prod := newFake("exif", "extractor.metadata.exif", titleMeta(1), nil)
	p := provider.New(repository.New(), []producer.Producer{prod})
	if err := p.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}
	if !prod.closed {
		t.Fatal("expected producer to be closed")
	}
}

func TestKnownSource(t *testing.T) {
	prod := newFake("meta", "extractor.metadata.fake", titleMeta(1), nil)
	p := provider.New(repository.New(), []producer.Producer{prod})
	tests := map[string]bool{
		"extractor.metadata.fake.title":   true,
		"extractor.metadata.fake.pages":   true,
		"extractor.metadata.fake.unknown": false,
		"extractor.metadata.other.title":  false,
		"generic.metadata.title":          true,
		"generic.metadata.nonsense":       false,
	}
	for raw, want := range tests {
		if got := p.KnownSource(meowuri.MustNew(raw)); got != want {
			t.Errorf("KnownSource(%s) = %v, want %v", raw, got, want)
		}
	}
}
