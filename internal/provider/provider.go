package provider

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sort"
	"sync"

	"autonameow/internal/fields"
	"autonameow/internal/fileobject"
	"autonameow/internal/logging"
	"autonameow/internal/meowuri"
	"autonameow/internal/producer"
	"autonameow/internal/repository"
	"autonameow/internal/services"
)

// ResultCache persists the raw output of cacheable producers between runs.
type ResultCache interface {
	LoadResults(ctx context.Context, producer string, file *fileobject.FileObject) (map[string]any, bool, error)
	StoreResults(ctx context.Context, producer string, file *fileobject.FileObject, results map[string]any) error
}

// Option configures a Provider.
type Option func(*Provider)

// WithLogger sets the provider logger.
func WithLogger(logger *slog.Logger) Option {
	return func(p *Provider) {
		if logger != nil {
			p.logger = logger
		}
	}
}

// WithCache enables persistence of cacheable producer output.
func WithCache(cache ResultCache) Option {
	return func(p *Provider) {
		p.cache = cache
	}
}

type fileState struct {
	dispatched map[string]struct{}
	unhealthy  map[string]error
}

// Provider answers data requests from the repository, running producers on
// demand when the repository has nothing for a URI yet.
type Provider struct {
	repo       *repository.Repository
	producers  []producer.Producer
	registered []producer.Producer
	logger     *slog.Logger
	cache      ResultCache

	mu    sync.Mutex
	state map[string]*fileState
}

// New builds a provider over repo. Producers whose dependencies are missing
// are left out.
func New(repo *repository.Repository, producers []producer.Producer, opts ...Option) *Provider {
	p := &Provider{
		repo:   repo,
		logger: logging.NewNop(),
		state:  make(map[string]*fileState),
	}
	for _, opt := range opts {
		opt(p)
	}
	p.logger = logging.NewComponentLogger(p.logger, "provider")
	for _, prod := range producers {
		if prod == nil {
			continue
		}
		p.registered = append(p.registered, prod)
		if !prod.CheckDependencies() {
			logging.WarnWithContext(p.logger, "producer dependencies missing; producer disabled", "producer_unavailable",
				logging.String("producer", prod.Name()),
				logging.String(logging.FieldErrorHint, "run autonameow doctor to list missing tools"),
				logging.String(logging.FieldImpact, "data from this producer is unavailable to rules"),
			)
			continue
		}
		p.producers = append(p.producers, prod)
	}
	return p
}

// Repository returns the backing repository.
func (p *Provider) Repository() *repository.Repository {
	return p.repo
}

// Producers returns the enabled producers in registration order.
func (p *Provider) Producers() []producer.Producer {
	return append([]producer.Producer(nil), p.producers...)
}

// KnownSource reports whether some registered producer can store data at
// uri, either directly, as a generic field, or as a leaf alias. Producers
// disabled for missing dependencies still count.
func (p *Provider) KnownSource(uri meowuri.URI) bool {
	if uri.IsZero() {
		return false
	}
	if uri.IsGeneric() {
		_, ok := fields.GenericByURI(uri)
		return ok
	}
	for _, prod := range p.registered {
		if !uri.MatchesStart(prod.URIPrefix()) || len(uri.Parts()) != len(prod.URIPrefix().Parts())+1 {
			continue
		}
		if _, ok := producer.SpecFor(prod, uri.Leaf()); ok {
			return true
		}
		for _, spec := range prod.MetaInfo() {
			if !spec.Generic.IsZero() && spec.Generic.Leaf() == uri.Leaf() {
				return true
			}
		}
	}
	return false
}

// RequestOne returns the bundle stored at uri. For generic URIs and leaf
// aliases the first bundle in URI order is returned.
func (p *Provider) RequestOne(ctx context.Context, file *fileobject.FileObject, uri meowuri.URI) (repository.DataBundle, bool) {
	resp := p.request(ctx, file, uri)
	if resp.IsList() {
		bundles := resp.Bundles()
		if len(bundles) == 0 {
			return repository.DataBundle{}, false
		}
		return bundles[0], true
	}
	return resp.Bundle()
}

// RequestAll returns every bundle answering uri.
func (p *Provider) RequestAll(ctx context.Context, file *fileobject.FileObject, uri meowuri.URI) []repository.DataBundle {
	return p.request(ctx, file, uri).Bundles()
}

// RequestValue is RequestOne reduced to the stored value, in the shape rule
// conditions evaluate against.
func (p *Provider) RequestValue(ctx context.Context, file *fileobject.FileObject, uri meowuri.URI) (any, bool) {
	bundle, ok := p.RequestOne(ctx, file, uri)
	if !ok {
		return nil, false
	}
	return bundle.Value, true
}

// QueryMapped returns the bundles already known for file that map to field,
// strongest first.
func (p *Provider) QueryMapped(file *fileobject.FileObject, field fields.Field) []repository.Mapped {
	return p.repo.QueryMapped(file, field)
}

func (p *Provider) request(ctx context.Context, file *fileobject.FileObject, uri meowuri.URI) repository.Response {
	if file == nil || uri.IsZero() {
		return repository.Failure()
	}
	if resp := p.repo.Query(file, uri); resp.OK() && !resp.Empty() {
		return resp
	}
	p.delegate(ctx, file, uri)
	return p.repo.Query(file, uri)
}

// DelegateAll runs every producer that has not yet seen file.
func (p *Provider) DelegateAll(ctx context.Context, file *fileobject.FileObject) {
	for _, prod := range p.producers {
		if ctx.Err() != nil {
			return
		}
		p.run(ctx, file, prod)
	}
}

func (p *Provider) delegate(ctx context.Context, file *fileobject.FileObject, uri meowuri.URI) {
	for _, prod := range p.candidates(uri) {
		if ctx.Err() != nil {
			return
		}
		p.run(ctx, file, prod)
	}
}

func (p *Provider) candidates(uri meowuri.URI) []producer.Producer {
	var out []producer.Producer
	if uri.IsGeneric() {
		for _, prod := range p.producers {
			if declaresGeneric(prod, uri) {
				out = append(out, prod)
			}
		}
		return out
	}
	for _, prod := range p.producers {
		if uri.MatchesStart(prod.URIPrefix()) {
			out = append(out, prod)
		}
	}
	return out
}

func declaresGeneric(prod producer.Producer, uri meowuri.URI) bool {
	for _, spec := range prod.MetaInfo() {
		if !spec.Generic.IsZero() && spec.Generic.URI() == uri {
			return true
		}
	}
	return false
}

// claim marks prod as dispatched for file. It reports false when prod already
// ran or is running.
func (p *Provider) claim(file *fileobject.FileObject, prod producer.Producer) bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	st := p.state[file.HashPartial]
	if st == nil {
		st = &fileState{dispatched: make(map[string]struct{}), unhealthy: make(map[string]error)}
		p.state[file.HashPartial] = st
	}
	if _, done := st.dispatched[prod.Name()]; done {
		return false
	}
	st.dispatched[prod.Name()] = struct{}{}
	return true
}

func (p *Provider) markUnhealthy(file *fileobject.FileObject, prod producer.Producer, err error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if st := p.state[file.HashPartial]; st != nil {
		st.unhealthy[prod.Name()] = err
	}
}

// Unhealthy returns the producers that failed for file, keyed by name.
func (p *Provider) Unhealthy(file *fileobject.FileObject) map[string]error {
	p.mu.Lock()
	defer p.mu.Unlock()
	st := p.state[file.HashPartial]
	if st == nil || len(st.unhealthy) == 0 {
		return nil
	}
	out := make(map[string]error, len(st.unhealthy))
	for k, v := range st.unhealthy {
		out[k] = v
	}
	return out
}

func (p *Provider) run(ctx context.Context, file *fileobject.FileObject, prod producer.Producer) {
	if !p.claim(file, prod) {
		return
	}
	logger := logging.WithContext(ctx, p.logger).With(logging.String("producer", prod.Name()))
	if !prod.CanHandle(file) {
		logger.Debug("producer cannot handle file", logging.String("mime_type", file.MIMEType))
		return
	}

	cacheable := p.cache != nil && producer.IsCacheable(prod)
	if cacheable {
		results, ok, err := p.cache.LoadResults(ctx, prod.Name(), file)
		if err != nil {
			logging.WarnWithContext(logger, "cached results unreadable; running producer", "cache_read_failed",
				logging.Error(err),
				logging.String(logging.FieldErrorHint, "clear the persistence directory if this repeats"),
				logging.String(logging.FieldImpact, "producer runs again for this file"),
			)
		} else if ok {
			logger.Debug("using cached producer results", logging.Int("leaves", len(results)))
			p.storeResults(ctx, file, prod, results)
			return
		}
	}

	results, err := prod.Produce(ctx, file, p.requester(file))
	p.storeResults(ctx, file, prod, results)
	if err != nil {
		if ctx.Err() != nil {
			return
		}
		p.markUnhealthy(file, prod, err)
		eventType := "producer_failed"
		if errors.Is(err, producer.ErrTimeout) {
			eventType = "producer_timeout"
		}
		logging.WarnWithContext(logger, "producer failed; its data is unavailable for this file", eventType,
			logging.Error(services.Wrap(services.ErrExternalTool, prod.Name(), "produce", "", err)),
			logging.String(logging.FieldErrorHint, "run autonameow doctor to check external tools"),
			logging.String(logging.FieldImpact, "rules depending on this producer may not match"),
		)
		return
	}
	if cacheable && len(results) > 0 {
		if err := p.cache.StoreResults(ctx, prod.Name(), file, results); err != nil {
			logging.WarnWithContext(logger, "producer results not cached", "cache_write_failed",
				logging.Error(err),
				logging.String(logging.FieldErrorHint, "check paths.persistence_dir permissions"),
				logging.String(logging.FieldImpact, "producer runs again on the next invocation"),
			)
		}
	}
}

func (p *Provider) requester(file *fileobject.FileObject) producer.Requester {
	return func(ctx context.Context, uri meowuri.URI) (any, bool) {
		return p.RequestValue(ctx, file, uri)
	}
}

func (p *Provider) storeResults(ctx context.Context, file *fileobject.FileObject, prod producer.Producer, results map[string]any) {
	if len(results) == 0 {
		return
	}
	logger := logging.WithContext(ctx, p.logger).With(logging.String("producer", prod.Name()))
	leaves := make([]string, 0, len(results))
	for leaf := range results {
		leaves = append(leaves, leaf)
	}
	sort.Strings(leaves)

	stored := 0
	for _, leaf := range leaves {
		uri, err := meowuri.New(prod.URIPrefix(), leaf)
		if err != nil {
			logger.Debug("skipping leaf with invalid name", logging.String("leaf", leaf))
			continue
		}
		spec, ok := producer.SpecFor(prod, leaf)
		if !ok {
			logger.Debug("skipping leaf without metainfo", logging.String(logging.FieldMeowURI, uri.String()))
			continue
		}
		bundle, err := spec.Bundle(prod.Name(), results[leaf])
		if err != nil {
			logger.Debug("skipping value rejected by coercer",
				logging.String(logging.FieldMeowURI, uri.String()),
				logging.Error(err),
			)
			continue
		}
		if err := p.repo.Store(file, uri, bundle); err != nil {
			if !errors.Is(err, repository.ErrEmptyBundle) {
				logger.Debug("bundle not stored", logging.String(logging.FieldMeowURI, uri.String()), logging.Error(err))
			}
			continue
		}
		stored++
	}
	logger.Debug("producer results stored", logging.Int("stored", stored), logging.Int("leaves", len(leaves)))
}

// Release drops everything gathered for file.
func (p *Provider) Release(file *fileobject.FileObject) {
	if file == nil {
		return
	}
	p.repo.Remove(file)
	p.mu.Lock()
	delete(p.state, file.HashPartial)
	p.mu.Unlock()
}

// Close shuts down producers that hold external resources.
func (p *Provider) Close() error {
	var errs []error
	for _, prod := range p.producers {
		if closer, ok := prod.(io.Closer); ok {
			if err := closer.Close(); err != nil {
				errs = append(errs, err)
			}
		}
	}
	return errors.Join(errs...)
}
