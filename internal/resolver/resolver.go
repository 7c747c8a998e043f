package resolver

import (
	"context"
	"log/slog"

	"autonameow/internal/coercers"
	"autonameow/internal/fields"
	"autonameow/internal/fileobject"
	"autonameow/internal/logging"
	"autonameow/internal/meowuri"
	"autonameow/internal/repository"
)

// Provider supplies data for a file.
type Provider interface {
	RequestAll(ctx context.Context, file *fileobject.FileObject, uri meowuri.URI) []repository.DataBundle
	QueryMapped(file *fileobject.FileObject, field fields.Field) []repository.Mapped
}

// Candidate is a value offered for a field during interactive resolution.
type Candidate struct {
	URI     meowuri.URI
	Weight  float64
	Value   any
	Display string
	Source  string
}

// Option configures a Resolver.
type Option func(*Resolver)

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) Option {
	return func(r *Resolver) { r.logger = logger }
}

// WithFormats sets the formats used to display candidates.
func WithFormats(formats fields.Formats) Option {
	return func(r *Resolver) { r.formats = formats }
}

// Resolver collects field data for one file and one template.
type Resolver struct {
	file         *fileobject.FileObject
	placeholders []fields.Field
	provider     Provider
	formats      fields.Formats
	logger       *slog.Logger

	sources    map[fields.Field][]meowuri.URI
	fieldsData map[fields.Field]any
}

// New returns a resolver for the placeholders of a template.
func New(file *fileobject.FileObject, placeholders []fields.Field, provider Provider, opts ...Option) *Resolver {
	r := &Resolver{
		file:         file,
		placeholders: append([]fields.Field(nil), placeholders...),
		provider:     provider,
		formats:      fields.DefaultFormats(),
		sources:      make(map[fields.Field][]meowuri.URI),
		fieldsData:   make(map[fields.Field]any),
	}
	for _, opt := range opts {
		opt(r)
	}
	r.logger = logging.NewComponentLogger(r.logger, "resolver")
	if file != nil {
		r.logger = r.logger.With(logging.String(logging.FieldFile, file.AbsPath))
	}
	return r
}

func (r *Resolver) uses(field fields.Field) bool {
	for _, p := range r.placeholders {
		if p == field {
			return true
		}
	}
	return false
}

// AddKnownSource appends uri to the sources of field. Sources for fields the
// template does not use are ignored.
func (r *Resolver) AddKnownSource(field fields.Field, uri meowuri.URI) {
	if uri.IsZero() {
		return
	}
	if !r.uses(field) {
		r.logger.Debug("ignored source for unused field",
			logging.String("field", field.String()),
			logging.String(logging.FieldMeowURI, uri.String()),
		)
		return
	}
	r.sources[field] = append(r.sources[field], uri)
}

// AddKnownSources adds every source of a rule, keeping their order.
func (r *Resolver) AddKnownSources(sources map[fields.Field][]meowuri.URI) {
	for _, field := range fields.All() {
		for _, uri := range sources[field] {
			r.AddKnownSource(field, uri)
		}
	}
}

// MappedAllTemplateFields reports whether every placeholder has a source.
func (r *Resolver) MappedAllTemplateFields() bool {
	for _, p := range r.placeholders {
		if len(r.sources[p]) == 0 {
			return false
		}
	}
	return true
}

// Unresolved lists the placeholders without data, in template order.
func (r *Resolver) Unresolved() []fields.Field {
	var out []fields.Field
	for _, p := range r.placeholders {
		if _, ok := r.fieldsData[p]; !ok {
			out = append(out, p)
		}
	}
	return out
}

// CollectedAll reports whether every placeholder has data.
func (r *Resolver) CollectedAll() bool {
	return len(r.Unresolved()) == 0
}

// FieldsData returns a copy of the collected values.
func (r *Resolver) FieldsData() map[fields.Field]any {
	out := make(map[fields.Field]any, len(r.fieldsData))
	for f, v := range r.fieldsData {
		out[f] = v
	}
	return out
}

// Set stores value for field after coercing it, as when the user picks a
// candidate.
func (r *Resolver) Set(field fields.Field, value any) error {
	coerced, err := coerce(field, value)
	if err != nil {
		return err
	}
	r.fieldsData[field] = coerced
	return nil
}

// Collect queries the sources of every unresolved placeholder in order and
// keeps the first value the field accepts.
func (r *Resolver) Collect(ctx context.Context) {
	for _, field := range r.placeholders {
		if _, done := r.fieldsData[field]; done {
			continue
		}
		for _, uri := range r.sources[field] {
			if ctx.Err() != nil {
				return
			}
			value, ok := r.fromSource(ctx, field, uri)
			if !ok {
				continue
			}
			r.fieldsData[field] = value
			r.logger.Debug("resolved field",
				logging.String("field", field.String()),
				logging.String(logging.FieldMeowURI, uri.String()),
			)
			break
		}
	}
}

func (r *Resolver) fromSource(ctx context.Context, field fields.Field, uri meowuri.URI) (any, bool) {
	bundles := r.provider.RequestAll(ctx, r.file, uri)
	switch len(bundles) {
	case 0:
		return nil, false
	case 1:
	default:
		r.logger.Debug("skipped ambiguous source",
			logging.String("field", field.String()),
			logging.String(logging.FieldMeowURI, uri.String()),
			logging.Int("bundles", len(bundles)),
		)
		return nil, false
	}

	value, err := coerce(field, bundles[0].Value)
	if err != nil {
		r.logger.Debug("source rejected by field",
			logging.String("field", field.String()),
			logging.String(logging.FieldMeowURI, uri.String()),
			logging.Error(err),
		)
		return nil, false
	}
	return value, true
}

func coerce(field fields.Field, value any) (any, error) {
	c := field.Coercer()
	if list, ok := asList(value); ok {
		if len(list) == 1 {
			return c.Coerce(list[0])
		}
		if !field.Multivalued() || len(list) == 0 {
			return nil, coercers.ErrCoerce
		}
		return coercers.CoerceList(c, list)
	}
	if value == nil {
		return nil, coercers.ErrCoerce
	}
	return c.Coerce(value)
}

func asList(value any) ([]any, bool) {
	switch l := value.(type) {
	case []any:
		return l, true
	case []string:
		out := make([]any, len(l))
		for i, s := range l {
			out[i] = s
		}
		return out, true
	}
	return nil, false
}

// LookupCandidates returns every known value mapped to field, strongest
// first, for interactive selection.
func (r *Resolver) LookupCandidates(ctx context.Context, field fields.Field) []Candidate {
	if ctx.Err() != nil {
		return nil
	}
	var out []Candidate
	for _, m := range r.provider.QueryMapped(r.file, field) {
		value, err := coerce(field, m.Bundle.Value)
		if err != nil {
			continue
		}
		display, err := field.Format(value, r.formats)
		if err != nil {
			continue
		}
		out = append(out, Candidate{
			URI:     m.URI,
			Weight:  m.Weight,
			Value:   value,
			Display: display,
			Source:  m.Bundle.Source,
		})
	}
	return out
}
