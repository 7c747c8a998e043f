package producer

import (
	"context"
	"errors"
	"fmt"

	"autonameow/internal/coercers"
	"autonameow/internal/fields"
	"autonameow/internal/fileobject"
	"autonameow/internal/meowuri"
	"autonameow/internal/repository"
)

// Producer failures.
var (
	ErrUnavailable = errors.New("producer unavailable")
	ErrTimeout     = errors.New("producer timed out")
)

// Requester lets a producer ask for data produced by others.
type Requester func(ctx context.Context, uri meowuri.URI) (any, bool)

// FieldSpec describes one leaf a producer emits.
type FieldSpec struct {
	Coercer      coercers.Coercer
	Multivalued  bool
	MappedFields []fields.WeightedMapping
	Generic      fields.Generic
}

// Producer is an extractor or analyzer. Produce returns raw values keyed by
// leaf; the provider coerces them according to MetaInfo and stores them
// under URIPrefix.
type Producer interface {
	Name() string
	URIPrefix() meowuri.URI
	CanHandle(file *fileobject.FileObject) bool
	Produce(ctx context.Context, file *fileobject.FileObject, request Requester) (map[string]any, error)
	MetaInfo() map[string]FieldSpec
	CheckDependencies() bool
}

// Cacheable producers have their output persisted between runs.
type Cacheable interface {
	Cacheable() bool
}

// DynamicLeaves is implemented by producers that emit leaves not listed in
// MetaInfo, such as exiftool tags.
type DynamicLeaves interface {
	DefaultSpec(leaf string) (FieldSpec, bool)
}

// SpecFor returns the spec of leaf for p.
func SpecFor(p Producer, leaf string) (FieldSpec, bool) {
	if spec, ok := p.MetaInfo()[leaf]; ok {
		return spec, true
	}
	if dyn, ok := p.(DynamicLeaves); ok {
		return dyn.DefaultSpec(leaf)
	}
	return FieldSpec{}, false
}

// IsCacheable reports whether p opts into persistence.
func IsCacheable(p Producer) bool {
	c, ok := p.(Cacheable)
	return ok && c.Cacheable()
}

// Bundle coerces raw according to spec and wraps it for storage. Lists are
// coerced element by element; elements the coercer rejects are dropped.
func (spec FieldSpec) Bundle(source string, raw any) (repository.DataBundle, error) {
	if spec.Coercer == nil {
		return repository.DataBundle{}, fmt.Errorf("%s: no coercer", source)
	}
	bundle := repository.DataBundle{
		Coercer:      spec.Coercer,
		Source:       source,
		Generic:      spec.Generic,
		MappedFields: spec.MappedFields,
		Multivalued:  spec.Multivalued,
	}
	if list, ok := asList(raw); ok {
		values := make([]any, 0, len(list))
		for _, item := range list {
			v, err := spec.Coercer.Coerce(item)
			if err != nil {
				continue
			}
			values = append(values, v)
		}
		if len(values) == 0 {
			return repository.DataBundle{}, fmt.Errorf("%s: %w: no element accepted by %s", source, coercers.ErrCoerce, spec.Coercer.Name())
		}
		if !spec.Multivalued && len(values) == 1 {
			bundle.Value = values[0]
			return bundle, nil
		}
		bundle.Value = values
		bundle.Multivalued = true
		return bundle, nil
	}
	v, err := spec.Coercer.Coerce(raw)
	if err != nil {
		return repository.DataBundle{}, fmt.Errorf("%s: %w", source, err)
	}
	if spec.Multivalued {
		bundle.Value = []any{v}
		return bundle, nil
	}
	bundle.Value = v
	return bundle, nil
}

func asList(raw any) ([]any, bool) {
	switch v := raw.(type) {
	case []any:
		return v, true
	case []string:
		out := make([]any, len(v))
		for i, s := range v {
			out[i] = s
		}
		return out, true
	}
	return nil, false
}

// Spec is shorthand for a single-valued FieldSpec.
func Spec(c coercers.Coercer, generic fields.Generic, mapped ...fields.WeightedMapping) FieldSpec {
	return FieldSpec{Coercer: c, Generic: generic, MappedFields: mapped}
}

// ListSpec is shorthand for a multivalued FieldSpec.
func ListSpec(c coercers.Coercer, generic fields.Generic, mapped ...fields.WeightedMapping) FieldSpec {
	return FieldSpec{Coercer: c, Generic: generic, MappedFields: mapped, Multivalued: true}
}
