package repository

import (
	"reflect"

	"autonameow/internal/coercers"
	"autonameow/internal/fields"
)

// DataBundle is a stored value together with how to interpret it.
type DataBundle struct {
	Value        any
	Coercer      coercers.Coercer
	Source       string
	Generic      fields.Generic
	MappedFields []fields.WeightedMapping
	Multivalued  bool
}

// IsEmpty reports whether the bundle carries no usable value.
func (b DataBundle) IsEmpty() bool {
	switch v := b.Value.(type) {
	case nil:
		return true
	case string:
		return v == ""
	case []byte:
		return len(v) == 0
	case []any:
		return len(v) == 0
	case []string:
		return len(v) == 0
	}
	return false
}

// Values returns the value as a list, wrapping single values.
func (b DataBundle) Values() []any {
	switch v := b.Value.(type) {
	case []any:
		return v
	case []string:
		out := make([]any, len(v))
		for i, s := range v {
			out[i] = s
		}
		return out
	case nil:
		return nil
	}
	return []any{b.Value}
}

// Weight returns the declared mapping weight for field.
func (b DataBundle) Weight(field fields.Field) (float64, bool) {
	for _, m := range b.MappedFields {
		if m.Field == field {
			return m.Weight, true
		}
	}
	return 0, false
}

// Equal compares bundles field by field.
func (b DataBundle) Equal(other DataBundle) bool {
	if b.Source != other.Source || b.Generic != other.Generic || b.Multivalued != other.Multivalued {
		return false
	}
	if coercerName(b.Coercer) != coercerName(other.Coercer) {
		return false
	}
	if len(b.MappedFields) != len(other.MappedFields) {
		return false
	}
	for i := range b.MappedFields {
		if b.MappedFields[i] != other.MappedFields[i] {
			return false
		}
	}
	return reflect.DeepEqual(b.Value, other.Value)
}

func coercerName(c coercers.Coercer) string {
	if c == nil {
		return ""
	}
	return c.Name()
}
