package fields

import (
	"autonameow/internal/coercers"
	"autonameow/internal/meowuri"
)

// Generic is a cross-producer concept such as "title". Producers tag their
// leaves with one so values can be queried without knowing the source.
type Generic struct {
	category string
	leaf     string
	coercer  coercers.Coercer
}

// Generic fields.
var (
	GenericAuthor       = Generic{"metadata", "author", coercers.String}
	GenericCreator      = Generic{"metadata", "creator", coercers.String}
	GenericDescription  = Generic{"metadata", "description", coercers.String}
	GenericDateCreated  = Generic{"metadata", "date_created", coercers.TimeDate}
	GenericDateModified = Generic{"metadata", "date_modified", coercers.TimeDate}
	GenericHealth       = Generic{"contents", "health", coercers.Float}
	GenericMimeType     = Generic{"contents", "mime_type", coercers.MimeType}
	GenericProducer     = Generic{"metadata", "producer", coercers.String}
	GenericPublisher    = Generic{"metadata", "publisher", coercers.String}
	GenericSubject      = Generic{"metadata", "subject", coercers.String}
	GenericTags         = Generic{"metadata", "tags", coercers.String}
	GenericText         = Generic{"contents", "text", coercers.String}
	GenericTitle        = Generic{"metadata", "title", coercers.String}
)

var generics = []Generic{
	GenericAuthor, GenericCreator, GenericDescription, GenericDateCreated,
	GenericDateModified, GenericHealth, GenericMimeType, GenericProducer,
	GenericPublisher, GenericSubject, GenericTags, GenericText, GenericTitle,
}

// GenericByURI finds the generic field addressed by uri.
func GenericByURI(uri meowuri.URI) (Generic, bool) {
	for _, g := range generics {
		if g.URI() == uri {
			return g, true
		}
	}
	return Generic{}, false
}

// IsZero reports whether g is the absent generic field.
func (g Generic) IsZero() bool { return g.leaf == "" }

// Leaf is the last component of the generic URI.
func (g Generic) Leaf() string { return g.leaf }

// Coercer returns the coercer values of this generic field are stored with.
func (g Generic) Coercer() coercers.Coercer { return g.coercer }

// URI returns "generic.<category>.<leaf>".
func (g Generic) URI() meowuri.URI {
	if g.IsZero() {
		return meowuri.URI{}
	}
	return meowuri.MustNew(meowuri.RootGeneric, g.category, g.leaf)
}

func (g Generic) String() string { return g.URI().String() }
