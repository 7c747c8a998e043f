package filename

import (
	"context"
	"regexp"
	"sort"
	"time"

	"autonameow/internal/coercers"
	"autonameow/internal/extractors/filesystem"
	"autonameow/internal/fields"
	"autonameow/internal/fileobject"
	"autonameow/internal/meowuri"
	"autonameow/internal/mimemap"
	"autonameow/internal/producer"
)

// Prefix is the MeowURI prefix of the filename analyzer.
var Prefix = meowuri.MustNew("analyzer.filename")

var (
	uriPrefix   = meowuri.MustNew(filesystem.Prefix, "basename_prefix")
	uriSuffix   = meowuri.MustNew(filesystem.Prefix, "basename_suffix")
	uriMIMEType = meowuri.MustNew(filesystem.Prefix, "mime_type")
)

var meta = map[string]producer.FieldSpec{
	"datetime": producer.Spec(coercers.TimeDate, fields.Generic{},
		fields.Mapping(fields.DateTime, 1), fields.Mapping(fields.Date, 1)),
	"date": producer.Spec(coercers.Date, fields.Generic{},
		fields.Mapping(fields.Date, 0.25), fields.Mapping(fields.DateTime, 0.25)),
	"edition":   producer.Spec(coercers.Integer, fields.Generic{}, fields.Mapping(fields.Edition, 1)),
	"extension": producer.Spec(coercers.PathComponent, fields.Generic{}, fields.Mapping(fields.Extension, 1)),
	"publisher": producer.Spec(coercers.String, fields.GenericPublisher, fields.Mapping(fields.Publisher, 1)),
}

// Options configures the analyzer.
type Options struct {
	// Mapper resolves MIME types to extensions. Defaults to mimemap.Builtin.
	Mapper *mimemap.Mapper
	// PublisherCandidates maps a publisher name to regular expressions
	// searched for in the basename.
	PublisherCandidates map[string][]string
	// Now anchors the plausibility check of dates found in names.
	Now func() time.Time
}

type publisherCandidate struct {
	name     string
	patterns []*regexp.Regexp
}

// Analyzer derives fields from a file's current name.
type Analyzer struct {
	mapper     *mimemap.Mapper
	publishers []publisherCandidate
	now        func() time.Time
}

// New compiles the publisher candidates. Patterns that fail to compile are
// returned as an error.
func New(opts Options) (*Analyzer, error) {
	a := &Analyzer{mapper: opts.Mapper, now: opts.Now}
	if a.mapper == nil {
		a.mapper = mimemap.Builtin()
	}
	if a.now == nil {
		a.now = time.Now
	}
	names := make([]string, 0, len(opts.PublisherCandidates))
	for name := range opts.PublisherCandidates {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		candidate := publisherCandidate{name: name}
		for _, pattern := range opts.PublisherCandidates[name] {
			re, err := regexp.Compile(pattern)
			if err != nil {
				return nil, err
			}
			candidate.patterns = append(candidate.patterns, re)
		}
		a.publishers = append(a.publishers, candidate)
	}
	return a, nil
}

func (*Analyzer) Name() string { return "filename" }

func (*Analyzer) URIPrefix() meowuri.URI { return Prefix }

func (*Analyzer) CanHandle(*fileobject.FileObject) bool { return true }

func (*Analyzer) CheckDependencies() bool { return true }

func (*Analyzer) MetaInfo() map[string]producer.FieldSpec { return meta }

func (a *Analyzer) Produce(ctx context.Context, file *fileobject.FileObject, request producer.Requester) (map[string]any, error) {
	out := make(map[string]any)
	prefix := requestString(ctx, request, uriPrefix, file.BasenamePrefix)
	suffix := requestString(ctx, request, uriSuffix, file.BasenameSuffix)
	mime := requestString(ctx, request, uriMIMEType, file.MIMEType)

	if t, ok := a.datetimeFromName(prefix); ok {
		out["datetime"] = t
	} else if t, ok := a.dateFromName(prefix); ok {
		out["date"] = t
	}
	if edition, ok := FindEdition(prefix); ok {
		out["edition"] = edition
	}
	if suffix != "" || mime != "" {
		if ext := LikelyExtension(a.mapper, suffix, mime); ext != "" {
			out["extension"] = ext
		}
	}
	if publisher, ok := a.findPublisher(prefix); ok {
		out["publisher"] = publisher
	}
	return out, nil
}

func requestString(ctx context.Context, request producer.Requester, uri meowuri.URI, fallback string) string {
	if request == nil {
		return fallback
	}
	v, ok := request(ctx, uri)
	if !ok {
		return fallback
	}
	if s, ok := v.(string); ok {
		return s
	}
	return fallback
}

func (a *Analyzer) findPublisher(text string) (string, bool) {
	for _, candidate := range a.publishers {
		for _, re := range candidate.patterns {
			if re.MatchString(text) {
				return candidate.name, true
			}
		}
	}
	return "", false
}
