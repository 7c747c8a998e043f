package filetags

import (
	"context"
	"regexp"
	"sort"
	"strings"

	"autonameow/internal/coercers"
	"autonameow/internal/fields"
	"autonameow/internal/fileobject"
	"autonameow/internal/meowuri"
	"autonameow/internal/producer"
)

// Prefix is the MeowURI prefix of the filetags extractor.
var Prefix = meowuri.MustNew("extractor.filesystem.filetags")

// Default separators of the filetags convention.
const (
	DefaultFilenameTagSeparator = " -- "
	DefaultBetweenTagSeparator  = " "
)

var timestampRE = regexp.MustCompile(
	`^[12]\d{3}[:\-._ ]?[01]\d[:\-._ ]?[0123]\d` +
		`([T_ -]?[012]\d[:\-._ T]?[0-5]\d[:\-._ T]?[0-5]\d(.[0-5]\d)?)?`)

var meta = map[string]producer.FieldSpec{
	"datetime": producer.Spec(coercers.TimeDate, fields.GenericDateCreated,
		fields.Mapping(fields.DateTime, 1), fields.Mapping(fields.Date, 1)),
	"description": producer.Spec(coercers.String, fields.GenericDescription,
		fields.Mapping(fields.Description, 1), fields.Mapping(fields.Title, 0.5)),
	"tags":      producer.ListSpec(coercers.String, fields.GenericTags, fields.Mapping(fields.Tags, 1)),
	"extension": producer.Spec(coercers.PathComponent, fields.Generic{}, fields.Mapping(fields.Extension, 1)),
	"follows_filetags_convention": producer.Spec(coercers.Boolean, fields.Generic{}),
}

// Parts is a basename split according to the filetags convention:
//
//	20160722 Descriptive name -- firsttag tagtwo.txt
//	|______| |______________|    |_____________| |_|
//	datetime   description            tags       extension
type Parts struct {
	Datetime    string
	Description string
	Tags        []string
	Extension   string
}

// FollowsConvention reports whether datetime, description and tags are
// all present.
func (p Parts) FollowsConvention() bool {
	return p.Datetime != "" && p.Description != "" && len(p.Tags) > 0
}

// Options configures separators and basename splitting.
type Options struct {
	FilenameTagSeparator string
	BetweenTagSeparator  string
	CompoundSuffixes     []string
}

// Extractor parses filetags-style basenames.
type Extractor struct {
	opts Options
}

// New returns an extractor. Unset options fall back to the defaults.
func New(opts Options) *Extractor {
	if opts.FilenameTagSeparator == "" {
		opts.FilenameTagSeparator = DefaultFilenameTagSeparator
	}
	if opts.BetweenTagSeparator == "" {
		opts.BetweenTagSeparator = DefaultBetweenTagSeparator
	}
	if opts.CompoundSuffixes == nil {
		opts.CompoundSuffixes = fileobject.DefaultCompoundSuffixes
	}
	return &Extractor{opts: opts}
}

func (*Extractor) Name() string { return "filesystem.filetags" }

func (*Extractor) URIPrefix() meowuri.URI { return Prefix }

func (*Extractor) CheckDependencies() bool { return true }

func (*Extractor) MetaInfo() map[string]producer.FieldSpec { return meta }

// CanHandle accepts any file with a non-blank name.
func (*Extractor) CanHandle(file *fileobject.FileObject) bool {
	return file != nil && strings.TrimSpace(file.Filename) != ""
}

func (e *Extractor) Produce(_ context.Context, file *fileobject.FileObject, _ producer.Requester) (map[string]any, error) {
	parts := e.Partition(file.Filename)
	out := map[string]any{
		"follows_filetags_convention": parts.FollowsConvention(),
	}
	if parts.Datetime != "" {
		out["datetime"] = parts.Datetime
	}
	if parts.Description != "" {
		out["description"] = parts.Description
	}
	if len(parts.Tags) > 0 {
		out["tags"] = parts.Tags
	}
	if parts.Extension != "" {
		out["extension"] = parts.Extension
	}
	return out, nil
}

// Partition splits filename into its filetags parts. Tags are sorted.
func (e *Extractor) Partition(filename string) Parts {
	prefix, suffix := fileobject.SplitBasename(filename, e.opts.CompoundSuffixes)
	var parts Parts
	parts.Extension = suffix

	if ts := timestampRE.FindString(prefix); ts != "" {
		parts.Datetime = ts
		prefix = strings.TrimPrefix(prefix, ts)
	}

	description, tagText, found := strings.Cut(prefix, e.opts.FilenameTagSeparator)
	parts.Description = strings.TrimSpace(description)
	if found {
		for _, tag := range strings.Split(tagText, e.opts.BetweenTagSeparator) {
			if tag = strings.TrimSpace(tag); tag != "" {
				parts.Tags = append(parts.Tags, tag)
			}
		}
		sort.Strings(parts.Tags)
	}
	return parts
}
