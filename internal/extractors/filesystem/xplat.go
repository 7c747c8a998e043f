package filesystem

import (
	"context"
	"fmt"
	"time"

	"golang.org/x/sys/unix"

	"autonameow/internal/coercers"
	"autonameow/internal/fields"
	"autonameow/internal/fileobject"
	"autonameow/internal/meowuri"
	"autonameow/internal/producer"
)

// Prefix is the MeowURI prefix of the cross-platform filesystem extractor.
var Prefix = meowuri.MustNew("extractor.filesystem.xplat")

var xplatMeta = map[string]producer.FieldSpec{
	"abspath_full":    producer.Spec(coercers.Path, fields.Generic{}),
	"basename_full":   producer.Spec(coercers.PathComponent, fields.Generic{}),
	"extension":       producer.Spec(coercers.PathComponent, fields.Generic{}, fields.Mapping(fields.Extension, 1)),
	"basename_suffix": producer.Spec(coercers.PathComponent, fields.Generic{}, fields.Mapping(fields.Extension, 1)),
	"basename_prefix": producer.Spec(coercers.PathComponent, fields.Generic{}),
	"pathname_full":   producer.Spec(coercers.Path, fields.Generic{}),
	"pathname_parent": producer.Spec(coercers.Path, fields.Generic{}),
	"mime_type":       producer.Spec(coercers.MimeType, fields.GenericMimeType, fields.Mapping(fields.Extension, 1)),
	"date_accessed": producer.Spec(coercers.TimeDate, fields.Generic{},
		fields.Mapping(fields.Date, 0.1), fields.Mapping(fields.DateTime, 0.1)),
	"date_created": producer.Spec(coercers.TimeDate, fields.GenericDateCreated,
		fields.Mapping(fields.Date, 1), fields.Mapping(fields.DateTime, 1)),
	"date_modified": producer.Spec(coercers.TimeDate, fields.GenericDateModified,
		fields.Mapping(fields.Date, 0.25), fields.Mapping(fields.DateTime, 0.25)),
}

// XPlat reports path components, MIME type and timestamps of any file.
type XPlat struct{}

// New returns the extractor.
func New() *XPlat { return &XPlat{} }

func (*XPlat) Name() string { return "filesystem.xplat" }

func (*XPlat) URIPrefix() meowuri.URI { return Prefix }

func (*XPlat) CanHandle(*fileobject.FileObject) bool { return true }

func (*XPlat) CheckDependencies() bool { return true }

func (*XPlat) MetaInfo() map[string]producer.FieldSpec { return xplatMeta }

func (*XPlat) Produce(_ context.Context, file *fileobject.FileObject, _ producer.Requester) (map[string]any, error) {
	out := map[string]any{
		"abspath_full":    file.AbsPath,
		"basename_full":   file.Filename,
		"extension":       file.BasenameSuffix,
		"basename_suffix": file.BasenameSuffix,
		"basename_prefix": file.BasenamePrefix,
		"pathname_full":   file.Pathname,
		"pathname_parent": file.PathParent,
		"mime_type":       file.MIMEType,
	}
	accessed, changed, modified, err := Timestamps(file.AbsPath)
	if err != nil {
		return out, fmt.Errorf("read timestamps of %s: %w", file.AbsPath, err)
	}
	out["date_accessed"] = accessed
	out["date_created"] = changed
	out["date_modified"] = modified
	return out, nil
}

// Timestamps returns access, status change and modification times with
// sub-second precision dropped.
func Timestamps(path string) (accessed, changed, modified time.Time, err error) {
	var st unix.Stat_t
	if err = unix.Stat(path, &st); err != nil {
		return
	}
	accessed = time.Unix(st.Atim.Unix()).Truncate(time.Second)
	changed = time.Unix(st.Ctim.Unix()).Truncate(time.Second)
	modified = time.Unix(st.Mtim.Unix()).Truncate(time.Second)
	return
}
