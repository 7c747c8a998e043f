package exiftool

import (
	"autonameow/internal/coercers"
	"autonameow/internal/fields"
	"autonameow/internal/producer"
)

var (
	createdDate = producer.Spec(coercers.ExifTimeDate, fields.GenericDateCreated,
		fields.Mapping(fields.DateTime, 1), fields.Mapping(fields.Date, 1))
	modifiedDate = producer.Spec(coercers.ExifTimeDate, fields.GenericDateModified,
		fields.Mapping(fields.DateTime, 0.25), fields.Mapping(fields.Date, 0.25))
	plainDate = producer.Spec(coercers.ExifTimeDate, fields.Generic{})
	plain     = producer.Spec(coercers.String, fields.Generic{})
)

var tagMeta = map[string]producer.FieldSpec{
	"Composite:Aperture":           producer.Spec(coercers.Float, fields.Generic{}),
	"Composite:ImageSize":          plain,
	"Composite:HyperfocalDistance": producer.Spec(coercers.Float, fields.Generic{}),

	"EXIF:CreateDate":        createdDate,
	"EXIF:DateTimeDigitized": createdDate,
	"EXIF:DateTimeOriginal":  createdDate,
	"EXIF:ModifyDate":        modifiedDate,
	"EXIF:ExifVersion":       producer.Spec(coercers.Integer, fields.Generic{}),
	"EXIF:GainControl":       producer.Spec(coercers.Integer, fields.Generic{}),
	"EXIF:ImageDescription": producer.Spec(coercers.String, fields.GenericDescription,
		fields.Mapping(fields.Description, 0.5)),
	"EXIF:Make":        plain,
	"EXIF:Software":    producer.Spec(coercers.String, fields.GenericProducer),
	"EXIF:UserComment": producer.Spec(coercers.String, fields.GenericDescription),

	"ExifTool:Error":           plain,
	"ExifTool:ExifToolVersion": producer.Spec(coercers.Float, fields.Generic{}),

	"File:Directory":           producer.Spec(coercers.Path, fields.Generic{}),
	"File:FileInodeChangeDate": plainDate,
	"File:FileModifyDate":      plainDate,
	"File:FileName":            producer.Spec(coercers.PathComponent, fields.Generic{}),
	"File:FilePermissions":     producer.Spec(coercers.Integer, fields.Generic{}),
	"File:FileSize":            producer.Spec(coercers.Integer, fields.Generic{}),
	"File:FileType":            plain,
	"File:FileTypeExtension": producer.Spec(coercers.PathComponent, fields.Generic{},
		fields.Mapping(fields.Extension, 0.5)),
	"File:ImageHeight": producer.Spec(coercers.Integer, fields.Generic{}),
	"File:ImageWidth":  producer.Spec(coercers.Integer, fields.Generic{}),
	"File:MIMEType": producer.Spec(coercers.MimeType, fields.GenericMimeType,
		fields.Mapping(fields.Extension, 0.5)),

	"PDF:Author":     producer.Spec(coercers.String, fields.GenericAuthor, fields.Mapping(fields.Author, 1)),
	"PDF:CreateDate": createdDate,
	"PDF:Creator": producer.Spec(coercers.String, fields.GenericCreator,
		fields.Mapping(fields.Publisher, 0.1), fields.Mapping(fields.Author, 0.025)),
	"PDF:Keywords":   producer.ListSpec(coercers.String, fields.GenericTags, fields.Mapping(fields.Tags, 0.5)),
	"PDF:Linearized": producer.Spec(coercers.Boolean, fields.Generic{}),
	"PDF:ModifyDate": modifiedDate,
	"PDF:PDFVersion": producer.Spec(coercers.Float, fields.Generic{}),
	"PDF:PageCount":  producer.Spec(coercers.Integer, fields.Generic{}),
	"PDF:Producer": producer.Spec(coercers.String, fields.GenericProducer,
		fields.Mapping(fields.Publisher, 0.25), fields.Mapping(fields.Author, 0.01)),
	"PDF:Subject": producer.Spec(coercers.String, fields.GenericSubject, fields.Mapping(fields.Description, 0.25)),
	"PDF:Title":   producer.Spec(coercers.String, fields.GenericTitle, fields.Mapping(fields.Title, 1)),

	"XMP:CreateDate":  createdDate,
	"XMP:Creator":     producer.ListSpec(coercers.String, fields.GenericAuthor, fields.Mapping(fields.Author, 0.5)),
	"XMP:Description": producer.Spec(coercers.String, fields.GenericDescription, fields.Mapping(fields.Description, 0.5)),
	"XMP:ModifyDate":  modifiedDate,
	"XMP:Publisher":   producer.Spec(coercers.String, fields.GenericPublisher, fields.Mapping(fields.Publisher, 1)),
	"XMP:Subject":     producer.ListSpec(coercers.String, fields.GenericTags, fields.Mapping(fields.Tags, 0.5)),
	"XMP:Title":       producer.Spec(coercers.String, fields.GenericTitle, fields.Mapping(fields.Title, 0.75)),
}

// ignoredTags are dropped from the output. Reading the file moves its
// access time, so that tag is only taken from the filesystem extractor.
var ignoredTags = map[string]struct{}{
	"SourceFile":          {},
	"File:FileAccessDate": {},
}
