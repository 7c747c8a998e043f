// Package repository stores the data bundles produced for each file,
// addressed by MeowURI.
//
// Besides the main index, bundles declaring a generic field are indexed
// under the generic URI (generic.metadata.title) and under a leaf alias
// formed from their own URI with the generic leaf substituted
// (extractor.metadata.exiftool.title). Data of one file is dropped with
// Remove once the file has been handled.
package repository
