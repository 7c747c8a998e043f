// Package filesystem implements the cross-platform extractor reporting
// path components, detected MIME type and timestamps.
package filesystem
