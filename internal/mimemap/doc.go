// Package mimemap maps between MIME types and file extensions, evaluates
// MIME globs such as "image/*" and sniffs MIME types from file content.
//
// The builtin tables are embedded. Configuration overrides are applied to a
// Clone of Builtin so the shared mapper stays immutable.
package mimemap
