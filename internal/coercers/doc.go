// Package coercers defines the semantic type tags attached to every stored
// value.
//
// Each coercer converts loosely typed extractor output (strings, bytes,
// numbers, timestamps) into one canonical Go representation and renders it
// back to text. Dates are parsed leniently from the many shapes found in
// file names and metadata, then formatted with strftime patterns.
package coercers
