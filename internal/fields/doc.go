// Package fields defines the closed vocabulary of name template
// placeholders, the generic fields that aggregate data across producers and
// the weighted mappings producers declare between the two.
package fields
