// Package textutil provides the string transformations applied to new
// basenames: sanitizing, case changes, diacritic stripping, whitespace
// collapsing and personal name abbreviation.
package textutil
