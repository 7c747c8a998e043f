// Package namebuilder assembles a new basename from a name template and the
// resolved field values, then applies the configured post-processing:
// sanitizing, regex replacements, case transforms, unicode simplification and
// whitespace collapsing.
package namebuilder
