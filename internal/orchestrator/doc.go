// Package orchestrator drives the renaming pipeline for a set of paths.
//
// Files are processed one at a time. For each file the orchestrator ranks
// the configured rules, resolves the winning rule's template fields from
// the provider, builds a new name and hands it to the renamer. Everything
// gathered for a file is released before the next one starts, so a failure
// never leaks into another file's state.
//
// The exit code of a run only climbs: a skipped file raises it to warning,
// a file system failure raises it to error.
package orchestrator
