// Package services defines shared error markers and context helpers used by
// every stage of the renaming pipeline.
//
// Key responsibilities:
//   - Context helpers that stamp the current file, rule and session
//     identifier for logging.
//   - Structured error markers plus the Wrap helper, and ExitCodeFor which
//     turns a per-file failure into the run's exit status.
//
// Use these helpers when wiring new pipeline code so error handling and
// observability stay uniform.
package services
