// Package preflight provides readiness checks for the directories and
// external programs autonameow depends on.
//
// The doctor command runs every check and renders the results. A rename
// run only checks the persistence directory, since a missing exiftool
// merely disables one extractor.
package preflight
