// Package fileobject builds the immutable per-file value carried through
// the renaming pipeline.
package fileobject
