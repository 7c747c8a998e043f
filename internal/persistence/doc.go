// Package persistence stores data that outlives a single run in a SQLite
// database under the persistence directory.
//
// Cache is an owner-scoped key/blob store. Keys are sanitized and prefixed
// with their owner; producers use it through ResultCache to skip expensive
// extraction for files seen before. Journal records every rename decision so
// the history command can show what happened. Lock guards the directory
// against concurrent runs.
package persistence
