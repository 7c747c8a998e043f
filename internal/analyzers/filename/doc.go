// Package filename analyzes a file's current name for dates, edition
// numbers, publishers and the most likely correct extension.
package filename
