// Package provider answers "what is the value at this MeowURI for this file"
// by consulting the repository first and running the responsible producers
// on demand. Every producer runs at most once per file; a failing producer is
// logged, marked unhealthy for that file, and its data treated as absent.
package provider
