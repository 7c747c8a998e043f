// Package resolver gathers the data a name template needs. Each placeholder
// is tried against its sources in order; the first value the field's coercer
// accepts wins.
package resolver
