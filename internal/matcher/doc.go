// Package matcher evaluates rule conditions against a file's data and ranks
// the surviving rules.
//
// Exact-match rules with a failing condition are discarded. The rest are
// scored by the fraction of their own conditions that passed and by how
// condition-rich they are relative to the most detailed survivor, then sorted
// by a total key so the ranking is deterministic.
package matcher
