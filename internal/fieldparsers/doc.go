// Package fieldparsers validates and evaluates rule condition expressions.
//
// Every parser handles one kind of data and declares the MeowURI globs it
// applies to. A Registry picks the single parser responsible for a condition
// URI; zero or several candidates are configuration errors.
package fieldparsers
