// Package meowuri implements the dotted addresses used to locate every piece
// of data the renaming pipeline knows about.
//
// A URI has a root (extractor, analyzer or generic), zero or more lowercase
// children and a leaf that keeps its case so extractor tag names such as
// "PDF:CreateDate" survive. Globs with "*" components select groups of URIs
// for field parser dispatch and rule configuration.
package meowuri
