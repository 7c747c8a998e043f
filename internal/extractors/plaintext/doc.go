// Package plaintext reads the contents of plain text files. Text is
// decoded as UTF-8, falling back to Windows-1252 for legacy files, and
// normalized before it is reported as the "full" leaf.
package plaintext
