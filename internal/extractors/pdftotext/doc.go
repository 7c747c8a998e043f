// Package pdftotext extracts the text layer of PDF documents with the
// poppler pdftotext tool. Each query runs a short-lived child process.
package pdftotext
