package deps

import "context"

// Pdftotext describes the poppler text extractor.
func Pdftotext(binary string, optional bool) Program {
	return Program{
		Name:        "pdftotext",
		Binary:      binary,
		Purpose:     "Extracts the text of PDF documents",
		VersionArgs: []string{"-v"},
		Optional:    optional,
	}
}

// CheckPdftotext checks pdftotext, which prints its version to stderr.
func CheckPdftotext(ctx context.Context, binary string, optional bool) Status {
	return Check(ctx, Pdftotext(binary, optional))
}
