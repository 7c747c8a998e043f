package deps

import "context"

// Exiftool describes the exiftool metadata reader.
func Exiftool(binary string, optional bool) Program {
	return Program{
		Name:        "ExifTool",
		Binary:      binary,
		Purpose:     "Reads embedded metadata from documents and images",
		VersionArgs: []string{"-ver"},
		Optional:    optional,
	}
}

// CheckExiftool checks the exiftool binary and reads its version.
func CheckExiftool(ctx context.Context, binary string, optional bool) Status {
	return Check(ctx, Exiftool(binary, optional))
}
