package fileobject_test

import (
	"os"
	"path/filepath"
	"testing"

	"autonameow/internal/fileobject"
)

func TestSplitBasename(t *testing.T) {
	compound := fileobject.DefaultCompoundSuffixes
	tests := []struct {
		in, prefix, suffix string
	}{
		{"gmail.pdf", "gmail", "pdf"},
		{"Report.PDF", "Report", "pdf"},
		{"backup.tar.gz", "backup", "tar.gz"},
		{"backup.TAR.GZ", "backup", "tar.gz"},
		{"archive.gz", "archive", "gz"},
		{".bashrc", ".bashrc", ""},
		{".config.bak", ".config", "bak"},
		{"README", "README", ""},
		{"trailing.", "trailing.", ""},
		{"2017-09-12T224820 name -- a tag1.txt", "2017-09-12T224820 name -- a tag1", "txt"},
		{"tar.gz", "tar", "gz"},
	}
	for _, tt := range tests {
		prefix, suffix := fileobject.SplitBasename(tt.in, compound)
		if prefix != tt.prefix || suffix != tt.suffix {
			t.Errorf("SplitBasename(%q) = (%q, %q), want (%q, %q)", tt.in, prefix, suffix, tt.prefix, tt.suffix)
		}
	}
}

func TestSplitBasenameWithoutCompoundConfig(t *testing.T) {
	prefix, suffix := fileobject.SplitBasename("backup.tar.gz", nil)
	if prefix != "backup.tar" || suffix != "gz" {
		t.Fatalf("got (%q, %q)", prefix, suffix)
	}
}

func TestNew(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "mail")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		t.Fatal(err)
	}
	path := filepath.Join(dir, "gmail.pdf")
	if err := os.WriteFile(path, []byte("%PDF-1.4\n1 0 obj\n<<>>\nendobj\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	fo, err := fileobject.New(path, fileobject.Options{})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if fo.Filename != "gmail.pdf" || fo.BasenamePrefix != "gmail" || fo.BasenameSuffix != "pdf" {
		t.Fatalf("unexpected names: %+v", fo)
	}
	if fo.PathParent != "mail" || fo.Pathname != dir {
		t.Fatalf("unexpected parent: %+v", fo)
	}
	if fo.MIMEType != "application/pdf" {
		t.Fatalf("MIMEType = %q", fo.MIMEType)
	}
	if len(fo.HashPartial) != 64 {
		t.Fatalf("HashPartial = %q", fo.HashPartial)
	}

	copyPath := filepath.Join(dir, "other.pdf")
	data, _ := os.ReadFile(path)
	if err := os.WriteFile(copyPath, data, 0o644); err != nil {
		t.Fatal(err)
	}
	other, err := fileobject.New(copyPath, fileobject.Options{})
	if err != nil {
		t.Fatal(err)
	}
	if !fo.Equal(other) {
		t.Fatal("identical contents should be equal")
	}

	if _, err := fileobject.New(dir, fileobject.Options{}); err == nil {
		t.Fatal("directories are rejected")
	}
}
