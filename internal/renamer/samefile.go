package renamer

import (
	"os"
	"path/filepath"
)

// sameFile reports whether a and b resolve to the same inode, as happens on
// case-insensitive file systems when only the case changes.
func sameFile(a, b string) bool {
	ai, err := os.Stat(a)
	if err != nil {
		return false
	}
	bi, err := os.Stat(b)
	if err != nil {
		return false
	}
	return os.SameFile(ai, bi)
}

// caseOnlyRename renames through a temporary name so case-insensitive file
// systems pick up the new case.
func caseOnlyRename(from, to string, move func(src, dst string) error) error {
	tmp := filepath.Join(filepath.Dir(from), ".autonameow-"+filepath.Base(to)+".tmp")
	if err := move(from, tmp); err != nil {
		return err
	}
	if err := move(tmp, to); err != nil {
		_ = move(tmp, from)
		return err
	}
	return nil
}
