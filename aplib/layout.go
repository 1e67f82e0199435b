package aplib

import (
	"fmt"
	"os"
	"path/filepath"
)

// Layout of a library bundle relative to its root directory.
const (
	// DBDir holds the library catalog.
	DBDir = "database"
	// DBName is the catalog file name inside DBDir.
	DBName = "Photos.sqlite"
	// DBExt is the extension the catalog file must carry.
	DBExt = ".sqlite"
	// OrigDir is the root all asset paths are relative to.
	OrigDir = "originals"
)

// LayoutErr reports a library bundle that is missing a required piece.
type LayoutErr struct {
	Path   string
	Reason string
}

func (e *LayoutErr) Error() string {
	return fmt.Sprintf("aplib: %v: %v", e.Reason, e.Path)
}

// IsLayout returns true if err was caused by an invalid library layout.
func IsLayout(err error) bool {
	_, ok := err.(*LayoutErr)
	return ok
}

// DBPath returns the catalog location for the library at root.
func DBPath(root string) string {
	return filepath.Join(root, DBDir, DBName)
}

// OrigPath returns the originals directory for the library at root.
func OrigPath(root string) string {
	return filepath.Join(root, OrigDir)
}

// CheckLayout verifies that root is a library bundle: an existing directory
// containing the catalog file and the originals directory.
func CheckLayout(root string) error {
	if !isDir(root) {
		return &LayoutErr{Path: root, Reason: "incorrect path to library"}
	}

	db := DBPath(root)
	if !isFile(db) || filepath.Ext(db) != DBExt {
		return &LayoutErr{Path: root, Reason: "could not find " + filepath.Join(DBDir, DBName) + " in library"}
	}

	if !isDir(OrigPath(root)) {
		return &LayoutErr{Path: root, Reason: "could not find " + OrigDir + " directory in library"}
	}
	return nil
}

func isDir(path string) bool {
	fi, err := os.Stat(path)
	return err == nil && fi.IsDir()
}

func isFile(path string) bool {
	fi, err := os.Stat(path)
	return err == nil && fi.Mode().IsRegular()
}
