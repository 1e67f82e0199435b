// Package apltest builds throwaway library bundles for tests.
package apltest

import (
	"database/sql"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/rwcarlsen/apextract/aplib"
)

const schema = `
CREATE TABLE ZGENERICALBUM (Z_PK INTEGER PRIMARY KEY, ZTITLE VARCHAR);
CREATE TABLE ZGENERICASSET (Z_PK INTEGER PRIMARY KEY, ZDIRECTORY VARCHAR, ZFILENAME VARCHAR);
CREATE TABLE Z_26ASSETS (Z_26ALBUMS INTEGER, Z_34ASSETS INTEGER);
`

// Album is a ZGENERICALBUM row. A nil Title stores NULL.
type Album struct {
	Key   int64
	Title *string
}

// Asset is a ZGENERICASSET row. Nil components store NULL.
type Asset struct {
	Key       int64
	Directory *string
	Filename  *string
}

// Link is a Z_26ASSETS row.
type Link struct {
	Asset int64
	Album int64
}

// Catalog is the content written to a fixture library's database.
type Catalog struct {
	Albums []Album
	Assets []Asset
	Links  []Link
}

func Str(s string) *string { return &s }

// Titled is shorthand for an album row with a title.
func Titled(key int64, title string) Album {
	return Album{Key: key, Title: Str(title)}
}

// File is shorthand for an asset row with both path components.
func File(key int64, dir, name string) Asset {
	return Asset{Key: key, Directory: Str(dir), Filename: Str(name)}
}

// NewLibrary creates a library bundle under a temporary directory holding
// c in its catalog and an empty originals directory. It returns the
// library root.
func NewLibrary(t testing.TB, c Catalog) string {
	t.Helper()

	root := filepath.Join(t.TempDir(), "Aperture Library.aplibrary")
	require.NoError(t, os.MkdirAll(filepath.Join(root, aplib.DBDir), 0755))
	require.NoError(t, os.MkdirAll(aplib.OrigPath(root), 0755))

	db, err := sql.Open(aplib.Driver, aplib.DBPath(root))
	require.NoError(t, err)
	defer db.Close()

	_, err = db.Exec(schema)
	require.NoError(t, err)

	for _, a := range c.Albums {
		_, err := db.Exec("INSERT INTO ZGENERICALBUM (Z_PK, ZTITLE) VALUES (?, ?)", a.Key, nullable(a.Title))
		require.NoError(t, err)
	}
	for _, a := range c.Assets {
		_, err := db.Exec("INSERT INTO ZGENERICASSET (Z_PK, ZDIRECTORY, ZFILENAME) VALUES (?, ?, ?)",
			a.Key, nullable(a.Directory), nullable(a.Filename))
		require.NoError(t, err)
	}
	for _, l := range c.Links {
		_, err := db.Exec("INSERT INTO Z_26ASSETS (Z_26ALBUMS, Z_34ASSETS) VALUES (?, ?)", l.Album, l.Asset)
		require.NoError(t, err)
	}
	return root
}

// WriteOriginal places a file with the given content at rel under the
// library's originals directory and returns its full path.
func WriteOriginal(t testing.TB, root, rel string, data []byte) string {
	t.Helper()

	p := filepath.Join(aplib.OrigPath(root), filepath.FromSlash(rel))
	require.NoError(t, os.MkdirAll(filepath.Dir(p), 0755))
	require.NoError(t, os.WriteFile(p, data, 0644))
	return p
}

func nullable(s *string) any {
	if s == nil {
		return nil
	}
	return *s
}
