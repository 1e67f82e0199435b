package aplib

import (
	"context"
	"database/sql"
	"fmt"
	"net/url"
	"path/filepath"

	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/sqlitedialect"
	_ "modernc.org/sqlite"
)

// Driver is the database/sql driver name used to open library catalogs.
const Driver = "sqlite"

const (
	albumsQuery = "SELECT Z_PK AS album_key, ZTITLE AS title FROM ZGENERICALBUM WHERE ZTITLE IS NOT NULL"
	assetsQuery = "SELECT Z_PK AS asset_key, ZDIRECTORY AS directory, ZFILENAME AS filename FROM ZGENERICASSET" +
		" WHERE ZDIRECTORY IS NOT NULL AND ZFILENAME IS NOT NULL"
	linksQuery = "SELECT Z_34ASSETS AS asset_key, Z_26ALBUMS AS album_key FROM Z_26ASSETS" +
		" WHERE Z_34ASSETS IS NOT NULL AND Z_26ALBUMS IS NOT NULL"
)

// QueryErr reports a failure reading one of the catalog tables.
type QueryErr struct {
	Table string
	Err   error
}

func (e *QueryErr) Error() string {
	return fmt.Sprintf("aplib: failed to read %v: %v", e.Table, e.Err)
}

func (e *QueryErr) Unwrap() error { return e.Err }

// IsQuery returns true if err was caused by a failed catalog read.
func IsQuery(err error) bool {
	_, ok := err.(*QueryErr)
	return ok
}

// Lib is an open, read-only handle on a library bundle.
type Lib struct {
	Root string
	db   *bun.DB
}

// Open checks the layout of the library at root and opens its catalog
// read-only.
func Open(root string) (*Lib, error) {
	if err := CheckLayout(root); err != nil {
		return nil, err
	}

	abs, err := filepath.Abs(DBPath(root))
	if err != nil {
		return nil, err
	}

	sqldb, err := sql.Open(Driver, readOnlyDSN(abs))
	if err != nil {
		return nil, fmt.Errorf("aplib: failed to open catalog %v: %w", abs, err)
	}
	if err := sqldb.Ping(); err != nil {
		sqldb.Close()
		return nil, fmt.Errorf("aplib: failed to open catalog %v: %w", abs, err)
	}

	return &Lib{Root: root, db: bun.NewDB(sqldb, sqlitedialect.New())}, nil
}

// readOnlyDSN builds an SQLite URI filename so that spaces and other
// reserved characters in bundle names survive.
func readOnlyDSN(path string) string {
	u := url.URL{Path: filepath.ToSlash(path)}
	return "file:" + u.EscapedPath() + "?mode=ro"
}

// Originals returns the directory asset paths are relative to.
func (l *Lib) Originals() string { return OrigPath(l.Root) }

func (l *Lib) Close() error {
	return l.db.Close()
}

// Albums reads the titled rows of ZGENERICALBUM.
func (l *Lib) Albums(ctx context.Context) ([]AlbumRow, error) {
	var rows []AlbumRow
	if err := l.db.NewRaw(albumsQuery).Scan(ctx, &rows); err != nil {
		return nil, &QueryErr{Table: "ZGENERICALBUM", Err: err}
	}
	return rows, nil
}

// Assets reads the rows of ZGENERICASSET that have both path components.
func (l *Lib) Assets(ctx context.Context) ([]AssetRow, error) {
	var rows []AssetRow
	if err := l.db.NewRaw(assetsQuery).Scan(ctx, &rows); err != nil {
		return nil, &QueryErr{Table: "ZGENERICASSET", Err: err}
	}
	return rows, nil
}

// Links reads the complete rows of the album/asset join table.
func (l *Lib) Links(ctx context.Context) ([]LinkRow, error) {
	var rows []LinkRow
	if err := l.db.NewRaw(linksQuery).Scan(ctx, &rows); err != nil {
		return nil, &QueryErr{Table: "Z_26ASSETS", Err: err}
	}
	return rows, nil
}

// FetchAlbums returns the album key to title mapping.
func (l *Lib) FetchAlbums(ctx context.Context) (map[AlbumKey]string, error) {
	rows, err := l.Albums(ctx)
	if err != nil {
		return nil, err
	}
	return AlbumTitles(rows), nil
}

// FetchAssets returns the assets in catalog order.
func (l *Lib) FetchAssets(ctx context.Context) ([]Asset, error) {
	rows, err := l.Assets(ctx)
	if err != nil {
		return nil, err
	}
	return AssetPaths(rows), nil
}

// FetchLinks returns the asset key to album key mapping.
func (l *Lib) FetchLinks(ctx context.Context) (map[AssetKey]AlbumKey, error) {
	rows, err := l.Links(ctx)
	if err != nil {
		return nil, err
	}
	return AlbumLinks(rows), nil
}
