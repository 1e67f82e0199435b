package aplib

import (
	"database/sql"
	"path"
)

type AlbumKey int64
type AssetKey int64

// AlbumRow is one row of ZGENERICALBUM.
type AlbumRow struct {
	Key   AlbumKey       `bun:"album_key"`
	Title sql.NullString `bun:"title"`
}

// AssetRow is one row of ZGENERICASSET.
type AssetRow struct {
	Key       AssetKey       `bun:"asset_key"`
	Directory sql.NullString `bun:"directory"`
	Filename  sql.NullString `bun:"filename"`
}

// LinkRow is one row of the album/asset join table Z_26ASSETS.
type LinkRow struct {
	Asset sql.NullInt64 `bun:"asset_key"`
	Album sql.NullInt64 `bun:"album_key"`
}

// Asset is a photo located by its path relative to the originals
// directory. Path always uses forward slashes.
type Asset struct {
	Key  AssetKey
	Path string
}

// AlbumTitles maps album keys to their titles. Rows without a title are
// dropped and a repeated key keeps the last title read.
func AlbumTitles(rows []AlbumRow) map[AlbumKey]string {
	titles := make(map[AlbumKey]string, len(rows))
	for _, r := range rows {
		if !r.Title.Valid {
			continue
		}
		titles[r.Key] = r.Title.String
	}
	return titles
}

// AssetPaths returns the assets in row order, keyed uniquely. Rows missing
// a directory or file name are dropped. A repeated key stays at its first
// position and takes the last path read.
func AssetPaths(rows []AssetRow) []Asset {
	assets := make([]Asset, 0, len(rows))
	index := make(map[AssetKey]int, len(rows))
	for _, r := range rows {
		if !r.Directory.Valid || !r.Filename.Valid {
			continue
		}

		p := path.Join(r.Directory.String, r.Filename.String)
		if i, ok := index[r.Key]; ok {
			assets[i].Path = p
			continue
		}
		index[r.Key] = len(assets)
		assets = append(assets, Asset{Key: r.Key, Path: p})
	}
	return assets
}

// AlbumLinks maps each asset to the album it belongs to. When the join
// table links an asset more than once the last row read wins.
func AlbumLinks(rows []LinkRow) map[AssetKey]AlbumKey {
	links := make(map[AssetKey]AlbumKey, len(rows))
	for _, r := range rows {
		if !r.Asset.Valid || !r.Album.Valid {
			continue
		}
		links[AssetKey(r.Asset.Int64)] = AlbumKey(r.Album.Int64)
	}
	return links
}
