// Package aplib provides read-only access to Aperture photo library bundles.
//
// A library is a directory laid out as:
//
//   - database/Photos.sqlite (the library catalog)
//   - originals/ (the imported image files, one sub-directory per import)
//
// Only three tables of the catalog are read:
//
//	ZGENERICALBUM
//		Z_PK INTEGER (album key)
//		ZTITLE TEXT (display title, may be null)
//	ZGENERICASSET
//		Z_PK INTEGER (asset key)
//		ZDIRECTORY TEXT (directory under originals)
//		ZFILENAME TEXT (file name within ZDIRECTORY)
//	Z_26ASSETS
//		Z_34ASSETS INTEGER (key into ZGENERICASSET)
//		Z_26ALBUMS INTEGER (key into ZGENERICALBUM)
//
// The catalog is never written to.
package aplib
