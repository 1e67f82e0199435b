package export

import (
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/gabriel-vasile/mimetype"
	"github.com/rwcarlsen/goexif/exif"
)

// copyFile copies src into dir under its own base name, overwriting any
// file already there. The copy gets the permission bits and modification
// time of src, or the EXIF capture time of src when exifTime is set and
// the file carries one.
func copyFile(src, dir string, exifTime bool) (dst string, err error) {
	f, err := os.Open(src)
	if err != nil {
		return "", err
	}
	defer f.Close()

	fi, err := f.Stat()
	if err != nil {
		return "", err
	}

	dst = filepath.Join(dir, filepath.Base(src))
	out, err := os.OpenFile(dst, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, fi.Mode().Perm())
	if err != nil {
		return "", err
	}

	if _, err := io.Copy(out, f); err != nil {
		out.Close()
		return "", err
	}
	if err := out.Close(); err != nil {
		return "", err
	}

	if err := os.Chmod(dst, fi.Mode().Perm()); err != nil {
		return "", err
	}

	mtime := fi.ModTime()
	if exifTime {
		if tm, ok := takenTime(src); ok {
			mtime = tm
		}
	}
	return dst, os.Chtimes(dst, mtime, mtime)
}

// takenTime returns the capture time recorded in the EXIF data of the file
// at path.
func takenTime(path string) (time.Time, bool) {
	f, err := os.Open(path)
	if err != nil {
		return time.Time{}, false
	}
	defer f.Close()

	x, err := exif.Decode(f)
	if err != nil {
		return time.Time{}, false
	}

	tm, err := x.DateTime()
	if err != nil {
		return time.Time{}, false
	}
	return tm, true
}

// mediaType sniffs the content type of the file at path.
func mediaType(path string) string {
	m, err := mimetype.DetectFile(path)
	if err != nil {
		return "unknown"
	}
	return m.String()
}
