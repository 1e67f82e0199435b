package export

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Report tallies the outcome of an export.
type Report struct {
	Groups        int
	Copied        int // files copied, or that would be copied in a dry run
	Missing       int
	Failed        int
	SkippedGroups int
	SkippedPhotos int
}

func (r Report) String() string {
	return fmt.Sprintf("%v albums, %v copied, %v missing, %v failed, %v albums (%v photos) skipped",
		r.Groups, r.Copied, r.Missing, r.Failed, r.SkippedGroups, r.SkippedPhotos)
}

// Exporter copies grouped photos from an originals directory into one
// directory per group under Dest.
type Exporter struct {
	Originals string
	Dest      string
	// DryRun reports everything a real run would do without touching the
	// filesystem.
	DryRun bool
	// ExifTimes stamps copies with the EXIF capture time of their source.
	ExifTimes bool
	// Out receives one line per message. Nil discards them.
	Out io.Writer
	// Log, when set, receives every message at its severity.
	Log *zap.Logger
}

// Export processes the groups in order. Problems with a single group or
// photo are reported and skipped; they never stop the export.
func (e *Exporter) Export(groups *Groups) Report {
	var r Report
	for _, name := range groups.Names() {
		photos := groups.Photos(name)
		r.Groups++

		dir := filepath.Join(e.Dest, DirName(name))
		if err := e.mkdir(dir); err != nil {
			e.report(zapcore.ErrorLevel, fmt.Sprintf("Could not create folder %v", dir),
				zap.String("album", name), zap.Error(err))
			r.SkippedGroups++
			r.SkippedPhotos += len(photos)
			continue
		}

		for _, photo := range photos {
			e.exportPhoto(&r, name, photo, dir)
		}
	}
	return r
}

func (e *Exporter) exportPhoto(r *Report, album, photo, dir string) {
	rel := filepath.FromSlash(photo)
	src := filepath.Join(e.Originals, rel)
	if !filepath.IsLocal(rel) || !isFile(src) {
		e.report(zapcore.WarnLevel, fmt.Sprintf("Photo %v does not exist.", src), zap.String("album", album))
		r.Missing++
		return
	}

	e.report(zapcore.InfoLevel, fmt.Sprintf("Copying %v to %v.", src, dir), zap.String("album", album))
	if e.Log != nil {
		typ := mediaType(src)
		e.Log.Debug(fmt.Sprintf("Photo %v is %v.", src, typ), zap.String("type", typ))
	}
	if e.DryRun {
		r.Copied++
		return
	}

	if _, err := copyFile(src, dir, e.ExifTimes); err != nil {
		e.report(zapcore.ErrorLevel, fmt.Sprintf("Could not copy %v to %v: %v", src, dir, err), zap.String("album", album))
		r.Failed++
		return
	}
	r.Copied++
}

// mkdir makes sure dir exists. A dry run only checks that nothing but a
// directory occupies the path.
func (e *Exporter) mkdir(dir string) error {
	if e.DryRun {
		fi, err := os.Stat(dir)
		if err == nil && !fi.IsDir() {
			return fmt.Errorf("export: %v is not a directory", dir)
		}
		return nil
	}

	if err := os.MkdirAll(dir, 0755); err != nil {
		return err
	}
	if fi, err := os.Stat(dir); err != nil {
		return err
	} else if !fi.IsDir() {
		return fmt.Errorf("export: %v is not a directory", dir)
	}
	return nil
}

func (e *Exporter) report(lvl zapcore.Level, msg string, fields ...zap.Field) {
	if e.Out != nil {
		fmt.Fprintln(e.Out, msg)
	}
	if e.Log != nil {
		if ce := e.Log.Check(lvl, msg); ce != nil {
			ce.Write(fields...)
		}
	}
}

func isFile(path string) bool {
	fi, err := os.Stat(path)
	return err == nil && fi.Mode().IsRegular()
}
