package main

import (
	"context"
	"fmt"
	"io"
	"net/url"
	"os"
	"path/filepath"

	"github.com/toqueteos/webbrowser"
	"go.uber.org/zap"

	"github.com/rwcarlsen/apextract/aplib"
	"github.com/rwcarlsen/apextract/conf"
	"github.com/rwcarlsen/apextract/export"
	"github.com/rwcarlsen/apextract/logging"
)

// openFolder shows dir in the desktop's file browser.
var openFolder = func(dir string) error {
	abs, err := filepath.Abs(dir)
	if err != nil {
		return err
	}
	u := url.URL{Scheme: "file", Path: filepath.ToSlash(abs)}
	return webbrowser.Open(u.String())
}

// run performs one export as configured by c. Messages go to stdout and,
// with c.Log, to the log sink whose errors are echoed on stderr.
func run(ctx context.Context, c *conf.Config, stdout, stderr io.Writer) error {
	sink := logging.Nop()
	if c.Log {
		s, err := logging.New(c.LogFile(), stderr)
		if err != nil {
			return fmt.Errorf("failed to open log file: %w", err)
		}
		sink = s
	}
	defer sink.Close()

	sink.Debug(fmt.Sprintf("Extracting %v to %v (dry run: %v).", c.Aperture, c.OutputFolder, c.DryRun),
		zap.String("library", c.Aperture),
		zap.String("output", c.OutputFolder),
		zap.Bool("dryRun", c.DryRun),
	)

	if err := extract(ctx, c, stdout, sink); err != nil {
		// cobra prints the error on the console
		sink.FileOnly().Error(err.Error())
		return err
	}
	return nil
}

func extract(ctx context.Context, c *conf.Config, stdout io.Writer, sink *logging.Sink) error {
	if err := aplib.CheckLayout(c.Aperture); err != nil {
		return err
	}
	if err := prepareOutput(c.OutputFolder, c.DryRun); err != nil {
		return err
	}

	lib, err := aplib.Open(c.Aperture)
	if err != nil {
		return err
	}
	defer lib.Close()

	albums, err := lib.FetchAlbums(ctx)
	if err != nil {
		return err
	}
	assets, err := lib.FetchAssets(ctx)
	if err != nil {
		return err
	}
	links, err := lib.FetchLinks(ctx)
	if err != nil {
		return err
	}

	groups := export.Resolve(albums, assets, links)

	fmt.Fprintf(stdout, "Number of albums: %v\n", groups.Len())
	fmt.Fprintf(stdout, "Number of photos: %v\n", groups.PhotoCount())
	sink.Info(fmt.Sprintf("Read %v albums holding %v photos.", groups.Len(), groups.PhotoCount()),
		zap.Int("albums", groups.Len()),
		zap.Int("photos", groups.PhotoCount()),
		zap.Int("titledAlbums", len(albums)),
	)

	for _, key := range groups.Dangling {
		msg := fmt.Sprintf("Photo %v is linked to an album without a title, exporting it to %v.", key, export.NoAlbum)
		fmt.Fprintln(stdout, msg)
		sink.Warn(msg)
	}

	e := &export.Exporter{
		Originals: lib.Originals(),
		Dest:      c.OutputFolder,
		DryRun:    c.DryRun,
		ExifTimes: c.ExifTimes,
		Out:       stdout,
		Log:       sink.Logger,
	}
	r := e.Export(groups)

	fmt.Fprintf(stdout, "Done: %v\n", r)
	sink.Info(fmt.Sprintf("Done: %v", r),
		zap.Int("copied", r.Copied),
		zap.Int("missing", r.Missing),
		zap.Int("failed", r.Failed),
		zap.Int("skippedAlbums", r.SkippedGroups),
	)

	if c.Open && !c.DryRun {
		if err := openFolder(c.OutputFolder); err != nil {
			sink.Warn(fmt.Sprintf("Could not open %v: %v", c.OutputFolder, err))
		}
	}
	return nil
}

// prepareOutput makes sure dir exists as a directory. A dry run creates
// nothing and only checks that dir could be created.
func prepareOutput(dir string, dryRun bool) error {
	fi, err := os.Stat(dir)
	switch {
	case err == nil && fi.IsDir():
		return nil
	case err == nil:
		return fmt.Errorf("invalid path output folder: %v is not a directory", dir)
	case !os.IsNotExist(err):
		return fmt.Errorf("invalid path output folder: %w", err)
	}

	if dryRun {
		return checkCreatable(dir)
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("invalid path output folder: %w", err)
	}
	return nil
}

// checkCreatable walks up from dir to the first existing path, which must
// be a directory.
func checkCreatable(dir string) error {
	p, err := filepath.Abs(dir)
	if err != nil {
		return fmt.Errorf("invalid path output folder: %w", err)
	}
	for {
		fi, err := os.Stat(p)
		if err == nil {
			if !fi.IsDir() {
				return fmt.Errorf("invalid path output folder: %v is not a directory", p)
			}
			return nil
		} else if !os.IsNotExist(err) {
			return fmt.Errorf("invalid path output folder: %w", err)
		}

		parent := filepath.Dir(p)
		if parent == p {
			return fmt.Errorf("invalid path output folder: %v", dir)
		}
		p = parent
	}
}
