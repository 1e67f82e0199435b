package main

import (
	"bytes"
	"database/sql"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rwcarlsen/apextract/aplib"
	"github.com/rwcarlsen/apextract/aplib/apltest"
	"github.com/rwcarlsen/apextract/export"
)

func execute(t *testing.T, args ...string) (string, string, error) {
	t.Helper()
	var stdout, stderr bytes.Buffer
	cmd := newRootCmd()
	cmd.SetArgs(args)
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	err := cmd.Execute()
	return stdout.String(), stderr.String(), err
}

// parisLibrary is the library of the two-photo example: a.jpg in album
// Paris and b.jpg in no album.
func parisLibrary(t *testing.T) string {
	root := apltest.NewLibrary(t, apltest.Catalog{
		Albums: []apltest.Album{apltest.Titled(1, "Paris")},
		Assets: []apltest.Asset{
			apltest.File(10, "2020/06", "a.jpg"),
			apltest.File(11, "2020/07", "b.jpg"),
		},
		Links: []apltest.Link{{Asset: 10, Album: 1}},
	})
	apltest.WriteOriginal(t, root, "2020/06/a.jpg", []byte("photo a"))
	apltest.WriteOriginal(t, root, "2020/07/b.jpg", []byte("photo b"))
	return root
}

func TestRun_ParisScenario(t *testing.T) {
	root := parisLibrary(t)
	out := filepath.Join(t.TempDir(), "export")

	stdout, stderr, err := execute(t, "--aperture", root, "--output-folder", out)
	require.NoError(t, err)
	assert.Empty(t, stderr)

	lines := strings.Split(strings.TrimSpace(stdout), "\n")
	require.GreaterOrEqual(t, len(lines), 2)
	assert.Equal(t, "Number of albums: 2", lines[0])
	assert.Equal(t, "Number of photos: 2", lines[1])

	data, err := os.ReadFile(filepath.Join(out, "Paris", "a.jpg"))
	require.NoError(t, err)
	assert.Equal(t, "photo a", string(data))

	data, err = os.ReadFile(filepath.Join(out, export.NoAlbum, "b.jpg"))
	require.NoError(t, err)
	assert.Equal(t, "photo b", string(data))
}

func TestRun_MissingSourceIsSkipped(t *testing.T) {
	root := apltest.NewLibrary(t, apltest.Catalog{
		Albums: []apltest.Album{apltest.Titled(1, "Rome")},
		Assets: []apltest.Asset{
			apltest.File(1, "2019", "gone.jpg"),
			apltest.File(2, "2019", "here.jpg"),
		},
		Links: []apltest.Link{{Asset: 1, Album: 1}, {Asset: 2, Album: 1}},
	})
	apltest.WriteOriginal(t, root, "2019/here.jpg", []byte("here"))
	out := filepath.Join(t.TempDir(), "export")

	stdout, _, err := execute(t, "--aperture", root, "--output-folder", out)
	require.NoError(t, err)

	gone := filepath.Join(aplib.OrigPath(root), "2019", "gone.jpg")
	assert.Contains(t, stdout, "Photo "+gone+" does not exist.")
	assert.FileExists(t, filepath.Join(out, "Rome", "here.jpg"))
	assert.NoFileExists(t, filepath.Join(out, "Rome", "gone.jpg"))
	assert.Contains(t, stdout, "1 copied, 1 missing")
}

func TestRun_DryRun(t *testing.T) {
	root := parisLibrary(t)
	out := filepath.Join(t.TempDir(), "not", "yet", "there")

	dry, _, err := execute(t, "--aperture", root, "--output-folder", out, "--dry-run")
	require.NoError(t, err)
	_, err = os.Stat(filepath.Join(out, ".."))
	assert.True(t, os.IsNotExist(err), "dry run created part of the output path")

	wet, _, err := execute(t, "--aperture", root, "--output-folder", out)
	require.NoError(t, err)
	assert.Equal(t, wet, dry)
}

func TestRun_DanglingLink(t *testing.T) {
	root := apltest.NewLibrary(t, apltest.Catalog{
		Albums: []apltest.Album{{Key: 5}},
		Assets: []apltest.Asset{apltest.File(10, "d", "a.jpg")},
		Links:  []apltest.Link{{Asset: 10, Album: 5}},
	})
	apltest.WriteOriginal(t, root, "d/a.jpg", []byte("a"))
	out := t.TempDir()

	stdout, _, err := execute(t, "--aperture", root, "--output-folder", out)
	require.NoError(t, err)
	assert.Contains(t, stdout, "Photo 10 is linked to an album without a title")
	assert.FileExists(t, filepath.Join(out, export.NoAlbum, "a.jpg"))
}

func TestRun_RequiredOptions(t *testing.T) {
	_, stderr, err := execute(t, "--output-folder", t.TempDir())
	require.Error(t, err)
	assert.Contains(t, stderr, "--aperture is required")

	_, _, err = execute(t, "--aperture", parisLibrary(t))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "--output-folder is required")
}

func TestRun_BadLibrary(t *testing.T) {
	out := filepath.Join(t.TempDir(), "export")

	_, _, err := execute(t, "--aperture", filepath.Join(t.TempDir(), "missing"), "--output-folder", out)
	require.Error(t, err)
	assert.True(t, aplib.IsLayout(err))

	root := parisLibrary(t)
	require.NoError(t, os.Remove(aplib.DBPath(root)))
	_, _, err = execute(t, "--aperture", root, "--output-folder", out)
	require.Error(t, err)
	assert.True(t, aplib.IsLayout(err))

	_, err = os.Stat(out)
	assert.True(t, os.IsNotExist(err), "output folder created despite a bad library")
}

func TestRun_OutputIsAFile(t *testing.T) {
	out := filepath.Join(t.TempDir(), "file")
	require.NoError(t, os.WriteFile(out, nil, 0644))

	for _, dry := range []string{"--dry-run=false", "--dry-run"} {
		_, _, err := execute(t, "--aperture", parisLibrary(t), "--output-folder", out, dry)
		require.Error(t, err, dry)
		assert.Contains(t, err.Error(), "invalid path output folder")
	}

	_, _, err := execute(t, "--aperture", parisLibrary(t), "--output-folder", filepath.Join(out, "sub"), "--dry-run")
	assert.Error(t, err)
}

func TestRun_QueryFailureIsFatal(t *testing.T) {
	root := parisLibrary(t)
	db, err := sql.Open(aplib.Driver, aplib.DBPath(root))
	require.NoError(t, err)
	_, err = db.Exec("DROP TABLE ZGENERICASSET")
	require.NoError(t, err)
	require.NoError(t, db.Close())

	out := filepath.Join(t.TempDir(), "export")
	stdout, _, err := execute(t, "--aperture", root, "--output-folder", out)
	require.Error(t, err)
	assert.True(t, aplib.IsQuery(err))
	assert.NotContains(t, stdout, "Number of albums")
}

const stamp = `\d{4}-\d{2}-\d{2} \d{2}:\d{2}:\d{2},\d{3}`

func TestRun_LogFile(t *testing.T) {
	root := parisLibrary(t)
	out := filepath.Join(t.TempDir(), "export")
	require.NoError(t, os.MkdirAll(out, 0755))
	require.NoError(t, os.WriteFile(filepath.Join(out, "Paris"), nil, 0644))
	logFile := filepath.Join(t.TempDir(), "extract.log")

	_, stderr, err := execute(t, "--aperture", root, "--output-folder", out, "--log", "--log-file", logFile)
	require.NoError(t, err)

	data, err := os.ReadFile(logFile)
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	for _, l := range lines {
		assert.Regexp(t, "^"+stamp+` - photo_extract - (DEBUG|INFO|WARNING|ERROR|CRITICAL) - [^{}]*$`, l)
	}

	b := filepath.Join(aplib.OrigPath(root), "2020", "07", "b.jpg")
	blocked := "^" + stamp + " - photo_extract - ERROR - " +
		regexp.QuoteMeta("Could not create folder "+filepath.Join(out, "Paris")) + "$"
	matching(t, lines, blocked)
	matching(t, lines, "^"+stamp+" - photo_extract - INFO - "+
		regexp.QuoteMeta("Copying "+b+" to "+filepath.Join(out, export.NoAlbum)+".")+"$")
	matching(t, lines, "^"+stamp+" - photo_extract - DEBUG - "+regexp.QuoteMeta("Photo "+b+" is ")+".+\\.$")
	matching(t, lines, "^"+stamp+" - photo_extract - DEBUG - Extracting ")

	assert.Regexp(t, regexp.MustCompile(blocked[:len(blocked)-1]+"\n$"), stderr)
}

// matching returns the first line matching expr and fails the test when
// there is none.
func matching(t *testing.T, lines []string, expr string) string {
	t.Helper()
	re := regexp.MustCompile(expr)
	for _, l := range lines {
		if re.MatchString(l) {
			return l
		}
	}
	t.Errorf("no line matches %q in\n%v", expr, strings.Join(lines, "\n"))
	return ""
}

func TestRun_FatalErrorPrintedOnce(t *testing.T) {
	logFile := filepath.Join(t.TempDir(), "extract.log")
	lib := filepath.Join(t.TempDir(), "missing")

	_, stderr, err := execute(t, "--aperture", lib, "--output-folder", t.TempDir(), "--log", "--log-file", logFile)
	require.Error(t, err)
	assert.Equal(t, 1, strings.Count(stderr, "incorrect path to library"), stderr)

	data, err := os.ReadFile(logFile)
	require.NoError(t, err)
	assert.Regexp(t, `- ERROR - `+regexp.QuoteMeta(err.Error())+"\n$", string(data))
}

func TestRun_NoLogFileWithoutFlag(t *testing.T) {
	dir := t.TempDir()
	logFile := filepath.Join(dir, "extract.log")

	_, _, err := execute(t, "--aperture", parisLibrary(t), "--output-folder", filepath.Join(dir, "out"), "--log-file", logFile)
	require.NoError(t, err)
	assert.NoFileExists(t, logFile)
}

func TestRun_OpenFolder(t *testing.T) {
	var opened []string
	prev := openFolder
	openFolder = func(dir string) error {
		opened = append(opened, dir)
		return nil
	}
	defer func() { openFolder = prev }()

	root := parisLibrary(t)
	out := filepath.Join(t.TempDir(), "export")

	_, _, err := execute(t, "--aperture", root, "--output-folder", out, "--open", "--dry-run")
	require.NoError(t, err)
	assert.Empty(t, opened)

	_, _, err = execute(t, "--aperture", root, "--output-folder", out, "--open")
	require.NoError(t, err)
	assert.Equal(t, []string{out}, opened)
}
