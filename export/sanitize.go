package export

import (
	"strings"

	"golang.org/x/text/unicode/norm"
)

// Untitled names the directory of a group whose name has nothing left
// after sanitizing.
const Untitled = "Untitled"

// unsafeChars are mapped to '_'. ':' is the HFS+ separator, the rest are
// reserved on Windows.
const unsafeChars = `/\:*?"<>|`

// DirName turns a free-form group name into a safe directory name. The
// name is decomposed (NFKD) so accented letters keep their base letter,
// everything but printable ASCII is dropped and path separators and other
// characters some filesystems reject become underscores.
// DirName(DirName(s)) == DirName(s).
func DirName(name string) string {
	var b strings.Builder
	for _, r := range norm.NFKD.String(name) {
		switch {
		case strings.ContainsRune(unsafeChars, r):
			b.WriteByte('_')
		case r >= ' ' && r <= '~':
			b.WriteRune(r)
		}
	}

	s := strings.TrimSpace(b.String())
	if s == "" || s == "." || s == ".." {
		return Untitled
	}
	return s
}
