// Package pathvalidate canonicalizes a caller-supplied path against
// the live filesystem, or rejects it with a structured error.
// String-level traversal checks are kept only as a fast-path NUL-byte
// reject; everything else resolves against the real filesystem, since
// Unicode normalization, percent-encoding, and redundant separators
// defeat purely lexical checks.
package pathvalidate

import (
	"strings"

	"golang.org/x/text/unicode/norm"

	"github.com/photostructure/fs-metadata-engine/internal/volinfo"
)

// maxPathPosix is a generous fast-path sanity bound; the real limit is
// filesystem dependent.
const maxPathPosix = 4096

// maxPathWindowsLong is the Windows long-path limit in UTF-16 code
// units.
const maxPathWindowsLong = 32768

// Canonicalize resolves path to its canonical form: symlinks and `.`/
// `..` segments are followed against the live filesystem, redundant
// separators collapse, and the result is NFC-normalized so that two
// differently-normalized spellings of the same path canonicalize
// identically. OS-specific rules (reserved device names, alternate
// data streams, long-path prefixes) live in canonicalize_windows.go
// and canonicalize_posix.go.
func Canonicalize(op, path string) (string, error) {
	if path == "" {
		return "", volinfo.NewError(op, volinfo.KindInvalidPath)
	}
	if strings.IndexByte(path, 0) != -1 {
		return "", volinfo.NewError(op, volinfo.KindInvalidPath)
	}

	path = norm.NFC.String(path)

	return canonicalizePlatform(op, path)
}
