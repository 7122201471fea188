// Package hidden reads and sets the filesystem "hidden" attribute for
// a path: the FILE_ATTRIBUTE_HIDDEN bit on Windows and dot-prefix
// naming on POSIX. On macOS SetHidden can additionally set the
// UF_HIDDEN flag, but IsHidden checks only the dot prefix there too;
// it does not read UF_HIDDEN. Every
// mutating operation canonicalizes its input first so a symlink
// swapped in between validation and the syscall can't redirect the
// change to an unintended file.
package hidden

import (
	"github.com/photostructure/fs-metadata-engine/internal/pathvalidate"
	"github.com/photostructure/fs-metadata-engine/internal/volinfo"
)

// rejectRoot returns a KindInvalidArgument error if path is a
// filesystem root, which this engine never allows hiding or unhiding -- doing so silently changes
// how an entire volume is listed, not one file.
func rejectRoot(op, path string) error {
	if isRoot(path) {
		return volinfo.NewError(op, volinfo.KindInvalidArgument)
	}
	return nil
}

func canonicalizeForMutation(op, path string) (string, error) {
	if err := rejectRoot(op, path); err != nil {
		return "", err
	}
	return pathvalidate.Canonicalize(op, path)
}
