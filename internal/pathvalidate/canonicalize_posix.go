//go:build linux || darwin

package pathvalidate

import (
	"os"
	"path/filepath"

	"github.com/photostructure/fs-metadata-engine/internal/volinfo"
)

// canonicalizePlatform resolves path against the live filesystem:
// symlinks, `.` and `..` segments are followed and stripped. If path
// does not exist, its parent is canonicalized instead and the final
// component reattached, so callers can validate a path they are about
// to create (e.g. before setting its hidden bit).
func canonicalizePlatform(op, path string) (string, error) {
	if len(path) > maxPathPosix {
		return "", volinfo.NewError(op, volinfo.KindInvalidPath)
	}

	abs, err := filepath.Abs(path)
	if err != nil {
		return "", volinfo.Wrap(op, volinfo.KindInvalidPath, err)
	}

	resolved, err := filepath.EvalSymlinks(abs)
	if err == nil {
		return resolved, nil
	}
	if !os.IsNotExist(err) {
		return "", volinfo.Wrap(op, volinfo.KindPlatformError, err)
	}

	parent := filepath.Dir(abs)
	base := filepath.Base(abs)
	if parent == abs {
		// abs is already the filesystem root and doesn't exist --
		// nothing left to resolve against.
		return "", volinfo.NewError(op, volinfo.KindNotFound)
	}

	resolvedParent, err := filepath.EvalSymlinks(parent)
	if err != nil {
		if os.IsNotExist(err) {
			return "", volinfo.NewError(op, volinfo.KindNotFound)
		}
		return "", volinfo.Wrap(op, volinfo.KindPlatformError, err)
	}

	return filepath.Join(resolvedParent, base), nil
}
