//go:build windows

package hidden

import (
	"golang.org/x/sys/windows"

	"github.com/photostructure/fs-metadata-engine/internal/volinfo"
)

func isRoot(path string) bool {
	return len(path) == 3 && path[1] == ':' && (path[2] == '\\' || path[2] == '/')
}

// IsHidden reports whether path has the FILE_ATTRIBUTE_HIDDEN bit
// set. A non-existent path or a root volume reports false rather than
// erroring, since "is this hidden" is meaningless for either.
func IsHidden(path string) (bool, error) {
	if isRoot(path) {
		return false, nil
	}

	ptr, err := windows.UTF16PtrFromString(path)
	if err != nil {
		return false, volinfo.Wrap("is_hidden", volinfo.KindInvalidPath, err)
	}

	attrs, err := windows.GetFileAttributes(ptr)
	if err != nil {
		if err == windows.ERROR_FILE_NOT_FOUND || err == windows.ERROR_PATH_NOT_FOUND {
			return false, nil
		}
		return false, volinfo.Wrap("is_hidden", volinfo.KindPlatformError, err)
	}
	return attrs&windows.FILE_ATTRIBUTE_HIDDEN != 0, nil
}

// SetHidden sets or clears the FILE_ATTRIBUTE_HIDDEN bit on path,
// preserving every other attribute bit already set. It returns canon,
// the path's name after canonicalization -- Windows never renames on
// hide/unhide, so the name itself is unchanged.
func SetHidden(path string, hidden bool) (string, error) {
	canon, err := canonicalizeForMutation("set_hidden", path)
	if err != nil {
		return "", err
	}

	ptr, err := windows.UTF16PtrFromString(canon)
	if err != nil {
		return "", volinfo.Wrap("set_hidden", volinfo.KindInvalidPath, err)
	}

	attrs, err := windows.GetFileAttributes(ptr)
	if err != nil {
		return "", volinfo.Wrap("set_hidden", volinfo.KindPlatformError, err)
	}

	if hidden {
		attrs |= windows.FILE_ATTRIBUTE_HIDDEN
	} else {
		attrs &^= windows.FILE_ATTRIBUTE_HIDDEN
	}

	if err := windows.SetFileAttributes(ptr, attrs); err != nil {
		return "", volinfo.Wrap("set_hidden", volinfo.KindPlatformError, err)
	}
	return canon, nil
}
