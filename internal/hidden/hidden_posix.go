//go:build linux || darwin

package hidden

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/photostructure/fs-metadata-engine/internal/volinfo"
)

func isRoot(path string) bool {
	return path == "/"
}

// IsHidden reports whether path's basename starts with a dot. A
// non-existent path and the root both report false. The macOS
// UF_HIDDEN flag is not consulted.
func IsHidden(path string) (bool, error) {
	if isRoot(path) {
		return false, nil
	}
	if _, err := os.Lstat(path); err != nil {
		if os.IsNotExist(err) {
			return false, nil
		}
		return false, volinfo.Wrap("is_hidden", volinfo.KindPlatformError, err)
	}
	return strings.HasPrefix(filepath.Base(path), "."), nil
}

// setHiddenByRename adds or removes a leading dot from path's
// basename via rename, refusing if the target name is already taken.
// It returns the path's name after the mutation -- unchanged from
// canon if hidden already matched the current state.
func setHiddenByRename(path string, hidden bool) (string, error) {
	canon, err := canonicalizeForMutation("set_hidden", path)
	if err != nil {
		return "", err
	}

	dir := filepath.Dir(canon)
	base := filepath.Base(canon)
	currentlyHidden := strings.HasPrefix(base, ".")

	if currentlyHidden == hidden {
		return canon, nil
	}

	var newBase string
	if hidden {
		newBase = "." + base
	} else {
		newBase = strings.TrimPrefix(base, ".")
		if newBase == "" {
			return "", volinfo.NewError("set_hidden", volinfo.KindInvalidArgument)
		}
	}

	newPath := filepath.Join(dir, newBase)
	if _, err := os.Lstat(newPath); err == nil {
		return "", volinfo.NewError("set_hidden", volinfo.KindInvalidArgument)
	}

	if err := os.Rename(canon, newPath); err != nil {
		return "", volinfo.Wrap("set_hidden", volinfo.KindPlatformError, err)
	}
	return newPath, nil
}
