//go:build linux

package hidden

// SetHidden sets or clears the leading dot on path's basename, the
// only hidden-attribute mechanism Linux filesystems have. It returns
// the path's new name after the rename.
func SetHidden(path string, hidden bool) (string, error) {
	return setHiddenByRename(path, hidden)
}
