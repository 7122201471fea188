//go:build darwin

package hidden

import (
	"golang.org/x/sys/unix"

	"github.com/photostructure/fs-metadata-engine/internal/rawio"
	"github.com/photostructure/fs-metadata-engine/internal/volinfo"
)

// Strategy selects which hidden-attribute mechanism SetHidden applies.
// macOS filesystems support both a dot-prefixed name and the UF_HIDDEN
// flag; HFS+/APFS Finder treats either as sufficient to hide an item,
// so this engine defaults to setting both for maximum compatibility
// with tools that only check one.
type Strategy int

const (
	StrategyDotPrefix Strategy = iota
	StrategySystemFlag
	StrategyBoth
)

// DefaultStrategy is applied when SetHidden's caller doesn't pick one.
var DefaultStrategy = StrategyBoth

// SetHidden applies DefaultStrategy's mechanism(s) to path and returns
// the path's name after the mutation. If the UF_HIDDEN flag can't be
// set (filesystem doesn't support it, e.g. a mounted FAT volume) but
// the dot-prefix rename that follows succeeds, the flag failure is not
// surfaced -- the item is hidden either way.
func SetHidden(path string, hidden bool) (string, error) {
	return SetHiddenStrategy(path, hidden, DefaultStrategy)
}

func SetHiddenStrategy(path string, hidden bool, strategy Strategy) (string, error) {
	if strategy == StrategyDotPrefix {
		return setHiddenByRename(path, hidden)
	}

	canon, err := canonicalizeForMutation("set_hidden", path)
	if err != nil {
		return "", err
	}

	flagErr := setHiddenFlag(canon, hidden)

	if strategy == StrategySystemFlag {
		if flagErr != nil {
			return "", flagErr
		}
		return canon, nil
	}

	// StrategyBoth: the flag was already applied to canon above (a
	// rename keeps the inode's flags), so only the rename is left; a
	// flag failure is dropped once the rename succeeds.
	newPath, renameErr := setHiddenByRename(path, hidden)
	if renameErr != nil {
		return "", renameErr
	}
	return newPath, nil
}

func setHiddenFlag(path string, hidden bool) error {
	fd, err := rawio.OpenDirFD(path)
	if err != nil {
		// path may be a regular file, which O_DIRECTORY refuses;
		// fall back to the path-based call for non-directories.
		return setHiddenFlagByPath(path, hidden)
	}
	defer fd.Release()

	var st unix.Stat_t
	if err := unix.Fstat(fd.FD(), &st); err != nil {
		return volinfo.Wrap("set_hidden", volinfo.KindPlatformError, err)
	}

	flags := st.Flags
	if hidden {
		flags |= unix.UF_HIDDEN
	} else {
		flags &^= unix.UF_HIDDEN
	}
	if err := unix.Fchflags(fd.FD(), int(flags)); err != nil {
		return volinfo.Wrap("set_hidden", volinfo.KindPlatformError, err)
	}
	return nil
}

func setHiddenFlagByPath(path string, hidden bool) error {
	var st unix.Stat_t
	if err := unix.Stat(path, &st); err != nil {
		return volinfo.Wrap("set_hidden", volinfo.KindPlatformError, err)
	}
	flags := st.Flags
	if hidden {
		flags |= unix.UF_HIDDEN
	} else {
		flags &^= unix.UF_HIDDEN
	}
	if err := unix.Chflags(path, int(flags)); err != nil {
		return volinfo.Wrap("set_hidden", volinfo.KindPlatformError, err)
	}
	return nil
}
