//go:build linux || darwin

package healthcheck

import (
	"errors"

	"golang.org/x/sys/unix"

	"github.com/photostructure/fs-metadata-engine/internal/volinfo"
)

// classify maps a directory-open error to the unified status
// vocabulary: permission/lookup failures are "inaccessible", network
// transport failures are "disconnected."
func classify(err error) volinfo.Status {
	if err == nil {
		return volinfo.StatusHealthy
	}

	var errno unix.Errno
	if !errors.As(err, &errno) {
		return volinfo.StatusUnknown
	}

	switch errno {
	case unix.ENOENT, unix.EACCES, unix.EPERM, unix.EBUSY, unix.ENOTDIR:
		return volinfo.StatusInaccessible
	case unix.ENETUNREACH, unix.ENOTCONN, unix.ETIMEDOUT, unix.EHOSTUNREACH,
		unix.ECONNREFUSED, unix.ESTALE:
		return volinfo.StatusDisconnected
	default:
		return volinfo.StatusUnknown
	}
}
