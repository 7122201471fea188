//go:build windows

package healthcheck

import (
	"errors"

	"golang.org/x/sys/windows"

	"github.com/photostructure/fs-metadata-engine/internal/volinfo"
)

// classify maps a directory-open error to the unified status
// vocabulary.
func classify(err error) volinfo.Status {
	if err == nil {
		return volinfo.StatusHealthy
	}

	var errno windows.Errno
	if !errors.As(err, &errno) {
		return volinfo.StatusUnknown
	}

	switch errno {
	case windows.ERROR_FILE_NOT_FOUND, windows.ERROR_PATH_NOT_FOUND,
		windows.ERROR_ACCESS_DENIED, windows.ERROR_SHARING_VIOLATION:
		return volinfo.StatusInaccessible
	case windows.ERROR_BAD_NET_NAME, windows.ERROR_BAD_NETPATH,
		windows.ERROR_NETNAME_DELETED,
		windows.WSAENETUNREACH, windows.WSAENOTCONN:
		return volinfo.StatusDisconnected
	default:
		return volinfo.StatusUnknown
	}
}
