//go:build windows

package mountenum

import (
	"context"
	"fmt"

	"golang.org/x/sys/windows"

	"github.com/photostructure/fs-metadata-engine/internal/healthcheck"
	"github.com/photostructure/fs-metadata-engine/internal/volinfo"
	"github.com/photostructure/fs-metadata-engine/internal/workerpool"
)

type windowsEnumerator struct {
	pool    *workerpool.Pool
	checker *healthcheck.Checker
}

func newEnumerator(pool *workerpool.Pool, checker *healthcheck.Checker) Enumerator {
	return &windowsEnumerator{pool: pool, checker: checker}
}

func (e *windowsEnumerator) Enumerate(ctx context.Context, opts volinfo.Options) ([]volinfo.VolumeMountPoint, error) {
	mask, err := windows.GetLogicalDrives()
	if err != nil {
		return nil, volinfo.Wrap("enumerate_mount_points", volinfo.KindPlatformError, err)
	}

	timeout := probeTimeout(opts)
	results := make([]volinfo.VolumeMountPoint, 0, 26)

	for i := 0; i < 26; i++ {
		if mask&(1<<uint(i)) == 0 {
			continue
		}
		root := fmt.Sprintf("%c:\\", 'A'+i)
		driveType := windows.GetDriveType(windows.StringToUTF16Ptr(root))

		if driveType == windows.DRIVE_NO_ROOT_DIR {
			continue
		}

		if excludedMountPointGlob(opts, root) {
			continue
		}

		// Health-check before querying volume information: a
		// disconnected mapped drive or stalled removable medium can
		// make GetVolumeInformation hang indefinitely, so it only
		// runs once the bounded probe has confirmed the drive
		// responds.
		status := e.checker.Check(ctx, root, timeout, probeVolumeRoot)

		var fstype string
		if status == volinfo.StatusHealthy {
			fstype = volumeFSType(root)
			if opts.ExcludesFSType(fstype) {
				continue
			}
		}

		results = append(results, volinfo.VolumeMountPoint{
			MountPoint:     root,
			FSType:         fstype,
			Status:         status,
			IsSystemVolume: isSystemDrive(root, driveType),
		})
	}

	return results, nil
}

func isSystemDrive(root string, driveType uint32) bool {
	if driveType == windows.DRIVE_FIXED && root == systemDriveRoot() {
		return true
	}
	return false
}

func volumeFSType(root string) string {
	var fsNameBuf [windows.MAX_PATH + 1]uint16
	rootPtr := windows.StringToUTF16Ptr(root)
	err := windows.GetVolumeInformation(
		rootPtr,
		nil, 0,
		nil, nil, nil,
		&fsNameBuf[0], uint32(len(fsNameBuf)),
	)
	if err != nil {
		return ""
	}
	return windows.UTF16ToString(fsNameBuf[:])
}

func probeVolumeRoot(ctx context.Context, path string) error {
	ptr, err := windows.UTF16PtrFromString(path)
	if err != nil {
		return err
	}
	h, err := windows.CreateFile(
		ptr,
		windows.GENERIC_READ,
		windows.FILE_SHARE_READ|windows.FILE_SHARE_WRITE,
		nil,
		windows.OPEN_EXISTING,
		windows.FILE_FLAG_BACKUP_SEMANTICS,
		0,
	)
	if err != nil {
		return err
	}
	defer windows.CloseHandle(h)
	return nil
}

func systemDriveRoot() string {
	dir, err := windows.GetWindowsDirectory()
	if err != nil || len(dir) < 2 {
		return `C:\`
	}
	return dir[:2] + `\`
}
