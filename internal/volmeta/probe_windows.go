//go:build windows

package volmeta

import (
	"context"
	"fmt"

	"github.com/yusufpapurcu/wmi"
	"golang.org/x/sys/windows"

	"github.com/photostructure/fs-metadata-engine/internal/healthcheck"
	"github.com/photostructure/fs-metadata-engine/internal/volinfo"
	"github.com/photostructure/fs-metadata-engine/internal/workerpool"
)

type windowsProber struct {
	pool    *workerpool.Pool
	checker *healthcheck.Checker
}

func newProber(pool *workerpool.Pool, checker *healthcheck.Checker, enrich bool) Prober {
	return &windowsProber{pool: pool, checker: checker}
}

func (p *windowsProber) Probe(ctx context.Context, mp volinfo.VolumeMountPoint, opts volinfo.Options) (volinfo.VolumeMetadata, error) {
	meta := volinfo.VolumeMetadata{VolumeMountPoint: mp}

	if !mp.Status.IsTerminalSuccess() {
		return meta, nil
	}

	rootPtr, err := windows.UTF16PtrFromString(mp.MountPoint)
	if err != nil {
		return meta, volinfo.Wrap("get_volume_metadata", volinfo.KindInvalidPath, err)
	}

	driveType := windows.GetDriveType(rootPtr)
	meta.Remote = driveType == windows.DRIVE_REMOTE

	var freeAvail, total, totalFree uint64
	if err := windows.GetDiskFreeSpaceEx(rootPtr, &freeAvail, &total, &totalFree); err != nil {
		return meta, volinfo.Wrap("get_volume_metadata", volinfo.KindPlatformError, err)
	}
	meta.Size = total
	meta.Available = freeAvail
	if total >= totalFree {
		meta.Used = total - totalFree
	}

	var volNameBuf [windows.MAX_PATH + 1]uint16
	var fsNameBuf [windows.MAX_PATH + 1]uint16
	var serial uint32
	identityResolved := false
	if err := windows.GetVolumeInformation(
		rootPtr,
		&volNameBuf[0], uint32(len(volNameBuf)),
		&serial, nil, nil,
		&fsNameBuf[0], uint32(len(fsNameBuf)),
	); err == nil {
		meta.Label = windows.UTF16ToString(volNameBuf[:])
		meta.FSType = windows.UTF16ToString(fsNameBuf[:])
		identityResolved = true
	}

	var volGUIDBuf [windows.MAX_PATH + 1]uint16
	if err := windows.GetVolumeNameForVolumeMountPoint(rootPtr, &volGUIDBuf[0], uint32(len(volGUIDBuf))); err == nil {
		meta.UUID = extractVolumeGUID(windows.UTF16ToString(volGUIDBuf[:]))
	} else {
		meta.UUID = fmt.Sprintf("%08X", serial)
	}

	if meta.Remote {
		if uri, err := uncPathForDrive(mp.MountPoint); err == nil && uri != "" {
			meta.URI = uri
		}
	}

	if mp.IsSystemVolume {
		meta.SetSystemVolumeSignal("mount_point_heuristic")
	}

	// Capacity already succeeded above; a failed GetVolumeInformation
	// call downgrades the result to partial rather than invalidating it.
	if identityResolved {
		meta.Status = volinfo.StatusHealthy
	} else {
		meta.Status = volinfo.StatusPartial
	}

	return meta, nil
}

// extractVolumeGUID pulls the GUID out of a \\?\Volume{GUID}\ string,
// falling back to the raw string if it isn't in that shape.
func extractVolumeGUID(volumeName string) string {
	const prefix = `\\?\Volume{`
	if len(volumeName) > len(prefix)+36 && volumeName[:len(prefix)] == prefix {
		return volumeName[len(prefix) : len(prefix)+36]
	}
	return volumeName
}

// logicalDiskWMI mirrors the Win32_LogicalDisk fields this engine
// needs to resolve a mapped drive letter back to its UNC path.
type logicalDiskWMI struct {
	DeviceID     string
	ProviderName string
}

func uncPathForDrive(root string) (string, error) {
	driveLetter := root
	if len(driveLetter) >= 2 {
		driveLetter = driveLetter[:2]
	}

	var results []logicalDiskWMI
	query := fmt.Sprintf("SELECT DeviceID, ProviderName FROM Win32_LogicalDisk WHERE DeviceID = '%s'", driveLetter)
	if err := wmi.Query(query, &results); err != nil {
		return "", err
	}
	if len(results) == 0 {
		return "", fmt.Errorf("volmeta: no Win32_LogicalDisk entry for %s", driveLetter)
	}
	return results[0].ProviderName, nil
}
