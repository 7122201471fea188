//go:build darwin

package volmeta

import (
	"context"

	"golang.org/x/sys/unix"
	"howett.net/plist"

	"github.com/photostructure/fs-metadata-engine/internal/healthcheck"
	"github.com/photostructure/fs-metadata-engine/internal/rawio"
	"github.com/photostructure/fs-metadata-engine/internal/volinfo"
	"github.com/photostructure/fs-metadata-engine/internal/workerpool"
)

var remoteFilesystems = map[string]struct{}{
	"nfs": {}, "smbfs": {}, "afpfs": {}, "webdav": {},
}

type darwinProber struct {
	pool    *workerpool.Pool
	checker *healthcheck.Checker
}

func newProber(pool *workerpool.Pool, checker *healthcheck.Checker, enrich bool) Prober {
	return &darwinProber{pool: pool, checker: checker}
}

// diskutilInfo is the subset of `diskutil info -plist` this engine
// reads. The real plist has dozens of keys; only the ones this engine
// needs are declared.
type diskutilInfo struct {
	VolumeName           string `plist:"VolumeName"`
	VolumeUUID           string `plist:"VolumeUUID"`
	DeviceNode           string `plist:"DeviceNode"`
	FilesystemType       string `plist:"FilesystemType"`
	NetworkVolume        bool   `plist:"NetworkVolume"`
	MountedNetworkVolume bool   `plist:"MountedNetworkVolume"`
}

func (p *darwinProber) Probe(ctx context.Context, mp volinfo.VolumeMountPoint, opts volinfo.Options) (volinfo.VolumeMetadata, error) {
	meta := volinfo.VolumeMetadata{VolumeMountPoint: mp}

	if !mp.Status.IsTerminalSuccess() {
		return meta, nil
	}

	fd, err := rawio.OpenDirFD(mp.MountPoint)
	if err != nil {
		return meta, volinfo.Wrap("get_volume_metadata", volinfo.KindPlatformError, err)
	}
	defer fd.Release()

	var st unix.Statfs_t
	if err := unix.Fstatfs(fd.FD(), &st); err != nil {
		return meta, volinfo.Wrap("get_volume_metadata", volinfo.KindPlatformError, err)
	}

	size, err := blockCapacity("get_volume_metadata", uint64(st.Bsize), st.Blocks)
	if err != nil {
		return meta, err
	}
	avail, err := blockCapacity("get_volume_metadata", uint64(st.Bsize), st.Bavail)
	if err != nil {
		return meta, err
	}
	free, err := blockCapacity("get_volume_metadata", uint64(st.Bsize), st.Bfree)
	if err != nil {
		return meta, err
	}
	meta.Size = size
	meta.Available = avail
	if size >= free {
		meta.Used = size - free
	}

	_, knownRemote := remoteFilesystems[mp.FSType]
	if knownRemote {
		meta.Remote = true
		meta.URI = mp.FSType + "://" + mp.MountPoint
		meta.Status = volinfo.StatusHealthy
		// diskutil has nothing useful to add for a network mount, and
		// shelling out to it for every NFS/SMB share only adds latency.
		return meta, nil
	}

	info, err := diskutilInfoFor(ctx, mp.MountPoint)
	if err != nil {
		// diskutil enrichment is best-effort; capacity is already
		// filled in from the fd-based statfs above, but without an
		// identity the result is only partial.
		meta.Status = volinfo.StatusPartial
		return meta, nil
	}

	meta.MountFrom = info.DeviceNode
	meta.Label = info.VolumeName
	meta.UUID = info.VolumeUUID
	meta.Remote = info.NetworkVolume || info.MountedNetworkVolume
	if meta.Remote {
		meta.URI = info.FilesystemType + "://" + mp.MountPoint
	}

	if mp.IsSystemVolume {
		meta.SetSystemVolumeSignal("mount_point_heuristic")
	}

	meta.Status = volinfo.StatusHealthy
	return meta, nil
}

func diskutilInfoFor(ctx context.Context, identifier string) (diskutilInfo, error) {
	session, out, err := rawio.OpenDiskutilSession(ctx, identifier)
	if err != nil {
		return diskutilInfo{}, err
	}
	defer session.Release()

	var info diskutilInfo
	if err := plist.Unmarshal(out.Bytes(), &info); err != nil {
		return diskutilInfo{}, err
	}
	return info, nil
}
