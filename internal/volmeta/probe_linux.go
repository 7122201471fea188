//go:build linux

package volmeta

import (
	"bufio"
	"context"
	"os"
	"strings"

	"golang.org/x/sys/unix"

	"github.com/photostructure/fs-metadata-engine/internal/healthcheck"
	"github.com/photostructure/fs-metadata-engine/internal/rawio"
	"github.com/photostructure/fs-metadata-engine/internal/volinfo"
	"github.com/photostructure/fs-metadata-engine/internal/workerpool"
)

// remoteFilesystems marks filesystem types whose device field is a
// URI rather than a block device path; blkid is skipped for these
// since it never has tags for a network share.
var remoteFilesystems = map[string]struct{}{
	"nfs": {}, "nfs4": {}, "nfsd": {}, "cifs": {}, "smbfs": {}, "smb3": {},
	"9p": {}, "fuse.sshfs": {}, "fuse.gvfsd-fuse": {}, "ceph": {}, "glusterfs": {},
}

type linuxProber struct {
	pool    *workerpool.Pool
	checker *healthcheck.Checker
	enrich  bool
}

func newProber(pool *workerpool.Pool, checker *healthcheck.Checker, enrich bool) Prober {
	return &linuxProber{pool: pool, checker: checker, enrich: enrich}
}

func (p *linuxProber) Probe(ctx context.Context, mp volinfo.VolumeMountPoint, opts volinfo.Options) (volinfo.VolumeMetadata, error) {
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

	_, remote := remoteFilesystems[mp.FSType]
	meta.Remote = remote

	identityResolved := false
	if remote {
		meta.URI = mp.FSType + "://" + mp.MountPoint
		identityResolved = true
	} else if device, err := deviceForMountPoint(mp.MountPoint); err == nil && device != "" {
		meta.MountFrom = device
		cache := rawio.OpenBlkidCache()
		tags, tagErr := cache.LookupTags(ctx, device)
		cache.Release()
		if tagErr == nil {
			meta.UUID = tags["UUID"]
			meta.Label = tags["LABEL"]
			identityResolved = true
		}
	}

	if p.enrich && meta.Label == "" && meta.MountFrom != "" {
		enrichCtx, cancel := context.WithTimeout(ctx, opts.Timeout())
		if label := filesystemLabelForDevice(enrichCtx, meta.MountFrom); label != "" {
			meta.Label = label
		}
		cancel()
	}

	if mp.IsSystemVolume {
		meta.SetSystemVolumeSignal("mount_point_heuristic")
	}

	// Capacity already succeeded above; a failed identity lookup
	// downgrades the result to partial rather than invalidating it.
	if identityResolved {
		meta.Status = volinfo.StatusHealthy
	} else {
		meta.Status = volinfo.StatusPartial
	}

	return meta, nil
}

// deviceForMountPoint reads /proc/mounts directly to recover the
// device path for mountPoint; the mount enumerator may already have
// this, but the metadata probe is also callable on its own, with no
// enumeration step to reuse.
func deviceForMountPoint(mountPoint string) (string, error) {
	f, err := os.Open("/proc/mounts")
	if err != nil {
		return "", err
	}
	defer f.Close()

	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		fields := strings.Fields(scanner.Text())
		if len(fields) < 2 {
			continue
		}
		if fields[1] == mountPoint {
			return fields[0], nil
		}
	}
	return "", scanner.Err()
}
