//go:build darwin

package mountenum

import (
	"context"
	"strings"
	"sync"

	"golang.org/x/sync/errgroup"
	"golang.org/x/sys/unix"

	"github.com/photostructure/fs-metadata-engine/internal/healthcheck"
	"github.com/photostructure/fs-metadata-engine/internal/volinfo"
	"github.com/photostructure/fs-metadata-engine/internal/workerpool"
)

// maxConcurrentProbes bounds how many mount points this engine probes
// at once: a stalled network share's probe goroutine is cheap, but
// issuing hundreds at once against a flaky router is not considerate
// of a small machine's file-descriptor budget.
const maxConcurrentProbes = 4

type darwinEnumerator struct {
	pool    *workerpool.Pool
	checker *healthcheck.Checker
}

func newEnumerator(pool *workerpool.Pool, checker *healthcheck.Checker) Enumerator {
	return &darwinEnumerator{pool: pool, checker: checker}
}

func (e *darwinEnumerator) Enumerate(ctx context.Context, opts volinfo.Options) ([]volinfo.VolumeMountPoint, error) {
	entries, err := getfsstatAll()
	if err != nil {
		return nil, volinfo.Wrap("enumerate_mount_points", volinfo.KindPlatformError, err)
	}

	timeout := probeTimeout(opts)

	// A plain (non-WithContext) group never cancels siblings when one
	// probe errors -- each mount's health is independent, and Check
	// never actually returns an error here (StatusTimeout absorbs it),
	// but SetLimit's bounded fan-out is exactly the "at most 4
	// concurrent probes" rule this enumerator needs.
	var g errgroup.Group
	g.SetLimit(maxConcurrentProbes)

	var mu sync.Mutex
	results := make([]volinfo.VolumeMountPoint, 0, len(entries))

	for _, entry := range entries {
		if excluded(opts, entry.mountPoint, entry.fstype) {
			continue
		}
		entry := entry

		g.Go(func() error {
			status := e.checker.Check(ctx, entry.mountPoint, timeout, probeDir)
			mp := volinfo.VolumeMountPoint{
				MountPoint:     entry.mountPoint,
				FSType:         entry.fstype,
				Status:         status,
				IsSystemVolume: isSystemMountPoint(entry.mountPoint, entry.fstype),
			}
			mu.Lock()
			results = append(results, mp)
			mu.Unlock()
			return nil
		})
	}
	g.Wait()

	return results, nil
}

func probeDir(ctx context.Context, path string) error {
	fd, err := unix.Open(path, unix.O_RDONLY|unix.O_CLOEXEC|unix.O_DIRECTORY|unix.O_NONBLOCK, 0)
	if err != nil {
		return err
	}
	defer unix.Close(fd)
	var st unix.Stat_t
	return unix.Fstat(fd, &st)
}

type mountEntry struct {
	device     string
	mountPoint string
	fstype     string
}

func getfsstatAll() ([]mountEntry, error) {
	n, err := unix.Getfsstat(nil, unix.MNT_NOWAIT)
	if err != nil {
		return nil, err
	}
	buf := make([]unix.Statfs_t, n)
	n, err = unix.Getfsstat(buf, unix.MNT_NOWAIT)
	if err != nil {
		return nil, err
	}

	entries := make([]mountEntry, 0, n)
	for _, fs := range buf[:n] {
		entries = append(entries, mountEntry{
			device:     unix.ByteSliceToString(fs.Mntfromname[:]),
			mountPoint: unix.ByteSliceToString(fs.Mntonname[:]),
			fstype:     unix.ByteSliceToString(fs.Fstypename[:]),
		})
	}
	return entries, nil
}

func isSystemMountPoint(mountPoint, fstype string) bool {
	switch mountPoint {
	case "/", "/System/Volumes/Data", "/System/Volumes/VM",
		"/System/Volumes/Preboot", "/System/Volumes/Update":
		return true
	}
	return strings.HasPrefix(mountPoint, "/System/") ||
		strings.HasPrefix(mountPoint, "/private/var/vm") ||
		fstype == "devfs" || fstype == "autofs"
}
