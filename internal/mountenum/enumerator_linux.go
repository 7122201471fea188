//go:build linux

package mountenum

import (
	"bufio"
	"context"
	"io"
	"os"
	"strings"

	"golang.org/x/sys/unix"

	"github.com/photostructure/fs-metadata-engine/internal/healthcheck"
	"github.com/photostructure/fs-metadata-engine/internal/volinfo"
	"github.com/photostructure/fs-metadata-engine/internal/workerpool"
)

// defaultMountTablePaths is tried in order when Options doesn't name
// one; /proc/mounts is preferred over /etc/mtab since it reflects the
// live kernel mount table even when mtab has drifted or isn't a
// symlink to it.
var defaultMountTablePaths = []string{"/proc/mounts", "/proc/self/mounts", "/etc/mtab"}

type linuxEnumerator struct {
	pool    *workerpool.Pool
	checker *healthcheck.Checker
}

func newEnumerator(pool *workerpool.Pool, checker *healthcheck.Checker) Enumerator {
	return &linuxEnumerator{pool: pool, checker: checker}
}

func (e *linuxEnumerator) Enumerate(ctx context.Context, opts volinfo.Options) ([]volinfo.VolumeMountPoint, error) {
	entries, err := readMountTable(opts)
	if err != nil {
		return nil, volinfo.Wrap("enumerate_mount_points", volinfo.KindPlatformError, err)
	}

	timeout := probeTimeout(opts)
	results := make([]volinfo.VolumeMountPoint, 0, len(entries))

	for _, entry := range entries {
		if _, pseudo := pseudoFilesystems[entry.fstype]; pseudo {
			continue
		}
		if excluded(opts, entry.mountPoint, entry.fstype) {
			continue
		}

		status := e.checker.Check(ctx, entry.mountPoint, timeout, probeDir)
		results = append(results, volinfo.VolumeMountPoint{
			MountPoint:     entry.mountPoint,
			FSType:         entry.fstype,
			Status:         status,
			IsSystemVolume: isSystemMountPoint(entry.mountPoint, entry.fstype),
		})
	}

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

func readMountTable(opts volinfo.Options) ([]mountEntry, error) {
	paths := opts.LinuxMountTablePaths
	if len(paths) == 0 {
		paths = defaultMountTablePaths
	}

	var lastErr error
	for _, path := range paths {
		f, err := os.Open(path)
		if err != nil {
			lastErr = err
			continue
		}
		entries, err := parseMountTable(f)
		f.Close()
		if err != nil {
			lastErr = err
			continue
		}
		return entries, nil
	}
	return nil, lastErr
}

func parseMountTable(r io.Reader) ([]mountEntry, error) {
	var entries []mountEntry
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		fields := strings.Fields(scanner.Text())
		if len(fields) < 3 {
			continue
		}
		entries = append(entries, mountEntry{
			device:     fields[0],
			mountPoint: decodeMountPath(fields[1]),
			fstype:     fields[2],
		})
	}
	return entries, scanner.Err()
}

// decodeMountPath replaces the octal escapes /proc/mounts uses for
// spaces, tabs, backslashes, and newlines embedded in a mount path.
func decodeMountPath(s string) string {
	s = strings.ReplaceAll(s, `\040`, " ")
	s = strings.ReplaceAll(s, `\011`, "\t")
	s = strings.ReplaceAll(s, `\012`, "\n")
	s = strings.ReplaceAll(s, `\134`, `\`)
	return s
}

// pseudoFilesystems are virtual filesystems with no real storage
// device backing them; they are never candidates for capacity/health
// reporting regardless of the caller's exclusion list.
var pseudoFilesystems = map[string]struct{}{
	"proc": {}, "sysfs": {}, "devtmpfs": {}, "devpts": {}, "tmpfs": {},
	"cgroup": {}, "cgroup2": {}, "pstore": {}, "bpf": {}, "tracefs": {},
	"debugfs": {}, "securityfs": {}, "configfs": {}, "mqueue": {},
	"hugetlbfs": {}, "autofs": {}, "overlay": {}, "squashfs": {},
	"fusectl": {}, "binfmt_misc": {},
}

func isSystemMountPoint(mountPoint, fstype string) bool {
	if _, ok := pseudoFilesystems[fstype]; ok {
		return true
	}
	switch mountPoint {
	case "/", "/boot", "/boot/efi":
		return true
	}
	return strings.HasPrefix(mountPoint, "/sys") ||
		strings.HasPrefix(mountPoint, "/proc") ||
		strings.HasPrefix(mountPoint, "/dev") ||
		strings.HasPrefix(mountPoint, "/run") ||
		strings.HasPrefix(mountPoint, "/snap/")
}
