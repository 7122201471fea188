// Package mountenum enumerates mounted volumes and reports each one's
// bounded-latency health status. The wire-level record type and
// options shape live in internal/volinfo; this package only fills
// them in, using the Drive Health Checker for per-mount probing so
// that a hung network share never stalls the whole enumeration.
package mountenum

import (
	"context"
	"time"

	"github.com/bmatcuk/doublestar/v4"

	"github.com/photostructure/fs-metadata-engine/internal/healthcheck"
	"github.com/photostructure/fs-metadata-engine/internal/volinfo"
	"github.com/photostructure/fs-metadata-engine/internal/workerpool"
)

// Enumerator lists mounted volumes for one platform.
type Enumerator interface {
	Enumerate(ctx context.Context, opts volinfo.Options) ([]volinfo.VolumeMountPoint, error)
}

// New builds the platform enumerator backed by pool and checker.
// Platform-specific constructors are named newEnumerator and selected
// by build tag.
func New(pool *workerpool.Pool, checker *healthcheck.Checker) Enumerator {
	return newEnumerator(pool, checker)
}

// excluded reports whether mountPoint or fstype should be dropped from
// the result per opts, honoring IncludeSystemVolumes as an override
// for the filesystem-type exclusion list and always applying the glob
// list regardless (globs target specific known-noisy mount points,
// not volume class).
func excluded(opts volinfo.Options, mountPoint, fstype string) bool {
	if opts.ExcludesFSType(fstype) {
		return true
	}
	for _, pattern := range opts.ExcludedMountPointGlobs {
		if ok, _ := doublestar.Match(pattern, mountPoint); ok {
			return true
		}
	}
	return false
}

// excludedMountPointGlob applies only the mount-point glob exclusion,
// for callers that must decide whether to skip a mount before an
// expensive fstype lookup is safe to perform (e.g. a volume-info
// query against a drive that hasn't been health-checked yet).
func excludedMountPointGlob(opts volinfo.Options, mountPoint string) bool {
	for _, pattern := range opts.ExcludedMountPointGlobs {
		if ok, _ := doublestar.Match(pattern, mountPoint); ok {
			return true
		}
	}
	return false
}

// probeTimeout returns the per-mount health-probe timeout, derived
// from the overall operation timeout but capped so a single stalled
// mount cannot consume the entire budget when many mounts are present.
func probeTimeout(opts volinfo.Options) time.Duration {
	total := opts.Timeout()
	const maxProbe = 2 * time.Second
	if total < maxProbe {
		return total
	}
	return maxProbe
}
