// Package volmeta fills in a VolumeMetadata record's capacity and
// identity fields for one mount point: total/used/available bytes,
// label, UUID, remote/URI. The Linux and macOS probes read capacity
// from a TOCTOU-safe fd-based call; the Windows probe uses the
// path-based GetDiskFreeSpaceEx. Identity comes from whatever native
// subsystem or CLI the platform actually exposes.
package volmeta

import (
	"context"

	"github.com/photostructure/fs-metadata-engine/internal/healthcheck"
	"github.com/photostructure/fs-metadata-engine/internal/volinfo"
	"github.com/photostructure/fs-metadata-engine/internal/workerpool"
)

// Prober fills in capacity and identity fields for one mount point.
type Prober interface {
	Probe(ctx context.Context, mp volinfo.VolumeMountPoint, opts volinfo.Options) (volinfo.VolumeMetadata, error)
}

// New builds the platform metadata prober backed by pool and checker.
// enrich turns on the Linux D-Bus/UDisks2 label lookup; other
// platforms ignore it, since their identity lookups (diskutil, WMI)
// are always attempted regardless.
func New(pool *workerpool.Pool, checker *healthcheck.Checker, enrich bool) Prober {
	return newProber(pool, checker, enrich)
}

// blockCapacity multiplies blockSize by blockCount, returning a
// KindOverflow error instead of silently wrapping when the product
// would not fit in a uint64 -- a corrupted or adversarial statfs
// result should never produce a nonsensical capacity value.
func blockCapacity(op string, blockSize, blockCount uint64) (uint64, error) {
	if blockSize == 0 || blockCount == 0 {
		return 0, nil
	}
	product := blockSize * blockCount
	if product/blockSize != blockCount {
		return 0, volinfo.NewError(op, volinfo.KindOverflow)
	}
	return product, nil
}
