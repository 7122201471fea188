// Package healthcheck submits a directory-open probe to the shared
// worker pool, waits on a bounded future, and classifies whatever the
// probe returns via a fixed OS-error-code table. A timeout never
// cancels the probe -- it just stops waiting for it.
package healthcheck

import (
	"context"
	"time"

	"github.com/photostructure/fs-metadata-engine/internal/volinfo"
	"github.com/photostructure/fs-metadata-engine/internal/workerpool"
)

// Prober attempts to open/access path and returns the raw OS error, if
// any. It is expected to do real I/O and therefore must run on a
// worker, never on the caller's goroutine.
type Prober func(ctx context.Context, path string) error

// Checker submits health probes to a shared worker pool.
type Checker struct {
	pool *workerpool.Pool
}

// New builds a Checker backed by pool.
func New(pool *workerpool.Pool) *Checker {
	return &Checker{pool: pool}
}

// Check runs probe against path on a worker and returns the unified
// status within timeout. If the bounded wait expires, the probe is
// left running and its eventual result discarded; the caller gets
// StatusTimeout either way.
func (c *Checker) Check(ctx context.Context, path string, timeout time.Duration, probe Prober) volinfo.Status {
	f := workerpool.Submit(c.pool, func(jobCtx context.Context) (volinfo.Status, error) {
		err := probe(jobCtx, path)
		return classify(err), nil
	})

	status, err := f.Wait(ctx, timeout)
	if err != nil {
		// Wait only fails with a timeout/cancellation error or, once
		// the pool is shut down, ErrPoolClosed; the job itself never
		// returns a non-nil error (see above).
		return volinfo.StatusTimeout
	}
	return status
}
