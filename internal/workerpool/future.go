package workerpool

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/photostructure/fs-metadata-engine/internal/volinfo"
)

// Job is the unit of background work a Future resolves. Its result is
// either a value or an error, never both, and never mutated after the
// job body returns.
type Job[T any] func(ctx context.Context) (T, error)

// Future is the handle returned from every public operation. It is
// resolved exactly once by the worker pool; Wait implements a bounded
// wait with discard-on-timeout: a timed-out Wait does not cancel the
// underlying job, it just stops waiting for it. Submission also
// carries a correlation ID for log correlation across a timeout.
type Future[T any] struct {
	id    string
	done  <-chan struct{}
	value *T
	err   *error
}

// Submit runs job on p's worker pool and returns a Future for its
// result. Submit itself never blocks on the job completing.
func Submit[T any](p *Pool, job Job[T]) *Future[T] {
	f := &Future[T]{id: uuid.NewString()}
	var value T
	// Stays ErrPoolClosed only if the pool never runs job.
	var jobErr error = ErrPoolClosed
	f.value = &value
	f.err = &jobErr

	f.done = p.submit(func(ctx context.Context) {
		value, jobErr = job(ctx)
		*f.value = value
		*f.err = jobErr
	})
	return f
}

// ID returns the future's correlation ID, useful for log lines that
// need to tie a timeout back to the job that eventually (and
// uselessly, from the caller's point of view) completed.
func (f *Future[T]) ID() string { return f.id }

// Wait blocks until the job completes, ctx is cancelled, or timeout
// elapses, whichever comes first. A timeout or context cancellation
// returns a *volinfo.Error with KindTimeout; the underlying job keeps
// running to completion and its result, once available, is simply
// discarded -- no extra goroutine is spun up to cancel it.
func (f *Future[T]) Wait(ctx context.Context, timeout time.Duration) (T, error) {
	var zero T

	timer := time.NewTimer(timeout)
	defer timer.Stop()

	select {
	case <-f.done:
		return *f.value, *f.err
	case <-ctx.Done():
		return zero, volinfo.Wrap("future.Wait", volinfo.KindTimeout, ctx.Err())
	case <-timer.C:
		return zero, volinfo.NewError("future.Wait", volinfo.KindTimeout)
	}
}

// Done reports whether the future has already resolved, without
// blocking.
func (f *Future[T]) Done() bool {
	select {
	case <-f.done:
		return true
	default:
		return false
	}
}
