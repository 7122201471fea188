// Package fsmetadata is the public façade: a thin dispatcher that
// selects the compiled-in backend by build target and exposes the
// four operations every host binding calls. It never interprets OS
// errors itself -- that's the backends' job -- it only builds the
// shared worker pool, wires the Drive Health Checker, and forwards.
package fsmetadata

import (
	"context"
	"errors"
	"time"

	"github.com/photostructure/fs-metadata-engine/internal/healthcheck"
	"github.com/photostructure/fs-metadata-engine/internal/hidden"
	"github.com/photostructure/fs-metadata-engine/internal/mountenum"
	"github.com/photostructure/fs-metadata-engine/internal/telemetry"
	"github.com/photostructure/fs-metadata-engine/internal/volinfo"
	"github.com/photostructure/fs-metadata-engine/internal/volmeta"
	"github.com/photostructure/fs-metadata-engine/internal/workerpool"
)

// Re-exported types so callers never need to import internal/volinfo
// directly.
type (
	VolumeMountPoint = volinfo.VolumeMountPoint
	VolumeMetadata   = volinfo.VolumeMetadata
	Options          = volinfo.Options
	Status           = volinfo.Status
	Error            = volinfo.Error
	ErrorKind        = volinfo.ErrorKind
)

// Future is the handle returned from every operation below.
type Future[T any] = workerpool.Future[T]

const (
	StatusHealthy      = volinfo.StatusHealthy
	StatusUnavailable  = volinfo.StatusUnavailable
	StatusInaccessible = volinfo.StatusInaccessible
	StatusDisconnected = volinfo.StatusDisconnected
	StatusTimeout      = volinfo.StatusTimeout
	StatusNoMedia      = volinfo.StatusNoMedia
	StatusError        = volinfo.StatusError
	StatusUnknown      = volinfo.StatusUnknown
	StatusPartial      = volinfo.StatusPartial
)

// Engine owns the process's shared worker pool and the compiled-in
// per-OS backends. Build one with New and reuse it; Engine is safe for
// concurrent use by multiple goroutines.
type Engine struct {
	pool      *workerpool.Pool
	checker   *healthcheck.Checker
	enumer    mountenum.Enumerator
	prober    volmeta.Prober
	recorder  *telemetry.Recorder
	enrich    bool
	poolSize  int
	shutdownT time.Duration
}

// Option configures an Engine at construction time.
type Option func(*Engine)

// WithPoolSize overrides the worker pool's default size (matched to
// host concurrency when unset or <= 0).
func WithPoolSize(n int) Option {
	return func(e *Engine) { e.poolSize = n }
}

// WithEnrichment turns on the Linux D-Bus/UDisks2 label-and-URI
// enrichment pass. Off by default: enrichment is always best-effort
// when on, but it is an engine-construction-time toggle rather than a
// per-call option, since Options is kept to its documented keys.
func WithEnrichment() Option {
	return func(e *Engine) { e.enrich = true }
}

// WithRecorder registers r as the engine's telemetry sink. r may be
// nil, in which case telemetry recording is a no-op.
func WithRecorder(r *telemetry.Recorder) Option {
	return func(e *Engine) { e.recorder = r }
}

// WithShutdownTimeout overrides how long Close waits for in-flight
// jobs to drain before giving up and returning anyway.
func WithShutdownTimeout(d time.Duration) Option {
	return func(e *Engine) { e.shutdownT = d }
}

// New builds an Engine with one shared worker pool for the process.
func New(opts ...Option) *Engine {
	e := &Engine{shutdownT: 30 * time.Second}
	for _, opt := range opts {
		opt(e)
	}

	e.pool = workerpool.New(e.poolSize)
	e.checker = healthcheck.New(e.pool)
	e.enumer = mountenum.New(e.pool, e.checker)
	e.prober = volmeta.New(e.pool, e.checker, e.enrich)
	return e
}

// Close shuts down the engine's worker pool, waiting up to the
// configured shutdown timeout for in-flight jobs to finish.
func (e *Engine) Close() {
	e.pool.Shutdown(e.shutdownT)
}

// EnumerateMountPoints lists mounted volumes with bounded-latency
// health status, per opts.
func (e *Engine) EnumerateMountPoints(ctx context.Context, opts Options) *Future[[]VolumeMountPoint] {
	normalized := opts.Normalize()
	start := time.Now()
	f := workerpool.Submit(e.pool, func(jobCtx context.Context) ([]VolumeMountPoint, error) {
		result, err := e.enumer.Enumerate(jobCtx, normalized)
		e.record("enumerate_mount_points", err, start)
		return result, err
	})
	return f
}

// GetVolumeMetadata fills in capacity and identity fields for one
// already-enumerated mount point.
func (e *Engine) GetVolumeMetadata(ctx context.Context, mp VolumeMountPoint, opts Options) *Future[VolumeMetadata] {
	normalized := opts.Normalize()
	start := time.Now()
	f := workerpool.Submit(e.pool, func(jobCtx context.Context) (VolumeMetadata, error) {
		result, err := e.prober.Probe(jobCtx, mp, normalized)
		e.record("get_volume_metadata", err, start)
		return result, err
	})
	return f
}

// IsHidden reports whether path currently has the platform's hidden
// attribute set.
func (e *Engine) IsHidden(ctx context.Context, path string) *Future[bool] {
	start := time.Now()
	return workerpool.Submit(e.pool, func(jobCtx context.Context) (bool, error) {
		result, err := hidden.IsHidden(path)
		e.record("is_hidden", err, start)
		return result, err
	})
}

// SetHidden sets or clears path's hidden attribute and returns the
// path's name after the mutation. On POSIX systems using the
// dot-prefix strategy this differs from path -- e.g. hiding
// "/data/note.txt" yields "/data/.note.txt" -- since the basename
// itself carries the hidden state.
func (e *Engine) SetHidden(ctx context.Context, path string, hideIt bool) *Future[string] {
	start := time.Now()
	return workerpool.Submit(e.pool, func(jobCtx context.Context) (string, error) {
		newPath, err := hidden.SetHidden(path, hideIt)
		e.record("set_hidden", err, start)
		return newPath, err
	})
}

func (e *Engine) record(operation string, err error, start time.Time) {
	if e.recorder == nil {
		return
	}
	status := "ok"
	if err != nil {
		status = "error"
		var verr *Error
		if errors.As(err, &verr) && verr.Kind == volinfo.KindTimeout {
			e.recorder.IncTimeout(operation)
			status = "timeout"
		}
	}
	e.recorder.ObserveProbe(operation, status, time.Since(start))
	e.recorder.SetQueueDepth(e.pool.QueueDepth())
}
