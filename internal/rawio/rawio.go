// Package rawio provides scoped wrappers ("guards") around native
// resources -- file descriptors, OS handles, allocator-paired heap
// buffers, and the process-wide mutexes that serialize calls into
// host subsystems with ad-hoc thread-safety. Every guard forbids
// copying, supports move transfer of ownership, and releases its
// resource exactly once -- on every control-flow path, including early
// return.
package rawio

import "sync"

// Guard is released exactly once. Calling Release more than once is a
// programmer error the guard tolerates (a second call is a no-op)
// rather than double-frees the underlying resource.
type Guard interface {
	Release()
}

// released is embedded by every guard to make double-Release safe
// without each guard reimplementing the sync.Once dance.
type released struct {
	once sync.Once
}

// do runs fn exactly once across the lifetime of this guard value.
func (r *released) do(fn func()) {
	r.once.Do(fn)
}
