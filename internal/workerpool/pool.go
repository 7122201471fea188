// Package workerpool implements the shared worker pool every public
// operation submits its background job to, and the generic Future
// every job resolves exactly once.
package workerpool

import (
	"context"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/tklauser/go-sysconf"
)

// DefaultSize returns a pool size matched to host concurrency. On
// platforms where sysconf is available this asks the kernel directly
// (SC_NPROCESSORS_ONLN); otherwise it falls back to a small fixed
// size.
func DefaultSize() int {
	if n, err := sysconf.Sysconf(sysconf.SC_NPROCESSORS_ONLN); err == nil && n > 0 {
		return int(n)
	}
	return 4
}

type job struct {
	run  func(ctx context.Context)
	done chan struct{}
}

// Pool is a fixed-size FIFO worker pool. Submit is non-blocking up to
// the queue's buffer; Shutdown is graceful: the queue is marked
// closed, workers drain and exit, and a bounded wait logs a warning
// rather than forcibly terminating stragglers.
type Pool struct {
	queue  chan job
	wg     sync.WaitGroup
	closed chan struct{}
	once   sync.Once
}

// New starts a Pool with size workers. size <= 0 falls back to
// DefaultSize().
func New(size int) *Pool {
	if size <= 0 {
		size = DefaultSize()
	}
	p := &Pool{
		queue:  make(chan job, 256),
		closed: make(chan struct{}),
	}
	for i := 0; i < size; i++ {
		p.wg.Add(1)
		go p.worker()
	}
	return p
}

func (p *Pool) worker() {
	defer p.wg.Done()
	for {
		select {
		case j, ok := <-p.queue:
			if !ok {
				return
			}
			j.run(context.Background())
			close(j.done)
		case <-p.closed:
			// Drain any already-queued work before exiting.
			for {
				select {
				case j, ok := <-p.queue:
					if !ok {
						return
					}
					j.run(context.Background())
					close(j.done)
				default:
					return
				}
			}
		}
	}
}

// submit enqueues run and returns a channel closed when run returns.
// Submission itself never blocks on worker availability; it only
// blocks if the internal queue buffer (256) is full, which signals
// sustained overload rather than ordinary bursty use.
func (p *Pool) submit(run func(ctx context.Context)) <-chan struct{} {
	done := make(chan struct{})
	select {
	case p.queue <- job{run: run, done: done}:
	case <-p.closed:
		close(done)
	}
	return done
}

// Shutdown marks the queue closed and waits up to waitFor for in-flight and
// already-queued workers to finish. In-process workers are never
// forcibly terminated, since that risks corrupting runtime state a
// worker is mid-mutation of; a timed-out Shutdown just logs a warning
// and returns, leaving stragglers to be abandoned safely at process
// exit.
func (p *Pool) Shutdown(waitFor time.Duration) {
	p.once.Do(func() {
		close(p.closed)
	})

	done := make(chan struct{})
	go func() {
		p.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(waitFor):
		log.Printf("workerpool: shutdown wait of %s expired with workers still draining", waitFor)
	}
}

// ErrPoolClosed is the error a Future resolves with when its job was
// submitted after Shutdown and never ran. Jobs already queued when
// Shutdown is called still run in the drain loop.
var ErrPoolClosed = fmt.Errorf("workerpool: pool is shut down")

// QueueDepth returns the number of jobs currently buffered in the
// queue, not counting jobs a worker has already picked up. Intended
// for periodic telemetry sampling, not for flow control.
func (p *Pool) QueueDepth() int {
	return len(p.queue)
}
