// Package workerpool provides a small bounded worker pool, using
// the teacher's WaitGroup-plus-buffered-channel-semaphore idiom rather than
// pulling in a third-party pool library - the concurrency shape this
// module needs (submit N independent jobs, wait for all) is the same one
// the benchmark downloader and predictor runner already use.
package workerpool

import (
	"context"
	"runtime"
	"sync"
)

// Pool runs submitted jobs across a bounded number of goroutines.
type Pool struct {
	sem chan struct{}
	wg  sync.WaitGroup

	mu      sync.Mutex
	firstErr error
}

// New creates a pool sized to workers goroutines; workers <= 0 defaults to
// runtime.NumCPU().
func New(workers int) *Pool {
	if workers <= 0 {
		workers = runtime.NumCPU()
	}
	return &Pool{sem: make(chan struct{}, workers)}
}

// Submit schedules fn to run on a pool goroutine, blocking until a slot is
// free. If ctx is already canceled, fn is skipped and ctx.Err() is recorded.
func (p *Pool) Submit(ctx context.Context, fn func() error) {
	p.wg.Add(1)
	p.sem <- struct{}{}
	go func() {
		defer p.wg.Done()
		defer func() { <-p.sem }()

		if ctx.Err() != nil {
			p.recordErr(ctx.Err())
			return
		}
		if err := fn(); err != nil {
			p.recordErr(err)
		}
	}()
}

func (p *Pool) recordErr(err error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.firstErr == nil {
		p.firstErr = err
	}
}

// Wait blocks until every submitted job has completed, returning the first
// error encountered (in submission order is not guaranteed - only that it's
// the first one recorded), or nil if every job succeeded.
func (p *Pool) Wait() error {
	p.wg.Wait()
	return p.firstErr
}
