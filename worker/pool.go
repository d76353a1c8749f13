package worker

import (
	"context"
	"log"
	"sync"

	"selection-toolbar/selection"
)

// ResultCallback is invoked on capture completion (from a worker goroutine).
// ok is false when every provider failed or the deadline elapsed first.
type ResultCallback func(text string, ok bool)

// Pool is a small capture worker pool with a 1-slot input queue (strict
// back-pressure). OS accessibility calls may block for hundreds of
// milliseconds, so they run here rather than on the input hook goroutine.
type Pool struct {
	jobs chan job
	wg   sync.WaitGroup
}

type job struct {
	ctx       context.Context
	providers []selection.Provider
	cb        ResultCallback
}

// New creates a worker pool. Size defaults to 1 when size<=0; captures are
// serialized upstream by the monitor guard, so a single worker suffices.
func New(size int) *Pool {
	if size <= 0 {
		size = 1
	}
	p := &Pool{jobs: make(chan job, 1)}
	p.start(size)
	return p
}

func (p *Pool) start(n int) {
	for i := 0; i < n; i++ {
		p.wg.Add(1)
		go func() {
			defer p.wg.Done()
			for j := range p.jobs {
				text, ok := captureWithContext(j.ctx, j.providers)
				j.cb(text, ok)
			}
		}()
	}
}

// Submit enqueues a capture job if the single-slot queue is free. Returns
// false if dropped.
func (p *Pool) Submit(ctx context.Context, providers []selection.Provider, cb ResultCallback) bool {
	select {
	case p.jobs <- job{ctx: ctx, providers: providers, cb: cb}:
		return true
	default:
		return false
	}
}

// Close stops the pool after draining current work.
func (p *Pool) Close() {
	close(p.jobs)
	p.wg.Wait()
}

// captureWithContext races the provider chain against the context deadline.
// On timeout the OS call keeps running in its goroutine but is abandoned; the
// buffered channel lets it finish and be garbage collected, and its eventual
// result is discarded.
func captureWithContext(ctx context.Context, providers []selection.Provider) (string, bool) {
	if _, hasDeadline := ctx.Deadline(); !hasDeadline {
		return selection.CaptureWithProviders(providers)
	}

	type outcome struct {
		text string
		ok   bool
	}
	resCh := make(chan outcome, 1)
	go func() {
		text, ok := selection.CaptureWithProviders(providers)
		resCh <- outcome{text, ok}
	}()

	select {
	case r := <-resCh:
		return r.text, r.ok
	case <-ctx.Done():
		log.Printf("Capture abandoned: %v", ctx.Err())
		return "", false
	}
}
