// Package executor runs the render stage concurrently: a fixed pool of
// workers processes instances while output order stays stable because every
// job writes into its own slot.
package executor

import (
	"context"
	"sync"

	"github.com/vkm/heatlamp/internal/ctxlog"
)

// Job processes the instance at index i.
type Job func(ctx context.Context, i int) error

// Pool is a bounded worker pool over an indexed job set.
type Pool struct {
	workers int
}

// New creates a pool with the given worker count; anything below 1 is
// treated as 1.
func New(workers int) *Pool {
	if workers < 1 {
		workers = 1
	}
	return &Pool{workers: workers}
}

// Run invokes job for every index in [0, count). The first failure cancels
// the remaining work and is returned. Indexes are dispatched in order, one
// per worker at a time.
func (p *Pool) Run(ctx context.Context, count int, job Job) error {
	logger := ctxlog.FromContext(ctx)
	logger.Debug("Executor starting.", "workers", p.workers, "jobs", count)

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	jobs := make(chan int)
	var wg sync.WaitGroup

	var firstErr error
	var errOnce sync.Once

	for w := 0; w < p.workers; w++ {
		wg.Add(1)
		go func(workerID int) {
			defer wg.Done()
			p.worker(ctx, workerID, jobs, job, func(err error) {
				errOnce.Do(func() {
					firstErr = err
					cancel()
				})
			})
		}(w)
	}

	for i := 0; i < count; i++ {
		select {
		case jobs <- i:
		case <-ctx.Done():
			i = count // stop dispatching, workers drain on their own
		}
	}
	close(jobs)
	wg.Wait()

	if firstErr != nil {
		return firstErr
	}
	return ctx.Err()
}

// worker is the processing loop of one concurrent worker.
func (p *Pool) worker(ctx context.Context, workerID int, jobs <-chan int, job Job, fail func(error)) {
	logger := ctxlog.FromContext(ctx).With("workerID", workerID)
	logger.Debug("Worker started.")

	for i := range jobs {
		if ctx.Err() != nil {
			continue
		}
		if err := job(ctx, i); err != nil {
			logger.Error("Job failed.", "index", i, "error", err)
			fail(err)
		}
	}
	logger.Debug("Worker finished.")
}
