package sync

import (
	"context"
	"log/slog"
	"sync"
)

type applyJob struct {
	fn   func(ctx context.Context) error
	name string
}

// applier runs local store mutations on a single goroutine in the order they
// were enqueued, so two changes to the same record land in arrival order.
type applier struct {
	logger *slog.Logger
	wake   chan struct{}
	done   chan struct{}
	queue  []applyJob
	mu     sync.Mutex
	closed bool
}

func newApplier(logger *slog.Logger) *applier {
	return &applier{
		logger: logger,
		wake:   make(chan struct{}, 1),
		done:   make(chan struct{}),
	}
}

// enqueue adds a job. Jobs enqueued after close are dropped.
func (a *applier) enqueue(name string, fn func(ctx context.Context) error) {
	a.mu.Lock()
	if a.closed {
		a.mu.Unlock()
		a.logger.Warn("Apply queue closed, dropping job", "job", name)
		return
	}
	a.queue = append(a.queue, applyJob{name: name, fn: fn})
	a.mu.Unlock()

	select {
	case a.wake <- struct{}{}:
	default:
	}
}

// run drains the queue until close is called, then drains what is left.
func (a *applier) run(ctx context.Context) {
	defer close(a.done)

	for {
		for {
			job, ok := a.next()
			if !ok {
				break
			}
			if err := job.fn(ctx); err != nil {
				a.logger.Warn("Failed to apply change locally", "job", job.name, "error", err)
			}
		}

		a.mu.Lock()
		closed := a.closed && len(a.queue) == 0
		a.mu.Unlock()
		if closed {
			return
		}

		<-a.wake
	}
}

func (a *applier) next() (applyJob, bool) {
	a.mu.Lock()
	defer a.mu.Unlock()

	if len(a.queue) == 0 {
		return applyJob{}, false
	}
	job := a.queue[0]
	a.queue[0] = applyJob{}
	a.queue = a.queue[1:]
	return job, true
}

// flush blocks until every job enqueued before the call has run.
func (a *applier) flush(ctx context.Context) error {
	marker := make(chan struct{})
	a.mu.Lock()
	if a.closed {
		a.mu.Unlock()
		return nil
	}
	a.queue = append(a.queue, applyJob{name: "flush", fn: func(context.Context) error {
		close(marker)
		return nil
	}})
	a.mu.Unlock()

	select {
	case a.wake <- struct{}{}:
	default:
	}

	select {
	case <-marker:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// close stops accepting jobs and waits until the queue is drained.
func (a *applier) close() {
	a.mu.Lock()
	a.closed = true
	a.mu.Unlock()

	select {
	case a.wake <- struct{}{}:
	default:
	}
	<-a.done
}
