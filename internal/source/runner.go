package source

import (
	"context"
	"errors"
	"runtime/debug"
	"sync"
	"sync/atomic"
)

// ErrPoolClosed is returned by Pool.Close when called twice.
var ErrPoolClosed = errors.New("source: pool closed")

// Runner executes tasks in the background. Go must not block for long.
type Runner interface {
	Go(task func())
}

// Spawner runs each task on its own goroutine. Tasks are never joined.
type Spawner struct{}

// Go starts task on a new goroutine.
func (Spawner) Go(task func()) {
	go task()
}

// PanicHandler is called with the recovered value and stack of a task
// that panicked on a Pool worker.
type PanicHandler func(r any, stack []byte)

// Pool runs tasks on a fixed set of workers fed by a bounded queue.
type Pool struct {
	workers   int
	queueSize int
	onPanic   PanicHandler

	queue  chan func()
	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup
	closed atomic.Bool

	completed atomic.Uint64
	panicked  atomic.Uint64
}

// PoolOption configures a Pool.
type PoolOption func(*Pool)

// WithWorkers sets the number of worker goroutines.
func WithWorkers(n int) PoolOption {
	return func(p *Pool) {
		if n > 0 {
			p.workers = n
		}
	}
}

// WithQueueSize sets how many tasks may wait for a worker.
func WithQueueSize(n int) PoolOption {
	return func(p *Pool) {
		if n > 0 {
			p.queueSize = n
		}
	}
}

// WithPanicHandler sets the handler for panicking tasks.
func WithPanicHandler(h PanicHandler) PoolOption {
	return func(p *Pool) {
		p.onPanic = h
	}
}

// NewPool starts a pool. The defaults are two workers and a queue of 16.
func NewPool(opts ...PoolOption) *Pool {
	p := &Pool{
		workers:   2,
		queueSize: 16,
	}
	for _, opt := range opts {
		opt(p)
	}

	p.queue = make(chan func(), p.queueSize)
	p.ctx, p.cancel = context.WithCancel(context.Background())
	for i := 0; i < p.workers; i++ {
		p.wg.Add(1)
		go p.worker()
	}
	return p
}

// Go queues task, blocking while the queue is full. Tasks queued after
// Close are dropped.
func (p *Pool) Go(task func()) {
	if p.ctx.Err() != nil {
		return
	}
	select {
	case p.queue <- task:
	case <-p.ctx.Done():
	}
}

// Close stops the workers, dropping tasks still in the queue, and waits
// for running tasks until ctx is done.
func (p *Pool) Close(ctx context.Context) error {
	if !p.closed.CompareAndSwap(false, true) {
		return ErrPoolClosed
	}
	p.cancel()

	done := make(chan struct{})
	go func() {
		p.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Completed returns how many tasks have finished, including panics.
func (p *Pool) Completed() uint64 {
	return p.completed.Load()
}

// Panicked returns how many tasks panicked.
func (p *Pool) Panicked() uint64 {
	return p.panicked.Load()
}

func (p *Pool) worker() {
	defer p.wg.Done()
	for {
		// Prefer shutdown over draining the queue.
		if p.ctx.Err() != nil {
			return
		}
		select {
		case <-p.ctx.Done():
			return
		case task := <-p.queue:
			p.run(task)
		}
	}
}

func (p *Pool) run(task func()) {
	defer p.completed.Add(1)
	defer func() {
		if r := recover(); r != nil {
			p.panicked.Add(1)
			if p.onPanic != nil {
				p.onPanic(r, debug.Stack())
			}
		}
	}()
	task()
}
