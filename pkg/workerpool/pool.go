// Package workerpool provides a bounded goroutine pool with backpressure.
//
// A Pool limits the number of goroutines that can run concurrently. When all
// workers are busy and the queue is full, Submit returns ErrPoolFull
// immediately so the caller can decide to retry, block or drop the job.
//
//	pool := workerpool.New("image_cleanup", 4)
//	defer pool.Shutdown(ctx)
//
//	err := pool.Submit(func() error {
//	    return disk.Delete(ctx, key)
//	})
//
// Every finished task is counted in metrics.JobsProcessed under the pool
// name; failures and panics are logged, never propagated.
package workerpool

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/shashiranjanraj/velocart/pkg/logger"
	"github.com/shashiranjanraj/velocart/pkg/metrics"
)

// ErrPoolFull is returned by Submit when all workers are busy and the task
// queue is at capacity.
var ErrPoolFull = errors.New("workerpool: pool is full")

// ErrPoolClosed is returned by Submit after Shutdown has been called.
var ErrPoolClosed = errors.New("workerpool: pool is closed")

// Task is one unit of work. A returned error is logged and counted.
type Task func() error

// Pool is a bounded goroutine pool.
type Pool struct {
	name  string
	tasks chan Task
	wg    sync.WaitGroup

	mu     sync.RWMutex
	closed bool
	done   chan struct{}
}

// New starts size workers. The queue holds twice as many pending tasks.
func New(name string, size int) *Pool {
	if size <= 0 {
		size = 1
	}
	p := &Pool{
		name:  name,
		tasks: make(chan Task, size*2),
		done:  make(chan struct{}),
	}
	for i := 0; i < size; i++ {
		p.wg.Add(1)
		go p.worker()
	}
	return p
}

// Submit enqueues task without blocking.
func (p *Pool) Submit(task Task) error {
	p.mu.RLock()
	defer p.mu.RUnlock()
	if p.closed {
		return ErrPoolClosed
	}
	select {
	case p.tasks <- task:
		return nil
	default:
		return ErrPoolFull
	}
}

// SubmitWait blocks until the task is queued or ctx ends.
func (p *Pool) SubmitWait(ctx context.Context, task Task) error {
	p.mu.RLock()
	defer p.mu.RUnlock()
	if p.closed {
		return ErrPoolClosed
	}
	select {
	case p.tasks <- task:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Shutdown stops accepting tasks and waits for queued ones to finish or for
// ctx to end. It is safe to call more than once.
func (p *Pool) Shutdown(ctx context.Context) error {
	p.mu.Lock()
	if !p.closed {
		p.closed = true
		close(p.tasks)
		go func() {
			p.wg.Wait()
			close(p.done)
		}()
	}
	p.mu.Unlock()

	select {
	case <-p.done:
		return nil
	case <-ctx.Done():
		return fmt.Errorf("workerpool %s: shutdown: %w", p.name, ctx.Err())
	}
}

func (p *Pool) worker() {
	defer p.wg.Done()
	for task := range p.tasks {
		err := p.run(task)
		metrics.RecordJob(p.name, err)
		if err != nil {
			logger.Warn("workerpool: task failed", "pool", p.name, "error", err)
		}
	}
}

// run executes task, turning a panic into an error so the worker survives.
func (p *Pool) run(task Task) (err error) {
	defer func() {
		if r := recover(); r != nil {
			logger.Error("workerpool: task panicked", "pool", p.name, "panic", r)
			err = fmt.Errorf("panic: %v", r)
		}
	}()
	return task()
}
