package utils

import (
	"context"
	"errors"
	"runtime"
	"sync"
)

const (
	MaxWorkers       = 32
	WorkerBufferSize = 4
)

// WorkerPool runs a handler over submitted tasks on a fixed set of goroutines.
// Every error the handler returns is kept and reported by Stop.
type WorkerPool[T any] struct {
	workers   int
	ctx       context.Context
	wg        sync.WaitGroup
	taskQueue chan T
	handler   func(context.Context, T) error

	mu   sync.Mutex
	errs []error
}

func NewWorkerPool[T any](ctx context.Context, workers int, handler func(context.Context, T) error) *WorkerPool[T] {
	if workers <= 0 {
		workers = runtime.NumCPU()
	}
	if workers > MaxWorkers {
		workers = MaxWorkers
	}
	return &WorkerPool[T]{
		workers:   workers,
		ctx:       ctx,
		taskQueue: make(chan T, workers*WorkerBufferSize),
		handler:   handler,
	}
}

func (p *WorkerPool[T]) Start() {
	for i := 0; i < p.workers; i++ {
		p.wg.Add(1)
		go p.worker()
	}
}

func (p *WorkerPool[T]) worker() {
	defer p.wg.Done()
	for {
		select {
		case <-p.ctx.Done():
			return
		case task, ok := <-p.taskQueue:
			if !ok {
				return
			}
			if err := p.handler(p.ctx, task); err != nil {
				p.mu.Lock()
				p.errs = append(p.errs, err)
				p.mu.Unlock()
			}
		}
	}
}

// Submit queues a task. It gives up silently once the pool context is done.
func (p *WorkerPool[T]) Submit(task T) {
	select {
	case <-p.ctx.Done():
		return
	case p.taskQueue <- task:
	}
}

// Stop closes the queue, waits for the workers and returns the joined handler
// errors, plus the context error if the pool was cancelled.
func (p *WorkerPool[T]) Stop() error {
	close(p.taskQueue)
	p.wg.Wait()

	p.mu.Lock()
	defer p.mu.Unlock()
	errs := p.errs
	if err := p.ctx.Err(); err != nil {
		errs = append(errs, err)
	}
	return errors.Join(errs...)
}
