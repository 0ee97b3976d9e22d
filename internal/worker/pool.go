// Package worker runs deferred tasks on a fixed number of goroutines.
package worker

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/Domenick1991/letservice/internal/logger"
)

var (
	ErrQueueFull  = errors.New("worker: queue is full")
	ErrPoolClosed = errors.New("worker: pool is closed")
)

const defaultTaskTimeout = 10 * time.Second

// Task receives a context that belongs to the pool, not to whoever submitted it.
type Task func(ctx context.Context)

type Pool struct {
	size        int
	capacity    int
	taskTimeout time.Duration
	logger      logger.Logger

	tasks chan Task

	mu          sync.Mutex
	closed      bool
	started     bool
	outstanding int

	scheduled sync.WaitGroup
	workers   sync.WaitGroup
}

type Option func(*Pool)

func WithTaskTimeout(d time.Duration) Option {
	return func(p *Pool) {
		if d > 0 {
			p.taskTimeout = d
		}
	}
}

// NewPool builds a pool of size workers. queue bounds the number of tasks
// that are scheduled or waiting for a worker at any time.
func NewPool(size, queue int, log logger.Logger, opts ...Option) *Pool {
	if size < 1 {
		size = 1
	}
	if queue < 1 {
		queue = 1
	}
	p := &Pool{
		size:        size,
		capacity:    queue,
		taskTimeout: defaultTaskTimeout,
		logger:      log,
		tasks:       make(chan Task, queue),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

func (p *Pool) Start() {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.started {
		return
	}
	p.started = true
	for i := 0; i < p.size; i++ {
		p.workers.Add(1)
		go p.run(i)
	}
	p.logger.Info("worker pool started", logger.F("size", p.size), logger.F("queue", p.capacity))
}

// SubmitAfter schedules task to run once delay has elapsed. A non-positive
// delay enqueues it right away.
func (p *Pool) SubmitAfter(delay time.Duration, task Task) error {
	p.mu.Lock()
	if p.closed {
		p.mu.Unlock()
		return ErrPoolClosed
	}
	if p.outstanding >= p.capacity {
		p.mu.Unlock()
		return ErrQueueFull
	}
	p.outstanding++
	p.scheduled.Add(1)
	p.mu.Unlock()

	if delay <= 0 {
		p.enqueue(task)
		return nil
	}
	time.AfterFunc(delay, func() { p.enqueue(task) })
	return nil
}

// enqueue never blocks: outstanding never exceeds the channel capacity.
func (p *Pool) enqueue(task Task) {
	defer p.scheduled.Done()
	p.tasks <- task
}

func (p *Pool) run(id int) {
	defer p.workers.Done()
	for task := range p.tasks {
		p.mu.Lock()
		p.outstanding--
		p.mu.Unlock()
		p.execute(id, task)
	}
}

func (p *Pool) execute(id int, task Task) {
	ctx, cancel := context.WithTimeout(context.Background(), p.taskTimeout)
	defer cancel()
	defer func() {
		if r := recover(); r != nil {
			p.logger.Error("worker task panicked", logger.F("worker", id), logger.F("panic", r))
		}
	}()
	task(ctx)
}

// Shutdown stops accepting tasks, lets every scheduled task fire and run,
// then stops the workers. It returns ctx.Err() if ctx ends first.
func (p *Pool) Shutdown(ctx context.Context) error {
	p.mu.Lock()
	if p.closed {
		p.mu.Unlock()
		return nil
	}
	p.closed = true
	started := p.started
	p.mu.Unlock()

	if !started {
		p.Start()
	}

	done := make(chan struct{})
	go func() {
		p.scheduled.Wait()
		close(p.tasks)
		p.workers.Wait()
		close(done)
	}()

	select {
	case <-done:
		p.logger.Info("worker pool stopped")
		return nil
	case <-ctx.Done():
		p.logger.Warn("worker pool shutdown timed out", logger.F("error", ctx.Err()))
		return ctx.Err()
	}
}
