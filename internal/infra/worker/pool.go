// File: internal/infra/worker/pool.go
package worker

import (
	"context"
	"errors"
	"fmt"
	"runtime"
	"sync"

	"github.com/rs/zerolog"

	"tg-config-bot/internal/domain"
)

// Task is one unit of work, typically the handling of a single update.
type Task func(ctx context.Context) error

var ErrPoolStopped = errors.New("worker pool stopped")

// Pool runs submitted tasks on a fixed number of goroutines. Tasks share
// nothing but the parent context given to Start.
type Pool struct {
	wg   sync.WaitGroup
	jobs chan Task
	n    int
	log  *zerolog.Logger

	mu     sync.RWMutex
	closed bool
}

func NewPool(workers int, logger *zerolog.Logger) *Pool {
	if workers <= 0 {
		workers = runtime.NumCPU()
	}
	return &Pool{jobs: make(chan Task, workers*4), n: workers, log: logger}
}

// Start launches the workers. ctx is the parent of every task context;
// cancel it to abort in-flight tasks, call Stop to drain and wait.
func (p *Pool) Start(ctx context.Context) {
	for i := 0; i < p.n; i++ {
		p.wg.Add(1)
		go func(id int) {
			defer p.wg.Done()
			for task := range p.jobs {
				if err := p.run(ctx, task); err != nil {
					p.log.Error().Err(err).Int("worker", id).Msg("task failed")
				}
			}
		}(i)
	}
}

func (p *Pool) run(ctx context.Context, task Task) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("task panicked: %v", r)
		}
	}()
	return task(ctx)
}

// Stop refuses new tasks, lets queued ones finish and waits for the workers.
func (p *Pool) Stop() {
	p.mu.Lock()
	if !p.closed {
		p.closed = true
		close(p.jobs)
	}
	p.mu.Unlock()
	p.wg.Wait()
}

// Submit enqueues task without blocking; it fails with domain.ErrQueueFull when saturated.
func (p *Pool) Submit(task Task) error {
	if task == nil {
		return errors.New("nil task")
	}
	p.mu.RLock()
	defer p.mu.RUnlock()
	if p.closed {
		return ErrPoolStopped
	}
	select {
	case p.jobs <- task:
		return nil
	default:
		return domain.ErrQueueFull
	}
}

// SubmitWait enqueues task, blocking until there is room or ctx is done.
func (p *Pool) SubmitWait(ctx context.Context, task Task) error {
	if task == nil {
		return errors.New("nil task")
	}
	p.mu.RLock()
	defer p.mu.RUnlock()
	if p.closed {
		return ErrPoolStopped
	}
	select {
	case p.jobs <- task:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
