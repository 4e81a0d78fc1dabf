// Package parallel provides bounded concurrent execution for independent
// game sessions. Each task owns all of its state; the pool only limits how
// many run at once and lets the caller wait for the batch to finish.
package parallel

import (
	"context"
	"errors"
	"runtime"
	"sync"
)

// ErrPoolShutdown is returned when trying to submit tasks to a shutdown pool.
var ErrPoolShutdown = errors.New("worker pool has been shutdown")

// WorkerPool manages a fixed set of goroutines that execute submitted tasks.
// A buffered task channel applies backpressure: Submit blocks while every
// worker is busy and the buffer is full.
type WorkerPool struct {
	maxWorkers   int
	taskChan     chan func()
	workerWg     sync.WaitGroup
	taskWg       sync.WaitGroup
	shutdownChan chan struct{}
	submitMu     sync.RWMutex
	once         sync.Once
}

// NewWorkerPool creates a new worker pool with the specified number of workers.
// If maxWorkers is 0 or negative, it defaults to the number of CPU cores.
func NewWorkerPool(maxWorkers int) *WorkerPool {
	if maxWorkers <= 0 {
		maxWorkers = runtime.NumCPU()
	}

	pool := &WorkerPool{
		maxWorkers:   maxWorkers,
		taskChan:     make(chan func(), maxWorkers*2),
		shutdownChan: make(chan struct{}),
	}

	for i := 0; i < maxWorkers; i++ {
		pool.workerWg.Add(1)
		go pool.worker()
	}

	return pool
}

// Workers returns the number of worker goroutines.
func (wp *WorkerPool) Workers() int {
	return wp.maxWorkers
}

// worker is the main worker loop that processes tasks from the channel.
func (wp *WorkerPool) worker() {
	defer wp.workerWg.Done()

	for {
		select {
		case task := <-wp.taskChan:
			wp.run(task)
		case <-wp.shutdownChan:
			return
		}
	}
}

func (wp *WorkerPool) run(task func()) {
	defer wp.taskWg.Done()
	if task != nil {
		task()
	}
}

// Submit queues a task for execution. It blocks while the pool is saturated
// and returns the context's error if ctx ends first, or ErrPoolShutdown once
// the pool is shut down.
func (wp *WorkerPool) Submit(ctx context.Context, task func()) error {
	wp.submitMu.RLock()
	defer wp.submitMu.RUnlock()

	select {
	case <-wp.shutdownChan:
		return ErrPoolShutdown
	default:
	}

	wp.taskWg.Add(1)
	select {
	case wp.taskChan <- task:
		return nil
	case <-ctx.Done():
		wp.taskWg.Done()
		return ctx.Err()
	case <-wp.shutdownChan:
		wp.taskWg.Done()
		return ErrPoolShutdown
	}
}

// Wait blocks until every task submitted so far has finished or has been
// discarded by Shutdown.
func (wp *WorkerPool) Wait() {
	wp.taskWg.Wait()
}

// Shutdown stops the workers after their current tasks complete. Tasks still
// queued are discarded. It is safe to call more than once.
func (wp *WorkerPool) Shutdown() {
	wp.once.Do(func() {
		close(wp.shutdownChan)

		// Wait out in-flight Submit calls so nothing lands in the queue later.
		wp.submitMu.Lock()
		defer wp.submitMu.Unlock()

		wp.workerWg.Wait()
		for {
			select {
			case <-wp.taskChan:
				wp.taskWg.Done()
			default:
				return
			}
		}
	})
}
