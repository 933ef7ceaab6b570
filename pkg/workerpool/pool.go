// Package workerpool provides a bounded goroutine pool for bulk report
// downloads. The pool caps how many fetches run at once; the rate
// limiter inside the fetcher paces the requests themselves.
package workerpool

import (
	"runtime"
	"sync"
	"sync/atomic"
)

// Pool runs submitted tasks on a fixed set of worker goroutines.
type Pool struct {
	tasks   chan func()
	workers int
	running atomic.Int32
	wg      sync.WaitGroup
	once    sync.Once
}

// New creates a pool with the given number of workers. Non-positive
// worker counts fall back to GOMAXPROCS. Workers start immediately and
// exist until Wait.
func New(workers int) *Pool {
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}
	p := &Pool{
		tasks:   make(chan func(), workers),
		workers: workers,
	}
	p.wg.Add(workers)
	for range workers {
		go p.worker()
	}
	return p
}

func (p *Pool) worker() {
	defer p.wg.Done()
	for task := range p.tasks {
		p.running.Add(1)
		task()
		p.running.Add(-1)
	}
}

// Submit queues a task, blocking while every worker is busy and the
// queue is full. Must not be called after Wait.
func (p *Pool) Submit(task func()) {
	if task == nil {
		return
	}
	p.tasks <- task
}

// Wait closes the queue and blocks until every queued task has
// finished. The pool cannot be reused afterwards.
func (p *Pool) Wait() {
	p.once.Do(func() { close(p.tasks) })
	p.wg.Wait()
}

// Cap returns the worker count.
func (p *Pool) Cap() int {
	return p.workers
}

// Running returns the number of tasks executing right now.
func (p *Pool) Running() int {
	return int(p.running.Load())
}
