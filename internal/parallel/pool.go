// Package parallel provides the persistent worker pool used to evaluate
// fractal chunks concurrently.
package parallel

import (
	"errors"
	"fmt"
	"runtime"
	"sync"
	"sync/atomic"
)

// ErrClosed is returned by Run after Close.
var ErrClosed = errors.New("parallel: pool is closed")

// PanicError reports a job that panicked while running on the pool.
type PanicError struct {
	Job   int
	Value any
}

func (e *PanicError) Error() string {
	return fmt.Sprintf("parallel: job %d panicked: %v", e.Job, e.Value)
}

// Pool is a fixed set of goroutines created once and reused for every
// dispatch.
//
// Each worker owns a queue. Jobs are assigned round-robin; an idle worker
// steals from the other queues, so one slow chunk (deep zoom near the set
// boundary) does not leave the remaining workers idle.
//
// Thread safety: Pool is safe for concurrent use.
type Pool struct {
	workers int

	// queues holds one buffered queue per worker.
	queues []chan func()

	// mu is held shared while Run enqueues and exclusively by Close, so
	// done never closes while a job is being queued.
	mu      sync.RWMutex
	done    chan struct{}
	wg      sync.WaitGroup
	running atomic.Bool
}

// NewPool starts a pool with the given number of workers.
// If workers is 0 or negative, GOMAXPROCS is used.
func NewPool(workers int) *Pool {
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}

	queueSize := workers * 4
	if queueSize < 8 {
		queueSize = 8
	}

	p := &Pool{
		workers: workers,
		queues:  make([]chan func(), workers),
		done:    make(chan struct{}),
	}
	for i := range workers {
		p.queues[i] = make(chan func(), queueSize)
	}
	p.running.Store(true)

	p.wg.Add(workers)
	for i := range workers {
		go p.loop(i)
	}
	return p
}

func (p *Pool) loop(id int) {
	defer p.wg.Done()

	own := p.queues[id]
	for {
		select {
		case <-p.done:
			p.drain(own)
			return
		case job := <-own:
			job()
		default:
			if job := p.steal(id); job != nil {
				job()
				continue
			}
			select {
			case <-p.done:
				p.drain(own)
				return
			case job := <-own:
				job()
			}
		}
	}
}

func (p *Pool) drain(queue chan func()) {
	for {
		select {
		case job := <-queue:
			job()
		default:
			return
		}
	}
}

func (p *Pool) steal(id int) func() {
	for i := range p.workers {
		if i == id {
			continue
		}
		select {
		case job := <-p.queues[i]:
			return job
		default:
		}
	}
	return nil
}

// Run executes job(0) .. job(n-1) on the pool and blocks until every job
// has returned. It is the only synchronisation point: there is no partial
// result and no cancellation once Run has started.
//
// A panicking job does not take the process down. Run recovers it and
// returns a *PanicError for the lowest panicking job index after all jobs
// have finished.
func (p *Pool) Run(n int, job func(i int)) error {
	if n <= 0 {
		return nil
	}
	p.mu.RLock()
	if !p.running.Load() {
		p.mu.RUnlock()
		return ErrClosed
	}

	var (
		barrier sync.WaitGroup
		mu      sync.Mutex
		first   *PanicError
	)
	barrier.Add(n)

	for i := range n {
		wrapped := func() {
			defer barrier.Done()
			defer func() {
				if v := recover(); v != nil {
					mu.Lock()
					if first == nil || i < first.Job {
						first = &PanicError{Job: i, Value: v}
					}
					mu.Unlock()
				}
			}()
			job(i)
		}

		p.queues[i%p.workers] <- wrapped
	}
	p.mu.RUnlock()

	barrier.Wait()
	if first != nil {
		return first
	}
	return nil
}

// Close stops accepting work, lets queued jobs finish and stops the
// workers. A Run already enqueueing finishes enqueueing first. Close is safe to call multiple times.
func (p *Pool) Close() {
	if !p.running.CompareAndSwap(true, false) {
		return
	}
	p.mu.Lock()
	close(p.done)
	p.mu.Unlock()
	p.wg.Wait()
}

// Workers returns the number of worker goroutines.
func (p *Pool) Workers() int {
	return p.workers
}

// IsRunning reports whether the pool still accepts work.
func (p *Pool) IsRunning() bool {
	return p.running.Load()
}

// Queued returns an approximate count of jobs waiting in the queues.
func (p *Pool) Queued() int {
	total := 0
	for _, q := range p.queues {
		total += len(q)
	}
	return total
}
