// Copyright 2025 The go-highway Authors. SPDX-License-Identifier: Apache-2.0

// Package workerpool provides a persistent worker pool for the data-parallel
// chores around a sort: generating input keys and checking results. A Pool
// is created once and reused, so repeated runs do not pay for goroutine
// spawns.
//
// The pool is deliberately not used to host sort ranks. Ranks block on one
// another during an exchange, and a pool with fewer workers than ranks
// would deadlock; see package inproc for that.
//
// Usage:
//
//	pool := workerpool.New(runtime.GOMAXPROCS(0))
//	defer pool.Close()
//
//	pool.ParallelFor(len(keys), func(start, end int) {
//	    fill(keys[start:end])
//	})
package workerpool

import (
	"runtime"
	"sync"
	"sync/atomic"
)

// Pool is a persistent worker pool. Workers are spawned once at creation.
//
// Close may be called concurrently with ParallelFor and ParallelForAtomic:
// mu is held for reading while work is handed to workC and for writing
// while workC is closed, so a send never reaches a closed channel.
type Pool struct {
	numWorkers int
	workC      chan task

	mu     sync.RWMutex
	closed bool
}

type task struct {
	fn   func()
	done *sync.WaitGroup
}

// New creates a pool with numWorkers workers. If numWorkers <= 0, uses
// GOMAXPROCS.
func New(numWorkers int) *Pool {
	if numWorkers <= 0 {
		numWorkers = runtime.GOMAXPROCS(0)
	}

	p := &Pool{
		numWorkers: numWorkers,
		workC:      make(chan task, numWorkers*2),
	}
	for range numWorkers {
		go p.worker()
	}
	return p
}

func (p *Pool) worker() {
	for t := range p.workC {
		t.fn()
		t.done.Done()
	}
}

// NumWorkers returns the number of workers in the pool.
func (p *Pool) NumWorkers() int {
	return p.numWorkers
}

// Close stops the workers once pending work completes. Calling Close more
// than once is safe, and so is calling it while other goroutines are
// running work. A closed pool runs work on the caller's goroutine.
func (p *Pool) Close() {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.closed {
		return
	}
	p.closed = true
	close(p.workC)
}

// ParallelFor splits [0, n) into one contiguous range per worker and calls
// fn(start, end) for each. Blocks until all ranges are done.
func (p *Pool) ParallelFor(n int, fn func(start, end int)) {
	if n <= 0 {
		return
	}

	workers := min(p.numWorkers, n)
	if workers == 1 {
		fn(0, n)
		return
	}

	p.mu.RLock()
	if p.closed {
		p.mu.RUnlock()
		fn(0, n)
		return
	}
	chunkSize := (n + workers - 1) / workers
	var wg sync.WaitGroup
	for i := range workers {
		start := i * chunkSize
		if start >= n {
			break
		}
		end := min(start+chunkSize, n)
		wg.Add(1)
		p.workC <- task{fn: func() { fn(start, end) }, done: &wg}
	}
	p.mu.RUnlock()
	wg.Wait()
}

// ParallelForAtomic calls fn(i) for every i in [0, n), with workers pulling
// indices from a shared counter. Use it when items vary in cost or when
// the result must not depend on how indices map to workers.
func (p *Pool) ParallelForAtomic(n int, fn func(i int)) {
	if n <= 0 {
		return
	}

	workers := min(p.numWorkers, n)
	if workers == 1 {
		for i := range n {
			fn(i)
		}
		return
	}

	p.mu.RLock()
	if p.closed {
		p.mu.RUnlock()
		for i := range n {
			fn(i)
		}
		return
	}
	var next atomic.Int64
	var wg sync.WaitGroup
	wg.Add(workers)
	for range workers {
		p.workC <- task{
			fn: func() {
				for {
					i := int(next.Add(1)) - 1
					if i >= n {
						return
					}
					fn(i)
				}
			},
			done: &wg,
		}
	}
	p.mu.RUnlock()
	wg.Wait()
}
