// Package pool implements a worker pool used to parallelize batch triple
// generation. A nil *Pool is valid and runs everything on the calling
// goroutine, so callers never need to special-case the serial path.
package pool

import (
	"runtime"
	"sync"
)

type job struct {
	index int
	f     func(int) interface{}
	out   []interface{}
	wg    *sync.WaitGroup
}

// Pool is a fixed set of worker goroutines consuming jobs from a channel.
// It must be torn down with TearDown once no longer needed.
type Pool struct {
	jobs chan job
	done chan struct{}
	wg   sync.WaitGroup
}

// NewPool creates a Pool with the given worker count. count <= 0 uses
// runtime.GOMAXPROCS(0).
func NewPool(count int) *Pool {
	if count <= 0 {
		count = runtime.GOMAXPROCS(0)
	}
	p := &Pool{
		jobs: make(chan job),
		done: make(chan struct{}),
	}
	p.wg.Add(count)
	for i := 0; i < count; i++ {
		go p.worker()
	}
	return p
}

func (p *Pool) worker() {
	defer p.wg.Done()
	for {
		select {
		case <-p.done:
			return
		case j := <-p.jobs:
			j.out[j.index] = j.f(j.index)
			j.wg.Done()
		}
	}
}

// TearDown stops all workers. The Pool must not be used afterwards.
func (p *Pool) TearDown() {
	if p == nil {
		return
	}
	close(p.done)
	p.wg.Wait()
}

// Parallelize calls f for every index in [0, count) and collects the
// results in order. With a nil receiver the calls run serially.
func (p *Pool) Parallelize(count int, f func(int) interface{}) []interface{} {
	out := make([]interface{}, count)
	if p == nil {
		for i := 0; i < count; i++ {
			out[i] = f(i)
		}
		return out
	}

	var wg sync.WaitGroup
	wg.Add(count)
	for i := 0; i < count; i++ {
		select {
		case p.jobs <- job{index: i, f: f, out: out, wg: &wg}:
		case <-p.done:
			// torn down mid-batch, finish inline
			out[i] = f(i)
			wg.Done()
		}
	}
	wg.Wait()
	return out
}
