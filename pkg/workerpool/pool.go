// Package workerpool runs blocking jobs on dedicated goroutines
package workerpool

import (
	"context"
	"fmt"
	"runtime/debug"
	"sync"
	"sync/atomic"

	"golang.org/x/sync/semaphore"
)

// PanicError is returned by Do when a job panics
type PanicError struct {
	Value any
	Stack []byte
}

func (e *PanicError) Error() string {
	return fmt.Sprintf("job panicked: %v", e.Value)
}

// Pool offloads jobs to their own goroutines. With a positive limit at
// most limit jobs run at once; further callers wait for a slot.
type Pool struct {
	sem    *semaphore.Weighted
	limit  int
	active atomic.Int64
	wg     sync.WaitGroup
}

// New creates a pool. limit <= 0 means unlimited.
func New(limit int) *Pool {
	p := &Pool{limit: limit}
	if limit > 0 {
		p.sem = semaphore.NewWeighted(int64(limit))
	}
	return p
}

// Limit returns the configured concurrency limit (0 when unlimited)
func (p *Pool) Limit() int {
	if p.limit < 0 {
		return 0
	}
	return p.limit
}

// Active returns the number of running jobs
func (p *Pool) Active() int {
	return int(p.active.Load())
}

// Wait blocks until every submitted job has finished
func (p *Pool) Wait() {
	p.wg.Wait()
}

// Do runs job on a pool goroutine and waits for its result. If ctx is
// done before a slot frees up, the job is not started. Once started the
// job always runs to completion; it observes ctx itself.
func Do[T any](ctx context.Context, p *Pool, job func(context.Context) (T, error)) (T, error) {
	var zero T

	if p.sem != nil {
		if err := p.sem.Acquire(ctx, 1); err != nil {
			return zero, err
		}
	}

	type result struct {
		val T
		err error
	}
	done := make(chan result, 1)

	p.wg.Add(1)
	p.active.Add(1)
	go func() {
		defer p.wg.Done()
		defer p.active.Add(-1)
		if p.sem != nil {
			defer p.sem.Release(1)
		}
		defer func() {
			if r := recover(); r != nil {
				done <- result{err: &PanicError{Value: r, Stack: debug.Stack()}}
			}
		}()

		val, err := job(ctx)
		done <- result{val: val, err: err}
	}()

	res := <-done
	return res.val, res.err
}
