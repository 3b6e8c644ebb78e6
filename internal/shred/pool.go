package shred

import (
	"context"
	"sync"
	"sync/atomic"
)

// workerPool is a fixed set of goroutines that lives for one secure delete
// and is reused for every pattern of every pass.
type workerPool struct {
	tasks chan func()
	wg    sync.WaitGroup
	size  int
}

func newWorkerPool(size int) *workerPool {
	if size < 1 {
		size = 1
	}
	p := &workerPool{
		// Unbuffered: a send only succeeds once a worker is idle, so at most
		// size tasks run at a time.
		tasks: make(chan func()),
		size:  size,
	}
	p.wg.Add(size)
	for i := 0; i < size; i++ {
		go p.work()
	}
	return p
}

func (p *workerPool) work() {
	defer p.wg.Done()
	for task := range p.tasks {
		task()
	}
}

// close stops the workers once they are idle. The pool must not be used afterwards.
func (p *workerPool) close() {
	close(p.tasks)
	p.wg.Wait()
}

// runStage runs task(0..n-1) on the pool and returns only after every task
// that was started has returned. After the first failure, or once ctx is
// done, no further tasks start; tasks already running are left to finish.
// The first error observed is returned.
func (p *workerPool) runStage(ctx context.Context, n int, task func(i int) error) error {
	var (
		wg       sync.WaitGroup
		mu       sync.Mutex
		firstErr error
		failed   atomic.Bool
	)

	fail := func(err error) {
		mu.Lock()
		if firstErr == nil {
			firstErr = err
		}
		mu.Unlock()
		failed.Store(true)
	}

dispatch:
	for i := 0; i < n; i++ {
		if failed.Load() {
			break
		}
		if err := ctx.Err(); err != nil {
			fail(err)
			break
		}

		wg.Add(1)
		run := func() {
			defer wg.Done()
			// A task handed over just as another one failed must not start writing.
			if failed.Load() {
				return
			}
			if err := ctx.Err(); err != nil {
				fail(err)
				return
			}
			if err := task(i); err != nil {
				fail(err)
			}
		}

		select {
		case p.tasks <- run:
		case <-ctx.Done():
			wg.Done()
			fail(ctx.Err())
			break dispatch
		}
	}

	wg.Wait()
	return firstErr
}
