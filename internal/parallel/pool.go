// Package parallel runs independent units of work on a fixed set of
// goroutines.
package parallel

import (
	"context"
	"runtime"
	"sync"
	"sync/atomic"
)

// WorkerPool distributes work items over per-worker queues. An idle worker
// steals from the other queues, which keeps a batch balanced when a few
// items (large or compressed icons) are much slower than the rest.
//
// Thread safety: WorkerPool is safe for concurrent use.
type WorkerPool struct {
	workers    int
	workQueues []chan func()
	done       chan struct{}
	wg         sync.WaitGroup
	running    atomic.Bool
}

// NewWorkerPool starts a pool with the given number of workers.
// If workers is 0 or negative, GOMAXPROCS is used.
func NewWorkerPool(workers int) *WorkerPool {
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}

	queueSize := max(workers*4, 8)

	p := &WorkerPool{
		workers:    workers,
		workQueues: make([]chan func(), workers),
		done:       make(chan struct{}),
	}
	for i := range workers {
		p.workQueues[i] = make(chan func(), queueSize)
	}
	p.running.Store(true)

	p.wg.Add(workers)
	for i := range workers {
		go p.worker(i)
	}
	return p
}

func (p *WorkerPool) worker(id int) {
	defer p.wg.Done()

	own := p.workQueues[id]
	for {
		select {
		case <-p.done:
			p.drainQueue(own)
			return
		case work := <-own:
			work()
		default:
			if stolen := p.steal(id); stolen != nil {
				stolen()
				continue
			}
			select {
			case <-p.done:
				p.drainQueue(own)
				return
			case work := <-own:
				work()
			}
		}
	}
}

func (p *WorkerPool) drainQueue(queue chan func()) {
	for {
		select {
		case work := <-queue:
			work()
		default:
			return
		}
	}
}

func (p *WorkerPool) steal(myID int) func() {
	for i := range p.workers {
		if i == myID {
			continue
		}
		select {
		case work := <-p.workQueues[i]:
			return work
		default:
		}
	}
	return nil
}

// ExecuteAll runs every item and waits for all of them.
// If the pool is closed, this is a no-op.
func (p *WorkerPool) ExecuteAll(work []func()) {
	_ = p.ExecuteAllContext(context.Background(), work)
}

// ExecuteAllContext runs items until ctx is done. Items already handed to a
// worker finish; items not yet started are skipped. It returns ctx.Err() if
// any item was skipped because of cancellation.
func (p *WorkerPool) ExecuteAllContext(ctx context.Context, work []func()) error {
	if len(work) == 0 || !p.running.Load() {
		return nil
	}

	var (
		completion sync.WaitGroup
		skipped    atomic.Bool
	)
	completion.Add(len(work))

	for i, fn := range work {
		wrapped := func() {
			defer completion.Done()
			if ctx.Err() != nil {
				skipped.Store(true)
				return
			}
			fn()
		}

		select {
		case p.workQueues[i%p.workers] <- wrapped:
		case <-p.done:
			completion.Done()
		case <-ctx.Done():
			// Nothing after this item will be queued.
			skipped.Store(true)
			completion.Add(-(len(work) - i))
			completion.Wait()
			return ctx.Err()
		}
	}

	completion.Wait()
	if skipped.Load() {
		return ctx.Err()
	}
	return nil
}

// Submit queues a single item on the shortest queue without waiting.
func (p *WorkerPool) Submit(fn func()) {
	if fn == nil || !p.running.Load() {
		return
	}

	minIdx := 0
	for i := 1; i < p.workers; i++ {
		if len(p.workQueues[i]) < len(p.workQueues[minIdx]) {
			minIdx = i
		}
	}

	select {
	case p.workQueues[minIdx] <- fn:
	case <-p.done:
	}
}

// Close stops accepting work, drains the queues and stops the workers.
// Close is safe to call multiple times.
func (p *WorkerPool) Close() {
	if !p.running.CompareAndSwap(true, false) {
		return
	}
	close(p.done)
	p.wg.Wait()
}

// Workers returns the number of workers in the pool.
func (p *WorkerPool) Workers() int { return p.workers }

// IsRunning returns true if the pool is still accepting work.
func (p *WorkerPool) IsRunning() bool { return p.running.Load() }
