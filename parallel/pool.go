// Package parallel runs data-parallel kernels over explicit index spaces.
package parallel

import (
	"runtime"
	"sync"
)

// DefaultThreshold is the minimum index count to use the worker pool.
// Below this, single-threaded is faster due to goroutine overhead.
const DefaultThreshold = 256

// Kernel processes the half-open index range [i0, i1).
// Distinct indices must not write to the same memory.
type Kernel func(i0, i1 int)

// workChunk represents a range of indices for a worker to process.
type workChunk struct {
	start, end int
	kernel     Kernel
	done       chan<- struct{}
}

// Pool is a persistent set of worker goroutines that execute kernels in chunks.
// A Pool is safe for use by multiple goroutines; each For call waits only for its own chunks.
type Pool struct {
	numWorkers int
	threshold  int

	workChan chan workChunk
	stopChan chan struct{}
	wg       sync.WaitGroup

	mu      sync.Mutex
	running bool
}

// NewPool creates a pool with the given worker count (0 = GOMAXPROCS) and
// serial threshold (0 = DefaultThreshold). Workers start lazily on first use.
func NewPool(workers, threshold int) *Pool {
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}
	if threshold <= 0 {
		threshold = DefaultThreshold
	}
	return &Pool{
		numWorkers: workers,
		threshold:  threshold,
	}
}

// Workers returns the number of worker goroutines.
func (p *Pool) Workers() int {
	return p.numWorkers
}

// start launches persistent worker goroutines.
func (p *Pool) start() {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.running {
		return
	}

	p.workChan = make(chan workChunk, p.numWorkers)
	p.stopChan = make(chan struct{})
	p.running = true

	for i := 0; i < p.numWorkers; i++ {
		p.wg.Add(1)
		go p.worker()
	}
}

// Close signals all workers to exit and waits for them.
func (p *Pool) Close() {
	p.mu.Lock()
	defer p.mu.Unlock()
	if !p.running {
		return
	}

	close(p.stopChan)
	p.wg.Wait()
	p.running = false
}

// worker runs in a goroutine, processing chunks until stopped.
func (p *Pool) worker() {
	defer p.wg.Done()

	for {
		select {
		case <-p.stopChan:
			return
		case chunk := <-p.workChan:
			chunk.kernel(chunk.start, chunk.end)
			chunk.done <- struct{}{}
		}
	}
}

// For runs kernel over [0, n) and returns when every index has been processed.
// Small index spaces run on the calling goroutine.
func (p *Pool) For(n int, kernel Kernel) {
	if n <= 0 {
		return
	}
	if p == nil || n < p.threshold || p.numWorkers == 1 {
		kernel(0, n)
		return
	}

	p.start()

	numWorkers := p.numWorkers
	chunkSize := (n + numWorkers - 1) / numWorkers
	done := make(chan struct{}, numWorkers)

	dispatched := 0
	for w := 0; w < numWorkers; w++ {
		start := w * chunkSize
		end := start + chunkSize
		if end > n {
			end = n
		}
		if start >= end {
			continue
		}
		p.workChan <- workChunk{start: start, end: end, kernel: kernel, done: done}
		dispatched++
	}

	for i := 0; i < dispatched; i++ {
		<-done
	}
}

// For2 runs kernel over the row-major index space [0, outer) x [0, inner),
// calling fn once per (o, i) pair.
func (p *Pool) For2(outer, inner int, fn func(o, i int)) {
	if inner <= 0 {
		return
	}
	p.For(outer*inner, func(i0, i1 int) {
		for k := i0; k < i1; k++ {
			fn(k/inner, k%inner)
		}
	})
}
