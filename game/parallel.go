package game

import (
	"runtime"
	"sync"
)

// parallelThreshold is the minimum population to use the worker pool.
// Below this, running slices inline is faster than the handoff.
const parallelThreshold = 64

// workChunk is one strided slice of the population.
type workChunk struct {
	offset, stride int
	done           *sync.WaitGroup
}

// workerPool is a set of persistent goroutines that advance population slices.
type workerPool struct {
	numWorkers int

	workChan chan workChunk // sends slices to workers
	stopChan chan struct{}  // signals workers to exit
	wg       sync.WaitGroup // tracks running workers
	running  bool
}

// newWorkerPool creates a stopped pool. numWorkers < 1 means GOMAXPROCS.
func newWorkerPool(numWorkers int) *workerPool {
	if numWorkers < 1 {
		numWorkers = runtime.GOMAXPROCS(0)
	}
	return &workerPool{numWorkers: numWorkers}
}

// start launches the worker goroutines for p.
func (wp *workerPool) start(p *Population) {
	if wp.running {
		return
	}

	wp.workChan = make(chan workChunk, wp.numWorkers)
	wp.stopChan = make(chan struct{})
	wp.running = true

	for i := 0; i < wp.numWorkers; i++ {
		wp.wg.Add(1)
		go wp.worker(p)
	}
}

// stop signals all workers to exit and waits for them.
func (wp *workerPool) stop() {
	if !wp.running {
		return
	}

	close(wp.stopChan)
	wp.wg.Wait()
	close(wp.workChan)
	wp.running = false
}

// worker processes slices until stopped.
func (wp *workerPool) worker(p *Population) {
	defer wp.wg.Done()

	for {
		select {
		case <-wp.stopChan:
			return
		case chunk, ok := <-wp.workChan:
			if !ok {
				return
			}
			p.advanceSlice(chunk.offset, chunk.stride)
			chunk.done.Done()
		}
	}
}

// advanceParallel hands workerCount slices to the pool and waits for all of them.
// The slice count may exceed the pool size; extra slices queue.
func (p *Population) advanceParallel(workerCount int) {
	if !p.pool.running {
		p.pool.start(p)
	}

	var done sync.WaitGroup
	done.Add(workerCount)
	for k := 0; k < workerCount; k++ {
		p.pool.workChan <- workChunk{offset: k, stride: workerCount, done: &done}
	}
	done.Wait()
}
