package slicer

import (
	"runtime"
	"sync"
)

// parallelForLayers runs fn(layer) for every layer in [0, n), fanning out
// across a worker pool keyed on layer index per the pipeline's
// per-layer fence model: goroutines pull layer indices off a shared
// channel and each writes only to its own result slot, so no
// synchronization is needed inside fn beyond that slot. Blocks until
// every layer has been processed.
func parallelForLayers(n int, fn func(layer int)) {
	if n <= 0 {
		return
	}
	workers := runtime.NumCPU() - 1
	if workers > n {
		workers = n
	}
	if workers < 1 {
		workers = 1
	}
	jobs := make(chan int, n)
	for l := 0; l < n; l++ {
		jobs <- l
	}
	close(jobs)

	var wg sync.WaitGroup
	wg.Add(workers)
	for w := 0; w < workers; w++ {
		go func() {
			defer wg.Done()
			for layer := range jobs {
				fn(layer)
			}
		}()
	}
	wg.Wait()
}
