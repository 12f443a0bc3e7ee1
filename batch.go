package scriptbox

import (
	"context"
	"runtime"
	"sync"

	"github.com/kolkov/scriptbox/value"
)

// BatchResult is the outcome of one entity run in a batch.
type BatchResult struct {
	Index int         // position of the job in the input slice
	Value value.Value // completion value on success
	Err   error       // *RuntimeError, or ctx.Err() for jobs never started
}

// RunBatch runs the program once per job, on up to workers goroutines
// (default: runtime.NumCPU()). Each job is one entity's bindings; results
// come back in job order. Jobs must not share mutable values, since
// objects and arrays are not synchronized.
//
// Cancelling ctx stops jobs that have not started. A run in progress is
// bounded by its own budget, not by ctx.
func (p *Program) RunBatch(ctx context.Context, jobs []map[string]value.Value, opts *Options, workers int) []BatchResult {
	if workers <= 0 {
		workers = runtime.NumCPU()
	}
	if workers > len(jobs) {
		workers = len(jobs)
	}

	results := make([]BatchResult, len(jobs))
	indices := make(chan int)
	var wg sync.WaitGroup

	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for idx := range indices {
				v, err := p.Run(jobs[idx], opts)
				results[idx] = BatchResult{Index: idx, Value: v, Err: err}
			}
		}()
	}

	next := 0
feed:
	for ; next < len(jobs); next++ {
		if ctx.Err() != nil {
			break
		}
		select {
		case <-ctx.Done():
			break feed
		case indices <- next:
		}
	}
	close(indices)
	wg.Wait()

	for i := next; i < len(jobs); i++ {
		results[i] = BatchResult{Index: i, Value: value.Undefined(), Err: ctx.Err()}
	}
	return results
}
