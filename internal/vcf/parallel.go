package vcf

import (
	"runtime"
	"sync"
)

// WorkItem is one data line queued for decoding.
type WorkItem struct {
	Seq  int
	Line string
	Num  int // 1-based input line number
}

// WorkResult holds the decode outcome for a single line.
type WorkResult struct {
	Seq    int
	Num    int
	Record *Record
	Err    error
}

// DecodeParallel decodes work items using a pool of workers. The schema
// is read-only, so lines decode independently; results are sent to the
// returned channel in arrival order (not sequence order). Use
// OrderedCollect to consume results in sequence-number order.
// If workers is 0, runtime.NumCPU() is used.
func (d *Decoder) DecodeParallel(items <-chan WorkItem, workers int) <-chan WorkResult {
	if workers <= 0 {
		workers = runtime.NumCPU()
	}

	results := make(chan WorkResult, 2*workers)

	var wg sync.WaitGroup
	wg.Add(workers)

	for range workers {
		go func() {
			defer wg.Done()
			for item := range items {
				rec, err := d.DecodeLine(item.Line, item.Num)
				results <- WorkResult{
					Seq:    item.Seq,
					Num:    item.Num,
					Record: rec,
					Err:    err,
				}
			}
		}()
	}

	go func() {
		wg.Wait()
		close(results)
	}()

	return results
}

// OrderedCollect calls fn for each result in sequence-number order.
// It buffers out-of-order results in a pending map and emits them
// as soon as the next expected sequence number is available.
// Blocks until the results channel is closed.
func OrderedCollect(results <-chan WorkResult, fn func(WorkResult) error) error {
	pending := make(map[int]WorkResult)
	nextSeq := 0

	for r := range results {
		pending[r.Seq] = r

		for {
			rr, ok := pending[nextSeq]
			if !ok {
				break
			}
			delete(pending, nextSeq)
			nextSeq++
			if err := fn(rr); err != nil {
				// Drain remaining results to unblock workers.
				for range results {
				}
				return err
			}
		}
	}

	return nil
}
