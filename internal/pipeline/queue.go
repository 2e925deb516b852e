package pipeline

import (
	"context"
	"sync"
	"time"

	"github.com/MANOJ-80/0xRupex/internal/models"
)

// Queue fans a batch of raw events over a bounded set of workers. Run
// returns only after every submitted event has reached a terminal state, so
// callers (and tests) never have to poll or sleep.
type Queue struct {
	processor      *Processor
	maxConcurrency int
}

// NewQueue creates a queue over processor. maxConcurrency values below one
// fall back to a small default.
func NewQueue(processor *Processor, maxConcurrency int) *Queue {
	if maxConcurrency <= 0 {
		maxConcurrency = 4
	}
	return &Queue{processor: processor, maxConcurrency: maxConcurrency}
}

// Run processes every event and returns per-event results in input order
// plus aggregate stats. A store failure aborts the batch.
func (q *Queue) Run(ctx context.Context, events []models.RawEvent) ([]*Result, *Stats, error) {
	started := time.Now()

	semaphore := make(chan struct{}, q.maxConcurrency)
	var wg sync.WaitGroup
	var mu sync.Mutex

	results := make([]*Result, len(events))
	var runErr error

	for i, event := range events {
		wg.Add(1)

		go func(i int, event models.RawEvent) {
			defer wg.Done()

			semaphore <- struct{}{}
			defer func() { <-semaphore }()

			res, err := q.processor.Process(ctx, event)
			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				if runErr == nil {
					runErr = err
				}
				return
			}
			results[i] = res
		}(i, event)
	}

	wg.Wait()

	if runErr != nil {
		return nil, nil, runErr
	}

	stats := NewStats()
	for _, res := range results {
		stats.Record(res)
	}
	stats.Elapsed = time.Since(started)
	return results, stats, nil
}
