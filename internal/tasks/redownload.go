package tasks

import (
	"context"
	"fmt"
	"sync"

	"golang.org/x/time/rate"

	"github.com/desertthunder/tedtagger/internal/shared"
)

// RedownloadResult summarizes a batch redownload.
type RedownloadResult struct {
	Total     int
	Succeeded []string
	Failed    map[string]error
}

// RedownloadAll asks the backend to redownload every id, each exactly once.
//
// Requests run on a bounded worker pool paced by a rate limiter. A canceled
// context stops dispatching; ids never sent are reported as failed.
func (e *Engine) RedownloadAll(ctx context.Context, ids []string, progress chan<- ProgressUpdate) (*RedownloadResult, Result) {
	result := &RedownloadResult{
		Total:  len(ids),
		Failed: make(map[string]error),
	}
	if len(ids) == 0 {
		return result, failure(shared.ErrEmptySelection)
	}

	type outcome struct {
		id  string
		err error
	}

	limiter := rate.NewLimiter(rate.Limit(e.rateLimit), 1)
	jobs := make(chan string)
	outcomes := make(chan outcome, len(ids))

	var wg sync.WaitGroup
	for range min(e.workers, len(ids)) {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for id := range jobs {
				outcomes <- outcome{id: id, err: e.client.RedownloadMediaItem(ctx, id)}
			}
		}()
	}

	go func() {
		defer close(jobs)
		for i, id := range ids {
			if err := limiter.Wait(ctx); err != nil {
				for _, skipped := range ids[i:] {
					outcomes <- outcome{id: skipped, err: err}
				}
				return
			}
			jobs <- id
		}
	}()

	go func() {
		wg.Wait()
		close(outcomes)
	}()

	completed := 0
	for o := range outcomes {
		completed++
		if o.err != nil {
			result.Failed[o.id] = o.err
			e.logger.Warn("redownload failed", "id", o.id, "error", o.err)
		} else {
			result.Succeeded = append(result.Succeeded, o.id)
		}
		sendProgress(progress, redownloadUpdate(completed, len(ids), o.id, o.err))
	}

	if len(result.Failed) > 0 {
		err := fmt.Errorf("%w: %d of %d redownloads failed", shared.ErrAPIRequest, len(result.Failed), len(ids))
		return result, failure(err)
	}
	return result, success("Redownloaded %d media item(s)", len(ids))
}
