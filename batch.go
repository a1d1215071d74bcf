package mailbridge

import (
	"context"
	"sync"

	"golang.org/x/sync/semaphore"
)

const defaultSendConcurrency = 10

// SendEach sends every request concurrently, bounded by the given
// concurrency limit (a default applies when it is not positive). Results
// come back in input order and each element carries its own envelope, so
// one failed send never affects the others. There is no batching on the
// wire; each request is an independent Send.
func (c *Client) SendEach(ctx context.Context, reqs []*EmailRequest, concurrency int) []*Result {
	if concurrency <= 0 {
		concurrency = defaultSendConcurrency
	}

	sem := semaphore.NewWeighted(int64(concurrency))
	results := make([]*Result, len(reqs))

	var wg sync.WaitGroup
	for i, req := range reqs {
		if err := sem.Acquire(ctx, 1); err != nil {
			// Context is done; Send fails fast and still produces a
			// uniform envelope for the remaining requests.
			results[i] = c.Send(ctx, req)
			continue
		}
		wg.Add(1)
		go func(i int, req *EmailRequest) {
			defer wg.Done()
			defer sem.Release(1)
			results[i] = c.Send(ctx, req)
		}(i, req)
	}
	wg.Wait()

	return results
}
