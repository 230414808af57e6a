package decode

import (
	"context"

	"github.com/sourcegraph/conc/pool"
)

// BatchResult pairs one request with its run outcome.
type BatchResult struct {
	Request string
	Result  *Result
	Err     error
}

// DecodeBatch runs many requests through the engine with bounded
// concurrency. Each run owns an independent generation context; the
// shared vocabulary is read-only model state, so no locking happens at
// this layer. Results keep the input order.
func (d *Decoder) DecodeBatch(ctx context.Context, requests []string, concurrency int) []BatchResult {
	if concurrency <= 0 {
		concurrency = 1
	}

	results := make([]BatchResult, len(requests))
	p := pool.New().WithMaxGoroutines(concurrency)
	for i, req := range requests {
		p.Go(func() {
			res, err := d.Decode(ctx, req)
			results[i] = BatchResult{Request: req, Result: res, Err: err}
		})
	}
	p.Wait()

	return results
}
