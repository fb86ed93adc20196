package source

import (
	"context"

	"golang.org/x/sync/errgroup"
)

// ProbeResult is the outcome of loading one endpoint.
type ProbeResult struct {
	Endpoint Endpoint
	Count    int
	Err      error
}

// Probe loads every endpoint concurrently and reports per-endpoint counts.
// A failing endpoint does not stop the others; results keep endpoint order.
// The only error is the context's, when it ends before every load started.
func Probe(ctx context.Context, loader Loader, endpoints []Endpoint) ([]ProbeResult, error) {
	results := make([]ProbeResult, len(endpoints))
	var g errgroup.Group

	for i, ep := range endpoints {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			records, err := loader.Load(ctx, ep.URL)
			results[i] = ProbeResult{Endpoint: ep, Count: len(records), Err: err}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}
