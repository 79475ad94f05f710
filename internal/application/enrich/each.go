package enrich

import (
	"context"

	"golang.org/x/sync/errgroup"
)

// concurrency bounds the lookups issued in parallel for one listing.
const concurrency = 8

// Each calls fn for every index in [0, n) with bounded concurrency and returns
// the first error. fn must only write to its own index of any shared slice.
func Each(ctx context.Context, n int, fn func(ctx context.Context, i int) error) error {
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(concurrency)
	for i := range n {
		g.Go(func() error { return fn(ctx, i) })
	}
	return g.Wait()
}
