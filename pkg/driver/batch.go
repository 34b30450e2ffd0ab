// Package driver - multi-file batch compilation
package driver

import (
	"context"

	"golang.org/x/sync/errgroup"
)

// BatchCompile runs independent compilation units in parallel. Each unit
// owns its own module tree exclusively, so no locking is needed across
// units. Results are returned in input order; the first failure is
// reported after all in-flight units reach a stage boundary.
func BatchCompile(ctx context.Context, units []Options, workers int) ([]*Result, error) {
	if workers <= 0 {
		workers = 1
	}

	results := make([]*Result, len(units))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)

	for i, opts := range units {
		i, opts := i, opts
		g.Go(func() error {
			res, err := Compile(gctx, opts)
			results[i] = res
			return err
		})
	}

	err := g.Wait()
	return results, err
}
