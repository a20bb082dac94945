// Package async runs slices of work with bounded concurrency.
package async

import (
	"context"

	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/semaphore"
)

// Map applies f to every element of src with at most concurrencyLimit calls
// in flight. The result at index i is f(src[i]), whatever the completion
// order. The first error cancels the context handed to the remaining calls
// and is returned.
func Map[T any, D any](ctx context.Context, src []T, concurrencyLimit int, f func(context.Context, T) (D, error)) ([]D, error) {
	results := make([]D, len(src))
	if len(src) == 0 {
		return results, nil
	}

	if concurrencyLimit <= 0 || concurrencyLimit > len(src) {
		concurrencyLimit = len(src)
	}

	sem := semaphore.NewWeighted(int64(concurrencyLimit))
	g, gctx := errgroup.WithContext(ctx)

	for i, element := range src {
		if err := sem.Acquire(gctx, 1); err != nil {
			break
		}
		i, element := i, element
		g.Go(func() error {
			defer sem.Release(1)

			r, err := f(gctx, element)
			if err != nil {
				return err
			}
			results[i] = r
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return results, nil
}
