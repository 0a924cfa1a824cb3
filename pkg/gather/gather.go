package gather

import (
	"context"
	"sync"

	"golang.org/x/sync/errgroup"
)

// Map runs fn for every key concurrently and returns the results keyed by
// input. Results are paired with their originating key, never with a slice
// position, so callers cannot mis-assign them. The first error cancels the
// remaining calls and fails the whole gather.
func Map[K comparable, V any](ctx context.Context, keys []K, fn func(context.Context, K) (V, error)) (map[K]V, error) {
	out := make(map[K]V, len(keys))
	if len(keys) == 0 {
		return out, nil
	}

	g, ctx := errgroup.WithContext(ctx)
	var mu sync.Mutex

	for _, key := range keys {
		key := key
		g.Go(func() error {
			value, err := fn(ctx, key)
			if err != nil {
				return err
			}
			mu.Lock()
			out[key] = value
			mu.Unlock()
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return out, nil
}
