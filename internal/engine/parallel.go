package engine

import (
	"context"
	"sync"
)

// forEach runs fn for every index in [0, n), fanning out across the
// configured worker count. Each index is handled exactly once and workers
// write only their own slots, so results are deterministic regardless of
// scheduling.
func (e *Engine) forEach(ctx context.Context, n int, fn func(i int)) error {
	if e.workers <= 1 || n < 2 {
		for i := 0; i < n; i++ {
			if err := ctx.Err(); err != nil {
				return err
			}
			fn(i)
		}
		return nil
	}

	workers := e.workers
	if workers > n {
		workers = n
	}

	indexes := make(chan int)
	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range indexes {
				fn(i)
			}
		}()
	}

	var err error
feed:
	for i := 0; i < n; i++ {
		select {
		case <-ctx.Done():
			err = ctx.Err()
			break feed
		case indexes <- i:
		}
	}
	close(indexes)
	wg.Wait()
	return err
}
