// Package parallel contains the bounded ForEach used to run per-sample work
// of a batch concurrently.
package parallel

import "sync"
import "sync/atomic"

// ForEach calls body for every index in [0, length) on at most limit
// goroutines and returns once all calls finished. A limit below one runs the
// loop on the calling goroutine.
func ForEach(length, limit int, body func(i int)) {
	if length <= 0 {
		return
	}
	if limit <= 1 || length == 1 {
		for i := 0; i < length; i++ {
			body(i)
		}
		return
	}
	if limit > length {
		limit = length
	}

	var next atomic.Int64
	var wg sync.WaitGroup
	wg.Add(limit)
	for n := 0; n < limit; n++ {
		go func() {
			defer wg.Done()
			for {
				i := int(next.Add(1) - 1)
				if i >= length {
					return
				}
				body(i)
			}
		}()
	}
	wg.Wait()
}

// Map calls fn for every index on at most limit goroutines and returns the
// results in index order.
func Map[T any](length, limit int, fn func(i int) T) []T {
	if length <= 0 {
		return nil
	}
	o := make([]T, length)
	ForEach(length, limit, func(i int) {
		o[i] = fn(i)
	})
	return o
}
