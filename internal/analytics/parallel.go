package analytics

import (
	"runtime"

	"golang.org/x/sync/errgroup"

	"delivery_reviews/internal/domain"
)

// Inputs below this size are aggregated in a single pass; the sharded path
// only pays off once the grouping maps dominate.
const parallelThreshold = 4096

var defaultShards = runtime.GOMAXPROCS(0)

// aggregateSharded splits records into contiguous chunks, accumulates each on
// its own goroutine, and merges the partial accumulators in chunk order.
// Merging in chunk order preserves global first-seen key ordering, so the
// result is byte-for-byte the same as the sequential pass.
func aggregateSharded(records []domain.Review, shards int) MetricsBundle {
	if shards < 2 || len(records) < shards {
		shards = 1
	}
	if shards == 1 {
		acc := newAccumulator()
		for i := range records {
			acc.add(&records[i])
		}
		return acc.finalize()
	}

	accs := make([]*accumulator, shards)
	chunk := (len(records) + shards - 1) / shards

	var g errgroup.Group
	for s := 0; s < shards; s++ {
		s := s
		g.Go(func() error {
			lo := s * chunk
			hi := lo + chunk
			if hi > len(records) {
				hi = len(records)
			}
			acc := newAccumulator()
			for i := lo; i < hi; i++ {
				acc.add(&records[i])
			}
			accs[s] = acc
			return nil
		})
	}
	_ = g.Wait() // shard funcs never error

	total := accs[0]
	for _, acc := range accs[1:] {
		total.merge(acc)
	}
	return total.finalize()
}
