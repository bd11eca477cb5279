package service

import (
	"hash/fnv"
	"sync"
)

const defaultStripes = 32

// seriesLocks serializes token rotations per series. A series maps to one of
// a fixed set of mutexes by consistent hashing, so two rotations on the same
// series never interleave while unrelated series rarely contend.
type seriesLocks struct {
	stripes []sync.Mutex
}

func newSeriesLocks(n int) *seriesLocks {
	if n <= 0 {
		n = defaultStripes
	}
	return &seriesLocks{stripes: make([]sync.Mutex, n)}
}

// Lock acquires the stripe owning series and returns its unlock func.
func (l *seriesLocks) Lock(series string) func() {
	m := &l.stripes[l.stripeIndex(series)]
	m.Lock()
	return m.Unlock
}

// stripeIndex maps a series deterministically to a stripe.
func (l *seriesLocks) stripeIndex(series string) int {
	h := fnv.New32a()
	_, _ = h.Write([]byte(series))
	return int(h.Sum32()) % len(l.stripes)
}
