// Package pairlock serializes work on unordered user pairs. Like and
// dislike actions on (u, v) and (v, u) touch both directional match
// rows, so both orderings map to the same lock.
package pairlock

import "sync"

// PairLock is a keyed mutex over unordered uint64 pairs.
type PairLock struct {
	mu    sync.Mutex
	locks map[[2]uint64]*entry
}

type entry struct {
	mu   sync.Mutex
	refs int
}

func New() *PairLock {
	return &PairLock{locks: make(map[[2]uint64]*entry)}
}

// Lock acquires the lock for the unordered pair (a, b) and returns the
// unlock function. Entries are dropped once the last holder releases.
func (p *PairLock) Lock(a, b uint64) (unlock func()) {
	key := pairKey(a, b)

	p.mu.Lock()
	e, ok := p.locks[key]
	if !ok {
		e = &entry{}
		p.locks[key] = e
	}
	e.refs++
	p.mu.Unlock()

	e.mu.Lock()

	return func() {
		e.mu.Unlock()

		p.mu.Lock()
		e.refs--
		if e.refs == 0 {
			delete(p.locks, key)
		}
		p.mu.Unlock()
	}
}

func pairKey(a, b uint64) [2]uint64 {
	if a > b {
		a, b = b, a
	}
	return [2]uint64{a, b}
}
