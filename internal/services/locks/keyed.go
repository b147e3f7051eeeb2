package locks

import (
	"context"
	"sync"

	"golang.org/x/sync/semaphore"
)

// Keyed is a set of mutexes addressed by string key. Entries exist only while
// some caller holds or waits on them.
//
// Acquisition honours ctx, so a request never waits past its own deadline.
type Keyed struct {
	mu      sync.Mutex
	entries map[string]*entry
}

type entry struct {
	sem  *semaphore.Weighted
	refs int
}

// NewKeyed creates an empty Keyed lock set
func NewKeyed() *Keyed {
	return &Keyed{entries: make(map[string]*entry)}
}

// Lock blocks until key is held or ctx is done. On success the returned
// function releases the lock and must be called exactly once.
func (k *Keyed) Lock(ctx context.Context, key string) (func(), error) {
	e := k.acquireRef(key)

	if err := e.sem.Acquire(ctx, 1); err != nil {
		k.releaseRef(key, e)
		return nil, err
	}

	var once sync.Once
	return func() {
		once.Do(func() {
			e.sem.Release(1)
			k.releaseRef(key, e)
		})
	}, nil
}

// Len returns the number of live entries
func (k *Keyed) Len() int {
	k.mu.Lock()
	defer k.mu.Unlock()
	return len(k.entries)
}

func (k *Keyed) acquireRef(key string) *entry {
	k.mu.Lock()
	defer k.mu.Unlock()
	e, ok := k.entries[key]
	if !ok {
		e = &entry{sem: semaphore.NewWeighted(1)}
		k.entries[key] = e
	}
	e.refs++
	return e
}

func (k *Keyed) releaseRef(key string, e *entry) {
	k.mu.Lock()
	defer k.mu.Unlock()
	e.refs--
	if e.refs == 0 {
		delete(k.entries, key)
	}
}
