package locks

import (
	"context"
	"slices"
	"strings"

	"github.com/mcoot/mcregbot/internal/model"
)

// Set holds the lock spaces shared by the registration and rotation
// workflows. Callers always take an identity lock before a name lock.
type Set struct {
	Identities *Keyed
	Names      *Keyed
}

// NewSet creates an empty lock Set
func NewSet() *Set {
	return &Set{
		Identities: NewKeyed(),
		Names:      NewKeyed(),
	}
}

// LockIdentity serializes requests for one identity
func (s *Set) LockIdentity(ctx context.Context, identity model.Identity) (func(), error) {
	return s.Identities.Lock(ctx, string(identity))
}

// LockName serializes claims on one player name, ignoring case
func (s *Set) LockName(ctx context.Context, name string) (func(), error) {
	return s.Names.Lock(ctx, strings.ToLower(name))
}

// LockNames locks several player names at once, ignoring case and
// duplicates. Keys are always taken in sorted order. On failure no lock is held.
func (s *Set) LockNames(ctx context.Context, names ...string) (func(), error) {
	keys := make([]string, 0, len(names))
	for _, n := range names {
		keys = append(keys, strings.ToLower(n))
	}
	slices.Sort(keys)
	keys = slices.Compact(keys)

	unlocks := make([]func(), 0, len(keys))
	release := func() {
		for i := len(unlocks) - 1; i >= 0; i-- {
			unlocks[i]()
		}
	}
	for _, key := range keys {
		unlock, err := s.Names.Lock(ctx, key)
		if err != nil {
			release()
			return nil, err
		}
		unlocks = append(unlocks, unlock)
	}
	return release, nil
}
