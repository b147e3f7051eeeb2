package memory

import (
	"context"
	"sync"
	"time"

	"github.com/mcoot/mcregbot/internal/model"
	"github.com/mcoot/mcregbot/internal/storage"
)

// Storage is an in-memory implementation of the storage interface
type Storage struct {
	mu       sync.RWMutex
	bindings map[model.Identity]model.PlayerBinding
}

// New creates a new in-memory storage instance
func New() *Storage {
	return &Storage{
		bindings: make(map[model.Identity]model.PlayerBinding),
	}
}

// Ensure Storage implements the interface
var _ storage.Storage = (*Storage)(nil)

func (s *Storage) GetBinding(ctx context.Context, identity model.Identity) (*model.PlayerBinding, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	b, ok := s.bindings[identity]
	if !ok {
		return nil, model.ErrBindingNotFound
	}
	// Copy so callers never alias stored state
	return &b, nil
}

func (s *Storage) InsertBinding(ctx context.Context, binding *model.PlayerBinding) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.bindings[binding.Identity]; ok {
		return model.ErrBindingExists
	}
	s.bindings[binding.Identity] = *binding
	return nil
}

func (s *Storage) UpdateBinding(ctx context.Context, identity model.Identity, playerName string, at time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	b, ok := s.bindings[identity]
	if !ok {
		return model.ErrBindingNotFound
	}
	b.PlayerName = playerName
	b.LastChangeAt = at.UTC()
	s.bindings[identity] = b
	return nil
}

// Len returns the number of stored bindings
func (s *Storage) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.bindings)
}

func (s *Storage) Close() error {
	return nil
}
