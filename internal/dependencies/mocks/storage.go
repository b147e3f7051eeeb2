package mocks

import (
	"context"
	"sync"
	"time"

	"github.com/mcoot/mcregbot/internal/model"
	"github.com/mcoot/mcregbot/internal/storage"
)

// FaultyStorage wraps a real store and fails selected operations on demand
type FaultyStorage struct {
	storage.Storage

	mu        sync.Mutex
	getErr    error
	insertErr error
	updateErr error
}

// NewFaultyStorage wraps inner
func NewFaultyStorage(inner storage.Storage) *FaultyStorage {
	return &FaultyStorage{Storage: inner}
}

// FailGet makes GetBinding return err
func (f *FaultyStorage) FailGet(err error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.getErr = err
}

// FailInsert makes InsertBinding return err without writing
func (f *FaultyStorage) FailInsert(err error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.insertErr = err
}

// FailUpdate makes UpdateBinding return err without writing
func (f *FaultyStorage) FailUpdate(err error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.updateErr = err
}

func (f *FaultyStorage) GetBinding(ctx context.Context, identity model.Identity) (*model.PlayerBinding, error) {
	f.mu.Lock()
	err := f.getErr
	f.mu.Unlock()
	if err != nil {
		return nil, err
	}
	return f.Storage.GetBinding(ctx, identity)
}

func (f *FaultyStorage) InsertBinding(ctx context.Context, binding *model.PlayerBinding) error {
	f.mu.Lock()
	err := f.insertErr
	f.mu.Unlock()
	if err != nil {
		return err
	}
	return f.Storage.InsertBinding(ctx, binding)
}

func (f *FaultyStorage) UpdateBinding(ctx context.Context, identity model.Identity, playerName string, at time.Time) error {
	f.mu.Lock()
	err := f.updateErr
	f.mu.Unlock()
	if err != nil {
		return err
	}
	return f.Storage.UpdateBinding(ctx, identity, playerName, at)
}
