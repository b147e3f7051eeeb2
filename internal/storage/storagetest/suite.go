// Package storagetest holds the behaviour every storage backend must share.
package storagetest

import (
	"context"
	"sync"
	"time"

	"github.com/stretchr/testify/suite"

	"github.com/mcoot/mcregbot/internal/model"
	"github.com/mcoot/mcregbot/internal/storage"
)

// Suite runs the storage contract against the backend returned by NewStorage.
// Backend packages embed it and set NewStorage in their own SetupTest.
type Suite struct {
	suite.Suite
	NewStorage func() storage.Storage

	Storage storage.Storage
	Ctx     context.Context
}

var baseTime = time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)

// SetupStorage must be called from the embedding suite's SetupTest
func (s *Suite) SetupStorage() {
	s.Require().NotNil(s.NewStorage, "NewStorage must be set")
	s.Storage = s.NewStorage()
	s.Ctx = context.Background()
}

func (s *Suite) TearDownTest() {
	if s.Storage != nil {
		_ = s.Storage.Close()
	}
}

func (s *Suite) TestInsertAndGetBinding() {
	b := model.NewPlayerBinding("100", "Alice", baseTime)

	err := s.Storage.InsertBinding(s.Ctx, b)
	s.Require().NoError(err)

	retrieved, err := s.Storage.GetBinding(s.Ctx, "100")
	s.Require().NoError(err)
	s.Equal(model.Identity("100"), retrieved.Identity)
	s.Equal("Alice", retrieved.PlayerName)
	s.True(baseTime.Equal(retrieved.LastChangeAt))
	s.True(baseTime.Equal(retrieved.CreatedAt))
}

func (s *Suite) TestGetBindingNotFound() {
	_, err := s.Storage.GetBinding(s.Ctx, "missing")
	s.ErrorIs(err, model.ErrBindingNotFound)
}

func (s *Suite) TestInsertDuplicateLeavesOriginal() {
	_ = s.Storage.InsertBinding(s.Ctx, model.NewPlayerBinding("100", "Alice", baseTime))

	err := s.Storage.InsertBinding(s.Ctx, model.NewPlayerBinding("100", "Mallory", baseTime.Add(time.Hour)))
	s.ErrorIs(err, model.ErrBindingExists)

	retrieved, err := s.Storage.GetBinding(s.Ctx, "100")
	s.Require().NoError(err)
	s.Equal("Alice", retrieved.PlayerName)
	s.True(baseTime.Equal(retrieved.LastChangeAt))
}

func (s *Suite) TestUpdateBindingChangesNameAndTime() {
	_ = s.Storage.InsertBinding(s.Ctx, model.NewPlayerBinding("100", "Alice", baseTime))
	later := baseTime.Add(25 * time.Hour)

	err := s.Storage.UpdateBinding(s.Ctx, "100", "Alice_v2", later)
	s.Require().NoError(err)

	retrieved, err := s.Storage.GetBinding(s.Ctx, "100")
	s.Require().NoError(err)
	s.Equal("Alice_v2", retrieved.PlayerName)
	s.True(later.Equal(retrieved.LastChangeAt))
	s.True(baseTime.Equal(retrieved.CreatedAt), "creation time must not change")
}

func (s *Suite) TestUpdateBindingNotFound() {
	err := s.Storage.UpdateBinding(s.Ctx, "missing", "Alice", baseTime)
	s.ErrorIs(err, model.ErrBindingNotFound)

	_, err = s.Storage.GetBinding(s.Ctx, "missing")
	s.ErrorIs(err, model.ErrBindingNotFound)
}

func (s *Suite) TestBindingsAreIndependent() {
	_ = s.Storage.InsertBinding(s.Ctx, model.NewPlayerBinding("100", "Alice", baseTime))
	_ = s.Storage.InsertBinding(s.Ctx, model.NewPlayerBinding("200", "Bob", baseTime))

	_ = s.Storage.UpdateBinding(s.Ctx, "100", "Carol", baseTime.Add(48*time.Hour))

	bob, err := s.Storage.GetBinding(s.Ctx, "200")
	s.Require().NoError(err)
	s.Equal("Bob", bob.PlayerName)
	s.True(baseTime.Equal(bob.LastChangeAt))
}

func (s *Suite) TestReturnedBindingIsNotShared() {
	_ = s.Storage.InsertBinding(s.Ctx, model.NewPlayerBinding("100", "Alice", baseTime))

	first, _ := s.Storage.GetBinding(s.Ctx, "100")
	first.PlayerName = "tampered"

	second, err := s.Storage.GetBinding(s.Ctx, "100")
	s.Require().NoError(err)
	s.Equal("Alice", second.PlayerName)
}

func (s *Suite) TestConcurrentInsertSameIdentity() {
	const n = 10
	var wg sync.WaitGroup
	errs := make(chan error, n)
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			errs <- s.Storage.InsertBinding(s.Ctx, model.NewPlayerBinding("100", "Alice", baseTime))
		}()
	}
	wg.Wait()
	close(errs)

	succeeded := 0
	for err := range errs {
		if err == nil {
			succeeded++
			continue
		}
		s.ErrorIs(err, model.ErrBindingExists)
	}
	s.Equal(1, succeeded)
}
