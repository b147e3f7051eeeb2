package sqlite

import (
	"context"
	"path/filepath"
	"testing"
	"testing/fstest"
	"time"

	"github.com/stretchr/testify/suite"

	"github.com/mcoot/mcregbot/internal/model"
	"github.com/mcoot/mcregbot/internal/storage"
	"github.com/mcoot/mcregbot/internal/storage/storagetest"
)

type StoreSuite struct {
	storagetest.Suite
	path string
}

func TestStoreSuite(t *testing.T) {
	suite.Run(t, new(StoreSuite))
}

func (s *StoreSuite) SetupTest() {
	s.path = filepath.Join(s.T().TempDir(), "bindings.db")
	s.NewStorage = func() storage.Storage {
		store, err := Open(s.path)
		s.Require().NoError(err)
		return store
	}
	s.SetupStorage()
}

func (s *StoreSuite) TestOpenRequiresPath() {
	_, err := Open("  ")
	s.Error(err)
}

func (s *StoreSuite) TestBindingSurvivesReopen() {
	at := time.Date(2024, 3, 1, 9, 30, 0, 0, time.UTC)
	s.Require().NoError(s.Storage.InsertBinding(s.Ctx, model.NewPlayerBinding("100", "Alice", at)))
	s.Require().NoError(s.Storage.Close())

	reopened, err := Open(s.path)
	s.Require().NoError(err)
	s.Storage = reopened

	b, err := reopened.GetBinding(s.Ctx, "100")
	s.Require().NoError(err)
	s.Equal("Alice", b.PlayerName)
	s.True(at.Equal(b.LastChangeAt))
}

func (s *StoreSuite) TestMigrationsAreRecordedOnce() {
	store := s.Storage.(*Store)
	var count int
	err := store.sqlDB.QueryRow("SELECT COUNT(*) FROM " + migrationTable).Scan(&count)
	s.Require().NoError(err)
	s.Equal(1, count)

	// Re-applying is a no-op
	s.Require().NoError(applyMigrations(context.Background(), store.sqlDB, fstest.MapFS{
		"001_players.sql": {Data: []byte("CREATE TABLE players (broken)")},
	}))
}

func (s *StoreSuite) TestExtractUp() {
	content := "-- +migrate Up\nCREATE TABLE a (x);\n-- +migrate Down\nDROP TABLE a;\n"
	s.Equal("\nCREATE TABLE a (x);\n", extractUp(content))
	s.Equal("SELECT 1;", extractUp("SELECT 1;"))
	s.Equal("\nSELECT 1;", extractUp("-- +migrate Up\nSELECT 1;"))
}
