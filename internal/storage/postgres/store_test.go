package postgres

import (
	"errors"
	"fmt"
	"os"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/mcoot/mcregbot/internal/model"
	"github.com/mcoot/mcregbot/internal/storage"
	"github.com/mcoot/mcregbot/internal/storage/storagetest"
)

// Set to run the shared storage suite against a live database
const dsnEnv = "MCREG_TEST_POSTGRES_DSN"

func TestOpenRequiresDSN(t *testing.T) {
	_, err := Open("")
	assert.Error(t, err)
}

func TestRowConversion(t *testing.T) {
	loc := time.FixedZone("AEST", 10*60*60)
	at := time.Date(2024, 5, 1, 18, 0, 0, 0, loc)
	b := &model.PlayerBinding{
		Identity:     "100",
		PlayerName:   "Alice",
		LastChangeAt: at,
		CreatedAt:    at.Add(-time.Hour),
	}

	row := toRow(b)
	assert.Equal(t, "100", row.TelegramID)
	assert.Equal(t, "Alice", row.MinecraftNick)
	assert.Equal(t, time.UTC, row.LastChange.Location())

	back := row.binding()
	assert.Equal(t, b.Identity, back.Identity)
	assert.Equal(t, b.PlayerName, back.PlayerName)
	assert.True(t, at.Equal(back.LastChangeAt))
	assert.True(t, b.CreatedAt.Equal(back.CreatedAt))
}

func TestIsUniqueViolation(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{"translated", gorm.ErrDuplicatedKey, true},
		{"raw driver error", &pgconn.PgError{Code: "23505", ConstraintName: "players_pkey"}, true},
		{"wrapped driver error", fmt.Errorf("create: %w", &pgconn.PgError{Code: "23505"}), true},
		{"other constraint", &pgconn.PgError{Code: "23502"}, false},
		{"not found", gorm.ErrRecordNotFound, false},
		{"plain", errors.New("connection reset"), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, isUniqueViolation(tt.err))
		})
	}
}

func TestTableName(t *testing.T) {
	assert.Equal(t, "players", player{}.TableName())
}

type StoreSuite struct {
	storagetest.Suite
	dsn string
}

func TestStoreSuite(t *testing.T) {
	dsn := os.Getenv(dsnEnv)
	if dsn == "" {
		t.Skipf("%s not set", dsnEnv)
	}
	suite.Run(t, &StoreSuite{dsn: dsn})
}

func (s *StoreSuite) SetupTest() {
	s.NewStorage = func() storage.Storage {
		store, err := Open(s.dsn)
		require.NoError(s.T(), err)
		// Each test starts from an empty table
		require.NoError(s.T(), store.db.Session(&gorm.Session{AllowGlobalUpdate: true}).Delete(&player{}).Error)
		return store
	}
	s.SetupStorage()
}

// RawHandleSuite runs the shared suite over a handle opened without
// TranslateError, as a caller of NewWithDB might pass it
type RawHandleSuite struct {
	storagetest.Suite
	dsn string
}

func TestRawHandleSuite(t *testing.T) {
	dsn := os.Getenv(dsnEnv)
	if dsn == "" {
		t.Skipf("%s not set", dsnEnv)
	}
	suite.Run(t, &RawHandleSuite{dsn: dsn})
}

func (s *RawHandleSuite) SetupTest() {
	s.NewStorage = func() storage.Storage {
		db, err := gorm.Open(postgres.Open(s.dsn), &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
		require.NoError(s.T(), err)
		store, err := NewWithDB(db)
		require.NoError(s.T(), err)
		require.NoError(s.T(), db.Session(&gorm.Session{AllowGlobalUpdate: true}).Delete(&player{}).Error)
		return store
	}
	s.SetupStorage()
}
