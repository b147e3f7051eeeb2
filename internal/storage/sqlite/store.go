// Package sqlite provides a SQLite-backed binding store.
package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	msqlite "modernc.org/sqlite"
	sqlite3lib "modernc.org/sqlite/lib"

	"github.com/mcoot/mcregbot/internal/model"
	"github.com/mcoot/mcregbot/internal/storage"
	"github.com/mcoot/mcregbot/internal/storage/sqlite/migrations"
)

// Store persists bindings in the players table.
type Store struct {
	sqlDB *sql.DB
}

func toMillis(value time.Time) int64 {
	return value.UTC().UnixMilli()
}

func fromMillis(value int64) time.Time {
	return time.UnixMilli(value).UTC()
}

// Open opens a SQLite store at path and applies embedded migrations.
func Open(path string) (*Store, error) {
	if strings.TrimSpace(path) == "" {
		return nil, fmt.Errorf("storage path is required")
	}
	dsn := filepath.Clean(path) +
		"?_pragma=journal_mode(WAL)&_pragma=foreign_keys(1)&_pragma=busy_timeout(5000)&_pragma=synchronous(NORMAL)"
	sqlDB, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}
	// One writer at a time; SQLite serialises writes anyway
	sqlDB.SetMaxOpenConns(1)

	if err := sqlDB.Ping(); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("ping sqlite db: %w", err)
	}
	if err := applyMigrations(context.Background(), sqlDB, migrations.FS); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}
	return &Store{sqlDB: sqlDB}, nil
}

// Close closes the SQLite handle.
func (s *Store) Close() error {
	if s == nil || s.sqlDB == nil {
		return nil
	}
	return s.sqlDB.Close()
}

var _ storage.Storage = (*Store)(nil)

func (s *Store) GetBinding(ctx context.Context, identity model.Identity) (*model.PlayerBinding, error) {
	row := s.sqlDB.QueryRowContext(ctx,
		`SELECT telegram_id, minecraft_nick, last_change, created_at
		   FROM players
		  WHERE telegram_id = ?`,
		string(identity),
	)

	var b model.PlayerBinding
	var id string
	var lastChange, createdAt int64
	if err := row.Scan(&id, &b.PlayerName, &lastChange, &createdAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, model.ErrBindingNotFound
		}
		return nil, fmt.Errorf("get binding: %w", err)
	}
	b.Identity = model.Identity(id)
	b.LastChangeAt = fromMillis(lastChange)
	b.CreatedAt = fromMillis(createdAt)
	return &b, nil
}

func (s *Store) InsertBinding(ctx context.Context, binding *model.PlayerBinding) error {
	_, err := s.sqlDB.ExecContext(ctx,
		`INSERT INTO players (telegram_id, minecraft_nick, last_change, created_at)
		 VALUES (?, ?, ?, ?)`,
		string(binding.Identity),
		binding.PlayerName,
		toMillis(binding.LastChangeAt),
		toMillis(binding.CreatedAt),
	)
	if err != nil {
		if isUniqueViolation(err) {
			return model.ErrBindingExists
		}
		return fmt.Errorf("insert binding: %w", err)
	}
	return nil
}

func (s *Store) UpdateBinding(ctx context.Context, identity model.Identity, playerName string, at time.Time) error {
	res, err := s.sqlDB.ExecContext(ctx,
		`UPDATE players
		    SET minecraft_nick = ?, last_change = ?
		  WHERE telegram_id = ?`,
		playerName,
		toMillis(at),
		string(identity),
	)
	if err != nil {
		return fmt.Errorf("update binding: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("update binding: %w", err)
	}
	if n == 0 {
		return model.ErrBindingNotFound
	}
	return nil
}

func isUniqueViolation(err error) bool {
	var sqliteErr *msqlite.Error
	if errors.As(err, &sqliteErr) {
		switch sqliteErr.Code() {
		case sqlite3lib.SQLITE_CONSTRAINT_PRIMARYKEY, sqlite3lib.SQLITE_CONSTRAINT_UNIQUE:
			return true
		}
	}
	return strings.Contains(strings.ToLower(err.Error()), "unique constraint failed")
}
