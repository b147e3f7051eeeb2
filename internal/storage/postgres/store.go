// Package postgres provides a Postgres-backed binding store built on gorm.
package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/mcoot/mcregbot/internal/model"
	"github.com/mcoot/mcregbot/internal/storage"
)

// player is the row shape of the players table
type player struct {
	TelegramID    string    `gorm:"column:telegram_id;primaryKey"`
	MinecraftNick string    `gorm:"column:minecraft_nick;not null"`
	LastChange    time.Time `gorm:"column:last_change;not null"`
	CreatedAt     time.Time `gorm:"column:created_at;not null"`
}

func (player) TableName() string {
	return "players"
}

func toRow(b *model.PlayerBinding) player {
	return player{
		TelegramID:    string(b.Identity),
		MinecraftNick: b.PlayerName,
		LastChange:    b.LastChangeAt.UTC(),
		CreatedAt:     b.CreatedAt.UTC(),
	}
}

func (p player) binding() *model.PlayerBinding {
	return &model.PlayerBinding{
		Identity:     model.Identity(p.TelegramID),
		PlayerName:   p.MinecraftNick,
		LastChangeAt: p.LastChange.UTC(),
		CreatedAt:    p.CreatedAt.UTC(),
	}
}

// Store persists bindings in Postgres
type Store struct {
	db *gorm.DB
}

// Open connects to dsn and migrates the players table.
func Open(dsn string) (*Store, error) {
	if strings.TrimSpace(dsn) == "" {
		return nil, fmt.Errorf("postgres dsn is required")
	}
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		TranslateError: true,
		Logger:         logger.Default.LogMode(logger.Silent),
		NowFunc:        func() time.Time { return time.Now().UTC() },
	})
	if err != nil {
		return nil, fmt.Errorf("open postgres: %w", err)
	}
	return NewWithDB(db)
}

// NewWithDB wraps an existing gorm handle and migrates the schema.
// Duplicate identities are detected with or without TranslateError.
func NewWithDB(db *gorm.DB) (*Store, error) {
	if err := db.AutoMigrate(&player{}); err != nil {
		return nil, fmt.Errorf("migrate players: %w", err)
	}
	return &Store{db: db}, nil
}

// Close closes the underlying connection pool
func (s *Store) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

var _ storage.Storage = (*Store)(nil)

func (s *Store) GetBinding(ctx context.Context, identity model.Identity) (*model.PlayerBinding, error) {
	var row player
	err := s.db.WithContext(ctx).First(&row, "telegram_id = ?", string(identity)).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, model.ErrBindingNotFound
		}
		return nil, fmt.Errorf("get binding: %w", err)
	}
	return row.binding(), nil
}

func (s *Store) InsertBinding(ctx context.Context, binding *model.PlayerBinding) error {
	row := toRow(binding)
	if err := s.db.WithContext(ctx).Create(&row).Error; err != nil {
		if isUniqueViolation(err) {
			return model.ErrBindingExists
		}
		return fmt.Errorf("insert binding: %w", err)
	}
	return nil
}

// uniqueViolation is the SQLSTATE for a duplicate key
const uniqueViolation = "23505"

// isUniqueViolation matches the translated gorm error as well as the raw
// driver error returned when the handle was opened without TranslateError
func isUniqueViolation(err error) bool {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == uniqueViolation
}

func (s *Store) UpdateBinding(ctx context.Context, identity model.Identity, playerName string, at time.Time) error {
	res := s.db.WithContext(ctx).
		Model(&player{}).
		Where("telegram_id = ?", string(identity)).
		Updates(map[string]any{
			"minecraft_nick": playerName,
			"last_change":    at.UTC(),
		})
	if res.Error != nil {
		return fmt.Errorf("update binding: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return model.ErrBindingNotFound
	}
	return nil
}
