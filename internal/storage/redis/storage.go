package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/mcoot/mcregbot/internal/model"
	"github.com/mcoot/mcregbot/internal/storage"
)

// Storage is a Redis-backed implementation of the storage interface.
// Each binding is one JSON value with no TTL.
type Storage struct {
	client *redis.Client
	cfg    Config
}

// New creates a new Redis storage instance
func New(cfg Config) (*Storage, error) {
	opts, err := redis.ParseURL(cfg.URL)
	if err != nil {
		return nil, err
	}

	opts.PoolSize = cfg.PoolSize
	opts.MinIdleConns = cfg.MinIdleConns

	client := redis.NewClient(opts)

	// Verify connection
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, err
	}

	return NewWithClient(client, cfg), nil
}

// NewWithClient creates a Redis storage with an existing client (for testing)
func NewWithClient(client *redis.Client, cfg Config) *Storage {
	if cfg.KeyPrefix == "" {
		cfg.KeyPrefix = DefaultConfig().KeyPrefix
	}
	if cfg.UpdateRetries <= 0 {
		cfg.UpdateRetries = DefaultConfig().UpdateRetries
	}
	return &Storage{
		client: client,
		cfg:    cfg,
	}
}

// Close closes the Redis connection
func (s *Storage) Close() error {
	return s.client.Close()
}

// Ensure Storage implements the interface
var _ storage.Storage = (*Storage)(nil)

func (s *Storage) GetBinding(ctx context.Context, identity model.Identity) (*model.PlayerBinding, error) {
	data, err := s.client.Get(ctx, bindingKey(s.cfg.KeyPrefix, identity)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, model.ErrBindingNotFound
		}
		return nil, err
	}

	var b model.PlayerBinding
	if err := json.Unmarshal(data, &b); err != nil {
		return nil, fmt.Errorf("decode binding %s: %w", identity, err)
	}
	return &b, nil
}

func (s *Storage) InsertBinding(ctx context.Context, binding *model.PlayerBinding) error {
	data, err := json.Marshal(binding)
	if err != nil {
		return err
	}

	// SETNX keeps the first writer
	created, err := s.client.SetNX(ctx, bindingKey(s.cfg.KeyPrefix, binding.Identity), data, 0).Result()
	if err != nil {
		return err
	}
	if !created {
		return model.ErrBindingExists
	}
	return nil
}

func (s *Storage) UpdateBinding(ctx context.Context, identity model.Identity, playerName string, at time.Time) error {
	key := bindingKey(s.cfg.KeyPrefix, identity)

	txf := func(tx *redis.Tx) error {
		data, err := tx.Get(ctx, key).Bytes()
		if err != nil {
			if errors.Is(err, redis.Nil) {
				return model.ErrBindingNotFound
			}
			return err
		}

		var b model.PlayerBinding
		if err := json.Unmarshal(data, &b); err != nil {
			return fmt.Errorf("decode binding %s: %w", identity, err)
		}
		b.PlayerName = playerName
		b.LastChangeAt = at.UTC()

		updated, err := json.Marshal(&b)
		if err != nil {
			return err
		}

		// Name and timestamp live in one value, so one SET commits both
		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.Set(ctx, key, updated, 0)
			return nil
		})
		return err
	}

	for i := 0; i < s.cfg.UpdateRetries; i++ {
		err := s.client.Watch(ctx, txf, key)
		if errors.Is(err, redis.TxFailedErr) {
			continue
		}
		return err
	}
	return fmt.Errorf("update binding %s: %w", identity, redis.TxFailedErr)
}
