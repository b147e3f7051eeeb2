package storage

import (
	"context"
	"time"

	"github.com/mcoot/mcregbot/internal/model"
)

// Storage defines the interface for binding persistence.
// A committed write must be visible to every subsequent read.
type Storage interface {
	// GetBinding returns model.ErrBindingNotFound if identity has no binding
	GetBinding(ctx context.Context, identity model.Identity) (*model.PlayerBinding, error)

	// InsertBinding returns model.ErrBindingExists if identity is already bound
	InsertBinding(ctx context.Context, binding *model.PlayerBinding) error

	// UpdateBinding sets name and change time together in one commit.
	// Returns model.ErrBindingNotFound if identity has no binding.
	UpdateBinding(ctx context.Context, identity model.Identity, playerName string, at time.Time) error

	Close() error
}
