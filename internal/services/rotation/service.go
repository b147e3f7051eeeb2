// Package rotation moves an existing binding to a new player name.
package rotation

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/mcoot/mcregbot/internal/dependencies/clock"
	"github.com/mcoot/mcregbot/internal/model"
	"github.com/mcoot/mcregbot/internal/services/allowlist"
	"github.com/mcoot/mcregbot/internal/services/locks"
	"github.com/mcoot/mcregbot/internal/services/validator"
	"github.com/mcoot/mcregbot/internal/storage"
)

const tracerName = "github.com/mcoot/mcregbot/internal/services/rotation"

// Config holds configuration for the rotation service
type Config struct {
	// Cooldown is the minimum time between two name changes
	Cooldown time.Duration
}

// DefaultConfig returns default rotation configuration
func DefaultConfig() Config {
	return Config{
		Cooldown: 24 * time.Hour,
	}
}

// Service runs the rotation workflow
type Service struct {
	storage   storage.Storage
	allowlist *allowlist.Client
	locks     *locks.Set
	clock     clock.Clock
	cfg       Config
	logger    *slog.Logger
	tracer    trace.Tracer
}

// New creates a new rotation Service
func New(
	storage storage.Storage,
	allowlist *allowlist.Client,
	locks *locks.Set,
	clock clock.Clock,
	cfg Config,
	logger *slog.Logger,
) *Service {
	if cfg.Cooldown <= 0 {
		cfg.Cooldown = DefaultConfig().Cooldown
	}
	return &Service{
		storage:   storage,
		allowlist: allowlist,
		locks:     locks,
		clock:     clock,
		cfg:       cfg,
		logger:    logger,
		tracer:    otel.Tracer(tracerName),
	}
}

// Cooldown returns the configured minimum time between changes
func (s *Service) Cooldown() time.Duration {
	return s.cfg.Cooldown
}

// Rotate replaces the player name bound to identity with newName.
// The gates run in order: name validity, ban status of the current name,
// cooldown, availability of the new name.
func (s *Service) Rotate(ctx context.Context, identity model.Identity, newName string) (*model.PlayerBinding, error) {
	ctx, span := s.tracer.Start(ctx, "rotation.Rotate", trace.WithAttributes(
		attribute.String("identity", string(identity)),
		attribute.String("player_name", newName),
	))
	defer span.End()

	binding, err := s.rotate(ctx, identity, newName)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
	return binding, err
}

func (s *Service) rotate(ctx context.Context, identity model.Identity, newName string) (*model.PlayerBinding, error) {
	if !validator.Validate(newName) {
		return nil, model.ErrInvalidName
	}

	unlockIdentity, err := s.locks.LockIdentity(ctx, identity)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", model.ErrBusy, err)
	}
	defer unlockIdentity()

	current, err := s.storage.GetBinding(ctx, identity)
	if err != nil {
		if errors.Is(err, model.ErrBindingNotFound) {
			return nil, model.ErrNotRegistered
		}
		return nil, fmt.Errorf("load binding: %w", err)
	}
	oldName := current.PlayerName

	if ban := s.allowlist.BanStatus(ctx, oldName); ban.Blocked() {
		s.logger.Warn("rotation blocked",
			slog.String("identity", string(identity)),
			slog.String("player_name", oldName),
			slog.String("status", ban.Status.String()),
			slog.Bool("banned", ban.Banned),
		)
		return nil, model.ErrRotationBlocked
	}

	now := s.clock.Now()
	if elapsed := now.Sub(current.LastChangeAt); elapsed < s.cfg.Cooldown {
		return nil, &model.CooldownError{Remaining: s.cfg.Cooldown - elapsed}
	}

	// The remote list already holds every casing of the current name
	if strings.EqualFold(oldName, newName) {
		return nil, model.ErrNameTaken
	}

	// The old name stays claimed until the binding moves off it
	unlockNames, err := s.locks.LockNames(ctx, oldName, newName)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", model.ErrBusy, err)
	}
	defer unlockNames()

	list := s.allowlist.ListNames(ctx)
	if !list.OK() {
		s.logger.Warn("rotation stopped: allow-list unavailable",
			slog.String("identity", string(identity)),
			slog.String("status", list.Status.String()),
		)
		return nil, fmt.Errorf("list allow-list: %w", model.ErrAuthorityUnavailable)
	}
	if list.Contains(newName) {
		return nil, model.ErrNameTaken
	}

	if removed := s.allowlist.RemoveName(ctx, oldName); !removed.OK() {
		s.logger.Warn("rotation stopped: allow-list remove failed",
			slog.String("identity", string(identity)),
			slog.String("player_name", oldName),
			slog.String("status", removed.Status.String()),
		)
		return nil, fmt.Errorf("remove from allow-list: %w", model.ErrAuthorityUnavailable)
	}

	if added := s.allowlist.AddName(ctx, newName); !added.OK() {
		s.logger.Error("rotation removed old name but could not add new name",
			slog.String("identity", string(identity)),
			slog.String("old_name", oldName),
			slog.String("missing_name", newName),
			slog.String("status", added.Status.String()),
		)
		return nil, &model.InconsistentStateError{
			Kind:     model.MissingRemoteName,
			Identity: identity,
			OldName:  oldName,
			NewName:  newName,
			Cause:    fmt.Errorf("add to allow-list: %w", model.ErrAuthorityUnavailable),
		}
	}

	if err := s.storage.UpdateBinding(ctx, identity, newName, now); err != nil {
		s.logger.Error("rotation updated allow-list but not local binding",
			slog.String("identity", string(identity)),
			slog.String("old_name", oldName),
			slog.String("new_name", newName),
			slog.String("error", err.Error()),
		)
		return nil, &model.InconsistentStateError{
			Kind:     model.StaleLocalBinding,
			Identity: identity,
			OldName:  oldName,
			NewName:  newName,
			Cause:    err,
		}
	}

	s.logger.Info("player name rotated",
		slog.String("identity", string(identity)),
		slog.String("old_name", oldName),
		slog.String("new_name", newName),
	)

	rotated := *current
	rotated.PlayerName = newName
	rotated.LastChangeAt = now
	return &rotated, nil
}
