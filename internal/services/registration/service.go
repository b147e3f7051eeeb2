// Package registration binds a chat identity to a player name for the first time.
package registration

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

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

const tracerName = "github.com/mcoot/mcregbot/internal/services/registration"

// Service runs the registration workflow:
// validate, check the identity is unbound, check the name is free remotely,
// add it remotely, then commit the binding locally.
type Service struct {
	storage   storage.Storage
	allowlist *allowlist.Client
	locks     *locks.Set
	clock     clock.Clock
	logger    *slog.Logger
	tracer    trace.Tracer
}

// New creates a new registration Service
func New(
	storage storage.Storage,
	allowlist *allowlist.Client,
	locks *locks.Set,
	clock clock.Clock,
	logger *slog.Logger,
) *Service {
	return &Service{
		storage:   storage,
		allowlist: allowlist,
		locks:     locks,
		clock:     clock,
		logger:    logger,
		tracer:    otel.Tracer(tracerName),
	}
}

// Register binds identity to name and adds name to the remote allow-list
func (s *Service) Register(ctx context.Context, identity model.Identity, name string) (*model.PlayerBinding, error) {
	ctx, span := s.tracer.Start(ctx, "registration.Register", trace.WithAttributes(
		attribute.String("identity", string(identity)),
		attribute.String("player_name", name),
	))
	defer span.End()

	binding, err := s.register(ctx, identity, name)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
	return binding, err
}

func (s *Service) register(ctx context.Context, identity model.Identity, name string) (*model.PlayerBinding, error) {
	if !validator.Validate(name) {
		return nil, model.ErrInvalidName
	}

	unlockIdentity, err := s.locks.LockIdentity(ctx, identity)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", model.ErrBusy, err)
	}
	defer unlockIdentity()

	_, err = s.storage.GetBinding(ctx, identity)
	switch {
	case err == nil:
		return nil, model.ErrAlreadyRegistered
	case !errors.Is(err, model.ErrBindingNotFound):
		return nil, fmt.Errorf("load binding: %w", err)
	}

	// Held from the uniqueness check until the binding is committed
	unlockName, err := s.locks.LockName(ctx, name)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", model.ErrBusy, err)
	}
	defer unlockName()

	list := s.allowlist.ListNames(ctx)
	if !list.OK() {
		s.logger.Warn("registration blocked: allow-list unavailable",
			slog.String("identity", string(identity)),
			slog.String("status", list.Status.String()),
		)
		return nil, fmt.Errorf("list allow-list: %w", model.ErrAuthorityUnavailable)
	}
	if list.Contains(name) {
		return nil, model.ErrNameTaken
	}

	if added := s.allowlist.AddName(ctx, name); !added.OK() {
		s.logger.Warn("registration blocked: allow-list add failed",
			slog.String("identity", string(identity)),
			slog.String("player_name", name),
			slog.String("status", added.Status.String()),
		)
		return nil, fmt.Errorf("add to allow-list: %w", model.ErrAuthorityUnavailable)
	}

	binding := model.NewPlayerBinding(identity, name, s.clock.Now())
	if err := s.storage.InsertBinding(ctx, binding); err != nil {
		inconsistent := &model.InconsistentStateError{
			Kind:     model.OrphanedRemoteName,
			Identity: identity,
			NewName:  name,
			Cause:    err,
		}
		s.logger.Error("registration left remote name without local binding",
			slog.String("identity", string(identity)),
			slog.String("orphaned_name", name),
			slog.String("error", err.Error()),
		)
		return nil, inconsistent
	}

	s.logger.Info("player registered",
		slog.String("identity", string(identity)),
		slog.String("player_name", name),
	)
	return binding, nil
}
