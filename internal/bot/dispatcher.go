// Package bot is the chat front end: a transport-neutral command dispatcher
// and a Telegram adapter that feeds it.
package bot

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"github.com/mcoot/mcregbot/internal/dependencies/clock"
	"github.com/mcoot/mcregbot/internal/model"
	"github.com/mcoot/mcregbot/internal/services/outcome"
	"github.com/mcoot/mcregbot/internal/services/registration"
	"github.com/mcoot/mcregbot/internal/services/rotation"
	"github.com/mcoot/mcregbot/internal/storage"
)

// DefaultRequestTimeout bounds a single command end to end
const DefaultRequestTimeout = 30 * time.Second

// Dispatcher turns one chat command into one reply
type Dispatcher struct {
	registration   *registration.Service
	rotation       *rotation.Service
	storage        storage.Storage
	clock          clock.Clock
	requestTimeout time.Duration
	logger         *slog.Logger
}

// NewDispatcher creates a new Dispatcher
func NewDispatcher(
	registration *registration.Service,
	rotation *rotation.Service,
	storage storage.Storage,
	clock clock.Clock,
	requestTimeout time.Duration,
	logger *slog.Logger,
) *Dispatcher {
	if requestTimeout <= 0 {
		requestTimeout = DefaultRequestTimeout
	}
	return &Dispatcher{
		registration:   registration,
		rotation:       rotation,
		storage:        storage,
		clock:          clock,
		requestTimeout: requestTimeout,
		logger:         logger,
	}
}

// Handle runs command for identity and returns the reply text.
// Unknown commands return an empty reply and should not be answered.
func (d *Dispatcher) Handle(ctx context.Context, identity model.Identity, command, args string) string {
	ctx, cancel := context.WithTimeout(ctx, d.requestTimeout)
	defer cancel()

	// Only the first argument is used: player names never contain spaces
	var name string
	if fields := strings.Fields(args); len(fields) > 0 {
		name = fields[0]
	}

	switch command {
	case CommandStart:
		return ReplyStart
	case CommandRegister:
		if name == "" {
			return ReplyRegisterUsage
		}
		_, err := d.registration.Register(ctx, identity, name)
		return d.reply(identity, command, err, ReplyRegistered)
	case CommandChangeNick:
		if name == "" {
			return ReplyChangeNickUsage
		}
		_, err := d.rotation.Rotate(ctx, identity, name)
		return d.reply(identity, command, err, ReplyRotated)
	case CommandMe:
		return d.me(ctx, identity)
	default:
		return ""
	}
}

func (d *Dispatcher) me(ctx context.Context, identity model.Identity) string {
	b, err := d.storage.GetBinding(ctx, identity)
	if errors.Is(err, model.ErrBindingNotFound) {
		return ReplyNotRegistered
	}
	if err != nil {
		d.logger.Error("load binding failed",
			slog.String("identity", string(identity)),
			slog.String("error", err.Error()),
		)
		return ReplyError
	}
	return bindingReply(b.PlayerName, b.LastChangeAt, b.NextChangeAt(d.rotation.Cooldown()), d.clock.Now())
}

func (d *Dispatcher) reply(identity model.Identity, command string, err error, success string) string {
	kind := outcome.Classify(err)
	switch kind {
	case outcome.KindOK:
		return success
	case outcome.KindInvalidName:
		return ReplyInvalidName
	case outcome.KindAlreadyRegistered:
		return ReplyAlreadyRegistered
	case outcome.KindNotRegistered:
		return ReplyNotRegistered
	case outcome.KindNameTaken:
		return ReplyNameTaken
	case outcome.KindRotationBlocked:
		return ReplyRotationBlocked
	case outcome.KindCooldownActive:
		return cooldownReply(d.rotation.Cooldown())
	case outcome.KindAuthorityUnavailable, outcome.KindInconsistentState, outcome.KindInternal:
		d.logger.Warn("command failed",
			slog.String("identity", string(identity)),
			slog.String("command", command),
			slog.String("kind", kind.String()),
			slog.String("error", err.Error()),
		)
		return ReplyError
	}
	return ReplyError
}
