// Package outcome maps workflow errors onto a closed set of result kinds.
package outcome

import (
	"context"
	"errors"

	"github.com/mcoot/mcregbot/internal/model"
)

// Kind is the tagged result of a registration or rotation attempt
type Kind int

const (
	KindOK Kind = iota
	KindInvalidName
	KindAlreadyRegistered
	KindNotRegistered
	KindNameTaken
	KindAuthorityUnavailable
	KindRotationBlocked
	KindCooldownActive
	KindInconsistentState
	KindInternal
)

var kindNames = map[Kind]string{
	KindOK:                   "ok",
	KindInvalidName:          "invalid_name",
	KindAlreadyRegistered:    "already_registered",
	KindNotRegistered:        "not_registered",
	KindNameTaken:            "name_taken",
	KindAuthorityUnavailable: "authority_unavailable",
	KindRotationBlocked:      "rotation_blocked",
	KindCooldownActive:       "cooldown_active",
	KindInconsistentState:    "inconsistent_state",
	KindInternal:             "internal",
}

// String returns the stable wire code for k
func (k Kind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return "unknown"
}

// Classify returns the Kind for err. A nil error is KindOK.
//
// An inconsistent rotation also matches ErrAuthorityUnavailable; it is
// classified as KindInconsistentState so callers can tell the two apart.
func Classify(err error) Kind {
	switch {
	case err == nil:
		return KindOK
	case errors.Is(err, model.ErrInconsistentState):
		return KindInconsistentState
	case errors.Is(err, model.ErrInvalidName):
		return KindInvalidName
	case errors.Is(err, model.ErrAlreadyRegistered):
		return KindAlreadyRegistered
	case errors.Is(err, model.ErrNotRegistered):
		return KindNotRegistered
	case errors.Is(err, model.ErrNameTaken):
		return KindNameTaken
	case errors.Is(err, model.ErrRotationBlocked):
		return KindRotationBlocked
	case errors.Is(err, model.ErrCooldownActive):
		return KindCooldownActive
	case errors.Is(err, model.ErrAuthorityUnavailable),
		errors.Is(err, model.ErrBusy),
		errors.Is(err, context.DeadlineExceeded):
		return KindAuthorityUnavailable
	default:
		return KindInternal
	}
}
