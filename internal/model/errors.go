package model

import (
	"errors"
	"fmt"
	"time"
)

// Common errors used across the application
var (
	// Storage errors
	ErrBindingNotFound = errors.New("binding not found")
	ErrBindingExists   = errors.New("binding already exists")

	// Workflow rejections
	ErrInvalidName          = errors.New("invalid player name")
	ErrAlreadyRegistered    = errors.New("identity is already registered")
	ErrNotRegistered        = errors.New("identity is not registered")
	ErrNameTaken            = errors.New("player name is already taken")
	ErrAuthorityUnavailable = errors.New("allow-list authority unavailable")
	ErrRotationBlocked      = errors.New("name rotation is blocked")
	ErrCooldownActive       = errors.New("name rotation cooldown is active")
	ErrBusy                 = errors.New("another request for this identity or name is in progress")

	// Divergence between the local store and the remote allow-list
	ErrInconsistentState = errors.New("local and remote state diverged")
)

// CooldownError reports a rotation attempted before the cooldown elapsed
type CooldownError struct {
	Remaining time.Duration
}

func (e *CooldownError) Error() string {
	return fmt.Sprintf("%s: %s remaining", ErrCooldownActive, e.Remaining.Round(time.Second))
}

// Is matches ErrCooldownActive
func (e *CooldownError) Is(target error) bool {
	return target == ErrCooldownActive
}

// InconsistencyKind names which half of a dual write was left behind
type InconsistencyKind string

const (
	// OrphanedRemoteName: the remote add succeeded but no local binding owns the name
	OrphanedRemoteName InconsistencyKind = "orphaned_remote_name"
	// MissingRemoteName: the old name was removed remotely but the new one was never added
	MissingRemoteName InconsistencyKind = "missing_remote_name"
	// StaleLocalBinding: the remote list holds the new name but the local binding still has the old one
	StaleLocalBinding InconsistencyKind = "stale_local_binding"
)

// InconsistentStateError describes a detected divergence that needs
// out-of-band reconciliation. It is never corrected automatically.
type InconsistentStateError struct {
	Kind     InconsistencyKind
	Identity Identity
	// OldName is the name the local binding still holds (empty on registration)
	OldName string
	// NewName is the name that was being claimed
	NewName string
	Cause   error
}

func (e *InconsistentStateError) Error() string {
	return fmt.Sprintf("%s (%s) for identity %s: old=%q new=%q: %v",
		ErrInconsistentState, e.Kind, e.Identity, e.OldName, e.NewName, e.Cause)
}

// Unwrap exposes both ErrInconsistentState and the underlying cause
func (e *InconsistentStateError) Unwrap() []error {
	return []error{ErrInconsistentState, e.Cause}
}
