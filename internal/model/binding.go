package model

import "time"

// Identity is the stable identifier of a chat-platform user
type Identity string

// PlayerBinding associates one chat identity with one in-game player name
type PlayerBinding struct {
	Identity     Identity
	PlayerName   string // casing as supplied by the user
	LastChangeAt time.Time
	CreatedAt    time.Time
}

// NewPlayerBinding creates a binding claimed at the given time
func NewPlayerBinding(identity Identity, playerName string, at time.Time) *PlayerBinding {
	at = at.UTC()
	return &PlayerBinding{
		Identity:     identity,
		PlayerName:   playerName,
		LastChangeAt: at,
		CreatedAt:    at,
	}
}

// NextChangeAt returns the earliest time the binding may be rotated
func (b *PlayerBinding) NextChangeAt(cooldown time.Duration) time.Time {
	return b.LastChangeAt.Add(cooldown)
}
