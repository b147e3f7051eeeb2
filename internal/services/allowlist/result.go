package allowlist

import "strings"

// Status is the tri-state outcome of a remote call
type Status int

const (
	StatusSuccess Status = iota
	// StatusFailure: the authority answered but rejected or garbled the request
	StatusFailure
	// StatusUnreachable: transport error or timeout
	StatusUnreachable
)

func (s Status) String() string {
	switch s {
	case StatusSuccess:
		return "success"
	case StatusFailure:
		return "failure"
	case StatusUnreachable:
		return "unreachable"
	default:
		return "unknown"
	}
}

// ListResult is the parsed response to a list query
type ListResult struct {
	Status Status
	Names  map[string]struct{} // lower-cased
	Err    error
}

// OK reports whether the list was retrieved
func (r ListResult) OK() bool {
	return r.Status == StatusSuccess
}

// Contains reports whether name is on the list, ignoring case
func (r ListResult) Contains(name string) bool {
	_, ok := r.Names[strings.ToLower(name)]
	return ok
}

// MutationResult is the outcome of an add or remove
type MutationResult struct {
	Status   Status
	Response string
	Err      error
}

// OK reports whether the mutation was applied
func (r MutationResult) OK() bool {
	return r.Status == StatusSuccess
}

// BanResult is the outcome of a ban-status lookup
type BanResult struct {
	Status Status
	Banned bool
	Err    error
}

// Blocked reports whether the caller must treat the player as banned.
// Any lookup that did not succeed counts as banned.
func (r BanResult) Blocked() bool {
	return r.Status != StatusSuccess || r.Banned
}
