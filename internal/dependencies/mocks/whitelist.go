package mocks

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"
)

// Command verbs understood by FakeWhitelist, for failure injection
const (
	VerbList   = "list"
	VerbAdd    = "add"
	VerbRemove = "remove"
	VerbSeen   = "seen"
)

// FakeWhitelist is an in-memory game server answering whitelist and
// essentials:seen commands with vanilla-style text responses
type FakeWhitelist struct {
	mu        sync.Mutex
	names     map[string]string // lower-cased -> casing as added
	banned    map[string]bool
	failures  map[string]error
	responses map[string]string
	commands  []string

	// Delay is applied before every command (outside the lock) to widen race windows
	Delay time.Duration

	// BeforeCommand, when set, runs outside the lock before each command is applied
	BeforeCommand func(ctx context.Context, command string)
}

// NewFakeWhitelist creates a FakeWhitelist holding the given names
func NewFakeWhitelist(names ...string) *FakeWhitelist {
	f := &FakeWhitelist{
		names:     make(map[string]string),
		banned:    make(map[string]bool),
		failures:  make(map[string]error),
		responses: make(map[string]string),
	}
	for _, n := range names {
		f.names[strings.ToLower(n)] = n
	}
	return f
}

// Execute implements allowlist.Executor
func (f *FakeWhitelist) Execute(ctx context.Context, command string) (string, error) {
	if f.Delay > 0 {
		select {
		case <-time.After(f.Delay):
		case <-ctx.Done():
			return "", ctx.Err()
		}
	}

	if f.BeforeCommand != nil {
		f.BeforeCommand(ctx, command)
	}

	f.mu.Lock()
	defer f.mu.Unlock()

	f.commands = append(f.commands, command)

	verb, name := splitCommand(command)
	if err := f.failures[verb]; err != nil {
		return "", err
	}
	if resp, ok := f.responses[verb]; ok {
		return resp, nil
	}

	key := strings.ToLower(name)
	switch verb {
	case VerbList:
		return f.listResponse(), nil
	case VerbAdd:
		if _, ok := f.names[key]; ok {
			return "Player is already whitelisted", nil
		}
		f.names[key] = name
		return fmt.Sprintf("Added %s to the whitelist", name), nil
	case VerbRemove:
		if _, ok := f.names[key]; !ok {
			return "Player is not whitelisted", nil
		}
		delete(f.names, key)
		return fmt.Sprintf("Removed %s from the whitelist", name), nil
	case VerbSeen:
		resp := fmt.Sprintf("§6Player §c%s §6has been §coffline§6 since §c2 days§6.", name)
		if f.banned[key] {
			resp += "\n§6 - Banned: §cThe Ban Hammer has spoken!"
		}
		return resp, nil
	default:
		return "Unknown or incomplete command, see below for error", nil
	}
}

func (f *FakeWhitelist) listResponse() string {
	if len(f.names) == 0 {
		return "There are no whitelisted players"
	}
	display := make([]string, 0, len(f.names))
	for _, n := range f.names {
		display = append(display, n)
	}
	sort.Strings(display)
	return fmt.Sprintf("There are %d whitelisted player(s): %s", len(display), strings.Join(display, ", "))
}

func splitCommand(command string) (verb, name string) {
	fields := strings.Fields(command)
	if len(fields) == 0 {
		return "", ""
	}
	if fields[0] == "essentials:seen" {
		if len(fields) > 1 {
			name = fields[1]
		}
		return VerbSeen, name
	}
	if len(fields) > 1 {
		verb = fields[1]
	}
	if len(fields) > 2 {
		name = fields[2]
	}
	return verb, name
}

// Fail makes every command with the given verb return err until Recover is called
func (f *FakeWhitelist) Fail(verb string, err error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.failures[verb] = err
}

// Recover clears an injected failure
func (f *FakeWhitelist) Recover(verb string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.failures, verb)
}

// Respond overrides the raw response for a verb
func (f *FakeWhitelist) Respond(verb, text string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.responses[verb] = text
}

// Ban marks name as banned in its activity record
func (f *FakeWhitelist) Ban(name string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.banned[strings.ToLower(name)] = true
}

// Names returns the lower-cased whitelist, sorted
func (f *FakeWhitelist) Names() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]string, 0, len(f.names))
	for k := range f.names {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

// Has reports whether name is whitelisted, ignoring case
func (f *FakeWhitelist) Has(name string) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	_, ok := f.names[strings.ToLower(name)]
	return ok
}

// Commands returns every command received, in order
func (f *FakeWhitelist) Commands() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]string, len(f.commands))
	copy(out, f.commands)
	return out
}
