package allowlist

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseList(t *testing.T) {
	tests := []struct {
		name  string
		resp  string
		want  []string
		valid bool
	}{
		{"modern", "There are 3 whitelisted player(s): Alice, bob, Carol_1", []string{"alice", "bob", "carol_1"}, true},
		{"plural", "There are 2 whitelisted players: Alice, Bob", []string{"alice", "bob"}, true},
		{"single", "There are 1 whitelisted player(s): Notch", []string{"notch"}, true},
		{"empty", "There are no whitelisted players", nil, true},
		{"zero count", "There are 0 whitelisted player(s):", nil, true},
		{"legacy and", "There are 2 (out of 3 seen) whitelisted players:\nAlice and Bob", []string{"alice", "bob"}, true},
		{"colour codes", "§6There are §c2§6 whitelisted player(s): §fAlice§6, §fBob", []string{"alice", "bob"}, true},
		{"unknown command", "Unknown or incomplete command, see below for error", nil, false},
		{"garbage", "", nil, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			names, ok := parseList(tt.resp)
			require.Equal(t, tt.valid, ok)
			if !tt.valid {
				return
			}
			got := make([]string, 0, len(names))
			for n := range names {
				got = append(got, n)
			}
			assert.ElementsMatch(t, tt.want, got)
		})
	}
}

func TestParseAdd(t *testing.T) {
	assert.True(t, parseAdd("Added Alice to the whitelist"))
	assert.False(t, parseAdd("Player is already whitelisted"))
	assert.False(t, parseAdd("That player does not exist"))
	assert.False(t, parseAdd("Unknown or incomplete command, see below for error"))
	assert.False(t, parseAdd(""))
}

func TestParseRemove(t *testing.T) {
	assert.True(t, parseRemove("Removed Alice from the whitelist"))
	assert.True(t, parseRemove("Player is not whitelisted"))
	assert.False(t, parseRemove("Unknown or incomplete command, see below for error"))
	assert.False(t, parseRemove("something else"))
}

func TestParseSeen(t *testing.T) {
	banned, ok := parseSeen("§6Player §cAlice §6has been §coffline§6 since §c2 days§6.\n§6 - Banned: §cspam")
	assert.True(t, ok)
	assert.True(t, banned)

	banned, ok = parseSeen("§6Player §cAlice §6has been §conline§6 since §c1 hour§6.")
	assert.True(t, ok)
	assert.False(t, banned)

	_, ok = parseSeen("Unknown or incomplete command, see below for error")
	assert.False(t, ok)

	_, ok = parseSeen("   ")
	assert.False(t, ok)
}
