package validator

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidateAccepts(t *testing.T) {
	for _, name := range []string{
		"abc",
		"Alice2",
		"___",
		"Notch",
		"a_very_long_name", // 16
		"0123456789",
	} {
		assert.True(t, Validate(name), "expected %q to be valid", name)
	}
}

func TestValidateRejects(t *testing.T) {
	for _, name := range []string{
		"",
		"ab",
		"this_name_is_too_long_xx",
		"seventeen_chars_x",
		"has space",
		"dash-name",
		"dot.name",
		"ünïcödé",
		"emoji😀x",
		"tab\tname",
	} {
		assert.False(t, Validate(name), "expected %q to be invalid", name)
	}
}

func TestValidateLengthBoundaries(t *testing.T) {
	for n := 0; n <= 20; n++ {
		name := strings.Repeat("a", n)
		assert.Equal(t, n >= MinLength && n <= MaxLength, Validate(name), "length %d", n)
	}
}

func TestValidateEveryASCIIByte(t *testing.T) {
	for c := 0; c < 128; c++ {
		name := "ab" + string(rune(c))
		allowed := (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z') || (c >= '0' && c <= '9') || c == '_'
		assert.Equal(t, allowed, Validate(name), "byte %d", c)
	}
}
