package allowlist

import (
	"regexp"
	"strings"
	"unicode"
)

// formattingCodes matches Minecraft section-sign colour and style codes
var formattingCodes = regexp.MustCompile(`(?i)§[0-9a-fk-orx]`)

const banMarker = "- banned:"

func stripFormatting(s string) string {
	return formattingCodes.ReplaceAllString(s, "")
}

func isUnknownCommand(lower string) bool {
	return strings.Contains(lower, "unknown or incomplete command") ||
		strings.Contains(lower, "unknown command")
}

// parseList understands both
//
//	There are 2 whitelisted player(s): Alice, Bob
//	There are no whitelisted players
//
// and the older "Alice and Bob" separator.
func parseList(resp string) (map[string]struct{}, bool) {
	clean := stripFormatting(resp)
	lower := strings.ToLower(clean)

	if strings.Contains(lower, "there are no whitelisted players") {
		return map[string]struct{}{}, true
	}

	idx := strings.Index(lower, "whitelisted player")
	if idx < 0 {
		return nil, false
	}
	colon := strings.Index(lower[idx:], ":")
	if colon < 0 {
		return nil, false
	}

	rest := lower[idx+colon+1:]
	rest = strings.ReplaceAll(rest, " and ", ", ")
	fields := strings.FieldsFunc(rest, func(r rune) bool {
		return r == ',' || unicode.IsSpace(r)
	})

	names := make(map[string]struct{}, len(fields))
	for _, f := range fields {
		names[f] = struct{}{}
	}
	return names, true
}

func parseAdd(resp string) bool {
	lower := strings.ToLower(stripFormatting(resp))
	switch {
	case isUnknownCommand(lower):
		return false
	case strings.Contains(lower, "does not exist"):
		return false
	case strings.Contains(lower, "already whitelisted"):
		return false
	}
	return strings.Contains(lower, "added")
}

// parseRemove treats "not whitelisted" as success: the name is absent either way
func parseRemove(resp string) bool {
	lower := strings.ToLower(stripFormatting(resp))
	if isUnknownCommand(lower) {
		return false
	}
	return strings.Contains(lower, "removed") || strings.Contains(lower, "not whitelisted")
}

// parseSeen reports the ban marker. ok is false when the lookup itself failed.
func parseSeen(resp string) (banned bool, ok bool) {
	lower := strings.ToLower(stripFormatting(resp))
	if strings.TrimSpace(lower) == "" || isUnknownCommand(lower) {
		return false, false
	}
	return strings.Contains(lower, banMarker), true
}
