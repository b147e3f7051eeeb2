package validator

const (
	// MinLength is the shortest accepted player name
	MinLength = 3
	// MaxLength is the longest accepted player name
	MaxLength = 16
)

// Validate reports whether name is a syntactically valid player name:
// 3 to 16 ASCII letters, digits or underscores
func Validate(name string) bool {
	if len(name) < MinLength || len(name) > MaxLength {
		return false
	}
	for i := 0; i < len(name); i++ {
		if !isNameByte(name[i]) {
			return false
		}
	}
	return true
}

func isNameByte(c byte) bool {
	switch {
	case c >= 'a' && c <= 'z':
		return true
	case c >= 'A' && c <= 'Z':
		return true
	case c >= '0' && c <= '9':
		return true
	default:
		return c == '_'
	}
}
