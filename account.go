package mintreg

// Account id rules: 2-64 characters of lowercase alphanumerics separated
// by single '.', '_' or '-', never leading, trailing or adjacent.

const (
	minAccountIDLen = 2
	maxAccountIDLen = 64
)

// ValidAccountID reports whether s is a well-formed account id.
func ValidAccountID(s string) bool {
	if len(s) < minAccountIDLen || len(s) > maxAccountIDLen {
		return false
	}
	lastWasSeparator := true // rejects a leading separator
	for i := 0; i < len(s); i++ {
		c := s[i]
		switch {
		case c >= 'a' && c <= 'z', c >= '0' && c <= '9':
			lastWasSeparator = false
		case c == '.' || c == '_' || c == '-':
			if lastWasSeparator {
				return false
			}
			lastWasSeparator = true
		default:
			return false
		}
	}
	return !lastWasSeparator
}
