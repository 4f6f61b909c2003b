package dataset

import (
	"strings"
	"unicode"
)

// CleanName canonicalizes a column name to snake_case: runs of
// non-alphanumeric characters become single underscores, lowercase-to-
// uppercase boundaries are split, everything is lowered, and names that
// would start with a digit get an "x" prefix.
func CleanName(name string) string {
	var b strings.Builder
	runes := []rune(strings.TrimSpace(name))

	prevUnderscore := true // suppress a leading underscore
	for i, r := range runes {
		switch {
		case unicode.IsLetter(r) || unicode.IsDigit(r):
			if unicode.IsUpper(r) && i > 0 && unicode.IsLower(runes[i-1]) && !prevUnderscore {
				b.WriteByte('_')
			}
			b.WriteRune(unicode.ToLower(r))
			prevUnderscore = false
		default:
			if !prevUnderscore {
				b.WriteByte('_')
				prevUnderscore = true
			}
		}
	}

	out := strings.TrimRight(b.String(), "_")
	if out == "" {
		return "x"
	}
	if unicode.IsDigit(rune(out[0])) {
		out = "x" + out
	}
	return out
}
