package strings

import (
	"strings"
)

// DefaultValueMaxLen is the default maximum length of a value in table output.
const DefaultValueMaxLen = 60

// MinTruncateLen is the minimum maxLen accepted by Truncate. Smaller values
// leave no room for a character plus "...".
const MinTruncateLen = 4

// Truncate collapses whitespace in s to single spaces and shortens the
// result to at most maxLen runes, ending it with "..." when shortened.
// maxLen values below MinTruncateLen are raised to MinTruncateLen.
func Truncate(s string, maxLen int) string {
	if maxLen < MinTruncateLen {
		maxLen = MinTruncateLen
	}

	s = strings.Join(strings.Fields(s), " ")

	runes := []rune(s)
	if len(runes) > maxLen {
		return string(runes[:maxLen-3]) + "..."
	}
	return s
}
