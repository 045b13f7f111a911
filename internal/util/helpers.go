package util

import (
	"regexp"
	"unicode/utf8"
)

var tagPattern = regexp.MustCompile(`<.*?>`)

// StripTags removes every non-greedy <...> match from s.
func StripTags(s string) string {
	return tagPattern.ReplaceAllString(s, "")
}

// TruncateRunes cuts s to at most n runes.
func TruncateRunes(s string, n int) string {
	if n <= 0 {
		return ""
	}
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	rs := []rune(s)
	return string(rs[:n])
}
