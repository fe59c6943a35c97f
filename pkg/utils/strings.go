package utils

import (
	"unicode"
)

// IsAlphanumeric reports whether s is non empty and made only of ASCII
// letters and digits.
func IsAlphanumeric(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r > unicode.MaxASCII || !(unicode.IsLetter(r) || unicode.IsDigit(r)) {
			return false
		}
	}
	return true
}

func StartsWithLetter(s string) bool {
	for _, r := range s {
		return r <= unicode.MaxASCII && unicode.IsLetter(r)
	}
	return false
}

// Prefix returns at most the first n bytes of s.
func Prefix(s string, n int) string {
	if len(s) > n {
		return s[:n]
	}
	return s
}

// Chunk splits s into consecutive pieces of at most n bytes.
func Chunk(s string, n int) []string {
	if s == "" || n <= 0 {
		return nil
	}
	chunks := make([]string, 0, (len(s)+n-1)/n)
	for len(s) > n {
		chunks = append(chunks, s[:n])
		s = s[n:]
	}
	return append(chunks, s)
}
