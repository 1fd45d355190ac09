package adapter

import (
	"strings"
	"unicode"
)

// MatchAny reports whether the text mentions the stock via any of its
// keywords.
func MatchAny(text string, keywords []string) bool {
	for _, kw := range keywords {
		if MatchKeyword(text, kw) {
			return true
		}
	}
	return false
}

// MatchKeyword reports whether keyword occurs in text as a standalone token:
// both neighbors must be non-alphanumeric (or the string edge). All-uppercase
// keywords are tickers and match case-sensitively, so "ED" matches "$ED" but
// not "FED" or "Fed edged higher". Keywords with any lowercase letter are
// company names and match case-insensitively.
func MatchKeyword(text, keyword string) bool {
	if keyword == "" {
		return false
	}
	haystack := text
	needle := keyword
	if !isAllUpper(keyword) {
		haystack = strings.ToLower(text)
		needle = strings.ToLower(keyword)
	}

	for from := 0; ; {
		i := strings.Index(haystack[from:], needle)
		if i < 0 {
			return false
		}
		i += from
		if boundaryBefore(haystack, i) && boundaryAfter(haystack, i+len(needle)) {
			return true
		}
		from = i + 1
	}
}

func boundaryBefore(s string, i int) bool {
	if i == 0 {
		return true
	}
	r := rune(s[i-1])
	return !unicode.IsLetter(r) && !unicode.IsDigit(r)
}

func boundaryAfter(s string, i int) bool {
	if i >= len(s) {
		return true
	}
	r := rune(s[i])
	return !unicode.IsLetter(r) && !unicode.IsDigit(r)
}

func isAllUpper(s string) bool {
	hasLetter := false
	for _, r := range s {
		if unicode.IsLower(r) {
			return false
		}
		if unicode.IsUpper(r) {
			hasLetter = true
		}
	}
	return hasLetter
}
