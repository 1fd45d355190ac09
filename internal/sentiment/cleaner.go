// Package sentiment cleans raw comment text and scores it through an
// external three-class classifier.
package sentiment

import (
	"regexp"
	"strings"
	"unicode"
)

var (
	urlRe     = regexp.MustCompile(`https?://[a-zA-Z0-9@:%._/+~#=?&;-]*`)
	cashtagRe = regexp.MustCompile(`\$[A-Za-z]\S*`)
	hashtagRe = regexp.MustCompile(`#[A-Za-z0-9]\S*`)
	mentionRe = regexp.MustCompile(`@[A-Za-z0-9]\S*`)
	punctRe   = regexp.MustCompile(`[.,!?:;=-]`)
	spaceRe   = regexp.MustCompile(`\s+`)
)

// Clean normalizes one comment for classification: URLs, cashtags, hashtags
// and mentions are stripped, emoji are deleted outright (not replaced with
// name tokens — the classifier handles plain text better than ":rocket:"
// style substitutions), punctuation and newline runs collapse to single
// spaces, and the result is lowercased. An empty result means the comment
// carried no scoreable text.
func Clean(text string) string {
	text = urlRe.ReplaceAllString(text, " ")
	text = cashtagRe.ReplaceAllString(text, " ")
	text = hashtagRe.ReplaceAllString(text, " ")
	text = mentionRe.ReplaceAllString(text, " ")
	text = stripEmoji(text)
	text = punctRe.ReplaceAllString(text, " ")
	text = spaceRe.ReplaceAllString(text, " ")
	return strings.ToLower(strings.TrimSpace(text))
}

// stripEmoji drops symbol and pictograph runes, including the variation
// selectors and zero-width joiners that compose them.
func stripEmoji(text string) string {
	return strings.Map(func(r rune) rune {
		switch {
		case r == 0x200D || (r >= 0xFE00 && r <= 0xFE0F):
			return -1
		case unicode.Is(unicode.So, r) || unicode.Is(unicode.Sk, r):
			return -1
		case r >= 0x1F000:
			return -1
		}
		return r
	}, text)
}
