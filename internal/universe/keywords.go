package universe

import "strings"

// corporateSuffixes are display-name tokens that carry no search value.
// "GameStop Corp" should match on "GameStop", never on "Corp".
var corporateSuffixes = map[string]bool{
	"inc":          true,
	"corp":         true,
	"corporation":  true,
	"ltd":          true,
	"llc":          true,
	"plc":          true,
	"co":           true,
	"company":      true,
	"group":        true,
	"holdings":     true,
	"holding":      true,
	"sa":           true,
	"nv":           true,
	"ag":           true,
	"technologies": true,
}

// DeriveKeywords builds the keyword list for a ticker from its display name.
// The uppercase ticker itself is always first; name-derived variants follow.
// Single-character tokens are discarded because they match everywhere.
func DeriveKeywords(symbol, displayName string) []string {
	symbol = strings.ToUpper(strings.TrimSpace(symbol))
	keywords := []string{symbol}

	name := cleanDisplayName(displayName)
	if name != "" && !strings.EqualFold(name, symbol) {
		keywords = append(keywords, name)
		if lower := strings.ToLower(name); lower != name {
			keywords = append(keywords, lower)
		}
	}

	return keywords
}

// cleanDisplayName strips corporate suffix tokens and trailing punctuation
// from a company display name.
func cleanDisplayName(displayName string) string {
	var kept []string
	for _, tok := range strings.Fields(displayName) {
		trimmed := strings.Trim(tok, ".,&")
		if len(trimmed) <= 1 {
			continue
		}
		if corporateSuffixes[strings.ToLower(trimmed)] {
			continue
		}
		kept = append(kept, trimmed)
	}
	return strings.Join(kept, " ")
}
