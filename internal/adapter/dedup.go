package adapter

import "sentiment-scanner/internal/types"

// Dedup removes comments whose text exactly matches an earlier comment,
// keeping the first occurrence. Order is otherwise preserved, so cross-source
// duplicates resolve in favor of the source fetched first.
func Dedup(comments []types.RawComment) []types.RawComment {
	seen := make(map[string]bool, len(comments))
	out := comments[:0:0]
	for _, c := range comments {
		if seen[c.Text] {
			continue
		}
		seen[c.Text] = true
		out = append(out, c)
	}
	return out
}
