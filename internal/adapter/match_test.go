package adapter

import "testing"

func TestMatchKeywordTickerBoundaries(t *testing.T) {
	tests := []struct {
		text, keyword string
		want          bool
	}{
		{"FED outlook", "ED", false},
		{"ED is down", "ED", true},
		{"$ED", "ED", true},
		{"buying ED.", "ED", true},
		{"credited", "ED", false},
		{"holding EDS", "ED", false},
		{"ED", "ED", true},
		// Tickers are case-sensitive: "ed" in prose is not a mention.
		{"i ed yesterday", "ED", false},
		{"GME to the moon", "GME", true},
		{"game over", "GME", false},
	}
	for _, tt := range tests {
		if got := MatchKeyword(tt.text, tt.keyword); got != tt.want {
			t.Errorf("MatchKeyword(%q, %q) = %v, want %v", tt.text, tt.keyword, got, tt.want)
		}
	}
}

func TestMatchKeywordNamesCaseInsensitive(t *testing.T) {
	tests := []struct {
		text, keyword string
		want          bool
	}{
		{"gamestop is mooning", "GameStop", true},
		{"GAMESTOP!!", "gamestop", true},
		{"gamestopped", "GameStop", false},
		{"love Tesla cars", "tesla", true},
	}
	for _, tt := range tests {
		if got := MatchKeyword(tt.text, tt.keyword); got != tt.want {
			t.Errorf("MatchKeyword(%q, %q) = %v, want %v", tt.text, tt.keyword, got, tt.want)
		}
	}
}

func TestMatchKeywordSkipsPartialThenFindsFullMatch(t *testing.T) {
	// First occurrence is embedded, second stands alone.
	if !MatchKeyword("FED said ED drops", "ED") {
		t.Error("standalone occurrence after embedded one should match")
	}
}

func TestMatchAny(t *testing.T) {
	keywords := []string{"GME", "GameStop", "gamestop"}
	if !MatchAny("holding gamestop forever", keywords) {
		t.Error("expected a keyword match")
	}
	if MatchAny("nothing relevant here", keywords) {
		t.Error("expected no match")
	}
	if MatchAny("anything", nil) {
		t.Error("no keywords should never match")
	}
}
