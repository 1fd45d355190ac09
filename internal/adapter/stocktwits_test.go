package adapter

import (
	"context"
	"testing"
	"time"

	"sentiment-scanner/internal/store"
	"sentiment-scanner/internal/types"
	"sentiment-scanner/internal/universe"
	"sentiment-scanner/internal/window"
)

func TestParseTwit(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want types.RawComment
		ok   bool
	}{
		{
			name: "tagged bullish",
			raw:  "trader99\nBullish\n5m\n$GME going up",
			want: types.RawComment{
				Text:        "$GME going up",
				Source:      types.SourceStockTwits,
				User:        "trader99",
				Directional: types.DirectionalBullish,
			},
			ok: true,
		},
		{
			name: "tagged bearish",
			raw:  "shorty\nBearish\n2h\ndead cat bounce",
			want: types.RawComment{
				Text:        "dead cat bounce",
				Source:      types.SourceStockTwits,
				User:        "shorty",
				Directional: types.DirectionalBearish,
			},
			ok: true,
		},
		{
			name: "untagged",
			raw:  "lurker\n11/20/21\nanyone holding?",
			want: types.RawComment{
				Text:   "anyone holding?",
				Source: types.SourceStockTwits,
				User:   "lurker",
			},
			ok: true,
		},
		{
			name: "tagged body keeps its own newlines",
			raw:  "poster\nBullish\n1h\nline one\nline two",
			want: types.RawComment{
				Text:        "line one\nline two",
				Source:      types.SourceStockTwits,
				User:        "poster",
				Directional: types.DirectionalBullish,
			},
			ok: true,
		},
		{
			name: "too short",
			raw:  "just a line",
			ok:   false,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := parseTwit(tt.raw)
			if ok != tt.ok {
				t.Fatalf("ok = %v, want %v", ok, tt.ok)
			}
			if ok && got != tt.want {
				t.Errorf("got %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestStockTwitsFetch(t *testing.T) {
	sess := &fakeSession{states: []pageState{
		{
			posts: []string{
				"trader99\nBullish\n5m\nto the moon",
				"shorty\nBearish\n1h\nit drops tomorrow",
			},
			times:  []string{"5m", "1h"},
			height: 1000,
		},
		{
			posts: []string{
				"trader99\nBullish\n5m\nto the moon",
				"shorty\nBearish\n1h\nit drops tomorrow",
				"lurker\n11/20/21\nold news",
			},
			times:  []string{"5m", "1h", "11/20/21"},
			height: 2000,
		},
	}}

	a := NewStockTwits(sess, store.ScrollConfig{
		PauseMillis: 1, MaxIterations: 10, MinReplies: 100, MaxClicks: 3,
	})
	a.now = func() time.Time { return time.Date(2021, time.November, 26, 12, 0, 0, 0, time.UTC) }

	win := window.Window{LookbackHours: 144}
	comments, err := a.Fetch(context.Background(), universe.StockEntry{Symbol: "GME"}, win)
	if err != nil {
		t.Fatal(err)
	}
	if len(comments) != 3 {
		t.Fatalf("expected 3 comments, got %d", len(comments))
	}
	if comments[0].Directional != types.DirectionalBullish {
		t.Errorf("first comment directional = %q", comments[0].Directional)
	}
	if comments[2].Directional != types.DirectionalNone {
		t.Errorf("untagged comment should have no directional, got %q", comments[2].Directional)
	}
}

func TestDateMarker(t *testing.T) {
	d := time.Date(2021, time.November, 3, 9, 30, 0, 0, time.UTC)
	if got := DateMarker(d); got != "11/3/21" {
		t.Errorf("DateMarker = %q, want 11/3/21", got)
	}
	d = time.Date(2022, time.January, 15, 0, 0, 0, 0, time.UTC)
	if got := DateMarker(d); got != "1/15/22" {
		t.Errorf("DateMarker = %q, want 1/15/22", got)
	}
}
