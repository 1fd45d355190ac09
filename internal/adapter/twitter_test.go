package adapter

import (
	"context"
	"reflect"
	"testing"
	"time"

	"sentiment-scanner/internal/store"
	"sentiment-scanner/internal/universe"
	"sentiment-scanner/internal/window"
)

func TestTwitterFetchFiltersByKeyword(t *testing.T) {
	sess := &fakeSession{states: []pageState{
		{
			posts: []string{
				"$GME squeeze incoming",
				"pumping $AMC $BB $NOK $CLOV all day",
				"gamestop earnings next week",
				"",
			},
			times:  []string{"2h", "3h", "7h"},
			height: 1000,
		},
	}}

	a := NewTwitter(sess, store.ScrollConfig{
		PauseMillis: 1, MaxIterations: 5, MinReplies: 100, MaxClicks: 2,
	})
	stock := universe.StockEntry{Symbol: "GME", Keywords: []string{"GME", "GameStop", "gamestop"}}

	comments, err := a.Fetch(context.Background(), stock, window.Window{LookbackHours: 6})
	if err != nil {
		t.Fatal(err)
	}
	if len(comments) != 2 {
		t.Fatalf("expected 2 kept tweets, got %d: %+v", len(comments), comments)
	}
	if comments[0].Text != "$GME squeeze incoming" {
		t.Errorf("unexpected first tweet: %q", comments[0].Text)
	}
}

func TestRelativeMarkers(t *testing.T) {
	got := RelativeMarkers(6, 5)
	want := []string{"6h", "7h", "8h", "9h", "10h"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("RelativeMarkers(6, 5) = %v, want %v", got, want)
	}

	// Crossing the day boundary switches to day markers and collapses
	// duplicates.
	got = RelativeMarkers(22, 5)
	want = []string{"22h", "23h", "1d"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("RelativeMarkers(22, 5) = %v, want %v", got, want)
	}
}

func TestAbsoluteMarkers(t *testing.T) {
	start := time.Date(2021, time.November, 22, 10, 0, 0, 0, time.UTC)
	got := AbsoluteMarkers(start, 3)
	want := []string{"Nov 22", "Nov 21", "Nov 20"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("AbsoluteMarkers = %v, want %v", got, want)
	}
}

func TestTwitterMarkerSelection(t *testing.T) {
	a := NewTwitter(&fakeSession{states: []pageState{{height: 1}}}, store.ScrollConfig{
		PauseMillis: 1, MaxIterations: 1, MinReplies: 100, MaxClicks: 1,
	})
	a.now = func() time.Time { return time.Date(2021, time.November, 24, 12, 0, 0, 0, time.UTC) }

	short := a.markers(window.Window{LookbackHours: 6})
	if short[0] != "6h" {
		t.Errorf("short window should use relative markers, got %v", short)
	}

	long := a.markers(window.Window{LookbackHours: 54})
	if long[0] != "Nov 22" {
		t.Errorf("long window should use absolute dates, got %v", long)
	}
}
