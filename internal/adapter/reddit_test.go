package adapter

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"
	"time"

	"sentiment-scanner/internal/api"
	"sentiment-scanner/internal/store"
	"sentiment-scanner/internal/universe"
	"sentiment-scanner/internal/window"
)

func TestRedditFetch(t *testing.T) {
	var gotQuery map[string]string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		gotQuery = map[string]string{
			"subreddit": q.Get("subreddit"),
			"after":     q.Get("after"),
			"before":    q.Get("before"),
			"size":      q.Get("size"),
		}
		json.NewEncoder(w).Encode(map[string]interface{}{
			"data": []map[string]string{
				{"body": "GME to the moon", "author": "ape1"},
				{"body": "[removed]", "author": "ape2"},
				{"body": "[deleted]", "author": "ape3"},
				{"body": "unrelated chatter", "author": "ape4"},
				{"body": "buying more gamestop", "author": "ape5"},
				{"body": "GMEX is a different thing", "author": "ape6"},
			},
		})
	}))
	defer srv.Close()

	now := time.Date(2021, time.November, 24, 15, 0, 0, 0, time.UTC)
	a := NewReddit(api.NewClient(api.WithTimeout(5*time.Second)), store.RedditConfig{
		Subreddit:   "wallstreetbets",
		BaseURL:     srv.URL,
		MaxComments: 500,
	}, nil)
	a.now = func() time.Time { return now }

	stock := universe.StockEntry{Symbol: "GME", Keywords: []string{"GME", "GameStop", "gamestop"}}
	win := window.Window{LookbackHours: 6}

	comments, err := a.Fetch(context.Background(), stock, win)
	if err != nil {
		t.Fatal(err)
	}

	if len(comments) != 2 {
		t.Fatalf("expected 2 kept comments, got %d: %+v", len(comments), comments)
	}
	if comments[0].Text != "GME to the moon" || comments[0].User != "ape1" {
		t.Errorf("unexpected first comment: %+v", comments[0])
	}
	if comments[1].Text != "buying more gamestop" {
		t.Errorf("unexpected second comment: %+v", comments[1])
	}

	if gotQuery["subreddit"] != "wallstreetbets" {
		t.Errorf("subreddit = %q", gotQuery["subreddit"])
	}
	if gotQuery["size"] != "500" {
		t.Errorf("size = %q", gotQuery["size"])
	}
	after, _ := strconv.ParseInt(gotQuery["after"], 10, 64)
	before, _ := strconv.ParseInt(gotQuery["before"], 10, 64)
	if before != now.Unix() {
		t.Errorf("before = %d, want %d", before, now.Unix())
	}
	if before-after != 6*3600 {
		t.Errorf("window span = %ds, want %d", before-after, 6*3600)
	}
}

func TestRedditFetchServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "overloaded", http.StatusBadGateway)
	}))
	defer srv.Close()

	a := NewReddit(api.NewClient(api.WithTimeout(5*time.Second)), store.RedditConfig{
		Subreddit: "wallstreetbets", BaseURL: srv.URL, MaxComments: 100,
	}, nil)

	_, err := a.Fetch(context.Background(), universe.StockEntry{Symbol: "GME", Keywords: []string{"GME"}}, window.Window{LookbackHours: 6})
	if err == nil {
		t.Fatal("expected an error on HTTP 502")
	}
}
