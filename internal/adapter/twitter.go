package adapter

import (
	"context"
	"fmt"
	"net/url"
	"time"

	"sentiment-scanner/internal/browser"
	"sentiment-scanner/internal/logger"
	"sentiment-scanner/internal/store"
	"sentiment-scanner/internal/types"
	"sentiment-scanner/internal/universe"
	"sentiment-scanner/internal/window"
)

const twitterSearchURL = "https://twitter.com/search?f=live&src=typed_query&q="

// markerBuffer widens the termination marker set: the feed may hold no post
// aged exactly at the window boundary, so the markers extend several steps
// past it.
const markerBuffer = 5

// Twitter collects tweets from the live search feed for a stock's cashtag.
// Tweets younger than a day render relative ages ("6h") and older ones
// render absolute dates ("Nov 20"), so the termination marker set depends on
// the window length.
type Twitter struct {
	sess   browser.Session
	loc    Locator
	policy scrollPolicy
	now    func() time.Time
}

// NewTwitter creates the adapter over an existing browser session.
func NewTwitter(sess browser.Session, cfg store.ScrollConfig) *Twitter {
	return &Twitter{
		sess: sess,
		loc:  twitterLocator,
		policy: scrollPolicy{
			pause:         time.Duration(cfg.PauseMillis) * time.Millisecond,
			maxIterations: cfg.MaxIterations,
			minReplies:    cfg.MinReplies,
			maxClicks:     cfg.MaxClicks,
		},
		now: time.Now,
	}
}

func (t *Twitter) Name() types.Source { return types.SourceTwitter }

func (t *Twitter) Fetch(ctx context.Context, stock universe.StockEntry, win window.Window) ([]types.RawComment, error) {
	query := url.QueryEscape("$" + stock.Symbol)
	if err := t.sess.Navigate(ctx, twitterSearchURL+query); err != nil {
		return nil, fmt.Errorf("twitter %s: %w", stock.Symbol, err)
	}

	markers := t.markers(win)
	raw, err := collectScroll(ctx, t.sess, t.loc, markers, t.policy)
	if err != nil {
		return nil, fmt.Errorf("twitter %s: %w", stock.Symbol, err)
	}

	comments := make([]types.RawComment, 0, len(raw))
	for _, text := range raw {
		if text == "" {
			continue
		}
		// The cashtag search surfaces spam threads mentioning dozens of
		// tickers; keep only posts that mention this stock directly.
		if !MatchAny(text, stock.Keywords) {
			continue
		}
		comments = append(comments, types.RawComment{
			Text:   text,
			Source: types.SourceTwitter,
		})
	}
	logger.Debug(ctx, "Twitter feed collected",
		"symbol", stock.Symbol, "rendered", len(raw), "kept", len(comments))
	return comments, nil
}

func (t *Twitter) markers(win window.Window) []string {
	if win.LookbackHours < 24 {
		return RelativeMarkers(win.LookbackHours, markerBuffer)
	}
	start := t.now().Add(-win.Duration())
	return AbsoluteMarkers(start, markerBuffer)
}
