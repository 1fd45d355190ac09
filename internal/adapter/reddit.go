package adapter

import (
	"context"
	"fmt"
	"net/url"
	"time"

	"golang.org/x/time/rate"

	"sentiment-scanner/internal/api"
	"sentiment-scanner/internal/logger"
	"sentiment-scanner/internal/store"
	"sentiment-scanner/internal/types"
	"sentiment-scanner/internal/universe"
	"sentiment-scanner/internal/window"
)

// removalPlaceholders are the bodies Reddit substitutes for moderated or
// self-deleted comments. They carry no sentiment and are excluded.
var removalPlaceholders = map[string]bool{
	"[removed]": true,
	"[deleted]": true,
}

// Reddit collects subreddit comments through a bulk archive query. One call
// covers the whole window as an absolute [after, before] epoch pair, so
// there is no pagination loop; matching against the stock's keywords happens
// locally.
type Reddit struct {
	client    *api.Client
	baseURL   string
	subreddit string
	max       int
	limiter   *rate.Limiter
	now       func() time.Time
}

// NewReddit creates the adapter. limiter bounds archive calls to the
// service's per-minute quota and may be nil.
func NewReddit(client *api.Client, cfg store.RedditConfig, limiter *rate.Limiter) *Reddit {
	return &Reddit{
		client:    client,
		baseURL:   cfg.BaseURL,
		subreddit: cfg.Subreddit,
		max:       cfg.MaxComments,
		limiter:   limiter,
		now:       time.Now,
	}
}

func (r *Reddit) Name() types.Source { return types.SourceReddit }

type redditComment struct {
	Body   string `json:"body"`
	Author string `json:"author"`
}

type redditResponse struct {
	Data []redditComment `json:"data"`
}

func (r *Reddit) Fetch(ctx context.Context, stock universe.StockEntry, win window.Window) ([]types.RawComment, error) {
	if r.limiter != nil {
		if err := r.limiter.Wait(ctx); err != nil {
			return nil, err
		}
	}

	after, before := win.Bounds(r.now())
	q := url.Values{}
	q.Set("subreddit", r.subreddit)
	q.Set("after", fmt.Sprintf("%d", after))
	q.Set("before", fmt.Sprintf("%d", before))
	q.Set("size", fmt.Sprintf("%d", r.max))

	endpoint := r.baseURL + "/reddit/comment/search?" + q.Encode()

	var resp redditResponse
	if err := r.client.GetJSON(ctx, endpoint, &resp); err != nil {
		return nil, fmt.Errorf("reddit %s: %w", stock.Symbol, err)
	}

	comments := make([]types.RawComment, 0, len(resp.Data))
	for _, rc := range resp.Data {
		if removalPlaceholders[rc.Body] {
			continue
		}
		if !MatchAny(rc.Body, stock.Keywords) {
			continue
		}
		comments = append(comments, types.RawComment{
			Text:   rc.Body,
			Source: types.SourceReddit,
			User:   rc.Author,
		})
	}
	logger.Debug(ctx, "Reddit archive queried",
		"symbol", stock.Symbol, "window_comments", len(resp.Data), "kept", len(comments))
	return comments, nil
}
