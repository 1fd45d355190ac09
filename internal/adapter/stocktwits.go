package adapter

import (
	"context"
	"fmt"
	"strings"
	"time"

	"sentiment-scanner/internal/browser"
	"sentiment-scanner/internal/logger"
	"sentiment-scanner/internal/store"
	"sentiment-scanner/internal/types"
	"sentiment-scanner/internal/universe"
	"sentiment-scanner/internal/window"
)

const stocktwitsSymbolURL = "https://stocktwits.com/symbol/"

// StockTwits collects messages from a symbol's StockTwits feed by scrolling
// until a message dated at the window start renders. Messages carry an
// optional Bullish/Bearish tag which becomes the ground-truth directional
// label.
type StockTwits struct {
	sess   browser.Session
	loc    Locator
	policy scrollPolicy
	now    func() time.Time
}

// NewStockTwits creates the adapter over an existing browser session. The
// session is borrowed, not owned: closing it is the caller's job.
func NewStockTwits(sess browser.Session, cfg store.ScrollConfig) *StockTwits {
	return &StockTwits{
		sess: sess,
		loc:  stocktwitsLocator,
		policy: scrollPolicy{
			pause:         time.Duration(cfg.PauseMillis) * time.Millisecond,
			maxIterations: cfg.MaxIterations,
			minReplies:    cfg.MinReplies,
			maxClicks:     cfg.MaxClicks,
		},
		now: time.Now,
	}
}

func (s *StockTwits) Name() types.Source { return types.SourceStockTwits }

func (s *StockTwits) Fetch(ctx context.Context, stock universe.StockEntry, win window.Window) ([]types.RawComment, error) {
	url := stocktwitsSymbolURL + strings.ToLower(stock.Symbol)
	if err := s.sess.Navigate(ctx, url); err != nil {
		return nil, fmt.Errorf("stocktwits %s: %w", stock.Symbol, err)
	}

	start := s.now().Add(-win.Duration())
	markers := []string{DateMarker(start)}

	raw, err := collectScroll(ctx, s.sess, s.loc, markers, s.policy)
	if err != nil {
		return nil, fmt.Errorf("stocktwits %s: %w", stock.Symbol, err)
	}

	comments := make([]types.RawComment, 0, len(raw))
	for _, text := range raw {
		c, ok := parseTwit(text)
		if !ok {
			continue
		}
		comments = append(comments, c)
	}
	logger.Debug(ctx, "StockTwits feed collected",
		"symbol", stock.Symbol, "rendered", len(raw), "kept", len(comments))
	return comments, nil
}

// parseTwit splits one rendered message into its parts. The feed renders
// each message as newline-separated lines: user, optional Bullish/Bearish
// tag, timestamp, then the body.
func parseTwit(text string) (types.RawComment, bool) {
	c := types.RawComment{Source: types.SourceStockTwits}

	parts := strings.SplitN(text, "\n", 4)
	if len(parts) >= 2 && (parts[1] == "Bullish" || parts[1] == "Bearish") {
		if len(parts) < 4 {
			return c, false
		}
		c.User = parts[0]
		c.Directional = types.Directional(strings.ToLower(parts[1]))
		c.Text = parts[3]
		return c, true
	}

	parts = strings.SplitN(text, "\n", 3)
	if len(parts) < 3 {
		return c, false
	}
	c.User = parts[0]
	c.Text = parts[2]
	return c, true
}
