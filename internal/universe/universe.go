package universe

import (
	"context"
	"errors"
	"strings"

	"golang.org/x/time/rate"

	"sentiment-scanner/internal/logger"
)

// StockEntry is one ticker in the universe with the keywords used to match
// comments against it. Keywords always contain the uppercase ticker.
type StockEntry struct {
	Symbol   string
	Keywords []string
	Trending bool
}

// Symbol is one (ticker, display name) pair from a discovery feed.
type Symbol struct {
	Ticker string
	Name   string
}

// DiscoveryFeed returns candidate symbols from an external source. Partial
// or empty responses are tolerated; the build continues with what it has.
type DiscoveryFeed interface {
	Symbols(ctx context.Context) ([]Symbol, error)
}

// CapLookup resolves a ticker's market capitalization in dollars.
// ErrCapUnavailable means the ticker should be dropped, not retried.
type CapLookup interface {
	MarketCap(ctx context.Context, symbol string) (float64, error)
}

// ErrCapUnavailable marks a ticker whose capitalization cannot be resolved:
// missing value, unparseable value, or a redirected quote page (delisted or
// renamed ticker).
var ErrCapUnavailable = errors.New("universe: market cap unavailable")

// Builder assembles the ticker -> keywords mapping for one run.
type Builder struct {
	watchlist map[string][]string
	trending  DiscoveryFeed
	shorted   DiscoveryFeed
	caps      CapLookup
	capFloor  float64
	limiter   *rate.Limiter
}

// NewBuilder creates a Builder. Either feed may be nil to disable it; caps
// may be nil to disable the market-cap gate. limiter bounds calls to the
// discovery and market-cap collaborators.
func NewBuilder(watchlist map[string][]string, trending, shorted DiscoveryFeed, caps CapLookup, capFloor float64, limiter *rate.Limiter) *Builder {
	return &Builder{
		watchlist: watchlist,
		trending:  trending,
		shorted:   shorted,
		caps:      caps,
		capFloor:  capFloor,
		limiter:   limiter,
	}
}

// Build produces the universe mapping. Watchlist entries are seeded first and
// are never overwritten by feed entries; the trending feed is merged next,
// then the shorted feed. A single symbol's lookup failure removes only that
// symbol.
func (b *Builder) Build(ctx context.Context) (map[string]StockEntry, error) {
	stocks := make(map[string]StockEntry)

	for symbol, extra := range b.watchlist {
		sym := strings.ToUpper(strings.TrimSpace(symbol))
		if sym == "" {
			continue
		}
		keywords := []string{sym}
		for _, kw := range extra {
			if kw != "" && kw != sym {
				keywords = append(keywords, kw)
			}
		}
		stocks[sym] = StockEntry{Symbol: sym, Keywords: keywords}
	}

	b.mergeFeed(ctx, stocks, b.trending, true)
	b.mergeFeed(ctx, stocks, b.shorted, false)

	if b.caps != nil {
		b.applyCapGate(ctx, stocks)
	}

	logger.Info(ctx, "Universe built", "stocks", len(stocks))
	return stocks, nil
}

func (b *Builder) mergeFeed(ctx context.Context, stocks map[string]StockEntry, feed DiscoveryFeed, trending bool) {
	if feed == nil {
		return
	}
	if err := b.wait(ctx); err != nil {
		return
	}
	symbols, err := feed.Symbols(ctx)
	if err != nil {
		// A discovery feed failure never aborts the build.
		logger.Warn(ctx, "Discovery feed failed", "trending", trending, "error", err)
		return
	}
	for _, s := range symbols {
		sym := strings.ToUpper(strings.TrimSpace(s.Ticker))
		if sym == "" {
			continue
		}
		if _, exists := stocks[sym]; exists {
			continue
		}
		stocks[sym] = StockEntry{
			Symbol:   sym,
			Keywords: DeriveKeywords(sym, s.Name),
			Trending: trending,
		}
	}
}

func (b *Builder) applyCapGate(ctx context.Context, stocks map[string]StockEntry) {
	for sym := range stocks {
		if err := b.wait(ctx); err != nil {
			return
		}
		cap, err := b.caps.MarketCap(ctx, sym)
		if err != nil {
			logger.Warn(ctx, "Dropping symbol: market cap lookup failed", "symbol", sym, "error", err)
			delete(stocks, sym)
			continue
		}
		if cap < b.capFloor {
			logger.Info(ctx, "Dropping symbol under cap threshold", "symbol", sym, "cap", cap, "threshold", b.capFloor)
			delete(stocks, sym)
		}
	}
}

func (b *Builder) wait(ctx context.Context) error {
	if b.limiter == nil {
		return nil
	}
	return b.limiter.Wait(ctx)
}
