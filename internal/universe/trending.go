package universe

import (
	"context"
	"fmt"

	"sentiment-scanner/internal/api"
)

const defaultTrendingURL = "https://api.stocktwits.com/api/2/trending/symbols/equities.json"

// TrendingFeed lists the currently most-discussed equities on StockTwits.
// The endpoint needs no authentication and returns about 30 symbols.
type TrendingFeed struct {
	client *api.Client
	url    string
}

// NewTrendingFeed creates a feed against the public StockTwits endpoint.
func NewTrendingFeed(client *api.Client) *TrendingFeed {
	return &TrendingFeed{client: client, url: defaultTrendingURL}
}

// NewTrendingFeedWithURL creates a feed against a custom endpoint, used in tests.
func NewTrendingFeedWithURL(client *api.Client, url string) *TrendingFeed {
	return &TrendingFeed{client: client, url: url}
}

// Symbols implements DiscoveryFeed.
func (f *TrendingFeed) Symbols(ctx context.Context) ([]Symbol, error) {
	var payload struct {
		Symbols []struct {
			Symbol string `json:"symbol"`
			Title  string `json:"title"`
		} `json:"symbols"`
	}
	if err := f.client.GetJSON(ctx, f.url, &payload); err != nil {
		return nil, fmt.Errorf("fetch trending symbols: %w", err)
	}

	symbols := make([]Symbol, 0, len(payload.Symbols))
	for _, s := range payload.Symbols {
		symbols = append(symbols, Symbol{Ticker: s.Symbol, Name: s.Title})
	}
	return symbols, nil
}
