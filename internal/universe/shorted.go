package universe

import (
	"context"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/gocolly/colly/v2"
)

const defaultShortedURL = "https://finviz.com/screener.ashx?v=111&s=ta_mostshorted"

// ShortedFeed crawls the finviz "most shorted" screener for high
// short-interest tickers. Heavily shorted names attract commentary even when
// they are not trending yet.
type ShortedFeed struct {
	url     string
	timeout time.Duration
}

// NewShortedFeed creates a feed against the public finviz screener.
func NewShortedFeed(timeout time.Duration) *ShortedFeed {
	return &ShortedFeed{url: defaultShortedURL, timeout: timeout}
}

// NewShortedFeedWithURL creates a feed against a custom page, used in tests.
func NewShortedFeedWithURL(rawURL string, timeout time.Duration) *ShortedFeed {
	return &ShortedFeed{url: rawURL, timeout: timeout}
}

// Symbols implements DiscoveryFeed. Screener rows carry the ticker in a
// quote link and the company name in the following cell.
func (f *ShortedFeed) Symbols(ctx context.Context) ([]Symbol, error) {
	domain, err := hostOf(f.url)
	if err != nil {
		return nil, err
	}

	c := colly.NewCollector(
		colly.AllowedDomains(domain),
		colly.MaxDepth(1),
		colly.Async(false),
	)
	c.SetRequestTimeout(f.timeout)

	// Set user agent to avoid being blocked
	c.OnRequest(func(r *colly.Request) {
		r.Headers.Set("User-Agent", "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36")
	})

	var symbols []Symbol
	c.OnHTML("tr", func(e *colly.HTMLElement) {
		ticker := strings.TrimSpace(e.ChildText("a.screener-link-primary"))
		if ticker == "" {
			return
		}
		name := ""
		cells := e.ChildTexts("td")
		// Row layout: no, ticker, company, sector, ...
		if len(cells) >= 3 {
			name = strings.TrimSpace(cells[2])
		}
		symbols = append(symbols, Symbol{Ticker: ticker, Name: name})
	})

	var visitErr error
	c.OnError(func(r *colly.Response, err error) {
		visitErr = err
	})

	if err := c.Visit(f.url); err != nil {
		return nil, fmt.Errorf("visit shorted screener: %w", err)
	}
	c.Wait()
	if visitErr != nil {
		return nil, fmt.Errorf("crawl shorted screener: %w", visitErr)
	}

	return symbols, nil
}

func hostOf(rawURL string) (string, error) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return "", fmt.Errorf("parse screener url: %w", err)
	}
	return u.Hostname(), nil
}
