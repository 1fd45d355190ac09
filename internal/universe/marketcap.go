package universe

import (
	"bytes"
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"sentiment-scanner/internal/api"
)

const defaultQuoteURL = "https://finviz.com/quote.ashx?t="

// FinvizCaps resolves market capitalization from the finviz quote page
// snapshot table. The client must be configured with WithoutRedirects: a
// redirect on the quote page means the ticker was delisted or renamed and is
// reported as unavailable.
type FinvizCaps struct {
	client  *api.Client
	baseURL string
}

// NewFinvizCaps creates a lookup against the public finviz quote page.
func NewFinvizCaps(client *api.Client) *FinvizCaps {
	return &FinvizCaps{client: client, baseURL: defaultQuoteURL}
}

// NewFinvizCapsWithURL creates a lookup against a custom base URL, used in tests.
func NewFinvizCapsWithURL(client *api.Client, baseURL string) *FinvizCaps {
	return &FinvizCaps{client: client, baseURL: baseURL}
}

// MarketCap implements CapLookup.
func (f *FinvizCaps) MarketCap(ctx context.Context, symbol string) (float64, error) {
	resp, err := f.client.GET(ctx, f.baseURL+symbol, api.BrowserHeaders())
	if err != nil {
		return 0, fmt.Errorf("%w: %v", ErrCapUnavailable, err)
	}
	if resp.Redirected {
		return 0, fmt.Errorf("%w: quote page redirected to %s", ErrCapUnavailable, resp.Location)
	}

	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(resp.Body))
	if err != nil {
		return 0, fmt.Errorf("%w: parse quote page: %v", ErrCapUnavailable, err)
	}

	raw := ""
	doc.Find("td").EachWithBreak(func(_ int, td *goquery.Selection) bool {
		if strings.TrimSpace(td.Text()) != "Market Cap" {
			return true
		}
		raw = strings.TrimSpace(td.Next().Text())
		return false
	})
	if raw == "" {
		return 0, fmt.Errorf("%w: no market cap cell for %s", ErrCapUnavailable, symbol)
	}

	cap, err := ParseCap(raw)
	if err != nil {
		return 0, err
	}
	return cap, nil
}

// ParseCap converts a capitalization string with a magnitude suffix
// ("750M", "1.2B", "2.01T") into dollars. "-" and "N/A" are unavailable.
func ParseCap(raw string) (float64, error) {
	s := strings.TrimSpace(raw)
	if s == "" || s == "-" || strings.EqualFold(s, "N/A") {
		return 0, fmt.Errorf("%w: value %q", ErrCapUnavailable, raw)
	}

	mult := 1.0
	switch {
	case strings.HasSuffix(s, "T"):
		mult = 1e12
		s = strings.TrimSuffix(s, "T")
	case strings.HasSuffix(s, "B"):
		mult = 1e9
		s = strings.TrimSuffix(s, "B")
	case strings.HasSuffix(s, "M"):
		mult = 1e6
		s = strings.TrimSuffix(s, "M")
	}

	v, err := strconv.ParseFloat(strings.ReplaceAll(s, ",", ""), 64)
	if err != nil {
		return 0, fmt.Errorf("%w: unparseable value %q", ErrCapUnavailable, raw)
	}
	return v * mult, nil
}
