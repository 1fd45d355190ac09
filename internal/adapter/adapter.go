// Package adapter collects raw comments for one stock from one social
// source over a bounded time window.
package adapter

import (
	"context"
	"errors"

	"sentiment-scanner/internal/types"
	"sentiment-scanner/internal/universe"
	"sentiment-scanner/internal/window"
)

// Adapter fetches the raw comments mentioning a stock inside the window.
// A returned error wrapping ErrStructural means the source's page or API
// shape changed and retrying the same request cannot help.
type Adapter interface {
	Name() types.Source
	Fetch(ctx context.Context, stock universe.StockEntry, win window.Window) ([]types.RawComment, error)
}

// ErrStructural marks failures caused by a layout or schema change at the
// source rather than a transient network condition.
var ErrStructural = errors.New("adapter: source structure changed")
