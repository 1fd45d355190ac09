// Package pipeline drives one collection pass: calendar, windows, universe,
// per-stock per-source fetch, scoring, and aggregation.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"sentiment-scanner/internal/adapter"
	"sentiment-scanner/internal/logger"
	"sentiment-scanner/internal/market"
	"sentiment-scanner/internal/metrics"
	"sentiment-scanner/internal/sentiment"
	"sentiment-scanner/internal/store"
	"sentiment-scanner/internal/types"
	"sentiment-scanner/internal/universe"
	"sentiment-scanner/internal/window"
)

// ErrMarketClosed means today is a weekend day or an exchange holiday; the
// run ends cleanly without collecting anything.
var ErrMarketClosed = errors.New("pipeline: market is closed today")

// HolidaySource provides the exchange holiday calendar.
type HolidaySource interface {
	Fetch(ctx context.Context) ([]time.Time, error)
}

// UniverseSource builds the ticker universe for the run.
type UniverseSource interface {
	Build(ctx context.Context) (map[string]universe.StockEntry, error)
}

// Result is everything one run produces.
type Result struct {
	Rows    []types.MetricsRow
	Timings []types.SourceTiming
}

// Runner owns one run's collaborators. Stocks are processed one at a time
// and sources within a stock one at a time: the scroll adapters share a
// single browser session that cannot be used concurrently.
type Runner struct {
	cfg      *store.Config
	holidays HolidaySource
	universe UniverseSource
	adapters []adapter.Adapter
	scorer   *sentiment.Scorer
	now      func() time.Time
}

func NewRunner(cfg *store.Config, holidays HolidaySource, uni UniverseSource, adapters []adapter.Adapter, scorer *sentiment.Scorer) *Runner {
	return &Runner{
		cfg:      cfg,
		holidays: holidays,
		universe: uni,
		adapters: adapters,
		scorer:   scorer,
		now:      time.Now,
	}
}

// Run executes one full collection pass. An empty holiday calendar is fatal;
// a single source or stock failing is not.
func (r *Runner) Run(ctx context.Context) (*Result, error) {
	timer := logger.StartOperation(ctx, "collection_run")
	ctx = timer.GetContext()

	holidays, err := r.holidays.Fetch(ctx)
	if err != nil {
		timer.EndWithError(err)
		return nil, fmt.Errorf("holiday calendar: %w", err)
	}

	today := r.now()
	if market.ClosedToday(today, holidays) {
		timer.End("outcome", "market_closed")
		return nil, ErrMarketClosed
	}

	// Windows are computed once per run, before any adapter executes, so
	// every stock of the same trending class sees the same span.
	winCfg := window.Config{
		TrendingBaseHours: uint(r.cfg.Window.TrendingBaseHours),
		QuietBaseHours:    uint(r.cfg.Window.QuietBaseHours),
	}
	trendingWin, err := window.Compute(today, holidays, true, winCfg)
	if err != nil {
		timer.EndWithError(err)
		return nil, err
	}
	quietWin, err := window.Compute(today, holidays, false, winCfg)
	if err != nil {
		timer.EndWithError(err)
		return nil, err
	}
	logger.Info(ctx, "Windows computed",
		"trending_hours", trendingWin.LookbackHours,
		"quiet_hours", quietWin.LookbackHours,
		"weekend_thread", trendingWin.IncludeWeekendThread)

	stocks, err := r.universe.Build(ctx)
	if err != nil {
		timer.EndWithError(err)
		return nil, fmt.Errorf("universe: %w", err)
	}

	symbols := make([]string, 0, len(stocks))
	for sym := range stocks {
		symbols = append(symbols, sym)
	}
	sort.Strings(symbols)

	result := &Result{}
	for _, sym := range symbols {
		stock := stocks[sym]
		win := quietWin
		if stock.Trending {
			win = trendingWin
		}
		row, timings := r.processStock(ctx, stock, win)
		result.Rows = append(result.Rows, row)
		result.Timings = append(result.Timings, timings...)
	}

	timer.End("stocks", len(result.Rows))
	return result, nil
}

// processStock collects, scores, and aggregates one stock. The comment
// accumulator is local to this call: nothing carries over between stocks.
func (r *Runner) processStock(ctx context.Context, stock universe.StockEntry, win window.Window) (types.MetricsRow, []types.SourceTiming) {
	var collected []types.RawComment
	var timings []types.SourceTiming

	for _, a := range r.adapters {
		timer := logger.StartOperation(ctx, "source_fetch",
			"symbol", stock.Symbol, "source", string(a.Name()))

		comments, err := r.fetchWithRetry(timer.GetContext(), a, stock, win)
		timing := types.SourceTiming{
			Symbol: stock.Symbol,
			Source: a.Name(),
			Millis: timer.Elapsed().Milliseconds(),
		}
		if err != nil {
			// Partial results policy: a dead source skips itself, never
			// the stock.
			timing.Skipped = true
			timer.EndWithError(err)
		} else {
			collected = append(collected, comments...)
			timer.End("comments", len(comments))
		}
		timings = append(timings, timing)
	}

	records := r.scoreAll(ctx, stock.Symbol, adapter.Dedup(collected))
	return metrics.Aggregate(stock.Symbol, records), timings
}

// fetchWithRetry retries transient fetch failures with a fixed backoff.
// Structural failures are not retried: the page shape changed and the next
// attempt would fail the same way.
func (r *Runner) fetchWithRetry(ctx context.Context, a adapter.Adapter, stock universe.StockEntry, win window.Window) ([]types.RawComment, error) {
	backoff := time.Duration(r.cfg.Fetch.BackoffMillis) * time.Millisecond

	var lastErr error
	for attempt := 1; attempt <= r.cfg.Fetch.MaxAttempts; attempt++ {
		comments, err := a.Fetch(ctx, stock, win)
		if err == nil {
			return comments, nil
		}
		lastErr = err

		if errors.Is(err, adapter.ErrStructural) {
			logger.ErrorWithErr(ctx, "Source structure changed", err,
				"source", string(a.Name()), "symbol", stock.Symbol)
			return nil, err
		}
		logger.Warn(ctx, "Fetch attempt failed",
			"source", string(a.Name()), "symbol", stock.Symbol,
			"attempt", attempt, "error", err)

		if attempt < r.cfg.Fetch.MaxAttempts {
			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			case <-time.After(backoff):
			}
			backoff *= 2
		}
	}
	return nil, lastErr
}

// scoreAll scores deduplicated comments. A comment the classifier cannot
// handle is dropped, never fatal to the stock.
func (r *Runner) scoreAll(ctx context.Context, symbol string, comments []types.RawComment) []types.SentimentRecord {
	records := make([]types.SentimentRecord, 0, len(comments))
	for _, c := range comments {
		rec, err := r.scorer.Score(ctx, c)
		if err != nil {
			logger.Warn(ctx, "Comment dropped: scoring failed",
				"symbol", symbol, "source", string(c.Source), "error", err)
			continue
		}
		if rec == nil {
			continue
		}
		records = append(records, *rec)
	}
	return records
}
