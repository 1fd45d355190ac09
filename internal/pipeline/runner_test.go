package pipeline

import (
	"context"
	"errors"
	"fmt"
	"math"
	"testing"
	"time"

	"sentiment-scanner/internal/adapter"
	"sentiment-scanner/internal/sentiment"
	"sentiment-scanner/internal/store"
	"sentiment-scanner/internal/types"
	"sentiment-scanner/internal/universe"
	"sentiment-scanner/internal/window"
)

type fakeHolidays struct {
	days []time.Time
	err  error
}

func (f *fakeHolidays) Fetch(context.Context) ([]time.Time, error) { return f.days, f.err }

type fakeUniverse struct {
	stocks map[string]universe.StockEntry
}

func (f *fakeUniverse) Build(context.Context) (map[string]universe.StockEntry, error) {
	return f.stocks, nil
}

type fakeAdapter struct {
	name     types.Source
	comments []types.RawComment
	errs     []error
	calls    int
	gotWin   window.Window
}

func (f *fakeAdapter) Name() types.Source { return f.name }

func (f *fakeAdapter) Fetch(_ context.Context, _ universe.StockEntry, win window.Window) ([]types.RawComment, error) {
	f.gotWin = win
	f.calls++
	if len(f.errs) > 0 {
		err := f.errs[0]
		f.errs = f.errs[1:]
		if err != nil {
			return nil, err
		}
	}
	return f.comments, nil
}

type constClassifier struct{ probs sentiment.Probs }

func (c constClassifier) Classify(context.Context, string) (sentiment.Probs, error) {
	return c.probs, nil
}

func testConfig() *store.Config {
	cfg := &store.Config{}
	cfg.Window.TrendingBaseHours = 6
	cfg.Window.QuietBaseHours = 72
	cfg.Fetch.MaxAttempts = 2
	cfg.Fetch.BackoffMillis = 1
	return cfg
}

// a plain Wednesday with a holiday far away
var wednesday = time.Date(2021, time.November, 24, 10, 0, 0, 0, time.UTC)

func holidayCalendar() []time.Time {
	return []time.Time{time.Date(2021, time.July, 5, 0, 0, 0, 0, time.UTC)}
}

func newTestRunner(cfg *store.Config, stocks map[string]universe.StockEntry, adapters []adapter.Adapter) *Runner {
	r := NewRunner(cfg,
		&fakeHolidays{days: holidayCalendar()},
		&fakeUniverse{stocks: stocks},
		adapters,
		sentiment.NewScorer(constClassifier{probs: sentiment.Probs{Positive: 0.8, Neutral: 0.1, Negative: 0.1}}),
	)
	r.now = func() time.Time { return wednesday }
	return r
}

func TestRunEmptyCalendarIsFatal(t *testing.T) {
	r := newTestRunner(testConfig(), nil, nil)
	r.holidays = &fakeHolidays{days: nil}

	_, err := r.Run(context.Background())
	if !errors.Is(err, window.ErrEmptyCalendar) {
		t.Fatalf("expected ErrEmptyCalendar, got %v", err)
	}
}

func TestRunMarketClosed(t *testing.T) {
	r := newTestRunner(testConfig(), nil, nil)
	r.now = func() time.Time {
		return time.Date(2021, time.November, 27, 10, 0, 0, 0, time.UTC) // Saturday
	}
	if _, err := r.Run(context.Background()); !errors.Is(err, ErrMarketClosed) {
		t.Fatalf("expected ErrMarketClosed on Saturday, got %v", err)
	}

	r.now = func() time.Time {
		return time.Date(2021, time.July, 5, 10, 0, 0, 0, time.UTC) // holiday
	}
	if _, err := r.Run(context.Background()); !errors.Is(err, ErrMarketClosed) {
		t.Fatalf("expected ErrMarketClosed on a holiday, got %v", err)
	}
}

func TestRunAggregatesAcrossSources(t *testing.T) {
	stocks := map[string]universe.StockEntry{
		"GME": {Symbol: "GME", Keywords: []string{"GME"}, Trending: true},
	}
	reddit := &fakeAdapter{name: types.SourceReddit, comments: []types.RawComment{
		{Text: "going up", Source: types.SourceReddit},
		{Text: "going down", Source: types.SourceReddit},
	}}
	twitter := &fakeAdapter{name: types.SourceTwitter, comments: []types.RawComment{
		{Text: "mooning", Source: types.SourceTwitter},
		// Duplicate of a reddit comment; dedup keeps the reddit copy.
		{Text: "going up", Source: types.SourceTwitter},
	}}

	r := newTestRunner(testConfig(), stocks, []adapter.Adapter{reddit, twitter})
	result, err := r.Run(context.Background())
	if err != nil {
		t.Fatal(err)
	}

	if len(result.Rows) != 1 {
		t.Fatalf("expected 1 row, got %d", len(result.Rows))
	}
	row := result.Rows[0]
	if row.TotalComments != 3 {
		t.Errorf("total = %d, want 3 after dedup", row.TotalComments)
	}
	if row.BySource[types.SourceReddit].Count != 2 {
		t.Errorf("reddit count = %d", row.BySource[types.SourceReddit].Count)
	}
	if row.BySource[types.SourceTwitter].Count != 1 {
		t.Errorf("twitter count = %d", row.BySource[types.SourceTwitter].Count)
	}

	// Trending stock gets the short window on a plain Wednesday.
	if reddit.gotWin.LookbackHours != 6 {
		t.Errorf("trending lookback = %d, want 6", reddit.gotWin.LookbackHours)
	}

	if len(result.Timings) != 2 {
		t.Errorf("expected a timing per source, got %d", len(result.Timings))
	}
}

func TestRunQuietStockGetsWideWindow(t *testing.T) {
	stocks := map[string]universe.StockEntry{
		"SLOW": {Symbol: "SLOW", Keywords: []string{"SLOW"}},
	}
	a := &fakeAdapter{name: types.SourceReddit}
	r := newTestRunner(testConfig(), stocks, []adapter.Adapter{a})

	if _, err := r.Run(context.Background()); err != nil {
		t.Fatal(err)
	}
	if a.gotWin.LookbackHours != 72 {
		t.Errorf("quiet lookback = %d, want 72", a.gotWin.LookbackHours)
	}
}

func TestRunRetriesTransientThenSkips(t *testing.T) {
	stocks := map[string]universe.StockEntry{
		"GME": {Symbol: "GME", Keywords: []string{"GME"}},
	}
	transient := errors.New("timeout")
	dead := &fakeAdapter{name: types.SourceTwitter, errs: []error{transient, transient}}
	alive := &fakeAdapter{name: types.SourceReddit, comments: []types.RawComment{
		{Text: "still here", Source: types.SourceReddit},
	}}

	r := newTestRunner(testConfig(), stocks, []adapter.Adapter{alive, dead})
	result, err := r.Run(context.Background())
	if err != nil {
		t.Fatal(err)
	}

	if dead.calls != 2 {
		t.Errorf("transient failure should retry up to max_attempts=2, got %d calls", dead.calls)
	}
	row := result.Rows[0]
	if row.TotalComments != 1 {
		t.Errorf("surviving source should still be aggregated, total = %d", row.TotalComments)
	}

	var skipped bool
	for _, timing := range result.Timings {
		if timing.Source == types.SourceTwitter && timing.Skipped {
			skipped = true
		}
	}
	if !skipped {
		t.Error("exhausted source must be recorded as skipped")
	}
}

func TestRunStructuralErrorNotRetried(t *testing.T) {
	stocks := map[string]universe.StockEntry{
		"GME": {Symbol: "GME", Keywords: []string{"GME"}},
	}
	structural := fmt.Errorf("%w: selector gone", adapter.ErrStructural)
	broken := &fakeAdapter{name: types.SourceStockTwits, errs: []error{structural, structural}}

	r := newTestRunner(testConfig(), stocks, []adapter.Adapter{broken})
	if _, err := r.Run(context.Background()); err != nil {
		t.Fatal(err)
	}
	if broken.calls != 1 {
		t.Errorf("structural failure must not be retried, got %d calls", broken.calls)
	}
}

func TestRunZeroDataStockReportsNaN(t *testing.T) {
	stocks := map[string]universe.StockEntry{
		"QUIET": {Symbol: "QUIET", Keywords: []string{"QUIET"}},
	}
	empty := &fakeAdapter{name: types.SourceReddit}

	r := newTestRunner(testConfig(), stocks, []adapter.Adapter{empty})
	result, err := r.Run(context.Background())
	if err != nil {
		t.Fatal(err)
	}

	row := result.Rows[0]
	if row.TotalComments != 0 {
		t.Fatalf("total = %d", row.TotalComments)
	}
	if !math.IsNaN(row.TotalMeanSentiment) {
		t.Errorf("zero-data stock must report NaN, got %v", row.TotalMeanSentiment)
	}
}

func TestRunNoCrossStockLeakage(t *testing.T) {
	stocks := map[string]universe.StockEntry{
		"AAA": {Symbol: "AAA", Keywords: []string{"AAA"}},
		"BBB": {Symbol: "BBB", Keywords: []string{"BBB"}},
	}
	// The adapter returns one comment for every stock; each row must count
	// only its own.
	a := &fakeAdapter{name: types.SourceReddit, comments: []types.RawComment{
		{Text: "a comment", Source: types.SourceReddit},
	}}

	r := newTestRunner(testConfig(), stocks, []adapter.Adapter{a})
	result, err := r.Run(context.Background())
	if err != nil {
		t.Fatal(err)
	}

	if len(result.Rows) != 2 {
		t.Fatalf("expected 2 rows, got %d", len(result.Rows))
	}
	for _, row := range result.Rows {
		if row.TotalComments != 1 {
			t.Errorf("stock %s total = %d, want 1 (no cross-stock accumulation)",
				row.Symbol, row.TotalComments)
		}
	}
}
