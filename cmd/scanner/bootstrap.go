package main

import (
	"context"
	"fmt"
	"math"
	"os"
	"time"

	"github.com/joho/godotenv"
	"golang.org/x/time/rate"

	"sentiment-scanner/internal/adapter"
	"sentiment-scanner/internal/api"
	"sentiment-scanner/internal/browser"
	"sentiment-scanner/internal/logger"
	"sentiment-scanner/internal/market"
	"sentiment-scanner/internal/metrics"
	"sentiment-scanner/internal/pipeline"
	"sentiment-scanner/internal/runlog"
	"sentiment-scanner/internal/sentiment"
	"sentiment-scanner/internal/store"
	"sentiment-scanner/internal/trace"
	"sentiment-scanner/internal/universe"
)

// initializeSystem initializes environment, logger, and tracer.
func initializeSystem() error {
	_ = godotenv.Load()

	if err := logger.Init(); err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}

	if err := trace.Init(); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize tracer: %v\n", err)
	}

	return nil
}

func loadConfig(ctx context.Context) (*store.Config, error) {
	cfg, err := store.LoadConfig("config.yaml")
	if err != nil {
		logger.ErrorWithErr(ctx, "Failed to load config", err)
		return nil, err
	}
	return cfg, nil
}

func fetchClient(cfg *store.Config) *api.Client {
	return api.NewClient(
		api.WithTimeout(time.Duration(cfg.Fetch.TimeoutSeconds) * time.Second),
	)
}

// initializeUniverse wires the discovery feeds and market-cap gate.
func initializeUniverse(cfg *store.Config) *universe.Builder {
	var trending, shorted universe.DiscoveryFeed
	if cfg.Universe.UseTrendingFeed {
		trending = universe.NewTrendingFeed(fetchClient(cfg))
	}
	if cfg.Universe.UseShortedFeed {
		shorted = universe.NewShortedFeed(time.Duration(cfg.Fetch.TimeoutSeconds) * time.Second)
	}

	var caps universe.CapLookup
	if cfg.Universe.MinMarketCap > 0 {
		// The cap lookup needs redirect detection: a redirected quote page
		// means a delisted ticker.
		client := api.NewClient(
			api.WithTimeout(time.Duration(cfg.Fetch.TimeoutSeconds)*time.Second),
			api.WithoutRedirects(),
		)
		caps = universe.NewFinvizCaps(client)
	}

	limiter := rate.NewLimiter(rate.Limit(float64(cfg.Universe.DiscoveryPerMinute)/60.0), 1)
	return universe.NewBuilder(cfg.Universe.Watchlist, trending, shorted, caps, cfg.Universe.MinMarketCap, limiter)
}

// initializeAdapters builds the three source adapters. The scroll adapters
// share one browser session; the returned cleanup closes it.
func initializeAdapters(ctx context.Context, cfg *store.Config) ([]adapter.Adapter, func(), error) {
	limiter := rate.NewLimiter(rate.Limit(float64(cfg.Fetch.RequestsPerMin)/60.0), 1)
	reddit := adapter.NewReddit(fetchClient(cfg), cfg.Reddit, limiter)

	sess, err := browser.NewChromeSession(ctx)
	if err != nil {
		return nil, nil, fmt.Errorf("browser session: %w", err)
	}

	adapters := []adapter.Adapter{
		reddit,
		adapter.NewStockTwits(sess, cfg.Scroll),
		adapter.NewTwitter(sess, cfg.Scroll),
	}
	cleanup := func() {
		if err := sess.Close(); err != nil {
			logger.Warn(ctx, "Failed to close browser session", "error", err)
		}
	}
	return adapters, cleanup, nil
}

func initializeScorer(cfg *store.Config) (*sentiment.Scorer, error) {
	classifier, err := sentiment.NewHTTPClassifier(fetchClient(cfg), cfg.Sentiment)
	if err != nil {
		return nil, err
	}
	return sentiment.NewScorer(classifier), nil
}

func initializeRunner(ctx context.Context, cfg *store.Config) (*pipeline.Runner, func(), error) {
	adapters, cleanup, err := initializeAdapters(ctx, cfg)
	if err != nil {
		return nil, nil, err
	}

	scorer, err := initializeScorer(cfg)
	if err != nil {
		cleanup()
		return nil, nil, err
	}

	calendar := market.NewCalendar(fetchClient(cfg))
	runner := pipeline.NewRunner(cfg, calendar, initializeUniverse(cfg), adapters, scorer)
	return runner, cleanup, nil
}

// writeOutputs emits the results and timer artifacts.
func writeOutputs(ctx context.Context, cfg *store.Config, result *pipeline.Result) error {
	rf, err := os.Create(cfg.Output.ResultsPath)
	if err != nil {
		return fmt.Errorf("create results file: %w", err)
	}
	defer rf.Close()
	if err := metrics.WriteCSV(rf, result.Rows); err != nil {
		return fmt.Errorf("write results: %w", err)
	}
	logger.Info(ctx, "Results written", "path", cfg.Output.ResultsPath, "rows", len(result.Rows))

	tf, err := os.Create(cfg.Output.TimerPath)
	if err != nil {
		return fmt.Errorf("create timer file: %w", err)
	}
	defer tf.Close()
	if err := metrics.WriteTimerCSV(tf, result.Timings); err != nil {
		return fmt.Errorf("write timer: %w", err)
	}
	logger.Info(ctx, "Timings written", "path", cfg.Output.TimerPath, "entries", len(result.Timings))

	return nil
}

// logSignals records the derived trade signal for each stock that produced
// data.
func logSignals(ctx context.Context, cfg *store.Config, result *pipeline.Result) {
	for _, row := range result.Rows {
		if math.IsNaN(row.TotalMeanSentiment) {
			logger.Warn(ctx, "No data collected for stock", "symbol", row.Symbol)
			continue
		}
		signal := metrics.Signal(row, cfg.Sentiment.PositiveLevel, cfg.Sentiment.MinSample)
		logger.Signal(ctx, row.Symbol, signal, row.TotalMeanSentiment, row.TotalComments)

		entry := runlog.Entry{
			Symbol:        row.Symbol,
			Signal:        signal,
			MeanSentiment: row.TotalMeanSentiment,
			Comments:      row.TotalComments,
		}
		if !math.IsNaN(row.DirectionalAccuracy) {
			entry.Accuracy = row.DirectionalAccuracy
		}
		if err := runlog.Append(entry); err != nil {
			logger.Warn(ctx, "Failed to append run journal", "error", err)
		}
	}
}

// compressOldJournals compresses old run journals if retention is configured.
func compressOldJournals(ctx context.Context) {
	if v := os.Getenv("SCANNER_LOG_RETENTION_DAYS"); v != "" {
		var n int
		fmt.Sscanf(v, "%d", &n)
		if err := runlog.CompressOlder(n); err != nil {
			logger.Warn(ctx, "Failed to compress old run journals", "error", err)
		}
	}
}
