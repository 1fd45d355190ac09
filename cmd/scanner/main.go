package main

import (
	"context"
	"errors"
	"log"
	"os"
	"os/signal"
	"syscall"

	"sentiment-scanner/internal/logger"
	"sentiment-scanner/internal/metrics"
	"sentiment-scanner/internal/pipeline"
	"sentiment-scanner/internal/trace"
)

func must(err error) {
	if err != nil {
		log.Fatal(err)
	}
}

func main() {
	must(initializeSystem())

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	defer func() {
		_ = trace.Shutdown(context.Background())
	}()

	cfg, err := loadConfig(ctx)
	must(err)

	compressOldJournals(ctx)

	runner, cleanup, err := initializeRunner(ctx, cfg)
	must(err)
	defer cleanup()

	logger.Info(ctx, "Scanner started",
		"watchlist", len(cfg.Universe.Watchlist),
		"trending_feed", cfg.Universe.UseTrendingFeed,
		"shorted_feed", cfg.Universe.UseShortedFeed)

	result, err := runner.Run(ctx)
	if err != nil {
		if errors.Is(err, pipeline.ErrMarketClosed) {
			logger.Info(ctx, "Market is closed today, nothing to collect")
			return
		}
		logger.ErrorWithErr(ctx, "Run failed", err)
		os.Exit(1)
	}

	must(writeOutputs(ctx, cfg, result))
	logSignals(ctx, cfg, result)
	metrics.RenderTable(os.Stdout, result.Rows, cfg.Sentiment.PositiveLevel, cfg.Sentiment.MinSample)
}
