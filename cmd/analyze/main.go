// One-shot price analysis: fetch an item's purchase history across every
// configured business unit, compute statistics and the normalized comparison
// series, and print the result as JSON.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log/slog"
	"os"

	"github.com/joho/godotenv"

	"github.com/procuretrack/quote-analyzer/internal/common"
	"github.com/procuretrack/quote-analyzer/internal/pricing"
	"github.com/procuretrack/quote-analyzer/internal/repository"
)

func main() {
	_ = godotenv.Load()

	item := flag.String("item", "", "item number to analyze (required)")
	lookback := flag.Int("lookback-days", 0, "override PRICE_LOOKBACK_DAYS")
	flag.Parse()

	logger := slog.New(slog.NewJSONHandler(os.Stderr, nil))
	slog.SetDefault(logger)

	if *item == "" {
		fmt.Fprintln(os.Stderr, "usage: analyze -item <item-number> [-lookback-days N]")
		os.Exit(2)
	}

	cfg := common.LoadConfig()
	if len(cfg.Pricing.Sources) == 0 {
		logger.Error("PRICE_SOURCES is required, e.g. PRICE_SOURCES=\"unit_a=postgres://...;unit_b=postgres://...\"")
		os.Exit(2)
	}
	days := cfg.Pricing.LookbackDays
	if *lookback > 0 {
		days = *lookback
	}

	ctx := context.Background()

	sources, pools := repository.OpenPriceSources(ctx, cfg.Pricing.Sources, logger)
	defer func() {
		for _, p := range pools {
			p.Close()
		}
	}()
	if len(sources) == 0 {
		logger.Error("no price source could be opened")
		os.Exit(1)
	}

	var index pricing.IndexStore
	if cfg.Database.DSN != "" {
		pool, err := repository.Open(ctx, repository.Config{
			DSN:         cfg.Database.DSN,
			MaxConns:    2,
			MinConns:    1,
			DialTimeout: cfg.Database.DialTimeout,
		}, logger)
		if err != nil {
			logger.Error("opening database", "error", err)
			os.Exit(1)
		}
		defer repository.Close(pool, logger)
		index = repository.NewIndexRepository(pool, logger)
	}

	analyzer := pricing.NewAnalyzer(
		pricing.NewFetcher(sources, logger),
		pricing.NewIndexAligner(index),
		logger,
	)

	analysis, err := analyzer.Analyze(ctx, *item, days)
	if err != nil {
		logger.Error("analysis failed", "item_number", *item, "error", err)
		os.Exit(1)
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	if err := enc.Encode(analysis); err != nil {
		logger.Error("encoding output", "error", err)
		os.Exit(1)
	}
}
