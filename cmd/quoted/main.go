package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/procuretrack/quote-analyzer/internal/common"
	"github.com/procuretrack/quote-analyzer/internal/extract"
	"github.com/procuretrack/quote-analyzer/internal/llm"
	"github.com/procuretrack/quote-analyzer/internal/llm/azure"
	"github.com/procuretrack/quote-analyzer/internal/pricing"
	"github.com/procuretrack/quote-analyzer/internal/report"
	"github.com/procuretrack/quote-analyzer/internal/repository"
	"github.com/procuretrack/quote-analyzer/internal/server"
)

func main() {
	_ = godotenv.Load()

	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	cfg := common.LoadConfig()
	if err := cfg.Validate(); err != nil {
		logger.Error("config validation failed", "error", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	pool, err := repository.Open(ctx, repository.Config{
		DSN:              cfg.Database.DSN,
		MaxConns:         cfg.Database.MaxConns,
		MinConns:         cfg.Database.MinConns,
		MaxConnLifetime:  cfg.Database.MaxConnLifetime,
		MaxConnIdleTime:  cfg.Database.MaxConnIdleTime,
		DialTimeout:      cfg.Database.DialTimeout,
		StatementTimeout: cfg.Database.StatementTimeout,
	}, logger)
	if err != nil {
		logger.Error("opening database", "error", err)
		os.Exit(1)
	}
	defer repository.Close(pool, logger)

	if err := repository.HealthCheck(ctx, pool, 3*time.Second, logger); err != nil {
		logger.Error("database health check failed", "error", err)
		os.Exit(1)
	}

	sources, sourcePools := repository.OpenPriceSources(ctx, cfg.Pricing.Sources, logger)
	defer func() {
		for _, p := range sourcePools {
			p.Close()
		}
	}()

	promptRepo := repository.NewPromptConfigRepository(pool, logger)
	quoteRepo := repository.NewQuoteRepository(pool, logger)
	indexRepo := repository.NewIndexRepository(pool, logger)

	chat := azure.NewClient(azure.Config{
		Endpoint:   cfg.LLM.Endpoint,
		APIKey:     cfg.LLM.APIKey,
		Deployment: cfg.LLM.Deployment,
		APIVersion: cfg.LLM.APIVersion,
		Timeout:    cfg.LLM.Timeout,
	}, logger)

	extractor := extract.NewExtractor(chat, llm.NewPromptResolver(promptRepo, logger), logger)

	analyzer := pricing.NewAnalyzer(
		pricing.NewFetcher(sources, logger),
		pricing.NewIndexAligner(indexRepo),
		logger,
	)
	reports := report.NewService(analyzer, cfg.Pricing.LookbackDays, logger)

	srv := server.NewServer(cfg.Server, extractor, quoteRepo, promptRepo, analyzer, reports, cfg.Pricing.LookbackDays, logger)

	httpServer := &http.Server{
		Addr:              cfg.Server.HTTPAddr,
		Handler:           srv.Router(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logger.Info("http serving", "addr", cfg.Server.HTTPAddr, "price_sources", len(sources))
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("http serve", "error", err)
			stop()
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		logger.Error("http shutdown", "error", err)
	}
	logger.Info("stopped")
}
