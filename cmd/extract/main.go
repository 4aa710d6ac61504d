// One-shot extraction: read a quote PDF, run the LLM pipeline, print the
// structured record as JSON. No database required; the default prompt pair
// is used unless DB_URL is set.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/joho/godotenv"

	"github.com/procuretrack/quote-analyzer/internal/common"
	"github.com/procuretrack/quote-analyzer/internal/extract"
	"github.com/procuretrack/quote-analyzer/internal/llm"
	"github.com/procuretrack/quote-analyzer/internal/llm/azure"
	"github.com/procuretrack/quote-analyzer/internal/pdftext"
	"github.com/procuretrack/quote-analyzer/internal/repository"
)

func main() {
	_ = godotenv.Load()

	pdfPath := flag.String("pdf", "", "path to the quote PDF (required)")
	pretty := flag.Bool("pretty", true, "indent the JSON output")
	flag.Parse()

	logger := slog.New(slog.NewJSONHandler(os.Stderr, nil))
	slog.SetDefault(logger)

	if *pdfPath == "" {
		fmt.Fprintln(os.Stderr, "usage: extract -pdf <file.pdf>")
		os.Exit(2)
	}

	cfg := common.LoadConfig()
	if cfg.LLM.Endpoint == "" || cfg.LLM.APIKey == "" || cfg.LLM.Deployment == "" {
		logger.Error("AZURE_OPENAI_ENDPOINT, AZURE_OPENAI_API_KEY and AZURE_OPENAI_DEPLOYMENT_NAME are required")
		os.Exit(2)
	}

	ctx := context.Background()

	var store llm.PromptStore
	if cfg.Database.DSN != "" {
		pool, err := repository.Open(ctx, repository.Config{
			DSN:             cfg.Database.DSN,
			MaxConns:        2,
			MinConns:        1,
			MaxConnLifetime: 5 * time.Minute,
			MaxConnIdleTime: time.Minute,
			DialTimeout:     cfg.Database.DialTimeout,
		}, logger)
		if err != nil {
			logger.Error("opening database", "error", err)
			os.Exit(1)
		}
		defer repository.Close(pool, logger)
		store = repository.NewPromptConfigRepository(pool, logger)
	}

	text, err := pdftext.ExtractText(*pdfPath, logger)
	if err != nil {
		logger.Error("reading pdf", "path", *pdfPath, "error", err)
		os.Exit(1)
	}

	chat := azure.NewClient(azure.Config{
		Endpoint:   cfg.LLM.Endpoint,
		APIKey:     cfg.LLM.APIKey,
		Deployment: cfg.LLM.Deployment,
		APIVersion: cfg.LLM.APIVersion,
		Timeout:    cfg.LLM.Timeout,
	}, logger)

	extractor := extract.NewExtractor(chat, llm.NewPromptResolver(store, logger), logger)
	data := extractor.Extract(ctx, text)

	enc := json.NewEncoder(os.Stdout)
	if *pretty {
		enc.SetIndent("", "  ")
	}
	if err := enc.Encode(data); err != nil {
		logger.Error("encoding output", "error", err)
		os.Exit(1)
	}
}
