// Package extract turns raw quote text into a validated QuoteData record.
package extract

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/procuretrack/quote-analyzer/internal/llm"
	"github.com/procuretrack/quote-analyzer/internal/textnorm"
)

// Extractor runs the structured extraction pipeline: normalize text, resolve
// the active prompt pair, call the model once, then strictly parse and
// post-validate the output.
type Extractor struct {
	chat    llm.ChatClient
	prompts *llm.PromptResolver
	logger  *slog.Logger
	now     func() time.Time
}

func NewExtractor(chat llm.ChatClient, prompts *llm.PromptResolver, logger *slog.Logger) *Extractor {
	if logger == nil {
		logger = slog.Default()
	}
	return &Extractor{chat: chat, prompts: prompts, logger: logger, now: time.Now}
}

// Extract never fails: any internal error (prompt store, model call, schema
// rejection) degrades to an empty-but-valid record with quote_date set to
// today, so a model failure can never propagate an exception into callers.
func (e *Extractor) Extract(ctx context.Context, text string) llm.QuoteData {
	rid := uuid.New().String()
	start := time.Now()

	e.logger.Info("extract.start", "req_id", rid, "text_len", len(text))

	q, err := e.run(ctx, text)
	if err != nil {
		e.logger.Error("extract.fallback",
			"req_id", rid, "error", err,
			"elapsed_ms", time.Since(start).Milliseconds(),
		)
		return e.fallback()
	}

	e.logger.Info("extract.ok",
		"req_id", rid,
		"supplier", strOrEmpty(q.SupplierName),
		"quote_number", strOrEmpty(q.QuoteNumber),
		"items", len(q.Items),
		"elapsed_ms", time.Since(start).Milliseconds(),
	)
	return q
}

func (e *Extractor) run(ctx context.Context, text string) (llm.QuoteData, error) {
	cleaned := textnorm.Normalize(text)

	systemTmpl, userTmpl, err := e.prompts.ResolveActivePrompt(ctx)
	if err != nil {
		return llm.QuoteData{}, err
	}
	// Both placeholders are substituted in both templates, so stored configs
	// are free to move the format instructions into the user prompt.
	instructions := llm.FormatInstructions()
	systemPrompt := llm.RenderPrompt(llm.RenderPrompt(systemTmpl, llm.FormatInstructionsPlaceholder, instructions), llm.TextContentPlaceholder, cleaned)
	userPrompt := llm.RenderPrompt(llm.RenderPrompt(userTmpl, llm.FormatInstructionsPlaceholder, instructions), llm.TextContentPlaceholder, cleaned)

	content, err := e.chat.Complete(ctx, systemPrompt, userPrompt)
	if err != nil {
		return llm.QuoteData{}, err
	}

	q, err := llm.ParseQuoteData([]byte(content))
	if err != nil {
		return llm.QuoteData{}, err
	}
	return llm.PostValidate(q, e.now()), nil
}

// fallback is the minimal valid record: all fields null except quote_date,
// which carries today's date (system clock, ISO format).
func (e *Extractor) fallback() llm.QuoteData {
	today := e.now().Format("2006-01-02")
	return llm.QuoteData{
		QuoteDate: &today,
		Items:     []llm.QuoteItem{},
	}
}

func strOrEmpty(p *string) string {
	if p == nil {
		return ""
	}
	return *p
}
