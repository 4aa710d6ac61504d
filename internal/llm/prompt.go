package llm

import (
	"context"
	"log/slog"
	"strings"
)

// Placeholders recognized in stored prompt templates.
const (
	FormatInstructionsPlaceholder = "{format_instructions}"
	TextContentPlaceholder        = "{text_content}"
)

// Hardcoded default prompt pair, used when the store has no active config.
const (
	DefaultSystemPrompt = `You are a precise quote data extractor. Your task is to extract structured data from supplier quotes.
Important guidelines:
1. Extract ONLY factual information present in the text
2. For dates, ensure they are in YYYY-MM-DD format
3. For numbers, ensure they are converted to proper numerical values
4. For item numbers, preserve exact formatting
5. If a value is clearly missing, use null
6. For unit prices, extract the individual unit price, not total price
7. If unit of measure is not specified, use 'EA' for each

The output should match this format exactly:
{format_instructions}`

	DefaultUserPrompt = "Please extract the quote information from the following text:\n\n{text_content}"
)

// PromptResolver selects the active extraction template, falling back to the
// built-in default pair when the store has none. Store failures propagate as
// infrastructure errors; they are never masked by the default.
type PromptResolver struct {
	store  PromptStore
	logger *slog.Logger
}

func NewPromptResolver(store PromptStore, logger *slog.Logger) *PromptResolver {
	if logger == nil {
		logger = slog.Default()
	}
	return &PromptResolver{store: store, logger: logger}
}

// ResolveActivePrompt returns the (system, user) prompt pair to use for the
// next extraction. A nil store always yields the defaults.
func (r *PromptResolver) ResolveActivePrompt(ctx context.Context) (string, string, error) {
	if r.store == nil {
		return DefaultSystemPrompt, DefaultUserPrompt, nil
	}
	cfg, err := r.store.GetActive(ctx)
	if err != nil {
		r.logger.Error("prompt.resolve.error", "error", err)
		return "", "", err
	}
	if cfg == nil {
		r.logger.Debug("prompt.resolve.default", "reason", "no active config")
		return DefaultSystemPrompt, DefaultUserPrompt, nil
	}
	r.logger.Debug("prompt.resolve.ok", "config", cfg.Name)
	return cfg.SystemPrompt, cfg.UserPrompt, nil
}

// RenderPrompt substitutes every occurrence of placeholder in the template.
func RenderPrompt(template, placeholder, value string) string {
	return strings.ReplaceAll(template, placeholder, value)
}
