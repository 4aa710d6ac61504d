package llm

import (
	"context"

	"github.com/procuretrack/quote-analyzer/internal/entity"
)

// QuoteItem is one extracted line item. Numeric and identifying fields are
// optional; UnitOfMeasure is always non-empty, trimmed, and upper-cased
// after post-validation ("EA" when the model omits it).
type QuoteItem struct {
	ItemNumber    *string  `json:"item_number,omitempty"`
	Description   *string  `json:"description,omitempty"`
	Quantity      *float64 `json:"quantity,omitempty"`
	UnitPrice     *float64 `json:"unit_price,omitempty"`
	UnitOfMeasure string   `json:"unit_of_measure,omitempty"`
}

// QuoteData is the normalized shape we want from the LLM.
type QuoteData struct {
	SupplierName *string     `json:"supplier_name,omitempty"`
	QuoteNumber  *string     `json:"quote_number,omitempty"`
	QuoteDate    *string     `json:"quote_date,omitempty"` // YYYY-MM-DD
	Items        []QuoteItem `json:"items"`
}

// ChatClient is a single synchronous language-model call. Implementations
// fix temperature at 0; the caller imposes timeout/retry policy via ctx.
type ChatClient interface {
	Complete(ctx context.Context, systemPrompt, userPrompt string) (string, error)
}

// PromptStore looks up the active extraction template. (nil, nil) means no
// active config exists; finding more than one active record is an error the
// store must surface, never resolve by picking one.
type PromptStore interface {
	GetActive(ctx context.Context) (*entity.PromptConfig, error)
}
