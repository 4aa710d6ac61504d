package extract

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/procuretrack/quote-analyzer/internal/llm"
)

type fakeChat struct {
	reply      string
	err        error
	lastSystem string
	lastUser   string
}

func (f *fakeChat) Complete(ctx context.Context, systemPrompt, userPrompt string) (string, error) {
	f.lastSystem = systemPrompt
	f.lastUser = userPrompt
	return f.reply, f.err
}

func newTestExtractor(chat llm.ChatClient) *Extractor {
	e := NewExtractor(chat, llm.NewPromptResolver(nil, nil), nil)
	e.now = func() time.Time { return time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC) }
	return e
}

func TestExtractValidResponse(t *testing.T) {
	chat := &fakeChat{reply: `{
		"supplier_name": "Acme Industrial",
		"quote_number": "Q-77",
		"quote_date": "2024-05-20",
		"items": [{"item_number": "ABC-1", "description": "Bolt", "quantity": -10, "unit_price": 0.35, "unit_of_measure": null}]
	}`}

	q := newTestExtractor(chat).Extract(context.Background(), "QUOTE Q-77 from Acme Industrial")

	require.NotNil(t, q.SupplierName)
	assert.Equal(t, "Acme Industrial", *q.SupplierName)
	require.Len(t, q.Items, 1)
	assert.Equal(t, 10.0, *q.Items[0].Quantity, "sign artifact should be absolute-valued")
	assert.Equal(t, "EA", q.Items[0].UnitOfMeasure, "missing unit of measure defaults to EA")
}

func TestExtractNonJSONResponseFallsBack(t *testing.T) {
	chat := &fakeChat{reply: "Sure! Here is the quote data you asked for..."}

	q := newTestExtractor(chat).Extract(context.Background(), "some quote text")

	assert.Nil(t, q.SupplierName)
	assert.Nil(t, q.QuoteNumber)
	require.NotNil(t, q.QuoteDate)
	assert.Equal(t, "2024-06-01", *q.QuoteDate)
	assert.NotNil(t, q.Items)
	assert.Empty(t, q.Items)
}

func TestExtractModelErrorFallsBack(t *testing.T) {
	chat := &fakeChat{err: errors.New("429 too many requests")}

	q := newTestExtractor(chat).Extract(context.Background(), "some quote text")

	require.NotNil(t, q.QuoteDate)
	assert.Equal(t, "2024-06-01", *q.QuoteDate)
	assert.Empty(t, q.Items)
}

func TestExtractRendersPlaceholders(t *testing.T) {
	chat := &fakeChat{reply: `{}`}

	newTestExtractor(chat).Extract(context.Background(), "Qty   5 €  bolts")

	assert.NotContains(t, chat.lastSystem, llm.FormatInstructionsPlaceholder)
	assert.NotContains(t, chat.lastUser, llm.TextContentPlaceholder)
	assert.Contains(t, chat.lastSystem, "supplier_name", "format instructions should be substituted")
	assert.Contains(t, chat.lastUser, "Qty 5 bolts", "document text should be normalized before substitution")
	assert.False(t, strings.Contains(chat.lastUser, "€"))
}
