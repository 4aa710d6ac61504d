package report

import (
	"context"
	"testing"
	"time"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/procuretrack/quote-analyzer/internal/entity"
	"github.com/procuretrack/quote-analyzer/internal/llm"
	"github.com/procuretrack/quote-analyzer/internal/pricing"
)

type stubSource struct {
	name string
	rows []entity.PriceObservation
}

func (s *stubSource) Name() string { return s.name }

func (s *stubSource) QueryObservations(ctx context.Context, itemNumber string, since time.Time) ([]entity.PriceObservation, error) {
	return s.rows, nil
}

func newTestService(sources ...pricing.PriceSource) *Service {
	analyzer := pricing.NewAnalyzer(
		pricing.NewFetcher(sources, nil),
		pricing.NewIndexAligner(nil),
		nil,
	)
	return NewService(analyzer, 365, nil)
}

func strPtr(s string) *string     { return &s }
func floatPtr(f float64) *float64 { return &f }

func sampleQuote() llm.QuoteData {
	return llm.QuoteData{
		SupplierName: strPtr("Acme Industrial"),
		QuoteNumber:  strPtr("Q-2024-001"),
		QuoteDate:    strPtr("2024-05-20"),
		Items: []llm.QuoteItem{
			{
				ItemNumber:    strPtr("ABC-1"),
				Description:   strPtr("Hex bolt M8"),
				Quantity:      floatPtr(100),
				UnitPrice:     floatPtr(0.35),
				UnitOfMeasure: "EA",
			},
			{Description: strPtr("freight"), UnitOfMeasure: "EA"},
		},
	}
}

func TestGeneratePDFProducesDocument(t *testing.T) {
	src := &stubSource{name: "unit_a", rows: []entity.PriceObservation{
		{Price: 0.30, PurchaseDate: time.Now().AddDate(0, -3, 0)},
		{Price: 0.40, PurchaseDate: time.Now().AddDate(0, -1, 0)},
	}}
	s := newTestService(src)

	out, err := s.GeneratePDF(context.Background(), sampleQuote())
	require.NoError(t, err)
	require.NotEmpty(t, out)
	assert.Equal(t, "%PDF", string(out[:4]))
}

func TestGenerateXLSXProducesWorkbook(t *testing.T) {
	s := newTestService()

	out, err := s.GenerateXLSX(context.Background(), sampleQuote())
	require.NoError(t, err)
	require.NotEmpty(t, out)
	// XLSX files are zip archives.
	assert.Equal(t, "PK", string(out[:2]))
}

func TestAnalyzeItemsSkipsBlankAndDuplicateItemNumbers(t *testing.T) {
	src := &stubSource{name: "unit_a", rows: []entity.PriceObservation{
		{Price: 1.0, PurchaseDate: time.Now().AddDate(0, -2, 0)},
	}}
	s := newTestService(src)

	data := llm.QuoteData{Items: []llm.QuoteItem{
		{ItemNumber: strPtr("ABC-1")},
		{ItemNumber: strPtr("ABC-1")},
		{ItemNumber: strPtr("")},
		{},
	}}
	out := s.analyzeItems(context.Background(), data)
	assert.Len(t, out, 1)
	assert.Contains(t, out, "ABC-1")
}

func TestSeriesChange(t *testing.T) {
	_, ok := seriesChange(nil)
	assert.False(t, ok)
	_, ok = seriesChange([]pricing.Point{{Value: 0}})
	assert.False(t, ok)

	change, ok := seriesChange([]pricing.Point{{Value: 0}, {Value: 4.5}, {Value: 12.5}})
	require.True(t, ok)
	assert.InDelta(t, 12.5, change, 1e-9)
}

func TestTruncateIsRuneSafe(t *testing.T) {
	assert.Equal(t, "short", truncate("short", 10))

	out := truncate("Schräubchen, verzinkt, M8×40", 14)
	assert.True(t, utf8.ValidString(out), "cut must not split a multi-byte rune")
	assert.Equal(t, 14, utf8.RuneCountInString(out))
	assert.Equal(t, "Schräubchen, …", out)

	// Cutting right at a multi-byte rune boundary.
	out = truncate("aä"+"bbbb", 2)
	assert.True(t, utf8.ValidString(out))
	assert.Equal(t, "a…", out)
}

func TestFormatHelpers(t *testing.T) {
	assert.Equal(t, "N/A", formatCurrency(nil))
	assert.Equal(t, "$2.50", formatCurrency(floatPtr(2.5)))
	assert.Equal(t, "N/A", formatPercent(nil))
	assert.Equal(t, "+10.0%", formatPercent(floatPtr(10)))
	assert.Equal(t, "-3.2%", formatPercent(floatPtr(-3.25)))
	assert.Equal(t, "—", strOrDash(nil))
	assert.Equal(t, "x", strOrDash(strPtr("x")))
}
