package pricing

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/procuretrack/quote-analyzer/internal/entity"
)

func newTestAnalyzer(sources []PriceSource, store IndexStore, now time.Time) *Analyzer {
	fetcher := NewFetcher(sources, nil)
	fetcher.now = func() time.Time { return now }
	aligner := NewIndexAligner(store)
	aligner.now = func() time.Time { return now }
	a := NewAnalyzer(fetcher, aligner, nil)
	a.now = func() time.Time { return now }
	return a
}

func TestAnalyzeNoData(t *testing.T) {
	now := time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)
	a := newTestAnalyzer([]PriceSource{&fakeSource{name: "unit_a"}}, &fakeIndexStore{}, now)

	out, err := a.Analyze(context.Background(), "ABC-1", 365)
	require.NoError(t, err)
	assert.Equal(t, "ABC-1", out.ItemNumber)
	assert.False(t, out.HasData)
	assert.Nil(t, out.Statistics.MinPrice)
	assert.Nil(t, out.Comparison)
}

func TestAnalyzeBuildsComparisonSeries(t *testing.T) {
	now := time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)
	unitA := &fakeSource{name: "unit_a", rows: []entity.PriceObservation{
		{Price: 110, PurchaseDate: day(2024, 4, 10)},
		{Price: 100, PurchaseDate: day(2024, 2, 10)},
	}}
	unitB := &fakeSource{name: "unit_b", rows: []entity.PriceObservation{
		{Price: 50, PurchaseDate: day(2024, 3, 5)},
	}}
	store := &fakeIndexStore{observations: []entity.IndexObservation{
		{ObservationDate: day(2024, 2, 1), IndexValue: 200},
		{ObservationDate: day(2024, 3, 1), IndexValue: 202},
		{ObservationDate: day(2024, 4, 1), IndexValue: 210},
	}}
	a := newTestAnalyzer([]PriceSource{unitA, unitB}, store, now)

	out, err := a.Analyze(context.Background(), "ABC-1", 365)
	require.NoError(t, err)
	assert.True(t, out.HasData)
	require.NotNil(t, out.Comparison)

	// Unit series are ascending by date and normalized to % change from first.
	seriesA := out.Comparison.Units["unit_a"]
	require.Len(t, seriesA, 2)
	assert.Equal(t, day(2024, 2, 10), seriesA[0].Date)
	assert.InDelta(t, 0.0, seriesA[0].Value, 1e-9)
	assert.InDelta(t, 10.0, seriesA[1].Value, 1e-9)

	seriesB := out.Comparison.Units["unit_b"]
	require.Len(t, seriesB, 1)
	assert.InDelta(t, 0.0, seriesB[0].Value, 1e-9)

	// Index window is bounded by the observed span (Feb 10 .. Apr 10, aligned
	// to Feb 1 .. Apr 1) and normalized on the same scale.
	require.Len(t, out.Comparison.Index, 3)
	assert.InDelta(t, 0.0, out.Comparison.Index[0].Value, 1e-9)
	assert.InDelta(t, 5.0, out.Comparison.Index[2].Value, 1e-9)

	require.NotNil(t, out.Statistics.MinPrice)
	assert.Equal(t, 50.0, *out.Statistics.MinPrice)
	assert.Equal(t, 110.0, *out.Statistics.MaxPrice)
}

func TestAnalyzeReportsFailedSources(t *testing.T) {
	now := time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)
	ok := &fakeSource{name: "unit_a", rows: []entity.PriceObservation{
		{Price: 100, PurchaseDate: day(2024, 5, 1)},
	}}
	broken := &fakeSource{name: "unit_b", err: assert.AnError}
	a := newTestAnalyzer([]PriceSource{ok, broken}, &fakeIndexStore{}, now)

	out, err := a.Analyze(context.Background(), "ABC-1", 365)
	require.NoError(t, err)
	assert.True(t, out.HasData)
	assert.Equal(t, []string{"unit_b"}, out.FailedSources)
}

func TestAnalyzeEmptyIndexKeepsUnitSeries(t *testing.T) {
	now := time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)
	src := &fakeSource{name: "unit_a", rows: []entity.PriceObservation{
		{Price: 100, PurchaseDate: day(2024, 5, 1)},
		{Price: 120, PurchaseDate: day(2024, 5, 20)},
	}}
	a := newTestAnalyzer([]PriceSource{src}, nil, now)

	out, err := a.Analyze(context.Background(), "ABC-1", 365)
	require.NoError(t, err)
	require.NotNil(t, out.Comparison)
	assert.Len(t, out.Comparison.Units["unit_a"], 2)
	assert.Empty(t, out.Comparison.Index)
}
