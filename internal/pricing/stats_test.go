package pricing

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/procuretrack/quote-analyzer/internal/entity"
)

func obs(price float64, date time.Time) entity.PriceObservation {
	return entity.PriceObservation{BusinessUnit: "unit_a", Price: price, PurchaseDate: date}
}

func TestNormalizeSeries(t *testing.T) {
	tests := []struct {
		name string
		in   []float64
		want []float64
	}{
		{"empty", nil, nil},
		{"single", []float64{100}, []float64{0}},
		{"percent change from first", []float64{100, 110, 90}, []float64{0, 10, -10}},
		{"zero first value yields zero series", []float64{0, 5, 10}, []float64{0, 0, 0}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := NormalizeSeries(tt.in)
			require.Len(t, got, len(tt.want))
			for i := range tt.want {
				assert.InDelta(t, tt.want[i], got[i], 1e-9)
			}
		})
	}
}

func TestNormalizeSeriesRoundTrip(t *testing.T) {
	in := []float64{82.4, 91.07, 79.999, 103.5, 82.4}
	normalized := NormalizeSeries(in)
	require.Len(t, normalized, len(in))

	// v[i] is recoverable from the normalized value and the first element.
	v0 := in[0]
	for i, n := range normalized {
		assert.InDelta(t, in[i], v0*(1+n/100), 1e-9)
	}
}

func TestComputeStatisticsEmpty(t *testing.T) {
	stats := ComputeStatistics(nil, time.Now())
	assert.Nil(t, stats.MinPrice)
	assert.Nil(t, stats.MaxPrice)
	assert.Nil(t, stats.AvgPrice)
	assert.Nil(t, stats.PriceVolatility)
	assert.Nil(t, stats.RecentTrend)
}

func TestComputeStatisticsSingleObservation(t *testing.T) {
	now := time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)
	stats := ComputeStatistics([]entity.PriceObservation{obs(10, now.AddDate(0, 0, -5))}, now)

	assert.Equal(t, 10.0, *stats.MinPrice)
	assert.Equal(t, 10.0, *stats.MaxPrice)
	assert.Equal(t, 10.0, *stats.AvgPrice)
	assert.Nil(t, stats.PriceVolatility, "sample stddev needs at least two observations")
	assert.Nil(t, stats.RecentTrend, "no prior-window data")
}

func TestComputeStatisticsMinMaxMeanStddev(t *testing.T) {
	now := time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)
	d := now.AddDate(0, 0, -10)
	stats := ComputeStatistics([]entity.PriceObservation{
		obs(10, d), obs(20, d), obs(30, d),
	}, now)

	assert.Equal(t, 10.0, *stats.MinPrice)
	assert.Equal(t, 30.0, *stats.MaxPrice)
	assert.Equal(t, 20.0, *stats.AvgPrice)
	require.NotNil(t, stats.PriceVolatility)
	assert.InDelta(t, 10.0, *stats.PriceVolatility, 1e-9, "sample stddev of 10,20,30 is 10")
}

func TestComputeStatisticsTrend(t *testing.T) {
	now := time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)
	rows := []entity.PriceObservation{
		obs(110, now.AddDate(0, 0, -10)),  // recent window
		obs(110, now.AddDate(0, 0, -80)),  // recent window
		obs(100, now.AddDate(0, 0, -100)), // prior window
		obs(100, now.AddDate(0, 0, -170)), // prior window
		obs(50, now.AddDate(0, 0, -300)),  // outside both windows
	}
	stats := ComputeStatistics(rows, now)

	require.NotNil(t, stats.RecentTrend)
	assert.InDelta(t, 10.0, *stats.RecentTrend, 1e-9)
}

func TestComputeStatisticsTrendBoundaries(t *testing.T) {
	now := time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)
	// Exactly now-90d belongs to the recent window; exactly now-180d to prior.
	rows := []entity.PriceObservation{
		obs(120, now.AddDate(0, 0, -recentWindowDays)),
		obs(100, now.AddDate(0, 0, -priorWindowDays)),
	}
	stats := ComputeStatistics(rows, now)

	require.NotNil(t, stats.RecentTrend)
	assert.InDelta(t, 20.0, *stats.RecentTrend, 1e-9)
}

func TestComputeStatisticsTrendNilWithoutPriorWindow(t *testing.T) {
	now := time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)
	rows := []entity.PriceObservation{
		obs(110, now.AddDate(0, 0, -10)),
		obs(105, now.AddDate(0, 0, -30)),
	}
	stats := ComputeStatistics(rows, now)
	assert.Nil(t, stats.RecentTrend, "all observations recent, nothing to compare against")
}

func TestComputeStatisticsTrendNilWithoutRecentWindow(t *testing.T) {
	now := time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)
	rows := []entity.PriceObservation{
		obs(110, now.AddDate(0, 0, -100)),
		obs(105, now.AddDate(0, 0, -150)),
	}
	stats := ComputeStatistics(rows, now)
	assert.Nil(t, stats.RecentTrend)
}
