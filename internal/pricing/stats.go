package pricing

import (
	"math"
	"time"

	"github.com/procuretrack/quote-analyzer/internal/entity"
)

// Trend window sizes. Lower bounds are inclusive: now-90d <= recent,
// now-180d <= prior < now-90d.
const (
	recentWindowDays = 90
	priorWindowDays  = 180
)

// NormalizeSeries rescales values to percentage change from the first
// element: (v[i]-v[0])/v[0]*100. An empty series stays empty; a zero first
// value yields a zero series of the same length instead of dividing by zero.
func NormalizeSeries(values []float64) []float64 {
	if len(values) == 0 {
		return nil
	}
	out := make([]float64, len(values))
	first := values[0]
	if first == 0 {
		return out
	}
	for i, v := range values {
		out[i] = (v - first) / first * 100
	}
	return out
}

// ComputeStatistics derives min/max/mean, sample standard deviation, and the
// recent trend from a price series. Empty input yields all-nil fields.
// Volatility needs at least two observations; the trend needs non-empty
// recent (last 90 days) and prior (90-180 days) partitions relative to now.
func ComputeStatistics(observations []entity.PriceObservation, now time.Time) entity.PriceStatistics {
	if len(observations) == 0 {
		return entity.PriceStatistics{}
	}

	minP := observations[0].Price
	maxP := observations[0].Price
	sum := 0.0
	for _, o := range observations {
		if o.Price < minP {
			minP = o.Price
		}
		if o.Price > maxP {
			maxP = o.Price
		}
		sum += o.Price
	}
	mean := sum / float64(len(observations))

	stats := entity.PriceStatistics{
		MinPrice: &minP,
		MaxPrice: &maxP,
		AvgPrice: &mean,
	}

	if n := len(observations); n > 1 {
		ss := 0.0
		for _, o := range observations {
			d := o.Price - mean
			ss += d * d
		}
		sd := math.Sqrt(ss / float64(n-1))
		stats.PriceVolatility = &sd
	}

	recentCutoff := now.AddDate(0, 0, -recentWindowDays)
	priorCutoff := now.AddDate(0, 0, -priorWindowDays)

	var recent, prior []float64
	for _, o := range observations {
		switch {
		case !o.PurchaseDate.Before(recentCutoff):
			recent = append(recent, o.Price)
		case !o.PurchaseDate.Before(priorCutoff):
			prior = append(prior, o.Price)
		}
	}
	if len(recent) > 0 && len(prior) > 0 {
		trend := (meanOf(recent) - meanOf(prior)) / meanOf(prior) * 100
		stats.RecentTrend = &trend
	}

	return stats
}

func meanOf(values []float64) float64 {
	sum := 0.0
	for _, v := range values {
		sum += v
	}
	return sum / float64(len(values))
}
