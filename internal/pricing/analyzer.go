package pricing

import (
	"context"
	"log/slog"
	"sort"
	"time"

	"github.com/procuretrack/quote-analyzer/internal/entity"
)

// Point is one normalized series value at a calendar date.
type Point struct {
	Date  time.Time `json:"date"`
	Value float64   `json:"value"`
}

// ComparisonSeries places every business unit's price series and the
// economic index on a common "% change since period start" scale for
// downstream rendering. Units maps business-unit name to its normalized
// points, ordered by purchase date ascending.
type ComparisonSeries struct {
	Units map[string][]Point `json:"units"`
	Index []Point            `json:"index"`
}

// Analysis is the full result for one item. HasData is false iff the
// fetched price series was empty, in which case Statistics carries the
// empty-input defaults and Comparison is nil.
type Analysis struct {
	ItemNumber    string                 `json:"item_number"`
	Statistics    entity.PriceStatistics `json:"statistics"`
	HasData       bool                   `json:"has_data"`
	FailedSources []string               `json:"failed_sources,omitempty"`
	Comparison    *ComparisonSeries      `json:"comparison,omitempty"`
}

// Analyzer ties the fetcher, the index aligner, and the statistics engine
// into one synchronous per-item analysis.
type Analyzer struct {
	fetcher *Fetcher
	index   *IndexAligner
	logger  *slog.Logger
	now     func() time.Time
}

func NewAnalyzer(fetcher *Fetcher, index *IndexAligner, logger *slog.Logger) *Analyzer {
	if logger == nil {
		logger = slog.Default()
	}
	return &Analyzer{fetcher: fetcher, index: index, logger: logger, now: time.Now}
}

// Analyze fetches the item's price history, computes statistics, and builds
// the normalized comparison series over the observed date span. Statistics
// are recomputed on every call, never cached.
func (a *Analyzer) Analyze(ctx context.Context, itemNumber string, lookbackDays int) (Analysis, error) {
	res, err := a.fetcher.Fetch(ctx, itemNumber, lookbackDays)
	if err != nil {
		return Analysis{ItemNumber: itemNumber, FailedSources: res.Failed}, err
	}

	out := Analysis{
		ItemNumber:    itemNumber,
		Statistics:    ComputeStatistics(res.Observations, a.now()),
		HasData:       len(res.Observations) > 0,
		FailedSources: res.Failed,
	}
	if !out.HasData {
		a.logger.Info("pricing.analyze.no_data", "item_number", itemNumber)
		return out, nil
	}

	comparison, err := a.buildComparison(ctx, res.Observations)
	if err != nil {
		// An unavailable index degrades the comparison to price-only series;
		// the statistics stand on their own either way.
		a.logger.Error("pricing.analyze.index_error", "item_number", itemNumber, "error", err)
	}
	out.Comparison = comparison

	a.logger.Info("pricing.analyze.ok",
		"item_number", itemNumber,
		"rows", len(res.Observations),
		"units", unitCount(out.Comparison),
		"failed_sources", len(res.Failed),
	)
	return out, nil
}

func (a *Analyzer) buildComparison(ctx context.Context, observations []entity.PriceObservation) (*ComparisonSeries, error) {
	// Observed span across every unit bounds the index window.
	spanStart, spanEnd := observations[0].PurchaseDate, observations[0].PurchaseDate
	byUnit := make(map[string][]entity.PriceObservation)
	var order []string
	for _, o := range observations {
		if o.PurchaseDate.Before(spanStart) {
			spanStart = o.PurchaseDate
		}
		if o.PurchaseDate.After(spanEnd) {
			spanEnd = o.PurchaseDate
		}
		if _, seen := byUnit[o.BusinessUnit]; !seen {
			order = append(order, o.BusinessUnit)
		}
		byUnit[o.BusinessUnit] = append(byUnit[o.BusinessUnit], o)
	}

	cs := &ComparisonSeries{Units: make(map[string][]Point, len(order))}
	for _, unit := range order {
		rows := byUnit[unit]
		sort.SliceStable(rows, func(i, j int) bool {
			return rows[i].PurchaseDate.Before(rows[j].PurchaseDate)
		})
		values := make([]float64, len(rows))
		for i, r := range rows {
			values[i] = r.Price
		}
		normalized := NormalizeSeries(values)
		points := make([]Point, len(rows))
		for i, r := range rows {
			points[i] = Point{Date: r.PurchaseDate, Value: normalized[i]}
		}
		cs.Units[unit] = points
	}

	indexRows, err := a.index.Range(ctx, spanStart, spanEnd)
	if err != nil {
		return cs, err
	}
	if len(indexRows) > 0 {
		values := make([]float64, len(indexRows))
		for i, r := range indexRows {
			values[i] = r.IndexValue
		}
		normalized := NormalizeSeries(values)
		cs.Index = make([]Point, len(indexRows))
		for i, r := range indexRows {
			cs.Index[i] = Point{Date: r.ObservationDate, Value: normalized[i]}
		}
	}
	return cs, nil
}

func unitCount(cs *ComparisonSeries) int {
	if cs == nil {
		return 0
	}
	return len(cs.Units)
}
