// Package pricing implements historical price analysis: multi-source
// fetching, index alignment, series normalization, and statistics.
package pricing

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/procuretrack/quote-analyzer/internal/entity"
)

// DefaultLookbackDays bounds the historical window when callers pass zero.
const DefaultLookbackDays = 365

// PriceSource is one business unit's historical purchase store, polymorphic
// over a single capability: query observations by item number and date lower
// bound, most recent first.
type PriceSource interface {
	Name() string
	QueryObservations(ctx context.Context, itemNumber string, since time.Time) ([]entity.PriceObservation, error)
}

// FetchResult carries the concatenated observations plus the names of
// sources that failed mid-fetch. Partial unavailability is degraded, not
// fatal: callers see both the rows and which units are missing.
type FetchResult struct {
	Observations []entity.PriceObservation
	Failed       []string
}

// Fetcher queries each configured source independently and concatenates
// results in source-enumeration order (each source's rows stay ordered by
// purchase date descending; no global re-sort).
type Fetcher struct {
	sources []PriceSource
	logger  *slog.Logger
	now     func() time.Time
}

func NewFetcher(sources []PriceSource, logger *slog.Logger) *Fetcher {
	if logger == nil {
		logger = slog.Default()
	}
	return &Fetcher{sources: sources, logger: logger, now: time.Now}
}

// Fetch returns every observation for itemNumber with purchase_date within
// the lookback window. Zero rows everywhere (or zero configured sources) is
// an empty result, not an error; an error is returned only when every
// configured source failed.
func (f *Fetcher) Fetch(ctx context.Context, itemNumber string, lookbackDays int) (FetchResult, error) {
	if lookbackDays <= 0 {
		lookbackDays = DefaultLookbackDays
	}
	since := f.now().AddDate(0, 0, -lookbackDays)
	start := time.Now()

	var res FetchResult
	for _, src := range f.sources {
		rows, err := src.QueryObservations(ctx, itemNumber, since)
		if err != nil {
			f.logger.Error("pricing.fetch.source_error",
				"source", src.Name(), "item_number", itemNumber, "error", err)
			res.Failed = append(res.Failed, src.Name())
			continue
		}
		for i := range rows {
			rows[i].BusinessUnit = src.Name()
		}
		res.Observations = append(res.Observations, rows...)
	}

	f.logger.Info("pricing.fetch.ok",
		"item_number", itemNumber,
		"lookback_days", lookbackDays,
		"sources", len(f.sources),
		"failed_sources", len(res.Failed),
		"rows", len(res.Observations),
		"elapsed_ms", time.Since(start).Milliseconds(),
	)

	if len(f.sources) > 0 && len(res.Failed) == len(f.sources) {
		return res, fmt.Errorf("all %d price sources failed", len(f.sources))
	}
	return res, nil
}
