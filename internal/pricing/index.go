package pricing

import (
	"context"
	"time"

	"github.com/procuretrack/quote-analyzer/internal/entity"
)

// IndexStore is the monthly economic index series. Observation dates are
// first-of-month; implementations must honor the requested ordering.
type IndexStore interface {
	// LatestOnOrBefore returns the most recent observation with
	// observation_date <= date, or nil when none exists.
	LatestOnOrBefore(ctx context.Context, date time.Time) (*entity.IndexObservation, error)
	// RangeAscending returns observations with start <= observation_date <= end,
	// ordered by date ascending.
	RangeAscending(ctx context.Context, start, end time.Time) ([]entity.IndexObservation, error)
}

// FirstOfMonth aligns any calendar date to the first day of its month, the
// granularity the index series is keyed on.
func FirstOfMonth(d time.Time) time.Time {
	return time.Date(d.Year(), d.Month(), 1, 0, 0, 0, 0, d.Location())
}

// IndexAligner maps arbitrary calendar dates onto the month-aligned index
// series. Single-date lookups and range lookups are split because point
// consumers and comparison plotting need different ordering and cardinality.
// A nil store behaves as an empty index.
type IndexAligner struct {
	store IndexStore
	now   func() time.Time
}

func NewIndexAligner(store IndexStore) *IndexAligner {
	return &IndexAligner{store: store, now: time.Now}
}

// ValueAt resolves target to the first of its month and returns the most
// recent observation on or before that date. Nil when the index has no
// coverage at or before the aligned month.
func (a *IndexAligner) ValueAt(ctx context.Context, target time.Time) (*entity.IndexObservation, error) {
	if a.store == nil {
		return nil, nil
	}
	return a.store.LatestOnOrBefore(ctx, FirstOfMonth(target))
}

// Range returns observations in [start_month, end_month] ascending. A zero
// end defaults to today. Empty when no observations fall inside the aligned
// window.
func (a *IndexAligner) Range(ctx context.Context, start, end time.Time) ([]entity.IndexObservation, error) {
	if a.store == nil {
		return nil, nil
	}
	if end.IsZero() {
		end = a.now()
	}
	return a.store.RangeAscending(ctx, FirstOfMonth(start), FirstOfMonth(end))
}
