package pricing

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/procuretrack/quote-analyzer/internal/entity"
)

type fakeIndexStore struct {
	observations []entity.IndexObservation // kept sorted ascending by date

	lastLatestArg time.Time
	lastRange     [2]time.Time
}

func (f *fakeIndexStore) LatestOnOrBefore(ctx context.Context, date time.Time) (*entity.IndexObservation, error) {
	f.lastLatestArg = date
	for i := len(f.observations) - 1; i >= 0; i-- {
		if !f.observations[i].ObservationDate.After(date) {
			o := f.observations[i]
			return &o, nil
		}
	}
	return nil, nil
}

func (f *fakeIndexStore) RangeAscending(ctx context.Context, start, end time.Time) ([]entity.IndexObservation, error) {
	f.lastRange = [2]time.Time{start, end}
	var out []entity.IndexObservation
	for _, o := range f.observations {
		if !o.ObservationDate.Before(start) && !o.ObservationDate.After(end) {
			out = append(out, o)
		}
	}
	return out, nil
}

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestFirstOfMonth(t *testing.T) {
	assert.Equal(t, day(2024, 3, 1), FirstOfMonth(day(2024, 3, 17)))
	assert.Equal(t, day(2024, 3, 1), FirstOfMonth(day(2024, 3, 1)))
	assert.Equal(t, day(2024, 12, 1), FirstOfMonth(day(2024, 12, 31)))
}

func TestValueAtAlignsToFirstOfMonth(t *testing.T) {
	store := &fakeIndexStore{observations: []entity.IndexObservation{
		{ObservationDate: day(2024, 2, 1), IndexValue: 210.5},
		{ObservationDate: day(2024, 3, 1), IndexValue: 212.0},
	}}
	a := NewIndexAligner(store)

	got, err := a.ValueAt(context.Background(), day(2024, 3, 17))
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, 212.0, got.IndexValue)
	assert.Equal(t, day(2024, 3, 1), store.lastLatestArg)
}

func TestValueAtFallsBackToEarlierMonth(t *testing.T) {
	store := &fakeIndexStore{observations: []entity.IndexObservation{
		{ObservationDate: day(2024, 2, 1), IndexValue: 210.5},
	}}
	a := NewIndexAligner(store)

	got, err := a.ValueAt(context.Background(), day(2024, 5, 9))
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, day(2024, 2, 1), got.ObservationDate)
}

func TestValueAtNoCoverage(t *testing.T) {
	store := &fakeIndexStore{observations: []entity.IndexObservation{
		{ObservationDate: day(2024, 6, 1), IndexValue: 220.0},
	}}
	a := NewIndexAligner(store)

	got, err := a.ValueAt(context.Background(), day(2024, 1, 15))
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestRangeAlignsBothEnds(t *testing.T) {
	store := &fakeIndexStore{observations: []entity.IndexObservation{
		{ObservationDate: day(2024, 1, 1), IndexValue: 200},
		{ObservationDate: day(2024, 2, 1), IndexValue: 205},
		{ObservationDate: day(2024, 3, 1), IndexValue: 210},
	}}
	a := NewIndexAligner(store)

	rows, err := a.Range(context.Background(), day(2024, 1, 20), day(2024, 3, 25))
	require.NoError(t, err)
	assert.Len(t, rows, 3)
	assert.Equal(t, day(2024, 1, 1), store.lastRange[0])
	assert.Equal(t, day(2024, 3, 1), store.lastRange[1])
}

func TestRangeZeroEndDefaultsToNow(t *testing.T) {
	store := &fakeIndexStore{observations: []entity.IndexObservation{
		{ObservationDate: day(2024, 4, 1), IndexValue: 215},
	}}
	a := NewIndexAligner(store)
	a.now = func() time.Time { return day(2024, 4, 18) }

	rows, err := a.Range(context.Background(), day(2024, 4, 2), time.Time{})
	require.NoError(t, err)
	assert.Len(t, rows, 1)
	assert.Equal(t, day(2024, 4, 1), store.lastRange[1])
}

func TestNilStoreBehavesAsEmptyIndex(t *testing.T) {
	a := NewIndexAligner(nil)

	got, err := a.ValueAt(context.Background(), day(2024, 3, 17))
	require.NoError(t, err)
	assert.Nil(t, got)

	rows, err := a.Range(context.Background(), day(2024, 1, 1), day(2024, 3, 1))
	require.NoError(t, err)
	assert.Empty(t, rows)
}
