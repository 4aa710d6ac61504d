package repository

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/procuretrack/quote-analyzer/internal/common"
	"github.com/procuretrack/quote-analyzer/internal/entity"
	"github.com/procuretrack/quote-analyzer/internal/pricing"
)

// indexRepository implements pricing.IndexStore over the read-only
// index_observations reference series (first-of-month dates).
type indexRepository struct {
	pool   *pgxpool.Pool
	logger *slog.Logger
}

func NewIndexRepository(pool *pgxpool.Pool, logger *slog.Logger) pricing.IndexStore {
	return &indexRepository{pool: pool, logger: logger}
}

func (r *indexRepository) LatestOnOrBefore(ctx context.Context, date time.Time) (*entity.IndexObservation, error) {
	var o entity.IndexObservation
	err := r.pool.QueryRow(ctx,
		`SELECT observation_date, index_value
		 FROM index_observations
		 WHERE observation_date <= $1
		 ORDER BY observation_date DESC
		 LIMIT 1`, date).
		Scan(&o.ObservationDate, &o.IndexValue)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		r.logger.Error("index.latest.query_error", "error", err)
		return nil, common.WrapError(err, "query index observation")
	}
	return &o, nil
}

func (r *indexRepository) RangeAscending(ctx context.Context, start, end time.Time) ([]entity.IndexObservation, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT observation_date, index_value
		 FROM index_observations
		 WHERE observation_date >= $1 AND observation_date <= $2
		 ORDER BY observation_date`, start, end)
	if err != nil {
		r.logger.Error("index.range.query_error", "error", err)
		return nil, common.WrapError(err, "query index range")
	}
	defer rows.Close()

	var out []entity.IndexObservation
	for rows.Next() {
		var o entity.IndexObservation
		if err := rows.Scan(&o.ObservationDate, &o.IndexValue); err != nil {
			return nil, common.WrapError(err, "scan index observation")
		}
		out = append(out, o)
	}
	return out, rows.Err()
}
