package repository

import (
	"context"
	"log/slog"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/procuretrack/quote-analyzer/internal/common"
	"github.com/procuretrack/quote-analyzer/internal/entity"
	"github.com/procuretrack/quote-analyzer/internal/pricing"
)

// priceSource implements pricing.PriceSource over one business unit's
// historical purchase database.
type priceSource struct {
	name   string
	pool   *pgxpool.Pool
	logger *slog.Logger
}

func NewPriceSource(name string, pool *pgxpool.Pool, logger *slog.Logger) pricing.PriceSource {
	return &priceSource{name: name, pool: pool, logger: logger}
}

func (s *priceSource) Name() string { return s.name }

// QueryObservations returns the unit's purchases of itemNumber on or after
// since, most recent first. The fetcher tags rows with the unit name, but we
// set it here too so the source is usable standalone.
func (s *priceSource) QueryObservations(ctx context.Context, itemNumber string, since time.Time) ([]entity.PriceObservation, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT price, purchase_date
		 FROM historical_purchases
		 WHERE item_number = $1 AND purchase_date >= $2
		 ORDER BY purchase_date DESC`, itemNumber, since)
	if err != nil {
		return nil, common.WrapError(err, "query historical purchases")
	}
	defer rows.Close()

	var out []entity.PriceObservation
	for rows.Next() {
		o := entity.PriceObservation{BusinessUnit: s.name}
		if err := rows.Scan(&o.Price, &o.PurchaseDate); err != nil {
			return nil, common.WrapError(err, "scan historical purchase")
		}
		out = append(out, o)
	}
	return out, rows.Err()
}

// OpenPriceSources connects each configured business unit and returns the
// sources in configuration order. A unit that fails to connect is skipped
// with an error log; the remaining units still serve.
func OpenPriceSources(ctx context.Context, configs []common.PriceSourceConfig, logger *slog.Logger) ([]pricing.PriceSource, []*pgxpool.Pool) {
	var sources []pricing.PriceSource
	var pools []*pgxpool.Pool
	for _, sc := range configs {
		pool, err := pgxpool.New(ctx, sc.DSN)
		if err != nil {
			logger.Error("pricesource.open_error", "source", sc.Name, "error", err)
			continue
		}
		sources = append(sources, NewPriceSource(sc.Name, pool, logger))
		pools = append(pools, pool)
		logger.Info("pricesource.open_ok", "source", sc.Name)
	}
	return sources, pools
}
