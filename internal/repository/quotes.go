package repository

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/procuretrack/quote-analyzer/internal/common"
	"github.com/procuretrack/quote-analyzer/internal/entity"
	"github.com/procuretrack/quote-analyzer/internal/llm"
)

// UnknownSupplierName is used when extraction produced no supplier name;
// the quote is still stored rather than rejected.
const UnknownSupplierName = "UNKNOWN SUPPLIER"

// SaveExtractionRequest wraps parameters for persisting one extraction result.
type SaveExtractionRequest struct {
	Fields     llm.QuoteData
	SourcePath string
}

type QuoteRepository interface {
	// SaveExtraction upserts the supplier and inserts the quote with its
	// items in a single transaction.
	SaveExtraction(ctx context.Context, req *SaveExtractionRequest) (*entity.Quote, error)
	GetQuote(ctx context.Context, id uuid.UUID) (*entity.Quote, []*entity.QuoteItem, error)
	ListQuotes(ctx context.Context, fromDate, toDate *time.Time) ([]*entity.Quote, error)
}

type quoteRepository struct {
	pool   *pgxpool.Pool
	logger *slog.Logger
}

func NewQuoteRepository(pool *pgxpool.Pool, logger *slog.Logger) QuoteRepository {
	return &quoteRepository{pool: pool, logger: logger}
}

func (r *quoteRepository) SaveExtraction(ctx context.Context, req *SaveExtractionRequest) (*entity.Quote, error) {
	f := req.Fields

	supplierName := UnknownSupplierName
	if f.SupplierName != nil && *f.SupplierName != "" {
		supplierName = *f.SupplierName
	}
	quoteNumber := ""
	if f.QuoteNumber != nil {
		quoteNumber = *f.QuoteNumber
	}
	quoteDate := time.Now().UTC()
	if f.QuoteDate != nil {
		if d, err := time.ParseInLocation("2006-01-02", *f.QuoteDate, time.UTC); err == nil {
			quoteDate = d
		}
	}

	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return nil, common.WrapError(err, "begin save extraction")
	}
	defer func() { _ = tx.Rollback(ctx) }()

	var supplierID uuid.UUID
	err = tx.QueryRow(ctx,
		`INSERT INTO suppliers (name) VALUES ($1)
		 ON CONFLICT (name) DO UPDATE SET updated_at = now()
		 RETURNING id`, supplierName).Scan(&supplierID)
	if err != nil {
		return nil, common.WrapError(err, "upsert supplier")
	}

	q := &entity.Quote{SupplierName: supplierName}
	err = tx.QueryRow(ctx,
		`INSERT INTO quotes (supplier_id, quote_number, quote_date, source_path)
		 VALUES ($1, $2, $3, $4)
		 RETURNING id, supplier_id, quote_number, quote_date, source_path, created_at, updated_at`,
		supplierID, quoteNumber, quoteDate, req.SourcePath).
		Scan(&q.ID, &q.SupplierID, &q.QuoteNumber, &q.QuoteDate, &q.SourcePath, &q.CreatedAt, &q.UpdatedAt)
	if err != nil {
		return nil, common.WrapError(err, "insert quote")
	}

	for _, it := range f.Items {
		_, err = tx.Exec(ctx,
			`INSERT INTO quote_items (quote_id, item_number, description, quantity, unit_price, unit_of_measure)
			 VALUES ($1, $2, $3, $4, $5, $6)`,
			q.ID, it.ItemNumber, it.Description, it.Quantity, it.UnitPrice, it.UnitOfMeasure)
		if err != nil {
			return nil, common.WrapError(err, "insert quote item")
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, common.WrapError(err, "commit save extraction")
	}

	r.logger.Info("quotes.save.ok",
		"quote_id", q.ID,
		"supplier", supplierName,
		"quote_number", quoteNumber,
		"items", len(f.Items),
	)
	return q, nil
}

func (r *quoteRepository) GetQuote(ctx context.Context, id uuid.UUID) (*entity.Quote, []*entity.QuoteItem, error) {
	var q entity.Quote
	err := r.pool.QueryRow(ctx,
		`SELECT q.id, q.supplier_id, s.name, q.quote_number, q.quote_date, q.source_path, q.created_at, q.updated_at
		 FROM quotes q JOIN suppliers s ON s.id = q.supplier_id
		 WHERE q.id = $1`, id).
		Scan(&q.ID, &q.SupplierID, &q.SupplierName, &q.QuoteNumber, &q.QuoteDate, &q.SourcePath, &q.CreatedAt, &q.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil, common.ErrNotFound
	}
	if err != nil {
		return nil, nil, common.WrapError(err, "get quote")
	}

	rows, err := r.pool.Query(ctx,
		`SELECT id, quote_id, item_number, description, quantity, unit_price, unit_of_measure, created_at
		 FROM quote_items WHERE quote_id = $1 ORDER BY created_at, id`, id)
	if err != nil {
		return nil, nil, common.WrapError(err, "query quote items")
	}
	defer rows.Close()

	var items []*entity.QuoteItem
	for rows.Next() {
		var it entity.QuoteItem
		if err := rows.Scan(&it.ID, &it.QuoteID, &it.ItemNumber, &it.Description, &it.Quantity, &it.UnitPrice, &it.UnitOfMeasure, &it.CreatedAt); err != nil {
			return nil, nil, common.WrapError(err, "scan quote item")
		}
		items = append(items, &it)
	}
	return &q, items, rows.Err()
}

func (r *quoteRepository) ListQuotes(ctx context.Context, fromDate, toDate *time.Time) ([]*entity.Quote, error) {
	query := `SELECT q.id, q.supplier_id, s.name, q.quote_number, q.quote_date, q.source_path, q.created_at, q.updated_at
		 FROM quotes q JOIN suppliers s ON s.id = q.supplier_id`
	var args []any
	if fromDate != nil {
		args = append(args, *fromDate)
		query += ` WHERE q.quote_date >= $1`
	}
	if toDate != nil {
		args = append(args, *toDate)
		if len(args) == 1 {
			query += ` WHERE q.quote_date <= $1`
		} else {
			query += ` AND q.quote_date <= $2`
		}
	}
	query += ` ORDER BY q.quote_date DESC, q.created_at DESC`

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		r.logger.Error("quotes.list.query_error", "error", err)
		return nil, common.WrapError(err, "list quotes")
	}
	defer rows.Close()

	var out []*entity.Quote
	for rows.Next() {
		var q entity.Quote
		if err := rows.Scan(&q.ID, &q.SupplierID, &q.SupplierName, &q.QuoteNumber, &q.QuoteDate, &q.SourcePath, &q.CreatedAt, &q.UpdatedAt); err != nil {
			return nil, common.WrapError(err, "scan quote")
		}
		out = append(out, &q)
	}
	return out, rows.Err()
}
