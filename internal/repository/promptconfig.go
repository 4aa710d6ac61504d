package repository

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/procuretrack/quote-analyzer/internal/common"
	"github.com/procuretrack/quote-analyzer/internal/entity"
)

// ErrMultipleActive reports a violated store invariant: more than one prompt
// config is flagged active. This is fatal for callers; the store never
// resolves it by picking one.
var ErrMultipleActive = errors.New("prompt config invariant violated: multiple active configs")

// PromptConfigRepository manages extraction templates. Activation is an
// explicit transactional operation: deactivate all others and activate the
// target within one atomic unit, so concurrent activations serialize on the
// database rather than racing in process.
type PromptConfigRepository interface {
	GetActive(ctx context.Context) (*entity.PromptConfig, error)
	GetByID(ctx context.Context, id uuid.UUID) (*entity.PromptConfig, error)
	List(ctx context.Context) ([]*entity.PromptConfig, error)
	Create(ctx context.Context, name, systemPrompt, userPrompt string, activate bool) (*entity.PromptConfig, error)
	Activate(ctx context.Context, id uuid.UUID) (*entity.PromptConfig, error)
}

type promptConfigRepository struct {
	pool   *pgxpool.Pool
	logger *slog.Logger
}

func NewPromptConfigRepository(pool *pgxpool.Pool, logger *slog.Logger) PromptConfigRepository {
	return &promptConfigRepository{pool: pool, logger: logger}
}

const promptConfigColumns = `id, name, system_prompt, user_prompt, is_active, created_at, updated_at`

// isUniqueViolation reports whether err is a Postgres unique-constraint
// violation (SQLSTATE 23505).
func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}

func scanPromptConfig(row pgx.Row) (*entity.PromptConfig, error) {
	var c entity.PromptConfig
	err := row.Scan(&c.ID, &c.Name, &c.SystemPrompt, &c.UserPrompt, &c.IsActive, &c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &c, nil
}

// GetActive returns the single active config, nil when none exists, and
// ErrMultipleActive when the store invariant is broken. LIMIT 2 is enough to
// detect the violation without scanning the table.
func (r *promptConfigRepository) GetActive(ctx context.Context) (*entity.PromptConfig, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT `+promptConfigColumns+` FROM prompt_configs WHERE is_active LIMIT 2`)
	if err != nil {
		r.logger.Error("promptconfig.get_active.query_error", "error", err)
		return nil, common.WrapError(err, "query active prompt config")
	}
	defer rows.Close()

	var found []*entity.PromptConfig
	for rows.Next() {
		c, err := scanPromptConfig(rows)
		if err != nil {
			return nil, common.WrapError(err, "scan prompt config")
		}
		found = append(found, c)
	}
	if err := rows.Err(); err != nil {
		return nil, common.WrapError(err, "iterate prompt configs")
	}

	switch len(found) {
	case 0:
		return nil, nil
	case 1:
		return found[0], nil
	default:
		r.logger.Error("promptconfig.get_active.invariant_violation", "count", len(found))
		return nil, ErrMultipleActive
	}
}

func (r *promptConfigRepository) GetByID(ctx context.Context, id uuid.UUID) (*entity.PromptConfig, error) {
	c, err := scanPromptConfig(r.pool.QueryRow(ctx,
		`SELECT `+promptConfigColumns+` FROM prompt_configs WHERE id = $1`, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, common.ErrNotFound
	}
	if err != nil {
		return nil, common.WrapError(err, "get prompt config")
	}
	return c, nil
}

func (r *promptConfigRepository) List(ctx context.Context) ([]*entity.PromptConfig, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT `+promptConfigColumns+` FROM prompt_configs ORDER BY created_at`)
	if err != nil {
		return nil, common.WrapError(err, "list prompt configs")
	}
	defer rows.Close()

	var out []*entity.PromptConfig
	for rows.Next() {
		c, err := scanPromptConfig(rows)
		if err != nil {
			return nil, common.WrapError(err, "scan prompt config")
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

func (r *promptConfigRepository) Create(ctx context.Context, name, systemPrompt, userPrompt string, activate bool) (*entity.PromptConfig, error) {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return nil, common.WrapError(err, "begin create prompt config")
	}
	defer func() { _ = tx.Rollback(ctx) }()

	if activate {
		if _, err := tx.Exec(ctx, `UPDATE prompt_configs SET is_active = false, updated_at = now() WHERE is_active`); err != nil {
			return nil, common.WrapError(err, "deactivate prompt configs")
		}
	}
	c, err := scanPromptConfig(tx.QueryRow(ctx,
		`INSERT INTO prompt_configs (name, system_prompt, user_prompt, is_active)
		 VALUES ($1, $2, $3, $4)
		 RETURNING `+promptConfigColumns, name, systemPrompt, userPrompt, activate))
	if isUniqueViolation(err) {
		return nil, fmt.Errorf("prompt config name %q already exists: %w", name, common.ErrValidation)
	}
	if err != nil {
		return nil, common.WrapError(err, "insert prompt config")
	}
	if err := tx.Commit(ctx); err != nil {
		return nil, common.WrapError(err, "commit create prompt config")
	}

	r.logger.Info("promptconfig.create.ok", "id", c.ID, "name", c.Name, "active", c.IsActive)
	return c, nil
}

// Activate deactivates every other config and activates id in one
// transaction, keeping the at-most-one-active invariant under concurrent
// administration.
func (r *promptConfigRepository) Activate(ctx context.Context, id uuid.UUID) (*entity.PromptConfig, error) {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return nil, common.WrapError(err, "begin activate")
	}
	defer func() { _ = tx.Rollback(ctx) }()

	if _, err := tx.Exec(ctx,
		`UPDATE prompt_configs SET is_active = false, updated_at = now() WHERE is_active AND id <> $1`, id); err != nil {
		return nil, common.WrapError(err, "deactivate prompt configs")
	}
	c, err := scanPromptConfig(tx.QueryRow(ctx,
		`UPDATE prompt_configs SET is_active = true, updated_at = now() WHERE id = $1
		 RETURNING `+promptConfigColumns, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("prompt config %s: %w", id, common.ErrNotFound)
	}
	if err != nil {
		return nil, common.WrapError(err, "activate prompt config")
	}
	if err := tx.Commit(ctx); err != nil {
		return nil, common.WrapError(err, "commit activate")
	}

	r.logger.Info("promptconfig.activate.ok", "id", c.ID, "name", c.Name)
	return c, nil
}
