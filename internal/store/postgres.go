package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"github.com/sidebook/wager-engine/internal/model"
)

// PostgresStore implements Store using PostgreSQL as the source of truth.
// Amounts are stored as NUMERIC for exact decimal precision.
type PostgresStore struct {
	pool *pgxpool.Pool
}

// NewPostgresStore creates a new PostgreSQL-backed store.
func NewPostgresStore(pool *pgxpool.Pool) *PostgresStore {
	return &PostgresStore{pool: pool}
}

const wagerColumns = `id, from_user, to_user, amount::TEXT, odds, description,
	        status, COALESCE(result, ''), created_by, created_at, updated_at`

func (s *PostgresStore) ListWagers(ctx context.Context) ([]model.Wager, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT `+wagerColumns+`
		 FROM wagers ORDER BY created_at, id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var wagers []model.Wager
	for rows.Next() {
		w, err := scanWager(rows)
		if err != nil {
			return nil, err
		}
		wagers = append(wagers, *w)
	}
	return wagers, rows.Err()
}

func (s *PostgresStore) GetWager(ctx context.Context, id string) (*model.Wager, error) {
	row := s.pool.QueryRow(ctx,
		`SELECT `+wagerColumns+`
		 FROM wagers WHERE id = $1`, id)

	w, err := scanWager(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("%w: %s", ErrNotFound, id)
		}
		return nil, fmt.Errorf("get wager %s: %w", id, err)
	}
	return w, nil
}

func (s *PostgresStore) CreateWagers(ctx context.Context, wagers []*model.Wager) error {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	for _, w := range wagers {
		if _, err := tx.Exec(ctx,
			`INSERT INTO wagers (id, from_user, to_user, amount, odds, description,
			                     status, result, created_by, created_at, updated_at)
			 VALUES ($1, $2, $3, $4::NUMERIC, $5, $6, $7, NULLIF($8, ''), $9, $10, $11)`,
			w.ID, w.FromUser, w.ToUser, w.Amount.String(), w.Odds, w.Description,
			w.Status, w.Result, w.CreatedBy, w.CreatedAt, w.UpdatedAt,
		); err != nil {
			return err
		}
	}
	return tx.Commit(ctx)
}

func (s *PostgresStore) UpdateTerms(ctx context.Context, id string, amount decimal.Decimal, odds int, description string, updatedAt time.Time) error {
	tag, err := s.pool.Exec(ctx,
		`UPDATE wagers
		 SET amount = $2::NUMERIC, odds = $3, description = $4, updated_at = $5
		 WHERE id = $1 AND status = $6`,
		id, amount.String(), odds, description, updatedAt, model.StatusOpen,
	)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return s.openConflict(ctx, id)
	}
	return nil
}

func (s *PostgresStore) Resolve(ctx context.Context, id string, result string, resolvedAt time.Time) error {
	tag, err := s.pool.Exec(ctx,
		`UPDATE wagers
		 SET status = $2, result = $3, updated_at = $4
		 WHERE id = $1 AND status = $5`,
		id, model.StatusResolved, result, resolvedAt, model.StatusOpen,
	)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return s.openConflict(ctx, id)
	}
	return nil
}

// openConflict distinguishes a missing wager from one that is no longer open
// after a guarded update matched zero rows.
func (s *PostgresStore) openConflict(ctx context.Context, id string) error {
	var status string
	err := s.pool.QueryRow(ctx,
		`SELECT status FROM wagers WHERE id = $1`, id).Scan(&status)
	if errors.Is(err, pgx.ErrNoRows) {
		return fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	if err != nil {
		return err
	}
	return fmt.Errorf("%w: %s", ErrNotOpen, id)
}

// pgxRow covers both pgx.Row and pgx.Rows for shared scanning.
type pgxRow interface {
	Scan(dest ...interface{}) error
}

func scanWager(row pgxRow) (*model.Wager, error) {
	var w model.Wager
	var amountS string

	if err := row.Scan(&w.ID, &w.FromUser, &w.ToUser, &amountS, &w.Odds,
		&w.Description, &w.Status, &w.Result, &w.CreatedBy,
		&w.CreatedAt, &w.UpdatedAt); err != nil {
		return nil, err
	}

	w.Amount, _ = decimal.NewFromString(amountS)
	return &w, nil
}
