package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/pickarena/backend/internal/contest"
)

// pgUniqueViolation is the SQLSTATE for unique constraint violations.
const pgUniqueViolation = "23505"

// PickRepository stores participant picks. Picks are created once at
// join time and never mutated or deleted afterwards.
type PickRepository struct {
	pool *pgxpool.Pool
}

// NewPickRepository creates a new pick repository.
func NewPickRepository(pool *pgxpool.Pool) *PickRepository {
	return &PickRepository{pool: pool}
}

// ListByContest retrieves every pick in a contest.
func (r *PickRepository) ListByContest(ctx context.Context, contestID uuid.UUID) ([]contest.Pick, error) {
	query := `
		SELECT contest_id, user_id, ticker, quantity, buy_price, created_at
		FROM picks
		WHERE contest_id = $1
	`

	rows, err := r.pool.Query(ctx, query, contestID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	picks := make([]contest.Pick, 0)
	for rows.Next() {
		var p contest.Pick
		if err := rows.Scan(&p.ContestID, &p.UserID, &p.Ticker, &p.Quantity, &p.BuyPrice, &p.CreatedAt); err != nil {
			return nil, err
		}
		picks = append(picks, p)
	}
	return picks, rows.Err()
}

// Create inserts a new pick. The (contest_id, user_id) unique index
// rejects a second join; that surfaces as ErrDuplicatePick.
func (r *PickRepository) Create(ctx context.Context, p *contest.Pick) error {
	query := `
		INSERT INTO picks (contest_id, user_id, ticker, quantity, buy_price)
		VALUES ($1, $2, $3, $4, $5)
	`

	_, err := r.pool.Exec(ctx, query, p.ContestID, p.UserID, p.Ticker, p.Quantity, p.BuyPrice)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgUniqueViolation {
			return fmt.Errorf("contest %s user %s: %w", p.ContestID, p.UserID, ErrDuplicatePick)
		}
		return err
	}
	return nil
}
