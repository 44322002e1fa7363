// Package store holds the pgx repositories for the external store of
// record: contests, picks, tickers and contestant profiles.
package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/pickarena/backend/internal/contest"
)

// ContestRepository reads contests. Contests are created by an
// administrative action outside this service and are immutable here.
type ContestRepository struct {
	pool *pgxpool.Pool
}

// NewContestRepository creates a new contest repository.
func NewContestRepository(pool *pgxpool.Pool) *ContestRepository {
	return &ContestRepository{pool: pool}
}

// ContestWithCount is a contest plus its participant count, for list
// views.
type ContestWithCount struct {
	contest.Contest
	ParticipantCount int `json:"participant_count"`
}

// GetByID retrieves a single contest.
func (r *ContestRepository) GetByID(ctx context.Context, id uuid.UUID) (*contest.Contest, error) {
	query := `
		SELECT id, name, COALESCE(description, ''), start_time, end_time, created_at
		FROM contests
		WHERE id = $1
	`

	var c contest.Contest
	err := r.pool.QueryRow(ctx, query, id).Scan(
		&c.ID, &c.Name, &c.Description, &c.StartTime, &c.EndTime, &c.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("contest %s: %w", id, ErrNotFound)
		}
		return nil, err
	}
	return &c, nil
}

// List retrieves all contests with their participant counts, newest
// first.
func (r *ContestRepository) List(ctx context.Context) ([]ContestWithCount, error) {
	query := `
		SELECT c.id, c.name, COALESCE(c.description, ''), c.start_time, c.end_time, c.created_at,
		       COUNT(p.user_id) AS participant_count
		FROM contests c
		LEFT JOIN picks p ON p.contest_id = c.id
		GROUP BY c.id
		ORDER BY c.start_time DESC
	`

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	contests := make([]ContestWithCount, 0)
	for rows.Next() {
		var c ContestWithCount
		if err := rows.Scan(
			&c.ID, &c.Name, &c.Description, &c.StartTime, &c.EndTime, &c.CreatedAt,
			&c.ParticipantCount,
		); err != nil {
			return nil, err
		}
		contests = append(contests, c)
	}
	return contests, rows.Err()
}
