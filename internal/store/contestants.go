package store

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/pickarena/backend/internal/contest"
)

// ContestantRepository reads participant profiles. Profiles are owned
// by the identity provider; this service only reads display data.
type ContestantRepository struct {
	pool *pgxpool.Pool
}

// NewContestantRepository creates a new contestant repository.
func NewContestantRepository(pool *pgxpool.Pool) *ContestantRepository {
	return &ContestantRepository{pool: pool}
}

// GetByIDs retrieves profiles for a set of user IDs, keyed by ID.
// Missing profiles are simply absent; display falls back to a
// placeholder name.
func (r *ContestantRepository) GetByIDs(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID]contest.Contestant, error) {
	contestants := make(map[uuid.UUID]contest.Contestant, len(ids))
	if len(ids) == 0 {
		return contestants, nil
	}

	query := `
		SELECT id, COALESCE(username, ''), COALESCE(full_name, ''),
		       COALESCE(email, ''), COALESCE(avatar_url, '')
		FROM contestants
		WHERE id = ANY($1)
	`

	rows, err := r.pool.Query(ctx, query, ids)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var c contest.Contestant
		if err := rows.Scan(&c.ID, &c.Username, &c.FullName, &c.Email, &c.AvatarURL); err != nil {
			return nil, err
		}
		contestants[c.ID] = c
	}
	return contestants, rows.Err()
}
