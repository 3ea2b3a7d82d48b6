package repository

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"polly-api/internal/domain"
	"polly-api/pkg/database"
)

type voteRepository struct {
	db *database.PostgresDB
}

// NewVoteRepository creates a new vote repository
func NewVoteRepository(db *database.PostgresDB) VoteRepository {
	return &voteRepository{db: db}
}

// Create inserts exactly one vote row. The backend assigns the id and
// timestamp; constraint violations (duplicate vote, option outside the
// poll) come back as pgconn errors for the service layer to map.
func (r *voteRepository) Create(ctx context.Context, vote *domain.Vote) error {
	query := `
		INSERT INTO votes (poll_id, option_id, user_id)
		VALUES ($1, $2, NULLIF($3, ''))
		RETURNING id, created_at
	`

	err := r.db.Pool.QueryRow(ctx, query,
		vote.PollID,
		vote.OptionID,
		vote.UserID,
	).Scan(&vote.ID, &vote.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to create vote: %w", err)
	}

	return nil
}

// HasVoted reports whether the user already voted on the poll
func (r *voteRepository) HasVoted(ctx context.Context, pollID, userID string) (bool, error) {
	query := `SELECT 1 FROM votes WHERE poll_id = $1 AND user_id = $2 LIMIT 1`

	var exists int
	err := r.db.Pool.QueryRow(ctx, query, pollID, userID).Scan(&exists)
	if err == pgx.ErrNoRows {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("failed to check existing vote: %w", err)
	}

	return true, nil
}
