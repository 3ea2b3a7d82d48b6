package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"polly-api/internal/domain"
	"polly-api/pkg/database"
)

type pollRepository struct {
	db *database.PostgresDB
}

// NewPollRepository creates a new poll repository
func NewPollRepository(db *database.PostgresDB) PollRepository {
	return &pollRepository{db: db}
}

// CreateWithOptions inserts the poll and its options atomically. The poll
// insert and the option inserts share one transaction so a failed option
// write rolls the poll row back instead of leaving an orphan.
func (r *pollRepository) CreateWithOptions(ctx context.Context, poll *domain.Poll, options []string) error {
	tx, err := r.db.Pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	queryPoll := `
		INSERT INTO polls (user_id, question, description, is_active, is_public, share_token)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, created_at
	`

	err = tx.QueryRow(ctx, queryPoll,
		poll.UserID,
		poll.Question,
		poll.Description,
		poll.IsActive,
		poll.IsPublic,
		poll.ShareToken,
	).Scan(&poll.ID, &poll.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to insert poll: %w", err)
	}

	queryOption := `
		INSERT INTO poll_options (poll_id, option_text)
		VALUES ($1, $2)
		RETURNING id, created_at
	`

	poll.Options = make([]domain.PollOption, 0, len(options))
	for _, text := range options {
		opt := domain.PollOption{PollID: poll.ID, OptionText: text}
		if err := tx.QueryRow(ctx, queryOption, poll.ID, text).Scan(&opt.ID, &opt.CreatedAt); err != nil {
			return fmt.Errorf("failed to insert option: %w", err)
		}
		poll.Options = append(poll.Options, opt)
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	return nil
}

// GetByID retrieves a poll with its options and freshly aggregated vote
// counts in one read path.
func (r *pollRepository) GetByID(ctx context.Context, id string) (*domain.Poll, error) {
	queryPoll := `
		SELECT id, user_id, question, COALESCE(description, ''), is_active, is_public,
		       COALESCE(share_token::text, ''), created_at
		FROM polls
		WHERE id = $1
	`

	var poll domain.Poll
	err := r.db.Pool.QueryRow(ctx, queryPoll, id).Scan(
		&poll.ID,
		&poll.UserID,
		&poll.Question,
		&poll.Description,
		&poll.IsActive,
		&poll.IsPublic,
		&poll.ShareToken,
		&poll.CreatedAt,
	)
	if err == pgx.ErrNoRows {
		return nil, domain.ErrPollNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get poll: %w", err)
	}

	options, err := r.fetchOptions(ctx, poll.ID)
	if err != nil {
		return nil, err
	}
	poll.Options = options

	for _, opt := range options {
		poll.VoteCount += opt.VoteCount
	}

	return &poll, nil
}

// List retrieves public active polls, newest first
func (r *pollRepository) List(ctx context.Context, limit, offset int) ([]*domain.Poll, error) {
	query := `
		SELECT id, user_id, question, COALESCE(description, ''), is_active, is_public,
		       COALESCE(share_token::text, ''), created_at
		FROM polls
		WHERE is_public = true AND is_active = true
		ORDER BY created_at DESC
		LIMIT $1 OFFSET $2
	`

	rows, err := r.db.Pool.Query(ctx, query, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("failed to list polls: %w", err)
	}
	defer rows.Close()

	var polls []*domain.Poll
	for rows.Next() {
		var poll domain.Poll
		if err := rows.Scan(
			&poll.ID,
			&poll.UserID,
			&poll.Question,
			&poll.Description,
			&poll.IsActive,
			&poll.IsPublic,
			&poll.ShareToken,
			&poll.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan poll: %w", err)
		}
		polls = append(polls, &poll)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating polls: %w", err)
	}

	for _, poll := range polls {
		options, err := r.fetchOptions(ctx, poll.ID)
		if err != nil {
			return nil, err
		}
		poll.Options = options
		for _, opt := range options {
			poll.VoteCount += opt.VoteCount
		}
	}

	return polls, nil
}

// GetResults aggregates per-option vote counts for a poll. Counts are
// always computed from the votes table, never read from a stored counter.
func (r *pollRepository) GetResults(ctx context.Context, pollID string) (*domain.PollResults, error) {
	var question string
	err := r.db.Pool.QueryRow(ctx, `SELECT question FROM polls WHERE id = $1`, pollID).Scan(&question)
	if err == pgx.ErrNoRows {
		return nil, domain.ErrPollNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get poll: %w", err)
	}

	query := `
		SELECT o.id, o.option_text, COUNT(v.id)
		FROM poll_options o
		LEFT JOIN votes v ON v.option_id = o.id AND v.poll_id = o.poll_id
		WHERE o.poll_id = $1
		GROUP BY o.id, o.option_text, o.created_at
		ORDER BY o.created_at
	`

	rows, err := r.db.Pool.Query(ctx, query, pollID)
	if err != nil {
		return nil, fmt.Errorf("failed to get poll results: %w", err)
	}
	defer rows.Close()

	results := &domain.PollResults{
		PollID:    pollID,
		Question:  question,
		UpdatedAt: time.Now().UTC(),
	}

	for rows.Next() {
		var opt domain.PollOptionResult
		if err := rows.Scan(&opt.OptionID, &opt.OptionText, &opt.VoteCount); err != nil {
			return nil, fmt.Errorf("failed to scan option result: %w", err)
		}
		results.TotalVotes += opt.VoteCount
		results.Options = append(results.Options, opt)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating option results: %w", err)
	}

	if results.TotalVotes > 0 {
		for i := range results.Options {
			results.Options[i].Percentage = float64(results.Options[i].VoteCount) / float64(results.TotalVotes) * 100
		}
	}

	return results, nil
}

// fetchOptions loads a poll's options ordered by creation, each with its
// aggregated vote count.
func (r *pollRepository) fetchOptions(ctx context.Context, pollID string) ([]domain.PollOption, error) {
	query := `
		SELECT o.id, o.poll_id, o.option_text, o.created_at, COUNT(v.id)
		FROM poll_options o
		LEFT JOIN votes v ON v.option_id = o.id AND v.poll_id = o.poll_id
		WHERE o.poll_id = $1
		GROUP BY o.id, o.poll_id, o.option_text, o.created_at
		ORDER BY o.created_at
	`

	rows, err := r.db.Pool.Query(ctx, query, pollID)
	if err != nil {
		return nil, fmt.Errorf("failed to get poll options: %w", err)
	}
	defer rows.Close()

	var options []domain.PollOption
	for rows.Next() {
		var opt domain.PollOption
		if err := rows.Scan(&opt.ID, &opt.PollID, &opt.OptionText, &opt.CreatedAt, &opt.VoteCount); err != nil {
			return nil, fmt.Errorf("failed to scan option: %w", err)
		}
		options = append(options, opt)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating options: %w", err)
	}

	return options, nil
}
