package repository

import (
	"context"

	"polly-api/internal/domain"
)

// PollRepository defines the interface for poll data operations
type PollRepository interface {
	// CreateWithOptions inserts the poll row and its option rows in one
	// transaction. Either everything commits or nothing does; an
	// option-less poll is not a reachable post-state.
	CreateWithOptions(ctx context.Context, poll *domain.Poll, options []string) error

	// GetByID retrieves a poll with its options and fresh vote counts.
	// Returns domain.ErrPollNotFound when the row is absent.
	GetByID(ctx context.Context, id string) (*domain.Poll, error)

	// List retrieves public active polls, newest first
	List(ctx context.Context, limit, offset int) ([]*domain.Poll, error)

	// GetResults aggregates per-option vote counts for a poll
	GetResults(ctx context.Context, pollID string) (*domain.PollResults, error)
}

// VoteRepository defines the interface for vote data operations
type VoteRepository interface {
	// Create inserts exactly one vote row; the backend assigns the id
	Create(ctx context.Context, vote *domain.Vote) error

	// HasVoted reports whether the user already voted on the poll
	HasVoted(ctx context.Context, pollID, userID string) (bool, error)
}

// ProfileRepository defines the interface for profile data operations
type ProfileRepository interface {
	// GetByID retrieves a profile by identity id, nil when absent
	GetByID(ctx context.Context, id string) (*domain.Profile, error)

	// Create inserts a new profile row
	Create(ctx context.Context, profile *domain.Profile) error

	// UpdateName updates the display name of an existing profile
	UpdateName(ctx context.Context, id, name string) error
}
