package service

import (
	"context"

	"polly-api/internal/domain"
)

// PollService defines the interface for poll lifecycle operations
type PollService interface {
	// Create validates the input and persists the poll with its options
	Create(ctx context.Context, req *domain.CreatePollRequest) (*domain.Poll, error)

	// Get retrieves a poll with options and fresh vote counts.
	// Returns domain.ErrPollNotFound for an absent poll, which is distinct
	// from a backend failure.
	Get(ctx context.Context, id string) (*domain.Poll, error)

	// List retrieves public active polls, newest first
	List(ctx context.Context, limit, offset int) ([]*domain.Poll, error)

	// Results aggregates per-option counts and percentages for a poll
	Results(ctx context.Context, pollID string) (*domain.PollResults, error)
}

// VoteService defines the interface for the voting write path
type VoteService interface {
	// Submit records exactly one vote for an option of a poll
	Submit(ctx context.Context, req *domain.VoteRequest) (*domain.VoteResponse, error)
}

// AuthService defines the interface for the auth gateway
type AuthService interface {
	// SignUp registers a credential identity and syncs its profile row
	SignUp(ctx context.Context, req *domain.SignUpRequest) (*domain.SignUpResponse, error)

	// SignIn verifies credentials and returns the backend session
	SignIn(ctx context.Context, req *domain.SignInRequest) (*domain.Session, error)

	// SignOut revokes the caller's session at the auth backend
	SignOut(ctx context.Context, accessToken string) error

	// ValidateToken validates an access token locally and returns its claims
	ValidateToken(ctx context.Context, token string) (*domain.AuthClaims, error)
}
