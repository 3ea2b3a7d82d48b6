package domain

import (
	"time"
)

// Vote is a single recorded selection of one option by a possibly
// anonymous participant. The id is assigned by the backend on insert.
type Vote struct {
	ID        string    `json:"id"`
	PollID    string    `json:"poll_id"`
	OptionID  string    `json:"option_id"`
	UserID    string    `json:"user_id,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

// VoteRequest represents a vote submission. OptionID is passed through to
// the backend without an application-level check that it belongs to the
// poll; the schema's composite foreign key enforces that invariant.
type VoteRequest struct {
	PollID   string `json:"poll_id"`
	OptionID string `json:"option_id" validate:"required,uuid4"`
	// UserID is empty for anonymous votes.
	UserID string `json:"-"`
}

// VoteResponse represents the response after voting
type VoteResponse struct {
	VoteID    string    `json:"vote_id"`
	PollID    string    `json:"poll_id"`
	OptionID  string    `json:"option_id"`
	Timestamp time.Time `json:"timestamp"`
	Message   string    `json:"message"`
}
