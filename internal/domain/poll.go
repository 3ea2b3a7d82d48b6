package domain

import (
	"errors"
	"time"
)

// Sentinel errors for the poll read path. A missing row is deliberately
// distinct from a backend failure so callers can map them to 404 vs 502.
var (
	ErrPollNotFound  = errors.New("poll not found")
	ErrInvalidPollID = errors.New("invalid poll id")
)

// Poll represents a question with a fixed set of selectable options,
// owned by a creator.
type Poll struct {
	ID          string       `json:"id"`
	UserID      string       `json:"user_id"`
	Question    string       `json:"question"`
	Description string       `json:"description,omitempty"`
	IsActive    bool         `json:"is_active"`
	IsPublic    bool         `json:"is_public"`
	ShareToken  string       `json:"share_token,omitempty"`
	VoteCount   int64        `json:"vote_count"`
	Options     []PollOption `json:"options"`
	CreatedAt   time.Time    `json:"created_at"`
}

// PollOption is one selectable answer belonging to exactly one poll. Its
// vote count is a fresh aggregate over the votes table, never a stored
// counter mutated in place.
type PollOption struct {
	ID         string    `json:"id"`
	PollID     string    `json:"poll_id"`
	OptionText string    `json:"option_text"`
	VoteCount  int64     `json:"vote_count"`
	CreatedAt  time.Time `json:"created_at"`
}

// CreatePollRequest represents a poll creation submission
type CreatePollRequest struct {
	Title       string   `json:"title" validate:"required,min=1"`
	Description string   `json:"description"`
	Options     []string `json:"options" validate:"required"`
	// UserID is filled from the authenticated identity, never from the body.
	UserID string `json:"-"`
}

// PollOptionResult carries the aggregated count for one option
type PollOptionResult struct {
	OptionID   string  `json:"option_id"`
	OptionText string  `json:"option_text"`
	VoteCount  int64   `json:"vote_count"`
	Percentage float64 `json:"percentage"`
}

// PollResults represents the freshly aggregated results of a poll
type PollResults struct {
	PollID     string             `json:"poll_id"`
	Question   string             `json:"question"`
	TotalVotes int64              `json:"total_votes"`
	Options    []PollOptionResult `json:"options"`
	UpdatedAt  time.Time          `json:"updated_at"`
}
