package service

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"go.uber.org/zap"

	"polly-api/internal/domain"
	"polly-api/internal/repository"
	apperrors "polly-api/pkg/errors"
)

// Postgres error codes the vote insert can surface.
const (
	pgUniqueViolation = "23505"
	pgFKViolation     = "23503"
)

type voteService struct {
	voteRepo     repository.VoteRepository
	cacheService *CacheService
	allowRevote  bool
	logger       *zap.Logger
}

// NewVoteService creates a new vote service. allowRevote selects the
// duplicate-vote policy for authenticated voters.
func NewVoteService(voteRepo repository.VoteRepository, cacheService *CacheService, allowRevote bool, logger *zap.Logger) VoteService {
	return &voteService{
		voteRepo:     voteRepo,
		cacheService: cacheService,
		allowRevote:  allowRevote,
		logger:       logger,
	}
}

// Submit inserts exactly one vote row. The option id is passed through to
// the backend without checking that it belongs to the poll; the schema's
// composite foreign key owns that invariant and its rejection is mapped
// back to a caller-visible message. Duplicate prevention applies only to
// authenticated voters and only under the single-vote policy.
func (s *voteService) Submit(ctx context.Context, req *domain.VoteRequest) (*domain.VoteResponse, error) {
	if _, err := uuid.Parse(req.PollID); err != nil {
		return nil, domain.ErrInvalidPollID
	}
	if strings.TrimSpace(req.OptionID) == "" {
		return nil, apperrors.NewValidationError("Option is required", nil)
	}

	if req.UserID != "" && !s.allowRevote {
		// Redis first, database as fallback.
		if s.cacheService.HasUserVoted(ctx, req.PollID, req.UserID) {
			return nil, apperrors.NewConflictError("You have already voted on this poll")
		}

		hasVoted, err := s.voteRepo.HasVoted(ctx, req.PollID, req.UserID)
		if err != nil {
			s.logger.Error("Vote status check failed",
				zap.String("poll_id", req.PollID),
				zap.String("user_id", req.UserID),
				zap.Error(err))
			return nil, apperrors.NewExternalError("Failed to check existing vote", err)
		}
		if hasVoted {
			s.cacheService.MarkUserVoted(ctx, req.PollID, req.UserID, "")
			return nil, apperrors.NewConflictError("You have already voted on this poll")
		}
	}

	vote := &domain.Vote{
		PollID:   req.PollID,
		OptionID: req.OptionID,
		UserID:   req.UserID,
	}

	if err := s.voteRepo.Create(ctx, vote); err != nil {
		return nil, s.mapInsertError(req, err)
	}

	if req.UserID != "" {
		s.cacheService.MarkUserVoted(ctx, req.PollID, req.UserID, req.OptionID)
	}
	s.cacheService.InvalidatePoll(ctx, req.PollID)

	s.logger.Info("Vote recorded",
		zap.String("poll_id", req.PollID),
		zap.String("option_id", req.OptionID),
		zap.Bool("anonymous", req.UserID == ""))

	return &domain.VoteResponse{
		VoteID:    vote.ID,
		PollID:    vote.PollID,
		OptionID:  vote.OptionID,
		Timestamp: vote.CreatedAt,
		Message:   "Vote submitted successfully",
	}, nil
}

// mapInsertError turns backend constraint violations into caller-visible
// errors; everything else surfaces with the backend's own message.
func (s *voteService) mapInsertError(req *domain.VoteRequest, err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case pgUniqueViolation:
			return apperrors.NewConflictError("You have already voted on this poll")
		case pgFKViolation:
			return apperrors.NewValidationError("Option does not belong to this poll", nil)
		}
	}

	s.logger.Error("Vote insert failed",
		zap.String("poll_id", req.PollID),
		zap.String("option_id", req.OptionID),
		zap.Error(err))

	return apperrors.NewExternalError(backendMessage(err, "Failed to submit vote"), err)
}
