package service

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"go.uber.org/zap"

	"polly-api/internal/domain"
	"polly-api/internal/repository"
	"polly-api/internal/validation"
	apperrors "polly-api/pkg/errors"
)

type pollService struct {
	pollRepo     repository.PollRepository
	cacheService *CacheService
	logger       *zap.Logger
}

// NewPollService creates a new poll service
func NewPollService(pollRepo repository.PollRepository, cacheService *CacheService, logger *zap.Logger) PollService {
	return &pollService{
		pollRepo:     pollRepo,
		cacheService: cacheService,
		logger:       logger,
	}
}

// Create validates the input, then persists the poll row and its option
// rows in one transaction. Validation failures never reach the backend.
func (s *pollService) Create(ctx context.Context, req *domain.CreatePollRequest) (*domain.Poll, error) {
	options, verr := validation.CreatePoll(req)
	if verr != nil {
		return nil, verr
	}

	poll := &domain.Poll{
		UserID:      req.UserID,
		Question:    req.Title,
		Description: req.Description,
		IsActive:    true,
		IsPublic:    true,
		ShareToken:  uuid.NewString(),
	}

	if err := s.pollRepo.CreateWithOptions(ctx, poll, options); err != nil {
		s.logger.Error("Poll insert failed",
			zap.String("user_id", req.UserID),
			zap.Int("options", len(options)),
			zap.Error(err))
		return nil, apperrors.NewExternalError(backendMessage(err, "Failed to create poll"), err)
	}

	s.cacheService.InvalidatePollList(ctx)

	s.logger.Info("Poll created",
		zap.String("poll_id", poll.ID),
		zap.String("user_id", poll.UserID),
		zap.Int("options", len(poll.Options)))

	return poll, nil
}

// Get retrieves a poll with its options and fresh vote counts. An absent
// poll surfaces as domain.ErrPollNotFound; a backend failure keeps its own
// identity instead of collapsing into "not found".
func (s *pollService) Get(ctx context.Context, id string) (*domain.Poll, error) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, domain.ErrInvalidPollID
	}

	if poll := s.cacheService.GetPoll(ctx, id); poll != nil {
		return poll, nil
	}

	poll, err := s.pollRepo.GetByID(ctx, id)
	if errors.Is(err, domain.ErrPollNotFound) {
		return nil, domain.ErrPollNotFound
	}
	if err != nil {
		s.logger.Error("Poll read failed", zap.String("poll_id", id), zap.Error(err))
		return nil, apperrors.NewExternalError("Failed to fetch poll", err)
	}

	s.cacheService.SetPoll(ctx, poll)

	return poll, nil
}

// List retrieves public active polls, newest first
func (s *pollService) List(ctx context.Context, limit, offset int) ([]*domain.Poll, error) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	if offset < 0 {
		offset = 0
	}

	polls, err := s.pollRepo.List(ctx, limit, offset)
	if err != nil {
		s.logger.Error("Poll listing failed", zap.Error(err))
		return nil, apperrors.NewExternalError("Failed to list polls", err)
	}

	return polls, nil
}

// Results aggregates per-option counts and percentages for a poll
func (s *pollService) Results(ctx context.Context, pollID string) (*domain.PollResults, error) {
	if _, err := uuid.Parse(pollID); err != nil {
		return nil, domain.ErrInvalidPollID
	}

	if results := s.cacheService.GetResults(ctx, pollID); results != nil {
		return results, nil
	}

	results, err := s.pollRepo.GetResults(ctx, pollID)
	if errors.Is(err, domain.ErrPollNotFound) {
		return nil, domain.ErrPollNotFound
	}
	if err != nil {
		s.logger.Error("Poll results read failed", zap.String("poll_id", pollID), zap.Error(err))
		return nil, apperrors.NewExternalError("Failed to fetch poll results", err)
	}

	s.cacheService.SetResults(ctx, results)

	return results, nil
}

// backendMessage extracts the backend's own message for user display,
// falling back to a generic one when the error carries no Postgres detail.
func backendMessage(err error, fallback string) string {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Message != "" {
		return pgErr.Message
	}
	return fallback
}
