package service

import (
	"context"
	"encoding/json"

	"go.uber.org/zap"

	"polly-api/internal/domain"
	"polly-api/pkg/redis"
)

// CacheService fronts the freshly aggregated poll reads with short-lived
// Redis entries. Every method is a no-op when Redis is not configured, so
// the read path degrades to hitting the backend directly.
type CacheService struct {
	redis  *redis.Client
	logger *zap.Logger
}

// NewCacheService creates a new cache service
func NewCacheService(redisClient *redis.Client, logger *zap.Logger) *CacheService {
	return &CacheService{
		redis:  redisClient,
		logger: logger,
	}
}

// GetPoll returns a cached poll, or nil on miss or cache failure
func (s *CacheService) GetPoll(ctx context.Context, pollID string) *domain.Poll {
	if s.redis == nil {
		return nil
	}

	data, err := s.redis.Get(ctx, s.redis.KeyBuilder.KeyPoll(pollID))
	if err != nil || data == "" {
		return nil
	}

	var poll domain.Poll
	if err := json.Unmarshal([]byte(data), &poll); err != nil {
		s.logger.Warn("Failed to unmarshal cached poll", zap.String("poll_id", pollID), zap.Error(err))
		return nil
	}
	return &poll
}

// SetPoll caches a poll with its options and counts
func (s *CacheService) SetPoll(ctx context.Context, poll *domain.Poll) {
	if s.redis == nil {
		return
	}

	data, err := json.Marshal(poll)
	if err != nil {
		return
	}
	if err := s.redis.Set(ctx, s.redis.KeyBuilder.KeyPoll(poll.ID), data, redis.TTLPoll); err != nil {
		s.logger.Warn("Failed to cache poll", zap.String("poll_id", poll.ID), zap.Error(err))
	}
}

// GetResults returns cached poll results, or nil on miss
func (s *CacheService) GetResults(ctx context.Context, pollID string) *domain.PollResults {
	if s.redis == nil {
		return nil
	}

	data, err := s.redis.Get(ctx, s.redis.KeyBuilder.KeyPollResults(pollID))
	if err != nil || data == "" {
		return nil
	}

	var results domain.PollResults
	if err := json.Unmarshal([]byte(data), &results); err != nil {
		return nil
	}
	return &results
}

// SetResults caches aggregated results with a short TTL so they stay near
// real-time without a fresh aggregate query per read.
func (s *CacheService) SetResults(ctx context.Context, results *domain.PollResults) {
	if s.redis == nil {
		return
	}

	data, err := json.Marshal(results)
	if err != nil {
		return
	}
	if err := s.redis.Set(ctx, s.redis.KeyBuilder.KeyPollResults(results.PollID), data, redis.TTLPollResults); err != nil {
		s.logger.Warn("Failed to cache poll results", zap.String("poll_id", results.PollID), zap.Error(err))
	}
}

// InvalidatePoll drops the cached poll and its results after a vote
func (s *CacheService) InvalidatePoll(ctx context.Context, pollID string) {
	if s.redis == nil {
		return
	}

	err := s.redis.Delete(ctx,
		s.redis.KeyBuilder.KeyPoll(pollID),
		s.redis.KeyBuilder.KeyPollResults(pollID),
	)
	if err != nil {
		s.logger.Warn("Failed to invalidate poll caches", zap.String("poll_id", pollID), zap.Error(err))
	}
}

// InvalidatePollList drops the cached public listing after a new poll
func (s *CacheService) InvalidatePollList(ctx context.Context) {
	if s.redis == nil {
		return
	}

	if err := s.redis.Delete(ctx, s.redis.KeyBuilder.KeyPollList()); err != nil {
		s.logger.Warn("Failed to invalidate poll list cache", zap.Error(err))
	}
}

// HasUserVoted reports a cached vote status; false means unknown
func (s *CacheService) HasUserVoted(ctx context.Context, pollID, userID string) bool {
	if s.redis == nil {
		return false
	}

	n, err := s.redis.Exists(ctx, s.redis.KeyBuilder.KeyUserVoted(pollID, userID))
	return err == nil && n > 0
}

// MarkUserVoted caches the vote status after a confirmed vote
func (s *CacheService) MarkUserVoted(ctx context.Context, pollID, userID, optionID string) {
	if s.redis == nil {
		return
	}

	key := s.redis.KeyBuilder.KeyUserVoted(pollID, userID)
	if err := s.redis.Set(ctx, key, optionID, redis.TTLUserVote); err != nil {
		s.logger.Warn("Failed to cache vote status",
			zap.String("poll_id", pollID),
			zap.String("user_id", userID),
			zap.Error(err))
	}
}
