package redis

import "fmt"

// KeyBuilder provides environment-aware Redis key building functionality
type KeyBuilder struct {
	prefix string
}

// NewKeyBuilder creates a new key builder with environment-based prefix
func NewKeyBuilder(environment string) *KeyBuilder {
	prefix := "prod"
	if environment == "development" || environment == "staging" || environment == "test" {
		prefix = "staging"
	}

	return &KeyBuilder{
		prefix: prefix,
	}
}

// BuildKey constructs a Redis key with the environment prefix
func (kb *KeyBuilder) BuildKey(key string) string {
	return fmt.Sprintf("%s:%s", kb.prefix, key)
}

// GetPrefix returns the current environment prefix
func (kb *KeyBuilder) GetPrefix() string {
	return kb.prefix
}

// Poll key builders

func (kb *KeyBuilder) KeyPoll(pollID string) string {
	return kb.BuildKey(fmt.Sprintf(KeyPollByID, pollID))
}

func (kb *KeyBuilder) KeyPollResults(pollID string) string {
	return kb.BuildKey(fmt.Sprintf(KeyPollResultsByID, pollID))
}

func (kb *KeyBuilder) KeyPollList() string {
	return kb.BuildKey(KeyPollListAll)
}

// Vote key builders

func (kb *KeyBuilder) KeyUserVoted(pollID, userID string) string {
	return kb.BuildKey(fmt.Sprintf(KeyPollUserVoted, pollID, userID))
}
