package config

import "fmt"

type CacheKeyStruct struct{}

func NewCacheKeyStruct() *CacheKeyStruct {
	return &CacheKeyStruct{}
}

// QuizPayloadKey returns the cache key for a quiz's sanitized payload.
// The cached value never contains correct answers.
func (r *CacheKeyStruct) QuizPayloadKey(quizID string) string {
	return fmt.Sprintf("quiz:%s:payload", quizID)
}

// QuizListKey returns the cache key for the public quiz summary list.
func (r *CacheKeyStruct) QuizListKey() string {
	return "quiz:list"
}

// LeaderboardChannel returns the Redis PubSub channel that score appends
// are announced on for the admin leaderboard stream.
func (r *CacheKeyStruct) LeaderboardChannel() string {
	return "leaderboard:updates"
}

var CacheKey = NewCacheKeyStruct()
