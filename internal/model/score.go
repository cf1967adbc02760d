package model

import (
	"time"

	"github.com/google/uuid"
)

// Score is one attempt record: the persisted outcome of one user's one
// submission against one quiz. Immutable after creation; multiple attempts
// by the same user each produce an independent record.
type Score struct {
	ID        uuid.UUID `json:"id"`
	UserID    int       `json:"user_id"`
	QuizID    uuid.UUID `json:"quiz_id"`
	Score     int       `json:"score"`
	Total     int       `json:"total"`
	CreatedAt time.Time `json:"created_at"`
}

// LeaderboardEntry is a score joined with its user's display name.
// Entries are ordered by score descending, created_at ascending on ties.
type LeaderboardEntry struct {
	Username  string    `json:"username"`
	Score     int       `json:"score"`
	Total     int       `json:"total"`
	QuizID    uuid.UUID `json:"quiz_id"`
	CreatedAt time.Time `json:"created_at"`
}

// ScoreDetail is a fully resolved attempt record for the admin scores
// view: username and quiz title are joined at query time, not lazily.
type ScoreDetail struct {
	Username  string    `json:"username"`
	QuizTitle string    `json:"quiz_title"`
	Score     int       `json:"score"`
	Total     int       `json:"total"`
	CreatedAt time.Time `json:"created_at"`
}
