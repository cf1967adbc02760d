package service

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
	"github.com/quizhub/quizhub-backend/internal/config"
	"github.com/quizhub/quizhub-backend/internal/model"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
)

// LeaderboardLimit caps ranked queries at the top 20 attempts.
const LeaderboardLimit = 20

// Attempt listing page bounds.
const (
	DefaultScoresPerPage = 25
	MaxScoresPerPage     = 100
)

// ScoreLedger is the persistence seam for attempt records. Insert-only:
// the sole delete path is the quiz cascade.
type ScoreLedger interface {
	Append(ctx context.Context, s *model.Score) error
	Leaderboard(ctx context.Context, quizID *uuid.UUID, limit int) ([]model.LeaderboardEntry, error)
	ListAll(ctx context.Context, limit, offset int) ([]model.ScoreDetail, int, error)
}

// ScoreUpdate is the message published on the leaderboard channel after
// every appended attempt.
type ScoreUpdate struct {
	UserID int       `json:"user_id"`
	QuizID uuid.UUID `json:"quiz_id"`
	Score  int       `json:"score"`
	Total  int       `json:"total"`
}

// ScoreService grades submissions and serves ranked score queries.
type ScoreService struct {
	scores  ScoreLedger
	quizzes *QuizService
	rdb     *redis.Client
	log     zerolog.Logger
}

// NewScoreService creates a new ScoreService.
func NewScoreService(scores ScoreLedger, quizzes *QuizService, rdb *redis.Client, log zerolog.Logger) *ScoreService {
	return &ScoreService{
		scores:  scores,
		quizzes: quizzes,
		rdb:     rdb,
		log:     log.With().Str("component", "score_service").Logger(),
	}
}

// Submit grades the answers against the stored quiz definition and appends
// one attempt record. Repeat submissions are allowed; each produces an
// independent record.
func (s *ScoreService) Submit(ctx context.Context, userID int, quizID uuid.UUID, answers []model.Answer) (*model.SubmitResult, error) {
	quiz, err := s.quizzes.GetWithAnswers(ctx, quizID)
	if err != nil {
		return nil, err
	}

	result := &model.SubmitResult{
		Score: EvaluateQuiz(quiz.Questions, answers),
		Total: len(quiz.Questions),
	}

	record := &model.Score{
		UserID: userID,
		QuizID: quizID,
		Score:  result.Score,
		Total:  result.Total,
	}
	if err := s.scores.Append(ctx, record); err != nil {
		return nil, fmt.Errorf("append score: %w", err)
	}

	s.publishUpdate(ctx, record)
	return result, nil
}

// Leaderboard returns the top attempts, optionally filtered to one quiz.
func (s *ScoreService) Leaderboard(ctx context.Context, quizID *uuid.UUID) ([]model.LeaderboardEntry, error) {
	entries, err := s.scores.Leaderboard(ctx, quizID, LeaderboardLimit)
	if err != nil {
		return nil, err
	}
	if entries == nil {
		entries = []model.LeaderboardEntry{}
	}
	return entries, nil
}

// ListAll returns one page of attempt records resolved with username and
// quiz title, newest first, along with the total record count. Page and
// perPage are clamped to sane bounds rather than rejected.
func (s *ScoreService) ListAll(ctx context.Context, page, perPage int) ([]model.ScoreDetail, int, error) {
	if page < 1 {
		page = 1
	}
	if perPage < 1 {
		perPage = DefaultScoresPerPage
	}
	if perPage > MaxScoresPerPage {
		perPage = MaxScoresPerPage
	}

	details, total, err := s.scores.ListAll(ctx, perPage, (page-1)*perPage)
	if err != nil {
		return nil, 0, err
	}
	if details == nil {
		details = []model.ScoreDetail{}
	}
	return details, total, nil
}

// publishUpdate announces a new attempt on the leaderboard channel so the
// admin stream can push a fresh board. Best effort: a publish failure is
// logged, never surfaced to the submitter.
func (s *ScoreService) publishUpdate(ctx context.Context, record *model.Score) {
	raw, err := json.Marshal(ScoreUpdate{
		UserID: record.UserID,
		QuizID: record.QuizID,
		Score:  record.Score,
		Total:  record.Total,
	})
	if err != nil {
		return
	}
	if err := s.rdb.Publish(ctx, config.CacheKey.LeaderboardChannel(), raw).Err(); err != nil {
		s.log.Warn().Err(err).Msg("leaderboard publish failed")
	}
}
