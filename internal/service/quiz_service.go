package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/quizhub/quizhub-backend/internal/config"
	"github.com/quizhub/quizhub-backend/internal/model"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
)

// Quiz errors.
var (
	ErrQuizNotFound = errors.New("quiz not found")
	// ErrQuizInvalid wraps the first violated quiz invariant. The wrapped
	// message names the violation for the API response.
	ErrQuizInvalid = errors.New("invalid quiz definition")
)

// QuizStore is the persistence seam for quizzes and their questions.
type QuizStore interface {
	Create(ctx context.Context, q *model.Quiz) error
	GetByID(ctx context.Context, id uuid.UUID) (*model.Quiz, error)
	ListSummaries(ctx context.Context) ([]model.QuizSummary, error)
	ListWithQuestions(ctx context.Context) ([]model.Quiz, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

// QuizService handles quiz authoring, retrieval, and the Redis cache of
// answer-free quiz payloads. The answer-bearing view stays server-side:
// it is only ever handed to the scoring path and the admin listing.
type QuizService struct {
	quizzes QuizStore
	rdb     *redis.Client
	ttl     time.Duration
	log     zerolog.Logger
}

// NewQuizService creates a new QuizService.
func NewQuizService(quizzes QuizStore, rdb *redis.Client, cfg *config.Config, log zerolog.Logger) *QuizService {
	return &QuizService{
		quizzes: quizzes,
		rdb:     rdb,
		ttl:     cfg.QuizCacheTTL,
		log:     log.With().Str("component", "quiz_service").Logger(),
	}
}

// Create validates the quiz draft against the question invariants and
// persists it. The first violated invariant is reported; nothing is
// written on failure.
func (s *QuizService) Create(ctx context.Context, req *model.CreateQuizRequest) (*model.Quiz, error) {
	quiz, err := buildQuiz(req)
	if err != nil {
		return nil, err
	}
	if err := s.quizzes.Create(ctx, quiz); err != nil {
		return nil, fmt.Errorf("create quiz: %w", err)
	}
	s.invalidateList(ctx)
	return quiz, nil
}

// ListSummaries returns the public quiz list, cache-aside through Redis.
func (s *QuizService) ListSummaries(ctx context.Context) ([]model.QuizSummary, error) {
	key := config.CacheKey.QuizListKey()

	cached, err := s.rdb.Get(ctx, key).Result()
	if err == nil {
		var summaries []model.QuizSummary
		if err := json.Unmarshal([]byte(cached), &summaries); err == nil {
			return summaries, nil
		}
		// Unreadable cache entry: drop it and fall through.
		s.rdb.Del(ctx, key)
	} else if !errors.Is(err, redis.Nil) {
		s.log.Warn().Err(err).Msg("quiz list cache read failed")
	}

	summaries, err := s.quizzes.ListSummaries(ctx)
	if err != nil {
		return nil, err
	}
	if summaries == nil {
		summaries = []model.QuizSummary{}
	}

	if raw, err := json.Marshal(summaries); err == nil {
		if err := s.rdb.Set(ctx, key, raw, s.ttl).Err(); err != nil {
			s.log.Warn().Err(err).Msg("quiz list cache write failed")
		}
	}
	return summaries, nil
}

// GetForTaking returns the answer-free payload for a quiz, cache-aside
// through Redis. This is the only quiz view the public API serves.
func (s *QuizService) GetForTaking(ctx context.Context, id uuid.UUID) (*model.QuizForTaking, error) {
	key := config.CacheKey.QuizPayloadKey(id.String())

	cached, err := s.rdb.Get(ctx, key).Result()
	if err == nil {
		payload := &model.QuizForTaking{}
		if err := json.Unmarshal([]byte(cached), payload); err == nil {
			return payload, nil
		}
		s.rdb.Del(ctx, key)
	} else if !errors.Is(err, redis.Nil) {
		s.log.Warn().Err(err).Msg("quiz payload cache read failed")
	}

	quiz, err := s.GetWithAnswers(ctx, id)
	if err != nil {
		return nil, err
	}
	payload := quiz.ForTaking()

	if raw, err := json.Marshal(payload); err == nil {
		if err := s.rdb.Set(ctx, key, raw, s.ttl).Err(); err != nil {
			s.log.Warn().Err(err).Msg("quiz payload cache write failed")
		}
	}
	return payload, nil
}

// GetWithAnswers returns the full quiz including correct answers. Callers
// are the scoring path and admin surfaces only; this view must never be
// serialized to the quiz-taking API.
func (s *QuizService) GetWithAnswers(ctx context.Context, id uuid.UUID) (*model.Quiz, error) {
	quiz, err := s.quizzes.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrQuizNotFound
		}
		return nil, err
	}
	return quiz, nil
}

// ListWithAnswers returns all quizzes with full question data for the
// admin listing.
func (s *QuizService) ListWithAnswers(ctx context.Context) ([]model.Quiz, error) {
	quizzes, err := s.quizzes.ListWithQuestions(ctx)
	if err != nil {
		return nil, err
	}
	if quizzes == nil {
		quizzes = []model.Quiz{}
	}
	return quizzes, nil
}

// Delete removes a quiz and cascades to its questions and scores, then
// drops the cached payload.
func (s *QuizService) Delete(ctx context.Context, id uuid.UUID) error {
	if err := s.quizzes.Delete(ctx, id); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return ErrQuizNotFound
		}
		return fmt.Errorf("delete quiz: %w", err)
	}
	if err := s.rdb.Del(ctx, config.CacheKey.QuizPayloadKey(id.String())).Err(); err != nil {
		s.log.Warn().Err(err).Str("quiz_id", id.String()).Msg("quiz payload cache invalidation failed")
	}
	s.invalidateList(ctx)
	return nil
}

func (s *QuizService) invalidateList(ctx context.Context) {
	if err := s.rdb.Del(ctx, config.CacheKey.QuizListKey()).Err(); err != nil {
		s.log.Warn().Err(err).Msg("quiz list cache invalidation failed")
	}
}

// buildQuiz checks the question invariants in request order and converts
// the draft into a model.Quiz. First violation wins.
func buildQuiz(req *model.CreateQuizRequest) (*model.Quiz, error) {
	if strings.TrimSpace(req.Title) == "" {
		return nil, fmt.Errorf("%w: title must not be empty", ErrQuizInvalid)
	}
	if len(req.Questions) == 0 {
		return nil, fmt.Errorf("%w: quiz must have at least one question", ErrQuizInvalid)
	}

	questions := make([]model.Question, len(req.Questions))
	for i, qr := range req.Questions {
		q, err := buildQuestion(i, qr)
		if err != nil {
			return nil, err
		}
		questions[i] = q
	}

	return &model.Quiz{
		Title:       strings.TrimSpace(req.Title),
		Description: strings.TrimSpace(req.Description),
		Questions:   questions,
	}, nil
}

func buildQuestion(i int, qr model.QuestionRequest) (model.Question, error) {
	var zero model.Question
	pos := i + 1

	if strings.TrimSpace(qr.QuestionText) == "" {
		return zero, fmt.Errorf("%w: question %d: text must not be empty", ErrQuizInvalid, pos)
	}

	qType := model.QuestionType(qr.QuestionType)
	if !qType.Valid() {
		return zero, fmt.Errorf("%w: question %d: unknown question type %q", ErrQuizInvalid, pos, qr.QuestionType)
	}

	if qType != model.QuestionTypeTrueFalse && len(qr.Options) == 0 {
		return zero, fmt.Errorf("%w: question %d: options must not be empty", ErrQuizInvalid, pos)
	}
	if len(qr.CorrectAnswers) == 0 {
		return zero, fmt.Errorf("%w: question %d: correct answers must not be empty", ErrQuizInvalid, pos)
	}

	switch qType {
	case model.QuestionTypeSingle, model.QuestionTypeTrueFalse:
		if len(qr.CorrectAnswers) != 1 {
			return zero, fmt.Errorf("%w: question %d: %s questions take exactly one correct answer", ErrQuizInvalid, pos, qType)
		}
	}

	bound := len(qr.Options)
	if qType == model.QuestionTypeTrueFalse {
		bound = len(model.TrueFalseOptions)
	}
	for _, idx := range qr.CorrectAnswers {
		if idx < 0 || idx >= bound {
			return zero, fmt.Errorf("%w: question %d: correct answer index %d out of range", ErrQuizInvalid, pos, idx)
		}
	}

	options := qr.Options
	if qType == model.QuestionTypeTrueFalse {
		// Truefalse questions use the fixed True/False pair; any client-
		// supplied options are discarded.
		options = nil
	}

	return model.Question{
		QuestionText:   strings.TrimSpace(qr.QuestionText),
		QuestionType:   qType,
		Options:        options,
		CorrectAnswers: qr.CorrectAnswers,
	}, nil
}
