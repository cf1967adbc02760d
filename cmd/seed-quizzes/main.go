package main

import (
	"context"
	"fmt"

	"github.com/quizhub/quizhub-backend/internal/config"
	"github.com/quizhub/quizhub-backend/internal/database"
	"github.com/quizhub/quizhub-backend/internal/logger"
	"github.com/quizhub/quizhub-backend/internal/model"
	"github.com/quizhub/quizhub-backend/internal/repository"
	"github.com/quizhub/quizhub-backend/internal/service"
)

// Seeds a handful of demo quizzes for local development. Drafts go
// through the same invariant validation the admin API uses.
func main() {
	cfg := config.Load()
	log := logger.Setup(cfg.LogLevel, cfg.LogFormat)

	ctx := context.Background()

	pool, err := database.NewPostgresPool(ctx, cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to PostgreSQL")
	}
	defer pool.Close()

	rdb, err := database.NewRedisClient(ctx, cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to Redis")
	}
	defer rdb.Close()

	quizRepo := repository.NewQuizRepository(pool)
	quizService := service.NewQuizService(quizRepo, rdb, cfg, log)

	for _, draft := range demoQuizzes() {
		quiz, err := quizService.Create(ctx, &draft)
		if err != nil {
			log.Fatal().Err(err).Str("title", draft.Title).Msg("Seeding failed")
		}
		fmt.Printf("Seeded quiz %q (%s) with %d questions\n", quiz.Title, quiz.ID, len(quiz.Questions))
	}
}

func demoQuizzes() []model.CreateQuizRequest {
	return []model.CreateQuizRequest{
		{
			Title:       "Go Basics",
			Description: "Syntax and core concepts of the Go language.",
			Questions: []model.QuestionRequest{
				{
					QuestionText:   "Which keyword declares a new variable with inferred type?",
					QuestionType:   "single",
					Options:        []string{"var", ":=", "let", "def"},
					CorrectAnswers: []int{1},
				},
				{
					QuestionText:   "Which of these are built-in Go types?",
					QuestionType:   "multiple",
					Options:        []string{"rune", "decimal", "complex128", "char"},
					CorrectAnswers: []int{0, 2},
				},
				{
					QuestionText:   "A nil map can be read from without panicking.",
					QuestionType:   "truefalse",
					CorrectAnswers: []int{0},
				},
			},
		},
		{
			Title:       "HTTP Fundamentals",
			Description: "Status codes, verbs, and headers.",
			Questions: []model.QuestionRequest{
				{
					QuestionText:   "Which status code means Created?",
					QuestionType:   "single",
					Options:        []string{"200", "201", "204", "301"},
					CorrectAnswers: []int{1},
				},
				{
					QuestionText:   "PUT requests are idempotent.",
					QuestionType:   "truefalse",
					CorrectAnswers: []int{0},
				},
			},
		},
	}
}
