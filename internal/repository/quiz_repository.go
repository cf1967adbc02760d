package repository

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/quizhub/quizhub-backend/internal/model"
)

// QuizRepository handles quiz and question data access. Questions are
// owned by their quiz: they are written and deleted only alongside it.
type QuizRepository struct {
	pool *pgxpool.Pool
}

// NewQuizRepository creates a new QuizRepository.
func NewQuizRepository(pool *pgxpool.Pool) *QuizRepository {
	return &QuizRepository{pool: pool}
}

// Create inserts a quiz and its questions in one transaction.
func (r *QuizRepository) Create(ctx context.Context, q *model.Quiz) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback(ctx)

	err = tx.QueryRow(ctx,
		`INSERT INTO quizzes (title, description)
		 VALUES ($1, $2)
		 RETURNING id, created_at`,
		q.Title, q.Description,
	).Scan(&q.ID, &q.CreatedAt)
	if err != nil {
		return fmt.Errorf("insert quiz: %w", err)
	}

	for i, question := range q.Questions {
		options, err := json.Marshal(question.Options)
		if err != nil {
			return fmt.Errorf("marshal options: %w", err)
		}
		correct, err := json.Marshal(question.CorrectAnswers)
		if err != nil {
			return fmt.Errorf("marshal correct answers: %w", err)
		}
		_, err = tx.Exec(ctx,
			`INSERT INTO questions (quiz_id, question_text, question_type, options, correct_answers, order_num)
			 VALUES ($1, $2, $3, $4, $5, $6)`,
			q.ID, question.QuestionText, question.QuestionType, options, correct, i,
		)
		if err != nil {
			return fmt.Errorf("insert question %d: %w", i, err)
		}
	}

	return tx.Commit(ctx)
}

// GetByID retrieves a quiz with its questions in stored order.
// Returns pgx.ErrNoRows if the quiz does not exist.
func (r *QuizRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.Quiz, error) {
	q := &model.Quiz{}
	err := r.pool.QueryRow(ctx,
		`SELECT id, title, description, created_at
		 FROM quizzes WHERE id = $1`, id,
	).Scan(&q.ID, &q.Title, &q.Description, &q.CreatedAt)
	if err != nil {
		return nil, err
	}

	questions, err := r.loadQuestions(ctx, id)
	if err != nil {
		return nil, err
	}
	q.Questions = questions
	return q, nil
}

// ListSummaries returns all quizzes as public summaries, newest first.
func (r *QuizRepository) ListSummaries(ctx context.Context) ([]model.QuizSummary, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT q.id, q.title, q.description, COUNT(qs.id)
		 FROM quizzes q
		 LEFT JOIN questions qs ON qs.quiz_id = q.id
		 GROUP BY q.id, q.title, q.description, q.created_at
		 ORDER BY q.created_at DESC`,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var summaries []model.QuizSummary
	for rows.Next() {
		var s model.QuizSummary
		if err := rows.Scan(&s.ID, &s.Title, &s.Description, &s.QuestionCount); err != nil {
			return nil, err
		}
		summaries = append(summaries, s)
	}
	return summaries, rows.Err()
}

// ListWithQuestions returns all quizzes with full question data, newest
// first. Admin listing only: question rows include correct answers.
func (r *QuizRepository) ListWithQuestions(ctx context.Context) ([]model.Quiz, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT id, title, description, created_at
		 FROM quizzes ORDER BY created_at DESC`,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var quizzes []model.Quiz
	for rows.Next() {
		var q model.Quiz
		if err := rows.Scan(&q.ID, &q.Title, &q.Description, &q.CreatedAt); err != nil {
			return nil, err
		}
		quizzes = append(quizzes, q)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	for i := range quizzes {
		questions, err := r.loadQuestions(ctx, quizzes[i].ID)
		if err != nil {
			return nil, err
		}
		quizzes[i].Questions = questions
	}
	return quizzes, nil
}

// Delete removes a quiz, its questions, and every score referencing it in
// one transaction. Scores go first so a partial failure can only leave
// orphaned scores, never a quiz pointing at missing data.
// Returns pgx.ErrNoRows if the quiz does not exist.
func (r *QuizRepository) Delete(ctx context.Context, id uuid.UUID) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback(ctx)

	if _, err := tx.Exec(ctx, `DELETE FROM scores WHERE quiz_id = $1`, id); err != nil {
		return fmt.Errorf("delete scores: %w", err)
	}
	if _, err := tx.Exec(ctx, `DELETE FROM questions WHERE quiz_id = $1`, id); err != nil {
		return fmt.Errorf("delete questions: %w", err)
	}

	tag, err := tx.Exec(ctx, `DELETE FROM quizzes WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete quiz: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}

	return tx.Commit(ctx)
}

func (r *QuizRepository) loadQuestions(ctx context.Context, quizID uuid.UUID) ([]model.Question, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT question_text, question_type, options, correct_answers
		 FROM questions WHERE quiz_id = $1
		 ORDER BY order_num`, quizID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var questions []model.Question
	for rows.Next() {
		var q model.Question
		var options, correct []byte
		if err := rows.Scan(&q.QuestionText, &q.QuestionType, &options, &correct); err != nil {
			return nil, err
		}
		if err := json.Unmarshal(options, &q.Options); err != nil {
			return nil, fmt.Errorf("unmarshal options: %w", err)
		}
		if err := json.Unmarshal(correct, &q.CorrectAnswers); err != nil {
			return nil, fmt.Errorf("unmarshal correct answers: %w", err)
		}
		questions = append(questions, q)
	}
	return questions, rows.Err()
}
