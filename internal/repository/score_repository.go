package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/quizhub/quizhub-backend/internal/model"
)

// ScoreRepository handles attempt record data access. Scores are
// insert-only; the only delete path is the quiz cascade in QuizRepository.
type ScoreRepository struct {
	pool *pgxpool.Pool
}

// NewScoreRepository creates a new ScoreRepository.
func NewScoreRepository(pool *pgxpool.Pool) *ScoreRepository {
	return &ScoreRepository{pool: pool}
}

// Append inserts one attempt record.
func (r *ScoreRepository) Append(ctx context.Context, s *model.Score) error {
	return r.pool.QueryRow(ctx,
		`INSERT INTO scores (user_id, quiz_id, score, total)
		 VALUES ($1, $2, $3, $4)
		 RETURNING id, created_at`,
		s.UserID, s.QuizID, s.Score, s.Total,
	).Scan(&s.ID, &s.CreatedAt)
}

// Leaderboard returns the top attempts joined with usernames, ordered by
// score descending with created_at ascending as the tie-break. Pass a
// non-nil quizID to restrict the board to a single quiz.
func (r *ScoreRepository) Leaderboard(ctx context.Context, quizID *uuid.UUID, limit int) ([]model.LeaderboardEntry, error) {
	query := `SELECT u.username, s.score, s.total, s.quiz_id, s.created_at
	          FROM scores s
	          JOIN users u ON u.id = s.user_id`
	var args []interface{}
	if quizID != nil {
		query += ` WHERE s.quiz_id = $1`
		args = append(args, *quizID)
	}
	query += ` ORDER BY s.score DESC, s.created_at ASC LIMIT $` + itoa(len(args)+1)
	args = append(args, limit)

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var entries []model.LeaderboardEntry
	for rows.Next() {
		var e model.LeaderboardEntry
		if err := rows.Scan(&e.Username, &e.Score, &e.Total, &e.QuizID, &e.CreatedAt); err != nil {
			return nil, err
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

// ListAll returns one page of attempt records resolved with username and
// quiz title, newest first, plus the total attempt count.
func (r *ScoreRepository) ListAll(ctx context.Context, limit, offset int) ([]model.ScoreDetail, int, error) {
	var total int
	if err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM scores`).Scan(&total); err != nil {
		return nil, 0, err
	}

	rows, err := r.pool.Query(ctx,
		`SELECT u.username, q.title, s.score, s.total, s.created_at
		 FROM scores s
		 JOIN users u ON u.id = s.user_id
		 JOIN quizzes q ON q.id = s.quiz_id
		 ORDER BY s.created_at DESC
		 LIMIT $1 OFFSET $2`,
		limit, offset,
	)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var details []model.ScoreDetail
	for rows.Next() {
		var d model.ScoreDetail
		if err := rows.Scan(&d.Username, &d.QuizTitle, &d.Score, &d.Total, &d.CreatedAt); err != nil {
			return nil, 0, err
		}
		details = append(details, d)
	}
	return details, total, rows.Err()
}

func itoa(n int) string {
	// placeholder indices only ever reach single digits here
	return string(rune('0' + n))
}
