package service

import (
	"context"
	"sort"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/quizhub/quizhub-backend/internal/config"
	"github.com/quizhub/quizhub-backend/internal/model"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
)

// In-memory stand-ins for the pgx repositories, mirroring their contract
// (including pgx.ErrNoRows on missing rows and the score cascade).

type fakeQuizStore struct {
	quizzes map[uuid.UUID]*model.Quiz
	order   []uuid.UUID
	ledger  *fakeScoreLedger // cascade target, may be nil
}

func newFakeQuizStore() *fakeQuizStore {
	return &fakeQuizStore{quizzes: make(map[uuid.UUID]*model.Quiz)}
}

func (f *fakeQuizStore) Create(_ context.Context, q *model.Quiz) error {
	q.ID = uuid.New()
	q.CreatedAt = time.Now()
	stored := *q
	stored.Questions = append([]model.Question(nil), q.Questions...)
	f.quizzes[q.ID] = &stored
	f.order = append(f.order, q.ID)
	return nil
}

func (f *fakeQuizStore) GetByID(_ context.Context, id uuid.UUID) (*model.Quiz, error) {
	stored, ok := f.quizzes[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	out := *stored
	out.Questions = append([]model.Question(nil), stored.Questions...)
	return &out, nil
}

func (f *fakeQuizStore) ListSummaries(_ context.Context) ([]model.QuizSummary, error) {
	var summaries []model.QuizSummary
	for i := len(f.order) - 1; i >= 0; i-- {
		if q, ok := f.quizzes[f.order[i]]; ok {
			summaries = append(summaries, q.Summary())
		}
	}
	return summaries, nil
}

func (f *fakeQuizStore) ListWithQuestions(_ context.Context) ([]model.Quiz, error) {
	var quizzes []model.Quiz
	for i := len(f.order) - 1; i >= 0; i-- {
		if q, ok := f.quizzes[f.order[i]]; ok {
			quizzes = append(quizzes, *q)
		}
	}
	return quizzes, nil
}

func (f *fakeQuizStore) Delete(_ context.Context, id uuid.UUID) error {
	if _, ok := f.quizzes[id]; !ok {
		return pgx.ErrNoRows
	}
	delete(f.quizzes, id)
	if f.ledger != nil {
		f.ledger.dropQuiz(id)
	}
	return nil
}

type ledgerRecord struct {
	entry model.LeaderboardEntry
	user  int
}

type fakeScoreLedger struct {
	records []ledgerRecord
	users   map[int]string
	titles  map[uuid.UUID]string
	clock   time.Time
}

func newFakeScoreLedger() *fakeScoreLedger {
	return &fakeScoreLedger{
		users:  make(map[int]string),
		titles: make(map[uuid.UUID]string),
		clock:  time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC),
	}
}

func (f *fakeScoreLedger) Append(_ context.Context, s *model.Score) error {
	s.ID = uuid.New()
	f.clock = f.clock.Add(time.Second)
	s.CreatedAt = f.clock
	f.records = append(f.records, ledgerRecord{
		entry: model.LeaderboardEntry{
			Username:  f.users[s.UserID],
			Score:     s.Score,
			Total:     s.Total,
			QuizID:    s.QuizID,
			CreatedAt: s.CreatedAt,
		},
		user: s.UserID,
	})
	return nil
}

func (f *fakeScoreLedger) Leaderboard(_ context.Context, quizID *uuid.UUID, limit int) ([]model.LeaderboardEntry, error) {
	var entries []model.LeaderboardEntry
	for _, r := range f.records {
		if quizID != nil && r.entry.QuizID != *quizID {
			continue
		}
		entries = append(entries, r.entry)
	}
	sort.SliceStable(entries, func(i, j int) bool {
		if entries[i].Score != entries[j].Score {
			return entries[i].Score > entries[j].Score
		}
		return entries[i].CreatedAt.Before(entries[j].CreatedAt)
	})
	if len(entries) > limit {
		entries = entries[:limit]
	}
	return entries, nil
}

func (f *fakeScoreLedger) ListAll(_ context.Context, limit, offset int) ([]model.ScoreDetail, int, error) {
	var details []model.ScoreDetail
	for i := len(f.records) - 1; i >= 0; i-- {
		r := f.records[i]
		details = append(details, model.ScoreDetail{
			Username:  r.entry.Username,
			QuizTitle: f.titles[r.entry.QuizID],
			Score:     r.entry.Score,
			Total:     r.entry.Total,
			CreatedAt: r.entry.CreatedAt,
		})
	}
	total := len(details)
	if offset >= total {
		return nil, total, nil
	}
	details = details[offset:]
	if len(details) > limit {
		details = details[:limit]
	}
	return details, total, nil
}

func (f *fakeScoreLedger) dropQuiz(id uuid.UUID) {
	kept := f.records[:0]
	for _, r := range f.records {
		if r.entry.QuizID != id {
			kept = append(kept, r)
		}
	}
	f.records = kept
}

func testRedis(t *testing.T) *redis.Client {
	t.Helper()
	srv := miniredis.RunT(t)
	return redis.NewClient(&redis.Options{Addr: srv.Addr()})
}

func testQuizService(t *testing.T, store QuizStore) *QuizService {
	t.Helper()
	cfg := &config.Config{QuizCacheTTL: time.Minute}
	return NewQuizService(store, testRedis(t), cfg, zerolog.Nop())
}
