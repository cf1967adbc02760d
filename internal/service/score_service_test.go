package service

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/quizhub/quizhub-backend/internal/model"
	"github.com/rs/zerolog"
)

type scoreFixture struct {
	store  *fakeQuizStore
	ledger *fakeScoreLedger
	quiz   *QuizService
	scores *ScoreService
}

func newScoreFixture(t *testing.T) *scoreFixture {
	t.Helper()
	store := newFakeQuizStore()
	ledger := newFakeScoreLedger()
	store.ledger = ledger
	rdb := testRedis(t)
	quiz := testQuizService(t, store)
	return &scoreFixture{
		store:  store,
		ledger: ledger,
		quiz:   quiz,
		scores: NewScoreService(ledger, quiz, rdb, zerolog.Nop()),
	}
}

func (f *scoreFixture) createQuiz(t *testing.T) uuid.UUID {
	t.Helper()
	created, err := f.quiz.Create(context.Background(), validDraft())
	if err != nil {
		t.Fatalf("create quiz: %v", err)
	}
	f.ledger.titles[created.ID] = created.Title
	return created.ID
}

func TestSubmitRecordsAttempt(t *testing.T) {
	ctx := context.Background()
	f := newScoreFixture(t)
	f.ledger.users[7] = "alice"
	quizID := f.createQuiz(t)

	result, err := f.scores.Submit(ctx, 7, quizID, []model.Answer{
		model.SingleAnswer(0),
		model.MultipleAnswer(2, 0),
		model.SingleAnswer(0),
	})
	if err != nil {
		t.Fatalf("submit: %v", err)
	}
	if result.Score != 3 || result.Total != 3 {
		t.Fatalf("got %d/%d, want 3/3", result.Score, result.Total)
	}

	// Repeat attempts each append an independent record.
	if _, err := f.scores.Submit(ctx, 7, quizID, nil); err != nil {
		t.Fatalf("second submit: %v", err)
	}
	if len(f.ledger.records) != 2 {
		t.Fatalf("expected 2 attempt records, got %d", len(f.ledger.records))
	}
}

func TestSubmitMissingQuiz(t *testing.T) {
	f := newScoreFixture(t)
	_, err := f.scores.Submit(context.Background(), 1, uuid.New(), nil)
	if !errors.Is(err, ErrQuizNotFound) {
		t.Fatalf("expected ErrQuizNotFound, got %v", err)
	}
	if len(f.ledger.records) != 0 {
		t.Fatal("no record may be appended for a missing quiz")
	}
}

func TestLeaderboardOrderingAndCap(t *testing.T) {
	ctx := context.Background()
	f := newScoreFixture(t)
	quizID := f.createQuiz(t)

	// 25 users submit; user i answers the first question onward correctly
	// in a pattern that yields score i%4.
	answerSets := [][]model.Answer{
		nil,
		{model.SingleAnswer(0)},
		{model.SingleAnswer(0), model.MultipleAnswer(0, 2)},
		{model.SingleAnswer(0), model.MultipleAnswer(0, 2), model.SingleAnswer(0)},
	}
	for i := 1; i <= 25; i++ {
		f.ledger.users[i] = "user" + string(rune('a'+i%26))
		if _, err := f.scores.Submit(ctx, i, quizID, answerSets[i%4]); err != nil {
			t.Fatalf("submit %d: %v", i, err)
		}
	}

	entries, err := f.scores.Leaderboard(ctx, nil)
	if err != nil {
		t.Fatalf("leaderboard: %v", err)
	}
	if len(entries) != LeaderboardLimit {
		t.Fatalf("expected %d entries, got %d", LeaderboardLimit, len(entries))
	}
	for i := 1; i < len(entries); i++ {
		prev, cur := entries[i-1], entries[i]
		if cur.Score > prev.Score {
			t.Fatalf("entries not ordered by score desc at %d: %d before %d", i, prev.Score, cur.Score)
		}
		if cur.Score == prev.Score && cur.CreatedAt.Before(prev.CreatedAt) {
			t.Fatalf("tie at %d not broken by created_at asc", i)
		}
	}
}

func TestLeaderboardQuizFilter(t *testing.T) {
	ctx := context.Background()
	f := newScoreFixture(t)
	f.ledger.users[1] = "alice"
	first := f.createQuiz(t)
	second := f.createQuiz(t)

	if _, err := f.scores.Submit(ctx, 1, first, nil); err != nil {
		t.Fatalf("submit: %v", err)
	}
	if _, err := f.scores.Submit(ctx, 1, second, nil); err != nil {
		t.Fatalf("submit: %v", err)
	}

	entries, err := f.scores.Leaderboard(ctx, &first)
	if err != nil {
		t.Fatalf("leaderboard: %v", err)
	}
	if len(entries) != 1 || entries[0].QuizID != first {
		t.Fatalf("filter returned %+v", entries)
	}
}

func TestDeleteQuizCascadesScores(t *testing.T) {
	ctx := context.Background()
	f := newScoreFixture(t)
	f.ledger.users[1] = "alice"
	doomed := f.createQuiz(t)
	kept := f.createQuiz(t)

	if _, err := f.scores.Submit(ctx, 1, doomed, nil); err != nil {
		t.Fatalf("submit: %v", err)
	}
	if _, err := f.scores.Submit(ctx, 1, kept, nil); err != nil {
		t.Fatalf("submit: %v", err)
	}

	if err := f.quiz.Delete(ctx, doomed); err != nil {
		t.Fatalf("delete: %v", err)
	}

	entries, err := f.scores.Leaderboard(ctx, nil)
	if err != nil {
		t.Fatalf("leaderboard: %v", err)
	}
	for _, e := range entries {
		if e.QuizID == doomed {
			t.Fatalf("leaderboard still references deleted quiz: %+v", e)
		}
	}
	if len(entries) != 1 {
		t.Fatalf("expected 1 surviving record, got %d", len(entries))
	}
}

func TestListAllResolvesNames(t *testing.T) {
	ctx := context.Background()
	f := newScoreFixture(t)
	f.ledger.users[1] = "alice"
	quizID := f.createQuiz(t)

	if _, err := f.scores.Submit(ctx, 1, quizID, nil); err != nil {
		t.Fatalf("submit: %v", err)
	}

	details, total, err := f.scores.ListAll(ctx, 1, 10)
	if err != nil {
		t.Fatalf("list all: %v", err)
	}
	if total != 1 || len(details) != 1 {
		t.Fatalf("expected 1 detail (total 1), got %d (total %d)", len(details), total)
	}
	if details[0].Username != "alice" || details[0].QuizTitle != "Capitals" {
		t.Fatalf("names not resolved: %+v", details[0])
	}
}

func TestListAllPaginates(t *testing.T) {
	ctx := context.Background()
	f := newScoreFixture(t)
	f.ledger.users[1] = "alice"
	quizID := f.createQuiz(t)

	for i := 0; i < 5; i++ {
		if _, err := f.scores.Submit(ctx, 1, quizID, nil); err != nil {
			t.Fatalf("submit %d: %v", i, err)
		}
	}

	page1, total, err := f.scores.ListAll(ctx, 1, 2)
	if err != nil {
		t.Fatalf("page 1: %v", err)
	}
	if total != 5 || len(page1) != 2 {
		t.Fatalf("page 1: got %d entries (total %d), want 2 (total 5)", len(page1), total)
	}

	page3, _, err := f.scores.ListAll(ctx, 3, 2)
	if err != nil {
		t.Fatalf("page 3: %v", err)
	}
	if len(page3) != 1 {
		t.Fatalf("page 3: got %d entries, want 1", len(page3))
	}

	// Out-of-range pages come back empty, not as an error.
	empty, _, err := f.scores.ListAll(ctx, 9, 2)
	if err != nil {
		t.Fatalf("page 9: %v", err)
	}
	if len(empty) != 0 {
		t.Fatalf("page 9: got %d entries, want 0", len(empty))
	}

	// Garbage bounds are clamped rather than rejected.
	clamped, _, err := f.scores.ListAll(ctx, 0, -1)
	if err != nil {
		t.Fatalf("clamped: %v", err)
	}
	if len(clamped) != 5 {
		t.Fatalf("clamped: got %d entries, want 5", len(clamped))
	}
}
