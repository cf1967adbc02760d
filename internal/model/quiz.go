package model

import (
	"time"

	"github.com/google/uuid"
)

// QuestionType enumerates the supported question kinds.
type QuestionType string

const (
	QuestionTypeSingle    QuestionType = "single"
	QuestionTypeMultiple  QuestionType = "multiple"
	QuestionTypeTrueFalse QuestionType = "truefalse"
)

// Valid reports whether t is one of the known question types.
func (t QuestionType) Valid() bool {
	switch t {
	case QuestionTypeSingle, QuestionTypeMultiple, QuestionTypeTrueFalse:
		return true
	}
	return false
}

// TrueFalseOptions are the fixed options of a truefalse question:
// True is index 0, False is index 1.
var TrueFalseOptions = []string{"True", "False"}

// Question is a single prompt embedded in a quiz. Questions have no
// lifecycle of their own; a question exists only as part of exactly one quiz.
type Question struct {
	QuestionText string       `json:"question_text"`
	QuestionType QuestionType `json:"question_type"`
	// Options is empty for truefalse questions, which use the fixed
	// True/False pair.
	Options []string `json:"options"`
	// CorrectAnswers holds indices into Options. Exactly one element for
	// single and truefalse, one or more for multiple.
	CorrectAnswers []int `json:"correct_answers"`
}

// Quiz is a named, ordered collection of questions.
type Quiz struct {
	ID          uuid.UUID  `json:"id"`
	Title       string     `json:"title"`
	Description string     `json:"description"`
	Questions   []Question `json:"questions"`
	CreatedAt   time.Time  `json:"created_at"`
}

// QuizSummary is the public listing view: no question bodies, no answers.
type QuizSummary struct {
	ID            uuid.UUID `json:"id"`
	Title         string    `json:"title"`
	Description   string    `json:"description"`
	QuestionCount int       `json:"question_count"`
}

// QuestionForTaking is a question as served to quiz takers. It never
// carries the correct answer set.
type QuestionForTaking struct {
	QuestionText string       `json:"question_text"`
	QuestionType QuestionType `json:"question_type"`
	Options      []string     `json:"options"`
}

// QuizForTaking is the answer-free quiz payload served on the public API
// and cached in Redis.
type QuizForTaking struct {
	ID          uuid.UUID           `json:"id"`
	Title       string              `json:"title"`
	Description string              `json:"description"`
	Questions   []QuestionForTaking `json:"questions"`
}

// ForTaking strips the correct answers from a quiz. Truefalse questions
// get the fixed option pair so clients can render them uniformly.
func (q *Quiz) ForTaking() *QuizForTaking {
	out := &QuizForTaking{
		ID:          q.ID,
		Title:       q.Title,
		Description: q.Description,
		Questions:   make([]QuestionForTaking, len(q.Questions)),
	}
	for i, question := range q.Questions {
		opts := question.Options
		if question.QuestionType == QuestionTypeTrueFalse {
			opts = TrueFalseOptions
		}
		out.Questions[i] = QuestionForTaking{
			QuestionText: question.QuestionText,
			QuestionType: question.QuestionType,
			Options:      opts,
		}
	}
	return out
}

// Summary reduces a quiz to its public listing view.
func (q *Quiz) Summary() QuizSummary {
	return QuizSummary{
		ID:            q.ID,
		Title:         q.Title,
		Description:   q.Description,
		QuestionCount: len(q.Questions),
	}
}

// CreateQuizRequest is the admin payload for authoring a quiz.
// Structural checks happen at binding time; the question invariants are
// enforced by the quiz service before persistence.
type CreateQuizRequest struct {
	Title       string            `json:"title" binding:"required,min=1,max=255"`
	Description string            `json:"description" binding:"max=2000"`
	Questions   []QuestionRequest `json:"questions" binding:"required,min=1,dive"`
}

// QuestionRequest is one question inside a CreateQuizRequest.
type QuestionRequest struct {
	QuestionText   string   `json:"question_text" binding:"required,min=1,max=2000"`
	QuestionType   string   `json:"question_type" binding:"required,oneof=single multiple truefalse"`
	Options        []string `json:"options"`
	CorrectAnswers []int    `json:"correct_answers"`
}

// SubmitRequest carries a taker's answers, aligned by position to the
// quiz's question order.
type SubmitRequest struct {
	Answers []Answer `json:"answers" binding:"required"`
}

// SubmitResult is returned after grading a submission.
type SubmitResult struct {
	Score int `json:"score"`
	Total int `json:"total"`
}
