package service

import "github.com/quizhub/quizhub-backend/internal/model"

// EvaluateQuiz grades a submission against a quiz's questions and returns
// the number of correct positions. It is a pure function: no state, no
// randomness, and it never fails. Unanswered or wrong-shaped entries
// grade as incorrect. The result is always within [0, len(questions)].
//
// Answers align to questions by position. Missing trailing answers grade
// as unanswered; extra trailing answers are ignored.
func EvaluateQuiz(questions []model.Question, answers []model.Answer) int {
	score := 0
	for i, q := range questions {
		answer := model.Unanswered
		if i < len(answers) {
			answer = answers[i]
		}
		if isCorrect(q, answer) {
			score++
		}
	}
	return score
}

// isCorrect matches the answer against the question's declared type, not
// the submitted shape.
func isCorrect(q model.Question, a model.Answer) bool {
	switch q.QuestionType {
	case model.QuestionTypeSingle, model.QuestionTypeTrueFalse:
		if a.Kind != model.AnswerSingle || len(q.CorrectAnswers) != 1 {
			return false
		}
		return a.Index == q.CorrectAnswers[0]

	case model.QuestionTypeMultiple:
		if a.Kind != model.AnswerMultiple {
			return false
		}
		return setsEqual(a.Indices, q.CorrectAnswers)

	default:
		return false
	}
}

// setsEqual compares two index slices as sets: duplicates collapse and
// order is irrelevant. Equality is all or nothing.
func setsEqual(submitted, correct []int) bool {
	submittedSet := make(map[int]struct{}, len(submitted))
	for _, i := range submitted {
		submittedSet[i] = struct{}{}
	}
	correctSet := make(map[int]struct{}, len(correct))
	for _, i := range correct {
		correctSet[i] = struct{}{}
	}
	if len(submittedSet) != len(correctSet) {
		return false
	}
	for i := range correctSet {
		if _, ok := submittedSet[i]; !ok {
			return false
		}
	}
	return true
}
