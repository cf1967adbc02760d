package model

import (
	"bytes"
	"encoding/json"
)

// AnswerKind tags the shape of a submitted answer.
type AnswerKind int

const (
	// AnswerUnanswered marks a skipped, null, or unrecognizably shaped
	// answer. It always grades as incorrect, never as an error.
	AnswerUnanswered AnswerKind = iota
	// AnswerSingle is one selected option index.
	AnswerSingle
	// AnswerMultiple is a set of selected option indices.
	AnswerMultiple
)

// Answer is a tagged variant over the wire shapes a quiz client may send
// per question: a bare number, an array of numbers, or null/absent.
// The scoring engine matches the answer against the question's declared
// type, so a wrong-shaped answer simply scores zero.
type Answer struct {
	Kind    AnswerKind
	Index   int   // set when Kind == AnswerSingle
	Indices []int // set when Kind == AnswerMultiple
}

// Unanswered is the zero answer.
var Unanswered = Answer{Kind: AnswerUnanswered}

// SingleAnswer builds a single-index answer.
func SingleAnswer(index int) Answer {
	return Answer{Kind: AnswerSingle, Index: index}
}

// MultipleAnswer builds a multi-index answer.
func MultipleAnswer(indices ...int) Answer {
	return Answer{Kind: AnswerMultiple, Indices: indices}
}

// UnmarshalJSON decodes the three accepted wire shapes. Anything else
// (strings, objects, fractional numbers) decodes as Unanswered: grading
// must not fail on malformed entries.
func (a *Answer) UnmarshalJSON(data []byte) error {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		*a = Unanswered
		return nil
	}

	if trimmed[0] == '[' {
		var indices []int
		if err := json.Unmarshal(trimmed, &indices); err != nil {
			*a = Unanswered
			return nil
		}
		*a = Answer{Kind: AnswerMultiple, Indices: indices}
		return nil
	}

	var n float64
	if err := json.Unmarshal(trimmed, &n); err != nil || n != float64(int(n)) {
		*a = Unanswered
		return nil
	}
	*a = Answer{Kind: AnswerSingle, Index: int(n)}
	return nil
}

// MarshalJSON emits the same wire shapes UnmarshalJSON accepts.
func (a Answer) MarshalJSON() ([]byte, error) {
	switch a.Kind {
	case AnswerSingle:
		return json.Marshal(a.Index)
	case AnswerMultiple:
		return json.Marshal(a.Indices)
	default:
		return []byte("null"), nil
	}
}
