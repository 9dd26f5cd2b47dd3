package service

import (
	"strconv"
	"strings"

	"mathmemo-backend/internal/model"
)

const AnswerTypeMultipleChoice = "multiple_choice"

// SubmittedAnswerString normalizes the submitted answer to the string that
// is compared against the canonical answer and stored on the session.
//
// Multiple choice: the client sends a zero-based index while canonical
// answers are stored one-based, so the index is shifted by one before the
// comparison. A missing or negative index collapses to "0", which can
// never match a stored answer and therefore reads as an ordinary wrong
// answer. This off-by-one convention is load-bearing: existing canonical
// answers are encoded against it.
func SubmittedAnswerString(answer model.UserAnswer) string {
	if answer.Type == AnswerTypeMultipleChoice {
		idx := -1
		if answer.SelectedIndex != nil {
			idx = *answer.SelectedIndex
		}
		if idx < -1 {
			idx = -1
		}
		return strconv.Itoa(idx + 1)
	}
	return strings.TrimSpace(answer.Answer)
}

// VerifyAnswer returns the correctness verdict for a submitted answer
// against the problem's canonical answer. Exact string equality after
// trimming; partial credit is the grading adapter's job, not this one.
func VerifyAnswer(answer model.UserAnswer, canonical string) bool {
	submitted := strings.TrimSpace(SubmittedAnswerString(answer))
	return submitted == strings.TrimSpace(canonical)
}
