package service

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"mathmemo-backend/internal/model"
)

func intPtr(v int) *int { return &v }

func TestSubmittedAnswerStringMultipleChoice(t *testing.T) {
	tests := []struct {
		name   string
		answer model.UserAnswer
		want   string
	}{
		{
			name:   "index shifts to one-based",
			answer: model.UserAnswer{Type: AnswerTypeMultipleChoice, SelectedIndex: intPtr(2)},
			want:   "3",
		},
		{
			name:   "first choice",
			answer: model.UserAnswer{Type: AnswerTypeMultipleChoice, SelectedIndex: intPtr(0)},
			want:   "1",
		},
		{
			name:   "missing index collapses to zero",
			answer: model.UserAnswer{Type: AnswerTypeMultipleChoice},
			want:   "0",
		},
		{
			name:   "out-of-range negative index collapses to zero",
			answer: model.UserAnswer{Type: AnswerTypeMultipleChoice, SelectedIndex: intPtr(-5)},
			want:   "0",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, SubmittedAnswerString(tt.answer))
		})
	}
}

func TestSubmittedAnswerStringFreeText(t *testing.T) {
	answer := model.UserAnswer{Type: "text", Answer: "  42 "}
	assert.Equal(t, "42", SubmittedAnswerString(answer))
}

func TestVerifyAnswer(t *testing.T) {
	tests := []struct {
		name      string
		answer    model.UserAnswer
		canonical string
		want      bool
	}{
		{
			name:      "multiple choice match",
			answer:    model.UserAnswer{Type: AnswerTypeMultipleChoice, SelectedIndex: intPtr(2)},
			canonical: "3",
			want:      true,
		},
		{
			name:      "multiple choice mismatch",
			answer:    model.UserAnswer{Type: AnswerTypeMultipleChoice, SelectedIndex: intPtr(0)},
			canonical: "3",
			want:      false,
		},
		{
			name:      "missing index never matches",
			answer:    model.UserAnswer{Type: AnswerTypeMultipleChoice},
			canonical: "1",
			want:      false,
		},
		{
			name:      "free text trims whitespace",
			answer:    model.UserAnswer{Type: "text", Answer: " 42  "},
			canonical: "42",
			want:      true,
		},
		{
			name:      "free text is case sensitive",
			answer:    model.UserAnswer{Type: "text", Answer: "X"},
			canonical: "x",
			want:      false,
		},
		{
			name:      "canonical whitespace is also trimmed",
			answer:    model.UserAnswer{Type: "text", Answer: "42"},
			canonical: " 42 ",
			want:      true,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, VerifyAnswer(tt.answer, tt.canonical))
		})
	}
}
