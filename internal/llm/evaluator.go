package llm

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	openai "github.com/sashabaranov/go-openai"

	"mathmemo-backend/internal/config"
	"mathmemo-backend/internal/model"
)

// EvaluationRequest carries everything the rubric evaluation needs: the
// problem as stored plus the OCR transcription of the student's work.
type EvaluationRequest struct {
	ProblemText   string
	Choices       []string
	SolutionSteps []model.SolutionStep
	Answer        string
	Transcription string
}

// Evaluator scores a transcribed solution against the stored problem.
type Evaluator interface {
	EvaluateSolution(ctx context.Context, req EvaluationRequest) (*model.Evaluation, error)
}

// OpenAIEvaluator implements Evaluator with a structured chat completion.
type OpenAIEvaluator struct {
	client *openai.Client
	model  string
}

func NewOpenAIEvaluator(cfg config.OpenAIConfig) (*OpenAIEvaluator, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	clientConfig := openai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		clientConfig.BaseURL = cfg.BaseURL
	}
	clientConfig.HTTPClient = &http.Client{Timeout: 60 * time.Second}

	return &OpenAIEvaluator{
		client: openai.NewClientWithConfig(clientConfig),
		model:  cfg.Model,
	}, nil
}

const evaluationSystemPrompt = `You grade handwritten math solutions for secondary-school students.

The student's work was captured as pen strokes and transcribed by OCR. The
transcription may garble mathematical notation (fractions, exponents, roots);
treat plausible OCR noise charitably and grade the underlying reasoning.

Score the work on three axes, each an integer from 0 to 100:
- logic_score: is the mathematical reasoning sound?
- accuracy_score: are the computations and the result correct?
- process_score: does the work show the expected solution process?

total_score is the weighted sum: logic 40%, accuracy 40%, process 20%,
rounded to an integer. is_correct is true exactly when total_score >= 60.

comment is a one-or-two sentence verdict for the student. detailed_feedback
walks through what was right and wrong, step by step. Write both in the
language the problem is written in.`

var evaluationSchema = json.RawMessage(`{
	"type": "object",
	"properties": {
		"total_score": {"type": "integer", "minimum": 0, "maximum": 100},
		"logic_score": {"type": "integer", "minimum": 0, "maximum": 100},
		"accuracy_score": {"type": "integer", "minimum": 0, "maximum": 100},
		"process_score": {"type": "integer", "minimum": 0, "maximum": 100},
		"is_correct": {"type": "boolean"},
		"comment": {"type": "string"},
		"detailed_feedback": {"type": "string"}
	},
	"required": ["total_score", "logic_score", "accuracy_score", "process_score", "is_correct", "comment", "detailed_feedback"],
	"additionalProperties": false
}`)

func (e *OpenAIEvaluator) EvaluateSolution(ctx context.Context, req EvaluationRequest) (*model.Evaluation, error) {
	chatReq := openai.ChatCompletionRequest{
		Model: e.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: evaluationSystemPrompt},
			{Role: openai.ChatMessageRoleUser, Content: buildUserPrompt(req)},
		},
		ResponseFormat: &openai.ChatCompletionResponseFormat{
			Type: openai.ChatCompletionResponseFormatTypeJSONSchema,
			JSONSchema: &openai.ChatCompletionResponseFormatJSONSchema{
				Name:   "solution_evaluation",
				Schema: evaluationSchema,
				Strict: true,
			},
		},
	}

	resp, err := e.client.CreateChatCompletion(ctx, chatReq)
	if err != nil {
		return nil, fmt.Errorf("evaluation request: %w", err)
	}
	if len(resp.Choices) == 0 {
		return nil, fmt.Errorf("no choices in evaluation response")
	}

	var evaluation model.Evaluation
	if err := json.Unmarshal([]byte(resp.Choices[0].Message.Content), &evaluation); err != nil {
		return nil, fmt.Errorf("decode evaluation: %w", err)
	}
	clampScores(&evaluation)
	return &evaluation, nil
}

func buildUserPrompt(req EvaluationRequest) string {
	var b strings.Builder

	fmt.Fprintf(&b, "Problem:\n%s\n", req.ProblemText)

	if len(req.Choices) > 0 {
		b.WriteString("\nChoices:\n")
		for i, choice := range req.Choices {
			fmt.Fprintf(&b, "(%d) %s\n", i+1, choice)
		}
	}

	if len(req.SolutionSteps) > 0 {
		b.WriteString("\nExpected solution process:\n")
		for _, step := range req.SolutionSteps {
			fmt.Fprintf(&b, "%d. %s\n", step.StepNumber, step.Description)
		}
	}

	fmt.Fprintf(&b, "\nCorrect answer: %s\n", req.Answer)
	fmt.Fprintf(&b, "\nTranscribed student work:\n%s\n", req.Transcription)

	return b.String()
}

// clampScores keeps a misbehaving model inside the documented range.
func clampScores(e *model.Evaluation) {
	for _, score := range []*int{&e.TotalScore, &e.LogicScore, &e.AccuracyScore, &e.ProcessScore} {
		if *score < 0 {
			*score = 0
		}
		if *score > 100 {
			*score = 100
		}
	}
}
