package service

import (
	"context"
	"fmt"

	"mathmemo-backend/internal/llm"
	"mathmemo-backend/internal/model"
	"mathmemo-backend/internal/ocr"
	"mathmemo-backend/utilities"
)

// GradingService produces an advisory evaluation of the handwritten work.
// It never fails: every upstream error degrades to a zero-scored
// evaluation carrying the error text, and the verdict from answer
// verification is never overridden by it.
type GradingService interface {
	GradeSession(ctx context.Context, problem *model.Problem, canvas *model.CanvasData, answerMatched bool) *model.Evaluation
}

type gradingService struct {
	ocrClient ocr.Client
	evaluator llm.Evaluator
}

func NewGradingService(ocrClient ocr.Client, evaluator llm.Evaluator) GradingService {
	return &gradingService{ocrClient: ocrClient, evaluator: evaluator}
}

func (g *gradingService) GradeSession(ctx context.Context, problem *model.Problem, canvas *model.CanvasData, answerMatched bool) *model.Evaluation {
	if len(canvas.Strokes) == 0 && len(canvas.VisibleStrokes) == 0 {
		return defaultEvaluation(answerMatched)
	}

	// Older clients send only the full stroke history; newer ones also
	// send the visible subset, which takes precedence for grading.
	candidates := canvas.Strokes
	if len(canvas.VisibleStrokes) > 0 {
		candidates = canvas.VisibleStrokes
	}

	xs, ys := strokeCoordinates(candidates)
	if len(xs) == 0 {
		return failedEvaluation(fmt.Errorf("no pen strokes with points to transcribe"))
	}

	text, err := g.ocrClient.Transcribe(ctx, xs, ys)
	if err != nil {
		utilities.Warn("stroke transcription failed: %v", err)
		return failedEvaluation(err)
	}

	evaluation, err := g.evaluator.EvaluateSolution(ctx, llm.EvaluationRequest{
		ProblemText:   problem.Problem,
		Choices:       problem.Choices,
		SolutionSteps: problem.SolutionSteps,
		Answer:        problem.Answer,
		Transcription: text,
	})
	if err != nil {
		utilities.Warn("solution evaluation failed: %v", err)
		return failedEvaluation(err)
	}
	return evaluation
}

// strokeCoordinates flattens the gradable strokes into the per-stroke
// x/y arrays the OCR service expects. Eraser strokes carry no content
// and are excluded, as are strokes without points.
func strokeCoordinates(strokes []model.StrokePayload) (xs, ys [][]float64) {
	for i := range strokes {
		stroke := &strokes[i]
		if stroke.Tool == "eraser" || len(stroke.Points) == 0 {
			continue
		}
		x := make([]float64, len(stroke.Points))
		y := make([]float64, len(stroke.Points))
		for j, p := range stroke.Points {
			x[j] = float64(p.X)
			y[j] = float64(p.Y)
		}
		xs = append(xs, x)
		ys = append(ys, y)
	}
	return xs, ys
}

// defaultEvaluation covers submissions without any handwriting: the
// answer comparison is all there is to grade.
func defaultEvaluation(answerMatched bool) *model.Evaluation {
	score := 0
	if answerMatched {
		score = 100
	}
	return &model.Evaluation{
		TotalScore:    score,
		LogicScore:    score,
		AccuracyScore: score,
		ProcessScore:  score,
		IsCorrect:     answerMatched,
		Comment:       "No handwriting was captured; graded on the submitted answer only.",
	}
}

func failedEvaluation(err error) *model.Evaluation {
	return &model.Evaluation{
		Comment:          "Automatic grading was unavailable for this submission.",
		DetailedFeedback: err.Error(),
	}
}
