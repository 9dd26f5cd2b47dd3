package service

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"mathmemo-backend/internal/llm"
	"mathmemo-backend/internal/model"
)

type fakeOCR struct {
	text string
	err  error

	gotXs [][]float64
	gotYs [][]float64
	calls int
}

func (f *fakeOCR) Transcribe(ctx context.Context, xs, ys [][]float64) (string, error) {
	f.calls++
	f.gotXs, f.gotYs = xs, ys
	return f.text, f.err
}

type fakeEvaluator struct {
	evaluation *model.Evaluation
	err        error

	gotReq llm.EvaluationRequest
	calls  int
}

func (f *fakeEvaluator) EvaluateSolution(ctx context.Context, req llm.EvaluationRequest) (*model.Evaluation, error) {
	f.calls++
	f.gotReq = req
	return f.evaluation, f.err
}

func penStroke(points ...model.PointPayload) model.StrokePayload {
	return model.StrokePayload{Tool: "pen", Points: points}
}

func TestGradeSessionHappyPath(t *testing.T) {
	ocrClient := &fakeOCR{text: "3x - 7 = 14\n3x = 21\nx = 7"}
	evaluator := &fakeEvaluator{evaluation: &model.Evaluation{
		TotalScore: 92, LogicScore: 95, AccuracyScore: 90, ProcessScore: 90,
		IsCorrect: true, Comment: "Well done.",
	}}
	svc := NewGradingService(ocrClient, evaluator)

	problem := &model.Problem{Problem: "Solve for x: 3x - 7 = 14.", Answer: "2"}
	canvas := &model.CanvasData{
		Strokes: []model.StrokePayload{
			penStroke(model.PointPayload{X: 1, Y: 2}, model.PointPayload{X: 3, Y: 4}),
		},
	}

	evaluation := svc.GradeSession(context.Background(), problem, canvas, true)
	require.NotNil(t, evaluation)
	assert.Equal(t, 92, evaluation.TotalScore)
	assert.True(t, evaluation.IsCorrect)

	require.Equal(t, 1, evaluator.calls)
	assert.Equal(t, ocrClient.text, evaluator.gotReq.Transcription)
	assert.Equal(t, problem.Problem, evaluator.gotReq.ProblemText)
	require.Len(t, ocrClient.gotXs, 1)
	assert.Equal(t, []float64{1, 3}, ocrClient.gotXs[0])
	assert.Equal(t, []float64{2, 4}, ocrClient.gotYs[0])
}

func TestGradeSessionNoStrokesAtAll(t *testing.T) {
	svc := NewGradingService(&fakeOCR{}, &fakeEvaluator{})

	matched := svc.GradeSession(context.Background(), &model.Problem{}, &model.CanvasData{}, true)
	assert.Equal(t, 100, matched.TotalScore)
	assert.Equal(t, 100, matched.LogicScore)
	assert.True(t, matched.IsCorrect)

	missed := svc.GradeSession(context.Background(), &model.Problem{}, &model.CanvasData{}, false)
	assert.Equal(t, 0, missed.TotalScore)
	assert.False(t, missed.IsCorrect)
}

func TestGradeSessionVisibleStrokesTakePrecedence(t *testing.T) {
	ocrClient := &fakeOCR{text: "x = 7"}
	evaluator := &fakeEvaluator{evaluation: &model.Evaluation{TotalScore: 80, IsCorrect: true}}
	svc := NewGradingService(ocrClient, evaluator)

	canvas := &model.CanvasData{
		Strokes: []model.StrokePayload{
			penStroke(model.PointPayload{X: 1, Y: 1}),
			penStroke(model.PointPayload{X: 2, Y: 2}),
		},
		VisibleStrokes: []model.StrokePayload{
			penStroke(model.PointPayload{X: 9, Y: 9}),
		},
	}

	svc.GradeSession(context.Background(), &model.Problem{}, canvas, true)
	require.Len(t, ocrClient.gotXs, 1)
	assert.Equal(t, []float64{9}, ocrClient.gotXs[0])
}

func TestGradeSessionSkipsEraserAndEmptyStrokes(t *testing.T) {
	ocrClient := &fakeOCR{text: "42"}
	evaluator := &fakeEvaluator{evaluation: &model.Evaluation{TotalScore: 70, IsCorrect: true}}
	svc := NewGradingService(ocrClient, evaluator)

	canvas := &model.CanvasData{
		Strokes: []model.StrokePayload{
			{Tool: "eraser", Points: []model.PointPayload{{X: 5, Y: 5}}},
			{Tool: "pen"},
			penStroke(model.PointPayload{X: 7, Y: 8}),
		},
	}

	svc.GradeSession(context.Background(), &model.Problem{}, canvas, true)
	require.Len(t, ocrClient.gotXs, 1)
	assert.Equal(t, []float64{7}, ocrClient.gotXs[0])
}

func TestGradeSessionOnlyEraserStrokes(t *testing.T) {
	ocrClient := &fakeOCR{}
	evaluator := &fakeEvaluator{}
	svc := NewGradingService(ocrClient, evaluator)

	canvas := &model.CanvasData{
		Strokes: []model.StrokePayload{
			{Tool: "eraser", Points: []model.PointPayload{{X: 5, Y: 5}}},
		},
	}

	evaluation := svc.GradeSession(context.Background(), &model.Problem{}, canvas, true)
	assert.Equal(t, 0, evaluation.TotalScore)
	assert.NotEmpty(t, evaluation.DetailedFeedback)
	assert.Zero(t, ocrClient.calls)
	assert.Zero(t, evaluator.calls)
}

func TestGradeSessionOCROutage(t *testing.T) {
	ocrClient := &fakeOCR{err: errors.New("strokes API returned status 503")}
	evaluator := &fakeEvaluator{}
	svc := NewGradingService(ocrClient, evaluator)

	canvas := &model.CanvasData{Strokes: []model.StrokePayload{penStroke(model.PointPayload{X: 1, Y: 1})}}
	evaluation := svc.GradeSession(context.Background(), &model.Problem{}, canvas, true)

	assert.Equal(t, 0, evaluation.TotalScore)
	assert.False(t, evaluation.IsCorrect)
	assert.Contains(t, evaluation.DetailedFeedback, "503")
	assert.Zero(t, evaluator.calls)
}

func TestGradeSessionEvaluatorOutage(t *testing.T) {
	ocrClient := &fakeOCR{text: "x = 7"}
	evaluator := &fakeEvaluator{err: errors.New("evaluation request: context deadline exceeded")}
	svc := NewGradingService(ocrClient, evaluator)

	canvas := &model.CanvasData{Strokes: []model.StrokePayload{penStroke(model.PointPayload{X: 1, Y: 1})}}
	evaluation := svc.GradeSession(context.Background(), &model.Problem{}, canvas, false)

	assert.Equal(t, 0, evaluation.TotalScore)
	assert.Contains(t, evaluation.DetailedFeedback, "deadline")
}
