package controller

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"mathmemo-backend/internal/archive"
	"mathmemo-backend/internal/model"
	"mathmemo-backend/internal/service"
)

type SolutionController struct {
	ProblemService service.ProblemService
	SessionService service.SessionService
	GradingService service.GradingService
	Archiver       archive.Archiver
}

func NewSolutionController(
	problemService service.ProblemService,
	sessionService service.SessionService,
	gradingService service.GradingService,
	archiver archive.Archiver,
) *SolutionController {
	return &SolutionController{
		ProblemService: problemService,
		SessionService: sessionService,
		GradingService: gradingService,
		Archiver:       archiver,
	}
}

// VerifySolution handles POST /api/verify-solution.
//
// Ordering matters: the session write commits before grading and
// archival run, and failures in those two degrade to fallback values
// instead of failing the request.
func (sc *SolutionController) VerifySolution(c *gin.Context) {
	// The raw body is kept as-is for the archive copy.
	bodyBytes, err := c.GetRawData()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "failed to read request body"})
		return
	}

	var req model.VerifyRequest
	if err := json.Unmarshal(bodyBytes, &req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid JSON payload"})
		return
	}
	if req.QuestionID == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "question_id is required"})
		return
	}
	if req.Label != nil && *req.Label != 0 && *req.Label != 1 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "label must be 0, 1 or null"})
		return
	}

	problem, err := sc.ProblemService.GetProblem(req.QuestionID)
	if err != nil {
		if errors.Is(err, service.ErrProblemNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "question not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	isCorrect := service.VerifyAnswer(req.UserAnswer, problem.Answer)

	sessionID, err := sc.SessionService.IngestSession(&req, problem, isCorrect)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	evaluation := sc.GradingService.GradeSession(c.Request.Context(), problem, &req.SessionData.CanvasData, isCorrect)

	s3URL := sc.Archiver.ArchiveSession(c.Request.Context(), &archive.Record{
		SessionID:    sessionID,
		ProblemID:    problem.ID,
		ProblemName:  problem.Name,
		CategoryName: problem.Category.Name,
		Difficulty:   problem.Difficulty,
		Answer:       service.SubmittedAnswerString(req.UserAnswer),
		IsCorrect:    isCorrect,
		Label:        req.Label,
		UploadedAt:   time.Now().UTC(),
		Payload:      bodyBytes,
	})

	c.JSON(http.StatusOK, gin.H{
		"session_id":   sessionID,
		"is_correct":   isCorrect,
		"verification": evaluation,
		"s3_url":       s3URL,
	})
}
