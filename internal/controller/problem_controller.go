package controller

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"mathmemo-backend/internal/service"
)

type ProblemController struct {
	ProblemService service.ProblemService
}

func NewProblemController(problemService service.ProblemService) *ProblemController {
	return &ProblemController{ProblemService: problemService}
}

// GetQuestions handles GET /api/questions
func (pc *ProblemController) GetQuestions(c *gin.Context) {
	catalog, err := pc.ProblemService.GetQuestionCatalog()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "data": catalog})
}

// GetQuestionDetail handles GET /api/questions/:id
func (pc *ProblemController) GetQuestionDetail(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "invalid question id"})
		return
	}

	detail, err := pc.ProblemService.GetQuestionDetail(uint(id))
	if err != nil {
		if errors.Is(err, service.ErrProblemNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"success": false, "error": "question not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "data": detail})
}
