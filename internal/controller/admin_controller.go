package controller

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"mathmemo-backend/internal/service"
)

type AdminController struct {
	ProblemService service.ProblemService
	SessionService service.SessionService
}

func NewAdminController(problemService service.ProblemService, sessionService service.SessionService) *AdminController {
	return &AdminController{
		ProblemService: problemService,
		SessionService: sessionService,
	}
}

// GetSession handles GET /admin/sessions/:id. Returns the full captured
// bundle for operator review before labeling.
func (ac *AdminController) GetSession(c *gin.Context) {
	session, err := ac.SessionService.GetSession(c.Param("id"))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "session not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, session)
}

// SetSessionLabel handles PATCH /admin/sessions/:id/label.
// The label is the only mutable field of a persisted session.
func (ac *AdminController) SetSessionLabel(c *gin.Context) {
	var req struct {
		Label *int16 `json:"label"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid input"})
		return
	}
	if req.Label != nil && *req.Label != 0 && *req.Label != 1 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "label must be 0, 1 or null"})
		return
	}

	if err := ac.SessionService.SetLabel(c.Param("id"), req.Label); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "session not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "label updated"})
}

// CreateProblem handles POST /admin/problems
func (ac *AdminController) CreateProblem(c *gin.Context) {
	var input service.ProblemInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid input"})
		return
	}

	problem, err := ac.ProblemService.CreateProblem(&input)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusCreated, problem)
}

// UpdateProblem handles PUT /admin/problems/:id
func (ac *AdminController) UpdateProblem(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid problem id"})
		return
	}

	var input service.ProblemInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid input"})
		return
	}

	problem, err := ac.ProblemService.UpdateProblem(uint(id), &input)
	if err != nil {
		if errors.Is(err, service.ErrProblemNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "problem not found"})
			return
		}
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, problem)
}
