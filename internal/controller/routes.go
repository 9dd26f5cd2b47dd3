package controller

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"mathmemo-backend/internal/archive"
	"mathmemo-backend/internal/config"
	"mathmemo-backend/internal/service"
	"mathmemo-backend/pkg/middleware"
	"mathmemo-backend/utilities"
)

// RegisterRoutes registers all route groups and their endpoints.
func RegisterRoutes(r *gin.Engine, cfg *config.APIConfig,
	problemService service.ProblemService,
	sessionService service.SessionService,
	gradingService service.GradingService,
	authService service.AuthService,
	archiver archive.Archiver,
) {
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":  "ok",
			"service": "MathMemo API",
		})
	})

	problemCtrl := NewProblemController(problemService)
	solutionCtrl := NewSolutionController(problemService, sessionService, gradingService, archiver)

	api := r.Group("/api")
	{
		api.GET("/questions", problemCtrl.GetQuestions)
		api.GET("/questions/:id", problemCtrl.GetQuestionDetail)
		api.POST("/verify-solution",
			middleware.RateLimitMiddleware(cfg.RateLimit),
			solutionCtrl.VerifySolution)
	}

	authCtrl := NewAuthController(authService)
	auth := r.Group("/auth")
	{
		auth.POST("/login", authCtrl.Login)
	}

	adminCtrl := NewAdminController(problemService, sessionService)
	admin := r.Group("/admin")
	admin.Use(utilities.AuthMiddleware())
	{
		admin.GET("/sessions/:id", adminCtrl.GetSession)
		admin.PATCH("/sessions/:id/label", adminCtrl.SetSessionLabel)
		admin.POST("/problems", adminCtrl.CreateProblem)
		admin.PUT("/problems/:id", adminCtrl.UpdateProblem)
	}
}
