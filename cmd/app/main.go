package main

import (
	"fmt"
	"log"
	"time"

	"github.com/common-nighthawk/go-figure"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"

	"mathmemo-backend/internal/archive"
	"mathmemo-backend/internal/config"
	"mathmemo-backend/internal/controller"
	"mathmemo-backend/internal/db"
	"mathmemo-backend/internal/llm"
	"mathmemo-backend/internal/model"
	"mathmemo-backend/internal/ocr"
	"mathmemo-backend/internal/repository"
	"mathmemo-backend/internal/service"
	"mathmemo-backend/pkg/middleware"
	"mathmemo-backend/utilities"
)

func main() {
	printStartUpBanner()

	// Secrets come from the environment; .env is optional.
	if err := godotenv.Load(); err != nil {
		log.Println("no .env file found, using environment variables only")
	}

	// Load XML configuration from file.
	cfg, err := config.LoadConfig("config.xml")
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	utilities.InitLogging("logs")

	secrets := config.LoadSecrets()
	utilities.ConfigureJWT(secrets.JWTAccessSecret, secrets.JWTRefreshSecret)

	// Initialize DB using the loaded config.
	db.InitDBFromConfig(cfg)
	// Run migrations.
	err = db.GetDB().AutoMigrate(
		&model.Category{}, &model.Problem{},
		&model.Session{}, &model.Stroke{}, &model.StrokePoint{}, &model.Event{},
	)
	if err != nil {
		log.Fatalf("failed to run migrations: %v", err)
	}

	// External collaborators are constructed once here and passed down;
	// their configuration is validated at construction.
	ocrClient, err := ocr.NewMathpixClient(secrets.Mathpix)
	if err != nil {
		log.Fatalf("failed to create OCR client: %v", err)
	}
	evaluator, err := llm.NewOpenAIEvaluator(secrets.OpenAI)
	if err != nil {
		log.Fatalf("failed to create LLM evaluator: %v", err)
	}

	archiver, err := archive.NewOSSArchiver(secrets.OSS)
	if err != nil {
		// Archival is best-effort; run without it rather than refusing
		// to start.
		utilities.Warn("session archival disabled: %v", err)
		archiver = archive.Disabled()
	}

	// Create repositories.
	problemRepo := repository.NewProblemRepository()
	sessionRepo := repository.NewSessionRepository()

	// Create services.
	problemService := service.NewProblemService(problemRepo)
	sessionService := service.NewSessionService(sessionRepo)
	gradingService := service.NewGradingService(ocrClient, evaluator)
	authService := service.NewAuthService(secrets.Operator)

	// Initialize Gin router.
	r := gin.Default()

	// CORS configuration.
	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"*"},
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	if cfg.RequestDump {
		r.Use(middleware.RequestDumpMiddleware())
	}

	controller.RegisterRoutes(r, cfg, problemService, sessionService, gradingService, authService, archiver)

	// Start server on the host and port specified in the XML config.
	addr := fmt.Sprintf("%s:%d", cfg.Context.Host, cfg.Context.Port)
	if err := r.Run(addr); err != nil {
		log.Fatalf("server stopped: %v", err)
	}
}

func printStartUpBanner() {
	myFigure := figure.NewFigure("MATHMEMO", "", true)
	myFigure.Print()

	fmt.Println("======================================================")
	fmt.Printf("MATHMEMO API (v%s)\n\n", "1.0.0")
}
