package main

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/lshigami/InterviewCoach/config"
	"github.com/lshigami/InterviewCoach/database"
	"github.com/lshigami/InterviewCoach/internal/controller"
	"github.com/lshigami/InterviewCoach/internal/logger"
	"github.com/lshigami/InterviewCoach/internal/model"
	"github.com/lshigami/InterviewCoach/internal/repository"
	"github.com/lshigami/InterviewCoach/internal/service"
	"github.com/lshigami/InterviewCoach/internal/session"
	"github.com/rs/zerolog/log"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/fx"
	"gorm.io/gorm"
)

// @title AI Interview Coach API
// @version 1.0
// @description Simulated interview sessions with an AI recruiter persona and structured performance reports.
// @host localhost:8080
// @BasePath /api/v1
// @schemes http https
func main() {
	logger.Init()

	app := fx.New(
		// Core Application Components
		fx.Provide(
			config.NewConfig,
			database.NewDatabase, // Provides *gorm.DB
			NewGinEngine,         // Provides *gin.Engine
		),

		// Repositories Layer
		fx.Provide(
			repository.NewInterviewRepository,
			repository.NewQuestionRepository,
		),

		// Services Layer
		fx.Provide(
			service.NewInterviewService,
			service.NewInterviewCoachService,
			NewAnalyzer, // Gemini in-process, or the HTTP client when ANALYZER_URL is set
			service.NewNoopSpeechSynthesizer,
			service.NewDashboardService,
			func(
				interviewRepo repository.InterviewRepository,
				questionRepo repository.QuestionRepository,
				db *gorm.DB,
			) service.ResultPersister {
				return service.NewResultPersister(interviewRepo, questionRepo, db)
			},
			session.NewManager,
		),

		// API Controllers Layer
		fx.Provide(
			controller.NewInterviewController,
			controller.NewSessionController,
			controller.NewDashboardController,
			controller.NewAnalyzeController,
		),

		fx.Invoke(RegisterRoutesAndStartServer),
		fx.Invoke(AutoMigrateDB),
	)

	if err := app.Start(context.Background()); err != nil {
		log.Fatal().Err(err).Msg("Failed to start application")
	}

	<-app.Done()
	log.Info().Msg("Application shutting down gracefully...")
}

// NewAnalyzer picks the analysis backend: in-process Gemini by default,
// the HTTP wire client when a remote analyzer is configured.
func NewAnalyzer(cfg *config.Config) (service.InterviewAnalyzer, error) {
	if cfg.Analyzer.URL != "" {
		log.Info().Str("url", cfg.Analyzer.URL).Msg("Using remote analyze endpoint")
		return service.NewHTTPAnalyzer(cfg), nil
	}
	return service.NewGeminiAnalyzer(cfg)
}

func NewGinEngine() *gin.Engine {
	gin.SetMode(gin.DebugMode)

	r := gin.New()

	// Route gin request logging through the global zerolog instance.
	r.Use(gin.LoggerWithFormatter(func(param gin.LogFormatterParams) string {
		log.Info().
			Str("client_ip", param.ClientIP).
			Str("method", param.Method).
			Str("path", param.Path).
			Int("status_code", param.StatusCode).
			Dur("latency", param.Latency).
			Str("user_agent", param.Request.UserAgent()).
			Str("error_message", param.ErrorMessage).
			Msg("gin_request")
		return ""
	}))
	r.Use(gin.Recovery())

	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"*"}, // Be more specific in production
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization"},
		ExposeHeaders:    []string{"Content-Length", "X-Report-Degraded"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	// Swagger UI at /swagger/index.html
	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	return r
}

// RegisterRoutesAndStartServer configures API routes and manages server lifecycle.
func RegisterRoutesAndStartServer(
	lc fx.Lifecycle,
	router *gin.Engine,
	cfg *config.Config,
	interviewCtrl *controller.InterviewController,
	sessionCtrl *controller.SessionController,
	dashboardCtrl *controller.DashboardController,
	analyzeCtrl *controller.AnalyzeController,
) {
	api := router.Group("/api/v1")
	{
		api.POST("/interviews", interviewCtrl.CreateInterview)
		api.GET("/interviews", interviewCtrl.GetOwnerInterviews)
		api.GET("/interviews/:interview_id", interviewCtrl.GetInterviewDetails)

		api.POST("/interviews/:interview_id/session", sessionCtrl.StartSession)
		api.POST("/interviews/:interview_id/messages", sessionCtrl.SubmitMessage)
		api.GET("/interviews/:interview_id/messages", sessionCtrl.GetMessages)
		api.POST("/interviews/:interview_id/finalize", sessionCtrl.FinalizeSession)

		api.GET("/dashboard", dashboardCtrl.GetSummary)
		api.POST("/analyze", analyzeCtrl.Analyze)
	}

	server := &http.Server{
		Addr:    ":" + cfg.Server.Port,
		Handler: router,
	}

	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			log.Info().Msgf("Interview Coach API server starting on port %s", cfg.Server.Port)
			go func() {
				if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
					log.Fatal().Err(err).Msg("Server ListenAndServe failed")
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			log.Info().Msg("Server shutting down...")
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()
			return server.Shutdown(shutdownCtx)
		},
	})
}

func AutoMigrateDB(db *gorm.DB) error {
	log.Info().Msg("Running database migrations...")
	err := db.AutoMigrate(
		&model.Interview{},
		&model.Question{},
	)
	if err != nil {
		log.Error().Err(err).Msg("Database migration failed")
		return err
	}
	log.Info().Msg("Database migration completed successfully.")
	return nil
}
