package main

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
	"github.com/studyflow/studyflow-backend/config"
	"github.com/studyflow/studyflow-backend/database"
	"github.com/studyflow/studyflow-backend/internal/cache"
	boardctrl "github.com/studyflow/studyflow-backend/internal/controller/board"
	studentctrl "github.com/studyflow/studyflow-backend/internal/controller/student"
	"github.com/studyflow/studyflow-backend/internal/logger"
	"github.com/studyflow/studyflow-backend/internal/model"
	"github.com/studyflow/studyflow-backend/internal/repository"
	"github.com/studyflow/studyflow-backend/internal/service"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/fx"
	"gorm.io/gorm"
)

// @title StudyFlow Quiz & Scoring API
// @version 1.0
// @description Quiz attempts, grading and the best-score / lifetime-points ledger for the StudyFlow tutoring platform.
// @host localhost:8080
// @BasePath /api/v1
// @schemes http https
func main() {
	logger.Init()

	app := fx.New(
		// Core application components
		fx.Provide(
			config.NewConfig,
			database.NewDatabase, // *gorm.DB
			NewRedisClient,
			NewLeaderboardCache,
			NewGinEngine,
			func(db *gorm.DB) repository.TxRunner { return db },
		),

		// Repositories
		fx.Provide(
			repository.NewQuizRepository,
			repository.NewAttemptRepository,
			repository.NewAnswerRepository,
			repository.NewScoreRepository,
			repository.NewEnrollmentRepository,
		),

		// Services
		fx.Provide(
			service.NewGradingService,
			service.NewScoreLedgerService,
			service.NewAttemptService,
			service.NewQuizCatalogService,
			service.NewLeaderboardService,
		),

		// Controllers
		fx.Provide(
			studentctrl.NewStudentQuizController,
			boardctrl.NewLeaderboardController,
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

// NewRedisClient returns nil when no redis address is configured; the
// leaderboard cache degrades to a pass-through in that case.
func NewRedisClient(cfg *config.Config) *redis.Client {
	if cfg.Redis.Addr == "" {
		log.Info().Msg("Redis not configured, leaderboard cache disabled")
		return nil
	}
	return redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
}

func NewLeaderboardCache(client *redis.Client) *cache.LeaderboardCache {
	return cache.NewLeaderboardCache(client, cache.DefaultLeaderboardTTL)
}

func NewGinEngine() *gin.Engine {
	r := gin.New()

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
		AllowOrigins:     []string{"*"},
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization", "X-Student-ID"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	return r
}

// RegisterRoutesAndStartServer configures API routes and manages server lifecycle.
func RegisterRoutesAndStartServer(
	lc fx.Lifecycle,
	router *gin.Engine,
	cfg *config.Config,
	studentCtrl *studentctrl.StudentQuizController,
	leaderboardCtrl *boardctrl.LeaderboardController,
) {
	api := router.Group("/api/v1")
	{
		quizzes := api.Group("/quizzes")
		quizzes.GET("", studentCtrl.ListQuizzes)
		quizzes.GET("/:quiz_id", studentCtrl.GetQuiz)
		quizzes.POST("/:quiz_id/attempts", studentCtrl.StartAttempt)

		attempts := api.Group("/attempts")
		attempts.GET("/:attempt_id", studentCtrl.GetAttempt)
		attempts.POST("/:attempt_id/submit", studentCtrl.SubmitAttempt)

		students := api.Group("/students")
		students.GET("/:student_id/attempts", studentCtrl.GetStudentAttempts)
		students.GET("/:student_id/best-scores", studentCtrl.GetBestScores)

		api.GET("/leaderboard", leaderboardCtrl.GetGlobalLeaderboard)
		api.GET("/classes/:class_id/leaderboard", leaderboardCtrl.GetClassLeaderboard)
	}

	server := &http.Server{
		Addr:    ":" + cfg.Server.Port,
		Handler: router,
	}

	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			log.Info().Msgf("StudyFlow quiz API server starting on port %s", cfg.Server.Port)
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
		&model.Quiz{},
		&model.Question{},
		&model.Option{},
		&model.QuizAttempt{},
		&model.AttemptAnswer{},
		&model.BestScore{},
		&model.StudentPoints{},
		&model.ClassEnrollment{},
	)
	if err != nil {
		log.Error().Err(err).Msg("Database migration failed")
		return err
	}
	log.Info().Msg("Database migration completed successfully.")
	return nil
}
