package main

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/lshigami/Learnhub/config"
	"github.com/lshigami/Learnhub/database"
	_ "github.com/lshigami/Learnhub/docs" // Swagger docs
	"github.com/lshigami/Learnhub/internal/controller"
	adminctrl "github.com/lshigami/Learnhub/internal/controller/admin"
	userctrl "github.com/lshigami/Learnhub/internal/controller/user"
	"github.com/lshigami/Learnhub/internal/logger"
	"github.com/lshigami/Learnhub/internal/middleware"
	"github.com/lshigami/Learnhub/internal/repository"
	"github.com/lshigami/Learnhub/internal/router"
	"github.com/lshigami/Learnhub/internal/service"
	"github.com/rs/zerolog/log"
	"go.uber.org/fx"
	"gorm.io/gorm"
)

// @title Learnhub LMS API
// @version 1.0
// @description Quiz attempts with automatic grading and lesson progress tracking for enrolled learners.
// @contact.name API Support
// @host localhost:8080
// @BasePath /
// @schemes http https
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
func main() {
	logger.Init()

	app := fx.New(
		fx.WithLogger(logger.NewFxLogger),

		fx.Provide(
			newConfig,
			database.NewDatabase,
			router.NewGinEngine,
			middleware.NewAuthenticator,
		),

		// Repositories Layer
		fx.Provide(
			repository.NewQuizRepository,
			repository.NewQuizAttemptRepository,
			repository.NewQuestionResponseRepository,
			repository.NewCourseRepository,
			repository.NewEnrollmentRepository,
			repository.NewLessonProgressRepository,
			repository.NewReviewRepository,
		),

		// Services Layer
		fx.Provide(
			service.NewScoreCalculatorService,
			service.NewGeminiFeedbackService,
			service.NewQuizService,
			service.NewAdminQuizService,
			service.NewAdminCourseService,
			service.NewQuizAttemptService,
			service.NewEnrollmentService,
			service.NewProgressService,
			service.NewReviewService,
		),

		// API Controllers Layer
		fx.Provide(
			controller.NewHealthController,
			userctrl.NewQuizController,
			userctrl.NewProgressController,
			adminctrl.NewAdminQuizController,
			adminctrl.NewAdminCourseController,
		),

		fx.Invoke(database.AutoMigrate),
		fx.Invoke(RegisterRoutesAndStartServer),
	)

	if err := app.Start(context.Background()); err != nil {
		log.Fatal().Err(err).Msg("Failed to start application")
	}

	<-app.Done()
	log.Info().Msg("Application shutting down gracefully...")
	stopCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := app.Stop(stopCtx); err != nil {
		log.Error().Err(err).Msg("Failed to stop application cleanly")
	}
}

func newConfig() (*config.Config, error) {
	cfg, err := config.NewConfig()
	if err != nil {
		return nil, err
	}
	logger.Configure(cfg.Log.Level, cfg.Log.Pretty)
	return cfg, nil
}

type routeParams struct {
	fx.In

	Lifecycle   fx.Lifecycle
	Router      *gin.Engine
	Config      *config.Config
	Auth        *middleware.Authenticator
	DB          *gorm.DB
	Feedback    service.FeedbackService
	Health      *controller.HealthController
	Quiz        *userctrl.QuizController
	Progress    *userctrl.ProgressController
	AdminQuiz   *adminctrl.AdminQuizController
	AdminCourse *adminctrl.AdminCourseController
}

// RegisterRoutesAndStartServer configures API routes and manages server lifecycle.
func RegisterRoutesAndStartServer(p routeParams) {
	router.RegisterRoutes(p.Router, p.Auth, router.Controllers{
		Health:      p.Health,
		Quiz:        p.Quiz,
		Progress:    p.Progress,
		AdminQuiz:   p.AdminQuiz,
		AdminCourse: p.AdminCourse,
	})

	server := &http.Server{
		Addr:              ":" + p.Config.Server.Port,
		Handler:           p.Router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	p.Lifecycle.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			log.Info().Msgf("Learnhub API server starting on port %s", p.Config.Server.Port)
			log.Info().Msgf("Swagger UI available at http://localhost:%s/swagger/index.html", p.Config.Server.Port)
			go func() {
				if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
					log.Fatal().Err(err).Msg("Server ListenAndServe failed")
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			log.Info().Msg("Server shutting down...")
			if err := server.Shutdown(ctx); err != nil {
				return err
			}
			if err := p.Feedback.Close(); err != nil {
				log.Warn().Err(err).Msg("Failed to close Gemini client")
			}
			sqlDB, err := p.DB.DB()
			if err != nil {
				return err
			}
			return sqlDB.Close()
		},
	})
}
