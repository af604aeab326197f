package router

import (
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/lshigami/Learnhub/config"
	"github.com/lshigami/Learnhub/internal/controller"
	adminctrl "github.com/lshigami/Learnhub/internal/controller/admin"
	userctrl "github.com/lshigami/Learnhub/internal/controller/user"
	"github.com/lshigami/Learnhub/internal/logger"
	"github.com/lshigami/Learnhub/internal/middleware"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

func NewGinEngine(cfg *config.Config) (*gin.Engine, error) {
	gin.SetMode(cfg.Server.GinMode)
	if err := controller.RegisterValidators(); err != nil {
		return nil, err
	}

	r := gin.New()
	r.Use(middleware.RequestID())
	r.Use(logger.GinRequestLogger())
	r.Use(gin.Recovery())
	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"*"},
		AllowMethods:     []string{"GET", "POST", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization", middleware.RequestIDHeader},
		ExposeHeaders:    []string{"Content-Length", middleware.RequestIDHeader},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	// URL: http://localhost:PORT/swagger/index.html
	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	return r, nil
}

type Controllers struct {
	Health      *controller.HealthController
	Quiz        *userctrl.QuizController
	Progress    *userctrl.ProgressController
	AdminQuiz   *adminctrl.AdminQuizController
	AdminCourse *adminctrl.AdminCourseController
}

func RegisterRoutes(r *gin.Engine, auth *middleware.Authenticator, c Controllers) {
	r.GET("/healthz", c.Health.Health)

	api := r.Group("/api/v1", auth.RequireLearner())
	{
		api.GET("/quizzes/:quiz_id", c.Quiz.GetQuiz)
		api.POST("/quizzes/:quiz_id/start", c.Quiz.StartAttempt)
		api.GET("/quizzes/:quiz_id/my_attempts", c.Quiz.ListMyAttempts)
		api.GET("/attempts/:attempt_id", c.Quiz.GetAttempt)
		api.POST("/attempts/:attempt_id/submit", c.Quiz.SubmitAttempt)

		api.POST("/courses/:course_id/enroll", c.Progress.Enroll)
		api.POST("/courses/:course_id/review", c.Progress.ReviewCourse)
		api.GET("/enrollments/my", c.Progress.ListMyEnrollments)
		api.POST("/enrollments/:enrollment_id/complete", c.Progress.CompleteEnrollment)
		api.GET("/lessons/:lesson_id/progress", c.Progress.GetLessonProgress)
		api.POST("/lessons/:lesson_id/progress", c.Progress.RecordLessonProgress)
		api.POST("/lessons/:lesson_id/mark_complete", c.Progress.MarkLessonComplete)
	}

	admin := api.Group("/admin", middleware.RequireRole(middleware.RoleInstructor, middleware.RoleAdmin))
	{
		admin.POST("/quizzes", c.AdminQuiz.CreateQuiz)
		admin.GET("/quizzes/:quiz_id/attempts", c.AdminQuiz.ListQuizAttempts)
		admin.POST("/courses", c.AdminCourse.CreateCourse)
	}
}
