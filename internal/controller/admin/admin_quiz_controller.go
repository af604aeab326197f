package admin

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/lshigami/Learnhub/internal/controller"
	"github.com/lshigami/Learnhub/internal/dto"
	"github.com/lshigami/Learnhub/internal/middleware"
	"github.com/lshigami/Learnhub/internal/service"
	"github.com/rs/zerolog/log"
)

type AdminQuizController struct {
	adminQuizService service.AdminQuizService
	attemptService   service.QuizAttemptService
}

func NewAdminQuizController(adminQuizService service.AdminQuizService, attemptService service.QuizAttemptService) *AdminQuizController {
	return &AdminQuizController{adminQuizService: adminQuizService, attemptService: attemptService}
}

// CreateQuiz godoc
// @Summary (Instructor) Create a quiz with its questions
// @Description Every question must be gradable for its type: choice-based types need a correct choice, matching choices need match_text.
// @Tags Admin - Quizzes
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param quiz_data body dto.QuizCreateDTO true "Quiz with questions and choices"
// @Success 201 {object} dto.QuizDTO "Quiz created successfully"
// @Failure 400 {object} dto.ErrorResponse "Invalid input data"
// @Failure 403 {object} dto.ErrorResponse "Caller is not an instructor or admin"
// @Router /api/v1/admin/quizzes [post]
func (c *AdminQuizController) CreateQuiz(ctx *gin.Context) {
	var req dto.QuizCreateDTO
	if !controller.BindJSON(ctx, &req) {
		return
	}
	quiz, err := c.adminQuizService.CreateQuiz(ctx.Request.Context(), req)
	if err != nil {
		log.Warn().Err(err).Str("title", req.Title).Msg("Admin CreateQuiz: Service error")
		controller.RespondError(ctx, err)
		return
	}
	ctx.JSON(http.StatusCreated, quiz)
}

// ListQuizAttempts godoc
// @Summary (Instructor) List all learners' attempts on a quiz
// @Description Instructors see quizzes that back a lesson in one of their courses. Admins see any quiz.
// @Tags Admin - Quizzes
// @Produce json
// @Security BearerAuth
// @Param quiz_id path int true "Quiz ID"
// @Success 200 {array} dto.AttemptSummaryDTO
// @Failure 403 {object} dto.ErrorResponse "Quiz is not in one of the caller's courses"
// @Failure 404 {object} dto.ErrorResponse "Quiz not found"
// @Router /api/v1/admin/quizzes/{quiz_id}/attempts [get]
func (c *AdminQuizController) ListQuizAttempts(ctx *gin.Context) {
	quizID, ok := controller.ParseIDParam(ctx, "quiz_id")
	if !ok {
		return
	}
	attempts, err := c.attemptService.ListAttemptsForQuiz(ctx.Request.Context(), quizID, middleware.LearnerID(ctx), middleware.IsAdmin(ctx))
	if err != nil {
		controller.RespondError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, attempts)
}
