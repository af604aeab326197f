package user

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/lshigami/Learnhub/internal/controller"
	"github.com/lshigami/Learnhub/internal/dto"
	"github.com/lshigami/Learnhub/internal/middleware"
	"github.com/lshigami/Learnhub/internal/service"
	"github.com/rs/zerolog/log"
)

type QuizController struct {
	quizService    service.QuizService
	attemptService service.QuizAttemptService
}

func NewQuizController(qs service.QuizService, as service.QuizAttemptService) *QuizController {
	return &QuizController{quizService: qs, attemptService: as}
}

// GetQuiz godoc
// @Summary (Learner) Get a quiz
// @Description Questions and choices without correctness data, with question count and total points.
// @Tags Learner - Quizzes & Attempts
// @Produce json
// @Security BearerAuth
// @Param quiz_id path int true "Quiz ID"
// @Success 200 {object} dto.QuizDTO
// @Failure 400 {object} dto.ErrorResponse "Invalid Quiz ID format"
// @Failure 404 {object} dto.ErrorResponse "Quiz not found"
// @Router /api/v1/quizzes/{quiz_id} [get]
func (c *QuizController) GetQuiz(ctx *gin.Context) {
	quizID, ok := controller.ParseIDParam(ctx, "quiz_id")
	if !ok {
		return
	}
	quiz, err := c.quizService.GetQuizForLearner(ctx.Request.Context(), quizID)
	if err != nil {
		controller.RespondError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, quiz)
}

// StartAttempt godoc
// @Summary (Learner) Start or resume a quiz attempt
// @Description Returns 201 with a new attempt, or 200 with the learner's attempt that is still in progress.
// @Tags Learner - Quizzes & Attempts
// @Produce json
// @Security BearerAuth
// @Param quiz_id path int true "Quiz ID"
// @Success 201 {object} dto.AttemptDTO "Attempt created"
// @Success 200 {object} dto.AttemptDTO "Open attempt resumed"
// @Failure 400 {object} dto.ErrorResponse "Maximum attempts reached"
// @Failure 404 {object} dto.ErrorResponse "Quiz not found"
// @Router /api/v1/quizzes/{quiz_id}/start [post]
func (c *QuizController) StartAttempt(ctx *gin.Context) {
	quizID, ok := controller.ParseIDParam(ctx, "quiz_id")
	if !ok {
		return
	}
	learnerID := middleware.LearnerID(ctx)
	attempt, created, err := c.attemptService.StartAttempt(ctx.Request.Context(), quizID, learnerID)
	if err != nil {
		controller.RespondError(ctx, err)
		return
	}
	status := http.StatusOK
	if created {
		status = http.StatusCreated
	}
	ctx.JSON(status, attempt)
}

// ListMyAttempts godoc
// @Summary (Learner) List my attempts on a quiz
// @Tags Learner - Quizzes & Attempts
// @Produce json
// @Security BearerAuth
// @Param quiz_id path int true "Quiz ID"
// @Success 200 {array} dto.AttemptSummaryDTO
// @Failure 404 {object} dto.ErrorResponse "Quiz not found"
// @Router /api/v1/quizzes/{quiz_id}/my_attempts [get]
func (c *QuizController) ListMyAttempts(ctx *gin.Context) {
	quizID, ok := controller.ParseIDParam(ctx, "quiz_id")
	if !ok {
		return
	}
	attempts, err := c.attemptService.ListMyAttempts(ctx.Request.Context(), quizID, middleware.LearnerID(ctx))
	if err != nil {
		controller.RespondError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, attempts)
}

// GetAttempt godoc
// @Summary (Learner) Get one of my attempts with its responses
// @Tags Learner - Quizzes & Attempts
// @Produce json
// @Security BearerAuth
// @Param attempt_id path int true "Attempt ID"
// @Success 200 {object} dto.AttemptDTO
// @Failure 403 {object} dto.ErrorResponse "Attempt belongs to another learner"
// @Failure 404 {object} dto.ErrorResponse "Attempt not found"
// @Router /api/v1/attempts/{attempt_id} [get]
func (c *QuizController) GetAttempt(ctx *gin.Context) {
	attemptID, ok := controller.ParseIDParam(ctx, "attempt_id")
	if !ok {
		return
	}
	attempt, err := c.attemptService.GetAttempt(ctx.Request.Context(), attemptID, middleware.LearnerID(ctx))
	if err != nil {
		controller.RespondError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, attempt)
}

// SubmitAttempt godoc
// @Summary (Learner) Submit answers and finish an attempt
// @Description Grades every response, then scores and closes the attempt. An attempt can be submitted once.
// @Tags Learner - Quizzes & Attempts
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param attempt_id path int true "Attempt ID"
// @Param submission body dto.AttemptSubmitDTO true "Responses"
// @Success 200 {object} dto.AttemptDTO
// @Failure 400 {object} dto.ErrorResponse "Invalid request body"
// @Failure 403 {object} dto.ErrorResponse "Attempt belongs to another learner"
// @Failure 404 {object} dto.ErrorResponse "Attempt not found"
// @Failure 409 {object} dto.ErrorResponse "Attempt already submitted"
// @Router /api/v1/attempts/{attempt_id}/submit [post]
func (c *QuizController) SubmitAttempt(ctx *gin.Context) {
	attemptID, ok := controller.ParseIDParam(ctx, "attempt_id")
	if !ok {
		return
	}
	var req dto.AttemptSubmitDTO
	if !controller.BindJSON(ctx, &req) {
		return
	}
	learnerID := middleware.LearnerID(ctx)
	log.Info().Uint("attemptID", attemptID).Uint("learnerID", learnerID).Int("responseCount", len(req.Responses)).Msg("Received attempt submission")

	attempt, err := c.attemptService.SubmitAttempt(ctx.Request.Context(), attemptID, learnerID, req)
	if err != nil {
		controller.RespondError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, attempt)
}
