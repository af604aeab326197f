package user

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/lshigami/Learnhub/internal/controller"
	"github.com/lshigami/Learnhub/internal/dto"
	"github.com/lshigami/Learnhub/internal/middleware"
	"github.com/lshigami/Learnhub/internal/service"
)

type ProgressController struct {
	progressService   service.ProgressService
	enrollmentService service.EnrollmentService
	reviewService     service.ReviewService
}

func NewProgressController(ps service.ProgressService, es service.EnrollmentService, rs service.ReviewService) *ProgressController {
	return &ProgressController{progressService: ps, enrollmentService: es, reviewService: rs}
}

// Enroll godoc
// @Summary (Learner) Enroll in a course
// @Tags Learner - Courses & Progress
// @Produce json
// @Security BearerAuth
// @Param course_id path int true "Course ID"
// @Success 201 {object} dto.EnrollmentDTO
// @Failure 404 {object} dto.ErrorResponse "Course not found"
// @Failure 409 {object} dto.ErrorResponse "Already enrolled"
// @Router /api/v1/courses/{course_id}/enroll [post]
func (c *ProgressController) Enroll(ctx *gin.Context) {
	courseID, ok := controller.ParseIDParam(ctx, "course_id")
	if !ok {
		return
	}
	enrollment, err := c.enrollmentService.Enroll(ctx.Request.Context(), middleware.LearnerID(ctx), courseID)
	if err != nil {
		controller.RespondError(ctx, err)
		return
	}
	ctx.JSON(http.StatusCreated, enrollment)
}

// CompleteEnrollment godoc
// @Summary (Learner) Mark an enrollment completed
// @Description Allowed for the enrolled learner or an admin. Completing twice keeps the first completed_at.
// @Tags Learner - Courses & Progress
// @Produce json
// @Security BearerAuth
// @Param enrollment_id path int true "Enrollment ID"
// @Success 200 {object} dto.EnrollmentDTO
// @Failure 403 {object} dto.ErrorResponse "Not the enrolled learner"
// @Failure 404 {object} dto.ErrorResponse "Enrollment not found"
// @Router /api/v1/enrollments/{enrollment_id}/complete [post]
func (c *ProgressController) CompleteEnrollment(ctx *gin.Context) {
	enrollmentID, ok := controller.ParseIDParam(ctx, "enrollment_id")
	if !ok {
		return
	}
	enrollment, err := c.enrollmentService.Complete(ctx.Request.Context(), middleware.LearnerID(ctx), enrollmentID, middleware.IsAdmin(ctx))
	if err != nil {
		controller.RespondError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, enrollment)
}

// ReviewCourse godoc
// @Summary (Learner) Review a course
// @Description Creates the caller's review, or updates the fields sent when one exists. Rating is required for a new review.
// @Tags Learner - Courses & Progress
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param course_id path int true "Course ID"
// @Param review body dto.ReviewUpsertDTO true "Rating 1-5 and optional comment"
// @Success 200 {object} dto.ReviewDTO
// @Failure 400 {object} dto.ErrorResponse "Invalid body or not enrolled"
// @Failure 404 {object} dto.ErrorResponse "Course not found"
// @Router /api/v1/courses/{course_id}/review [post]
func (c *ProgressController) ReviewCourse(ctx *gin.Context) {
	courseID, ok := controller.ParseIDParam(ctx, "course_id")
	if !ok {
		return
	}
	var req dto.ReviewUpsertDTO
	if !controller.BindJSON(ctx, &req) {
		return
	}
	review, err := c.reviewService.ReviewCourse(ctx.Request.Context(), middleware.LearnerID(ctx), courseID, req)
	if err != nil {
		controller.RespondError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, review)
}

// ListMyEnrollments godoc
// @Summary (Learner) List my active enrollments
// @Tags Learner - Courses & Progress
// @Produce json
// @Security BearerAuth
// @Success 200 {array} dto.EnrollmentDTO
// @Router /api/v1/enrollments/my [get]
func (c *ProgressController) ListMyEnrollments(ctx *gin.Context) {
	enrollments, err := c.enrollmentService.ListMyEnrollments(ctx.Request.Context(), middleware.LearnerID(ctx))
	if err != nil {
		controller.RespondError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, enrollments)
}

// GetLessonProgress godoc
// @Summary (Learner) Get my progress on a lesson
// @Description Creates an empty progress record on first access.
// @Tags Learner - Courses & Progress
// @Produce json
// @Security BearerAuth
// @Param lesson_id path int true "Lesson ID"
// @Success 200 {object} dto.LessonProgressDTO
// @Failure 400 {object} dto.ErrorResponse "Not enrolled in the lesson's course"
// @Failure 404 {object} dto.ErrorResponse "Lesson not found"
// @Router /api/v1/lessons/{lesson_id}/progress [get]
func (c *ProgressController) GetLessonProgress(ctx *gin.Context) {
	lessonID, ok := controller.ParseIDParam(ctx, "lesson_id")
	if !ok {
		return
	}
	progress, err := c.progressService.GetLessonProgress(ctx.Request.Context(), middleware.LearnerID(ctx), lessonID)
	if err != nil {
		controller.RespondError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, progress)
}

// RecordLessonProgress godoc
// @Summary (Learner) Record progress on a lesson
// @Description Overwrites completion, watched duration and last position, then recalculates the course progress.
// @Tags Learner - Courses & Progress
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param lesson_id path int true "Lesson ID"
// @Param progress body dto.LessonProgressUpdateDTO true "Progress values"
// @Success 200 {object} dto.LessonProgressDTO
// @Failure 400 {object} dto.ErrorResponse "Invalid body or not enrolled"
// @Failure 404 {object} dto.ErrorResponse "Lesson not found"
// @Router /api/v1/lessons/{lesson_id}/progress [post]
func (c *ProgressController) RecordLessonProgress(ctx *gin.Context) {
	lessonID, ok := controller.ParseIDParam(ctx, "lesson_id")
	if !ok {
		return
	}
	var req dto.LessonProgressUpdateDTO
	if !controller.BindJSON(ctx, &req) {
		return
	}
	progress, err := c.progressService.RecordLessonProgress(ctx.Request.Context(), middleware.LearnerID(ctx), lessonID, req)
	if err != nil {
		controller.RespondError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, progress)
}

// MarkLessonComplete godoc
// @Summary (Learner) Mark a lesson complete
// @Description Body is optional. Omitted fields keep their stored values.
// @Tags Learner - Courses & Progress
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param lesson_id path int true "Lesson ID"
// @Param progress body dto.MarkCompleteDTO false "Optional position and duration"
// @Success 200 {object} dto.LessonProgressDTO
// @Failure 400 {object} dto.ErrorResponse "Invalid body or not enrolled"
// @Failure 404 {object} dto.ErrorResponse "Lesson not found"
// @Router /api/v1/lessons/{lesson_id}/mark_complete [post]
func (c *ProgressController) MarkLessonComplete(ctx *gin.Context) {
	lessonID, ok := controller.ParseIDParam(ctx, "lesson_id")
	if !ok {
		return
	}
	var req dto.MarkCompleteDTO
	if !controller.BindOptionalJSON(ctx, &req) {
		return
	}
	progress, err := c.progressService.MarkLessonComplete(ctx.Request.Context(), middleware.LearnerID(ctx), lessonID, req)
	if err != nil {
		controller.RespondError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, progress)
}
