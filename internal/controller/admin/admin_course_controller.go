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

type AdminCourseController struct {
	adminCourseService service.AdminCourseService
}

func NewAdminCourseController(adminCourseService service.AdminCourseService) *AdminCourseController {
	return &AdminCourseController{adminCourseService: adminCourseService}
}

// CreateCourse godoc
// @Summary (Instructor) Create a course with sections and lessons
// @Description The caller becomes the course instructor. The slug is derived from the title.
// @Tags Admin - Courses
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param course_data body dto.CourseCreateDTO true "Course with sections and lessons"
// @Success 201 {object} dto.CourseDTO "Course created successfully"
// @Failure 400 {object} dto.ErrorResponse "Invalid input data"
// @Failure 403 {object} dto.ErrorResponse "Caller is not an instructor or admin"
// @Router /api/v1/admin/courses [post]
func (c *AdminCourseController) CreateCourse(ctx *gin.Context) {
	var req dto.CourseCreateDTO
	if !controller.BindJSON(ctx, &req) {
		return
	}
	course, err := c.adminCourseService.CreateCourse(ctx.Request.Context(), middleware.LearnerID(ctx), req)
	if err != nil {
		log.Warn().Err(err).Str("title", req.Title).Msg("Admin CreateCourse: Service error")
		controller.RespondError(ctx, err)
		return
	}
	ctx.JSON(http.StatusCreated, course)
}
