package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"unicode"

	"github.com/jinzhu/copier"
	"github.com/lshigami/Learnhub/internal/dto"
	"github.com/lshigami/Learnhub/internal/model"
	"github.com/lshigami/Learnhub/internal/repository"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"
)

type AdminCourseService interface {
	CreateCourse(ctx context.Context, instructorID uint, req dto.CourseCreateDTO) (*dto.CourseDTO, error)
}

type adminCourseService struct {
	courseRepo repository.CourseRepository
	quizRepo   repository.QuizRepository
}

func NewAdminCourseService(courseRepo repository.CourseRepository, quizRepo repository.QuizRepository) AdminCourseService {
	return &adminCourseService{courseRepo: courseRepo, quizRepo: quizRepo}
}

func (s *adminCourseService) CreateCourse(ctx context.Context, instructorID uint, req dto.CourseCreateDTO) (*dto.CourseDTO, error) {
	course := model.Course{
		Title:        req.Title,
		Description:  req.Description,
		InstructorID: instructorID,
		IsPublished:  req.IsPublished,
	}

	quizLessons := make(map[uint]struct{})
	for _, secDto := range req.Sections {
		section := model.Section{Title: secDto.Title, Description: secDto.Description, Order: secDto.Order}
		for _, lDto := range secDto.Lessons {
			var lesson model.Lesson
			if err := copier.Copy(&lesson, &lDto); err != nil {
				return nil, fmt.Errorf("error preparing lesson data: %w", err)
			}
			lesson.LessonType = model.LessonType(lDto.LessonType)
			if lesson.LessonType == "" {
				lesson.LessonType = model.LessonTypeText
			}
			if err := s.validateLessonQuiz(ctx, &lesson, quizLessons); err != nil {
				return nil, err
			}
			section.Lessons = append(section.Lessons, lesson)
		}
		course.Sections = append(course.Sections, section)
	}

	slug, err := s.uniqueSlug(ctx, req.Title)
	if err != nil {
		return nil, err
	}
	course.Slug = slug

	if err := s.courseRepo.Create(ctx, &course); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, fmt.Errorf("%w: slug %q or a lesson quiz is already taken", ErrValidation, slug)
		}
		log.Error().Err(err).Msg("Failed to create course in database")
		return nil, fmt.Errorf("database error creating course: %w", err)
	}
	log.Info().Uint("courseID", course.ID).Str("slug", course.Slug).Msg("Course created")

	created, err := s.courseRepo.FindByIDWithLessons(ctx, course.ID)
	if err != nil {
		log.Error().Err(err).Uint("courseID", course.ID).Msg("Failed to retrieve newly created course for response")
		created = &course
	}
	var resp dto.CourseDTO
	if err := copier.Copy(&resp, created); err != nil {
		return nil, fmt.Errorf("error preparing course response: %w", err)
	}
	return &resp, nil
}

// validateLessonQuiz enforces that quiz lessons point at an existing quiz and
// that a quiz backs at most one lesson.
func (s *adminCourseService) validateLessonQuiz(ctx context.Context, lesson *model.Lesson, seen map[uint]struct{}) error {
	if lesson.QuizID == nil {
		if lesson.LessonType == model.LessonTypeQuiz {
			return fmt.Errorf("%w: quiz lesson %q needs a quiz_id", ErrValidation, lesson.Title)
		}
		return nil
	}
	if _, dup := seen[*lesson.QuizID]; dup {
		return fmt.Errorf("%w: quiz %d is used by more than one lesson", ErrValidation, *lesson.QuizID)
	}
	seen[*lesson.QuizID] = struct{}{}
	if _, err := s.quizRepo.FindByID(ctx, *lesson.QuizID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fmt.Errorf("%w: quiz %d does not exist", ErrValidation, *lesson.QuizID)
		}
		return err
	}
	return nil
}

func (s *adminCourseService) uniqueSlug(ctx context.Context, title string) (string, error) {
	base := slugify(title)
	if base == "" {
		base = "course"
	}
	slug := base
	for n := 2; ; n++ {
		count, err := s.courseRepo.CountSlug(ctx, slug)
		if err != nil {
			return "", fmt.Errorf("failed to check slug: %w", err)
		}
		if count == 0 {
			return slug, nil
		}
		slug = fmt.Sprintf("%s-%d", base, n)
	}
}

// slugify lowercases s and joins its alphanumeric runs with hyphens.
func slugify(s string) string {
	var b strings.Builder
	pendingDash := false
	for _, r := range strings.ToLower(s) {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			if pendingDash && b.Len() > 0 {
				b.WriteByte('-')
			}
			pendingDash = false
			b.WriteRune(r)
			continue
		}
		pendingDash = true
	}
	return b.String()
}
