package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/lshigami/Learnhub/internal/dto"
	"github.com/lshigami/Learnhub/internal/model"
	"github.com/lshigami/Learnhub/internal/repository"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"
)

type EnrollmentService interface {
	Enroll(ctx context.Context, learnerID, courseID uint) (*dto.EnrollmentDTO, error)
	ListMyEnrollments(ctx context.Context, learnerID uint) ([]dto.EnrollmentDTO, error)
	Complete(ctx context.Context, userID, enrollmentID uint, asAdmin bool) (*dto.EnrollmentDTO, error)
}

type enrollmentService struct {
	courseRepo     repository.CourseRepository
	enrollmentRepo repository.EnrollmentRepository
	db             *gorm.DB
	now            func() time.Time
}

func NewEnrollmentService(courseRepo repository.CourseRepository, enrollmentRepo repository.EnrollmentRepository, db *gorm.DB) EnrollmentService {
	return &enrollmentService{courseRepo: courseRepo, enrollmentRepo: enrollmentRepo, db: db, now: time.Now}
}

func (s *enrollmentService) Enroll(ctx context.Context, learnerID, courseID uint) (*dto.EnrollmentDTO, error) {
	course, err := s.courseRepo.FindByID(ctx, courseID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to load course %d: %w", courseID, err)
	}

	if _, err := s.enrollmentRepo.FindByLearnerAndCourse(ctx, learnerID, courseID); err == nil {
		return nil, ErrAlreadyEnrolled
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("failed to look up enrollment: %w", err)
	}

	enrollment := model.Enrollment{
		LearnerID: learnerID,
		CourseID:  courseID,
		Status:    model.EnrollmentActive,
	}
	if err := s.enrollmentRepo.Create(ctx, &enrollment); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, ErrAlreadyEnrolled
		}
		log.Error().Err(err).Uint("courseID", courseID).Uint("learnerID", learnerID).Msg("Failed to create enrollment")
		return nil, fmt.Errorf("database error creating enrollment: %w", err)
	}
	enrollment.Course = *course
	log.Info().Uint("enrollmentID", enrollment.ID).Uint("courseID", courseID).Uint("learnerID", learnerID).Msg("Learner enrolled")
	return toEnrollmentDTO(&enrollment), nil
}

// ListMyEnrollments returns the learner's active enrollments, newest first.
func (s *enrollmentService) ListMyEnrollments(ctx context.Context, learnerID uint) ([]dto.EnrollmentDTO, error) {
	enrollments, err := s.enrollmentRepo.FindActiveByLearner(ctx, learnerID)
	if err != nil {
		log.Error().Err(err).Uint("learnerID", learnerID).Msg("Failed to list enrollments")
		return nil, fmt.Errorf("error fetching enrollments: %w", err)
	}
	out := make([]dto.EnrollmentDTO, 0, len(enrollments))
	for i := range enrollments {
		out = append(out, *toEnrollmentDTO(&enrollments[i]))
	}
	return out, nil
}

// Complete marks the enrollment completed regardless of lesson progress. Only
// the enrolled learner or an admin may do so. Completing twice keeps the
// first completed_at.
func (s *enrollmentService) Complete(ctx context.Context, userID, enrollmentID uint, asAdmin bool) (*dto.EnrollmentDTO, error) {
	var enrollment *model.Enrollment
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		enrollments := s.enrollmentRepo.WithTx(tx)
		var err error
		enrollment, err = enrollments.FindByIDForUpdate(ctx, enrollmentID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrNotFound
			}
			return fmt.Errorf("failed to load enrollment %d: %w", enrollmentID, err)
		}
		if enrollment.LearnerID != userID && !asAdmin {
			return ErrForbidden
		}
		if enrollment.Status == model.EnrollmentCompleted && enrollment.CompletedAt != nil {
			return nil
		}
		now := s.now()
		enrollment.Status = model.EnrollmentCompleted
		enrollment.CompletedAt = &now
		return enrollments.SaveProgress(ctx, enrollment)
	})
	if err != nil {
		if !isBusinessError(err) {
			log.Error().Err(err).Uint("enrollmentID", enrollmentID).Msg("Failed to complete enrollment")
		}
		return nil, err
	}

	if course, err := s.courseRepo.FindByID(ctx, enrollment.CourseID); err == nil {
		enrollment.Course = *course
	}
	log.Info().Uint("enrollmentID", enrollment.ID).Uint("userID", userID).Msg("Enrollment completed")
	return toEnrollmentDTO(enrollment), nil
}

func toEnrollmentDTO(e *model.Enrollment) *dto.EnrollmentDTO {
	return &dto.EnrollmentDTO{
		ID:          e.ID,
		LearnerID:   e.LearnerID,
		CourseID:    e.CourseID,
		CourseTitle: e.Course.Title,
		Status:      string(e.Status),
		Progress:    e.Progress,
		EnrolledAt:  e.EnrolledAt,
		CompletedAt: e.CompletedAt,
	}
}
