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

// ProgressService records per-lesson progress and keeps the enrollment
// percentage in step with it.
type ProgressService interface {
	GetLessonProgress(ctx context.Context, learnerID, lessonID uint) (*dto.LessonProgressDTO, error)
	RecordLessonProgress(ctx context.Context, learnerID, lessonID uint, req dto.LessonProgressUpdateDTO) (*dto.LessonProgressDTO, error)
	MarkLessonComplete(ctx context.Context, learnerID, lessonID uint, req dto.MarkCompleteDTO) (*dto.LessonProgressDTO, error)
	RecalculateEnrollment(ctx context.Context, enrollmentID uint) (*dto.EnrollmentDTO, error)
}

type progressService struct {
	courseRepo     repository.CourseRepository
	enrollmentRepo repository.EnrollmentRepository
	progressRepo   repository.LessonProgressRepository
	scoreCalc      ScoreCalculatorService
	db             *gorm.DB
	now            func() time.Time
}

func NewProgressService(
	courseRepo repository.CourseRepository,
	enrollmentRepo repository.EnrollmentRepository,
	progressRepo repository.LessonProgressRepository,
	scoreCalc ScoreCalculatorService,
	db *gorm.DB,
) ProgressService {
	return &progressService{
		courseRepo:     courseRepo,
		enrollmentRepo: enrollmentRepo,
		progressRepo:   progressRepo,
		scoreCalc:      scoreCalc,
		db:             db,
		now:            time.Now,
	}
}

// GetLessonProgress returns the stored row, creating an empty one on first view.
func (s *progressService) GetLessonProgress(ctx context.Context, learnerID, lessonID uint) (*dto.LessonProgressDTO, error) {
	enrollment, err := s.resolveEnrollment(ctx, s.db, learnerID, lessonID)
	if err != nil {
		return nil, err
	}
	progress, err := s.progressRepo.FirstOrCreate(ctx, enrollment.ID, lessonID)
	if err != nil {
		return nil, fmt.Errorf("failed to load lesson progress: %w", err)
	}
	return toLessonProgressDTO(progress, nil), nil
}

// RecordLessonProgress overwrites every progress field with the request values.
func (s *progressService) RecordLessonProgress(ctx context.Context, learnerID, lessonID uint, req dto.LessonProgressUpdateDTO) (*dto.LessonProgressDTO, error) {
	row := model.LessonProgress{
		LessonID:        lessonID,
		IsCompleted:     req.IsCompleted,
		WatchedDuration: req.WatchedDuration,
		LastPosition:    req.LastPosition,
	}
	return s.writeProgress(ctx, learnerID, lessonID, &row, recordProgressColumns())
}

// MarkLessonComplete sets is_completed and only the optional fields provided.
func (s *progressService) MarkLessonComplete(ctx context.Context, learnerID, lessonID uint, req dto.MarkCompleteDTO) (*dto.LessonProgressDTO, error) {
	row := model.LessonProgress{LessonID: lessonID, IsCompleted: true}
	if req.WatchedDuration != nil {
		row.WatchedDuration = *req.WatchedDuration
	}
	if req.LastPosition != nil {
		row.LastPosition = *req.LastPosition
	}
	return s.writeProgress(ctx, learnerID, lessonID, &row, markCompleteColumns(req))
}

// RecalculateEnrollment recomputes the enrollment from its lesson progress rows.
func (s *progressService) RecalculateEnrollment(ctx context.Context, enrollmentID uint) (*dto.EnrollmentDTO, error) {
	var enrollment *model.Enrollment
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var err error
		enrollment, err = s.enrollmentRepo.WithTx(tx).FindByIDForUpdate(ctx, enrollmentID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrNotFound
			}
			return err
		}
		return s.recalculate(ctx, tx, enrollment)
	})
	if err != nil {
		return nil, err
	}
	return toEnrollmentDTO(enrollment), nil
}

func (s *progressService) writeProgress(ctx context.Context, learnerID, lessonID uint, row *model.LessonProgress, columns []string) (*dto.LessonProgressDTO, error) {
	var stored *model.LessonProgress
	var enrollment *model.Enrollment
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		found, err := s.resolveEnrollment(ctx, tx, learnerID, lessonID)
		if err != nil {
			return err
		}
		// Writers on the same enrollment queue here so the counts below see each other.
		enrollment, err = s.enrollmentRepo.WithTx(tx).FindByIDForUpdate(ctx, found.ID)
		if err != nil {
			return fmt.Errorf("failed to lock enrollment %d: %w", found.ID, err)
		}

		row.EnrollmentID = enrollment.ID
		row.ViewedAt = s.now()
		stored, err = s.progressRepo.WithTx(tx).Upsert(ctx, row, columns)
		if err != nil {
			return fmt.Errorf("failed to save lesson progress: %w", err)
		}
		return s.recalculate(ctx, tx, enrollment)
	})
	if err != nil {
		if !isBusinessError(err) {
			log.Error().Err(err).Uint("lessonID", lessonID).Uint("learnerID", learnerID).Msg("Lesson progress update failed")
		}
		return nil, err
	}
	return toLessonProgressDTO(stored, enrollment), nil
}

// recalculate must run inside the transaction holding the enrollment lock.
// A completed enrollment stays completed even if lessons are added later.
func (s *progressService) recalculate(ctx context.Context, tx *gorm.DB, enrollment *model.Enrollment) error {
	total, err := s.courseRepo.WithTx(tx).CountLessonsInCourse(ctx, enrollment.CourseID)
	if err != nil {
		return fmt.Errorf("failed to count course lessons: %w", err)
	}
	completed, err := s.progressRepo.WithTx(tx).CountCompleted(ctx, enrollment.ID)
	if err != nil {
		return fmt.Errorf("failed to count completed lessons: %w", err)
	}

	enrollment.Progress = s.scoreCalc.ToPercentage(completed, total)
	if enrollment.Progress >= 100 {
		now := s.now()
		enrollment.Status = model.EnrollmentCompleted
		enrollment.CompletedAt = &now
	}
	if err := s.enrollmentRepo.WithTx(tx).SaveProgress(ctx, enrollment); err != nil {
		return fmt.Errorf("failed to save enrollment progress: %w", err)
	}
	log.Debug().
		Uint("enrollmentID", enrollment.ID).
		Int64("completed", completed).
		Int64("total", total).
		Float64("progress", enrollment.Progress).
		Str("status", string(enrollment.Status)).
		Msg("Enrollment recalculated")
	return nil
}

func (s *progressService) resolveEnrollment(ctx context.Context, db *gorm.DB, learnerID, lessonID uint) (*model.Enrollment, error) {
	lesson, err := s.courseRepo.WithTx(db).FindLessonWithSection(ctx, lessonID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to load lesson %d: %w", lessonID, err)
	}
	enrollment, err := s.enrollmentRepo.WithTx(db).FindByLearnerAndCourse(ctx, learnerID, lesson.Section.CourseID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotEnrolled
		}
		return nil, fmt.Errorf("failed to load enrollment: %w", err)
	}
	return enrollment, nil
}

func recordProgressColumns() []string {
	return []string{"is_completed", "watched_duration", "last_position", "viewed_at"}
}

// markCompleteColumns lists the columns an existing row gets overwritten with.
func markCompleteColumns(req dto.MarkCompleteDTO) []string {
	cols := []string{"is_completed", "viewed_at"}
	if req.WatchedDuration != nil {
		cols = append(cols, "watched_duration")
	}
	if req.LastPosition != nil {
		cols = append(cols, "last_position")
	}
	return cols
}

func toLessonProgressDTO(p *model.LessonProgress, e *model.Enrollment) *dto.LessonProgressDTO {
	out := &dto.LessonProgressDTO{
		ID:              p.ID,
		EnrollmentID:    p.EnrollmentID,
		LessonID:        p.LessonID,
		IsCompleted:     p.IsCompleted,
		WatchedDuration: p.WatchedDuration,
		LastPosition:    p.LastPosition,
		ViewedAt:        p.ViewedAt,
	}
	if e != nil {
		out.Enrollment = toEnrollmentDTO(e)
	}
	return out
}
