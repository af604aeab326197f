package repository

import (
	"context"
	"errors"
	"time"

	"github.com/lshigami/Learnhub/internal/model"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type LessonProgressRepository interface {
	FindByEnrollmentAndLesson(ctx context.Context, enrollmentID, lessonID uint) (*model.LessonProgress, error)
	FirstOrCreate(ctx context.Context, enrollmentID, lessonID uint) (*model.LessonProgress, error)
	Upsert(ctx context.Context, progress *model.LessonProgress, updateColumns []string) (*model.LessonProgress, error)
	CountCompleted(ctx context.Context, enrollmentID uint) (int64, error)
	WithTx(tx *gorm.DB) LessonProgressRepository
}

type lessonProgressRepository struct {
	db *gorm.DB
}

func NewLessonProgressRepository(db *gorm.DB) LessonProgressRepository {
	return &lessonProgressRepository{db: db}
}

func (r *lessonProgressRepository) WithTx(tx *gorm.DB) LessonProgressRepository {
	return &lessonProgressRepository{db: tx}
}

func (r *lessonProgressRepository) FindByEnrollmentAndLesson(ctx context.Context, enrollmentID, lessonID uint) (*model.LessonProgress, error) {
	var progress model.LessonProgress
	err := r.db.WithContext(ctx).
		Where("enrollment_id = ? AND lesson_id = ?", enrollmentID, lessonID).
		First(&progress).Error
	if err != nil {
		return nil, err
	}
	return &progress, nil
}

func (r *lessonProgressRepository) FirstOrCreate(ctx context.Context, enrollmentID, lessonID uint) (*model.LessonProgress, error) {
	progress, err := r.FindByEnrollmentAndLesson(ctx, enrollmentID, lessonID)
	if err == nil {
		return progress, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}
	created := &model.LessonProgress{EnrollmentID: enrollmentID, LessonID: lessonID, ViewedAt: time.Now()}
	err = r.db.WithContext(ctx).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(created).Error
	if err != nil {
		return nil, err
	}
	return r.FindByEnrollmentAndLesson(ctx, enrollmentID, lessonID)
}

// Upsert inserts the row, or on (enrollment_id, lesson_id) conflict updates
// exactly updateColumns. The stored row is returned.
func (r *lessonProgressRepository) Upsert(ctx context.Context, progress *model.LessonProgress, updateColumns []string) (*model.LessonProgress, error) {
	err := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "enrollment_id"}, {Name: "lesson_id"}},
			DoUpdates: clause.AssignmentColumns(updateColumns),
		}).
		Create(progress).Error
	if err != nil {
		return nil, err
	}
	return r.FindByEnrollmentAndLesson(ctx, progress.EnrollmentID, progress.LessonID)
}

func (r *lessonProgressRepository) CountCompleted(ctx context.Context, enrollmentID uint) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&model.LessonProgress{}).
		Where("enrollment_id = ? AND is_completed = ?", enrollmentID, true).
		Count(&count).Error
	return count, err
}
