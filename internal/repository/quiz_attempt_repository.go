package repository

import (
	"context"
	"time"

	"github.com/lshigami/Learnhub/internal/model"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type QuizAttemptRepository interface {
	Create(ctx context.Context, attempt *model.QuizAttempt) error
	FindByIDForUpdate(ctx context.Context, id uint) (*model.QuizAttempt, error)
	FindByIDWithResponses(ctx context.Context, id uint) (*model.QuizAttempt, error)
	FindOpen(ctx context.Context, quizID, learnerID uint) (*model.QuizAttempt, error)
	CountByQuizAndLearner(ctx context.Context, quizID, learnerID uint) (int64, error)
	FindAllByQuizAndLearner(ctx context.Context, quizID, learnerID uint) ([]model.QuizAttempt, error)
	FindAllByQuiz(ctx context.Context, quizID uint) ([]model.QuizAttempt, error)
	Finalize(ctx context.Context, attempt *model.QuizAttempt) (bool, error)
	WithTx(tx *gorm.DB) QuizAttemptRepository
}

type quizAttemptRepository struct {
	db *gorm.DB
}

func NewQuizAttemptRepository(db *gorm.DB) QuizAttemptRepository {
	return &quizAttemptRepository{db: db}
}

func (r *quizAttemptRepository) WithTx(tx *gorm.DB) QuizAttemptRepository {
	return &quizAttemptRepository{db: tx}
}

func (r *quizAttemptRepository) Create(ctx context.Context, attempt *model.QuizAttempt) error {
	return r.db.WithContext(ctx).Omit(clause.Associations).Create(attempt).Error
}

// FindByIDForUpdate row-locks the attempt until the surrounding transaction ends.
func (r *quizAttemptRepository) FindByIDForUpdate(ctx context.Context, id uint) (*model.QuizAttempt, error) {
	var attempt model.QuizAttempt
	err := r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		First(&attempt, id).Error
	if err != nil {
		return nil, err
	}
	return &attempt, nil
}

func (r *quizAttemptRepository) FindByIDWithResponses(ctx context.Context, id uint) (*model.QuizAttempt, error) {
	var attempt model.QuizAttempt
	err := r.db.WithContext(ctx).
		Preload("Responses", func(db *gorm.DB) *gorm.DB {
			return db.Order("question_responses.id ASC")
		}).
		Preload("Responses.SelectedChoices").
		First(&attempt, id).Error
	if err != nil {
		return nil, err
	}
	return &attempt, nil
}

func (r *quizAttemptRepository) FindOpen(ctx context.Context, quizID, learnerID uint) (*model.QuizAttempt, error) {
	var attempt model.QuizAttempt
	err := r.db.WithContext(ctx).
		Where("quiz_id = ? AND learner_id = ? AND completed_at IS NULL", quizID, learnerID).
		First(&attempt).Error
	if err != nil {
		return nil, err
	}
	return &attempt, nil
}

// CountByQuizAndLearner counts completed and in-progress attempts alike.
func (r *quizAttemptRepository) CountByQuizAndLearner(ctx context.Context, quizID, learnerID uint) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&model.QuizAttempt{}).
		Where("quiz_id = ? AND learner_id = ?", quizID, learnerID).
		Count(&count).Error
	return count, err
}

func (r *quizAttemptRepository) FindAllByQuizAndLearner(ctx context.Context, quizID, learnerID uint) ([]model.QuizAttempt, error) {
	var attempts []model.QuizAttempt
	err := r.db.WithContext(ctx).
		Where("quiz_id = ? AND learner_id = ?", quizID, learnerID).
		Order("started_at DESC, id DESC").
		Find(&attempts).Error
	return attempts, err
}

func (r *quizAttemptRepository) FindAllByQuiz(ctx context.Context, quizID uint) ([]model.QuizAttempt, error) {
	var attempts []model.QuizAttempt
	err := r.db.WithContext(ctx).
		Where("quiz_id = ?", quizID).
		Order("started_at DESC, id DESC").
		Find(&attempts).Error
	return attempts, err
}

// Finalize writes the scoring fields only while the attempt is still open.
// It reports false when another writer completed the attempt first.
func (r *quizAttemptRepository) Finalize(ctx context.Context, attempt *model.QuizAttempt) (bool, error) {
	result := r.db.WithContext(ctx).
		Model(&model.QuizAttempt{}).
		Where("id = ? AND completed_at IS NULL", attempt.ID).
		Updates(map[string]interface{}{
			"completed_at": attempt.CompletedAt,
			"time_spent":   attempt.TimeSpent,
			"score":        attempt.Score,
			"passed":       attempt.Passed,
			"updated_at":   time.Now(),
		})
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected == 1, nil
}
