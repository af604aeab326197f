package repository

import (
	"context"

	"github.com/lshigami/Learnhub/internal/model"
	"gorm.io/gorm"
)

type QuestionResponseRepository interface {
	Create(ctx context.Context, response *model.QuestionResponse) error
	UpdateFeedback(ctx context.Context, id uint, feedback string) error
	WithTx(tx *gorm.DB) QuestionResponseRepository
}

type questionResponseRepository struct {
	db *gorm.DB
}

func NewQuestionResponseRepository(db *gorm.DB) QuestionResponseRepository {
	return &questionResponseRepository{db: db}
}

func (r *questionResponseRepository) WithTx(tx *gorm.DB) QuestionResponseRepository {
	return &questionResponseRepository{db: tx}
}

// Create inserts the response and its join rows to the already stored selected choices.
func (r *questionResponseRepository) Create(ctx context.Context, response *model.QuestionResponse) error {
	return r.db.WithContext(ctx).Omit("Question", "SelectedChoices.*").Create(response).Error
}

// UpdateFeedback only touches the feedback column, graded fields stay as written.
func (r *questionResponseRepository) UpdateFeedback(ctx context.Context, id uint, feedback string) error {
	return r.db.WithContext(ctx).
		Model(&model.QuestionResponse{}).
		Where("id = ?", id).
		Update("feedback", feedback).Error
}
