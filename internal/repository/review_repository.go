package repository

import (
	"context"

	"github.com/lshigami/Learnhub/internal/model"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type ReviewRepository interface {
	FindByLearnerAndCourse(ctx context.Context, learnerID, courseID uint) (*model.Review, error)
	Create(ctx context.Context, review *model.Review) error
	Update(ctx context.Context, review *model.Review, columns []string) error
	WithTx(tx *gorm.DB) ReviewRepository
}

type reviewRepository struct {
	db *gorm.DB
}

func NewReviewRepository(db *gorm.DB) ReviewRepository {
	return &reviewRepository{db: db}
}

func (r *reviewRepository) WithTx(tx *gorm.DB) ReviewRepository {
	return &reviewRepository{db: tx}
}

// FindByLearnerAndCourse row-locks the review when called inside a transaction.
func (r *reviewRepository) FindByLearnerAndCourse(ctx context.Context, learnerID, courseID uint) (*model.Review, error) {
	var review model.Review
	err := r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("learner_id = ? AND course_id = ?", learnerID, courseID).
		First(&review).Error
	if err != nil {
		return nil, err
	}
	return &review, nil
}

func (r *reviewRepository) Create(ctx context.Context, review *model.Review) error {
	return r.db.WithContext(ctx).Create(review).Error
}

// Update writes only the named columns plus updated_at.
func (r *reviewRepository) Update(ctx context.Context, review *model.Review, columns []string) error {
	return r.db.WithContext(ctx).
		Model(review).
		Select(append(columns, "updated_at")).
		Updates(review).Error
}
