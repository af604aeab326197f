package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/jinzhu/copier"
	"github.com/lshigami/Learnhub/internal/dto"
	"github.com/lshigami/Learnhub/internal/model"
	"github.com/lshigami/Learnhub/internal/repository"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"
)

type ReviewService interface {
	ReviewCourse(ctx context.Context, learnerID, courseID uint, req dto.ReviewUpsertDTO) (*dto.ReviewDTO, error)
}

type reviewService struct {
	courseRepo     repository.CourseRepository
	enrollmentRepo repository.EnrollmentRepository
	reviewRepo     repository.ReviewRepository
	db             *gorm.DB
}

func NewReviewService(
	courseRepo repository.CourseRepository,
	enrollmentRepo repository.EnrollmentRepository,
	reviewRepo repository.ReviewRepository,
	db *gorm.DB,
) ReviewService {
	return &reviewService{courseRepo: courseRepo, enrollmentRepo: enrollmentRepo, reviewRepo: reviewRepo, db: db}
}

// ReviewCourse creates the learner's review of the course, or updates the
// fields req carries when one exists. Any enrollment, whatever its status,
// allows reviewing.
func (s *reviewService) ReviewCourse(ctx context.Context, learnerID, courseID uint, req dto.ReviewUpsertDTO) (*dto.ReviewDTO, error) {
	if _, err := s.courseRepo.FindByID(ctx, courseID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to load course %d: %w", courseID, err)
	}
	if _, err := s.enrollmentRepo.FindByLearnerAndCourse(ctx, learnerID, courseID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotEnrolled
		}
		return nil, fmt.Errorf("failed to look up enrollment: %w", err)
	}

	review, err := s.upsert(ctx, learnerID, courseID, req)
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		// A concurrent first review won the insert; apply ours as an update.
		review, err = s.upsert(ctx, learnerID, courseID, req)
	}
	if err != nil {
		if !isBusinessError(err) {
			log.Error().Err(err).Uint("courseID", courseID).Uint("learnerID", learnerID).Msg("Failed to save review")
		}
		return nil, err
	}

	var out dto.ReviewDTO
	if err := copier.Copy(&out, review); err != nil {
		return nil, fmt.Errorf("failed to map review: %w", err)
	}
	return &out, nil
}

func (s *reviewService) upsert(ctx context.Context, learnerID, courseID uint, req dto.ReviewUpsertDTO) (*model.Review, error) {
	var review *model.Review
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		reviews := s.reviewRepo.WithTx(tx)
		existing, err := reviews.FindByLearnerAndCourse(ctx, learnerID, courseID)
		if errors.Is(err, gorm.ErrRecordNotFound) {
			if req.Rating == nil {
				return fmt.Errorf("%w: rating is required for a new review", ErrValidation)
			}
			review = &model.Review{CourseID: courseID, LearnerID: learnerID, Rating: *req.Rating, Comment: req.Comment}
			return reviews.Create(ctx, review)
		}
		if err != nil {
			return fmt.Errorf("failed to look up review: %w", err)
		}

		review = existing
		var columns []string
		if req.Rating != nil {
			review.Rating = *req.Rating
			columns = append(columns, "rating")
		}
		if req.Comment != nil {
			review.Comment = req.Comment
			columns = append(columns, "comment")
		}
		if len(columns) == 0 {
			return nil
		}
		return reviews.Update(ctx, review, columns)
	})
	return review, err
}
