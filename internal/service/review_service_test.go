package service

import (
	"context"
	"testing"

	"github.com/lshigami/Learnhub/internal/dto"
	"github.com/lshigami/Learnhub/internal/model"
	"github.com/lshigami/Learnhub/internal/repository"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newReviewService(f *courseFixture) ReviewService {
	return NewReviewService(
		repository.NewCourseRepository(f.db),
		repository.NewEnrollmentRepository(f.db),
		repository.NewReviewRepository(f.db),
		f.db,
	)
}

func TestReviewCourse_CreatesThenUpdatesOneReview(t *testing.T) {
	f := newCourseFixture(t, 1)
	ctx := context.Background()
	svc := newReviewService(f)
	f.enroll(t, 7)

	created, err := svc.ReviewCourse(ctx, 7, f.course.ID, dto.ReviewUpsertDTO{Rating: intPtr(4), Comment: strPtr("Solid")})
	require.NoError(t, err)
	assert.Equal(t, 4, created.Rating)
	require.NotNil(t, created.Comment)
	assert.Equal(t, "Solid", *created.Comment)

	// Only the rating is sent; the comment stays.
	updated, err := svc.ReviewCourse(ctx, 7, f.course.ID, dto.ReviewUpsertDTO{Rating: intPtr(5)})
	require.NoError(t, err)
	assert.Equal(t, created.ID, updated.ID)
	assert.Equal(t, 5, updated.Rating)
	require.NotNil(t, updated.Comment)
	assert.Equal(t, "Solid", *updated.Comment)

	var stored []model.Review
	require.NoError(t, f.db.Find(&stored).Error)
	require.Len(t, stored, 1)
	assert.Equal(t, 5, stored[0].Rating)
	assert.Equal(t, "Solid", *stored[0].Comment)
}

func TestReviewCourse_Rejections(t *testing.T) {
	f := newCourseFixture(t, 1)
	ctx := context.Background()
	svc := newReviewService(f)

	_, err := svc.ReviewCourse(ctx, 7, f.course.ID, dto.ReviewUpsertDTO{Rating: intPtr(3)})
	assert.ErrorIs(t, err, ErrNotEnrolled)

	_, err = svc.ReviewCourse(ctx, 7, f.course.ID+100, dto.ReviewUpsertDTO{Rating: intPtr(3)})
	assert.ErrorIs(t, err, ErrNotFound)

	f.enroll(t, 7)
	_, err = svc.ReviewCourse(ctx, 7, f.course.ID, dto.ReviewUpsertDTO{Comment: strPtr("no rating")})
	assert.ErrorIs(t, err, ErrValidation)
}

func TestReviewCourse_CompletedEnrollmentMayReview(t *testing.T) {
	f := newCourseFixture(t, 1)
	ctx := context.Background()
	svc := newReviewService(f)
	f.enroll(t, 7)
	_, err := f.svc.MarkLessonComplete(ctx, 7, f.lessons[0].ID, dto.MarkCompleteDTO{})
	require.NoError(t, err)

	got, err := svc.ReviewCourse(ctx, 7, f.course.ID, dto.ReviewUpsertDTO{Rating: intPtr(2)})
	require.NoError(t, err)
	assert.EqualValues(t, 7, got.LearnerID)
	assert.Equal(t, f.course.ID, got.CourseID)
}
