package service

import (
	"context"
	"testing"
	"time"

	"github.com/lshigami/Learnhub/internal/dto"
	"github.com/lshigami/Learnhub/internal/model"
	"github.com/lshigami/Learnhub/internal/repository"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEnroll(t *testing.T) {
	f := newCourseFixture(t, 1)
	ctx := context.Background()
	svc := NewEnrollmentService(repository.NewCourseRepository(f.db), repository.NewEnrollmentRepository(f.db), f.db)

	got, err := svc.Enroll(ctx, 7, f.course.ID)
	require.NoError(t, err)
	assert.Equal(t, "active", got.Status)
	assert.Equal(t, "Go basics", got.CourseTitle)
	assert.Equal(t, 0.0, got.Progress)

	_, err = svc.Enroll(ctx, 7, f.course.ID)
	assert.ErrorIs(t, err, ErrAlreadyEnrolled)

	_, err = svc.Enroll(ctx, 7, f.course.ID+100)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestListMyEnrollments_ActiveOnly(t *testing.T) {
	f := newCourseFixture(t, 1)
	ctx := context.Background()
	svc := NewEnrollmentService(repository.NewCourseRepository(f.db), repository.NewEnrollmentRepository(f.db), f.db)

	_, err := svc.Enroll(ctx, 7, f.course.ID)
	require.NoError(t, err)

	list, err := svc.ListMyEnrollments(ctx, 7)
	require.NoError(t, err)
	require.Len(t, list, 1)

	// Completing the only lesson completes the enrollment, which drops it from the list.
	_, err = f.svc.MarkLessonComplete(ctx, 7, f.lessons[0].ID, dto.MarkCompleteDTO{})
	require.NoError(t, err)

	list, err = svc.ListMyEnrollments(ctx, 7)
	require.NoError(t, err)
	assert.Empty(t, list)

	other, err := svc.ListMyEnrollments(ctx, 8)
	require.NoError(t, err)
	assert.Empty(t, other)
}

func TestCreateCourse_SlugAndQuizLessons(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()
	quizRepo := repository.NewQuizRepository(db)
	quiz := &model.Quiz{Title: "Checkpoint", PassPercentage: 70}
	require.NoError(t, quizRepo.Create(ctx, quiz))
	svc := NewAdminCourseService(repository.NewCourseRepository(db), quizRepo)

	req := dto.CourseCreateDTO{
		Title: "Intro to Go",
		Sections: []dto.SectionCreateDTO{{
			Title: "Start",
			Lessons: []dto.LessonCreateDTO{
				{Title: "Hello", Order: 1},
				{Title: "Quiz", LessonType: "quiz", QuizID: &quiz.ID, Order: 2},
			},
		}},
	}
	got, err := svc.CreateCourse(ctx, 42, req)
	require.NoError(t, err)
	assert.Equal(t, "intro-to-go", got.Slug)
	assert.EqualValues(t, 42, got.InstructorID)
	require.Len(t, got.Sections, 1)
	require.Len(t, got.Sections[0].Lessons, 2)
	assert.Equal(t, "text", got.Sections[0].Lessons[0].LessonType)

	req.Sections = nil
	again, err := svc.CreateCourse(ctx, 42, req)
	require.NoError(t, err)
	assert.Equal(t, "intro-to-go-2", again.Slug)

	missing := uint(999)
	_, err = svc.CreateCourse(ctx, 42, dto.CourseCreateDTO{
		Title:    "Broken",
		Sections: []dto.SectionCreateDTO{{Title: "S", Lessons: []dto.LessonCreateDTO{{Title: "Q", LessonType: "quiz", QuizID: &missing}}}},
	})
	assert.ErrorIs(t, err, ErrValidation)

	_, err = svc.CreateCourse(ctx, 42, dto.CourseCreateDTO{
		Title:    "No quiz",
		Sections: []dto.SectionCreateDTO{{Title: "S", Lessons: []dto.LessonCreateDTO{{Title: "Q", LessonType: "quiz"}}}},
	})
	assert.ErrorIs(t, err, ErrValidation)
}

func TestCompleteEnrollment(t *testing.T) {
	f := newCourseFixture(t, 2)
	ctx := context.Background()
	svc := NewEnrollmentService(repository.NewCourseRepository(f.db), repository.NewEnrollmentRepository(f.db), f.db).(*enrollmentService)
	svc.now = func() time.Time { return f.clock }
	enrollment := f.enroll(t, 7)

	_, err := svc.Complete(ctx, 8, enrollment.ID, false)
	assert.ErrorIs(t, err, ErrForbidden)

	_, err = svc.Complete(ctx, 7, enrollment.ID+100, false)
	assert.ErrorIs(t, err, ErrNotFound)

	got, err := svc.Complete(ctx, 7, enrollment.ID, false)
	require.NoError(t, err)
	assert.Equal(t, string(model.EnrollmentCompleted), got.Status)
	assert.Equal(t, "Go basics", got.CourseTitle)
	assert.Equal(t, 0.0, got.Progress)
	require.NotNil(t, got.CompletedAt)
	assert.True(t, got.CompletedAt.Equal(f.clock))

	// A second completion keeps the original timestamp.
	first := f.clock
	f.clock = f.clock.Add(time.Hour)
	got, err = svc.Complete(ctx, 7, enrollment.ID, false)
	require.NoError(t, err)
	assert.True(t, got.CompletedAt.Equal(first))

	// Later lesson progress recalculates the percentage but leaves the status alone.
	progress, err := f.svc.RecordLessonProgress(ctx, 7, f.lessons[0].ID, dto.LessonProgressUpdateDTO{IsCompleted: true})
	require.NoError(t, err)
	assert.InDelta(t, 50.0, progress.Enrollment.Progress, 1e-9)
	assert.Equal(t, string(model.EnrollmentCompleted), progress.Enrollment.Status)
}

func TestCompleteEnrollment_AdminMayCompleteAnyEnrollment(t *testing.T) {
	f := newCourseFixture(t, 1)
	ctx := context.Background()
	svc := NewEnrollmentService(repository.NewCourseRepository(f.db), repository.NewEnrollmentRepository(f.db), f.db)
	enrollment := f.enroll(t, 7)

	got, err := svc.Complete(ctx, 1, enrollment.ID, true)
	require.NoError(t, err)
	assert.Equal(t, string(model.EnrollmentCompleted), got.Status)
	assert.EqualValues(t, 7, got.LearnerID)
}
