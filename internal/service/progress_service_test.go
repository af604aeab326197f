package service

import (
	"context"
	"testing"
	"time"

	"github.com/lshigami/Learnhub/internal/dto"
	"github.com/lshigami/Learnhub/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func intPtr(i int) *int { return &i }

func TestRecordLessonProgress_CompletesCourseAfterAllLessons(t *testing.T) {
	f := newCourseFixture(t, 4)
	ctx := context.Background()
	enrollment := f.enroll(t, 7)

	expected := []float64{25, 50, 75, 100}
	for i, lesson := range f.lessons {
		got, err := f.svc.RecordLessonProgress(ctx, 7, lesson.ID, dto.LessonProgressUpdateDTO{IsCompleted: true, WatchedDuration: 60})
		require.NoError(t, err)
		require.NotNil(t, got.Enrollment)
		assert.InDelta(t, expected[i], got.Enrollment.Progress, 1e-9)
		if i < len(f.lessons)-1 {
			assert.Equal(t, string(model.EnrollmentActive), got.Enrollment.Status)
			assert.Nil(t, got.Enrollment.CompletedAt)
		}
	}

	var stored model.Enrollment
	require.NoError(t, f.db.First(&stored, enrollment.ID).Error)
	assert.Equal(t, model.EnrollmentCompleted, stored.Status)
	assert.InDelta(t, 100.0, stored.Progress, 1e-9)
	require.NotNil(t, stored.CompletedAt)
}

func TestRecordLessonProgress_OverwritesAllFields(t *testing.T) {
	f := newCourseFixture(t, 2)
	ctx := context.Background()
	f.enroll(t, 7)
	lesson := f.lessons[0]

	_, err := f.svc.RecordLessonProgress(ctx, 7, lesson.ID, dto.LessonProgressUpdateDTO{IsCompleted: true, WatchedDuration: 300, LastPosition: 120})
	require.NoError(t, err)

	f.clock = f.clock.Add(time.Minute)
	got, err := f.svc.RecordLessonProgress(ctx, 7, lesson.ID, dto.LessonProgressUpdateDTO{LastPosition: 10})
	require.NoError(t, err)
	assert.False(t, got.IsCompleted)
	assert.Equal(t, 0, got.WatchedDuration)
	assert.Equal(t, 10, got.LastPosition)
	assert.True(t, f.clock.Equal(got.ViewedAt))
	assert.Equal(t, 0.0, got.Enrollment.Progress)

	var rows int64
	require.NoError(t, f.db.Model(&model.LessonProgress{}).Count(&rows).Error)
	assert.EqualValues(t, 1, rows)
}

func TestMarkLessonComplete_KeepsOmittedFields(t *testing.T) {
	f := newCourseFixture(t, 2)
	ctx := context.Background()
	f.enroll(t, 7)
	lesson := f.lessons[1]

	_, err := f.svc.RecordLessonProgress(ctx, 7, lesson.ID, dto.LessonProgressUpdateDTO{WatchedDuration: 300, LastPosition: 120})
	require.NoError(t, err)

	got, err := f.svc.MarkLessonComplete(ctx, 7, lesson.ID, dto.MarkCompleteDTO{LastPosition: intPtr(200)})
	require.NoError(t, err)
	assert.True(t, got.IsCompleted)
	assert.Equal(t, 300, got.WatchedDuration)
	assert.Equal(t, 200, got.LastPosition)
	assert.InDelta(t, 50.0, got.Enrollment.Progress, 1e-9)
}

func TestMarkLessonComplete_InsertsWithDefaults(t *testing.T) {
	f := newCourseFixture(t, 1)
	ctx := context.Background()
	f.enroll(t, 7)

	got, err := f.svc.MarkLessonComplete(ctx, 7, f.lessons[0].ID, dto.MarkCompleteDTO{})
	require.NoError(t, err)
	assert.True(t, got.IsCompleted)
	assert.Equal(t, 0, got.WatchedDuration)
	assert.Equal(t, 0, got.LastPosition)
	assert.Equal(t, string(model.EnrollmentCompleted), got.Enrollment.Status)
}

func TestProgress_NotEnrolledAndUnknownLesson(t *testing.T) {
	f := newCourseFixture(t, 2)
	ctx := context.Background()

	_, err := f.svc.RecordLessonProgress(ctx, 7, f.lessons[0].ID, dto.LessonProgressUpdateDTO{IsCompleted: true})
	assert.ErrorIs(t, err, ErrNotEnrolled)

	_, err = f.svc.MarkLessonComplete(ctx, 7, f.lessons[0].ID, dto.MarkCompleteDTO{})
	assert.ErrorIs(t, err, ErrNotEnrolled)

	_, err = f.svc.GetLessonProgress(ctx, 7, f.lessons[0].ID)
	assert.ErrorIs(t, err, ErrNotEnrolled)

	f.enroll(t, 7)
	_, err = f.svc.RecordLessonProgress(ctx, 7, 999999, dto.LessonProgressUpdateDTO{})
	assert.ErrorIs(t, err, ErrNotFound)

	var rows int64
	require.NoError(t, f.db.Model(&model.LessonProgress{}).Count(&rows).Error)
	assert.Zero(t, rows)
}

func TestGetLessonProgress_CreatesEmptyRowOnce(t *testing.T) {
	f := newCourseFixture(t, 2)
	ctx := context.Background()
	f.enroll(t, 7)

	first, err := f.svc.GetLessonProgress(ctx, 7, f.lessons[0].ID)
	require.NoError(t, err)
	assert.False(t, first.IsCompleted)
	assert.Nil(t, first.Enrollment)

	second, err := f.svc.GetLessonProgress(ctx, 7, f.lessons[0].ID)
	require.NoError(t, err)
	assert.Equal(t, first.ID, second.ID)
}

func TestRecalculateEnrollment_NeverReverts(t *testing.T) {
	f := newCourseFixture(t, 2)
	ctx := context.Background()
	enrollment := f.enroll(t, 7)

	for _, lesson := range f.lessons {
		_, err := f.svc.MarkLessonComplete(ctx, 7, lesson.ID, dto.MarkCompleteDTO{})
		require.NoError(t, err)
	}

	// A lesson added after completion lowers the percentage but not the status.
	extra := model.Lesson{SectionID: f.lessons[0].SectionID, Title: "Bonus", LessonType: model.LessonTypeText, Order: 10}
	require.NoError(t, f.db.Create(&extra).Error)

	got, err := f.svc.RecalculateEnrollment(ctx, enrollment.ID)
	require.NoError(t, err)
	assert.InDelta(t, 200.0/3.0, got.Progress, 1e-9)
	assert.Equal(t, string(model.EnrollmentCompleted), got.Status)
	assert.NotNil(t, got.CompletedAt)

	_, err = f.svc.RecalculateEnrollment(ctx, enrollment.ID+100)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestRecalculateEnrollment_EmptyCourse(t *testing.T) {
	f := newCourseFixture(t, 0)
	enrollment := f.enroll(t, 7)

	got, err := f.svc.RecalculateEnrollment(context.Background(), enrollment.ID)
	require.NoError(t, err)
	assert.Equal(t, 0.0, got.Progress)
	assert.Equal(t, string(model.EnrollmentActive), got.Status)
}

func TestProgressColumns(t *testing.T) {
	assert.Equal(t, []string{"is_completed", "watched_duration", "last_position", "viewed_at"}, recordProgressColumns())
	assert.Equal(t, []string{"is_completed", "viewed_at"}, markCompleteColumns(dto.MarkCompleteDTO{}))
	assert.Equal(t, []string{"is_completed", "viewed_at", "watched_duration", "last_position"},
		markCompleteColumns(dto.MarkCompleteDTO{WatchedDuration: intPtr(1), LastPosition: intPtr(2)}))
}
