package service

import (
	"context"
	"testing"
	"time"

	"github.com/lshigami/Learnhub/database"
	"github.com/lshigami/Learnhub/internal/model"
	"github.com/lshigami/Learnhub/internal/repository"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := database.OpenSQLite(":memory:")
	require.NoError(t, err)
	require.NoError(t, database.AutoMigrate(db))
	t.Cleanup(func() {
		sqlDB, err := db.DB()
		if err == nil {
			sqlDB.Close()
		}
	})
	return db
}

type stubFeedback struct {
	enabled bool
	panics  bool
	text    string
	err     error
	calls   int
}

func (f *stubFeedback) Enabled() bool { return f.enabled }

func (f *stubFeedback) ShortAnswerFeedback(_ context.Context, _ *model.Question, _ []string, _ string) (string, error) {
	f.calls++
	if f.panics {
		panic("malformed model reply")
	}
	return f.text, f.err
}

func (f *stubFeedback) Close() error { return nil }

type attemptFixture struct {
	db      *gorm.DB
	svc     *quizAttemptService
	quiz    *model.Quiz
	clock   time.Time
	fb      *stubFeedback
	byOrder map[int]*model.Question
}

func strPtr(s string) *string { return &s }

// newAttemptFixture stores a quiz with one question of each type:
// order 1 multiple_choice (2 pts, correct "B"), order 2 true_false (1 pt, correct "True"),
// order 3 short_answer (1 pt, "Paris"), order 4 matching (1 pt).
func newAttemptFixture(t *testing.T, maxAttempts int) *attemptFixture {
	t.Helper()
	db := newTestDB(t)
	quiz := &model.Quiz{
		Title:          "Geography",
		PassPercentage: 60,
		MaxAttempts:    maxAttempts,
		Questions: []model.Question{
			{Text: "Pick B", Type: model.QuestionTypeMultipleChoice, Points: 2, Order: 1, Choices: []model.Choice{
				{Text: "A", Order: 1}, {Text: "B", IsCorrect: true, Order: 2}, {Text: "C", Order: 3},
			}},
			{Text: "The sky is blue", Type: model.QuestionTypeTrueFalse, Points: 1, Order: 2, Choices: []model.Choice{
				{Text: "True", IsCorrect: true, Order: 1}, {Text: "False", Order: 2},
			}},
			{Text: "Capital of France", Type: model.QuestionTypeShortAnswer, Points: 1, Order: 3, Choices: []model.Choice{
				{Text: "Paris", IsCorrect: true, Order: 1},
			}},
			{Text: "Match countries", Type: model.QuestionTypeMatching, Points: 1, Order: 4, Choices: []model.Choice{
				{Text: "France", MatchText: strPtr("Paris"), Order: 1},
				{Text: "Japan", MatchText: strPtr("Tokyo"), Order: 2},
			}},
		},
	}
	quizRepo := repository.NewQuizRepository(db)
	require.NoError(t, quizRepo.Create(context.Background(), quiz))

	fb := &stubFeedback{}
	svc := NewQuizAttemptService(
		quizRepo,
		repository.NewQuizAttemptRepository(db),
		repository.NewQuestionResponseRepository(db),
		fb,
		NewScoreCalculatorService(),
		db,
	).(*quizAttemptService)

	f := &attemptFixture{db: db, svc: svc, quiz: quiz, fb: fb, clock: time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)}
	svc.now = func() time.Time { return f.clock }
	f.byOrder = make(map[int]*model.Question)
	for i := range quiz.Questions {
		f.byOrder[quiz.Questions[i].Order] = &quiz.Questions[i]
	}
	return f
}

func (f *attemptFixture) choiceID(order int, text string) uint {
	for _, c := range f.byOrder[order].Choices {
		if c.Text == text {
			return c.ID
		}
	}
	return 0
}

type courseFixture struct {
	db      *gorm.DB
	svc     *progressService
	course  *model.Course
	lessons []model.Lesson
	clock   time.Time
}

// newCourseFixture stores a course with lessonCount lessons split over two sections.
func newCourseFixture(t *testing.T, lessonCount int) *courseFixture {
	t.Helper()
	db := newTestDB(t)
	course := &model.Course{Title: "Go basics", Slug: "go-basics", InstructorID: 99}
	first := model.Section{Title: "Part 1", Order: 1}
	second := model.Section{Title: "Part 2", Order: 2}
	for i := 0; i < lessonCount; i++ {
		lesson := model.Lesson{Title: "Lesson", LessonType: model.LessonTypeText, Order: i + 1}
		if i%2 == 0 {
			first.Lessons = append(first.Lessons, lesson)
		} else {
			second.Lessons = append(second.Lessons, lesson)
		}
	}
	course.Sections = []model.Section{first, second}
	courseRepo := repository.NewCourseRepository(db)
	require.NoError(t, courseRepo.Create(context.Background(), course))

	var lessons []model.Lesson
	require.NoError(t, db.Order("id ASC").Find(&lessons).Error)

	svc := NewProgressService(
		courseRepo,
		repository.NewEnrollmentRepository(db),
		repository.NewLessonProgressRepository(db),
		NewScoreCalculatorService(),
		db,
	).(*progressService)
	f := &courseFixture{db: db, svc: svc, course: course, lessons: lessons, clock: time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)}
	svc.now = func() time.Time { return f.clock }
	return f
}

func (f *courseFixture) enroll(t *testing.T, learnerID uint) *model.Enrollment {
	t.Helper()
	enrollment := &model.Enrollment{LearnerID: learnerID, CourseID: f.course.ID, Status: model.EnrollmentActive}
	require.NoError(t, repository.NewEnrollmentRepository(f.db).Create(context.Background(), enrollment))
	return enrollment
}
