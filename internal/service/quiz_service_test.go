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

func TestGetQuizForLearner_HidesAnswers(t *testing.T) {
	f := newAttemptFixture(t, 3)
	svc := NewQuizService(repository.NewQuizRepository(f.db))

	got, err := svc.GetQuizForLearner(context.Background(), f.quiz.ID)
	require.NoError(t, err)
	assert.Equal(t, 4, got.QuestionCount)
	assert.Equal(t, 5, got.TotalPoints)
	assert.Equal(t, 3, got.MaxAttempts)
	require.Len(t, got.Questions, 4)

	assert.Equal(t, "multiple_choice", got.Questions[0].Type)
	assert.Len(t, got.Questions[0].Choices, 3)
	assert.Empty(t, got.Questions[2].Choices, "short answer choices hold the accepted answers")
	assert.Equal(t, []string{"Paris", "Tokyo"}, got.Questions[3].MatchTargets)

	_, err = svc.GetQuizForLearner(context.Background(), f.quiz.ID+100)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestCreateQuiz_DefaultsAndShape(t *testing.T) {
	db := newTestDB(t)
	svc := NewAdminQuizService(repository.NewQuizRepository(db))

	got, err := svc.CreateQuiz(context.Background(), dto.QuizCreateDTO{
		Title: "Basics",
		Questions: []dto.QuestionCreateDTO{
			{Text: "2+2?", Type: "multiple_choice", Order: 1, Choices: []dto.ChoiceCreateDTO{
				{Text: "4", IsCorrect: true}, {Text: "5"},
			}},
			{Text: "Go is compiled", Type: "true_false", Points: 3, Order: 2, Choices: []dto.ChoiceCreateDTO{
				{Text: "True", IsCorrect: true}, {Text: "False"},
			}},
		},
	})
	require.NoError(t, err)
	assert.Equal(t, model.DefaultPassPercentage, got.PassPercentage)
	assert.Equal(t, 2, got.QuestionCount)
	assert.Equal(t, 4, got.TotalPoints)

	var correct int64
	require.NoError(t, db.Model(&model.Choice{}).Where("is_correct = ?", true).Count(&correct).Error)
	assert.EqualValues(t, 2, correct)
}

func TestCreateQuiz_RejectsUngradableQuestions(t *testing.T) {
	db := newTestDB(t)
	svc := NewAdminQuizService(repository.NewQuizRepository(db))

	cases := map[string]dto.QuestionCreateDTO{
		"multiple choice without correct": {Text: "q", Type: "multiple_choice", Choices: []dto.ChoiceCreateDTO{{Text: "a"}, {Text: "b"}}},
		"true false with three choices": {Text: "q", Type: "true_false", Choices: []dto.ChoiceCreateDTO{
			{Text: "a", IsCorrect: true}, {Text: "b"}, {Text: "c"},
		}},
		"short answer without accepted": {Text: "q", Type: "short_answer"},
		"matching without target":       {Text: "q", Type: "matching", Choices: []dto.ChoiceCreateDTO{{Text: "a"}}},
	}
	for name, q := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := svc.CreateQuiz(context.Background(), dto.QuizCreateDTO{Title: "Bad", Questions: []dto.QuestionCreateDTO{q}})
			assert.ErrorIs(t, err, ErrValidation)
		})
	}

	var quizzes int64
	require.NoError(t, db.Model(&model.Quiz{}).Count(&quizzes).Error)
	assert.Zero(t, quizzes)
}
