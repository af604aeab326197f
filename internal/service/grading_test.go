package service

import (
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/lshigami/Learnhub/internal/model"
	"github.com/stretchr/testify/assert"
)

func TestGradeResponse(t *testing.T) {
	multi := &model.Question{Type: model.QuestionTypeMultipleChoice, Choices: []model.Choice{
		{ID: 1, IsCorrect: true}, {ID: 2}, {ID: 3, IsCorrect: true},
	}}
	short := &model.Question{Type: model.QuestionTypeShortAnswer, Choices: []model.Choice{
		{ID: 4, Text: "Photosynthesis", IsCorrect: true}, {ID: 5, Text: "Respiration"},
	}}
	matching := &model.Question{Type: model.QuestionTypeMatching, Choices: []model.Choice{
		{ID: 6, Text: "H2O", MatchText: strPtr("Water")},
		{ID: 7, Text: "NaCl", MatchText: strPtr("Salt")},
	}}
	noTargets := &model.Question{Type: model.QuestionTypeMatching, Choices: []model.Choice{{ID: 8, Text: "lonely"}}}

	tests := []struct {
		name     string
		question *model.Question
		selected []uint
		text     string
		matches  []model.MatchPair
		want     bool
	}{
		{name: "multiple exact set", question: multi, selected: []uint{3, 1}, want: true},
		{name: "multiple duplicate ids", question: multi, selected: []uint{1, 3, 1}, want: true},
		{name: "multiple subset", question: multi, selected: []uint{1}, want: false},
		{name: "multiple superset", question: multi, selected: []uint{1, 2, 3}, want: false},
		{name: "multiple foreign id", question: multi, selected: []uint{1, 3, 99}, want: false},
		{name: "multiple nothing", question: multi, want: false},
		{name: "short answer normalized", question: short, text: "  PHOTOSYNTHESIS\n", want: true},
		{name: "short answer wrong choice text", question: short, text: "respiration", want: false},
		{name: "short answer empty", question: short, want: false},
		{name: "matching all pairs", question: matching, matches: []model.MatchPair{{ChoiceID: 7, MatchText: "salt"}, {ChoiceID: 6, MatchText: " WATER"}}, want: true},
		{name: "matching swapped", question: matching, matches: []model.MatchPair{{ChoiceID: 6, MatchText: "Salt"}, {ChoiceID: 7, MatchText: "Water"}}, want: false},
		{name: "matching missing pair", question: matching, matches: []model.MatchPair{{ChoiceID: 6, MatchText: "Water"}}, want: false},
		{name: "matching duplicate pair", question: matching, matches: []model.MatchPair{{ChoiceID: 6, MatchText: "Water"}, {ChoiceID: 6, MatchText: "Water"}}, want: false},
		{name: "matching without targets", question: noTargets, want: false},
		{name: "unknown type", question: &model.Question{Type: "essay"}, text: "anything", want: false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, GradeResponse(tt.question, tt.selected, tt.text, tt.matches))
		})
	}
}

func TestScoreCalculator(t *testing.T) {
	calc := NewScoreCalculatorService()

	assert.Equal(t, 0.0, calc.ToPercentage(0, 0))
	assert.Equal(t, 0.0, calc.ToPercentage(3, 0))
	assert.Equal(t, 50.0, calc.ToPercentage(1, 2))
	assert.Equal(t, 100.0, calc.ToPercentage(4, 4))
	assert.Equal(t, 100.0, calc.ToPercentage(5, 4))
	assert.InDelta(t, 33.333333, calc.ToPercentage(1, 3), 1e-5)

	assert.True(t, calc.IsPassing(70, 70))
	assert.False(t, calc.IsPassing(69.99, 70))
	assert.True(t, calc.IsPassing(0, 0))
}

func TestParseFeedback(t *testing.T) {
	assert.Equal(t, "Think about light.", parseFeedback("Feedback: Think about light."))
	assert.Equal(t, "Close, but no.", parseFeedback("  feedback:\n Close, but no.  "))
	assert.Equal(t, "No label here", parseFeedback("No label here"))
	assert.Empty(t, parseFeedback("   "))
}

func TestParseFeedback_NonASCII(t *testing.T) {
	// Runes whose lowercase form has a different byte length.
	grows := strings.Repeat("Ⱥ", 10) + "feedback: ok"
	assert.NotPanics(t, func() { parseFeedback(grows) })
	assert.Equal(t, "ok", parseFeedback(grows))

	shrinks := strings.Repeat("İ", 10) + "FEEDBACK: ok"
	got := parseFeedback(shrinks)
	assert.Equal(t, "ok", got)
	assert.True(t, utf8.ValidString(got))

	unlabelled := "Ünïcödé ÅNSWER, İstanbul"
	assert.Equal(t, unlabelled, parseFeedback(unlabelled))
	assert.Equal(t, "Überlege noch einmal.", parseFeedback("Feedback: Überlege noch einmal."))
}

func TestSlugify(t *testing.T) {
	assert.Equal(t, "intro-to-go", slugify("Intro to Go"))
	assert.Equal(t, "go-101-basics", slugify("  Go 101: Basics!! "))
	assert.Equal(t, "", slugify("!!!"))
}
