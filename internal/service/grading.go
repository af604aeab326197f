package service

import (
	"strings"

	"github.com/lshigami/Learnhub/internal/model"
)

// GradeResponse decides whether an answer to question is correct. selected
// holds the choice ids exactly as submitted, including ids that do not belong
// to the question.
func GradeResponse(question *model.Question, selected []uint, text string, matches []model.MatchPair) bool {
	switch question.Type {
	case model.QuestionTypeMultipleChoice, model.QuestionTypeTrueFalse:
		return gradeChoiceSet(question, selected)
	case model.QuestionTypeShortAnswer:
		return gradeShortAnswer(question, text)
	case model.QuestionTypeMatching:
		return gradeMatching(question, matches)
	default:
		return false
	}
}

// gradeChoiceSet: the selected set must equal the correct set, no partial credit.
func gradeChoiceSet(question *model.Question, selected []uint) bool {
	correct := make(map[uint]struct{})
	for _, c := range question.Choices {
		if c.IsCorrect {
			correct[c.ID] = struct{}{}
		}
	}
	picked := make(map[uint]struct{}, len(selected))
	for _, id := range selected {
		picked[id] = struct{}{}
	}
	if len(picked) != len(correct) {
		return false
	}
	for id := range picked {
		if _, ok := correct[id]; !ok {
			return false
		}
	}
	return true
}

func gradeShortAnswer(question *model.Question, text string) bool {
	answer := normalizeAnswer(text)
	for _, c := range question.Choices {
		if c.IsCorrect && normalizeAnswer(c.Text) == answer {
			return true
		}
	}
	return false
}

// gradeMatching requires every choice carrying a match text to be paired with
// that text, and nothing else to be paired.
func gradeMatching(question *model.Question, matches []model.MatchPair) bool {
	expected := make(map[uint]string)
	for _, c := range question.Choices {
		if c.MatchText != nil {
			expected[c.ID] = normalizeAnswer(*c.MatchText)
		}
	}
	if len(expected) == 0 || len(matches) != len(expected) {
		return false
	}
	seen := make(map[uint]struct{}, len(matches))
	for _, m := range matches {
		if _, dup := seen[m.ChoiceID]; dup {
			return false
		}
		seen[m.ChoiceID] = struct{}{}
		want, ok := expected[m.ChoiceID]
		if !ok || want != normalizeAnswer(m.MatchText) {
			return false
		}
	}
	return true
}

func normalizeAnswer(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}
