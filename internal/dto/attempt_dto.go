package dto

import "time"

// MatchPairDTO pairs a left-hand choice with the text the learner matched it to.
type MatchPairDTO struct {
	ChoiceID  uint   `json:"choice_id" binding:"required"`
	MatchText string `json:"match_text"`
}

// ResponseItemDTO is one answered question inside a submission.
type ResponseItemDTO struct {
	Question        uint           `json:"question" binding:"required"`
	SelectedChoices []uint         `json:"selected_choices"`
	TextResponse    string         `json:"text_response"`
	Matches         []MatchPairDTO `json:"matches" binding:"omitempty,dive"`
}

// AttemptSubmitDTO is the request body for submitting an attempt.
type AttemptSubmitDTO struct {
	Responses []ResponseItemDTO `json:"responses" binding:"omitempty,dive"`
}

// QuestionResponseDTO is a graded response as shown to its owner.
type QuestionResponseDTO struct {
	ID              uint           `json:"id"`
	QuestionID      uint           `json:"question_id"`
	SelectedChoices []uint         `json:"selected_choices"`
	TextResponse    string         `json:"text_response,omitempty"`
	Matches         []MatchPairDTO `json:"matches,omitempty"`
	IsCorrect       bool           `json:"is_correct"`
	PointsEarned    float64        `json:"points_earned"`
	Feedback        string         `json:"feedback,omitempty"`
}

// AttemptDTO is the full view of an attempt.
type AttemptDTO struct {
	ID          uint                  `json:"id"`
	QuizID      uint                  `json:"quiz_id"`
	LearnerID   uint                  `json:"learner_id"`
	Score       float64               `json:"score"`
	Passed      bool                  `json:"passed"`
	TimeSpent   int                   `json:"time_spent"`
	StartedAt   time.Time             `json:"started_at"`
	CompletedAt *time.Time            `json:"completed_at"`
	Responses   []QuestionResponseDTO `json:"responses"`
}

// AttemptSummaryDTO is used for listing attempts on a quiz.
type AttemptSummaryDTO struct {
	ID          uint       `json:"id"`
	QuizID      uint       `json:"quiz_id"`
	LearnerID   uint       `json:"learner_id"`
	Score       float64    `json:"score"`
	Passed      bool       `json:"passed"`
	TimeSpent   int        `json:"time_spent"`
	StartedAt   time.Time  `json:"started_at"`
	CompletedAt *time.Time `json:"completed_at"`
}
