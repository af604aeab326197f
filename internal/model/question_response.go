package model

import (
	"time"

	"gorm.io/datatypes"
)

// MatchPair is one learner pairing for a matching question.
type MatchPair struct {
	ChoiceID  uint   `json:"choice_id"`
	MatchText string `json:"match_text"`
}

type QuestionResponse struct {
	ID              uint                           `gorm:"primarykey" json:"id"`
	AttemptID       uint                           `json:"attempt_id" gorm:"not null;index"`
	QuestionID      uint                           `json:"question_id" gorm:"not null;index"`
	Question        Question                       `json:"question,omitempty" gorm:"foreignKey:QuestionID"`
	SelectedChoices []Choice                       `json:"selected_choices,omitempty" gorm:"many2many:response_selected_choices;constraint:OnDelete:CASCADE;"`
	TextResponse    string                         `json:"text_response,omitempty" gorm:"type:text"`
	MatchPairs      datatypes.JSONSlice[MatchPair] `json:"match_pairs,omitempty"`
	IsCorrect       bool                           `json:"is_correct" gorm:"not null"`
	PointsEarned    float64                        `json:"points_earned" gorm:"not null"`
	Feedback        string                         `json:"feedback,omitempty" gorm:"type:text"`
	CreatedAt       time.Time                      `json:"created_at"`
	UpdatedAt       time.Time                      `json:"updated_at"`
}
