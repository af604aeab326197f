package model

import (
	"time"
)

type QuestionType string

const (
	QuestionTypeMultipleChoice QuestionType = "multiple_choice"
	QuestionTypeTrueFalse      QuestionType = "true_false"
	QuestionTypeShortAnswer    QuestionType = "short_answer"
	QuestionTypeMatching       QuestionType = "matching"
)

func (t QuestionType) Valid() bool {
	switch t {
	case QuestionTypeMultipleChoice, QuestionTypeTrueFalse, QuestionTypeShortAnswer, QuestionTypeMatching:
		return true
	}
	return false
}

type Question struct {
	ID        uint         `gorm:"primarykey" json:"id"`
	QuizID    uint         `json:"quiz_id" gorm:"not null;index"`
	Text      string       `json:"question_text" gorm:"type:text;not null"`
	Type      QuestionType `json:"question_type" gorm:"size:20;not null"`
	Points    int          `json:"points" gorm:"not null"`
	Order     int          `json:"order" gorm:"column:sort_order;not null"`
	Choices   []Choice     `json:"choices,omitempty" gorm:"foreignKey:QuestionID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE;"`
	CreatedAt time.Time    `json:"created_at"`
	UpdatedAt time.Time    `json:"updated_at"`
}

type Choice struct {
	ID         uint    `gorm:"primarykey" json:"id"`
	QuestionID uint    `json:"question_id" gorm:"not null;index"`
	Text       string  `json:"choice_text" gorm:"size:500;not null"`
	IsCorrect  bool    `json:"is_correct" gorm:"not null"`
	MatchText  *string `json:"match_text,omitempty" gorm:"size:500"` // right-hand side of a matching pair
	Order      int     `json:"order" gorm:"column:sort_order;not null"`
}
