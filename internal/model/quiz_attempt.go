package model

import (
	"time"
)

// QuizAttempt is open while CompletedAt is nil. The partial unique index
// allows at most one open attempt per (quiz, learner).
type QuizAttempt struct {
	ID          uint               `gorm:"primarykey" json:"id"`
	QuizID      uint               `json:"quiz_id" gorm:"not null;index;uniqueIndex:idx_quiz_attempts_open,where:completed_at IS NULL"`
	Quiz        Quiz               `json:"quiz,omitempty" gorm:"foreignKey:QuizID"`
	LearnerID   uint               `json:"learner_id" gorm:"not null;index;uniqueIndex:idx_quiz_attempts_open,where:completed_at IS NULL"`
	Score       float64            `json:"score" gorm:"not null"`
	Passed      bool               `json:"passed" gorm:"not null"`
	TimeSpent   int                `json:"time_spent" gorm:"not null"` // seconds
	StartedAt   time.Time          `json:"started_at" gorm:"not null"`
	CompletedAt *time.Time         `json:"completed_at,omitempty"`
	Responses   []QuestionResponse `json:"responses,omitempty" gorm:"foreignKey:AttemptID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE;"`
	CreatedAt   time.Time          `json:"created_at"`
	UpdatedAt   time.Time          `json:"updated_at"`
}

func (a *QuizAttempt) IsCompleted() bool {
	return a.CompletedAt != nil
}
