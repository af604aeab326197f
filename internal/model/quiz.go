package model

import (
	"time"
)

type Quiz struct {
	ID             uint       `gorm:"primarykey" json:"id"`
	Title          string     `json:"title" gorm:"not null"`
	Description    string     `json:"description,omitempty" gorm:"type:text"`
	TimeLimit      int        `json:"time_limit" gorm:"not null"` // minutes, 0 = no limit
	PassPercentage float64    `json:"pass_percentage" gorm:"not null"`
	MaxAttempts    int        `json:"max_attempts" gorm:"not null"` // 0 = unlimited
	Questions      []Question `json:"questions,omitempty" gorm:"foreignKey:QuizID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE;"`
	CreatedAt      time.Time  `json:"created_at"`
	UpdatedAt      time.Time  `json:"updated_at"`
}

// DefaultPassPercentage applies when a quiz is created without a threshold.
const DefaultPassPercentage = 70.0
