package dto

import "time"

// --- Admin: quiz creation ---

// ChoiceCreateDTO is used within QuestionCreateDTO.
type ChoiceCreateDTO struct {
	Text      string  `json:"choice_text" binding:"required,max=500"`
	IsCorrect bool    `json:"is_correct"`
	MatchText *string `json:"match_text" binding:"omitempty,max=500"`
	Order     int     `json:"order" binding:"min=0"`
}

// QuestionCreateDTO is used within QuizCreateDTO.
type QuestionCreateDTO struct {
	Text    string            `json:"question_text" binding:"required"`
	Type    string            `json:"question_type" binding:"required,question_type"`
	Points  int               `json:"points" binding:"omitempty,min=1"`
	Order   int               `json:"order" binding:"min=0"`
	Choices []ChoiceCreateDTO `json:"choices" binding:"omitempty,dive"`
}

// QuizCreateDTO is for an instructor to create a quiz with all its questions.
type QuizCreateDTO struct {
	Title          string              `json:"title" binding:"required,max=200"`
	Description    string              `json:"description,omitempty"`
	TimeLimit      int                 `json:"time_limit" binding:"min=0"`
	PassPercentage *float64            `json:"pass_percentage" binding:"omitempty,min=0,max=100"`
	MaxAttempts    int                 `json:"max_attempts" binding:"min=0"`
	Questions      []QuestionCreateDTO `json:"questions" binding:"required,min=1,dive"`
}

// --- Learner-facing quiz views (correctness data is never included) ---

type ChoiceDTO struct {
	ID    uint   `json:"id"`
	Text  string `json:"choice_text"`
	Order int    `json:"order"`
}

type QuestionDTO struct {
	ID      uint        `json:"id"`
	QuizID  uint        `json:"quiz_id"`
	Text    string      `json:"question_text"`
	Type    string      `json:"question_type"`
	Points  int         `json:"points"`
	Order   int         `json:"order"`
	Choices []ChoiceDTO `json:"choices"`
	// MatchTargets lists the right-hand texts of a matching question, sorted.
	MatchTargets []string `json:"match_targets,omitempty"`
}

type QuizDTO struct {
	ID             uint          `json:"id"`
	Title          string        `json:"title"`
	Description    string        `json:"description,omitempty"`
	TimeLimit      int           `json:"time_limit"`
	PassPercentage float64       `json:"pass_percentage"`
	MaxAttempts    int           `json:"max_attempts"`
	QuestionCount  int           `json:"question_count"`
	TotalPoints    int           `json:"total_points"`
	Questions      []QuestionDTO `json:"questions"`
	CreatedAt      time.Time     `json:"created_at"`
	UpdatedAt      time.Time     `json:"updated_at"`
}
