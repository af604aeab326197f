package dto

import "time"

// LessonProgressUpdateDTO overwrites every field it carries; omitted fields
// are written as their zero value.
type LessonProgressUpdateDTO struct {
	IsCompleted     bool `json:"is_completed"`
	WatchedDuration int  `json:"watched_duration" binding:"min=0"`
	LastPosition    int  `json:"last_position" binding:"min=0"`
}

// MarkCompleteDTO leaves stored values untouched for omitted fields.
type MarkCompleteDTO struct {
	WatchedDuration *int `json:"watched_duration" binding:"omitempty,min=0"`
	LastPosition    *int `json:"last_position" binding:"omitempty,min=0"`
}

type LessonProgressDTO struct {
	ID              uint      `json:"id"`
	EnrollmentID    uint      `json:"enrollment_id"`
	LessonID        uint      `json:"lesson_id"`
	IsCompleted     bool      `json:"is_completed"`
	WatchedDuration int       `json:"watched_duration"`
	LastPosition    int       `json:"last_position"`
	ViewedAt        time.Time `json:"viewed_at"`
	// Enrollment reflects the aggregate after the update was applied.
	Enrollment *EnrollmentDTO `json:"enrollment,omitempty"`
}
