package model

import (
	"time"
)

type EnrollmentStatus string

const (
	EnrollmentActive    EnrollmentStatus = "active"
	EnrollmentCompleted EnrollmentStatus = "completed"
	EnrollmentCancelled EnrollmentStatus = "cancelled"
)

// Enrollment.Progress is derived from LessonProgress rows and never set by clients.
type Enrollment struct {
	ID          uint             `gorm:"primarykey" json:"id"`
	LearnerID   uint             `json:"learner_id" gorm:"not null;uniqueIndex:idx_enrollments_learner_course"`
	CourseID    uint             `json:"course_id" gorm:"not null;uniqueIndex:idx_enrollments_learner_course;index"`
	Course      Course           `json:"course,omitempty" gorm:"foreignKey:CourseID"`
	Status      EnrollmentStatus `json:"status" gorm:"size:20;not null"`
	Progress    float64          `json:"progress" gorm:"not null"`
	EnrolledAt  time.Time        `json:"enrolled_at" gorm:"autoCreateTime"`
	CompletedAt *time.Time       `json:"completed_at,omitempty"`
	UpdatedAt   time.Time        `json:"updated_at"`
}

type LessonProgress struct {
	ID              uint      `gorm:"primarykey" json:"id"`
	EnrollmentID    uint      `json:"enrollment_id" gorm:"not null;uniqueIndex:idx_lesson_progress_enrollment_lesson"`
	LessonID        uint      `json:"lesson_id" gorm:"not null;uniqueIndex:idx_lesson_progress_enrollment_lesson;index"`
	IsCompleted     bool      `json:"is_completed" gorm:"not null"`
	WatchedDuration int       `json:"watched_duration" gorm:"not null"` // seconds
	LastPosition    int       `json:"last_position" gorm:"not null"`    // seconds
	ViewedAt        time.Time `json:"viewed_at"`
}
