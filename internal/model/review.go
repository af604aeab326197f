package model

import (
	"time"
)

// Review is a learner's rating of a course. A learner holds at most one per course.
type Review struct {
	ID        uint      `gorm:"primarykey" json:"id"`
	CourseID  uint      `json:"course_id" gorm:"not null;uniqueIndex:idx_reviews_learner_course;index"`
	LearnerID uint      `json:"learner_id" gorm:"not null;uniqueIndex:idx_reviews_learner_course"`
	Rating    int       `json:"rating" gorm:"not null"`
	Comment   *string   `json:"comment,omitempty" gorm:"type:text"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
