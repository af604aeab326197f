package model

import (
	"time"
)

type Course struct {
	ID           uint      `gorm:"primarykey" json:"id"`
	Title        string    `json:"title" gorm:"size:200;not null"`
	Slug         string    `json:"slug" gorm:"size:250;not null;uniqueIndex"`
	Description  string    `json:"description" gorm:"type:text"`
	InstructorID uint      `json:"instructor_id" gorm:"not null;index"`
	IsPublished  bool      `json:"is_published" gorm:"not null"`
	Sections     []Section `json:"sections,omitempty" gorm:"foreignKey:CourseID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE;"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

type Section struct {
	ID          uint      `gorm:"primarykey" json:"id"`
	CourseID    uint      `json:"course_id" gorm:"not null;index"`
	Title       string    `json:"title" gorm:"size:200;not null"`
	Description string    `json:"description,omitempty" gorm:"type:text"`
	Order       int       `json:"order" gorm:"column:sort_order;not null"`
	Lessons     []Lesson  `json:"lessons,omitempty" gorm:"foreignKey:SectionID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE;"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

type LessonType string

const (
	LessonTypeVideo LessonType = "video"
	LessonTypeText  LessonType = "text"
	LessonTypePDF   LessonType = "pdf"
	LessonTypeQuiz  LessonType = "quiz"
)

type Lesson struct {
	ID          uint       `gorm:"primarykey" json:"id"`
	SectionID   uint       `json:"section_id" gorm:"not null;index"`
	Section     Section    `json:"section,omitempty" gorm:"foreignKey:SectionID"`
	Title       string     `json:"title" gorm:"size:200;not null"`
	Description string     `json:"description,omitempty" gorm:"type:text"`
	LessonType  LessonType `json:"lesson_type" gorm:"size:10;not null"`
	Content     string     `json:"content,omitempty" gorm:"type:text"`
	VideoURL    *string    `json:"video_url,omitempty"`
	QuizID      *uint      `json:"quiz_id,omitempty" gorm:"uniqueIndex"`
	Order       int        `json:"order" gorm:"column:sort_order;not null"`
	Duration    int        `json:"duration"` // minutes
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}
