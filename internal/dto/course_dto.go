package dto

import "time"

type LessonCreateDTO struct {
	Title       string  `json:"title" binding:"required,max=200"`
	Description string  `json:"description"`
	LessonType  string  `json:"lesson_type" binding:"omitempty,oneof=video text pdf quiz"`
	Content     string  `json:"content"`
	VideoURL    *string `json:"video_url" binding:"omitempty,url"`
	QuizID      *uint   `json:"quiz_id"`
	Order       int     `json:"order" binding:"min=0"`
	Duration    int     `json:"duration" binding:"min=0"`
}

type SectionCreateDTO struct {
	Title       string            `json:"title" binding:"required,max=200"`
	Description string            `json:"description"`
	Order       int               `json:"order" binding:"min=0"`
	Lessons     []LessonCreateDTO `json:"lessons" binding:"omitempty,dive"`
}

// CourseCreateDTO creates a course with its sections and lessons in one call.
type CourseCreateDTO struct {
	Title       string             `json:"title" binding:"required,max=200"`
	Description string             `json:"description"`
	IsPublished bool               `json:"is_published"`
	Sections    []SectionCreateDTO `json:"sections" binding:"omitempty,dive"`
}

type LessonDTO struct {
	ID         uint   `json:"id"`
	SectionID  uint   `json:"section_id"`
	Title      string `json:"title"`
	LessonType string `json:"lesson_type"`
	QuizID     *uint  `json:"quiz_id,omitempty"`
	Order      int    `json:"order"`
	Duration   int    `json:"duration"`
}

type SectionDTO struct {
	ID      uint        `json:"id"`
	Title   string      `json:"title"`
	Order   int         `json:"order"`
	Lessons []LessonDTO `json:"lessons"`
}

type CourseDTO struct {
	ID           uint         `json:"id"`
	Title        string       `json:"title"`
	Slug         string       `json:"slug"`
	Description  string       `json:"description"`
	InstructorID uint         `json:"instructor_id"`
	IsPublished  bool         `json:"is_published"`
	Sections     []SectionDTO `json:"sections"`
	CreatedAt    time.Time    `json:"created_at"`
}

type EnrollmentDTO struct {
	ID          uint       `json:"id"`
	LearnerID   uint       `json:"learner_id"`
	CourseID    uint       `json:"course_id"`
	CourseTitle string     `json:"course_title,omitempty"`
	Status      string     `json:"status"`
	Progress    float64    `json:"progress"`
	EnrolledAt  time.Time  `json:"enrolled_at"`
	CompletedAt *time.Time `json:"completed_at"`
}

// ReviewUpsertDTO creates the learner's review or updates the fields it carries.
// Rating is required the first time.
type ReviewUpsertDTO struct {
	Rating  *int    `json:"rating" binding:"omitempty,min=1,max=5"`
	Comment *string `json:"comment" binding:"omitempty,max=2000"`
}

type ReviewDTO struct {
	ID        uint      `json:"id"`
	CourseID  uint      `json:"course_id"`
	LearnerID uint      `json:"learner_id"`
	Rating    int       `json:"rating"`
	Comment   *string   `json:"comment,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
