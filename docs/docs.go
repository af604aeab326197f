// Package docs registers the Swagger 2.0 document served at /swagger. It
// mirrors the swag annotations on the handlers in internal/controller and
// cmd/main.go; regenerate it with `swag init -g cmd/main.go` after changing them.
package docs

import "github.com/swaggo/swag"

const docTemplate = `{
    "schemes": {{ marshal .Schemes }},
    "swagger": "2.0",
    "info": {
        "description": "{{escape .Description}}",
        "title": "{{.Title}}",
        "contact": {
            "name": "API Support"
        },
        "version": "{{.Version}}"
    },
    "host": "{{.Host}}",
    "basePath": "{{.BasePath}}",
    "paths": {
        "/api/v1/admin/courses": {
            "post": {
                "security": [
                    {
                        "BearerAuth": []
                    }
                ],
                "description": "The caller becomes the course instructor. The slug is derived from the title.",
                "consumes": [
                    "application/json"
                ],
                "produces": [
                    "application/json"
                ],
                "tags": [
                    "Admin - Courses"
                ],
                "summary": "(Instructor) Create a course with sections and lessons",
                "parameters": [
                    {
                        "description": "Course with sections and lessons",
                        "name": "course_data",
                        "in": "body",
                        "required": true,
                        "schema": {
                            "$ref": "#/definitions/dto.CourseCreateDTO"
                        }
                    }
                ],
                "responses": {
                    "201": {
                        "description": "Course created successfully",
                        "schema": {
                            "$ref": "#/definitions/dto.CourseDTO"
                        }
                    },
                    "400": {
                        "description": "Invalid input data",
                        "schema": {
                            "$ref": "#/definitions/dto.ErrorResponse"
                        }
                    },
                    "403": {
                        "description": "Caller is not an instructor or admin",
                        "schema": {
                            "$ref": "#/definitions/dto.ErrorResponse"
                        }
                    }
                }
            }
        },
        "/api/v1/admin/quizzes": {
            "post": {
                "security": [
                    {
                        "BearerAuth": []
                    }
                ],
                "description": "Every question must be gradable for its type: choice-based types need a correct choice, matching choices need match_text.",
                "consumes": [
                    "application/json"
                ],
                "produces": [
                    "application/json"
                ],
                "tags": [
                    "Admin - Quizzes"
                ],
                "summary": "(Instructor) Create a quiz with its questions",
                "parameters": [
                    {
                        "description": "Quiz with questions and choices",
                        "name": "quiz_data",
                        "in": "body",
                        "required": true,
                        "schema": {
                            "$ref": "#/definitions/dto.QuizCreateDTO"
                        }
                    }
                ],
                "responses": {
                    "201": {
                        "description": "Quiz created successfully",
                        "schema": {
                            "$ref": "#/definitions/dto.QuizDTO"
                        }
                    },
                    "400": {
                        "description": "Invalid input data",
                        "schema": {
                            "$ref": "#/definitions/dto.ErrorResponse"
                        }
                    },
                    "403": {
                        "description": "Caller is not an instructor or admin",
                        "schema": {
                            "$ref": "#/definitions/dto.ErrorResponse"
                        }
                    }
                }
            }
        },
        "/api/v1/admin/quizzes/{quiz_id}/attempts": {
            "get": {
                "security": [
                    {
                        "BearerAuth": []
                    }
                ],
                "description": "Instructors see quizzes that back a lesson in one of their courses. Admins see any quiz.",
                "produces": [
                    "application/json"
                ],
                "tags": [
                    "Admin - Quizzes"
                ],
                "summary": "(Instructor) List all learners' attempts on a quiz",
                "parameters": [
                    {
                        "type": "integer",
                        "description": "Quiz ID",
                        "name": "quiz_id",
                        "in": "path",
                        "required": true
                    }
                ],
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "type": "array",
                            "items": {
                                "$ref": "#/definitions/dto.AttemptSummaryDTO"
                            }
                        }
                    },
                    "403": {
                        "description": "Quiz is not in one of the caller's courses",
                        "schema": {
                            "$ref": "#/definitions/dto.ErrorResponse"
                        }
                    },
                    "404": {
                        "description": "Quiz not found",
                        "schema": {
                            "$ref": "#/definitions/dto.ErrorResponse"
                        }
                    }
                }
            }
        },
        "/api/v1/attempts/{attempt_id}": {
            "get": {
                "security": [
                    {
                        "BearerAuth": []
                    }
                ],
                "produces": [
                    "application/json"
                ],
                "tags": [
                    "Learner - Quizzes & Attempts"
                ],
                "summary": "(Learner) Get one of my attempts with its responses",
                "parameters": [
                    {
                        "type": "integer",
                        "description": "Attempt ID",
                        "name": "attempt_id",
                        "in": "path",
                        "required": true
                    }
                ],
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "$ref": "#/definitions/dto.AttemptDTO"
                        }
                    },
                    "403": {
                        "description": "Attempt belongs to another learner",
                        "schema": {
                            "$ref": "#/definitions/dto.ErrorResponse"
                        }
                    },
                    "404": {
                        "description": "Attempt not found",
                        "schema": {
                            "$ref": "#/definitions/dto.ErrorResponse"
                        }
                    }
                }
            }
        },
        "/api/v1/attempts/{attempt_id}/submit": {
            "post": {
                "security": [
                    {
                        "BearerAuth": []
                    }
                ],
                "description": "Grades every response, then scores and closes the attempt. An attempt can be submitted once.",
                "consumes": [
                    "application/json"
                ],
                "produces": [
                    "application/json"
                ],
                "tags": [
                    "Learner - Quizzes & Attempts"
                ],
                "summary": "(Learner) Submit answers and finish an attempt",
                "parameters": [
                    {
                        "type": "integer",
                        "description": "Attempt ID",
                        "name": "attempt_id",
                        "in": "path",
                        "required": true
                    },
                    {
                        "description": "Responses",
                        "name": "submission",
                        "in": "body",
                        "required": true,
                        "schema": {
                            "$ref": "#/definitions/dto.AttemptSubmitDTO"
                        }
                    }
                ],
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "$ref": "#/definitions/dto.AttemptDTO"
                        }
                    },
                    "400": {
                        "description": "Invalid request body",
                        "schema": {
                            "$ref": "#/definitions/dto.ErrorResponse"
                        }
                    },
                    "403": {
                        "description": "Attempt belongs to another learner",
                        "schema": {
                            "$ref": "#/definitions/dto.ErrorResponse"
                        }
                    },
                    "404": {
                        "description": "Attempt not found",
                        "schema": {
                            "$ref": "#/definitions/dto.ErrorResponse"
                        }
                    },
                    "409": {
                        "description": "Attempt already submitted",
                        "schema": {
                            "$ref": "#/definitions/dto.ErrorResponse"
                        }
                    }
                }
            }
        },
        "/api/v1/courses/{course_id}/enroll": {
            "post": {
                "security": [
                    {
                        "BearerAuth": []
                    }
                ],
                "produces": [
                    "application/json"
                ],
                "tags": [
                    "Learner - Courses & Progress"
                ],
                "summary": "(Learner) Enroll in a course",
                "parameters": [
                    {
                        "type": "integer",
                        "description": "Course ID",
                        "name": "course_id",
                        "in": "path",
                        "required": true
                    }
                ],
                "responses": {
                    "201": {
                        "description": "Created",
                        "schema": {
                            "$ref": "#/definitions/dto.EnrollmentDTO"
                        }
                    },
                    "404": {
                        "description": "Course not found",
                        "schema": {
                            "$ref": "#/definitions/dto.ErrorResponse"
                        }
                    },
                    "409": {
                        "description": "Already enrolled",
                        "schema": {
                            "$ref": "#/definitions/dto.ErrorResponse"
                        }
                    }
                }
            }
        },
        "/api/v1/courses/{course_id}/review": {
            "post": {
                "security": [
                    {
                        "BearerAuth": []
                    }
                ],
                "description": "Creates the caller's review, or updates the fields sent when one exists. Rating is required for a new review.",
                "consumes": [
                    "application/json"
                ],
                "produces": [
                    "application/json"
                ],
                "tags": [
                    "Learner - Courses & Progress"
                ],
                "summary": "(Learner) Review a course",
                "parameters": [
                    {
                        "type": "integer",
                        "description": "Course ID",
                        "name": "course_id",
                        "in": "path",
                        "required": true
                    },
                    {
                        "description": "Rating 1-5 and optional comment",
                        "name": "review",
                        "in": "body",
                        "required": true,
                        "schema": {
                            "$ref": "#/definitions/dto.ReviewUpsertDTO"
                        }
                    }
                ],
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "$ref": "#/definitions/dto.ReviewDTO"
                        }
                    },
                    "400": {
                        "description": "Invalid body or not enrolled",
                        "schema": {
                            "$ref": "#/definitions/dto.ErrorResponse"
                        }
                    },
                    "404": {
                        "description": "Course not found",
                        "schema": {
                            "$ref": "#/definitions/dto.ErrorResponse"
                        }
                    }
                }
            }
        },
        "/api/v1/enrollments/my": {
            "get": {
                "security": [
                    {
                        "BearerAuth": []
                    }
                ],
                "produces": [
                    "application/json"
                ],
                "tags": [
                    "Learner - Courses & Progress"
                ],
                "summary": "(Learner) List my active enrollments",
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "type": "array",
                            "items": {
                                "$ref": "#/definitions/dto.EnrollmentDTO"
                            }
                        }
                    }
                }
            }
        },
        "/api/v1/enrollments/{enrollment_id}/complete": {
            "post": {
                "security": [
                    {
                        "BearerAuth": []
                    }
                ],
                "description": "Allowed for the enrolled learner or an admin. Completing twice keeps the first completed_at.",
                "produces": [
                    "application/json"
                ],
                "tags": [
                    "Learner - Courses & Progress"
                ],
                "summary": "(Learner) Mark an enrollment completed",
                "parameters": [
                    {
                        "type": "integer",
                        "description": "Enrollment ID",
                        "name": "enrollment_id",
                        "in": "path",
                        "required": true
                    }
                ],
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "$ref": "#/definitions/dto.EnrollmentDTO"
                        }
                    },
                    "403": {
                        "description": "Not the enrolled learner",
                        "schema": {
                            "$ref": "#/definitions/dto.ErrorResponse"
                        }
                    },
                    "404": {
                        "description": "Enrollment not found",
                        "schema": {
                            "$ref": "#/definitions/dto.ErrorResponse"
                        }
                    }
                }
            }
        },
        "/api/v1/lessons/{lesson_id}/mark_complete": {
            "post": {
                "security": [
                    {
                        "BearerAuth": []
                    }
                ],
                "description": "Body is optional. Omitted fields keep their stored values.",
                "consumes": [
                    "application/json"
                ],
                "produces": [
                    "application/json"
                ],
                "tags": [
                    "Learner - Courses & Progress"
                ],
                "summary": "(Learner) Mark a lesson complete",
                "parameters": [
                    {
                        "type": "integer",
                        "description": "Lesson ID",
                        "name": "lesson_id",
                        "in": "path",
                        "required": true
                    },
                    {
                        "description": "Optional position and duration",
                        "name": "progress",
                        "in": "body",
                        "required": false,
                        "schema": {
                            "$ref": "#/definitions/dto.MarkCompleteDTO"
                        }
                    }
                ],
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "$ref": "#/definitions/dto.LessonProgressDTO"
                        }
                    },
                    "400": {
                        "description": "Invalid body or not enrolled",
                        "schema": {
                            "$ref": "#/definitions/dto.ErrorResponse"
                        }
                    },
                    "404": {
                        "description": "Lesson not found",
                        "schema": {
                            "$ref": "#/definitions/dto.ErrorResponse"
                        }
                    }
                }
            }
        },
        "/api/v1/lessons/{lesson_id}/progress": {
            "get": {
                "security": [
                    {
                        "BearerAuth": []
                    }
                ],
                "description": "Creates an empty progress record on first access.",
                "produces": [
                    "application/json"
                ],
                "tags": [
                    "Learner - Courses & Progress"
                ],
                "summary": "(Learner) Get my progress on a lesson",
                "parameters": [
                    {
                        "type": "integer",
                        "description": "Lesson ID",
                        "name": "lesson_id",
                        "in": "path",
                        "required": true
                    }
                ],
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "$ref": "#/definitions/dto.LessonProgressDTO"
                        }
                    },
                    "400": {
                        "description": "Not enrolled in the lesson's course",
                        "schema": {
                            "$ref": "#/definitions/dto.ErrorResponse"
                        }
                    },
                    "404": {
                        "description": "Lesson not found",
                        "schema": {
                            "$ref": "#/definitions/dto.ErrorResponse"
                        }
                    }
                }
            },
            "post": {
                "security": [
                    {
                        "BearerAuth": []
                    }
                ],
                "description": "Overwrites completion, watched duration and last position, then recalculates the course progress.",
                "consumes": [
                    "application/json"
                ],
                "produces": [
                    "application/json"
                ],
                "tags": [
                    "Learner - Courses & Progress"
                ],
                "summary": "(Learner) Record progress on a lesson",
                "parameters": [
                    {
                        "type": "integer",
                        "description": "Lesson ID",
                        "name": "lesson_id",
                        "in": "path",
                        "required": true
                    },
                    {
                        "description": "Progress values",
                        "name": "progress",
                        "in": "body",
                        "required": true,
                        "schema": {
                            "$ref": "#/definitions/dto.LessonProgressUpdateDTO"
                        }
                    }
                ],
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "$ref": "#/definitions/dto.LessonProgressDTO"
                        }
                    },
                    "400": {
                        "description": "Invalid body or not enrolled",
                        "schema": {
                            "$ref": "#/definitions/dto.ErrorResponse"
                        }
                    },
                    "404": {
                        "description": "Lesson not found",
                        "schema": {
                            "$ref": "#/definitions/dto.ErrorResponse"
                        }
                    }
                }
            }
        },
        "/api/v1/quizzes/{quiz_id}": {
            "get": {
                "security": [
                    {
                        "BearerAuth": []
                    }
                ],
                "description": "Questions and choices without correctness data, with question count and total points.",
                "produces": [
                    "application/json"
                ],
                "tags": [
                    "Learner - Quizzes & Attempts"
                ],
                "summary": "(Learner) Get a quiz",
                "parameters": [
                    {
                        "type": "integer",
                        "description": "Quiz ID",
                        "name": "quiz_id",
                        "in": "path",
                        "required": true
                    }
                ],
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "$ref": "#/definitions/dto.QuizDTO"
                        }
                    },
                    "400": {
                        "description": "Invalid Quiz ID format",
                        "schema": {
                            "$ref": "#/definitions/dto.ErrorResponse"
                        }
                    },
                    "404": {
                        "description": "Quiz not found",
                        "schema": {
                            "$ref": "#/definitions/dto.ErrorResponse"
                        }
                    }
                }
            }
        },
        "/api/v1/quizzes/{quiz_id}/my_attempts": {
            "get": {
                "security": [
                    {
                        "BearerAuth": []
                    }
                ],
                "produces": [
                    "application/json"
                ],
                "tags": [
                    "Learner - Quizzes & Attempts"
                ],
                "summary": "(Learner) List my attempts on a quiz",
                "parameters": [
                    {
                        "type": "integer",
                        "description": "Quiz ID",
                        "name": "quiz_id",
                        "in": "path",
                        "required": true
                    }
                ],
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "type": "array",
                            "items": {
                                "$ref": "#/definitions/dto.AttemptSummaryDTO"
                            }
                        }
                    },
                    "404": {
                        "description": "Quiz not found",
                        "schema": {
                            "$ref": "#/definitions/dto.ErrorResponse"
                        }
                    }
                }
            }
        },
        "/api/v1/quizzes/{quiz_id}/start": {
            "post": {
                "security": [
                    {
                        "BearerAuth": []
                    }
                ],
                "description": "Returns 201 with a new attempt, or 200 with the learner's attempt that is still in progress.",
                "produces": [
                    "application/json"
                ],
                "tags": [
                    "Learner - Quizzes & Attempts"
                ],
                "summary": "(Learner) Start or resume a quiz attempt",
                "parameters": [
                    {
                        "type": "integer",
                        "description": "Quiz ID",
                        "name": "quiz_id",
                        "in": "path",
                        "required": true
                    }
                ],
                "responses": {
                    "200": {
                        "description": "Open attempt resumed",
                        "schema": {
                            "$ref": "#/definitions/dto.AttemptDTO"
                        }
                    },
                    "201": {
                        "description": "Attempt created",
                        "schema": {
                            "$ref": "#/definitions/dto.AttemptDTO"
                        }
                    },
                    "400": {
                        "description": "Maximum attempts reached",
                        "schema": {
                            "$ref": "#/definitions/dto.ErrorResponse"
                        }
                    },
                    "404": {
                        "description": "Quiz not found",
                        "schema": {
                            "$ref": "#/definitions/dto.ErrorResponse"
                        }
                    }
                }
            }
        },
        "/healthz": {
            "get": {
                "produces": [
                    "application/json"
                ],
                "tags": [
                    "Health"
                ],
                "summary": "Liveness and database check",
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "type": "object",
                            "additionalProperties": {
                                "type": "string"
                            }
                        }
                    },
                    "503": {
                        "description": "Service Unavailable",
                        "schema": {
                            "$ref": "#/definitions/dto.ErrorResponse"
                        }
                    }
                }
            }
        }
    },
    "definitions": {
        "dto.AttemptDTO": {
            "type": "object",
            "properties": {
                "completed_at": {
                    "type": "string"
                },
                "id": {
                    "type": "integer"
                },
                "learner_id": {
                    "type": "integer"
                },
                "passed": {
                    "type": "boolean"
                },
                "quiz_id": {
                    "type": "integer"
                },
                "responses": {
                    "type": "array",
                    "items": {
                        "$ref": "#/definitions/dto.QuestionResponseDTO"
                    }
                },
                "score": {
                    "type": "number"
                },
                "started_at": {
                    "type": "string"
                },
                "time_spent": {
                    "type": "integer"
                }
            }
        },
        "dto.AttemptSubmitDTO": {
            "type": "object",
            "properties": {
                "responses": {
                    "type": "array",
                    "items": {
                        "$ref": "#/definitions/dto.ResponseItemDTO"
                    }
                }
            }
        },
        "dto.AttemptSummaryDTO": {
            "type": "object",
            "properties": {
                "completed_at": {
                    "type": "string"
                },
                "id": {
                    "type": "integer"
                },
                "learner_id": {
                    "type": "integer"
                },
                "passed": {
                    "type": "boolean"
                },
                "quiz_id": {
                    "type": "integer"
                },
                "score": {
                    "type": "number"
                },
                "started_at": {
                    "type": "string"
                },
                "time_spent": {
                    "type": "integer"
                }
            }
        },
        "dto.ChoiceCreateDTO": {
            "type": "object",
            "required": [
                "choice_text"
            ],
            "properties": {
                "choice_text": {
                    "type": "string",
                    "maxLength": 500
                },
                "is_correct": {
                    "type": "boolean"
                },
                "match_text": {
                    "type": "string",
                    "maxLength": 500
                },
                "order": {
                    "type": "integer",
                    "minimum": 0
                }
            }
        },
        "dto.ChoiceDTO": {
            "type": "object",
            "properties": {
                "choice_text": {
                    "type": "string"
                },
                "id": {
                    "type": "integer"
                },
                "order": {
                    "type": "integer"
                }
            }
        },
        "dto.CourseCreateDTO": {
            "type": "object",
            "required": [
                "title"
            ],
            "properties": {
                "description": {
                    "type": "string"
                },
                "is_published": {
                    "type": "boolean"
                },
                "sections": {
                    "type": "array",
                    "items": {
                        "$ref": "#/definitions/dto.SectionCreateDTO"
                    }
                },
                "title": {
                    "type": "string",
                    "maxLength": 200
                }
            }
        },
        "dto.CourseDTO": {
            "type": "object",
            "properties": {
                "created_at": {
                    "type": "string"
                },
                "description": {
                    "type": "string"
                },
                "id": {
                    "type": "integer"
                },
                "instructor_id": {
                    "type": "integer"
                },
                "is_published": {
                    "type": "boolean"
                },
                "sections": {
                    "type": "array",
                    "items": {
                        "$ref": "#/definitions/dto.SectionDTO"
                    }
                },
                "slug": {
                    "type": "string"
                },
                "title": {
                    "type": "string"
                }
            }
        },
        "dto.EnrollmentDTO": {
            "type": "object",
            "properties": {
                "completed_at": {
                    "type": "string"
                },
                "course_id": {
                    "type": "integer"
                },
                "course_title": {
                    "type": "string"
                },
                "enrolled_at": {
                    "type": "string"
                },
                "id": {
                    "type": "integer"
                },
                "learner_id": {
                    "type": "integer"
                },
                "progress": {
                    "type": "number"
                },
                "status": {
                    "type": "string"
                }
            }
        },
        "dto.ErrorResponse": {
            "type": "object",
            "properties": {
                "details": {
                    "type": "array",
                    "items": {
                        "type": "string"
                    }
                },
                "message": {
                    "type": "string"
                }
            }
        },
        "dto.LessonCreateDTO": {
            "type": "object",
            "required": [
                "title"
            ],
            "properties": {
                "content": {
                    "type": "string"
                },
                "description": {
                    "type": "string"
                },
                "duration": {
                    "type": "integer",
                    "minimum": 0
                },
                "lesson_type": {
                    "type": "string",
                    "enum": [
                        "video",
                        "text",
                        "pdf",
                        "quiz"
                    ]
                },
                "order": {
                    "type": "integer",
                    "minimum": 0
                },
                "quiz_id": {
                    "type": "integer"
                },
                "title": {
                    "type": "string",
                    "maxLength": 200
                },
                "video_url": {
                    "type": "string"
                }
            }
        },
        "dto.LessonDTO": {
            "type": "object",
            "properties": {
                "duration": {
                    "type": "integer"
                },
                "id": {
                    "type": "integer"
                },
                "lesson_type": {
                    "type": "string"
                },
                "order": {
                    "type": "integer"
                },
                "quiz_id": {
                    "type": "integer"
                },
                "section_id": {
                    "type": "integer"
                },
                "title": {
                    "type": "string"
                }
            }
        },
        "dto.LessonProgressDTO": {
            "type": "object",
            "properties": {
                "enrollment": {
                    "description": "Enrollment reflects the aggregate after the update was applied.",
                    "allOf": [
                        {
                            "$ref": "#/definitions/dto.EnrollmentDTO"
                        }
                    ]
                },
                "enrollment_id": {
                    "type": "integer"
                },
                "id": {
                    "type": "integer"
                },
                "is_completed": {
                    "type": "boolean"
                },
                "last_position": {
                    "type": "integer"
                },
                "lesson_id": {
                    "type": "integer"
                },
                "viewed_at": {
                    "type": "string"
                },
                "watched_duration": {
                    "type": "integer"
                }
            }
        },
        "dto.LessonProgressUpdateDTO": {
            "type": "object",
            "properties": {
                "is_completed": {
                    "type": "boolean"
                },
                "last_position": {
                    "type": "integer",
                    "minimum": 0
                },
                "watched_duration": {
                    "type": "integer",
                    "minimum": 0
                }
            }
        },
        "dto.MarkCompleteDTO": {
            "type": "object",
            "properties": {
                "last_position": {
                    "type": "integer",
                    "minimum": 0
                },
                "watched_duration": {
                    "type": "integer",
                    "minimum": 0
                }
            }
        },
        "dto.MatchPairDTO": {
            "type": "object",
            "required": [
                "choice_id"
            ],
            "properties": {
                "choice_id": {
                    "type": "integer"
                },
                "match_text": {
                    "type": "string"
                }
            }
        },
        "dto.QuestionCreateDTO": {
            "type": "object",
            "required": [
                "question_text",
                "question_type"
            ],
            "properties": {
                "choices": {
                    "type": "array",
                    "items": {
                        "$ref": "#/definitions/dto.ChoiceCreateDTO"
                    }
                },
                "order": {
                    "type": "integer",
                    "minimum": 0
                },
                "points": {
                    "type": "integer",
                    "minimum": 1
                },
                "question_text": {
                    "type": "string"
                },
                "question_type": {
                    "type": "string"
                }
            }
        },
        "dto.QuestionDTO": {
            "type": "object",
            "properties": {
                "choices": {
                    "type": "array",
                    "items": {
                        "$ref": "#/definitions/dto.ChoiceDTO"
                    }
                },
                "id": {
                    "type": "integer"
                },
                "match_targets": {
                    "description": "MatchTargets lists the right-hand texts of a matching question, sorted.",
                    "type": "array",
                    "items": {
                        "type": "string"
                    }
                },
                "order": {
                    "type": "integer"
                },
                "points": {
                    "type": "integer"
                },
                "question_text": {
                    "type": "string"
                },
                "question_type": {
                    "type": "string"
                },
                "quiz_id": {
                    "type": "integer"
                }
            }
        },
        "dto.QuestionResponseDTO": {
            "type": "object",
            "properties": {
                "feedback": {
                    "type": "string"
                },
                "id": {
                    "type": "integer"
                },
                "is_correct": {
                    "type": "boolean"
                },
                "matches": {
                    "type": "array",
                    "items": {
                        "$ref": "#/definitions/dto.MatchPairDTO"
                    }
                },
                "points_earned": {
                    "type": "number"
                },
                "question_id": {
                    "type": "integer"
                },
                "selected_choices": {
                    "type": "array",
                    "items": {
                        "type": "integer"
                    }
                },
                "text_response": {
                    "type": "string"
                }
            }
        },
        "dto.QuizCreateDTO": {
            "type": "object",
            "required": [
                "title",
                "questions"
            ],
            "properties": {
                "description": {
                    "type": "string"
                },
                "max_attempts": {
                    "type": "integer",
                    "minimum": 0
                },
                "pass_percentage": {
                    "type": "number",
                    "minimum": 0,
                    "maximum": 100
                },
                "questions": {
                    "type": "array",
                    "items": {
                        "$ref": "#/definitions/dto.QuestionCreateDTO"
                    },
                    "minItems": 1
                },
                "time_limit": {
                    "type": "integer",
                    "minimum": 0
                },
                "title": {
                    "type": "string",
                    "maxLength": 200
                }
            }
        },
        "dto.QuizDTO": {
            "type": "object",
            "properties": {
                "created_at": {
                    "type": "string"
                },
                "description": {
                    "type": "string"
                },
                "id": {
                    "type": "integer"
                },
                "max_attempts": {
                    "type": "integer"
                },
                "pass_percentage": {
                    "type": "number"
                },
                "question_count": {
                    "type": "integer"
                },
                "questions": {
                    "type": "array",
                    "items": {
                        "$ref": "#/definitions/dto.QuestionDTO"
                    }
                },
                "time_limit": {
                    "type": "integer"
                },
                "title": {
                    "type": "string"
                },
                "total_points": {
                    "type": "integer"
                },
                "updated_at": {
                    "type": "string"
                }
            }
        },
        "dto.ResponseItemDTO": {
            "type": "object",
            "required": [
                "question"
            ],
            "properties": {
                "matches": {
                    "type": "array",
                    "items": {
                        "$ref": "#/definitions/dto.MatchPairDTO"
                    }
                },
                "question": {
                    "type": "integer"
                },
                "selected_choices": {
                    "type": "array",
                    "items": {
                        "type": "integer"
                    }
                },
                "text_response": {
                    "type": "string"
                }
            }
        },
        "dto.ReviewDTO": {
            "type": "object",
            "properties": {
                "comment": {
                    "type": "string"
                },
                "course_id": {
                    "type": "integer"
                },
                "created_at": {
                    "type": "string"
                },
                "id": {
                    "type": "integer"
                },
                "learner_id": {
                    "type": "integer"
                },
                "rating": {
                    "type": "integer"
                },
                "updated_at": {
                    "type": "string"
                }
            }
        },
        "dto.ReviewUpsertDTO": {
            "type": "object",
            "properties": {
                "comment": {
                    "type": "string",
                    "maxLength": 2000
                },
                "rating": {
                    "type": "integer",
                    "minimum": 1,
                    "maximum": 5
                }
            }
        },
        "dto.SectionCreateDTO": {
            "type": "object",
            "required": [
                "title"
            ],
            "properties": {
                "description": {
                    "type": "string"
                },
                "lessons": {
                    "type": "array",
                    "items": {
                        "$ref": "#/definitions/dto.LessonCreateDTO"
                    }
                },
                "order": {
                    "type": "integer",
                    "minimum": 0
                },
                "title": {
                    "type": "string",
                    "maxLength": 200
                }
            }
        },
        "dto.SectionDTO": {
            "type": "object",
            "properties": {
                "id": {
                    "type": "integer"
                },
                "lessons": {
                    "type": "array",
                    "items": {
                        "$ref": "#/definitions/dto.LessonDTO"
                    }
                },
                "order": {
                    "type": "integer"
                },
                "title": {
                    "type": "string"
                }
            }
        }
    },
    "securityDefinitions": {
        "BearerAuth": {
            "type": "apiKey",
            "name": "Authorization",
            "in": "header"
        }
    }
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it
var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "localhost:8080",
	BasePath:         "/",
	Schemes:          []string{"http", "https"},
	Title:            "Learnhub LMS API",
	Description:      "Quiz attempts with automatic grading and lesson progress tracking for enrolled learners.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
