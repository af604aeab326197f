package service

import "errors"

// Business-rule rejections. Controllers map them to HTTP statuses with errors.Is.
var (
	ErrNotFound             = errors.New("resource not found")
	ErrForbidden            = errors.New("you do not have permission to perform this action")
	ErrAlreadySubmitted     = errors.New("this quiz attempt has already been submitted")
	ErrAttemptLimitExceeded = errors.New("maximum number of attempts reached for this quiz")
	ErrNotEnrolled          = errors.New("you are not enrolled in this course")
	ErrAlreadyEnrolled      = errors.New("you are already enrolled in this course")
	ErrValidation           = errors.New("validation failed")
)
