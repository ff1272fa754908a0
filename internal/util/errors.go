package util

import "errors"

var (
	ErrAssessmentNotFound = errors.New("Assessment not found")
	ErrUserNotFound       = errors.New("User not found")
	ErrResultNotFound     = errors.New("Result not found")
	ErrSubmissionNotFound = errors.New("No submission found for this assessment")
	ErrPermissionDenied   = errors.New("permission denied")
)
