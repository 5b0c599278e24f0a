package printjob

import (
	"errors"
	"fmt"
)

var (
	// ErrNotFound means no job exists with the requested id or token.
	ErrNotFound = errors.New("print job not found")

	// ErrInvalidTransition means the requested status change is not legal
	// from the job's current state.
	ErrInvalidTransition = errors.New("invalid status transition")
)

// ValidationError reports a missing or malformed submission field.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Reason)
}

// UnsupportedFileTypeError rejects a whole submission because one
// attachment's declared content type is outside the accepted set.
type UnsupportedFileTypeError struct {
	ContentType string
}

func (e *UnsupportedFileTypeError) Error() string {
	return fmt.Sprintf("unsupported file type %s: allowed types are PDF, DOC, DOCX, JPEG, PNG", e.ContentType)
}
