package util

import (
	"errors"
	"fmt"
)

var (
	ErrUserNotFound       = errors.New("user not found")
	ErrUsernameTaken      = errors.New("username already taken")
	ErrEmailRegistered    = errors.New("email already registered")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrPermissionDenied   = errors.New("permission denied")
	ErrCourseNotFound     = errors.New("course not found")
	ErrModuleNotFound     = errors.New("module not found")
	ErrLessonNotFound     = errors.New("lesson not found")
	ErrAlreadyEnrolled    = errors.New("user already has an active enrollment for this course")
	ErrNotEnrolled        = errors.New("user is not enrolled in this course")
	ErrStoreUnavailable   = errors.New("store unavailable")
)

// ValidationError marks malformed or out-of-domain input to create/update
// operations. It propagates to the caller; infrastructure failures do not.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation failed on %s: %s", e.Field, e.Reason)
}

// DecodeError marks a stored value that is not valid JSON.
type DecodeError struct {
	Key string
	Err error
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("decode %s: %v", e.Key, e.Err)
}

func (e *DecodeError) Unwrap() error { return e.Err }

// ShapeError marks a stored record whose decoded fields violate the declared
// shape: a required field absent or an enum value outside its set.
type ShapeError struct {
	Key string
	Err error
}

func (e *ShapeError) Error() string {
	return fmt.Sprintf("bad record shape at %s: %v", e.Key, e.Err)
}

func (e *ShapeError) Unwrap() error { return e.Err }
