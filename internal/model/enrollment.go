package model

import (
	"fmt"
	"time"
)

type EnrollmentStatus string

const (
	EnrollmentActive    EnrollmentStatus = "active"
	EnrollmentCompleted EnrollmentStatus = "completed"
	EnrollmentDropped   EnrollmentStatus = "dropped"
	EnrollmentExpired   EnrollmentStatus = "expired"
)

func ParseEnrollmentStatus(s string) (EnrollmentStatus, error) {
	switch EnrollmentStatus(s) {
	case EnrollmentActive, EnrollmentCompleted, EnrollmentDropped, EnrollmentExpired:
		return EnrollmentStatus(s), nil
	}
	return "", fmt.Errorf("invalid enrollment status %q", s)
}

type Enrollment struct {
	ID          int64            `json:"id"`
	UserID      int64            `json:"user_id"`
	CourseID    int64            `json:"course_id"`
	Status      EnrollmentStatus `json:"status"`
	EnrolledAt  time.Time        `json:"enrolled_at"`
	CompletedAt *time.Time       `json:"completed_at,omitempty"`
	ExpiryDate  *time.Time       `json:"expiry_date,omitempty"`
}

func (e *Enrollment) Shape() error {
	if e.UserID == 0 {
		return &FieldError{Field: "user_id", Reason: "required"}
	}
	if e.CourseID == 0 {
		return &FieldError{Field: "course_id", Reason: "required"}
	}
	if _, err := ParseEnrollmentStatus(string(e.Status)); err != nil {
		return &FieldError{Field: "status", Reason: err.Error()}
	}
	return nil
}
