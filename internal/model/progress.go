package model

import (
	"fmt"
	"time"
)

type ProgressStatus string

const (
	NotStarted ProgressStatus = "not_started"
	InProgress ProgressStatus = "in_progress"
	Completed  ProgressStatus = "completed"
)

func ParseProgressStatus(s string) (ProgressStatus, error) {
	switch ProgressStatus(s) {
	case NotStarted, InProgress, Completed:
		return ProgressStatus(s), nil
	}
	return "", fmt.Errorf("invalid progress status %q", s)
}

// LessonProgress is keyed by (user, lesson) and upserted on activity events.
type LessonProgress struct {
	UserID              int64          `json:"user_id"`
	LessonID            int64          `json:"lesson_id"`
	Status              ProgressStatus `json:"status"`
	StartedAt           *time.Time     `json:"started_at,omitempty"`
	CompletedAt         *time.Time     `json:"completed_at,omitempty"`
	TimeSpentSeconds    int            `json:"time_spent_seconds"`
	LastPositionSeconds int            `json:"last_position_seconds"`
}

func (p *LessonProgress) Shape() error {
	if p.UserID == 0 {
		return &FieldError{Field: "user_id", Reason: "required"}
	}
	if p.LessonID == 0 {
		return &FieldError{Field: "lesson_id", Reason: "required"}
	}
	if _, err := ParseProgressStatus(string(p.Status)); err != nil {
		return &FieldError{Field: "status", Reason: err.Error()}
	}
	return nil
}

// ModuleProgress is derived wholesale from the lesson progress of the module's
// lessons, never patched incrementally.
type ModuleProgress struct {
	UserID               int64          `json:"user_id"`
	ModuleID             int64          `json:"module_id"`
	Status               ProgressStatus `json:"status"`
	StartedAt            *time.Time     `json:"started_at,omitempty"`
	CompletedAt          *time.Time     `json:"completed_at,omitempty"`
	CompletionPercentage float64        `json:"completion_percentage"`
}

func (p *ModuleProgress) Shape() error {
	if p.UserID == 0 {
		return &FieldError{Field: "user_id", Reason: "required"}
	}
	if p.ModuleID == 0 {
		return &FieldError{Field: "module_id", Reason: "required"}
	}
	if _, err := ParseProgressStatus(string(p.Status)); err != nil {
		return &FieldError{Field: "status", Reason: err.Error()}
	}
	return nil
}

// CourseProgress is derived from the module progress of the course's modules.
type CourseProgress struct {
	UserID               int64          `json:"user_id"`
	CourseID             int64          `json:"course_id"`
	Status               ProgressStatus `json:"status"`
	StartedAt            *time.Time     `json:"started_at,omitempty"`
	CompletedAt          *time.Time     `json:"completed_at,omitempty"`
	CompletionPercentage float64        `json:"completion_percentage"`
}

func (p *CourseProgress) Shape() error {
	if p.UserID == 0 {
		return &FieldError{Field: "user_id", Reason: "required"}
	}
	if p.CourseID == 0 {
		return &FieldError{Field: "course_id", Reason: "required"}
	}
	if _, err := ParseProgressStatus(string(p.Status)); err != nil {
		return &FieldError{Field: "status", Reason: err.Error()}
	}
	return nil
}
