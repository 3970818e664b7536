package model

import (
	"fmt"
	"time"
)

type ContentType string

const (
	ContentVideo      ContentType = "video"
	ContentText       ContentType = "text"
	ContentQuiz       ContentType = "quiz"
	ContentAssignment ContentType = "assignment"
	ContentFile       ContentType = "file"
)

func ParseContentType(s string) (ContentType, error) {
	switch ContentType(s) {
	case ContentVideo, ContentText, ContentQuiz, ContentAssignment, ContentFile:
		return ContentType(s), nil
	}
	return "", fmt.Errorf("invalid content type %q", s)
}

// Module groups lessons inside a course. Order is unique within the owning
// course and drives display sequencing.
type Module struct {
	ID          int64     `json:"id"`
	CourseID    int64     `json:"course_id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Order       int       `json:"order"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

func (m *Module) Shape() error {
	if m.CourseID == 0 {
		return &FieldError{Field: "course_id", Reason: "required"}
	}
	if m.Title == "" {
		return &FieldError{Field: "title", Reason: "required"}
	}
	return nil
}

type ModuleUpdate struct {
	Title       *string
	Description *string
	Order       *int
}

// Lesson content is an opaque payload: a URL for video/file lessons, raw text,
// or a serialized quiz/assignment structure.
type Lesson struct {
	ID              int64       `json:"id"`
	ModuleID        int64       `json:"module_id"`
	Title           string      `json:"title"`
	Description     string      `json:"description"`
	ContentType     ContentType `json:"content_type"`
	Content         string      `json:"content"`
	DurationMinutes int         `json:"duration_minutes,omitempty"`
	Order           int         `json:"order"`
	IsFreePreview   bool        `json:"is_free_preview"`
	CreatedAt       time.Time   `json:"created_at"`
	UpdatedAt       time.Time   `json:"updated_at"`
}

func (l *Lesson) Shape() error {
	if l.ModuleID == 0 {
		return &FieldError{Field: "module_id", Reason: "required"}
	}
	if l.Title == "" {
		return &FieldError{Field: "title", Reason: "required"}
	}
	if _, err := ParseContentType(string(l.ContentType)); err != nil {
		return &FieldError{Field: "content_type", Reason: err.Error()}
	}
	return nil
}

type LessonUpdate struct {
	Title           *string
	Description     *string
	ContentType     *string
	Content         *string
	DurationMinutes *int
	Order           *int
	IsFreePreview   *bool
}
