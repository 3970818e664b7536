package model

import (
	"fmt"
	"time"
)

type CourseLevel string

const (
	Beginner     CourseLevel = "beginner"
	Intermediate CourseLevel = "intermediate"
	Advanced     CourseLevel = "advanced"
)

func ParseCourseLevel(s string) (CourseLevel, error) {
	switch CourseLevel(s) {
	case Beginner, Intermediate, Advanced:
		return CourseLevel(s), nil
	}
	return "", fmt.Errorf("invalid course level %q", s)
}

type CourseStatus string

const (
	CourseDraft     CourseStatus = "draft"
	CoursePublished CourseStatus = "published"
	CourseArchived  CourseStatus = "archived"
	CoursePending   CourseStatus = "pending"
)

func ParseCourseStatus(s string) (CourseStatus, error) {
	switch CourseStatus(s) {
	case CourseDraft, CoursePublished, CourseArchived, CoursePending:
		return CourseStatus(s), nil
	}
	return "", fmt.Errorf("invalid course status %q", s)
}

type Course struct {
	ID           int64        `json:"id"`
	Title        string       `json:"title"`
	Description  string       `json:"description"`
	InstructorID int64        `json:"instructor_id"`
	Level        CourseLevel  `json:"level"`
	Price        float64      `json:"price"`
	Status       CourseStatus `json:"status"`
	CreatedAt    time.Time    `json:"created_at"`
	UpdatedAt    time.Time    `json:"updated_at"`
	StartDate    *time.Time   `json:"start_date,omitempty"`
	Tags         []string     `json:"tags"`
	ThumbnailURL string       `json:"thumbnail_url,omitempty"`
}

func (c *Course) Shape() error {
	if c.Title == "" {
		return &FieldError{Field: "title", Reason: "required"}
	}
	if c.InstructorID == 0 {
		return &FieldError{Field: "instructor_id", Reason: "required"}
	}
	if _, err := ParseCourseLevel(string(c.Level)); err != nil {
		return &FieldError{Field: "level", Reason: err.Error()}
	}
	if _, err := ParseCourseStatus(string(c.Status)); err != nil {
		return &FieldError{Field: "status", Reason: err.Error()}
	}
	return nil
}

type CourseUpdate struct {
	Title        *string
	Description  *string
	Level        *string
	Price        *float64
	Status       *string
	StartDate    *time.Time
	Tags         *[]string
	ThumbnailURL *string
}
