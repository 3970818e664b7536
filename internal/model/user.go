package model

import (
	"fmt"
	"time"
)

type UserRole string

const (
	Student    UserRole = "student"
	Instructor UserRole = "instructor"
	Admin      UserRole = "admin"
)

func ParseUserRole(s string) (UserRole, error) {
	switch UserRole(s) {
	case Student, Instructor, Admin:
		return UserRole(s), nil
	}
	return "", fmt.Errorf("invalid user role %q", s)
}

// User is the public user record. The password never lives here: credential
// material is stored under its own key namespace (user_password:<username>).
type User struct {
	ID        int64     `json:"id"`
	Username  string    `json:"username"`
	Email     string    `json:"email"`
	FullName  string    `json:"full_name"`
	Role      UserRole  `json:"role"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
	IsActive  bool      `json:"is_active"`
}

func (u *User) Shape() error {
	if u.Username == "" {
		return &FieldError{Field: "username", Reason: "required"}
	}
	if u.Email == "" {
		return &FieldError{Field: "email", Reason: "required"}
	}
	if _, err := ParseUserRole(string(u.Role)); err != nil {
		return &FieldError{Field: "role", Reason: err.Error()}
	}
	return nil
}

// UserUpdate carries a partial update. Nil fields are left untouched.
type UserUpdate struct {
	Email    *string
	FullName *string
	Role     *string
	IsActive *bool
}
