package service

import (
	"course_platform_backend/internal/model"
	"course_platform_backend/internal/repository"
	"course_platform_backend/internal/util"
)

type EnrollmentService struct {
	Enrollments *repository.EnrollmentRepository
	Courses     *repository.CourseRepository
}

func NewEnrollmentService(enrollments *repository.EnrollmentRepository, courses *repository.CourseRepository) *EnrollmentService {
	return &EnrollmentService{Enrollments: enrollments, Courses: courses}
}

// Enroll creates an active enrollment for (user, course). At most one active
// enrollment may exist per pair; a duplicate attempt is rejected. Dropped or
// expired enrollments do not block re-enrollment.
func (s *EnrollmentService) Enroll(userID, courseID int64) (*model.Enrollment, error) {
	if _, ok := s.Courses.Get(courseID); !ok {
		return nil, util.ErrCourseNotFound
	}
	for _, e := range s.Enrollments.ListByUser(userID) {
		if e.CourseID == courseID && e.Status == model.EnrollmentActive {
			return nil, util.ErrAlreadyEnrolled
		}
	}
	return s.Enrollments.Create(&model.Enrollment{
		UserID:   userID,
		CourseID: courseID,
		Status:   model.EnrollmentActive,
	})
}

func (s *EnrollmentService) IsEnrolled(userID, courseID int64) bool {
	for _, e := range s.Enrollments.ListByUser(userID) {
		if e.CourseID == courseID && e.Status == model.EnrollmentActive {
			return true
		}
	}
	return false
}

func (s *EnrollmentService) Get(id int64) (*model.Enrollment, bool) {
	return s.Enrollments.Get(id)
}

func (s *EnrollmentService) Complete(id int64) (*model.Enrollment, bool, error) {
	return s.Enrollments.UpdateStatus(id, model.EnrollmentCompleted)
}

func (s *EnrollmentService) Drop(id int64) (*model.Enrollment, bool, error) {
	return s.Enrollments.UpdateStatus(id, model.EnrollmentDropped)
}

func (s *EnrollmentService) UserEnrollments(userID int64) []*model.Enrollment {
	return s.Enrollments.ListByUser(userID)
}

func (s *EnrollmentService) CourseEnrollments(courseID int64) []*model.Enrollment {
	return s.Enrollments.ListByCourse(courseID)
}
