package service

import (
	"course_platform_backend/internal/model"
	"course_platform_backend/internal/repository"
	"course_platform_backend/internal/util"
	"errors"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/go-redis/redis/v8"
)

func newEnrollmentFixture(t *testing.T) (*EnrollmentService, *repository.CourseRepository) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })

	store := repository.NewStore(client, time.Second)
	courses := repository.NewCourseRepository(store)
	enrollments := repository.NewEnrollmentRepository(store)
	return NewEnrollmentService(enrollments, courses), courses
}

func publishedCourse(t *testing.T, courses *repository.CourseRepository) *model.Course {
	t.Helper()
	c, err := courses.Create(&model.Course{
		Title:        "Go Basics",
		InstructorID: 1,
		Status:       model.CoursePublished,
	})
	if err != nil {
		t.Fatalf("seed course: %v", err)
	}
	return c
}

func TestEnrollActiveExclusivity(t *testing.T) {
	svc, courses := newEnrollmentFixture(t)
	course := publishedCourse(t, courses)
	const userID = int64(9)

	e, err := svc.Enroll(userID, course.ID)
	if err != nil {
		t.Fatalf("enroll: %v", err)
	}
	if e.Status != model.EnrollmentActive || e.EnrolledAt.IsZero() {
		t.Fatalf("enrollment not active: %+v", e)
	}

	if _, err := svc.Enroll(userID, course.ID); !errors.Is(err, util.ErrAlreadyEnrolled) {
		t.Fatalf("expected ErrAlreadyEnrolled, got %v", err)
	}
	if !svc.IsEnrolled(userID, course.ID) {
		t.Fatal("IsEnrolled reported false")
	}
}

func TestEnrollUnknownCourse(t *testing.T) {
	svc, _ := newEnrollmentFixture(t)

	if _, err := svc.Enroll(9, 404); !errors.Is(err, util.ErrCourseNotFound) {
		t.Fatalf("expected ErrCourseNotFound, got %v", err)
	}
}

func TestReEnrollAfterDrop(t *testing.T) {
	svc, courses := newEnrollmentFixture(t)
	course := publishedCourse(t, courses)
	const userID = int64(9)

	e, _ := svc.Enroll(userID, course.ID)
	if _, found, err := svc.Drop(e.ID); err != nil || !found {
		t.Fatalf("drop: found=%v err=%v", found, err)
	}
	if svc.IsEnrolled(userID, course.ID) {
		t.Fatal("dropped enrollment still counts as active")
	}

	// A dropped enrollment does not block a fresh one.
	if _, err := svc.Enroll(userID, course.ID); err != nil {
		t.Fatalf("re-enroll: %v", err)
	}

	if got := svc.UserEnrollments(userID); len(got) != 2 {
		t.Fatalf("expected both enrollment records, got %d", len(got))
	}
}

func TestCompleteStampsTimestamp(t *testing.T) {
	svc, courses := newEnrollmentFixture(t)
	course := publishedCourse(t, courses)

	e, _ := svc.Enroll(9, course.ID)
	done, found, err := svc.Complete(e.ID)
	if err != nil || !found {
		t.Fatalf("complete: found=%v err=%v", found, err)
	}
	if done.Status != model.EnrollmentCompleted || done.CompletedAt == nil {
		t.Fatalf("completion not recorded: %+v", done)
	}
}

func TestCourseEnrollmentsListing(t *testing.T) {
	svc, courses := newEnrollmentFixture(t)
	course := publishedCourse(t, courses)

	svc.Enroll(1, course.ID)
	svc.Enroll(2, course.ID)

	if got := svc.CourseEnrollments(course.ID); len(got) != 2 {
		t.Fatalf("expected 2 enrollments, got %d", len(got))
	}
}
