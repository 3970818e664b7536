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

func newCourseFixture(t *testing.T) *CourseService {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })

	store := repository.NewStore(client, time.Second)
	return NewCourseService(repository.NewCourseRepository(store))
}

func TestCreateCourseRoleGate(t *testing.T) {
	svc := newCourseFixture(t)

	student := &util.Claims{UserID: 1, Username: "s", Role: model.Student}
	if _, err := svc.CreateCourse(student, CourseInput{Title: "Nope"}); !errors.Is(err, util.ErrPermissionDenied) {
		t.Fatalf("student create: %v", err)
	}

	instructor := &util.Claims{UserID: 2, Username: "i", Role: model.Instructor}
	c, err := svc.CreateCourse(instructor, CourseInput{Title: "Go Basics", Level: "beginner", Price: 10})
	if err != nil {
		t.Fatalf("instructor create: %v", err)
	}
	if c.InstructorID != 2 || c.Status != model.CourseDraft {
		t.Fatalf("creator not recorded or wrong status: %+v", c)
	}

	var ve *util.ValidationError
	if _, err := svc.CreateCourse(instructor, CourseInput{Title: "X", Level: "wizard"}); !errors.As(err, &ve) {
		t.Fatalf("bad level: %v", err)
	}
}

func TestPublishArchiveLifecycle(t *testing.T) {
	svc := newCourseFixture(t)
	instructor := &util.Claims{UserID: 2, Role: model.Instructor}
	c, _ := svc.CreateCourse(instructor, CourseInput{Title: "Go Basics"})

	if got, _ := svc.ListPublished(0, 0, nil); len(got) != 0 {
		t.Fatalf("draft visible in published listing: %d", len(got))
	}

	if _, _, err := svc.Publish(c.ID); err != nil {
		t.Fatalf("publish: %v", err)
	}
	if got, _ := svc.ListPublished(0, 0, nil); len(got) != 1 {
		t.Fatalf("published course missing from listing: %d", len(got))
	}

	if _, _, err := svc.Archive(c.ID); err != nil {
		t.Fatalf("archive: %v", err)
	}
	if got, _ := svc.ListPublished(0, 0, nil); len(got) != 0 {
		t.Fatalf("archived course still listed: %d", len(got))
	}
}

func TestFeatureTrendToggles(t *testing.T) {
	svc := newCourseFixture(t)
	instructor := &util.Claims{UserID: 2, Role: model.Instructor}
	c, _ := svc.CreateCourse(instructor, CourseInput{Title: "Go Basics"})
	svc.Publish(c.ID)

	if !svc.Feature(c.ID, true) {
		t.Fatal("feature failed")
	}
	if got := svc.ListFeatured(); len(got) != 1 {
		t.Fatalf("featured listing: %d", len(got))
	}
	if got := svc.ListTrending(); len(got) != 0 {
		t.Fatalf("trending listing should be empty: %d", len(got))
	}

	svc.Feature(c.ID, false)
	if got := svc.ListFeatured(); len(got) != 0 {
		t.Fatalf("unfeature did not take: %d", len(got))
	}
}

func TestInstructorCourses(t *testing.T) {
	svc := newCourseFixture(t)
	a := &util.Claims{UserID: 1, Role: model.Instructor}
	b := &util.Claims{UserID: 2, Role: model.Instructor}

	svc.CreateCourse(a, CourseInput{Title: "A1"})
	svc.CreateCourse(a, CourseInput{Title: "A2"})
	svc.CreateCourse(b, CourseInput{Title: "B1"})

	if got := svc.InstructorCourses(1); len(got) != 2 {
		t.Fatalf("instructor 1: %d courses", len(got))
	}
	if got := svc.InstructorCourses(2); len(got) != 1 {
		t.Fatalf("instructor 2: %d courses", len(got))
	}
}
