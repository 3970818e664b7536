package service

import (
	"course_platform_backend/internal/config"
	"course_platform_backend/internal/repository"
	"course_platform_backend/internal/util"
	"errors"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/go-redis/redis/v8"
)

func newContentFixture(t *testing.T) (*ContentService, *EnrollmentService, *repository.CourseRepository) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })

	store := repository.NewStore(client, time.Second)
	courses := repository.NewCourseRepository(store)
	modules := repository.NewModuleRepository(store)
	lessons := repository.NewLessonRepository(store)
	enrollments := NewEnrollmentService(repository.NewEnrollmentRepository(store), courses)
	storage := NewStorageService(&config.Config{
		Storage: config.StorageConfig{Type: "local", LocalPath: t.TempDir()},
	})
	return NewContentService(modules, lessons, courses, enrollments, storage), enrollments, courses
}

func TestCreateModuleRequiresCourse(t *testing.T) {
	svc, _, courses := newContentFixture(t)

	if _, err := svc.CreateModule(ModuleInput{CourseID: 404, Title: "M"}); !errors.Is(err, util.ErrCourseNotFound) {
		t.Fatalf("expected ErrCourseNotFound, got %v", err)
	}

	course := publishedCourse(t, courses)
	m, err := svc.CreateModule(ModuleInput{CourseID: course.ID, Title: "M", Order: 1})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if m.ID == 0 {
		t.Fatal("id not assigned")
	}
}

func TestCreateLessonValidatesContentType(t *testing.T) {
	svc, _, courses := newContentFixture(t)
	course := publishedCourse(t, courses)
	m, _ := svc.CreateModule(ModuleInput{CourseID: course.ID, Title: "M", Order: 1})

	var ve *util.ValidationError
	if _, err := svc.CreateLesson(LessonInput{ModuleID: m.ID, Title: "L", ContentType: "hologram"}); !errors.As(err, &ve) {
		t.Fatalf("bad content type: %v", err)
	}
	if _, err := svc.CreateLesson(LessonInput{ModuleID: 404, Title: "L", ContentType: "text"}); !errors.Is(err, util.ErrModuleNotFound) {
		t.Fatalf("unknown module: %v", err)
	}
}

func TestCanAccessLesson(t *testing.T) {
	svc, enrollments, courses := newContentFixture(t)
	course := publishedCourse(t, courses)
	m, _ := svc.CreateModule(ModuleInput{CourseID: course.ID, Title: "M", Order: 1})

	preview, _ := svc.CreateLesson(LessonInput{ModuleID: m.ID, Title: "Free", ContentType: "text", Order: 1, IsFreePreview: true})
	locked, _ := svc.CreateLesson(LessonInput{ModuleID: m.ID, Title: "Paid", ContentType: "text", Order: 2})

	const userID = int64(9)
	if !svc.CanAccessLesson(userID, preview) {
		t.Fatal("free preview should be open")
	}
	if svc.CanAccessLesson(userID, locked) {
		t.Fatal("locked lesson open without enrollment")
	}

	if _, err := enrollments.Enroll(userID, course.ID); err != nil {
		t.Fatalf("enroll: %v", err)
	}
	if !svc.CanAccessLesson(userID, locked) {
		t.Fatal("enrolled user denied access")
	}
}

func TestReorderModules(t *testing.T) {
	svc, _, courses := newContentFixture(t)
	course := publishedCourse(t, courses)

	a, _ := svc.CreateModule(ModuleInput{CourseID: course.ID, Title: "A", Order: 1})
	b, _ := svc.CreateModule(ModuleInput{CourseID: course.ID, Title: "B", Order: 2})

	got, err := svc.ReorderModules(course.ID, map[int64]int{a.ID: 5, b.ID: 4})
	if err != nil {
		t.Fatalf("reorder: %v", err)
	}
	if len(got) != 2 || got[0].ID != b.ID || got[1].ID != a.ID {
		t.Fatalf("reorder did not take: %+v", got)
	}

	// A swap is a legal assignment even though each position is transiently
	// taken by the other module.
	if _, err := svc.ReorderModules(course.ID, map[int64]int{a.ID: 4, b.ID: 5}); err != nil {
		t.Fatalf("swap rejected: %v", err)
	}

	// Module ids from another course are ignored.
	other := publishedCourse(t, courses)
	otherModule, _ := svc.CreateModule(ModuleInput{CourseID: other.ID, Title: "X", Order: 1})
	if _, err := svc.ReorderModules(course.ID, map[int64]int{otherModule.ID: 99}); err != nil {
		t.Fatalf("reorder: %v", err)
	}
	fresh, _ := svc.GetModule(otherModule.ID)
	if fresh.Order != 1 {
		t.Fatalf("foreign module reordered: %d", fresh.Order)
	}
}

func TestReorderModulesRejectsDuplicatePositions(t *testing.T) {
	svc, _, courses := newContentFixture(t)
	course := publishedCourse(t, courses)

	a, _ := svc.CreateModule(ModuleInput{CourseID: course.ID, Title: "A", Order: 1})
	b, _ := svc.CreateModule(ModuleInput{CourseID: course.ID, Title: "B", Order: 2})

	if _, err := svc.ReorderModules(course.ID, map[int64]int{a.ID: 2}); err == nil {
		t.Fatal("assignment colliding with an unmoved sibling accepted")
	}
	if _, err := svc.ReorderModules(course.ID, map[int64]int{a.ID: 7, b.ID: 7}); err == nil {
		t.Fatal("two modules assigned the same position accepted")
	}

	// Nothing was written by the rejected assignments.
	fresh, _ := svc.GetModule(a.ID)
	if fresh.Order != 1 {
		t.Fatalf("rejected reorder leaked a write: %d", fresh.Order)
	}
}

func TestDeleteModuleCascadesLessons(t *testing.T) {
	svc, _, courses := newContentFixture(t)
	course := publishedCourse(t, courses)
	m, _ := svc.CreateModule(ModuleInput{CourseID: course.ID, Title: "M", Order: 1})
	l, _ := svc.CreateLesson(LessonInput{ModuleID: m.ID, Title: "L", ContentType: "text", Order: 1})

	if !svc.DeleteModule(m.ID) {
		t.Fatal("delete reported absent")
	}
	if _, ok := svc.GetLesson(l.ID); ok {
		t.Fatal("lesson survived module deletion")
	}
}
