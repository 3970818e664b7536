// Seed script for local development.
//
// Creates a demo instructor, a published course with two modules and a few
// lessons, and one student account. Safe to re-run: duplicate usernames are
// skipped.
//
// Usage: go run scripts/seed.go

package main

import (
	"course_platform_backend/internal/config"
	"course_platform_backend/internal/model"
	"course_platform_backend/internal/repository"
	"course_platform_backend/internal/service"
	"course_platform_backend/pkg/database"
	"course_platform_backend/pkg/logger"
	"errors"
	"log"

	"course_platform_backend/internal/util"
)

func main() {
	cfg, err := config.LoadConfig("configs")
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}
	logger.InitLogger(cfg)

	rdb := database.InitRedis(&cfg.Redis)
	store := repository.NewStore(rdb, cfg.Redis.OpTimeout())
	if !store.Connect() {
		log.Fatal("store unreachable, aborting seed")
	}

	users := repository.NewUserRepository(store)
	courses := repository.NewCourseRepository(store)
	modules := repository.NewModuleRepository(store)
	lessons := repository.NewLessonRepository(store)
	auth := service.NewAuthService(users, cfg)

	instructor, err := auth.Register("demo_instructor", "instructor@example.com", "Demo Instructor", "instructor-pass", "instructor")
	if err != nil {
		if !errors.Is(err, util.ErrUsernameTaken) {
			log.Fatalf("seed instructor: %v", err)
		}
		instructor, _ = users.GetByUsername("demo_instructor")
	}

	if _, err := auth.Register("demo_student", "student@example.com", "Demo Student", "student-pass", "student"); err != nil && !errors.Is(err, util.ErrUsernameTaken) {
		log.Fatalf("seed student: %v", err)
	}

	course, err := courses.Create(&model.Course{
		Title:        "Introduction to Go",
		Description:  "Build and ship your first Go services.",
		InstructorID: instructor.ID,
		Level:        model.Beginner,
		Price:        49.90,
		Status:       model.CoursePublished,
		Tags:         []string{"go", "backend"},
	})
	if err != nil {
		log.Fatalf("seed course: %v", err)
	}

	basics, err := modules.Create(&model.Module{CourseID: course.ID, Title: "Getting Started", Order: 1})
	if err != nil {
		log.Fatalf("seed module: %v", err)
	}
	concurrency, err := modules.Create(&model.Module{CourseID: course.ID, Title: "Concurrency", Order: 2})
	if err != nil {
		log.Fatalf("seed module: %v", err)
	}

	seedLessons := []*model.Lesson{
		{ModuleID: basics.ID, Title: "Why Go", ContentType: model.ContentText, Content: "A short tour of the language.", Order: 1, IsFreePreview: true},
		{ModuleID: basics.ID, Title: "Tooling", ContentType: model.ContentText, Content: "go build, go test, modules.", Order: 2},
		{ModuleID: concurrency.ID, Title: "Goroutines", ContentType: model.ContentText, Content: "Lightweight threads.", Order: 1},
	}
	for _, l := range seedLessons {
		if _, err := lessons.Create(l); err != nil {
			log.Fatalf("seed lesson %q: %v", l.Title, err)
		}
	}

	courses.SetSubset(course.ID, "featured", true)

	log.Printf("seeded course %d with %d lessons", course.ID, len(seedLessons))
}
