package service

import (
	"course_platform_backend/internal/model"
	"course_platform_backend/internal/repository"
	"course_platform_backend/internal/util"
)

type CourseService struct {
	Courses *repository.CourseRepository
}

func NewCourseService(courses *repository.CourseRepository) *CourseService {
	return &CourseService{Courses: courses}
}

type CourseInput struct {
	Title       string   `json:"title" binding:"required"`
	Description string   `json:"description"`
	Level       string   `json:"level"`
	Price       float64  `json:"price"`
	Tags        []string `json:"tags"`
}

// CreateCourse is restricted to instructors and admins; the creator becomes
// the course's instructor.
func (s *CourseService) CreateCourse(creator *util.Claims, in CourseInput) (*model.Course, error) {
	if creator.Role != model.Instructor && creator.Role != model.Admin {
		return nil, util.ErrPermissionDenied
	}

	level := model.Beginner
	if in.Level != "" {
		var err error
		level, err = model.ParseCourseLevel(in.Level)
		if err != nil {
			return nil, &util.ValidationError{Field: "level", Reason: err.Error()}
		}
	}

	return s.Courses.Create(&model.Course{
		Title:        in.Title,
		Description:  in.Description,
		InstructorID: creator.UserID,
		Level:        level,
		Price:        in.Price,
		Status:       model.CourseDraft,
		Tags:         in.Tags,
	})
}

func (s *CourseService) GetCourse(id int64) (*model.Course, bool) {
	return s.Courses.Get(id)
}

// ListPublished lists published courses with pagination, optionally excluding
// one course id (used by "related courses" views). The second return is the
// total match count before pagination.
func (s *CourseService) ListPublished(skip, limit int, excludeID *int64) ([]*model.Course, int) {
	status := model.CoursePublished
	return s.Courses.List(repository.CourseFilter{Status: &status, ExcludeID: excludeID}, skip, limit)
}

func (s *CourseService) ListFeatured() []*model.Course {
	status := model.CoursePublished
	courses, _ := s.Courses.List(repository.CourseFilter{Status: &status, Subset: "featured"}, 0, 0)
	return courses
}

func (s *CourseService) ListTrending() []*model.Course {
	status := model.CoursePublished
	courses, _ := s.Courses.List(repository.CourseFilter{Status: &status, Subset: "trending"}, 0, 0)
	return courses
}

func (s *CourseService) InstructorCourses(instructorID int64) []*model.Course {
	courses, _ := s.Courses.List(repository.CourseFilter{InstructorID: &instructorID}, 0, 0)
	return courses
}

func (s *CourseService) UpdateCourse(id int64, upd model.CourseUpdate) (*model.Course, bool, error) {
	return s.Courses.Update(id, upd)
}

// Publish transitions a course to published and advances updated_at.
func (s *CourseService) Publish(id int64) (*model.Course, bool, error) {
	status := string(model.CoursePublished)
	return s.Courses.Update(id, model.CourseUpdate{Status: &status})
}

func (s *CourseService) Archive(id int64) (*model.Course, bool, error) {
	status := string(model.CourseArchived)
	return s.Courses.Update(id, model.CourseUpdate{Status: &status})
}

// Feature toggles membership in the featured subset; Trend in trending.
func (s *CourseService) Feature(id int64, on bool) bool {
	return s.Courses.SetSubset(id, "featured", on)
}

func (s *CourseService) Trend(id int64, on bool) bool {
	return s.Courses.SetSubset(id, "trending", on)
}
