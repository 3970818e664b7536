package service

import (
	"context"
	"course_platform_backend/internal/model"
	"course_platform_backend/internal/repository"
	"course_platform_backend/internal/util"
	"course_platform_backend/pkg/logger"
	"fmt"
	"path/filepath"
	"time"

	"go.uber.org/zap"
)

// ContentService manages course content: modules, their lessons, and lesson
// media uploads.
type ContentService struct {
	Modules     *repository.ModuleRepository
	Lessons     *repository.LessonRepository
	Courses     *repository.CourseRepository
	Enrollments *EnrollmentService
	Storage     *StorageService
	log         *zap.Logger
}

func NewContentService(
	modules *repository.ModuleRepository,
	lessons *repository.LessonRepository,
	courses *repository.CourseRepository,
	enrollments *EnrollmentService,
	storage *StorageService,
) *ContentService {
	log := logger.Log
	if log == nil {
		log = zap.NewNop()
	}
	return &ContentService{
		Modules:     modules,
		Lessons:     lessons,
		Courses:     courses,
		Enrollments: enrollments,
		Storage:     storage,
		log:         log,
	}
}

type ModuleInput struct {
	CourseID    int64  `json:"course_id" binding:"required"`
	Title       string `json:"title" binding:"required"`
	Description string `json:"description"`
	Order       int    `json:"order"`
}

func (s *ContentService) CreateModule(in ModuleInput) (*model.Module, error) {
	if _, ok := s.Courses.Get(in.CourseID); !ok {
		return nil, util.ErrCourseNotFound
	}
	return s.Modules.Create(&model.Module{
		CourseID:    in.CourseID,
		Title:       in.Title,
		Description: in.Description,
		Order:       in.Order,
	})
}

func (s *ContentService) GetModule(id int64) (*model.Module, bool) {
	return s.Modules.Get(id)
}

func (s *ContentService) ListCourseModules(courseID int64) []*model.Module {
	return s.Modules.ListByCourse(courseID)
}

func (s *ContentService) UpdateModule(id int64, upd model.ModuleUpdate) (*model.Module, bool, error) {
	return s.Modules.Update(id, upd)
}

// DeleteModule removes the module and every lesson under it.
func (s *ContentService) DeleteModule(id int64) bool {
	for _, l := range s.Lessons.ListByModule(id) {
		s.Lessons.Delete(l.ID)
	}
	return s.Modules.Delete(id)
}

// ReorderModules applies a new order assignment to a course's modules.
// Unknown module ids are skipped. An assignment that would leave two modules
// at the same position is rejected whole.
func (s *ContentService) ReorderModules(courseID int64, order map[int64]int) ([]*model.Module, error) {
	return s.Modules.ReorderByCourse(courseID, order)
}

type LessonInput struct {
	ModuleID        int64  `json:"module_id" binding:"required"`
	Title           string `json:"title" binding:"required"`
	Description     string `json:"description"`
	ContentType     string `json:"content_type" binding:"required"`
	Content         string `json:"content"`
	DurationMinutes int    `json:"duration_minutes"`
	Order           int    `json:"order"`
	IsFreePreview   bool   `json:"is_free_preview"`
}

func (s *ContentService) CreateLesson(in LessonInput) (*model.Lesson, error) {
	if _, ok := s.Modules.Get(in.ModuleID); !ok {
		return nil, util.ErrModuleNotFound
	}
	ct, err := model.ParseContentType(in.ContentType)
	if err != nil {
		return nil, &util.ValidationError{Field: "content_type", Reason: err.Error()}
	}
	return s.Lessons.Create(&model.Lesson{
		ModuleID:        in.ModuleID,
		Title:           in.Title,
		Description:     in.Description,
		ContentType:     ct,
		Content:         in.Content,
		DurationMinutes: in.DurationMinutes,
		Order:           in.Order,
		IsFreePreview:   in.IsFreePreview,
	})
}

func (s *ContentService) GetLesson(id int64) (*model.Lesson, bool) {
	return s.Lessons.Get(id)
}

func (s *ContentService) ListModuleLessons(moduleID int64) []*model.Lesson {
	return s.Lessons.ListByModule(moduleID)
}

func (s *ContentService) UpdateLesson(id int64, upd model.LessonUpdate) (*model.Lesson, bool, error) {
	return s.Lessons.Update(id, upd)
}

func (s *ContentService) DeleteLesson(id int64) bool {
	return s.Lessons.Delete(id)
}

func (s *ContentService) ReorderLessons(moduleID int64, order map[int64]int) ([]*model.Lesson, error) {
	return s.Lessons.ReorderByModule(moduleID, order)
}

// CanAccessLesson gates lesson content: free previews are open to everyone,
// everything else requires an active enrollment in the owning course.
func (s *ContentService) CanAccessLesson(userID int64, lesson *model.Lesson) bool {
	if lesson.IsFreePreview {
		return true
	}
	module, ok := s.Modules.Get(lesson.ModuleID)
	if !ok {
		return false
	}
	return s.Enrollments.IsEnrolled(userID, module.CourseID)
}

// AttachVideo uploads a local video file as a lesson's content, probing it for
// duration. The lesson becomes a video lesson pointing at the stored URL; the
// probed duration fills duration_minutes. A failed probe is logged and leaves
// the duration unset rather than failing the upload.
func (s *ContentService) AttachVideo(ctx context.Context, lessonID int64, localPath string) (*model.Lesson, error) {
	lesson, ok := s.Lessons.Get(lessonID)
	if !ok {
		return nil, util.ErrLessonNotFound
	}

	duration := 0
	if info, err := util.GetVideoInfo(localPath); err != nil {
		s.log.Warn("video probe failed", zap.Int64("lesson_id", lessonID), zap.Error(err))
	} else {
		duration = info.DurationMinutes()
	}

	filename := fmt.Sprintf("lessons/%d/%d%s", lessonID, time.Now().UnixNano(), filepath.Ext(localPath))
	url, err := s.Storage.Provider.UploadFile(ctx, filename, localPath, "video/mp4")
	if err != nil {
		return nil, err
	}

	ct := string(model.ContentVideo)
	upd := model.LessonUpdate{ContentType: &ct, Content: &url}
	if duration > 0 {
		upd.DurationMinutes = &duration
	}
	lesson, _, err = s.Lessons.Update(lessonID, upd)
	return lesson, err
}
