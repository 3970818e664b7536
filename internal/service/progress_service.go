package service

import (
	"course_platform_backend/internal/model"
	"course_platform_backend/internal/repository"
	"course_platform_backend/pkg/logger"
	"time"

	"go.uber.org/zap"
)

// ProgressService maintains the lesson -> module -> course progress roll-up.
// Aggregates are recomputed from scratch on every completion event rather than
// patched incrementally, so stored percentages cannot drift from the
// underlying lesson facts. Fan-out is bounded by course authoring, so the
// O(children) recompute per event stays cheap.
type ProgressService struct {
	Progress    *repository.ProgressRepository
	Lessons     *repository.LessonRepository
	Modules     *repository.ModuleRepository
	Courses     *repository.CourseRepository
	Enrollments *repository.EnrollmentRepository
	log         *zap.Logger
}

func NewProgressService(
	progress *repository.ProgressRepository,
	lessons *repository.LessonRepository,
	modules *repository.ModuleRepository,
	courses *repository.CourseRepository,
	enrollments *repository.EnrollmentRepository,
) *ProgressService {
	log := logger.Log
	if log == nil {
		log = zap.NewNop()
	}
	return &ProgressService{
		Progress:    progress,
		Lessons:     lessons,
		Modules:     modules,
		Courses:     courses,
		Enrollments: enrollments,
		log:         log,
	}
}

// UpdateLessonProgress upserts activity on a lesson: watched position, time
// spent, an explicit status change. A nil field leaves the stored value alone.
func (s *ProgressService) UpdateLessonProgress(userID, lessonID int64, status *model.ProgressStatus, timeSpentSeconds, lastPositionSeconds *int) (*model.LessonProgress, error) {
	p, ok := s.Progress.GetLessonProgress(userID, lessonID)
	if !ok {
		p = &model.LessonProgress{UserID: userID, LessonID: lessonID, Status: model.NotStarted}
	}

	now := time.Now().UTC()
	if status != nil {
		p.Status = *status
	} else if p.Status == model.NotStarted {
		p.Status = model.InProgress
	}
	if p.Status != model.NotStarted && p.StartedAt == nil {
		p.StartedAt = &now
	}
	if timeSpentSeconds != nil {
		p.TimeSpentSeconds = *timeSpentSeconds
	}
	if lastPositionSeconds != nil {
		p.LastPositionSeconds = *lastPositionSeconds
	}
	if p.Status == model.Completed && p.CompletedAt == nil {
		p.CompletedAt = &now
	}

	if err := s.Progress.PutLessonProgress(p); err != nil {
		return nil, err
	}
	return p, nil
}

// CompleteLesson marks a lesson completed for a user and triggers module
// recomputation for the lesson's owning module. A lesson whose parent module
// record is gone still gets its progress written; the roll-up is skipped and
// logged.
func (s *ProgressService) CompleteLesson(userID, lessonID int64) (*model.LessonProgress, error) {
	p, ok := s.Progress.GetLessonProgress(userID, lessonID)
	now := time.Now().UTC()
	if !ok {
		p = &model.LessonProgress{UserID: userID, LessonID: lessonID}
	}
	p.Status = model.Completed
	if p.StartedAt == nil {
		p.StartedAt = &now
	}
	p.CompletedAt = &now

	if err := s.Progress.PutLessonProgress(p); err != nil {
		return nil, err
	}

	lesson, ok := s.Lessons.Get(lessonID)
	if !ok {
		s.log.Warn("lesson record missing, skipping module roll-up",
			zap.Int64("user_id", userID), zap.Int64("lesson_id", lessonID))
		return p, nil
	}
	if _, err := s.RecomputeModuleProgress(userID, lesson.ModuleID); err != nil {
		return nil, err
	}
	return p, nil
}

// RecomputeModuleProgress recomputes a module's aggregate from the lesson
// progress of every lesson under it. A lesson without a progress record
// counts as not started. Returns nil (and logs) when the module record is
// missing. When the module reaches completed, the owning course is
// recomputed in turn.
func (s *ProgressService) RecomputeModuleProgress(userID, moduleID int64) (*model.ModuleProgress, error) {
	module, ok := s.Modules.Get(moduleID)
	if !ok {
		s.log.Warn("module record missing, skipping recomputation",
			zap.Int64("user_id", userID), zap.Int64("module_id", moduleID))
		return nil, nil
	}

	lessons := s.Lessons.ListByModule(moduleID)
	completed := 0
	for _, l := range lessons {
		if lp, ok := s.Progress.GetLessonProgress(userID, l.ID); ok && lp.Status == model.Completed {
			completed++
		}
	}

	var pct float64
	if len(lessons) > 0 {
		pct = 100 * float64(completed) / float64(len(lessons))
	}

	p, ok := s.Progress.GetModuleProgress(userID, moduleID)
	if !ok {
		p = &model.ModuleProgress{UserID: userID, ModuleID: moduleID}
	}
	s.applyRollup(&p.Status, &p.StartedAt, &p.CompletedAt, pct)
	p.CompletionPercentage = pct

	if err := s.Progress.PutModuleProgress(p); err != nil {
		return nil, err
	}

	if p.Status == model.Completed {
		if _, err := s.RecomputeCourseProgress(userID, module.CourseID); err != nil {
			return nil, err
		}
	}
	return p, nil
}

// RecomputeCourseProgress runs the same algorithm one level up, over the
// module progress of the course's modules. Returns nil (and logs) when the
// course record is missing.
func (s *ProgressService) RecomputeCourseProgress(userID, courseID int64) (*model.CourseProgress, error) {
	if _, ok := s.Courses.Get(courseID); !ok {
		s.log.Warn("course record missing, skipping recomputation",
			zap.Int64("user_id", userID), zap.Int64("course_id", courseID))
		return nil, nil
	}

	modules := s.Modules.ListByCourse(courseID)
	completed := 0
	for _, m := range modules {
		if mp, ok := s.Progress.GetModuleProgress(userID, m.ID); ok && mp.Status == model.Completed {
			completed++
		}
	}

	var pct float64
	if len(modules) > 0 {
		pct = 100 * float64(completed) / float64(len(modules))
	}

	p, ok := s.Progress.GetCourseProgress(userID, courseID)
	if !ok {
		p = &model.CourseProgress{UserID: userID, CourseID: courseID}
	}
	s.applyRollup(&p.Status, &p.StartedAt, &p.CompletedAt, pct)
	p.CompletionPercentage = pct

	if err := s.Progress.PutCourseProgress(p); err != nil {
		return nil, err
	}
	return p, nil
}

// applyRollup derives status from a completion percentage: 0 not started,
// 100 completed, anything between in progress. started_at is stamped the
// first time the status leaves not_started; completed_at the first time it
// reaches completed.
func (s *ProgressService) applyRollup(status *model.ProgressStatus, startedAt, completedAt **time.Time, pct float64) {
	now := time.Now().UTC()
	switch {
	case pct <= 0:
		*status = model.NotStarted
	case pct >= 100:
		*status = model.Completed
		if *startedAt == nil {
			*startedAt = &now
		}
		if *completedAt == nil {
			*completedAt = &now
		}
	default:
		*status = model.InProgress
		if *startedAt == nil {
			*startedAt = &now
		}
		*completedAt = nil
	}
}

// GetLessonProgress returns the stored record, or a synthetic not_started one
// so callers never see absence.
func (s *ProgressService) GetLessonProgress(userID, lessonID int64) *model.LessonProgress {
	if p, ok := s.Progress.GetLessonProgress(userID, lessonID); ok {
		return p
	}
	return &model.LessonProgress{UserID: userID, LessonID: lessonID, Status: model.NotStarted}
}

func (s *ProgressService) GetModuleProgress(userID, moduleID int64) *model.ModuleProgress {
	if p, ok := s.Progress.GetModuleProgress(userID, moduleID); ok {
		return p
	}
	return &model.ModuleProgress{UserID: userID, ModuleID: moduleID, Status: model.NotStarted}
}

func (s *ProgressService) GetCourseProgress(userID, courseID int64) *model.CourseProgress {
	if p, ok := s.Progress.GetCourseProgress(userID, courseID); ok {
		return p
	}
	return &model.CourseProgress{UserID: userID, CourseID: courseID, Status: model.NotStarted}
}

// Summary reports course progress across every course the user is enrolled
// in, deduplicated by course.
func (s *ProgressService) Summary(userID int64) []*model.CourseProgress {
	seen := map[int64]bool{}
	var out []*model.CourseProgress
	for _, e := range s.Enrollments.ListByUser(userID) {
		if seen[e.CourseID] {
			continue
		}
		seen[e.CourseID] = true
		out = append(out, s.GetCourseProgress(userID, e.CourseID))
	}
	return out
}
