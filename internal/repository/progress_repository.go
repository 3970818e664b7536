package repository

import (
	"course_platform_backend/internal/model"
	"course_platform_backend/internal/util"

	"go.uber.org/zap"
)

// ProgressRepository owns the three progress namespaces, each keyed by a
// (user, content-entity) composite. Records are upserted wholesale; absence
// reads as not started.
type ProgressRepository struct {
	Store *Store
	log   *zap.Logger
}

func NewProgressRepository(store *Store) *ProgressRepository {
	return &ProgressRepository{Store: store, log: repoLogger()}
}

func (r *ProgressRepository) GetLessonProgress(userID, lessonID int64) (*model.LessonProgress, bool) {
	key := lessonProgressKey(userID, lessonID)
	data, ok := r.Store.Get(key)
	if !ok {
		return nil, false
	}
	var p model.LessonProgress
	if err := DecodeRecord(key, data, &p); err != nil {
		r.log.Warn("skipping corrupt lesson progress", zap.String("key", key), zap.Error(err))
		return nil, false
	}
	return &p, true
}

func (r *ProgressRepository) PutLessonProgress(p *model.LessonProgress) error {
	if err := p.Shape(); err != nil {
		return asValidation(err)
	}
	data, err := EncodeRecord(p)
	if err != nil {
		return err
	}
	if !r.Store.Set(lessonProgressKey(p.UserID, p.LessonID), data) {
		return util.ErrStoreUnavailable
	}
	return nil
}

func (r *ProgressRepository) GetModuleProgress(userID, moduleID int64) (*model.ModuleProgress, bool) {
	key := moduleProgressKey(userID, moduleID)
	data, ok := r.Store.Get(key)
	if !ok {
		return nil, false
	}
	var p model.ModuleProgress
	if err := DecodeRecord(key, data, &p); err != nil {
		r.log.Warn("skipping corrupt module progress", zap.String("key", key), zap.Error(err))
		return nil, false
	}
	return &p, true
}

func (r *ProgressRepository) PutModuleProgress(p *model.ModuleProgress) error {
	if err := p.Shape(); err != nil {
		return asValidation(err)
	}
	data, err := EncodeRecord(p)
	if err != nil {
		return err
	}
	if !r.Store.Set(moduleProgressKey(p.UserID, p.ModuleID), data) {
		return util.ErrStoreUnavailable
	}
	return nil
}

func (r *ProgressRepository) GetCourseProgress(userID, courseID int64) (*model.CourseProgress, bool) {
	key := courseProgressKey(userID, courseID)
	data, ok := r.Store.Get(key)
	if !ok {
		return nil, false
	}
	var p model.CourseProgress
	if err := DecodeRecord(key, data, &p); err != nil {
		r.log.Warn("skipping corrupt course progress", zap.String("key", key), zap.Error(err))
		return nil, false
	}
	return &p, true
}

func (r *ProgressRepository) PutCourseProgress(p *model.CourseProgress) error {
	if err := p.Shape(); err != nil {
		return asValidation(err)
	}
	data, err := EncodeRecord(p)
	if err != nil {
		return err
	}
	if !r.Store.Set(courseProgressKey(p.UserID, p.CourseID), data) {
		return util.ErrStoreUnavailable
	}
	return nil
}
