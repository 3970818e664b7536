package repository

import (
	"course_platform_backend/internal/model"
	"course_platform_backend/internal/util"
	"sort"
	"strconv"
	"time"

	"go.uber.org/zap"
)

type LessonRepository struct {
	Store *Store
	log   *zap.Logger
}

func NewLessonRepository(store *Store) *LessonRepository {
	return &LessonRepository{Store: store, log: repoLogger()}
}

func (r *LessonRepository) Create(l *model.Lesson) (*model.Lesson, error) {
	if err := l.Shape(); err != nil {
		return nil, asValidation(err)
	}
	for _, sibling := range r.ListByModule(l.ModuleID) {
		if sibling.Order == l.Order {
			return nil, &util.ValidationError{Field: "order", Reason: "duplicate order within module"}
		}
	}

	if l.ID == 0 {
		id, ok := r.Store.NextID("lesson")
		if !ok {
			return nil, util.ErrStoreUnavailable
		}
		l.ID = id
	}

	now := time.Now().UTC()
	l.CreatedAt = now
	l.UpdatedAt = now

	data, err := EncodeRecord(l)
	if err != nil {
		return nil, err
	}

	ok := r.Store.WriteRecord(
		lessonKey(l.ID),
		data,
		map[string][]string{moduleLessonsKey(l.ModuleID): {strconv.FormatInt(l.ID, 10)}},
		nil,
	)
	if !ok {
		return nil, util.ErrStoreUnavailable
	}
	return l, nil
}

func (r *LessonRepository) Get(id int64) (*model.Lesson, bool) {
	data, ok := r.Store.Get(lessonKey(id))
	if !ok {
		return nil, false
	}
	var l model.Lesson
	if err := DecodeRecord(lessonKey(id), data, &l); err != nil {
		r.log.Warn("skipping corrupt lesson record", zap.Int64("id", id), zap.Error(err))
		return nil, false
	}
	return &l, true
}

// ListByModule returns the module's lessons ordered by order ascending, ties
// broken by id, tolerating index members without a primary record.
func (r *LessonRepository) ListByModule(moduleID int64) []*model.Lesson {
	ids := r.Store.SetMembers(moduleLessonsKey(moduleID))
	lessons := make([]*model.Lesson, 0, len(ids))
	for _, raw := range ids {
		id, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			continue
		}
		if l, ok := r.Get(id); ok {
			lessons = append(lessons, l)
		}
	}
	sort.Slice(lessons, func(i, j int) bool {
		if lessons[i].Order != lessons[j].Order {
			return lessons[i].Order < lessons[j].Order
		}
		return lessons[i].ID < lessons[j].ID
	})
	return lessons
}

func (r *LessonRepository) Update(id int64, upd model.LessonUpdate) (*model.Lesson, bool, error) {
	l, ok := r.Get(id)
	if !ok {
		return nil, false, nil
	}

	if upd.ContentType != nil {
		ct, err := model.ParseContentType(*upd.ContentType)
		if err != nil {
			return nil, true, &util.ValidationError{Field: "content_type", Reason: err.Error()}
		}
		l.ContentType = ct
	}
	if upd.Title != nil {
		l.Title = *upd.Title
	}
	if upd.Description != nil {
		l.Description = *upd.Description
	}
	if upd.Content != nil {
		l.Content = *upd.Content
	}
	if upd.DurationMinutes != nil {
		l.DurationMinutes = *upd.DurationMinutes
	}
	if upd.Order != nil {
		for _, sibling := range r.ListByModule(l.ModuleID) {
			if sibling.ID != l.ID && sibling.Order == *upd.Order {
				return nil, true, &util.ValidationError{Field: "order", Reason: "duplicate order within module"}
			}
		}
		l.Order = *upd.Order
	}
	if upd.IsFreePreview != nil {
		l.IsFreePreview = *upd.IsFreePreview
	}
	l.UpdatedAt = time.Now().UTC()

	data, err := EncodeRecord(l)
	if err != nil {
		return nil, true, err
	}
	if !r.Store.Set(lessonKey(id), data) {
		return nil, true, util.ErrStoreUnavailable
	}
	return l, true, nil
}

// ReorderByModule is the lesson-level counterpart of the module reorder:
// the final assignment must be duplicate-free or nothing is written.
func (r *LessonRepository) ReorderByModule(moduleID int64, order map[int64]int) ([]*model.Lesson, error) {
	siblings := r.ListByModule(moduleID)

	seen := map[int]int64{}
	changed := make([]*model.Lesson, 0, len(order))
	for _, l := range siblings {
		final := l.Order
		if pos, ok := order[l.ID]; ok {
			final = pos
		}
		if prev, dup := seen[final]; dup {
			return nil, &util.ValidationError{
				Field:  "order",
				Reason: "lessons " + strconv.FormatInt(prev, 10) + " and " + strconv.FormatInt(l.ID, 10) + " both at order " + strconv.Itoa(final),
			}
		}
		seen[final] = l.ID
		if final != l.Order {
			l.Order = final
			changed = append(changed, l)
		}
	}

	now := time.Now().UTC()
	for _, l := range changed {
		l.UpdatedAt = now
		data, err := EncodeRecord(l)
		if err != nil {
			return nil, err
		}
		if !r.Store.Set(lessonKey(l.ID), data) {
			return nil, util.ErrStoreUnavailable
		}
	}
	return r.ListByModule(moduleID), nil
}

func (r *LessonRepository) Delete(id int64) bool {
	l, ok := r.Get(id)
	indexes := map[string][]string{}
	if ok {
		indexes[moduleLessonsKey(l.ModuleID)] = []string{strconv.FormatInt(id, 10)}
	}
	return r.Store.DeleteRecord(lessonKey(id), indexes)
}
