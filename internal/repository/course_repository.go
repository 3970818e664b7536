package repository

import (
	"course_platform_backend/internal/model"
	"course_platform_backend/internal/util"
	"strconv"
	"time"

	"go.uber.org/zap"
)

// CourseFilter predicates combine with AND semantics. Subset narrows the
// candidate set to featured_courses or trending_courses instead of
// all_courses.
type CourseFilter struct {
	Status       *model.CourseStatus
	InstructorID *int64
	ExcludeID    *int64
	Subset       string
}

type CourseRepository struct {
	Store *Store
	log   *zap.Logger
}

func NewCourseRepository(store *Store) *CourseRepository {
	return &CourseRepository{Store: store, log: repoLogger()}
}

func (r *CourseRepository) Create(c *model.Course) (*model.Course, error) {
	if c.Status == "" {
		c.Status = model.CourseDraft
	}
	if c.Level == "" {
		c.Level = model.Beginner
	}
	if err := c.Shape(); err != nil {
		return nil, asValidation(err)
	}

	if c.ID == 0 {
		id, ok := r.Store.NextID("course")
		if !ok {
			return nil, util.ErrStoreUnavailable
		}
		c.ID = id
	}

	now := time.Now().UTC()
	c.CreatedAt = now
	c.UpdatedAt = now
	if c.Tags == nil {
		c.Tags = []string{}
	}

	data, err := EncodeRecord(c)
	if err != nil {
		return nil, err
	}

	ok := r.Store.WriteRecord(
		courseKey(c.ID),
		data,
		map[string][]string{allCoursesKey: {strconv.FormatInt(c.ID, 10)}},
		nil,
	)
	if !ok {
		return nil, util.ErrStoreUnavailable
	}
	return c, nil
}

func (r *CourseRepository) Get(id int64) (*model.Course, bool) {
	data, ok := r.Store.Get(courseKey(id))
	if !ok {
		return nil, false
	}
	var c model.Course
	if err := DecodeRecord(courseKey(id), data, &c); err != nil {
		r.log.Warn("skipping corrupt course record", zap.Int64("id", id), zap.Error(err))
		return nil, false
	}
	return &c, true
}

// List reads the relevant index set, fetches each member's primary record and
// applies the filter predicates, then skip/limit pagination after filtering.
// The second return is the match count before pagination. The underlying set
// is unordered; callers must not depend on ordering.
func (r *CourseRepository) List(filter CourseFilter, skip, limit int) ([]*model.Course, int) {
	setKey := allCoursesKey
	switch filter.Subset {
	case "featured":
		setKey = featuredCoursesKey
	case "trending":
		setKey = trendingCoursesKey
	}

	ids := r.Store.SetMembers(setKey)
	matched := make([]*model.Course, 0, len(ids))
	for _, raw := range ids {
		id, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			continue
		}
		if filter.ExcludeID != nil && id == *filter.ExcludeID {
			continue
		}
		c, ok := r.Get(id)
		if !ok {
			continue
		}
		if filter.Status != nil && c.Status != *filter.Status {
			continue
		}
		if filter.InstructorID != nil && c.InstructorID != *filter.InstructorID {
			continue
		}
		matched = append(matched, c)
	}

	total := len(matched)
	if skip < 0 {
		skip = 0
	}
	if skip >= total {
		return []*model.Course{}, total
	}
	matched = matched[skip:]
	if limit > 0 && limit < len(matched) {
		matched = matched[:limit]
	}
	return matched, total
}

func (r *CourseRepository) Update(id int64, upd model.CourseUpdate) (*model.Course, bool, error) {
	c, ok := r.Get(id)
	if !ok {
		return nil, false, nil
	}

	if upd.Status != nil {
		status, err := model.ParseCourseStatus(*upd.Status)
		if err != nil {
			return nil, true, &util.ValidationError{Field: "status", Reason: err.Error()}
		}
		c.Status = status
	}
	if upd.Level != nil {
		level, err := model.ParseCourseLevel(*upd.Level)
		if err != nil {
			return nil, true, &util.ValidationError{Field: "level", Reason: err.Error()}
		}
		c.Level = level
	}
	if upd.Title != nil {
		c.Title = *upd.Title
	}
	if upd.Description != nil {
		c.Description = *upd.Description
	}
	if upd.Price != nil {
		c.Price = *upd.Price
	}
	if upd.StartDate != nil {
		c.StartDate = upd.StartDate
	}
	if upd.Tags != nil {
		c.Tags = *upd.Tags
	}
	if upd.ThumbnailURL != nil {
		c.ThumbnailURL = *upd.ThumbnailURL
	}
	c.UpdatedAt = time.Now().UTC()

	data, err := EncodeRecord(c)
	if err != nil {
		return nil, true, err
	}
	if !r.Store.Set(courseKey(id), data) {
		return nil, true, util.ErrStoreUnavailable
	}
	return c, true, nil
}

// Delete removes the primary record and every set membership, including the
// featured/trending subsets and the owned module index.
func (r *CourseRepository) Delete(id int64) bool {
	member := strconv.FormatInt(id, 10)
	return r.Store.DeleteRecord(
		courseKey(id),
		map[string][]string{
			allCoursesKey:      {member},
			featuredCoursesKey: {member},
			trendingCoursesKey: {member},
		},
		courseModulesKey(id),
	)
}

// SetSubset adds or removes a course from a named subset ("featured" or
// "trending").
func (r *CourseRepository) SetSubset(id int64, subset string, member bool) bool {
	var key string
	switch subset {
	case "featured":
		key = featuredCoursesKey
	case "trending":
		key = trendingCoursesKey
	default:
		return false
	}
	if member {
		return r.Store.AddToSet(key, strconv.FormatInt(id, 10))
	}
	return r.Store.RemoveFromSet(key, strconv.FormatInt(id, 10))
}
