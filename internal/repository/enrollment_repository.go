package repository

import (
	"course_platform_backend/internal/model"
	"course_platform_backend/internal/util"
	"strconv"
	"time"

	"go.uber.org/zap"
)

type EnrollmentRepository struct {
	Store *Store
	log   *zap.Logger
}

func NewEnrollmentRepository(store *Store) *EnrollmentRepository {
	return &EnrollmentRepository{Store: store, log: repoLogger()}
}

// Create stores an enrollment and registers it in both the user's and the
// course's enrollment sets in one pipeline. Active-enrollment exclusivity is
// enforced one layer up, in the enrollment service.
func (r *EnrollmentRepository) Create(e *model.Enrollment) (*model.Enrollment, error) {
	if e.Status == "" {
		e.Status = model.EnrollmentActive
	}
	if err := e.Shape(); err != nil {
		return nil, asValidation(err)
	}

	if e.ID == 0 {
		id, ok := r.Store.NextID("enrollment")
		if !ok {
			return nil, util.ErrStoreUnavailable
		}
		e.ID = id
	}
	if e.EnrolledAt.IsZero() {
		e.EnrolledAt = time.Now().UTC()
	}

	data, err := EncodeRecord(e)
	if err != nil {
		return nil, err
	}

	member := strconv.FormatInt(e.ID, 10)
	ok := r.Store.WriteRecord(
		enrollmentKey(e.ID),
		data,
		map[string][]string{
			userEnrollmentsKey(e.UserID):     {member},
			courseEnrollmentsKey(e.CourseID): {member},
		},
		nil,
	)
	if !ok {
		return nil, util.ErrStoreUnavailable
	}
	return e, nil
}

func (r *EnrollmentRepository) Get(id int64) (*model.Enrollment, bool) {
	data, ok := r.Store.Get(enrollmentKey(id))
	if !ok {
		return nil, false
	}
	var e model.Enrollment
	if err := DecodeRecord(enrollmentKey(id), data, &e); err != nil {
		r.log.Warn("skipping corrupt enrollment record", zap.Int64("id", id), zap.Error(err))
		return nil, false
	}
	return &e, true
}

// UpdateStatus transitions an enrollment, stamping completed_at when the new
// status is completed.
func (r *EnrollmentRepository) UpdateStatus(id int64, status model.EnrollmentStatus) (*model.Enrollment, bool, error) {
	if _, err := model.ParseEnrollmentStatus(string(status)); err != nil {
		return nil, false, &util.ValidationError{Field: "status", Reason: err.Error()}
	}
	e, ok := r.Get(id)
	if !ok {
		return nil, false, nil
	}

	e.Status = status
	if status == model.EnrollmentCompleted {
		now := time.Now().UTC()
		e.CompletedAt = &now
	}

	data, err := EncodeRecord(e)
	if err != nil {
		return nil, true, err
	}
	if !r.Store.Set(enrollmentKey(id), data) {
		return nil, true, util.ErrStoreUnavailable
	}
	return e, true, nil
}

func (r *EnrollmentRepository) ListByUser(userID int64) []*model.Enrollment {
	return r.list(userEnrollmentsKey(userID))
}

func (r *EnrollmentRepository) ListByCourse(courseID int64) []*model.Enrollment {
	return r.list(courseEnrollmentsKey(courseID))
}

func (r *EnrollmentRepository) list(setKey string) []*model.Enrollment {
	ids := r.Store.SetMembers(setKey)
	enrollments := make([]*model.Enrollment, 0, len(ids))
	for _, raw := range ids {
		id, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			continue
		}
		if e, ok := r.Get(id); ok {
			enrollments = append(enrollments, e)
		}
	}
	return enrollments
}

func (r *EnrollmentRepository) Delete(id int64) bool {
	e, ok := r.Get(id)
	indexes := map[string][]string{}
	if ok {
		member := strconv.FormatInt(id, 10)
		indexes[userEnrollmentsKey(e.UserID)] = []string{member}
		indexes[courseEnrollmentsKey(e.CourseID)] = []string{member}
	}
	return r.Store.DeleteRecord(enrollmentKey(id), indexes)
}
