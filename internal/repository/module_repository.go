package repository

import (
	"course_platform_backend/internal/model"
	"course_platform_backend/internal/util"
	"sort"
	"strconv"
	"time"

	"go.uber.org/zap"
)

type ModuleRepository struct {
	Store *Store
	log   *zap.Logger
}

func NewModuleRepository(store *Store) *ModuleRepository {
	return &ModuleRepository{Store: store, log: repoLogger()}
}

// Create stores a module and registers it in its course's module set. Order
// must be unique within the course.
func (r *ModuleRepository) Create(m *model.Module) (*model.Module, error) {
	if err := m.Shape(); err != nil {
		return nil, asValidation(err)
	}
	for _, sibling := range r.ListByCourse(m.CourseID) {
		if sibling.Order == m.Order {
			return nil, &util.ValidationError{Field: "order", Reason: "duplicate order within course"}
		}
	}

	if m.ID == 0 {
		id, ok := r.Store.NextID("module")
		if !ok {
			return nil, util.ErrStoreUnavailable
		}
		m.ID = id
	}

	now := time.Now().UTC()
	m.CreatedAt = now
	m.UpdatedAt = now

	data, err := EncodeRecord(m)
	if err != nil {
		return nil, err
	}

	ok := r.Store.WriteRecord(
		moduleKey(m.ID),
		data,
		map[string][]string{courseModulesKey(m.CourseID): {strconv.FormatInt(m.ID, 10)}},
		nil,
	)
	if !ok {
		return nil, util.ErrStoreUnavailable
	}
	return m, nil
}

func (r *ModuleRepository) Get(id int64) (*model.Module, bool) {
	data, ok := r.Store.Get(moduleKey(id))
	if !ok {
		return nil, false
	}
	var m model.Module
	if err := DecodeRecord(moduleKey(id), data, &m); err != nil {
		r.log.Warn("skipping corrupt module record", zap.Int64("id", id), zap.Error(err))
		return nil, false
	}
	return &m, true
}

// ListByCourse returns the course's modules ordered by their order field
// ascending, ties broken by id. Index members whose primary record is gone
// are skipped.
func (r *ModuleRepository) ListByCourse(courseID int64) []*model.Module {
	ids := r.Store.SetMembers(courseModulesKey(courseID))
	modules := make([]*model.Module, 0, len(ids))
	for _, raw := range ids {
		id, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			continue
		}
		if m, ok := r.Get(id); ok {
			modules = append(modules, m)
		}
	}
	sort.Slice(modules, func(i, j int) bool {
		if modules[i].Order != modules[j].Order {
			return modules[i].Order < modules[j].Order
		}
		return modules[i].ID < modules[j].ID
	})
	return modules
}

func (r *ModuleRepository) Update(id int64, upd model.ModuleUpdate) (*model.Module, bool, error) {
	m, ok := r.Get(id)
	if !ok {
		return nil, false, nil
	}

	if upd.Title != nil {
		m.Title = *upd.Title
	}
	if upd.Description != nil {
		m.Description = *upd.Description
	}
	if upd.Order != nil {
		for _, sibling := range r.ListByCourse(m.CourseID) {
			if sibling.ID != m.ID && sibling.Order == *upd.Order {
				return nil, true, &util.ValidationError{Field: "order", Reason: "duplicate order within course"}
			}
		}
		m.Order = *upd.Order
	}
	m.UpdatedAt = time.Now().UTC()

	data, err := EncodeRecord(m)
	if err != nil {
		return nil, true, err
	}
	if !r.Store.Set(moduleKey(id), data) {
		return nil, true, util.ErrStoreUnavailable
	}
	return m, true, nil
}

// ReorderByCourse applies a new order assignment to the course's modules in
// one pass. Ids outside the course are ignored. The final assignment, moved
// and unmoved modules together, must be duplicate-free or nothing is written.
func (r *ModuleRepository) ReorderByCourse(courseID int64, order map[int64]int) ([]*model.Module, error) {
	siblings := r.ListByCourse(courseID)

	seen := map[int]int64{}
	changed := make([]*model.Module, 0, len(order))
	for _, m := range siblings {
		final := m.Order
		if pos, ok := order[m.ID]; ok {
			final = pos
		}
		if prev, dup := seen[final]; dup {
			return nil, &util.ValidationError{
				Field:  "order",
				Reason: "modules " + strconv.FormatInt(prev, 10) + " and " + strconv.FormatInt(m.ID, 10) + " both at order " + strconv.Itoa(final),
			}
		}
		seen[final] = m.ID
		if final != m.Order {
			m.Order = final
			changed = append(changed, m)
		}
	}

	now := time.Now().UTC()
	for _, m := range changed {
		m.UpdatedAt = now
		data, err := EncodeRecord(m)
		if err != nil {
			return nil, err
		}
		if !r.Store.Set(moduleKey(m.ID), data) {
			return nil, util.ErrStoreUnavailable
		}
	}
	return r.ListByCourse(courseID), nil
}

// Delete removes the module, its membership in the owning course's set and
// the module's own lesson index.
func (r *ModuleRepository) Delete(id int64) bool {
	m, ok := r.Get(id)
	indexes := map[string][]string{}
	if ok {
		indexes[courseModulesKey(m.CourseID)] = []string{strconv.FormatInt(id, 10)}
	}
	return r.Store.DeleteRecord(moduleKey(id), indexes, moduleLessonsKey(id))
}
