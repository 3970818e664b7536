package repository

import (
	"course_platform_backend/internal/model"
	"course_platform_backend/internal/util"
	"errors"
	"testing"
)

func newCourse(title string, instructorID int64, status model.CourseStatus) *model.Course {
	return &model.Course{
		Title:        title,
		InstructorID: instructorID,
		Level:        model.Beginner,
		Status:       status,
	}
}

func TestCourseCreateDefaults(t *testing.T) {
	s, _ := newTestStore(t)
	r := NewCourseRepository(s)

	c, err := r.Create(&model.Course{Title: "Go Basics", InstructorID: 1})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if c.Status != model.CourseDraft || c.Level != model.Beginner {
		t.Fatalf("defaults not applied: %q %q", c.Status, c.Level)
	}
	if c.Tags == nil {
		t.Fatal("tags should be empty slice, not nil")
	}
}

func TestCourseListFilterAndPaginate(t *testing.T) {
	s, _ := newTestStore(t)
	r := NewCourseRepository(s)

	for i := 0; i < 5; i++ {
		if _, err := r.Create(newCourse("Published", 1, model.CoursePublished)); err != nil {
			t.Fatalf("create: %v", err)
		}
	}
	r.Create(newCourse("Draft", 1, model.CourseDraft))
	r.Create(newCourse("Other Instructor", 2, model.CoursePublished))

	published := model.CoursePublished
	all, total := r.List(CourseFilter{Status: &published}, 0, 0)
	if len(all) != 6 || total != 6 {
		t.Fatalf("expected 6 published, got %d (total %d)", len(all), total)
	}

	instructor := int64(1)
	mine, _ := r.List(CourseFilter{Status: &published, InstructorID: &instructor}, 0, 0)
	if len(mine) != 5 {
		t.Fatalf("expected 5 for instructor 1, got %d", len(mine))
	}

	page, total := r.List(CourseFilter{Status: &published}, 2, 3)
	if len(page) != 3 {
		t.Fatalf("expected page of 3, got %d", len(page))
	}
	if total != 6 {
		t.Fatalf("paged total should count all matches: %d", total)
	}

	beyond, total := r.List(CourseFilter{Status: &published}, 100, 10)
	if len(beyond) != 0 || total != 6 {
		t.Fatalf("expected empty page with total 6, got %d (total %d)", len(beyond), total)
	}
}

func TestCourseListExclude(t *testing.T) {
	s, _ := newTestStore(t)
	r := NewCourseRepository(s)

	a, _ := r.Create(newCourse("A", 1, model.CoursePublished))
	r.Create(newCourse("B", 1, model.CoursePublished))

	published := model.CoursePublished
	got, _ := r.List(CourseFilter{Status: &published, ExcludeID: &a.ID}, 0, 0)
	if len(got) != 1 || got[0].ID == a.ID {
		t.Fatalf("exclude filter failed: %d results", len(got))
	}
}

func TestCourseSubsets(t *testing.T) {
	s, _ := newTestStore(t)
	r := NewCourseRepository(s)

	c, _ := r.Create(newCourse("Featured", 1, model.CoursePublished))
	r.Create(newCourse("Plain", 1, model.CoursePublished))

	if !r.SetSubset(c.ID, "featured", true) {
		t.Fatal("feature failed")
	}

	published := model.CoursePublished
	featured, _ := r.List(CourseFilter{Status: &published, Subset: "featured"}, 0, 0)
	if len(featured) != 1 || featured[0].ID != c.ID {
		t.Fatalf("expected one featured course, got %d", len(featured))
	}

	// A draft course stays out of the featured listing even when flagged.
	draft, _ := r.Create(newCourse("Hidden", 1, model.CourseDraft))
	r.SetSubset(draft.ID, "featured", true)
	featured, _ = r.List(CourseFilter{Status: &published, Subset: "featured"}, 0, 0)
	if len(featured) != 1 {
		t.Fatalf("draft course leaked into featured listing: %d", len(featured))
	}

	if !r.SetSubset(c.ID, "featured", false) {
		t.Fatal("unfeature failed")
	}
	if got, _ := r.List(CourseFilter{Subset: "featured"}, 0, 0); len(got) != 1 {
		t.Fatalf("expected only the draft left, got %d", len(got))
	}
	r.SetSubset(draft.ID, "featured", false)

	if r.SetSubset(c.ID, "recommended", true) {
		t.Fatal("unknown subset accepted")
	}
}

func TestCourseUpdateInvalidStatusLeavesRecord(t *testing.T) {
	s, _ := newTestStore(t)
	r := NewCourseRepository(s)
	c, _ := r.Create(newCourse("Go Basics", 1, model.CourseDraft))

	bad := "cancelled"
	_, found, err := r.Update(c.ID, model.CourseUpdate{Status: &bad})
	if !found {
		t.Fatal("expected found")
	}
	var ve *util.ValidationError
	if !errors.As(err, &ve) {
		t.Fatalf("expected validation error, got %v", err)
	}

	got, _ := r.Get(c.ID)
	if got.Status != model.CourseDraft {
		t.Fatalf("stored record changed: %q", got.Status)
	}
}

func TestCoursePublish(t *testing.T) {
	s, _ := newTestStore(t)
	r := NewCourseRepository(s)
	c, _ := r.Create(newCourse("Go Basics", 1, model.CourseDraft))

	status := string(model.CoursePublished)
	updated, found, err := r.Update(c.ID, model.CourseUpdate{Status: &status})
	if err != nil || !found {
		t.Fatalf("publish: found=%v err=%v", found, err)
	}
	if updated.Status != model.CoursePublished {
		t.Fatalf("status = %q", updated.Status)
	}
	if !updated.UpdatedAt.After(updated.CreatedAt) && !updated.UpdatedAt.Equal(updated.CreatedAt) {
		t.Fatal("updated_at not advanced")
	}
}

func TestCourseDeleteCleansIndexes(t *testing.T) {
	s, _ := newTestStore(t)
	r := NewCourseRepository(s)
	c, _ := r.Create(newCourse("Gone", 1, model.CoursePublished))
	r.SetSubset(c.ID, "featured", true)
	r.SetSubset(c.ID, "trending", true)

	if !r.Delete(c.ID) {
		t.Fatal("delete reported absent")
	}
	if _, ok := r.Get(c.ID); ok {
		t.Fatal("record still present")
	}
	if got, _ := r.List(CourseFilter{}, 0, 0); len(got) != 0 {
		t.Fatalf("all_courses still lists the course: %d", len(got))
	}
	if got, _ := r.List(CourseFilter{Subset: "featured"}, 0, 0); len(got) != 0 {
		t.Fatal("featured set still lists the course")
	}
	if got, _ := r.List(CourseFilter{Subset: "trending"}, 0, 0); len(got) != 0 {
		t.Fatal("trending set still lists the course")
	}
}

func TestCourseListSkipsCorrupt(t *testing.T) {
	s, mr := newTestStore(t)
	r := NewCourseRepository(s)
	a, _ := r.Create(newCourse("Good", 1, model.CoursePublished))
	b, _ := r.Create(newCourse("Bad", 1, model.CoursePublished))

	mr.Set(courseKey(b.ID), `{"id":`)

	got, total := r.List(CourseFilter{}, 0, 0)
	if len(got) != 1 || got[0].ID != a.ID || total != 1 {
		t.Fatalf("expected only the good course, got %d", len(got))
	}
}
