package repository

import (
	"course_platform_backend/internal/model"
	"course_platform_backend/internal/util"
	"errors"
	"fmt"
	"sync"
	"testing"
)

func newUser(username, email string) *model.User {
	return &model.User{
		Username: username,
		Email:    email,
		FullName: "Test User",
		Role:     model.Student,
		IsActive: true,
	}
}

func TestUserCreateAndGet(t *testing.T) {
	s, _ := newTestStore(t)
	r := NewUserRepository(s)

	u, err := r.Create(newUser("ada", "ada@example.com"))
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if u.ID == 0 {
		t.Fatal("id not assigned")
	}
	if u.CreatedAt.IsZero() || !u.CreatedAt.Equal(u.UpdatedAt) {
		t.Fatalf("timestamps not stamped: %v %v", u.CreatedAt, u.UpdatedAt)
	}

	got, ok := r.GetByUsername("ada")
	if !ok || got.Email != "ada@example.com" {
		t.Fatalf("get by username: %+v ok=%v", got, ok)
	}

	byEmail, ok := r.GetByEmail("ada@example.com")
	if !ok || byEmail.Username != "ada" {
		t.Fatalf("get by email: %+v ok=%v", byEmail, ok)
	}
}

func TestUserCreateUniqueness(t *testing.T) {
	s, _ := newTestStore(t)
	r := NewUserRepository(s)

	if _, err := r.Create(newUser("ada", "ada@example.com")); err != nil {
		t.Fatalf("create: %v", err)
	}

	if _, err := r.Create(newUser("ada", "other@example.com")); !errors.Is(err, util.ErrUsernameTaken) {
		t.Fatalf("expected ErrUsernameTaken, got %v", err)
	}
	if _, err := r.Create(newUser("grace", "ada@example.com")); !errors.Is(err, util.ErrEmailRegistered) {
		t.Fatalf("expected ErrEmailRegistered, got %v", err)
	}
}

func TestUserCreateConcurrent(t *testing.T) {
	s, mr := newTestStore(t)
	r := NewUserRepository(s)

	const n = 32
	errs := make(chan error, n)
	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			name := fmt.Sprintf("user%02d", i)
			_, err := r.Create(newUser(name, name+"@example.com"))
			errs <- err
		}(i)
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		if err != nil {
			t.Fatalf("concurrent create: %v", err)
		}
	}

	users := r.List()
	if len(users) != n {
		t.Fatalf("expected %d records, got %d", n, len(users))
	}
	members, _ := mr.Members(usersSetKey)
	if len(members) != n {
		t.Fatalf("expected %d set members, got %d", n, len(members))
	}

	// Every user got a distinct id off the shared counter.
	seen := map[int64]bool{}
	for _, u := range users {
		if seen[u.ID] {
			t.Fatalf("duplicate id %d", u.ID)
		}
		seen[u.ID] = true
	}
}

func TestUserCreateValidation(t *testing.T) {
	s, _ := newTestStore(t)
	r := NewUserRepository(s)

	_, err := r.Create(&model.User{Username: "ada", Email: "a@b.c", Role: "superuser"})
	var ve *util.ValidationError
	if !errors.As(err, &ve) || ve.Field != "role" {
		t.Fatalf("expected role validation error, got %v", err)
	}

	if _, err := r.Create(&model.User{Email: "a@b.c", Role: model.Student}); err == nil {
		t.Fatal("expected error for missing username")
	}
}

func TestUserUpdateMovesEmailIndex(t *testing.T) {
	s, _ := newTestStore(t)
	r := NewUserRepository(s)
	r.Create(newUser("ada", "old@example.com"))

	newEmail := "new@example.com"
	u, found, err := r.Update("ada", model.UserUpdate{Email: &newEmail})
	if err != nil || !found {
		t.Fatalf("update: found=%v err=%v", found, err)
	}
	if u.Email != newEmail {
		t.Fatalf("email not updated: %q", u.Email)
	}

	if _, ok := r.GetByEmail("old@example.com"); ok {
		t.Fatal("old email index still resolves")
	}
	if got, ok := r.GetByEmail(newEmail); !ok || got.Username != "ada" {
		t.Fatal("new email index does not resolve")
	}
}

func TestUserUpdateInvalidRoleLeavesRecord(t *testing.T) {
	s, _ := newTestStore(t)
	r := NewUserRepository(s)
	r.Create(newUser("ada", "ada@example.com"))

	bad := "superuser"
	_, found, err := r.Update("ada", model.UserUpdate{Role: &bad})
	if !found {
		t.Fatal("expected found")
	}
	var ve *util.ValidationError
	if !errors.As(err, &ve) {
		t.Fatalf("expected validation error, got %v", err)
	}

	got, _ := r.GetByUsername("ada")
	if got.Role != model.Student {
		t.Fatalf("stored record changed: %q", got.Role)
	}
}

func TestUserUpdateAbsent(t *testing.T) {
	s, _ := newTestStore(t)
	r := NewUserRepository(s)

	name := "Nobody"
	_, found, err := r.Update("ghost", model.UserUpdate{FullName: &name})
	if found || err != nil {
		t.Fatalf("expected absent without error, found=%v err=%v", found, err)
	}
}

func TestUserDelete(t *testing.T) {
	s, _ := newTestStore(t)
	r := NewUserRepository(s)
	r.Create(newUser("ada", "ada@example.com"))
	r.SetPassword("ada", "hash")

	if !r.Delete("ada") {
		t.Fatal("delete reported absent")
	}
	if _, ok := r.GetByUsername("ada"); ok {
		t.Fatal("record still present")
	}
	if _, ok := r.GetByEmail("ada@example.com"); ok {
		t.Fatal("email index still present")
	}
	if _, ok := r.GetPassword("ada"); ok {
		t.Fatal("credential entry still present")
	}
	if len(r.List()) != 0 {
		t.Fatal("users set still lists the user")
	}

	if r.Delete("ada") {
		t.Fatal("second delete reported true")
	}
}

func TestUserListSkipsCorrupt(t *testing.T) {
	s, mr := newTestStore(t)
	r := NewUserRepository(s)
	r.Create(newUser("ada", "ada@example.com"))
	r.Create(newUser("grace", "grace@example.com"))

	mr.Set(userKey("grace"), "{corrupt")

	users := r.List()
	if len(users) != 1 || users[0].Username != "ada" {
		t.Fatalf("expected only ada, got %d users", len(users))
	}
}
