package service

import (
	"course_platform_backend/internal/config"
	"course_platform_backend/internal/model"
	"course_platform_backend/internal/repository"
	"course_platform_backend/internal/util"
	"errors"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/go-redis/redis/v8"
)

func newAuthFixture(t *testing.T) (*AuthService, *repository.UserRepository) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })

	store := repository.NewStore(client, time.Second)
	users := repository.NewUserRepository(store)
	cfg := &config.Config{
		JWT: config.JWTConfig{Secret: "test-secret-test-secret-test-secret", ExpireTime: time.Hour},
	}
	return NewAuthService(users, cfg), users
}

func TestRegisterAndLogin(t *testing.T) {
	auth, users := newAuthFixture(t)

	user, err := auth.Register("ada", "ada@example.com", "Ada L", "hunter2hunter2", "")
	if err != nil {
		t.Fatalf("register: %v", err)
	}
	if user.Role != model.Student {
		t.Fatalf("default role = %q", user.Role)
	}

	// The hash lands in the credential namespace, never the public record.
	hash, ok := users.GetPassword("ada")
	if !ok || hash == "hunter2hunter2" {
		t.Fatal("password stored in the clear or missing")
	}

	token, got, err := auth.Login("ada", "hunter2hunter2")
	if err != nil {
		t.Fatalf("login: %v", err)
	}
	if token == "" || got.Username != "ada" {
		t.Fatalf("login returned token=%q user=%+v", token, got)
	}

	claims, err := util.ParseJWT(token, "test-secret-test-secret-test-secret")
	if err != nil {
		t.Fatalf("parse token: %v", err)
	}
	if claims.UserID != user.ID || claims.Role != model.Student {
		t.Fatalf("claims mismatch: %+v", claims)
	}
}

func TestLoginFailures(t *testing.T) {
	auth, users := newAuthFixture(t)
	auth.Register("ada", "ada@example.com", "", "hunter2hunter2", "")

	if _, _, err := auth.Login("ada", "wrong"); !errors.Is(err, util.ErrInvalidCredentials) {
		t.Fatalf("wrong password: %v", err)
	}
	if _, _, err := auth.Login("ghost", "hunter2hunter2"); !errors.Is(err, util.ErrInvalidCredentials) {
		t.Fatalf("unknown user: %v", err)
	}

	inactive := false
	users.Update("ada", model.UserUpdate{IsActive: &inactive})
	if _, _, err := auth.Login("ada", "hunter2hunter2"); !errors.Is(err, util.ErrInvalidCredentials) {
		t.Fatalf("inactive user: %v", err)
	}
}

func TestRegisterRejectsBadInput(t *testing.T) {
	auth, _ := newAuthFixture(t)

	var ve *util.ValidationError
	if _, err := auth.Register("ada", "a@b.c", "", "", ""); !errors.As(err, &ve) {
		t.Fatalf("empty password: %v", err)
	}
	if _, err := auth.Register("ada", "a@b.c", "", "hunter2hunter2", "superuser"); !errors.As(err, &ve) {
		t.Fatalf("bad role: %v", err)
	}
}

func TestChangePassword(t *testing.T) {
	auth, _ := newAuthFixture(t)
	auth.Register("ada", "ada@example.com", "", "oldpassword1", "")

	if err := auth.ChangePassword("ada", "wrong", "newpassword1"); !errors.Is(err, util.ErrInvalidCredentials) {
		t.Fatalf("wrong old password: %v", err)
	}
	if err := auth.ChangePassword("ada", "oldpassword1", "newpassword1"); err != nil {
		t.Fatalf("change: %v", err)
	}

	if _, _, err := auth.Login("ada", "oldpassword1"); err == nil {
		t.Fatal("old password still works")
	}
	if _, _, err := auth.Login("ada", "newpassword1"); err != nil {
		t.Fatalf("new password rejected: %v", err)
	}
}
