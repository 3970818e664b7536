package repository

import (
	"course_platform_backend/internal/model"
	"course_platform_backend/internal/util"
	"course_platform_backend/pkg/logger"
	"time"

	"go.uber.org/zap"
)

// UserRepository owns the user:<username> namespace, the email -> username
// index, the users enumeration set and the user_password credential namespace.
// Password material never appears in the public record.
type UserRepository struct {
	Store *Store
	log   *zap.Logger
}

func NewUserRepository(store *Store) *UserRepository {
	return &UserRepository{Store: store, log: repoLogger()}
}

// Create validates and stores a new user. The username is the primary key;
// the email index and the users set are updated in the same pipeline as the
// primary write. Timestamps are stamped at call time.
func (r *UserRepository) Create(u *model.User) (*model.User, error) {
	if err := u.Shape(); err != nil {
		return nil, asValidation(err)
	}

	if _, exists := r.Store.Get(userKey(u.Username)); exists {
		return nil, util.ErrUsernameTaken
	}
	if _, exists := r.Store.Get(emailKey(u.Email)); exists {
		return nil, util.ErrEmailRegistered
	}

	if u.ID == 0 {
		id, ok := r.Store.NextID("user")
		if !ok {
			return nil, util.ErrStoreUnavailable
		}
		u.ID = id
	}

	now := time.Now().UTC()
	u.CreatedAt = now
	u.UpdatedAt = now

	data, err := EncodeRecord(u)
	if err != nil {
		return nil, err
	}

	ok := r.Store.WriteRecord(
		userKey(u.Username),
		data,
		map[string][]string{usersSetKey: {u.Username}},
		map[string]string{emailKey(u.Email): u.Username},
	)
	if !ok {
		return nil, util.ErrStoreUnavailable
	}
	return u, nil
}

// GetByUsername returns the user record, or absent when missing or corrupt.
func (r *UserRepository) GetByUsername(username string) (*model.User, bool) {
	data, ok := r.Store.Get(userKey(username))
	if !ok {
		return nil, false
	}
	var u model.User
	if err := DecodeRecord(userKey(username), data, &u); err != nil {
		r.log.Warn("skipping corrupt user record", zap.String("username", username), zap.Error(err))
		return nil, false
	}
	return &u, true
}

// GetByEmail resolves the email index to a username and loads that record.
func (r *UserRepository) GetByEmail(email string) (*model.User, bool) {
	username, ok := r.Store.Get(emailKey(email))
	if !ok {
		return nil, false
	}
	return r.GetByUsername(username)
}

// List returns every user in the enumeration set, skipping members whose
// primary record has gone missing or unreadable.
func (r *UserRepository) List() []*model.User {
	usernames := r.Store.SetMembers(usersSetKey)
	users := make([]*model.User, 0, len(usernames))
	for _, username := range usernames {
		if u, ok := r.GetByUsername(username); ok {
			users = append(users, u)
		}
	}
	return users
}

// Update merges a partial update onto the stored record, re-stamps updated_at
// and overwrites. Returns absent when the user does not exist. An invalid
// enum value fails validation and leaves the stored record unchanged.
func (r *UserRepository) Update(username string, upd model.UserUpdate) (*model.User, bool, error) {
	u, ok := r.GetByUsername(username)
	if !ok {
		return nil, false, nil
	}

	oldEmail := u.Email
	if upd.Role != nil {
		role, err := model.ParseUserRole(*upd.Role)
		if err != nil {
			return nil, true, &util.ValidationError{Field: "role", Reason: err.Error()}
		}
		u.Role = role
	}
	if upd.Email != nil {
		u.Email = *upd.Email
	}
	if upd.FullName != nil {
		u.FullName = *upd.FullName
	}
	if upd.IsActive != nil {
		u.IsActive = *upd.IsActive
	}
	u.UpdatedAt = time.Now().UTC()

	data, err := EncodeRecord(u)
	if err != nil {
		return nil, true, err
	}

	extras := map[string]string{}
	var stale []string
	if upd.Email != nil && *upd.Email != oldEmail {
		extras[emailKey(u.Email)] = u.Username
		stale = append(stale, emailKey(oldEmail))
	}
	if !r.Store.WriteRecord(userKey(username), data, nil, extras, stale...) {
		return nil, true, util.ErrStoreUnavailable
	}
	return u, true, nil
}

// Delete removes the primary record, its index memberships and the credential
// entry. Idempotent: a second delete returns false.
func (r *UserRepository) Delete(username string) bool {
	u, ok := r.GetByUsername(username)
	extraKeys := []string{passwordKey(username)}
	if ok {
		extraKeys = append(extraKeys, emailKey(u.Email))
	}
	return r.Store.DeleteRecord(
		userKey(username),
		map[string][]string{usersSetKey: {username}},
		extraKeys...,
	)
}

// SetPassword stores credential material in its own namespace, keyed by
// username. Callers hash before storing.
func (r *UserRepository) SetPassword(username, hash string) bool {
	return r.Store.Set(passwordKey(username), hash)
}

func (r *UserRepository) GetPassword(username string) (string, bool) {
	return r.Store.Get(passwordKey(username))
}

func repoLogger() *zap.Logger {
	if logger.Log == nil {
		return zap.NewNop()
	}
	return logger.Log
}
