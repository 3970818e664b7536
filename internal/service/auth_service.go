package service

import (
	"course_platform_backend/internal/config"
	"course_platform_backend/internal/model"
	"course_platform_backend/internal/repository"
	"course_platform_backend/internal/util"

	"github.com/gin-gonic/gin"
	"golang.org/x/crypto/bcrypt"
)

type AuthService struct {
	Users *repository.UserRepository
	Cfg   *config.Config
}

func NewAuthService(users *repository.UserRepository, cfg *config.Config) *AuthService {
	return &AuthService{Users: users, Cfg: cfg}
}

// Register creates the public user record and stores the bcrypt hash under
// the separate credential namespace.
func (s *AuthService) Register(username, email, fullName, password, role string) (*model.User, error) {
	parsedRole := model.Student
	if role != "" {
		var err error
		parsedRole, err = model.ParseUserRole(role)
		if err != nil {
			return nil, &util.ValidationError{Field: "role", Reason: err.Error()}
		}
	}
	if password == "" {
		return nil, &util.ValidationError{Field: "password", Reason: "required"}
	}

	user := &model.User{
		Username: username,
		Email:    email,
		FullName: fullName,
		Role:     parsedRole,
		IsActive: true,
	}
	user, err := s.Users.Create(user)
	if err != nil {
		return nil, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}
	if !s.Users.SetPassword(username, string(hash)) {
		return nil, util.ErrStoreUnavailable
	}
	return user, nil
}

func (s *AuthService) Login(username, password string) (string, *model.User, error) {
	user, ok := s.Users.GetByUsername(username)
	if !ok || !user.IsActive {
		return "", nil, util.ErrInvalidCredentials
	}

	hash, ok := s.Users.GetPassword(username)
	if !ok {
		return "", nil, util.ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)); err != nil {
		return "", nil, util.ErrInvalidCredentials
	}

	token, err := util.GenerateJWT(user, s.Cfg.JWT.Secret, s.Cfg.JWT.ExpireTime)
	if err != nil {
		return "", nil, err
	}
	return token, user, nil
}

func (s *AuthService) ChangePassword(username, oldPassword, newPassword string) error {
	hash, ok := s.Users.GetPassword(username)
	if !ok {
		return util.ErrUserNotFound
	}
	if err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(oldPassword)); err != nil {
		return util.ErrInvalidCredentials
	}
	if newPassword == "" {
		return &util.ValidationError{Field: "password", Reason: "required"}
	}

	newHash, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	if !s.Users.SetPassword(username, string(newHash)) {
		return util.ErrStoreUnavailable
	}
	return nil
}

func (s *AuthService) GetCurrentUser(c *gin.Context) *model.User {
	claims := util.GetUserFromContext(c)
	if claims == nil {
		return nil
	}
	user, _ := s.Users.GetByUsername(claims.Username)
	return user
}
