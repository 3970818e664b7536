package controller

import (
	"course_platform_backend/internal/model"
	"course_platform_backend/internal/repository"
	"course_platform_backend/internal/util"
	"errors"

	"github.com/gin-gonic/gin"
)

// UserController exposes admin user management on top of the repository.
type UserController struct {
	Users *repository.UserRepository
}

func NewUserController(users *repository.UserRepository) *UserController {
	return &UserController{Users: users}
}

func (c *UserController) ListUsers(ctx *gin.Context) {
	users := c.Users.List()
	util.Success(ctx, util.PageResponse{
		List:  users,
		Total: len(users),
	})
}

func (c *UserController) GetUser(ctx *gin.Context) {
	user, ok := c.Users.GetByUsername(ctx.Param("username"))
	if !ok {
		util.NotFound(ctx)
		return
	}
	util.Success(ctx, user)
}

type UpdateUserRequest struct {
	Email    *string `json:"email"`
	FullName *string `json:"full_name"`
	Role     *string `json:"role"`
	IsActive *bool   `json:"is_active"`
}

func (c *UserController) UpdateUser(ctx *gin.Context) {
	var req UpdateUserRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	user, found, err := c.Users.Update(ctx.Param("username"), model.UserUpdate{
		Email:    req.Email,
		FullName: req.FullName,
		Role:     req.Role,
		IsActive: req.IsActive,
	})
	if err != nil {
		var ve *util.ValidationError
		switch {
		case errors.Is(err, util.ErrEmailRegistered):
			util.Conflict(ctx, "email already registered")
		case errors.As(err, &ve):
			util.BadRequest(ctx, ve.Error())
		default:
			util.LogInternalError(ctx, err)
		}
		return
	}
	if !found {
		util.NotFound(ctx)
		return
	}

	util.Success(ctx, user)
}

func (c *UserController) DeleteUser(ctx *gin.Context) {
	c.Users.Delete(ctx.Param("username"))
	util.Success(ctx, gin.H{"message": "user deleted"})
}
