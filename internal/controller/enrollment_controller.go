package controller

import (
	"course_platform_backend/internal/model"
	"course_platform_backend/internal/service"
	"course_platform_backend/internal/util"
	"errors"

	"github.com/gin-gonic/gin"
)

type EnrollmentController struct {
	EnrollmentService *service.EnrollmentService
}

func NewEnrollmentController(enrollmentService *service.EnrollmentService) *EnrollmentController {
	return &EnrollmentController{EnrollmentService: enrollmentService}
}

type EnrollRequest struct {
	CourseID int64 `json:"course_id" binding:"required"`
}

func (c *EnrollmentController) Enroll(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	var req EnrollRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	enrollment, err := c.EnrollmentService.Enroll(claims.UserID, req.CourseID)
	if err != nil {
		switch {
		case errors.Is(err, util.ErrCourseNotFound):
			util.NotFound(ctx)
		case errors.Is(err, util.ErrAlreadyEnrolled):
			util.Conflict(ctx, "already enrolled in this course")
		default:
			util.LogInternalError(ctx, err)
		}
		return
	}

	util.Created(ctx, enrollment)
}

func (c *EnrollmentController) MyEnrollments(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}
	util.Success(ctx, c.EnrollmentService.UserEnrollments(claims.UserID))
}

func (c *EnrollmentController) CourseEnrollments(ctx *gin.Context) {
	courseID, ok := parseID(ctx, "id")
	if !ok {
		return
	}
	util.Success(ctx, c.EnrollmentService.CourseEnrollments(courseID))
}

func (c *EnrollmentController) DropEnrollment(ctx *gin.Context) {
	c.transition(ctx, c.EnrollmentService.Drop)
}

func (c *EnrollmentController) CompleteEnrollment(ctx *gin.Context) {
	c.transition(ctx, c.EnrollmentService.Complete)
}

func (c *EnrollmentController) transition(ctx *gin.Context, fn func(int64) (*model.Enrollment, bool, error)) {
	id, ok := parseID(ctx, "id")
	if !ok {
		return
	}

	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}
	existing, found := c.EnrollmentService.Get(id)
	if !found {
		util.NotFound(ctx)
		return
	}
	if existing.UserID != claims.UserID && claims.Role != model.Admin {
		util.Forbidden(ctx)
		return
	}

	enrollment, found, err := fn(id)
	if err != nil {
		var ve *util.ValidationError
		if errors.As(err, &ve) {
			util.BadRequest(ctx, ve.Error())
		} else {
			util.LogInternalError(ctx, err)
		}
		return
	}
	if !found {
		util.NotFound(ctx)
		return
	}
	util.Success(ctx, enrollment)
}
