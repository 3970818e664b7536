package controller

import (
	"course_platform_backend/internal/model"
	"course_platform_backend/internal/service"
	"course_platform_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type ProgressController struct {
	ProgressService *service.ProgressService
}

func NewProgressController(progressService *service.ProgressService) *ProgressController {
	return &ProgressController{ProgressService: progressService}
}

type UpdateLessonProgressRequest struct {
	Status              *string `json:"status"`
	TimeSpentSeconds    *int    `json:"time_spent_seconds"`
	LastPositionSeconds *int    `json:"last_position_seconds"`
}

func (c *ProgressController) UpdateLessonProgress(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}
	lessonID, ok := parseID(ctx, "id")
	if !ok {
		return
	}

	var req UpdateLessonProgressRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	var status *model.ProgressStatus
	if req.Status != nil {
		parsed, err := model.ParseProgressStatus(*req.Status)
		if err != nil {
			util.BadRequest(ctx, err.Error())
			return
		}
		status = &parsed
	}

	progress, err := c.ProgressService.UpdateLessonProgress(claims.UserID, lessonID, status, req.TimeSpentSeconds, req.LastPositionSeconds)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	util.Success(ctx, progress)
}

func (c *ProgressController) CompleteLesson(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}
	lessonID, ok := parseID(ctx, "id")
	if !ok {
		return
	}

	progress, err := c.ProgressService.CompleteLesson(claims.UserID, lessonID)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	util.Success(ctx, progress)
}

func (c *ProgressController) GetLessonProgress(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}
	lessonID, ok := parseID(ctx, "id")
	if !ok {
		return
	}
	util.Success(ctx, c.ProgressService.GetLessonProgress(claims.UserID, lessonID))
}

func (c *ProgressController) GetModuleProgress(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}
	moduleID, ok := parseID(ctx, "id")
	if !ok {
		return
	}
	util.Success(ctx, c.ProgressService.GetModuleProgress(claims.UserID, moduleID))
}

func (c *ProgressController) GetCourseProgress(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}
	courseID, ok := parseID(ctx, "id")
	if !ok {
		return
	}
	util.Success(ctx, c.ProgressService.GetCourseProgress(claims.UserID, courseID))
}

// GetSummary returns course progress across all of the caller's enrollments.
func (c *ProgressController) GetSummary(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}
	util.Success(ctx, c.ProgressService.Summary(claims.UserID))
}
