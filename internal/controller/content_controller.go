package controller

import (
	"course_platform_backend/internal/model"
	"course_platform_backend/internal/service"
	"course_platform_backend/internal/util"
	"errors"
	"os"
	"path/filepath"
	"slices"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
)

type ContentController struct {
	ContentService *service.ContentService
}

func NewContentController(contentService *service.ContentService) *ContentController {
	return &ContentController{ContentService: contentService}
}

func (c *ContentController) CreateModule(ctx *gin.Context) {
	var in service.ModuleInput
	if err := ctx.ShouldBindJSON(&in); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	module, err := c.ContentService.CreateModule(in)
	if err != nil {
		var ve *util.ValidationError
		switch {
		case errors.Is(err, util.ErrCourseNotFound):
			util.NotFound(ctx)
		case errors.As(err, &ve):
			util.BadRequest(ctx, ve.Error())
		default:
			util.LogInternalError(ctx, err)
		}
		return
	}

	util.Created(ctx, module)
}

func (c *ContentController) GetModule(ctx *gin.Context) {
	id, ok := parseID(ctx, "id")
	if !ok {
		return
	}
	module, found := c.ContentService.GetModule(id)
	if !found {
		util.NotFound(ctx)
		return
	}
	util.Success(ctx, module)
}

func (c *ContentController) ListCourseModules(ctx *gin.Context) {
	courseID, ok := parseID(ctx, "id")
	if !ok {
		return
	}
	util.Success(ctx, c.ContentService.ListCourseModules(courseID))
}

type UpdateModuleRequest struct {
	Title       *string `json:"title"`
	Description *string `json:"description"`
	Order       *int    `json:"order"`
}

func (c *ContentController) UpdateModule(ctx *gin.Context) {
	id, ok := parseID(ctx, "id")
	if !ok {
		return
	}

	var req UpdateModuleRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	module, found, err := c.ContentService.UpdateModule(id, model.ModuleUpdate{
		Title:       req.Title,
		Description: req.Description,
		Order:       req.Order,
	})
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
	util.Success(ctx, module)
}

func (c *ContentController) DeleteModule(ctx *gin.Context) {
	id, ok := parseID(ctx, "id")
	if !ok {
		return
	}
	if !c.ContentService.DeleteModule(id) {
		util.NotFound(ctx)
		return
	}
	util.Success(ctx, gin.H{"message": "module deleted"})
}

type ReorderRequest struct {
	// Order maps entity id to its new position.
	Order map[int64]int `json:"order" binding:"required"`
}

func (c *ContentController) ReorderModules(ctx *gin.Context) {
	courseID, ok := parseID(ctx, "id")
	if !ok {
		return
	}

	var req ReorderRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	modules, err := c.ContentService.ReorderModules(courseID, req.Order)
	if err != nil {
		var ve *util.ValidationError
		if errors.As(err, &ve) {
			util.BadRequest(ctx, ve.Error())
		} else {
			util.LogInternalError(ctx, err)
		}
		return
	}
	util.Success(ctx, modules)
}

func (c *ContentController) CreateLesson(ctx *gin.Context) {
	var in service.LessonInput
	if err := ctx.ShouldBindJSON(&in); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	lesson, err := c.ContentService.CreateLesson(in)
	if err != nil {
		var ve *util.ValidationError
		switch {
		case errors.Is(err, util.ErrModuleNotFound):
			util.NotFound(ctx)
		case errors.As(err, &ve):
			util.BadRequest(ctx, ve.Error())
		default:
			util.LogInternalError(ctx, err)
		}
		return
	}

	util.Created(ctx, lesson)
}

// GetLesson returns lesson metadata always, but strips content unless the
// lesson is a free preview or the caller is actively enrolled.
func (c *ContentController) GetLesson(ctx *gin.Context) {
	id, ok := parseID(ctx, "id")
	if !ok {
		return
	}
	lesson, found := c.ContentService.GetLesson(id)
	if !found {
		util.NotFound(ctx)
		return
	}

	claims := util.GetUserFromContext(ctx)
	canAccess := false
	if claims != nil {
		canAccess = claims.Role == model.Admin || claims.Role == model.Instructor ||
			c.ContentService.CanAccessLesson(claims.UserID, lesson)
	} else {
		canAccess = lesson.IsFreePreview
	}

	if !canAccess {
		stripped := *lesson
		stripped.Content = ""
		util.Success(ctx, gin.H{"lesson": &stripped, "locked": true})
		return
	}
	util.Success(ctx, gin.H{"lesson": lesson, "locked": false})
}

func (c *ContentController) ListModuleLessons(ctx *gin.Context) {
	moduleID, ok := parseID(ctx, "id")
	if !ok {
		return
	}
	util.Success(ctx, c.ContentService.ListModuleLessons(moduleID))
}

type UpdateLessonRequest struct {
	Title           *string `json:"title"`
	Description     *string `json:"description"`
	ContentType     *string `json:"content_type"`
	Content         *string `json:"content"`
	DurationMinutes *int    `json:"duration_minutes"`
	Order           *int    `json:"order"`
	IsFreePreview   *bool   `json:"is_free_preview"`
}

func (c *ContentController) UpdateLesson(ctx *gin.Context) {
	id, ok := parseID(ctx, "id")
	if !ok {
		return
	}

	var req UpdateLessonRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	lesson, found, err := c.ContentService.UpdateLesson(id, model.LessonUpdate{
		Title:           req.Title,
		Description:     req.Description,
		ContentType:     req.ContentType,
		Content:         req.Content,
		DurationMinutes: req.DurationMinutes,
		Order:           req.Order,
		IsFreePreview:   req.IsFreePreview,
	})
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
	util.Success(ctx, lesson)
}

func (c *ContentController) DeleteLesson(ctx *gin.Context) {
	id, ok := parseID(ctx, "id")
	if !ok {
		return
	}
	if !c.ContentService.DeleteLesson(id) {
		util.NotFound(ctx)
		return
	}
	util.Success(ctx, gin.H{"message": "lesson deleted"})
}

func (c *ContentController) ReorderLessons(ctx *gin.Context) {
	moduleID, ok := parseID(ctx, "id")
	if !ok {
		return
	}

	var req ReorderRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	lessons, err := c.ContentService.ReorderLessons(moduleID, req.Order)
	if err != nil {
		var ve *util.ValidationError
		if errors.As(err, &ve) {
			util.BadRequest(ctx, ve.Error())
		} else {
			util.LogInternalError(ctx, err)
		}
		return
	}
	util.Success(ctx, lessons)
}

// UploadLessonVideo accepts a multipart video upload, stages it to a temp
// file, and attaches it to the lesson.
func (c *ContentController) UploadLessonVideo(ctx *gin.Context) {
	id, ok := parseID(ctx, "id")
	if !ok {
		return
	}

	file, err := ctx.FormFile("file")
	if err != nil {
		util.BadRequest(ctx, "missing file")
		return
	}
	if !util.IsVideo(file.Header.Get("Content-Type")) {
		util.BadRequest(ctx, "unsupported video type")
		return
	}
	ext := strings.ToLower(filepath.Ext(file.Filename))
	if !slices.Contains(util.AllowedVideoExtensions, ext) {
		util.BadRequest(ctx, "unsupported video extension "+ext)
		return
	}

	// Headers and extensions are client-supplied; sniff the actual bytes.
	src, err := file.Open()
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	_, sniffErr := util.ValidateMimeType(src, []string{util.MimeVideo})
	src.Close()
	if sniffErr != nil {
		util.BadRequest(ctx, sniffErr.Error())
		return
	}

	tmp := filepath.Join(os.TempDir(), strconv.FormatInt(id, 10)+"_"+filepath.Base(file.Filename))
	if err := ctx.SaveUploadedFile(file, tmp); err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	defer os.Remove(tmp)

	lesson, err := c.ContentService.AttachVideo(ctx.Request.Context(), id, tmp)
	if err != nil {
		if errors.Is(err, util.ErrLessonNotFound) {
			util.NotFound(ctx)
		} else {
			util.LogInternalError(ctx, err)
		}
		return
	}

	util.Success(ctx, lesson)
}
