package controller

import (
	"course_platform_backend/internal/model"
	"course_platform_backend/internal/service"
	"course_platform_backend/internal/util"
	"errors"
	"io"
	"path/filepath"
	"strconv"

	"github.com/gin-gonic/gin"
)

type CourseController struct {
	CourseService *service.CourseService
	Storage       *service.StorageService
}

func NewCourseController(courseService *service.CourseService, storage *service.StorageService) *CourseController {
	return &CourseController{CourseService: courseService, Storage: storage}
}

func parseID(ctx *gin.Context, name string) (int64, bool) {
	id, err := strconv.ParseInt(ctx.Param(name), 10, 64)
	if err != nil {
		util.BadRequest(ctx, "invalid "+name)
		return 0, false
	}
	return id, true
}

func paginationParams(ctx *gin.Context) (skip, limit int) {
	skip, _ = strconv.Atoi(ctx.DefaultQuery("skip", "0"))
	limit, _ = strconv.Atoi(ctx.DefaultQuery("limit", "20"))
	if skip < 0 {
		skip = 0
	}
	if limit < 0 {
		limit = 0
	}
	return skip, limit
}

func (c *CourseController) ListCourses(ctx *gin.Context) {
	skip, limit := paginationParams(ctx)

	var excludeID *int64
	if raw := ctx.Query("exclude"); raw != "" {
		if id, err := strconv.ParseInt(raw, 10, 64); err == nil {
			excludeID = &id
		}
	}

	courses, total := c.CourseService.ListPublished(skip, limit, excludeID)
	util.Success(ctx, util.PageResponse{
		List:  courses,
		Total: total,
		Skip:  skip,
		Limit: limit,
	})
}

func (c *CourseController) ListFeatured(ctx *gin.Context) {
	util.Success(ctx, c.CourseService.ListFeatured())
}

func (c *CourseController) ListTrending(ctx *gin.Context) {
	util.Success(ctx, c.CourseService.ListTrending())
}

func (c *CourseController) GetCourse(ctx *gin.Context) {
	id, ok := parseID(ctx, "id")
	if !ok {
		return
	}
	course, found := c.CourseService.GetCourse(id)
	if !found {
		util.NotFound(ctx)
		return
	}
	util.Success(ctx, course)
}

func (c *CourseController) CreateCourse(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	var in service.CourseInput
	if err := ctx.ShouldBindJSON(&in); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	course, err := c.CourseService.CreateCourse(claims, in)
	if err != nil {
		var ve *util.ValidationError
		switch {
		case errors.Is(err, util.ErrPermissionDenied):
			util.Forbidden(ctx)
		case errors.As(err, &ve):
			util.BadRequest(ctx, ve.Error())
		default:
			util.LogInternalError(ctx, err)
		}
		return
	}

	util.Created(ctx, course)
}

type UpdateCourseRequest struct {
	Title        *string   `json:"title"`
	Description  *string   `json:"description"`
	Level        *string   `json:"level"`
	Price        *float64  `json:"price"`
	Status       *string   `json:"status"`
	Tags         *[]string `json:"tags"`
	ThumbnailURL *string   `json:"thumbnail_url"`
}

func (c *CourseController) UpdateCourse(ctx *gin.Context) {
	id, ok := parseID(ctx, "id")
	if !ok {
		return
	}

	var req UpdateCourseRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	if !c.canManageCourse(ctx, id) {
		return
	}

	course, found, err := c.CourseService.UpdateCourse(id, model.CourseUpdate{
		Title:        req.Title,
		Description:  req.Description,
		Level:        req.Level,
		Price:        req.Price,
		Status:       req.Status,
		Tags:         req.Tags,
		ThumbnailURL: req.ThumbnailURL,
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

	util.Success(ctx, course)
}

func (c *CourseController) PublishCourse(ctx *gin.Context) {
	c.transition(ctx, c.CourseService.Publish)
}

func (c *CourseController) ArchiveCourse(ctx *gin.Context) {
	c.transition(ctx, c.CourseService.Archive)
}

func (c *CourseController) transition(ctx *gin.Context, fn func(int64) (*model.Course, bool, error)) {
	id, ok := parseID(ctx, "id")
	if !ok {
		return
	}
	if !c.canManageCourse(ctx, id) {
		return
	}

	course, found, err := fn(id)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	if !found {
		util.NotFound(ctx)
		return
	}
	util.Success(ctx, course)
}

type SubsetRequest struct {
	On bool `json:"on"`
}

func (c *CourseController) FeatureCourse(ctx *gin.Context) {
	c.subset(ctx, c.CourseService.Feature)
}

func (c *CourseController) TrendCourse(ctx *gin.Context) {
	c.subset(ctx, c.CourseService.Trend)
}

func (c *CourseController) subset(ctx *gin.Context, fn func(int64, bool) bool) {
	id, ok := parseID(ctx, "id")
	if !ok {
		return
	}

	var req SubsetRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	if _, found := c.CourseService.GetCourse(id); !found {
		util.NotFound(ctx)
		return
	}
	if !fn(id, req.On) {
		util.InternalServerError(ctx)
		return
	}
	util.Success(ctx, gin.H{"id": id, "on": req.On})
}

func (c *CourseController) InstructorCourses(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}
	util.Success(ctx, c.CourseService.InstructorCourses(claims.UserID))
}

func (c *CourseController) DeleteCourse(ctx *gin.Context) {
	id, ok := parseID(ctx, "id")
	if !ok {
		return
	}
	if !c.canManageCourse(ctx, id) {
		return
	}
	if !c.CourseService.Courses.Delete(id) {
		util.NotFound(ctx)
		return
	}
	util.Success(ctx, gin.H{"message": "course deleted"})
}

// UploadThumbnail accepts a multipart image upload, stores it via the
// configured storage provider, and points the course at the stored file.
func (c *CourseController) UploadThumbnail(ctx *gin.Context) {
	id, ok := parseID(ctx, "id")
	if !ok {
		return
	}
	if !c.canManageCourse(ctx, id) {
		return
	}

	file, err := ctx.FormFile("file")
	if err != nil {
		util.BadRequest(ctx, "missing file")
		return
	}
	if !util.IsImage(file.Header.Get("Content-Type")) {
		util.BadRequest(ctx, "unsupported image type")
		return
	}

	src, err := file.Open()
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	defer src.Close()

	// The declared header is only a hint; sniff the actual bytes.
	contentType, err := util.ValidateMimeType(src, []string{util.MimeImage})
	if err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}
	if _, err := src.Seek(0, io.SeekStart); err != nil {
		util.LogInternalError(ctx, err)
		return
	}

	filename := "thumbnails/" + strconv.FormatInt(id, 10) + "_" + filepath.Base(file.Filename)
	url, err := c.Storage.Upload(ctx.Request.Context(), filename, src, file.Size, contentType)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}

	course, found, err := c.CourseService.UpdateCourse(id, model.CourseUpdate{ThumbnailURL: &url})
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	if !found {
		util.NotFound(ctx)
		return
	}
	util.Success(ctx, course)
}

// canManageCourse allows the course's instructor or an admin. It writes the
// error response itself; a false return means the handler should stop.
func (c *CourseController) canManageCourse(ctx *gin.Context, courseID int64) bool {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return false
	}
	if claims.Role == model.Admin {
		return true
	}
	course, found := c.CourseService.GetCourse(courseID)
	if !found {
		util.NotFound(ctx)
		return false
	}
	if course.InstructorID != claims.UserID {
		util.Forbidden(ctx)
		return false
	}
	return true
}
