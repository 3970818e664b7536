package app

import (
	"course_platform_backend/internal/config"
	"course_platform_backend/internal/middleware"
	"course_platform_backend/internal/model"
	"course_platform_backend/pkg/monitoring"

	"github.com/gin-gonic/gin"
)

func (a *App) registerRoutes(router *gin.Engine, c *controllers, cfg *config.Config) {
	router.GET("/metrics", monitoring.PrometheusHandler())

	a.registerPublicRoutes(router, c)

	authGroup := router.Group("/api")
	authGroup.Use(middleware.AuthMiddleware(cfg))
	{
		a.registerStudentRoutes(authGroup, c)
		a.registerInstructorRoutes(authGroup, c)
	}

	a.registerAdminRoutes(router, c, cfg)
}

func (a *App) registerPublicRoutes(router *gin.Engine, c *controllers) {
	public := router.Group("/api")
	{
		public.GET("/health", c.health.HealthCheck)
		public.POST("/register", c.auth.Register)
		public.POST("/login", c.auth.Login)

		// Course catalog is browsable without an account.
		public.GET("/courses", c.course.ListCourses)
		public.GET("/courses/featured", c.course.ListFeatured)
		public.GET("/courses/trending", c.course.ListTrending)
		public.GET("/courses/:id", c.course.GetCourse)
		public.GET("/courses/:id/modules", c.content.ListCourseModules)
		public.GET("/modules/:id/lessons", c.content.ListModuleLessons)
	}
}

func (a *App) registerStudentRoutes(rg *gin.RouterGroup, c *controllers) {
	rg.GET("/profile", c.auth.GetProfile)
	rg.POST("/profile/password", c.auth.ChangePassword)

	rg.GET("/lessons/:id", c.content.GetLesson)

	rg.POST("/enrollments", c.enrollment.Enroll)
	rg.GET("/enrollments", c.enrollment.MyEnrollments)
	rg.POST("/enrollments/:id/drop", c.enrollment.DropEnrollment)
	rg.POST("/enrollments/:id/complete", c.enrollment.CompleteEnrollment)

	rg.PUT("/lessons/:id/progress", c.progress.UpdateLessonProgress)
	rg.POST("/lessons/:id/complete", c.progress.CompleteLesson)
	rg.GET("/lessons/:id/progress", c.progress.GetLessonProgress)
	rg.GET("/modules/:id/progress", c.progress.GetModuleProgress)
	rg.GET("/courses/:id/progress", c.progress.GetCourseProgress)
	rg.GET("/progress/summary", c.progress.GetSummary)

	rg.POST("/payments", c.payment.CreatePayment)
	rg.GET("/payments", c.payment.MyPayments)
	rg.POST("/payments/:id/process", c.payment.ProcessPayment)
}

func (a *App) registerInstructorRoutes(rg *gin.RouterGroup, c *controllers) {
	instructor := rg.Group("/")
	instructor.Use(middleware.RoleMiddleware(model.Instructor))
	{
		instructor.POST("/courses", c.course.CreateCourse)
		instructor.GET("/instructor/courses", c.course.InstructorCourses)
		instructor.PUT("/courses/:id", c.course.UpdateCourse)
		instructor.DELETE("/courses/:id", c.course.DeleteCourse)
		instructor.POST("/courses/:id/publish", c.course.PublishCourse)
		instructor.POST("/courses/:id/archive", c.course.ArchiveCourse)
		instructor.POST("/courses/:id/thumbnail", c.course.UploadThumbnail)
		instructor.GET("/courses/:id/enrollments", c.enrollment.CourseEnrollments)

		instructor.POST("/modules", c.content.CreateModule)
		instructor.GET("/modules/:id", c.content.GetModule)
		instructor.PUT("/modules/:id", c.content.UpdateModule)
		instructor.DELETE("/modules/:id", c.content.DeleteModule)
		instructor.POST("/courses/:id/modules/reorder", c.content.ReorderModules)

		instructor.POST("/lessons", c.content.CreateLesson)
		instructor.PUT("/lessons/:id", c.content.UpdateLesson)
		instructor.DELETE("/lessons/:id", c.content.DeleteLesson)
		instructor.POST("/modules/:id/lessons/reorder", c.content.ReorderLessons)
		instructor.POST("/lessons/:id/video", c.content.UploadLessonVideo)
	}
}

func (a *App) registerAdminRoutes(router *gin.Engine, c *controllers, cfg *config.Config) {
	admin := router.Group("/api/admin")
	admin.Use(middleware.AuthMiddleware(cfg), middleware.RoleMiddleware(model.Admin))
	{
		admin.GET("/users", c.user.ListUsers)
		admin.GET("/users/:username", c.user.GetUser)
		admin.PUT("/users/:username", c.user.UpdateUser)
		admin.DELETE("/users/:username", c.user.DeleteUser)

		admin.POST("/courses/:id/feature", c.course.FeatureCourse)
		admin.POST("/courses/:id/trend", c.course.TrendCourse)
		admin.POST("/payments/:id/refund", c.payment.RefundPayment)
	}
}
