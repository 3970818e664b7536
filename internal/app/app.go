package app

import (
	"context"
	"course_platform_backend/internal/config"
	"course_platform_backend/internal/controller"
	"course_platform_backend/internal/repository"
	"course_platform_backend/internal/service"
	"course_platform_backend/internal/util"
	"course_platform_backend/pkg/database"
	"course_platform_backend/pkg/logger"
	"course_platform_backend/pkg/monitoring"
	"course_platform_backend/pkg/security"
	"course_platform_backend/pkg/tracing"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"
)

type App struct {
	Config          *config.Config
	Router          *gin.Engine
	Redis           *redis.Client
	Store           *repository.Store
	configCallbacks []func(*config.Config)
}

type repositories struct {
	user       *repository.UserRepository
	course     *repository.CourseRepository
	module     *repository.ModuleRepository
	lesson     *repository.LessonRepository
	enrollment *repository.EnrollmentRepository
	progress   *repository.ProgressRepository
	payment    *repository.PaymentRepository
}

type services struct {
	auth       *service.AuthService
	storage    *service.StorageService
	course     *service.CourseService
	content    *service.ContentService
	enrollment *service.EnrollmentService
	progress   *service.ProgressService
	payment    *service.PaymentService
}

type controllers struct {
	auth       *controller.AuthController
	user       *controller.UserController
	course     *controller.CourseController
	content    *controller.ContentController
	enrollment *controller.EnrollmentController
	progress   *controller.ProgressController
	payment    *controller.PaymentController
	health     *controller.HealthController
}

func (a *App) RegisterConfigCallback(callback func(*config.Config)) {
	a.configCallbacks = append(a.configCallbacks, callback)
}

func (a *App) initRepositories(store *repository.Store) *repositories {
	return &repositories{
		user:       repository.NewUserRepository(store),
		course:     repository.NewCourseRepository(store),
		module:     repository.NewModuleRepository(store),
		lesson:     repository.NewLessonRepository(store),
		enrollment: repository.NewEnrollmentRepository(store),
		progress:   repository.NewProgressRepository(store),
		payment:    repository.NewPaymentRepository(store),
	}
}

func (a *App) initServices(repos *repositories, cfg *config.Config) *services {
	s := &services{}

	s.storage = service.NewStorageService(cfg)
	s.auth = service.NewAuthService(repos.user, cfg)
	s.course = service.NewCourseService(repos.course)
	s.enrollment = service.NewEnrollmentService(repos.enrollment, repos.course)
	s.content = service.NewContentService(repos.module, repos.lesson, repos.course, s.enrollment, s.storage)
	s.progress = service.NewProgressService(repos.progress, repos.lesson, repos.module, repos.course, repos.enrollment)
	s.payment = service.NewPaymentService(repos.payment, repos.course, s.enrollment)

	return s
}

func (a *App) initControllers(s *services, repos *repositories, store *repository.Store) *controllers {
	return &controllers{
		auth:       controller.NewAuthController(s.auth),
		user:       controller.NewUserController(repos.user),
		course:     controller.NewCourseController(s.course, s.storage),
		content:    controller.NewContentController(s.content),
		enrollment: controller.NewEnrollmentController(s.enrollment),
		progress:   controller.NewProgressController(s.progress),
		payment:    controller.NewPaymentController(s.payment),
		health:     controller.NewHealthController(store),
	}
}

func (a *App) setupMiddlewares(router *gin.Engine, cfg *config.Config) {
	router.Use(security.CORS(cfg.CORS.AllowedOrigins))
	router.Use(security.Secure())

	maxRequests := cfg.RateLimit.MaxRequests
	if maxRequests <= 0 {
		maxRequests = 1000
	}
	window := time.Duration(cfg.RateLimit.WindowMinutes) * time.Minute
	if window <= 0 {
		window = time.Minute
	}
	router.Use(security.RateLimiter(maxRequests, window))

	if cfg.Tracing.Enabled {
		router.Use(tracing.GinMiddleware())
	}

	router.Use(monitoring.MetricsMiddleware())
}

func NewApp(cfg *config.Config) *App {
	logger.InitLogger(cfg)

	logger.Log.Info("Logger initialized successfully")

	rdb := database.InitRedis(&cfg.Redis)
	store := repository.NewStore(rdb, cfg.Redis.OpTimeout())

	app := &App{
		Config: cfg,
		Redis:  rdb,
		Store:  store,
	}

	repos := app.initRepositories(store)
	services := app.initServices(repos, cfg)
	controllers := app.initControllers(services, repos, store)

	monitoring.Init()

	if cfg.Server.Mode == "release" {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.Default()
	app.Router = router

	app.setupMiddlewares(router, cfg)

	if cfg.Tracing.Enabled {
		if _, err := tracing.InitTracer("course-platform", cfg.Tracing.CollectorEndpoint); err != nil {
			logger.Log.Fatal("Failed to initialize tracing", zap.Error(err))
		}
	}

	app.registerRoutes(router, controllers, cfg)

	if cfg.Storage.Type == util.StorageLocal {
		router.Static("/uploads", cfg.Storage.LocalPath)
	}

	return app
}

func (a *App) Run() {
	srv := &http.Server{
		Addr:    ":" + a.Config.Server.Port,
		Handler: a.Router,
	}

	go func() {
		log.Printf("Server running on port %s", a.Config.Server.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("listen: %s\n", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Println("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal("Server forced to shutdown:", err)
	}

	log.Println("Server exiting")
}
