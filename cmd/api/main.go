package main

import (
	"fmt"
	"log"

	"github.com/go-playground/validator/v10"

	"github.com/colegiosys/colegio-api/internal/repository"
	"github.com/colegiosys/colegio-api/internal/router"
	"github.com/colegiosys/colegio-api/internal/service"
	"github.com/colegiosys/colegio-api/pkg/cache"
	"github.com/colegiosys/colegio-api/pkg/config"
	"github.com/colegiosys/colegio-api/pkg/database"
	"github.com/colegiosys/colegio-api/pkg/logger"
	"github.com/colegiosys/colegio-api/pkg/observability"
	"github.com/colegiosys/colegio-api/pkg/storage"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logr, err := logger.New(cfg)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer logr.Sync() //nolint:errcheck

	flush, err := observability.InitSentry(cfg.Sentry.DSN, cfg.Sentry.Environment, "colegio-api")
	if err != nil {
		logr.Sugar().Warnw("sentry init failed", "error", err)
	}
	defer flush()

	db, err := database.NewPostgres(cfg.Database)
	if err != nil {
		logr.Sugar().Fatalw("database connection failed", "error", err)
	}
	defer db.Close()

	redisClient, err := cache.NewRedis(cfg.Redis)
	if err != nil {
		logr.Sugar().Fatalw("redis connection failed", "error", err)
	}
	defer redisClient.Close()

	objectStore, err := storage.NewLocalStorage(cfg.Uploads.StorageDir)
	if err != nil {
		logr.Sugar().Fatalw("upload storage init failed", "error", err)
	}

	store := repository.NewStore(db, cfg.Database.QueryTimeout, repository.ListLimits{
		Default: cfg.Pagination.DefaultLimit,
		Max:     cfg.Pagination.MaxLimit,
	})

	userRepo := repository.NewUserRepository(store)
	schoolRepo := repository.NewSchoolRepository(store)
	yearRepo := repository.NewSchoolYearRepository(store)
	levelRepo := repository.NewLevelRepository(store)
	gradeRepo := repository.NewGradeRepository(store)
	courseRepo := repository.NewCourseRepository(store)
	areaRepo := repository.NewAreaRepository(store)
	turnRepo := repository.NewTurnRepository(store)
	postRepo := repository.NewPostRepository(store)
	notificationRepo := repository.NewNotificationRepository(store)
	fileRepo := repository.NewFileRepository(store)
	configurationRepo := repository.NewConfigurationRepository(store)

	validate := validator.New()
	denylist := service.NewRedisDenylist(redisClient)

	authService := service.NewAuthService(userRepo, denylist, validate, logr, service.AuthConfig{
		Secret:     cfg.JWT.Secret,
		Expiration: cfg.JWT.Expiration,
		Issuer:     cfg.JWT.Issuer,
	})

	svcs := router.Services{
		Auth:           authService,
		Users:          service.NewUserService(userRepo, schoolRepo, validate, logr),
		Schools:        service.NewSchoolService(schoolRepo, validate, logr),
		Years:          service.NewSchoolYearService(yearRepo, validate, logr),
		Levels:         service.NewLevelService(levelRepo, validate, logr),
		Grades:         service.NewGradeService(gradeRepo, levelRepo, yearRepo, turnRepo, validate, logr),
		Courses:        service.NewCourseService(courseRepo, levelRepo, validate, logr),
		Areas:          service.NewAreaService(areaRepo, validate, logr),
		Turns:          service.NewTurnService(turnRepo, validate, logr),
		Posts:          service.NewPostService(postRepo, gradeRepo, validate, logr),
		Notifications:  service.NewNotificationService(notificationRepo, userRepo, validate, logr),
		Files:          service.NewFileService(fileRepo, objectStore, cfg.Uploads, logr),
		Configurations: service.NewConfigurationService(configurationRepo, schoolRepo, validate, logr),
		Exports:        service.NewExportService(userRepo, logr),
		Metrics:        service.NewMetricsService(),
	}

	r := router.New(cfg, logr, svcs)

	addr := fmt.Sprintf(":%d", cfg.Port)
	logr.Sugar().Infow("server starting", "addr", addr, "env", cfg.Env)
	if err := r.Run(addr); err != nil {
		logr.Sugar().Fatalw("server failed", "error", err)
	}
}
