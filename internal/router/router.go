package router

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/colegiosys/colegio-api/internal/handler"
	"github.com/colegiosys/colegio-api/internal/middleware"
	"github.com/colegiosys/colegio-api/internal/service"
	"github.com/colegiosys/colegio-api/pkg/config"
	"github.com/colegiosys/colegio-api/pkg/logger"
	corsmiddleware "github.com/colegiosys/colegio-api/pkg/middleware/cors"
	reqidmiddleware "github.com/colegiosys/colegio-api/pkg/middleware/requestid"
)

// Services groups everything the router needs to wire endpoints.
type Services struct {
	Auth           *service.AuthService
	Users          *service.UserService
	Schools        *service.SchoolService
	Years          *service.SchoolYearService
	Levels         *service.LevelService
	Grades         *service.GradeService
	Courses        *service.CourseService
	Areas          *service.AreaService
	Turns          *service.TurnService
	Posts          *service.PostService
	Notifications  *service.NotificationService
	Files          *service.FileService
	Configurations *service.ConfigurationService
	Exports        *service.ExportService
	Metrics        *service.MetricsService
}

// New builds the gin engine with every route and middleware attached.
func New(cfg *config.Config, logr *zap.Logger, svcs Services) *gin.Engine {
	if cfg.Env == config.EnvProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(middleware.Recovery(logr))
	r.Use(reqidmiddleware.Middleware())
	r.Use(logger.GinMiddleware(logr))
	r.Use(corsmiddleware.New(cfg.CORS.AllowedOrigins))
	r.Use(middleware.Metrics(svcs.Metrics))

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	r.GET("/metrics", gin.WrapH(svcs.Metrics.Handler()))

	authHandler := handler.NewAuthHandler(svcs.Auth, svcs.Metrics)
	userHandler := handler.NewUserHandler(svcs.Users, svcs.Exports, svcs.Metrics)
	schoolHandler := handler.NewSchoolHandler(svcs.Schools)
	yearHandler := handler.NewSchoolYearHandler(svcs.Years)
	levelHandler := handler.NewLevelHandler(svcs.Levels)
	gradeHandler := handler.NewGradeHandler(svcs.Grades)
	courseHandler := handler.NewCourseHandler(svcs.Courses)
	areaHandler := handler.NewAreaHandler(svcs.Areas)
	turnHandler := handler.NewTurnHandler(svcs.Turns)
	postHandler := handler.NewPostHandler(svcs.Posts)
	notificationHandler := handler.NewNotificationHandler(svcs.Notifications)
	fileHandler := handler.NewFileHandler(svcs.Files)
	configurationHandler := handler.NewConfigurationHandler(svcs.Configurations)

	api := r.Group(cfg.APIPrefix)

	auth := api.Group("/auth")
	{
		auth.POST("/login", authHandler.Login)
		auth.POST("/logout", middleware.JWT(svcs.Auth), authHandler.Logout)
		auth.PUT("/password", middleware.JWT(svcs.Auth), authHandler.ChangePassword)
	}

	protected := api.Group("")
	protected.Use(middleware.JWT(svcs.Auth))

	users := protected.Group("/usuarios")
	{
		users.GET("", middleware.AdminOnly(), userHandler.List)
		users.GET("/exportar", middleware.AdminOnly(), userHandler.Export)
		users.GET("/:id", middleware.RBAC("SUPERADMIN", "ADMIN", middleware.SelfRole), userHandler.Get)
		users.POST("", middleware.AdminOnly(), userHandler.Create)
		users.PUT("/:id", middleware.RBAC("SUPERADMIN", "ADMIN", middleware.SelfRole), userHandler.Update)
		users.DELETE("/:id", middleware.AdminOnly(), userHandler.Delete)
	}

	schools := protected.Group("/colegios")
	{
		schools.GET("", middleware.AnyUser(), schoolHandler.List)
		schools.GET("/:id", middleware.AnyUser(), schoolHandler.Get)
		schools.POST("", middleware.RequireRoles("SUPERADMIN"), schoolHandler.Create)
		schools.PUT("/:id", middleware.RequireRoles("SUPERADMIN"), schoolHandler.Update)
		schools.DELETE("/:id", middleware.RequireRoles("SUPERADMIN"), schoolHandler.Delete)
	}

	years := protected.Group("/anios")
	{
		years.GET("", middleware.AnyUser(), yearHandler.List)
		years.GET("/activo", middleware.AnyUser(), yearHandler.GetActive)
		years.GET("/:id", middleware.AnyUser(), yearHandler.Get)
		years.POST("", middleware.AdminOnly(), yearHandler.Create)
		years.PUT("/:id/activar", middleware.AdminOnly(), yearHandler.Activate)
		years.DELETE("/:id", middleware.AdminOnly(), yearHandler.Delete)
	}

	levels := protected.Group("/niveles")
	{
		levels.GET("", middleware.AnyUser(), levelHandler.List)
		levels.GET("/:id", middleware.AnyUser(), levelHandler.Get)
		levels.POST("", middleware.AdminOnly(), levelHandler.Create)
		levels.PUT("/:id", middleware.AdminOnly(), levelHandler.Update)
		levels.DELETE("/:id", middleware.AdminOnly(), levelHandler.Delete)
	}

	grades := protected.Group("/grados")
	{
		grades.GET("", middleware.AnyUser(), gradeHandler.List)
		grades.GET("/:id", middleware.AnyUser(), gradeHandler.Get)
		grades.POST("", middleware.AdminOnly(), gradeHandler.Create)
		grades.PUT("/:id", middleware.AdminOnly(), gradeHandler.Update)
		grades.DELETE("/:id", middleware.AdminOnly(), gradeHandler.Delete)
	}

	courses := protected.Group("/cursos")
	{
		courses.GET("", middleware.AnyUser(), courseHandler.List)
		courses.GET("/:id", middleware.AnyUser(), courseHandler.Get)
		courses.POST("", middleware.AdminOnly(), courseHandler.Create)
		courses.PUT("/:id", middleware.AdminOnly(), courseHandler.Update)
		courses.DELETE("/:id", middleware.AdminOnly(), courseHandler.Delete)
	}

	areas := protected.Group("/areas")
	{
		areas.GET("", middleware.AnyUser(), areaHandler.List)
		areas.GET("/:id", middleware.AnyUser(), areaHandler.Get)
		areas.POST("", middleware.AdminOnly(), areaHandler.Create)
		areas.PUT("/:id", middleware.AdminOnly(), areaHandler.Update)
		areas.DELETE("/:id", middleware.AdminOnly(), areaHandler.Delete)
	}

	turns := protected.Group("/turnos")
	{
		turns.GET("", middleware.AnyUser(), turnHandler.List)
		turns.GET("/:id", middleware.AnyUser(), turnHandler.Get)
		turns.POST("", middleware.AdminOnly(), turnHandler.Create)
		turns.PUT("/:id", middleware.AdminOnly(), turnHandler.Update)
		turns.DELETE("/:id", middleware.AdminOnly(), turnHandler.Delete)
	}

	posts := protected.Group("/posts")
	{
		posts.GET("", middleware.AnyUser(), postHandler.List)
		posts.GET("/:id", middleware.AnyUser(), postHandler.Get)
		posts.POST("", middleware.StaffUp(), postHandler.Create)
		posts.PUT("/:id", middleware.StaffUp(), postHandler.Update)
		posts.DELETE("/:id", middleware.StaffUp(), postHandler.Delete)
		posts.POST("/:id/reaccion", middleware.AnyUser(), postHandler.React)
		posts.DELETE("/:id/reaccion", middleware.AnyUser(), postHandler.RemoveReaction)
		posts.GET("/:id/reacciones", middleware.AnyUser(), postHandler.Reactions)
		posts.POST("/:id/comentarios", middleware.AnyUser(), postHandler.Comment)
		posts.GET("/:id/comentarios", middleware.AnyUser(), postHandler.Comments)
		posts.DELETE("/:id/comentarios/:commentId", middleware.AnyUser(), postHandler.RemoveComment)
	}

	notifications := protected.Group("/notificaciones")
	{
		notifications.GET("", middleware.AnyUser(), notificationHandler.List)
		notifications.POST("", middleware.AdminOnly(), notificationHandler.Create)
		notifications.PUT("/leidas", middleware.AnyUser(), notificationHandler.MarkAllRead)
		notifications.PUT("/:id/leida", middleware.AnyUser(), notificationHandler.MarkRead)
		notifications.DELETE("/:id", middleware.AnyUser(), notificationHandler.Dismiss)
	}

	subscriptions := protected.Group("/suscripciones")
	{
		subscriptions.POST("", middleware.AnyUser(), notificationHandler.Subscribe)
		subscriptions.DELETE("", middleware.AnyUser(), notificationHandler.Unsubscribe)
	}

	files := protected.Group("/archivos")
	{
		files.GET("", middleware.StaffUp(), fileHandler.List)
		files.POST("", middleware.StaffUp(), fileHandler.Upload)
		files.GET("/:id", middleware.AnyUser(), fileHandler.Download)
		files.DELETE("/:id", middleware.StaffUp(), fileHandler.Delete)
	}

	// Branding is readable without a session so the login page can theme
	// itself; writes stay behind the admin wall.
	configuration := api.Group("/configuracion")
	{
		configuration.GET("/:colegioId", middleware.OptionalJWT(svcs.Auth), configurationHandler.Get)
		configuration.PUT("/:colegioId", middleware.JWT(svcs.Auth), middleware.AdminOnly(), configurationHandler.Update)
	}

	return r
}
