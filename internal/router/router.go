package router

import (
	"net/http"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/zap"

	"github.com/braioemmanuel-hub/regi-learn-suite/internal/handler"
	"github.com/braioemmanuel-hub/regi-learn-suite/internal/middleware"
	"github.com/braioemmanuel-hub/regi-learn-suite/internal/models"
	"github.com/braioemmanuel-hub/regi-learn-suite/internal/service"
	"github.com/braioemmanuel-hub/regi-learn-suite/pkg/config"
	"github.com/braioemmanuel-hub/regi-learn-suite/pkg/logger"
	corsmiddleware "github.com/braioemmanuel-hub/regi-learn-suite/pkg/middleware/cors"
	reqidmiddleware "github.com/braioemmanuel-hub/regi-learn-suite/pkg/middleware/requestid"
)

// Handlers bundles every HTTP handler the router mounts.
type Handlers struct {
	Auth         *handler.AuthHandler
	Navigation   *handler.NavigationHandler
	Registration *handler.RegistrationHandler
	Student      *handler.StudentHandler
	Payment      *handler.PaymentHandler
	Course       *handler.CourseHandler
	Enrollment   *handler.EnrollmentHandler
	Result       *handler.ResultHandler
	Academic     *handler.AcademicHandler
	Timetable    *handler.TimetableHandler
	Hostel       *handler.HostelHandler
	Document     *handler.DocumentHandler
	Notification *handler.NotificationHandler
	Admin        *handler.AdminHandler
	Dashboard    *handler.DashboardHandler
	Metrics      *handler.MetricsHandler
}

// Dependencies carries everything needed to assemble the engine.
type Dependencies struct {
	Config        *config.Config
	Logger        *zap.Logger
	Handlers      Handlers
	Auth          *service.AuthService
	Identities    *service.IdentityService
	Registrations *service.RegistrationService
	Metrics       *service.MetricsService
}

// New assembles the gin engine with all routes and middleware chains.
func New(deps Dependencies) *gin.Engine {
	cfg := deps.Config
	h := deps.Handlers

	if cfg.Env == config.EnvProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(reqidmiddleware.Middleware())
	r.Use(logger.GinMiddleware(deps.Logger))
	r.Use(corsmiddleware.New(cfg.CORS.AllowedOrigins))
	r.Use(middleware.Metrics(deps.Metrics))

	r.GET("/health", h.Metrics.Health)
	r.GET("/ready", h.Metrics.Health)
	r.GET("/metrics", h.Metrics.Prometheus)

	if cfg.Env != config.EnvProduction {
		r.GET("/docs/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	r.Static(cfg.Uploads.PublicBaseURL, cfg.Uploads.StorageDir)

	api := r.Group(cfg.APIPrefix)

	// Public: prospective students have no account yet.
	api.POST("/registrations", h.Registration.Submit)
	api.POST("/auth/login", h.Auth.Login)
	api.POST("/auth/refresh", h.Auth.Refresh)

	// Export downloads carry their own signed token.
	api.GET("/admin/registrations/export/:token", h.Registration.Download)

	authed := api.Group("")
	authed.Use(middleware.JWT(deps.Auth))
	{
		authed.POST("/auth/logout", h.Auth.Logout)
		authed.POST("/auth/change-password", h.Auth.ChangePassword)
		authed.GET("/auth/me", h.Auth.Me)
		authed.GET("/menu", h.Navigation.Menu)

		authed.GET("/notifications", h.Notification.Feed)
		authed.POST("/notifications/:id/read", h.Notification.MarkRead)
		authed.POST("/notifications/read-all", h.Notification.MarkAllRead)
		authed.GET("/notifications/stream", h.Notification.Stream)

		authed.GET("/registrations/status", h.Registration.Status)
		authed.GET("/courses", h.Course.List)
		authed.GET("/courses/:id", h.Course.Get)
		authed.GET("/timetable", h.Timetable.List)
	}

	// Students reach self-service routes only once their registration
	// has been approved.
	student := authed.Group("/students")
	student.Use(middleware.RequireRoles(models.RoleStudent))
	student.Use(middleware.RequireApproved(deps.Registrations))
	{
		student.GET("/dashboard", h.Dashboard.Student)
		student.GET("/profile", h.Student.Profile)
		student.PUT("/biodata", h.Student.UpdateBioData)
		student.GET("/courses", h.Enrollment.List)
		student.PUT("/courses", h.Enrollment.Enroll)
		student.GET("/results", h.Result.Sheet)
		student.GET("/payments", h.Payment.ListOwn)
		student.POST("/payments", h.Payment.CreateOwn)
		student.POST("/payments/:id/proof", h.Payment.AttachProof)
		student.GET("/academics", h.Academic.GetOwn)
		student.POST("/academics/programme", h.Academic.ChangeProgramme)
		student.GET("/hostel", h.Hostel.GetOwn)
		student.GET("/documents", h.Document.ListOwn)
	}

	admin := authed.Group("/admin")
	admin.Use(middleware.RequireRoles(models.RoleAdmin, models.RoleSuperAdmin))
	{
		admin.GET("/dashboard", requireMenu(deps, models.MenuDashboard), h.Dashboard.Admin)

		registrations := admin.Group("", requireMenu(deps, models.MenuRegistrations))
		{
			registrations.GET("/registrations/pending", h.Registration.ListPending)
			registrations.POST("/registrations/:id/approve", h.Registration.Approve)
			registrations.DELETE("/registrations/:id", h.Registration.Reject)
			registrations.POST("/registrations/export", h.Registration.Export)
		}

		students := admin.Group("", requireMenu(deps, models.MenuStudents))
		{
			students.GET("/students", h.Student.List)
			students.GET("/students/:id", h.Student.Get)
			students.DELETE("/students/:id", h.Student.Delete)
			students.GET("/students/:id/academics", h.Academic.Get)
			students.GET("/students/:id/documents", h.Document.ListForStudent)
			students.PUT("/academics", h.Academic.Upsert)
			students.PUT("/hostel", h.Hostel.Allocate)
			students.DELETE("/hostel/:id", h.Hostel.Vacate)
		}

		results := admin.Group("", requireMenu(deps, models.MenuResults))
		{
			results.POST("/results", h.Result.Enter)
			results.GET("/students/:id/results", h.Result.SheetForStudent)
		}

		payments := admin.Group("", requireMenu(deps, models.MenuPayments))
		{
			payments.GET("/payments", h.Payment.List)
			payments.POST("/payments", h.Payment.Create)
			payments.POST("/payments/:id/confirm", h.Payment.Confirm)
		}

		courses := admin.Group("", requireMenu(deps, models.MenuCourses))
		{
			courses.POST("/courses", h.Course.Create)
			courses.PUT("/courses/:id", h.Course.Update)
			courses.DELETE("/courses/:id", h.Course.Delete)
		}

		documents := admin.Group("", requireMenu(deps, models.MenuDocuments))
		{
			documents.POST("/documents", h.Document.Issue)
			documents.DELETE("/documents/:id", h.Document.Delete)
		}

		timetable := admin.Group("", requireMenu(deps, models.MenuTimetable))
		{
			timetable.POST("/timetable", h.Timetable.Create)
			timetable.PUT("/timetable/:id", h.Timetable.Update)
			timetable.DELETE("/timetable/:id", h.Timetable.Delete)
		}

		manage := admin.Group("/admins", middleware.RequireRoles(models.RoleSuperAdmin))
		{
			manage.GET("", h.Admin.List)
			manage.POST("", h.Admin.Create)
			manage.PUT("/:id/permissions", h.Admin.UpdatePermissions)
			manage.DELETE("/:id", h.Admin.Delete)
		}
	}

	r.NoRoute(func(c *gin.Context) {
		c.JSON(http.StatusNotFound, gin.H{"error": "route not found"})
	})

	return r
}

func requireMenu(deps Dependencies, item models.MenuItem) gin.HandlerFunc {
	return middleware.RequireMenu(deps.Identities, item)
}
