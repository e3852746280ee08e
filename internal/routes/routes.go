package routes

import (
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"healthpulse-server/internal/ai"
	"healthpulse-server/internal/config"
	"healthpulse-server/internal/handlers"
	"healthpulse-server/internal/middleware"
	"healthpulse-server/internal/models"
	"healthpulse-server/internal/notify"
	"healthpulse-server/internal/scheduler"
	"healthpulse-server/internal/specialization"
	"healthpulse-server/internal/storage"
)

// Deps groups the shared components the handlers are built from.
type Deps struct {
	DB        *gorm.DB
	Cfg       *config.Config
	Directory *storage.GormDoctorDirectory
	Resolver  *specialization.Resolver
	Hub       *notify.Hub
	Notifier  notify.Publisher
	Engine    *scheduler.Engine
	AI        *ai.Client
}

// SetupRoutes configures the application routes.
func SetupRoutes(router *gin.Engine, deps Deps) {
	// Initialize handlers
	authHandler := handlers.NewAuthHandler(deps.DB, deps.Cfg)
	vitalsHandler := handlers.NewVitalsHandler(deps.DB, deps.Notifier)
	appointmentHandler := handlers.NewAppointmentHandler(deps.DB, deps.Directory, deps.Resolver, deps.Notifier, deps.Engine)
	doctorHandler := handlers.NewDoctorHandler(deps.Directory)
	symptomHandler := handlers.NewSymptomHandler(deps.AI, deps.Resolver)
	streamHandler := handlers.NewStreamHandler(deps.Hub)

	// Public routes (no authentication required)
	public := router.Group("/api/v1")
	{
		authRoutes := public.Group("/auth")
		{
			authRoutes.POST("/register", authHandler.Register)
			authRoutes.POST("/login", authHandler.Login)
			authRoutes.POST("/refresh-token", authHandler.RefreshToken)
		}
	}

	// Authenticated routes
	private := router.Group("/api/v1")
	private.Use(middleware.AuthMiddleware(deps.Cfg))
	{
		authRoutesPrivate := private.Group("/auth")
		{
			authRoutesPrivate.POST("/logout", authHandler.Logout)
			authRoutesPrivate.GET("/profile", authHandler.GetProfile)
		}

		vitalsRoutes := private.Group("/vitals")
		{
			vitalsRoutes.POST("", vitalsHandler.SubmitVitals)
			vitalsRoutes.GET("", vitalsHandler.GetVitals)
		}

		appointmentRoutes := private.Group("/appointments")
		{
			appointmentRoutes.POST("", appointmentHandler.BookAppointment)
			appointmentRoutes.GET("", appointmentHandler.GetAppointments)
			appointmentRoutes.GET("/:id", appointmentHandler.GetAppointmentByID)
			appointmentRoutes.PATCH("/:id/cancel", appointmentHandler.CancelAppointment)
			appointmentRoutes.GET("/:id/calendar", appointmentHandler.GetAppointmentCalendar)
		}

		private.GET("/doctors", doctorHandler.GetDoctors)
		private.POST("/analyze-symptoms", symptomHandler.AnalyzeSymptoms)
		private.GET("/events", streamHandler.Events)

		// Admin-only on-demand assignment trigger
		adminRoutes := private.Group("/admin")
		adminRoutes.Use(middleware.RoleAuthMiddleware(models.RoleAdmin))
		{
			adminRoutes.POST("/assign-pending", appointmentHandler.RunAssignmentPass)
		}
	}

	// Simple health check endpoint
	router.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "UP"})
	})
}
