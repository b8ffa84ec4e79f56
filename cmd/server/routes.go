package main

import (
	"github.com/gin-gonic/gin"
	"github.com/luowen/postpilot/internal/handlers"
	"github.com/luowen/postpilot/internal/middleware"
	"github.com/luowen/postpilot/internal/models"
)

// registerRoutes sets up all HTTP routes on the given Gin engine.
func registerRoutes(r *gin.Engine, svc *appServices) {
	r.RedirectTrailingSlash = false
	r.RedirectFixedPath = false
	r.Use(middleware.CORS())

	// Rate limiter for the external trigger route
	triggerLimiter := middleware.NewRateLimiter(1, 5)

	// Health check
	healthHandler := handlers.NewHealthHandler()
	r.GET("/health", healthHandler.CheckHealth)

	authHandler := handlers.NewAuthHandler(svc.authService)

	// API routes
	api := r.Group("/api")
	{
		// Auth routes (public)
		auth := api.Group("/auth")
		{
			auth.POST("/login", authHandler.Login)
		}

		// Scheduler trigger (token-guarded, for external cron services)
		schedulerHandler := handlers.NewSchedulerHandler(svc.schedulerService, &svc.cfg.Scheduler)
		api.GET("/scheduler/run", triggerLimiter.Middleware(), schedulerHandler.Trigger)

		// Protected routes
		protected := api.Group("")
		protected.Use(middleware.AuthRequired())
		{
			// Auth
			protected.GET("/auth/me", authHandler.Me)
			protected.POST("/auth/logout", authHandler.Logout)
			protected.POST("/auth/change-password", authHandler.ChangePassword)

			// Dashboard
			dashboardHandler := handlers.NewDashboardHandler(models.GetDB())
			protected.GET("/dashboard/stats", dashboardHandler.GetStats)

			// Accounts (read for all users)
			accountHandler := handlers.NewAccountHandler(models.GetDB())
			protected.GET("/accounts", accountHandler.List)
			protected.GET("/accounts/:id", accountHandler.GetByID)
			protected.GET("/accounts/:id/queues", accountHandler.GetQueues)

			// Catalog items (read for all users)
			catalogHandler := handlers.NewCatalogHandler(models.GetDB())
			protected.GET("/catalog-items", catalogHandler.List)
			protected.GET("/catalog-items/:id", catalogHandler.GetByID)

			// Run Logs
			runLogHandler := handlers.NewRunLogHandler(models.GetDB())
			protected.GET("/run-logs", runLogHandler.List)
		}

		// Admin only routes
		admin := api.Group("")
		admin.Use(middleware.AuthRequired(), middleware.AdminRequired())
		{
			// Accounts (write operations)
			accountHandler := handlers.NewAccountHandler(models.GetDB())
			admin.POST("/accounts", accountHandler.Create)
			admin.PUT("/accounts/:id", accountHandler.Update)
			admin.DELETE("/accounts/:id", accountHandler.Delete)

			// Catalog items (write operations)
			catalogHandler := handlers.NewCatalogHandler(models.GetDB())
			admin.POST("/catalog-items", catalogHandler.Create)
			admin.PUT("/catalog-items/:id", catalogHandler.Update)
			admin.DELETE("/catalog-items/:id", catalogHandler.Delete)

			// LLM Configs
			llmConfigHandler := handlers.NewLLMConfigHandler(models.GetDB())
			admin.GET("/llm-configs", llmConfigHandler.List)
			admin.GET("/llm-configs/:id", llmConfigHandler.GetByID)
			admin.POST("/llm-configs", llmConfigHandler.Create)
			admin.PUT("/llm-configs/:id", llmConfigHandler.Update)
			admin.DELETE("/llm-configs/:id", llmConfigHandler.Delete)
		}
	}
}
