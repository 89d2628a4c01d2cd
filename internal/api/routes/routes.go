// Package routes handles the setup and configuration of API routes
package routes

import (
	"database/sql"

	"tally/internal/accounting"
	"tally/internal/api/handlers"
	"tally/internal/api/middleware"
	"tally/internal/audit"
	"tally/internal/auth"
	"tally/internal/config"
	"tally/internal/exchange"
	"tally/internal/repository/postgres"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

// SetupRoutes configures all API routes and their handlers
func SetupRoutes(cfg *config.Config, db *sql.DB, log *logrus.Logger) *gin.Engine {
	r := gin.Default()

	r.Use(middleware.NewRateLimiter(cfg.RateLimit).Middleware())

	// Repositories
	entryRepo := postgres.NewEntryRepository(db)
	userRepo := postgres.NewUserRepository(db)

	// Services
	authService := auth.NewService(cfg)
	gateway := exchange.NewClient(cfg.Exchange)
	accountingService := accounting.NewService(entryRepo, gateway)
	auditLog := audit.NewLogger(log)

	// Middleware
	authMiddleware := middleware.NewAuthMiddleware(authService, userRepo)

	// Handlers
	healthHandler := handlers.NewHealthHandler(db)
	authHandler := handlers.NewAuthHandler(userRepo, authService, cfg, auditLog, log)
	entryHandler := handlers.NewEntryHandler(accountingService, auditLog, log)
	chartHandler := handlers.NewChartHandler(accountingService, log)

	v1 := r.Group("/api/v1")
	{
		// Health check (no authentication required)
		v1.GET("/health", healthHandler.Health)

		// Auth routes
		authGroup := v1.Group("/auth")
		{
			authGroup.POST("/register", authHandler.Register)
			authGroup.POST("/login", authHandler.Login)
			authGroup.GET("/me", authMiddleware.AuthRequired(), authHandler.Me)
		}

		// Entry routes
		entries := v1.Group("/entries")
		{
			// Read routes (require authentication)
			entries.Use(authMiddleware.AuthRequired())
			entries.GET("", entryHandler.ListEntries)
			entries.GET("/:id", entryHandler.GetEntry)

			// Admin-only routes
			adminEntries := entries.Group("")
			adminEntries.Use(authMiddleware.AdminRequired())
			{
				adminEntries.POST("", entryHandler.CreateEntry)
				adminEntries.PUT("/:id", entryHandler.UpdateEntry)
				adminEntries.DELETE("/:id", entryHandler.DeleteEntry)
			}
		}

		// Chart data (requires authentication)
		v1.GET("/chart", authMiddleware.AuthRequired(), chartHandler.ChartData)
	}

	return r
}
