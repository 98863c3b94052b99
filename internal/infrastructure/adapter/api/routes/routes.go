package routes

import (
	"github.com/gin-gonic/gin"
	coreport "github.com/summitaiAU/invoice-lockd/internal/domain/port/core"
	"github.com/summitaiAU/invoice-lockd/internal/infrastructure/adapter/api/handler"
	"github.com/summitaiAU/invoice-lockd/internal/infrastructure/adapter/api/middleware"
)

// SetupRoutes configures all the routes for the API
func SetupRoutes(
	router *gin.Engine,
	lockHandler *handler.LockHandler,
	presenceHandler *handler.PresenceHandler,
	healthHandler *handler.HealthHandler,
) {
	// Liveness probe, no identity required
	router.GET("/health", healthHandler.Check)

	authenticated := router.Group("/")
	authenticated.Use(middleware.Identity())
	{
		// Invoice lock routes
		invoiceRoutes := authenticated.Group("/invoices")
		{
			// GET /invoices/:invoiceId/lock
			invoiceRoutes.GET("/:invoiceId/lock", lockHandler.GetLock)

			// POST /invoices/:invoiceId/lock
			invoiceRoutes.POST("/:invoiceId/lock", lockHandler.AcquireLock)

			// DELETE /invoices/:invoiceId/lock
			invoiceRoutes.DELETE("/:invoiceId/lock", lockHandler.ReleaseLock)

			// POST /invoices/:invoiceId/lock/takeover
			invoiceRoutes.POST("/:invoiceId/lock/takeover", lockHandler.ForceTakeover)

			// POST /invoices/:invoiceId/lock/verify
			invoiceRoutes.POST("/:invoiceId/lock/verify", lockHandler.VerifyOwnership)

			// GET /invoices/:invoiceId/presence
			invoiceRoutes.GET("/:invoiceId/presence", presenceHandler.GetRoster)
		}

		// Presence routes
		authenticated.PUT("/presence", presenceHandler.UpdatePresence)
		authenticated.DELETE("/presence", presenceHandler.LeavePresence)

		// POST /presence/suspend (tab hidden or unloading)
		authenticated.POST("/presence/suspend", presenceHandler.SuspendPresence)

		// POST /presence/resume (tab visible again)
		authenticated.POST("/presence/resume", presenceHandler.ResumePresence)
	}
}

// SetupMiddlewares configures global middlewares for the API
func SetupMiddlewares(router *gin.Engine, logger coreport.Logger) {
	// Apply middlewares in the correct order
	router.Use(middleware.ErrorHandler(logger))
	router.Use(middleware.Logger(logger))
	router.Use(middleware.CORS())
}
