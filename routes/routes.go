package routes

import (
	"gaming-cafe-api/handlers"
	"gaming-cafe-api/middleware"
	"gaming-cafe-api/models"

	"github.com/gin-gonic/gin"
)

func SetupRoutes(r *gin.Engine) {
	// ── Public routes ──────────────────────────────────────────────
	public := r.Group("/api")
	{
		// Auth
		public.POST("/auth/register", handlers.Register)
		public.POST("/auth/login", handlers.Login)

		// State machine info (great for docs/Postman)
		public.GET("/state-machine", handlers.GetStateMachineInfo)
	}

	// ── Authenticated routes ───────────────────────────────────────
	auth := r.Group("/api")
	auth.Use(middleware.AuthRequired())
	{
		auth.GET("/profile", handlers.GetProfile)
	}

	// ── Floor routes (staff and admin) ─────────────────────────────
	floor := r.Group("/api")
	floor.Use(middleware.AuthRequired(), middleware.RoleRequired(models.RoleStaff, models.RoleAdmin))
	{
		// Tables
		floor.GET("/tables", handlers.ListTables)
		floor.GET("/tables/:id", handlers.GetTable)
		floor.PUT("/tables/:id/reserve", handlers.ReserveTable)
		floor.PUT("/tables/:id/unreserve", handlers.UnreserveTable)

		// Sessions
		floor.POST("/tables/:id/sessions", handlers.StartSession)
		floor.GET("/tables/:id/session", handlers.GetActiveSession)
		floor.POST("/tables/:id/close", handlers.CloseBill)

		// Orders
		floor.POST("/tables/:id/orders", handlers.PlaceOrder)
		floor.GET("/tables/:id/orders", handlers.GetSessionOrders)

		// Catalog
		floor.GET("/products", handlers.ListProducts)
	}

	// ── Admin routes ───────────────────────────────────────────────
	admin := r.Group("/api/admin")
	admin.Use(middleware.AuthRequired(), middleware.RoleRequired(models.RoleAdmin))
	{
		// Table maintenance
		admin.PUT("/tables/:id/out-of-order", handlers.MarkOutOfOrder)
		admin.PUT("/tables/:id/repair", handlers.RepairTable)

		// Catalog management
		admin.POST("/products", handlers.CreateProduct)
		admin.PUT("/products/:id", handlers.UpdateProduct)
		admin.DELETE("/products/:id", handlers.DeleteProduct)
		admin.PUT("/products/:id/restock", handlers.RestockProduct)

		// History & reporting
		admin.GET("/sessions", handlers.ListSessions)
		admin.GET("/reports/daily", handlers.GetDailyReport)
		admin.GET("/reports/daily/export", handlers.ExportDailyReport)
	}
}
