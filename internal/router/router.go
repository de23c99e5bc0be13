package router

import (
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"darmenu/internal/auth"
	"darmenu/internal/core"
	"darmenu/internal/dashboard"
	"darmenu/internal/httpx"
	"darmenu/internal/inventory"
	"darmenu/internal/loyalty"
	"darmenu/internal/menu"
	"darmenu/internal/middleware"
	"darmenu/internal/order"
	"darmenu/internal/realtime"
	"darmenu/internal/reservation"
	"darmenu/internal/settings"
	"darmenu/internal/tables"
)

// Deps are the services the HTTP API is built from.
type Deps struct {
	Tokens      middleware.TokenValidator
	CORSOrigins []string
	Version     string

	Auth         *auth.Service
	Menu         *menu.Service
	Inventory    *inventory.Service
	Tables       *tables.Service
	Loyalty      *loyalty.Service
	Orders       *order.Service
	Reservations *reservation.Service
	Settings     *settings.Service
	Dashboard    *dashboard.Service
	Broker       realtime.Broker
}

func New(d Deps) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery(), middleware.RequestID(), middleware.RequestLogger())

	r.Use(cors.New(cors.Config{
		AllowOrigins:     d.CORSOrigins,
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization", httpx.ClientIDHeader, "Accept-Language"},
		ExposeHeaders:    []string{"X-Request-ID"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok", "version": d.Version})
	})

	authHandler := auth.NewHandler(d.Auth)
	menuHandler := menu.NewHandler(d.Menu)
	adminMenuHandler := menu.NewAdminHandler(d.Menu)
	inventoryHandler := inventory.NewHandler(d.Inventory)
	tablesHandler := tables.NewHandler(d.Tables)
	loyaltyHandler := loyalty.NewHandler(d.Loyalty)
	orderHandler := order.NewHandler(d.Orders)
	reservationHandler := reservation.NewHandler(d.Reservations)
	settingsHandler := settings.NewHandler(d.Settings)
	dashboardHandler := dashboard.NewHandler(d.Dashboard)
	realtimeHandler := realtime.NewHandler(d.Broker, d.CORSOrigins)

	optional := middleware.OptionalAuth(d.Tokens)
	required := middleware.AuthMiddleware(d.Tokens)

	// ───────────────────────── PUBLIC ─────────────────────────
	authGroup := r.Group("/auth")
	{
		authGroup.POST("/register", authHandler.Register)
		authGroup.POST("/login", authHandler.Login)
		authGroup.POST("/admin/login", authHandler.AdminLogin)
	}

	r.GET("/menu", menuHandler.List)
	r.GET("/menu/categories", menuHandler.Categories)
	r.GET("/tables/resolve/:label", tablesHandler.Resolve)
	r.GET("/opening-hours", settingsHandler.OpeningHours)

	orders := r.Group("/orders", optional)
	{
		orders.POST("/quote", orderHandler.Quote)
		orders.POST("", orderHandler.Checkout)
	}

	r.GET("/realtime", optional, middleware.VerifyAdminClaim(d.Auth), realtimeHandler.Stream)

	// ───────────────────────── CUSTOMER ─────────────────────────
	me := r.Group("/me")
	{
		me.GET("", required, authHandler.Me)
		me.GET("/loyalty", required, loyaltyHandler.Balance)
		me.GET("/loyalty/history", required, loyaltyHandler.History)

		me.GET("/reservations", optional, reservationHandler.ListMine)
		me.POST("/reservations/:id/cancel", optional, reservationHandler.CancelMine)
	}

	// ───────────────────────── ADMIN ─────────────────────────
	admin := r.Group("/admin")
	admin.Use(required, middleware.RequireRole(core.RoleAdmin), middleware.RequireAdmin(d.Auth))
	{
		admin.GET("/dashboard", dashboardHandler.Overview)

		admin.GET("/dishes", adminMenuHandler.List)
		admin.POST("/dishes", adminMenuHandler.Create)
		admin.GET("/dishes/:id", adminMenuHandler.Get)
		admin.PUT("/dishes/:id", adminMenuHandler.Update)
		admin.DELETE("/dishes/:id", adminMenuHandler.Delete)
		admin.PATCH("/dishes/:id/availability", adminMenuHandler.SetAvailability)
		admin.PATCH("/dishes/:id/hidden", adminMenuHandler.SetHidden)
		admin.POST("/dishes/:id/image", adminMenuHandler.UploadImage)

		admin.GET("/inventory", inventoryHandler.Overview)
		admin.POST("/inventory/adjust", inventoryHandler.Adjust)
		admin.PUT("/inventory/:id/stock", inventoryHandler.SetStock)

		admin.GET("/tables", tablesHandler.List)
		admin.POST("/tables", tablesHandler.Create)
		admin.GET("/tables/links", tablesHandler.Links)
		admin.PUT("/tables/:id", tablesHandler.Update)
		admin.PATCH("/tables/:id/status", tablesHandler.SetStatus)
		admin.DELETE("/tables/:id", tablesHandler.Delete)

		admin.GET("/reservations", reservationHandler.List)
		admin.PATCH("/reservations/:id/status", reservationHandler.SetStatus)
		admin.DELETE("/reservations/:id", reservationHandler.Delete)
		admin.DELETE("/reservations", reservationHandler.ClearAll)

		admin.GET("/users", authHandler.ListUsers)
		admin.PATCH("/users/:id/type", authHandler.UpdateUserType)
		admin.POST("/users/:id/loyalty", loyaltyHandler.AdminAdjust)

		admin.GET("/opening-hours", settingsHandler.AdminOpeningHours)
		admin.PUT("/opening-hours", settingsHandler.SaveOpeningHours)
	}

	return r
}
