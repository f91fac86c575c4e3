package routes

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sangkips/gstbill-api/internal/config"
	domainRepo "github.com/sangkips/gstbill-api/internal/domain/repository"
	"github.com/sangkips/gstbill-api/internal/presentation/http/handler"
	"github.com/sangkips/gstbill-api/internal/presentation/http/middleware"
	"github.com/sangkips/gstbill-api/pkg/utils"
)

// Handlers holds all the HTTP handlers used for route registration.
type Handlers struct {
	Auth      *handler.AuthHandler
	Product   *handler.ProductHandler
	Customer  *handler.CustomerHandler
	Settings  *handler.SettingsHandler
	Cart      *handler.CartHandler
	Invoice   *handler.InvoiceHandler
	Analytics *handler.AnalyticsHandler
	Events    *handler.EventsHandler
	Printer   *handler.PrinterHandler
}

// Deps holds shared dependencies needed by the routes.
type Deps struct {
	JWTManager      *utils.JWTManager
	Cfg             *config.Config
	IdempotencyRepo domainRepo.IdempotencyRepository
	RateLimiter     *middleware.ClientRateLimiter
}

// Setup creates the Gin router and registers all routes.
func Setup(h *Handlers, deps *Deps) *gin.Engine {
	router := gin.New()

	// Global middleware
	router.Use(gin.Recovery())
	router.Use(middleware.LoggerMiddleware())
	router.Use(middleware.CORSMiddleware(&deps.Cfg.CORS))

	// Health check endpoint
	router.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"status":  "ok",
			"service": deps.Cfg.App.Name,
		})
	})

	limiter := deps.RateLimiter
	if limiter == nil {
		limiter = NewRateLimiter(deps.Cfg.RateLimit)
	}

	// API v1 routes
	v1 := router.Group("/api/v1")
	{
		// Public routes (no authentication required)
		auth := v1.Group("/auth")
		auth.Use(limiter.Middleware())
		auth.POST("/login", h.Auth.Login)

		// Protected routes (authentication required)
		protected := v1.Group("")
		protected.Use(middleware.AuthMiddleware(deps.JWTManager))
		protected.Use(limiter.Middleware())

		registerProtectedRoutes(protected, h, deps)
	}

	return router
}

// NewRateLimiter builds the per-client limiter from Requests per Duration
// seconds. The caller owns Stop.
func NewRateLimiter(cfg config.RateLimitConfig) *middleware.ClientRateLimiter {
	perSecond := float64(cfg.Requests)
	if cfg.Duration > 0 {
		perSecond /= float64(cfg.Duration)
	}
	return middleware.NewClientRateLimiter(middleware.RateLimiterConfig{
		RequestsPerSecond: perSecond,
		BurstSize:         cfg.Requests,
		CleanupInterval:   5 * time.Minute,
		EntryTTL:          10 * time.Minute,
	})
}

func registerProtectedRoutes(protected *gin.RouterGroup, h *Handlers, deps *Deps) {
	protected.GET("/auth/me", h.Auth.Me)

	// Settings
	settings := protected.Group("/settings")
	{
		settings.GET("", h.Settings.GetSettings)
		settings.PUT("", h.Settings.UpdateSettings)
		settings.GET("/sequence", h.Settings.GetSequence)
		settings.POST("/reconcile", h.Settings.Reconcile)
	}

	registerCatalogRoutes(protected, h, deps)
	registerCartRoutes(protected, h, deps)
	registerInvoiceRoutes(protected, h)

	// Analytics
	analytics := protected.Group("/analytics")
	{
		analytics.GET("/summary", h.Analytics.Summary)
		analytics.GET("/insights-request", h.Analytics.InsightsRequest)
		analytics.POST("/insights", h.Analytics.Insights)
	}

	// Live updates
	protected.GET("/events/:topic", h.Events.Stream)

	// Printer
	printer := protected.Group("/printer")
	{
		printer.GET("/status", h.Printer.GetStatus)
		printer.POST("/test", h.Printer.TestPrint)
	}
}

func registerCatalogRoutes(protected *gin.RouterGroup, h *Handlers, deps *Deps) {
	idempotent := middleware.Idempotency(middleware.IdempotencyConfig{Repo: deps.IdempotencyRepo})

	products := protected.Group("/products")
	products.Use(idempotent)
	{
		products.GET("", h.Product.List)
		products.POST("", h.Product.Create)
		products.GET("/:id", h.Product.Get)
		products.PUT("/:id", h.Product.Update)
		products.DELETE("/:id", h.Product.Delete)
	}

	customers := protected.Group("/customers")
	customers.Use(idempotent)
	{
		customers.GET("", h.Customer.List)
		customers.POST("", h.Customer.Create)
		customers.GET("/:id", h.Customer.Get)
		customers.PUT("/:id", h.Customer.Update)
		customers.DELETE("/:id", h.Customer.Delete)
	}
}

func registerCartRoutes(protected *gin.RouterGroup, h *Handlers, deps *Deps) {
	cart := protected.Group("/cart")
	{
		cart.GET("", h.Cart.Get)
		cart.GET("/preview", h.Cart.Preview)
		cart.PUT("/header", h.Cart.SetHeader)
		cart.POST("/items", h.Cart.AddItem)
		cart.PATCH("/items/:lineId", h.Cart.AdjustQuantity)
		cart.DELETE("/items/:lineId", h.Cart.RemoveItem)
		cart.POST("/reset", h.Cart.Reset)
		cart.POST("/save",
			middleware.IdempotencyRequired(middleware.IdempotencyConfig{Repo: deps.IdempotencyRepo}),
			h.Cart.Save,
		)
	}
}

func registerInvoiceRoutes(protected *gin.RouterGroup, h *Handlers) {
	invoices := protected.Group("/invoices")
	{
		invoices.GET("", h.Invoice.List)
		invoices.GET("/export.csv", h.Invoice.ExportCSV)
		invoices.GET("/export.xlsx", h.Invoice.ExportXLSX)
		invoices.GET("/:id", h.Invoice.Get)
		invoices.GET("/:id/layout", h.Invoice.Layout)
		invoices.GET("/:id/pdf", h.Invoice.PDF)
		invoices.POST("/:id/print", h.Invoice.Print)
	}
}
