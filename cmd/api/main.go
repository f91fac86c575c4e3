package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/sangkips/gstbill-api/internal/application/service"
	"github.com/sangkips/gstbill-api/internal/config"
	"github.com/sangkips/gstbill-api/internal/domain/render"
	domainRepo "github.com/sangkips/gstbill-api/internal/domain/repository"
	"github.com/sangkips/gstbill-api/internal/infrastructure/assets"
	"github.com/sangkips/gstbill-api/internal/infrastructure/cache"
	"github.com/sangkips/gstbill-api/internal/infrastructure/database"
	"github.com/sangkips/gstbill-api/internal/infrastructure/events"
	"github.com/sangkips/gstbill-api/internal/infrastructure/insights"
	"github.com/sangkips/gstbill-api/internal/infrastructure/repository"
	"github.com/sangkips/gstbill-api/internal/presentation/http/handler"
	"github.com/sangkips/gstbill-api/internal/presentation/http/routes"
	"github.com/sangkips/gstbill-api/pkg/printer"
	"github.com/sangkips/gstbill-api/pkg/utils"
	"github.com/shopspring/decimal"
)

func main() {
	// Load configuration
	cfg := config.Load()

	// Set Gin mode based on environment
	if cfg.App.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	// Money goes over the wire as JSON numbers
	decimal.MarshalJSONWithoutQuotes = true

	// Connect to database
	db, err := database.NewPostgresDB(&cfg.Database, cfg.App.Debug)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	// Run auto-migrations
	if err := database.AutoMigrate(db); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}

	// Seed default data
	if err := database.SeedDefaultData(db); err != nil {
		log.Printf("Warning: Failed to seed default data: %v", err)
	}

	// Initialize JWT manager
	jwtManager := utils.NewJWTManager(cfg.JWT.Secret, cfg.JWT.ExpiryHours)

	// Initialize repositories
	productRepo := repository.NewProductRepository(db)
	customerRepo := repository.NewCustomerRepository(db)
	invoiceStore := repository.NewInvoiceRepository(db)
	settingsRepo := repository.NewSettingsRepository(db)
	idempotencyRepo := repository.NewIdempotencyRepository(db)

	// Live updates and cart drafts need redis
	var (
		publisher  domainRepo.EventPublisher = events.NopPublisher{}
		subscriber domainRepo.EventSubscriber
		drafts     domainRepo.DraftStore
	)
	var redisClient *redis.Client
	if cfg.Redis.Addr != "" {
		redisClient = redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		pingCtx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
		err := redisClient.Ping(pingCtx).Err()
		cancel()
		if err != nil {
			log.Printf("Warning: redis unavailable, live updates and drafts disabled: %v", err)
			_ = redisClient.Close()
			redisClient = nil
		} else {
			bus := events.NewRedisBus(redisClient)
			publisher, subscriber = bus, bus
			drafts = cache.NewRedisDraftStore(redisClient)
			log.Printf("Connected to redis at %s", cfg.Redis.Addr)
		}
	}

	layout := render.Options{
		MinRowsTaxed:   cfg.Billing.MinRowsTaxed,
		MinRowsUntaxed: cfg.Billing.MinRowsUntaxed,
	}
	if layout.MinRowsTaxed <= 0 || layout.MinRowsUntaxed <= 0 {
		layout = render.DefaultOptions()
	}

	// Initialize services
	authService := service.NewAuthService(cfg.Operator, jwtManager)
	settingsService := service.NewSettingsService(settingsRepo, publisher)
	productService := service.NewProductService(productRepo, publisher)
	customerService := service.NewCustomerService(customerRepo, publisher)
	invoiceService := service.NewInvoiceService(invoiceStore, settingsService, assets.NewHTTPFetcher(10*time.Second), layout)
	insightsService := service.NewInsightsService(invoiceStore, insights.NewClient(cfg.Insights))
	reconcileService := service.NewReconcileService(invoiceStore, settingsRepo, idempotencyRepo, publisher)

	// The counter must be ahead of every stored bill before the cart opens
	startCtx, cancelStart := context.WithTimeout(context.Background(), 15*time.Second)
	if _, err := reconcileService.Reconcile(startCtx); err != nil {
		log.Printf("Warning: Failed to reconcile bill sequence: %v", err)
	}

	cartDeps := service.CartDependencies{
		Operator:     cfg.Operator.Username,
		Products:     productRepo,
		Invoices:     invoiceStore,
		SettingsRepo: settingsRepo,
		Settings:     settingsService,
		Drafts:       drafts,
		Events:       publisher,
		Layout:       layout,
	}
	if cfg.Billing.AtomicSave {
		cartDeps.Committer = invoiceStore
	} else {
		log.Println("Warning: atomic save disabled, bills are saved in two phases")
	}
	cartService := service.NewCartService(cartDeps)
	if err := cartService.Load(startCtx); err != nil {
		log.Printf("Warning: Failed to load cart: %v", err)
	}
	cancelStart()

	if err := reconcileService.StartScheduler(cfg.Billing.ReconcileSchedule); err != nil {
		log.Fatalf("Failed to start reconcile scheduler: %v", err)
	}

	// Initialize thermal printer
	thermalPrinter, err := printer.NewPrinterFromConfig(
		cfg.Printer.Type,
		cfg.Printer.USBPath,
		cfg.Printer.Address,
	)
	if err != nil {
		log.Printf("Warning: Failed to initialize printer: %v", err)
		thermalPrinter = printer.NewNullPrinter()
	}
	printerService := service.NewPrinterService(thermalPrinter, invoiceService, cfg.Printer.CharWidth)

	// Initialize handlers
	handlers := &routes.Handlers{
		Auth:      handler.NewAuthHandler(authService),
		Product:   handler.NewProductHandler(productService),
		Customer:  handler.NewCustomerHandler(customerService),
		Settings:  handler.NewSettingsHandler(settingsService, reconcileService),
		Cart:      handler.NewCartHandler(cartService),
		Invoice:   handler.NewInvoiceHandler(invoiceService, printerService),
		Analytics: handler.NewAnalyticsHandler(insightsService),
		Events:    handler.NewEventsHandler(subscriber),
		Printer:   handler.NewPrinterHandler(printerService),
	}

	limiter := routes.NewRateLimiter(cfg.RateLimit)

	// Setup routes
	router := routes.Setup(handlers, &routes.Deps{
		JWTManager:      jwtManager,
		Cfg:             cfg,
		IdempotencyRepo: idempotencyRepo,
		RateLimiter:     limiter,
	})

	// Get port from environment or use default
	port := cfg.App.Port
	if port == "" {
		port = "8080"
	}

	srv := &http.Server{
		Addr:              ":" + port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		log.Printf("Starting %s server on port %s...", cfg.App.Name, port)
		log.Printf("Environment: %s", cfg.App.Env)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("Failed to start server: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Println("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Printf("Server forced to shutdown: %v", err)
	}

	reconcileService.Stop()
	limiter.Stop()
	if err := thermalPrinter.Close(); err != nil {
		log.Printf("Warning: Failed to close printer: %v", err)
	}
	if redisClient != nil {
		_ = redisClient.Close()
	}
	if sqlDB, err := db.DB(); err == nil {
		_ = sqlDB.Close()
	}
	log.Println("Server exited")
}
