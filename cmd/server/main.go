package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	catalogapp "github.com/Assey1152/orders/internal/application/catalog"
	identityapp "github.com/Assey1152/orders/internal/application/identity"
	"github.com/Assey1152/orders/internal/application/importer"
	orderingapp "github.com/Assey1152/orders/internal/application/ordering"
	"github.com/Assey1152/orders/internal/infrastructure/auth"
	"github.com/Assey1152/orders/internal/infrastructure/cache"
	"github.com/Assey1152/orders/internal/infrastructure/config"
	"github.com/Assey1152/orders/internal/infrastructure/event"
	"github.com/Assey1152/orders/internal/infrastructure/feed"
	"github.com/Assey1152/orders/internal/infrastructure/logger"
	"github.com/Assey1152/orders/internal/infrastructure/notification"
	"github.com/Assey1152/orders/internal/infrastructure/persistence"
	"github.com/Assey1152/orders/internal/interfaces/http/handler"
	"github.com/Assey1152/orders/internal/interfaces/http/middleware"
	"github.com/Assey1152/orders/internal/interfaces/http/router"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		panic("Failed to load configuration: " + err.Error())
	}

	// Initialize logger
	log, err := logger.New(&logger.Config{
		Level:  cfg.Log.Level,
		Format: cfg.Log.Format,
		Output: cfg.Log.Output,
	})
	if err != nil {
		panic("Failed to initialize logger: " + err.Error())
	}
	defer func() {
		_ = logger.Sync(log)
	}()

	log.Info("Starting orders backend",
		zap.String("app", cfg.App.Name),
		zap.String("env", cfg.App.Env),
		zap.String("port", cfg.App.Port),
	)

	// Database connection with a GORM logger backed by zap
	gormLog := logger.NewGormLogger(log, logger.MapGormLogLevel(cfg.Log.Level))
	db, err := persistence.NewDatabaseWithLogger(&cfg.Database, gormLog)
	if err != nil {
		log.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Error("Error closing database", zap.Error(err))
		}
	}()
	log.Info("Database connected successfully")

	// Repositories
	shopRepo := persistence.NewGormShopRepository(db.DB)
	categoryRepo := persistence.NewGormCategoryRepository(db.DB)
	listingRepo := persistence.NewGormListingRepository(db.DB)
	orderRepo := persistence.NewGormOrderRepository(db.DB)
	userRepo := persistence.NewGormUserRepository(db.DB)
	contactRepo := persistence.NewGormContactRepository(db.DB)
	tokenRepo := persistence.NewGormVerificationTokenRepository(db.DB)
	outboxRepo := event.NewGormOutboxRepository(db.DB)

	// Event serializer and transactional outbox publisher
	eventSerializer := event.NewEventSerializer()
	event.RegisterAllEvents(eventSerializer)
	outboxPublisher := event.NewOutboxPublisher(eventSerializer)

	// Repositories whose aggregates raise events save them in the same
	// transaction as the aggregate itself
	shopRepo.SetOutboxEventSaver(outboxPublisher)
	orderRepo.SetOutboxEventSaver(outboxPublisher)
	userRepo.SetOutboxEventSaver(outboxPublisher)

	// Listing cache: Redis when reachable, in-process otherwise
	var listingCache cache.ListingCache
	redisCache, err := cache.NewRedisListingCache(&cfg.Redis)
	if err != nil {
		log.Warn("Redis unavailable, using in-memory listing cache", zap.Error(err))
		listingCache = cache.NewInMemoryListingCache(cfg.Redis.CacheTTL)
	} else {
		defer func() {
			if err := redisCache.Close(); err != nil {
				log.Error("Error closing redis client", zap.Error(err))
			}
		}()
		listingCache = redisCache
		log.Info("Redis listing cache connected", zap.String("addr", cfg.Redis.Addr()))
	}

	// Application services
	jwtService := auth.NewJWTService(cfg.JWT)
	hasher := auth.NewPasswordHasher()
	authService := identityapp.NewAuthService(userRepo, tokenRepo, jwtService, hasher, log)
	contactService := identityapp.NewContactService(contactRepo, log)
	catalogService := catalogapp.NewCatalogService(shopRepo, categoryRepo, listingRepo, listingCache, log)
	orderService := orderingapp.NewOrderService(orderRepo, listingRepo, shopRepo, contactRepo, log)

	importScope := persistence.NewGormTransactionScope(db.DB)
	importScope.SetOutboxEventSaver(outboxPublisher)
	importService := importer.NewImportService(importScope, feed.NewFetcher(&cfg.Feed), log)

	// Event bus with notification and cache invalidation handlers
	eventBus := event.NewInMemoryEventBus(log)
	mailer := notification.NewLogMailer(log)

	registrationHandler := notification.NewRegistrationHandler(mailer, tokenRepo, log)
	eventBus.Subscribe(registrationHandler, registrationHandler.EventTypes()...)

	orderPlacedHandler := notification.NewOrderPlacedHandler(mailer, userRepo, log)
	eventBus.Subscribe(orderPlacedHandler, orderPlacedHandler.EventTypes()...)

	catalogInvalidator := cache.NewCatalogInvalidator(listingCache, log)
	eventBus.Subscribe(catalogInvalidator, catalogInvalidator.EventTypes()...)

	if err := eventBus.Start(context.Background()); err != nil {
		log.Fatal("Failed to start event bus", zap.Error(err))
	}
	defer func() {
		if err := eventBus.Stop(context.Background()); err != nil {
			log.Error("Error stopping event bus", zap.Error(err))
		}
	}()

	// Outbox processor delivers stored events to the bus
	processorConfig := event.DefaultOutboxProcessorConfig()
	if cfg.Event.BatchSize > 0 {
		processorConfig.BatchSize = cfg.Event.BatchSize
	}
	if cfg.Event.PollInterval > 0 {
		processorConfig.PollInterval = cfg.Event.PollInterval
	}
	processorConfig.CleanupEnabled = cfg.Event.CleanupEnabled
	if cfg.Event.CleanupRetention > 0 {
		processorConfig.CleanupRetention = cfg.Event.CleanupRetention
	}
	outboxProcessor := event.NewOutboxProcessor(outboxRepo, eventBus, eventSerializer, processorConfig, log)
	if err := outboxProcessor.Start(context.Background()); err != nil {
		log.Fatal("Failed to start outbox processor", zap.Error(err))
	}
	defer func() {
		if err := outboxProcessor.Stop(context.Background()); err != nil {
			log.Error("Error stopping outbox processor", zap.Error(err))
		}
	}()
	log.Info("Outbox processor started",
		zap.Int("batch_size", processorConfig.BatchSize),
		zap.Duration("poll_interval", processorConfig.PollInterval),
	)

	// HTTP handlers
	authHandler := handler.NewAuthHandler(authService)
	contactHandler := handler.NewContactHandler(contactService)
	catalogHandler := handler.NewCatalogHandler(catalogService)
	basketHandler := handler.NewBasketHandler(orderService)
	orderHandler := handler.NewOrderHandler(orderService)
	partnerHandler := handler.NewPartnerHandler(importService, catalogService, orderService)

	// Gin engine
	if cfg.App.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	engine := gin.New()
	engine.Use(middleware.RequestID())
	engine.Use(logger.GinMiddleware(log))
	engine.Use(logger.Recovery(log))

	if len(cfg.HTTP.TrustedProxies) > 0 {
		if err := engine.SetTrustedProxies(cfg.HTTP.TrustedProxies); err != nil {
			log.Fatal("Failed to set trusted proxies", zap.Error(err))
		}
	}

	engine.GET("/health", healthHandler(db))

	engine.Use(middleware.JWTAuthMiddleware(middleware.JWTMiddlewareConfig{
		JWTService: jwtService,
		SkipPaths: []string{
			"/health",
			"/api/v1/user/register",
			"/api/v1/user/register/confirm",
			"/api/v1/user/login",
			"/api/v1/products",
			"/api/v1/shops",
			"/api/v1/categories",
		},
		SkipPathPrefixes: []string{
			"/api/v1/products/",
		},
		Logger: log,
	}))

	// Routes
	userRoutes := router.NewDomainGroup("user", "/user")
	userRoutes.POST("/register", authHandler.Register)
	userRoutes.POST("/register/confirm", authHandler.Confirm)
	userRoutes.POST("/login", authHandler.Login)
	userRoutes.GET("/details", authHandler.GetAccount)
	userRoutes.PUT("/details", authHandler.UpdateAccount)
	userRoutes.GET("/contacts", contactHandler.List)
	userRoutes.POST("/contacts", contactHandler.Create)
	userRoutes.PUT("/contacts/:id", contactHandler.Update)
	userRoutes.DELETE("/contacts/:id", contactHandler.Delete)

	storeRoutes := router.NewDomainGroup("catalog", "")
	storeRoutes.GET("/products", catalogHandler.ListProducts)
	storeRoutes.GET("/products/:id", catalogHandler.GetProduct)
	storeRoutes.GET("/shops", catalogHandler.ListShops)
	storeRoutes.GET("/categories", catalogHandler.ListCategories)

	basketRoutes := router.NewDomainGroup("basket", "/basket")
	basketRoutes.GET("", basketHandler.Get)
	basketRoutes.POST("/items", basketHandler.AddItems)
	basketRoutes.PUT("/items", basketHandler.UpdateItems)
	basketRoutes.DELETE("/items", basketHandler.RemoveItems)

	orderRoutes := router.NewDomainGroup("orders", "/orders")
	orderRoutes.GET("", orderHandler.List)
	orderRoutes.GET("/:id", orderHandler.Get)
	orderRoutes.POST("", orderHandler.Place)

	partnerRoutes := router.NewDomainGroup("partner", "/partner")
	partnerRoutes.Use(middleware.RequireVendor())
	partnerRoutes.POST("/update", partnerHandler.UpdateFeed)
	partnerRoutes.GET("/state", partnerHandler.GetState)
	partnerRoutes.POST("/state", partnerHandler.SetState)
	partnerRoutes.GET("/orders", partnerHandler.Orders)

	router.NewRouter(engine).
		Register(userRoutes).
		Register(storeRoutes).
		Register(basketRoutes).
		Register(orderRoutes).
		Register(partnerRoutes).
		Setup()

	// HTTP server
	srv := &http.Server{
		Addr:           ":" + cfg.App.Port,
		Handler:        engine,
		ReadTimeout:    cfg.HTTP.ReadTimeout,
		WriteTimeout:   cfg.HTTP.WriteTimeout,
		IdleTimeout:    cfg.HTTP.IdleTimeout,
		MaxHeaderBytes: cfg.HTTP.MaxHeaderBytes,
	}

	go func() {
		log.Info("Server starting", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal("Server forced to shutdown", zap.Error(err))
	}

	log.Info("Server exited gracefully")
}

// healthHandler reports process and database health
func healthHandler(db *persistence.Database) gin.HandlerFunc {
	return func(c *gin.Context) {
		if err := db.Ping(); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{
				"status":   "unhealthy",
				"time":     time.Now().Format(time.RFC3339),
				"database": "error",
			})
			return
		}
		c.JSON(http.StatusOK, gin.H{
			"status":   "healthy",
			"time":     time.Now().Format(time.RFC3339),
			"database": "ok",
		})
	}
}
