package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	analyticsapp "github.com/furnitureops/backend/internal/application/analytics"
	automationapp "github.com/furnitureops/backend/internal/application/automation"
	catalogapp "github.com/furnitureops/backend/internal/application/catalog"
	crmapp "github.com/furnitureops/backend/internal/application/crm"
	designapp "github.com/furnitureops/backend/internal/application/design"
	exportapp "github.com/furnitureops/backend/internal/application/export"
	financeapp "github.com/furnitureops/backend/internal/application/finance"
	identityapp "github.com/furnitureops/backend/internal/application/identity"
	"github.com/furnitureops/backend/internal/application/jobs"
	marketingapp "github.com/furnitureops/backend/internal/application/marketing"
	ordersapp "github.com/furnitureops/backend/internal/application/orders"
	portalapp "github.com/furnitureops/backend/internal/application/portal"
	predictionapp "github.com/furnitureops/backend/internal/application/prediction"
	productionapp "github.com/furnitureops/backend/internal/application/production"
	tasksapp "github.com/furnitureops/backend/internal/application/tasks"
	"github.com/furnitureops/backend/internal/infrastructure/auth"
	"github.com/furnitureops/backend/internal/infrastructure/cache"
	"github.com/furnitureops/backend/internal/infrastructure/config"
	"github.com/furnitureops/backend/internal/infrastructure/esign"
	"github.com/furnitureops/backend/internal/infrastructure/event"
	"github.com/furnitureops/backend/internal/infrastructure/logger"
	"github.com/furnitureops/backend/internal/infrastructure/notification"
	"github.com/furnitureops/backend/internal/infrastructure/persistence"
	"github.com/furnitureops/backend/internal/infrastructure/printing"
	"github.com/furnitureops/backend/internal/infrastructure/scheduler"
	"github.com/furnitureops/backend/internal/infrastructure/storage"
	"github.com/furnitureops/backend/internal/infrastructure/telemetry"
	"github.com/furnitureops/backend/internal/interfaces/http/handler"
	"github.com/furnitureops/backend/internal/interfaces/http/middleware"
	"github.com/furnitureops/backend/internal/interfaces/http/router"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

//	@title			FurnitureOps API
//	@version		1.0
//	@description	Operations backend for custom furniture manufacturing: CRM, orders, production tracking, invoicing and automation.
//	@termsOfService	http://swagger.io/terms/

//	@contact.name	API Support
//	@contact.url	https://github.com/furnitureops/backend
//	@contact.email	support@furnitureops.example.com

//	@license.name	Apache 2.0
//	@license.url	http://www.apache.org/licenses/LICENSE-2.0.html

//	@host		localhost:8080
//	@BasePath	/api/v1

//	@securityDefinitions.apikey	BearerAuth
//	@in							header
//	@name						Authorization
//	@description				Bearer token authentication. Format: "Bearer {token}"

//	@externalDocs.description	OpenAPI
//	@externalDocs.url			https://swagger.io/resources/open-api/

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		panic("Failed to load configuration: " + err.Error())
	}

	// Initialize logger
	log, err := logger.New(&logger.Config{
		Level:      cfg.Log.Level,
		Format:     cfg.Log.Format,
		Output:     cfg.Log.Output,
		TimeFormat: "2006-01-02T15:04:05.000Z07:00",
	})
	if err != nil {
		panic("Failed to initialize logger: " + err.Error())
	}
	defer func() {
		_ = logger.Sync(log)
	}()

	ctx := context.Background()
	serviceName := cfg.Telemetry.ServiceName
	if serviceName == "" {
		serviceName = cfg.App.Name
	}

	// Telemetry: traces, metrics, logs and profiles
	providers, err := telemetry.Setup(ctx, telemetry.Config{
		Enabled:           cfg.Telemetry.Enabled,
		CollectorEndpoint: cfg.Telemetry.CollectorEndpoint,
		Insecure:          cfg.Telemetry.Insecure,
		ServiceName:       serviceName,
		Environment:       cfg.App.Env,
		SamplingRatio:     cfg.Telemetry.SamplingRatio,
		MetricsEnabled:    cfg.Telemetry.MetricsEnabled,
		LogsEnabled:       cfg.Telemetry.LogsEnabled,
	}, log)
	if err != nil {
		log.Fatal("Failed to initialize telemetry", zap.Error(err))
	}
	defer shutdown(log, "telemetry", providers.Shutdown)
	log = providers.Bridge(log, logger.ParseLevel(cfg.Log.Level))

	profiler, err := telemetry.NewProfiler(telemetry.ProfilerConfig{
		Enabled:         cfg.Telemetry.ProfilingEnabled,
		ServerAddress:   cfg.Telemetry.PyroscopeEndpoint,
		ApplicationName: serviceName,
	}, log)
	if err != nil {
		log.Warn("Profiler disabled", zap.Error(err))
	} else {
		defer func() {
			if err := profiler.Stop(); err != nil {
				log.Error("Error stopping profiler", zap.Error(err))
			}
		}()
		if profiler.IsEnabled() {
			providers.EnableSpanProfiles()
		}
	}

	appMetrics, err := telemetry.NewAppMetrics(providers.Meter("furnitureops"))
	if err != nil {
		log.Fatal("Failed to create business metrics", zap.Error(err))
	}

	log.Info("Starting FurnitureOps backend",
		zap.String("app", cfg.App.Name),
		zap.String("env", cfg.App.Env),
		zap.String("port", cfg.App.Port),
		zap.String("version", telemetry.ServiceVersion),
	)

	gormLog := logger.NewGormLogger(log, logger.MapGormLogLevel(cfg.Log.Level),
		logger.WithSlowThreshold(cfg.Telemetry.DBSlowQueryThresh),
		logger.WithFullSQL(cfg.Telemetry.DBLogFullSQL))

	db, err := persistence.Open(ctx, &cfg.Database, gormLog)
	if err != nil {
		log.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Error("Error closing database", zap.Error(err))
		}
	}()
	if cfg.Telemetry.Enabled && cfg.Telemetry.DBTraceEnabled {
		plugin := telemetry.NewDBTracingPlugin(telemetry.DBTracingConfig{
			Enabled:         true,
			LogFullSQL:      cfg.Telemetry.DBLogFullSQL,
			SlowQueryThresh: cfg.Telemetry.DBSlowQueryThresh,
			DBSystem:        "postgresql",
		}, log)
		if err := plugin.Register(db.DB); err != nil {
			log.Warn("Database tracing disabled", zap.Error(err))
		}
	}
	log.Info("Database connected successfully")

	// Cache, object storage and outbound providers
	analyticsCache, redisClient := cache.Open(ctx, cfg.Redis, log)
	defer func() {
		if err := analyticsCache.Close(); err != nil {
			log.Error("Error closing cache", zap.Error(err))
		}
		if redisClient != nil {
			_ = redisClient.Close()
		}
	}()

	objectStore, err := storage.Open(ctx, cfg.Storage, log)
	if err != nil {
		log.Fatal("Failed to initialize object storage", zap.Error(err))
	}

	smsSender := telemetry.NewMeteredSMSSender(notification.NewSMSSender(cfg.SMS, log), appMetrics)
	emailSender := telemetry.NewMeteredEmailSender(notification.NewEmailSender(cfg.Email, log), appMetrics)
	webhookClient := notification.NewWebhookClient(cfg.Webhook, log)
	signer := esign.NewSigner(cfg.ESign, log)

	renderer := printing.NewChromedpRenderer(printing.ChromedpConfig{
		DefaultTimeout: cfg.Printing.Timeout,
		RemoteURL:      cfg.Printing.ChromeURL,
		NoSandbox:      cfg.Printing.NoSandbox,
	}, log)
	defer func() {
		if err := renderer.Close(); err != nil {
			log.Error("Error closing PDF renderer", zap.Error(err))
		}
	}()

	// Initialize repositories
	userRepo := persistence.NewGormUserRepository(db.DB)
	customerRepo := persistence.NewGormCustomerRepository(db.DB)
	activityRepo := persistence.NewGormActivityRepository(db.DB)
	collectionRepo := persistence.NewGormCollectionRepository(db.DB)
	productRepo := persistence.NewGormProductRepository(db.DB)
	orderRepo := persistence.NewGormOrderRepository(db.DB)
	trackingRepo := persistence.NewGormTrackingRepository(db.DB)
	invoiceRepo := persistence.NewGormInvoiceRepository(db.DB)
	paymentRepo := persistence.NewGormPaymentRepository(db.DB)
	taskRepo := persistence.NewGormTaskRepository(db.DB)
	threadRepo := persistence.NewGormThreadRepository(db.DB)
	boardRepo := persistence.NewGormBoardRepository(db.DB)
	reviewRepo := persistence.NewGormReviewRepository(db.DB)
	ruleRepo := persistence.NewGormRuleRepository(db.DB)
	executionRepo := persistence.NewGormExecutionRepository(db.DB)
	predictionRepo := persistence.NewGormPredictionRepository(db.DB)
	campaignRepo := persistence.NewGormCampaignRepository(db.DB)
	deliveryRepo := persistence.NewGormDeliveryRepository(db.DB)

	// Event bus. Services publish here; handlers are subscribed below.
	eventBus := event.NewInMemoryEventBus(log, event.DefaultConfig())

	// Identity
	var revocations auth.RevocationStore = auth.NewMemoryRevocationStore()
	if redisClient != nil {
		revocations = auth.NewRedisRevocationStore(redisClient)
	}
	jwtService := auth.NewJWTService(cfg.JWT)
	authService := identityapp.NewAuthService(userRepo, jwtService, revocations, log)
	userService := identityapp.NewUserService(userRepo, revocations, cfg.JWT.RefreshTokenExpiration, log)

	// Domain services
	customerService := crmapp.NewCustomerService(customerRepo, activityRepo, eventBus, log)
	catalogService := catalogapp.NewCatalogService(collectionRepo, productRepo, log)
	orderService := ordersapp.NewOrderService(orderRepo, customerRepo, productRepo, eventBus, log)
	trackingService := productionapp.NewTrackingService(trackingRepo, orderRepo, eventBus, log)
	invoiceService := financeapp.NewInvoiceService(invoiceRepo, paymentRepo, customerRepo, orderRepo, eventBus, log)
	documentService := financeapp.NewDocumentService(invoiceRepo, customerRepo, renderer, objectStore, signer,
		financeapp.DocumentConfig{
			CompanyName:    cfg.Printing.CompanyName,
			WebhookSecret:  cfg.ESign.WebhookSecret,
			DownloadURLTTL: cfg.Storage.PresignExpiry,
		}, log)
	taskService := tasksapp.NewTaskService(taskRepo, log)
	threadService := portalapp.NewThreadService(threadRepo, customerRepo, eventBus, log)
	boardService := designapp.NewBoardService(boardRepo, objectStore, designapp.AssetPolicy{
		URLExpiry:     cfg.Storage.PresignExpiry,
		MaxUploadSize: cfg.Storage.MaxUploadSize,
	}, log)
	reviewService := designapp.NewReviewService(reviewRepo, orderRepo, log)
	predictionService := predictionapp.NewService(predictionRepo, customerRepo, activityRepo, productRepo,
		orderRepo, invoiceRepo, paymentRepo, log)
	campaignService := marketingapp.NewCampaignService(campaignRepo, deliveryRepo, customerRepo, smsSender,
		cfg.Campaign.ChunkSize, log)
	analyticsService := analyticsapp.NewService(invoiceRepo, paymentRepo, orderRepo, trackingRepo, customerRepo,
		analyticsCache, cfg.Analytics.CacheTTL, log)
	exportService := exportapp.NewService(customerRepo, orderRepo, invoiceRepo, taskRepo, trackingRepo, log)

	// Automation
	processor := automationapp.NewProcessor(ruleRepo, executionRepo, customerRepo, automationapp.ActionDeps{
		SMS:      smsSender,
		Email:    emailSender,
		Webhook:  webhookClient,
		Tasks:    taskService,
		Payments: invoiceService,
		Records:  automationapp.NewServiceRecordUpdater(orderService, invoiceService, taskService),
	}, automationapp.ProcessorConfig{ActionTimeout: cfg.Automation.ActionTimeout}, log)
	ruleService := automationapp.NewRuleService(ruleRepo, executionRepo, processor, log)

	metricsHandler := telemetry.NewMetricsEventHandler(appMetrics)
	eventBus.Subscribe(metricsHandler, metricsHandler.EventTypes()...)
	if cfg.Automation.Enabled {
		automationHandler := automationapp.NewEventHandler(processor, log)
		eventBus.Subscribe(automationHandler, automationHandler.EventTypes()...)
		log.Info("Automation processor subscribed", zap.Strings("events", automationHandler.EventTypes()))
	}

	if err := eventBus.Start(ctx); err != nil {
		log.Fatal("Failed to start event bus", zap.Error(err))
	}
	defer func() {
		if err := eventBus.Stop(context.Background()); err != nil {
			log.Error("Error stopping event bus", zap.Error(err))
		}
	}()

	// Background jobs
	var jobScheduler handler.JobScheduler
	if cfg.Scheduler.Enabled {
		sched := scheduler.New(scheduler.Config{
			MaxConcurrentJobs: cfg.Scheduler.MaxConcurrentJobs,
			JobTimeout:        cfg.Scheduler.JobTimeout,
			RetryAttempts:     cfg.Scheduler.RetryAttempts,
			RetryDelay:        cfg.Scheduler.RetryDelay,
		}, log)
		jobs.Register(sched, jobs.Intervals{
			OverdueSweep: cfg.Scheduler.OverdueInterval,
			ChurnRefresh: cfg.Scheduler.ChurnRefreshInterval,
		}, invoiceService, predictionService, log)
		if err := sched.Start(ctx); err != nil {
			log.Fatal("Failed to start scheduler", zap.Error(err))
		}
		defer func() {
			if err := sched.Stop(context.Background()); err != nil {
				log.Error("Error stopping scheduler", zap.Error(err))
			}
		}()
		jobScheduler = sched
		log.Info("Scheduler started",
			zap.Int("max_concurrent_jobs", cfg.Scheduler.MaxConcurrentJobs),
			zap.Duration("job_timeout", cfg.Scheduler.JobTimeout),
		)
	}

	healthChecks := map[string]handler.HealthCheck{"database": db.Ping}
	if redisClient != nil {
		healthChecks["cache"] = func(ctx context.Context) error { return redisClient.Ping(ctx).Err() }
	}

	handlers := router.Handlers{
		Auth:       handler.NewAuthHandler(authService),
		User:       handler.NewUserHandler(userService),
		Customer:   handler.NewCustomerHandler(customerService),
		Catalog:    handler.NewCatalogHandler(catalogService),
		Order:      handler.NewOrderHandler(orderService),
		Production: handler.NewProductionHandler(trackingService),
		Invoice:    handler.NewInvoiceHandler(invoiceService, documentService),
		Task:       handler.NewTaskHandler(taskService),
		Portal:     handler.NewPortalHandler(threadService),
		Design:     handler.NewDesignHandler(boardService, reviewService),
		Automation: handler.NewAutomationHandler(ruleService),
		Prediction: handler.NewPredictionHandler(predictionService),
		Campaign:   handler.NewCampaignHandler(campaignService),
		Analytics:  handler.NewAnalyticsHandler(analyticsService),
		Export:     handler.NewExportHandler(exportService, appMetrics),
		System:     handler.NewSystemHandler(cfg.App.Name, telemetry.ServiceVersion, healthChecks, jobScheduler),
	}

	// Set Gin mode based on environment
	if cfg.App.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	// Setup validation
	middleware.SetupValidator()

	engine := gin.New()

	// Configure trusted proxies
	if len(cfg.HTTP.TrustedProxies) > 0 {
		if err := engine.SetTrustedProxies(cfg.HTTP.TrustedProxies); err != nil {
			log.Warn("Failed to set trusted proxies", zap.Error(err))
		}
	}

	corsConfig := middleware.DefaultCORSConfig()
	corsConfig.AllowOrigins = cfg.HTTP.CORSAllowOrigins
	if len(cfg.HTTP.CORSAllowMethods) > 0 {
		corsConfig.AllowMethods = cfg.HTTP.CORSAllowMethods
	}
	if len(cfg.HTTP.CORSAllowHeaders) > 0 {
		corsConfig.AllowHeaders = cfg.HTTP.CORSAllowHeaders
	}

	jwtConfig := middleware.DefaultJWTConfig(jwtService)
	jwtConfig.Revocations = revocations
	jwtConfig.Logger = log
	jwtMiddleware := middleware.JWTAuthMiddlewareWithConfig(jwtConfig)

	// Middleware order: request id, tracing, logging, recovery, headers,
	// rate limit, authentication, then per-request enrichment.
	engine.Use(middleware.RequestID())
	engine.Use(middleware.Tracing(serviceName, providers.TracingEnabled()))
	engine.Use(logger.GinMiddleware(log))
	engine.Use(logger.Recovery(log))
	engine.Use(middleware.Secure(middleware.DefaultSecurityConfig()))
	engine.Use(middleware.CORS(corsConfig))
	engine.Use(middleware.BodyLimit(cfg.HTTP.MaxBodySize))

	if cfg.HTTP.RateLimitEnabled {
		limiter := newLimiter(redisClient, "ratelimit:api:", cfg.HTTP.RateLimitRequests, cfg.HTTP.RateLimitWindow)
		if closer, ok := limiter.(*middleware.MemoryLimiter); ok {
			defer closer.Close()
		}
		engine.Use(middleware.RateLimit(limiter))
		log.Info("Rate limiting enabled",
			zap.Int("requests", cfg.HTTP.RateLimitRequests),
			zap.Duration("window", cfg.HTTP.RateLimitWindow),
			zap.Bool("shared", redisClient != nil),
		)
	}
	if cfg.HTTP.AuthRateLimitEnabled {
		limiter := newLimiter(redisClient, "ratelimit:auth:", cfg.HTTP.AuthRateLimitRequests, cfg.HTTP.AuthRateLimitWindow)
		if closer, ok := limiter.(*middleware.MemoryLimiter); ok {
			defer closer.Close()
		}
		handlers.LoginLimiter = middleware.RateLimit(limiter)
	}

	engine.Use(jwtMiddleware)
	engine.Use(middleware.SpanEnricher())
	engine.Use(middleware.HTTPMetrics(providers.Meter("furnitureops.http")))
	engine.Use(middleware.Profiling(profiler != nil && profiler.IsEnabled()))

	// Health check endpoint (outside API versioning)
	engine.GET("/health", handlers.System.Health)

	// Swagger documentation endpoint
	engine.GET("/swagger/*any",
		middleware.SwaggerProtection(middleware.SwaggerConfig{
			Enabled:     cfg.Swagger.Enabled,
			RequireAuth: cfg.Swagger.RequireAuth,
			AllowedIPs:  cfg.Swagger.AllowedIPs,
		}, middleware.JWTAuthMiddleware(jwtService)),
		ginSwagger.WrapHandler(swaggerFiles.Handler),
	)

	router.RegisterAPI(engine, handlers)

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

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("Server forced to shutdown", zap.Error(err))
		return
	}

	log.Info("Server exited gracefully")
}

// newLimiter shares counters through redis when it is available
func newLimiter(client *redis.Client, prefix string, limit int, window time.Duration) middleware.Limiter {
	if client != nil {
		return middleware.NewRedisLimiter(client, prefix, limit, window)
	}
	return middleware.NewMemoryLimiter(limit, window)
}

func shutdown(log *zap.Logger, name string, fn func(context.Context) error) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := fn(ctx); err != nil {
		log.Error("Error shutting down "+name, zap.Error(err))
	}
}
