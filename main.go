// Package main provides the main entry point for the Salesloop Outreach service
package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v3"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
	"github.com/salesloop/outreach/app/handlers"
	"github.com/salesloop/outreach/app/middleware"
	"github.com/salesloop/outreach/app/router"
	"github.com/salesloop/outreach/app/services"
	businessflow "github.com/salesloop/outreach/business_flow"
	"github.com/salesloop/outreach/config"
	"github.com/salesloop/outreach/models"
	"github.com/salesloop/outreach/repository"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

// Application represents the main application structure
type Application struct {
	router    *router.FiberRouter
	config    *config.ProductionConfig
	server    *fiber.App
	stopFuncs []func()
}

func main() {
	log.Println("Starting Salesloop Outreach application...")

	cfg, err := config.LoadProductionConfig()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	app, err := initializeApplication(cfg)
	if err != nil {
		log.Fatalf("Failed to initialize application: %v", err)
	}

	app.router.SetupRoutes()

	// Handle shutdown signals
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	// Start server in goroutine
	go func() {
		address := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
		log.Printf("Server starting on %s", address)

		if err := app.server.Listen(address); err != nil {
			log.Fatalf("Failed to start server: %v", err)
		}
	}()

	<-sigChan
	log.Println("Shutting down gracefully...")

	for _, fn := range app.stopFuncs {
		fn()
	}

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer shutdownCancel()

	if err := app.server.ShutdownWithContext(shutdownCtx); err != nil {
		log.Printf("Error during shutdown: %v", err)
	}

	log.Println("Server stopped")
}

// initializeDatabase initializes the database connection with connection pooling
func initializeDatabase(cfg config.DatabaseConfig) (*gorm.DB, error) {
	dsn := fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		cfg.Host, cfg.Port, cfg.User, cfg.Password, cfg.Name, cfg.SSLMode)

	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get underlying sql.DB: %w", err)
	}

	sqlDB.SetMaxOpenConns(cfg.MaxOpenConns)
	sqlDB.SetMaxIdleConns(cfg.MaxIdleConns)
	sqlDB.SetConnMaxLifetime(cfg.ConnMaxLifetime)
	sqlDB.SetConnMaxIdleTime(cfg.ConnMaxIdleTime)

	if err := sqlDB.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	if err := models.AutoMigrate(db); err != nil {
		return nil, fmt.Errorf("failed to migrate database schema: %w", err)
	}

	log.Printf("Database connection established with %d max open connections, %d max idle connections",
		cfg.MaxOpenConns, cfg.MaxIdleConns)

	return db, nil
}

// initializeCache initializes the Redis client and verifies connectivity
func initializeCache(cfg config.CacheConfig) (*redis.Client, error) {
	if !cfg.Enabled {
		return nil, nil
	}

	opt, err := redis.ParseURL(cfg.RedisURL)
	if err != nil {
		return nil, fmt.Errorf("invalid redis url: %w", err)
	}
	opt.DB = cfg.RedisDB

	rc := redis.NewClient(opt)
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := rc.Ping(ctx).Err(); err != nil {
		_ = rc.Close()
		return nil, fmt.Errorf("failed to connect to redis: %w", err)
	}

	log.Printf("Redis connection established to %s (db=%d)", cfg.RedisURL, cfg.RedisDB)
	return rc, nil
}

// startCacheHealthMonitor starts a background goroutine that periodically pings Redis
// to detect connectivity issues. The returned cancel function stops the monitor.
func startCacheHealthMonitor(parent context.Context, client *redis.Client, interval time.Duration) func() {
	monitorCtx, cancel := context.WithCancel(parent)
	if interval <= 0 {
		interval = 30 * time.Second
	}
	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-monitorCtx.Done():
				return
			case <-ticker.C:
				ctx, c := context.WithTimeout(context.Background(), 3*time.Second)
				if err := client.Ping(ctx).Err(); err != nil {
					log.Printf("Redis healthcheck failed: %v", err)
				}
				c()
			}
		}
	}()
	return cancel
}

// startMetricsServer exposes the Prometheus registry on a dedicated listener.
// The returned stop function shuts the listener down.
func startMetricsServer(cfg config.MetricsConfig) func() {
	mux := http.NewServeMux()
	mux.Handle(cfg.Path, promhttp.Handler())

	srv := &http.Server{
		Addr:    ":" + strconv.Itoa(cfg.Port),
		Handler: mux,
	}

	go func() {
		log.Printf("Metrics server starting on %s%s", srv.Addr, cfg.Path)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Printf("Metrics server error: %v", err)
		}
	}()

	return func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = srv.Shutdown(ctx)
	}
}

// initializeApplication initializes the main application components
func initializeApplication(cfg *config.ProductionConfig) (*Application, error) {
	var stopFuncs []func()

	db, err := initializeDatabase(cfg.Database)
	if err != nil {
		return nil, err
	}

	rc, err := initializeCache(cfg.Cache)
	if err != nil {
		return nil, err
	}

	var redisClient redis.UniversalClient
	if rc != nil {
		redisClient = rc
		cancel := startCacheHealthMonitor(context.Background(), rc, 30*time.Second)
		stopFuncs = append(stopFuncs, cancel)
	}

	if cfg.Metrics.Enabled {
		stopFuncs = append(stopFuncs, startMetricsServer(cfg.Metrics))
	}

	// Initialize repositories
	customerRepo := repository.NewCustomerRepository(db)
	contactRepo := repository.NewContactRepository(db)
	templateRepo := repository.NewTemplateRepository(db)
	campaignRepo := repository.NewCampaignRepository(db)
	sendRecordRepo := repository.NewSendRecordRepository(db)
	activityRepo := repository.NewActivityRepository(db)
	auditRepo := repository.NewAuditLogRepository(db)

	// Initialize services
	var emailService services.EmailService
	if cfg.Email.ProviderDomain == "mock" {
		emailService = services.NewMockEmailService()
	} else {
		emailService = services.NewEmailService(&cfg.Email)
	}

	var smsService services.SMSService
	if cfg.SMS.ProviderDomain == "mock" {
		smsService = services.NewMockSMSService()
	} else {
		smsService = services.NewSMSService(&cfg.SMS)
	}

	var generatorService services.GeneratorService
	if cfg.Generator.UseMock {
		generatorService = services.NewMockGeneratorService()
	} else {
		generatorService, err = services.NewGenAIGeneratorService(context.Background(), &cfg.Generator)
		if err != nil {
			return nil, fmt.Errorf("failed to initialize generator service: %w", err)
		}
	}

	notificationService := services.NewNotificationService(redisClient, cfg.Cache.RedisPrefix)

	tokenService, err := services.NewTokenService(
		cfg.JWT.AccessTokenTTL,
		cfg.JWT.RefreshTokenTTL,
		cfg.JWT.Issuer,
		cfg.JWT.Audience,
		cfg.JWT.UseRSAKeys,
		cfg.JWT.PrivateKey,
		cfg.JWT.PublicKey,
		cfg.JWT.SecretKey,
		redisClient,
		cfg.Cache.RedisPrefix,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize token service: %w", err)
	}

	log.Printf("Token service initialized with issuer: %s, audience: %s", cfg.JWT.Issuer, cfg.JWT.Audience)

	// Initialize flows
	campaignFlow := businessflow.NewCampaignFlow(
		campaignRepo,
		sendRecordRepo,
		contactRepo,
		customerRepo,
		activityRepo,
		auditRepo,
		emailService,
		smsService,
		db,
	)

	outcomeFlow := businessflow.NewOutcomeFlow(
		campaignRepo,
		sendRecordRepo,
		customerRepo,
		auditRepo,
		notificationService,
		db,
	)

	followUpFlow := businessflow.NewFollowUpFlow(
		campaignRepo,
		sendRecordRepo,
		contactRepo,
		customerRepo,
		activityRepo,
		auditRepo,
		emailService,
		generatorService,
		db,
	)

	templateFlow := businessflow.NewTemplateFlow(
		templateRepo,
		customerRepo,
		auditRepo,
		db,
	)

	draftFlow := businessflow.NewDraftFlow(
		contactRepo,
		customerRepo,
		activityRepo,
		auditRepo,
		generatorService,
		db,
	)

	contactFlow := businessflow.NewContactFlow(
		contactRepo,
		activityRepo,
		customerRepo,
		auditRepo,
		db,
	)

	// Initialize handlers
	campaignHandler := handlers.NewCampaignHandler(campaignFlow)
	outcomeHandler := handlers.NewOutcomeHandler(outcomeFlow)
	followUpHandler := handlers.NewFollowUpHandler(followUpFlow)
	templateHandler := handlers.NewTemplateHandler(templateFlow)
	draftHandler := handlers.NewDraftHandler(draftFlow)
	contactHandler := handlers.NewContactHandler(contactFlow)

	// Initialize auth middleware
	authMiddleware := middleware.NewAuthMiddleware(tokenService)

	// Initialize router
	appRouter := router.NewFiberRouter(
		cfg,
		campaignHandler,
		outcomeHandler,
		followUpHandler,
		templateHandler,
		draftHandler,
		contactHandler,
		authMiddleware,
	)

	fiberRouter := appRouter.(*router.FiberRouter)
	application := &Application{
		router:    fiberRouter,
		config:    cfg,
		server:    fiberRouter.GetApp(),
		stopFuncs: stopFuncs,
	}

	return application, nil
}
