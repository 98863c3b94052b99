package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	lockUseCase "github.com/summitaiAU/invoice-lockd/internal/domain/usecase/lock"
	presenceUseCase "github.com/summitaiAU/invoice-lockd/internal/domain/usecase/presence"

	"github.com/summitaiAU/invoice-lockd/internal/domain/port/persistence"
	"github.com/summitaiAU/invoice-lockd/internal/infrastructure/adapter/api/handler"
	"github.com/summitaiAU/invoice-lockd/internal/infrastructure/adapter/api/routes"
	"github.com/summitaiAU/invoice-lockd/internal/infrastructure/adapter/database"
	"github.com/summitaiAU/invoice-lockd/internal/infrastructure/adapter/database/migration"
	"github.com/summitaiAU/invoice-lockd/internal/infrastructure/adapter/logger"
	"github.com/summitaiAU/invoice-lockd/internal/infrastructure/adapter/messaging"
	"github.com/summitaiAU/invoice-lockd/internal/infrastructure/adapter/realtime"
	"github.com/summitaiAU/invoice-lockd/internal/infrastructure/adapter/repository"
	timeProvider "github.com/summitaiAU/invoice-lockd/internal/infrastructure/adapter/time"
	"github.com/summitaiAU/invoice-lockd/internal/infrastructure/config"

	"github.com/gin-gonic/gin"
)

func main() {
	// Load configuration
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Validate essential configuration
	if err := validateConfig(cfg); err != nil {
		log.Fatalf("Configuration validation failed: %v", err)
	}

	// Set Gin mode based on environment
	if cfg.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	// Create logger
	appLogger := logger.NewZapLogger(cfg.Environment == "production")

	// Setup database configuration
	dbConfig := &database.Config{
		Host:            cfg.Database.Host,
		Port:            database.ParsePort(cfg.Database.Port),
		Username:        cfg.Database.Username,
		Password:        cfg.Database.Password,
		Database:        cfg.Database.Database,
		SSLMode:         cfg.Database.SSLMode,
		MaxOpenConns:    cfg.Database.MaxOpenConns,
		MaxIdleConns:    cfg.Database.MaxIdleConns,
		ConnMaxLifetime: cfg.Database.ConnMaxLifetime,
		ConnMaxIdleTime: cfg.Database.ConnMaxIdleTime,
		QueryTimeout:    cfg.Database.QueryTimeout,
		LogLevel:        cfg.Logger.Level,
		RetryAttempts:   cfg.Database.RetryAttempts,
		RetryDelay:      cfg.Database.RetryDelay,
	}

	// Initialize time provider
	tp := timeProvider.NewRealTimeProvider()

	// Connect to the database
	dbManager := database.NewManager(dbConfig, appLogger, tp)
	if _, err := dbManager.Connect(); err != nil {
		appLogger.Error("Failed to connect to database", map[string]any{
			"error": err.Error(),
		})
		os.Exit(1)
	}
	defer dbManager.Close()

	// Run migrations
	migrationMgr := migration.NewMigrationManager(dbManager.DB(), appLogger, tp)
	if err := migrationMgr.MigrateAll(); err != nil {
		appLogger.Error("Failed to run migrations", map[string]any{
			"error": err.Error(),
		})
		os.Exit(1)
	}

	// Seed the takeover allow-list
	if err := migration.SeedDefaultRoles(dbManager.DB(), appLogger); err != nil {
		appLogger.Error("Failed to seed default roles", map[string]any{
			"error": err.Error(),
		})
	}

	// Connect to Redis for the realtime feed and presence channel
	redisClient, err := realtime.NewRedisClient(realtime.Config{
		Addr:        cfg.Redis.Addr,
		Password:    cfg.Redis.Password,
		DB:          cfg.Redis.DB,
		DialTimeout: cfg.Redis.DialTimeout,
	}, appLogger)
	if err != nil {
		appLogger.Error("Failed to connect to redis", map[string]any{
			"error": err.Error(),
		})
		os.Exit(1)
	}
	defer redisClient.Close()

	// Initialize repositories
	lockRepo := repository.NewLockRepository(dbManager.DB(), tp, appLogger)
	roleRepo := repository.NewRoleRepository(dbManager.DB(), appLogger)
	auditRepo := repository.NewAuditRepository(dbManager.DB(), appLogger)

	// Audit sink: database row is authoritative, broker delivery best-effort
	var auditSink persistence.AuditSink = auditRepo
	if cfg.Amqp.Enabled {
		auditPublisher := messaging.NewAuditPublisher(cfg.Amqp.URL, appLogger)
		auditSink = messaging.NewFanoutSink(auditRepo, appLogger, auditPublisher)
	}

	// Realtime adapters
	lockFeed := realtime.NewRedisLockFeed(redisClient, appLogger)
	presenceChannel := realtime.NewRedisPresenceChannel(redisClient, appLogger, cfg.Presence.EntryTTL)

	// Initialize use cases
	lockService := lockUseCase.NewService(
		lockRepo,
		roleRepo,
		auditSink,
		lockFeed,
		tp,
		appLogger,
		lockUseCase.Config{
			StaleThreshold: cfg.Lock.StaleThreshold,
			PollInterval:   cfg.Lock.PollInterval,
			FeedSilence:    cfg.Lock.FeedSilence,
			SweepInterval:  cfg.Lock.SweepInterval,
		},
	)

	tracker := presenceUseCase.NewTracker(
		presenceChannel,
		tp,
		appLogger,
		presenceUseCase.Config{
			Debounce:           cfg.Presence.DebounceMs,
			RosterSyncInterval: cfg.Presence.RosterSyncInterval,
		},
	)
	tracker.Start(context.Background())

	// Background sweep of stale locks
	sweeper := lockUseCase.NewSweeper(lockService)
	sweeper.Start()

	// Initialize API handlers
	lockHandler := handler.NewLockHandler(lockService, appLogger)
	presenceHandler := handler.NewPresenceHandler(tracker, appLogger)
	healthHandler := handler.NewHealthHandler(dbManager.DB(), redisClient)

	// Initialize Gin router
	router := gin.New()

	// Setup middlewares
	routes.SetupMiddlewares(router, appLogger)

	// Setup routes
	routes.SetupRoutes(router, lockHandler, presenceHandler, healthHandler)

	// Create HTTP server with configurable timeout values
	server := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:           router,
		ReadTimeout:       cfg.Server.ReadTimeout,
		WriteTimeout:      cfg.Server.WriteTimeout,
		ReadHeaderTimeout: cfg.Server.ReadHeaderTimeout,
		IdleTimeout:       cfg.Server.IdleTimeout,
	}

	// Start the server in a goroutine
	go func() {
		appLogger.Info("Starting server", map[string]any{
			"port": cfg.Server.Port,
			"env":  cfg.Environment,
		})

		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			appLogger.Error("Failed to start server", map[string]any{
				"error": err.Error(),
			})
			os.Exit(1)
		}
	}()

	// Wait for interrupt signal to gracefully shut down the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	appLogger.Info("Shutting down server...", nil)

	// Create a deadline to wait for
	ctx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()

	// Stop background workers before the HTTP surface goes away
	sweeper.Stop()
	tracker.Close()

	// Shutdown the server
	if err := server.Shutdown(ctx); err != nil {
		appLogger.Error("Server forced to shutdown", map[string]any{
			"error": err.Error(),
		})
	}

	appLogger.Info("Server exited gracefully", nil)
}

// validateConfig ensures all required configuration values are present
func validateConfig(cfg *config.Config) error {
	var missingConfigs []string

	// Validate server configuration
	if cfg.Server.Port == 0 {
		missingConfigs = append(missingConfigs, "server.port")
	}

	if cfg.Server.ReadTimeout == 0 {
		missingConfigs = append(missingConfigs, "server.readTimeout")
	}

	if cfg.Server.WriteTimeout == 0 {
		missingConfigs = append(missingConfigs, "server.writeTimeout")
	}

	if cfg.Server.ShutdownTimeout == 0 {
		missingConfigs = append(missingConfigs, "server.shutdownTimeout")
	}

	// Validate database configuration
	if cfg.Database.Host == "" {
		missingConfigs = append(missingConfigs, "database.host (or IL_DB_HOST environment variable)")
	}

	if cfg.Database.Username == "" {
		missingConfigs = append(missingConfigs, "database.username (or IL_DB_USERNAME environment variable)")
	}

	if cfg.Database.Password == "" {
		missingConfigs = append(missingConfigs, "database.password (or IL_DB_PASSWORD environment variable)")
	}

	if cfg.Database.Database == "" {
		missingConfigs = append(missingConfigs, "database.database (or IL_DB_NAME environment variable)")
	}

	if cfg.Redis.Addr == "" {
		missingConfigs = append(missingConfigs, "redis.addr (or IL_REDIS_ADDR environment variable)")
	}

	// Lock timings must be positive; a zero stale threshold would read every
	// lock as stale
	if cfg.Lock.StaleThreshold <= 0 {
		missingConfigs = append(missingConfigs, "lock.staleThresholdMinutes")
	}

	if cfg.Lock.PollInterval <= 0 {
		missingConfigs = append(missingConfigs, "lock.pollIntervalSeconds")
	}

	if cfg.Lock.SweepInterval <= 0 {
		missingConfigs = append(missingConfigs, "lock.sweepIntervalSeconds")
	}

	// Environment should be set with a valid value
	if cfg.Environment == "" {
		missingConfigs = append(missingConfigs, "environment")
	} else if cfg.Environment != config.Development &&
		cfg.Environment != config.Production &&
		cfg.Environment != config.Test {
		return fmt.Errorf("invalid environment value: %s, must be one of: %s, %s, or %s",
			cfg.Environment, config.Development, config.Production, config.Test)
	}

	// Return error with list of missing configurations
	if len(missingConfigs) > 0 {
		return fmt.Errorf("missing required configurations: %v", missingConfigs)
	}

	return nil
}
