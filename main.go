package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/gatewise/gatewise/audit"
	"github.com/gatewise/gatewise/config"
	"github.com/gatewise/gatewise/controller"
	"github.com/gatewise/gatewise/db"
	"github.com/gatewise/gatewise/equipment"
	logger "github.com/gatewise/gatewise/logging"
	"github.com/gatewise/gatewise/router"
	"github.com/gatewise/gatewise/service"
	"github.com/gatewise/gatewise/util"
)

func main() {
	// Initialize configuration
	if err := config.InitConfig(); err != nil {
		log.Fatalf("Failed to initialize config: %v", err)
	}

	// Initialize logger
	logger.InitLogger(config.GetString("log.dir"))
	defer logger.Sync()

	// Initialize Neo4j
	if err := db.InitNeo4j(); err != nil {
		logger.Fatal("Failed to initialize Neo4j", zap.Error(err))
	}
	defer db.CloseNeo4j()

	// Initialize Redis
	if err := db.InitRedis(); err != nil {
		logger.Fatal("Failed to initialize Redis", zap.Error(err))
	}
	defer db.CloseRedis()

	// Initialize EventBus
	eventBus := util.NewEventBus()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	eventBus.Start(ctx)

	// Initialize utilities
	validationUtil := util.NewValidationUtil()
	cacheService := util.NewCacheService()
	notificationService := util.NewNotificationService()

	auditRepository, err := audit.NewElasticsearchRepository(config.GetString("elasticsearch.url"))
	if err != nil {
		logger.Fatal("Failed to initialize audit repository", zap.Error(err))
	}
	auditService := audit.NewService(auditRepository)

	// Equipment gateway
	callTimeout, err := time.ParseDuration(config.GetString("equipment.callTimeout"))
	if err != nil {
		callTimeout = 10 * time.Second
	}
	gateway := equipment.NewHTTPGateway(callTimeout)

	// Initialize services
	serviceCfg := service.Config{
		DefaultValidityDays: config.GetInt("accessrelease.defaultValidityDays"),
		FanoutConcurrency:   config.GetInt("equipment.fanoutConcurrency"),
		SyncBatchSize:       config.GetInt("synchronization.batchSize"),
		SweepInterval:       time.Duration(config.GetInt("sweeper.intervalHours")) * time.Hour,
	}
	services, err := service.InitializeServices(
		db.Neo4jDriver,
		auditService,
		gateway,
		validationUtil,
		cacheService,
		notificationService,
		eventBus,
		serviceCfg,
	)
	if err != nil {
		logger.Fatal("Failed to initialize services", zap.Error(err))
	}

	// Start the expiration sweeper
	services.Sweeper.Start(ctx)
	defer services.Sweeper.Stop()

	// Initialize controllers
	controllers := controller.InitializeControllers(services)

	// Set up Gin
	gin.SetMode(gin.ReleaseMode)
	engine := router.SetupRouter(
		controllers,
		config.GetString("auth.secret"),
		config.GetInt("ratelimit.requests"),
		time.Minute,
	)

	// Set up the server
	server := &http.Server{
		Addr:    fmt.Sprintf(":%s", config.GetString("server.port")),
		Handler: engine,
	}

	// Start the server in a goroutine
	go func() {
		logger.Info("Starting server", zap.String("port", config.GetString("server.port")))
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	// Wait for interrupt signal to gracefully shut down the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Info("Shutting down server...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Fatal("Server forced to shutdown", zap.Error(err))
	}

	logger.Info("Server exiting")
}
