package main

import (
	"fmt"
	"log"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"school-payments-service/internal/cache"
	"school-payments-service/internal/config"
	"school-payments-service/internal/gateway"
	"school-payments-service/internal/handlers"
	"school-payments-service/internal/middleware"
	"school-payments-service/internal/models"
	"school-payments-service/internal/repository"
	"school-payments-service/internal/services"
)

func main() {
	// Load .env for local development; real deployments use the environment
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	cfg := config.Load()

	appLogger := logrus.New()
	appLogger.SetFormatter(&logrus.JSONFormatter{})
	appLogger.SetLevel(logrus.InfoLevel)
	baseEntry := logrus.NewEntry(appLogger)

	// Connect to database
	db, err := connectDatabase(cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	// Auto-migrate models
	if err := db.AutoMigrate(
		&models.Order{},
		&models.OrderStatus{},
		&models.WebhookLog{},
	); err != nil {
		log.Printf("Warning: Auto-migration failed: %v", err)
	}

	// Initialize status cache (degrades to a no-op when redis is down)
	statusCache, err := cache.NewStatusCache(cfg.RedisHost, cfg.RedisPort, cfg.RedisPassword, cfg.RedisDB, cfg.CacheTTL)
	if err != nil {
		log.Printf("Warning: Failed to initialize status cache: %v", err)
	}
	if statusCache != nil && statusCache.IsAvailable() {
		log.Println("✓ Status cache connected")
	} else {
		log.Println("Status cache unavailable, lookups go straight to the database")
	}

	// Initialize repositories
	orderRepo := repository.NewOrderRepository(db)
	webhookRepo := repository.NewWebhookRepository(db)
	transactionRepo := repository.NewTransactionRepository(db)

	// Initialize gateway factory
	gatewayFactory := gateway.NewFactory(gateway.Config{
		BaseURL: cfg.GatewayBaseURL,
		APIKey:  cfg.GatewayAPIKey,
		PGKey:   cfg.GatewayPGKey,
	})

	// Initialize services
	orderService := services.NewOrderService(orderRepo, gatewayFactory, statusCache, baseEntry.WithField("component", "order-service"))
	webhookService := services.NewWebhookService(orderRepo, webhookRepo, statusCache, baseEntry.WithField("component", "webhook-service"))
	transactionService := services.NewTransactionService(transactionRepo, baseEntry.WithField("component", "transaction-service"))

	// Initialize handlers
	orderHandler := handlers.NewOrderHandler(orderService)
	webhookHandler := handlers.NewWebhookHandler(webhookService)
	transactionHandler := handlers.NewTransactionHandler(transactionService)

	// Setup router
	router := setupRouter(cfg, db, orderHandler, webhookHandler, transactionHandler)

	// Start server
	log.Printf("School Payments Service starting on port %s (env: %s)", cfg.Port, cfg.Environment)
	if err := router.Run(":" + cfg.Port); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}

// connectDatabase establishes a connection to the database
func connectDatabase(databaseURL string) (*gorm.DB, error) {
	db, err := gorm.Open(postgres.Open(databaseURL), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Info),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get database instance: %w", err)
	}

	if err := sqlDB.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	log.Println("✓ Connected to database")
	return db, nil
}

// setupRouter configures the HTTP router
func setupRouter(cfg *config.Config, db *gorm.DB, orderHandler *handlers.OrderHandler, webhookHandler *handlers.WebhookHandler, transactionHandler *handlers.TransactionHandler) *gin.Engine {
	router := gin.Default()

	// Security headers middleware
	router.Use(middleware.SecurityHeaders())

	// CORS middleware with secure configuration
	corsConfig := middleware.DefaultCORSConfig()
	if cfg.CORSAllowedOrigins != "" {
		corsConfig.AllowedOrigins = strings.Split(cfg.CORSAllowedOrigins, ",")
	} else {
		// Default for development - in production, set CORS_ALLOWED_ORIGINS
		corsConfig.AllowedOrigins = []string{
			"http://localhost:3000",
			"http://localhost:3001",
		}
	}
	router.Use(middleware.CORS(corsConfig))

	// Request validation middleware
	router.Use(middleware.ValidateRequest())

	// Request ID middleware
	router.Use(middleware.RequestID())

	// Audit logging middleware
	router.Use(middleware.AuditMiddleware(nil))

	// Health check
	router.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"status":  "healthy",
			"service": "school-payments-service",
		})
	})

	// Readiness check includes a database ping
	router.GET("/ready", func(c *gin.Context) {
		sqlDB, err := db.DB()
		if err == nil {
			err = sqlDB.PingContext(c.Request.Context())
		}
		if err != nil {
			c.JSON(503, gin.H{"status": "not ready", "error": err.Error()})
			return
		}
		c.JSON(200, gin.H{"status": "ready"})
	})

	// API routes
	v1 := router.Group("/api/v1")
	{
		orders := v1.Group("/orders")
		{
			orders.POST("", orderHandler.CreateOrder)
			orders.GET("/:customOrderId/status", orderHandler.GetOrderStatus)
		}

		transactions := v1.Group("/transactions")
		{
			transactions.GET("", transactionHandler.ListTransactions)
			transactions.GET("/school/:schoolId", transactionHandler.ListTransactionsForSchool)
		}
	}

	// Gateway callback - public
	router.POST("/webhook", webhookHandler.HandleWebhook)

	return router
}
