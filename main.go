package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/joho/godotenv"

	"safi-kitchen/internal/config"
	"safi-kitchen/internal/feed"
	"safi-kitchen/internal/handlers"
	"safi-kitchen/internal/kafka"
	"safi-kitchen/internal/logger"
	"safi-kitchen/internal/middleware"
	"safi-kitchen/internal/models"
	"safi-kitchen/internal/notify"
	rediswrap "safi-kitchen/internal/redis"
	"safi-kitchen/internal/services"
	"safi-kitchen/internal/storage"

	"github.com/gin-gonic/gin"
)

// Global logger instance
var log *logger.Logger

func main() {
	log = logger.NewLogger()
	defer log.Close()

	// Load environment variables from .env file
	if err := godotenv.Load(); err != nil {
		log.Warn("ENV", "Error loading .env file, using environment variables")
	}

	log.LogProcess("STARTUP", "Safi Kitchen starting up...")
	log.Info("SYSTEM", "Initializing components...")

	cfg := config.Load()
	log.Info("CONFIG", "Configuration loaded successfully")

	log.LogProcess("DATABASE", "Initializing MySQL database...")
	store, err := storage.NewMySQLStore(cfg.Database, log)
	if err != nil {
		log.Fatal("DATABASE", "Failed to initialize MySQL: "+err.Error())
	}
	defer store.Close()
	log.LogDatabase("INIT", "mysql", "MySQL storage initialized successfully")

	log.LogProcess("KAFKA", "Initializing Kafka producer...")
	kafkaProducer, err := kafka.NewProducer(cfg.Kafka.Brokers, cfg.Kafka.MockMode, log)
	if err != nil {
		log.Fatal("KAFKA", "Failed to create Kafka producer: "+err.Error())
	}
	defer kafkaProducer.Close()
	log.LogKafka("INIT", "producer", "Kafka producer initialized successfully")

	redisClient := redis.NewClient(&redis.Options{
		Addr: cfg.Redis.Addr,
	})
	sessions := rediswrap.NewRedis(redisClient)
	log.LogProcess("SERVICE", "Redis session store ready")

	if cfg.Admin.Passkey == "" {
		log.Warn("AUTH", "ADMIN_PASSKEY environment variable not set")
		log.Warn("AUTH", "Admin login will reject every passkey until one is configured")
	}

	notifier := notify.NewNotifier(cfg.Kitchen.ContactPhone, log)
	authService := services.NewAuthService(cfg.Admin, sessions, log)
	orderService := services.NewOrderService(store, kafkaProducer, notifier, log, cfg.Kitchen)
	log.LogProcess("SERVICE", "Order and auth services initialized")

	// Mount the two realtime views. Each holds its own subscription; both are
	// torn down on shutdown.
	ctx, stop := context.WithCancel(context.Background())
	defer stop()

	var dashboard *feed.Dashboard
	var miniFeed *feed.MiniFeed
	if cfg.Kafka.MockMode {
		log.Warn("FEED", "Kafka mock mode: realtime views run without subscriptions")
		dashboard, err = feed.MountStaticDashboard(ctx, store.ListOrders, cfg.Kitchen.PrepGoal)
		if err != nil {
			log.Fatal("FEED", "Failed to mount dashboard view: "+err.Error())
		}
		miniFeed = feed.MountStaticMiniFeed()
	} else {
		dashboard, err = feed.MountDashboard(ctx, cfg.Kafka.Brokers, cfg.Kafka.GroupID+"-dashboard", store.ListOrders, cfg.Kitchen.PrepGoal, log)
		if err != nil {
			log.Fatal("FEED", "Failed to mount dashboard view: "+err.Error())
		}

		miniFeed, err = feed.MountMiniFeed(ctx, cfg.Kafka.Brokers, cfg.Kafka.GroupID+"-minifeed", func(o *models.Order) {
			log.LogOrder("ALERT", o.ID, "Live kitchen signal")
		}, log)
		if err != nil {
			log.Fatal("FEED", "Failed to mount mini feed view: "+err.Error())
		}
	}
	defer dashboard.Unmount()
	defer miniFeed.Unmount()
	log.LogProcess("FEED", "Realtime views mounted")

	orderHandler := handlers.NewOrderHandler(orderService)
	adminHandler := handlers.NewAdminHandler(orderService, dashboard, miniFeed)
	authHandler := handlers.NewAuthHandler(authService)
	log.LogProcess("HANDLER", "All handlers initialized")

	router := setupRouter(orderHandler, adminHandler, authHandler, authService)
	log.LogProcess("ROUTER", "HTTP router configured")

	srv := &http.Server{
		Addr:         cfg.Server.Port,
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	go func() {
		log.LogProcess("SERVER", "Starting HTTP server on "+cfg.Server.Port)
		log.Info("STARTUP", "Safi Kitchen is ready to accept orders!")
		log.Info("STARTUP", "Health check available at: http://localhost"+cfg.Server.Port+"/health")
		log.Info("STARTUP", "Order API available at: http://localhost"+cfg.Server.Port+"/api/v1/orders")

		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("SERVER", "Server failed to start: "+err.Error())
		}
	}()

	// Wait for interrupt signal to gracefully shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Warn("SHUTDOWN", "Received shutdown signal, initiating graceful shutdown...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Fatal("SHUTDOWN", "Server forced to shutdown: "+err.Error())
	}

	log.Info("SHUTDOWN", "Safi Kitchen shutdown completed successfully")
}

func setupRouter(orderHandler *handlers.OrderHandler, adminHandler *handlers.AdminHandler, authHandler *handlers.AuthHandler, authService *services.AuthService) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)
	router := gin.New()

	router.Use(middleware.EnhancedLogger(log))
	router.Use(middleware.Recovery(log))
	router.Use(middleware.CORS())
	router.Use(middleware.RateLimit(log))

	// Health check
	router.GET("/health", func(c *gin.Context) {
		log.LogAPI("GET", "/health", "200", "0ms")
		c.JSON(http.StatusOK, gin.H{
			"status":    "healthy",
			"timestamp": time.Now().UTC(),
			"service":   "safi-kitchen",
			"version":   "1.0.0",
		})
	})

	v1 := router.Group("/api/v1")
	{
		// Public ordering routes
		orders := v1.Group("/orders")
		{
			orders.POST("", orderHandler.PlaceOrder)
			orders.POST("/quick", orderHandler.QuickOrder)
			orders.GET("/:id", orderHandler.GetOrder)
		}

		// Landing page live kitchen signal
		v1.GET("/feed", adminHandler.Feed)

		auth := v1.Group("/auth")
		{
			auth.POST("/login", authHandler.Login)
			auth.POST("/logout", authHandler.Logout)
		}

		// Kitchen control dashboard
		admin := v1.Group("/admin")
		admin.Use(middleware.AdminAuth(authService, log))
		{
			admin.GET("/orders", adminHandler.ListOrders)
			admin.PATCH("/orders/:id/status", adminHandler.AdvanceStatus)
			admin.POST("/orders/deliver-all", adminHandler.DeliverAll)
			admin.GET("/orders/:id/receipt", adminHandler.Receipt)
			admin.GET("/stats", adminHandler.Stats)
		}
	}

	log.LogProcess("ROUTER", "All routes registered successfully")
	return router
}
