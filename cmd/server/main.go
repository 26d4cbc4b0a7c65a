package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/quocanhngo/pushreg/internal/config"
	"github.com/quocanhngo/pushreg/internal/handler"
	"github.com/quocanhngo/pushreg/internal/middleware"
	"github.com/quocanhngo/pushreg/internal/model"
	"github.com/quocanhngo/pushreg/internal/repository"
	"github.com/quocanhngo/pushreg/internal/router"
	"github.com/quocanhngo/pushreg/internal/service"
	"github.com/quocanhngo/pushreg/migrations"
	"github.com/redis/go-redis/v9"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// @title           Push Registration API
// @version         1.0
// @description     Records device push notification tokens.

// @license.name  MIT
// @license.url   https://opensource.org/licenses/MIT

// @BasePath  /api

func main() {
	// ==================== Load Config ====================
	cfg := config.Load()
	log.Printf("🚀 Starting Push Registration API [env=%s]", cfg.App.Env)

	// ==================== Database (PostgreSQL) ====================
	gormLogger := logger.Default.LogMode(logger.Info)
	if cfg.App.Env == "production" {
		gormLogger = logger.Default.LogMode(logger.Warn)
	}

	db, err := gorm.Open(postgres.Open(cfg.DB.DSN()), &gorm.Config{
		Logger:         gormLogger,
		TranslateError: true,
	})
	if err != nil {
		log.Fatalf("❌ Failed to connect to database: %v", err)
	}
	log.Println("✅ Connected to PostgreSQL")

	// ==================== Run Migrations ====================
	if err := migrations.Run(cfg.DB.URL()); err != nil {
		log.Printf("⚠️  Migration warning: %v", err)
		log.Println("📦 Falling back to GORM AutoMigrate...")
		if err := db.AutoMigrate(&model.NotificationToken{}); err != nil {
			log.Fatalf("❌ Failed to migrate database: %v", err)
		}
	}
	log.Println("✅ Database migrated successfully")

	// ==================== Redis (optional, rate limiting) ====================
	var registerLimiter gin.HandlerFunc
	var rdb *redis.Client
	if cfg.Redis.Enabled() && cfg.RateLimit.Requests > 0 {
		rdb = redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr(),
			Password: cfg.Redis.Password,
			DB:       0,
		})
		pingCtx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
		if _, err := rdb.Ping(pingCtx).Result(); err != nil {
			log.Printf("⚠️  Redis not available: %v (rate limiting disabled)", err)
			_ = rdb.Close()
			rdb = nil
		} else {
			registerLimiter = middleware.RateLimitMiddleware(rdb, "register", cfg.RateLimit.Requests, cfg.RateLimit.Window)
			log.Printf("✅ Connected to Redis (register limit: %d per %s)", cfg.RateLimit.Requests, cfg.RateLimit.Window)
		}
		cancel()
	}

	// ==================== Initialize Layers ====================
	tokenRepo := repository.NewNotificationTokenRepository(db)
	notificationService := service.NewNotificationService(tokenRepo)

	notificationHandler := handler.NewNotificationHandler(notificationService)
	healthHandler := handler.NewHealthHandler("pushreg-api", tokenRepo)

	// ==================== Gin Router ====================
	if cfg.App.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	swaggerJSON := cfg.App.SwaggerJSON
	if _, err := os.Stat(swaggerJSON); err != nil {
		log.Printf("⚠️  Swagger document not found at %s (docs disabled)", swaggerJSON)
		swaggerJSON = ""
	}

	engine := router.New(router.Deps{
		Notification:    notificationHandler,
		Health:          healthHandler,
		RegisterLimiter: registerLimiter,
		CORSOrigins:     cfg.CORS.Origins,
		SwaggerJSON:     swaggerJSON,
	})

	// ==================== Start Server ====================
	srv := &http.Server{
		Addr:              ":" + cfg.App.Port,
		Handler:           engine,
		ReadHeaderTimeout: 10 * time.Second,
	}

	// Graceful shutdown
	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("❌ Server failed: %v", err)
		}
	}()

	log.Printf("🌐 Push Registration API running on http://0.0.0.0:%s", cfg.App.Port)
	log.Printf("📮 Register endpoint: POST http://0.0.0.0:%s/api/notifications/register", cfg.App.Port)
	if swaggerJSON != "" {
		log.Printf("📋 API docs: http://0.0.0.0:%s/swagger/index.html", cfg.App.Port)
	}

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Println("🛑 Shutting down server...")

	// Give ongoing requests 5 seconds to complete
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Fatalf("❌ Server forced to shutdown: %v", err)
	}

	if rdb != nil {
		_ = rdb.Close()
	}
	if sqlDB, err := db.DB(); err == nil {
		_ = sqlDB.Close()
	}
	log.Println("✅ Server exited gracefully")
}
