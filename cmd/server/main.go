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

	"krushak/internal/cache"
	"krushak/internal/config"
	"krushak/internal/database"
	"krushak/internal/geocode"
	"krushak/internal/handler"
	"krushak/internal/mailer"
	"krushak/internal/metrics"
	"krushak/internal/queue"
	"krushak/internal/repository"
	"krushak/internal/router"
	"krushak/internal/service"
	"krushak/internal/storage"
	"krushak/internal/validator"
	"krushak/pkg/auth"
)

// @title           Krushak API
// @version         1.0
// @description     Farm equipment rental marketplace API built with Gin, MongoDB and Redis.

// @contact.name    API Support
// @contact.email   support@krushak.in

// @host            localhost:8080
// @BasePath        /api/v1

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Enter your bearer token in the format: Bearer {token}

func main() {
	// Load configuration
	cfg := config.Load()
	log.Println("Configuration loaded")

	// Register custom validators and metrics
	validator.Register()
	metrics.Register()

	// Database
	mongoDB := database.NewMongoDB(cfg.MongoURI, cfg.MongoDatabase)
	defer mongoDB.Close()

	// Redis Cache
	redisCache := cache.NewRedis(cfg.RedisURI)
	defer redisCache.Close()

	// S3 Storage
	s3Client := storage.NewS3Client(cfg.S3Endpoint, cfg.S3AccessKey, cfg.S3SecretKey, cfg.S3Bucket, cfg.S3UseSSL, cfg.S3PublicURL)

	// Geocoder
	geocoder := geocode.NewNominatimClient(cfg.GeocoderURL, cfg.GeocoderUserAgent)

	// JWT Manager and refresh token generator
	jwtManager := auth.NewJWTManager(cfg.AccessTokenSecret, cfg.AccessTokenExpiry)
	tokenGen := auth.NewSessionTokenGenerator()

	// Repository layer
	userRepo := repository.NewUserRepository(mongoDB.Database)
	sessionRepo := repository.NewSessionRepository(mongoDB.Database)
	equipmentRepo := repository.NewEquipmentRepository(mongoDB.Database)
	bookingRepo := repository.NewBookingRepository(mongoDB.Database)

	// Notification queue and mailer
	notificationQueue := queue.NewMemoryQueue(100)
	smtpMailer := mailer.NewSMTPMailer(cfg.SMTPHost, cfg.SMTPPort, cfg.SMTPUser, cfg.SMTPPassword, cfg.SMTPFrom)
	notificationProcessor := queue.NewProcessor(notificationQueue, smtpMailer, 2)

	// Service layer
	resetStore := cache.NewResetTokenStore(redisCache)
	authService := service.NewAuthService(
		userRepo, sessionRepo, resetStore, jwtManager, tokenGen, notificationQueue,
		cfg.AccessTokenExpiry, cfg.RefreshTokenExpiry, cfg.BaseURL,
		cfg.GoogleClientID, cfg.GoogleClientSecret, cfg.GoogleRedirectURL,
	)
	userService := service.NewUserService(userRepo, redisCache, s3Client)
	equipmentService := service.NewEquipmentService(equipmentRepo, bookingRepo, userService, geocoder, s3Client, redisCache)
	bookingService := service.NewBookingService(bookingRepo, equipmentRepo, userRepo, notificationQueue, cfg.AdminEmail)
	sitemapService := service.NewSitemapService(userRepo, equipmentRepo, cfg.BaseURL)

	// Handler layer
	secureCookies := cfg.GinMode == "release"
	handlers := router.Handlers{
		Auth:      handler.NewAuthHandler(authService, cfg.AccessTokenExpiry, cfg.RefreshTokenExpiry, secureCookies),
		User:      handler.NewUserHandler(userService),
		Equipment: handler.NewEquipmentHandler(equipmentService),
		Booking:   handler.NewBookingHandler(bookingService),
		Sitemap:   handler.NewSitemapHandler(sitemapService),
	}

	// Router
	r := router.Setup(cfg, jwtManager, handlers)

	// Create context for graceful shutdown
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Start notification processor
	notificationProcessor.Start(ctx)

	// Create HTTP server for graceful shutdown support
	addr := fmt.Sprintf(":%s", cfg.ServerPort)
	srv := &http.Server{
		Addr:    addr,
		Handler: r,
	}

	// Start server in goroutine
	go func() {
		log.Printf("Server starting on %s", addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Failed to start server: %v", err)
		}
	}()

	// Wait for shutdown signal
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	<-sigCh
	log.Println("Shutdown signal received")

	// Graceful shutdown with timeout
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	// Shutdown HTTP server first (drain connections)
	log.Println("Shutting down HTTP server...")
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Printf("HTTP server shutdown error: %v", err)
	}

	// Cancel context to signal processor shutdown
	cancel()

	// Stop notification processor (waits for workers)
	log.Println("Stopping notification processor...")
	notificationProcessor.Stop()

	log.Println("Server shutdown complete")
}
