// Package main is the entry point for the civic complaints backend server.
// It provides a REST API for citizen complaint submission and tracking,
// voting, feedback, and an administrative console for triage, assignment,
// user moderation and analytics.
package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/aawaaz/civic-complaints-server/internal/config"
	"github.com/aawaaz/civic-complaints-server/internal/database"
	"github.com/aawaaz/civic-complaints-server/internal/handlers"
	"github.com/aawaaz/civic-complaints-server/internal/middleware"
	"github.com/aawaaz/civic-complaints-server/internal/services"
	"github.com/aawaaz/civic-complaints-server/internal/storage"
)

func main() {
	// Initialize structured logger
	logger, _ := zap.NewProduction()
	defer logger.Sync()
	sugar := logger.Sugar()

	// Load configuration from environment
	cfg, err := config.Load()
	if err != nil {
		sugar.Fatalf("Failed to load config: %v", err)
	}

	sugar.Infow("Starting civic complaints server",
		"port", cfg.Port,
		"env", cfg.Environment,
	)

	// Initialize database connection pool
	db, err := database.NewPool(cfg.DatabaseURL)
	if err != nil {
		sugar.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()

	// Create schema, seed departments and the admin account on first run
	bootCtx, bootCancel := context.WithTimeout(context.Background(), 30*time.Second)
	err = database.Bootstrap(bootCtx, db, database.BootstrapOptions{
		AdminUsername: cfg.AdminUsername,
		AdminEmail:    cfg.AdminEmail,
		AdminPassword: cfg.AdminPassword,
	}, sugar)
	bootCancel()
	if err != nil {
		sugar.Fatalf("Failed to bootstrap database: %v", err)
	}

	// Optional Redis client for distributed rate limiting
	var rdb *redis.Client
	if cfg.RedisURL != "" {
		opts, err := redis.ParseURL(cfg.RedisURL)
		if err != nil {
			sugar.Fatalf("Invalid REDIS_URL: %v", err)
		}
		rdb = redis.NewClient(opts)
		defer rdb.Close()
	}

	// Initialize storage and services
	store := storage.NewPostgres(db, sugar)
	tokenSvc := services.NewTokenService(cfg.JWTSecret, time.Duration(cfg.TokenTTLHours)*time.Hour)
	accountSvc := services.NewAccountService(store, tokenSvc, sugar)
	lifecycleSvc := services.NewLifecycleService(store, store, sugar)
	analyticsSvc := services.NewAnalyticsService(db, sugar)
	directorySvc := services.NewDirectoryService(store, sugar)

	uploads, err := handlers.NewImageStore(cfg.UploadDir, cfg.MaxUploadBytes)
	if err != nil {
		sugar.Fatalf("Failed to prepare upload directory: %v", err)
	}

	// Initialize handlers and the auth gate
	gate := middleware.NewAuthGate(tokenSvc, store, sugar)
	authHandler := handlers.NewAuthHandler(accountSvc, sugar)
	complaintHandler := handlers.NewComplaintHandler(lifecycleSvc, analyticsSvc, uploads, sugar)
	adminHandler := handlers.NewAdminHandler(lifecycleSvc, accountSvc, analyticsSvc, directorySvc, sugar)
	healthHandler := handlers.NewHealthHandler(db, sugar)

	// Build router
	r := chi.NewRouter()

	// Global middleware
	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(middleware.StructuredLogger(logger))
	r.Use(chimw.Recoverer)
	r.Use(chimw.Timeout(30 * time.Second))
	r.Use(middleware.SecurityHeaders())
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.AllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-Request-ID"},
		ExposedHeaders:   []string{"X-Request-ID"},
		AllowCredentials: false,
		MaxAge:           300,
	}))

	// Rate limiting (Redis-backed when configured, in-memory otherwise)
	r.Use(middleware.RateLimit(cfg.RateLimitRPM, rdb, sugar))

	// API Routes
	r.Route("/api/v1", func(r chi.Router) {
		// Health check
		r.Get("/health", healthHandler.Check)
		r.Get("/health/ready", healthHandler.Ready)

		// Authentication
		r.Route("/auth", func(r chi.Router) {
			r.Post("/register", authHandler.Register)
			r.Post("/login", authHandler.Login)

			r.Group(func(r chi.Router) {
				r.Use(gate.Authenticate)
				r.Get("/me", authHandler.Me)
				r.Put("/me", authHandler.UpdateMe)
			})
		})

		// Complaint endpoints
		r.Route("/complaints", func(r chi.Router) {
			// Anonymous submissions are allowed; a token attaches ownership
			r.With(gate.Optional).Post("/", complaintHandler.Submit)
			r.Get("/public", complaintHandler.ListPublic)
			r.Get("/{id}", complaintHandler.Get)

			// Citizen endpoints
			r.Group(func(r chi.Router) {
				r.Use(gate.Authenticate)
				r.With(middleware.Require(middleware.CapReadOwn)).Get("/my-complaints", complaintHandler.MyComplaints)
				r.With(middleware.Require(middleware.CapWriteOwn)).Post("/{id}/vote", complaintHandler.Vote)
				r.With(middleware.Require(middleware.CapWriteOwn)).Post("/{id}/feedback", complaintHandler.Feedback)
			})

			// Admin endpoints
			r.Group(func(r chi.Router) {
				r.Use(gate.Authenticate)
				r.Use(middleware.Require(middleware.CapAdmin))
				r.Get("/", complaintHandler.List)
				r.Put("/{id}/status", complaintHandler.UpdateStatus)
				r.Put("/{id}/transfer", complaintHandler.Transfer)
				r.Get("/stats/overview", complaintHandler.Stats)
				r.Get("/analytics/overview", complaintHandler.Analytics)
			})
		})

		// Admin console
		r.Route("/admin", func(r chi.Router) {
			r.Use(gate.Authenticate)
			r.Use(middleware.Require(middleware.CapAdmin))

			r.Get("/dashboard/summary", adminHandler.Dashboard)
			r.Get("/complaints", complaintHandler.List)
			r.Get("/complaints/{id}", adminHandler.GetComplaint)
			r.Put("/complaints/{id}", adminHandler.UpdateComplaint)
			r.Get("/complaints/{id}/report", adminHandler.Report)
			r.Get("/users", adminHandler.ListUsers)
			r.Put("/users/{id}/status", adminHandler.SetUserStatus)
			r.Get("/departments", adminHandler.ListDepartments)
			r.Post("/departments", adminHandler.CreateDepartment)
			r.Put("/departments/{id}", adminHandler.UpdateDepartment)
			r.Get("/officers", adminHandler.ListOfficers)
			r.Post("/officers", adminHandler.CreateOfficer)
			r.Put("/officers/{id}", adminHandler.UpdateOfficer)
		})
	})

	// Serve uploaded complaint images
	r.Handle("/uploads/*", http.StripPrefix("/uploads/", http.FileServer(http.Dir(uploads.Dir()))))

	// Create HTTP server
	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Port),
		Handler:      r,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Graceful shutdown
	done := make(chan os.Signal, 1)
	signal.Notify(done, os.Interrupt, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		sugar.Infof("Server listening on :%d", cfg.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			sugar.Fatalf("Server error: %v", err)
		}
	}()

	<-done
	sugar.Info("Shutting down gracefully...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		sugar.Fatalf("Forced shutdown: %v", err)
	}

	sugar.Info("Server stopped")
}
