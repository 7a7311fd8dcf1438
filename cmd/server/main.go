package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"legendarios/internal/config"
	"legendarios/internal/database"
	"legendarios/internal/handlers"
	"legendarios/internal/repository"
	"legendarios/internal/security"
	"legendarios/internal/service"
)

func main() {
	// Load configuration
	cfg := config.Load()

	// Initialize database with config (supports sqlite, postgres, mysql)
	db, err := database.InitializeWithConfig(cfg)
	if err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}
	defer db.Close()

	log.Printf("Database connection established (type: %s)", cfg.DatabaseType)

	// Run migrations
	if err := db.RunMigrations(cfg.MigrationsPath); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}

	log.Println("Migrations completed successfully")

	// Initialize repositories
	participantRepo := repository.NewParticipantRepository(db)
	familyRepo := repository.NewFamilyRepository(db)
	ziplineRepo := repository.NewZiplineRepository(db)

	// Initialize services
	emailService, err := service.NewEmailService(cfg.AWSRegion, cfg.SESFromEmail, cfg.SESFromName, cfg.AppBaseURL, cfg.Debug)
	if err != nil {
		log.Fatalf("Failed to initialize email service: %v", err)
	}
	rosterService := service.NewRosterService(participantRepo, familyRepo, emailService)
	distributionService := service.NewDistributionService(participantRepo, familyRepo)
	ziplineService := service.NewZiplineService(participantRepo, familyRepo, ziplineRepo)

	// Initialize handlers
	participantHandler := handlers.NewParticipantHandler(rosterService)
	familyHandler := handlers.NewFamilyHandler(distributionService, rosterService)
	ziplineHandler := handlers.NewZiplineHandler(ziplineService)

	// Registration and generation endpoints are rate limited per IP
	limiter := security.NewRateLimiter(30, time.Minute)

	// Setup routes
	mux := http.NewServeMux()

	mux.HandleFunc("POST /api/participants", handlers.RateLimit(limiter, participantHandler.Register))
	mux.HandleFunc("GET /api/participants", participantHandler.List)
	mux.HandleFunc("GET /api/participants/{id}", participantHandler.Get)
	mux.HandleFunc("PUT /api/participants/{id}", participantHandler.Update)
	mux.HandleFunc("DELETE /api/participants/{id}", participantHandler.Delete)
	mux.HandleFunc("POST /api/participants/{id}/waiver/accept", participantHandler.AcceptWaiver)

	mux.HandleFunc("GET /api/families", familyHandler.List)
	mux.HandleFunc("PUT /api/families/{id}", familyHandler.Rename)
	mux.HandleFunc("DELETE /api/families/{id}", familyHandler.Delete)
	mux.HandleFunc("POST /api/families/distribute", handlers.RateLimit(limiter, familyHandler.Distribute))
	mux.HandleFunc("GET /api/families/violations", familyHandler.Violations)

	mux.HandleFunc("POST /api/zipline/pairs", handlers.RateLimit(limiter, ziplineHandler.GeneratePairs))
	mux.HandleFunc("GET /api/zipline/runs", ziplineHandler.ListRuns)
	mux.HandleFunc("GET /api/zipline/runs/{id}/pairs", ziplineHandler.GetRunPairs)

	// Wrap with logging middleware
	handler := handlers.Logging(mux)

	// Start server
	addr := ":" + cfg.ServerPort
	server := &http.Server{
		Addr:         addr,
		Handler:      handler,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Printf("Server starting on http://localhost%s", addr)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Server failed: %v", err)
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("Server shutting down...")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		log.Printf("Shutdown error: %v", err)
	}
}
