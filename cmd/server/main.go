package main

import (
	"context"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"go301/internal/cache"
	"go301/internal/config"
	"go301/internal/db"
	"go301/internal/metrics"
	"go301/internal/redirects"
	"go301/internal/server"
)

func main() {
	ctx := context.Background()
	cfg := config.Load()

	// Initialize database
	database, err := db.New(ctx, cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer database.Close()

	// Run migrations
	if err := database.RunMigrations(cfg.DatabaseURL); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}
	log.Println("Migrations completed successfully")

	if cfg.SeedDevRedirects && cfg.IsDev() {
		if err := database.SeedDevRedirects(ctx); err != nil {
			log.Printf("Warning: failed to seed dev redirects: %v", err)
		}
	}

	// Build the redirect repository on top of the store and cache
	ruleCache := cache.New(cfg.CacheTTL(), cfg.CacheEnabled)
	repo := redirects.New(database, ruleCache, slog.Default())
	if err := repo.Warm(ctx); err != nil {
		log.Printf("Warning: %v", err)
	}

	metrics.Init(ruleCache)

	srv := server.New(cfg)
	srv.RegisterRoutes(repo)

	// Graceful shutdown
	go func() {
		if err := srv.Start(); err != nil {
			log.Printf("Server error: %v", err)
		}
	}()

	log.Printf("Server started on %s", cfg.ServerAddr)

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("Shutting down server...")
	if err := srv.Shutdown(); err != nil {
		log.Fatalf("Server forced to shutdown: %v", err)
	}
	log.Println("Server exited")
}
