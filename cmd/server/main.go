package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"leetboard/internal/api"
	"leetboard/internal/app/provider"
	"leetboard/internal/app/service"
	"leetboard/internal/common"
	"leetboard/internal/domain/repository"
	"leetboard/internal/platform/config"
	"leetboard/internal/platform/database"
	"leetboard/internal/platform/kv"
)

func main() {
	// 1. Load Configuration
	cfg := config.Load()
	log.Println("INFO: Configuration loaded")

	// 2. Load the roster once; it does not change while the process runs
	usernames, err := loadRoster(cfg)
	if errors.Is(err, common.ErrNotFound) {
		log.Fatalf("Participant roster missing in %q (create the participants table or the %s list): %v",
			cfg.RosterSource, cfg.RedisRosterKey, err)
	}
	if err != nil {
		log.Fatalf("Could not load participant roster from %q: %v", cfg.RosterSource, err)
	}

	// 3. Initialize Provider & Aggregator
	statsProvider := provider.NewLeetCodeStatsProvider(cfg.ProviderBaseURL, cfg.ProfileURLTemplate, &http.Client{})
	aggregator, err := service.NewStatsAggregator(usernames, statsProvider, service.AggregatorOptions{
		Concurrency:  cfg.FetchConcurrency,
		FetchTimeout: cfg.FetchTimeout,
	})
	if err != nil {
		log.Fatalf("Could not build aggregator: %v", err)
	}
	tracked := aggregator.Usernames()
	log.Printf("INFO: Tracking %d participants: %v", len(tracked), tracked)

	// 4. Initialize Router & HTTP Server
	router := api.NewRouter(aggregator)

	server := &http.Server{
		Addr:         ":" + cfg.APIPort,
		Handler:      router,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 90 * time.Second, // an aggregation pass waits on every upstream call
		IdleTimeout:  120 * time.Second,
	}

	// 5. Graceful Shutdown
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)

	go func() {
		log.Printf("Server starting on port %s", cfg.APIPort)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Could not listen on %s: %v\n", cfg.APIPort, err)
		}
	}()
	log.Printf("INFO: Server running at http://localhost:%s", cfg.APIPort)

	<-stop

	log.Println("Shutting down server...")
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Fatalf("Server shutdown failed: %v", err)
	}
	log.Println("Server stopped gracefully.")
}

func loadRoster(cfg *config.Config) ([]string, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	switch cfg.RosterSource {
	case config.RosterSourceEnv, "":
		return repository.NewStaticRosterRepository(cfg.Participants).ListUsernames(ctx)

	case config.RosterSourcePostgres:
		db, err := database.Connect(ctx, cfg.DBConnStr)
		if err != nil {
			return nil, err
		}
		defer database.Close(db)
		return repository.NewPgRosterRepository(db).ListUsernames(ctx)

	case config.RosterSourceRedis:
		rdb, err := kv.Connect(ctx, kv.Options{Addr: cfg.RedisAddr, Password: cfg.RedisPassword, DB: cfg.RedisDB})
		if err != nil {
			return nil, err
		}
		defer kv.Close(rdb)
		return repository.NewRedisRosterRepository(rdb, cfg.RedisRosterKey).ListUsernames(ctx)
	}
	return nil, fmt.Errorf("unknown ROSTER_SOURCE %q", cfg.RosterSource)
}
