package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"leetboard/internal/client"
	"leetboard/internal/platform/config"
)

func main() {
	cfg := config.Load()

	tiers := client.Tiers{
		Easy:       cfg.TotalEasyProblems,
		Medium:     cfg.TotalMediumProblems,
		Hard:       cfg.TotalHardProblems,
		TotalUsers: cfg.TotalUsers,
	}
	apiClient := client.New(cfg.APIURL, &http.Client{})
	router := client.NewBoardRouter(apiClient, client.NewRenderer(tiers))

	server := &http.Server{
		Addr:         ":" + cfg.BoardPort,
		Handler:      router,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 90 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)

	go func() {
		log.Printf("Board starting on port %s, reading from %s", cfg.BoardPort, cfg.APIURL)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Could not listen on %s: %v\n", cfg.BoardPort, err)
		}
	}()

	<-stop

	log.Println("Shutting down board...")
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Fatalf("Board shutdown failed: %v", err)
	}
	log.Println("Board stopped gracefully.")
}
