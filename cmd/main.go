package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/hazardhub/hazardhub_api/config"
	deps "github.com/hazardhub/hazardhub_api/internal/debs"
	api "github.com/hazardhub/hazardhub_api/internal/http/rest"
)

const (
	allowConnectionsAfterShutdown = 1 * time.Second
)

func main() {
	cfg := config.New()
	d := deps.New(cfg)

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	if err := d.DB.EnsureSchema(ctx); err != nil {
		log.Panicln("failed to ensure database schema", "error", err)
	}
	cancel()

	a := &api.API{
		Config: cfg,
		Deps:   d,
		DB:     d.Pool(),
		ML:     d.ML,
	}

	go d.WebSocket.Run()
	go func() {
		log.Printf("Server running on port %v ...", cfg.Port)
		log.Fatal(a.Serve())
	}()

	stopChan := make(chan os.Signal, 1)
	signal.Notify(stopChan, os.Interrupt, syscall.SIGTERM, syscall.SIGINT)
	<-stopChan

	log.Println("Request to shutdown server. Doing nothing for ", allowConnectionsAfterShutdown)
	waitTimer := time.NewTimer(allowConnectionsAfterShutdown)
	<-waitTimer.C

	log.Println("Shutting down server...")

	if err := a.Shutdown(); err != nil {
		log.Println("server shutdown error:", err)
	}

	d.DB.Close()
	if err := d.Cache.Close(); err != nil {
		log.Println("cache close error:", err)
	}
	log.Println("Database connections closed.")
}
