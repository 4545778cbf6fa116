package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
)

func main() {
	if err := godotenv.Load(); err == nil {
		log.Println("Loaded configuration from .env")
	}

	cfg := LoadConfig()

	if err := os.MkdirAll(cfg.DownloadsDir, 0o755); err != nil {
		log.Fatalf("❌ Cannot create downloads directory %s: %v", cfg.DownloadsDir, err)
	}

	cache := newInfoCache(cfg)
	runner := newProcessRunner(cfg.Auth)
	service := NewMediaService(cfg, runner, cache)
	server := NewServer(cfg, service)

	httpServer := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: server.Router(),
	}

	go func() {
		log.Printf("🚀 YouTube Downloader API running at http://localhost:%s", cfg.Port)
		log.Printf("📁 Downloads will be saved to: %s", cfg.DownloadsDir)
		if cfg.Environment == "production" {
			log.Println("🔒 Running in production mode")
		}
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("❌ Server error: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	sig := <-quit

	log.Printf("🛑 %s received. Shutting down gracefully...", sig)

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		log.Printf("Could not close connections in time, forcefully shutting down: %v", err)
	}
	log.Println("✅ HTTP server closed")
}
