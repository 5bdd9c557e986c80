package main

// @title           Chat Relay API
// @version         1.0
// @description     Realtime chat relay: websocket fanout in front of an external message store
// @host            localhost:8080

import (
	"context"
	"fmt"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"chat-relay/internal/api/routes"
	"chat-relay/internal/auth"
	"chat-relay/internal/config"
	"chat-relay/internal/store"
	"chat-relay/internal/ws"
)

func main() {
	// Load configuration
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatal("Failed to load config:", err)
	}

	slog.Info("Starting chat relay")
	if cfg.Store.BaseURL == "" {
		slog.Warn("Message store URL not configured, profiles and persistence disabled")
	}
	if cfg.Auth.BotToken == "" {
		slog.Warn("Bot token not configured, init data signatures are not verified")
	}

	storeClient := store.NewClient(cfg.Store.BaseURL, cfg.Store.Timeout)
	extractor := auth.NewExtractor(cfg.Auth.BotToken)
	hub := ws.NewHub(ws.NewRegistry())

	// Initialize router with all dependencies
	router := routes.NewRouter(hub, extractor, storeClient)
	router.SetupRoutes()

	// Create HTTP server
	server := &http.Server{
		Addr:         fmt.Sprintf("%s:%s", cfg.Server.Host, cfg.Server.Port),
		Handler:      router.GetEngine(),
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	// Start server in a goroutine
	go func() {
		slog.Info("Server starting", "address", server.Addr)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.Error("Server failed to start", "error", err)
			os.Exit(1)
		}
	}()

	// Wait for interrupt signal to gracefully shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	slog.Info("Server shutting down...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		slog.Error("Server forced to shutdown", "error", err)
	}

	slog.Info("Server stopped")
}
