package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/tendant/channel-keeper/internal/config"
	httpserver "github.com/tendant/channel-keeper/internal/http"
	"github.com/tendant/channel-keeper/internal/notification"
	"github.com/tendant/channel-keeper/internal/reconcile"
	"github.com/tendant/channel-keeper/internal/slack"
)

func main() {
	// Load .env file if present (ignore error if not found)
	_ = godotenv.Load()

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load configuration", "error", err)
		os.Exit(1)
	}

	// Setup logger
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: cfg.LogLevel,
	}))
	slog.SetDefault(logger)

	// Initialize Slack client
	client := slack.NewClient(slack.Config{
		BotToken: cfg.SlackBotToken,
		BaseURL:  cfg.SlackAPIBaseURL,
		Timeout:  cfg.SlackTimeout,
	})

	// Initialize reconciliation services
	resolver := reconcile.NewResolver(client, cfg.ChannelName, cfg.ChannelPageLimit)
	notifier := notification.NewDMService(client, cfg.DMNote)
	enforcer := reconcile.NewEnforcer(logger, client, notifier)
	reconciler := reconcile.NewReconciler(logger, resolver, enforcer)

	// Create router
	router := httpserver.NewRouter(httpserver.RouterConfig{
		Logger:             logger,
		Reconciler:         reconciler,
		SigningSecret:      cfg.SlackSigningSecret,
		RateLimit:          cfg.RateLimit,
		MaxRequestBodySize: cfg.MaxRequestBodySize,
	})

	// Create HTTP server
	addr := fmt.Sprintf("%s:%d", cfg.ServerAddr, cfg.ServerPort)
	server := &http.Server{
		Addr:         addr,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start server in goroutine
	go func() {
		logger.Info("starting server", "addr", addr, "channel", cfg.ChannelName)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("shutting down server")

	// Graceful shutdown with timeout
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		logger.Error("server shutdown error", "error", err)
	}

	logger.Info("server stopped")
}
