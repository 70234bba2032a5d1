package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/HammerMeetNail/studentcomputing/internal/app"
	"github.com/HammerMeetNail/studentcomputing/internal/assets"
	"github.com/HammerMeetNail/studentcomputing/internal/config"
	"github.com/HammerMeetNail/studentcomputing/internal/handlers"
	"github.com/HammerMeetNail/studentcomputing/internal/logging"
)

func main() {
	if err := run(); err != nil {
		logging.Error("Application error", logging.Fields{"error": err.Error()})
		os.Exit(1)
	}
}

func run() error {
	logger := logging.New()

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	level, err := logging.ParseLevel(cfg.Server.LogLevel)
	if err != nil {
		logger.Warn("Invalid LOG_LEVEL; using info", logging.Fields{"value": cfg.Server.LogLevel})
	}
	logger.SetLevel(level)
	logging.SetDefaultLevel(level)

	logger.Info("Starting Student Computing Team server...", logging.Fields{
		"env":     cfg.Server.Environment,
		"storage": cfg.Storage.Driver,
	})

	backend, err := app.Open(cfg, logger)
	if err != nil {
		return err
	}
	defer backend.Close()
	backend.EnableRateLimitRedis(cfg, logger)

	board := backend.NewIdeaBoard(cfg, logger)
	startupCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	ideas := board.Load(startupCtx)
	cancel()
	logger.Info("Idea board loaded", logging.Fields{"count": len(ideas)})

	manifest := assets.NewManifest(cfg.Server.StaticDir)
	if err := manifest.Load(); err != nil {
		logger.Warn("Asset manifest unreadable; serving unhashed assets", logging.Fields{"error": err.Error()})
	}

	loc := cfg.Ideas.Location()
	pageHandler, err := handlers.NewPageHandler(cfg.Server.TemplatesDir, board, manifest, loc)
	if err != nil {
		return fmt.Errorf("loading templates: %w", err)
	}

	checks := make(map[string]handlers.HealthChecker, len(backend.Checks))
	for name, c := range backend.Checks {
		checks[name] = c
	}

	deps := routeDeps{
		Ideas:         handlers.NewIdeaHandler(board, loc, logger),
		Pages:         pageHandler,
		Health:        handlers.NewHealthHandler(checks),
		IdeaRateLimit: int64(cfg.Ideas.RateLimit),
		StaticDir:     cfg.Server.StaticDir,
		Secure:        cfg.Server.Secure,
		KeyPrefix:     cfg.Redis.KeyPrefix,
		Logger:        logger,
	}
	if backend.Redis != nil {
		deps.RateLimit = backend.Redis
	} else if cfg.Ideas.RateLimit > 0 {
		logger.Info("Idea rate limiting off; no Redis connection")
	}

	addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	server := &http.Server{
		Addr:         addr,
		Handler:      newRouter(deps),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Graceful shutdown
	done := make(chan struct{})
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		<-quit
		logger.Info("Server is shutting down...")

		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		server.SetKeepAlivesEnabled(false)
		if err := server.Shutdown(ctx); err != nil {
			logger.Error("Could not gracefully shutdown the server", logging.Fields{"error": err.Error()})
		}
		close(done)
	}()

	logger.Info("Server listening", logging.Fields{"addr": addr})
	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return fmt.Errorf("server error: %w", err)
	}

	<-done

	// Retry a write that failed while serving.
	if err := board.Flush(context.Background()); err != nil {
		logger.Error("Final idea board save failed", logging.Fields{"error": err.Error()})
	}
	logger.Info("Server stopped")
	return nil
}
