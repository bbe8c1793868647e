package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"github.com/pageza/recipe-genius/backend/config"
	"github.com/pageza/recipe-genius/backend/internal/server"
	"github.com/pageza/recipe-genius/backend/pkg/logger"
)

func main() {
	// A missing .env is fine outside development
	_ = godotenv.Load()

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	l, err := logger.New(logger.Config{
		Level:       cfg.LogLevel,
		Format:      cfg.LogFormat,
		Development: cfg.Environment == config.Development,
	})
	if err != nil {
		log.Fatalf("Failed to create logger: %v", err)
	}
	defer l.Sync()

	srv, err := server.New(context.Background(), cfg, l)
	if err != nil {
		l.Fatal("failed to create server", zap.Error(err))
	}

	// Channel to listen for errors coming from the server
	errChan := make(chan error, 1)
	go func() {
		errChan <- srv.Start()
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errChan:
		if err != nil {
			l.Error("server error", zap.Error(err))
		}
	case sig := <-quit:
		l.Info("received signal", zap.String("signal", sig.String()))
	}

	l.Info("shutting down server")
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		l.Fatal("server shutdown error", zap.Error(err))
	}
	l.Info("server stopped")
}
