package main

import (
	"context"
	"log/slog"
	"os"

	_ "github.com/kirinyoku/hemolink/docs"
	"github.com/kirinyoku/hemolink/internal/app"
	"github.com/kirinyoku/hemolink/internal/config"
)

// @title HemoLink API
// @version 1.0
// @description Coordination backend for blood donation: venue inventory, appointment scheduling and donation camps.
// @host localhost:8080
// @BasePath /
func main() {
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))

	cfg, err := config.New()
	if err != nil {
		logger.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	application, err := app.New(cfg, logger)
	if err != nil {
		logger.Error("failed to create application", "error", err)
		os.Exit(1)
	}

	if err := application.Run(context.Background()); err != nil {
		logger.Error("application finished with error", "error", err)
		os.Exit(1)
	}
}
