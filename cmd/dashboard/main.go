package main

import (
	"log/slog"
	"os"

	"hospital-dashboard/internal/app"
	"hospital-dashboard/internal/config"
	"hospital-dashboard/internal/logger"
)

func main() {
	level := config.LevelFromEnv()
	logHandler := logger.NewPrettyHandler(os.Stdout, &slog.HandlerOptions{
		Level: level,
	})
	slog.SetDefault(slog.New(logHandler))

	application, err := app.New()
	if err != nil {
		slog.Error("failed to initialize application", "error", err)
		os.Exit(1)
	}

	if err := application.Run(); err != nil {
		slog.Error("application run failed", "error", err)
		os.Exit(1)
	}
}
