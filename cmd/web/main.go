package main

import (
	"context"
	"log/slog"
	"os"

	"adpulse/internal/app"
	"adpulse/internal/infrastructure"
)

func main() {
	os.Exit(run())
}

func run() int {
	application, err := app.NewApplication(context.Background())
	if err != nil {
		slog.Error("Failed to initialize application", slog.String("error", err.Error()))
		return 1
	}
	defer infrastructure.CloseLogFile()

	if err := application.Run(); err != nil {
		application.Logger.Error("Application error", slog.String("error", err.Error()))
		return 1
	}
	return 0
}
