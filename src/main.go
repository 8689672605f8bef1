package main

import (
	"log"
	"log/slog"
	"os"
	"os/signal"

	"dirwatch/src/features/config"
	"dirwatch/src/features/hosting"
	"dirwatch/src/features/logging"
	"dirwatch/src/features/metrics"
	"dirwatch/src/features/records"
	"dirwatch/src/features/watching"
	"dirwatch/src/infra/database"
	"dirwatch/src/infra/registry"
	"dirwatch/src/infra/telegram"
	"dirwatch/src/infra/watcher"
	"dirwatch/src/watch"
)

func main() {
	// Load configuration
	cfgManager, err := config.Load("config.yaml")
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	// Setup default logger with slog
	logger := logging.SetupLogger(cfgManager)
	slog.SetDefault(logger)

	// Create the record stores
	recordRegistry := registry.NewInMemoryRegistry(cfgManager.Get().Records.Limit)
	var archive watch.Archive
	var sqliteArchive *database.SqliteArchive
	if cfgManager.Get().Archive.Enabled {
		sqliteArchive, err = database.NewSqliteArchive(cfgManager.Get().Archive.Path)
		if err != nil {
			log.Fatalf("failed to open record archive: %v", err)
		}
		defer sqliteArchive.Close()
		archive = sqliteArchive
	}

	// Create the telegram notifier if enabled
	var notifier watch.Notifier
	if cfgManager.Get().Telegram.Enabled {
		telegramNotifier, err := telegram.NewNotifier(cfgManager)
		if err != nil {
			slog.Error("Failed to initialize telegram notifier", "error", err)
		} else {
			notifier = telegramNotifier
		}
	}

	// Create the native watcher binding
	binding, err := watcher.New()
	if err != nil {
		log.Fatalf("failed to create watcher binding: %v", err)
	}
	defer binding.Close()

	// Create the services
	metricsService := metrics.NewService()
	watchingService := watching.NewService(binding, recordRegistry, archive, notifier, metricsService)
	recordsService := records.NewService(recordRegistry, archive)

	// Action and native-layer errors are the host's to handle; the core
	// neither retries nor swallows them.
	go func() {
		for err := range watchingService.Errors() {
			slog.Error("Watch error", "error", err)
		}
	}()

	// Arm the watches declared in the configuration
	for _, entry := range cfgManager.Get().Watches {
		reg, err := watchingService.Register(watching.Config{
			Path:      entry.Path,
			Regex:     entry.Regex,
			Glob:      entry.Glob,
			Recursive: entry.Recursive,
			Trigger:   watch.TriggerKind(entry.Trigger),
			Action: watching.Action{
				Kind:    watching.ActionKind(entry.Action.Kind),
				Command: entry.Action.Command,
				Message: entry.Action.Message,
			},
		})
		if err != nil {
			log.Fatalf("failed to arm configured watch on %s: %v", entry.Path, err)
		}
		slog.Info("Configured watch armed", "id", reg.ID, "path", entry.Path)
	}

	// Create and start the HTTP server
	server := hosting.NewServer(cfgManager, watchingService, recordsService, metricsService)
	go func() {
		if err := server.Start(); err != nil {
			slog.Error("Server stopped", "error", err)
		}
	}()
	slog.Info("Server started. Press Ctrl+C to shut down.", "port", cfgManager.Get().Server.Port)

	// Wait for a shutdown signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt)
	<-quit
	slog.Info("Shutting down...")

	if err := watchingService.Close(); err != nil {
		slog.Error("Failed to close watches", "error", err)
	}
	if err := server.Shutdown(); err != nil {
		log.Fatalf("failed to shutdown server: %v", err)
	}
	slog.Info("Server gracefully shut down.")
}
