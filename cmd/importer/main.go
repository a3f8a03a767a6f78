package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"blog-api/config"
	"blog-api/db"
	"blog-api/eventbus"
	"blog-api/internal/logger"
	"blog-api/renderer"
	"blog-api/repositories"
	"blog-api/services"
)

func main() {
	config.InitApp()
	cfg := config.GetConfig()
	config.InitLogger(cfg.Logging)

	if err := run(cfg); err != nil {
		logger.Log.Errorf("%v", err)
		os.Exit(1)
	}
}

func run(cfg config.AppConfig) error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if len(cfg.Importer.Feeds) == 0 {
		logger.Log.Info("no feeds configured in config.yaml (key: importer.feeds)")
		return nil
	}

	if err := db.Init(ctx); err != nil {
		return fmt.Errorf("failed to initialize MongoDB: %w", err)
	}
	defer db.Close(context.Background())

	bus, err := eventbus.New(cfg.Kafka)
	if err != nil {
		return fmt.Errorf("failed to create event bus: %w", err)
	}
	defer bus.Close()

	svc := services.NewPostService(
		repositories.NewPostRepository(db.Database()),
		bus,
		services.WithTopic(cfg.Kafka.Topic),
	)

	stats := newImporter(svc, cfg.Importer, renderer.RenderHTML).Run(ctx, cfg.Importer.Feeds)
	logger.InfoWithFields("import finished", logger.Fields{
		"fetched":  stats.Fetched,
		"imported": stats.Imported,
		"skipped":  stats.Skipped,
		"failed":   stats.Failed,
	})
	return nil
}
