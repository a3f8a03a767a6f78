package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"blog-api/api/router"
	"blog-api/api/server"
	"blog-api/config"
	"blog-api/db"
	"blog-api/eventbus"
	"blog-api/internal/logger"
	"blog-api/repositories"
	"blog-api/services"
)

// @title           Blog API
// @version         1.0
// @description     CRUD API for blog posts
// @BasePath        /
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
	ctx := context.Background()

	store, health, closeStore, err := newPostStore(ctx, cfg.Mongo)
	if err != nil {
		return err
	}
	defer closeStore(context.Background())

	bus, err := eventbus.New(cfg.Kafka)
	if err != nil {
		return fmt.Errorf("failed to create event bus: %w", err)
	}
	defer bus.Close()

	svc := services.NewPostService(store, bus, services.WithTopic(cfg.Kafka.Topic))
	engine := router.New(router.Deps{Posts: svc, Health: health})

	srv := server.New(cfg.HTTP.Addr, router.CORS(engine, cfg.HTTP.CORSAllowedOrigins), logger.Log)
	if err := srv.Start(); err != nil {
		return fmt.Errorf("failed to start HTTP server: %w", err)
	}

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)

	var serveErr error
	select {
	case s := <-sig:
		logger.Log.Infof("received signal %s", s)
	case serveErr = <-srv.Errors():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.HTTP.ShutdownTimeout())
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Log.Errorf("graceful shutdown failed: %v", err)
	}
	if serveErr != nil {
		return fmt.Errorf("HTTP server stopped: %w", serveErr)
	}
	return nil
}

// newPostStore 는 mongo.uri 가 memory:// 이면 프로세스 내 저장소를, 아니면 Mongo 저장소를 연다.
func newPostStore(ctx context.Context, cfg config.MongoConfig) (services.PostStore, router.HealthCheck, func(context.Context) error, error) {
	if cfg.InMemory() {
		logger.Log.Warn("mongo.uri is memory://, posts are kept in process memory only")
		return repositories.NewMemoryPostRepository(), nil, func(context.Context) error { return nil }, nil
	}

	if err := db.Init(ctx); err != nil {
		return nil, nil, nil, fmt.Errorf("failed to initialize MongoDB: %w", err)
	}
	health := func(ctx context.Context) error { return db.Ping(ctx, db.Database()) }
	return repositories.NewPostRepository(db.Database()), health, db.Close, nil
}
