package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"blog-api/config"
	"blog-api/db"
	"blog-api/fixtures"
	"blog-api/internal/logger"
	"blog-api/repositories"
)

func main() {
	config.InitApp()
	cfg := config.GetConfig()
	config.InitLogger(cfg.Logging)

	count := flag.Int("count", cfg.Seed.Count, "number of fake posts to insert")
	drop := flag.Bool("drop", false, "delete existing posts before seeding")
	seed := flag.Uint64("seed", uint64(time.Now().UnixNano()), "gofakeit seed")
	flag.Parse()

	if err := run(cfg, *count, *drop, *seed); err != nil {
		logger.Log.Errorf("%v", err)
		os.Exit(1)
	}
}

func run(cfg config.AppConfig, count int, drop bool, seed uint64) error {
	ctx := context.Background()
	if err := db.Init(ctx); err != nil {
		return fmt.Errorf("failed to initialize MongoDB: %w", err)
	}
	defer db.Close(context.Background())

	repo := repositories.NewPostRepository(db.Database())
	if drop {
		n, err := repo.DeleteAll(ctx)
		if err != nil {
			return fmt.Errorf("failed to delete posts: %w", err)
		}
		logger.Log.Infof("deleted %d posts", n)
	}

	posts, err := fixtures.SeedPosts(ctx, repo, fixtures.NewPostFactory(seed), count)
	if err != nil {
		return err
	}
	logger.InfoWithFields("seeded posts", logger.Fields{
		"count": len(posts),
		"db":    cfg.Mongo.DBName,
		"seed":  seed,
	})
	return nil
}
