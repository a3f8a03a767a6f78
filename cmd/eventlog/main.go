package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"blog-api/config"
	"blog-api/eventbus"
	"blog-api/internal/logger"
)

// eventlog 는 post_events 토픽을 구독해 포스트 변경 이력을 구조화 로그로 남긴다.
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
	if cfg.Kafka.BootstrapServers == "" {
		return errors.New("KAFKA_BOOTSTRAP_SERVERS is required")
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	dlq, err := eventbus.New(cfg.Kafka)
	if err != nil {
		return fmt.Errorf("failed to create DLQ producer: %w", err)
	}
	defer dlq.Close()

	sub, err := eventbus.NewKafkaSubscriber(cfg.Kafka.BootstrapServers, cfg.Kafka.GroupID, eventbus.NewTopic(cfg.Kafka.Topic), dlq)
	if err != nil {
		return err
	}
	defer sub.Close()

	if err := sub.Run(ctx, logEvent); err != nil && !errors.Is(err, context.Canceled) {
		return fmt.Errorf("subscriber stopped: %w", err)
	}
	return nil
}
