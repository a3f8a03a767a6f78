package eventbus

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/confluentinc/confluent-kafka-go/v2/kafka"

	"blog-api/internal/logger"
)

const HeaderEventType = "event-type"

// Handler processes one event. 에러를 반환하면 재시도 후 DLQ 로 보낸다.
type Handler func(ctx context.Context, evt Event) error

// HandleWithRetry runs h until it succeeds or evt.MaxRetry retries are used up.
// 재시도 사이에는 delays[retry] 만큼 기다린다. 마지막 에러와 시도 횟수가 담긴 이벤트를 돌려준다.
func HandleWithRetry(ctx context.Context, evt Event, h Handler, delays []time.Duration) (Event, error) {
	for {
		err := h(ctx, evt)
		if err == nil {
			return evt, nil
		}
		evt.LastError = err.Error()
		if evt.Retry >= evt.MaxRetry || evt.Retry >= len(delays) {
			return evt, err
		}
		select {
		case <-time.After(delays[evt.Retry]):
		case <-ctx.Done():
			return evt, ctx.Err()
		}
		evt.Retry++
	}
}

// KafkaSubscriber 는 토픽을 구독해 Handler 로 넘기고, 실패한 이벤트를 DLQ 토픽으로 보낸다.
type KafkaSubscriber struct {
	consumer *kafka.Consumer
	topic    Topic
	dlq      EventBus
	delays   []time.Duration
}

func NewKafkaSubscriber(brokers, groupID string, topic Topic, dlq EventBus) (*KafkaSubscriber, error) {
	c, err := kafka.NewConsumer(&kafka.ConfigMap{
		"bootstrap.servers":  brokers,
		"group.id":           groupID,
		"auto.offset.reset":  "earliest",
		"enable.auto.commit": true,
		"session.timeout.ms": 6000,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create kafka consumer: %w", err)
	}
	if err := c.SubscribeTopics([]string{topic.Base()}, nil); err != nil {
		c.Close()
		return nil, fmt.Errorf("failed to subscribe to topics: %w", err)
	}
	if dlq == nil {
		dlq = NopEventBus{}
	}
	return &KafkaSubscriber{consumer: c, topic: topic, dlq: dlq, delays: RetryDelays}, nil
}

// Run blocks until ctx is cancelled.
func (s *KafkaSubscriber) Run(ctx context.Context, h Handler) error {
	logger.Log.Infof("subscribed to topic %s", s.topic.Base())
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		msg, err := s.consumer.ReadMessage(100 * time.Millisecond)
		if err != nil {
			var kerr kafka.Error
			if errors.As(err, &kerr) && kerr.Code() == kafka.ErrTimedOut {
				continue
			}
			logger.Log.Errorf("consumer error: %v", err)
			continue
		}
		s.process(ctx, msg, h)
	}
}

func (s *KafkaSubscriber) process(ctx context.Context, msg *kafka.Message, h Handler) {
	evt, err := decodeMessage(msg.Value, msg.Headers)
	if err != nil {
		logger.Log.Errorf("failed to decode message at %v: %v", msg.TopicPartition, err)
		return
	}

	evt, err = HandleWithRetry(ctx, evt, h, s.delays)
	if err == nil || errors.Is(err, context.Canceled) {
		return
	}
	logger.ErrorWithFields("event handling failed, sending to DLQ", logger.Fields{
		"event_id": evt.ID,
		"type":     evt.Type,
		"retry":    evt.Retry,
		"error":    evt.LastError,
	})
	if err := s.dlq.Publish(ctx, s.topic.DLQ(), evt); err != nil {
		logger.Log.Errorf("failed to publish to DLQ %s: %v", s.topic.DLQ(), err)
	}
}

// decodeMessage 는 메시지 값을 Event 로 읽고, 페이로드에 type 이 없으면 헤더에서 채운다.
func decodeMessage(value []byte, headers []kafka.Header) (Event, error) {
	var evt Event
	if err := json.Unmarshal(value, &evt); err != nil {
		return Event{}, fmt.Errorf("event unmarshal 실패: %w", err)
	}
	if evt.Type == "" {
		for _, h := range headers {
			if h.Key == HeaderEventType {
				evt.Type = string(h.Value)
				break
			}
		}
	}
	return evt, nil
}

func (s *KafkaSubscriber) Close() error {
	if err := s.consumer.Close(); err != nil {
		return fmt.Errorf("failed to close consumer: %w", err)
	}
	logger.Log.Info("kafka consumer closed")
	return nil
}
