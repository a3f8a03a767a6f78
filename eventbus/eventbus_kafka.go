package eventbus

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/confluentinc/confluent-kafka-go/v2/kafka"

	"blog-api/config"
	"blog-api/internal/logger"
)

// KafkaEventBus는 confluent-kafka-go 라이브러리를 사용한 EventBus 구현체입니다.
type KafkaEventBus struct {
	Producer *kafka.Producer
	Brokers  string

	closeOnce sync.Once
}

// New는 설정에 브로커가 있으면 Kafka 버스를, 없으면 NopEventBus를 반환합니다.
func New(cfg config.KafkaConfig) (EventBus, error) {
	if cfg.BootstrapServers == "" {
		logger.Log.Info("kafka bootstrap servers not configured, post events are not published")
		return NopEventBus{}, nil
	}
	if err := EnsureTopics(cfg.BootstrapServers, NewTopic(cfg.Topic), cfg.Partitions); err != nil {
		logger.Log.Warnf("failed to ensure topics: %v", err)
	}
	return NewKafkaEventBus(cfg.BootstrapServers)
}

const messageTimeoutMs = 10000

// NewKafkaEventBus는 Kafka Producer를 초기화합니다.
func NewKafkaEventBus(brokers string) (*KafkaEventBus, error) {
	// message.timeout.ms: 브로커 장애 시 전달 보고서가 이 시간 안에 실패로 돌아온다.
	p, err := kafka.NewProducer(&kafka.ConfigMap{
		"bootstrap.servers":  brokers,
		"acks":               "all",
		"retries":            5,
		"message.timeout.ms": messageTimeoutMs,
	})
	if err != nil {
		return nil, fmt.Errorf("kafka Producer 생성 실패: %w", err)
	}

	// 전달 보고서 중 deliveryChan 없이 발행된 것과 클라이언트 오류를 기록한다.
	go func() {
		for e := range p.Events() {
			switch ev := e.(type) {
			case *kafka.Message:
				if ev.TopicPartition.Error != nil {
					logger.Log.Errorf("메시지 전달 실패 %v: %v", ev.TopicPartition, ev.TopicPartition.Error)
				}
			case kafka.Error:
				logger.Log.Errorf("Kafka 오류: %v", ev)
			}
		}
	}()

	return &KafkaEventBus{
		Producer: p,
		Brokers:  brokers,
	}, nil
}

// Close는 Producer를 안전하게 종료합니다.
func (k *KafkaEventBus) Close() {
	k.closeOnce.Do(func() {
		if k.Producer == nil {
			return
		}
		// 5초 동안 남은 메시지를 모두 플러시합니다.
		if remaining := k.Producer.Flush(5000); remaining > 0 {
			logger.Log.Warnf("플러시 후에도 %d개의 메시지가 남아 있습니다.", remaining)
		}
		k.Producer.Close()
		logger.Log.Info("Kafka Producer 종료.")
	})
}

// Publish는 지정된 토픽에 이벤트를 발행하고 전달 보고서를 기다립니다.
func (k *KafkaEventBus) Publish(ctx context.Context, topic string, event Event) error {
	if k.Producer == nil || k.Producer.IsClosed() {
		return ErrBusClosed
	}
	data, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("이벤트 마샬링 실패: %w", err)
	}

	// 버퍼 1: ctx 취소로 먼저 반환해도 librdkafka 의 전달 보고서 쓰기가 막히지 않는다.
	deliveryChan := make(chan kafka.Event, 1)

	err = k.Producer.Produce(&kafka.Message{
		TopicPartition: kafka.TopicPartition{Topic: &topic, Partition: kafka.PartitionAny},
		Value:          data,
		Key:            []byte(event.ID),
		Headers:        messageHeaders(event),
	}, deliveryChan)
	if err != nil {
		return fmt.Errorf("메시지 발행 실패: %w", err)
	}

	select {
	case ev := <-deliveryChan:
		m, ok := ev.(*kafka.Message)
		if !ok {
			return fmt.Errorf("예상하지 못한 전달 보고서: %v", ev)
		}
		if m.TopicPartition.Error != nil {
			return fmt.Errorf("메시지 전달 실패: %w", m.TopicPartition.Error)
		}
	case <-ctx.Done():
		return ctx.Err()
	}

	return nil
}

// messageHeaders 는 컨슈머가 페이로드를 열지 않고 라우팅할 수 있도록 event-type 헤더를 붙인다.
func messageHeaders(event Event) []kafka.Header {
	if event.Type == "" {
		return nil
	}
	return []kafka.Header{{Key: HeaderEventType, Value: []byte(event.Type)}}
}
