package eventbus

import (
	"context"
	"encoding/json"
	"errors"
	"time"
)

// RetryDelays는 다운스트림 컨슈머가 사용할 재시도 지연 시간 목록입니다.
// Event.MaxRetry 의 상한으로도 쓰입니다.
var RetryDelays = []time.Duration{
	10 * time.Second,
	30 * time.Second,
	1 * time.Minute,
	5 * time.Minute,
	10 * time.Minute,
}

// Topic은 토픽의 기본 이름과 DLQ 토픽 이름을 관리합니다.
type Topic struct {
	base string
}

func NewTopic(base string) Topic {
	return Topic{base: base}
}

func (t Topic) Base() string {
	return t.base
}

// DLQ는 DLQ 토픽 이름을 반환합니다 (예: post_events.dlq).
func (t Topic) DLQ() string {
	return t.base + ".dlq"
}

// Event는 Kafka 메시지의 페이로드로 사용되는 구조체입니다.
type Event struct {
	ID        string          `json:"id"`
	Type      string          `json:"type,omitempty"`
	Payload   json.RawMessage `json:"payload"`
	Retry     int             `json:"retry"`
	MaxRetry  int             `json:"max_retry"`
	LastError string          `json:"last_error,omitempty"`
}

// EventBus 인터페이스는 이벤트 발행의 추상화를 정의합니다.
type EventBus interface {
	Publish(ctx context.Context, topic string, event Event) error
	Close()
}

// ErrBusClosed는 닫힌 버스에 발행을 시도했을 때 반환됩니다.
var ErrBusClosed = errors.New("event bus closed")

// NopEventBus는 브로커가 설정되지 않았을 때 사용하는 구현체입니다. 모든 이벤트를 버립니다.
type NopEventBus struct{}

func (NopEventBus) Publish(ctx context.Context, topic string, event Event) error { return nil }
func (NopEventBus) Close()                                                     {}
