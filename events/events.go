package events

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// EventType 이벤트 타입 정의
type EventType string

const (
	PostCreated EventType = "post.created"
	PostUpdated EventType = "post.updated"
	PostDeleted EventType = "post.deleted"
)

// BaseEvent 모든 이벤트의 기본 구조
type BaseEvent struct {
	ID        string    `json:"id"`
	Type      EventType `json:"type"`
	Timestamp time.Time `json:"timestamp"`
	Source    string    `json:"source"`
	Version   string    `json:"version"`
}

// NewBaseEvent 는 uuid 기반 ID 와 현재 시각으로 BaseEvent 를 채운다.
func NewBaseEvent(t EventType, source string) BaseEvent {
	return BaseEvent{
		ID:        uuid.New().String(),
		Type:      t,
		Timestamp: time.Now(),
		Source:    source,
		Version:   "1.0",
	}
}

// PostCreatedEvent 포스트 생성 이벤트
type PostCreatedEvent struct {
	BaseEvent
	PostID     string    `json:"post_id"`
	Author     string    `json:"author"`
	Title      string    `json:"title"`
	Created    time.Time `json:"created"`
	SourceLink string    `json:"source_link,omitempty"`
}

// PostUpdatedEvent 포스트 수정 이벤트. 바뀐 필드 이름만 담는다.
type PostUpdatedEvent struct {
	BaseEvent
	PostID        string   `json:"post_id"`
	UpdatedFields []string `json:"updated_fields"`
}

// PostDeletedEvent 포스트 삭제 이벤트
type PostDeletedEvent struct {
	BaseEvent
	PostID string `json:"post_id"`
}

// DeserializeEvent 이벤트 타입에 따라 적절한 구조체로 역직렬화
func DeserializeEvent(eventType EventType, data []byte) (interface{}, error) {
	var event interface{}

	switch eventType {
	case PostCreated:
		event = &PostCreatedEvent{}
	case PostUpdated:
		event = &PostUpdatedEvent{}
	case PostDeleted:
		event = &PostDeletedEvent{}
	default:
		return nil, fmt.Errorf("unknown event type: %s", eventType)
	}

	if err := json.Unmarshal(data, event); err != nil {
		return nil, fmt.Errorf("failed to unmarshal event: %w", err)
	}

	return event, nil
}
