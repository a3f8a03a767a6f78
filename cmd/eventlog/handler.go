package main

import (
	"context"

	"blog-api/eventbus"
	"blog-api/events"
	"blog-api/internal/logger"
)

// logEvent 는 이벤트를 타입별 구조체로 풀어 한 줄 로그로 남긴다.
func logEvent(ctx context.Context, evt eventbus.Event) error {
	fields, err := eventFields(evt)
	if err != nil {
		return err
	}
	logger.InfoWithFields("post event", fields)
	return nil
}

func eventFields(evt eventbus.Event) (logger.Fields, error) {
	decoded, err := events.DeserializeEvent(events.EventType(evt.Type), evt.Payload)
	if err != nil {
		return nil, err
	}

	fields := logger.Fields{"event_id": evt.ID, "type": evt.Type}
	switch e := decoded.(type) {
	case *events.PostCreatedEvent:
		fields["post_id"] = e.PostID
		fields["author"] = e.Author
		fields["title"] = e.Title
		if e.SourceLink != "" {
			fields["source_link"] = e.SourceLink
		}
	case *events.PostUpdatedEvent:
		fields["post_id"] = e.PostID
		fields["updated_fields"] = e.UpdatedFields
	case *events.PostDeletedEvent:
		fields["post_id"] = e.PostID
	}
	return fields, nil
}
