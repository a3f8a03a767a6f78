package services

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"blog-api/dto"
	"blog-api/eventbus"
	"blog-api/events"
	"blog-api/internal/logger"
	"blog-api/models"
	"blog-api/repositories"
)

const (
	DefaultEventTopic = "post_events"
	eventSource       = "blog-api"

	// DefaultPublishTimeout 은 이벤트 발행 한 건이 쓰기 요청을 붙잡을 수 있는 최대 시간이다.
	DefaultPublishTimeout = 2 * time.Second
)

var (
	ErrInvalidPostID   = errors.New("invalid_post_id")
	ErrPostNotFound    = repositories.ErrPostNotFound
	ErrIDMismatch      = errors.New("post_id_mismatch")
	ErrNothingToUpdate = errors.New("nothing_to_update")
)

// PostStore 는 PostService 가 필요로 하는 저장소 연산이다.
// repositories.PostRepository 가 이를 만족한다.
type PostStore interface {
	Insert(ctx context.Context, p *models.Post) error
	FindByID(ctx context.Context, id primitive.ObjectID) (*models.Post, error)
	ExistsBySourceLink(ctx context.Context, link string) (bool, error)
	List(ctx context.Context) ([]models.Post, error)
	Count(ctx context.Context) (int64, error)
	Update(ctx context.Context, id primitive.ObjectID, u repositories.PostUpdate) error
	Delete(ctx context.Context, id primitive.ObjectID) error
}

// PostService encapsulates business logic for posts and DTO mapping
type PostService struct {
	store PostStore
	bus   eventbus.EventBus
	topic string

	publishTimeout time.Duration
}

type Option func(*PostService)

// WithTopic overrides the topic post events are published to.
func WithTopic(topic string) Option {
	return func(s *PostService) {
		if topic != "" {
			s.topic = topic
		}
	}
}

// WithPublishTimeout bounds how long a write waits for its event to be published.
func WithPublishTimeout(d time.Duration) Option {
	return func(s *PostService) {
		if d > 0 {
			s.publishTimeout = d
		}
	}
}

func NewPostService(store PostStore, bus eventbus.EventBus, opts ...Option) *PostService {
	if bus == nil {
		bus = eventbus.NopEventBus{}
	}
	s := &PostService{store: store, bus: bus, topic: DefaultEventTopic, publishTimeout: DefaultPublishTimeout}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func parseID(hexID string) (primitive.ObjectID, error) {
	id, err := primitive.ObjectIDFromHex(hexID)
	if err != nil {
		return primitive.NilObjectID, ErrInvalidPostID
	}
	return id, nil
}

// List returns every post, newest first. 비어 있으면 빈 슬라이스를 반환한다.
func (s *PostService) List(ctx context.Context) ([]dto.PostDTO, error) {
	items, err := s.store.List(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]dto.PostDTO, 0, len(items))
	for _, p := range items {
		out = append(out, dto.NewPostDTO(p))
	}
	return out, nil
}

// Count returns the number of stored posts.
func (s *PostService) Count(ctx context.Context) (int64, error) {
	return s.store.Count(ctx)
}

// Get loads a post by its ObjectID hex and returns a DTO
func (s *PostService) Get(ctx context.Context, hexID string) (*dto.PostDTO, error) {
	id, err := parseID(hexID)
	if err != nil {
		return nil, err
	}
	p, err := s.store.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	d := dto.NewPostDTO(*p)
	return &d, nil
}

// Create validates and stores a new post, then publishes post.created.
func (s *PostService) Create(ctx context.Context, req dto.CreatePostRequest) (*dto.PostDTO, error) {
	p := req.ToModel()
	if err := s.insert(ctx, &p); err != nil {
		return nil, err
	}
	d := dto.NewPostDTO(p)
	return &d, nil
}

// Import stores a post pulled from an external feed.
// 같은 source_link 가 이미 있으면 저장하지 않고 false 를 반환한다.
func (s *PostService) Import(ctx context.Context, p models.Post) (bool, error) {
	if p.SourceLink == "" {
		return false, errors.New("import requires a source link")
	}
	exists, err := s.store.ExistsBySourceLink(ctx, p.SourceLink)
	if err != nil {
		return false, err
	}
	if exists {
		return false, nil
	}
	if err := s.insert(ctx, &p); err != nil {
		if errors.Is(err, repositories.ErrDuplicatePost) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}

func (s *PostService) insert(ctx context.Context, p *models.Post) error {
	if err := p.Validate(); err != nil {
		return err
	}
	if err := s.store.Insert(ctx, p); err != nil {
		return err
	}
	base := events.NewBaseEvent(events.PostCreated, eventSource)
	s.publish(ctx, base, p.ID.Hex(), events.PostCreatedEvent{
		BaseEvent:  base,
		PostID:     p.ID.Hex(),
		Author:     p.Author.FullName(),
		Title:      p.Title,
		Created:    p.Created,
		SourceLink: p.SourceLink,
	})
	return nil
}

// Update applies a partial update. title/content 중 주어진 것만 바뀐다.
func (s *PostService) Update(ctx context.Context, hexID string, req dto.UpdatePostRequest) error {
	id, err := parseID(hexID)
	if err != nil {
		return err
	}
	if req.ID != nil && *req.ID != "" {
		bodyID, err := primitive.ObjectIDFromHex(*req.ID)
		if err != nil || bodyID != id {
			return ErrIDMismatch
		}
	}
	u := repositories.PostUpdate{Title: req.Title, Content: req.Content}
	if u.Empty() {
		return ErrNothingToUpdate
	}

	current, err := s.store.FindByID(ctx, id)
	if err != nil {
		return err
	}
	var fields []string
	if u.Title != nil {
		current.Title = *u.Title
		fields = append(fields, "title")
	}
	if u.Content != nil {
		current.Content = *u.Content
		fields = append(fields, "content")
	}
	if err := current.Validate(); err != nil {
		return err
	}

	if err := s.store.Update(ctx, id, u); err != nil {
		return err
	}
	base := events.NewBaseEvent(events.PostUpdated, eventSource)
	s.publish(ctx, base, hexID, events.PostUpdatedEvent{
		BaseEvent:     base,
		PostID:        hexID,
		UpdatedFields: fields,
	})
	return nil
}

// Delete removes a post and publishes post.deleted.
func (s *PostService) Delete(ctx context.Context, hexID string) error {
	id, err := parseID(hexID)
	if err != nil {
		return err
	}
	if err := s.store.Delete(ctx, id); err != nil {
		return err
	}
	base := events.NewBaseEvent(events.PostDeleted, eventSource)
	s.publish(ctx, base, hexID, events.PostDeletedEvent{
		BaseEvent: base,
		PostID:    hexID,
	})
	return nil
}

// publish 실패는 쓰기 결과에 영향을 주지 않는다. 로그만 남긴다.
// 요청 취소와 무관하게 publishTimeout 안에서만 기다린다.
func (s *PostService) publish(ctx context.Context, base events.BaseEvent, postID string, payload any) {
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), s.publishTimeout)
	defer cancel()

	evt, err := eventbus.NewJSONEvent(base.ID, payload, 0)
	if err == nil {
		evt.Type = string(base.Type)
		err = s.bus.Publish(ctx, s.topic, evt)
	}
	if err != nil {
		logger.ErrorWithFields("failed to publish post event", logger.Fields{
			"post_id": postID,
			"topic":   s.topic,
			"error":   err.Error(),
		})
	}
}
