package repositories

import (
	"context"
	"sort"
	"sync"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"blog-api/models"
)

// MemoryPostRepository 는 Mongo 없이 돌리는 테스트/로컬용 저장소다.
// PostRepository 와 같은 정렬, 에러 규칙을 따른다.
type MemoryPostRepository struct {
	mu    sync.RWMutex
	posts map[primitive.ObjectID]models.Post
}

func NewMemoryPostRepository() *MemoryPostRepository {
	return &MemoryPostRepository{posts: map[primitive.ObjectID]models.Post{}}
}

func (r *MemoryPostRepository) Insert(ctx context.Context, p *models.Post) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.insertLocked(p)
}

func (r *MemoryPostRepository) insertLocked(p *models.Post) error {
	if p.SourceLink != "" {
		for _, existing := range r.posts {
			if existing.SourceLink == p.SourceLink {
				return ErrDuplicatePost
			}
		}
	}
	prepareInsert(p)
	if _, ok := r.posts[p.ID]; ok {
		return ErrDuplicatePost
	}
	r.posts[p.ID] = *p
	return nil
}

func (r *MemoryPostRepository) InsertMany(ctx context.Context, posts []*models.Post) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, p := range posts {
		if err := r.insertLocked(p); err != nil {
			return err
		}
	}
	return nil
}

func (r *MemoryPostRepository) FindByID(ctx context.Context, id primitive.ObjectID) (*models.Post, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	p, ok := r.posts[id]
	if !ok {
		return nil, ErrPostNotFound
	}
	return &p, nil
}

func (r *MemoryPostRepository) ExistsBySourceLink(ctx context.Context, link string) (bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, p := range r.posts {
		if p.SourceLink == link {
			return true, nil
		}
	}
	return false, nil
}

func (r *MemoryPostRepository) List(ctx context.Context) ([]models.Post, error) {
	r.mu.RLock()
	out := make([]models.Post, 0, len(r.posts))
	for _, p := range r.posts {
		out = append(out, p)
	}
	r.mu.RUnlock()

	sort.Slice(out, func(i, j int) bool {
		if !out[i].Created.Equal(out[j].Created) {
			return out[i].Created.After(out[j].Created)
		}
		return out[i].ID.Hex() > out[j].ID.Hex()
	})
	return out, nil
}

func (r *MemoryPostRepository) Count(ctx context.Context) (int64, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return int64(len(r.posts)), nil
}

func (r *MemoryPostRepository) Update(ctx context.Context, id primitive.ObjectID, u PostUpdate) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.posts[id]
	if !ok {
		return ErrPostNotFound
	}
	if u.Title != nil {
		p.Title = *u.Title
	}
	if u.Content != nil {
		p.Content = *u.Content
	}
	p.UpdatedAt = now()
	r.posts[id] = p
	return nil
}

func (r *MemoryPostRepository) Delete(ctx context.Context, id primitive.ObjectID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.posts[id]; !ok {
		return ErrPostNotFound
	}
	delete(r.posts, id)
	return nil
}

func (r *MemoryPostRepository) DeleteAll(ctx context.Context) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	n := int64(len(r.posts))
	r.posts = map[primitive.ObjectID]models.Post{}
	return n, nil
}
