package fixtures

import (
	"context"
	"fmt"
	"time"

	"github.com/brianvoe/gofakeit/v7"

	"blog-api/dto"
	"blog-api/models"
)

// PostFactory 는 gofakeit 으로 가짜 포스트를 만든다. 같은 seed 면 같은 순서로 같은 값이 나온다.
type PostFactory struct {
	faker *gofakeit.Faker
	start time.Time
	end   time.Time
}

func NewPostFactory(seed uint64) *PostFactory {
	end := time.Now().UTC()
	return &PostFactory{
		faker: gofakeit.New(seed),
		start: end.AddDate(-2, 0, 0),
		end:   end,
	}
}

// Faker exposes the underlying generator for ad-hoc values in tests.
func (f *PostFactory) Faker() *gofakeit.Faker {
	return f.faker
}

func (f *PostFactory) Author() models.Author {
	return models.Author{
		FirstName: f.faker.FirstName(),
		LastName:  f.faker.LastName(),
	}
}

// Post returns an unsaved post with a created time in the last two years.
func (f *PostFactory) Post() models.Post {
	return models.Post{
		Author:  f.Author(),
		Title:   f.faker.LoremIpsumSentence(6),
		Content: f.faker.LoremIpsumParagraph(2, 4, 12, "\n\n"),
		Created: f.faker.DateRange(f.start, f.end).UTC().Truncate(time.Millisecond),
	}
}

func (f *PostFactory) Posts(n int) []models.Post {
	out := make([]models.Post, 0, n)
	for i := 0; i < n; i++ {
		out = append(out, f.Post())
	}
	return out
}

// CreateRequest returns a POST /posts body.
func (f *PostFactory) CreateRequest() dto.CreatePostRequest {
	a := f.Author()
	return dto.CreatePostRequest{
		Author:  dto.AuthorInput{FirstName: a.FirstName, LastName: a.LastName},
		Title:   f.faker.LoremIpsumSentence(5),
		Content: f.faker.LoremIpsumParagraph(1, 3, 10, "\n"),
	}
}

// RandomCount returns a seed size in [min, max].
func RandomCount(f *PostFactory, min, max int) int {
	if max <= min {
		return min
	}
	return f.faker.IntRange(min, max)
}

// Inserter is the bulk write the seeding helpers need.
type Inserter interface {
	InsertMany(ctx context.Context, posts []*models.Post) error
}

// SeedPosts inserts n fake posts and returns them with their assigned ids.
func SeedPosts(ctx context.Context, store Inserter, f *PostFactory, n int) ([]models.Post, error) {
	if n <= 0 {
		return []models.Post{}, nil
	}
	posts := f.Posts(n)
	ptrs := make([]*models.Post, len(posts))
	for i := range posts {
		ptrs[i] = &posts[i]
	}
	if err := store.InsertMany(ctx, ptrs); err != nil {
		return nil, fmt.Errorf("seed %d posts: %w", n, err)
	}
	return posts, nil
}
