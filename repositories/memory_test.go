package repositories

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"blog-api/models"
)

func memPost(title string, created time.Time) *models.Post {
	return &models.Post{
		Author:  models.Author{FirstName: "Jane", LastName: "Doe"},
		Title:   title,
		Content: "body",
		Created: created,
	}
}

func TestMemoryPostRepositoryLifecycle(t *testing.T) {
	ctx := context.Background()
	repo := NewMemoryPostRepository()

	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	older := memPost("older", base)
	newer := memPost("newer", base.Add(time.Hour))
	require.NoError(t, repo.InsertMany(ctx, []*models.Post{older, newer}))
	assert.False(t, older.ID.IsZero())

	list, err := repo.List(ctx)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "newer", list[0].Title)

	title := "changed"
	require.NoError(t, repo.Update(ctx, older.ID, PostUpdate{Title: &title}))
	got, err := repo.FindByID(ctx, older.ID)
	require.NoError(t, err)
	assert.Equal(t, "changed", got.Title)
	assert.Equal(t, "body", got.Content)
	assert.Equal(t, base, got.Created)

	require.NoError(t, repo.Delete(ctx, older.ID))
	_, err = repo.FindByID(ctx, older.ID)
	assert.ErrorIs(t, err, ErrPostNotFound)
	assert.ErrorIs(t, repo.Delete(ctx, older.ID), ErrPostNotFound)
	assert.ErrorIs(t, repo.Update(ctx, primitive.NewObjectID(), PostUpdate{Title: &title}), ErrPostNotFound)

	n, err := repo.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)
}

func TestMemoryPostRepositorySourceLinkIsUnique(t *testing.T) {
	ctx := context.Background()
	repo := NewMemoryPostRepository()

	p := memPost("a", time.Time{})
	p.SourceLink = "https://example.com/a"
	require.NoError(t, repo.Insert(ctx, p))

	exists, err := repo.ExistsBySourceLink(ctx, "https://example.com/a")
	require.NoError(t, err)
	assert.True(t, exists)

	dup := memPost("b", time.Time{})
	dup.SourceLink = "https://example.com/a"
	assert.ErrorIs(t, repo.Insert(ctx, dup), ErrDuplicatePost)
}
