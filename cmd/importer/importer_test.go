package main

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"blog-api/config"
	"blog-api/feeder"
	"blog-api/parser"
	"blog-api/repositories"
	"blog-api/services"
)

func TestImporterRun(t *testing.T) {
	ctx := context.Background()
	repo := repositories.NewMemoryPostRepository()
	svc := services.NewPostService(repo, nil)

	published := time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC)
	var rendered []string
	im := &Importer{
		posts: svc,
		fetch: func(ctx context.Context, url string, limit int) ([]feeder.FeedItem, error) {
			if url == "https://broken.example.com/feed" {
				return nil, errors.New("timeout")
			}
			return []feeder.FeedItem{
				{Title: "With content", Link: "https://blog.example.com/a", Content: "<p>Body A</p>", AuthorName: "Jane Doe", PublishedAt: published},
				{Title: "Needs render", Link: "https://blog.example.com/b", AuthorName: "Rob"},
				{Title: "No link", Content: "<p>x</p>"},
			}, nil
		},
		render: func(ctx context.Context, url string) (string, error) {
			rendered = append(rendered, url)
			return "<html><body><p>Rendered B</p></body></html>", nil
		},
		extract: parser.ExtractText,
		limit:   10,
	}

	feeds := []config.FeedSource{
		{Name: "Example", URL: "https://blog.example.com/feed"},
		{Name: "Broken", URL: "https://broken.example.com/feed"},
	}
	stats := im.Run(ctx, feeds)
	assert.Equal(t, Stats{Fetched: 3, Imported: 2, Skipped: 0, Failed: 2}, stats)
	assert.Equal(t, []string{"https://blog.example.com/b"}, rendered)

	posts, err := repo.List(ctx)
	require.NoError(t, err)
	require.Len(t, posts, 2)
	byLink := map[string]string{}
	for _, p := range posts {
		byLink[p.SourceLink] = p.Author.FullName()
		if p.SourceLink == "https://blog.example.com/a" {
			assert.True(t, p.Created.Equal(published))
			assert.Contains(t, p.Content, "Body A")
		}
	}
	assert.Equal(t, "Jane Doe", byLink["https://blog.example.com/a"])
	assert.Equal(t, "Rob Example", byLink["https://blog.example.com/b"])

	again := im.Run(ctx, feeds[:1])
	assert.Equal(t, 2, again.Skipped)
	assert.Equal(t, 0, again.Imported)
}

func TestNewImporterRenderToggle(t *testing.T) {
	render := func(ctx context.Context, url string) (string, error) { return "", nil }

	off := newImporter(nil, config.ImporterConfig{Limit: 5}, render)
	assert.Nil(t, off.render)
	assert.Equal(t, 5, off.limit)

	on := newImporter(nil, config.ImporterConfig{RenderMissingContent: true}, render)
	assert.NotNil(t, on.render)
}

func TestRunWithoutFeedsIsNoop(t *testing.T) {
	assert.NoError(t, run(config.AppConfig{}))
}
