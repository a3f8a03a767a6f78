package main

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"blog-api/config"
	"blog-api/feeder"
	"blog-api/internal/logger"
	"blog-api/models"
	"blog-api/parser"
)

// PostImporter 는 가져온 포스트를 저장한다. services.PostService 가 이를 만족한다.
type PostImporter interface {
	Import(ctx context.Context, p models.Post) (bool, error)
}

type (
	fetchFunc   func(ctx context.Context, url string, limit int) ([]feeder.FeedItem, error)
	renderFunc  func(ctx context.Context, url string) (string, error)
	extractFunc func(html string) (string, error)
)

// Importer turns feed items into posts.
type Importer struct {
	posts   PostImporter
	fetch   fetchFunc
	render  renderFunc
	extract extractFunc
	limit   int
}

// Stats 는 한 번의 Run 결과다.
type Stats struct {
	Fetched  int
	Imported int
	Skipped  int
	Failed   int
}

// Run imports every configured feed. 한 피드나 항목의 실패는 로그만 남기고 계속 진행한다.
func (im *Importer) Run(ctx context.Context, feeds []config.FeedSource) Stats {
	var total Stats
	for _, f := range feeds {
		items, err := im.fetch(ctx, f.URL, im.limit)
		if err != nil {
			logger.ErrorWithFields("fetch feed failed", logger.Fields{"feed": f.Name, "url": f.URL, "error": err.Error()})
			total.Failed++
			continue
		}
		total.Fetched += len(items)

		for _, item := range items {
			created, err := im.importItem(ctx, f, item)
			switch {
			case err != nil:
				total.Failed++
				logger.WarnWithFields("import item failed", logger.Fields{"feed": f.Name, "link": item.Link, "error": err.Error()})
			case created:
				total.Imported++
			default:
				total.Skipped++
			}
		}
	}
	return total
}

func (im *Importer) importItem(ctx context.Context, f config.FeedSource, item feeder.FeedItem) (bool, error) {
	if item.Link == "" {
		return false, errors.New("item has no link")
	}

	html := item.Content
	if strings.TrimSpace(html) == "" {
		if im.render == nil {
			return false, errors.New("item has no content")
		}
		rendered, err := im.render(ctx, item.Link)
		if err != nil {
			return false, fmt.Errorf("render: %w", err)
		}
		html = rendered
	}

	text, err := im.extract(html)
	if err != nil {
		return false, fmt.Errorf("extract: %w", err)
	}

	p := models.Post{
		Author:     models.SplitAuthorName(item.AuthorName, f.Name),
		Title:      item.Title,
		Content:    text,
		SourceLink: item.Link,
	}
	if !item.PublishedAt.IsZero() {
		p.Created = item.PublishedAt.UTC().Truncate(time.Millisecond)
	}
	return im.posts.Import(ctx, p)
}

func newImporter(posts PostImporter, cfg config.ImporterConfig, render renderFunc) *Importer {
	im := &Importer{
		posts:   posts,
		fetch:   feeder.FetchFeedItems,
		extract: parser.ExtractText,
		limit:   cfg.Limit,
	}
	if cfg.RenderMissingContent {
		im.render = render
	}
	return im
}
