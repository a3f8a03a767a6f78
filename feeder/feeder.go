package feeder

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/mmcdole/gofeed"
)

// FeedItem 은 피드 항목 중 포스트로 가져올 때 필요한 필드만 담는다.
type FeedItem struct {
	Title       string
	Link        string
	Content     string
	AuthorName  string
	PublishedAt time.Time
}

var defaultClient = &http.Client{Timeout: 30 * time.Second}

// FetchFeedItems fetches an RSS/Atom feed from the given URL.
// If limit is greater than 0, it returns only the first limit items.
func FetchFeedItems(ctx context.Context, feedURL string, limit int) ([]FeedItem, error) {
	return FetchFeedItemsWithClient(ctx, defaultClient, feedURL, limit)
}

func FetchFeedItemsWithClient(ctx context.Context, client *http.Client, feedURL string, limit int) ([]FeedItem, error) {
	fp := gofeed.NewParser()
	fp.Client = client

	feed, err := fp.ParseURLWithContext(feedURL, ctx)
	if err != nil {
		return nil, err
	}

	var feedAuthor string
	if feed.Author != nil {
		feedAuthor = feed.Author.Name
	}

	items := make([]FeedItem, 0, len(feed.Items))
	for _, item := range feed.Items {
		var published time.Time
		if item.PublishedParsed != nil {
			published = *item.PublishedParsed
		} else if item.UpdatedParsed != nil {
			published = *item.UpdatedParsed
		}

		content := item.Content
		if strings.TrimSpace(content) == "" {
			content = item.Description
		}

		items = append(items, FeedItem{
			Title:       strings.TrimSpace(item.Title),
			Link:        item.Link,
			Content:     content,
			AuthorName:  authorName(item, feedAuthor),
			PublishedAt: published,
		})
	}

	if limit > 0 && len(items) > limit {
		items = items[:limit]
	}

	return items, nil
}

func authorName(item *gofeed.Item, fallback string) string {
	if item.Author != nil && item.Author.Name != "" {
		return item.Author.Name
	}
	for _, a := range item.Authors {
		if a != nil && a.Name != "" {
			return a.Name
		}
	}
	return fallback
}
