package feeder_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"blog-api/feeder"
)

const atomFeed = `<?xml version="1.0" encoding="utf-8"?>
<feed xmlns="http://www.w3.org/2005/Atom">
  <title>Example Blog</title>
  <author><name>Blog Team</name></author>
  <entry>
    <title>First entry</title>
    <link href="https://blog.example.com/first"/>
    <author><name>Jane Doe</name></author>
    <published>2024-03-01T10:00:00Z</published>
    <content type="html">&lt;p&gt;Hello world&lt;/p&gt;</content>
  </entry>
  <entry>
    <title>Second entry</title>
    <link href="https://blog.example.com/second"/>
    <updated>2024-03-02T10:00:00Z</updated>
    <summary>Short summary</summary>
  </entry>
  <entry>
    <title>Third entry</title>
    <link href="https://blog.example.com/third"/>
    <updated>2024-03-03T10:00:00Z</updated>
  </entry>
</feed>`

func newFeedServer(t *testing.T) *httptest.Server {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/atom+xml")
		_, _ = w.Write([]byte(atomFeed))
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestFetchFeedItems(t *testing.T) {
	srv := newFeedServer(t)

	items, err := feeder.FetchFeedItems(context.Background(), srv.URL, 0)
	require.NoError(t, err)
	require.Len(t, items, 3)

	first := items[0]
	assert.Equal(t, "First entry", first.Title)
	assert.Equal(t, "https://blog.example.com/first", first.Link)
	assert.Equal(t, "Jane Doe", first.AuthorName)
	assert.Contains(t, first.Content, "Hello world")
	assert.True(t, first.PublishedAt.Equal(time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC)))

	second := items[1]
	assert.Equal(t, "Blog Team", second.AuthorName)
	assert.Equal(t, "Short summary", second.Content)
	assert.True(t, second.PublishedAt.Equal(time.Date(2024, 3, 2, 10, 0, 0, 0, time.UTC)))
}

func TestFetchFeedItemsLimit(t *testing.T) {
	srv := newFeedServer(t)

	items, err := feeder.FetchFeedItems(context.Background(), srv.URL, 2)
	require.NoError(t, err)
	assert.Len(t, items, 2)
}

func TestFetchFeedItemsBadStatus(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	t.Cleanup(srv.Close)

	_, err := feeder.FetchFeedItems(context.Background(), srv.URL, 0)
	assert.Error(t, err)
}
