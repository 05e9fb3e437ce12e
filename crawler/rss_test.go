package crawler

import (
	"context"
	"testing"
	"time"

	"github.com/mmcdole/gofeed"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestItemToPost(t *testing.T) {
	published := time.Date(2026, 8, 15, 8, 0, 0, 0, time.UTC)
	item := &gofeed.Item{
		GUID:            "guid-1",
		Link:            "https://news.example.com/flood",
		Title:           "Flooding in the delta",
		Description:     "Relief teams dispatched",
		PublishedParsed: &published,
	}

	post := itemToPost(item, "Example News")
	require.NotNil(t, post)
	assert.Equal(t, "guid-1", post.PostID)
	assert.Equal(t, "Flooding in the delta\nRelief teams dispatched", post.Content)
	assert.Equal(t, "Example News", post.Author)
	assert.True(t, post.CreatedAt.Equal(published))
	assert.Equal(t, "RSS", post.Source)
}

func TestItemToPost_LinkFallsBackAsIdentifier(t *testing.T) {
	post := itemToPost(&gofeed.Item{Link: "https://news.example.com/storm", Title: "Storm"}, "Example News")
	require.NotNil(t, post)
	assert.Equal(t, "https://news.example.com/storm", post.PostID)
}

func TestItemToPost_NoIdentifierIsDropped(t *testing.T) {
	// An empty id would make every such item a duplicate of the first one.
	assert.Nil(t, itemToPost(&gofeed.Item{Title: "Untraceable item"}, "Example News"))
}

func TestRSSCrawler_NoFeedsConfigured(t *testing.T) {
	c := NewRSSCrawler(nil)
	_, err := c.SearchByKeyword(context.Background(), "storm", 5)
	assert.Error(t, err)
}
