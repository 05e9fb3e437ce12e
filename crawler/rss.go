package crawler

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/mmcdole/gofeed"

	"reliefwatch/models"
)

// RSSCrawler crawls disaster-relief news items from a configured list of
// RSS/Atom feeds. Keyword search filters items across every configured
// feed; URL crawl parses a single feed URL and returns its newest item.
type RSSCrawler struct {
	feeds  []string
	parser *gofeed.Parser
}

// NewRSSCrawler creates a crawler over the given feed URLs.
func NewRSSCrawler(feeds []string) *RSSCrawler {
	return &RSSCrawler{
		feeds:  feeds,
		parser: gofeed.NewParser(),
	}
}

// Initialize is a no-op; feeds are fetched lazily per crawl.
func (r *RSSCrawler) Initialize(ctx context.Context) error { return nil }

// Shutdown is a no-op.
func (r *RSSCrawler) Shutdown() error { return nil }

// SearchByKeyword returns items from the configured feeds whose title or
// description mentions the query, newest feeds first, up to maxResults.
// A feed that fails to fetch is skipped; the others still contribute.
func (r *RSSCrawler) SearchByKeyword(ctx context.Context, query string, maxResults int) ([]*models.Post, error) {
	if len(r.feeds) == 0 {
		return nil, fmt.Errorf("rss crawler: no feeds configured (crawlers.rss.feeds)")
	}
	if maxResults <= 0 {
		maxResults = 10
	}

	query = strings.ToLower(query)
	var posts []*models.Post
	for _, feedURL := range r.feeds {
		if err := ctx.Err(); err != nil {
			return posts, err
		}

		feed, err := r.parser.ParseURLWithContext(feedURL, ctx)
		if err != nil {
			continue
		}

		for _, item := range feed.Items {
			if len(posts) >= maxResults {
				return posts, nil
			}
			if !itemMatches(item, query) {
				continue
			}
			if post := itemToPost(item, feed.Title); post != nil {
				posts = append(posts, post)
			}
		}
	}
	return posts, nil
}

// CrawlURL parses the URL as a feed and returns its newest item.
func (r *RSSCrawler) CrawlURL(ctx context.Context, url string) (*models.Post, error) {
	feed, err := r.parser.ParseURLWithContext(url, ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to parse feed %s: %w", url, err)
	}
	if len(feed.Items) == 0 {
		return nil, fmt.Errorf("feed has no items: %s", url)
	}
	post := itemToPost(feed.Items[0], feed.Title)
	if post == nil {
		return nil, fmt.Errorf("feed item has no usable identifier: %s", url)
	}
	return post, nil
}

func itemMatches(item *gofeed.Item, loweredQuery string) bool {
	if loweredQuery == "" {
		return true
	}
	return strings.Contains(strings.ToLower(item.Title), loweredQuery) ||
		strings.Contains(strings.ToLower(item.Description), loweredQuery)
}

// itemToPost converts a feed item, or returns nil when the item carries
// neither a GUID nor a link. An empty post id would collide with every
// other id-less item at dedup time.
func itemToPost(item *gofeed.Item, feedTitle string) *models.Post {
	id := item.GUID
	if id == "" {
		id = item.Link
	}
	if id == "" {
		return nil
	}

	content := item.Title
	if item.Description != "" {
		content += "\n" + item.Description
	}

	author := feedTitle
	if len(item.Authors) > 0 && item.Authors[0].Name != "" {
		author = item.Authors[0].Name
	}

	created := time.Now()
	if item.PublishedParsed != nil {
		created = *item.PublishedParsed
	} else if item.UpdatedParsed != nil {
		created = *item.UpdatedParsed
	}

	return models.NewPost(id, content, created, author, "RSS")
}
