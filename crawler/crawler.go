// Package crawler defines the content-source abstraction and the registry
// of available crawler implementations.
package crawler

import (
	"context"

	"reliefwatch/models"
)

// DataCrawler is implemented by every content source. Lifecycle hooks are
// only called for crawlers registered with RequiresInitialization; the two
// crawl operations are only called for crawlers whose registration declares
// the matching capability.
type DataCrawler interface {
	// Initialize prepares the crawler for use (API key checks, session
	// setup). Only called when the registration requires it.
	Initialize(ctx context.Context) error

	// Shutdown releases any resources held by the crawler.
	Shutdown() error

	// SearchByKeyword crawls posts matching the query, up to maxResults.
	SearchByKeyword(ctx context.Context, query string, maxResults int) ([]*models.Post, error)

	// CrawlURL crawls a single post from the given URL.
	CrawlURL(ctx context.Context, url string) (*models.Post, error)
}
